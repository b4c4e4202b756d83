package transcoder

import (
	"bytes"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/holiman/uint256"
)

// Token is a value ready for encoding, or the result of decoding. Only the
// fields relevant to Kind are set.
type Token struct {
	Enum  *EnumSelector
	Str   string
	Items []Token
	Words []uint64
	Bytes []byte
	Big   uint256.Int
	Uint  uint64
	// StrLen is the declared length of a string array.
	StrLen uint64
	Hash   [32]byte
	Kind   Kind
	Bool   bool
}

// EnumSelector picks one variant of an enum and carries its payload. The
// variant table travels with the value.
type EnumSelector struct {
	Value        Token
	Variants     EnumVariants
	Discriminant uint64
}

func UnitToken() Token           { return Token{Kind: KindUnit} }
func BoolToken(v bool) Token     { return Token{Kind: KindBool, Bool: v} }
func U8Token(v uint8) Token      { return Token{Kind: KindU8, Uint: uint64(v)} }
func U16Token(v uint16) Token    { return Token{Kind: KindU16, Uint: uint64(v)} }
func U32Token(v uint32) Token    { return Token{Kind: KindU32, Uint: uint64(v)} }
func U64Token(v uint64) Token    { return Token{Kind: KindU64, Uint: v} }
func B256Token(h [32]byte) Token { return Token{Kind: KindB256, Hash: h} }

// U128Token holds v, which must fit in 128 bits to encode.
func U128Token(v *uint256.Int) Token {
	t := Token{Kind: KindU128}
	t.Big.Set(v)
	return t
}

func U256Token(v *uint256.Int) Token {
	t := Token{Kind: KindU256}
	t.Big.Set(v)
	return t
}

// StringArrayToken is a fixed string whose declared length is len(s).
func StringArrayToken(s string) Token {
	return Token{Kind: KindStringArray, Str: s, StrLen: uint64(len(s))}
}

func StringSliceToken(s string) Token {
	return Token{Kind: KindStringSlice, Str: s}
}

func ArrayToken(items ...Token) Token  { return Token{Kind: KindArray, Items: items} }
func VectorToken(items ...Token) Token { return Token{Kind: KindVector, Items: items} }
func TupleToken(items ...Token) Token  { return Token{Kind: KindTuple, Items: items} }
func StructToken(items ...Token) Token { return Token{Kind: KindStruct, Items: items} }

func BytesToken(b []byte) Token       { return Token{Kind: KindBytes, Bytes: b} }
func RawSliceToken(w ...uint64) Token { return Token{Kind: KindRawSlice, Words: w} }

func EnumToken(disc uint64, value Token, variants EnumVariants) Token {
	return Token{Kind: KindEnum, Enum: &EnumSelector{Discriminant: disc, Value: value, Variants: variants}}
}

// Equal reports whether t and o hold the same value. Nil and empty
// collections compare equal; enum variant tables compare by shape.
func (t Token) Equal(o Token) bool {
	if t.Kind != o.Kind {
		return false
	}
	switch t.Kind {
	case KindUnit:
		return true
	case KindBool:
		return t.Bool == o.Bool
	case KindU8, KindU16, KindU32, KindU64:
		return t.Uint == o.Uint
	case KindU128, KindU256:
		return t.Big.Eq(&o.Big)
	case KindB256:
		return t.Hash == o.Hash
	case KindStringArray:
		return t.Str == o.Str && t.StrLen == o.StrLen
	case KindStringSlice:
		return t.Str == o.Str
	case KindBytes:
		return bytes.Equal(t.Bytes, o.Bytes)
	case KindRawSlice:
		if len(t.Words) != len(o.Words) {
			return false
		}
		for i := range t.Words {
			if t.Words[i] != o.Words[i] {
				return false
			}
		}
		return true
	case KindArray, KindVector, KindTuple, KindStruct:
		if len(t.Items) != len(o.Items) {
			return false
		}
		for i := range t.Items {
			if !t.Items[i].Equal(o.Items[i]) {
				return false
			}
		}
		return true
	case KindEnum:
		if t.Enum == nil || o.Enum == nil {
			return t.Enum == o.Enum
		}
		return t.Enum.Discriminant == o.Enum.Discriminant &&
			t.Enum.Value.Equal(o.Enum.Value) &&
			sameVariants(t.Enum.Variants, o.Enum.Variants)
	default:
		return false
	}
}

func sameVariants(a, b EnumVariants) bool {
	if a.Len() != b.Len() {
		return false
	}
	al, bl := a.List(), b.List()
	for i := range al {
		if al[i].Type.String() != bl[i].Type.String() {
			return false
		}
	}
	return true
}

// String renders t in the textual form accepted by the tokenizer.
func (t Token) String() string {
	var b strings.Builder
	t.writeTo(&b)
	return b.String()
}

func (t Token) writeTo(b *strings.Builder) {
	switch t.Kind {
	case KindUnit:
		b.WriteString("()")
	case KindBool:
		b.WriteString(strconv.FormatBool(t.Bool))
	case KindU8, KindU16, KindU32, KindU64:
		b.WriteString(strconv.FormatUint(t.Uint, 10))
	case KindU128, KindU256:
		b.WriteString(t.Big.Dec())
	case KindB256:
		b.WriteString("0x")
		b.WriteString(hex.EncodeToString(t.Hash[:]))
	case KindStringArray, KindStringSlice:
		b.WriteByte('"')
		b.WriteString(t.Str)
		b.WriteByte('"')
	case KindBytes:
		b.WriteString("0x")
		b.WriteString(hex.EncodeToString(t.Bytes))
	case KindRawSlice:
		b.WriteByte('[')
		for i, w := range t.Words {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(strconv.FormatUint(w, 10))
		}
		b.WriteByte(']')
	case KindArray, KindVector:
		b.WriteByte('[')
		writeItems(b, t.Items)
		b.WriteByte(']')
	case KindTuple, KindStruct:
		b.WriteByte('(')
		writeItems(b, t.Items)
		b.WriteByte(')')
	case KindEnum:
		if t.Enum == nil {
			b.WriteString("()")
			return
		}
		b.WriteByte('(')
		b.WriteString(strconv.FormatUint(t.Enum.Discriminant, 10))
		b.WriteByte(',')
		t.Enum.Value.writeTo(b)
		b.WriteByte(')')
	}
}

func writeItems(b *strings.Builder, items []Token) {
	for i, it := range items {
		if i > 0 {
			b.WriteByte(',')
		}
		it.writeTo(b)
	}
}
