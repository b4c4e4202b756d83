package call

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/minio/sha256-simd"
	"go.uber.org/zap"

	"github.com/wippyai/vm-abi/errors"
	"github.com/wippyai/vm-abi/transcoder"
)

// SelectorSize is the number of signature hash bytes that identify a function.
const SelectorSize = 4

// Call is encoded call data for one function invocation.
type Call struct {
	Signature string
	Args      []byte
	Selector  [SelectorSize]byte
}

// Bytes returns the selector followed by the resolved arguments.
func (c Call) Bytes() []byte {
	out := make([]byte, 0, SelectorSize+len(c.Args))
	out = append(out, c.Selector[:]...)
	return append(out, c.Args...)
}

// Hex returns Bytes as a 0x-prefixed hex string.
func (c Call) Hex() string {
	return "0x" + hex.EncodeToString(c.Bytes())
}

// Selector returns the first four bytes of the SHA-256 of signature.
func Selector(signature string) [SelectorSize]byte {
	sum := sha256.Sum256([]byte(signature))
	var sel [SelectorSize]byte
	copy(sel[:], sum[:SelectorSize])
	return sel
}

// Signature builds the canonical signature of a function, e.g.
// "transfer(u64,s(u8,bool))".
func Signature(name string, params []transcoder.ParamType) string {
	var b strings.Builder
	b.WriteString(name)
	b.WriteByte('(')
	for i, p := range params {
		if i > 0 {
			b.WriteByte(',')
		}
		writeCanonical(&b, p)
	}
	b.WriteByte(')')
	return b.String()
}

func writeCanonical(b *strings.Builder, p transcoder.ParamType) {
	switch p.Kind {
	case transcoder.KindUnit:
		b.WriteString("()")
	case transcoder.KindStringArray:
		b.WriteString("str[")
		b.WriteString(strconv.FormatUint(p.Len, 10))
		b.WriteByte(']')
	case transcoder.KindStringSlice:
		b.WriteString("str")
	case transcoder.KindRawSlice:
		b.WriteString("rawslice")
	case transcoder.KindBytes:
		b.WriteString("s(s(rawptr,u64),u64)")
	case transcoder.KindArray:
		b.WriteString("a[")
		if p.Elem != nil {
			writeCanonical(b, *p.Elem)
		}
		b.WriteByte(';')
		b.WriteString(strconv.FormatUint(p.Len, 10))
		b.WriteByte(']')
	case transcoder.KindVector:
		var elem strings.Builder
		if p.Elem != nil {
			writeCanonical(&elem, *p.Elem)
		}
		e := elem.String()
		b.WriteString("s<" + e + ">(s<" + e + ">(rawptr,u64),u64)")
	case transcoder.KindTuple:
		b.WriteByte('(')
		writeFields(b, p.Fields)
		b.WriteByte(')')
	case transcoder.KindStruct:
		b.WriteString("s(")
		writeFields(b, p.Fields)
		b.WriteByte(')')
	case transcoder.KindEnum:
		b.WriteString("e(")
		for i, v := range p.Variants.List() {
			if i > 0 {
				b.WriteByte(',')
			}
			writeCanonical(b, v.Type)
		}
		b.WriteByte(')')
	default:
		b.WriteString(p.Kind.String())
	}
}

func writeFields(b *strings.Builder, fields []transcoder.Field) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		writeCanonical(b, f.Type)
	}
}

// Encode type-checks tokens against params, encodes them and resolves the
// arguments at offset, the address the arguments will occupy in the VM.
func Encode(name string, params []transcoder.ParamType, tokens []transcoder.Token, offset uint64) (Call, error) {
	if err := Check(params, tokens); err != nil {
		return Call{}, err
	}

	ub, err := transcoder.NewEncoder().Encode(tokens)
	if err != nil {
		return Call{}, err
	}

	sig := Signature(name, params)
	Logger().Debug("encoded call",
		zap.String("signature", sig),
		zap.Uint64("offset", offset),
		zap.Uint64("size", ub.Len()))

	return Call{
		Signature: sig,
		Selector:  Selector(sig),
		Args:      ub.Resolve(offset),
	}, nil
}

// Check reports the first token that does not match its descriptor.
func Check(params []transcoder.ParamType, tokens []transcoder.Token) error {
	if len(params) != len(tokens) {
		return errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Detail("argument count mismatch: expected %d, got %d", len(params), len(tokens)).
			Build()
	}
	for i := range params {
		if err := check(params[i], tokens[i], []string{"arg[" + strconv.Itoa(i) + "]"}); err != nil {
			return err
		}
	}
	return nil
}

func check(p transcoder.ParamType, tok transcoder.Token, path []string) error {
	if p.Kind != tok.Kind {
		return errors.TypeMismatch(errors.PhaseEncode, path, p.String(), tok.Kind.String())
	}

	if (p.Kind == transcoder.KindArray || p.Kind == transcoder.KindVector) && p.Elem == nil {
		return errors.InvalidData(errors.PhaseEncode, path, p.Kind.String()+" without element type")
	}

	switch p.Kind {
	case transcoder.KindStringArray:
		if uint64(len(tok.Str)) != p.Len {
			return errors.New(errors.PhaseEncode, errors.KindInvalidData).
				Path(path...).
				Type(p.String()).
				Detail("string %q has %d bytes", tok.Str, len(tok.Str)).
				Build()
		}
	case transcoder.KindArray:
		if uint64(len(tok.Items)) != p.Len {
			return countMismatch(path, p, len(tok.Items))
		}
		return checkItems(*p.Elem, tok.Items, path)
	case transcoder.KindVector:
		return checkItems(*p.Elem, tok.Items, path)
	case transcoder.KindTuple, transcoder.KindStruct:
		if len(tok.Items) != len(p.Fields) {
			return countMismatch(path, p, len(tok.Items))
		}
		for i, f := range p.Fields {
			if err := check(f.Type, tok.Items[i], childPath(path, i)); err != nil {
				return err
			}
		}
	case transcoder.KindEnum:
		if tok.Enum == nil {
			return errors.InvalidData(errors.PhaseEncode, path, "enum token without a selected variant")
		}
		variant, err := p.Variants.At(tok.Enum.Discriminant)
		if err != nil {
			return errors.UnresolvedDiscriminant(errors.PhaseEncode, path, tok.Enum.Discriminant, p.Variants.Len())
		}
		return check(variant.Type, tok.Enum.Value, append(append([]string{}, path...), variant.Name))
	}
	return nil
}

func checkItems(elem transcoder.ParamType, items []transcoder.Token, path []string) error {
	for i, item := range items {
		if err := check(elem, item, childPath(path, i)); err != nil {
			return err
		}
	}
	return nil
}

func countMismatch(path []string, p transcoder.ParamType, got int) error {
	return errors.New(errors.PhaseEncode, errors.KindInvalidData).
		Path(path...).
		Type(p.String()).
		Value(got).
		Detail("got %d elements", got).
		Build()
}

func childPath(path []string, i int) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, "["+strconv.Itoa(i)+"]")
}
