package transcoder

import (
	"strconv"

	"github.com/wippyai/vm-abi/errors"
	"github.com/wippyai/vm-abi/transcoder/internal/abi"
)

// Encoder turns tokens into unresolved bytes. It holds no state and is safe
// for concurrent use.
type Encoder struct{}

func NewEncoder() *Encoder {
	return &Encoder{}
}

// Encode encodes tokens in order. The result is resolved against a base
// address with UnresolvedBytes.Resolve.
func (e *Encoder) Encode(tokens []Token) (UnresolvedBytes, error) {
	var out UnresolvedBytes
	for i, tok := range tokens {
		ub, err := e.encodeToken(tok, []string{"arg[" + strconv.Itoa(i) + "]"})
		if err != nil {
			return UnresolvedBytes{}, err
		}
		out.appendAll(ub)
	}
	return out, nil
}

// EncodeSingle encodes one token.
func (e *Encoder) EncodeSingle(tok Token) (UnresolvedBytes, error) {
	return e.Encode([]Token{tok})
}

func (e *Encoder) encodeToken(tok Token, path []string) (UnresolvedBytes, error) {
	var out UnresolvedBytes

	switch tok.Kind {
	case KindUnit:
		out.appendWord(0)

	case KindBool:
		if tok.Bool {
			out.appendWord(1)
		} else {
			out.appendWord(0)
		}

	case KindU8, KindU16, KindU32, KindU64:
		if err := checkUintRange(tok, path); err != nil {
			return out, err
		}
		out.appendWord(tok.Uint)

	case KindU128:
		if tok.Big.BitLen() > 128 {
			return out, errors.Overflow(errors.PhaseEncode, path, tok.Big.Dec(), "u128")
		}
		b := tok.Big.Bytes32()
		out.appendInline(append([]byte(nil), b[16:]...))

	case KindU256:
		b := tok.Big.Bytes32()
		out.appendInline(b[:])

	case KindB256:
		h := tok.Hash
		out.appendInline(h[:])

	case KindArray, KindTuple, KindStruct:
		for i, item := range tok.Items {
			ub, err := e.encodeToken(item, appendIndex(path, i))
			if err != nil {
				return out, err
			}
			out.appendAll(ub)
		}

	case KindStringArray:
		if err := checkASCII(tok.Str, path); err != nil {
			return out, err
		}
		if uint64(len(tok.Str)) != tok.StrLen {
			return out, errors.New(errors.PhaseEncode, errors.KindInvalidData).
				Path(path...).
				Type("str["+strconv.FormatUint(tok.StrLen, 10)+"]").
				Detail("string %q has %d bytes", tok.Str, len(tok.Str)).
				Build()
		}
		out.appendInline(abi.PadRight([]byte(tok.Str)))

	case KindStringSlice:
		if err := checkASCII(tok.Str, path); err != nil {
			return out, err
		}
		var data UnresolvedBytes
		data.appendInline([]byte(tok.Str))
		out.appendDynamic(data)
		out.appendWord(uint64(len(tok.Str)))

	case KindVector:
		var data UnresolvedBytes
		for i, item := range tok.Items {
			ub, err := e.encodeToken(item, appendIndex(path, i))
			if err != nil {
				return out, err
			}
			data.appendAll(ub)
		}
		n := uint64(len(tok.Items))
		out.appendDynamic(data)
		out.appendWord(n)
		out.appendWord(n)

	case KindRawSlice:
		var data UnresolvedBytes
		for _, w := range tok.Words {
			data.appendWord(w)
		}
		out.appendDynamic(data)
		out.appendWord(uint64(len(tok.Words)) * abi.WordSize)

	case KindBytes:
		padded := abi.PadRight(tok.Bytes)
		var data UnresolvedBytes
		data.appendInline(padded)
		out.appendDynamic(data)
		out.appendWord(uint64(len(padded)))
		out.appendWord(uint64(len(tok.Bytes)))

	case KindEnum:
		return e.encodeEnum(tok, path)

	default:
		return out, errors.New(errors.PhaseEncode, errors.KindUnsupportedType).
			Path(path...).
			Detail("cannot encode token of kind %s", tok.Kind).
			Build()
	}

	return out, nil
}

func (e *Encoder) encodeEnum(tok Token, path []string) (UnresolvedBytes, error) {
	var out UnresolvedBytes
	sel := tok.Enum
	if sel == nil {
		return out, errors.InvalidData(errors.PhaseEncode, path, "enum token without a selected variant")
	}

	variant, err := sel.Variants.At(sel.Discriminant)
	if err != nil {
		return out, errors.UnresolvedDiscriminant(errors.PhaseEncode, path, sel.Discriminant, sel.Variants.Len())
	}
	if sel.Value.Kind != variant.Type.Kind {
		return out, errors.TypeMismatch(errors.PhaseEncode, appendName(path, variant.Name),
			variant.Type.String(), sel.Value.Kind.String())
	}

	out.appendWord(sel.Discriminant)
	if sel.Variants.OnlyUnits() {
		return out, nil
	}

	pad, err := sel.Variants.PaddingWords(sel.Discriminant)
	if err != nil {
		return out, errors.WithPath(errors.PhaseEncode, err, path...)
	}
	out.appendInline(abi.ZeroWords(pad))

	payload, err := e.encodeToken(sel.Value, appendName(path, variant.Name))
	if err != nil {
		return out, err
	}
	out.appendAll(payload)
	return out, nil
}

func checkUintRange(tok Token, path []string) error {
	var limit uint64
	switch tok.Kind {
	case KindU8:
		limit = 0xff
	case KindU16:
		limit = 0xffff
	case KindU32:
		limit = 0xffffffff
	default:
		return nil
	}
	if tok.Uint > limit {
		return errors.Overflow(errors.PhaseEncode, path, tok.Uint, tok.Kind.String())
	}
	return nil
}

func checkASCII(s string, path []string) error {
	if i := abi.FirstNonASCII(s); i >= 0 {
		return errors.New(errors.PhaseEncode, errors.KindInvalidData).
			Path(path...).
			Value(s).
			Detail("string %q is not ASCII: byte %d is 0x%02x", s, i, s[i]).
			Build()
	}
	return nil
}

func appendIndex(path []string, i int) []string {
	return appendName(path, "["+strconv.Itoa(i)+"]")
}

func appendName(path []string, name string) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, name)
}
