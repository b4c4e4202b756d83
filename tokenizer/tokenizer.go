package tokenizer

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/holiman/uint256"

	"github.com/wippyai/vm-abi/errors"
	"github.com/wippyai/vm-abi/transcoder"
)

// Tokenize parses the textual form of a value of type p.
//
// Arrays, vectors and raw slices are written [a,b,c]; tuples and structs
// (a,b,c); enums (discriminant,value). Strings may be double quoted, which
// protects any delimiters they contain. Integers accept decimal or 0x hex,
// b256 and bytes are hex.
func Tokenize(p transcoder.ParamType, value string) (transcoder.Token, error) {
	return tokenize(p, value, nil)
}

// TokenizeArray parses a possibly ragged array of elem values. Nested
// bracketed parts become nested arrays.
func TokenizeArray(value string, elem transcoder.ParamType) (transcoder.Token, error) {
	return tokenizeArray(value, elem, nil)
}

func tokenizeArray(value string, elem transcoder.ParamType, path []string) (transcoder.Token, error) {
	inner, err := unwrap(value, '[', ']', path)
	if err != nil {
		return transcoder.Token{}, err
	}
	parts, err := splitTopLevel(inner, path)
	if err != nil {
		return transcoder.Token{}, err
	}

	items := make([]transcoder.Token, 0, len(parts))
	for i, part := range parts {
		p := indexPath(path, i)
		var tok transcoder.Token
		if strings.HasPrefix(part, "[") && elem.Kind != transcoder.KindRawSlice {
			tok, err = tokenizeArray(part, elem, p)
		} else {
			tok, err = tokenize(elem, part, p)
		}
		if err != nil {
			return transcoder.Token{}, err
		}
		items = append(items, tok)
	}
	return transcoder.ArrayToken(items...), nil
}

func tokenize(p transcoder.ParamType, value string, path []string) (transcoder.Token, error) {
	value = strings.TrimSpace(value)

	switch p.Kind {
	case transcoder.KindUnit:
		if value != "" && value != "()" {
			return transcoder.Token{}, invalid(path, value, "expected ()")
		}
		return transcoder.UnitToken(), nil

	case transcoder.KindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return transcoder.Token{}, invalid(path, value, "expected true or false")
		}
		return transcoder.BoolToken(b), nil

	case transcoder.KindU8, transcoder.KindU16, transcoder.KindU32, transcoder.KindU64:
		return parseUint(p.Kind, value, path)

	case transcoder.KindU128, transcoder.KindU256:
		return parseBig(p.Kind, value, path)

	case transcoder.KindB256:
		b, err := parseHex(value, path)
		if err != nil {
			return transcoder.Token{}, err
		}
		if len(b) != 32 {
			return transcoder.Token{}, invalid(path, value,
				"b256 needs 64 hex digits, got "+strconv.Itoa(2*len(b)))
		}
		var h [32]byte
		copy(h[:], b)
		return transcoder.B256Token(h), nil

	case transcoder.KindStringArray:
		s, err := parseString(value, path)
		if err != nil {
			return transcoder.Token{}, err
		}
		if uint64(len(s)) != p.Len {
			return transcoder.Token{}, errors.New(errors.PhaseTokenize, errors.KindInvalidData).
				Path(path...).
				Type(p.String()).
				Value(s).
				Detail("string %q has %d bytes, expected %d", s, len(s), p.Len).
				Build()
		}
		return transcoder.StringArrayToken(s), nil

	case transcoder.KindStringSlice:
		s, err := parseString(value, path)
		if err != nil {
			return transcoder.Token{}, err
		}
		return transcoder.StringSliceToken(s), nil

	case transcoder.KindBytes:
		b, err := parseHex(value, path)
		if err != nil {
			return transcoder.Token{}, err
		}
		return transcoder.BytesToken(b), nil

	case transcoder.KindRawSlice:
		parts, err := listParts(value, '[', ']', path)
		if err != nil {
			return transcoder.Token{}, err
		}
		words := make([]uint64, 0, len(parts))
		for i, part := range parts {
			tok, err := parseUint(transcoder.KindU64, part, indexPath(path, i))
			if err != nil {
				return transcoder.Token{}, err
			}
			words = append(words, tok.Uint)
		}
		return transcoder.RawSliceToken(words...), nil

	case transcoder.KindArray, transcoder.KindVector:
		if p.Elem == nil {
			return transcoder.Token{}, invalid(path, value, p.Kind.String()+" without element type")
		}
		parts, err := listParts(value, '[', ']', path)
		if err != nil {
			return transcoder.Token{}, err
		}
		if p.Kind == transcoder.KindArray {
			if err := checkCount(parts, int(p.Len), "array elements", path); err != nil {
				return transcoder.Token{}, err
			}
		}
		items, err := tokenizeAll(parts, func(int) transcoder.ParamType { return *p.Elem }, path)
		if err != nil {
			return transcoder.Token{}, err
		}
		if p.Kind == transcoder.KindArray {
			return transcoder.ArrayToken(items...), nil
		}
		return transcoder.VectorToken(items...), nil

	case transcoder.KindTuple, transcoder.KindStruct:
		parts, err := listParts(value, '(', ')', path)
		if err != nil {
			return transcoder.Token{}, err
		}
		if err := checkCount(parts, len(p.Fields), p.Kind.String()+" fields", path); err != nil {
			return transcoder.Token{}, err
		}
		items, err := tokenizeAll(parts, func(i int) transcoder.ParamType { return p.Fields[i].Type }, path)
		if err != nil {
			return transcoder.Token{}, err
		}
		return transcoder.Token{Kind: p.Kind, Items: items}, nil

	case transcoder.KindEnum:
		return tokenizeEnum(p, value, path)

	default:
		return transcoder.Token{}, errors.UnsupportedType(errors.PhaseTokenize, path, "cannot tokenize "+p.Kind.String())
	}
}

func tokenizeEnum(p transcoder.ParamType, value string, path []string) (transcoder.Token, error) {
	parts, err := listParts(value, '(', ')', path)
	if err != nil {
		return transcoder.Token{}, err
	}
	if err := checkCount(parts, 2, "enum parts (discriminant, value)", path); err != nil {
		return transcoder.Token{}, err
	}

	disc, err := strconv.ParseUint(parts[0], 0, 64)
	if err != nil {
		return transcoder.Token{}, invalid(path, parts[0], "enum discriminant must be an unsigned integer")
	}
	variant, err := p.Variants.At(disc)
	if err != nil {
		return transcoder.Token{}, errors.UnresolvedDiscriminant(errors.PhaseTokenize, path, disc, p.Variants.Len())
	}

	val, err := tokenize(variant.Type, parts[1], append(append([]string{}, path...), variant.Name))
	if err != nil {
		return transcoder.Token{}, err
	}
	return transcoder.EnumToken(disc, val, p.Variants), nil
}

func tokenizeAll(parts []string, typeAt func(int) transcoder.ParamType, path []string) ([]transcoder.Token, error) {
	items := make([]transcoder.Token, 0, len(parts))
	for i, part := range parts {
		tok, err := tokenize(typeAt(i), part, indexPath(path, i))
		if err != nil {
			return nil, err
		}
		items = append(items, tok)
	}
	return items, nil
}

func listParts(value string, left, right byte, path []string) ([]string, error) {
	inner, err := unwrap(value, left, right, path)
	if err != nil {
		return nil, err
	}
	return splitTopLevel(inner, path)
}

var uintBits = map[transcoder.Kind]int{
	transcoder.KindU8:  8,
	transcoder.KindU16: 16,
	transcoder.KindU32: 32,
	transcoder.KindU64: 64,
}

func parseUint(kind transcoder.Kind, value string, path []string) (transcoder.Token, error) {
	v, err := strconv.ParseUint(value, 0, uintBits[kind])
	if err != nil {
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return transcoder.Token{}, errors.Overflow(errors.PhaseTokenize, path, value, kind.String())
		}
		return transcoder.Token{}, invalid(path, value, "expected unsigned integer for "+kind.String())
	}
	return transcoder.Token{Kind: kind, Uint: v}, nil
}

func parseBig(kind transcoder.Kind, value string, path []string) (transcoder.Token, error) {
	var (
		v   *uint256.Int
		err error
	)
	if strings.HasPrefix(value, "0x") || strings.HasPrefix(value, "0X") {
		v, err = uint256.FromHex("0x" + strings.TrimLeft(value[2:], "0"))
		if err != nil && strings.TrimLeft(value[2:], "0") == "" {
			v, err = new(uint256.Int), nil
		}
	} else {
		v, err = uint256.FromDecimal(value)
	}
	if err != nil {
		if err == uint256.ErrBig256Range {
			return transcoder.Token{}, errors.Overflow(errors.PhaseTokenize, path, value, kind.String())
		}
		return transcoder.Token{}, invalid(path, value, "expected unsigned integer for "+kind.String())
	}
	if kind == transcoder.KindU128 {
		if v.BitLen() > 128 {
			return transcoder.Token{}, errors.Overflow(errors.PhaseTokenize, path, value, "u128")
		}
		return transcoder.U128Token(v), nil
	}
	return transcoder.U256Token(v), nil
}

func parseHex(value string, path []string) ([]byte, error) {
	s := strings.TrimPrefix(strings.TrimPrefix(value, "0x"), "0X")
	if len(s)%2 != 0 {
		return nil, invalid(path, value, "hex string has odd length "+strconv.Itoa(len(s)))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.New(errors.PhaseTokenize, errors.KindInvalidData).
			Path(path...).
			Value(value).
			Cause(err).
			Detail("invalid hex").
			Build()
	}
	return b, nil
}

// parseString strips optional surrounding quotes and requires ASCII.
func parseString(value string, path []string) (string, error) {
	s := value
	if strings.HasPrefix(s, `"`) {
		if len(s) < 2 || !strings.HasSuffix(s, `"`) {
			return "", unbalancedQuotes(value, path)
		}
		s = s[1 : len(s)-1]
	}
	if strings.Contains(s, `"`) {
		return "", unbalancedQuotes(value, path)
	}
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return "", invalid(path, value, "string must be ASCII")
		}
	}
	return s, nil
}

func invalid(path []string, value, detail string) error {
	return errors.New(errors.PhaseTokenize, errors.KindInvalidData).
		Path(path...).
		Value(value).
		Detail("%s: %q", detail, value).
		Build()
}

func indexPath(path []string, i int) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, "["+strconv.Itoa(i)+"]")
}
