package tokenizer

import (
	"strconv"
	"strings"

	"github.com/wippyai/vm-abi/errors"
	"github.com/wippyai/vm-abi/transcoder"
)

// ParseType parses a type expression such as "Vec<(u8,bool)>",
// "[u64;3]", "str[5]", "struct Point{u32,u32}" or "enum{(),u64}". It
// accepts exactly what ParamType.String produces.
func ParseType(expr string) (transcoder.ParamType, error) {
	p := &typeParser{src: expr}
	t, err := p.parse()
	if err != nil {
		return transcoder.ParamType{}, err
	}
	p.skipSpace()
	if p.pos != len(p.src) {
		return transcoder.ParamType{}, p.fail("unexpected trailing input")
	}
	return t, nil
}

type typeParser struct {
	src string
	pos int
}

var primitiveTypes = map[string]func() transcoder.ParamType{
	"bool":     transcoder.Bool,
	"u8":       transcoder.U8,
	"u16":      transcoder.U16,
	"u32":      transcoder.U32,
	"u64":      transcoder.U64,
	"u128":     transcoder.U128,
	"u256":     transcoder.U256,
	"b256":     transcoder.B256,
	"bytes":    transcoder.Bytes,
	"rawslice": transcoder.RawSlice,
}

func (p *typeParser) parse() (transcoder.ParamType, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return transcoder.ParamType{}, p.fail("expected type")
	}

	switch p.src[p.pos] {
	case '(':
		return p.parseTuple()
	case '[':
		return p.parseArray()
	}

	word := p.ident()
	switch word {
	case "":
		return transcoder.ParamType{}, p.fail("expected type")
	case "str":
		if p.peek('[') {
			p.pos++
			n, err := p.number()
			if err != nil {
				return transcoder.ParamType{}, err
			}
			if err := p.expect(']'); err != nil {
				return transcoder.ParamType{}, err
			}
			return transcoder.StringArray(n), nil
		}
		return transcoder.StringSlice(), nil
	case "Vec":
		if err := p.expect('<'); err != nil {
			return transcoder.ParamType{}, err
		}
		elem, err := p.parse()
		if err != nil {
			return transcoder.ParamType{}, err
		}
		if err := p.expect('>'); err != nil {
			return transcoder.ParamType{}, err
		}
		return transcoder.VectorOf(elem), nil
	case "struct", "enum":
		return p.parseNamed(word)
	}

	if ctor, ok := primitiveTypes[word]; ok {
		return ctor(), nil
	}
	return transcoder.ParamType{}, errors.New(errors.PhaseParse, errors.KindNotFound).
		Value(word).
		Detail("unknown type %q in %q", word, p.src).
		Build()
}

func (p *typeParser) parseTuple() (transcoder.ParamType, error) {
	p.pos++
	p.skipSpace()
	if p.peek(')') {
		p.pos++
		return transcoder.Unit(), nil
	}
	elems, err := p.list(')')
	if err != nil {
		return transcoder.ParamType{}, err
	}
	return transcoder.TupleOf(elems...), nil
}

func (p *typeParser) parseArray() (transcoder.ParamType, error) {
	p.pos++
	elem, err := p.parse()
	if err != nil {
		return transcoder.ParamType{}, err
	}
	if err := p.expect(';'); err != nil {
		return transcoder.ParamType{}, err
	}
	n, err := p.number()
	if err != nil {
		return transcoder.ParamType{}, err
	}
	if err := p.expect(']'); err != nil {
		return transcoder.ParamType{}, err
	}
	return transcoder.ArrayOf(elem, n), nil
}

func (p *typeParser) parseNamed(keyword string) (transcoder.ParamType, error) {
	name := p.ident()
	if err := p.expect('{'); err != nil {
		return transcoder.ParamType{}, err
	}
	p.skipSpace()
	var elems []transcoder.ParamType
	if p.peek('}') {
		p.pos++
	} else {
		var err error
		if elems, err = p.list('}'); err != nil {
			return transcoder.ParamType{}, err
		}
	}

	if keyword == "struct" {
		fields := make([]transcoder.Field, len(elems))
		for i, e := range elems {
			fields[i] = transcoder.FieldOf("", e)
		}
		return transcoder.StructOf(name, fields...), nil
	}

	variants := make([]transcoder.Variant, len(elems))
	for i, e := range elems {
		variants[i] = transcoder.VariantOf(strconv.Itoa(i), e)
	}
	v, err := transcoder.NewEnumVariants(variants...)
	if err != nil {
		return transcoder.ParamType{}, errors.WithPath(errors.PhaseParse, err, keyword+" "+name)
	}
	return transcoder.EnumOf(name, v), nil
}

// list parses comma-separated types up to and including the closing byte.
func (p *typeParser) list(closing byte) ([]transcoder.ParamType, error) {
	var out []transcoder.ParamType
	for {
		t, err := p.parse()
		if err != nil {
			return nil, err
		}
		out = append(out, t)
		p.skipSpace()
		if p.peek(',') {
			p.pos++
			continue
		}
		if err := p.expect(closing); err != nil {
			return nil, err
		}
		return out, nil
	}
}

func (p *typeParser) ident() string {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == '_' || c == ':' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			p.pos++
			continue
		}
		break
	}
	return p.src[start:p.pos]
}

func (p *typeParser) number() (uint64, error) {
	p.skipSpace()
	start := p.pos
	for p.pos < len(p.src) && p.src[p.pos] >= '0' && p.src[p.pos] <= '9' {
		p.pos++
	}
	n, err := strconv.ParseUint(p.src[start:p.pos], 10, 64)
	if err != nil {
		return 0, p.fail("expected length")
	}
	return n, nil
}

func (p *typeParser) expect(c byte) error {
	p.skipSpace()
	if !p.peek(c) {
		return p.fail("expected '" + string(c) + "'")
	}
	p.pos++
	return nil
}

func (p *typeParser) peek(c byte) bool {
	return p.pos < len(p.src) && p.src[p.pos] == c
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.src) && strings.IndexByte(" \t\n\r", p.src[p.pos]) >= 0 {
		p.pos++
	}
}

func (p *typeParser) fail(msg string) error {
	return errors.New(errors.PhaseParse, errors.KindInvalidData).
		Value(p.pos).
		Detail("%s at offset %d in %q", msg, p.pos, p.src).
		Build()
}
