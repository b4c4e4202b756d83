package transcoder

import (
	"math"
	"strconv"
	"unicode/utf8"

	vmabi "github.com/wippyai/vm-abi"
	"github.com/wippyai/vm-abi/errors"
	"github.com/wippyai/vm-abi/transcoder/internal/abi"
)

// source reads the resolved layout by absolute address.
type source interface {
	read(addr, n uint64, path []string) ([]byte, error)
}

// sliceSource is a resolved buffer that was placed at base.
type sliceSource struct {
	data []byte
	base uint64
}

func (s sliceSource) read(addr, n uint64, path []string) ([]byte, error) {
	if addr < s.base {
		return nil, errors.New(errors.PhaseDecode, errors.KindInsufficientBytes).
			Path(path...).
			Value(addr).
			Detail("address %d is below base %d", addr, s.base).
			Build()
	}
	off := addr - s.base
	size := uint64(len(s.data))
	if off > size {
		return nil, errors.InsufficientBytes(errors.PhaseDecode, path, n, 0)
	}
	if n > size-off {
		return nil, errors.InsufficientBytes(errors.PhaseDecode, path, n, size-off)
	}
	return s.data[off : off+n], nil
}

type memorySource struct {
	mem vmabi.Memory
}

func (s memorySource) read(addr, n uint64, path []string) ([]byte, error) {
	if addr > math.MaxUint32 || n > math.MaxUint32-addr {
		return nil, errors.OutOfBounds(errors.PhaseMemory, path, addr+n, math.MaxUint32)
	}
	b, err := s.mem.Read(uint32(addr), uint32(n))
	if err != nil {
		return nil, errors.WithPath(errors.PhaseMemory, err, path...)
	}
	return b, nil
}

// DecodeResolved decodes bytes produced by UnresolvedBytes.Resolve(base).
// Heap values follow their pointers, so nested heap containers are
// supported. Pointers outside data are reported as insufficient bytes.
func (d *Decoder) DecodeResolved(params []ParamType, data []byte, base uint64) ([]Token, error) {
	return d.decodeResolved(params, sliceSource{data: data, base: base}, base)
}

// DecodeFromMemory decodes values written by Encoder.EncodeToMemory at addr.
func (d *Decoder) DecodeFromMemory(params []ParamType, mem Memory, addr uint32) ([]Token, error) {
	return d.decodeResolved(params, memorySource{mem: mem}, uint64(addr))
}

func (d *Decoder) decodeResolved(params []ParamType, src source, addr uint64) ([]Token, error) {
	g := &guard{cfg: d.config}
	out := make([]Token, 0, len(params))

	for i, p := range params {
		tok, err := d.decodeAt(p, src, addr, g, []string{"arg[" + strconv.Itoa(i) + "]"})
		if err != nil {
			return nil, err
		}
		out = append(out, tok)
		addr += p.EncodingWidth() * abi.WordSize
	}
	return out, nil
}

func (d *Decoder) decodeAt(p ParamType, src source, addr uint64, g *guard, path []string) (Token, error) {
	switch p.Kind {
	case KindUnit, KindBool, KindU8, KindU16, KindU32, KindU64, KindU128, KindU256, KindB256:
		if err := g.leaf(path); err != nil {
			return Token{}, err
		}
		b, err := src.read(addr, p.EncodingWidth()*abi.WordSize, path)
		if err != nil {
			return Token{}, err
		}
		return scalarToken(p.Kind, b, path)

	case KindStringArray:
		if err := g.leaf(path); err != nil {
			return Token{}, err
		}
		b, err := src.read(addr, abi.PadLen(p.Len), path)
		if err != nil {
			return Token{}, err
		}
		return stringArrayToken(b[:p.Len], path)

	case KindArray:
		if p.Elem == nil {
			return Token{}, errors.InvalidData(errors.PhaseDecode, path, "array without element type")
		}
		if err := g.enter(path); err != nil {
			return Token{}, err
		}
		defer g.exit()
		items, err := d.decodeElems(*p.Elem, p.Len, src, addr, g, path)
		if err != nil {
			return Token{}, err
		}
		return ArrayToken(items...), nil

	case KindTuple, KindStruct:
		if err := g.enter(path); err != nil {
			return Token{}, err
		}
		defer g.exit()
		items := make([]Token, 0, len(p.Fields))
		for i, f := range p.Fields {
			tok, err := d.decodeAt(f.Type, src, addr, g, fieldPath(path, f, i))
			if err != nil {
				return Token{}, err
			}
			items = append(items, tok)
			addr += f.Type.EncodingWidth() * abi.WordSize
		}
		return Token{Kind: p.Kind, Items: items}, nil

	case KindEnum:
		if err := g.enter(path); err != nil {
			return Token{}, err
		}
		defer g.exit()
		return d.decodeEnumAt(p, src, addr, g, path)

	case KindVector:
		if p.Elem == nil {
			return Token{}, errors.InvalidData(errors.PhaseDecode, path, "vector without element type")
		}
		if err := g.enter(path); err != nil {
			return Token{}, err
		}
		defer g.exit()
		hdr, err := readHeader(src, addr, 3, path)
		if err != nil {
			return Token{}, err
		}
		ptr, capacity, length := hdr[0], hdr[1], hdr[2]
		if capacity < length {
			return Token{}, errors.InvalidData(errors.PhaseDecode, path,
				"vector capacity "+strconv.FormatUint(capacity, 10)+" is below length "+strconv.FormatUint(length, 10))
		}
		items, err := d.decodeElems(*p.Elem, length, src, ptr, g, path)
		if err != nil {
			return Token{}, err
		}
		return VectorToken(items...), nil

	case KindBytes:
		if err := g.leaf(path); err != nil {
			return Token{}, err
		}
		hdr, err := readHeader(src, addr, 3, path)
		if err != nil {
			return Token{}, err
		}
		ptr, capacity, length := hdr[0], hdr[1], hdr[2]
		if capacity < length {
			return Token{}, errors.InvalidData(errors.PhaseDecode, path,
				"bytes capacity "+strconv.FormatUint(capacity, 10)+" is below length "+strconv.FormatUint(length, 10))
		}
		b, err := src.read(ptr, length, path)
		if err != nil {
			return Token{}, err
		}
		return BytesToken(append([]byte{}, b...)), nil

	case KindStringSlice:
		if err := g.leaf(path); err != nil {
			return Token{}, err
		}
		hdr, err := readHeader(src, addr, 2, path)
		if err != nil {
			return Token{}, err
		}
		b, err := src.read(hdr[0], hdr[1], path)
		if err != nil {
			return Token{}, err
		}
		if !utf8.Valid(b) {
			return Token{}, errors.InvalidUTF8(errors.PhaseDecode, path, b)
		}
		return StringSliceToken(string(b)), nil

	case KindRawSlice:
		hdr, err := readHeader(src, addr, 2, path)
		if err != nil {
			return Token{}, err
		}
		if hdr[1]%abi.WordSize != 0 {
			return Token{}, errors.InvalidData(errors.PhaseDecode, path,
				"raw slice length "+strconv.FormatUint(hdr[1], 10)+" is not a whole number of words")
		}
		count := hdr[1] / abi.WordSize
		if err := g.reserve(count, path); err != nil {
			return Token{}, err
		}
		b, err := src.read(hdr[0], hdr[1], path)
		if err != nil {
			return Token{}, err
		}
		words, err := rawWords(b, count, g, path)
		if err != nil {
			return Token{}, err
		}
		return RawSliceToken(words...), nil

	default:
		return Token{}, errors.UnsupportedType(errors.PhaseDecode, path, "cannot decode type "+p.String())
	}
}

func (d *Decoder) decodeElems(elem ParamType, n uint64, src source, addr uint64, g *guard, path []string) ([]Token, error) {
	if err := g.reserve(n, path); err != nil {
		return nil, err
	}
	width := elem.EncodingWidth() * abi.WordSize
	items := make([]Token, 0, n)
	for i := uint64(0); i < n; i++ {
		tok, err := d.decodeAt(elem, src, addr+i*width, g, appendIndex(path, int(i)))
		if err != nil {
			return nil, err
		}
		items = append(items, tok)
	}
	return items, nil
}

func (d *Decoder) decodeEnumAt(p ParamType, src source, addr uint64, g *guard, path []string) (Token, error) {
	head, err := src.read(addr, abi.WordSize, path)
	if err != nil {
		return Token{}, err
	}
	disc := discriminant(head)
	variant, err := p.Variants.At(disc)
	if err != nil {
		return Token{}, errors.WithPath(errors.PhaseDecode, err, path...)
	}

	if p.Variants.OnlyUnits() {
		if err := g.leaf(path); err != nil {
			return Token{}, err
		}
		return EnumToken(disc, UnitToken(), p.Variants), nil
	}

	pad, err := p.Variants.PaddingWords(disc)
	if err != nil {
		return Token{}, errors.WithPath(errors.PhaseDecode, err, path...)
	}
	val, err := d.decodeAt(variant.Type, src, addr+(1+pad)*abi.WordSize, g, appendName(path, variant.Name))
	if err != nil {
		return Token{}, err
	}
	return EnumToken(disc, val, p.Variants), nil
}

func readHeader(src source, addr uint64, words int, path []string) ([]uint64, error) {
	b, err := src.read(addr, uint64(words)*abi.WordSize, path)
	if err != nil {
		return nil, err
	}
	hdr := make([]uint64, words)
	for i := range hdr {
		hdr[i] = abi.ReadWord(b[i*abi.WordSize:])
	}
	return hdr, nil
}
