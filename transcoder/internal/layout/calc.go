package layout

import (
	"strconv"

	"github.com/wippyai/vm-abi/errors"
	"github.com/wippyai/vm-abi/transcoder/internal/abi"
	"github.com/wippyai/vm-abi/transcoder/internal/types"
)

// Info is the inline footprint of a descriptor.
type Info struct {
	// Offsets holds the byte offset of each struct field or tuple element.
	Offsets []uint64
	Words   uint64
	Size    uint64
}

// Calc computes the inline footprint of p.
func Calc(p types.Param) Info {
	words := p.EncodingWidth()
	info := Info{Words: words, Size: abi.SatMulU64(words, abi.WordSize)}

	if p.Kind == types.KindTuple || p.Kind == types.KindStruct {
		info.Offsets = make([]uint64, len(p.Fields))
		var off uint64
		for i, f := range p.Fields {
			info.Offsets[i] = off
			off = abi.SatAddU64(off, abi.SatMulU64(f.Type.EncodingWidth(), abi.WordSize))
		}
	}
	return info
}

// CalcAll returns the combined inline size in bytes of a parameter list.
func CalcAll(params []types.Param) uint64 {
	var size uint64
	for _, p := range params {
		size = abi.SatAddU64(size, Calc(p).Size)
	}
	return size
}

// CheckNestedHeap rejects descriptors holding a heap container inside a
// vector, fixed array or enum variant. Return data carries no header for an
// enum payload, so a heap variant cannot be told apart from its inline
// header words. The returned error names the path of the offending inner
// type.
func CheckNestedHeap(params []types.Param) error {
	for i, p := range params {
		if path, ok := findNestedHeap(p, false, []string{"arg[" + strconv.Itoa(i) + "]"}); ok {
			return errors.UnsupportedType(errors.PhaseDecode, path,
				"unsupported nested heap type "+p.String())
		}
	}
	return nil
}

// findNestedHeap walks p. inContainer is set once the walk has descended
// into a vector element, array element or enum variant.
func findNestedHeap(p types.Param, inContainer bool, path []string) ([]string, bool) {
	if inContainer && p.Kind.IsHeap() {
		return path, true
	}

	switch p.Kind {
	case types.KindVector, types.KindArray:
		if p.Elem == nil {
			return nil, false
		}
		return findNestedHeap(*p.Elem, true, append(path[:len(path):len(path)], "elem"))
	case types.KindTuple, types.KindStruct:
		for i, f := range p.Fields {
			if found, ok := findNestedHeap(f.Type, inContainer, appendPath(path, "field", i)); ok {
				return found, true
			}
		}
	case types.KindEnum:
		for i, v := range p.Variants.List() {
			if found, ok := findNestedHeap(v.Type, true, appendPath(path, "variant", i)); ok {
				return found, true
			}
		}
	}
	return nil, false
}

func appendPath(path []string, label string, i int) []string {
	out := make([]string, len(path), len(path)+1)
	copy(out, path)
	return append(out, label+"["+strconv.Itoa(i)+"]")
}

// ElementCount derives how many elements of type elem a heap payload of
// byteLen bytes holds. Zero-width elements are indeterminate.
func ElementCount(elem types.Param, byteLen uint64) (uint64, error) {
	width := abi.SatMulU64(elem.EncodingWidth(), abi.WordSize)
	if width == 0 {
		return 0, errors.InvalidData(errors.PhaseDecode, nil,
			"cannot determine element count of zero-sized type "+elem.String())
	}
	if byteLen%width != 0 {
		return 0, errors.New(errors.PhaseDecode, errors.KindInvalidData).
			Type(elem.String()).
			Detail("payload of %d bytes is not a multiple of the %d-byte element", byteLen, width).
			Build()
	}
	return byteLen / width, nil
}
