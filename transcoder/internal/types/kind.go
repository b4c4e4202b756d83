package types

type Kind uint8

const (
	KindUnit Kind = iota
	KindBool
	KindU8
	KindU16
	KindU32
	KindU64
	KindU128
	KindU256
	KindB256
	KindArray
	KindStringArray
	KindStringSlice
	KindRawSlice
	KindBytes
	KindTuple
	KindStruct
	KindEnum
	KindVector
)

var kindNames = [...]string{
	KindUnit:        "unit",
	KindBool:        "bool",
	KindU8:          "u8",
	KindU16:         "u16",
	KindU32:         "u32",
	KindU64:         "u64",
	KindU128:        "u128",
	KindU256:        "u256",
	KindB256:        "b256",
	KindArray:       "array",
	KindStringArray: "string_array",
	KindStringSlice: "string_slice",
	KindRawSlice:    "raw_slice",
	KindBytes:       "bytes",
	KindTuple:       "tuple",
	KindStruct:      "struct",
	KindEnum:        "enum",
	KindVector:      "vector",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// IsPrimitive reports scalar kinds that fit in a fixed number of words.
func (k Kind) IsPrimitive() bool {
	return k <= KindB256
}

// IsHeap reports kinds whose payload is relocated behind an inline header.
func (k Kind) IsHeap() bool {
	switch k {
	case KindVector, KindBytes, KindRawSlice, KindStringSlice:
		return true
	default:
		return false
	}
}

// HeaderWords is the inline footprint of a heap kind: pointer plus
// length, and capacity for vectors and byte buffers.
func (k Kind) HeaderWords() uint64 {
	switch k {
	case KindVector, KindBytes:
		return 3
	case KindRawSlice, KindStringSlice:
		return 2
	default:
		return 0
	}
}
