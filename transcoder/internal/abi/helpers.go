package abi

import (
	"encoding/binary"
	"math"
)

// WordSize is the width of one ABI word in bytes.
const WordSize = 8

func SafeMulU64(a, b uint64) (uint64, bool) {
	if b != 0 && a > math.MaxUint64/b {
		return 0, false
	}
	return a * b, true
}

func SafeAddU64(a, b uint64) (uint64, bool) {
	if a > math.MaxUint64-b {
		return 0, false
	}
	return a + b, true
}

// SatMulU64 multiplies, clamping to MaxUint64 on overflow. Widths that
// saturate can never be satisfied by a real buffer, so decoding still fails
// with a bounds error instead of wrapping around.
func SatMulU64(a, b uint64) uint64 {
	if v, ok := SafeMulU64(a, b); ok {
		return v
	}
	return math.MaxUint64
}

func SatAddU64(a, b uint64) uint64 {
	if v, ok := SafeAddU64(a, b); ok {
		return v
	}
	return math.MaxUint64
}

// PadLen rounds n up to the next multiple of WordSize, saturating at
// MaxUint64.
func PadLen(n uint64) uint64 {
	return SatMulU64(Words(n), WordSize)
}

// Words returns how many words n bytes occupy once padded.
func Words(n uint64) uint64 {
	return n/WordSize + boolToU64(n%WordSize != 0)
}

func boolToU64(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}

// Word encodes v as one big-endian word.
func Word(v uint64) []byte {
	out := make([]byte, WordSize)
	binary.BigEndian.PutUint64(out, v)
	return out
}

// PutWord writes v as a big-endian word at the start of dst.
func PutWord(dst []byte, v uint64) {
	binary.BigEndian.PutUint64(dst, v)
}

// ReadWord reads the big-endian word at the start of src. Caller checks length.
func ReadWord(src []byte) uint64 {
	return binary.BigEndian.Uint64(src[:WordSize])
}

// ZeroWords returns n zero-filled words.
func ZeroWords(n uint64) []byte {
	return make([]byte, n*WordSize)
}

// PadRight returns data zero-extended to a word boundary.
func PadRight(data []byte) []byte {
	padded := PadLen(uint64(len(data)))
	out := make([]byte, padded)
	copy(out, data)
	return out
}

// IsASCII reports whether s only holds 7-bit characters.
func IsASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}

// FirstNonASCII returns the byte index of the first non-ASCII byte, or -1.
func FirstNonASCII(s string) int {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return i
		}
	}
	return -1
}
