package abi

import (
	"bytes"
	"math"
	"testing"
)

func TestSafeMulU64(t *testing.T) {
	tests := []struct {
		name   string
		a, b   uint64
		want   uint64
		wantOK bool
	}{
		{"zero * zero", 0, 0, 0, true},
		{"zero * max", 0, math.MaxUint64, 0, true},
		{"max * zero", math.MaxUint64, 0, 0, true},
		{"one * max", 1, math.MaxUint64, math.MaxUint64, true},
		{"small * small", 100, 200, 20000, true},
		{"overflow", math.MaxUint64, 2, 0, false},
		{"overflow symmetric", 2, math.MaxUint64, 0, false},
		{"edge case overflow", 1 << 32, 1 << 32, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SafeMulU64(tt.a, tt.b)
			if ok != tt.wantOK {
				t.Errorf("SafeMulU64(%d, %d) ok = %v, want %v", tt.a, tt.b, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("SafeMulU64(%d, %d) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSaturating(t *testing.T) {
	if got := SatMulU64(math.MaxUint64, 3); got != math.MaxUint64 {
		t.Errorf("SatMulU64 overflow = %d", got)
	}
	if got := SatAddU64(math.MaxUint64, 1); got != math.MaxUint64 {
		t.Errorf("SatAddU64 overflow = %d", got)
	}
	if got := SatAddU64(2, 3); got != 5 {
		t.Errorf("SatAddU64(2,3) = %d", got)
	}
}

func TestPadLen(t *testing.T) {
	tests := []struct {
		n, want uint64
	}{
		{0, 0}, {1, 8}, {7, 8}, {8, 8}, {9, 16}, {16, 16}, {17, 24},
	}
	for _, tt := range tests {
		if got := PadLen(tt.n); got != tt.want {
			t.Errorf("PadLen(%d) = %d, want %d", tt.n, got, tt.want)
		}
		if got := Words(tt.n); got != tt.want/WordSize {
			t.Errorf("Words(%d) = %d, want %d", tt.n, got, tt.want/WordSize)
		}
	}

	for _, n := range []uint64{math.MaxUint64, math.MaxUint64 - 3, math.MaxUint64 - 7} {
		if got := PadLen(n); got != math.MaxUint64 {
			t.Errorf("PadLen(%d) = %d, want saturation", n, got)
		}
	}
}

func TestWordRoundTrip(t *testing.T) {
	w := Word(0x0102030405060708)
	if !bytes.Equal(w, []byte{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Fatalf("Word = %x", w)
	}
	if got := ReadWord(w); got != 0x0102030405060708 {
		t.Errorf("ReadWord = %x", got)
	}

	buf := make([]byte, 16)
	PutWord(buf[8:], math.MaxUint32)
	if !bytes.Equal(buf[8:], []byte{0, 0, 0, 0, 0xff, 0xff, 0xff, 0xff}) {
		t.Errorf("PutWord = %x", buf[8:])
	}
}

func TestPadRight(t *testing.T) {
	got := PadRight([]byte("abc"))
	if len(got) != 8 || !bytes.Equal(got[:3], []byte("abc")) || got[7] != 0 {
		t.Errorf("PadRight = %x", got)
	}
	if len(PadRight(nil)) != 0 {
		t.Error("PadRight(nil) should be empty")
	}
	if len(ZeroWords(3)) != 24 {
		t.Error("ZeroWords(3) should be 24 bytes")
	}
}

func TestASCII(t *testing.T) {
	tests := []struct {
		s     string
		ascii bool
		first int
	}{
		{"", true, -1},
		{"hello", true, -1},
		{"héllo", false, 1},
		{"abc\x80", false, 3},
	}
	for _, tt := range tests {
		if got := IsASCII(tt.s); got != tt.ascii {
			t.Errorf("IsASCII(%q) = %v", tt.s, got)
		}
		if got := FirstNonASCII(tt.s); got != tt.first {
			t.Errorf("FirstNonASCII(%q) = %d, want %d", tt.s, got, tt.first)
		}
	}
}
