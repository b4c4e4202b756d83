package transcoder

import (
	"bytes"
	"encoding/hex"
	"math"
	"strings"
	"testing"

	"github.com/chrismcguire/gobberish"
	"github.com/holiman/uint256"

	"github.com/wippyai/vm-abi/errors"
)

func TestEncode_ScalarsAreWordAligned(t *testing.T) {
	tokens := []Token{
		UnitToken(),
		BoolToken(true),
		U8Token(1),
		U16Token(2),
		U32Token(3),
		U64Token(4),
		U128Token(uint256.NewInt(5)),
		U256Token(uint256.NewInt(6)),
		B256Token([32]byte{7}),
	}

	for _, tok := range tokens {
		t.Run(tok.Kind.String(), func(t *testing.T) {
			out := mustEncode(t, tok).Resolve(0)
			if len(out)%8 != 0 {
				t.Errorf("len = %d, not word aligned", len(out))
			}
		})
	}
}

func TestEncode_Scalars(t *testing.T) {
	u128 := new(uint256.Int).Lsh(uint256.NewInt(1), 64)
	u128.AddUint64(u128, 2)

	tests := []struct {
		name string
		tok  Token
		want []byte
	}{
		{"unit", UnitToken(), words(0)},
		{"bool", BoolToken(true), words(1)},
		{"u8", U8Token(0xab), words(0xab)},
		{"u32_max", U32Token(math.MaxUint32), words(math.MaxUint32)},
		{"u128", U128Token(u128), words(1, 2)},
		{"u256", U256Token(uint256.NewInt(5)), words(0, 0, 0, 5)},
		{"str_array", StringArrayToken("hello"), []byte("hello\x00\x00\x00")},
		{"empty_str_array", StringArrayToken(""), []byte{}},
		{"tuple", TupleToken(U8Token(1), BoolToken(false)), words(1, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := mustEncode(t, tc.tok).Resolve(0)
			if !bytes.Equal(got, tc.want) {
				t.Errorf("got %x, want %x", got, tc.want)
			}
		})
	}
}

func TestEncode_EntryOneScenario(t *testing.T) {
	got := mustEncode(t, U32Token(math.MaxUint32)).Resolve(0)
	want, _ := hex.DecodeString("00000000ffffffff")
	if !bytes.Equal(got, want) {
		t.Errorf("got %x, want %x", got, want)
	}
}

func TestEncode_VectorPointer(t *testing.T) {
	got := mustEncode(t, VectorToken(U64Token(5))).Resolve(150)
	want := words(150+3*8, 1, 1, 5)
	if !bytes.Equal(got, want) {
		t.Errorf("got %x, want %x", got, want)
	}
}

func TestEncode_SiblingVectorsPlaceHeadersFirst(t *testing.T) {
	ub := mustEncode(t,
		VectorToken(U8Token(1), U8Token(2)),
		VectorToken(U8Token(3)),
	)
	got := ub.Resolve(0)
	want := words(
		48, 2, 2, // first header
		64, 1, 1, // second header
		1, 2, // first payload
		3, // second payload
	)
	if !bytes.Equal(got, want) {
		t.Errorf("got %x, want %x", got, want)
	}
	if ub.InlineLen() != 48 || ub.Len() != 72 {
		t.Errorf("InlineLen=%d Len=%d", ub.InlineLen(), ub.Len())
	}
}

func TestEncode_NestedVectors(t *testing.T) {
	got := mustEncode(t, VectorToken(VectorToken(U8Token(7)))).Resolve(0)
	want := words(
		24, 1, 1, // outer header
		48, 1, 1, // inner header, inside outer payload
		7,
	)
	if !bytes.Equal(got, want) {
		t.Errorf("got %x, want %x", got, want)
	}
}

func TestEncode_HeapHeaders(t *testing.T) {
	tests := []struct {
		name string
		tok  Token
		want []byte
	}{
		{"string_slice", StringSliceToken("abc"), append(words(16, 3), "abc"...)},
		{"bytes", BytesToken([]byte{1, 2, 3}), append(words(24, 8, 3), 1, 2, 3, 0, 0, 0, 0, 0)},
		{"raw_slice", RawSliceToken(7, 8), words(16, 16, 7, 8)},
		{"empty_vector", VectorToken(), words(24, 0, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := mustEncode(t, tc.tok).Resolve(0)
			if !bytes.Equal(got, tc.want) {
				t.Errorf("got %x, want %x", got, tc.want)
			}
		})
	}
}

func TestEncode_EnumPadding(t *testing.T) {
	v := mustVariants(t,
		VariantOf("Num", U64()),
		VariantOf("Hash", B256()),
		VariantOf("Nothing", Unit()),
	)
	hash := [32]byte{31: 9}

	tests := []struct {
		name string
		tok  Token
		want []byte
	}{
		{"narrow", EnumToken(0, U64Token(9), v), words(0, 0, 0, 0, 9)},
		{"widest", EnumToken(1, B256Token(hash), v), words(1, 0, 0, 0, 9)},
		{"unit", EnumToken(2, UnitToken(), v), words(2, 0, 0, 0, 0)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := mustEncode(t, tc.tok).Resolve(0)
			if len(got) != 8*(1+4) {
				t.Fatalf("len = %d, want %d", len(got), 8*(1+4))
			}
			if !bytes.Equal(got, tc.want) {
				t.Errorf("got %x, want %x", got, tc.want)
			}
		})
	}
}

func TestEncode_AllUnitEnum(t *testing.T) {
	v := mustVariants(t, VariantOf("A", Unit()), VariantOf("B", Unit()))
	got := mustEncode(t, EnumToken(1, UnitToken(), v)).Resolve(0)
	if !bytes.Equal(got, words(1)) {
		t.Errorf("got %x, want discriminant only", got)
	}
}

func TestEncode_Errors(t *testing.T) {
	v := mustVariants(t, VariantOf("A", U32()))

	tests := []struct {
		name string
		tok  Token
		kind errors.Kind
	}{
		{"u8_overflow", Token{Kind: KindU8, Uint: 256}, errors.KindOverflow},
		{"u16_overflow", Token{Kind: KindU16, Uint: 1 << 16}, errors.KindOverflow},
		{"u32_overflow", Token{Kind: KindU32, Uint: 1 << 32}, errors.KindOverflow},
		{"u128_overflow", U128Token(new(uint256.Int).Lsh(uint256.NewInt(1), 128)), errors.KindOverflow},
		{"str_len_mismatch", Token{Kind: KindStringArray, Str: "abc", StrLen: 4}, errors.KindInvalidData},
		{"non_ascii_str_array", StringArrayToken("héllo"), errors.KindInvalidData},
		{"non_ascii_slice", StringSliceToken("naïve"), errors.KindInvalidData},
		{"discriminant_out_of_range", EnumToken(1, U32Token(0), v), errors.KindUnresolvedDiscriminant},
		{"variant_kind_mismatch", EnumToken(0, BoolToken(true), v), errors.KindTypeMismatch},
		{"enum_without_selector", Token{Kind: KindEnum}, errors.KindInvalidData},
		{"unknown_kind", Token{Kind: Kind(200)}, errors.KindUnsupportedType},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewEncoder().Encode([]Token{tc.tok})
			if !errors.IsKind(err, tc.kind) {
				t.Fatalf("expected %s, got %v", tc.kind, err)
			}
		})
	}
}

func TestEncode_ErrorPath(t *testing.T) {
	_, err := NewEncoder().Encode([]Token{
		U8Token(1),
		StructToken(U8Token(2), VectorToken(StringSliceToken("ok"), StringSliceToken("ü"))),
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "arg[1].[1].[1]") {
		t.Errorf("error %q should name the offending element", err)
	}
}

func TestEncode_RandomUnicodeRejected(t *testing.T) {
	for i := 1; i <= 32; i++ {
		s := gobberish.GenerateString(i) + "é"
		_, err := NewEncoder().Encode([]Token{StringSliceToken(s)})
		if !errors.IsKind(err, errors.KindInvalidData) {
			t.Fatalf("string %q: expected invalid_data, got %v", s, err)
		}
	}
}

func TestResolve_LengthIndependentOfBase(t *testing.T) {
	ub := mustEncode(t,
		StructToken(U64Token(1), BytesToken([]byte("abcdefghij"))),
		VectorToken(VectorToken(U16Token(1)), VectorToken()),
	)
	for _, base := range []uint64{0, 8, 1 << 20} {
		if got := uint64(len(ub.Resolve(base))); got != ub.Len() {
			t.Errorf("base %d: resolved %d bytes, Len() = %d", base, got, ub.Len())
		}
	}
}
