package transcoder

import (
	"strings"
	"testing"

	"github.com/holiman/uint256"
)

func TestTokenString(t *testing.T) {
	v, _ := NewEnumVariants(VariantOf("A", Unit()), VariantOf("B", U64()))

	tests := []struct {
		name string
		tok  Token
		want string
	}{
		{"unit", UnitToken(), "()"},
		{"bool", BoolToken(true), "true"},
		{"u16", U16Token(65535), "65535"},
		{"u256", U256Token(new(uint256.Int).Lsh(uint256.NewInt(1), 70)), "1180591620717411303424"},
		{"b256", B256Token([32]byte{0: 0xab, 31: 0x01}), "0xab" + strings.Repeat("00", 30) + "01"},
		{"str", StringSliceToken("abc"), `"abc"`},
		{"str_array", StringArrayToken("xy"), `"xy"`},
		{"bytes", BytesToken([]byte{1, 0xff}), "0x01ff"},
		{"raw_slice", RawSliceToken(1, 2), "[1,2]"},
		{"array", ArrayToken(ArrayToken(U16Token(1), U16Token(2)), U16Token(3)), "[[1,2],3]"},
		{"vector", VectorToken(), "[]"},
		{"struct", StructToken(U8Token(1), TupleToken(BoolToken(false), UnitToken())), "(1,(false,()))"},
		{"enum", EnumToken(1, U64Token(5), v), "(1,5)"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.tok.String(); got != tc.want {
				t.Errorf("String() = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTokenEqual(t *testing.T) {
	a, _ := NewEnumVariants(VariantOf("A", Unit()), VariantOf("B", U64()))
	b, _ := NewEnumVariants(VariantOf("X", Unit()), VariantOf("Y", U32()))

	tests := []struct {
		name  string
		x, y  Token
		equal bool
	}{
		{"same_u64", U64Token(1), U64Token(1), true},
		{"kind_differs", U64Token(1), U32Token(1), false},
		{"nil_vs_empty_items", VectorToken(), Token{Kind: KindVector, Items: []Token{}}, true},
		{"nil_vs_empty_bytes", BytesToken(nil), BytesToken([]byte{}), true},
		{"items_differ", ArrayToken(U8Token(1)), ArrayToken(U8Token(2)), false},
		{"length_differs", ArrayToken(U8Token(1)), ArrayToken(U8Token(1), U8Token(1)), false},
		{"big", U128Token(uint256.NewInt(9)), U128Token(uint256.NewInt(9)), true},
		{"str_len_differs", StringArrayToken("a"), Token{Kind: KindStringArray, Str: "a", StrLen: 2}, false},
		{"enum_same", EnumToken(1, U64Token(2), a), EnumToken(1, U64Token(2), a), true},
		{"enum_table_differs", EnumToken(0, UnitToken(), a), EnumToken(0, UnitToken(), b), false},
		{"enum_disc_differs", EnumToken(0, UnitToken(), a), EnumToken(1, UnitToken(), a), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.x.Equal(tc.y); got != tc.equal {
				t.Errorf("Equal = %v, want %v", got, tc.equal)
			}
		})
	}
}
