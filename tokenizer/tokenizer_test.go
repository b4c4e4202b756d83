package tokenizer

import (
	"strings"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/vm-abi/errors"
	"github.com/wippyai/vm-abi/transcoder"
)

func TestTokenizeArrayRagged(t *testing.T) {
	tok, err := TokenizeArray("[[1,2],[3],4]", transcoder.U16())
	require.NoError(t, err)

	want := transcoder.ArrayToken(
		transcoder.ArrayToken(transcoder.U16Token(1), transcoder.U16Token(2)),
		transcoder.ArrayToken(transcoder.U16Token(3)),
		transcoder.U16Token(4),
	)
	require.True(t, tok.Equal(want), "got %s", tok)
}

func TestTokenizePrimitives(t *testing.T) {
	hash := "0x" + strings.Repeat("ab", 32)

	tests := []struct {
		typ   transcoder.ParamType
		input string
		want  transcoder.Token
	}{
		{transcoder.Unit(), "()", transcoder.UnitToken()},
		{transcoder.Bool(), "true", transcoder.BoolToken(true)},
		{transcoder.Bool(), " false ", transcoder.BoolToken(false)},
		{transcoder.U8(), "255", transcoder.U8Token(255)},
		{transcoder.U16(), "0x10", transcoder.U16Token(16)},
		{transcoder.U32(), "4294967295", transcoder.U32Token(4294967295)},
		{transcoder.U64(), "18446744073709551615", transcoder.U64Token(18446744073709551615)},
		{transcoder.U128(), "340282366920938463463374607431768211455",
			transcoder.U128Token(new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1)))},
		{transcoder.U256(), "0x0100", transcoder.U256Token(uint256.NewInt(256))},
		{transcoder.U256(), "0x0", transcoder.U256Token(uint256.NewInt(0))},
		{transcoder.StringArray(3), `"abc"`, transcoder.StringArrayToken("abc")},
		{transcoder.StringArray(3), "abc", transcoder.StringArrayToken("abc")},
		{transcoder.StringSlice(), `"a,b(c"`, transcoder.StringSliceToken("a,b(c")},
		{transcoder.Bytes(), "0x01ff", transcoder.BytesToken([]byte{1, 0xff})},
		{transcoder.RawSlice(), "[1, 2]", transcoder.RawSliceToken(1, 2)},
	}

	for _, tc := range tests {
		t.Run(tc.typ.String()+"/"+tc.input, func(t *testing.T) {
			tok, err := Tokenize(tc.typ, tc.input)
			require.NoError(t, err)
			require.True(t, tok.Equal(tc.want), "got %s, want %s", tok, tc.want)
		})
	}

	tok, err := Tokenize(transcoder.B256(), hash)
	require.NoError(t, err)
	require.Equal(t, byte(0xab), tok.Hash[31])
}

func TestTokenizeComposites(t *testing.T) {
	opt, err := transcoder.NewEnumVariants(
		transcoder.VariantOf("None", transcoder.Unit()),
		transcoder.VariantOf("Some", transcoder.StructOf("P", transcoder.FieldOf("x", transcoder.U8()), transcoder.FieldOf("s", transcoder.StringSlice()))),
	)
	require.NoError(t, err)

	tests := []struct {
		name  string
		typ   transcoder.ParamType
		input string
		want  transcoder.Token
	}{
		{
			"array",
			transcoder.ArrayOf(transcoder.U8(), 3),
			"[1, 2, 3]",
			transcoder.ArrayToken(transcoder.U8Token(1), transcoder.U8Token(2), transcoder.U8Token(3)),
		},
		{
			"vector_of_tuples",
			transcoder.VectorOf(transcoder.TupleOf(transcoder.U8(), transcoder.Bool())),
			"[(1,true),(2,false)]",
			transcoder.VectorToken(
				transcoder.TupleToken(transcoder.U8Token(1), transcoder.BoolToken(true)),
				transcoder.TupleToken(transcoder.U8Token(2), transcoder.BoolToken(false)),
			),
		},
		{"empty_vector", transcoder.VectorOf(transcoder.U64()), "[]", transcoder.VectorToken()},
		{
			"enum_some",
			transcoder.EnumOf("Option", opt),
			`(1,(7,"x,y"))`,
			transcoder.EnumToken(1, transcoder.StructToken(transcoder.U8Token(7), transcoder.StringSliceToken("x,y")), opt),
		},
		{"enum_none", transcoder.EnumOf("Option", opt), "(0,())", transcoder.EnumToken(0, transcoder.UnitToken(), opt)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tok, err := Tokenize(tc.typ, tc.input)
			require.NoError(t, err)
			require.True(t, tok.Equal(tc.want), "got %s, want %s", tok, tc.want)
		})
	}
}

func TestTokenizeErrors(t *testing.T) {
	pair := transcoder.TupleOf(transcoder.U8(), transcoder.U8())
	one, err := transcoder.NewEnumVariants(transcoder.VariantOf("A", transcoder.U8()))
	require.NoError(t, err)

	tests := []struct {
		name   string
		typ    transcoder.ParamType
		input  string
		kind   errors.Kind
		detail string
	}{
		{"excess_open", transcoder.VectorOf(pair), "[(1,2]", errors.KindInvalidData, "unclosed opening bracket"},
		{"excess_close", transcoder.VectorOf(transcoder.U8()), "[1),2]", errors.KindInvalidData, "closing bracket without opening"},
		{"unbalanced_quotes", transcoder.VectorOf(transcoder.StringSlice()), `["a,"b"]`, errors.KindInvalidData, "unbalanced quotes"},
		{"too_many_fields", pair, "(1,2,3)", errors.KindInvalidData, "too many"},
		{"too_few_fields", pair, "(1)", errors.KindInvalidData, "too few"},
		{"too_few_array_elements", transcoder.ArrayOf(transcoder.U8(), 3), "[1,2]", errors.KindInvalidData, "too few"},
		{"wrong_delimiters", pair, "[1,2]", errors.KindInvalidData, "enclosed in ()"},
		{"trailing_data", transcoder.VectorOf(transcoder.U8()), "[1],[2]", errors.KindInvalidData, "unexpected data"},
		{"u8_overflow", transcoder.U8(), "256", errors.KindOverflow, "overflows u8"},
		{"u128_overflow", transcoder.U128(), "0x1" + strings.Repeat("0", 32), errors.KindOverflow, "overflows u128"},
		{"not_a_number", transcoder.U32(), "abc", errors.KindInvalidData, "unsigned integer"},
		{"bad_bool", transcoder.Bool(), "yes", errors.KindInvalidData, "true or false"},
		{"b256_length", transcoder.B256(), "0xabcd", errors.KindInvalidData, "64 hex digits"},
		{"odd_hex", transcoder.Bytes(), "0xabc", errors.KindInvalidData, "odd length"},
		{"str_length", transcoder.StringArray(4), "abc", errors.KindInvalidData, "expected 4"},
		{"non_ascii", transcoder.StringSlice(), "héllo", errors.KindInvalidData, "ASCII"},
		{"enum_discriminant", transcoder.EnumOf("E", one), "(3,1)", errors.KindUnresolvedDiscriminant, "discriminant 3"},
		{"enum_parts", transcoder.EnumOf("E", one), "(0)", errors.KindInvalidData, "too few"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Tokenize(tc.typ, tc.input)
			require.Error(t, err)
			require.True(t, errors.IsKind(err, tc.kind), "got %v", err)
			require.Contains(t, err.Error(), tc.detail)
		})
	}
}

func TestTokenizeErrorPath(t *testing.T) {
	typ := transcoder.VectorOf(transcoder.TupleOf(transcoder.U8(), transcoder.U8()))
	_, err := Tokenize(typ, "[(1,2),(3,300)]")
	require.Error(t, err)
	require.Contains(t, err.Error(), "[1].[1]")
}

func TestTokenStringRoundTrip(t *testing.T) {
	v, err := transcoder.NewEnumVariants(
		transcoder.VariantOf("A", transcoder.Unit()),
		transcoder.VariantOf("B", transcoder.ArrayOf(transcoder.U32(), 2)),
	)
	require.NoError(t, err)

	typ := transcoder.StructOf("S",
		transcoder.FieldOf("flag", transcoder.Bool()),
		transcoder.FieldOf("name", transcoder.StringArray(4)),
		transcoder.FieldOf("data", transcoder.Bytes()),
		transcoder.FieldOf("choice", transcoder.EnumOf("E", v)),
		transcoder.FieldOf("list", transcoder.VectorOf(transcoder.U256())),
		transcoder.FieldOf("hash", transcoder.B256()),
	)
	tok := transcoder.StructToken(
		transcoder.BoolToken(true),
		transcoder.StringArrayToken("fuel"),
		transcoder.BytesToken([]byte{9, 8}),
		transcoder.EnumToken(1, transcoder.ArrayToken(transcoder.U32Token(1), transcoder.U32Token(2)), v),
		transcoder.VectorToken(transcoder.U256Token(uint256.NewInt(1000))),
		transcoder.B256Token([32]byte{1}),
	)

	got, err := Tokenize(typ, tok.String())
	require.NoError(t, err)
	require.True(t, got.Equal(tok), "got %s, want %s", got, tok)
}
