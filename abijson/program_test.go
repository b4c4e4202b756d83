package abijson

import (
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wippyai/vm-abi/errors"
	"github.com/wippyai/vm-abi/transcoder"
)

func loadWallet(t *testing.T) *Program {
	t.Helper()
	p, err := Load(filepath.Join("testdata", "wallet.json"))
	require.NoError(t, err)
	return p
}

func TestFunctions(t *testing.T) {
	p := loadWallet(t)

	var names []string
	for _, fn := range p.Functions() {
		names = append(names, fn.Name)
	}
	require.Equal(t, []string{"entry_one", "deposit", "mixed", "broken", "dangling"}, names)

	_, err := p.Function("missing")
	require.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestFunctionInputs(t *testing.T) {
	p := loadWallet(t)

	tests := []struct {
		fn   string
		want []string
	}{
		{"entry_one", []string{"u32"}},
		{"deposit", []string{"Vec<u64>", "enum Option{(),str}"}},
		{"mixed", []string{"struct Pair{b256,bool}", "str[5]", "[u64;3]", "(u64,bool)", "bytes", "enum Color{(),()}"}},
	}

	for _, tc := range tests {
		t.Run(tc.fn, func(t *testing.T) {
			fn, err := p.Function(tc.fn)
			require.NoError(t, err)
			inputs, err := fn.Inputs()
			require.NoError(t, err)

			got := make([]string, len(inputs))
			for i, in := range inputs {
				got[i] = in.String()
			}
			require.Equal(t, tc.want, got)
		})
	}
}

func TestFunctionOutputAndNames(t *testing.T) {
	fn, err := loadWallet(t).Function("deposit")
	require.NoError(t, err)

	out, err := fn.Output()
	require.NoError(t, err)
	require.Equal(t, transcoder.KindBool, out.Kind)
	require.Equal(t, []string{"amounts", "memo"}, fn.InputNames())
}

func TestVariantNames(t *testing.T) {
	fn, err := loadWallet(t).Function("deposit")
	require.NoError(t, err)
	inputs, err := fn.Inputs()
	require.NoError(t, err)

	v, err := inputs[1].Variants.At(1)
	require.NoError(t, err)
	require.Equal(t, "Some", v.Name)
	require.Equal(t, transcoder.KindStringSlice, v.Type.Kind)
}

func TestGenericArguments(t *testing.T) {
	fn, err := loadWallet(t).Function("mixed")
	require.NoError(t, err)
	inputs, err := fn.Inputs()
	require.NoError(t, err)

	pair := inputs[0]
	require.Len(t, pair.Generics, 1)
	require.Equal(t, transcoder.KindB256, pair.Generics[0].Kind)
	require.Empty(t, inputs[5].Generics)
}

func TestMissingComponentsIsTypedError(t *testing.T) {
	fn, err := loadWallet(t).Function("broken")
	require.NoError(t, err)

	_, err = fn.Inputs()
	require.Error(t, err)
	require.True(t, errors.IsKind(err, errors.KindInvalidData), "got %v", err)
	require.Contains(t, err.Error(), "no components")
}

func TestDanglingTypeID(t *testing.T) {
	fn, err := loadWallet(t).Function("dangling")
	require.NoError(t, err)

	_, err = fn.Inputs()
	require.True(t, errors.IsKind(err, errors.KindNotFound), "got %v", err)
}

func TestEntryOneCall(t *testing.T) {
	fn, err := loadWallet(t).Function("entry_one")
	require.NoError(t, err)

	sig, err := fn.Signature()
	require.NoError(t, err)
	require.Equal(t, "entry_one(u32)", sig)

	c, err := fn.Encode([]transcoder.Token{transcoder.U32Token(0xffffffff)}, 0)
	require.NoError(t, err)
	require.Equal(t, "b79ef74300000000ffffffff", hex.EncodeToString(c.Bytes()))
}

func TestLoggedAndMessageTypes(t *testing.T) {
	p := loadWallet(t)

	lt, err := p.LoggedType(0)
	require.NoError(t, err)
	require.Equal(t, "u64", lt.String())

	lt, err = p.LoggedType(1515152261580153489)
	require.NoError(t, err)
	require.Equal(t, "enum Color{(),()}", lt.String())

	_, err = p.LoggedType(7)
	require.True(t, errors.IsKind(err, errors.KindNotFound))

	mt, err := p.MessageType(0)
	require.NoError(t, err)
	require.Equal(t, "Vec<bool>", mt.String())
}

func TestConfigurables(t *testing.T) {
	cs, err := loadWallet(t).Configurables()
	require.NoError(t, err)
	require.Len(t, cs, 1)
	require.Equal(t, "FEE", cs[0].Name)
	require.Equal(t, uint64(4632), cs[0].Offset)
	require.Equal(t, transcoder.KindU64, cs[0].Type.Kind)
}

func TestParseErrors(t *testing.T) {
	_, err := Parse([]byte("{not json"))
	require.True(t, errors.IsKind(err, errors.KindInvalidData))

	_, err = Parse([]byte(`{"types":[{"typeId":1,"type":"u8"},{"typeId":1,"type":"u16"}]}`))
	require.True(t, errors.IsKind(err, errors.KindInvalidData))

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.True(t, errors.IsKind(err, errors.KindNotFound))
}

func TestSelfReferenceIsBounded(t *testing.T) {
	doc := `{
	  "types": [{"typeId": 0, "type": "struct Loop", "components": [{"name": "next", "type": 0}]}],
	  "functions": [{"name": "f", "inputs": [{"name": "x", "type": 0}], "output": {"name": "", "type": 0}}]
	}`
	p, err := Parse([]byte(doc))
	require.NoError(t, err)
	fn, err := p.Function("f")
	require.NoError(t, err)

	_, err = fn.Inputs()
	require.True(t, errors.IsKind(err, errors.KindLimitExceeded), "got %v", err)
}

func TestUnresolvedGeneric(t *testing.T) {
	doc := `{
	  "types": [{"typeId": 0, "type": "generic T"}],
	  "functions": [{"name": "f", "inputs": [{"name": "x", "type": 0}], "output": {"name": "", "type": 0}}]
	}`
	p, err := Parse([]byte(doc))
	require.NoError(t, err)
	fn, err := p.Function("f")
	require.NoError(t, err)

	_, err = fn.Inputs()
	require.True(t, errors.IsKind(err, errors.KindInvalidData), "got %v", err)
}

func TestUnsupportedType(t *testing.T) {
	raw, err := os.ReadFile(filepath.Join("testdata", "wallet.json"))
	require.NoError(t, err)
	p, err := Parse(raw)
	require.NoError(t, err)

	_, err = p.resolve(typeApplication{Type: 2}, nil, 0)
	require.True(t, errors.IsKind(err, errors.KindUnsupportedType), "got %v", err)
}
