package transcoder

import (
	"github.com/wippyai/vm-abi/transcoder/internal/types"
)

// ParamType is a type descriptor: the shape of one encodable value.
type ParamType = types.Param

// Field is a struct field or tuple element.
type Field = types.Field

// Variant is one named enum case.
type Variant = types.Variant

// EnumVariants is the ordered variant table of an enum.
type EnumVariants = types.Variants

// Kind tags both descriptors and tokens.
type Kind = types.Kind

const (
	KindUnit        = types.KindUnit
	KindBool        = types.KindBool
	KindU8          = types.KindU8
	KindU16         = types.KindU16
	KindU32         = types.KindU32
	KindU64         = types.KindU64
	KindU128        = types.KindU128
	KindU256        = types.KindU256
	KindB256        = types.KindB256
	KindArray       = types.KindArray
	KindStringArray = types.KindStringArray
	KindStringSlice = types.KindStringSlice
	KindRawSlice    = types.KindRawSlice
	KindBytes       = types.KindBytes
	KindTuple       = types.KindTuple
	KindStruct      = types.KindStruct
	KindEnum        = types.KindEnum
	KindVector      = types.KindVector
)

func Unit() ParamType        { return ParamType{Kind: KindUnit} }
func Bool() ParamType        { return ParamType{Kind: KindBool} }
func U8() ParamType          { return ParamType{Kind: KindU8} }
func U16() ParamType         { return ParamType{Kind: KindU16} }
func U32() ParamType         { return ParamType{Kind: KindU32} }
func U64() ParamType         { return ParamType{Kind: KindU64} }
func U128() ParamType        { return ParamType{Kind: KindU128} }
func U256() ParamType        { return ParamType{Kind: KindU256} }
func B256() ParamType        { return ParamType{Kind: KindB256} }
func StringSlice() ParamType { return ParamType{Kind: KindStringSlice} }
func RawSlice() ParamType    { return ParamType{Kind: KindRawSlice} }
func Bytes() ParamType       { return ParamType{Kind: KindBytes} }

// StringArray is a fixed-length ASCII string of n bytes.
func StringArray(n uint64) ParamType {
	return ParamType{Kind: KindStringArray, Len: n}
}

func ArrayOf(elem ParamType, n uint64) ParamType {
	return ParamType{Kind: KindArray, Elem: &elem, Len: n}
}

func VectorOf(elem ParamType) ParamType {
	return ParamType{Kind: KindVector, Elem: &elem}
}

func TupleOf(elems ...ParamType) ParamType {
	fields := make([]Field, len(elems))
	for i, e := range elems {
		fields[i] = Field{Type: e}
	}
	return ParamType{Kind: KindTuple, Fields: fields}
}

func StructOf(name string, fields ...Field) ParamType {
	return ParamType{Kind: KindStruct, Name: name, Fields: fields}
}

func FieldOf(name string, t ParamType) Field {
	return Field{Name: name, Type: t}
}

func VariantOf(name string, t ParamType) Variant {
	return Variant{Name: name, Type: t}
}

// NewEnumVariants builds a variant table. At least one variant is required.
func NewEnumVariants(variants ...Variant) (EnumVariants, error) {
	return types.NewVariants(variants)
}

func EnumOf(name string, variants EnumVariants) ParamType {
	return ParamType{Kind: KindEnum, Name: name, Variants: variants}
}
