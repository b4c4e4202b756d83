package types

import (
	"strconv"
	"strings"

	"github.com/wippyai/vm-abi/transcoder/internal/abi"
)

// Param describes the shape of an encodable value. Only the fields relevant
// to Kind are set.
type Param struct {
	Elem   *Param
	Name   string
	Fields []Field
	// Generics holds the arguments a generic struct or enum was
	// instantiated with. It does not affect the encoding.
	Generics []Param
	Variants Variants
	Len      uint64
	Kind     Kind
}

// Field is a struct field or tuple element. Names are cosmetic.
type Field struct {
	Name string
	Type Param
}

// EncodingWidth returns the number of words a value of this type occupies
// inline. Heap kinds count only their header.
func (p Param) EncodingWidth() uint64 {
	switch p.Kind {
	case KindUnit, KindBool, KindU8, KindU16, KindU32, KindU64:
		return 1
	case KindU128:
		return 2
	case KindU256, KindB256:
		return 4
	case KindArray:
		if p.Elem == nil {
			return 0
		}
		return abi.SatMulU64(p.Len, p.Elem.EncodingWidth())
	case KindStringArray:
		return abi.Words(p.Len)
	case KindStringSlice, KindRawSlice, KindVector, KindBytes:
		return p.Kind.HeaderWords()
	case KindTuple, KindStruct:
		var w uint64
		for _, f := range p.Fields {
			w = abi.SatAddU64(w, f.Type.EncodingWidth())
		}
		return w
	case KindEnum:
		if p.Variants.OnlyUnits() {
			return 1
		}
		return abi.SatAddU64(1, p.Variants.WidestWidth())
	default:
		return 0
	}
}

// IsHeap reports whether the value itself is a heap container.
func (p Param) IsHeap() bool {
	return p.Kind.IsHeap()
}

// ContainsHeap reports whether p is, or transitively contains, a heap kind.
func (p Param) ContainsHeap() bool {
	if p.Kind.IsHeap() {
		return true
	}
	switch p.Kind {
	case KindArray:
		return p.Elem != nil && p.Elem.ContainsHeap()
	case KindTuple, KindStruct:
		for _, f := range p.Fields {
			if f.Type.ContainsHeap() {
				return true
			}
		}
	case KindEnum:
		for _, v := range p.Variants.list {
			if v.Type.ContainsHeap() {
				return true
			}
		}
	}
	return false
}

// String renders p as a type expression, e.g. "Vec<(u8,bool)>" or "[u64;3]".
func (p Param) String() string {
	var b strings.Builder
	p.writeTo(&b)
	return b.String()
}

func (p Param) writeTo(b *strings.Builder) {
	switch p.Kind {
	case KindUnit:
		b.WriteString("()")
	case KindBool, KindU8, KindU16, KindU32, KindU64, KindU128, KindU256, KindB256:
		b.WriteString(p.Kind.String())
	case KindArray:
		b.WriteByte('[')
		if p.Elem != nil {
			p.Elem.writeTo(b)
		}
		b.WriteByte(';')
		b.WriteString(strconv.FormatUint(p.Len, 10))
		b.WriteByte(']')
	case KindStringArray:
		b.WriteString("str[")
		b.WriteString(strconv.FormatUint(p.Len, 10))
		b.WriteByte(']')
	case KindStringSlice:
		b.WriteString("str")
	case KindRawSlice:
		b.WriteString("rawslice")
	case KindBytes:
		b.WriteString("bytes")
	case KindVector:
		b.WriteString("Vec<")
		if p.Elem != nil {
			p.Elem.writeTo(b)
		}
		b.WriteByte('>')
	case KindTuple:
		b.WriteByte('(')
		writeFieldTypes(b, p.Fields)
		b.WriteByte(')')
	case KindStruct:
		b.WriteString("struct")
		if p.Name != "" {
			b.WriteByte(' ')
			b.WriteString(p.Name)
		}
		b.WriteByte('{')
		writeFieldTypes(b, p.Fields)
		b.WriteByte('}')
	case KindEnum:
		b.WriteString("enum")
		if p.Name != "" {
			b.WriteByte(' ')
			b.WriteString(p.Name)
		}
		b.WriteByte('{')
		for i, v := range p.Variants.list {
			if i > 0 {
				b.WriteByte(',')
			}
			v.Type.writeTo(b)
		}
		b.WriteByte('}')
	default:
		b.WriteString(p.Kind.String())
	}
}

func writeFieldTypes(b *strings.Builder, fields []Field) {
	for i, f := range fields {
		if i > 0 {
			b.WriteByte(',')
		}
		f.Type.writeTo(b)
	}
}
