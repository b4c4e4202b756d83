// Package witabi maps component-model WIT types onto transcoder descriptors.
//
// The word encoding has no signed or floating point kinds, so s8..s64,
// f32, f64 and char are rejected, as are flags and resource handles.
package witabi

import (
	"fmt"
	"strconv"
	"strings"

	"go.bytecodealliance.org/wit"

	"github.com/wippyai/vm-abi/errors"
	"github.com/wippyai/vm-abi/transcoder"
)

// FromWIT converts a WIT type to a descriptor.
func FromWIT(t wit.Type) (transcoder.ParamType, error) {
	return convert(t, nil)
}

// FromWITAll converts a parameter list.
func FromWITAll(ts []wit.Type) ([]transcoder.ParamType, error) {
	out := make([]transcoder.ParamType, len(ts))
	for i, t := range ts {
		p, err := convert(t, []string{argPath(i)})
		if err != nil {
			return nil, err
		}
		out[i] = p
	}
	return out, nil
}

// Parse parses a primitive WIT type name and converts it.
func Parse(s string) (transcoder.ParamType, error) {
	t, err := wit.ParseType(strings.TrimSpace(s))
	if err != nil {
		return transcoder.ParamType{}, errors.ParseFailed("wit type "+s, err)
	}
	return FromWIT(t)
}

func convert(t wit.Type, path []string) (transcoder.ParamType, error) {
	switch t := t.(type) {
	case nil:
		return transcoder.Unit(), nil
	case wit.Bool:
		return transcoder.Bool(), nil
	case wit.U8:
		return transcoder.U8(), nil
	case wit.U16:
		return transcoder.U16(), nil
	case wit.U32:
		return transcoder.U32(), nil
	case wit.U64:
		return transcoder.U64(), nil
	case wit.String:
		return transcoder.StringSlice(), nil
	case *wit.TypeDef:
		if t == nil || t.Kind == nil {
			return transcoder.ParamType{}, errors.InvalidData(errors.PhaseParse, path, "type definition without kind")
		}
		return convertDef(t, path)
	}
	return transcoder.ParamType{}, unsupported(path, t)
}

func convertDef(td *wit.TypeDef, path []string) (transcoder.ParamType, error) {
	name := ""
	if td.Name != nil {
		name = *td.Name
	}

	switch k := td.Kind.(type) {
	case *wit.Record:
		fields := make([]transcoder.Field, len(k.Fields))
		for i, f := range k.Fields {
			ft, err := convert(f.Type, appendPath(path, f.Name))
			if err != nil {
				return transcoder.ParamType{}, err
			}
			fields[i] = transcoder.FieldOf(f.Name, ft)
		}
		return transcoder.StructOf(name, fields...), nil

	case *wit.List:
		if _, ok := k.Type.(wit.U8); ok {
			return transcoder.Bytes(), nil
		}
		elem, err := convert(k.Type, appendPath(path, "elem"))
		if err != nil {
			return transcoder.ParamType{}, err
		}
		return transcoder.VectorOf(elem), nil

	case *wit.Tuple:
		elems := make([]transcoder.ParamType, len(k.Types))
		for i, et := range k.Types {
			p, err := convert(et, appendPath(path, argPath(i)))
			if err != nil {
				return transcoder.ParamType{}, err
			}
			elems[i] = p
		}
		return transcoder.TupleOf(elems...), nil

	case *wit.Variant:
		variants := make([]transcoder.Variant, len(k.Cases))
		for i, c := range k.Cases {
			p, err := convert(c.Type, appendPath(path, c.Name))
			if err != nil {
				return transcoder.ParamType{}, err
			}
			variants[i] = transcoder.VariantOf(c.Name, p)
		}
		return enum(name, path, variants)

	case *wit.Enum:
		variants := make([]transcoder.Variant, len(k.Cases))
		for i, c := range k.Cases {
			variants[i] = transcoder.VariantOf(c.Name, transcoder.Unit())
		}
		return enum(name, path, variants)

	case *wit.Option:
		some, err := convert(k.Type, appendPath(path, "some"))
		if err != nil {
			return transcoder.ParamType{}, err
		}
		return enum(name, path, []transcoder.Variant{
			transcoder.VariantOf("none", transcoder.Unit()),
			transcoder.VariantOf("some", some),
		})

	case *wit.Result:
		ok, err := convert(k.OK, appendPath(path, "ok"))
		if err != nil {
			return transcoder.ParamType{}, err
		}
		bad, err := convert(k.Err, appendPath(path, "err"))
		if err != nil {
			return transcoder.ParamType{}, err
		}
		return enum(name, path, []transcoder.Variant{
			transcoder.VariantOf("ok", ok),
			transcoder.VariantOf("err", bad),
		})

	case *wit.Flags, *wit.Own, *wit.Borrow:
		return transcoder.ParamType{}, unsupported(path, td)

	case wit.Type:
		return convert(k, path)
	}
	return transcoder.ParamType{}, unsupported(path, td)
}

func enum(name string, path []string, variants []transcoder.Variant) (transcoder.ParamType, error) {
	v, err := transcoder.NewEnumVariants(variants...)
	if err != nil {
		return transcoder.ParamType{}, errors.WithPath(errors.PhaseParse, err, path...)
	}
	return transcoder.EnumOf(name, v), nil
}

func unsupported(path []string, t wit.Type) error {
	return errors.UnsupportedType(errors.PhaseParse, path, "no word encoding for wit type "+typeName(t))
}

func typeName(t wit.Type) string {
	if td, ok := t.(*wit.TypeDef); ok && td != nil {
		if td.Name != nil {
			return *td.Name
		}
		return strings.TrimPrefix(fmt.Sprintf("%T", td.Kind), "*wit.")
	}
	return strings.TrimPrefix(fmt.Sprintf("%T", t), "wit.")
}

func argPath(i int) string {
	return "[" + strconv.Itoa(i) + "]"
}

func appendPath(path []string, seg string) []string {
	return append(path[:len(path):len(path)], seg)
}
