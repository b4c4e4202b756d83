package abijson

import (
	"os"
	"strconv"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/wippyai/vm-abi/call"
	"github.com/wippyai/vm-abi/errors"
	"github.com/wippyai/vm-abi/transcoder"
)

// maxTypeDepth bounds resolution of self-referencing type declarations.
const maxTypeDepth = 64

// Program is a parsed program interface.
type Program struct {
	types     map[int]typeDeclaration
	byName    map[string]*Function
	functions []*Function
	doc       document
}

// Function is a callable entry of a program.
type Function struct {
	prog   *Program
	Name   string
	inputs []typeApplication
	output typeApplication
}

// Configurable is a constant slot of a program's data section.
type Configurable struct {
	Name   string
	Type   transcoder.ParamType
	Offset uint64
}

// Parse reads a JSON program interface.
func Parse(data []byte) (*Program, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.ParseFailed("program interface", err)
	}

	p := &Program{
		doc:    doc,
		types:  make(map[int]typeDeclaration, len(doc.Types)),
		byName: make(map[string]*Function, len(doc.Functions)),
	}
	for _, t := range doc.Types {
		if _, dup := p.types[t.TypeID]; dup {
			return nil, errors.New(errors.PhaseParse, errors.KindInvalidData).
				Value(t.TypeID).
				Detail("duplicate type id %d", t.TypeID).
				Build()
		}
		p.types[t.TypeID] = t
	}
	for _, fd := range doc.Functions {
		fn := &Function{prog: p, Name: fd.Name, inputs: fd.Inputs, output: fd.Output}
		p.functions = append(p.functions, fn)
		p.byName[fd.Name] = fn
	}
	return p, nil
}

// Load reads and parses a program interface file.
func Load(path string) (*Program, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseParse, errors.KindNotFound, err, "read "+path)
	}
	return Parse(data)
}

// Functions returns the functions in declaration order.
func (p *Program) Functions() []*Function {
	return append([]*Function(nil), p.functions...)
}

func (p *Program) Function(name string) (*Function, error) {
	fn, ok := p.byName[name]
	if !ok {
		return nil, errors.NotFound(errors.PhaseParse, "function", name)
	}
	return fn, nil
}

// LoggedType returns the descriptor of the value logged under logID.
func (p *Program) LoggedType(logID uint64) (transcoder.ParamType, error) {
	for _, lt := range p.doc.LoggedTypes {
		if uint64(lt.LogID) == logID {
			return p.resolve(lt.LoggedType, nil, 0)
		}
	}
	return transcoder.ParamType{}, errors.NotFound(errors.PhaseParse, "log id", strconv.FormatUint(logID, 10))
}

// MessageType returns the descriptor of the message sent under messageID.
func (p *Program) MessageType(messageID uint64) (transcoder.ParamType, error) {
	for _, mt := range p.doc.MessagesTypes {
		if uint64(mt.MessageID) == messageID {
			return p.resolve(mt.MessageType, nil, 0)
		}
	}
	return transcoder.ParamType{}, errors.NotFound(errors.PhaseParse, "message id", strconv.FormatUint(messageID, 10))
}

// Configurables resolves every configurable constant.
func (p *Program) Configurables() ([]Configurable, error) {
	out := make([]Configurable, 0, len(p.doc.Configurables))
	for _, c := range p.doc.Configurables {
		t, err := p.resolve(c.ConfigurableType, nil, 0)
		if err != nil {
			return nil, errors.WithPath(errors.PhaseParse, err, c.Name)
		}
		out = append(out, Configurable{Name: c.Name, Type: t, Offset: c.Offset})
	}
	return out, nil
}

// Inputs resolves the argument descriptors.
func (f *Function) Inputs() ([]transcoder.ParamType, error) {
	out := make([]transcoder.ParamType, 0, len(f.inputs))
	for _, in := range f.inputs {
		t, err := f.prog.resolve(in, nil, 0)
		if err != nil {
			return nil, errors.WithPath(errors.PhaseParse, err, f.Name, in.Name)
		}
		out = append(out, t)
	}
	return out, nil
}

// InputNames returns the declared argument names.
func (f *Function) InputNames() []string {
	names := make([]string, len(f.inputs))
	for i, in := range f.inputs {
		names[i] = in.Name
	}
	return names
}

// Output resolves the return descriptor.
func (f *Function) Output() (transcoder.ParamType, error) {
	t, err := f.prog.resolve(f.output, nil, 0)
	if err != nil {
		return transcoder.ParamType{}, errors.WithPath(errors.PhaseParse, err, f.Name, "output")
	}
	return t, nil
}

// Signature returns the canonical signature used for the selector.
func (f *Function) Signature() (string, error) {
	inputs, err := f.Inputs()
	if err != nil {
		return "", err
	}
	return call.Signature(f.Name, inputs), nil
}

// Encode builds call data for this function.
func (f *Function) Encode(tokens []transcoder.Token, offset uint64) (call.Call, error) {
	inputs, err := f.Inputs()
	if err != nil {
		return call.Call{}, err
	}
	return call.Encode(f.Name, inputs, tokens, offset)
}

var primitives = map[string]func() transcoder.ParamType{
	"()":                transcoder.Unit,
	"bool":              transcoder.Bool,
	"u8":                transcoder.U8,
	"u16":               transcoder.U16,
	"u32":               transcoder.U32,
	"u64":               transcoder.U64,
	"u128":              transcoder.U128,
	"u256":              transcoder.U256,
	"b256":              transcoder.B256,
	"str":               transcoder.StringSlice,
	"raw untyped slice": transcoder.RawSlice,
}

var builtinStructs = map[string]transcoder.Kind{
	"struct Vec":                 transcoder.KindVector,
	"struct std::vec::Vec":       transcoder.KindVector,
	"struct Bytes":               transcoder.KindBytes,
	"struct std::bytes::Bytes":   transcoder.KindBytes,
	"struct String":              transcoder.KindStringSlice,
	"struct std::string::String": transcoder.KindStringSlice,
}

// resolve turns a type application into a descriptor. env maps generic
// type ids to the descriptors they stand for.
func (p *Program) resolve(app typeApplication, env map[int]transcoder.ParamType, depth int) (transcoder.ParamType, error) {
	if depth > maxTypeDepth {
		return transcoder.ParamType{}, errors.New(errors.PhaseParse, errors.KindLimitExceeded).
			Value(app.Type).
			Detail("type %d nests deeper than %d levels", app.Type, maxTypeDepth).
			Build()
	}

	decl, ok := p.types[app.Type]
	if !ok {
		return transcoder.ParamType{}, errors.NotFound(errors.PhaseParse, "type id", strconv.Itoa(app.Type))
	}
	name := decl.Type

	if ctor, ok := primitives[name]; ok {
		return ctor(), nil
	}

	if kind, ok := builtinStructs[name]; ok {
		switch kind {
		case transcoder.KindVector:
			if len(app.TypeArguments) != 1 {
				return transcoder.ParamType{}, p.invalid(app, "Vec needs exactly one type argument")
			}
			elem, err := p.resolve(app.TypeArguments[0], env, depth+1)
			if err != nil {
				return transcoder.ParamType{}, err
			}
			return transcoder.VectorOf(elem), nil
		case transcoder.KindBytes:
			return transcoder.Bytes(), nil
		default:
			return transcoder.StringSlice(), nil
		}
	}

	switch {
	case strings.HasPrefix(name, "generic "):
		t, ok := env[decl.TypeID]
		if !ok {
			return transcoder.ParamType{}, p.invalid(app, "unresolved "+name)
		}
		return t, nil

	case strings.HasPrefix(name, "str[") && strings.HasSuffix(name, "]"):
		n, err := strconv.ParseUint(name[4:len(name)-1], 10, 64)
		if err != nil {
			return transcoder.ParamType{}, p.invalid(app, "bad string length in "+name)
		}
		return transcoder.StringArray(n), nil

	case strings.HasPrefix(name, "[_;") && strings.HasSuffix(name, "]"):
		n, err := strconv.ParseUint(strings.TrimSpace(name[3:len(name)-1]), 10, 64)
		if err != nil {
			return transcoder.ParamType{}, p.invalid(app, "bad array length in "+name)
		}
		if len(decl.Components) != 1 {
			return transcoder.ParamType{}, p.invalid(app, "array needs exactly one element component")
		}
		elem, err := p.resolve(decl.Components[0], env, depth+1)
		if err != nil {
			return transcoder.ParamType{}, err
		}
		return transcoder.ArrayOf(elem, n), nil

	case strings.HasPrefix(name, "(") && strings.HasSuffix(name, ")"):
		fields, _, err := p.components(app, decl, env, depth)
		if err != nil {
			return transcoder.ParamType{}, err
		}
		elems := make([]transcoder.ParamType, len(fields))
		for i, f := range fields {
			elems[i] = f.Type
		}
		return transcoder.TupleOf(elems...), nil

	case strings.HasPrefix(name, "struct "):
		fields, generics, err := p.components(app, decl, env, depth)
		if err != nil {
			return transcoder.ParamType{}, err
		}
		t := transcoder.StructOf(strings.TrimPrefix(name, "struct "), fields...)
		t.Generics = generics
		return t, nil

	case strings.HasPrefix(name, "enum "):
		fields, generics, err := p.components(app, decl, env, depth)
		if err != nil {
			return transcoder.ParamType{}, err
		}
		variants := make([]transcoder.Variant, len(fields))
		for i, f := range fields {
			variants[i] = transcoder.VariantOf(f.Name, f.Type)
		}
		v, err := transcoder.NewEnumVariants(variants...)
		if err != nil {
			return transcoder.ParamType{}, errors.WithPath(errors.PhaseParse, err, name)
		}
		t := transcoder.EnumOf(strings.TrimPrefix(name, "enum "), v)
		t.Generics = generics
		return t, nil
	}

	return transcoder.ParamType{}, errors.UnsupportedType(errors.PhaseParse, nil, "type "+strconv.Quote(name))
}

// components resolves the members of a struct, enum or tuple declaration,
// binding its type parameters to the application's type arguments. The
// bound arguments are returned in declaration order.
func (p *Program) components(app typeApplication, decl typeDeclaration, env map[int]transcoder.ParamType, depth int) ([]transcoder.Field, []transcoder.ParamType, error) {
	if decl.Components == nil {
		return nil, nil, p.invalid(app, decl.Type+" has no components")
	}
	if len(decl.TypeParameters) != len(app.TypeArguments) {
		return nil, nil, p.invalid(app, decl.Type+" expects "+strconv.Itoa(len(decl.TypeParameters))+
			" type arguments, got "+strconv.Itoa(len(app.TypeArguments)))
	}

	inner := env
	var generics []transcoder.ParamType
	if len(decl.TypeParameters) > 0 {
		inner = make(map[int]transcoder.ParamType, len(decl.TypeParameters))
		generics = make([]transcoder.ParamType, len(decl.TypeParameters))
		for i, tp := range decl.TypeParameters {
			t, err := p.resolve(app.TypeArguments[i], env, depth+1)
			if err != nil {
				return nil, nil, err
			}
			inner[tp] = t
			generics[i] = t
		}
	}

	fields := make([]transcoder.Field, 0, len(decl.Components))
	for _, c := range decl.Components {
		t, err := p.resolve(c, inner, depth+1)
		if err != nil {
			return nil, nil, errors.WithPath(errors.PhaseParse, err, c.Name)
		}
		fields = append(fields, transcoder.FieldOf(c.Name, t))
	}
	return fields, generics, nil
}

func (p *Program) invalid(app typeApplication, detail string) error {
	return errors.New(errors.PhaseParse, errors.KindInvalidData).
		Value(app.Type).
		Detail("type %d: %s", app.Type, detail).
		Build()
}
