// Package tokenizer turns textual values and type expressions into tokens
// and type descriptors.
//
// Values follow the shape of their type:
//
//	[1,2,3]            array, vector, raw slice
//	(1,true,"abc")     tuple, struct
//	(1,42)             enum: discriminant, then the variant's value
//	0x0a0b             bytes, b256
//	"text" or text     str, str[N]
//
// Splitting is a single pass with a bracket-depth counter; text inside
// double quotes is never scanned for delimiters. Unbalanced brackets,
// unbalanced quotes and a wrong number of parts are reported as distinct
// invalid_data errors.
//
// ParseType reads the type expressions that ParamType.String produces, which
// the abicodec CLI uses for its --type flags.
package tokenizer
