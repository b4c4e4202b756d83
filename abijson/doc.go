// Package abijson loads JSON program interfaces and turns their type graphs
// into transcoder descriptors.
//
// A document declares types by numeric id and refers to them through type
// applications, which may carry generic arguments:
//
//	prog, err := abijson.Load("wallet-abi.json")
//	fn, err := prog.Function("deposit")
//	inputs, err := fn.Inputs()
//	c, err := fn.Encode(tokens, 0)
//
// The standard library Vec, Bytes and String structs map to the heap kinds
// rather than to their internal layout. A struct, enum or tuple declared
// without components is rejected with an invalid data error.
package abijson
