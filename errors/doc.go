// Package errors provides structured error types for the vm-abi codec.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type includes rich context: value path, ABI type names, and cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDecode, errors.KindInvalidData).
//		Path("arg[0]", "field[2]").
//		Type("bool").
//		Detail("bool must be 0 or 1, got %d", v).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.InsufficientBytes(errors.PhaseDecode, path, 8, 3)
//	err := errors.UnresolvedDiscriminant(errors.PhaseDecode, path, 4, 2)
//	err := errors.LimitExceeded(path, errors.LimitDepth, 10)
//
// All errors implement the standard error interface and support errors.Is/As.
// IsKind matches on Kind alone, which is what callers usually branch on.
package errors
