package errors

import (
	"errors"
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseEncode   Phase = "encode"   // tokens to unresolved bytes
	PhaseResolve  Phase = "resolve"  // unresolved bytes to final layout
	PhaseDecode   Phase = "decode"   // bytes to tokens
	PhaseTokenize Phase = "tokenize" // text to tokens
	PhaseParse    Phase = "parse"    // interface documents and type expressions
	PhaseMemory   Phase = "memory"   // linear memory reads/writes
	PhaseConfig   Phase = "config"   // configuration loading
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidData            Kind = "invalid_data"
	KindInsufficientBytes      Kind = "insufficient_bytes"
	KindUnresolvedDiscriminant Kind = "unresolved_discriminant"
	KindUnsupportedType        Kind = "unsupported_type"
	KindLimitExceeded          Kind = "limit_exceeded"
	KindInvalidUTF8            Kind = "invalid_utf8"
	KindTypeMismatch           Kind = "type_mismatch"
	KindOverflow               Kind = "overflow"
	KindOutOfBounds            Kind = "out_of_bounds"
	KindNotFound               Kind = "not_found"
	KindAllocation             Kind = "allocation"
)

// Limit names a decoder guard.
type Limit string

const (
	LimitDepth  Limit = "depth"
	LimitTokens Limit = "tokens"
)

// Error is the structured error type used throughout the codec
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Type   string
	Got    string
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "."))
	}

	if e.Type != "" || e.Got != "" {
		b.WriteString(": ")
		if e.Type != "" && e.Got != "" {
			b.WriteString("expected ")
			b.WriteString(e.Type)
			b.WriteString(", got ")
			b.WriteString(e.Got)
		} else if e.Type != "" {
			b.WriteString("type ")
			b.WriteString(e.Type)
		} else {
			b.WriteString("got ")
			b.WriteString(e.Got)
		}
	}

	if e.Detail != "" {
		if e.Type != "" || e.Got != "" {
			b.WriteString(" - ")
		} else {
			b.WriteString(": ")
		}
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// IsKind reports whether any *Error in err's chain has the given kind,
// regardless of phase.
func IsKind(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Cause
	}
	return false
}

// WithPath returns a copy of err with prefix prepended to its path. Errors
// that are not *Error are wrapped as invalid data.
func WithPath(phase Phase, err error, prefix ...string) error {
	if err == nil || len(prefix) == 0 {
		return err
	}
	var e *Error
	if !errors.As(err, &e) {
		return &Error{Phase: phase, Kind: KindInvalidData, Path: prefix, Cause: err}
	}
	cp := *e
	cp.Path = append(append(make([]string, 0, len(prefix)+len(e.Path)), prefix...), e.Path...)
	return &cp
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the field path
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Type sets the expected ABI type name
func (b *Builder) Type(t string) *Builder {
	b.err.Type = t
	return b
}

// Got sets what was found instead of the expected type
func (b *Builder) Got(t string) *Builder {
	b.err.Got = t
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidData creates an invalid data error
func InvalidData(phase Phase, path []string, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidData,
		Path:   path,
		Detail: detail,
	}
}

// InsufficientBytes reports a read of need bytes when only have remain.
func InsufficientBytes(phase Phase, path []string, need, have uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInsufficientBytes,
		Path:   path,
		Detail: fmt.Sprintf("not enough data: need %d bytes, have %d", need, have),
		Value:  need,
	}
}

// UnresolvedDiscriminant reports an enum discriminant that matches no variant.
func UnresolvedDiscriminant(phase Phase, path []string, disc uint64, variants int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnresolvedDiscriminant,
		Path:   path,
		Detail: fmt.Sprintf("discriminant %d doesn't point to any of the %d variants", disc, variants),
		Value:  disc,
	}
}

// UnsupportedType reports a type graph the codec refuses to process.
func UnsupportedType(phase Phase, path []string, what string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindUnsupportedType,
		Path:   path,
		Detail: what,
	}
}

// LimitExceeded reports a tripped decoder guard with its configured maximum.
func LimitExceeded(path []string, limit Limit, max int) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindLimitExceeded,
		Path:   path,
		Detail: fmt.Sprintf("%s limit (%d) reached while decoding", limit, max),
		Value:  limit,
	}
}

// TypeMismatch creates a type mismatch error
func TypeMismatch(phase Phase, path []string, want, got string) *Error {
	return &Error{
		Phase: phase,
		Kind:  KindTypeMismatch,
		Path:  path,
		Type:  want,
		Got:   got,
	}
}

// InvalidUTF8 creates an invalid UTF-8 error
func InvalidUTF8(phase Phase, path []string, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Path:   path,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size, align uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Detail: fmt.Sprintf("failed to allocate %d bytes (align %d)", size, align),
	}
}

// OutOfBounds creates an out of bounds error
func OutOfBounds(phase Phase, path []string, index, length uint64) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Path:   path,
		Detail: fmt.Sprintf("index %d out of bounds (length %d)", index, length),
		Value:  index,
	}
}

// Overflow creates an overflow error
func Overflow(phase Phase, path []string, value any, targetType string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOverflow,
		Path:   path,
		Type:   targetType,
		Detail: fmt.Sprintf("value %v overflows %s", value, targetType),
		Value:  value,
	}
}

// NotFound creates a not-found error
func NotFound(phase Phase, what, name string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotFound,
		Detail: fmt.Sprintf("%s %q not found", what, name),
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}

// ParseFailed creates a parsing error
func ParseFailed(what string, cause error) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindInvalidData,
		Detail: fmt.Sprintf("parse %s", what),
		Cause:  cause,
	}
}
