package transcoder

import (
	"github.com/wippyai/vm-abi/transcoder/internal/abi"
)

// segment is either inline bytes or a dynamic subtree whose final position
// is only known once the whole encoding is resolved.
type segment struct {
	dynamic *UnresolvedBytes
	inline  []byte
}

// UnresolvedBytes is an encoding whose heap payloads have not been placed
// yet. Resolve lays out all inline data first and the payloads after it.
type UnresolvedBytes struct {
	segments []segment
}

func (u *UnresolvedBytes) appendInline(b []byte) {
	if len(b) == 0 {
		return
	}
	u.segments = append(u.segments, segment{inline: b})
}

func (u *UnresolvedBytes) appendWord(v uint64) {
	u.appendInline(abi.Word(v))
}

func (u *UnresolvedBytes) appendDynamic(sub UnresolvedBytes) {
	u.segments = append(u.segments, segment{dynamic: &sub})
}

func (u *UnresolvedBytes) appendAll(other UnresolvedBytes) {
	u.segments = append(u.segments, other.segments...)
}

// InlineLen is the length in bytes of the inline section. Each dynamic
// segment contributes one pointer word.
func (u UnresolvedBytes) InlineLen() uint64 {
	var n uint64
	for _, s := range u.segments {
		if s.dynamic != nil {
			n += abi.WordSize
		} else {
			n += uint64(len(s.inline))
		}
	}
	return n
}

// Len is the length of the resolved output. It does not depend on the
// base address.
func (u UnresolvedBytes) Len() uint64 {
	n := u.InlineLen()
	for _, s := range u.segments {
		if s.dynamic != nil {
			n += s.dynamic.Len()
		}
	}
	return n
}

// Resolve produces the final bytes for an encoding placed at base. Dynamic
// payloads follow the inline section in segment order, and pointers are
// absolute addresses computed from base.
func (u UnresolvedBytes) Resolve(base uint64) []byte {
	inlineLen := u.InlineLen()
	out := make([]byte, 0, u.Len())
	var dynamic []byte
	next := base + inlineLen

	for _, s := range u.segments {
		if s.dynamic == nil {
			out = append(out, s.inline...)
			continue
		}
		out = append(out, abi.Word(next)...)
		sub := s.dynamic.Resolve(next)
		dynamic = append(dynamic, sub...)
		next += uint64(len(sub))
	}

	return append(out, dynamic...)
}
