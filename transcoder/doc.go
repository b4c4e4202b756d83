// Package transcoder encodes and decodes values in the word-based VM ABI.
//
// Values are described by a ParamType (type descriptor) and carried as a
// Token (value token). The Encoder turns tokens into UnresolvedBytes; the
// Decoder turns bytes back into tokens.
//
//	┌──────────────────────────────────────────────────────────────┐
//	│ Token ──Encode──► UnresolvedBytes ──Resolve(base)──► []byte  │
//	│ []byte ──Decode / DecodeResolved──► Token                    │
//	└──────────────────────────────────────────────────────────────┘
//
// # Wire Format
//
// Every value occupies whole 8-byte big-endian words:
//
//	Type            Words   Notes
//	──────────────────────────────────────────────
//	() bool u8..u64 1       value right-aligned
//	u128            2
//	u256 b256       4
//	str[N]          ⌈N/8⌉   bytes, zero padded
//	[T;N] (..) {..} sum     concatenation, no header
//	enum            1+W     discriminant, padding, payload
//	unit-only enum  1       discriminant only
//	Vec<T> bytes    3       ptr, cap, len
//	str rawslice    2       ptr, len
//
// W is the width of the widest variant. Narrower variants are preceded by
// zero words so that every variant of an enum has the same width.
//
// # Two-Phase Encoding
//
// Heap payloads live after all inline data, so their addresses depend on
// everything encoded before them. Encode produces a segment tree; Resolve
// places it at a base address:
//
//	enc := transcoder.NewEncoder()
//	ub, _ := enc.Encode([]transcoder.Token{transcoder.VectorToken(transcoder.U64Token(5))})
//	data := ub.Resolve(150) // ptr=174 cap=1 len=1 | 5
//
// Len reports the resolved size without resolving, which lets
// EncodeToMemory allocate first and resolve at the allocated address.
//
// # Decoding Modes
//
// Decode reads return data: values back to back, where a heap value has no
// header and consumes the rest of the input. Vector element counts come from
// the payload length. Heap containers nested in vectors or arrays cannot be
// expressed this way and are rejected before decoding starts.
//
// DecodeResolved and DecodeFromMemory read the resolved layout and follow
// pointers, so any descriptor round-trips:
//
//	dec := transcoder.NewDecoder(transcoder.DefaultDecoderConfig())
//	toks, err := dec.DecodeResolved(params, data, 150)
//
// # Limits
//
// DecoderConfig bounds nesting depth (default 10) and the number of leaf
// values produced (default 500). Counters are per call. Declared lengths are
// checked against the remaining leaf budget before anything is allocated.
//
// # Thread Safety
//
// Encoder and Decoder hold no mutable state and are safe for concurrent use.
//
// # Error Handling
//
// Errors use the structured types from the errors package:
//
//	[encode] invalid_data at arg[0].[2]: string "né" is not ASCII: byte 1 is 0xc3
//	[decode] limit_exceeded at arg[0].inner: depth limit (10) reached while decoding
package transcoder
