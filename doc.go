// Package vmabi provides a Go implementation of a word-oriented VM ABI codec.
//
// The codec converts between typed values and the binary layout a virtual
// machine uses to pass function arguments, return values, log data and
// enum/struct payloads across a contract-call boundary.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	vmabi/              Root package with core Memory and Allocator interfaces
//	├── transcoder/     Type descriptors, tokens, encoder, resolver, decoder
//	├── tokenizer/      Text → token parsing guided by type descriptors
//	├── call/           Function signatures, selectors and call data
//	├── abijson/        JSON interface documents → type descriptors
//	├── witabi/         WIT component types → type descriptors
//	├── memory/         In-process and wazero linear memory adapters
//	├── config/         TOML configuration for decoder limits
//	├── errors/         Structured error types for debugging
//	└── cmd/abicodec/   Command line and interactive front end
//
// # Quick Start
//
// Encode arguments and resolve them against the address they will live at:
//
//	enc := transcoder.NewEncoder()
//	ub, err := enc.Encode([]transcoder.Token{
//	    transcoder.U32Token(math.MaxUint32),
//	    transcoder.VectorToken(transcoder.U64Token(5)),
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	data := ub.Resolve(0)
//
// Decode return data:
//
//	dec := transcoder.NewDecoder(transcoder.DefaultDecoderConfig())
//	tokens, err := dec.Decode([]transcoder.ParamType{transcoder.U64()}, data)
//
// # Wire Format
//
// Words are 8 bytes, integers are big-endian, and every value occupies a
// whole number of words. Heap values (vectors, byte buffers, string and raw
// slices) are written as an inline pointer/length header with the payload
// placed after all inline data.
//
// # Thread Safety
//
// Encoder and Decoder hold only configuration and are safe for concurrent use.
// Guard counters live on the stack of a single Decode call.
package vmabi
