// Package layout computes the inline footprint of type descriptors.
//
// Every value occupies a whole number of 8-byte words. Heap containers
// (vectors, byte buffers, string slices, raw slices) count only their inline
// header; the payload is placed after all inline data when an encoding is
// resolved.
//
// # Layout Rules
//
//   - Scalars: 1 word, u128 2 words, u256/b256 4 words
//   - Arrays, tuples, structs: concatenation of their elements
//   - Fixed strings: bytes padded to the next word
//   - Enums: discriminant word plus the widest variant, or the
//     discriminant alone when every variant is unit
//   - Vector/bytes headers: ptr, cap, len; string/raw slice headers: ptr, len
//
// The package also scans descriptors for heap containers nested inside other
// containers, which flat return data cannot express.
//
// This package is internal to the transcoder.
package layout
