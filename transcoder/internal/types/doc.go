// Package types defines the type descriptor model shared by the encoder,
// decoder and tokenizer.
//
// Param is a closed, recursive description of every encodable shape, tagged
// by Kind. Variants is the enum variant table: it resolves discriminants and
// computes the widest-variant width used for padding.
//
// # Key Types
//
//   - Param: type descriptor (primitive, array, tuple, struct, enum, heap kinds)
//   - Kind: shape discriminator
//   - Variants: ordered enum variant table
//
// This package is internal to the transcoder.
package types
