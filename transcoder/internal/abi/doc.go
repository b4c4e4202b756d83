// Package abi provides internal word-level utilities for ABI encoding/decoding.
//
// # Contents
//
//   - helpers.go: word size, padding, big-endian word access, checked arithmetic
//     and ASCII checks shared by the type model, encoder and decoder
//
// This package is internal to the transcoder.
package abi
