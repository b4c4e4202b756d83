// Package call assembles call data for contract functions.
//
// A function is identified by a 4-byte selector: the first bytes of the
// SHA-256 of its canonical signature. Arguments are encoded with the
// transcoder and resolved at the address they will occupy in the VM.
//
//	c, err := call.Encode("entry_one", []transcoder.ParamType{transcoder.U32()},
//		[]transcoder.Token{transcoder.U32Token(math.MaxUint32)}, 0)
//	// c.Bytes() = b79ef743 00000000ffffffff
package call
