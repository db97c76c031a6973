// Package mmap maps chunk files read-only so that decoders can read
// encoded bytes without copying them onto the heap.
//
//	r, err := mmap.MapPath("data/c/0/1", mmap.HintSequential)
//	if err != nil { ... }
//	defer r.Close()
//	encoded := r.Bytes()
package mmap
