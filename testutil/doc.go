// Package testutil provides testing utilities for chunkflow.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe RNG and helpers for generating
// random array contents, shapes and regions.
//
// # Random Arrays
//
//	rng := testutil.NewRNG(seed)
//	shape := rng.Shape(3, 8)          // up to 8 elements per axis
//	data := rng.Bytes(n)              // random element bytes
//	sub := rng.SubsetOf(shape)        // random non-empty region
package testutil
