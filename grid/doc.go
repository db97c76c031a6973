// Package grid maps array-level regions onto a regular chunk grid.
//
// Project splits a region of the array into one Projection per chunk it
// touches. Each projection pairs the region inside the chunk with the
// matching region of a dense buffer holding the whole selection, so the
// output regions of one projection are pairwise disjoint by construction.
//
//	g, _ := grid.NewRegular([]uint64{10}, []uint64{5})
//	projs, _ := g.Project(subset.New(subset.Range{Start: 2, Stop: 8}))
//	// chunk 0: [2:5) -> output [0:3)
//	// chunk 1: [0:3) -> output [3:6)
//
// Chunk keys follow the zarr conventions: "c/1/2" for the v3 default
// encoding and "1.2" for v2.
package grid
