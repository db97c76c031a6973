// Package subset implements the region algebra used by the chunk pipeline.
//
// A [Selection] is what a caller writes for one axis: either a single
// (possibly negative) index or a unit-step slice. [Normalize] resolves it
// against the axis extent into a canonical half-open [Range], and
// [FromSelections] zips per-axis ranges into an [ArraySubset].
//
// # Byte Layout
//
// Arrays are stored row-major (C order). The helpers in this package walk a
// subset of such an array as a sequence of contiguous byte runs, merging
// trailing axes that the subset covers completely:
//
//	shape  = [4, 4], elemSize = 1
//	subset = [1:3, 0:4]        -> one run of 8 bytes at offset 4
//	subset = [1:3, 1:3]        -> two runs of 2 bytes at offsets 5 and 9
//
// [Extract], [Scatter] and [Fill] are built on [ForEachRun].
//
// # Scalars
//
// A subset with zero axes addresses a single element at offset 0.
package subset
