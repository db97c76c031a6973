// Package arena shares one caller-owned output buffer between concurrent
// chunk work items.
//
// An Arena wraps a dense row-major buffer. Each work item receives a
// Window, a capability limited to one rectangular region of that buffer.
// Windows of different work items must be disjoint; the arena does not
// lock, so overlapping windows race and their final bytes are unspecified.
package arena
