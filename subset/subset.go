package subset

import (
	"fmt"
	"strings"
)

// ArraySubset is an axis-aligned N-dimensional region with unit step.
// A subset with no axes is a scalar and addresses exactly one element.
type ArraySubset struct {
	ranges []Range
}

// New builds a subset from per-axis ranges.
func New(ranges ...Range) ArraySubset {
	rs := make([]Range, len(ranges))
	copy(rs, ranges)
	return ArraySubset{ranges: rs}
}

// NewWithShape builds the subset starting at start with the given shape.
func NewWithShape(start, shape []uint64) (ArraySubset, error) {
	if len(start) != len(shape) {
		return ArraySubset{}, fmt.Errorf("start has %d axes, shape has %d", len(start), len(shape))
	}
	rs := make([]Range, len(start))
	for i := range start {
		rs[i] = Range{Start: start[i], Stop: start[i] + shape[i]}
	}
	return ArraySubset{ranges: rs}, nil
}

// Whole returns the subset covering an entire array of the given shape.
func Whole(shape []uint64) ArraySubset {
	rs := make([]Range, len(shape))
	for i, e := range shape {
		rs[i] = Range{Stop: e}
	}
	return ArraySubset{ranges: rs}
}

// FromSelections normalizes per-axis selections against shape.
// Axes without a selection cover their full extent.
func FromSelections(sels []Selection, shape []uint64) (ArraySubset, error) {
	if len(sels) > len(shape) {
		return ArraySubset{}, fmt.Errorf("%w: %d selections for %d axes", ErrOutOfBounds, len(sels), len(shape))
	}
	rs := make([]Range, len(shape))
	for axis, extent := range shape {
		if axis >= len(sels) {
			rs[axis] = Range{Stop: extent}
			continue
		}
		r, err := Normalize(sels[axis], extent)
		if err != nil {
			return ArraySubset{}, fmt.Errorf("axis %d: %w", axis, err)
		}
		rs[axis] = r
	}
	return ArraySubset{ranges: rs}, nil
}

// Ranges returns a copy of the per-axis ranges.
func (s ArraySubset) Ranges() []Range {
	out := make([]Range, len(s.ranges))
	copy(out, s.ranges)
	return out
}

// Dimensionality returns the number of axes.
func (s ArraySubset) Dimensionality() int { return len(s.ranges) }

// Start returns the per-axis origin.
func (s ArraySubset) Start() []uint64 {
	out := make([]uint64, len(s.ranges))
	for i, r := range s.ranges {
		out[i] = r.Start
	}
	return out
}

// End returns the per-axis exclusive end.
func (s ArraySubset) End() []uint64 {
	out := make([]uint64, len(s.ranges))
	for i, r := range s.ranges {
		out[i] = r.Stop
	}
	return out
}

// Shape returns the per-axis extent.
func (s ArraySubset) Shape() []uint64 {
	out := make([]uint64, len(s.ranges))
	for i, r := range s.ranges {
		out[i] = r.Len()
	}
	return out
}

// NumElements returns the number of addressed elements (1 for a scalar).
func (s ArraySubset) NumElements() uint64 {
	n := uint64(1)
	for _, r := range s.ranges {
		n *= r.Len()
	}
	return n
}

// IsEmpty reports whether any axis has zero length.
func (s ArraySubset) IsEmpty() bool {
	for _, r := range s.ranges {
		if r.Len() == 0 {
			return true
		}
	}
	return false
}

// IsWhole reports whether s starts at the origin and spans exactly shape.
func (s ArraySubset) IsWhole(shape []uint64) bool {
	if len(shape) != len(s.ranges) {
		return false
	}
	for i, r := range s.ranges {
		if r.Start != 0 || r.Len() != shape[i] {
			return false
		}
	}
	return true
}

// InBounds reports whether s lies inside an array of the given shape.
func (s ArraySubset) InBounds(shape []uint64) bool {
	if len(shape) != len(s.ranges) {
		return false
	}
	for i, r := range s.ranges {
		if r.Start > r.Stop || r.Stop > shape[i] {
			return false
		}
	}
	return true
}

// Overlaps reports whether s and o share at least one element.
func (s ArraySubset) Overlaps(o ArraySubset) bool {
	if len(s.ranges) != len(o.ranges) || s.IsEmpty() || o.IsEmpty() {
		return false
	}
	for i, r := range s.ranges {
		if r.Start >= o.ranges[i].Stop || o.ranges[i].Start >= r.Stop {
			return false
		}
	}
	return true
}

// Contains reports whether every element of o lies inside s.
func (s ArraySubset) Contains(o ArraySubset) bool {
	if len(s.ranges) != len(o.ranges) {
		return false
	}
	for i, r := range o.ranges {
		if r.Len() > 0 && (r.Start < s.ranges[i].Start || r.Stop > s.ranges[i].Stop) {
			return false
		}
	}
	return true
}

// Intersect returns the common region of s and o. ok is false when they
// do not overlap.
func (s ArraySubset) Intersect(o ArraySubset) (ArraySubset, bool) {
	if !s.Overlaps(o) {
		return ArraySubset{}, false
	}
	rs := make([]Range, len(s.ranges))
	for i, r := range s.ranges {
		rs[i] = Range{Start: max(r.Start, o.ranges[i].Start), Stop: min(r.Stop, o.ranges[i].Stop)}
	}
	return ArraySubset{ranges: rs}, true
}

// Relative translates s into a coordinate space whose origin is origin.
func (s ArraySubset) Relative(origin []uint64) (ArraySubset, error) {
	if len(origin) != len(s.ranges) {
		return ArraySubset{}, fmt.Errorf("origin has %d axes, subset has %d", len(origin), len(s.ranges))
	}
	rs := make([]Range, len(s.ranges))
	for i, r := range s.ranges {
		if r.Start < origin[i] {
			return ArraySubset{}, fmt.Errorf("%w: axis %d starts at %d before origin %d", ErrOutOfBounds, i, r.Start, origin[i])
		}
		rs[i] = Range{Start: r.Start - origin[i], Stop: r.Stop - origin[i]}
	}
	return ArraySubset{ranges: rs}, nil
}

// Selections converts s back into per-axis slices.
func (s ArraySubset) Selections() []Selection {
	out := make([]Selection, len(s.ranges))
	for i, r := range s.ranges {
		out[i] = SliceRange(int64(r.Start), int64(r.Stop))
	}
	return out
}

func (s ArraySubset) String() string {
	parts := make([]string, len(s.ranges))
	for i, r := range s.ranges {
		parts[i] = r.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
