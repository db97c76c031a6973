package subset

import (
	"errors"
	"fmt"
	"strconv"
)

var (
	// ErrOutOfBounds is returned when an index or slice bound falls outside an axis.
	ErrOutOfBounds = errors.New("selection out of bounds")

	// ErrUnsupportedSelection is returned for slices with a step other than 1.
	ErrUnsupportedSelection = errors.New("unsupported selection")
)

// Kind tells the two selection variants apart.
type Kind uint8

const (
	// KindSlice selects a half-open range of an axis.
	KindSlice Kind = iota
	// KindIndex selects a single position of an axis.
	KindIndex
)

// Selection addresses one axis: a point or a range.
// The zero value is the full slice.
type Selection struct {
	kind     Kind
	index    int64
	start    int64
	stop     int64
	step     int64
	hasStart bool
	hasStop  bool
}

// Index selects the single position i. Negative values count from the end.
func Index(i int64) Selection {
	return Selection{kind: KindIndex, index: i}
}

// SliceAll selects the whole axis.
func SliceAll() Selection {
	return Selection{kind: KindSlice}
}

// SliceRange selects [start, stop).
func SliceRange(start, stop int64) Selection {
	return Selection{kind: KindSlice, start: start, stop: stop, hasStart: true, hasStop: true}
}

// SliceFrom selects [start, extent).
func SliceFrom(start int64) Selection {
	return Selection{kind: KindSlice, start: start, hasStart: true}
}

// SliceTo selects [0, stop).
func SliceTo(stop int64) Selection {
	return Selection{kind: KindSlice, stop: stop, hasStop: true}
}

// Slice builds a slice from optional bounds. A nil bound means "open".
// A step of 0 means unset and is treated as 1.
func Slice(start, stop *int64, step int64) Selection {
	s := Selection{kind: KindSlice, step: step}
	if start != nil {
		s.start, s.hasStart = *start, true
	}
	if stop != nil {
		s.stop, s.hasStop = *stop, true
	}
	return s
}

// WithStep returns a copy of the slice with the given step.
func (s Selection) WithStep(step int64) Selection {
	s.step = step
	return s
}

// Kind reports whether s is an index or a slice.
func (s Selection) Kind() Kind { return s.kind }

func (s Selection) String() string {
	if s.kind == KindIndex {
		return strconv.FormatInt(s.index, 10)
	}
	var out string
	if s.hasStart {
		out = strconv.FormatInt(s.start, 10)
	}
	out += ":"
	if s.hasStop {
		out += strconv.FormatInt(s.stop, 10)
	}
	if s.step != 0 && s.step != 1 {
		out += ":" + strconv.FormatInt(s.step, 10)
	}
	return out
}

// Range is a half-open interval [Start, Stop) along one axis.
type Range struct {
	Start uint64
	Stop  uint64
}

// Len returns the number of positions in r.
func (r Range) Len() uint64 {
	if r.Stop <= r.Start {
		return 0
	}
	return r.Stop - r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("%d:%d", r.Start, r.Stop)
}

// Normalize resolves s against an axis of the given extent.
//
// The result always satisfies 0 <= Start <= Stop <= extent.
func Normalize(s Selection, extent uint64) (Range, error) {
	e := int64(extent)
	if s.kind == KindIndex {
		i, err := resolveNegative(s.index, e)
		if err != nil {
			return Range{}, err
		}
		if i >= e {
			return Range{}, fmt.Errorf("%w: index %d for extent %d", ErrOutOfBounds, s.index, extent)
		}
		return Range{Start: uint64(i), Stop: uint64(i) + 1}, nil
	}

	if s.step != 0 && s.step != 1 {
		return Range{}, fmt.Errorf("%w: step %d (only unit step is supported)", ErrUnsupportedSelection, s.step)
	}

	start, stop := int64(0), e
	if s.hasStart {
		v, err := resolveNegative(s.start, e)
		if err != nil {
			return Range{}, err
		}
		start = min(v, e)
	}
	if s.hasStop {
		v, err := resolveNegative(s.stop, e)
		if err != nil {
			return Range{}, err
		}
		stop = min(v, e)
	}
	if stop < start {
		stop = start
	}
	return Range{Start: uint64(start), Stop: uint64(stop)}, nil
}

func resolveNegative(v, extent int64) (int64, error) {
	if v >= 0 {
		return v, nil
	}
	if r := extent + v; r >= 0 {
		return r, nil
	}
	return 0, fmt.Errorf("%w: %d for extent %d", ErrOutOfBounds, v, extent)
}
