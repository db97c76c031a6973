package grid

import (
	"fmt"
	"strconv"
	"strings"
)

// KeyEncoding turns chunk coordinates into store keys.
type KeyEncoding struct {
	// Prefix is prepended as the first key component when non-empty.
	Prefix string
	// Separator joins the components.
	Separator string
}

// DefaultKeys is the zarr v3 default encoding: "c/1/2".
func DefaultKeys() KeyEncoding { return KeyEncoding{Prefix: "c", Separator: "/"} }

// V2Keys is the zarr v2 encoding: "1.2".
func V2Keys() KeyEncoding { return KeyEncoding{Separator: "."} }

// Key returns the key of the chunk at coords.
func (k KeyEncoding) Key(coords []uint64) string {
	var sb strings.Builder
	sb.WriteString(k.Prefix)
	for i, c := range coords {
		if i > 0 || k.Prefix != "" {
			sb.WriteString(k.Separator)
		}
		sb.WriteString(strconv.FormatUint(c, 10))
	}
	if sb.Len() == 0 {
		// v2 names the single chunk of a 0-d array "0".
		return "0"
	}
	return sb.String()
}

// Parse is the inverse of Key for a grid with dims axes.
func (k KeyEncoding) Parse(key string, dims int) ([]uint64, error) {
	rest := key
	if k.Prefix != "" {
		var ok bool
		if rest, ok = strings.CutPrefix(key, k.Prefix); !ok {
			return nil, fmt.Errorf("chunk key %q lacks prefix %q", key, k.Prefix)
		}
		if dims == 0 {
			if rest != "" {
				return nil, fmt.Errorf("chunk key %q has coordinates for a 0-d grid", key)
			}
			return []uint64{}, nil
		}
		if rest, ok = strings.CutPrefix(rest, k.Separator); !ok {
			return nil, fmt.Errorf("chunk key %q lacks separator %q", key, k.Separator)
		}
	} else if dims == 0 {
		if key != "0" {
			return nil, fmt.Errorf("chunk key %q is not the 0-d chunk", key)
		}
		return []uint64{}, nil
	}

	parts := strings.Split(rest, k.Separator)
	if len(parts) != dims {
		return nil, fmt.Errorf("chunk key %q has %d coordinates, want %d", key, len(parts), dims)
	}
	coords := make([]uint64, dims)
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("chunk key %q: %w", key, err)
		}
		coords[i] = v
	}
	return coords, nil
}
