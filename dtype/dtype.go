// Package dtype describes the fixed-width element types a chunk can hold
// and the fill values that stand in for absent chunks.
//
// Types are identified either by their zarr v3 name ("uint16", "float32",
// "r24") or by a NumPy array-protocol type string ("<u2", ">f4", "|b1").
package dtype

import (
	"encoding/binary"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrUnsupportedDataType is returned for unknown or variable-width types.
	ErrUnsupportedDataType = errors.New("unsupported data type")

	// ErrInvalidFillValue is returned when a fill value does not match its type's width.
	ErrInvalidFillValue = errors.New("invalid fill value")
)

// Kind is the basic category of a data type.
type Kind uint8

const (
	KindBool Kind = iota
	KindInt
	KindUint
	KindFloat
	KindComplex
	KindRaw
)

var kindNames = map[Kind]string{
	KindBool:    "bool",
	KindInt:     "int",
	KindUint:    "uint",
	KindFloat:   "float",
	KindComplex: "complex",
	KindRaw:     "raw",
}

func (k Kind) String() string { return kindNames[k] }

// ByteOrder is the byte order a NumPy type string declares.
type ByteOrder rune

const (
	BONotRelevant  ByteOrder = '|'
	BOLittleEndian ByteOrder = '<'
	BOBigEndian    ByteOrder = '>'
	BONative       ByteOrder = '='
)

// DataType is a fixed-width element type.
type DataType struct {
	name  string
	kind  Kind
	size  int
	order ByteOrder
}

var named = map[string]DataType{
	"bool":       {name: "bool", kind: KindBool, size: 1},
	"int8":       {name: "int8", kind: KindInt, size: 1},
	"int16":      {name: "int16", kind: KindInt, size: 2},
	"int32":      {name: "int32", kind: KindInt, size: 4},
	"int64":      {name: "int64", kind: KindInt, size: 8},
	"uint8":      {name: "uint8", kind: KindUint, size: 1},
	"uint16":     {name: "uint16", kind: KindUint, size: 2},
	"uint32":     {name: "uint32", kind: KindUint, size: 4},
	"uint64":     {name: "uint64", kind: KindUint, size: 8},
	"float16":    {name: "float16", kind: KindFloat, size: 2},
	"float32":    {name: "float32", kind: KindFloat, size: 4},
	"float64":    {name: "float64", kind: KindFloat, size: 8},
	"complex64":  {name: "complex64", kind: KindComplex, size: 8},
	"complex128": {name: "complex128", kind: KindComplex, size: 16},
}

// Common types.
var (
	Bool    = named["bool"]
	Int8    = named["int8"]
	Int16   = named["int16"]
	Int32   = named["int32"]
	Int64   = named["int64"]
	Uint8   = named["uint8"]
	Uint16  = named["uint16"]
	Uint32  = named["uint32"]
	Uint64  = named["uint64"]
	Float32 = named["float32"]
	Float64 = named["float64"]
)

// Parse resolves a data type identifier.
func Parse(s string) (DataType, error) {
	s = strings.TrimSpace(s)
	if dt, ok := named[s]; ok {
		return dt, nil
	}
	if bits, ok := strings.CutPrefix(s, "r"); ok {
		n, err := strconv.Atoi(bits)
		if err == nil && n > 0 && n%8 == 0 {
			return DataType{name: s, kind: KindRaw, size: n / 8}, nil
		}
	}
	if dt, err := parseTypestr(s); err == nil {
		return dt, nil
	}
	return DataType{}, fmt.Errorf("%w: %q", ErrUnsupportedDataType, s)
}

// parseTypestr handles NumPy array-protocol strings such as "<f8".
func parseTypestr(s string) (DataType, error) {
	// Some writers HTML-escape the byte order character.
	s = strings.Replace(s, "&lt;", "<", 1)
	s = strings.Replace(s, "&gt;", ">", 1)
	if len(s) < 3 {
		return DataType{}, fmt.Errorf("type string %q is too short", s)
	}
	order := ByteOrder(s[0])
	switch order {
	case BONotRelevant, BOLittleEndian, BOBigEndian, BONative:
	default:
		return DataType{}, fmt.Errorf("unsupported byte order %q", s[0])
	}
	size, err := strconv.Atoi(s[2:])
	if err != nil || size <= 0 {
		return DataType{}, fmt.Errorf("invalid size in %q", s)
	}

	var name string
	switch s[1] {
	case 'b':
		name = "bool"
	case 'i':
		name = "int" + strconv.Itoa(size*8)
	case 'u':
		name = "uint" + strconv.Itoa(size*8)
	case 'f':
		name = "float" + strconv.Itoa(size*8)
	case 'c':
		name = "complex" + strconv.Itoa(size*8)
	case 'V':
		return DataType{name: "r" + strconv.Itoa(size*8), kind: KindRaw, size: size, order: order}, nil
	default:
		return DataType{}, fmt.Errorf("unsupported type code %q", s[1])
	}
	dt, ok := named[name]
	if !ok || dt.size != size {
		return DataType{}, fmt.Errorf("unsupported type string %q", s)
	}
	dt.order = order
	return dt, nil
}

// Name returns the zarr v3 name of the type.
func (dt DataType) Name() string { return dt.name }

// Kind returns the basic category.
func (dt DataType) Kind() Kind { return dt.kind }

// Size returns the element width in bytes.
func (dt DataType) Size() int { return dt.size }

// ComponentSize is the width of the unit that byte swapping operates on.
// Complex numbers swap each part separately; raw bytes never swap.
func (dt DataType) ComponentSize() int {
	switch dt.kind {
	case KindComplex:
		return dt.size / 2
	case KindRaw:
		return 1
	default:
		return dt.size
	}
}

// ByteOrder returns the byte order declared by a NumPy type string, or
// BONotRelevant for types parsed by name.
func (dt DataType) ByteOrder() ByteOrder {
	if dt.order == 0 {
		return BONotRelevant
	}
	return dt.order
}

// IsValid reports whether dt was produced by Parse or is one of the predefined types.
func (dt DataType) IsValid() bool { return dt.size > 0 }

func (dt DataType) String() string { return dt.name }

// NativeEndian is the host byte order.
var NativeEndian binary.ByteOrder = binary.NativeEndian

// HostIsLittleEndian reports whether the host is little-endian.
func HostIsLittleEndian() bool {
	var b [2]byte
	binary.NativeEndian.PutUint16(b[:], 1)
	return b[0] == 1
}
