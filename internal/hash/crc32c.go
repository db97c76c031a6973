package hash

import (
	"encoding/binary"
	"hash"
	"hash/crc32"
)

// ChecksumSize is the width of an encoded CRC32C trailer.
const ChecksumSize = 4

var crc32cTable = crc32.MakeTable(crc32.Castagnoli)

// CRC32C computes the CRC32-Castagnoli checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, crc32cTable)
}

// NewCRC32C returns a new CRC32-Castagnoli hash.Hash32.
func NewCRC32C() hash.Hash32 {
	return crc32.New(crc32cTable)
}

// AppendCRC32C appends data followed by its little-endian CRC32C to dst.
func AppendCRC32C(dst, data []byte) []byte {
	dst = append(dst, data...)
	return binary.LittleEndian.AppendUint32(dst, CRC32C(data))
}

// SplitCRC32C separates a payload from its little-endian CRC32C trailer.
// ok is false if buf is too short; match reports whether the stored
// checksum equals the computed one.
func SplitCRC32C(buf []byte) (payload []byte, match, ok bool) {
	if len(buf) < ChecksumSize {
		return nil, false, false
	}
	payload = buf[:len(buf)-ChecksumSize]
	stored := binary.LittleEndian.Uint32(buf[len(buf)-ChecksumSize:])
	return payload, stored == CRC32C(payload), true
}
