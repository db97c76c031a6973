// Package hash provides the CRC32-Castagnoli checksum used by the crc32c
// bytes-to-bytes codec.
//
// Encoded chunks carry the checksum as a 4-byte little-endian trailer:
//
//	enc := hash.AppendCRC32C(nil, payload)
//	payload, match, ok := hash.SplitCRC32C(enc)
//
// Go's hash/crc32 uses SSE4.2 or the ARM CRC extension when available.
package hash
