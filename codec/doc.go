// Package codec implements the chunk codec chain: the ordered sequence of
// reversible transforms applied to a chunk on its way to and from a store.
//
// A chain holds exactly one array-to-bytes codec, which serializes the
// chunk's elements, followed by any number of bytes-to-bytes codecs
// (compression, checksums). Chains are described with zarr v3 codec
// metadata:
//
//	[
//	  {"name": "bytes", "configuration": {"endian": "little"}},
//	  {"name": "zstd", "configuration": {"level": 3, "checksum": false}},
//	  {"name": "crc32c"}
//	]
//
// Built-in codecs are "bytes", "zstd", "gzip", "lz4" and "crc32c".
// Additional codecs can be added with Register.
//
// # Partial decoding
//
// Chains without bytes-to-bytes codecs decode a sub-region of a chunk by
// reading only the byte runs that hold it. Other chains decode the whole
// chunk once and copy the requested region out of it.
package codec
