// Package store defines the key/value contract chunks are persisted
// through and ships the built-in backends.
//
// A Store only needs Get, Set and Erase. Backends may also implement
// RangeGetter for partial reads, Mapper for zero-copy reads and Lister for
// key enumeration; callers detect them with type assertions.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem, atomic writes, mmap reads
//   - MemoryStore: in-process map
//   - BillyStore: any go-billy filesystem
//   - CachingStore: LRU over another store's encoded values
//   - s3.Store and minio.Store in the sub-packages
//
// All implementations are safe for concurrent use.
package store
