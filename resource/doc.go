// Package resource bounds the memory, store IO and parallelism used while
// chunk work items run.
//
// A Controller keeps a memory budget backed by a weighted semaphore and an
// IO meter backed by a token bucket. Read-modify-write stores reserve
// their decode buffer, caches reserve the chunks they hold, and store
// wrappers charge every byte they move. ForEach fans work items out over
// a bounded errgroup.
package resource
