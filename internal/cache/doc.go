// Package cache holds encoded chunks in memory between pipeline calls.
//
// LRU bounds the cached bytes and reserves them on a resource.Controller
// when one is given. Sharded spreads the capacity over sixteen LRUs keyed
// by a seeded hash of the chunk key.
package cache
