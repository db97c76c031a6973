package codec

import "runtime"

// Options are fixed when a chain is built and apply to every codec in it.
type Options struct {
	// ValidateChecksums makes checksum codecs reject corrupted chunks.
	// Default: true
	ValidateChecksums bool

	// StoreEmptyChunks keeps chunks that equal the fill value instead of
	// erasing them.
	// Default: false
	StoreEmptyChunks bool

	// ConcurrentTarget bounds the parallelism a codec may use internally.
	// It multiplies with the per-call chunk concurrency.
	// Default: runtime.NumCPU()
	ConcurrentTarget int
}

// DefaultOptions returns the default codec options.
func DefaultOptions() Options {
	return Options{
		ValidateChecksums: true,
		ConcurrentTarget:  runtime.NumCPU(),
	}
}

func (o Options) concurrency() int {
	if o.ConcurrentTarget < 1 {
		return 1
	}
	return o.ConcurrentTarget
}
