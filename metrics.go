package chunkflow

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems; the
// metrics/prometheus package provides a Prometheus implementation.
type MetricsCollector interface {
	// RecordRetrieve is called after each RetrieveChunks call.
	// chunks is the number of descriptions, err is nil if successful.
	RecordRetrieve(chunks int, duration time.Duration, err error)

	// RecordStore is called after each StoreChunks call.
	RecordStore(chunks int, duration time.Duration, err error)

	// RecordChunkRead is called for every chunk read. bytes is the encoded
	// size; present is false when the chunk was absent.
	RecordChunkRead(bytes int, present bool)

	// RecordChunkWrite is called for every chunk written with its encoded size.
	RecordChunkWrite(bytes int)

	// RecordChunkErase is called for every chunk erased because it held
	// only the fill value.
	RecordChunkErase()
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRetrieve(int, time.Duration, error) {}
func (NoopMetricsCollector) RecordStore(int, time.Duration, error)    {}
func (NoopMetricsCollector) RecordChunkRead(int, bool)                {}
func (NoopMetricsCollector) RecordChunkWrite(int)                     {}
func (NoopMetricsCollector) RecordChunkErase()                        {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	RetrieveCount      atomic.Int64
	RetrieveErrors     atomic.Int64
	RetrieveTotalNanos atomic.Int64
	StoreCount         atomic.Int64
	StoreErrors        atomic.Int64
	StoreTotalNanos    atomic.Int64
	ChunksRead         atomic.Int64
	ChunksAbsent       atomic.Int64
	BytesRead          atomic.Int64
	ChunksWritten      atomic.Int64
	BytesWritten       atomic.Int64
	ChunksErased       atomic.Int64
}

// RecordRetrieve implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRetrieve(_ int, duration time.Duration, err error) {
	b.RetrieveCount.Add(1)
	b.RetrieveTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RetrieveErrors.Add(1)
	}
}

// RecordStore implements MetricsCollector.
func (b *BasicMetricsCollector) RecordStore(_ int, duration time.Duration, err error) {
	b.StoreCount.Add(1)
	b.StoreTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.StoreErrors.Add(1)
	}
}

// RecordChunkRead implements MetricsCollector.
func (b *BasicMetricsCollector) RecordChunkRead(bytes int, present bool) {
	b.ChunksRead.Add(1)
	if !present {
		b.ChunksAbsent.Add(1)
		return
	}
	b.BytesRead.Add(int64(bytes))
}

// RecordChunkWrite implements MetricsCollector.
func (b *BasicMetricsCollector) RecordChunkWrite(bytes int) {
	b.ChunksWritten.Add(1)
	b.BytesWritten.Add(int64(bytes))
}

// RecordChunkErase implements MetricsCollector.
func (b *BasicMetricsCollector) RecordChunkErase() {
	b.ChunksErased.Add(1)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		RetrieveCount:    b.RetrieveCount.Load(),
		RetrieveErrors:   b.RetrieveErrors.Load(),
		RetrieveAvgNanos: avg(b.RetrieveTotalNanos.Load(), b.RetrieveCount.Load()),
		StoreCount:       b.StoreCount.Load(),
		StoreErrors:      b.StoreErrors.Load(),
		StoreAvgNanos:    avg(b.StoreTotalNanos.Load(), b.StoreCount.Load()),
		ChunksRead:       b.ChunksRead.Load(),
		ChunksAbsent:     b.ChunksAbsent.Load(),
		BytesRead:        b.BytesRead.Load(),
		ChunksWritten:    b.ChunksWritten.Load(),
		BytesWritten:     b.BytesWritten.Load(),
		ChunksErased:     b.ChunksErased.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	RetrieveCount    int64
	RetrieveErrors   int64
	RetrieveAvgNanos int64
	StoreCount       int64
	StoreErrors      int64
	StoreAvgNanos    int64
	ChunksRead       int64
	ChunksAbsent     int64
	BytesRead        int64
	ChunksWritten    int64
	BytesWritten     int64
	ChunksErased     int64
}
