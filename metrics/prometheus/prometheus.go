// Package prometheus exports pipeline metrics to Prometheus.
package prometheus

import (
	"time"

	"github.com/hupe1980/chunkflow"
	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements chunkflow.MetricsCollector with Prometheus metrics.
type Collector struct {
	opLatency   *prometheus.HistogramVec
	chunks      *prometheus.CounterVec
	chunkBytes  *prometheus.CounterVec
	chunkErases prometheus.Counter
}

// Option configures a Collector.
type Option func(*options)

type options struct {
	namespace string
	buckets   []float64
}

// WithNamespace prefixes every metric name. Default: "chunkflow".
func WithNamespace(ns string) Option {
	return func(o *options) { o.namespace = ns }
}

// WithBuckets sets the latency histogram buckets in seconds.
// Default: prometheus.DefBuckets.
func WithBuckets(b []float64) Option {
	return func(o *options) { o.buckets = b }
}

// NewCollector creates a Collector and registers its metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewCollector(reg prometheus.Registerer, optFns ...Option) (*Collector, error) {
	opts := options{namespace: "chunkflow", buckets: prometheus.DefBuckets}
	for _, fn := range optFns {
		fn(&opts)
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &Collector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: opts.namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of RetrieveChunks and StoreChunks calls",
			Buckets:   opts.buckets,
		}, []string{"op", "status"}),
		chunks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.namespace,
			Name:      "chunks_total",
			Help:      "Chunks read or written, by outcome",
		}, []string{"op", "result"}),
		chunkBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: opts.namespace,
			Name:      "chunk_bytes_total",
			Help:      "Encoded chunk bytes read or written",
		}, []string{"op"}),
		chunkErases: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: opts.namespace,
			Name:      "chunk_erases_total",
			Help:      "Chunks erased because they held only the fill value",
		}),
	}

	for _, col := range []prometheus.Collector{c.opLatency, c.chunks, c.chunkBytes, c.chunkErases} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordRetrieve implements chunkflow.MetricsCollector.
func (c *Collector) RecordRetrieve(_ int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("retrieve", status(err)).Observe(d.Seconds())
}

// RecordStore implements chunkflow.MetricsCollector.
func (c *Collector) RecordStore(_ int, d time.Duration, err error) {
	c.opLatency.WithLabelValues("store", status(err)).Observe(d.Seconds())
}

// RecordChunkRead implements chunkflow.MetricsCollector.
func (c *Collector) RecordChunkRead(bytes int, present bool) {
	if !present {
		c.chunks.WithLabelValues("read", "absent").Inc()
		return
	}
	c.chunks.WithLabelValues("read", "present").Inc()
	c.chunkBytes.WithLabelValues("read").Add(float64(bytes))
}

// RecordChunkWrite implements chunkflow.MetricsCollector.
func (c *Collector) RecordChunkWrite(bytes int) {
	c.chunks.WithLabelValues("write", "stored").Inc()
	c.chunkBytes.WithLabelValues("write").Add(float64(bytes))
}

// RecordChunkErase implements chunkflow.MetricsCollector.
func (c *Collector) RecordChunkErase() {
	c.chunkErases.Inc()
}

var _ chunkflow.MetricsCollector = (*Collector)(nil)
