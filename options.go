package chunkflow

import (
	"log/slog"

	"github.com/hupe1980/chunkflow/codec"
	"github.com/hupe1980/chunkflow/resource"
)

type options struct {
	codec            codec.Options
	logger           *Logger
	metricsCollector MetricsCollector
	backends         map[string]Backend
	resource         resource.Config
	cacheBytes       int64
}

func defaultOptions() options {
	return options{
		codec:            codec.DefaultOptions(),
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		backends:         builtinBackends(),
	}
}

// Option configures a Pipeline.
type Option func(*options)

// WithValidateChecksums controls whether checksum codecs (crc32c, the zstd
// frame checksum) reject corrupted chunks on decode. Default: true.
func WithValidateChecksums(validate bool) Option {
	return func(o *options) {
		o.codec.ValidateChecksums = validate
	}
}

// WithStoreEmptyChunks makes StoreChunks write chunks that hold only the
// fill value instead of erasing their keys. Default: false.
func WithStoreEmptyChunks(store bool) Option {
	return func(o *options) {
		o.codec.StoreEmptyChunks = store
	}
}

// WithConcurrentTarget sets the number of goroutines each codec may use
// internally. It multiplies with the chunk concurrency passed to
// RetrieveChunks and StoreChunks, so choose both together.
//
// Default: runtime.NumCPU(). Values below 1 are treated as 1.
func WithConcurrentTarget(n int) Option {
	return func(o *options) {
		o.codec.ConcurrentTarget = n
	}
}

// WithLogger sets the logger. A nil logger disables logging.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithLogLevel installs a text logger on stderr at the given level.
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithMetricsCollector sets the metrics collector.
//
// Example:
//
//	metrics := &chunkflow.BasicMetricsCollector{}
//	p, _ := chunkflow.New(codecs, chunkflow.WithMetricsCollector(metrics))
//	// ...
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithBackend registers a store backend for addresses of the form
// scheme://... . It replaces a built-in backend of the same scheme.
func WithBackend(scheme string, b Backend) Option {
	return func(o *options) {
		backends := make(map[string]Backend, len(o.backends)+1)
		for k, v := range o.backends {
			backends[k] = v
		}
		backends[scheme] = b
		o.backends = backends
	}
}

// WithResourceConfig bounds the memory used for read-modify-write scratch
// buffers and the chunk cache, and rate-limits store IO.
func WithResourceConfig(cfg resource.Config) Option {
	return func(o *options) {
		o.resource = cfg
	}
}

// WithCache caches up to maxBytes of encoded chunk bytes in memory.
// The cache is invalidated by writes through the same pipeline only.
// Its memory is accounted separately from the limit set by
// WithResourceConfig. Zero disables caching (default).
func WithCache(maxBytes int64) Option {
	return func(o *options) {
		o.cacheBytes = maxBytes
	}
}
