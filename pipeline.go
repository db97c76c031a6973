package chunkflow

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/hupe1980/chunkflow/codec"
	"github.com/hupe1980/chunkflow/internal/arena"
	"github.com/hupe1980/chunkflow/internal/cache"
	"github.com/hupe1980/chunkflow/resource"
)

// Pipeline moves array regions between caller buffers and chunk stores
// through one codec chain.
//
// A Pipeline is safe for concurrent use. It talks to a single store,
// opened on the first call that needs it.
type Pipeline struct {
	chain   *codec.Chain
	opts    options
	logger  *Logger
	metrics MetricsCollector
	rc      *resource.Controller
	cacheRC *resource.Controller
	cache   cache.ChunkCache
	handles *handleCache
	closed  atomic.Bool
}

// New builds a Pipeline for the codec chain described by codecMetadata,
// a zarr v3 JSON codec list.
//
// Example:
//
//	p, err := chunkflow.New(`[{"name":"bytes","configuration":{"endian":"little"}},{"name":"zstd"}]`,
//	    chunkflow.WithConcurrentTarget(2),
//	)
func New(codecMetadata string, optFns ...Option) (*Pipeline, error) {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	chain, err := codec.NewChain([]byte(codecMetadata), opts.codec)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		chain:   chain,
		opts:    opts,
		logger:  opts.logger,
		metrics: opts.metricsCollector,
		rc:      resource.NewController(opts.resource),
	}
	if opts.cacheBytes > 0 {
		// Cached chunks are charged to their own budget so that a full
		// cache never starves read-modify-write reservations on p.rc.
		p.cacheRC = resource.NewController(resource.Config{MemoryLimitBytes: opts.cacheBytes})
		p.cache = cache.NewSharded(opts.cacheBytes, p.cacheRC)
	}
	p.handles = newHandleCache(opts.backends, p.rc, p.cache, p.logger)

	p.logger.Debug("pipeline created",
		"codecs", chain.Names(),
		"concurrent_target", opts.codec.ConcurrentTarget,
		"cache_bytes", opts.cacheBytes,
	)
	return p, nil
}

// Codecs returns the names of the codecs in chain order.
func (p *Pipeline) Codecs() []string { return p.chain.Names() }

// prepare validates buf and descs and resolves every item. Nothing is read
// or written before it returns.
func (p *Pipeline) prepare(ctx context.Context, descs []ChunkDescription, buf Buffer, allowBroadcast bool) (*arena.Arena, []ChunksItem, error) {
	if p.closed.Load() {
		return nil, nil, ErrClosed
	}
	if len(descs) == 0 {
		return nil, nil, nil
	}
	elemSize, err := elementSize(buf, descs)
	if err != nil {
		return nil, nil, err
	}
	if err := buf.checkContiguous(elemSize); err != nil {
		return nil, nil, err
	}
	if err := buf.checkSize(elemSize); err != nil {
		return nil, nil, err
	}
	a, err := arena.New(buf.Data, buf.Shape, elemSize)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrBufferSize, err)
	}
	items, err := p.buildItems(ctx, descs, buf.Shape, elemSize, allowBroadcast)
	if err != nil {
		return nil, nil, err
	}
	return a, items, nil
}
