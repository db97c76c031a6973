package chunkflow

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/hupe1980/chunkflow/internal/cache"
	"github.com/hupe1980/chunkflow/resource"
	"github.com/hupe1980/chunkflow/store"
	miniostore "github.com/hupe1980/chunkflow/store/minio"
	s3store "github.com/hupe1980/chunkflow/store/s3"
)

// Backend creates the store behind one address scheme.
//
// An address scheme://rest is split into a root, which identifies the
// store, and a key inside it. A pipeline opens one store for the first
// root it sees and rejects addresses of any other scheme or root.
type Backend struct {
	// Split separates rest into the store root and the chunk key.
	Split func(rest string) (root, key string, err error)

	// Open creates the store for root. It is called at most once per pipeline.
	Open func(ctx context.Context, root string) (store.Store, error)

	// Rebase optionally re-expresses key under root relative to the open
	// store's root. ok is false when the key lies outside it.
	Rebase func(openRoot, root, key string) (rebased string, ok bool)
}

var errMalformedAddress = errors.New("malformed address")

func builtinBackends() map[string]Backend {
	return map[string]Backend{
		"file":   fileBackend(),
		"memory": memoryBackend(),
		"memfs":  memfsBackend(),
		"s3": {
			Split: splitBucket,
			Open: func(ctx context.Context, bucket string) (store.Store, error) {
				return s3store.New(ctx, bucket, "")
			},
		},
		"minio": {
			Split: splitEndpointBucket,
			Open: func(_ context.Context, root string) (store.Store, error) {
				endpoint, bucket, _ := strings.Cut(root, "/")
				return miniostore.New(endpoint, bucket, "")
			},
		},
		"minio+http": {
			Split: splitEndpointBucket,
			Open: func(_ context.Context, root string) (store.Store, error) {
				endpoint, bucket, _ := strings.Cut(root, "/")
				return miniostore.New("http://"+endpoint, bucket, "")
			},
		},
	}
}

// fileBackend roots absolute paths at the filesystem root and relative
// paths at the working directory.
func fileBackend() Backend {
	return Backend{
		Split: func(rest string) (string, string, error) {
			if rest == "" {
				return "", "", errMalformedAddress
			}
			p := filepath.FromSlash(rest)
			if filepath.IsAbs(p) {
				vol := filepath.VolumeName(p)
				root := vol + string(filepath.Separator)
				return root, filepath.ToSlash(strings.TrimPrefix(p[len(vol):], string(filepath.Separator))), nil
			}
			cwd, err := os.Getwd()
			if err != nil {
				return "", "", err
			}
			return cwd, filepath.ToSlash(filepath.Clean(p)), nil
		},
		Open: func(_ context.Context, root string) (store.Store, error) {
			return store.NewLocalStore(root), nil
		},
		Rebase: func(openRoot, root, key string) (string, bool) {
			rel, err := filepath.Rel(openRoot, filepath.Join(root, filepath.FromSlash(key)))
			if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				return "", false
			}
			return filepath.ToSlash(rel), true
		},
	}
}

// memoryBackend keeps chunks in process memory for the pipeline's lifetime.
func memoryBackend() Backend {
	return Backend{
		Split: func(rest string) (string, string, error) {
			if rest == "" {
				return "", "", errMalformedAddress
			}
			return "", rest, nil
		},
		Open: func(context.Context, string) (store.Store, error) {
			return store.NewMemoryStore(), nil
		},
	}
}

// memfsBackend keeps chunks as files of an in-memory billy filesystem,
// so keys behave like paths (List walks directories).
func memfsBackend() Backend {
	b := memoryBackend()
	b.Open = func(context.Context, string) (store.Store, error) {
		return store.NewBillyStore(memfs.New()), nil
	}
	return b
}

func splitBucket(rest string) (string, string, error) {
	bucket, key, ok := strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", errMalformedAddress
	}
	return bucket, key, nil
}

func splitEndpointBucket(rest string) (string, string, error) {
	endpoint, tail, ok := strings.Cut(rest, "/")
	if !ok || endpoint == "" {
		return "", "", errMalformedAddress
	}
	bucket, key, err := splitBucket(tail)
	if err != nil {
		return "", "", err
	}
	return endpoint + "/" + bucket, key, nil
}

type handle struct {
	scheme  string
	root    string
	backend Backend
	store   store.Store
}

// handleCache lazily opens the single store a pipeline talks to.
type handleCache struct {
	backends map[string]Backend
	rc       *resource.Controller
	cache    cache.ChunkCache
	logger   *Logger

	mu      sync.Mutex
	current atomic.Pointer[handle]
}

func newHandleCache(backends map[string]Backend, rc *resource.Controller, c cache.ChunkCache, logger *Logger) *handleCache {
	return &handleCache{backends: backends, rc: rc, cache: c, logger: logger}
}

// parse splits address without opening anything.
func (h *handleCache) parse(address string) (scheme, root, key string, b Backend, err error) {
	scheme, rest, ok := strings.Cut(address, "://")
	if !ok {
		return "", "", "", Backend{}, fmt.Errorf("%w: %q has no scheme", ErrUnsupportedBackend, address)
	}
	b, ok = h.backends[scheme]
	if !ok {
		return "", "", "", Backend{}, fmt.Errorf("%w: %q", ErrUnsupportedBackend, scheme)
	}
	root, key, err = b.Split(rest)
	if err != nil {
		return "", "", "", Backend{}, fmt.Errorf("%w: %q: %w", ErrUnsupportedBackend, address, err)
	}
	if key, err = store.CleanKey(key); err != nil {
		return "", "", "", Backend{}, fmt.Errorf("%q: %w", address, err)
	}
	return scheme, root, key, b, nil
}

// resolve returns the store and key for address, opening the store on
// first use.
func (h *handleCache) resolve(ctx context.Context, address string) (store.Store, string, error) {
	scheme, root, key, b, err := h.parse(address)
	if err != nil {
		return nil, "", err
	}

	cur := h.current.Load()
	if cur == nil {
		if cur, err = h.open(ctx, scheme, root, b); err != nil {
			return nil, "", err
		}
	}

	if cur.scheme != scheme {
		return nil, "", fmt.Errorf("%w: pipeline uses %s://, got %s://", ErrBackendMismatch, cur.scheme, scheme)
	}
	if cur.root != root {
		if cur.backend.Rebase == nil {
			return nil, "", fmt.Errorf("%w: pipeline uses root %q, got %q", ErrBackendMismatch, cur.root, root)
		}
		rebased, ok := cur.backend.Rebase(cur.root, root, key)
		if !ok {
			return nil, "", fmt.Errorf("%w: %q is not under %q", ErrOutsideRoot, address, cur.root)
		}
		key = rebased
	}
	return cur.store, key, nil
}

func (h *handleCache) open(ctx context.Context, scheme, root string, b Backend) (*handle, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if cur := h.current.Load(); cur != nil {
		return cur, nil
	}

	s, err := b.Open(ctx, root)
	h.logger.LogBackendOpen(ctx, scheme, root, err)
	if err != nil {
		return nil, fmt.Errorf("open %s://%s: %w", scheme, root, err)
	}

	var wrapped store.Store = store.NewThrottledStore(s, h.rc)
	if h.cache != nil {
		wrapped = store.NewCachingStore(wrapped, h.cache, cacheName(scheme, root))
	}

	cur := &handle{scheme: scheme, root: root, backend: b, store: wrapped}
	h.current.Store(cur)
	return cur, nil
}

func cacheName(scheme, root string) string { return scheme + "://" + root }

// close drops the cached handle, closing the store when it supports it.
func (h *handleCache) close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	cur := h.current.Swap(nil)
	if cur == nil {
		return nil
	}
	if h.cache != nil {
		h.cache.Purge(cacheName(cur.scheme, cur.root))
	}
	var s any = cur.store
	for {
		if c, ok := s.(interface{ Close() error }); ok {
			return c.Close()
		}
		w, ok := s.(interface{ Inner() store.Store })
		if !ok {
			return nil
		}
		s = w.Inner()
	}
}
