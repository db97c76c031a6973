package resource

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
	"golang.org/x/time/rate"
)

// ErrRequestTooLarge is returned for a memory reservation larger than the
// whole budget.
var ErrRequestTooLarge = errors.New("resource request exceeds limit")

// Config holds resource limits. Zero values mean unlimited.
type Config struct {
	// MemoryLimitBytes bounds the scratch memory held by in-flight chunk
	// work and by cached chunks.
	MemoryLimitBytes int64

	// IOLimitBytesPerSec bounds store throughput.
	IOLimitBytesPerSec int64
}

// Stats is a snapshot of a Controller's accounting.
type Stats struct {
	MemoryInUse int64
	MemoryPeak  int64
	IOBytes     int64
}

// Controller meters memory and store IO across concurrent chunk work.
// A nil *Controller is valid and imposes no limits.
type Controller struct {
	cfg Config
	mem memoryBudget
	io  ioMeter
}

// NewController creates a controller enforcing cfg.
func NewController(cfg Config) *Controller {
	c := &Controller{cfg: cfg}
	if cfg.MemoryLimitBytes > 0 {
		c.mem.sem = semaphore.NewWeighted(cfg.MemoryLimitBytes)
		c.mem.limit = cfg.MemoryLimitBytes
	}
	if cfg.IOLimitBytesPerSec > 0 {
		c.io.limiter = rate.NewLimiter(rate.Limit(cfg.IOLimitBytesPerSec), int(cfg.IOLimitBytesPerSec))
	}
	return c
}

// Config returns the limits the controller was created with.
func (c *Controller) Config() Config {
	if c == nil {
		return Config{}
	}
	return c.cfg
}

// Reserve blocks until n bytes fit the memory budget or ctx is done.
func (c *Controller) Reserve(ctx context.Context, n int64) error {
	if c == nil || n <= 0 {
		return nil
	}
	return c.mem.reserve(ctx, n)
}

// TryReserve reserves n bytes only if they fit right now.
func (c *Controller) TryReserve(n int64) bool {
	if c == nil || n <= 0 {
		return true
	}
	return c.mem.tryReserve(n)
}

// Release returns n previously reserved bytes.
func (c *Controller) Release(n int64) {
	if c == nil || n <= 0 {
		return
	}
	c.mem.release(n)
}

// ChargeIO accounts n bytes of store traffic, waiting for the rate limit.
func (c *Controller) ChargeIO(ctx context.Context, n int) error {
	if c == nil || n <= 0 {
		return nil
	}
	return c.io.charge(ctx, n)
}

// Stats returns the current accounting.
func (c *Controller) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	return Stats{
		MemoryInUse: c.mem.used.Load(),
		MemoryPeak:  c.mem.peak.Load(),
		IOBytes:     c.io.total.Load(),
	}
}

type memoryBudget struct {
	sem   *semaphore.Weighted // nil when unlimited
	limit int64
	used  atomic.Int64
	peak  atomic.Int64
}

func (m *memoryBudget) reserve(ctx context.Context, n int64) error {
	if m.sem != nil {
		if n > m.limit {
			return fmt.Errorf("%w: %d bytes of memory, limit %d", ErrRequestTooLarge, n, m.limit)
		}
		if err := m.sem.Acquire(ctx, n); err != nil {
			return err
		}
	}
	m.account(n)
	return nil
}

func (m *memoryBudget) tryReserve(n int64) bool {
	if m.sem != nil && !m.sem.TryAcquire(n) {
		return false
	}
	m.account(n)
	return true
}

func (m *memoryBudget) account(n int64) {
	used := m.used.Add(n)
	for {
		peak := m.peak.Load()
		if used <= peak || m.peak.CompareAndSwap(peak, used) {
			return
		}
	}
}

func (m *memoryBudget) release(n int64) {
	if m.sem != nil {
		m.sem.Release(n)
	}
	m.used.Add(-n)
}

type ioMeter struct {
	limiter *rate.Limiter // nil when unlimited
	total   atomic.Int64
}

// charge waits in burst-sized steps; WaitN rejects requests above the burst.
func (m *ioMeter) charge(ctx context.Context, n int) error {
	m.total.Add(int64(n))
	if m.limiter == nil {
		return nil
	}
	for step := m.limiter.Burst(); n > 0; n -= step {
		if err := m.limiter.WaitN(ctx, min(n, step)); err != nil {
			return err
		}
	}
	return nil
}
