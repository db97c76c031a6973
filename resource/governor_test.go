package resource

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestForEachSequential(t *testing.T) {
	var order []int
	err := ForEach(context.Background(), 1, 5, func(_ context.Context, i int) error {
		order = append(order, i)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, order)
}

func TestForEachRespectsLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	var mu sync.Mutex
	seen := make(map[int]bool)

	err := ForEach(context.Background(), 3, 50, func(_ context.Context, i int) error {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(time.Millisecond)
		inFlight.Add(-1)
		mu.Lock()
		seen[i] = true
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, seen, 50)
	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestForEachFirstError(t *testing.T) {
	boom := errors.New("boom")
	for _, limit := range []int{1, 4} {
		err := ForEach(context.Background(), limit, 10, func(_ context.Context, i int) error {
			if i == 2 {
				return boom
			}
			return nil
		})
		assert.ErrorIs(t, err, boom, "limit %d", limit)
	}
}

func TestForEachCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var calls atomic.Int32
	err := ForEach(ctx, 4, 10, func(context.Context, int) error {
		calls.Add(1)
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls.Load())

	err = ForEach(ctx, 1, 10, func(context.Context, int) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestForEachEmpty(t *testing.T) {
	require.NoError(t, ForEach(context.Background(), 8, 0, nil))
}
