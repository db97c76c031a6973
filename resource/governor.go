package resource

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// ForEach runs fn for every index in [0, n) with at most limit calls in
// flight. A limit of 1 or less runs the items in order on the calling
// goroutine.
//
// The first error stops further items from being started and is returned
// once in-flight items finish. Items already running receive ctx, not a
// derived context, so a failure elsewhere does not abort partial writes.
func ForEach(ctx context.Context, limit, n int, fn func(ctx context.Context, i int) error) error {
	if n <= 0 {
		return nil
	}
	if limit <= 1 || n == 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := fn(ctx, i); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(limit, n))
	for i := 0; i < n; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			return fn(ctx, i)
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
