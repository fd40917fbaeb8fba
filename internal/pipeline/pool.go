package pipeline

import (
	"context"
	"fmt"

	"github.com/couchcryptid/dwd-weather-api/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/semaphore"
)

// decodePool bounds the number of decodes running at once.
type decodePool struct {
	sem      *semaphore.Weighted
	inflight prometheus.Gauge
}

func newDecodePool(size int, inflight prometheus.Gauge) *decodePool {
	if size < 1 {
		size = 1
	}
	return &decodePool{sem: semaphore.NewWeighted(int64(size)), inflight: inflight}
}

type result[T any] struct {
	value T
	err   error
}

// runInPool executes fn on its own goroutine once a slot is free. If ctx ends
// first, runInPool returns domain.ErrInternal wrapped with the context error;
// fn keeps its slot until it returns.
func runInPool[T any](ctx context.Context, p *decodePool, fn func() (T, error)) (T, error) {
	var zero T
	if err := p.sem.Acquire(ctx, 1); err != nil {
		return zero, fmt.Errorf("%w: waiting for decode slot: %w", domain.ErrInternal, err)
	}
	p.inflight.Inc()

	done := make(chan result[T], 1)
	go func() {
		defer p.sem.Release(1)
		defer p.inflight.Dec()
		defer func() {
			if r := recover(); r != nil {
				done <- result[T]{err: fmt.Errorf("%w: decode panicked: %v", domain.ErrInternal, r)}
			}
		}()
		v, err := fn()
		done <- result[T]{value: v, err: err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		return zero, fmt.Errorf("%w: %w", domain.ErrInternal, ctx.Err())
	}
}
