package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrBusy is returned when no engine worker frees up in time.
var ErrBusy = errors.New("all engine workers are busy")

// Limiter bounds the number of engine decisions running at once.
type Limiter struct {
	sem     *semaphore.Weighted
	timeout time.Duration
}

// NewLimiter allows workers concurrent decisions; callers wait at most
// timeout for a slot.
func NewLimiter(workers int, timeout time.Duration) *Limiter {
	return &Limiter{
		sem:     semaphore.NewWeighted(int64(workers)),
		timeout: timeout,
	}
}

// Do runs fn once a worker slot is free.
func (l *Limiter) Do(ctx context.Context, fn func()) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	if err := l.sem.Acquire(ctx, 1); err != nil {
		return fmt.Errorf("%w: %v", ErrBusy, err)
	}
	defer l.sem.Release(1)

	fn()
	return nil
}
