package module

import (
	"context"
)

// Awaitable is a value that settles later.
// Function modules may return one to resolve asynchronously.
type Awaitable interface {
	Await(ctx context.Context) (any, error)
}

// Future is a single-assignment Awaitable backed by a goroutine.
type Future struct {
	done  chan struct{}
	value any
	err   error
}

// Go runs fn in its own goroutine and returns a Future for its outcome.
func Go(ctx context.Context, fn func(ctx context.Context) (any, error)) *Future {
	f := &Future{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		f.value, f.err = fn(ctx)
	}()
	return f
}

// Resolved returns a Future that already holds v.
func Resolved(v any) *Future {
	f := &Future{done: make(chan struct{}), value: v}
	close(f.done)
	return f
}

// Failed returns a Future that already holds err.
func Failed(err error) *Future {
	f := &Future{done: make(chan struct{}), err: err}
	close(f.done)
	return f
}

// Done is closed once the future settled.
func (f *Future) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the future settles or ctx is done.
func (f *Future) Await(ctx context.Context) (any, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Await unwraps v until it is no longer Awaitable.
// Plain values are returned as they are.
func Await(ctx context.Context, v any) (any, error) {
	for {
		a, ok := v.(Awaitable)
		if !ok {
			return v, nil
		}
		next, err := a.Await(ctx)
		if err != nil {
			return nil, err
		}
		v = next
	}
}
