package app

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrDispatcherClosed is reported for calls dispatched after Close.
var ErrDispatcherClosed = errors.New("dispatcher closed")

// Dispatcher runs collaborator calls without blocking the caller. Failures go
// to the logger and to the returned channel, which callers are free to ignore.
type Dispatcher struct {
	log     *zap.Logger
	timeout time.Duration

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewDispatcher(log *zap.Logger, timeout time.Duration) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Dispatcher{log: log, timeout: timeout}
}

// Go starts fn on its own goroutine under a context detached from any request.
// The returned channel receives fn's error (nil on success) and is then closed.
func (d *Dispatcher) Go(name string, fn func(ctx context.Context) error, fields ...zap.Field) <-chan error {
	done := make(chan error, 1)
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		d.log.Warn("background call dropped", append(fields, zap.String("call", name), zap.Error(ErrDispatcherClosed))...)
		done <- ErrDispatcherClosed
		close(done)
		return done
	}
	d.wg.Add(1)
	d.mu.Unlock()
	go func() {
		defer d.wg.Done()
		defer close(done)

		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		defer cancel()

		err := fn(ctx)
		if err != nil {
			d.log.Warn("background call failed", append(fields, zap.String("call", name), zap.Error(err))...)
		}
		done <- err
	}()
	return done
}

// Close makes later calls fail with ErrDispatcherClosed. Calls already
// dispatched keep running; use Wait to let them finish.
func (d *Dispatcher) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closed = true
}

// Wait blocks until every dispatched call has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
