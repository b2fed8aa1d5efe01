// Package mainloop provides the serialized execution context every bridge
// session runs on.
//
// Inbound messages, outbound script evaluation and affordance queries are all
// posted here. Work that finishes elsewhere (HTTP calls, host claim tasks,
// script evaluation results) posts its continuation back instead of touching
// session state directly.
package mainloop

import (
	"context"
	"errors"
	"sync"
)

// Executor runs posted functions one at a time in FIFO order.
type Executor interface {
	Post(fn func())
}

// ErrStopped is returned by Run after Stop.
var ErrStopped = errors.New("main loop stopped")

// Loop is a goroutine-backed Executor.
type Loop struct {
	queue chan func()
	stop  chan struct{}
	once  sync.Once
}

// New creates a loop with the given queue depth.
func New(depth int) *Loop {
	if depth <= 0 {
		depth = 256
	}
	return &Loop{
		queue: make(chan func(), depth),
		stop:  make(chan struct{}),
	}
}

// Post enqueues fn. It blocks when the queue is full and drops fn once the
// loop is stopped.
func (l *Loop) Post(fn func()) {
	if fn == nil {
		return
	}
	select {
	case <-l.stop:
	case l.queue <- fn:
	}
}

// Run executes posted functions until ctx is done or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.stop:
			return ErrStopped
		case fn := <-l.queue:
			fn()
		}
	}
}

// Start runs the loop on a new goroutine.
func (l *Loop) Start(ctx context.Context) {
	go func() { _ = l.Run(ctx) }()
}

// Stop ends Run. Pending functions are discarded.
func (l *Loop) Stop() {
	l.once.Do(func() { close(l.stop) })
}

// Call posts fn and waits until it has run. It must not be called from the
// loop itself.
func (l *Loop) Call(ctx context.Context, fn func()) error {
	done := make(chan struct{})
	l.Post(func() {
		defer close(done)
		fn()
	})
	select {
	case <-done:
		return nil
	case <-l.stop:
		return ErrStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Inline runs posted functions immediately on the caller's goroutine.
// Nested posts are queued and drained in order so FIFO still holds.
type Inline struct {
	mu      sync.Mutex
	pending []func()
	running bool
}

// Post implements Executor.
func (in *Inline) Post(fn func()) {
	if fn == nil {
		return
	}
	in.mu.Lock()
	in.pending = append(in.pending, fn)
	if in.running {
		in.mu.Unlock()
		return
	}
	in.running = true
	for len(in.pending) > 0 {
		next := in.pending[0]
		in.pending = in.pending[1:]
		in.mu.Unlock()
		next()
		in.mu.Lock()
	}
	in.running = false
	in.mu.Unlock()
}
