package dashboard

import (
	"context"
	"errors"
	"sync"
)

// Loop runs tasks one at a time on the goroutine that owns the View.
// Implementations must be safe to Post to from any goroutine.
type Loop interface {
	Post(task func())
}

// ErrLoopStopped is returned by EventLoop.Step and Run once Stop was called.
var ErrLoopStopped = errors.New("event loop stopped")

// EventLoop is a channel backed Loop for headless use.
type EventLoop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
}

// NewEventLoop creates a loop that queues up to buffer tasks before Post
// starts to block.
func NewEventLoop(buffer int) *EventLoop {
	if buffer <= 0 {
		buffer = 64
	}
	return &EventLoop{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
}

// Post queues a task. Tasks posted after Stop are dropped.
func (l *EventLoop) Post(task func()) {
	select {
	case <-l.done:
		return
	default:
	}

	select {
	case l.tasks <- task:
	case <-l.done:
	}
}

// Step waits for the next task and runs it on the calling goroutine.
func (l *EventLoop) Step(ctx context.Context) error {
	select {
	case task := <-l.tasks:
		task()
		return nil
	case <-l.done:
		return ErrLoopStopped
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run executes tasks until ctx is done or the loop is stopped.
func (l *EventLoop) Run(ctx context.Context) error {
	for {
		if err := l.Step(ctx); err != nil {
			if errors.Is(err, ErrLoopStopped) {
				return nil
			}
			return err
		}
	}
}

// Len returns the number of queued tasks.
func (l *EventLoop) Len() int {
	return len(l.tasks)
}

// Stop releases every goroutine blocked in Post and ends Run.
func (l *EventLoop) Stop() {
	l.once.Do(func() { close(l.done) })
}
