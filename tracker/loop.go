package tracker

import (
	"context"
	"errors"
)

// ErrLoopDone is returned by Call once the loop has stopped.
var ErrLoopDone = errors.New("tracker loop is done")

// Loop serializes work onto a single control goroutine. Trees and trackers
// are not safe for concurrent use; code on other goroutines posts work here.
type Loop struct {
	work chan func()
	done chan struct{}
}

// NewLoop returns a loop with room for queue pending functions.
func NewLoop(queue int) *Loop {
	return &Loop{
		work: make(chan func(), queue),
		done: make(chan struct{}),
	}
}

// Run executes posted functions until ctx is done. It must be called once.
func (l *Loop) Run(ctx context.Context) error {
	defer close(l.done)
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case fn := <-l.work:
			fn()
		}
	}
}

// Do posts fn and returns without waiting. It reports false if the loop has
// stopped.
func (l *Loop) Do(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.work <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Call runs fn on the loop and waits for its result.
func (l *Loop) Call(ctx context.Context, fn func() error) error {
	res := make(chan error, 1)
	if !l.Do(func() { res <- fn() }) {
		return ErrLoopDone
	}
	select {
	case err := <-res:
		return err
	case <-l.done:
		select {
		case err := <-res:
			return err
		default:
			return ErrLoopDone
		}
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Done is closed when Run returns.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}
