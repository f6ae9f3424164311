// Package queue runs commands one at a time, in arrival order, on a single
// background worker.
package queue

import (
	"context"
	"errors"
	"sync"

	"github.com/kyson/cmdkit/internal/command"
)

// ErrClosed is returned by Push after Close.
var ErrClosed = errors.New("command queue closed")

// ConsumeFunc processes one dequeued command.
type ConsumeFunc func(ctx context.Context, cmd command.Command)

// Queue is an unbounded FIFO drained by one worker goroutine started in New.
type Queue struct {
	mu      sync.Mutex
	items   []command.Command
	closed  bool
	wake    chan struct{}
	done    chan struct{}
	consume ConsumeFunc
	ctx     context.Context
}

// New starts the worker. ctx is handed to every consume call.
func New(ctx context.Context, consume ConsumeFunc) *Queue {
	if ctx == nil {
		ctx = context.Background()
	}
	q := &Queue{
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		consume: consume,
		ctx:     ctx,
	}
	go q.run()
	return q
}

// Push appends cmd and wakes the worker. It never waits for processing.
func (q *Queue) Push(cmd command.Command) error {
	if command.IsNil(cmd) {
		return command.ErrNilCommand
	}
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.items = append(q.items, cmd)
	// wake is only closed under mu, so this send cannot race Close.
	select {
	case q.wake <- struct{}{}:
	default:
	}
	q.mu.Unlock()
	return nil
}

// Len returns the number of commands not yet picked up by the worker.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// Close stops accepting commands, waits until everything already accepted
// has been consumed, then stops the worker. Safe to call more than once, but
// not from inside a ConsumeFunc.
func (q *Queue) Close() error {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.wake)
	}
	q.mu.Unlock()
	<-q.done
	return nil
}

func (q *Queue) run() {
	defer close(q.done)
	for range q.wake {
		q.drain()
	}
	// wake is closed; pick up anything pushed before Close.
	q.drain()
}

func (q *Queue) drain() {
	for {
		cmd, ok := q.next()
		if !ok {
			return
		}
		q.consume(q.ctx, cmd)
	}
}

func (q *Queue) next() (command.Command, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return nil, false
	}
	cmd := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return cmd, true
}
