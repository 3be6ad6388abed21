package dom

import (
	"context"
	"errors"
	"sync"
)

// ErrIdle is returned by RunUntil when the loop drained without the condition holding.
var ErrIdle = errors.New("dom: loop idle before condition held")

// Loop is a single-threaded task queue pumped by its caller. Every DOM read,
// write, observer delivery and event dispatch runs on it; blocking work runs
// on goroutines via Async and posts its continuation back.
type Loop struct {
	mu       sync.Mutex
	tasks    []func()
	inflight int
	wake     chan struct{}
}

// NewLoop creates an empty loop.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Post queues fn to run on the loop. Safe from any goroutine.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	l.tasks = append(l.tasks, fn)
	l.mu.Unlock()
	l.signal()
}

// Async runs work on a new goroutine. The continuation it returns, if any, is
// queued on the loop. The loop is not idle while work is in flight.
func (l *Loop) Async(work func() func()) {
	l.mu.Lock()
	l.inflight++
	l.mu.Unlock()

	go func() {
		cont := work()
		l.mu.Lock()
		l.inflight--
		if cont != nil {
			l.tasks = append(l.tasks, cont)
		}
		l.mu.Unlock()
		l.signal()
	}()
}

// Pending returns the number of queued tasks and in-flight async jobs.
func (l *Loop) Pending() (tasks, inflight int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.tasks), l.inflight
}

// RunUntilIdle runs tasks until none are queued and no async work is in flight.
func (l *Loop) RunUntilIdle(ctx context.Context) error {
	return l.run(ctx, nil)
}

// RunUntil runs tasks until cond holds. It returns ErrIdle if the loop drains
// first.
func (l *Loop) RunUntil(ctx context.Context, cond func() bool) error {
	return l.run(ctx, cond)
}

func (l *Loop) run(ctx context.Context, cond func() bool) error {
	for {
		if cond != nil && cond() {
			return nil
		}
		task, idle := l.next()
		if task != nil {
			task()
			continue
		}
		if idle {
			if cond != nil {
				return ErrIdle
			}
			return nil
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) next() (task func(), idle bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.tasks) > 0 {
		task = l.tasks[0]
		l.tasks[0] = nil
		l.tasks = l.tasks[1:]
		return task, false
	}
	return nil, l.inflight == 0
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}
