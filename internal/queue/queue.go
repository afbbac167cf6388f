// Package queue provides the single-writer serialization primitive for the
// game save: mutations submitted from anywhere are applied strictly in FIFO
// order against the last committed state, and observers are notified exactly
// once per drained batch.
package queue

import (
	"sync"

	"go.uber.org/zap"
)

// Update is one pure mutation: it must return a NEW value when it changes
// state and the SAME value when it does not (change detection is by
// comparison, which for pointer states means reference identity).
type Update[S comparable] func(S) S

type operation[S comparable] struct {
	id    uint64
	apply Update[S]
	done  func()
}

// Queue serializes mutations of one aggregate of type S. It is generic over
// the state so any single-writer value can ride it, not just save data.
type Queue[S comparable] struct {
	mu       sync.Mutex
	idle     *sync.Cond // signalled when draining clears
	pending  []operation[S]
	state    S // last committed snapshot
	draining bool
	nextID   uint64

	onCommit func(S)
	log      *zap.Logger
}

// New builds a queue around an initial state. onCommit fires once per drained
// batch that actually changed the state, with the final accumulated value;
// it may enqueue further operations (they start a fresh batch, no recursion).
func New[S comparable](initial S, onCommit func(S), log *zap.Logger) *Queue[S] {
	q := &Queue[S]{
		state:    initial,
		onCommit: onCommit,
		log:      log,
	}
	q.idle = sync.NewCond(&q.mu)
	return q
}

// State returns the last committed snapshot. Readers never observe in-flight
// queue state; the snapshot swaps only after a full drain.
func (q *Queue[S]) State() S {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.state
}

// Enqueue submits an update and returns its operation id without blocking.
// done (optional) runs synchronously right after this operation's own
// application, before any later-enqueued operation runs. A drain is started
// asynchronously if one isn't already running.
func (q *Queue[S]) Enqueue(apply Update[S], done func()) uint64 {
	q.mu.Lock()
	q.nextID++
	id := q.nextID
	q.pending = append(q.pending, operation[S]{id: id, apply: apply, done: done})
	start := !q.draining
	if start {
		q.draining = true
	}
	q.mu.Unlock()

	if start {
		go q.drain()
	}
	return id
}

// Flush drains synchronously. Called by the host loop at its tick cadence
// and on shutdown; everything enqueued before the call is applied and
// committed by the time it returns, waiting out an in-flight asynchronous
// drain rather than returning past it. Must not be called from onCommit.
func (q *Queue[S]) Flush() {
	q.mu.Lock()
	for q.draining {
		q.idle.Wait()
	}
	if len(q.pending) == 0 {
		q.mu.Unlock()
		return
	}
	q.draining = true
	q.mu.Unlock()
	q.drain()
}

// drain pops operations in order, applying each to an accumulator seeded
// from the committed state, then commits once. Operations enqueued during
// the commit notification are handled by looping, not by recursing.
func (q *Queue[S]) drain() {
	for {
		q.mu.Lock()
		acc := q.state
		changed := false
		for len(q.pending) > 0 {
			op := q.pending[0]
			q.pending = q.pending[1:]
			q.mu.Unlock()

			next := q.applyOne(op, acc)
			if next != acc {
				acc = next
				changed = true
			}
			if op.done != nil {
				op.done()
			}

			q.mu.Lock()
		}
		if changed {
			q.state = acc
		}
		q.mu.Unlock()

		if changed && q.onCommit != nil {
			q.onCommit(acc)
		}

		q.mu.Lock()
		if len(q.pending) == 0 {
			q.draining = false
			q.idle.Broadcast()
			q.mu.Unlock()
			return
		}
		q.mu.Unlock()
	}
}

// applyOne isolates a single bad mutation: a panicking update is logged and
// treated as a no-op, and draining continues with the rest of the batch.
func (q *Queue[S]) applyOne(op operation[S], s S) (out S) {
	defer func() {
		if r := recover(); r != nil {
			if q.log != nil {
				q.log.Error("update panicked, skipping operation",
					zap.Uint64("op", op.id), zap.Any("panic", r))
			}
			out = s
		}
	}()
	return op.apply(s)
}
