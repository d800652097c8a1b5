// File: internal/sched/fifo.go
// Package sched owns in-flight descriptors and drives them to completion.
// License: Apache-2.0
//
// Blocking FIFO built on the eapache ring queue plus a condvar. The queue
// itself is not thread safe; all access happens under mu. Pausing stops
// consumers without rejecting producers, which is how Stop parks queued
// work while submission keeps succeeding.

package sched

import (
	"sync"

	"github.com/eapache/queue"
)

type fifo[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	buf    *queue.Queue
	closed bool
	paused bool
}

func newFIFO[T any]() *fifo[T] {
	f := &fifo[T]{buf: queue.New()}
	f.cond = sync.NewCond(&f.mu)
	return f
}

// push appends v and wakes one consumer. Returns false once closed.
func (f *fifo[T]) push(v T) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return false
	}
	f.buf.Add(v)
	f.cond.Signal()
	return true
}

// pop blocks until an item is available and the queue is not paused, or
// until close drains everything. ok is false only after close with an
// empty queue.
func (f *fifo[T]) pop() (v T, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for {
		if f.buf.Length() > 0 && !f.paused {
			return f.buf.Remove().(T), true
		}
		if f.closed && f.buf.Length() == 0 {
			return v, false
		}
		f.cond.Wait()
	}
}

func (f *fifo[T]) pause() {
	f.mu.Lock()
	f.paused = true
	f.mu.Unlock()
}

func (f *fifo[T]) resume() {
	f.mu.Lock()
	f.paused = false
	f.cond.Broadcast()
	f.mu.Unlock()
}

// close rejects further pushes and unparks consumers so remaining items
// drain. A paused queue is resumed; close during a pause would otherwise
// strand items forever.
func (f *fifo[T]) close() {
	f.mu.Lock()
	f.closed = true
	f.paused = false
	f.cond.Broadcast()
	f.mu.Unlock()
}
