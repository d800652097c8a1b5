// File: internal/sched/timers.go
// License: Apache-2.0
//
// Min-heap timer queue for OpTimeout descriptors. One goroutine sleeps
// until the nearest deadline and hands due descriptors to the completion
// dispatcher. Timers keep running while the scheduler is paused; Stop
// halts backend work, not the clock.

package sched

import (
	"container/heap"
	"sync"
	"time"

	"github.com/liolab/lio/api"
)

type timerEntry struct {
	at time.Time
	d  *api.Descriptor
}

type timerHeap []timerEntry

func (h timerHeap) Len() int            { return len(h) }
func (h timerHeap) Less(i, j int) bool  { return h[i].at.Before(h[j].at) }
func (h timerHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *timerHeap) Push(x any)         { *h = append(*h, x.(timerEntry)) }
func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	*h = old[:n-1]
	return e
}

type timerQueue struct {
	mu     sync.Mutex
	heap   timerHeap
	wake   chan struct{}
	done   chan struct{}
	closed bool
}

func newTimerQueue() *timerQueue {
	return &timerQueue{
		wake: make(chan struct{}, 1),
		done: make(chan struct{}),
	}
}

// add arms a timeout descriptor. Returns false once the queue shut down.
func (t *timerQueue) add(d *api.Descriptor) bool {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return false
	}
	heap.Push(&t.heap, timerEntry{at: time.Now().Add(d.Dur), d: d})
	t.mu.Unlock()
	select {
	case t.wake <- struct{}{}:
	default:
	}
	return true
}

// stop rejects further adds and makes run abort whatever is still armed.
// closed is set before done so no entry can slip into the heap after the
// abort drain.
func (t *timerQueue) stop() {
	t.mu.Lock()
	t.closed = true
	t.mu.Unlock()
	close(t.done)
}

// run fires due timers until stop. fire receives descriptors whose
// deadline passed; they complete with result 0. On stop, entries whose
// deadline has not passed go to abort instead, so an armed timer never
// strands its descriptor across shutdown.
func (t *timerQueue) run(fire, abort func(d *api.Descriptor)) {
	timer := time.NewTimer(time.Hour)
	defer timer.Stop()
	for {
		t.mu.Lock()
		for len(t.heap) > 0 && !t.heap[0].at.After(time.Now()) {
			e := heap.Pop(&t.heap).(timerEntry)
			t.mu.Unlock()
			fire(e.d)
			t.mu.Lock()
		}
		var wait time.Duration
		if len(t.heap) > 0 {
			wait = time.Until(t.heap[0].at)
		} else {
			wait = time.Hour
		}
		t.mu.Unlock()

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-t.done:
			t.drain(abort)
			return
		case <-t.wake:
		case <-timer.C:
		}
	}
}

func (t *timerQueue) drain(abort func(d *api.Descriptor)) {
	t.mu.Lock()
	for len(t.heap) > 0 {
		e := heap.Pop(&t.heap).(timerEntry)
		t.mu.Unlock()
		abort(e.d)
		t.mu.Lock()
	}
	t.mu.Unlock()
}
