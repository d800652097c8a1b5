// File: internal/sched/scheduler.go
// License: Apache-2.0
//
// Scheduler/executor: owns every in-flight descriptor and a bounded pool
// of worker goroutines that run blocking backend work. Workers pull from a
// single shared FIFO, so operations against the same handle may complete
// in any order; per-handle FIFO is explicitly not guaranteed.

package sched

import (
	"net"
	"runtime"
	"sync"

	"go.uber.org/zap"

	"github.com/liolab/lio/api"
)

// completion carries a terminal backend result to the dispatcher.
type completion struct {
	d      *api.Descriptor
	result int
	peer   net.Addr
}

// Scheduler drives submitted descriptors to completion.
type Scheduler struct {
	backend api.Backend
	log     *zap.Logger

	store   *store
	submitQ *fifo[*api.Descriptor]
	compQ   *fifo[completion]
	timers  *timerQueue

	workers int

	wgWorkers  sync.WaitGroup
	wgTimer    sync.WaitGroup
	wgDispatch sync.WaitGroup
}

// New builds a scheduler over the given backend. workers <= 0 defaults to
// runtime.NumCPU(). The worker, timer and dispatcher goroutines start
// immediately but stay parked until Resume.
func New(backend api.Backend, workers int, log *zap.Logger) *Scheduler {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	s := &Scheduler{
		backend: backend,
		log:     log,
		store:   newStore(),
		submitQ: newFIFO[*api.Descriptor](),
		compQ:   newFIFO[completion](),
		timers:  newTimerQueue(),
		workers: workers,
	}
	s.submitQ.pause()

	s.wgWorkers.Add(workers)
	for i := 0; i < workers; i++ {
		go s.worker(i)
	}
	s.wgTimer.Add(1)
	go func() {
		defer s.wgTimer.Done()
		s.timers.run(s.fireTimer, s.abortTimer)
	}()
	s.wgDispatch.Add(1)
	go s.dispatch()

	return s
}

// Enqueue registers d as pending and hands it to the backend queue or, for
// timeouts, the timer queue. Returns false once the scheduler shut down;
// the descriptor is untracked again in that case and the caller owns the
// rejection callback.
func (s *Scheduler) Enqueue(d *api.Descriptor) bool {
	s.store.insert(d)
	var ok bool
	if d.Kind == api.OpTimeout {
		ok = s.timers.add(d)
	} else {
		ok = s.submitQ.push(d)
	}
	if !ok {
		s.store.remove(d.ID)
		return false
	}
	return true
}

// Resume lets workers pull queued work. Idempotent.
func (s *Scheduler) Resume() {
	s.submitQ.resume()
}

// Pause parks workers after their current operation. Queued descriptors
// stay queued, in-flight syscalls finish, armed timers still fire.
func (s *Scheduler) Pause() {
	s.submitQ.pause()
}

// Pending returns the number of descriptors that have not completed.
func (s *Scheduler) Pending() int {
	return s.store.pending()
}

// Drain resumes work and blocks until every pending descriptor's callback
// has returned.
func (s *Scheduler) Drain() {
	s.submitQ.resume()
	s.store.waitIdle()
}

// Shutdown stops all scheduler goroutines. Call after Drain so steady
// state work completes normally; anything accepted after the drain wait
// still completes, queued items through the closing fifo and armed timers
// through the abort path.
func (s *Scheduler) Shutdown() {
	s.submitQ.close()
	s.wgWorkers.Wait()
	s.timers.stop()
	s.wgTimer.Wait()
	s.compQ.close()
	s.wgDispatch.Wait()
}

// worker is the executor loop: pull, mark in-flight, perform, hand off to
// the dispatcher.
func (s *Scheduler) worker(id int) {
	defer s.wgWorkers.Done()
	s.log.Debug("worker started", zap.Int("worker", id))
	for {
		d, ok := s.submitQ.pop()
		if !ok {
			s.log.Debug("worker stopped", zap.Int("worker", id))
			return
		}
		if !d.Advance(api.StateSubmitted, api.StateInFlight) {
			s.log.Error("descriptor already in flight", zap.Uint64("op", d.ID))
			continue
		}
		result, peer := s.perform(d)
		s.compQ.push(completion{d: d, result: result, peer: peer})
	}
}

// perform shields the worker from a panicking backend; the descriptor
// still completes, with an internal error code.
func (s *Scheduler) perform(d *api.Descriptor) (result int, peer net.Addr) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("backend panic",
				zap.Uint64("op", d.ID),
				zap.Stringer("kind", d.Kind),
				zap.Any("panic", r))
			result, peer = api.CodeInternal, nil
		}
	}()
	return s.backend.Perform(d)
}

// fireTimer completes a due timeout descriptor through the dispatcher.
func (s *Scheduler) fireTimer(d *api.Descriptor) {
	if !d.Advance(api.StateSubmitted, api.StateInFlight) {
		return
	}
	s.compQ.push(completion{d: d, result: 0})
}

// abortTimer completes a timeout still armed at shutdown. A submission can
// be accepted between the drain wait and the timer stop; its callback must
// still fire exactly once, so it gets the not-running code instead of
// vanishing.
func (s *Scheduler) abortTimer(d *api.Descriptor) {
	if !d.Advance(api.StateSubmitted, api.StateInFlight) {
		return
	}
	s.log.Debug("armed timer aborted at shutdown", zap.Uint64("op", d.ID))
	s.compQ.push(completion{d: d, result: api.CodeNotRunning})
}
