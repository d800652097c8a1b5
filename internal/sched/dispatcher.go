// File: internal/sched/dispatcher.go
// License: Apache-2.0
//
// Completion dispatcher: one goroutine invokes every callback exactly once,
// serialised, never on the submitting goroutine. The pending count drops
// only after the callback returned, which is what makes Exit's quiescence
// wait cover callback delivery.

package sched

import (
	"go.uber.org/zap"

	"github.com/liolab/lio/api"
)

func (s *Scheduler) dispatch() {
	defer s.wgDispatch.Done()
	for {
		c, ok := s.compQ.pop()
		if !ok {
			return
		}
		if !c.d.Advance(api.StateInFlight, api.StateCompleted) {
			s.log.Error("double completion suppressed", zap.Uint64("op", c.d.ID))
			continue
		}
		s.invoke(c)
	}
}

// invoke runs the callback and untracks the descriptor. The removal sits
// in a defer so a panicking callback cannot wedge Exit.
func (s *Scheduler) invoke(c completion) {
	d := c.d
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("completion callback panic",
				zap.Uint64("op", d.ID),
				zap.Stringer("kind", d.Kind),
				zap.Any("panic", r))
		}
		if d.Recycle != nil {
			d.Recycle(d.Buf)
		}
		s.store.remove(d.ID)
	}()
	d.Done(c.result, d.Buf, c.peer)
}
