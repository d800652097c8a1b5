// File: internal/sched/store.go
// License: Apache-2.0
//
// Pending-operation store. Exit's quiescence wait hangs off the emptiness
// condvar: descriptors are removed only after their callback returned, so
// waitIdle returning means every callback has fired.

package sched

import (
	"sync"
	"sync/atomic"

	"github.com/liolab/lio/api"
)

type store struct {
	mu     sync.Mutex
	idle   *sync.Cond
	ops    map[uint64]*api.Descriptor
	nextID atomic.Uint64
}

func newStore() *store {
	s := &store{ops: make(map[uint64]*api.Descriptor)}
	s.idle = sync.NewCond(&s.mu)
	return s
}

// insert assigns the descriptor its id and tracks it as pending.
func (s *store) insert(d *api.Descriptor) {
	d.ID = s.nextID.Add(1)
	s.mu.Lock()
	s.ops[d.ID] = d
	s.mu.Unlock()
}

func (s *store) remove(id uint64) {
	s.mu.Lock()
	delete(s.ops, id)
	if len(s.ops) == 0 {
		s.idle.Broadcast()
	}
	s.mu.Unlock()
}

func (s *store) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.ops)
}

// waitIdle blocks until no descriptors are pending.
func (s *store) waitIdle() {
	s.mu.Lock()
	for len(s.ops) > 0 {
		s.idle.Wait()
	}
	s.mu.Unlock()
}
