// File: internal/sched/sched_test.go
// License: Apache-2.0

package sched_test

import (
	"net"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/liolab/lio/api"
	"github.com/liolab/lio/fake"
	"github.com/liolab/lio/internal/sched"
)

func newDesc(kind api.OpKind, done api.DoneFunc) *api.Descriptor {
	return &api.Descriptor{Kind: kind, FD: 1, Buf: make([]byte, 8), Done: done}
}

func TestSchedulerCompletesExactlyOnce(t *testing.T) {
	s := sched.New(&fake.Backend{}, 2, zap.NewNop())
	s.Resume()

	const n = 100
	var fired [n]atomic.Int32
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		i := i
		require.True(t, s.Enqueue(newDesc(api.OpWrite, func(result int, buf []byte, _ net.Addr) {
			fired[i].Add(1)
			wg.Done()
		})))
	}
	wg.Wait()
	s.Drain()
	s.Shutdown()

	for i := 0; i < n; i++ {
		require.Equal(t, int32(1), fired[i].Load(), "op %d", i)
	}
	require.Zero(t, s.Pending())
}

func TestSchedulerStartsParked(t *testing.T) {
	b := &fake.Backend{}
	s := sched.New(b, 1, zap.NewNop())

	done := make(chan struct{})
	require.True(t, s.Enqueue(newDesc(api.OpWrite, func(int, []byte, net.Addr) {
		close(done)
	})))

	select {
	case <-done:
		t.Fatal("parked scheduler ran backend work")
	case <-time.After(50 * time.Millisecond):
	}
	require.Zero(t, b.Performed())
	require.Equal(t, 1, s.Pending())

	s.Resume()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("resumed scheduler never completed the op")
	}
	s.Drain()
	s.Shutdown()
}

func TestSchedulerPauseParksQueuedWork(t *testing.T) {
	b := &fake.Backend{}
	s := sched.New(b, 1, zap.NewNop())
	s.Resume()
	s.Pause()

	var fired atomic.Int32
	require.True(t, s.Enqueue(newDesc(api.OpWrite, func(int, []byte, net.Addr) {
		fired.Add(1)
	})))
	time.Sleep(50 * time.Millisecond)
	require.Zero(t, fired.Load())

	// Drain resumes parked work before waiting.
	s.Drain()
	require.Equal(t, int32(1), fired.Load())
	s.Shutdown()
}

func TestSchedulerDrainWaitsForCallbacks(t *testing.T) {
	b := &fake.Backend{Delay: 20 * time.Millisecond}
	s := sched.New(b, 4, zap.NewNop())
	s.Resume()

	const n = 16
	var fired atomic.Int32
	for i := 0; i < n; i++ {
		require.True(t, s.Enqueue(newDesc(api.OpWrite, func(int, []byte, net.Addr) {
			fired.Add(1)
		})))
	}
	s.Drain()
	require.Equal(t, int32(n), fired.Load())
	require.Zero(t, s.Pending())
	s.Shutdown()
}

func TestSchedulerTimerFiresNoEarlier(t *testing.T) {
	s := sched.New(&fake.Backend{}, 1, zap.NewNop())
	s.Resume()

	const dur = 60 * time.Millisecond
	start := time.Now()
	done := make(chan int, 1)
	require.True(t, s.Enqueue(&api.Descriptor{
		Kind: api.OpTimeout,
		Dur:  dur,
		Done: func(result int, _ []byte, _ net.Addr) { done <- result },
	}))

	select {
	case result := <-done:
		require.Zero(t, result)
		require.GreaterOrEqual(t, time.Since(start), dur)
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
	s.Drain()
	s.Shutdown()
}

func TestSchedulerEnqueueAfterShutdown(t *testing.T) {
	s := sched.New(&fake.Backend{}, 1, zap.NewNop())
	s.Drain()
	s.Shutdown()

	require.False(t, s.Enqueue(newDesc(api.OpWrite, func(int, []byte, net.Addr) {})))
	require.False(t, s.Enqueue(&api.Descriptor{
		Kind: api.OpTimeout,
		Dur:  time.Millisecond,
		Done: func(int, []byte, net.Addr) {},
	}))
	require.Zero(t, s.Pending())
}

func TestSchedulerConcurrentSubmitters(t *testing.T) {
	s := sched.New(&fake.Backend{}, 4, zap.NewNop())
	s.Resume()

	const goroutines = 8
	const perG = 50
	var fired atomic.Int32
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for g := 0; g < goroutines; g++ {
		go func() {
			defer wg.Done()
			for i := 0; i < perG; i++ {
				s.Enqueue(newDesc(api.OpWrite, func(int, []byte, net.Addr) {
					fired.Add(1)
				}))
			}
		}()
	}
	wg.Wait()
	s.Drain()
	require.Equal(t, int32(goroutines*perG), fired.Load())
	s.Shutdown()
}

func TestSchedulerBackendPanicStillCompletes(t *testing.T) {
	b := &fake.Backend{Result: func(d *api.Descriptor) (int, net.Addr) {
		panic("backend blew up")
	}}
	s := sched.New(b, 1, zap.NewNop())
	s.Resume()

	done := make(chan int, 1)
	require.True(t, s.Enqueue(newDesc(api.OpWrite, func(result int, _ []byte, _ net.Addr) {
		done <- result
	})))
	select {
	case result := <-done:
		require.Equal(t, api.CodeInternal, result)
	case <-time.After(2 * time.Second):
		t.Fatal("panicking backend stranded the descriptor")
	}
	s.Drain()
	s.Shutdown()
}

func TestShutdownAbortsArmedTimer(t *testing.T) {
	s := sched.New(&fake.Backend{}, 1, zap.NewNop())
	s.Resume()
	s.Drain()

	// Accepted after the drain wait, still armed when shutdown begins.
	done := make(chan int, 1)
	require.True(t, s.Enqueue(&api.Descriptor{
		Kind: api.OpTimeout,
		Dur:  time.Minute,
		Done: func(result int, _ []byte, _ net.Addr) { done <- result },
	}))
	s.Shutdown()

	select {
	case result := <-done:
		require.Equal(t, api.CodeNotRunning, result)
	case <-time.After(2 * time.Second):
		t.Fatal("armed timer stranded its callback across shutdown")
	}
	require.Zero(t, s.Pending())
}

func TestSchedulerRecyclesLentBuffers(t *testing.T) {
	recycled := make(chan []byte, 1)
	s := sched.New(&fake.Backend{}, 1, zap.NewNop())
	s.Resume()

	buf := make([]byte, 8)
	d := &api.Descriptor{
		Kind:    api.OpRead,
		FD:      1,
		Buf:     buf,
		Done:    func(int, []byte, net.Addr) {},
		Recycle: func(b []byte) { recycled <- b },
	}
	require.True(t, s.Enqueue(d))

	select {
	case got := <-recycled:
		require.Same(t, &buf[0], &got[0])
	case <-time.After(2 * time.Second):
		t.Fatal("lent buffer never recycled")
	}
	s.Drain()
	s.Shutdown()
}
