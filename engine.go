// File: engine.go
// License: Apache-2.0
//
// Engine lifecycle: the state machine controlling whether submission is
// accepted and whether scheduler workers are running.

package lio

import (
	"fmt"
	"io"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/liolab/lio/api"
	"github.com/liolab/lio/internal/sched"
	"github.com/liolab/lio/pool"
)

// State is the engine lifecycle state.
type State int32

const (
	// StateUninitialized is the zero value; only an Engine built by New
	// ever leaves it.
	StateUninitialized State = iota
	StateStopped
	StateRunning
	StateDraining
	StateExited
)

var stateNames = [...]string{
	StateUninitialized: "uninitialized",
	StateStopped:       "stopped",
	StateRunning:       "running",
	StateDraining:      "draining",
	StateExited:        "exited",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Engine executes submitted operations and delivers their completions.
// Engines are safe for concurrent use by any number of goroutines. The
// zero value is unusable; construct with New.
type Engine struct {
	id      string
	log     *zap.Logger
	sched   *sched.Scheduler
	backend api.Backend
	lend    *pool.BytePool

	mu    sync.Mutex // serialises lifecycle transitions
	state atomic.Int32
}

// New constructs an engine in the Stopped state. Scheduler goroutines
// exist from this point but stay parked until Start. Construction is the
// only place engine-fatal conditions surface; steady-state submission
// never fails synchronously.
func New(opts ...Option) (*Engine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("lio: %w", err)
	}
	e := &Engine{
		id:      uuid.NewString(),
		log:     cfg.logger.Named("lio"),
		backend: cfg.backend,
		lend:    pool.NewBytePool(cfg.lendBufSize),
	}
	e.sched = sched.New(cfg.backend, cfg.workers, e.log)
	e.state.Store(int32(StateStopped))
	e.log.Info("engine initialised",
		zap.String("engine", e.id),
		zap.String("backend", cfg.backend.Name()),
		zap.Int("workers", cfg.workers))
	return e, nil
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Pending returns the number of submitted operations whose callbacks have
// not yet returned.
func (e *Engine) Pending() int {
	return e.sched.Pending()
}

// Start moves the engine from Stopped to Running and releases the
// scheduler workers. Idempotent while Running.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.State() {
	case StateRunning:
		return nil
	case StateStopped:
		e.sched.Resume()
		e.state.Store(int32(StateRunning))
		e.log.Info("engine started", zap.String("engine", e.id))
		return nil
	case StateDraining, StateExited:
		return fmt.Errorf("lio: start: %w", api.ErrExited)
	default:
		return fmt.Errorf("lio: start: %w", api.ErrNotRunning)
	}
}

// Stop moves the engine from Running to Stopped. Workers stop pulling new
// backend work after their current operation; queued descriptors stay
// queued and armed timers still fire. Stop never cancels in-flight work.
// Safe to call from any goroutine; a no-op unless Running.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.State() != StateRunning {
		return
	}
	e.sched.Pause()
	e.state.Store(int32(StateStopped))
	e.log.Info("engine stopped", zap.String("engine", e.id))
}

// Exit drains the engine and releases its resources. It blocks until
// every submitted descriptor has completed and its callback has returned,
// then moves to Exited. Queued work parked by Stop is resumed and drained.
// After Exit, submissions fail fast with api.CodeNotRunning.
func (e *Engine) Exit() error {
	e.mu.Lock()
	switch e.State() {
	case StateExited:
		e.mu.Unlock()
		return fmt.Errorf("lio: exit: %w", api.ErrExited)
	case StateDraining:
		e.mu.Unlock()
		return fmt.Errorf("lio: exit: %w", api.ErrDraining)
	case StateUninitialized:
		e.mu.Unlock()
		return fmt.Errorf("lio: exit: %w", api.ErrNotRunning)
	}
	e.state.Store(int32(StateDraining))
	e.mu.Unlock()

	e.log.Info("engine draining",
		zap.String("engine", e.id),
		zap.Int("pending", e.sched.Pending()))
	e.sched.Drain()
	e.sched.Shutdown()

	// Backends holding OS resources release them here.
	var errs error
	if c, ok := e.backend.(io.Closer); ok {
		errs = multierr.Append(errs, c.Close())
	}
	e.state.Store(int32(StateExited))
	e.log.Info("engine exited", zap.String("engine", e.id))
	if errs != nil {
		return fmt.Errorf("lio: exit: %w", errs)
	}
	return nil
}
