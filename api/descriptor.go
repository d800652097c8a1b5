// File: api/descriptor.go
// License: Apache-2.0
//
// Operation descriptor: one requested unit of work and its completion state.

package api

import (
	"net"
	"sync/atomic"
	"time"
)

// OpState tracks a descriptor's progress. Transitions are monotonic:
// Submitted -> InFlight -> Completed, each taken exactly once, and only the
// scheduler and the completion dispatcher advance them.
type OpState int32

const (
	StateSubmitted OpState = iota
	StateInFlight
	StateCompleted
)

// DoneFunc is the internal completion hook stored on a descriptor. It
// receives the signed result code, the original buffer (ownership moves to
// the callee) and, for accept, the peer address. Invoked exactly once.
type DoneFunc func(result int, buf []byte, peer net.Addr)

// Descriptor represents one submitted operation. All fields except the
// state are immutable after construction; the engine populates only the
// fields its kind needs.
//
// For buffer-carrying kinds, Buf is owned by the descriptor from submission
// until the completion callback receives it back. No other component may
// read, write or recycle it in between.
type Descriptor struct {
	ID   uint64
	Kind OpKind

	// FD is the target handle. Unused for OpSocket and OpTimeout.
	FD int

	// Buf is present for OpRead, OpWrite, OpSend, OpRecv.
	Buf []byte

	// Off is the file offset for OpRead/OpWrite; -1 means the current
	// file position.
	Off int64

	// Flags carries send/recv flags.
	Flags int

	// Socket creation parameters (OpSocket).
	Domain   int
	SockType int
	Proto    int

	// Backlog for OpListen, How for OpShutdown, Length for OpTruncate.
	Backlog int
	How     int
	Length  int64

	// Addr is the local address for OpBind.
	Addr net.Addr

	// Path pair for OpLink and OpSymlink, each relative to its directory
	// handle. For OpSymlink, OldPath holds the link target.
	OldDirFD int
	OldPath  string
	NewDirFD int
	NewPath  string

	// Dur is the duration for OpTimeout.
	Dur time.Duration

	// Done delivers the terminal result. Set once by the submission
	// interface, called once by the completion dispatcher.
	Done DoneFunc

	// Recycle, when non-nil, returns an engine-lent buffer to its pool
	// after Done has run. The callback must not retain Buf in that case.
	Recycle func([]byte)

	state atomic.Int32
}

// State returns the descriptor's current progress state.
func (d *Descriptor) State() OpState {
	return OpState(d.state.Load())
}

// Advance moves the state from one stage to the next. It returns false if
// another party already moved it, which makes double dispatch impossible.
// Scheduler and dispatcher use only; callers must never touch it.
func (d *Descriptor) Advance(from, to OpState) bool {
	return d.state.CompareAndSwap(int32(from), int32(to))
}

// Backend executes descriptors to a terminal result. The shipped backend
// runs blocking syscalls on scheduler workers; tests substitute in-memory
// fakes. OpTimeout descriptors never reach a backend, the scheduler's timer
// queue owns them.
type Backend interface {
	// Name identifies the backend in logs.
	Name() string

	// Perform runs d to completion and returns the signed result code
	// (byte count, new handle or zero on success, negated errno on
	// failure) plus the peer address for OpAccept. Perform must not
	// retain d.Buf past its return.
	Perform(d *Descriptor) (result int, peer net.Addr)
}
