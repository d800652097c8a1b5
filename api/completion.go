// File: api/completion.go
// License: Apache-2.0
//
// Completion callback types and result-code helpers.

package api

import (
	"net"
	"syscall"
)

// Result codes are signed: a non-negative value is the operation's success
// result (byte count, new handle, or zero), a negative value is the negated
// platform errno.

// Completion receives the result of an operation without a buffer.
//
// Callbacks run on an internal engine goroutine, never on the submitting
// goroutine, and are invoked exactly once per submission.
type Completion func(result int)

// BufCompletion receives the result of a buffer-carrying operation together
// with the original buffer, whose ownership returns to the callee. For
// reads and receives the valid byte count is result, not len(buf).
type BufCompletion func(result int, buf []byte)

// AcceptCompletion receives the accepted connection handle and a copy of
// the peer address. peer is nil when result is negative.
type AcceptCompletion func(result int, peer net.Addr)

// Distinguished result codes delivered by the engine itself rather than the
// backend.
const (
	// CodeNotRunning reports a submission made while the engine is not
	// accepting operations.
	CodeNotRunning = -int(syscall.ECANCELED)

	// CodeInvalid reports a submission rejected during validation.
	CodeInvalid = -int(syscall.EINVAL)

	// CodeBadHandle reports a submission with a negative handle.
	CodeBadHandle = -int(syscall.EBADF)

	// CodeInternal reports an engine-internal failure while executing an
	// otherwise valid operation.
	CodeInternal = -int(syscall.EIO)
)

// ResultErrno converts a negative result code back to the platform errno.
// It returns 0 for non-negative results.
func ResultErrno(result int) syscall.Errno {
	if result >= 0 {
		return 0
	}
	return syscall.Errno(-result)
}
