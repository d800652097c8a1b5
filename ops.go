// File: ops.go
// License: Apache-2.0
//
// Submission interface: validate, build the descriptor, enqueue, return.
// Every entry point is non-blocking and safe for concurrent use. Rejected
// submissions deliver their callback asynchronously on a fresh goroutine,
// never inline, with buffer ownership returned untouched.

package lio

import (
	"net"
	"time"

	"go.uber.org/zap"

	"github.com/liolab/lio/api"
	"github.com/liolab/lio/internal/backend"
)

// AtFDCWD is the directory handle meaning "relative to the current working
// directory" for Link and Symlink.
const AtFDCWD = backend.AtFDCWD

// submit enqueues a validated descriptor, or rejects it asynchronously
// when the engine is not accepting operations. Submission is accepted
// while Running and while Stopped; work submitted while Stopped stays
// parked until Start or Exit.
func (e *Engine) submit(d *api.Descriptor) {
	switch e.State() {
	case StateRunning, StateStopped:
	default:
		e.reject(d, api.CodeNotRunning)
		return
	}
	if !e.sched.Enqueue(d) {
		// Lost the race against Exit's teardown.
		e.reject(d, api.CodeNotRunning)
	}
}

// reject fails a submission without entering the scheduler. The callback
// still runs off the submitting goroutine, exactly once, carrying the
// original buffer back to the caller.
func (e *Engine) reject(d *api.Descriptor, code int) {
	e.log.Debug("submission rejected",
		zap.Stringer("kind", d.Kind),
		zap.Int("code", code))
	go func() {
		defer func() {
			if d.Recycle != nil {
				d.Recycle(d.Buf)
			}
		}()
		d.Done(code, d.Buf, nil)
	}()
}

// validateBuf applies the shared handle/buffer checks for buffer-carrying
// kinds. It reports the rejection code, or 0 to proceed.
func validateBuf(fd int, buf []byte) int {
	if fd < 0 {
		return api.CodeBadHandle
	}
	if buf == nil {
		return api.CodeInvalid
	}
	return 0
}

func bufDone(cb api.BufCompletion) api.DoneFunc {
	if cb == nil {
		panic("lio: nil completion callback")
	}
	return func(result int, buf []byte, _ net.Addr) { cb(result, buf) }
}

func plainDone(cb api.Completion) api.DoneFunc {
	if cb == nil {
		panic("lio: nil completion callback")
	}
	return func(result int, _ []byte, _ net.Addr) { cb(result) }
}

// Write writes buf to handle fd. Offset >= 0 writes at that position
// without moving the file cursor; offset -1 writes at the current
// position. Ownership of buf transfers to the engine until the callback
// receives it back; the result is the literal byte count, and a short
// write is success.
func (e *Engine) Write(fd int, buf []byte, off int64, cb api.BufCompletion) {
	d := &api.Descriptor{Kind: api.OpWrite, FD: fd, Buf: buf, Off: off, Done: bufDone(cb)}
	if code := validateBuf(fd, buf); code != 0 {
		e.reject(d, code)
		return
	}
	e.submit(d)
}

// Read reads from handle fd into buf. See Write for offset semantics and
// ownership. The valid byte count is the result, not len(buf); 0 means
// end of file.
func (e *Engine) Read(fd int, buf []byte, off int64, cb api.BufCompletion) {
	d := &api.Descriptor{Kind: api.OpRead, FD: fd, Buf: buf, Off: off, Done: bufDone(cb)}
	if code := validateBuf(fd, buf); code != 0 {
		e.reject(d, code)
		return
	}
	e.submit(d)
}

// ReadLent is Read with a buffer lent from the engine's pool. The buffer
// is only valid for the duration of the callback and must not be
// retained; it returns to the pool when the callback returns.
func (e *Engine) ReadLent(fd int, off int64, cb api.BufCompletion) {
	d := &api.Descriptor{
		Kind:    api.OpRead,
		FD:      fd,
		Buf:     e.lend.Get(),
		Off:     off,
		Done:    bufDone(cb),
		Recycle: e.lend.Put,
	}
	if fd < 0 {
		e.reject(d, api.CodeBadHandle)
		return
	}
	e.submit(d)
}

// Send sends buf on socket fd with the given send flags. Ownership
// follows the Write contract.
func (e *Engine) Send(fd int, buf []byte, flags int, cb api.BufCompletion) {
	d := &api.Descriptor{Kind: api.OpSend, FD: fd, Buf: buf, Flags: flags, Done: bufDone(cb)}
	if code := validateBuf(fd, buf); code != 0 {
		e.reject(d, code)
		return
	}
	e.submit(d)
}

// Recv receives from socket fd into buf with the given recv flags.
// Ownership follows the Read contract.
func (e *Engine) Recv(fd int, buf []byte, flags int, cb api.BufCompletion) {
	d := &api.Descriptor{Kind: api.OpRecv, FD: fd, Buf: buf, Flags: flags, Done: bufDone(cb)}
	if code := validateBuf(fd, buf); code != 0 {
		e.reject(d, code)
		return
	}
	e.submit(d)
}

// RecvLent is Recv with an engine-lent buffer; see ReadLent.
func (e *Engine) RecvLent(fd int, flags int, cb api.BufCompletion) {
	d := &api.Descriptor{
		Kind:    api.OpRecv,
		FD:      fd,
		Buf:     e.lend.Get(),
		Flags:   flags,
		Done:    bufDone(cb),
		Recycle: e.lend.Put,
	}
	if fd < 0 {
		e.reject(d, api.CodeBadHandle)
		return
	}
	e.submit(d)
}

// Accept accepts a connection on listening socket fd. On success the
// callback receives the new handle and a caller-owned copy of the peer
// address; on error the address is nil.
func (e *Engine) Accept(fd int, cb api.AcceptCompletion) {
	if cb == nil {
		panic("lio: nil completion callback")
	}
	d := &api.Descriptor{
		Kind: api.OpAccept,
		FD:   fd,
		Done: func(result int, _ []byte, peer net.Addr) { cb(result, peer) },
	}
	if fd < 0 {
		e.reject(d, api.CodeBadHandle)
		return
	}
	e.submit(d)
}

// Socket creates a socket; the result is the new handle.
func (e *Engine) Socket(domain, sockType, proto int, cb api.Completion) {
	e.submit(&api.Descriptor{
		Kind:     api.OpSocket,
		Domain:   domain,
		SockType: sockType,
		Proto:    proto,
		Done:     plainDone(cb),
	})
}

// Bind binds socket fd to addr. TCP, UDP and unix-domain addresses are
// supported.
func (e *Engine) Bind(fd int, addr net.Addr, cb api.Completion) {
	d := &api.Descriptor{Kind: api.OpBind, FD: fd, Addr: addr, Done: plainDone(cb)}
	if fd < 0 {
		e.reject(d, api.CodeBadHandle)
		return
	}
	if addr == nil {
		e.reject(d, api.CodeInvalid)
		return
	}
	e.submit(d)
}

// Listen marks socket fd as listening with the given backlog.
func (e *Engine) Listen(fd, backlog int, cb api.Completion) {
	d := &api.Descriptor{Kind: api.OpListen, FD: fd, Backlog: backlog, Done: plainDone(cb)}
	if fd < 0 {
		e.reject(d, api.CodeBadHandle)
		return
	}
	e.submit(d)
}

// Shutdown shuts down the read half, write half or both halves of the
// connection on fd (how follows shutdown(2)).
func (e *Engine) Shutdown(fd, how int, cb api.Completion) {
	d := &api.Descriptor{Kind: api.OpShutdown, FD: fd, How: how, Done: plainDone(cb)}
	if fd < 0 {
		e.reject(d, api.CodeBadHandle)
		return
	}
	e.submit(d)
}

// Close closes handle fd. Interaction with operations still in flight on
// the same handle is backend-defined and not atomic.
func (e *Engine) Close(fd int, cb api.Completion) {
	d := &api.Descriptor{Kind: api.OpClose, FD: fd, Done: plainDone(cb)}
	if fd < 0 {
		e.reject(d, api.CodeBadHandle)
		return
	}
	e.submit(d)
}

// Fsync flushes handle fd's in-core state to storage.
func (e *Engine) Fsync(fd int, cb api.Completion) {
	d := &api.Descriptor{Kind: api.OpFsync, FD: fd, Done: plainDone(cb)}
	if fd < 0 {
		e.reject(d, api.CodeBadHandle)
		return
	}
	e.submit(d)
}

// Truncate truncates handle fd to length bytes.
func (e *Engine) Truncate(fd int, length int64, cb api.Completion) {
	d := &api.Descriptor{Kind: api.OpTruncate, FD: fd, Length: length, Done: plainDone(cb)}
	if fd < 0 {
		e.reject(d, api.CodeBadHandle)
		return
	}
	if length < 0 {
		e.reject(d, api.CodeInvalid)
		return
	}
	e.submit(d)
}

// Link creates a hard link to oldPath (relative to oldDirFD) at newPath
// (relative to newDirFD). Pass AtFDCWD for paths relative to the current
// working directory.
func (e *Engine) Link(oldDirFD int, oldPath string, newDirFD int, newPath string, cb api.Completion) {
	d := &api.Descriptor{
		Kind:     api.OpLink,
		OldDirFD: oldDirFD,
		OldPath:  oldPath,
		NewDirFD: newDirFD,
		NewPath:  newPath,
		Done:     plainDone(cb),
	}
	if oldPath == "" || newPath == "" {
		e.reject(d, api.CodeInvalid)
		return
	}
	e.submit(d)
}

// Symlink creates a symbolic link to target at linkPath, relative to
// newDirFD.
func (e *Engine) Symlink(target string, newDirFD int, linkPath string, cb api.Completion) {
	d := &api.Descriptor{
		Kind:     api.OpSymlink,
		OldPath:  target,
		NewDirFD: newDirFD,
		NewPath:  linkPath,
		Done:     plainDone(cb),
	}
	if target == "" || linkPath == "" {
		e.reject(d, api.CodeInvalid)
		return
	}
	e.submit(d)
}

// Timeout fires the callback with result 0 no earlier than dur from now.
// Timers are unaffected by Stop; Exit waits for armed timers to fire.
func (e *Engine) Timeout(dur time.Duration, cb api.Completion) {
	d := &api.Descriptor{Kind: api.OpTimeout, Dur: dur, Done: plainDone(cb)}
	if dur < 0 {
		e.reject(d, api.CodeInvalid)
		return
	}
	e.submit(d)
}
