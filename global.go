// File: global.go
// License: Apache-2.0
//
// Package-level default engine. Init/TryInit/Start/Stop/Exit and the
// operation functions mirror the Engine methods on one shared instance,
// for callers that want the drop-in surface instead of wiring their own.

package lio

import (
	"net"
	"sync"
	"time"

	"github.com/liolab/lio/api"
)

var (
	defaultMu  sync.Mutex
	defaultEng *Engine
)

// Init creates the default engine if none exists. Idempotent: repeated
// calls while an engine is live are no-ops. An engine that has Exited is
// replaced; nothing reinitialises implicitly on submission.
func Init(opts ...Option) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultEng != nil && defaultEng.State() != StateExited {
		return nil
	}
	eng, err := New(opts...)
	if err != nil {
		return err
	}
	defaultEng = eng
	return nil
}

// TryInit creates the default engine, reporting api.ErrAlreadyInit if a
// live one exists instead of succeeding silently.
func TryInit(opts ...Option) error {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultEng != nil && defaultEng.State() != StateExited {
		return api.ErrAlreadyInit
	}
	eng, err := New(opts...)
	if err != nil {
		return err
	}
	defaultEng = eng
	return nil
}

// Default returns the default engine, or nil before Init.
func Default() *Engine {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	return defaultEng
}

// Start starts the default engine.
func Start() error {
	if e := Default(); e != nil {
		return e.Start()
	}
	return api.ErrNotRunning
}

// Stop stops the default engine; a no-op before Init.
func Stop() {
	if e := Default(); e != nil {
		e.Stop()
	}
}

// Exit drains the default engine and blocks until every pending
// operation's callback has returned.
func Exit() error {
	if e := Default(); e != nil {
		return e.Exit()
	}
	return api.ErrNotRunning
}

// failFast delivers a not-running rejection for submissions made before
// Init, asynchronously like every other rejection.
func failFast(done api.DoneFunc, buf []byte) {
	go done(api.CodeNotRunning, buf, nil)
}

// Write submits on the default engine; see Engine.Write.
func Write(fd int, buf []byte, off int64, cb api.BufCompletion) {
	if e := Default(); e != nil {
		e.Write(fd, buf, off, cb)
		return
	}
	failFast(bufDone(cb), buf)
}

// Read submits on the default engine; see Engine.Read.
func Read(fd int, buf []byte, off int64, cb api.BufCompletion) {
	if e := Default(); e != nil {
		e.Read(fd, buf, off, cb)
		return
	}
	failFast(bufDone(cb), buf)
}

// Send submits on the default engine; see Engine.Send.
func Send(fd int, buf []byte, flags int, cb api.BufCompletion) {
	if e := Default(); e != nil {
		e.Send(fd, buf, flags, cb)
		return
	}
	failFast(bufDone(cb), buf)
}

// Recv submits on the default engine; see Engine.Recv.
func Recv(fd int, buf []byte, flags int, cb api.BufCompletion) {
	if e := Default(); e != nil {
		e.Recv(fd, buf, flags, cb)
		return
	}
	failFast(bufDone(cb), buf)
}

// Accept submits on the default engine; see Engine.Accept.
func Accept(fd int, cb api.AcceptCompletion) {
	if e := Default(); e != nil {
		e.Accept(fd, cb)
		return
	}
	if cb == nil {
		panic("lio: nil completion callback")
	}
	go cb(api.CodeNotRunning, nil)
}

// Socket submits on the default engine; see Engine.Socket.
func Socket(domain, sockType, proto int, cb api.Completion) {
	if e := Default(); e != nil {
		e.Socket(domain, sockType, proto, cb)
		return
	}
	failFast(plainDone(cb), nil)
}

// Bind submits on the default engine; see Engine.Bind.
func Bind(fd int, addr net.Addr, cb api.Completion) {
	if e := Default(); e != nil {
		e.Bind(fd, addr, cb)
		return
	}
	failFast(plainDone(cb), nil)
}

// Listen submits on the default engine; see Engine.Listen.
func Listen(fd, backlog int, cb api.Completion) {
	if e := Default(); e != nil {
		e.Listen(fd, backlog, cb)
		return
	}
	failFast(plainDone(cb), nil)
}

// Shutdown submits on the default engine; see Engine.Shutdown.
func Shutdown(fd, how int, cb api.Completion) {
	if e := Default(); e != nil {
		e.Shutdown(fd, how, cb)
		return
	}
	failFast(plainDone(cb), nil)
}

// Close submits on the default engine; see Engine.Close.
func Close(fd int, cb api.Completion) {
	if e := Default(); e != nil {
		e.Close(fd, cb)
		return
	}
	failFast(plainDone(cb), nil)
}

// Fsync submits on the default engine; see Engine.Fsync.
func Fsync(fd int, cb api.Completion) {
	if e := Default(); e != nil {
		e.Fsync(fd, cb)
		return
	}
	failFast(plainDone(cb), nil)
}

// Truncate submits on the default engine; see Engine.Truncate.
func Truncate(fd int, length int64, cb api.Completion) {
	if e := Default(); e != nil {
		e.Truncate(fd, length, cb)
		return
	}
	failFast(plainDone(cb), nil)
}

// Link submits on the default engine; see Engine.Link.
func Link(oldDirFD int, oldPath string, newDirFD int, newPath string, cb api.Completion) {
	if e := Default(); e != nil {
		e.Link(oldDirFD, oldPath, newDirFD, newPath, cb)
		return
	}
	failFast(plainDone(cb), nil)
}

// Symlink submits on the default engine; see Engine.Symlink.
func Symlink(target string, newDirFD int, linkPath string, cb api.Completion) {
	if e := Default(); e != nil {
		e.Symlink(target, newDirFD, linkPath, cb)
		return
	}
	failFast(plainDone(cb), nil)
}

// Timeout submits on the default engine; see Engine.Timeout.
func Timeout(dur time.Duration, cb api.Completion) {
	if e := Default(); e != nil {
		e.Timeout(dur, cb)
		return
	}
	failFast(plainDone(cb), nil)
}
