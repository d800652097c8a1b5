// File: internal/backend/backend_unix.go
//go:build unix

// License: Apache-2.0
//
// Blocking-syscall backend. Each Perform call runs one syscall to a
// terminal result on the calling scheduler worker. EINTR is retried here
// per platform convention and never surfaced; every other errno goes to
// the callback verbatim, negated. Short reads and writes are success.

package backend

import (
	"net"
	"syscall"

	"golang.org/x/sys/unix"

	"github.com/liolab/lio/api"
)

// AtFDCWD is the directory handle meaning "relative to the current working
// directory" for Link and Symlink.
const AtFDCWD = unix.AT_FDCWD

// Syscall is the default engine backend.
type Syscall struct{}

// New returns the blocking-syscall backend.
func New() *Syscall { return &Syscall{} }

func (*Syscall) Name() string { return "syscall" }

// Perform executes d and returns the signed result code plus, for accept,
// the peer address copy.
func (b *Syscall) Perform(d *api.Descriptor) (int, net.Addr) {
	switch d.Kind {
	case api.OpRead:
		return result(eintr(func() (int, error) {
			if d.Off >= 0 {
				return unix.Pread(d.FD, d.Buf, d.Off)
			}
			return unix.Read(d.FD, d.Buf)
		})), nil
	case api.OpWrite:
		return result(eintr(func() (int, error) {
			if d.Off >= 0 {
				return unix.Pwrite(d.FD, d.Buf, d.Off)
			}
			return unix.Write(d.FD, d.Buf)
		})), nil
	case api.OpSend:
		return result(eintr(func() (int, error) {
			return unix.SendmsgN(d.FD, d.Buf, nil, nil, d.Flags)
		})), nil
	case api.OpRecv:
		return result(eintr(func() (int, error) {
			n, _, err := unix.Recvfrom(d.FD, d.Buf, d.Flags)
			return n, err
		})), nil
	case api.OpAccept:
		return b.accept(d)
	case api.OpSocket:
		fd, err := unix.Socket(d.Domain, d.SockType, d.Proto)
		return result(fd, err), nil
	case api.OpBind:
		sa, err := toSockaddr(d.Addr)
		if err != nil {
			return code(err), nil
		}
		return result(0, unix.Bind(d.FD, sa)), nil
	case api.OpListen:
		return result(0, unix.Listen(d.FD, d.Backlog)), nil
	case api.OpShutdown:
		return result(0, unix.Shutdown(d.FD, d.How)), nil
	case api.OpClose:
		// close(2) is never retried on EINTR; the fd state is
		// unspecified and a retry could close a reused descriptor.
		return result(0, unix.Close(d.FD)), nil
	case api.OpFsync:
		return result(eintr(func() (int, error) {
			return 0, unix.Fsync(d.FD)
		})), nil
	case api.OpTruncate:
		return result(0, unix.Ftruncate(d.FD, d.Length)), nil
	case api.OpLink:
		return result(0, unix.Linkat(d.OldDirFD, d.OldPath, d.NewDirFD, d.NewPath, 0)), nil
	case api.OpSymlink:
		return result(0, unix.Symlinkat(d.OldPath, d.NewDirFD, d.NewPath)), nil
	default:
		return -int(syscall.ENOSYS), nil
	}
}

func (b *Syscall) accept(d *api.Descriptor) (int, net.Addr) {
	for {
		nfd, sa, err := unix.Accept(d.FD)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return code(err), nil
		}
		return nfd, fromSockaddr(sa)
	}
}

// eintr retries fn until it returns anything but EINTR.
func eintr(fn func() (int, error)) (int, error) {
	for {
		n, err := fn()
		if err == unix.EINTR {
			continue
		}
		return n, err
	}
}
