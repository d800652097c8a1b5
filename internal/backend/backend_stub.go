// File: internal/backend/backend_stub.go
//go:build !unix

// License: Apache-2.0
//
// Non-unix stub. Every operation completes with -ENOSYS; the engine's
// lifecycle, scheduling and dispatch behave normally.

package backend

import (
	"net"
	"syscall"

	"github.com/liolab/lio/api"
)

// AtFDCWD mirrors the unix constant for API compatibility.
const AtFDCWD = -100

// Syscall is the default engine backend.
type Syscall struct{}

// New returns the stub backend.
func New() *Syscall { return &Syscall{} }

func (*Syscall) Name() string { return "stub" }

func (*Syscall) Perform(d *api.Descriptor) (int, net.Addr) {
	return -int(syscall.ENOSYS), nil
}
