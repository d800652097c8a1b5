// File: fake/backend.go
// Package fake provides in-memory test doubles for the engine.
// License: Apache-2.0

package fake

import (
	"net"
	"sync/atomic"
	"time"

	"github.com/liolab/lio/api"
)

// Backend completes every descriptor in memory without touching the OS.
// The zero value succeeds immediately: buffer-carrying operations report
// their full buffer length, everything else reports zero.
type Backend struct {
	// Delay, when set, is slept before completing each operation.
	Delay time.Duration

	// Result, when set, overrides the canned result per descriptor.
	Result func(d *api.Descriptor) (int, net.Addr)

	performed atomic.Int64
}

func (b *Backend) Name() string { return "fake" }

func (b *Backend) Perform(d *api.Descriptor) (int, net.Addr) {
	if b.Delay > 0 {
		time.Sleep(b.Delay)
	}
	b.performed.Add(1)
	if b.Result != nil {
		return b.Result(d)
	}
	if d.Kind.HasBuffer() {
		return len(d.Buf), nil
	}
	return 0, nil
}

// Performed reports how many descriptors reached the backend.
func (b *Backend) Performed() int64 {
	return b.performed.Load()
}
