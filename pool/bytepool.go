// File: pool/bytepool.go
// Package pool provides buffer pooling for engine-lent reads.
// License: Apache-2.0

package pool

import (
	"sync"
	"sync/atomic"
)

// BytePool hands out fixed-size buffers for operations where the engine
// lends the buffer instead of the caller supplying one. Ownership of a
// lent buffer follows the usual transfer rules; the dispatcher returns it
// here after the completion callback runs.
type BytePool struct {
	size  int
	pool  sync.Pool
	alloc atomic.Int64
	reuse atomic.Int64
	inUse atomic.Int64
}

// Stats aggregates pool accounting counters.
type Stats struct {
	Allocated int64
	Reused    int64
	InUse     int64
}

// NewBytePool creates a pool of size-byte buffers.
func NewBytePool(size int) *BytePool {
	b := &BytePool{size: size}
	b.pool.New = func() any {
		b.alloc.Add(1)
		return make([]byte, size)
	}
	return b
}

// Get returns a buffer of the pool's fixed size.
func (b *BytePool) Get() []byte {
	buf := b.pool.Get().([]byte)
	b.inUse.Add(1)
	return buf
}

// Put returns a buffer to the pool. Buffers of the wrong capacity are
// dropped for the GC.
func (b *BytePool) Put(buf []byte) {
	b.inUse.Add(-1)
	if cap(buf) != b.size {
		return
	}
	b.reuse.Add(1)
	b.pool.Put(buf[:b.size])
}

// BufSize reports the fixed buffer size.
func (b *BytePool) BufSize() int { return b.size }

// Stats exposes accounting counters for observability.
func (b *BytePool) Stats() Stats {
	return Stats{
		Allocated: b.alloc.Load(),
		Reused:    b.reuse.Load(),
		InUse:     b.inUse.Load(),
	}
}
