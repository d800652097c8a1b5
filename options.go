// File: options.go
// License: Apache-2.0
//
// Functional options for engine construction.

package lio

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/liolab/lio/api"
	"github.com/liolab/lio/internal/backend"
)

type config struct {
	workers     int
	lendBufSize int
	backend     api.Backend
	logger      *zap.Logger
}

func defaultConfig() config {
	return config{
		workers:     0, // scheduler defaults to NumCPU
		lendBufSize: 64 * 1024,
		backend:     backend.New(),
		logger:      zap.NewNop(),
	}
}

func (c *config) validate() error {
	if c.workers < 0 {
		return fmt.Errorf("%w: workers %d", api.ErrInvalidConfig, c.workers)
	}
	if c.lendBufSize <= 0 {
		return fmt.Errorf("%w: lend buffer size %d", api.ErrInvalidConfig, c.lendBufSize)
	}
	if c.backend == nil {
		return fmt.Errorf("%w: nil backend", api.ErrInvalidConfig)
	}
	if c.logger == nil {
		return fmt.Errorf("%w: nil logger", api.ErrInvalidConfig)
	}
	return nil
}

// Option customises engine construction.
type Option func(*config)

// WithWorkers sets the number of scheduler worker goroutines. Zero means
// one per CPU.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// WithLendBufferSize sets the buffer size used by ReadLent and RecvLent.
func WithLendBufferSize(n int) Option {
	return func(c *config) { c.lendBufSize = n }
}

// WithBackend substitutes the I/O backend. The default runs blocking
// syscalls on the worker pool.
func WithBackend(b api.Backend) Option {
	return func(c *config) { c.backend = b }
}

// WithLogger attaches a structured logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) { c.logger = l }
}
