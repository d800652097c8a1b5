// File: api/errors.go
// License: Apache-2.0
//
// Common error values for lifecycle entry points.

package api

import "errors"

var (
	// ErrAlreadyInit is returned by TryInit when an engine already exists.
	ErrAlreadyInit = errors.New("engine already initialised")

	// ErrNotRunning is returned by lifecycle calls that require a running
	// or stopped engine.
	ErrNotRunning = errors.New("engine is not running")

	// ErrExited is returned by lifecycle calls made after Exit completed.
	ErrExited = errors.New("engine has exited")

	// ErrDraining is returned by Exit while another Exit is in progress.
	ErrDraining = errors.New("engine is draining")

	// ErrInvalidConfig is returned by New for unusable options.
	ErrInvalidConfig = errors.New("invalid engine configuration")
)
