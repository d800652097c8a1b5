// File: internal/backend/errno.go
// Package backend executes descriptors with blocking syscalls.
// License: Apache-2.0

package backend

import (
	"errors"
	"syscall"
)

// code maps a syscall error to the engine's signed result convention:
// always the negated platform errno, -EIO when the error carries none.
func code(err error) int {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return -int(errno)
	}
	return -int(syscall.EIO)
}

// result folds (n, err) into a single signed code.
func result(n int, err error) int {
	if err != nil {
		return code(err)
	}
	return n
}
