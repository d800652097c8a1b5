// File: api/ops.go
// Package api defines the public contracts of the lio engine.
// License: Apache-2.0

package api

// OpKind identifies the unit of work a descriptor represents.
type OpKind int

const (
	OpRead OpKind = iota
	OpWrite
	OpSend
	OpRecv
	OpAccept
	OpBind
	OpListen
	OpSocket
	OpShutdown
	OpClose
	OpFsync
	OpTruncate
	OpLink
	OpSymlink
	OpTimeout
)

var opNames = [...]string{
	OpRead:     "read",
	OpWrite:    "write",
	OpSend:     "send",
	OpRecv:     "recv",
	OpAccept:   "accept",
	OpBind:     "bind",
	OpListen:   "listen",
	OpSocket:   "socket",
	OpShutdown: "shutdown",
	OpClose:    "close",
	OpFsync:    "fsync",
	OpTruncate: "truncate",
	OpLink:     "link",
	OpSymlink:  "symlink",
	OpTimeout:  "timeout",
}

func (k OpKind) String() string {
	if k < 0 || int(k) >= len(opNames) {
		return "unknown"
	}
	return opNames[k]
}

// HasBuffer reports whether the kind carries a caller-owned buffer whose
// ownership transfers through the engine.
func (k OpKind) HasBuffer() bool {
	switch k {
	case OpRead, OpWrite, OpSend, OpRecv:
		return true
	}
	return false
}
