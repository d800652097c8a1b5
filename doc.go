// File: doc.go
// License: Apache-2.0

// Package lio is an asynchronous I/O execution engine. Callers submit
// file, filesystem-metadata, socket and timer operations; the engine runs
// them off the calling goroutine and invokes a completion callback exactly
// once with the signed result.
//
// # Buffer ownership
//
// Read, Write, Send and Recv transfer buffer ownership:
//
//  1. The caller allocates the buffer.
//  2. Submission moves ownership into the engine. The caller must not
//     read, write or reuse the buffer until the callback fires.
//  3. The callback receives the original buffer back and owns it from
//     that point on.
//
// For reads and receives the valid byte count is the result code, not the
// buffer length; the buffer may be larger than the data returned. Short
// reads and writes are success, reported as the literal count.
//
// # Lifecycle
//
// An Engine moves through Stopped, Running, Draining and Exited:
//
//	eng, err := lio.New()
//	eng.Start()
//	eng.Write(fd, buf, 0, func(result int, buf []byte) { ... })
//	eng.Exit() // blocks until every callback has fired
//
// Exit is the one blocking call in the contract: it returns only once the
// pending-operation count reaches zero. Submissions made while the engine
// is not accepting work fail fast: the callback runs asynchronously with
// lio/api.CodeNotRunning and, for buffer-carrying operations, the
// original buffer unchanged.
//
// The package-level functions mirror the Engine methods on one default
// engine, initialised with Init or TryInit.
//
// # Ordering
//
// Operations on different handles are unordered relative to each other.
// Operations on the same handle are not guaranteed to complete in
// submission order either: workers pull from a shared queue, so two
// operations on one handle may complete in any order.
package lio
