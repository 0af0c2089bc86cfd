// Package paged writes byte buffers to a page-oriented serial memory.
//
// A write is split into chunks that never cross a page boundary: a partial
// first chunk when the start address is not page aligned, then full pages,
// then a partial tail. Each chunk is issued as one bus command. A command
// rejected with transport.ErrWouldBlock is retried according to the
// configured retry.Policy, and every successful chunk is followed by the
// device's settle time before the next command is issued.
//
// Chunks are written in strictly increasing address order. There is no
// rollback: when a write fails, the bytes before WriteError.Offset have
// been persisted and the rest have not.
package paged
