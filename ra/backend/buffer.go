// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package backend

// BufferType selects a buffer's binding class.
type BufferType int

const (
	BufTransfer BufferType = iota
	BufUniform
	BufStorage
)

// BufferParams fully describes a buffer at creation time.
type BufferParams struct {
	Type         BufferType
	Size         int
	HostWritable bool
	HostReadable bool
	HostMapped   bool

	// InitialData, if non-nil, seeds the buffer's contents; len must
	// not exceed Size.
	InitialData []byte
}

// BufferHandle is an opaque backend-owned buffer handle.
type BufferHandle any

// MappedBuffer pairs a BufferHandle with the host pointer the backend
// handed back, when BufferParams.HostMapped was set.
type MappedBuffer struct {
	Handle BufferHandle
	Data   []byte
}
