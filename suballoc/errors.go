// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package suballoc

import "errors"

// Sentinel errors for the returned, non-fatal conditions an Allocator
// call can surface. A violated precondition (a caller passing a
// malformed MemoryRequirements) is never reported through these;
// suballoc does not check for it.
var (
	// ErrOutOfDeviceMemory is returned when the Driver refuses an
	// allocation or buffer creation, and when growing a heap to
	// satisfy a request would exceed what the Driver can provide.
	ErrOutOfDeviceMemory = errors.New("suballoc: out of device memory")

	// ErrHandleUnsupported is returned by Import and by
	// Allocator.Driver export paths when the requested external
	// memory handle type is not supported for import/export by the
	// underlying Driver.
	ErrHandleUnsupported = errors.New("suballoc: handle type unsupported")
)
