// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ra

import "github.com/gogpu/ra/ra/backend"

// Device is the single public entry point into the Rendering
// Abstraction: a validated wrapper over a concrete [backend.Backend]
// and the [backend.Limits] it advertised at construction.
type Device struct {
	impl   backend.Backend
	limits backend.Limits
}

// NewDevice wraps impl with the validation layer. limits is captured by
// value and treated as immutable for the device's lifetime.
func NewDevice(impl backend.Backend, limits backend.Limits) *Device {
	return &Device{impl: impl, limits: limits}
}

// Limits returns the device's capability block.
func (d *Device) Limits() backend.Limits { return d.limits }

// Destroy releases the underlying backend. No other Device method may
// be called afterward.
func (d *Device) Destroy() {
	d.impl.Destroy()
}

// Flush asks the backend to submit any deferred work. Backends with no
// submission queue treat this as a no-op.
func (d *Device) Flush() {
	d.impl.Flush()
}
