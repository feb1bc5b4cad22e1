// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ra

import "github.com/gogpu/ra/ra/backend"

// Buffer owns device memory and the parameters it was created with.
type Buffer struct {
	dev       *Device
	handle    backend.BufferHandle
	data      []byte // non-nil iff params.HostMapped
	params    backend.BufferParams
	destroyed bool
}

func (d *Device) bufferLimit(typ backend.BufferType) int {
	switch typ {
	case backend.BufUniform:
		return d.limits.MaxUniformBuffer
	case backend.BufStorage:
		return d.limits.MaxStorageBuffer
	default:
		return d.limits.MaxTransferBuffer
	}
}

// CreateBuffer validates params.Size against the per-type device limit,
// then delegates to the backend. If params.HostMapped, the returned
// Buffer's Data method exposes the backend-provided mapped pointer.
func (d *Device) CreateBuffer(params backend.BufferParams) (*Buffer, error) {
	if limit := d.bufferLimit(params.Type); params.Size > limit {
		fatalf("CreateBuffer", "size %d exceeds device limit %d for this buffer type", params.Size, limit)
	}
	if len(params.InitialData) > params.Size {
		fatalf("CreateBuffer", "initial data of %d bytes exceeds buffer size %d", len(params.InitialData), params.Size)
	}

	mapped, err := d.impl.BufCreate(params)
	if err != nil {
		return nil, err
	}
	if params.HostMapped && mapped.Data == nil {
		fatalf("CreateBuffer", "backend returned a nil mapped pointer for a host_mapped buffer")
	}

	return &Buffer{dev: d, handle: mapped.Handle, data: mapped.Data, params: params}, nil
}

// DestroyBuffer destroys the buffer held by *slot, if any, and nils the
// slot.
func (d *Device) DestroyBuffer(slot **Buffer) {
	b := *slot
	if b == nil || b.destroyed {
		*slot = nil
		return
	}
	b.destroyed = true
	d.impl.BufDestroy(b.handle)
	*slot = nil
}

// Data returns the buffer's mapped host pointer, or nil if it was not
// created with HostMapped.
func (b *Buffer) Data() []byte { return b.data }

// Size returns the buffer's size in bytes.
func (b *Buffer) Size() int { return b.params.Size }

// WriteBuffer requires b to have been created with HostWritable.
func (d *Device) WriteBuffer(b *Buffer, offset int, data []byte) error {
	if !b.params.HostWritable {
		fatalf("WriteBuffer", "buffer was not created with HostWritable")
	}
	if offset < 0 || offset+len(data) > b.params.Size {
		fatalf("WriteBuffer", "write of %d bytes at offset %d exceeds buffer size %d", len(data), offset, b.params.Size)
	}
	return d.impl.BufWrite(b.handle, offset, data)
}

// ReadBuffer requires b to have been created with HostReadable.
func (d *Device) ReadBuffer(b *Buffer, offset int, data []byte) error {
	if !b.params.HostReadable {
		fatalf("ReadBuffer", "buffer was not created with HostReadable")
	}
	if offset < 0 || offset+len(data) > b.params.Size {
		fatalf("ReadBuffer", "read of %d bytes at offset %d exceeds buffer size %d", len(data), offset, b.params.Size)
	}
	return d.impl.BufRead(b.handle, offset, data)
}

// PollBuffer reports whether b is still in flight for a prior transfer.
// A timeout <= 0 polls without waiting; this is the module's only
// exposed suspension point, used by the buffer pool's idle check and
// the upload/download-without-buffer slow path.
func (d *Device) PollBuffer(b *Buffer, timeout int) bool {
	return d.impl.BufPoll(b.handle, timeout)
}
