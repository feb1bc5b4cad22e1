// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ra

import "github.com/gogpu/ra/ra/backend"

// BufferPool is a ring of reusable transfer buffers keyed by a
// compatible set of parameters, used for pixel-buffer-object style
// texture transfers.
type BufferPool struct {
	dev     *Device
	current backend.BufferParams
	buffers []*Buffer
	cursor  int
}

// bufParamsCompatible reports whether requesting params against a pool
// currently holding buffers built from old would be satisfied by the
// existing buffers: everything but size must match exactly, and the
// request must fit within (not exceed) the existing size, since
// buffers are never shrunk.
func bufParamsCompatible(params, old backend.BufferParams) bool {
	return params.Type == old.Type &&
		params.Size <= old.Size &&
		params.HostMapped == old.HostMapped &&
		params.HostWritable == old.HostWritable &&
		params.HostReadable == old.HostReadable
}

func (p *BufferPool) grow() error {
	buf, err := p.dev.CreateBuffer(p.current)
	if err != nil {
		return err
	}
	p.buffers = append(p.buffers, nil)
	copy(p.buffers[p.cursor+1:], p.buffers[p.cursor:])
	p.buffers[p.cursor] = buf
	return nil
}

// Get returns a buffer compatible with params, growing or resetting the
// pool as needed.
//
// If params is incompatible with the pool's current params (see
// bufParamsCompatible), every existing buffer is destroyed and params
// becomes the new baseline. At least one buffer is then guaranteed to
// exist. If the buffer at the cursor is still busy (a zero-timeout
// PollBuffer), an additional buffer is inserted at the cursor. The
// buffer at the cursor is returned and the cursor advances modulo the
// pool size. params.InitialData must be nil: pool buffers are never
// seeded.
func (p *BufferPool) Get(params backend.BufferParams) (*Buffer, error) {
	if params.InitialData != nil {
		fatalf("BufferPool.Get", "pool buffers may not carry InitialData")
	}

	if len(p.buffers) == 0 || !bufParamsCompatible(params, p.current) {
		p.Uninit()
		p.current = params
	}

	if len(p.buffers) == 0 {
		if err := p.grow(); err != nil {
			return nil, err
		}
	}

	if p.dev.PollBuffer(p.buffers[p.cursor], 0) {
		if err := p.grow(); err != nil {
			return nil, ErrBusy
		}
	}

	buf := p.buffers[p.cursor]
	p.cursor = (p.cursor + 1) % len(p.buffers)
	return buf, nil
}

// Uninit destroys every buffer in the pool and resets it to empty.
func (p *BufferPool) Uninit() {
	for i := range p.buffers {
		p.dev.DestroyBuffer(&p.buffers[i])
	}
	p.buffers = nil
	p.cursor = 0
	p.current = backend.BufferParams{}
}

// UploadTexturePBO behaves like Device.UploadTexture, except that when
// the caller passed a Ptr instead of a Buf, a buffer of exactly
// TransferSize bytes is obtained from pool, the host data is written
// into it, and the upload is issued against that buffer.
func (d *Device) UploadTexturePBO(pool *BufferPool, t TexTransfer) error {
	if t.Buf != nil {
		return d.UploadTexture(t)
	}

	size := TransferSize(t.Tex.params.Format, t.Tex.Dim(), nonZeroRect(t), t.StrideW, t.StrideH)
	buf, err := pool.Get(backend.BufferParams{
		Type:         backend.BufTransfer,
		Size:         size,
		HostWritable: true,
	})
	if err != nil {
		return err
	}

	if err := d.WriteBuffer(buf, 0, t.Ptr[:size]); err != nil {
		return err
	}

	t.Buf = buf
	t.Ptr = nil
	return d.UploadTexture(t)
}

// DownloadTexturePBO mirrors UploadTexturePBO for reads. When no Buf is
// supplied, it downloads into a pool buffer and then blocks until the
// buffer is idle before reading it back to t.Ptr — documented slow
// path, matching the original's busy-poll behavior.
func (d *Device) DownloadTexturePBO(pool *BufferPool, t TexTransfer) error {
	if t.Buf != nil {
		return d.DownloadTexture(t)
	}

	size := TransferSize(t.Tex.params.Format, t.Tex.Dim(), nonZeroRect(t), t.StrideW, t.StrideH)
	buf, err := pool.Get(backend.BufferParams{
		Type:         backend.BufTransfer,
		Size:         size,
		HostReadable: true,
	})
	if err != nil {
		return err
	}

	ptr := t.Ptr
	t.Buf = buf
	t.Ptr = nil
	if err := d.DownloadTexture(t); err != nil {
		return err
	}

	if d.PollBuffer(buf, 0) {
		// Slow path: no sync primitive was supplied, so busy-poll with
		// a 1ms timeout until the transfer completes. A future
		// reimplementation should expose a real wait primitive here
		// instead.
		Logger().Debug("download without buffer: blocking (slow path)", "size", size)
		for d.PollBuffer(buf, 1000) {
		}
	}

	return d.ReadBuffer(buf, 0, ptr[:size])
}

func nonZeroRect(t TexTransfer) Rect3D {
	if t.Rect.isZero() {
		return fullExtent(t.Tex.params.W, t.Tex.params.H, t.Tex.params.D)
	}
	return t.Rect
}
