// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ra

import "github.com/gogpu/ra/ra/backend"

// fakeBackend is a minimal in-memory backend.Backend used by this
// package's tests, following the pack's noop-backend convention: every
// call always succeeds and keeps just enough bookkeeping for the
// validation layer's own logic to be exercised.
type fakeBackend struct {
	textures map[*fakeTexture]bool
	buffers  map[*fakeBuffer]bool
	passes   map[*fakePass]bool

	// busyOnce, if set, makes BufPoll report true once (then clears
	// itself) for the named buffer — used to simulate the "still in
	// flight" path.
	busyOnce map[any]bool
}

type fakeTexture struct{ params backend.TextureParams }
type fakeBuffer struct {
	params backend.BufferParams
	data   []byte
}
type fakePass struct{ params backend.RenderPassParams }

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		textures: map[*fakeTexture]bool{},
		buffers:  map[*fakeBuffer]bool{},
		passes:   map[*fakePass]bool{},
		busyOnce: map[any]bool{},
	}
}

func (b *fakeBackend) Destroy() {}
func (b *fakeBackend) Flush()   {}

func (b *fakeBackend) TexCreate(params backend.TextureParams) (backend.TextureHandle, error) {
	t := &fakeTexture{params: params}
	b.textures[t] = true
	return t, nil
}
func (b *fakeBackend) TexDestroy(tex backend.TextureHandle) {
	delete(b.textures, tex.(*fakeTexture))
}
func (b *fakeBackend) TexInvalidate(backend.TextureHandle) {}
func (b *fakeBackend) TexClear(backend.TextureHandle, [4]float32) {}
func (b *fakeBackend) TexBlit(dst, src backend.TextureHandle, dstRect, srcRect [6]int) {}
func (b *fakeBackend) TexUpload(p backend.TexTransferParams) error   { return nil }
func (b *fakeBackend) TexDownload(p backend.TexTransferParams) error { return nil }

func (b *fakeBackend) BufCreate(params backend.BufferParams) (backend.MappedBuffer, error) {
	buf := &fakeBuffer{params: params, data: make([]byte, params.Size)}
	copy(buf.data, params.InitialData)
	b.buffers[buf] = true
	mapped := backend.MappedBuffer{Handle: buf}
	if params.HostMapped {
		mapped.Data = buf.data
	}
	return mapped, nil
}
func (b *fakeBackend) BufDestroy(buf backend.BufferHandle) {
	delete(b.buffers, buf.(*fakeBuffer))
}
func (b *fakeBackend) BufWrite(buf backend.BufferHandle, offset int, data []byte) error {
	fb := buf.(*fakeBuffer)
	copy(fb.data[offset:], data)
	return nil
}
func (b *fakeBackend) BufRead(buf backend.BufferHandle, offset int, data []byte) error {
	fb := buf.(*fakeBuffer)
	copy(data, fb.data[offset:offset+len(data)])
	return nil
}
func (b *fakeBackend) BufPoll(buf backend.BufferHandle, timeout int) bool {
	if b.busyOnce[buf] {
		delete(b.busyOnce, buf)
		return true
	}
	return false
}

func (b *fakeBackend) UniformBufLayout(v backend.ShaderVar) backend.Layout  { return backend.Layout{} }
func (b *fakeBackend) StorageBufLayout(v backend.ShaderVar) backend.Layout  { return backend.Layout{} }
func (b *fakeBackend) PushConstantLayout(v backend.ShaderVar) backend.Layout {
	return HostLayout(v, 0)
}
func (b *fakeBackend) DescNamespace(backend.DescriptorKind) bool { return false }

func (b *fakeBackend) RenderPassCreate(params backend.RenderPassParams) (backend.RenderPassHandle, error) {
	p := &fakePass{params: params}
	b.passes[p] = true
	return p, nil
}
func (b *fakeBackend) RenderPassDestroy(rp backend.RenderPassHandle) {
	delete(b.passes, rp.(*fakePass))
}
func (b *fakeBackend) RenderPassRun(rp backend.RenderPassHandle, run backend.RunParams) error {
	return nil
}

// rgba8 is a typical regular, fully capable 4x8-bit format used across
// this package's tests.
var rgba8 = &backend.Format{
	Name:           "rgba8",
	Type:           backend.Float,
	NumComponents:  4,
	ComponentDepth: [4]int{8, 8, 8, 8},
	ComponentIndex: [4]int{0, 1, 2, 3},
	TexelSize:      4,
	Caps: backend.CapTexture | backend.CapSampleable | backend.CapLinearFilterable |
		backend.CapStorable | backend.CapRenderable | backend.CapBlendable |
		backend.CapBlittable | backend.CapVertex,
}

// rgba8Padded is a variant of rgba8 that carries unused padding bits,
// making it non-regular despite sharing rgba8's type/component count.
var rgba8Padded = &backend.Format{
	Name:           "rgba8-padded",
	Type:           backend.Float,
	NumComponents:  4,
	ComponentDepth: [4]int{8, 8, 8, 8},
	ComponentPad:   [4]int{0, 0, 0, 8},
	ComponentIndex: [4]int{0, 1, 2, 3},
	TexelSize:      5,
	Caps:           backend.CapTexture | backend.CapSampleable,
}

func testLimits() backend.Limits {
	return backend.Limits{
		MaxTexture1D:            4096,
		MaxTexture2D:            4096,
		MaxTexture3D:            1024,
		MaxTransferBuffer:       1 << 30,
		MaxUniformBuffer:        1 << 16,
		MaxStorageBuffer:        1 << 28,
		MaxPushConstantSize:     128,
		MaxComputeGroupsX:       65535,
		MaxComputeGroupsY:       65535,
		MaxComputeGroupsZ:       65535,
		BufferImageGranularity:  1,
		Formats:                 []*backend.Format{rgba8, rgba8Padded},
		Compute:                 true,
		LiveVarUpdates:          true,
		Std140:                  true,
		Std430:                  true,
		PushConstants:           true,
	}
}

func newTestDevice() *Device {
	return NewDevice(newFakeBackend(), testLimits())
}
