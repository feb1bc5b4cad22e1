// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package backend

// Backend is the capability set a concrete GPU driver must implement to
// host the ra validation layer. Every method receives arguments the
// caller has already validated; a Backend implementation is never asked
// to reject invalid input.
//
// Method names mirror the original ra_impl function-table entries
// (tex_create, buf_write, renderpass_run, ...) rather than a WebGPU- or
// Vulkan-specific API, so a single Backend can front any concrete
// driver.
type Backend interface {
	// Destroy releases all backend-owned state. No other method may be
	// called afterward.
	Destroy()

	TexCreate(params TextureParams) (TextureHandle, error)
	TexDestroy(tex TextureHandle)
	TexInvalidate(tex TextureHandle)
	TexClear(tex TextureHandle, rgba [4]float32)
	TexBlit(dst, src TextureHandle, dstRect, srcRect [6]int)
	TexUpload(p TexTransferParams) error
	TexDownload(p TexTransferParams) error

	BufCreate(params BufferParams) (MappedBuffer, error)
	BufDestroy(buf BufferHandle)
	BufWrite(buf BufferHandle, offset int, data []byte) error
	BufRead(buf BufferHandle, offset int, data []byte) error
	// BufPoll reports whether buf is still in flight for a prior
	// write/read/transfer. Backends that have no concept of buffer
	// busyness may always return false. timeout <= 0 means "return
	// immediately without waiting".
	BufPoll(buf BufferHandle, timeout int) (busy bool)

	UniformBufLayout(v ShaderVar) Layout
	StorageBufLayout(v ShaderVar) Layout
	PushConstantLayout(v ShaderVar) Layout

	// DescNamespace reports whether kind occupies a binding-number
	// namespace shared with other kinds (true) or its own private one
	// (false); used only to format backend-specific diagnostics.
	DescNamespace(kind DescriptorKind) bool

	RenderPassCreate(params RenderPassParams) (RenderPassHandle, error)
	RenderPassDestroy(rp RenderPassHandle)
	RenderPassRun(rp RenderPassHandle, run RunParams) error

	// Flush is optional; a Backend with no deferred submission queue
	// may leave it a no-op.
	Flush()
}
