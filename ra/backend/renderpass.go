// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package backend

// RenderPassKind selects whether a render pass is a rasterization or a
// compute program.
type RenderPassKind int

const (
	Raster RenderPassKind = iota
	Compute
)

// VertexAttrib names one vertex-buffer input.
type VertexAttrib struct {
	Name   string
	Format *Format
	Offset int
}

// BlendState describes how a raster pass's fragment output is combined
// with the existing target contents. The concrete factors/ops are
// backend-defined; ra only gates whether blending is requested at all.
type BlendState struct {
	Enabled bool
}

// RenderPassParams is the immutable compiled-program description shared
// by raster and compute passes.
//
// Raster-only fields (VertexShader, VertexAttribs, VertexStride,
// TargetFormat, Blend) are ignored for Kind == Compute.
type RenderPassParams struct {
	Kind RenderPassKind

	ShaderText string // fragment/compute shader text
	Variables  []ShaderVar
	Descriptors []Descriptor

	PushConstantSize int

	VertexShader  string
	VertexAttribs []VertexAttrib
	VertexStride  int
	TargetFormat  *Format
	Blend         BlendState
}

// RenderPassHandle is an opaque backend-owned compiled render-pass
// handle.
type RenderPassHandle any

// BoundDescriptor pairs a descriptor slot with the handle bound to it at
// run time: a TextureHandle for SampledTex/StorageImg, a BufferHandle
// for UniformBuf/StorageBuf.
type BoundDescriptor struct {
	Name   string
	Handle any
}

// VarUpdate is a live update to one of a render pass's Variables at run
// time, by index into RenderPassParams.Variables.
type VarUpdate struct {
	Index int
	Data  []byte
}

// Viewport and Scissor are normalized (0..1) rectangles within the
// render target.
type NormRect struct {
	X, Y, W, H float32
}

// RunParams describes a single invocation of a compiled render pass.
type RunParams struct {
	Target      TextureHandle // raster only
	LoadTarget  bool
	Viewport    NormRect
	Scissor     NormRect
	Descriptors []BoundDescriptor
	VarUpdates  []VarUpdate
	PushConstants []byte

	VertexBuffer BufferHandle
	VertexCount  int

	// Compute dispatch group counts, one per axis.
	GroupsX, GroupsY, GroupsZ int
}
