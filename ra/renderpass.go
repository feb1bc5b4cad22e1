// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ra

import "github.com/gogpu/ra/ra/backend"

// RenderPass is a compiled, immutable program: a raster or compute
// pass along with the params it was created from.
type RenderPass struct {
	dev       *Device
	handle    backend.RenderPassHandle
	params    backend.RenderPassParams
	destroyed bool
}

// Params returns the (deep-copied) params rp was created with.
func (rp *RenderPass) Params() backend.RenderPassParams { return rp.params }

// CopyRenderPassParams deep-copies every pointer-bearing field of p
// (variables, descriptors, vertex attribs, shader text) into freshly
// allocated slices/strings, so the result shares no backing storage
// with p.
func CopyRenderPassParams(p backend.RenderPassParams) backend.RenderPassParams {
	out := p

	if p.Variables != nil {
		out.Variables = append([]backend.ShaderVar(nil), p.Variables...)
	}
	if p.Descriptors != nil {
		out.Descriptors = append([]backend.Descriptor(nil), p.Descriptors...)
	}
	if p.VertexAttribs != nil {
		out.VertexAttribs = append([]backend.VertexAttrib(nil), p.VertexAttribs...)
	}

	// Strings are already immutable in Go, but copying via a fresh
	// byte slice ensures a caller who built ShaderText from a mutable
	// []byte cannot observe or cause aliasing through it.
	out.ShaderText = string(append([]byte(nil), p.ShaderText...))
	out.VertexShader = string(append([]byte(nil), p.VertexShader...))

	return out
}

// CreateRenderPass deep-copies params (see CopyRenderPassParams) and
// validates it before delegating to the backend: a push-constant block
// must be 4-byte aligned and within the device limit, and a non-empty
// Variables list requires the device to advertise live-variable-update
// support.
func (d *Device) CreateRenderPass(params backend.RenderPassParams) (*RenderPass, error) {
	params = CopyRenderPassParams(params)

	if params.PushConstantSize%4 != 0 {
		fatalf("CreateRenderPass", "push constant size %d is not 4-byte aligned", params.PushConstantSize)
	}
	if params.PushConstantSize > d.limits.MaxPushConstantSize {
		fatalf("CreateRenderPass", "push constant size %d exceeds device limit %d", params.PushConstantSize, d.limits.MaxPushConstantSize)
	}
	if len(params.Variables) > 0 && !d.limits.LiveVarUpdates {
		fatalf("CreateRenderPass", "device does not advertise live-variable-update capability")
	}
	if params.Kind == backend.Compute && !d.limits.Compute {
		fatalf("CreateRenderPass", "device does not advertise compute capability")
	}

	h, err := d.impl.RenderPassCreate(params)
	if err != nil {
		return nil, err
	}
	return &RenderPass{dev: d, handle: h, params: params}, nil
}

// DestroyRenderPass destroys the pass held by *slot, if any, and nils
// the slot.
func (d *Device) DestroyRenderPass(slot **RenderPass) {
	rp := *slot
	if rp == nil || rp.destroyed {
		*slot = nil
		return
	}
	rp.destroyed = true
	d.impl.RenderPassDestroy(rp.handle)
	*slot = nil
}

// BoundResource is either a *Texture (for SampledTex/StorageImg
// descriptors) or a *Buffer (for UniformBuf/StorageBuf descriptors).
type BoundResource struct {
	Name    string
	Texture *Texture
	Buffer  *Buffer
}

// RunParams describes a single invocation of a compiled render pass.
type RunParams struct {
	Target        *Texture // raster only
	LoadTarget    bool
	Viewport      backend.NormRect
	Scissor       backend.NormRect
	Resources     []BoundResource
	VarUpdates    []backend.VarUpdate
	PushConstants []byte

	VertexBuffer *Buffer
	VertexCount  int

	GroupsX, GroupsY, GroupsZ int
}

func normInRange(r backend.NormRect) bool {
	return r.X >= 0 && r.Y >= 0 && r.W > 0 && r.H > 0 &&
		r.X+r.W <= 1 && r.Y+r.H <= 1
}

func (d *Device) validateDescriptor(fn string, desc backend.Descriptor, bound BoundResource) {
	switch desc.Kind {
	case backend.SampledTex:
		if bound.Texture == nil || !bound.Texture.params.Flags.Has(backend.TexSampleable) {
			fatalf(fn, "descriptor %q requires a sampleable texture", desc.Name)
		}
	case backend.StorageImg:
		if bound.Texture == nil || !bound.Texture.params.Flags.Has(backend.TexStorable) {
			fatalf(fn, "descriptor %q requires a storable texture", desc.Name)
		}
	case backend.UniformBuf:
		if bound.Buffer == nil || bound.Buffer.params.Type != backend.BufUniform {
			fatalf(fn, "descriptor %q requires a uniform buffer", desc.Name)
		}
	case backend.StorageBuf:
		if bound.Buffer == nil || bound.Buffer.params.Type != backend.BufStorage {
			fatalf(fn, "descriptor %q requires a storage buffer", desc.Name)
		}
	}
}

// RunRenderPass validates run against rp's compiled params and the
// device's limits, then delegates to the backend. If run.LoadTarget is
// false, the target is invalidated before the backend call.
func (d *Device) RunRenderPass(rp *RenderPass, run RunParams) error {
	byName := make(map[string]BoundResource, len(run.Resources))
	for _, r := range run.Resources {
		byName[r.Name] = r
	}
	for _, desc := range rp.params.Descriptors {
		bound, ok := byName[desc.Name]
		if !ok {
			fatalf("RunRenderPass", "no resource bound for descriptor %q", desc.Name)
		}
		d.validateDescriptor("RunRenderPass", desc, bound)
	}

	for _, u := range run.VarUpdates {
		if !d.limits.LiveVarUpdates {
			fatalf("RunRenderPass", "device does not advertise live-variable-update capability")
		}
		if u.Index < 0 || u.Index >= len(rp.params.Variables) {
			fatalf("RunRenderPass", "variable update index %d out of range (have %d variables)", u.Index, len(rp.params.Variables))
		}
	}

	var backendRun backend.RunParams
	backendRun.LoadTarget = run.LoadTarget
	backendRun.Viewport = run.Viewport
	backendRun.Scissor = run.Scissor
	backendRun.VarUpdates = run.VarUpdates
	backendRun.PushConstants = run.PushConstants
	backendRun.GroupsX, backendRun.GroupsY, backendRun.GroupsZ = run.GroupsX, run.GroupsY, run.GroupsZ

	switch rp.params.Kind {
	case backend.Raster:
		if run.Target == nil || run.Target.Dim() != 2 || !run.Target.params.Flags.Has(backend.TexRenderable) {
			fatalf("RunRenderPass", "raster pass requires a 2-D renderable target")
		}
		if run.Target.params.Format != rp.params.TargetFormat {
			fatalf("RunRenderPass", "target format does not match the pass's compiled target format")
		}
		if !normInRange(run.Viewport) {
			fatalf("RunRenderPass", "viewport rectangle is not a normalized, non-empty, in-range rectangle")
		}
		if !normInRange(run.Scissor) {
			fatalf("RunRenderPass", "scissor rectangle is not a normalized, non-empty, in-range rectangle")
		}
		if !run.LoadTarget {
			d.InvalidateTexture(run.Target)
		}
		backendRun.Target = run.Target.handle
		if run.VertexBuffer != nil {
			backendRun.VertexBuffer = run.VertexBuffer.handle
		}
		backendRun.VertexCount = run.VertexCount

	case backend.Compute:
		limits := [3]int{d.limits.MaxComputeGroupsX, d.limits.MaxComputeGroupsY, d.limits.MaxComputeGroupsZ}
		groups := [3]int{run.GroupsX, run.GroupsY, run.GroupsZ}
		for i, g := range groups {
			if g < 0 || g > limits[i] {
				fatalf("RunRenderPass", "compute group count %d on axis %d exceeds device limit %d", g, i, limits[i])
			}
		}
	}

	backendRun.Descriptors = make([]backend.BoundDescriptor, 0, len(run.Resources))
	for _, r := range run.Resources {
		var h any
		if r.Texture != nil {
			h = r.Texture.handle
		} else if r.Buffer != nil {
			h = r.Buffer.handle
		}
		backendRun.Descriptors = append(backendRun.Descriptors, backend.BoundDescriptor{Name: r.Name, Handle: h})
	}

	return d.impl.RenderPassRun(rp.handle, backendRun)
}
