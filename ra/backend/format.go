// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package backend defines the capability set a concrete GPU driver must
// implement to host the ra validation layer, and the plain data shapes
// (formats, texture/buffer parameters, shader-variable descriptions,
// render-pass programs) that flow across that boundary.
//
// Nothing in this package talks to a real GPU API; it exists so ra can
// depend on a narrow interface instead of a specific backend.
package backend

// ComponentType is a format's per-component numeric interpretation.
type ComponentType int

const (
	Float ComponentType = iota
	UNorm
	SNorm
	UInt
	SInt
)

// Caps is a bitset of capabilities a Format may advertise.
type Caps uint32

const (
	CapTexture Caps = 1 << iota
	CapSampleable
	CapLinearFilterable
	CapStorable
	CapRenderable
	CapBlendable
	CapBlittable
	CapVertex
)

func (c Caps) Has(want Caps) bool { return c&want == want }

// Format is an immutable device-supported texel/vertex format descriptor.
//
// ComponentIndex[i] names which logical component occupies physical slot
// i, allowing swizzled or padded layouts; ComponentPad[i] is the number
// of unused bits following component i.
type Format struct {
	Name           string
	Type           ComponentType
	NumComponents  int
	ComponentDepth [4]int
	ComponentPad   [4]int
	ComponentIndex [4]int
	TexelSize      int
	Caps           Caps
}

// Ordered reports whether every component occupies the slot matching its
// logical index — ComponentIndex[i] == i for all i < NumComponents.
func (f *Format) Ordered() bool {
	for i := 0; i < f.NumComponents; i++ {
		if f.ComponentIndex[i] != i {
			return false
		}
	}
	return true
}

// Regular reports whether f is Ordered, carries no padding bits, and its
// component depths sum to exactly 8*TexelSize bits.
func (f *Format) Regular() bool {
	if !f.Ordered() {
		return false
	}
	sum := 0
	for i := 0; i < f.NumComponents; i++ {
		if f.ComponentPad[i] != 0 {
			return false
		}
		sum += f.ComponentDepth[i]
	}
	return sum == 8*f.TexelSize
}
