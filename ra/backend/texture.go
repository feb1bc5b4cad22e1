// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package backend

// TextureFlags is a bitset of usages requested at texture creation.
type TextureFlags uint32

const (
	TexSampleable TextureFlags = 1 << iota
	TexRenderable
	TexStorable
	TexHostWritable
	TexHostReadable
	TexBlitSrc
	TexBlitDst
)

func (f TextureFlags) Has(want TextureFlags) bool { return f&want == want }

// SampleMode selects the filtering behavior used when a texture is
// sampled.
type SampleMode int

const (
	Nearest SampleMode = iota
	Linear
)

// AddressMode selects how out-of-range texture coordinates are handled.
// The backend owns the concrete set of supported modes; the RA only
// passes the value through.
type AddressMode int

// TextureParams fully describes a texture at creation time.
//
// Dimensionality is inferred from which of W, H, D are nonzero: D>0
// means a 3-D texture, else H>0 means 2-D, else 1-D.
type TextureParams struct {
	W, H, D int
	Format  *Format
	Flags   TextureFlags
	Sample  SampleMode
	Address AddressMode

	// InitialData, if non-nil, seeds the texture's first mip/layer.
	InitialData []byte
}

// TextureHandle is an opaque backend-owned texture handle.
type TextureHandle any

// TexTransferParams describes a single texture upload or download.
type TexTransferParams struct {
	Tex TextureHandle

	// RectX/Y/Z/W/H/D describe the affected region; zero W/H/D (the
	// backend-level, not TextureParams-level, convention) means "use
	// the texture's full extent in that axis" and is resolved by the
	// caller (ra) before reaching the backend.
	RectX, RectY, RectZ int
	RectW, RectH, RectD int

	StrideW, StrideH int

	// Exactly one of Buf or Ptr is set.
	Buf       BufferHandle
	BufOffset int
	Ptr       []byte
}
