// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ra

import "github.com/gogpu/ra/ra/backend"

// Texture owns device memory and the creation parameters it was built
// from, so RecreateTexture can compare against them later.
type Texture struct {
	dev       *Device
	handle    backend.TextureHandle
	params    backend.TextureParams
	destroyed bool
}

// Dim returns the texture's dimensionality: 1, 2, or 3, inferred from
// which of W, H, D were nonzero at creation.
func (t *Texture) Dim() int {
	return dimOf(t.params)
}

func dimOf(p backend.TextureParams) int {
	switch {
	case p.D > 0:
		return 3
	case p.H > 0:
		return 2
	default:
		return 1
	}
}

func texParamsEqual(a, b backend.TextureParams) bool {
	return a.W == b.W && a.H == b.H && a.D == b.D &&
		a.Format == b.Format && a.Flags == b.Flags &&
		a.Sample == b.Sample && a.Address == b.Address
}

var textureFlagCaps = []struct {
	flag backend.TextureFlags
	cap  backend.Caps
}{
	{backend.TexSampleable, backend.CapSampleable},
	{backend.TexRenderable, backend.CapRenderable},
	{backend.TexStorable, backend.CapStorable},
	{backend.TexBlitSrc, backend.CapBlittable},
	{backend.TexBlitDst, backend.CapBlittable},
}

func (d *Device) validateTexParams(fn string, p backend.TextureParams) {
	if p.Format == nil {
		fatalf(fn, "format must not be nil")
	}
	for _, fc := range textureFlagCaps {
		if p.Flags.Has(fc.flag) && !p.Format.Caps.Has(fc.cap) {
			fatalf(fn, "format %q does not advertise capability required by requested flag", p.Format.Name)
		}
	}

	dim := dimOf(p)
	if dim != 2 && p.Flags.Has(backend.TexRenderable) {
		fatalf(fn, "%d-D textures are never renderable", dim)
	}

	var limit int
	switch dim {
	case 1:
		limit = d.limits.MaxTexture1D
	case 2:
		limit = d.limits.MaxTexture2D
	case 3:
		limit = d.limits.MaxTexture3D
	}
	for _, sz := range []int{p.W, max1(p.H), max1(p.D)} {
		if sz > limit {
			fatalf(fn, "texture dimension %d exceeds device limit %d", sz, limit)
		}
	}
}

func max1(x int) int {
	if x == 0 {
		return 1
	}
	return x
}

// CreateTexture validates params against the device's format table and
// per-dimensionality limits, then delegates to the backend.
func (d *Device) CreateTexture(params backend.TextureParams) (*Texture, error) {
	d.validateTexParams("CreateTexture", params)

	h, err := d.impl.TexCreate(params)
	if err != nil {
		return nil, err
	}
	return &Texture{dev: d, handle: h, params: params}, nil
}

// RecreateTexture keeps *slot if it already holds a texture created
// with exactly-equal params; otherwise it destroys the old texture (if
// any) and creates a fresh one.
func (d *Device) RecreateTexture(slot **Texture, params backend.TextureParams) error {
	if *slot != nil && texParamsEqual((*slot).params, params) {
		return nil
	}
	if *slot != nil {
		d.DestroyTexture(slot)
	}
	t, err := d.CreateTexture(params)
	if err != nil {
		return err
	}
	*slot = t
	return nil
}

// DestroyTexture destroys the texture held by *slot, if any, and nils
// the slot.
func (d *Device) DestroyTexture(slot **Texture) {
	t := *slot
	if t == nil || t.destroyed {
		*slot = nil
		return
	}
	t.destroyed = true
	d.impl.TexDestroy(t.handle)
	*slot = nil
}

// InvalidateTexture hints to the backend that tex's current contents
// may be discarded without being preserved.
func (d *Device) InvalidateTexture(tex *Texture) {
	d.impl.TexInvalidate(tex.handle)
}

// ClearTexture requires dst to have been created with TexBlitDst,
// invalidates its contents, then clears it to rgba.
func (d *Device) ClearTexture(dst *Texture, rgba [4]float32) {
	if !dst.params.Flags.Has(backend.TexBlitDst) {
		fatalf("ClearTexture", "destination texture was not created with TexBlitDst")
	}
	d.InvalidateTexture(dst)
	d.impl.TexClear(dst.handle, rgba)
}

// BlitTexture copies srcRect of src into dstRect of dst. Both textures
// must share a texel size; src must carry TexBlitSrc, dst must carry
// TexBlitDst; both rectangles must be in-bounds and non-empty.
// Coordinates in axes unused by a texture's dimensionality are stripped
// to [0,1). If dstRect spans dst's entire extent, dst is invalidated
// first.
func (d *Device) BlitTexture(dst, src *Texture, dstRect, srcRect Rect3D) {
	if dst.params.Format.TexelSize != src.params.Format.TexelSize {
		fatalf("BlitTexture", "src and dst texel sizes differ (%d vs %d)", src.params.Format.TexelSize, dst.params.Format.TexelSize)
	}
	if !src.params.Flags.Has(backend.TexBlitSrc) {
		fatalf("BlitTexture", "source texture was not created with TexBlitSrc")
	}
	if !dst.params.Flags.Has(backend.TexBlitDst) {
		fatalf("BlitTexture", "destination texture was not created with TexBlitDst")
	}

	srcRect = stripCoords(srcRect, src.Dim())
	dstRect = stripCoords(dstRect, dst.Dim())

	if !inBounds(srcRect, max1(src.params.W), max1(src.params.H), max1(src.params.D)) {
		fatalf("BlitTexture", "source rectangle out of bounds or empty")
	}
	if !inBounds(dstRect, max1(dst.params.W), max1(dst.params.H), max1(dst.params.D)) {
		fatalf("BlitTexture", "destination rectangle out of bounds or empty")
	}

	if spansWhole(dstRect, max1(dst.params.W), max1(dst.params.H), max1(dst.params.D)) {
		d.InvalidateTexture(dst)
	}

	d.impl.TexBlit(dst.handle, src.handle,
		rectToArray(dstRect), rectToArray(srcRect))
}

func rectToArray(r Rect3D) [6]int {
	return [6]int{r.X, r.Y, r.Z, r.W, r.H, r.D}
}

// TransferSize returns the number of bytes a transfer of rect against a
// texture of format fmt would move: texels * TexelSize, where texels is
// W for a 1-D rect, strideW*H for 2-D, strideW*strideH*D for 3-D. A
// zero stride defaults to the corresponding rect dimension.
func TransferSize(fmt *backend.Format, dim int, rect Rect3D, strideW, strideH int) int {
	if strideW == 0 {
		strideW = rect.W
	}
	if strideH == 0 {
		strideH = rect.H
	}

	var texels int
	switch dim {
	case 1:
		texels = rect.W
	case 2:
		texels = strideW * rect.H
	default:
		texels = strideW * strideH * rect.D
	}
	return texels * fmt.TexelSize
}

// TexTransfer describes a single upload or download call. Exactly one
// of Buf or Ptr must be set.
type TexTransfer struct {
	Tex       *Texture
	Rect      Rect3D // zero value means "the whole texture"
	StrideW   int
	StrideH   int
	Buf       *Buffer
	BufOffset int
	Ptr       []byte
}

func (d *Device) resolveTransfer(fn string, t TexTransfer, requireFlag backend.TextureFlags) backend.TexTransferParams {
	if !t.Tex.params.Flags.Has(requireFlag) {
		fatalf(fn, "texture was not created with the required host-access flag")
	}
	if t.Rect.isZero() {
		t.Rect = fullExtent(t.Tex.params.W, t.Tex.params.H, t.Tex.params.D)
	}
	t.Rect = stripCoords(t.Rect, t.Tex.Dim())
	if t.StrideW == 0 {
		t.StrideW = max1(t.Tex.params.W)
	}
	if t.StrideH == 0 {
		t.StrideH = max1(t.Tex.params.H)
	}

	haveBuf := t.Buf != nil
	havePtr := t.Ptr != nil
	if haveBuf == havePtr {
		fatalf(fn, "exactly one of Buf or Ptr must be provided")
	}
	if haveBuf {
		if t.BufOffset%4 != 0 {
			fatalf(fn, "buffer offset %d is not 4-byte aligned", t.BufOffset)
		}
		size := TransferSize(t.Tex.params.Format, t.Tex.Dim(), t.Rect, t.StrideW, t.StrideH)
		if t.BufOffset+size > t.Buf.params.Size {
			fatalf(fn, "transfer of %d bytes at offset %d exceeds buffer size %d", size, t.BufOffset, t.Buf.params.Size)
		}
	}

	var bufHandle backend.BufferHandle
	if t.Buf != nil {
		bufHandle = t.Buf.handle
	}
	return backend.TexTransferParams{
		Tex:       t.Tex.handle,
		RectX:     t.Rect.X, RectY: t.Rect.Y, RectZ: t.Rect.Z,
		RectW:     t.Rect.W, RectH: t.Rect.H, RectD: t.Rect.D,
		StrideW:   t.StrideW, StrideH: t.StrideH,
		Buf:       bufHandle,
		BufOffset: t.BufOffset,
		Ptr:       t.Ptr,
	}
}

// UploadTexture requires t.Tex to have been created with
// TexHostWritable, defaults an unset Rect to the whole texture and
// unset strides to the texture's dimensions, and delegates to the
// backend.
func (d *Device) UploadTexture(t TexTransfer) error {
	p := d.resolveTransfer("UploadTexture", t, backend.TexHostWritable)
	return d.impl.TexUpload(p)
}

// DownloadTexture requires t.Tex to have been created with
// TexHostReadable; otherwise behaves like UploadTexture.
func (d *Device) DownloadTexture(t TexTransfer) error {
	p := d.resolveTransfer("DownloadTexture", t, backend.TexHostReadable)
	return d.impl.TexDownload(p)
}
