// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ra

import "github.com/gogpu/ra/ra/backend"

func alignUp(x, align int) int {
	return (x + align - 1) / align * align
}

// HostLayout computes v's canonical, tightly packed, column-major host
// memory layout: one column is sizeof(base)*DimV bytes, columns are
// contiguous, and the whole value is ColumnSize*DimM bytes.
func HostLayout(v backend.ShaderVar, offset int) backend.Layout {
	colSize := v.Type.Size() * v.DimV
	return backend.Layout{
		Offset:     offset,
		ColumnSize: colSize,
		Stride:     colSize,
		Size:       colSize * v.DimM,
	}
}

// Std140Layout computes v's layout as a std140 uniform-buffer member,
// returning the zero Layout if the device does not advertise std140
// support.
func (d *Device) Std140Layout(v backend.ShaderVar, offset int) backend.Layout {
	if !d.limits.Std140 {
		return backend.Layout{}
	}
	el := v.Type.Size()
	size := el * v.DimV
	if v.DimV == 3 {
		size = el * 4
	}
	if v.DimM > 1 {
		size = alignUp(size, 16)
	}
	aligned := alignUp(offset, size)
	return backend.Layout{
		Offset:     aligned,
		ColumnSize: size,
		Stride:     size,
		Size:       size * v.DimM,
	}
}

// Std430Layout computes v's layout as a std430 storage-buffer member.
// It differs from Std140Layout in two ways: a vec3 is padded to vec4
// solely when it is not a matrix column, and matrix columns are not
// rounded up to 16 bytes.
func (d *Device) Std430Layout(v backend.ShaderVar, offset int) backend.Layout {
	if !d.limits.Std430 {
		return backend.Layout{}
	}
	el := v.Type.Size()
	size := el * v.DimV
	if v.DimV == 3 && v.DimM == 1 {
		size = el * 4
	}
	aligned := alignUp(offset, size)
	return backend.Layout{
		Offset:     aligned,
		ColumnSize: size,
		Stride:     size,
		Size:       size * v.DimM,
	}
}

// PushConstantLayout delegates to the backend's backend-defined push-
// constant alignment rules, returning the zero Layout if the device
// does not advertise push-constant support.
func (d *Device) PushConstantLayout(v backend.ShaderVar) backend.Layout {
	if !d.limits.PushConstants {
		return backend.Layout{}
	}
	return d.impl.PushConstantLayout(v)
}
