// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package backend

// Limits is the device capability block a driver supplies once at
// initialization. It is treated as immutable for the lifetime of the
// device session.
type Limits struct {
	MaxTexture1D int
	MaxTexture2D int
	MaxTexture3D int

	MaxTransferBuffer int
	MaxUniformBuffer  int
	MaxStorageBuffer  int

	MaxPushConstantSize int

	MaxComputeGroupsX int
	MaxComputeGroupsY int
	MaxComputeGroupsZ int

	BufferImageGranularity uint64

	Formats []*Format

	// Compute reports whether the device exposes compute passes at all.
	Compute bool
	// LiveVarUpdates reports whether RunParams.VarUpdates is honored.
	LiveVarUpdates bool
	// Std140, Std430, PushConstants report which shader-variable
	// storage classes the device's layout queries support.
	Std140       bool
	Std430       bool
	PushConstants bool
}
