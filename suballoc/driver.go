// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package suballoc

import "unsafe"

// BufferUsageFlags describes what a Driver-created Buffer will be
// used for (transfer, uniform, storage, ...). The concrete bit layout
// is entirely up to the Driver implementation; suballoc only ever
// passes values through.
type BufferUsageFlags uint32

// MemoryPropertyFlags describes the properties of a memory type
// (device-local, host-visible, host-coherent, ...), again opaque to
// suballoc beyond pass-through and the HostVisible/HostCoherent bits
// it needs to decide whether to map a slab.
type MemoryPropertyFlags uint32

const (
	MemoryHostVisible  MemoryPropertyFlags = 1 << 0
	MemoryHostCoherent MemoryPropertyFlags = 1 << 1
)

// MemoryType describes one entry of the Driver's memory type list, in
// the driver's own preference order (mirrors
// VkPhysicalDeviceMemoryProperties.memoryTypes).
type MemoryType struct {
	PropertyFlags MemoryPropertyFlags
}

// DeviceMemory is an opaque handle to a single Driver-allocated memory
// object (mirrors VkDeviceMemory).
type DeviceMemory any

// Buffer is an opaque handle to a Driver-created buffer object
// (mirrors VkBuffer).
type Buffer any

// MemoryRequirements mirrors VkMemoryRequirements: the size/alignment
// a Driver allocation or buffer binding actually needs, and the subset
// of memory types (by bit index into Driver.MemoryTypes) it is
// compatible with.
type MemoryRequirements struct {
	Size          uint64
	Alignment     uint64
	MemoryTypeBits uint32
}

// Driver is the minimal capability set suballoc needs from whatever
// backend hosts it. It mirrors the call shape of vk_malloc_create,
// slab_alloc, and vk_malloc_import against a real Vulkan device, kept
// deliberately backend-agnostic so suballoc has no dependency on any
// concrete GPU API.
type Driver interface {
	// MemoryTypes returns the device's memory types, in driver
	// preference order.
	MemoryTypes() []MemoryType

	// HostPointerAlignment is the alignment a host pointer must
	// satisfy to be importable (minImportedHostPointerAlignment).
	HostPointerAlignment() uint64

	// BufferImageGranularity is the alignment that must separate a
	// linear and a non-linear resource sharing a slab.
	BufferImageGranularity() uint64

	// AllocateMemory allocates size bytes from the memory type at
	// typeIndex. If export is not HandleNone, the allocation is made
	// exportable as that handle type.
	AllocateMemory(typeIndex int, size uint64, export HandleType) (DeviceMemory, error)

	// FreeMemory releases a DeviceMemory previously returned by
	// AllocateMemory.
	FreeMemory(DeviceMemory)

	// MapMemory maps the entirety of mem into host address space, and
	// reports whether writes to it are automatically visible to the
	// device (host-coherent) without an explicit flush.
	MapMemory(mem DeviceMemory) (ptr unsafe.Pointer, coherent bool, err error)

	// CreateBuffer creates a buffer of size bytes for usage, along
	// with its MemoryRequirements. If export is not HandleNone, the
	// backing memory must later be exportable as that handle type.
	CreateBuffer(usage BufferUsageFlags, size uint64, export HandleType) (Buffer, MemoryRequirements, error)

	// DestroyBuffer destroys a Buffer previously returned by
	// CreateBuffer.
	DestroyBuffer(Buffer)

	// BindBufferMemory binds buf to mem at the given byte offset.
	BindBufferMemory(buf Buffer, mem DeviceMemory, offset uint64) error

	// ExportHandle exports mem as an external memory handle of the
	// given type.
	ExportHandle(mem DeviceMemory, handleType HandleType) (Handle, error)

	// ImportCheck probes whether handleType can be used for import
	// (importing == true) or export (importing == false) at all.
	ImportCheck(handleType HandleType, importing bool) bool

	// ImportMemoryTypeBits returns the memory-type bitmask compatible
	// with importing h as handleType.
	ImportMemoryTypeBits(handleType HandleType, h Handle) (uint32, error)
}
