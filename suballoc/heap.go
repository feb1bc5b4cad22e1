// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package suballoc

// Heap groups every Slab sharing the same allocation signature: the
// same buffer usage, memory property flags, acceptable memory-type
// bitmask, and external handle type. Allocator.FindHeap looks a Heap
// up (or creates it) by that 4-tuple.
type Heap struct {
	Usage      BufferUsageFlags
	Flags      MemoryPropertyFlags
	TypeBits   uint32
	HandleType HandleType
	Slabs      []*Slab
}

func (h *Heap) matches(usage BufferUsageFlags, flags MemoryPropertyFlags, typeBits uint32, handleType HandleType) bool {
	return h.Usage == usage && h.Flags == flags && h.TypeBits == typeBits && h.HandleType == handleType
}
