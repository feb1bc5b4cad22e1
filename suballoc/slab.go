// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package suballoc

import "unsafe"

// Slab is one contiguous Driver memory allocation, carved up into
// Slices by the owning Heap. A dedicated slab backs exactly one Slice
// (either because the request exceeded maxSlabSize, or because the
// slab was built by Import) and carries no free regions.
type Slab struct {
	Memory DeviceMemory
	Size   uint64
	Used   uint64

	// Dedicated slabs exist to back a single oversized or imported
	// allocation and are never split further.
	Dedicated bool
	// Imported slabs wrap memory the caller already owns; Free never
	// calls Driver.DestroyBuffer/FreeMemory's handle-closing sibling
	// logic on them the way it does for slabs this allocator created.
	Imported bool

	Regions []region

	Buffer     Buffer
	Data       unsafe.Pointer
	Coherent   bool
	Handle     Handle
	HandleType HandleType
}

// free releases slab's Driver-owned resources. It must only be called
// once slab.Used == 0.
func (s *Slab) free(d Driver) {
	if !s.Imported {
		if s.Buffer != nil {
			d.DestroyBuffer(s.Buffer)
		}
		s.Handle.Close()
	}
	d.FreeMemory(s.Memory)
}
