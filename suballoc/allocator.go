// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package suballoc

import (
	"fmt"
	"math/bits"
	"sync"
	"unsafe"
)

const (
	slabGrowthRate = 4       // PLVK_HEAP_SLAB_GROWTH_RATE
	minSlabSize    = 1 << 20 // PLVK_HEAP_MINIMUM_SLAB_SIZE
	maxSlabSize    = 1 << 28 // PLVK_HEAP_MAXIMUM_SLAB_SIZE
)

// Allocator carves byte ranges out of Driver-backed memory slabs,
// grouped into Heaps by allocation signature. The zero value is not
// usable; construct with NewAllocator.
type Allocator struct {
	driver Driver
	mu     sync.Mutex
	heaps  []*Heap
}

// NewAllocator returns an Allocator driven by d.
func NewAllocator(d Driver) *Allocator {
	return &Allocator{driver: d}
}

// Destroy frees every slab in every heap and leaves the allocator
// empty. It must only be called once all outstanding Slices have
// already been returned via Free.
func (a *Allocator) Destroy() {
	a.mu.Lock()
	defer a.mu.Unlock()

	for _, h := range a.heaps {
		for _, s := range h.Slabs {
			s.free(a.driver)
		}
	}
	a.heaps = nil
}

// FindHeap returns the heap matching the given allocation signature,
// creating an empty one if none matches yet. reqs may be nil, in
// which case the heap's type-bit filter defaults to zero (accept
// anything), matching vk_malloc_generic's NULL reqs argument to
// find_heap.
func (a *Allocator) FindHeap(usage BufferUsageFlags, flags MemoryPropertyFlags, handleType HandleType, reqs *MemoryRequirements) *Heap {
	var typeBits uint32
	if reqs != nil {
		typeBits = reqs.MemoryTypeBits
	}

	for _, h := range a.heaps {
		if h.matches(usage, flags, typeBits, handleType) {
			return h
		}
	}

	h := &Heap{Usage: usage, Flags: flags, TypeBits: typeBits, HandleType: handleType}
	a.heaps = append(a.heaps, h)
	return h
}

// findBestMemType picks the first memory type (in driver preference
// order) whose property flags are a superset of flags and whose bit
// is set in typeBits. The Vulkan spec (and this allocator's
// contract) requires memory types to already be sorted in optimal
// order, so the first match is the best one — there is no reason to
// keep scanning once one is found.
func findBestMemType(types []MemoryType, typeBits uint32, flags MemoryPropertyFlags) (int, bool) {
	for i, t := range types {
		if t.PropertyFlags&flags != flags {
			continue
		}
		if typeBits&(1<<uint(i)) == 0 {
			continue
		}
		return i, true
	}
	return 0, false
}

// allocSlab builds a brand-new Slab of the given size for heap,
// creating a backing buffer first if heap.Usage is set. Every
// partially constructed resource is released before returning a
// non-nil error, mirroring slab_alloc's error: label in the original.
func (a *Allocator) allocSlab(heap *Heap, size uint64) (*Slab, error) {
	slab := &Slab{
		Size:       size,
		HandleType: heap.HandleType,
		Regions:    []region{{start: 0, end: size}},
	}
	if slab.HandleType == HandleFD || slab.HandleType == HandleDMABuf {
		slab.Handle = Handle{Type: slab.HandleType, FD: -1}
	}

	cleanup := func() {
		if slab.Buffer != nil {
			a.driver.DestroyBuffer(slab.Buffer)
		}
		slab.Handle.Close()
		if slab.Memory != nil {
			a.driver.FreeMemory(slab.Memory)
		}
	}

	typeBits := heap.TypeBits
	if typeBits == 0 {
		typeBits = ^uint32(0)
	}

	allocSize := size
	if heap.Usage != 0 {
		if heap.HandleType != HandleNone && !a.driver.ImportCheck(heap.HandleType, false) {
			cleanup()
			return nil, fmt.Errorf("%w: handle type %s not supported for export", ErrHandleUnsupported, heap.HandleType)
		}

		buf, reqs, err := a.driver.CreateBuffer(heap.Usage, size, heap.HandleType)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("%w: creating slab buffer: %v", ErrOutOfDeviceMemory, err)
		}
		slab.Buffer = buf
		allocSize = reqs.Size // may be larger than size
		typeBits &= reqs.MemoryTypeBits
	}

	index, ok := findBestMemType(a.driver.MemoryTypes(), typeBits, heap.Flags)
	if !ok {
		cleanup()
		return nil, fmt.Errorf("%w: no memory type matches flags 0x%x type bits 0x%x", ErrOutOfDeviceMemory, heap.Flags, typeBits)
	}

	mem, err := a.driver.AllocateMemory(index, allocSize, slab.HandleType)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("%w: %v", ErrOutOfDeviceMemory, err)
	}
	slab.Memory = mem

	memType := a.driver.MemoryTypes()[index]
	if memType.PropertyFlags&MemoryHostVisible != 0 {
		ptr, coherent, err := a.driver.MapMemory(mem)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("%w: mapping slab memory: %v", ErrOutOfDeviceMemory, err)
		}
		slab.Data = ptr
		slab.Coherent = coherent
	}

	if slab.Buffer != nil {
		if err := a.driver.BindBufferMemory(slab.Buffer, mem, 0); err != nil {
			cleanup()
			return nil, fmt.Errorf("%w: binding slab buffer: %v", ErrOutOfDeviceMemory, err)
		}
	}

	if slab.HandleType != HandleNone {
		h, err := a.driver.ExportHandle(mem, slab.HandleType)
		if err != nil {
			cleanup()
			return nil, fmt.Errorf("%w: exporting slab handle: %v", ErrOutOfDeviceMemory, err)
		}
		slab.Handle = h
	}

	return slab, nil
}

func regionFits(r region, size, align uint64) bool {
	return alignUp(r.start, align)+size <= r.end
}

// heapGetRegion finds the best-fitting free region for size/align
// within heap, allocating a new slab (dedicated, if size exceeds
// maxSlabSize, or grown onto the end of heap.Slabs otherwise) when
// nothing existing fits.
func (a *Allocator) heapGetRegion(heap *Heap, size, align uint64) (*Slab, int, error) {
	if size > maxSlabSize {
		slab, err := a.allocSlab(heap, size)
		if err != nil {
			return nil, 0, err
		}
		slab.Dedicated = true
		return slab, 0, nil
	}

	var lastSize uint64
	for _, slab := range heap.Slabs {
		lastSize = slab.Size
		if slab.Size < size {
			continue
		}

		best := -1
		for n, r := range slab.Regions {
			if !regionFits(r, size, align) {
				continue
			}
			if best >= 0 && r.len() > slab.Regions[best].len() {
				continue
			}
			best = n
		}
		if best >= 0 {
			return slab, best, nil
		}
	}

	slabSize := slabGrowthRate * maxU64(size, lastSize)
	slabSize = clampU64(slabSize, minSlabSize, maxSlabSize)

	slab, err := a.allocSlab(heap, slabSize)
	if err != nil {
		return nil, 0, err
	}
	heap.Slabs = append(heap.Slabs, slab)
	return slab, 0, nil
}

// sliceHeap carves a size-byte slice with the given alignment (widened
// to also respect the driver's buffer-image granularity) out of heap,
// splitting the chosen region's leftover head/tail back into the
// slab's free list.
func (a *Allocator) sliceHeap(heap *Heap, size, alignment uint64) (*Slice, error) {
	alignment = lcm(alignment, a.driver.BufferImageGranularity())

	slab, index, err := a.heapGetRegion(heap, size, alignment)
	if err != nil {
		return nil, err
	}

	reg := slab.Regions[index]
	slab.Regions = append(slab.Regions[:index], slab.Regions[index+1:]...)
	offset := alignUp(reg.start, alignment)

	Logger().Debug("sub-allocating slice", "offset", offset, "size", size, "slabSize", slab.Size)

	slice := &Slice{
		Memory: slab.Memory,
		Buffer: slab.Buffer,
		Offset: offset,
		Size:   size,
		slab:   slab,
		SharedMem: SharedMem{
			Handle: slab.Handle,
			Offset: offset,
			Size:   slab.Size,
		},
	}

	if slab.Data != nil {
		slice.Data = sliceBytes(slab.Data, offset, size)
		slice.Coherent = slab.Coherent
	}

	outEnd := offset + size
	slab.Regions = insertRegion(slab.Regions, region{start: reg.start, end: offset})
	slab.Regions = insertRegion(slab.Regions, region{start: outEnd, end: reg.end})
	slab.Used += size

	return slice, nil
}

// Alloc is the generic allocation entry point: it finds or creates a
// heap matching flags/handleType and carves reqs.Size bytes out of it
// at reqs.Alignment.
func (a *Allocator) Alloc(flags MemoryPropertyFlags, handleType HandleType, reqs MemoryRequirements) (*Slice, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	heap := a.FindHeap(0, flags, handleType, &reqs)
	return a.sliceHeap(heap, reqs.Size, reqs.Alignment)
}

// AllocBuffer allocates memory backed by a Driver buffer of the given
// usage, returning a Slice whose Buffer field is populated.
func (a *Allocator) AllocBuffer(usage BufferUsageFlags, flags MemoryPropertyFlags, size, alignment uint64, handleType HandleType) (*Slice, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	heap := a.FindHeap(usage, flags, handleType, nil)
	return a.sliceHeap(heap, size, alignment)
}

// Free releases slice back to its owning slab: a dedicated slab is
// freed outright, otherwise the slice's range rejoins the slab's free
// region list.
func (a *Allocator) Free(slice *Slice) {
	if slice == nil || slice.slab == nil {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	slab := slice.slab
	slab.Used -= slice.Size

	if slab.Dedicated {
		slab.free(a.driver)
		return
	}

	slab.Regions = insertRegion(slab.Regions, region{start: slice.Offset, end: slice.Offset + slice.Size})
}

// Import wraps externally-owned memory described by shared (an
// already-exported handle plus its full size) as a dedicated,
// imported Slice. Only dma-buf and host-pointer handles can be
// imported; fd, Win32, and Win32 KMT handles are accepted for export
// but not import, matching the original driver's support matrix.
func (a *Allocator) Import(handleType HandleType, reqs MemoryRequirements, shared SharedMem) (*Slice, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if reqs.Size > shared.Size {
		return nil, fmt.Errorf("%w: imported object requires memory larger than the provided size", ErrOutOfDeviceMemory)
	}

	Logger().Debug("importing memory", "handleType", handleType, "size", shared.Size)

	typeBits := reqs.MemoryTypeBits

	var importHandle Handle
	switch handleType {
	case HandleDMABuf:
		fd, err := dupFD(shared.Handle.FD)
		if err != nil {
			return nil, fmt.Errorf("dup fd when importing memory: %w", err)
		}
		importHandle = Handle{Type: handleType, FD: fd}
	case HandleHostPtr:
		align := a.driver.HostPointerAlignment()
		ptrBits := uint64(uintptr(shared.Handle.Ptr))
		if align != 0 && alignUp(ptrBits, align) != ptrBits {
			return nil, fmt.Errorf("imported host pointer does not adhere to the required alignment of %d bytes", align)
		}
		importHandle = shared.Handle
	default:
		return nil, fmt.Errorf("%w: vk_malloc_import: unsupported handle type %s", ErrHandleUnsupported, handleType)
	}

	bitmask, err := a.driver.ImportMemoryTypeBits(handleType, importHandle)
	if err != nil {
		if handleType == HandleDMABuf {
			importHandle.Close()
		}
		return nil, err
	}
	typeBits &= bitmask

	index := firstSetBit(typeBits)
	if index < 0 {
		if handleType == HandleDMABuf {
			importHandle.Close()
		}
		return nil, fmt.Errorf("%w: no compatible memory types offered for imported memory", ErrOutOfDeviceMemory)
	}

	mem, err := a.driver.AllocateMemory(index, shared.Size, HandleNone)
	if err != nil {
		if handleType == HandleDMABuf {
			importHandle.Close()
		}
		return nil, fmt.Errorf("%w: %v", ErrOutOfDeviceMemory, err)
	}

	slab := &Slab{
		Memory:     mem,
		Dedicated:  true,
		Imported:   true,
		Size:       shared.Size,
		Used:       shared.Size,
		HandleType: handleType,
		Handle:     importHandle,
	}

	memType := a.driver.MemoryTypes()[index]
	if memType.PropertyFlags&MemoryHostVisible != 0 {
		ptr, coherent, err := a.driver.MapMemory(mem)
		if err != nil {
			a.driver.FreeMemory(mem)
			if handleType == HandleDMABuf {
				importHandle.Close()
			}
			return nil, fmt.Errorf("%w: mapping imported memory: %v", ErrOutOfDeviceMemory, err)
		}
		slab.Data = ptr
		slab.Coherent = coherent
	}

	slice := &Slice{
		Memory:    mem,
		Offset:    shared.Offset,
		Size:      shared.Size,
		slab:      slab,
		SharedMem: shared,
	}
	if slab.Data != nil {
		slice.Data = sliceBytes(slab.Data, shared.Offset, shared.Size)
		slice.Coherent = slab.Coherent
	}

	return slice, nil
}

// HandleCapSet is a bitset of HandleType values an Allocator's Driver
// supports for export (importing == false) or import (importing == true).
type HandleCapSet uint32

// Has reports whether t is set in c.
func (c HandleCapSet) Has(t HandleType) bool {
	return c&(1<<uint(t)) != 0
}

// HandleCaps probes every known external handle type with the
// allocator's Driver.ImportCheck and returns the ones it supports. No
// buffer usage is passed; what the probe tests is up to the Driver.
func (a *Allocator) HandleCaps(importing bool) HandleCapSet {
	var caps HandleCapSet
	for _, t := range []HandleType{HandleFD, HandleDMABuf, HandleWin32, HandleWin32KMT, HandleHostPtr} {
		if a.driver.ImportCheck(t, importing) {
			caps |= 1 << uint(t)
		}
	}
	return caps
}

func firstSetBit(x uint32) int {
	if x == 0 {
		return -1
	}
	return bits.TrailingZeros32(x)
}

func alignUp(x, align uint64) uint64 {
	if align == 0 {
		return x
	}
	return (x + align - 1) &^ (align - 1)
}

func gcd(a, b uint64) uint64 {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func lcm(a, b uint64) uint64 {
	if a == 0 {
		return b
	}
	if b == 0 {
		return a
	}
	return a / gcd(a, b) * b
}

func maxU64(a, b uint64) uint64 {
	if a > b {
		return a
	}
	return b
}

func clampU64(x, lo, hi uint64) uint64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func sliceBytes(base unsafe.Pointer, offset, size uint64) []byte {
	return unsafe.Slice((*byte)(unsafe.Add(base, uintptr(offset))), size)
}
