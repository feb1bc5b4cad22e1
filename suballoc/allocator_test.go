// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package suballoc

import (
	"testing"
	"unsafe"
)

func newTestAllocator() (*Allocator, *fakeDriver) {
	d := newFakeDriver()
	return NewAllocator(d), d
}

// TestBestFitSplit is seed scenario 1: three free regions of differing
// size are candidates for a request; the smallest one that still fits
// must be chosen, and the unused head/tail split back into the free
// list (too-small remainders get dropped).
func TestBestFitSplit(t *testing.T) {
	a, d := newTestAllocator()
	mem, _ := d.AllocateMemory(0, 10000, HandleNone)
	slab := &Slab{
		Memory: mem,
		Size:   10000,
		Regions: []region{
			{start: 0, end: 500},
			{start: 1000, end: 1400},
			{start: 2000, end: 3000},
		},
	}
	heap := &Heap{Slabs: []*Slab{slab}}
	a.heaps = []*Heap{heap}

	slice, err := a.sliceHeap(heap, 300, 1)
	if err != nil {
		t.Fatalf("sliceHeap: %v", err)
	}

	if slice.Offset != 1000 || slice.Size != 300 {
		t.Fatalf("slice = {Offset:%d Size:%d}, want {1000 300} (best-fit smallest region)", slice.Offset, slice.Size)
	}

	want := []region{{start: 0, end: 500}, {start: 2000, end: 3000}}
	if len(slab.Regions) != len(want) {
		t.Fatalf("Regions = %+v, want %+v", slab.Regions, want)
	}
	for i := range want {
		if slab.Regions[i] != want[i] {
			t.Errorf("Regions[%d] = %+v, want %+v (the 100-byte tail remainder is below minRegionSize and must be dropped)", i, slab.Regions[i], want[i])
		}
	}

	if slab.Used != 300 {
		t.Errorf("Used = %d, want 300", slab.Used)
	}
	checkInvariants(t, slab.Regions)
}

// TestDedicatedPath is seed scenario 3: a request larger than
// maxSlabSize must get its own dedicated slab, outside the heap's
// normal slab list, with exactly one slice and zero free regions.
func TestDedicatedPath(t *testing.T) {
	a, _ := newTestAllocator()

	slice, err := a.Alloc(0, HandleNone, MemoryRequirements{
		Size:           maxSlabSize + 1,
		Alignment:      1,
		MemoryTypeBits: ^uint32(0),
	})
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}

	heap := a.heaps[0]
	if len(heap.Slabs) != 0 {
		t.Errorf("a dedicated slab must not be tracked in heap.Slabs, got %d entries", len(heap.Slabs))
	}
	if !slice.slab.Dedicated {
		t.Fatalf("slab.Dedicated = false, want true")
	}
	if len(slice.slab.Regions) != 0 {
		t.Errorf("a dedicated slab must have zero free regions, got %+v", slice.slab.Regions)
	}
	if slice.slab.Used != slice.slab.Size {
		t.Errorf("Used = %d, want == Size (%d) for a dedicated slab", slice.slab.Used, slice.slab.Size)
	}

	a.Free(slice)
}

// TestAccountingInvariant checks that used + sum(free region lengths)
// never exceeds slab size across a sequence of allocs and frees, and
// that a fully-freed slab returns to a single all-encompassing region.
func TestAccountingInvariant(t *testing.T) {
	a, _ := newTestAllocator()

	var slices []*Slice
	for i := 0; i < 8; i++ {
		s, err := a.Alloc(0, HandleNone, MemoryRequirements{Size: 4096, Alignment: 1, MemoryTypeBits: ^uint32(0)})
		if err != nil {
			t.Fatalf("Alloc %d: %v", i, err)
		}
		slices = append(slices, s)
	}

	heap := a.heaps[0]
	slab := heap.Slabs[0]
	checkAccounting(t, slab)

	// Free every other slice, then the rest, exercising coalescing.
	for i := 0; i < len(slices); i += 2 {
		a.Free(slices[i])
		checkAccounting(t, slab)
	}
	for i := 1; i < len(slices); i += 2 {
		a.Free(slices[i])
		checkAccounting(t, slab)
	}

	if slab.Used != 0 {
		t.Errorf("Used = %d, want 0 after freeing every slice", slab.Used)
	}
	if len(slab.Regions) != 1 || slab.Regions[0] != (region{start: 0, end: slab.Size}) {
		t.Errorf("Regions = %+v, want a single region spanning the whole slab", slab.Regions)
	}
}

func checkAccounting(t *testing.T, slab *Slab) {
	t.Helper()
	checkInvariants(t, slab.Regions)

	var free uint64
	for _, r := range slab.Regions {
		free += r.len()
	}
	if slab.Used+free > slab.Size {
		t.Fatalf("Used (%d) + free (%d) exceeds slab Size (%d)", slab.Used, free, slab.Size)
	}
}

func TestAllocBufferReturnsBuffer(t *testing.T) {
	a, _ := newTestAllocator()
	slice, err := a.AllocBuffer(1, 0, 1024, 1, HandleNone)
	if err != nil {
		t.Fatalf("AllocBuffer: %v", err)
	}
	if slice.Buffer == nil {
		t.Errorf("AllocBuffer did not populate Slice.Buffer")
	}
}

func TestAllocHostVisibleMapsData(t *testing.T) {
	a, _ := newTestAllocator()
	slice, err := a.Alloc(MemoryHostVisible, HandleNone, MemoryRequirements{Size: 64, Alignment: 1, MemoryTypeBits: ^uint32(0)})
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if slice.Data == nil {
		t.Fatalf("Data = nil for a host-visible allocation")
	}
	if len(slice.Data) != 64 {
		t.Errorf("len(Data) = %d, want 64", len(slice.Data))
	}
	slice.Data[0] = 0xAB
	if slice.Data[0] != 0xAB {
		t.Errorf("write to Data did not persist")
	}
}

func TestAllocOutOfMemoryPropagates(t *testing.T) {
	a, d := newTestAllocator()
	d.failAllocate = true
	_, err := a.Alloc(0, HandleNone, MemoryRequirements{Size: 1024, Alignment: 1, MemoryTypeBits: ^uint32(0)})
	if err == nil {
		t.Fatal("Alloc succeeded despite a failing Driver.AllocateMemory")
	}
}

// TestImportHostPtr imports host-pointer-backed memory and checks the
// resulting Slice mirrors the shared size/offset, without touching any
// real OS fd (dma-buf import dup()s a real fd and is exercised only on
// a genuine UNIX fd in integration settings, not here).
func TestImportHostPtr(t *testing.T) {
	d := newFakeDriver()
	d.hostPtrAlign = 1 // the test buffer's address isn't guaranteed 16-byte aligned
	a := NewAllocator(d)

	backing := make([]byte, 256)
	shared := SharedMem{
		Handle: Handle{Type: HandleHostPtr, Ptr: unsafe.Pointer(&backing[0])},
		Offset: 0,
		Size:   256,
	}

	slice, err := a.Import(HandleHostPtr, MemoryRequirements{Size: 256, MemoryTypeBits: ^uint32(0)}, shared)
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	if !slice.slab.Dedicated || !slice.slab.Imported {
		t.Errorf("imported slice's slab should be Dedicated and Imported, got %+v", slice.slab)
	}
	if slice.Size != 256 {
		t.Errorf("Size = %d, want 256", slice.Size)
	}
}

func TestImportRejectsOversizedRequirements(t *testing.T) {
	a, _ := newTestAllocator()
	backing := make([]byte, 64)
	shared := SharedMem{
		Handle: Handle{Type: HandleHostPtr, Ptr: unsafe.Pointer(&backing[0])},
		Size:   64,
	}

	_, err := a.Import(HandleHostPtr, MemoryRequirements{Size: 128, MemoryTypeBits: ^uint32(0)}, shared)
	if err == nil {
		t.Fatal("Import should fail when reqs.Size exceeds shared.Size")
	}
}

func TestImportRejectsUnsupportedHandleType(t *testing.T) {
	a, _ := newTestAllocator()
	_, err := a.Import(HandleWin32, MemoryRequirements{Size: 16, MemoryTypeBits: ^uint32(0)}, SharedMem{Size: 16})
	if err == nil {
		t.Fatal("Import should reject a Win32 handle (only dma-buf and host-ptr are importable)")
	}
}

func TestHandleCaps(t *testing.T) {
	a, _ := newTestAllocator()
	caps := a.HandleCaps(false)
	if !caps.Has(HandleDMABuf) {
		t.Errorf("HandleCaps(false).Has(HandleDMABuf) = false, want true")
	}
	if caps.Has(HandleWin32) {
		t.Errorf("HandleCaps(false).Has(HandleWin32) = true, want false")
	}
}

func TestFindHeapReusesMatchingSignature(t *testing.T) {
	a, _ := newTestAllocator()
	h1 := a.FindHeap(1, MemoryHostVisible, HandleNone, nil)
	h2 := a.FindHeap(1, MemoryHostVisible, HandleNone, nil)
	if h1 != h2 {
		t.Errorf("FindHeap returned different heaps for an identical signature")
	}
	h3 := a.FindHeap(2, MemoryHostVisible, HandleNone, nil)
	if h1 == h3 {
		t.Errorf("FindHeap returned the same heap for a different usage")
	}
}
