// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package suballoc

import (
	"fmt"
	"unsafe"
)

// fakeDriver is a minimal in-memory Driver used by this package's
// tests, following the pack's noop-backend convention: every call
// always succeeds (unless explicitly told not to) and keeps just
// enough bookkeeping for the allocator's own logic to be exercised
// without a real GPU.
type fakeDriver struct {
	types []MemoryType

	hostPtrAlign  uint64
	imgGranularity uint64

	nextMem    int
	mem        map[DeviceMemory]uint64
	mapped     map[DeviceMemory][]byte
	nextBuf    int
	bufs       map[Buffer]fakeBufInfo
	exportable map[HandleType]bool
	importable map[HandleType]bool

	// failAllocate, when set, makes AllocateMemory fail once.
	failAllocate bool
}

type fakeBufInfo struct {
	usage BufferUsageFlags
	size  uint64
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		types: []MemoryType{
			{PropertyFlags: 0},
			{PropertyFlags: MemoryHostVisible | MemoryHostCoherent},
		},
		hostPtrAlign:   16,
		imgGranularity: 1,
		mem:            map[DeviceMemory]uint64{},
		bufs:           map[Buffer]fakeBufInfo{},
		exportable:     map[HandleType]bool{HandleDMABuf: true, HandleHostPtr: true},
		importable:     map[HandleType]bool{HandleDMABuf: true, HandleHostPtr: true},
	}
}

func (d *fakeDriver) MemoryTypes() []MemoryType         { return d.types }
func (d *fakeDriver) HostPointerAlignment() uint64      { return d.hostPtrAlign }
func (d *fakeDriver) BufferImageGranularity() uint64    { return d.imgGranularity }

type fakeMemHandle int

func (d *fakeDriver) AllocateMemory(typeIndex int, size uint64, export HandleType) (DeviceMemory, error) {
	if d.failAllocate {
		d.failAllocate = false
		return nil, fmt.Errorf("fake driver: out of memory")
	}
	d.nextMem++
	h := fakeMemHandle(d.nextMem)
	d.mem[h] = size
	return h, nil
}

func (d *fakeDriver) FreeMemory(m DeviceMemory) {
	delete(d.mem, m)
	delete(d.mapped, m)
}

// MapMemory lazily backs m with a real byte slice the first time it is
// mapped, so dedicated allocations that are never host-visible (the
// common case exercised by the oversized/dedicated-slab tests) never
// pay for a large backing array.
func (d *fakeDriver) MapMemory(m DeviceMemory) (unsafe.Pointer, bool, error) {
	size, ok := d.mem[m]
	if !ok {
		return nil, true, fmt.Errorf("fake driver: MapMemory on unknown memory %v", m)
	}
	if d.mapped == nil {
		d.mapped = map[DeviceMemory][]byte{}
	}
	buf, ok := d.mapped[m]
	if !ok {
		buf = make([]byte, size)
		d.mapped[m] = buf
	}
	if len(buf) == 0 {
		return nil, true, nil
	}
	return unsafe.Pointer(&buf[0]), true, nil
}

type fakeBufHandle int

func (d *fakeDriver) CreateBuffer(usage BufferUsageFlags, size uint64, export HandleType) (Buffer, MemoryRequirements, error) {
	d.nextBuf++
	h := fakeBufHandle(d.nextBuf)
	d.bufs[h] = fakeBufInfo{usage: usage, size: size}
	return h, MemoryRequirements{Size: size, Alignment: 1, MemoryTypeBits: ^uint32(0)}, nil
}

func (d *fakeDriver) DestroyBuffer(b Buffer) {
	delete(d.bufs, b)
}

func (d *fakeDriver) BindBufferMemory(Buffer, DeviceMemory, uint64) error {
	return nil
}

func (d *fakeDriver) ExportHandle(m DeviceMemory, handleType HandleType) (Handle, error) {
	if !d.exportable[handleType] {
		return Handle{}, ErrHandleUnsupported
	}
	switch handleType {
	case HandleDMABuf, HandleFD:
		return Handle{Type: handleType, FD: int(m.(fakeMemHandle))}, nil
	default:
		return Handle{Type: handleType}, nil
	}
}

func (d *fakeDriver) ImportCheck(handleType HandleType, importing bool) bool {
	if importing {
		return d.importable[handleType]
	}
	return d.exportable[handleType]
}

func (d *fakeDriver) ImportMemoryTypeBits(handleType HandleType, h Handle) (uint32, error) {
	return ^uint32(0), nil
}
