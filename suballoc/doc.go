// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package suballoc implements a device-memory sub-allocator that sits
// beneath a GPU backend: it carves caller-requested byte ranges out of
// a small number of larger slab allocations, coalescing freed ranges
// back together and growing new slabs on demand.
//
// The allocator never talks to a GPU API directly. It is driven
// entirely through the Driver interface, which the caller implements
// against whatever backend actually owns the device (Vulkan, D3D12,
// Metal, ...). This keeps suballoc backend-agnostic and lets tests
// supply an in-memory fake Driver instead of a real GPU.
//
// Resource Lifecycle
//
// An Allocator owns zero or more Heaps, each grouping Slabs that share
// the same usage/property/type-bits/handle-type signature. Slices
// returned by Alloc/AllocBuffer/Import must eventually be passed to
// Free. Dedicated slabs (oversized or imported allocations) hold
// exactly one Slice and are freed as a unit.
//
// Thread Safety
//
// An Allocator serializes its own bookkeeping with an internal mutex,
// but Driver calls it makes are not themselves guaranteed safe for
// concurrent use unless the supplied Driver implementation is.
package suballoc
