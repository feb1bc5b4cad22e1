// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package ra implements a backend-agnostic Rendering Abstraction: the
// validation layer every concrete GPU driver sits beneath.
//
// A ra.Device wraps a [github.com/gogpu/ra/ra/backend.Backend] and a
// capability block ([backend.Limits]), and exposes the public surface —
// format lookup, texture and buffer lifecycle, shader-variable layout
// math, render-pass creation and execution, and a reusable transfer
// buffer pool. Every exported method validates its arguments before
// delegating to the backend; a documented precondition violation is
// treated as a programming bug and panics (see errors.go), never as a
// recoverable error.
//
// # Resource Lifecycle
//
// Textures, buffers, and render passes are each owned by the slot that
// created them. Destroy* functions take that slot by reference and clear
// it, matching the "recreate in place" pattern used throughout this
// package: RecreateTexture keeps the existing texture when new params
// are identical to the ones it was created with, and otherwise destroys
// and recreates in one step.
//
// # Thread Safety
//
// A Device and everything it owns assumes external serialization by the
// caller; no internal lock is held across a backend call.
package ra
