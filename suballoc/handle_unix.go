//go:build !windows

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package suballoc

import "golang.org/x/sys/unix"

// closeFD closes an owned fd/dma-buf handle. fd == -1 is the sentinel
// for "nothing to close".
func closeFD(fd int) {
	if fd > -1 {
		_ = unix.Close(fd)
	}
}

// dupFD duplicates fd so that importing the same original fd more
// than once is safe: each imported Slice owns its own descriptor.
func dupFD(fd int) (int, error) {
	return unix.Dup(fd)
}

// closeWin32 is a no-op on non-Windows builds; Win32 handles never
// appear here.
func closeWin32(uintptr) {}
