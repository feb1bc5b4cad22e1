//go:build windows

// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package suballoc

import "golang.org/x/sys/windows"

// closeWin32 closes an owned Win32 handle. 0 is the sentinel for
// "nothing to close".
func closeWin32(h uintptr) {
	if h != 0 {
		_ = windows.CloseHandle(windows.Handle(h))
	}
}

// closeFD is a no-op on Windows builds; UNIX fd handles never appear
// here.
func closeFD(int) {}

// dupFD is unsupported on Windows: fd/dma-buf import only applies to
// UNIX builds.
func dupFD(fd int) (int, error) {
	return -1, ErrHandleUnsupported
}
