// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package ra

import "github.com/gogpu/ra/ra/backend"

// FindFormat performs a linear scan over the device's format table and
// returns the first entry whose type, component count, every per-
// component bit depth, and capability set satisfy the query. If
// regular is true, only formats for which [backend.Format.Regular]
// holds are considered. It returns nil if nothing matches.
func (d *Device) FindFormat(typ backend.ComponentType, numComponents int, depth []int, regular bool, caps backend.Caps) *backend.Format {
	if len(depth) != numComponents {
		fatalf("FindFormat", "depth has %d entries, want exactly numComponents (%d)", len(depth), numComponents)
	}

	for _, f := range d.limits.Formats {
		if f.Type != typ || f.NumComponents != numComponents {
			continue
		}
		if !f.Caps.Has(caps) {
			continue
		}
		if regular && !f.Regular() {
			continue
		}
		match := true
		for i := 0; i < numComponents; i++ {
			if f.ComponentDepth[i] != depth[i] {
				match = false
				break
			}
		}
		if match {
			return f
		}
	}
	Logger().Debug("no matching format found", "type", typ, "numComponents", numComponents, "regular", regular)
	return nil
}

// hostTypeBits maps a vertex-format semantic type to the bit depth of
// its natural host representation (8*sizeof(host type)).
func hostTypeBits(typ backend.ComponentType) int {
	switch typ {
	case backend.Float, backend.UInt, backend.SInt:
		return 32
	default: // UNorm, SNorm: commonly backed by a normalized byte
		return 8
	}
}

// FindVertexFormat is a shortcut over FindFormat fixing every component
// depth to the host type's natural width and requiring CapVertex.
func (d *Device) FindVertexFormat(typ backend.ComponentType, numComponents int) *backend.Format {
	bits := hostTypeBits(typ)
	depth := make([]int, numComponents)
	for i := range depth {
		depth[i] = bits
	}
	return d.FindFormat(typ, numComponents, depth, false, backend.CapVertex)
}

// FindNamedFormat returns the format with an exact name match, or nil.
func (d *Device) FindNamedFormat(name string) *backend.Format {
	for _, f := range d.limits.Formats {
		if f.Name == name {
			return f
		}
	}
	return nil
}
