// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

// Package tonemap implements dimensionless HDR rescaling and a library of
// tone-mapping curves used to compress or expand a signal between two
// luminance ranges.
//
// Every value the package operates on is one of four interchangeable
// encodings (see [Scaling]); converting between them is always routed
// through [Rescale].
package tonemap

import "github.com/chewxy/math32"

// Scaling identifies an HDR luminance encoding.
type Scaling int

const (
	// Norm is display-relative linear light, where 1.0 means SDR white.
	Norm Scaling = iota
	// Sqrt is the square root of Norm, used to give low-end values more
	// precision in a fixed-point LUT.
	Sqrt
	// Nits is absolute luminance in candela per square meter (cd/m²).
	Nits
	// PQ is the SMPTE ST 2084 perceptual quantizer, normalized to [0, 1].
	PQ
)

// sdrWhite is the nits value that Norm==1.0 corresponds to.
const sdrWhite = 203.0

// PQ (SMPTE ST 2084) constants.
const (
	pqM1 = 2610.0 / 16384.0
	pqM2 = 128.0 * 2523.0 / 4096.0
	pqC1 = 3424.0 / 4096.0
	pqC2 = 32.0 * 2413.0 / 4096.0
	pqC3 = 32.0 * 2392.0 / 4096.0
)

// Rescale converts x from the from encoding to the to encoding.
//
// It is the identity whenever from == to or x == 0, and otherwise always
// routes through Norm as an intermediate representation.
func Rescale(from, to Scaling, x float32) float32 {
	if from == to || x == 0 {
		return x
	}

	switch from {
	case PQ:
		x = math32.Pow(x, 1.0/pqM2)
		x = math32.Max(x-pqC1, 0) / (pqC2 - pqC3*x)
		x = math32.Pow(x, 1.0/pqM1)
		x *= 10000.0
		x /= sdrWhite
	case Nits:
		x /= sdrWhite
	case Sqrt:
		x *= x
	case Norm:
		// already in Norm
	}

	switch to {
	case Norm:
		return x
	case Sqrt:
		return math32.Sqrt(x)
	case Nits:
		return x * sdrWhite
	case PQ:
		x *= sdrWhite / 10000.0
		x = math32.Pow(x, pqM1)
		x = (pqC1 + pqC2*x) / (1.0 + pqC3*x)
		return math32.Pow(x, pqM2)
	}

	panic("tonemap: unreachable scaling")
}
