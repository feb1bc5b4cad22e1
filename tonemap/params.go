// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package tonemap

// Params configures a single tone-mapping operation.
type Params struct {
	// Function is the curve to apply. Nil means Clip; Auto means
	// fixParams selects one based on the input/output luminance ratio.
	Function *Function

	// Param is the curve's single free parameter. Zero means "use the
	// curve's default", matching the original's PL_DEF(param, 0) sentinel.
	Param float32

	// InputScaling and OutputScaling are the encodings InputMin/InputMax
	// and OutputMin/OutputMax are expressed in.
	InputScaling  Scaling
	OutputScaling Scaling

	// LUTSize is the number of samples Generate should produce.
	LUTSize int

	InputMin, InputMax   float32
	OutputMin, OutputMax float32
}

// Equal reports whether a and b describe the identical operation,
// field-wise.
func Equal(a, b *Params) bool {
	return a.Function == b.Function &&
		a.Param == b.Param &&
		a.InputScaling == b.InputScaling &&
		a.OutputScaling == b.OutputScaling &&
		a.LUTSize == b.LUTSize &&
		a.InputMin == b.InputMin &&
		a.InputMax == b.InputMax &&
		a.OutputMin == b.OutputMin &&
		a.OutputMax == b.OutputMax
}

// NoOp reports whether applying p would have no visible effect: the black
// points coincide, there is no range reduction, and either there is no
// range expansion or the curve has no inverse to perform one with.
func NoOp(p *Params) bool {
	inMin := Rescale(p.InputScaling, Nits, p.InputMin)
	inMax := Rescale(p.InputScaling, Nits, p.InputMax)
	outMin := Rescale(p.OutputScaling, Nits, p.OutputMin)
	outMax := Rescale(p.OutputScaling, Nits, p.OutputMax)

	diff := inMin - outMin
	if diff < 0 {
		diff = -diff
	}

	return diff < 1e-4 && // no black-point compensation
		inMax < outMax+1e-2 && // no range reduction
		(outMax < inMax+1e-2 || p.Function == nil || p.Function.MapInverse == nil)
}

func clamp(x, lo, hi float32) float32 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func lerp(lo, hi, t float32) float32 {
	return lo + t*(hi-lo)
}

// fixParams canonicalizes p: resolves a nil/Auto function to a concrete
// curve, defaults Param, clamps it to the curve's range, and converts
// every endpoint into the curve's native scaling.
func fixParams(p *Params) Params {
	fn := p.Function
	if fn == nil {
		fn = Clip
	}
	param := p.Param
	if param == 0 {
		param = fn.ParamDef
	}

	if fn == Auto {
		srcMax := Rescale(p.InputScaling, Norm, p.InputMax)
		dstMax := Rescale(p.OutputScaling, Norm, p.OutputMax)
		ratio := srcMax / dstMax

		switch {
		case ratio > 10:
			// Extreme reduction: spline for its quasi-linear behavior.
			fn = Spline
		case max32(ratio, 1/ratio) > 2:
			// Reasonably ranged HDR<->SDR conversion: BT.2446a was
			// designed for exactly this.
			fn = BT2446a
		case ratio < 1:
			// Small-range inverse tone mapping: spline, since BT.2446a
			// distorts colors too much.
			fn = Spline
		default:
			// Small-range (near no-op) conversion: BT.2390 has the best
			// asymptotic (near-linear) behavior.
			fn = BT2390
		}
		param = fn.ParamDef
	}

	return Params{
		Function:      fn,
		Param:         clamp(param, fn.ParamMin, fn.ParamMax),
		LUTSize:       p.LUTSize,
		InputScaling:  fn.Scaling,
		OutputScaling: fn.Scaling,
		InputMin:      Rescale(p.InputScaling, fn.Scaling, p.InputMin),
		InputMax:      Rescale(p.InputScaling, fn.Scaling, p.InputMax),
		OutputMin:     Rescale(p.OutputScaling, fn.Scaling, p.OutputMin),
		OutputMax:     Rescale(p.OutputScaling, fn.Scaling, p.OutputMax),
	}
}

func max32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}
