// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package tonemap

// mapLUT applies fixed's curve to lut in place. fixed must already be the
// output of fixParams (native scaling, clamped param).
func mapLUT(lut []float32, fixed *Params) {
	if fixed.OutputMax > fixed.InputMax+1e-4 {
		// Inverse tone-mapping.
		if fixed.Function.MapInverse != nil {
			fixed.Function.MapInverse(lut, fixed)
			return
		}
		// No inverse available: naive linear-stretched black point
		// compensation only.
		for i, x := range lut {
			x -= fixed.InputMin
			x *= (fixed.InputMax - fixed.OutputMin) / (fixed.InputMax - fixed.InputMin)
			x += fixed.OutputMin
			lut[i] = x
		}
		return
	}

	// Forward tone-mapping.
	fixed.Function.Map(lut, fixed)
}

// Generate fills out with params.LUTSize samples evenly spaced across
// [InputMin, InputMax] in the caller's input scaling, applies the
// resolved curve, and converts the result back to the caller's output
// scaling. len(out) must equal params.LUTSize.
func Generate(out []float32, params *Params) {
	fixed := fixParams(params)

	n := params.LUTSize
	for i := 0; i < n; i++ {
		t := float32(i) / float32(n-1)
		x := lerp(params.InputMin, params.InputMax, t)
		out[i] = Rescale(params.InputScaling, fixed.Function.Scaling, x)
	}

	mapLUT(out, &fixed)

	for i, x := range out {
		x = clamp(x, fixed.OutputMin, fixed.OutputMax)
		out[i] = Rescale(fixed.Function.Scaling, params.OutputScaling, x)
	}
}

// Sample evaluates the tone-mapping curve at a single point x, given in
// the caller's input scaling, and returns the result in the caller's
// output scaling. It applies the same per-sample steps as Generate to x,
// after clamping x to [InputMin, InputMax].
func Sample(x float32, params *Params) float32 {
	fixed := fixParams(params)
	fixed.LUTSize = 1

	x = clamp(x, params.InputMin, params.InputMax)
	x = Rescale(params.InputScaling, fixed.Function.Scaling, x)

	lut := [1]float32{x}
	mapLUT(lut[:], &fixed)
	x = lut[0]

	x = clamp(x, fixed.OutputMin, fixed.OutputMax)
	return Rescale(fixed.Function.Scaling, params.OutputScaling, x)
}
