// Copyright 2025 The GoGPU Authors
// SPDX-License-Identifier: MIT

package tonemap

import "github.com/chewxy/math32"

// Function is a tone-mapping curve: a forward mapping, an optional inverse,
// the Scaling it operates natively in, and the bounds of its single
// parameter.
//
// Values are registered as package-level vars (see the bottom of this
// file) and looked up by name via [FindFunction]; there is no code
// generation, matching spec's "macro-heavy curve library" design note —
// in Go, a flat slice of small value types serves the same purpose.
type Function struct {
	Name        string
	Description string
	Scaling     Scaling
	ParamDesc   string
	ParamMin    float32
	ParamDef    float32
	ParamMax    float32

	// Map applies the forward curve to every element of lut in place.
	Map func(lut []float32, p *Params)

	// MapInverse applies the inverse curve, if one exists.
	MapInverse func(lut []float32, p *Params)
}

// rescaleIn rescales x from input-absolute to input-relative (0 at
// input_min, 1 at input_max).
func rescaleIn(x float32, p *Params) float32 {
	return (x - p.InputMin) / (p.InputMax - p.InputMin)
}

// rescale rescales x from input-absolute to output-relative.
func rescale(x float32, p *Params) float32 {
	return (x - p.InputMin) / (p.OutputMax - p.OutputMin)
}

// rescaleOut rescales x from output-relative to output-absolute.
func rescaleOut(x float32, p *Params) float32 {
	return x*(p.OutputMax-p.OutputMin) + p.OutputMin
}

func bt1886EOTF(x, min, max float32) float32 {
	lb := math32.Pow(min, 1/2.4)
	lw := math32.Pow(max, 1/2.4)
	return math32.Pow((lw-lb)*x+lb, 2.4)
}

func bt1886OETF(x, min, max float32) float32 {
	lb := math32.Pow(min, 1/2.4)
	lw := math32.Pow(max, 1/2.4)
	return (math32.Pow(x, 1/2.4) - lb) / (lw - lb)
}

func noopMap(lut []float32, p *Params) {}

func mapBT2390(lut []float32, p *Params) {
	minLum := rescaleIn(p.OutputMin, p)
	maxLum := rescaleIn(p.OutputMax, p)
	offset := p.Param
	ks := (1+offset)*maxLum - offset
	bp := float32(4)
	if minLum > 0 {
		bp = math32.Min(1/minLum, 4)
	}
	gainInv := 1 + minLum/maxLum*math32.Pow(1-maxLum, bp)
	gain := float32(1)
	if maxLum < 1 {
		gain = 1 / gainInv
	}

	for i, x := range lut {
		x = rescaleIn(x, p)

		if ks < 1 {
			tb := (x - ks) / (1 - ks)
			tb2 := tb * tb
			tb3 := tb2 * tb
			pb := (2*tb3-3*tb2+1)*ks +
				(tb3-2*tb2+tb)*(1-ks) +
				(-2*tb3+3*tb2)*maxLum
			if x >= ks {
				x = pb
			}
		}

		if x < 1 {
			x += minLum * math32.Pow(1-x, bp)
			x = gain*(x-minLum) + minLum
		}

		lut[i] = x*(p.InputMax-p.InputMin) + p.InputMin
	}
}

func mapBT2446a(lut []float32, p *Params) {
	phdr := 1 + 32*math32.Pow(p.InputMax/10000, 1/2.4)
	psdr := 1 + 32*math32.Pow(p.OutputMax/10000, 1/2.4)

	for i, x := range lut {
		x = math32.Pow(rescaleIn(x, p), 1/2.4)
		x = math32.Log(1+(phdr-1)*x) / math32.Log(phdr)

		switch {
		case x <= 0.7399:
			x = 1.0770 * x
		case x < 0.9909:
			x = (-1.1510*x+2.7811)*x - 0.6302
		default:
			x = 0.5*x + 0.5
		}

		x = (math32.Pow(psdr, x) - 1) / (psdr - 1)
		lut[i] = bt1886EOTF(x, p.OutputMin, p.OutputMax)
	}
}

func mapBT2446aInverse(lut []float32, p *Params) {
	for i, x := range lut {
		x = bt1886OETF(x, p.InputMin, p.InputMax)
		x *= 255.0
		if x > 70 {
			x = math32.Pow(x, (2.8305e-6*x-7.4622e-4)*x+1.2528)
		} else {
			x = math32.Pow(x, (1.8712e-5*x-2.7334e-3)*x+1.3141)
		}
		x = math32.Pow(x/1000, 2.4)
		lut[i] = rescaleOut(x, p)
	}
}

func mapSpline(lut []float32, p *Params) {
	pivot := p.Param
	inMin := p.InputMin - pivot
	inMax := p.InputMax - pivot
	outMin := p.OutputMin - pivot
	outMax := p.OutputMax - pivot

	// Solve P of order 2 for: P(in_min)=out_min, P'(0)=1, P(0)=0.
	pa := (outMin - inMin) / (inMin * inMin)

	// Solve Q of order 3 for: Q(in_max)=out_max, Q''(in_max)=0, Q(0)=0, Q'(0)=1.
	t := 2 * inMax * inMax
	qa := (inMax - outMax) / (inMax * t)
	qb := -3 * (inMax - outMax) / t

	for i, x := range lut {
		x -= pivot
		if x > 0 {
			x = ((qa*x+qb)*x + 1) * x
		} else {
			x = (pa*x + 1) * x
		}
		lut[i] = x + pivot
	}
}

func mapReinhard(lut []float32, p *Params) {
	peak := rescale(p.InputMax, p)
	contrast := p.Param
	offset := (1.0 - contrast) / contrast
	scale := (peak + offset) / peak

	for i, x := range lut {
		x = rescale(x, p)
		x = x / (x + offset)
		x *= scale
		lut[i] = rescaleOut(x, p)
	}
}

func mapMobius(lut []float32, p *Params) {
	peak := rescale(p.InputMax, p)
	j := p.Param

	// Solve for M(j)=j, M(peak)=1, M'(j)=1 where M(x) = scale*(x+a)/(x+b).
	a := -j * j * (peak - 1.0) / (j*j - 2.0*j + peak)
	b := (j*j - 2.0*j*peak + peak) / math32.Max(1e-6, peak-1.0)
	scale := (b*b + 2.0*b*j + j*j) / (b - a)

	for i, x := range lut {
		x = rescale(x, p)
		if x > j {
			x = scale * (x + a) / (x + b)
		}
		lut[i] = rescaleOut(x, p)
	}
}

func hable(x float32) float32 {
	const a, b, c, d, e, f = 0.15, 0.50, 0.10, 0.20, 0.02, 0.30
	return ((x*(a*x+c*b)+d*e)/(x*(a*x+b)+d*f) - e/f)
}

func mapHable(lut []float32, p *Params) {
	peak := p.InputMax / p.OutputMax
	scale := 1.0 / hable(peak)

	for i, x := range lut {
		x = bt1886OETF(x, p.InputMin, p.InputMax)
		x = bt1886EOTF(x, 0, peak)
		x = scale * hable(x)
		x = bt1886OETF(x, 0, 1)
		lut[i] = bt1886EOTF(x, p.OutputMin, p.OutputMax)
	}
}

func mapGamma(lut []float32, p *Params) {
	peak := rescale(p.InputMax, p)
	cutoff := p.Param
	gamma := math32.Log(cutoff) / math32.Log(cutoff/peak)

	for i, x := range lut {
		x = rescale(x, p)
		if x > cutoff {
			x = math32.Pow(x/peak, gamma)
		}
		lut[i] = rescaleOut(x, p)
	}
}

func mapLinear(lut []float32, p *Params) {
	gain := p.Param

	for i, x := range lut {
		x = rescaleIn(x, p)
		x *= gain
		lut[i] = rescaleOut(x, p)
	}
}

// Registered curves. Auto is a placeholder resolved by fixParams and is
// never itself invoked as a Map/MapInverse.
var (
	Auto = &Function{
		Name:        "auto",
		Description: "Automatic selection",
	}

	Clip = &Function{
		Name:        "clip",
		Description: "No tone mapping (clip)",
		Map:         noopMap,
		MapInverse:  noopMap,
	}

	BT2390 = &Function{
		Name:        "bt2390",
		Description: "ITU-R BT.2390 EETF",
		Scaling:     PQ,
		ParamDesc:   "Knee offset",
		ParamMin:    0.50,
		ParamDef:    1.00,
		ParamMax:    2.00,
		Map:         mapBT2390,
	}

	BT2446a = &Function{
		Name:        "bt2446a",
		Description: "ITU-R BT.2446 Method A",
		Scaling:     Nits,
		Map:         mapBT2446a,
		MapInverse:  mapBT2446aInverse,
	}

	Spline = &Function{
		Name:        "spline",
		Description: "Single-pivot polynomial spline",
		ParamDesc:   "Pivot point",
		ParamMin:    0.15, // ~1 nits
		ParamDef:    0.30, // ~10 nits
		ParamMax:    0.50, // ~100 nits
		Scaling:     PQ,
		Map:         mapSpline,
		MapInverse:  mapSpline,
	}

	Reinhard = &Function{
		Name:        "reinhard",
		Description: "Reinhard",
		ParamDesc:   "Contrast",
		ParamMin:    0.001,
		ParamDef:    0.50,
		ParamMax:    0.99,
		Map:         mapReinhard,
	}

	Mobius = &Function{
		Name:        "mobius",
		Description: "Mobius",
		ParamDesc:   "Knee point",
		ParamMin:    0.00,
		ParamDef:    0.30,
		ParamMax:    0.99,
		Map:         mapMobius,
	}

	Hable = &Function{
		Name:        "hable",
		Description: "Filmic tone-mapping (Hable)",
		Map:         mapHable,
	}

	Gamma = &Function{
		Name:        "gamma",
		Description: "Gamma function with knee",
		ParamDesc:   "Knee point",
		ParamMin:    0.001,
		ParamDef:    0.50,
		ParamMax:    1.00,
		Map:         mapGamma,
	}

	Linear = &Function{
		Name:        "linear",
		Description: "Perceptually linear stretch",
		ParamDesc:   "Exposure",
		ParamMin:    0.001,
		ParamDef:    1.00,
		ParamMax:    10.0,
		Scaling:     PQ,
		Map:         mapLinear,
		MapInverse:  mapLinear,
	}
)

// Functions lists every registered curve, in registration order. Auto is
// included since callers may want to present it as a selectable option.
var Functions = []*Function{
	Auto, Clip, BT2390, BT2446a, Spline, Reinhard, Mobius, Hable, Gamma, Linear,
}

// FindFunction looks up a registered curve by name. It returns nil if no
// curve with that name is registered.
func FindFunction(name string) *Function {
	for _, f := range Functions {
		if f.Name == name {
			return f
		}
	}
	return nil
}
