package centrosome

import (
	"fmt"

	img "ring-tracer/internal/image"
)

// Params controls blob detection. Sigmas are in pixels; the threshold
// applies to the scale-normalized response of the [0, 1] image.
type Params struct {
	MinSigma  float64
	MaxSigma  float64
	NumSigma  int     // Scales sampled evenly between MinSigma and MaxSigma
	Threshold float64 // Minimum response for a peak to count
	Overlap   float64 // Fraction of the smaller blob's area above which it is dropped
}

// DefaultParams returns parameters tuned for sub-resolution centrosome
// spots.
func DefaultParams() Params {
	return Params{
		MinSigma:  0.05,
		MaxSigma:  1,
		NumSigma:  10,
		Threshold: 0.1,
		Overlap:   0.5,
	}
}

// WithMaxSigma returns a copy of params with a different largest scale.
func (p Params) WithMaxSigma(sigma float64) Params {
	p.MaxSigma = sigma
	return p
}

// WithThreshold returns a copy of params with a different response threshold.
func (p Params) WithThreshold(t float64) Params {
	p.Threshold = t
	return p
}

func (p Params) validate() error {
	if p.NumSigma < 1 || p.MinSigma <= 0 || p.MaxSigma < p.MinSigma {
		return fmt.Errorf("%w: sigma range [%g, %g] with %d scales",
			img.ErrInvalidInput, p.MinSigma, p.MaxSigma, p.NumSigma)
	}
	return nil
}

// sigmas returns NumSigma scales evenly spaced from MinSigma to MaxSigma.
func (p Params) sigmas() []float64 {
	if p.NumSigma == 1 {
		return []float64{p.MinSigma}
	}
	out := make([]float64, p.NumSigma)
	step := (p.MaxSigma - p.MinSigma) / float64(p.NumSigma-1)
	for i := range out {
		out[i] = p.MinSigma + float64(i)*step
	}
	return out
}
