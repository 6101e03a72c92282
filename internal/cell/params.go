package cell

import (
	"fmt"

	img "ring-tracer/internal/image"
)

// GaborParams describes the oriented filter bank that enhances fibrous
// cytoskeletal structure.
type GaborParams struct {
	KernelSize   int     // Odd kernel width and height
	Sigma        float64 // Gaussian envelope along the wave
	Lambda       float64 // Wavelength of the sinusoid
	Gamma        float64 // Spatial aspect ratio
	Orientations int     // Evenly spaced over [0, π)
}

// Params controls cell boundary segmentation.
type Params struct {
	// Threshold is applied to the 8-bit ridge map before blurring.
	Threshold float64

	// Markers seeds the watershed. When nil, seeds are derived from the
	// nuclear channel.
	Markers *img.LabelImage

	Gabor GaborParams

	BlurSize  int // Gaussian kernel size for mask smoothing and seed detection
	ErodeSize int // Square structuring element applied before filtering

	// Percentiles used as black and white points when stretching contrast.
	LowPercentile  float64
	HighPercentile float64
}

// DefaultParams returns default cell segmentation parameters.
func DefaultParams() Params {
	return Params{
		Threshold: 80,
		Gabor: GaborParams{
			KernelSize:   9,
			Sigma:        4,
			Lambda:       6,
			Gamma:        0.5,
			Orientations: 8,
		},
		BlurSize:       31,
		ErodeSize:      3,
		LowPercentile:  2,
		HighPercentile: 98,
	}
}

// WithThreshold returns a copy of params with a different ridge threshold.
func (p Params) WithThreshold(t float64) Params {
	p.Threshold = t
	return p
}

// WithMarkers returns a copy of params that seeds the watershed from the
// given label image, typically the nuclei segmentation.
func (p Params) WithMarkers(markers *img.LabelImage) Params {
	p.Markers = markers
	return p
}

// WithBlurSize returns a copy of params with a different smoothing kernel.
// Even sizes are rounded up to the next odd size.
func (p Params) WithBlurSize(size int) Params {
	if size%2 == 0 {
		size++
	}
	p.BlurSize = size
	return p
}

func (p Params) validate() error {
	g := p.Gabor
	if g.KernelSize < 1 || g.KernelSize%2 == 0 {
		return fmt.Errorf("%w: Gabor kernel size %d must be odd and positive", img.ErrInvalidInput, g.KernelSize)
	}
	if g.Orientations < 1 || g.Sigma <= 0 || g.Lambda <= 0 || g.Gamma <= 0 {
		return fmt.Errorf("%w: Gabor bank sigma=%g lambda=%g gamma=%g with %d orientations",
			img.ErrInvalidInput, g.Sigma, g.Lambda, g.Gamma, g.Orientations)
	}
	if p.BlurSize < 1 || p.BlurSize%2 == 0 {
		return fmt.Errorf("%w: blur size %d must be odd and positive", img.ErrInvalidInput, p.BlurSize)
	}
	if p.ErodeSize < 1 {
		return fmt.Errorf("%w: erode size %d", img.ErrInvalidInput, p.ErodeSize)
	}
	if p.LowPercentile < 0 || p.HighPercentile > 100 || p.LowPercentile >= p.HighPercentile {
		return fmt.Errorf("%w: percentiles [%g, %g]", img.ErrInvalidInput, p.LowPercentile, p.HighPercentile)
	}
	return nil
}
