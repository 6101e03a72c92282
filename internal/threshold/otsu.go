// Package threshold provides global threshold selection and intensity
// rescaling for single-channel images.
package threshold

import (
	"fmt"

	img "ring-tracer/internal/image"
)

// Otsu returns the global threshold that maximizes the between-class
// variance of the channel's histogram. The histogram has one bin per
// integer sample between the channel's minimum and maximum. The returned
// value is the lowest sample of the upper class, so pixels at or above it
// form the foreground.
//
// A constant channel has no threshold and yields ErrDegenerateInput.
func Otsu(ch *img.Channel) (float64, error) {
	if err := ch.Validate(); err != nil {
		return 0, err
	}

	if ch.IsConstant() {
		return 0, fmt.Errorf("%w: otsu on constant image (value %d)", img.ErrDegenerateInput, ch.Pix[0])
	}

	lo, hi := ch.Pix[0], ch.Pix[0]
	for _, v := range ch.Pix {
		if v < lo {
			lo = v
		}
		if v > hi {
			hi = v
		}
	}

	// Build histogram
	hist := make([]int, int(hi-lo)+1)
	for _, v := range ch.Pix {
		hist[v-lo]++
	}
	total := len(ch.Pix)

	var sum float64
	for i, n := range hist {
		sum += float64(i) * float64(n)
	}

	var sumB float64
	var wB, wF int
	var maxVar float64
	best := 0

	for t := 0; t < len(hist)-1; t++ {
		wB += hist[t]
		sumB += float64(t) * float64(hist[t])
		if wB == 0 {
			continue
		}
		wF = total - wB
		if wF == 0 {
			break
		}

		mB := sumB / float64(wB)
		mF := (sum - sumB) / float64(wF)

		// Between-class variance
		variance := float64(wB) * float64(wF) * (mB - mF) * (mB - mF)
		if variance > maxVar {
			maxVar = variance
			best = t
		}
	}

	return float64(int(lo) + best + 1), nil
}

// Binarize returns true for every pixel at or above t.
func Binarize(ch *img.Channel, t float64) []bool {
	out := make([]bool, len(ch.Pix))
	for i, v := range ch.Pix {
		out[i] = float64(v) >= t
	}
	return out
}
