// Package colorutil provides shared overlay colors.
package colorutil

import (
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Fixed overlay colors for highlights and blobs.
var (
	Green  = color.RGBA{R: 0, G: 255, B: 0, A: 255}
	Yellow = color.RGBA{R: 255, G: 255, B: 0, A: 255}
)

// goldenAngle spreads consecutive hues as far apart as possible.
const goldenAngle = 137.508

// Distinct returns a stable, saturated color for an id. Neighbouring ids
// get well-separated hues.
func Distinct(id int) color.RGBA {
	hue := math.Mod(float64(id)*goldenAngle, 360)
	if hue < 0 {
		hue += 360
	}
	r, g, b := colorful.Hsv(hue, 0.85, 1).RGB255()
	return color.RGBA{R: r, G: g, B: b, A: 255}
}
