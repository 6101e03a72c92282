package cell

import (
	"fmt"
	"image"
	"math"

	img "ring-tracer/internal/image"

	"gocv.io/x/gocv"
)

// gaborKernel builds a real Gabor kernel with zero phase offset, laid out
// like OpenCV's getGaborKernel, and normalizes it to unit sum so a flat
// region keeps its intensity.
func gaborKernel(size int, sigma, theta, lambda, gamma float64) []float64 {
	half := size / 2
	sigmaX := sigma
	sigmaY := sigma / gamma
	c, s := math.Cos(theta), math.Sin(theta)
	ex := -0.5 / (sigmaX * sigmaX)
	ey := -0.5 / (sigmaY * sigmaY)
	cscale := 2 * math.Pi / lambda

	kernel := make([]float64, size*size)
	var sum float64
	for y := -half; y <= half; y++ {
		for x := -half; x <= half; x++ {
			xr := float64(x)*c + float64(y)*s
			yr := -float64(x)*s + float64(y)*c
			v := math.Exp(ex*xr*xr+ey*yr*yr) * math.Cos(cscale*xr)
			kernel[(half-y)*size+(half-x)] = v
			sum += v
		}
	}
	if sum != 0 {
		for i := range kernel {
			kernel[i] /= sum
		}
	}
	return kernel
}

// gaborBank returns one kernel per orientation, evenly spaced over [0, π).
func gaborBank(p GaborParams) [][]float64 {
	bank := make([][]float64, p.Orientations)
	for i := range bank {
		theta := float64(i) * math.Pi / float64(p.Orientations)
		bank[i] = gaborKernel(p.KernelSize, p.Sigma, theta, p.Lambda, p.Gamma)
	}
	return bank
}

// ridgeResponse filters a 16-bit image with every kernel of the bank and
// keeps the per-pixel maximum, saturated to 16 bits. The accumulator is
// local to this call.
func ridgeResponse(src gocv.Mat, bank [][]float64) (gocv.Mat, error) {
	if len(bank) == 0 {
		return gocv.NewMat(), fmt.Errorf("%w: empty filter bank", img.ErrInvalidInput)
	}

	accum := gocv.NewMat()
	for i, k := range bank {
		size := int(math.Sqrt(float64(len(k))))
		kernel, err := img.FloatsToMat(k, size, size)
		if err != nil {
			accum.Close()
			return gocv.NewMat(), err
		}

		filtered := gocv.NewMat()
		gocv.Filter2D(src, &filtered, gocv.MatTypeCV16U, kernel, image.Pt(-1, -1), 0, gocv.BorderDefault)
		kernel.Close()

		if i == 0 {
			filtered.CopyTo(&accum)
		} else {
			gocv.Max(accum, filtered, &accum)
		}
		filtered.Close()
	}
	return accum, nil
}
