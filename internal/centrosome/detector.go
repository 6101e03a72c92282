// Package centrosome locates small bright spots in a stain channel with a
// multi-scale determinant-of-Hessian blob detector.
package centrosome

import (
	"fmt"
	"image"
	"math"
	"sort"

	img "ring-tracer/internal/image"
	"ring-tracer/pkg/engfmt"
	"ring-tracer/pkg/geometry"

	"gocv.io/x/gocv"
)

// Second-difference kernels in row-major order (rows are y).
var (
	kernelXX = []float64{
		0, 0, 0,
		1, -2, 1,
		0, 0, 0,
	}
	kernelYY = []float64{
		0, 1, 0,
		0, -2, 0,
		0, 1, 0,
	}
	kernelXY = []float64{
		0.25, 0, -0.25,
		0, 0, 0,
		-0.25, 0, 0.25,
	}
)

// peak is a scale-space maximum in array coordinates.
type peak struct {
	row, col int
	sigma    float64
	response float64
}

// Detect returns the blobs found in ch. Centers are mapped into the
// geometric frame and radii are sigma·√2. A channel without spots yields an
// empty slice and no error.
func Detect(ch *img.Channel, params Params) ([]geometry.Blob, error) {
	if err := ch.Validate(); err != nil {
		return nil, fmt.Errorf("centrosome detection: %w", err)
	}
	if err := params.validate(); err != nil {
		return nil, fmt.Errorf("centrosome detection: %w", err)
	}

	src, err := img.FloatsToMat(ch.Normalized(), ch.Width, ch.Height)
	if err != nil {
		return nil, fmt.Errorf("centrosome detection: %w", err)
	}
	defer src.Close()

	sigmas := params.sigmas()
	cube := make([][]float64, len(sigmas))
	for i, s := range sigmas {
		resp, err := hessianResponse(src, s)
		if err != nil {
			return nil, fmt.Errorf("centrosome detection at sigma %g: %w", s, err)
		}
		cube[i] = resp
	}

	peaks := localMaxima(cube, sigmas, ch.Width, ch.Height, params.Threshold)
	kept := prune(peaks, params.Overlap)

	blobs := make([]geometry.Blob, 0, len(kept))
	for _, p := range kept {
		center := geometry.FrameTransform().Apply(geometry.Point2D{X: float64(p.row), Y: float64(p.col)})
		blobs = append(blobs, geometry.Blob{Center: center, Radius: p.sigma * math.Sqrt2})
	}

	fmt.Printf("[Centrosome] %d blobs from %d peaks over %d scales (σ %s..%s)\n",
		len(blobs), len(peaks), len(sigmas),
		engfmt.Format(params.MinSigma, "%.2f", false), engfmt.Format(params.MaxSigma, "%.2f", false))
	return blobs, nil
}

// hessianResponse returns sigma⁴·det(H) of the image smoothed at sigma.
func hessianResponse(src gocv.Mat, sigma float64) ([]float64, error) {
	smoothed := gocv.NewMat()
	defer smoothed.Close()
	gocv.GaussianBlur(src, &smoothed, image.Pt(0, 0), sigma, sigma, gocv.BorderReflect)

	lxx, err := secondDerivative(smoothed, kernelXX)
	if err != nil {
		return nil, err
	}
	lyy, err := secondDerivative(smoothed, kernelYY)
	if err != nil {
		return nil, err
	}
	lxy, err := secondDerivative(smoothed, kernelXY)
	if err != nil {
		return nil, err
	}

	norm := math.Pow(sigma, 4)
	out := make([]float64, len(lxx))
	for i := range out {
		out[i] = norm * (lxx[i]*lyy[i] - lxy[i]*lxy[i])
	}
	return out, nil
}

func secondDerivative(src gocv.Mat, kernel []float64) ([]float64, error) {
	k, err := img.FloatsToMat(kernel, 3, 3)
	if err != nil {
		return nil, err
	}
	defer k.Close()

	dst := gocv.NewMat()
	defer dst.Close()
	gocv.Filter2D(src, &dst, gocv.MatTypeCV64F, k, image.Pt(-1, -1), 0, gocv.BorderReflect)
	return img.FloatsFromMat(dst)
}

// localMaxima finds responses above threshold that are not exceeded by any
// neighbour in the 3x3x3 scale-space neighbourhood. Peaks come back
// strongest first.
func localMaxima(cube [][]float64, sigmas []float64, width, height int, threshold float64) []peak {
	var peaks []peak
	for s := range cube {
		for row := 0; row < height; row++ {
			for col := 0; col < width; col++ {
				v := cube[s][row*width+col]
				if v <= threshold || !isMaximum(cube, s, row, col, width, height, v) {
					continue
				}
				peaks = append(peaks, peak{row: row, col: col, sigma: sigmas[s], response: v})
			}
		}
	}
	sort.SliceStable(peaks, func(i, j int) bool {
		return peaks[i].response > peaks[j].response
	})
	return peaks
}

func isMaximum(cube [][]float64, s, row, col, width, height int, v float64) bool {
	for ds := -1; ds <= 1; ds++ {
		ss := s + ds
		if ss < 0 || ss >= len(cube) {
			continue
		}
		for dr := -1; dr <= 1; dr++ {
			r := row + dr
			if r < 0 || r >= height {
				continue
			}
			for dc := -1; dc <= 1; dc++ {
				c := col + dc
				if c < 0 || c >= width {
					continue
				}
				if cube[ss][r*width+c] > v {
					return false
				}
			}
		}
	}
	return true
}

// prune drops the smaller of every pair of blobs whose overlap exceeds the
// given fraction of the smaller blob's area.
func prune(peaks []peak, overlap float64) []peak {
	dropped := make([]bool, len(peaks))
	for i := range peaks {
		for j := i + 1; j < len(peaks); j++ {
			if dropped[i] || dropped[j] {
				continue
			}
			if blobOverlap(peaks[i], peaks[j]) <= overlap {
				continue
			}
			if peaks[i].sigma > peaks[j].sigma {
				dropped[j] = true
			} else {
				dropped[i] = true
			}
		}
	}

	var kept []peak
	for i, p := range peaks {
		if !dropped[i] {
			kept = append(kept, p)
		}
	}
	return kept
}

// blobOverlap returns the area shared by two blobs as a fraction of the
// smaller blob's area.
func blobOverlap(a, b peak) float64 {
	r1 := a.sigma * math.Sqrt2
	r2 := b.sigma * math.Sqrt2
	if r1 == 0 || r2 == 0 {
		return 0
	}
	d := math.Hypot(float64(a.row-b.row), float64(a.col-b.col))
	if d > r1+r2 {
		return 0
	}
	if d <= math.Abs(r1-r2) {
		return 1
	}

	ratio1 := clamp((d*d+r1*r1-r2*r2)/(2*d*r1), -1, 1)
	ratio2 := clamp((d*d+r2*r2-r1*r1)/(2*d*r2), -1, 1)
	lens := r1*r1*math.Acos(ratio1) + r2*r2*math.Acos(ratio2) -
		0.5*math.Sqrt(math.Abs((-d+r2+r1)*(d+r2-r1)*(d-r2+r1)*(d+r2+r1)))

	return lens / (math.Pi * math.Pow(math.Min(r1, r2), 2))
}

func clamp(x, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, x))
}
