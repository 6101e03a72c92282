// Package cell reconstructs whole-cell boundaries from a cytoskeletal stain
// by enhancing fibrous structure with an oriented Gabor bank and flooding
// the result from nuclear seeds.
package cell

import (
	"fmt"
	"image"
	"sort"

	img "ring-tracer/internal/image"
	"ring-tracer/internal/threshold"
	"ring-tracer/pkg/geometry"

	"gocv.io/x/gocv"
)

// Result holds a cell segmentation.
type Result struct {
	// Boundaries holds one outline per watershed label in ascending label
	// order. Points are raw pixel coordinates, X the column and Y the row.
	Boundaries []geometry.Boundary

	Ridge  *img.Channel    // 8-bit Gabor ridge map
	Mask   *img.Channel    // 8-bit foreground mask the flood was confined to
	Labels *img.LabelImage // Watershed basins
}

// Segment partitions the cytoskeletal channel into cells. Both channels
// must be co-registered. The hoechst channel is only used to seed the
// watershed when params.Markers is nil.
//
// Returns an error wrapping ErrInvalidInput for malformed channels or
// params, and ErrDegenerateInput when the foreground mask or
// seeds cannot be thresholded, e.g. for a blank channel.
func Segment(tubulin, hoechst *img.Channel, params Params) (*Result, error) {
	if err := params.validate(); err != nil {
		return nil, fmt.Errorf("cell segmentation: %w", err)
	}
	if err := tubulin.Validate(); err != nil {
		return nil, fmt.Errorf("cell segmentation: tubulin: %w", err)
	}
	if params.Markers == nil {
		if err := hoechst.Validate(); err != nil {
			return nil, fmt.Errorf("cell segmentation: hoechst: %w", err)
		}
		if !tubulin.SameSize(hoechst) {
			return nil, fmt.Errorf("cell segmentation: %w: channels are %dx%d and %dx%d", img.ErrInvalidInput,
				tubulin.Width, tubulin.Height, hoechst.Width, hoechst.Height)
		}
	} else if params.Markers.Width != tubulin.Width || params.Markers.Height != tubulin.Height {
		return nil, fmt.Errorf("cell segmentation: %w: markers are %dx%d, image is %dx%d", img.ErrInvalidInput,
			params.Markers.Width, params.Markers.Height, tubulin.Width, tubulin.Height)
	}

	fmt.Printf("[Cell] Enhancing %dx%d cytoskeleton with %d Gabor orientations\n",
		tubulin.Width, tubulin.Height, params.Gabor.Orientations)

	ridge, err := ridgeMap(tubulin, params)
	if err != nil {
		return nil, fmt.Errorf("cell segmentation: %w", err)
	}
	defer ridge.Close()

	mask, err := foregroundMask(ridge, params)
	if err != nil {
		return nil, fmt.Errorf("cell segmentation: %w", err)
	}
	defer mask.Close()

	markers := params.Markers
	if markers == nil {
		markers, err = nuclearSeeds(hoechst, params)
		if err != nil {
			return nil, fmt.Errorf("cell segmentation: seeds: %w", err)
		}
	}

	ridgeCh, err := img.ChannelFromMat(ridge)
	if err != nil {
		return nil, fmt.Errorf("cell segmentation: %w", err)
	}
	maskCh, err := img.ChannelFromMat(mask)
	if err != nil {
		return nil, fmt.Errorf("cell segmentation: %w", err)
	}

	energy := make([]float64, len(ridgeCh.Pix))
	for i, v := range ridgeCh.Pix {
		energy[i] = -float64(v)
	}
	inMask := make([]bool, len(maskCh.Pix))
	for i, v := range maskCh.Pix {
		inMask[i] = v > 0
	}
	labels := watershed(energy, markers, inMask)

	boundaries := traceLabels(labels)
	fmt.Printf("[Cell] %d cells from %d seeds\n", len(boundaries), len(markers.Distinct()))

	return &Result{
		Boundaries: boundaries,
		Ridge:      ridgeCh,
		Mask:       maskCh,
		Labels:     labels,
	}, nil
}

// ridgeMap stretches contrast, erodes, runs the Gabor bank and rescales
// the 16-bit response to 8 bits.
func ridgeMap(tubulin *img.Channel, params Params) (gocv.Mat, error) {
	stretched, err := threshold.StretchPercentiles(tubulin, params.LowPercentile, params.HighPercentile)
	if err != nil {
		return gocv.NewMat(), fmt.Errorf("contrast stretch: %w", err)
	}

	src, err := to16(stretched).ToMat()
	if err != nil {
		return gocv.NewMat(), err
	}
	defer src.Close()

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(params.ErodeSize, params.ErodeSize))
	defer kernel.Close()
	eroded := gocv.NewMat()
	defer eroded.Close()
	gocv.Erode(src, &eroded, kernel)

	response, err := ridgeResponse(eroded, gaborBank(params.Gabor))
	if err != nil {
		return gocv.NewMat(), err
	}
	defer response.Close()

	ridge := gocv.NewMat()
	gocv.ConvertScaleAbs(response, &ridge, 255.0/65535.0, 0)
	return ridge, nil
}

// foregroundMask thresholds the ridge map, smooths the binary result and
// re-binarizes it with Otsu's method.
func foregroundMask(ridge gocv.Mat, params Params) (gocv.Mat, error) {
	bin := gocv.NewMat()
	defer bin.Close()
	gocv.Threshold(ridge, &bin, float32(params.Threshold), 255, gocv.ThresholdBinary)

	return blurOtsu(bin, params.BlurSize)
}

// blurOtsu Gaussian-blurs an 8-bit image and binarizes it with Otsu's
// method. A constant blurred image has no threshold.
func blurOtsu(src gocv.Mat, ksize int) (gocv.Mat, error) {
	blurred := gocv.NewMat()
	defer blurred.Close()
	gocv.GaussianBlur(src, &blurred, image.Pt(ksize, ksize), 0, 0, gocv.BorderDefault)

	minVal, maxVal, _, _ := gocv.MinMaxLoc(blurred)
	if minVal == maxVal {
		return gocv.NewMat(), fmt.Errorf("%w: constant image, no Otsu threshold", img.ErrDegenerateInput)
	}

	out := gocv.NewMat()
	gocv.Threshold(blurred, &out, 0, 255, gocv.ThresholdBinary|gocv.ThresholdOtsu)
	return out, nil
}

// nuclearSeeds labels the blurred, Otsu-thresholded nuclear channel.
func nuclearSeeds(hoechst *img.Channel, params Params) (*img.LabelImage, error) {
	stretched, err := threshold.StretchPercentiles(hoechst, params.LowPercentile, params.HighPercentile)
	if err != nil {
		return nil, fmt.Errorf("contrast stretch: %w", err)
	}

	src, err := to16(stretched).ToMat()
	if err != nil {
		return nil, err
	}
	defer src.Close()

	src8 := gocv.NewMat()
	defer src8.Close()
	gocv.ConvertScaleAbs(src, &src8, 255.0/65535.0, 0)

	bin, err := blurOtsu(src8, params.BlurSize)
	if err != nil {
		return nil, err
	}
	defer bin.Close()

	labelMat := gocv.NewMat()
	defer labelMat.Close()
	gocv.ConnectedComponents(bin, &labelMat)
	return img.LabelsFromMat(labelMat), nil
}

// traceLabels outlines every positive label with its largest external
// contour.
func traceLabels(labels *img.LabelImage) []geometry.Boundary {
	ids := make([]int, 0)
	for l := range labels.Distinct() {
		ids = append(ids, int(l))
	}
	sort.Ints(ids)

	var boundaries []geometry.Boundary
	for _, id := range ids {
		mask := gocv.NewMatWithSize(labels.Height, labels.Width, gocv.MatTypeCV8U)
		for i, v := range labels.Labels {
			if int(v) == id {
				mask.SetUCharAt(i/labels.Width, i%labels.Width, 255)
			}
		}

		contours := gocv.FindContours(mask, gocv.RetrievalExternal, gocv.ChainApproxSimple)
		best, bestArea := -1, -1.0
		for i := 0; i < contours.Size(); i++ {
			if a := gocv.ContourArea(contours.At(i)); a > bestArea {
				best, bestArea = i, a
			}
		}
		if best >= 0 {
			pts := contours.At(best).ToPoints()
			poly := make([]geometry.Point2D, len(pts))
			for i, p := range pts {
				poly[i] = geometry.Point2D{X: float64(p.X), Y: float64(p.Y)}
			}
			boundaries = append(boundaries, geometry.Boundary{ID: id, Polygon: poly})
		}

		contours.Close()
		mask.Close()
	}
	return boundaries
}

// to16 widens an 8-bit channel to the 16-bit range the filter bank expects.
func to16(ch *img.Channel) *img.Channel {
	if ch.Depth == img.Depth16 {
		return ch
	}
	out := img.NewChannel(ch.Width, ch.Height, img.Depth16)
	for i, v := range ch.Pix {
		out.Pix[i] = v * 257
	}
	return out
}
