// Package nuclei segments cell nuclei from a nuclear-stain channel and
// measures each labeled region.
package nuclei

import (
	"errors"
	"fmt"

	img "ring-tracer/internal/image"
	"ring-tracer/internal/threshold"
	"ring-tracer/pkg/engfmt"

	"gocv.io/x/gocv"
)

// Segment thresholds the channel with Otsu's method, fills small holes,
// removes small specks, clears everything touching the image border and
// labels what remains with 8-connectivity. Region properties use the
// original channel intensities.
//
// A channel with nothing to segment returns an all-background label image
// and an empty table, never an error. Only malformed input is an error.
func Segment(ch *img.Channel, params Params) (*img.LabelImage, *RegionTable, error) {
	if err := ch.Validate(); err != nil {
		return nil, nil, fmt.Errorf("nuclei segmentation: %w", err)
	}

	fmt.Printf("[Nuclei] Thresholding %dx%d image\n", ch.Width, ch.Height)
	t, err := threshold.Otsu(ch)
	if errors.Is(err, img.ErrDegenerateInput) {
		fmt.Printf("[Nuclei] Constant image, no nuclei\n")
		return img.NewLabelImage(ch.Width, ch.Height), &RegionTable{}, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("nuclei segmentation: %w", err)
	}

	mask := gocv.NewMatWithSize(ch.Height, ch.Width, gocv.MatTypeCV8U)
	defer mask.Close()
	for i, fg := range threshold.Binarize(ch, t) {
		if fg {
			mask.SetUCharAt(i/ch.Width, i%ch.Width, 255)
		}
	}

	fillSmallHoles(mask, params.MinHoleArea)

	// Remove small objects, then artifacts connected to the image border
	filterComponents(mask, func(area int, touchesBorder bool) bool {
		return area >= params.MinObjectArea && !touchesBorder
	})

	labelMat := gocv.NewMat()
	defer labelMat.Close()
	gocv.ConnectedComponents(mask, &labelMat)
	labels := img.LabelsFromMat(labelMat)

	fmt.Printf("[Nuclei] Computing properties for %d regions (threshold %s)\n",
		labels.Count(), engfmt.Format(t, "%.1f", false))
	table := computeRegions(labels, ch)

	return labels, table, nil
}

// fillSmallHoles sets background components smaller than minArea to
// foreground. Background is labeled with 4-connectivity, the dual of the
// 8-connected foreground, so a hole touching the outside only at a corner
// stays enclosed.
func fillSmallHoles(mask gocv.Mat, minArea int) {
	inverted := gocv.NewMat()
	defer inverted.Close()
	gocv.BitwiseNot(mask, &inverted)

	labels := gocv.NewMat()
	defer labels.Close()
	stats := gocv.NewMat()
	defer stats.Close()
	centroids := gocv.NewMat()
	defer centroids.Close()

	n := gocv.ConnectedComponentsWithStatsWithParams(inverted, &labels, &stats, &centroids,
		4, gocv.MatTypeCV32S, gocv.CCL_DEFAULT)
	small := make([]bool, n)
	found := false
	for l := 1; l < n; l++ {
		if int(stats.GetIntAt(l, int(gocv.CC_STAT_AREA))) < minArea {
			small[l] = true
			found = true
		}
	}
	if !found {
		return
	}

	for row := 0; row < mask.Rows(); row++ {
		for col := 0; col < mask.Cols(); col++ {
			if l := labels.GetIntAt(row, col); l > 0 && small[l] {
				mask.SetUCharAt(row, col, 255)
			}
		}
	}
}

// filterComponents clears every foreground component for which keep
// returns false.
func filterComponents(mask gocv.Mat, keep func(area int, touchesBorder bool) bool) {
	labels := gocv.NewMat()
	defer labels.Close()
	stats := gocv.NewMat()
	defer stats.Close()
	centroids := gocv.NewMat()
	defer centroids.Close()

	n := gocv.ConnectedComponentsWithStats(mask, &labels, &stats, &centroids)
	rows, cols := mask.Rows(), mask.Cols()

	drop := make([]bool, n)
	for l := 1; l < n; l++ {
		left := int(stats.GetIntAt(l, int(gocv.CC_STAT_LEFT)))
		top := int(stats.GetIntAt(l, int(gocv.CC_STAT_TOP)))
		width := int(stats.GetIntAt(l, int(gocv.CC_STAT_WIDTH)))
		height := int(stats.GetIntAt(l, int(gocv.CC_STAT_HEIGHT)))
		area := int(stats.GetIntAt(l, int(gocv.CC_STAT_AREA)))

		border := left == 0 || top == 0 || left+width == cols || top+height == rows
		drop[l] = !keep(area, border)
	}

	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			if l := labels.GetIntAt(row, col); l > 0 && drop[l] {
				mask.SetUCharAt(row, col, 0)
			}
		}
	}
}
