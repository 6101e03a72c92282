package nuclei

import (
	"math"
	"sort"

	img "ring-tracer/internal/image"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Region holds the shape and intensity properties of one labeled nucleus.
// Coordinates are array (row, col) coordinates.
type Region struct {
	Label              int32   `json:"label"`
	Area               int     `json:"area"`
	BBoxArea           int     `json:"bbox_area"`
	CentroidRow        float64 `json:"centroid_row"`
	CentroidCol        float64 `json:"centroid_col"`
	Eccentricity       float64 `json:"eccentricity"`
	EquivalentDiameter float64 `json:"equivalent_diameter"`
	EulerNumber        int     `json:"euler_number"`
	Extent             float64 `json:"extent"`
	MinIntensity       float64 `json:"min_intensity"`
	MeanIntensity      float64 `json:"mean_intensity"`
	MaxIntensity       float64 `json:"max_intensity"`
	Orientation        float64 `json:"orientation"` // Radians between the row axis and the major axis
	Perimeter          float64 `json:"perimeter"`

	// Bounding box, inclusive of MinRow/MinCol and exclusive of MaxRow/MaxCol
	MinRow, MinCol, MaxRow, MaxCol int
}

// RegionTable holds one Region per positive label, ordered by label.
type RegionTable struct {
	Regions []Region
}

// Len returns the number of regions.
func (t *RegionTable) Len() int {
	return len(t.Regions)
}

// Get returns the region with the given label.
func (t *RegionTable) Get(label int32) (Region, bool) {
	i := sort.Search(len(t.Regions), func(i int) bool { return t.Regions[i].Label >= label })
	if i < len(t.Regions) && t.Regions[i].Label == label {
		return t.Regions[i], true
	}
	return Region{}, false
}

// regionAccum gathers per-label sums in one pass over the label image.
type regionAccum struct {
	n                      int
	sumR, sumC             float64
	minR, minC, maxR, maxC int
	intensities            []float64
}

// computeRegions measures every positive label of labels against the
// intensities of ch.
func computeRegions(labels *img.LabelImage, ch *img.Channel) *RegionTable {
	accums := make(map[int32]*regionAccum)
	for row := 0; row < labels.Height; row++ {
		for col := 0; col < labels.Width; col++ {
			l := labels.At(row, col)
			if l <= 0 {
				continue
			}
			a, ok := accums[l]
			if !ok {
				a = &regionAccum{minR: row, minC: col, maxR: row, maxC: col}
				accums[l] = a
			}
			a.n++
			a.sumR += float64(row)
			a.sumC += float64(col)
			a.minR = min(a.minR, row)
			a.minC = min(a.minC, col)
			a.maxR = max(a.maxR, row)
			a.maxC = max(a.maxC, col)
			a.intensities = append(a.intensities, float64(ch.At(row, col)))
		}
	}

	table := &RegionTable{Regions: make([]Region, 0, len(accums))}
	for l, a := range accums {
		table.Regions = append(table.Regions, measureRegion(labels, l, a))
	}
	sort.Slice(table.Regions, func(i, j int) bool {
		return table.Regions[i].Label < table.Regions[j].Label
	})
	return table
}

func measureRegion(labels *img.LabelImage, l int32, a *regionAccum) Region {
	area := float64(a.n)
	cr, cc := a.sumR/area, a.sumC/area

	// Second central moments, normalized by area
	var vr, vc, cov float64
	for row := a.minR; row <= a.maxR; row++ {
		for col := a.minC; col <= a.maxC; col++ {
			if labels.At(row, col) != l {
				continue
			}
			dr, dc := float64(row)-cr, float64(col)-cc
			vr += dr * dr
			vc += dc * dc
			cov += dr * dc
		}
	}
	vr /= area
	vc /= area
	cov /= area

	bboxArea := (a.maxR - a.minR + 1) * (a.maxC - a.minC + 1)
	ecc, orient := inertiaShape(vc, -cov, vr)

	crop := cropRegion(labels, l, a)

	return Region{
		Label:              l,
		Area:               a.n,
		BBoxArea:           bboxArea,
		CentroidRow:        cr,
		CentroidCol:        cc,
		Eccentricity:       ecc,
		EquivalentDiameter: math.Sqrt(4 * area / math.Pi),
		EulerNumber:        crop.eulerNumber(),
		Extent:             area / float64(bboxArea),
		MinIntensity:       floats.Min(a.intensities),
		MeanIntensity:      stat.Mean(a.intensities, nil),
		MaxIntensity:       floats.Max(a.intensities),
		Orientation:        orient,
		Perimeter:          crop.perimeter(),
		MinRow:             a.minR,
		MinCol:             a.minC,
		MaxRow:             a.maxR + 1,
		MaxCol:             a.maxC + 1,
	}
}

// inertiaShape derives eccentricity and orientation from the inertia
// tensor [[a, b], [b, c]], where a is the column variance, c the row
// variance and b the negated covariance.
func inertiaShape(a, b, c float64) (eccentricity, orientation float64) {
	var eig mat.EigenSym
	if eig.Factorize(mat.NewSymDense(2, []float64{a, b, b, c}), false) {
		vals := eig.Values(nil) // ascending
		l2, l1 := vals[0], vals[1]
		if l1 > 0 {
			eccentricity = math.Sqrt(math.Max(0, 1-l2/l1))
		}
	}

	if a-c == 0 {
		if b < 0 {
			return eccentricity, math.Pi / 4
		}
		return eccentricity, -math.Pi / 4
	}
	return eccentricity, 0.5 * math.Atan2(-2*b, c-a)
}

// binaryCrop is a region's bounding box padded by one background pixel on
// every side.
type binaryCrop struct {
	w, h int
	pix  []bool
}

func cropRegion(labels *img.LabelImage, l int32, a *regionAccum) binaryCrop {
	w := a.maxC - a.minC + 3
	h := a.maxR - a.minR + 3
	c := binaryCrop{w: w, h: h, pix: make([]bool, w*h)}
	for row := a.minR; row <= a.maxR; row++ {
		for col := a.minC; col <= a.maxC; col++ {
			if labels.At(row, col) == l {
				c.pix[(row-a.minR+1)*w+(col-a.minC+1)] = true
			}
		}
	}
	return c
}

func (c binaryCrop) at(row, col int) bool {
	if row < 0 || col < 0 || row >= c.h || col >= c.w {
		return false
	}
	return c.pix[row*c.w+col]
}

// perimeter estimates the boundary length from the 4-connected border
// pixels, weighting straight, diagonal and corner configurations.
func (c binaryCrop) perimeter() float64 {
	border := make([]bool, len(c.pix))
	for row := 0; row < c.h; row++ {
		for col := 0; col < c.w; col++ {
			if !c.at(row, col) {
				continue
			}
			interior := c.at(row-1, col) && c.at(row+1, col) && c.at(row, col-1) && c.at(row, col+1)
			border[row*c.w+col] = !interior
		}
	}

	isBorder := func(row, col int) int {
		if row < 0 || col < 0 || row >= c.h || col >= c.w || !border[row*c.w+col] {
			return 0
		}
		return 1
	}

	var total float64
	for row := 0; row < c.h; row++ {
		for col := 0; col < c.w; col++ {
			code := isBorder(row, col) +
				2*(isBorder(row-1, col)+isBorder(row+1, col)+isBorder(row, col-1)+isBorder(row, col+1)) +
				10*(isBorder(row-1, col-1)+isBorder(row-1, col+1)+isBorder(row+1, col-1)+isBorder(row+1, col+1))
			switch code {
			case 5, 7, 15, 17, 25, 27:
				total += 1
			case 21, 33:
				total += math.Sqrt2
			case 13, 23:
				total += (1 + math.Sqrt2) / 2
			}
		}
	}
	return total
}

// eulerNumber counts objects minus holes with 8-connectivity using bit-quad
// patterns: E = (Q1 - Q3 - 2*QD) / 4.
func (c binaryCrop) eulerNumber() int {
	var q1, q3, qd int
	for row := -1; row < c.h; row++ {
		for col := -1; col < c.w; col++ {
			tl, tr := c.at(row, col), c.at(row, col+1)
			bl, br := c.at(row+1, col), c.at(row+1, col+1)
			n := b2i(tl) + b2i(tr) + b2i(bl) + b2i(br)
			switch {
			case n == 1:
				q1++
			case n == 3:
				q3++
			case n == 2 && tl == br:
				qd++
			}
		}
	}
	return (q1 - q3 - 2*qd) / 4
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}
