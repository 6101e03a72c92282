package nuclei

import (
	"math"
	"testing"

	img "ring-tracer/internal/image"
)

func TestComputeRegionsRectangle(t *testing.T) {
	labels := img.NewLabelImage(30, 30)
	ch := img.NewChannel(30, 30, img.Depth16)
	for row := 5; row < 15; row++ {
		for col := 5; col < 25; col++ {
			labels.Set(row, col, 1)
			ch.Set(row, col, uint16(col))
		}
	}

	table := computeRegions(labels, ch)
	r, ok := table.Get(1)
	if !ok {
		t.Fatal("label 1 missing")
	}

	if r.Area != 200 || r.BBoxArea != 200 || r.Extent != 1 {
		t.Errorf("area/bbox/extent: got %d/%d/%v", r.Area, r.BBoxArea, r.Extent)
	}
	if r.CentroidRow != 9.5 || r.CentroidCol != 14.5 {
		t.Errorf("centroid: got (%v, %v), want (9.5, 14.5)", r.CentroidRow, r.CentroidCol)
	}
	if r.MinIntensity != 5 || r.MaxIntensity != 24 || r.MeanIntensity != 14.5 {
		t.Errorf("intensity: got %v/%v/%v, want 5/14.5/24", r.MinIntensity, r.MeanIntensity, r.MaxIntensity)
	}

	// Column variance (400-1)/12, row variance (100-1)/12
	wantEcc := math.Sqrt(1 - (99.0/12)/(399.0/12))
	if math.Abs(r.Eccentricity-wantEcc) > 1e-6 {
		t.Errorf("eccentricity: got %v, want %v", r.Eccentricity, wantEcc)
	}
	if math.Abs(math.Abs(r.Orientation)-math.Pi/2) > 1e-9 {
		t.Errorf("orientation: got %v, want ±pi/2", r.Orientation)
	}
	if r.Perimeter < 48 || r.Perimeter > 62 {
		t.Errorf("perimeter: got %v, want ~56", r.Perimeter)
	}
	if r.EulerNumber != 1 {
		t.Errorf("euler number: got %d, want 1", r.EulerNumber)
	}
	if r.MinRow != 5 || r.MaxRow != 15 || r.MinCol != 5 || r.MaxCol != 25 {
		t.Errorf("bbox: got rows [%d,%d) cols [%d,%d)", r.MinRow, r.MaxRow, r.MinCol, r.MaxCol)
	}
}

func TestEulerNumber(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want int
	}{
		{"single pixel", []string{"#"}, 1},
		{"ring", []string{"###", "#.#", "###"}, 0},
		{"diagonal pair", []string{"#.", ".#"}, 1},
		{"two holes", []string{"#####", "#.#.#", "#####"}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, w := len(tt.rows), len(tt.rows[0])
			c := binaryCrop{w: w, h: h, pix: make([]bool, w*h)}
			for row, s := range tt.rows {
				for col, ch := range s {
					c.pix[row*w+col] = ch == '#'
				}
			}
			if got := c.eulerNumber(); got != tt.want {
				t.Errorf("eulerNumber: got %d, want %d", got, tt.want)
			}
		})
	}
}
