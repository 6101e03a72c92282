package cell

import (
	"errors"
	"math"
	"testing"

	img "ring-tracer/internal/image"
)

// twoCellFrame builds a 100x64 frame: a cytoskeletal slab with a bright
// vertical ridge down the middle, and two nuclei either side of it.
func twoCellFrame() (tubulin, hoechst *img.Channel) {
	const w, h = 100, 64
	tubulin = img.NewChannel(w, h, img.Depth16)
	hoechst = img.NewChannel(w, h, img.Depth16)

	for row := 10; row < 54; row++ {
		for col := 10; col < 90; col++ {
			v := uint16(40000)
			if col >= 49 && col < 52 {
				v = 65535
			}
			tubulin.Set(row, col, v)
		}
	}

	for _, c := range [][2]int{{32, 25}, {32, 75}} {
		for row := 0; row < h; row++ {
			for col := 0; col < w; col++ {
				dr, dc := row-c[0], col-c[1]
				if dr*dr+dc*dc <= 64 {
					hoechst.Set(row, col, 65535)
				}
			}
		}
	}
	return tubulin, hoechst
}

func TestSegmentTwoCells(t *testing.T) {
	tubulin, hoechst := twoCellFrame()

	res, err := Segment(tubulin, hoechst, DefaultParams())
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}

	if n := len(res.Labels.Distinct()); n != 2 {
		t.Fatalf("labels: got %d, want 2", n)
	}
	left := res.Labels.At(32, 25)
	right := res.Labels.At(32, 75)
	if left == 0 || right == 0 || left == right {
		t.Errorf("seed labels: left %d, right %d", left, right)
	}

	// Basins cover the mask exactly and never leak outside it.
	for i, v := range res.Labels.Labels {
		if (v > 0) != (res.Mask.Pix[i] > 0) {
			t.Fatalf("pixel %d: label %d, mask %d", i, v, res.Mask.Pix[i])
		}
	}

	if len(res.Boundaries) != 2 {
		t.Fatalf("boundaries: got %d, want 2", len(res.Boundaries))
	}
	for _, b := range res.Boundaries {
		if len(b.Polygon) < 3 {
			t.Errorf("boundary %d has %d points", b.ID, len(b.Polygon))
		}
		for _, p := range b.Polygon {
			if p.X < 0 || p.X >= 100 || p.Y < 0 || p.Y >= 64 {
				t.Errorf("boundary %d point %v outside the frame", b.ID, p)
				break
			}
		}
	}

	if res.Ridge.Depth != img.Depth8 || !res.Ridge.SameSize(tubulin) {
		t.Errorf("ridge map: depth %d, %dx%d", res.Ridge.Depth, res.Ridge.Width, res.Ridge.Height)
	}
}

func TestSegmentWithMarkers(t *testing.T) {
	tubulin, _ := twoCellFrame()

	markers := img.NewLabelImage(100, 64)
	markers.Set(32, 25, 7)
	markers.Set(32, 75, 9)

	res, err := Segment(tubulin, nil, DefaultParams().WithMarkers(markers))
	if err != nil {
		t.Fatalf("Segment failed: %v", err)
	}
	if got := res.Labels.At(32, 25); got != 7 {
		t.Errorf("left seed: got label %d, want 7", got)
	}
	if got := res.Labels.At(32, 75); got != 9 {
		t.Errorf("right seed: got label %d, want 9", got)
	}
	if len(res.Boundaries) != 2 || res.Boundaries[0].ID != 7 || res.Boundaries[1].ID != 9 {
		t.Errorf("boundaries not in label order: %+v", res.Boundaries)
	}
}

func TestSegmentErrors(t *testing.T) {
	tubulin, hoechst := twoCellFrame()

	blank := img.NewChannel(100, 64, img.Depth16)
	if _, err := Segment(blank, hoechst, DefaultParams()); !errors.Is(err, img.ErrDegenerateInput) {
		t.Errorf("blank tubulin: expected ErrDegenerateInput, got %v", err)
	}

	small := img.NewChannel(50, 64, img.Depth16)
	if _, err := Segment(tubulin, small, DefaultParams()); !errors.Is(err, img.ErrInvalidInput) {
		t.Errorf("size mismatch: expected ErrInvalidInput, got %v", err)
	}

	if _, err := Segment(tubulin, nil, DefaultParams()); !errors.Is(err, img.ErrInvalidInput) {
		t.Errorf("missing hoechst: expected ErrInvalidInput, got %v", err)
	}
}

func TestSegmentInvalidParams(t *testing.T) {
	tubulin, hoechst := twoCellFrame()

	tests := []struct {
		name   string
		modify func(*Params)
	}{
		{"even kernel", func(p *Params) { p.Gabor.KernelSize = 8 }},
		{"zero kernel", func(p *Params) { p.Gabor.KernelSize = 0 }},
		{"no orientations", func(p *Params) { p.Gabor.Orientations = 0 }},
		{"zero wavelength", func(p *Params) { p.Gabor.Lambda = 0 }},
		{"even blur", func(p *Params) { p.BlurSize = 30 }},
		{"negative blur", func(p *Params) { p.BlurSize = -1 }},
		{"zero erode", func(p *Params) { p.ErodeSize = 0 }},
		{"inverted percentiles", func(p *Params) { p.LowPercentile, p.HighPercentile = 98, 2 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := DefaultParams()
			tt.modify(&params)
			if _, err := Segment(tubulin, hoechst, params); !errors.Is(err, img.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}

	if err := DefaultParams().WithBlurSize(30).validate(); err != nil {
		t.Errorf("rounded blur size rejected: %v", err)
	}
}

func TestWatershed(t *testing.T) {
	// One row with a high-energy barrier in the middle.
	energy := []float64{0, 0, 0, 5, 0, 0, 0}
	markers := img.NewLabelImage(7, 1)
	markers.Set(0, 0, 1)
	markers.Set(0, 6, 2)
	mask := []bool{true, true, true, true, true, true, true}

	got := watershed(energy, markers, mask).Labels
	want := []int32{1, 1, 1, 1, 2, 2, 2}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("labels: got %v, want %v", got, want)
		}
	}
}

func TestWatershedMask(t *testing.T) {
	// 3x3 grid; the middle column is outside the mask, so the right
	// column cannot be reached from the seed on the left.
	energy := make([]float64, 9)
	markers := img.NewLabelImage(3, 3)
	markers.Set(0, 0, 1)
	markers.Set(2, 1, 4) // outside the mask, ignored
	mask := []bool{
		true, false, true,
		true, false, true,
		true, false, true,
	}

	out := watershed(energy, markers, mask)
	for row := 0; row < 3; row++ {
		if out.At(row, 0) != 1 {
			t.Errorf("row %d col 0: got %d, want 1", row, out.At(row, 0))
		}
		if out.At(row, 1) != 0 || out.At(row, 2) != 0 {
			t.Errorf("row %d: unreachable pixels labeled", row)
		}
	}
}

func TestGaborBank(t *testing.T) {
	p := DefaultParams().Gabor
	bank := gaborBank(p)
	if len(bank) != p.Orientations {
		t.Fatalf("bank size: got %d, want %d", len(bank), p.Orientations)
	}
	for i, k := range bank {
		if len(k) != p.KernelSize*p.KernelSize {
			t.Fatalf("kernel %d: %d taps", i, len(k))
		}
		var sum float64
		for _, v := range k {
			sum += v
		}
		if math.Abs(sum-1) > 1e-9 {
			t.Errorf("kernel %d: sum %v, want 1", i, sum)
		}
		// Zero phase makes every kernel point-symmetric.
		for j := range k {
			if math.Abs(k[j]-k[len(k)-1-j]) > 1e-12 {
				t.Errorf("kernel %d not symmetric at %d", i, j)
				break
			}
		}
	}
}
