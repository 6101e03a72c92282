package threshold

import (
	"errors"
	"testing"

	img "ring-tracer/internal/image"
)

func bimodal(w, h int, lo, hi uint16) *img.Channel {
	ch := img.NewChannel(w, h, img.Depth8)
	for i := range ch.Pix {
		if i%w < w/2 {
			ch.Pix[i] = lo
		} else {
			ch.Pix[i] = hi
		}
	}
	return ch
}

func TestOtsu(t *testing.T) {
	tests := []struct {
		name   string
		lo, hi uint16
	}{
		{"dark vs bright", 20, 200},
		{"close levels", 100, 110},
		{"adjacent levels", 7, 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch := bimodal(10, 10, tt.lo, tt.hi)
			th, err := Otsu(ch)
			if err != nil {
				t.Fatalf("Otsu failed: %v", err)
			}
			// Foreground is >= threshold, so the bright level must pass
			// and the dark level must not.
			if float64(tt.lo) >= th || float64(tt.hi) < th {
				t.Errorf("threshold %v does not separate %d and %d", th, tt.lo, tt.hi)
			}
		})
	}
}

func TestOtsuDegenerate(t *testing.T) {
	ch := img.NewChannel(8, 8, img.Depth16)
	for i := range ch.Pix {
		ch.Pix[i] = 500
	}
	if _, err := Otsu(ch); !errors.Is(err, img.ErrDegenerateInput) {
		t.Errorf("expected ErrDegenerateInput, got %v", err)
	}
}

func TestOtsuInvalid(t *testing.T) {
	if _, err := Otsu(img.NewChannel(0, 0, img.Depth8)); !errors.Is(err, img.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestBinarize(t *testing.T) {
	ch := bimodal(4, 1, 10, 90)
	got := Binarize(ch, 90)
	want := []bool{false, false, true, true}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("pixel %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestStretchPercentiles(t *testing.T) {
	ch := img.NewChannel(100, 1, img.Depth16)
	for i := range ch.Pix {
		ch.Pix[i] = uint16(i * 100)
	}

	out, err := StretchPercentiles(ch, 2, 98)
	if err != nil {
		t.Fatalf("StretchPercentiles failed: %v", err)
	}
	if out.Pix[0] != 0 || out.Pix[1] != 0 {
		t.Errorf("dark tail: got %d %d, want 0 0", out.Pix[0], out.Pix[1])
	}
	if out.Pix[99] != 65535 {
		t.Errorf("bright tail: got %d, want 65535", out.Pix[99])
	}
	if out.Pix[50] <= out.Pix[10] {
		t.Errorf("stretch is not monotonic: %d <= %d", out.Pix[50], out.Pix[10])
	}
}

func TestStretchDegenerate(t *testing.T) {
	ch := img.NewChannel(10, 10, img.Depth16)
	if _, err := StretchPercentiles(ch, 2, 98); !errors.Is(err, img.ErrDegenerateInput) {
		t.Errorf("expected ErrDegenerateInput, got %v", err)
	}
}
