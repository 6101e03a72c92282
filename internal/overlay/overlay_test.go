package overlay

import (
	"os"
	"path/filepath"
	"testing"

	img "ring-tracer/internal/image"
	"ring-tracer/pkg/colorutil"
	"ring-tracer/pkg/geometry"

	"github.com/disintegration/imaging"
)

func TestOverlayDraw(t *testing.T) {
	base := img.NewChannel(40, 30, img.Depth16)
	o, err := New(base)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer o.Close()

	o.DrawBoundaries([]geometry.Boundary{{ID: 1, Polygon: geometry.NewRect(5, 5, 20, 15).Polygon()}})
	o.DrawBlobs([]geometry.Blob{{Center: geometry.Point2D{X: 30, Y: 10}, Radius: 1.4}}, colorutil.Yellow)

	out, err := o.Image()
	if err != nil {
		t.Fatalf("Image failed: %v", err)
	}
	if b := out.Bounds(); b.Dx() != 40 || b.Dy() != 30 {
		t.Fatalf("size: got %dx%d, want 40x30", b.Dx(), b.Dy())
	}

	// The outline passes through (x=5, y=10); the interior stays black.
	r, g, b, _ := out.At(5, 10).RGBA()
	if r == 0 && g == 0 && b == 0 {
		t.Error("outline pixel not drawn")
	}
	r, g, b, _ = out.At(15, 12).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Error("interior pixel was drawn")
	}

	// The blob is widened to a radius 2 ring starting at (x=32, y=10).
	r, g, b, _ = out.At(32, 10).RGBA()
	if r == 0 || g == 0 || b != 0 {
		t.Errorf("blob ring pixel: got (%d, %d, %d), want yellow", r, g, b)
	}
	r, g, b, _ = out.At(30, 10).RGBA()
	if r != 0 || g != 0 || b != 0 {
		t.Error("blob center was drawn")
	}
}

func TestOverlaySave(t *testing.T) {
	o, err := New(img.NewChannel(20, 10, img.Depth8))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	defer o.Close()

	path := filepath.Join(t.TempDir(), "overlay.png")
	if err := o.Save(path, 3); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("missing output: %v", err)
	}
	saved, err := imaging.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if b := saved.Bounds(); b.Dx() != 60 || b.Dy() != 30 {
		t.Errorf("saved size: got %dx%d, want 60x30", b.Dx(), b.Dy())
	}
}
