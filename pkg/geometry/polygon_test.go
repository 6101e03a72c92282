package geometry

import (
	"math"
	"testing"
)

func square(x0, y0, x1, y1 float64) []Point2D {
	return NewRect(x0, y0, x1-x0, y1-y0).Polygon()
}

func TestPolygonArea(t *testing.T) {
	tests := []struct {
		name    string
		polygon []Point2D
		want    float64
	}{
		{"unit square", square(0, 0, 1, 1), 1},
		{"rectangle", square(10, 10, 30, 15), 100},
		{"clockwise", []Point2D{{0, 0}, {0, 4}, {4, 4}, {4, 0}}, 16},
		{"closed ring", []Point2D{{0, 0}, {2, 0}, {2, 2}, {0, 2}, {0, 0}}, 4},
		{"degenerate", []Point2D{{0, 0}, {1, 1}}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PolygonArea(tt.polygon); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("PolygonArea: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestContainsPoint(t *testing.T) {
	cell := square(10, 10, 90, 90)

	tests := []struct {
		name string
		p    Point2D
		want bool
	}{
		{"center", Point2D{50, 50}, true},
		{"outside", Point2D{5, 50}, false},
		{"on edge", Point2D{10, 50}, false},
		{"on vertex", Point2D{90, 90}, false},
		{"just inside", Point2D{10.001, 50}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsPoint(cell, tt.p); got != tt.want {
				t.Errorf("ContainsPoint(%v): got %v, want %v", tt.p, got, tt.want)
			}
		})
	}
}

func TestContainsPolygon(t *testing.T) {
	cell := square(10, 10, 90, 90)
	// U-shaped cell: the notch between x=40..60 is open above y=50.
	notched := []Point2D{{0, 0}, {100, 0}, {100, 100}, {60, 100}, {60, 50}, {40, 50}, {40, 100}, {0, 100}}
	// V-shaped notch whose mouth vertices (3,10) and (5,10) sit on one line.
	wedged := []Point2D{{0, 0}, {20, 0}, {20, 20}, {5, 20}, {5, 10}, {4, 8}, {3, 10}, {3, 20}, {0, 20}}

	tests := []struct {
		name  string
		outer []Point2D
		inner []Point2D
		want  bool
	}{
		{"nested", cell, square(40, 40, 60, 60), true},
		{"identical", cell, cell, true},
		{"touching edge", cell, square(10, 40, 30, 60), true},
		{"overlapping", cell, square(80, 40, 95, 60), false},
		{"disjoint", cell, square(95, 95, 99, 99), false},
		{"larger", square(40, 40, 60, 60), cell, false},
		{"spanning notch", notched, square(30, 60, 70, 70), false},
		{"beside notch", notched, square(10, 60, 30, 90), true},
		{"edge through notch vertices", wedged, []Point2D{{1, 10}, {19, 10}, {10, 2}}, false},
		{"below notch", wedged, []Point2D{{1, 6}, {19, 6}, {10, 2}}, true},
		{"degenerate outer", []Point2D{{0, 0}, {1, 1}}, square(0, 0, 1, 1), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsPolygon(tt.outer, tt.inner); got != tt.want {
				t.Errorf("ContainsPolygon: got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFrameTransform(t *testing.T) {
	// (row, col) = (3, 7) lands at x=7, y=3.
	got := ToGeometricFrame([]Point2D{{X: 3, Y: 7}})[0]
	if math.Abs(got.X-7) > 1e-9 || math.Abs(got.Y-3) > 1e-9 {
		t.Errorf("ToGeometricFrame: got %v, want {7 3}", got)
	}
}

func TestFrameTransformRoundTrip(t *testing.T) {
	original := CirclePoints(Point2D{X: 42.5, Y: 17.25}, 9, 24)
	back := FromGeometricFrame(ToGeometricFrame(original))

	if len(back) != len(original) {
		t.Fatalf("length: got %d, want %d", len(back), len(original))
	}
	for i := range original {
		if original[i].Distance(back[i]) > 1e-9 {
			t.Errorf("point %d: got %v, want %v", i, back[i], original[i])
		}
	}
}

func TestAffineInverse(t *testing.T) {
	tr := Rotation(0.3).Compose(Scale(2, 0.5))
	inv, ok := tr.Inverse()
	if !ok {
		t.Fatal("expected invertible transform")
	}
	p := Point2D{X: 4, Y: -1.5}
	if got := inv.Apply(tr.Apply(p)); got.Distance(p) > 1e-9 {
		t.Errorf("round trip: got %v, want %v", got, p)
	}

	if _, ok := Scale(0, 1).Inverse(); ok {
		t.Error("expected singular transform to have no inverse")
	}
}

func TestCirclePoints(t *testing.T) {
	center := Point2D{X: 3, Y: -2}
	ring := CirclePoints(center, 5, 12)
	if len(ring) != 12 {
		t.Fatalf("points: got %d, want 12", len(ring))
	}
	for i, p := range ring {
		if d := p.Distance(center); math.Abs(d-5) > 1e-9 {
			t.Errorf("point %d: distance %v, want 5", i, d)
		}
	}
	if ring[0].Distance(Point2D{X: 8, Y: -2}) > 1e-9 {
		t.Errorf("first point: got %v, want {8 -2}", ring[0])
	}
	if c := Centroid(ring); c.Distance(center) > 1e-9 {
		t.Errorf("centroid: got %v, want %v", c, center)
	}
	if CirclePoints(center, 5, 0) != nil {
		t.Error("expected no points for n=0")
	}
}

func TestComposeOrder(t *testing.T) {
	shift := AffineTransform{A: 1, D: 1, TX: 2}
	p := Point2D{X: 1, Y: 0}
	// Rotate first, then shift.
	got := shift.Compose(Rotation(math.Pi / 2)).Apply(p)
	if got.Distance(Point2D{X: 2, Y: 1}) > 1e-9 {
		t.Errorf("Compose: got %v, want {2 1}", got)
	}
}
