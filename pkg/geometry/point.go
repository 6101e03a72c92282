// Package geometry provides the planar types shared by the segmentation
// and validation packages.
package geometry

import "math"

// Point2D is a position in the geometric frame: X the column, Y the row.
type Point2D struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance between p and q.
func (p Point2D) Distance(q Point2D) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Rect is an axis-aligned rectangle anchored at its minimum corner.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// NewRect creates a Rect.
func NewRect(x, y, width, height float64) Rect {
	return Rect{X: x, Y: y, Width: width, Height: height}
}

// Polygon returns the rectangle as a counter-clockwise ring without a
// repeated closing vertex.
func (r Rect) Polygon() []Point2D {
	x1, y1 := r.X+r.Width, r.Y+r.Height
	return []Point2D{{r.X, r.Y}, {x1, r.Y}, {x1, y1}, {r.X, y1}}
}

// CirclePoints returns n points evenly spaced around a circle, starting
// on its positive X axis.
func CirclePoints(center Point2D, radius float64, n int) []Point2D {
	if n < 1 {
		return nil
	}
	step := 2 * math.Pi / float64(n)
	ring := make([]Point2D, n)
	for i := range ring {
		sin, cos := math.Sincos(float64(i) * step)
		ring[i] = Point2D{X: center.X + radius*cos, Y: center.Y + radius*sin}
	}
	return ring
}

// Centroid returns the mean of the points, or the origin for none.
func Centroid(points []Point2D) Point2D {
	var c Point2D
	if len(points) == 0 {
		return c
	}
	for _, p := range points {
		c.X += p.X
		c.Y += p.Y
	}
	n := float64(len(points))
	c.X /= n
	c.Y /= n
	return c
}
