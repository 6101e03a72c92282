package geometry

import (
	"math"
	"sort"
)

// boundaryEpsilon is the distance under which a point counts as lying on
// a polygon edge.
const boundaryEpsilon = 1e-9

// PolygonArea returns the enclosed area of a polygon using the shoelace
// formula. The ring may or may not repeat its first vertex.
func PolygonArea(polygon []Point2D) float64 {
	return math.Abs(SignedArea(polygon))
}

// SignedArea returns the shoelace area, positive for counter-clockwise rings.
func SignedArea(polygon []Point2D) float64 {
	n := len(polygon)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += polygon[i].X*polygon[j].Y - polygon[j].X*polygon[i].Y
	}
	return sum / 2
}

// PointInPolygon tests if a point is inside a polygon using ray casting.
// Points exactly on an edge may land on either side; use Covers or
// ContainsPoint when the boundary matters.
func PointInPolygon(p Point2D, polygon []Point2D) bool {
	if len(polygon) < 3 {
		return false
	}

	inside := false
	n := len(polygon)

	for i := 0; i < n; i++ {
		j := (i + 1) % n
		pi, pj := polygon[i], polygon[j]

		// Check if ray from p going right intersects edge pi-pj
		if ((pi.Y > p.Y) != (pj.Y > p.Y)) &&
			(p.X < (pj.X-pi.X)*(p.Y-pi.Y)/(pj.Y-pi.Y)+pi.X) {
			inside = !inside
		}
	}

	return inside
}

// OnBoundary reports whether p lies on one of the polygon's edges.
func OnBoundary(p Point2D, polygon []Point2D) bool {
	n := len(polygon)
	for i := 0; i < n; i++ {
		if onSegment(p, polygon[i], polygon[(i+1)%n]) {
			return true
		}
	}
	return false
}

// Covers reports whether p lies inside the polygon or on its boundary.
func Covers(polygon []Point2D, p Point2D) bool {
	if len(polygon) < 3 {
		return false
	}
	return OnBoundary(p, polygon) || PointInPolygon(p, polygon)
}

// ContainsPoint reports whether p lies strictly inside the polygon.
// Points on the boundary are not contained.
func ContainsPoint(polygon []Point2D, p Point2D) bool {
	if len(polygon) < 3 {
		return false
	}
	return !OnBoundary(p, polygon) && PointInPolygon(p, polygon)
}

// ContainsPolygon reports whether every point of inner lies inside or on
// the boundary of outer, and at least one point of inner lies strictly
// inside. Touching the boundary is allowed; crossing it is not.
func ContainsPolygon(outer, inner []Point2D) bool {
	if len(outer) < 3 || len(inner) == 0 {
		return false
	}

	interior := false
	for _, v := range inner {
		if !Covers(outer, v) {
			return false
		}
		if !interior && !OnBoundary(v, outer) {
			interior = true
		}
	}

	n, m := len(inner), len(outer)
	for i := 0; i < n; i++ {
		a, b := inner[i], inner[(i+1)%n]
		for j := 0; j < m; j++ {
			if segmentsCross(a, b, outer[j], outer[(j+1)%m]) {
				return false
			}
		}
		// A concave outer ring can let an edge leave and re-enter through
		// outer vertices without a proper crossing, so every piece between
		// touching vertices is sampled.
		for _, mid := range pieceMidpoints(a, b, outer) {
			if !Covers(outer, mid) {
				return false
			}
			if !interior && !OnBoundary(mid, outer) {
				interior = true
			}
		}
	}

	if !interior {
		// Every sampled point sits on the outer boundary (e.g. identical
		// rings); test the inner ring's own interior instead.
		c := Centroid(inner)
		interior = ContainsPoint(inner, c) && ContainsPoint(outer, c)
	}

	return interior
}

// pieceMidpoints splits segment a-b at every outer vertex lying on it and
// returns the midpoint of each piece.
func pieceMidpoints(a, b Point2D, outer []Point2D) []Point2D {
	ts := []float64{0, 1}
	d := Point2D{X: b.X - a.X, Y: b.Y - a.Y}
	length2 := d.X*d.X + d.Y*d.Y
	if length2 > 0 {
		for _, v := range outer {
			if onSegment(v, a, b) {
				t := ((v.X-a.X)*d.X + (v.Y-a.Y)*d.Y) / length2
				if t > 0 && t < 1 {
					ts = append(ts, t)
				}
			}
		}
	}
	sort.Float64s(ts)

	mids := make([]Point2D, 0, len(ts)-1)
	for i := 1; i < len(ts); i++ {
		if ts[i]-ts[i-1] <= boundaryEpsilon {
			continue
		}
		t := (ts[i] + ts[i-1]) / 2
		mids = append(mids, Point2D{X: a.X + t*d.X, Y: a.Y + t*d.Y})
	}
	if len(mids) == 0 {
		mids = append(mids, Point2D{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2})
	}
	return mids
}

// onSegment reports whether p lies on segment a-b within boundaryEpsilon.
func onSegment(p, a, b Point2D) bool {
	if math.Abs(crossProduct(a, b, p)) > boundaryEpsilon*math.Max(1, a.Distance(b)) {
		return false
	}
	return p.X >= math.Min(a.X, b.X)-boundaryEpsilon && p.X <= math.Max(a.X, b.X)+boundaryEpsilon &&
		p.Y >= math.Min(a.Y, b.Y)-boundaryEpsilon && p.Y <= math.Max(a.Y, b.Y)+boundaryEpsilon
}

// segmentsCross reports a proper crossing: the segments intersect at a
// single point interior to both.
func segmentsCross(p1, p2, q1, q2 Point2D) bool {
	d1 := crossProduct(q1, q2, p1)
	d2 := crossProduct(q1, q2, p2)
	d3 := crossProduct(p1, p2, q1)
	d4 := crossProduct(p1, p2, q2)
	return ((d1 > boundaryEpsilon && d2 < -boundaryEpsilon) || (d1 < -boundaryEpsilon && d2 > boundaryEpsilon)) &&
		((d3 > boundaryEpsilon && d4 < -boundaryEpsilon) || (d3 < -boundaryEpsilon && d4 > boundaryEpsilon))
}

// crossProduct computes the cross product of vectors OA and OB.
func crossProduct(o, a, b Point2D) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}
