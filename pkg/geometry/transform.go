package geometry

import "math"

// singularDet is the determinant magnitude under which a transform has no
// usable inverse.
const singularDet = 1e-10

// AffineTransform is the 2x3 matrix
//
//	[A B TX]
//	[C D TY]
type AffineTransform struct {
	A, B, TX float64
	C, D, TY float64
}

// Rotation turns points counter-clockwise about the origin.
func Rotation(radians float64) AffineTransform {
	sin, cos := math.Sincos(radians)
	return AffineTransform{A: cos, B: -sin, C: sin, D: cos}
}

// Scale stretches each axis independently; a negative factor mirrors it.
func Scale(sx, sy float64) AffineTransform {
	return AffineTransform{A: sx, D: sy}
}

// Apply maps one point.
func (t AffineTransform) Apply(p Point2D) Point2D {
	return Point2D{
		X: t.A*p.X + t.B*p.Y + t.TX,
		Y: t.C*p.X + t.D*p.Y + t.TY,
	}
}

// ApplyAll maps a ring into a new slice.
func (t AffineTransform) ApplyAll(points []Point2D) []Point2D {
	out := make([]Point2D, len(points))
	for i, p := range points {
		out[i] = t.Apply(p)
	}
	return out
}

// Compose returns the transform that applies first, then t.
func (t AffineTransform) Compose(first AffineTransform) AffineTransform {
	origin := t.Apply(Point2D{X: first.TX, Y: first.TY})
	return AffineTransform{
		A: t.A*first.A + t.B*first.C, B: t.A*first.B + t.B*first.D, TX: origin.X,
		C: t.C*first.A + t.D*first.C, D: t.C*first.B + t.D*first.D, TY: origin.Y,
	}
}

// Inverse returns the inverse transform. ok is false for singular
// transforms.
func (t AffineTransform) Inverse() (inv AffineTransform, ok bool) {
	det := t.A*t.D - t.B*t.C
	if math.Abs(det) < singularDet {
		return AffineTransform{}, false
	}
	inv = AffineTransform{A: t.D / det, B: -t.B / det, C: -t.C / det, D: t.A / det}
	shift := inv.Apply(Point2D{X: t.TX, Y: t.TY})
	inv.TX, inv.TY = -shift.X, -shift.Y
	return inv, true
}

// FrameTransform maps array coordinates, stored as X=row and Y=col, into the
// geometric frame used by polygons and blobs: a quarter-turn rotation
// followed by negating the first axis. The net effect is X=col, Y=row.
func FrameTransform() AffineTransform {
	return Scale(-1, 1).Compose(Rotation(math.Pi / 2))
}

// ToGeometricFrame maps (row, col) points into the geometric frame.
func ToGeometricFrame(points []Point2D) []Point2D {
	return FrameTransform().ApplyAll(points)
}

// FromGeometricFrame undoes ToGeometricFrame.
func FromGeometricFrame(points []Point2D) []Point2D {
	inv, _ := FrameTransform().Inverse()
	return inv.ApplyAll(points)
}
