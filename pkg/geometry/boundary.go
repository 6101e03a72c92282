package geometry

// Boundary is the outer contour of one region (a nucleus or a cell).
type Boundary struct {
	ID      int       `json:"id"`
	Polygon []Point2D `json:"boundary"`
}

// Area returns the enclosed area of the boundary polygon.
func (b Boundary) Area() float64 {
	return PolygonArea(b.Polygon)
}

// Blob is a disk-like detection, e.g. a centrosome, in the geometric frame.
type Blob struct {
	Center Point2D `json:"center"`
	Radius float64 `json:"radius"`
}

// Centers returns the blob centers in order.
func Centers(blobs []Blob) []Point2D {
	out := make([]Point2D, len(blobs))
	for i, b := range blobs {
		out[i] = b.Center
	}
	return out
}
