// Package validate decides whether a nucleus candidate, the cell around it
// and the centrosomes inside that cell form a scorable tuple.
package validate

import (
	"ring-tracer/pkg/geometry"
)

// RejectReason says why a candidate was rejected.
type RejectReason int

const (
	Accepted RejectReason = iota
	NoContainingCell
	CellTouchesFrame
	NucleusCount
	CentrosomeCount
	AmbiguousCell
)

// String returns a human-readable reason.
func (r RejectReason) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case NoContainingCell:
		return "no cell contains the nucleus"
	case CellTouchesFrame:
		return "cell is not inside the frame"
	case NucleusCount:
		return "cell does not hold exactly one nucleus"
	case CentrosomeCount:
		return "cell does not hold one or two centrosomes"
	case AmbiguousCell:
		return "more than one cell contains the nucleus"
	default:
		return "unknown"
	}
}

// Options controls validation.
type Options struct {
	// RequireUniqueCell rejects a nucleus contained by more than one cell
	// instead of taking the first match.
	RequireUniqueCell bool

	MinCentrosomes int
	MaxCentrosomes int
}

// DefaultOptions returns first-match semantics with one or two centrosomes.
func DefaultOptions() Options {
	return Options{
		MinCentrosomes: 1,
		MaxCentrosomes: 2,
	}
}

// Tuple is the outcome for one nucleus candidate. On rejection Cell holds
// the best cell found so far (nil when none contains the nucleus) and
// Centrosomes may be partial.
type Tuple struct {
	Valid       bool
	Cell        []geometry.Point2D
	CellID      int
	Nucleus     []geometry.Point2D
	Centrosomes []geometry.Point2D
	Reason      RejectReason
}

// Validate checks one nucleus candidate against the frame, the cell
// outlines, every nucleus outline and the centrosome positions. width and
// height are the image size in pixels. It never fails; every problem is
// reported as an invalid Tuple.
func Validate(width, height int, nucleus []geometry.Point2D, cells, nuclei []geometry.Boundary, centrosomes []geometry.Point2D, opts Options) Tuple {
	out := Tuple{Nucleus: nucleus, CellID: -1}

	matches := 0
	for _, c := range cells {
		if !geometry.ContainsPolygon(c.Polygon, nucleus) {
			continue
		}
		matches++
		if matches == 1 {
			out.Cell = c.Polygon
			out.CellID = c.ID
			if !opts.RequireUniqueCell {
				break
			}
		}
	}
	if matches == 0 {
		out.Reason = NoContainingCell
		return out
	}
	if matches > 1 {
		out.Reason = AmbiguousCell
		return out
	}

	frame := geometry.NewRect(0, 0, float64(width), float64(height)).Polygon()
	if !geometry.ContainsPolygon(frame, out.Cell) {
		out.Reason = CellTouchesFrame
		return out
	}

	n := 0
	for _, other := range nuclei {
		if geometry.ContainsPolygon(out.Cell, other.Polygon) {
			n++
		}
	}
	if n != 1 {
		out.Reason = NucleusCount
		return out
	}

	for _, p := range centrosomes {
		if geometry.ContainsPoint(out.Cell, p) {
			out.Centrosomes = append(out.Centrosomes, p)
		}
	}
	if len(out.Centrosomes) < opts.MinCentrosomes || len(out.Centrosomes) > opts.MaxCentrosomes {
		// The cell is not reported for a centrosome failure.
		out.Cell = nil
		out.CellID = -1
		out.Reason = CentrosomeCount
		return out
	}

	out.Valid = true
	out.Reason = Accepted
	return out
}
