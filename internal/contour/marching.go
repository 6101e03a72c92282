package contour

import "ring-tracer/pkg/geometry"

// vertex is a contour point in (row, col) array coordinates. Adjacent cells
// compute shared edge crossings from the same two samples, so equal
// vertices compare equal exactly and can key the assembly maps.
type vertex [2]float64

type segment struct {
	from, to vertex
}

// fraction returns where level crosses the edge between two samples.
func fraction(from, to, level float64) float64 {
	if to == from {
		return 0
	}
	return (level - from) / (to - from)
}

// cellSegments runs marching squares over a row-major grid and returns the
// oriented iso-segments. Saddle cells are disconnected toward low values,
// so bright regions produce closed contours of their own.
func cellSegments(values []float64, width, height int, level float64) []segment {
	var segments []segment
	for r0 := 0; r0 < height-1; r0++ {
		r1 := r0 + 1
		for c0 := 0; c0 < width-1; c0++ {
			c1 := c0 + 1
			ul := values[r0*width+c0]
			ur := values[r0*width+c1]
			ll := values[r1*width+c0]
			lr := values[r1*width+c1]

			squareCase := 0
			if ul > level {
				squareCase |= 1
			}
			if ur > level {
				squareCase |= 2
			}
			if ll > level {
				squareCase |= 4
			}
			if lr > level {
				squareCase |= 8
			}
			if squareCase == 0 || squareCase == 15 {
				continue
			}

			top := vertex{float64(r0), float64(c0) + fraction(ul, ur, level)}
			bottom := vertex{float64(r1), float64(c0) + fraction(ll, lr, level)}
			left := vertex{float64(r0) + fraction(ul, ll, level), float64(c0)}
			right := vertex{float64(r0) + fraction(ur, lr, level), float64(c1)}

			switch squareCase {
			case 1:
				segments = append(segments, segment{top, left})
			case 2:
				segments = append(segments, segment{right, top})
			case 3:
				segments = append(segments, segment{right, left})
			case 4:
				segments = append(segments, segment{left, bottom})
			case 5:
				segments = append(segments, segment{top, bottom})
			case 6:
				segments = append(segments, segment{right, top}, segment{left, bottom})
			case 7:
				segments = append(segments, segment{right, bottom})
			case 8:
				segments = append(segments, segment{bottom, right})
			case 9:
				segments = append(segments, segment{top, left}, segment{bottom, right})
			case 10:
				segments = append(segments, segment{bottom, top})
			case 11:
				segments = append(segments, segment{bottom, left})
			case 12:
				segments = append(segments, segment{left, right})
			case 13:
				segments = append(segments, segment{top, right})
			case 14:
				segments = append(segments, segment{left, top})
			}
		}
	}
	return segments
}

// chain is a contour under assembly. id orders contours by creation, which
// follows the top-to-bottom, left-to-right cell scan.
type chain struct {
	id  int
	pts []vertex
}

// assemble joins oriented segments head to tail into polylines. Closed
// contours repeat their first vertex at the end.
func assemble(segments []segment) [][]vertex {
	starts := make(map[vertex]*chain)
	ends := make(map[vertex]*chain)
	alive := make(map[int]*chain)
	next := 0

	for _, s := range segments {
		if s.from == s.to {
			continue
		}

		tail, hasTail := starts[s.to]
		if hasTail {
			delete(starts, s.to)
		}
		head, hasHead := ends[s.from]
		if hasHead {
			delete(ends, s.from)
		}

		switch {
		case hasTail && hasHead && tail == head:
			// Closing a loop
			head.pts = append(head.pts, s.to)
		case hasTail && hasHead:
			// Join two chains, keeping the older one
			if tail.id > head.id {
				head.pts = append(head.pts, tail.pts...)
				delete(alive, tail.id)
				starts[head.pts[0]] = head
				ends[head.pts[len(head.pts)-1]] = head
			} else {
				delete(starts, head.pts[0])
				delete(alive, head.id)
				tail.pts = append(append([]vertex{}, head.pts...), tail.pts...)
				starts[tail.pts[0]] = tail
				ends[tail.pts[len(tail.pts)-1]] = tail
			}
		case !hasTail && !hasHead:
			c := &chain{id: next, pts: []vertex{s.from, s.to}}
			next++
			alive[c.id] = c
			starts[s.from] = c
			ends[s.to] = c
		case hasTail:
			tail.pts = append([]vertex{s.from}, tail.pts...)
			starts[s.from] = tail
		default:
			head.pts = append(head.pts, s.to)
			ends[s.to] = head
		}
	}

	out := make([][]vertex, 0, len(alive))
	for id := 0; id < next; id++ {
		if c, ok := alive[id]; ok {
			out = append(out, c.pts)
		}
	}
	return out
}

// FindContours traces iso-valued contours of a row-major grid at level.
// Points are returned with X holding the row and Y the column, with
// sub-pixel interpolation along cell edges.
func FindContours(values []float64, width, height int, level float64) [][]geometry.Point2D {
	raw := assemble(cellSegments(values, width, height, level))
	out := make([][]geometry.Point2D, len(raw))
	for i, pts := range raw {
		poly := make([]geometry.Point2D, len(pts))
		for j, v := range pts {
			poly[j] = geometry.Point2D{X: v[0], Y: v[1]}
		}
		out[i] = poly
	}
	return out
}
