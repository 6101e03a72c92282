// Package contour extracts sub-pixel boundary polygons from intensity or
// mask images using marching squares.
package contour

import (
	"fmt"

	img "ring-tracer/internal/image"
	"ring-tracer/pkg/geometry"
)

// Sink receives every accepted boundary, e.g. to draw it on a display.
type Sink interface {
	DrawPolyline(id int, pts []geometry.Point2D)
}

// Options controls contour extraction.
type Options struct {
	Level   float64 // Iso level on the normalized [0, 1] intensity scale
	MinArea float64 // Contours enclosing less area (px²) are discarded
	Sink    Sink    // Optional
}

// DefaultOptions returns the defaults used for nucleus outlines.
func DefaultOptions() Options {
	return Options{
		Level:   0.9,
		MinArea: 100,
	}
}

// WithMinArea returns a copy of opts with a different area threshold.
func (o Options) WithMinArea(area float64) Options {
	o.MinArea = area
	return o
}

// WithSink returns a copy of opts that reports boundaries to sink.
func (o Options) WithSink(sink Sink) Options {
	o.Sink = sink
	return o
}

// Extract traces contours of the normalized channel at opts.Level, drops
// those enclosing less than opts.MinArea and maps the rest into the
// geometric frame. IDs are the contour's index among all traced contours,
// so they stay stable when the area threshold changes.
func Extract(ch *img.Channel, opts Options) ([]geometry.Boundary, error) {
	if err := ch.Validate(); err != nil {
		return nil, fmt.Errorf("contour extraction: %w", err)
	}

	contours := FindContours(ch.Normalized(), ch.Width, ch.Height, opts.Level)

	var boundaries []geometry.Boundary
	for k, c := range contours {
		if geometry.PolygonArea(c) < opts.MinArea {
			continue
		}
		b := geometry.Boundary{ID: k, Polygon: geometry.ToGeometricFrame(c)}
		boundaries = append(boundaries, b)
		if opts.Sink != nil {
			opts.Sink.DrawPolyline(b.ID, b.Polygon)
		}
	}

	fmt.Printf("[Contour] %d of %d contours above %.0f px²\n", len(boundaries), len(contours), opts.MinArea)
	return boundaries, nil
}

// ExtractLabels runs Extract on the foreground mask of a label image.
func ExtractLabels(labels *img.LabelImage, opts Options) ([]geometry.Boundary, error) {
	return Extract(labels.Mask(), opts)
}
