// Package overlay renders detections on top of a channel for visual
// inspection of a frame.
package overlay

import (
	"fmt"
	"image"
	"image/color"
	"math"

	img "ring-tracer/internal/image"
	"ring-tracer/pkg/colorutil"
	"ring-tracer/pkg/geometry"

	"github.com/disintegration/imaging"
	"gocv.io/x/gocv"
)

// Overlay is a BGR canvas built from one channel. Points passed to its
// drawing methods are in the geometric frame: X the column, Y the row.
type Overlay struct {
	canvas gocv.Mat
}

// New creates a canvas from a grayscale rendering of base.
func New(base *img.Channel) (*Overlay, error) {
	src, err := base.ToMat()
	if err != nil {
		return nil, fmt.Errorf("overlay: %w", err)
	}
	defer src.Close()

	gray := gocv.NewMat()
	defer gray.Close()
	alpha := 1.0
	if base.Depth == img.Depth16 {
		alpha = 255.0 / 65535.0
	}
	gocv.ConvertScaleAbs(src, &gray, alpha, 0)

	canvas := gocv.NewMat()
	gocv.CvtColor(gray, &canvas, gocv.ColorGrayToBGR)
	return &Overlay{canvas: canvas}, nil
}

// Close releases the canvas.
func (o *Overlay) Close() {
	o.canvas.Close()
}

// DrawPolyline draws a closed outline in the id's color. It lets an
// Overlay act as the drawing sink of contour extraction.
func (o *Overlay) DrawPolyline(id int, pts []geometry.Point2D) {
	o.drawPolygon(pts, colorutil.Distinct(id))
}

// DrawBoundaries outlines every boundary in its id's color.
func (o *Overlay) DrawBoundaries(boundaries []geometry.Boundary) {
	for _, b := range boundaries {
		o.DrawPolyline(b.ID, b.Polygon)
	}
}

// minBlobRadius keeps sub-pixel blobs visible.
const minBlobRadius = 2

// DrawBlobs circles every blob in c. Circles are drawn as polygons so the
// outline matches the sub-pixel blob center.
func (o *Overlay) DrawBlobs(blobs []geometry.Blob, c color.RGBA) {
	for _, b := range blobs {
		radius := math.Max(b.Radius, minBlobRadius)
		n := int(math.Ceil(2*math.Pi*radius)) + 4
		o.drawPolygon(geometry.CirclePoints(b.Center, radius, n), c)
	}
}

// Highlight outlines a polygon with a thicker stroke, e.g. a validated cell.
func (o *Overlay) Highlight(pts []geometry.Point2D, c color.RGBA) {
	if len(pts) < 2 {
		return
	}
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{toPoints(pts)})
	defer pv.Close()
	gocv.Polylines(&o.canvas, pv, true, c, 2)
}

func (o *Overlay) drawPolygon(pts []geometry.Point2D, c color.RGBA) {
	if len(pts) < 2 {
		return
	}
	pv := gocv.NewPointsVectorFromPoints([][]image.Point{toPoints(pts)})
	defer pv.Close()
	gocv.Polylines(&o.canvas, pv, true, c, 1)
}

// Image returns the canvas as a Go image.
func (o *Overlay) Image() (image.Image, error) {
	return o.canvas.ToImage()
}

// Save writes the canvas, enlarged by an integer factor so single-pixel
// detections stay visible. The format follows the file extension.
func (o *Overlay) Save(path string, scale int) error {
	out, err := o.Image()
	if err != nil {
		return fmt.Errorf("overlay: %w", err)
	}
	if scale > 1 {
		b := out.Bounds()
		out = imaging.Resize(out, b.Dx()*scale, b.Dy()*scale, imaging.NearestNeighbor)
	}
	if err := imaging.Save(out, path); err != nil {
		return fmt.Errorf("overlay: %w", err)
	}
	return nil
}

func toPoints(pts []geometry.Point2D) []image.Point {
	out := make([]image.Point, len(pts))
	for i, p := range pts {
		out[i] = image.Pt(int(math.Round(p.X)), int(math.Round(p.Y)))
	}
	return out
}
