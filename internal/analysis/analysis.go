// Package analysis runs the segmentation stages on one frame and validates
// every nucleus candidate against the detected cells and centrosomes.
package analysis

import (
	"errors"
	"fmt"

	"ring-tracer/internal/cell"
	"ring-tracer/internal/centrosome"
	"ring-tracer/internal/config"
	"ring-tracer/internal/contour"
	img "ring-tracer/internal/image"
	"ring-tracer/internal/nuclei"
	"ring-tracer/internal/validate"
	"ring-tracer/pkg/engfmt"
	"ring-tracer/pkg/geometry"
)

// Frame holds the co-registered channels of one field of view.
type Frame struct {
	DNA     *img.Channel // Nuclear stain
	Tubulin *img.Channel // Cytoskeletal stain

	// Centrosome is an optional dedicated centrosome stain. When nil,
	// centrosomes are detected in the tubulin channel.
	Centrosome *img.Channel
}

// Report is everything computed for one frame. It holds no references to
// OpenCV buffers.
type Report struct {
	Labels      *img.LabelImage
	Regions     *nuclei.RegionTable
	Nuclei      []geometry.Boundary
	Centrosomes []geometry.Blob
	Cells       []geometry.Boundary
	Ridge       *img.Channel // nil when cell segmentation was degenerate
	Tuples      []validate.Tuple
}

// Valid returns the accepted tuples.
func (r *Report) Valid() []validate.Tuple {
	var out []validate.Tuple
	for _, t := range r.Tuples {
		if t.Valid {
			out = append(out, t)
		}
	}
	return out
}

// AnalyzeFrame segments nuclei, outlines them, detects centrosomes,
// segments cells and validates each nucleus outline. Stages that find
// nothing produce empty results; only malformed channels are errors.
func AnalyzeFrame(frame Frame, cfg *config.Config) (*Report, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := checkFrame(frame); err != nil {
		return nil, fmt.Errorf("analyze frame: %w", err)
	}
	w, h := frame.DNA.Width, frame.DNA.Height
	fmt.Printf("[Analysis] Frame %dx%d\n", w, h)

	labels, regions, err := nuclei.Segment(frame.DNA, cfg.NucleiParams())
	if err != nil {
		return nil, fmt.Errorf("analyze frame: %w", err)
	}

	nucleusOutlines, err := contour.ExtractLabels(labels, cfg.ContourOptions())
	if err != nil {
		return nil, fmt.Errorf("analyze frame: %w", err)
	}

	spots := frame.Centrosome
	if spots == nil {
		spots = frame.Tubulin
	}
	blobs, err := centrosome.Detect(spots, cfg.CentrosomeParams())
	if err != nil {
		return nil, fmt.Errorf("analyze frame: %w", err)
	}

	report := &Report{
		Labels:      labels,
		Regions:     regions,
		Nuclei:      nucleusOutlines,
		Centrosomes: blobs,
	}

	cellParams := cfg.CellParams()
	if cfg.Cell.SeedFromNuclei && regions.Len() > 0 {
		cellParams = cellParams.WithMarkers(labels)
	}
	cells, err := cell.Segment(frame.Tubulin, frame.DNA, cellParams)
	switch {
	case errors.Is(err, img.ErrDegenerateInput):
		fmt.Printf("[Analysis] No cell boundaries: %v\n", err)
	case err != nil:
		return nil, fmt.Errorf("analyze frame: %w", err)
	default:
		report.Cells = cells.Boundaries
		report.Ridge = cells.Ridge
	}

	centers := geometry.Centers(blobs)
	opts := cfg.ValidateOptions()
	for _, n := range nucleusOutlines {
		t := validate.Validate(w, h, n.Polygon, report.Cells, nucleusOutlines, centers, opts)
		report.Tuples = append(report.Tuples, t)
		if t.Valid {
			fmt.Printf("[Analysis] Nucleus %d in cell %d: area %s px², %d centrosomes\n",
				n.ID, t.CellID, engfmt.Format(n.Area(), "%.1f", true), len(t.Centrosomes))
		} else {
			fmt.Printf("[Analysis] Nucleus %d rejected: %s\n", n.ID, t.Reason)
		}
	}

	fmt.Printf("[Analysis] %d of %d nuclei valid\n", len(report.Valid()), len(report.Tuples))
	return report, nil
}

func checkFrame(frame Frame) error {
	if err := frame.DNA.Validate(); err != nil {
		return fmt.Errorf("dna: %w", err)
	}
	if err := frame.Tubulin.Validate(); err != nil {
		return fmt.Errorf("tubulin: %w", err)
	}
	if !frame.DNA.SameSize(frame.Tubulin) {
		return fmt.Errorf("%w: dna %dx%d, tubulin %dx%d", img.ErrInvalidInput,
			frame.DNA.Width, frame.DNA.Height, frame.Tubulin.Width, frame.Tubulin.Height)
	}
	if frame.Centrosome != nil {
		if err := frame.Centrosome.Validate(); err != nil {
			return fmt.Errorf("centrosome: %w", err)
		}
		if !frame.DNA.SameSize(frame.Centrosome) {
			return fmt.Errorf("%w: centrosome channel is %dx%d", img.ErrInvalidInput,
				frame.Centrosome.Width, frame.Centrosome.Height)
		}
	}
	return nil
}
