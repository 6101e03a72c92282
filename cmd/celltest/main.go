// Command celltest runs nucleus, centrosome and cell detection on one frame
// and prints the validated nucleus/cell/centrosome tuples.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"ring-tracer/internal/analysis"
	"ring-tracer/internal/config"
	img "ring-tracer/internal/image"
	"ring-tracer/internal/overlay"
	"ring-tracer/internal/version"
	"ring-tracer/pkg/colorutil"
	"ring-tracer/pkg/engfmt"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	dnaPath := flag.String("dna", "", "Path to nuclear stain image (TIFF, PNG, or JPEG)")
	tubulinPath := flag.String("tubulin", "", "Path to cytoskeletal stain image")
	centrosomePath := flag.String("centrosome", "", "Optional centrosome stain image (defaults to tubulin)")
	compositePath := flag.String("composite", "", "RGB composite holding tubulin (red), centrosomes (green) and DNA (blue)")
	configPath := flag.String("config", "", "YAML parameter file")
	overlayPath := flag.String("overlay", "", "Write a diagnostic overlay to this PNG")
	scale := flag.Int("scale", 2, "Overlay enlargement factor")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if *compositePath == "" && (*dnaPath == "" || *tubulinPath == "") {
		fmt.Println("Usage: celltest -dna <path> -tubulin <path> [-centrosome <path>] [-config params.yaml] [-overlay out.png]")
		fmt.Println("       celltest -composite <path> [-config params.yaml] [-overlay out.png]")
		os.Exit(1)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var frame analysis.Frame
	if *compositePath != "" {
		frame = analysis.Frame{
			DNA:        mustLoad(*compositePath, img.ComponentBlue),
			Tubulin:    mustLoad(*compositePath, img.ComponentRed),
			Centrosome: mustLoad(*compositePath, img.ComponentGreen),
		}
	} else {
		frame = analysis.Frame{
			DNA:     mustLoad(*dnaPath, img.ComponentGray),
			Tubulin: mustLoad(*tubulinPath, img.ComponentGray),
		}
		if *centrosomePath != "" {
			frame.Centrosome = mustLoad(*centrosomePath, img.ComponentGray)
		}
	}
	fmt.Printf("Loaded %dx%d frame (%d-bit)\n", frame.DNA.Width, frame.DNA.Height, frame.DNA.Depth)

	report, err := analysis.AnalyzeFrame(frame, cfg)
	if err != nil {
		log.Fatalf("Analysis failed: %v", err)
	}

	printReport(report)

	if *overlayPath != "" {
		if err := writeOverlay(*overlayPath, frame, report, *scale); err != nil {
			log.Fatalf("Failed to write overlay: %v", err)
		}
		fmt.Printf("\nOverlay written to %s\n", *overlayPath)
	}
}

func mustLoad(path string, comp img.Component) *img.Channel {
	if !img.IsSupportedFormat(path) {
		log.Fatalf("Unsupported image format: %s (want one of %s)", path, strings.Join(img.SupportedFormats(), ", "))
	}
	ch, err := img.LoadComponent(path, comp)
	if err != nil {
		log.Fatalf("Failed to load %s: %v", path, err)
	}
	return ch
}

func printReport(report *analysis.Report) {
	fmt.Printf("\nNuclei: %d regions\n", report.Regions.Len())
	fmt.Printf("%-6s %10s %10s %10s %8s %8s %10s %6s\n",
		"Label", "Area", "Row", "Col", "Ecc", "Extent", "Perimeter", "Euler")
	fmt.Println(strings.Repeat("-", 76))
	for _, r := range report.Regions.Regions {
		fmt.Printf("%-6d %10s %10.1f %10.1f %8.3f %8.3f %10s %6d\n",
			r.Label, engfmt.Format(float64(r.Area), "%.1f", true),
			r.CentroidRow, r.CentroidCol, r.Eccentricity, r.Extent,
			engfmt.Format(r.Perimeter, "%.1f", true), r.EulerNumber)
	}

	fmt.Printf("\nCentrosomes: %d\n", len(report.Centrosomes))
	for _, b := range report.Centrosomes {
		fmt.Printf("  (%.1f, %.1f) r=%.2f\n", b.Center.X, b.Center.Y, b.Radius)
	}

	fmt.Printf("\nCells: %d\n", len(report.Cells))
	for _, c := range report.Cells {
		fmt.Printf("  cell %d: %d vertices, area %s px²\n",
			c.ID, len(c.Polygon), engfmt.Format(c.Area(), "%.1f", true))
	}

	fmt.Printf("\nTuples:\n")
	for i, t := range report.Tuples {
		if t.Valid {
			fmt.Printf("  nucleus %d: cell %d, %d centrosomes\n", report.Nuclei[i].ID, t.CellID, len(t.Centrosomes))
		} else {
			fmt.Printf("  nucleus %d: rejected (%s)\n", report.Nuclei[i].ID, t.Reason)
		}
	}
	fmt.Printf("\nTotal: %d of %d nuclei valid\n", len(report.Valid()), len(report.Tuples))
}

func writeOverlay(path string, frame analysis.Frame, report *analysis.Report, scale int) error {
	o, err := overlay.New(frame.Tubulin)
	if err != nil {
		return err
	}
	defer o.Close()

	o.DrawBoundaries(report.Cells)
	o.DrawBoundaries(report.Nuclei)
	o.DrawBlobs(report.Centrosomes, colorutil.Yellow)
	for _, t := range report.Valid() {
		o.Highlight(t.Cell, colorutil.Green)
	}
	return o.Save(path, scale)
}
