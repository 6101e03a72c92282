package nuclei

// Params controls nuclei segmentation.
type Params struct {
	// Radius is the expected nucleus radius in pixels. It is a hint for
	// callers and does not change the default thresholding path.
	Radius float64

	// MinHoleArea is the area below which enclosed background is filled.
	MinHoleArea int

	// MinObjectArea is the area below which foreground specks are removed.
	MinObjectArea int
}

// DefaultParams returns default nuclei segmentation parameters.
func DefaultParams() Params {
	return Params{
		Radius:        30,
		MinHoleArea:   64,
		MinObjectArea: 64,
	}
}

// WithRadius returns a copy of params with a different radius hint.
func (p Params) WithRadius(radius float64) Params {
	p.Radius = radius
	return p
}

// WithCleanup returns a copy of params with custom hole and speck areas.
func (p Params) WithCleanup(minHoleArea, minObjectArea int) Params {
	p.MinHoleArea = minHoleArea
	p.MinObjectArea = minObjectArea
	return p
}
