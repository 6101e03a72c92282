package image

// LabelImage assigns every pixel a non-negative label. 0 is background;
// positive labels are contiguous starting at 1 within one segmentation run.
type LabelImage struct {
	Width  int
	Height int
	Labels []int32 // Row-major, len = Width*Height
}

// NewLabelImage allocates an all-background label image.
func NewLabelImage(width, height int) *LabelImage {
	return &LabelImage{
		Width:  width,
		Height: height,
		Labels: make([]int32, width*height),
	}
}

// At returns the label at (row, col).
func (l *LabelImage) At(row, col int) int32 {
	return l.Labels[row*l.Width+col]
}

// Set stores a label at (row, col).
func (l *LabelImage) Set(row, col int, label int32) {
	l.Labels[row*l.Width+col] = label
}

// Count returns the largest label, which equals the number of regions
// when labels are contiguous.
func (l *LabelImage) Count() int {
	var maxLabel int32
	for _, v := range l.Labels {
		if v > maxLabel {
			maxLabel = v
		}
	}
	return int(maxLabel)
}

// Distinct returns the set of positive labels present.
func (l *LabelImage) Distinct() map[int32]bool {
	seen := make(map[int32]bool)
	for _, v := range l.Labels {
		if v > 0 {
			seen[v] = true
		}
	}
	return seen
}

// Mask returns an 8-bit channel that is 255 wherever the label is positive.
func (l *LabelImage) Mask() *Channel {
	ch := NewChannel(l.Width, l.Height, Depth8)
	for i, v := range l.Labels {
		if v > 0 {
			ch.Pix[i] = 255
		}
	}
	return ch
}

// TouchesBorder reports whether the label occupies any pixel on the outer
// rows or columns.
func (l *LabelImage) TouchesBorder(label int32) bool {
	w, h := l.Width, l.Height
	for col := 0; col < w; col++ {
		if l.At(0, col) == label || l.At(h-1, col) == label {
			return true
		}
	}
	for row := 0; row < h; row++ {
		if l.At(row, 0) == label || l.At(row, w-1) == label {
			return true
		}
	}
	return false
}
