// Package image provides single-channel intensity images, label images,
// channel loading and conversion to and from OpenCV matrices.
package image

import (
	"fmt"
	"image"
	"image/color"
)

// Depth is the bit depth of a channel's samples.
type Depth int

const (
	Depth8  Depth = 8
	Depth16 Depth = 16
)

// MaxValue returns the largest sample value representable at this depth.
func (d Depth) MaxValue() float64 {
	if d == Depth8 {
		return 255
	}
	return 65535
}

// Channel is one immutable single-channel intensity image, e.g. the
// nuclear stain or the cytoskeletal stain of a frame.
type Channel struct {
	Width  int
	Height int
	Depth  Depth
	Pix    []uint16 // Row-major samples, len = Width*Height
}

// NewChannel allocates a zeroed channel.
func NewChannel(width, height int, depth Depth) *Channel {
	if width < 0 || height < 0 {
		width, height = 0, 0
	}
	return &Channel{
		Width:  width,
		Height: height,
		Depth:  depth,
		Pix:    make([]uint16, width*height),
	}
}

// FromImage copies a grayscale Go image into a Channel. Only *image.Gray and
// *image.Gray16 are accepted; anything else is not single-channel.
func FromImage(src image.Image) (*Channel, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil image", ErrInvalidInput)
	}
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()

	switch img := src.(type) {
	case *image.Gray:
		ch := NewChannel(w, h, Depth8)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				ch.Pix[y*w+x] = uint16(img.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
			}
		}
		return ch, ch.Validate()
	case *image.Gray16:
		ch := NewChannel(w, h, Depth16)
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				ch.Pix[y*w+x] = img.Gray16At(b.Min.X+x, b.Min.Y+y).Y
			}
		}
		return ch, ch.Validate()
	default:
		return nil, fmt.Errorf("%w: color model %T is not single-channel", ErrInvalidInput, src.ColorModel())
	}
}

// Validate checks that the channel is non-empty and well formed.
func (c *Channel) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: nil channel", ErrInvalidInput)
	}
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("%w: empty image %dx%d", ErrInvalidInput, c.Width, c.Height)
	}
	if len(c.Pix) != c.Width*c.Height {
		return fmt.Errorf("%w: buffer holds %d samples, want %d", ErrInvalidInput, len(c.Pix), c.Width*c.Height)
	}
	if c.Depth != Depth8 && c.Depth != Depth16 {
		return fmt.Errorf("%w: unsupported depth %d", ErrInvalidInput, c.Depth)
	}
	return nil
}

// SameSize reports whether two channels are co-registered.
func (c *Channel) SameSize(other *Channel) bool {
	return c.Width == other.Width && c.Height == other.Height
}

// At returns the sample at (row, col).
func (c *Channel) At(row, col int) uint16 {
	return c.Pix[row*c.Width+col]
}

// Set stores a sample at (row, col).
func (c *Channel) Set(row, col int, v uint16) {
	c.Pix[row*c.Width+col] = v
}

// Normalized returns the samples scaled to [0, 1] by the depth's range.
func (c *Channel) Normalized() []float64 {
	scale := 1 / c.Depth.MaxValue()
	out := make([]float64, len(c.Pix))
	for i, v := range c.Pix {
		out[i] = float64(v) * scale
	}
	return out
}

// Floats returns the raw samples as float64.
func (c *Channel) Floats() []float64 {
	out := make([]float64, len(c.Pix))
	for i, v := range c.Pix {
		out[i] = float64(v)
	}
	return out
}

// IsConstant reports whether every sample has the same value.
func (c *Channel) IsConstant() bool {
	for _, v := range c.Pix {
		if v != c.Pix[0] {
			return false
		}
	}
	return true
}

// ToImage renders the channel as a Go grayscale image for display code.
func (c *Channel) ToImage() image.Image {
	r := image.Rect(0, 0, c.Width, c.Height)
	if c.Depth == Depth8 {
		img := image.NewGray(r)
		for i, v := range c.Pix {
			img.Pix[i] = uint8(v)
		}
		return img
	}
	img := image.NewGray16(r)
	for y := 0; y < c.Height; y++ {
		for x := 0; x < c.Width; x++ {
			img.SetGray16(x, y, color.Gray16{Y: c.Pix[y*c.Width+x]})
		}
	}
	return img
}
