package image

import (
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/tiff"
)

// Component selects which sample of a color image becomes the channel.
type Component int

const (
	ComponentGray Component = iota // Image must already be grayscale
	ComponentRed
	ComponentGreen
	ComponentBlue
)

// LoadComponent reads a TIFF, PNG or JPEG file and extracts one component.
// ComponentGray expects a grayscale file. Stacks saved as RGB composites
// keep each stain in its own color component.
func LoadComponent(path string, comp Component) (*Channel, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open image: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if comp == ComponentGray {
		return FromImage(img)
	}
	return ExtractComponent(img, comp)
}

// ExtractComponent copies one color component of img into a 16-bit channel.
func ExtractComponent(img image.Image, comp Component) (*Channel, error) {
	if comp < ComponentRed || comp > ComponentBlue {
		return nil, fmt.Errorf("%w: component %d", ErrInvalidInput, comp)
	}
	b := img.Bounds()
	ch := NewChannel(b.Dx(), b.Dy(), Depth16)
	for y := 0; y < ch.Height; y++ {
		for x := 0; x < ch.Width; x++ {
			c := color.RGBA64Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(color.RGBA64)
			switch comp {
			case ComponentRed:
				ch.Pix[y*ch.Width+x] = c.R
			case ComponentGreen:
				ch.Pix[y*ch.Width+x] = c.G
			case ComponentBlue:
				ch.Pix[y*ch.Width+x] = c.B
			}
		}
	}
	return ch, ch.Validate()
}

// SupportedFormats returns the list of supported image formats.
func SupportedFormats() []string {
	return []string{".tiff", ".tif", ".png", ".jpg", ".jpeg"}
}

// IsSupportedFormat checks if the given path has a supported image format.
func IsSupportedFormat(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, format := range SupportedFormats() {
		if ext == format {
			return true
		}
	}
	return false
}
