package image

import (
	"fmt"

	"gocv.io/x/gocv"
)

// ToMat copies the channel into a single-channel OpenCV matrix of matching
// depth (CV_8U or CV_16U). The caller owns the returned Mat.
func (c *Channel) ToMat() (gocv.Mat, error) {
	if err := c.Validate(); err != nil {
		return gocv.NewMat(), err
	}

	if c.Depth == Depth8 {
		mat := gocv.NewMatWithSize(c.Height, c.Width, gocv.MatTypeCV8U)
		data, err := mat.DataPtrUint8()
		if err != nil {
			mat.Close()
			return gocv.NewMat(), fmt.Errorf("failed to access mat data: %w", err)
		}
		for i, v := range c.Pix {
			data[i] = uint8(v)
		}
		return mat, nil
	}

	mat := gocv.NewMatWithSize(c.Height, c.Width, gocv.MatTypeCV16U)
	data, err := mat.DataPtrUint16()
	if err != nil {
		mat.Close()
		return gocv.NewMat(), fmt.Errorf("failed to access mat data: %w", err)
	}
	copy(data, c.Pix)
	return mat, nil
}

// ChannelFromMat copies a CV_8U or CV_16U matrix into a new Channel.
func ChannelFromMat(mat gocv.Mat) (*Channel, error) {
	if mat.Empty() {
		return nil, fmt.Errorf("%w: empty mat", ErrInvalidInput)
	}
	rows, cols := mat.Rows(), mat.Cols()

	switch mat.Type() {
	case gocv.MatTypeCV8U:
		data, err := mat.DataPtrUint8()
		if err != nil {
			return nil, fmt.Errorf("failed to access mat data: %w", err)
		}
		ch := NewChannel(cols, rows, Depth8)
		for i := range ch.Pix {
			ch.Pix[i] = uint16(data[i])
		}
		return ch, nil
	case gocv.MatTypeCV16U:
		data, err := mat.DataPtrUint16()
		if err != nil {
			return nil, fmt.Errorf("failed to access mat data: %w", err)
		}
		ch := NewChannel(cols, rows, Depth16)
		copy(ch.Pix, data)
		return ch, nil
	default:
		return nil, fmt.Errorf("%w: unsupported mat type %v", ErrInvalidInput, mat.Type())
	}
}

// LabelsFromMat copies a CV_32S label matrix, e.g. the output of
// gocv.ConnectedComponents.
func LabelsFromMat(mat gocv.Mat) *LabelImage {
	l := NewLabelImage(mat.Cols(), mat.Rows())
	for row := 0; row < l.Height; row++ {
		for col := 0; col < l.Width; col++ {
			l.Set(row, col, mat.GetIntAt(row, col))
		}
	}
	return l
}

// FloatsToMat copies row-major float64 samples into a CV_64F matrix.
func FloatsToMat(values []float64, width, height int) (gocv.Mat, error) {
	if len(values) != width*height {
		return gocv.NewMat(), fmt.Errorf("%w: %d samples for %dx%d", ErrInvalidInput, len(values), width, height)
	}
	mat := gocv.NewMatWithSize(height, width, gocv.MatTypeCV64F)
	data, err := mat.DataPtrFloat64()
	if err != nil {
		mat.Close()
		return gocv.NewMat(), fmt.Errorf("failed to access mat data: %w", err)
	}
	copy(data, values)
	return mat, nil
}

// FloatsFromMat copies a CV_64F matrix into row-major samples.
func FloatsFromMat(mat gocv.Mat) ([]float64, error) {
	data, err := mat.DataPtrFloat64()
	if err != nil {
		return nil, fmt.Errorf("failed to access mat data: %w", err)
	}
	out := make([]float64, len(data))
	copy(out, data)
	return out, nil
}
