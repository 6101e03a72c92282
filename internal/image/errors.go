package image

import "errors"

var (
	// ErrInvalidInput reports a malformed image: empty, mismatched buffer
	// or not single-channel. It is fatal at the package boundary.
	ErrInvalidInput = errors.New("invalid input image")

	// ErrDegenerateInput reports that an algorithm step cannot proceed,
	// e.g. Otsu thresholding of a constant image. Callers treat the
	// affected output as empty.
	ErrDegenerateInput = errors.New("degenerate input image")
)
