package densitymap

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned for non-positive column counts, empty
// viewports and query points outside the viewport. Nothing is rendered when
// it is returned.
var ErrInvalidInput = errors.New("invalid input")

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func validateViewport(vp Viewport) error {
	if vp.Width <= 0 || vp.Height <= 0 {
		return invalidf("viewport must have positive size, got %dx%d", vp.Width, vp.Height)
	}
	return nil
}

func validateCols(cols int) error {
	if cols <= 0 {
		return invalidf("cols must be positive, got %d", cols)
	}
	return nil
}
