package gridasset

import "errors"

// Sentinel errors for the taxonomy in design doc Section 7 (AssetError).
// Callers use errors.Is against these; Load always wraps with context via
// fmt.Errorf("%w: ...").
var (
	// ErrMissingAsset is returned when a required file is absent from the
	// asset directory.
	ErrMissingAsset = errors.New("gridasset: missing asset")

	// ErrShapeMismatch is returned when the four grids disagree on shape.
	ErrShapeMismatch = errors.New("gridasset: shape mismatch")

	// ErrClassOutOfRange is returned when a semantic cell value falls
	// outside the closed class set.
	ErrClassOutOfRange = errors.New("gridasset: class out of range")
)
