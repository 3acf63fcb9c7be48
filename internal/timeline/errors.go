package timeline

import "errors"

var (
	// ErrOverlayCollision is returned when a placement or resize would make
	// two overlays on the same row overlap in time.
	ErrOverlayCollision = errors.New("overlay collision")

	// ErrInvalidSplitPoint is returned when a split frame is not strictly
	// inside the overlay's interval.
	ErrInvalidSplitPoint = errors.New("invalid split point")

	// ErrUnknownOverlay is returned when an operation references an overlay
	// id that is not in the collection.
	ErrUnknownOverlay = errors.New("unknown overlay")

	// ErrInvalidOverlay is returned when an overlay fails basic validation
	// (non-positive duration, negative start frame or row, unknown type).
	ErrInvalidOverlay = errors.New("invalid overlay")
)
