// Package timeline implements the frame-based scheduling rules of the editor
// timeline: collision-free placement of overlays across rows, splitting, and
// the validation predicates the composition store enforces after every edit.
package timeline

import (
	"fmt"

	"github.com/addojo/api/internal/model"
)

// IntervalsOverlap reports whether the half-open frame intervals
// [fromA, fromA+durA) and [fromB, fromB+durB) intersect.
func IntervalsOverlap(fromA, durA, fromB, durB int) bool {
	return fromA < fromB+durB && fromB < fromA+durA
}

// ValidateOverlay checks the structural rules a single overlay must satisfy
// independent of the rest of the collection.
func ValidateOverlay(o *model.Overlay) error {
	if !o.Type.IsValid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidOverlay, o.Type)
	}
	if o.Row < 0 {
		return fmt.Errorf("%w: negative row %d", ErrInvalidOverlay, o.Row)
	}
	if o.From < 0 {
		return fmt.Errorf("%w: negative start frame %d", ErrInvalidOverlay, o.From)
	}
	if o.DurationInFrames <= 0 {
		return fmt.Errorf("%w: duration must be positive, got %d", ErrInvalidOverlay, o.DurationInFrames)
	}
	return nil
}

// CollidesOnRow reports whether candidate would overlap any overlay on its
// row. Overlays with ids in exclude are skipped, so an overlay being moved
// or resized is not compared against itself.
func CollidesOnRow(overlays []model.Overlay, candidate *model.Overlay, exclude ...int64) bool {
	for i := range overlays {
		o := &overlays[i]
		if o.Row != candidate.Row {
			continue
		}
		if excluded(o.ID, exclude) {
			continue
		}
		if IntervalsOverlap(o.From, o.DurationInFrames, candidate.From, candidate.DurationInFrames) {
			return true
		}
	}
	return false
}

func excluded(id int64, exclude []int64) bool {
	for _, e := range exclude {
		if id == e {
			return true
		}
	}
	return false
}

// TotalDuration returns the composition length in frames, the maximum
// from+durationInFrames over all overlays.
func TotalDuration(overlays []model.Overlay) int {
	total := 0
	for i := range overlays {
		if end := overlays[i].End(); end > total {
			total = end
		}
	}
	return total
}
