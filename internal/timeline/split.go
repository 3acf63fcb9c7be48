package timeline

import (
	"fmt"

	"github.com/addojo/api/internal/model"
)

// SplitOverlayAt cuts overlay into two at splitFrame. The first half keeps
// the original id and start frame; the second half takes newID, starts at
// splitFrame and covers the remainder, so the two intervals tile the
// original exactly. For clip and sound overlays the second half's in-source
// start offset advances by the elapsed frames converted to seconds at fps.
// splitFrame must be strictly inside (from, from+duration).
func SplitOverlayAt(overlay *model.Overlay, splitFrame int, newID int64, fps int) (first, second model.Overlay, err error) {
	if splitFrame <= overlay.From || splitFrame >= overlay.End() {
		return model.Overlay{}, model.Overlay{}, fmt.Errorf(
			"%w: frame %d outside (%d, %d)", ErrInvalidSplitPoint, splitFrame, overlay.From, overlay.End())
	}

	first = overlay.Clone()
	first.DurationInFrames = splitFrame - overlay.From

	second = overlay.Clone()
	second.ID = newID
	second.From = splitFrame
	second.DurationInFrames = overlay.End() - splitFrame

	elapsed := float64(first.DurationInFrames) / float64(fps)
	switch overlay.Type {
	case model.OverlayTypeClip:
		offset := second.StartOffset() + elapsed
		second.VideoStartTime = &offset
	case model.OverlayTypeSound:
		offset := second.StartOffset() + elapsed
		second.AudioStartTime = &offset
	}

	return first, second, nil
}
