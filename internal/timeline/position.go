package timeline

import (
	"sort"

	"github.com/addojo/api/internal/model"
)

// Position is a legal timeline placement
type Position struct {
	Row  int `json:"row"`
	From int `json:"from"`
}

// FindNextAvailablePosition returns the earliest collision-free placement
// for a new overlay of defaultDuration frames. Rows 0..visibleRows-1 are
// scanned in ascending order; within a row the earliest gap wins, falling
// back to the slot after the row's last overlay. The first (row, from) found
// is returned, so the tie-break is lowest row first, then lowest from. The
// function is pure and deterministic for identical inputs and it never
// fails: when every visible row is packed, the placement lands beyond the
// loaded end of the timeline and callers may grow the visible row count.
func FindNextAvailablePosition(overlays []model.Overlay, visibleRows, defaultDuration int) Position {
	for row := 0; row < visibleRows; row++ {
		if from, ok := earliestGapOnRow(overlays, row, defaultDuration); ok {
			return Position{Row: row, From: from}
		}
	}
	// Unreachable for visibleRows >= 1 since a row always has room after
	// its last overlay, but callers passing zero rows still get a legal
	// placement at the end of the timeline.
	return Position{Row: 0, From: TotalDuration(overlays)}
}

// earliestGapOnRow finds the smallest from >= 0 on the row such that
// [from, from+duration) clears every interval already on it.
func earliestGapOnRow(overlays []model.Overlay, row, duration int) (int, bool) {
	var intervals []model.Overlay
	for i := range overlays {
		if overlays[i].Row == row {
			intervals = append(intervals, overlays[i])
		}
	}
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].From < intervals[j].From
	})

	from := 0
	for i := range intervals {
		if from+duration <= intervals[i].From {
			return from, true
		}
		if end := intervals[i].End(); end > from {
			from = end
		}
	}
	return from, true
}

// NextSlotAfter chooses the placement for a duplicate of source: immediately
// after it on the same row when that slot is free, otherwise the next
// available position on the timeline.
func NextSlotAfter(overlays []model.Overlay, source *model.Overlay, visibleRows int) Position {
	candidate := model.Overlay{
		Row:              source.Row,
		From:             source.End(),
		DurationInFrames: source.DurationInFrames,
	}
	if !CollidesOnRow(overlays, &candidate) {
		return Position{Row: candidate.Row, From: candidate.From}
	}
	return FindNextAvailablePosition(overlays, visibleRows, source.DurationInFrames)
}
