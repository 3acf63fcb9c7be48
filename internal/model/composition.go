package model

// Snapshot is an immutable copy of a composition taken at render-submission
// time. It round-trips losslessly through JSON: overlays keep their order and
// every frame count stays an integer. The transient isDragging flag is
// cleared before a snapshot is taken, so it never reaches the render backend.
type Snapshot struct {
	Overlays []Overlay `json:"overlays"`
	FPS      int       `json:"fps"`
	Width    int       `json:"width"`
	Height   int       `json:"height"`
}

// DurationInFrames returns the total composition length, the maximum
// from+durationInFrames over all overlays.
func (s *Snapshot) DurationInFrames() int {
	total := 0
	for i := range s.Overlays {
		if end := s.Overlays[i].End(); end > total {
			total = end
		}
	}
	return total
}
