// Package composition owns the mutable editor state for one session: the
// overlay collection, the selection, the playback cursor and the derived
// total duration. All mutations go through Store methods; each one either
// leaves the full invariant set holding or rejects the edit with the prior
// state unchanged.
package composition

import (
	"fmt"
	"sync"

	"github.com/addojo/api/internal/model"
	"github.com/addojo/api/internal/timeline"
)

// Store is the authoritative overlay collection for a composition.
type Store struct {
	mu sync.Mutex

	overlays      []model.Overlay
	selectedID    *int64
	nextID        int64
	totalDuration int

	fps         int
	width       int
	height      int
	visibleRows int
}

// NewStore creates an empty composition with the given canvas settings.
func NewStore(fps, width, height, visibleRows int) *Store {
	return &Store{
		nextID:      1,
		fps:         fps,
		width:       width,
		height:      height,
		visibleRows: visibleRows,
	}
}

// FPS returns the composition frame rate.
func (s *Store) FPS() int { return s.fps }

// Canvas returns the composition canvas size in pixels.
func (s *Store) Canvas() (width, height int) { return s.width, s.height }

// TotalDuration returns the composition length in frames.
func (s *Store) TotalDuration() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totalDuration
}

// Overlays returns a deep copy of the collection in insertion order.
func (s *Store) Overlays() []model.Overlay {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cloneOverlaysLocked(false)
}

// SelectedOverlayID returns the current selection, or nil.
func (s *Store) SelectedOverlayID() *int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selectedID == nil {
		return nil
	}
	id := *s.selectedID
	return &id
}

// NextPosition runs the positioning engine against the current collection.
func (s *Store) NextPosition(defaultDuration int) timeline.Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return timeline.FindNextAvailablePosition(s.overlays, s.visibleRows, defaultDuration)
}

// AddOverlay validates the overlay and inserts it. The store assigns the id;
// the caller's placement is re-checked even when it came from the positioning
// engine, and a colliding placement is rejected with ErrOverlayCollision.
func (s *Store) AddOverlay(o model.Overlay) (model.Overlay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := timeline.ValidateOverlay(&o); err != nil {
		return model.Overlay{}, err
	}
	if timeline.CollidesOnRow(s.overlays, &o) {
		return model.Overlay{}, fmt.Errorf("%w: row %d frames [%d, %d)",
			timeline.ErrOverlayCollision, o.Row, o.From, o.End())
	}
	if o.IsDragging && s.anyDraggingLocked(0) {
		return model.Overlay{}, fmt.Errorf("%w: another overlay is mid-drag", timeline.ErrInvalidOverlay)
	}

	o.ID = s.allocateIDLocked()
	s.overlays = append(s.overlays, o)
	s.recomputeDurationLocked()
	return o.Clone(), nil
}

// ChangeOverlay applies a partial update. Timing and row changes re-validate
// the affected row; on collision the store is left untouched.
func (s *Store) ChangeOverlay(id int64, patch model.OverlayPatch) (model.Overlay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		return model.Overlay{}, fmt.Errorf("%w: id %d", timeline.ErrUnknownOverlay, id)
	}

	updated := s.overlays[idx].Clone()
	applyPatch(&updated, patch)

	if err := timeline.ValidateOverlay(&updated); err != nil {
		return model.Overlay{}, err
	}
	timingChanged := patch.From != nil || patch.DurationInFrames != nil || patch.Row != nil
	if timingChanged && timeline.CollidesOnRow(s.overlays, &updated, id) {
		return model.Overlay{}, fmt.Errorf("%w: row %d frames [%d, %d)",
			timeline.ErrOverlayCollision, updated.Row, updated.From, updated.End())
	}
	if updated.IsDragging && s.anyDraggingLocked(id) {
		return model.Overlay{}, fmt.Errorf("%w: another overlay is mid-drag", timeline.ErrInvalidOverlay)
	}

	s.overlays[idx] = updated
	s.recomputeDurationLocked()
	return updated.Clone(), nil
}

// DeleteOverlay removes the overlay and clears a matching selection. Deleting
// an absent id is a no-op, not an error.
func (s *Store) DeleteOverlay(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		return
	}
	s.overlays = append(s.overlays[:idx], s.overlays[idx+1:]...)
	if s.selectedID != nil && *s.selectedID == id {
		s.selectedID = nil
	}
	s.recomputeDurationLocked()
}

// DuplicateOverlay copies the overlay under a fresh id, placing it right
// after the source on the same row when that slot is free, otherwise at the
// next available position.
func (s *Store) DuplicateOverlay(id int64) (model.Overlay, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		return model.Overlay{}, fmt.Errorf("%w: id %d", timeline.ErrUnknownOverlay, id)
	}

	source := &s.overlays[idx]
	pos := timeline.NextSlotAfter(s.overlays, source, s.visibleRows)

	dup := source.Clone()
	dup.ID = s.allocateIDLocked()
	dup.Row = pos.Row
	dup.From = pos.From
	dup.IsDragging = false

	s.overlays = append(s.overlays, dup)
	s.recomputeDurationLocked()
	return dup.Clone(), nil
}

// SplitOverlay cuts the overlay in two at the given frame. Both halves are
// committed atomically; an invalid split point leaves the store unchanged.
func (s *Store) SplitOverlay(id int64, atFrame int) (first, second model.Overlay, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.indexOfLocked(id)
	if idx < 0 {
		return model.Overlay{}, model.Overlay{}, fmt.Errorf("%w: id %d", timeline.ErrUnknownOverlay, id)
	}

	first, second, err = timeline.SplitOverlayAt(&s.overlays[idx], atFrame, s.nextID, s.fps)
	if err != nil {
		return model.Overlay{}, model.Overlay{}, err
	}
	s.nextID++

	s.overlays[idx] = first
	s.overlays = append(s.overlays, second)
	s.recomputeDurationLocked()
	return first.Clone(), second.Clone(), nil
}

// SetSelectedOverlayID sets the selection; nil clears it. A non-nil id must
// reference a live overlay.
func (s *Store) SetSelectedOverlayID(id *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if id == nil {
		s.selectedID = nil
		return nil
	}
	if s.indexOfLocked(*id) < 0 {
		return fmt.Errorf("%w: id %d", timeline.ErrUnknownOverlay, *id)
	}
	v := *id
	s.selectedID = &v
	return nil
}

// Snapshot takes a deep, immutable copy of the composition for render
// submission. The transient isDragging flag is cleared, so the snapshot is
// independent of any in-progress drag and of all later edits.
func (s *Store) Snapshot() *model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return &model.Snapshot{
		Overlays: s.cloneOverlaysLocked(true),
		FPS:      s.fps,
		Width:    s.width,
		Height:   s.height,
	}
}

func (s *Store) allocateIDLocked() int64 {
	id := s.nextID
	s.nextID++
	return id
}

func (s *Store) indexOfLocked(id int64) int {
	for i := range s.overlays {
		if s.overlays[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) anyDraggingLocked(exclude int64) bool {
	for i := range s.overlays {
		if s.overlays[i].IsDragging && s.overlays[i].ID != exclude {
			return true
		}
	}
	return false
}

func (s *Store) recomputeDurationLocked() {
	s.totalDuration = timeline.TotalDuration(s.overlays)
}

func (s *Store) cloneOverlaysLocked(clearDragging bool) []model.Overlay {
	out := make([]model.Overlay, 0, len(s.overlays))
	for i := range s.overlays {
		c := s.overlays[i].Clone()
		if clearDragging {
			c.IsDragging = false
		}
		out = append(out, c)
	}
	return out
}

func applyPatch(o *model.Overlay, p model.OverlayPatch) {
	if p.Row != nil {
		o.Row = *p.Row
	}
	if p.From != nil {
		o.From = *p.From
	}
	if p.DurationInFrames != nil {
		o.DurationInFrames = *p.DurationInFrames
	}
	if p.Left != nil {
		o.Left = *p.Left
	}
	if p.Top != nil {
		o.Top = *p.Top
	}
	if p.Width != nil {
		o.Width = *p.Width
	}
	if p.Height != nil {
		o.Height = *p.Height
	}
	if p.Rotation != nil {
		o.Rotation = *p.Rotation
	}
	if p.IsDragging != nil {
		o.IsDragging = *p.IsDragging
	}
	if p.Content != nil {
		o.Content = *p.Content
	}
	if p.Src != nil {
		o.Src = *p.Src
	}
	if p.VideoStartTime != nil {
		v := *p.VideoStartTime
		o.VideoStartTime = &v
	}
	if p.AudioStartTime != nil {
		v := *p.AudioStartTime
		o.AudioStartTime = &v
	}
	if p.Styles != nil {
		st := *p.Styles
		if p.Styles.Opacity != nil {
			v := *p.Styles.Opacity
			st.Opacity = &v
		}
		o.Styles = st
	}
}
