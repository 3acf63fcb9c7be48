package composition

import (
	"fmt"
	"sync"
)

// Playback tracks the frame cursor and play state for a session. It does not
// own overlay data; it reads the total duration from the store to clamp
// seeks, and reports the seek time the external player should jump to.
type Playback struct {
	mu           sync.Mutex
	store        *Store
	currentFrame int
	isPlaying    bool
}

// NewPlayback creates a stopped cursor at frame 0.
func NewPlayback(store *Store) *Playback {
	return &Playback{store: store}
}

// TogglePlayPause flips the play state and returns the new state with the
// current frame.
func (p *Playback) TogglePlayPause() (isPlaying bool, currentFrame int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.isPlaying = !p.isPlaying
	return p.isPlaying, p.currentFrame
}

// SetCurrentFrame clamps frame to [0, totalDuration) and moves the cursor.
// It returns the clamped frame and the seek time in seconds for the player.
func (p *Playback) SetCurrentFrame(frame int) (clamped int, seekSeconds float64) {
	p.mu.Lock()
	defer p.mu.Unlock()

	total := p.store.TotalDuration()
	if frame < 0 {
		frame = 0
	}
	if total > 0 && frame >= total {
		frame = total - 1
	}
	if total == 0 {
		frame = 0
	}
	p.currentFrame = frame
	return frame, float64(frame) / float64(p.store.FPS())
}

// HandleTimelineClick seeks in response to a click on the timeline ruler.
func (p *Playback) HandleTimelineClick(frame int) (clamped int, seekSeconds float64) {
	return p.SetCurrentFrame(frame)
}

// State returns the current cursor without mutating it.
func (p *Playback) State() (isPlaying bool, currentFrame int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.isPlaying, p.currentFrame
}

// FormatTime renders a frame count as mm:ss at the given frame rate.
func FormatTime(frame, fps int) string {
	if frame < 0 {
		frame = 0
	}
	seconds := frame / fps
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
