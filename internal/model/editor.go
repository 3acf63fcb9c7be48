package model

import "time"

// CreateSessionRequest opens a new editing session
type CreateSessionRequest struct {
	AspectRatio AspectRatio `json:"aspectRatio" validate:"omitempty,oneof=16:9 9:16 1:1 4:5"`
}

// SessionResponse describes a newly created session
type SessionResponse struct {
	SessionID   string      `json:"sessionId"`
	AspectRatio AspectRatio `json:"aspectRatio"`
	FPS         int         `json:"fps"`
	Width       int         `json:"width"`
	Height      int         `json:"height"`
	CreatedAt   time.Time   `json:"createdAt"`
}

// SessionStateResponse is the full editor state for a session
type SessionStateResponse struct {
	SessionID         string    `json:"sessionId"`
	Overlays          []Overlay `json:"overlays"`
	SelectedOverlayID *int64    `json:"selectedOverlayId"`
	DurationInFrames  int       `json:"durationInFrames"`
	FPS               int       `json:"fps"`
	Width             int       `json:"width"`
	Height            int       `json:"height"`
	CurrentFrame      int       `json:"currentFrame"`
	IsPlaying         bool      `json:"isPlaying"`
}

// AddOverlayRequest adds an overlay to the timeline. When placement is
// omitted the positioning engine chooses the row and start frame.
type AddOverlayRequest struct {
	Type             OverlayType `json:"type" validate:"required,oneof=text image shape clip sound"`
	Row              *int        `json:"row,omitempty" validate:"omitempty,min=0"`
	From             *int        `json:"from,omitempty" validate:"omitempty,min=0"`
	DurationInFrames *int        `json:"durationInFrames,omitempty" validate:"omitempty,min=1"`
	Left             int         `json:"left"`
	Top              int         `json:"top"`
	Width            int         `json:"width"`
	Height           int         `json:"height"`
	Rotation         float64     `json:"rotation"`
	Content          string      `json:"content,omitempty"`
	Src              string      `json:"src,omitempty"`
	VideoStartTime   *float64    `json:"videoStartTime,omitempty"`
	AudioStartTime   *float64    `json:"audioStartTime,omitempty"`
	Styles           *Styles     `json:"styles,omitempty"`
}

// SplitOverlayRequest splits an overlay at a frame strictly inside its interval
type SplitOverlayRequest struct {
	Frame int `json:"frame" validate:"min=1"`
}

// SelectionRequest sets or clears the selected overlay
type SelectionRequest struct {
	OverlayID *int64 `json:"overlayId"`
}

// SeekRequest moves the playback cursor
type SeekRequest struct {
	Frame int `json:"frame" validate:"min=0"`
}

// SeekResponse echoes the clamped frame and the player seek time in seconds
type SeekResponse struct {
	Frame       int     `json:"frame"`
	SeekSeconds float64 `json:"seekSeconds"`
	Display     string  `json:"display"`
}

// PlaybackResponse reports the playback cursor after a toggle
type PlaybackResponse struct {
	IsPlaying    bool   `json:"isPlaying"`
	CurrentFrame int    `json:"currentFrame"`
	Display      string `json:"display"`
}
