package model

// Overlay is a single timed, positioned element on the timeline. The Type tag
// selects the variant; the payload fields that apply depend on it:
//
//	text         Content holds the displayed text
//	image/shape  Content holds the image / preview reference
//	clip         Content holds the thumbnail, Src the playable video source,
//	             VideoStartTime an optional in-source offset in seconds
//	sound        Content holds the display name, Src the playable audio
//	             source, AudioStartTime an optional in-source offset in seconds
//
// Timing is frame-based: the overlay occupies [From, From+DurationInFrames).
type Overlay struct {
	ID               int64       `json:"id"`
	Type             OverlayType `json:"type" validate:"required,oneof=text image shape clip sound"`
	Row              int         `json:"row" validate:"min=0"`
	From             int         `json:"from" validate:"min=0"`
	DurationInFrames int         `json:"durationInFrames" validate:"required,min=1"`
	Left             int         `json:"left"`
	Top              int         `json:"top"`
	Width            int         `json:"width"`
	Height           int         `json:"height"`
	Rotation         float64     `json:"rotation"`
	IsDragging       bool        `json:"isDragging"`
	Content          string      `json:"content,omitempty"`
	Src              string      `json:"src,omitempty"`
	VideoStartTime   *float64    `json:"videoStartTime,omitempty"`
	AudioStartTime   *float64    `json:"audioStartTime,omitempty"`
	Styles           Styles      `json:"styles"`
}

// Styles carries the presentational record for an overlay. The engine never
// inspects these fields; they pass through edits and serialization untouched.
type Styles struct {
	Opacity         *float64 `json:"opacity,omitempty"`
	ZIndex          int      `json:"zIndex,omitempty"`
	Transform       string   `json:"transform,omitempty"`
	ObjectFit       string   `json:"objectFit,omitempty"`
	FontSize        string   `json:"fontSize,omitempty"`
	FontWeight      string   `json:"fontWeight,omitempty"`
	FontFamily      string   `json:"fontFamily,omitempty"`
	FontStyle       string   `json:"fontStyle,omitempty"`
	Color           string   `json:"color,omitempty"`
	BackgroundColor string   `json:"backgroundColor,omitempty"`
	TextDecoration  string   `json:"textDecoration,omitempty"`
	LineHeight      string   `json:"lineHeight,omitempty"`
	TextAlign       string   `json:"textAlign,omitempty"`
	Fill            string   `json:"fill,omitempty"`
	BorderRadius    string   `json:"borderRadius,omitempty"`
}

// End returns the first frame after the overlay's interval.
func (o *Overlay) End() int {
	return o.From + o.DurationInFrames
}

// StartOffset returns the in-source start offset in seconds for clip and
// sound overlays, and 0 for every other variant.
func (o *Overlay) StartOffset() float64 {
	switch o.Type {
	case OverlayTypeClip:
		if o.VideoStartTime != nil {
			return *o.VideoStartTime
		}
	case OverlayTypeSound:
		if o.AudioStartTime != nil {
			return *o.AudioStartTime
		}
	}
	return 0
}

// Clone returns a deep copy of the overlay.
func (o *Overlay) Clone() Overlay {
	c := *o
	if o.VideoStartTime != nil {
		v := *o.VideoStartTime
		c.VideoStartTime = &v
	}
	if o.AudioStartTime != nil {
		v := *o.AudioStartTime
		c.AudioStartTime = &v
	}
	if o.Styles.Opacity != nil {
		v := *o.Styles.Opacity
		c.Styles.Opacity = &v
	}
	return c
}

// OverlayPatch is a partial update to an overlay. Nil fields are left as-is.
// Timing and row changes re-trigger collision checking in the store.
type OverlayPatch struct {
	Row              *int     `json:"row,omitempty" validate:"omitempty,min=0"`
	From             *int     `json:"from,omitempty" validate:"omitempty,min=0"`
	DurationInFrames *int     `json:"durationInFrames,omitempty" validate:"omitempty,min=1"`
	Left             *int     `json:"left,omitempty"`
	Top              *int     `json:"top,omitempty"`
	Width            *int     `json:"width,omitempty"`
	Height           *int     `json:"height,omitempty"`
	Rotation         *float64 `json:"rotation,omitempty"`
	IsDragging       *bool    `json:"isDragging,omitempty"`
	Content          *string  `json:"content,omitempty"`
	Src              *string  `json:"src,omitempty"`
	VideoStartTime   *float64 `json:"videoStartTime,omitempty"`
	AudioStartTime   *float64 `json:"audioStartTime,omitempty"`
	Styles           *Styles  `json:"styles,omitempty"`
}
