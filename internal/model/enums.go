package model

// Overlay types
type OverlayType string

const (
	OverlayTypeText  OverlayType = "text"
	OverlayTypeImage OverlayType = "image"
	OverlayTypeShape OverlayType = "shape"
	OverlayTypeClip  OverlayType = "clip"
	OverlayTypeSound OverlayType = "sound"
)

var ValidOverlayTypes = []OverlayType{
	OverlayTypeText, OverlayTypeImage, OverlayTypeShape,
	OverlayTypeClip, OverlayTypeSound,
}

// IsValid reports whether t is a known overlay type.
func (t OverlayType) IsValid() bool {
	for _, v := range ValidOverlayTypes {
		if t == v {
			return true
		}
	}
	return false
}

// Aspect ratios supported by the editor canvas
type AspectRatio string

const (
	AspectRatio16x9 AspectRatio = "16:9"
	AspectRatio9x16 AspectRatio = "9:16"
	AspectRatio1x1  AspectRatio = "1:1"
	AspectRatio4x5  AspectRatio = "4:5"
)

var ValidAspectRatios = []AspectRatio{
	AspectRatio16x9, AspectRatio9x16, AspectRatio1x1, AspectRatio4x5,
}

// Dimensions returns the canvas size in pixels for the aspect ratio.
func (a AspectRatio) Dimensions() (width, height int) {
	switch a {
	case AspectRatio9x16:
		return 720, 1280
	case AspectRatio1x1:
		return 1080, 1080
	case AspectRatio4x5:
		return 1080, 1350
	default:
		return 1280, 720
	}
}

// Render job status as stored in the job record
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusRunning   JobStatus = "running"
	JobStatusSucceeded JobStatus = "succeeded"
	JobStatusFailed    JobStatus = "failed"
)

// Render coordinator state as seen by the editor client
type RenderState string

const (
	RenderStateIdle      RenderState = "idle"
	RenderStateInvoking  RenderState = "invoking"
	RenderStateRendering RenderState = "rendering"
	RenderStateDone      RenderState = "done"
	RenderStateError     RenderState = "error"
)

// History entry outcomes
type RenderOutcome string

const (
	RenderOutcomeSuccess RenderOutcome = "success"
	RenderOutcomeError   RenderOutcome = "error"
)
