package model

import "time"

// Job is a render job record as persisted in Redis by the render backend.
// Payload holds the serialized composition snapshot; it is written once at
// submission and never touched by later edits.
type Job struct {
	ID          string     `json:"id"`
	Status      JobStatus  `json:"status"`
	Progress    float64    `json:"progress"` // 0..1
	CurrentStep string     `json:"currentStep,omitempty"`
	Error       *string    `json:"error,omitempty"`
	OutputURL   string     `json:"outputUrl,omitempty"`
	Payload     []byte     `json:"-"`
	CreatedAt   time.Time  `json:"createdAt"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}
