package model

import "time"

// RenderSubmitResponse is returned when a render is accepted
type RenderSubmitResponse struct {
	JobID     string      `json:"jobId"`
	State     RenderState `json:"state"`
	CreatedAt time.Time   `json:"createdAt"`
}

// RenderStatusResponse reports the coordinator's current view of the job
type RenderStatusResponse struct {
	State    RenderState `json:"state"`
	Progress float64     `json:"progress"`
	URL      string      `json:"url,omitempty"`
	Error    string      `json:"error,omitempty"`
	// HasNewRender is set when a terminal outcome landed since the history
	// was last viewed.
	HasNewRender bool `json:"hasNewRender"`
}

// RenderHistoryEntry is one terminal outcome. Entries are immutable once
// recorded.
type RenderHistoryEntry struct {
	ID        string        `json:"id"`
	Outcome   RenderOutcome `json:"outcome"`
	URL       string        `json:"url,omitempty"`
	Error     string        `json:"error,omitempty"`
	Timestamp time.Time     `json:"timestamp"`
}

// RenderHistoryResponse lists terminal outcomes, newest first
type RenderHistoryResponse struct {
	Renders []RenderHistoryEntry `json:"renders"`
}

// BackendStatus is the status-query result from the render backend
type BackendStatus struct {
	Status   string  `json:"status"` // "progress" | "done" | "error"
	Progress float64 `json:"progress,omitempty"`
	URL      string  `json:"url,omitempty"`
	Error    string  `json:"error,omitempty"`
}

// Backend status values
const (
	BackendStatusProgress = "progress"
	BackendStatusDone     = "done"
	BackendStatusError    = "error"
)
