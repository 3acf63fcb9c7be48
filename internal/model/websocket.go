package model

// WebSocket message types
const (
	WSMessageTypeProgress = "progress"
	WSMessageTypeComplete = "complete"
	WSMessageTypeError    = "error"
)

// WSProgressMessage is a render progress update pushed to job subscribers
type WSProgressMessage struct {
	Type        string    `json:"type"`
	JobID       string    `json:"jobId"`
	Progress    float64   `json:"progress"`
	Status      JobStatus `json:"status"`
	CurrentStep string    `json:"currentStep,omitempty"`
}

// WSCompleteMessage announces a finished render with its output URL
type WSCompleteMessage struct {
	Type  string `json:"type"`
	JobID string `json:"jobId"`
	URL   string `json:"url"`
}

// WSErrorMessage announces a failed render
type WSErrorMessage struct {
	Type  string  `json:"type"`
	JobID string  `json:"jobId"`
	Error WSError `json:"error"`
}

// WSError carries error details
type WSError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
