// Package render tracks an out-of-process render job from submission to
// completion: one coordinator per editing session runs the state machine
// Idle -> Invoking -> Rendering -> Done/Error, polls the backend for
// progress, and keeps an append-only history of terminal outcomes.
package render

import (
	"context"
	"errors"

	"github.com/addojo/api/internal/model"
)

// Backend is the external rendering service. Submit hands over a composition
// snapshot and returns a job handle or an immediate rejection; Status reports
// the job's progress until it reaches done or error.
type Backend interface {
	Submit(ctx context.Context, snapshot *model.Snapshot) (jobID string, err error)
	Status(ctx context.Context, jobID string) (*model.BackendStatus, error)
}

var (
	// ErrAlreadyInProgress is returned when a render is submitted while a
	// job is already invoking or rendering.
	ErrAlreadyInProgress = errors.New("render already in progress")

	// ErrClosed is returned when submitting to a torn-down coordinator.
	ErrClosed = errors.New("render coordinator closed")
)
