package render

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/addojo/api/internal/model"
)

const fallbackErrorMessage = "Failed to render video. Please try again."

// Coordinator runs the render job state machine for one composition. Only
// one job may be in flight at a time; re-submitting after Done or Error
// starts a fresh job without clearing history. Every poll result carries the
// generation it was started under, so responses arriving after Close or
// after a newer submission mutate nothing.
type Coordinator struct {
	backend      Backend
	pollInterval time.Duration

	mu           sync.Mutex
	state        model.RenderState
	progress     float64
	url          string
	errMsg       string
	jobID        string
	generation   uint64
	history      []model.RenderHistoryEntry
	hasNewRender bool
	closed       bool
	cancel       context.CancelFunc
}

// NewCoordinator creates an idle coordinator polling at pollInterval.
func NewCoordinator(backend Backend, pollInterval time.Duration) *Coordinator {
	return &Coordinator{
		backend:      backend,
		pollInterval: pollInterval,
		state:        model.RenderStateIdle,
	}
}

// Submit hands the snapshot to the backend. It returns ErrAlreadyInProgress
// while a job is invoking or rendering; a backend rejection transitions to
// Error, is recorded in history, and is returned to the caller. On success
// the coordinator enters Rendering and polls until a terminal status.
func (c *Coordinator) Submit(ctx context.Context, snapshot *model.Snapshot) (string, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return "", ErrClosed
	}
	if c.state == model.RenderStateInvoking || c.state == model.RenderStateRendering {
		c.mu.Unlock()
		return "", ErrAlreadyInProgress
	}

	// A fresh submission obsoletes any poll still in flight from a previous
	// job before its terminal event was observed.
	if c.cancel != nil {
		c.cancel()
	}
	c.generation++
	gen := c.generation
	c.state = model.RenderStateInvoking
	c.progress = 0
	c.url = ""
	c.errMsg = ""
	c.jobID = ""
	c.mu.Unlock()

	jobID, err := c.backend.Submit(ctx, snapshot)
	if err != nil {
		c.terminate(gen, model.RenderStateError, "", err.Error())
		return "", err
	}

	pollCtx, cancel := context.WithCancel(context.Background())
	c.mu.Lock()
	if c.generation != gen || c.closed {
		// Torn down while the backend call was outstanding.
		c.mu.Unlock()
		cancel()
		return jobID, nil
	}
	c.state = model.RenderStateRendering
	c.jobID = jobID
	c.cancel = cancel
	c.mu.Unlock()

	go c.pollLoop(pollCtx, gen, jobID)
	return jobID, nil
}

// Status reports the coordinator's current view of the job.
func (c *Coordinator) Status() *model.RenderStatusResponse {
	c.mu.Lock()
	defer c.mu.Unlock()
	return &model.RenderStatusResponse{
		State:        c.state,
		Progress:     c.progress,
		URL:          c.url,
		Error:        c.errMsg,
		HasNewRender: c.hasNewRender,
	}
}

// History returns terminal outcomes newest first and clears the new-render
// indicator: listing the history counts as viewing it.
func (c *Coordinator) History() []model.RenderHistoryEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hasNewRender = false
	out := make([]model.RenderHistoryEntry, len(c.history))
	for i := range c.history {
		out[i] = c.history[len(c.history)-1-i]
	}
	return out
}

// Close tears the coordinator down. Any poll scheduled after this point is a
// no-op; no state is mutated after disposal.
func (c *Coordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.generation++
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
}

func (c *Coordinator) pollLoop(ctx context.Context, gen uint64, jobID string) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}

		status, err := c.backend.Status(ctx, jobID)
		if err != nil {
			// Transient poll failure; the job itself may still be fine.
			log.Printf("render poll for job %s failed: %v", jobID, err)
			continue
		}

		switch status.Status {
		case model.BackendStatusDone:
			c.terminate(gen, model.RenderStateDone, status.URL, "")
			return
		case model.BackendStatusError:
			c.terminate(gen, model.RenderStateError, "", status.Error)
			return
		default:
			if !c.applyProgress(gen, status.Progress) {
				return
			}
		}
	}
}

// applyProgress records a progress update. Regressive values are discarded
// so progress never moves backwards. It returns false once the update's
// generation is stale or the job already reached a terminal state.
func (c *Coordinator) applyProgress(gen uint64, progress float64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen || c.state != model.RenderStateRendering {
		return false
	}
	if progress > c.progress {
		c.progress = progress
	}
	return true
}

// terminate moves the job to Done or Error and appends the outcome to the
// history. Stale generations are ignored entirely.
func (c *Coordinator) terminate(gen uint64, state model.RenderState, url, errMsg string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation != gen {
		return
	}

	c.state = state
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}

	entry := model.RenderHistoryEntry{
		ID:        uuid.New().String(),
		Timestamp: time.Now(),
	}
	if state == model.RenderStateDone {
		c.progress = 1
		c.url = url
		entry.Outcome = model.RenderOutcomeSuccess
		entry.URL = url
	} else {
		if errMsg == "" {
			errMsg = fallbackErrorMessage
		}
		c.errMsg = errMsg
		entry.Outcome = model.RenderOutcomeError
		entry.Error = errMsg
	}
	c.history = append(c.history, entry)
	c.hasNewRender = true
}
