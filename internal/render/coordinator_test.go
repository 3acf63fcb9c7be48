package render

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/addojo/api/internal/model"
)

const testPollInterval = 2 * time.Millisecond

// fakeBackend scripts accept/reject and a sequence of status responses.
type fakeBackend struct {
	mu        sync.Mutex
	submitErr error
	statuses  []model.BackendStatus
	statusErr error
	submits   int
	polls     int
}

func (f *fakeBackend) Submit(ctx context.Context, snapshot *model.Snapshot) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submits++
	if f.submitErr != nil {
		return "", f.submitErr
	}
	return "job-1", nil
}

func (f *fakeBackend) Status(ctx context.Context, jobID string) (*model.BackendStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.polls++
	if f.statusErr != nil {
		return nil, f.statusErr
	}
	if len(f.statuses) == 0 {
		return &model.BackendStatus{Status: model.BackendStatusProgress, Progress: 0}, nil
	}
	next := f.statuses[0]
	if len(f.statuses) > 1 {
		f.statuses = f.statuses[1:]
	}
	return &next, nil
}

func (f *fakeBackend) setStatuses(statuses ...model.BackendStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses = statuses
}

func testSnapshot() *model.Snapshot {
	return &model.Snapshot{
		Overlays: []model.Overlay{{
			ID:               1,
			Type:             model.OverlayTypeClip,
			DurationInFrames: 200,
			Src:              "https://example.com/clip.mp4",
		}},
		FPS:    30,
		Width:  1280,
		Height: 720,
	}
}

// waitForState polls the coordinator until it reaches want or the deadline
// passes.
func waitForState(t *testing.T, c *Coordinator, want model.RenderState) *model.RenderStatusResponse {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if st := c.Status(); st.State == want {
			return st
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("coordinator never reached state %q (currently %q)", want, c.Status().State)
	return nil
}

func TestSubmit_RunsToDone(t *testing.T) {
	backend := &fakeBackend{}
	backend.setStatuses(
		model.BackendStatus{Status: model.BackendStatusProgress, Progress: 0.4},
		model.BackendStatus{Status: model.BackendStatusDone, URL: "https://cdn.example.com/out.mp4"},
	)
	c := NewCoordinator(backend, testPollInterval)
	defer c.Close()

	jobID, err := c.Submit(context.Background(), testSnapshot())
	if err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if jobID != "job-1" {
		t.Errorf("expected job-1, got %q", jobID)
	}

	st := waitForState(t, c, model.RenderStateDone)
	if st.URL != "https://cdn.example.com/out.mp4" {
		t.Errorf("expected output url, got %q", st.URL)
	}
	if st.Progress != 1 {
		t.Errorf("expected progress 1 at Done, got %v", st.Progress)
	}
	if !st.HasNewRender {
		t.Errorf("expected hasNewRender after a terminal outcome")
	}
}

func TestSubmit_WhileInFlightRejected(t *testing.T) {
	backend := &fakeBackend{}
	c := NewCoordinator(backend, testPollInterval)
	defer c.Close()

	if _, err := c.Submit(context.Background(), testSnapshot()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	waitForState(t, c, model.RenderStateRendering)

	if _, err := c.Submit(context.Background(), testSnapshot()); !errors.Is(err, ErrAlreadyInProgress) {
		t.Fatalf("expected ErrAlreadyInProgress, got %v", err)
	}

	// The original job keeps polling unaffected.
	backend.setStatuses(model.BackendStatus{Status: model.BackendStatusDone, URL: "u"})
	waitForState(t, c, model.RenderStateDone)
}

func TestSubmit_BackendRejection(t *testing.T) {
	backend := &fakeBackend{submitErr: errors.New("queue unavailable")}
	c := NewCoordinator(backend, testPollInterval)
	defer c.Close()

	if _, err := c.Submit(context.Background(), testSnapshot()); err == nil {
		t.Fatalf("expected rejection error")
	}

	st := c.Status()
	if st.State != model.RenderStateError {
		t.Errorf("expected Error state, got %q", st.State)
	}
	if st.Error != "queue unavailable" {
		t.Errorf("expected rejection reason, got %q", st.Error)
	}
	if n := len(c.History()); n != 1 {
		t.Errorf("expected 1 history entry, got %d", n)
	}
}

func TestProgress_NeverRegresses(t *testing.T) {
	backend := &fakeBackend{}
	backend.setStatuses(
		model.BackendStatus{Status: model.BackendStatusProgress, Progress: 0.6},
		model.BackendStatus{Status: model.BackendStatusProgress, Progress: 0.3},
		model.BackendStatus{Status: model.BackendStatusProgress, Progress: 0.3},
	)
	c := NewCoordinator(backend, testPollInterval)
	defer c.Close()

	if _, err := c.Submit(context.Background(), testSnapshot()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if c.Status().Progress >= 0.6 {
			break
		}
		time.Sleep(time.Millisecond)
	}
	// Let the regressive 0.3 updates arrive, then confirm they were dropped.
	time.Sleep(10 * testPollInterval)
	if got := c.Status().Progress; got != 0.6 {
		t.Errorf("progress regressed to %v", got)
	}
}

func TestStaleUpdateAfterDoneDiscarded(t *testing.T) {
	backend := &fakeBackend{}
	backend.setStatuses(model.BackendStatus{Status: model.BackendStatusDone, URL: "https://cdn.example.com/out.mp4"})
	c := NewCoordinator(backend, testPollInterval)
	defer c.Close()

	if _, err := c.Submit(context.Background(), testSnapshot()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	waitForState(t, c, model.RenderStateDone)

	// A progress response arriving after the terminal state must not apply.
	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()
	if c.applyProgress(gen, 0.5) {
		t.Errorf("stale progress was applied after Done")
	}
	st := c.Status()
	if st.State != model.RenderStateDone || st.Progress != 1 {
		t.Errorf("terminal state mutated: %+v", st)
	}
}

func TestResubmitAfterTerminalKeepsHistory(t *testing.T) {
	backend := &fakeBackend{}
	backend.setStatuses(model.BackendStatus{Status: model.BackendStatusError, Error: "encoder crashed"})
	c := NewCoordinator(backend, testPollInterval)
	defer c.Close()

	if _, err := c.Submit(context.Background(), testSnapshot()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	waitForState(t, c, model.RenderStateError)

	backend.setStatuses(model.BackendStatus{Status: model.BackendStatusDone, URL: "u2"})
	if _, err := c.Submit(context.Background(), testSnapshot()); err != nil {
		t.Fatalf("re-submit failed: %v", err)
	}
	waitForState(t, c, model.RenderStateDone)

	history := c.History()
	if len(history) != 2 {
		t.Fatalf("expected 2 history entries, got %d", len(history))
	}
	// Newest first.
	if history[0].Outcome != model.RenderOutcomeSuccess || history[1].Outcome != model.RenderOutcomeError {
		t.Errorf("history order wrong: %+v", history)
	}
	if history[0].ID == history[1].ID {
		t.Errorf("history entries share an id")
	}
}

func TestHistoryViewClearsNewRenderFlag(t *testing.T) {
	backend := &fakeBackend{}
	backend.setStatuses(model.BackendStatus{Status: model.BackendStatusDone, URL: "u"})
	c := NewCoordinator(backend, testPollInterval)
	defer c.Close()

	if _, err := c.Submit(context.Background(), testSnapshot()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	waitForState(t, c, model.RenderStateDone)

	if !c.Status().HasNewRender {
		t.Fatalf("expected hasNewRender before viewing history")
	}
	c.History()
	if c.Status().HasNewRender {
		t.Errorf("hasNewRender not cleared by viewing history")
	}
}

func TestClose_StopsPollingAndFreezesState(t *testing.T) {
	backend := &fakeBackend{}
	c := NewCoordinator(backend, testPollInterval)

	if _, err := c.Submit(context.Background(), testSnapshot()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	waitForState(t, c, model.RenderStateRendering)

	c.Close()
	before := c.Status()

	// Give any in-flight poll time to land; nothing may change after Close.
	backend.setStatuses(model.BackendStatus{Status: model.BackendStatusDone, URL: "late"})
	time.Sleep(20 * testPollInterval)

	after := c.Status()
	if after.State != before.State || after.URL != before.URL {
		t.Errorf("state mutated after Close: before %+v, after %+v", before, after)
	}
	if _, err := c.Submit(context.Background(), testSnapshot()); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestPollErrorKeepsRendering(t *testing.T) {
	backend := &fakeBackend{statusErr: errors.New("redis timeout")}
	c := NewCoordinator(backend, testPollInterval)
	defer c.Close()

	if _, err := c.Submit(context.Background(), testSnapshot()); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	waitForState(t, c, model.RenderStateRendering)
	time.Sleep(10 * testPollInterval)

	if st := c.Status(); st.State != model.RenderStateRendering {
		t.Errorf("transient poll failures changed state to %q", st.State)
	}

	backend.mu.Lock()
	backend.statusErr = nil
	backend.statuses = []model.BackendStatus{{Status: model.BackendStatusDone, URL: "u"}}
	backend.mu.Unlock()
	waitForState(t, c, model.RenderStateDone)
}
