package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/addojo/api/internal/composition"
	"github.com/addojo/api/internal/config"
	"github.com/addojo/api/internal/model"
	"github.com/addojo/api/internal/render"
)

// ErrSessionNotFound is returned when a session id is unknown.
var ErrSessionNotFound = errors.New("session not found")

// session bundles the per-composition state: the store, the playback cursor
// and the render coordinator.
type session struct {
	id          string
	aspectRatio model.AspectRatio
	store       *composition.Store
	playback    *composition.Playback
	coordinator *render.Coordinator
	createdAt   time.Time
}

// EditorService owns the editing sessions. Each session's composition store
// serializes its own mutations; the service map only guards session lookup.
type EditorService struct {
	mu       sync.RWMutex
	sessions map[string]*session

	backend render.Backend
	editor  config.EditorConfig
	poll    time.Duration
}

func NewEditorService(backend render.Backend, editorCfg config.EditorConfig, pollInterval time.Duration) *EditorService {
	return &EditorService{
		sessions: make(map[string]*session),
		backend:  backend,
		editor:   editorCfg,
		poll:     pollInterval,
	}
}

// CreateSession opens a new empty composition for the given aspect ratio.
func (s *EditorService) CreateSession(aspectRatio model.AspectRatio) *model.SessionResponse {
	if aspectRatio == "" {
		aspectRatio = model.AspectRatio16x9
	}
	width, height := aspectRatio.Dimensions()

	store := composition.NewStore(s.editor.FPS, width, height, s.editor.VisibleRows)
	sess := &session{
		id:          uuid.New().String(),
		aspectRatio: aspectRatio,
		store:       store,
		playback:    composition.NewPlayback(store),
		coordinator: render.NewCoordinator(s.backend, s.poll),
		createdAt:   time.Now(),
	}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	return &model.SessionResponse{
		SessionID:   sess.id,
		AspectRatio: aspectRatio,
		FPS:         s.editor.FPS,
		Width:       width,
		Height:      height,
		CreatedAt:   sess.createdAt,
	}
}

// CloseSession tears the session down. Its render coordinator is disposed so
// no in-flight poll can mutate state afterwards.
func (s *EditorService) CloseSession(sessionID string) error {
	s.mu.Lock()
	sess, ok := s.sessions[sessionID]
	delete(s.sessions, sessionID)
	s.mu.Unlock()

	if !ok {
		return ErrSessionNotFound
	}
	sess.coordinator.Close()
	return nil
}

// State returns the full editor state for a session.
func (s *EditorService) State(sessionID string) (*model.SessionStateResponse, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	isPlaying, currentFrame := sess.playback.State()
	width, height := sess.store.Canvas()
	return &model.SessionStateResponse{
		SessionID:         sess.id,
		Overlays:          sess.store.Overlays(),
		SelectedOverlayID: sess.store.SelectedOverlayID(),
		DurationInFrames:  sess.store.TotalDuration(),
		FPS:               sess.store.FPS(),
		Width:             width,
		Height:            height,
		CurrentFrame:      currentFrame,
		IsPlaying:         isPlaying,
	}, nil
}

// AddOverlay builds an overlay from the request and inserts it. Placement
// fields left empty are filled by the positioning engine; the store still
// re-validates whatever placement ends up being used.
func (s *EditorService) AddOverlay(sessionID string, req *model.AddOverlayRequest) (*model.Overlay, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	duration := s.editor.DefaultDurationInFrames
	if req.DurationInFrames != nil {
		duration = *req.DurationInFrames
	}

	o := model.Overlay{
		Type:             req.Type,
		DurationInFrames: duration,
		Left:             req.Left,
		Top:              req.Top,
		Width:            req.Width,
		Height:           req.Height,
		Rotation:         req.Rotation,
		Content:          req.Content,
		Src:              req.Src,
		VideoStartTime:   req.VideoStartTime,
		AudioStartTime:   req.AudioStartTime,
	}
	if req.Styles != nil {
		o.Styles = *req.Styles
	}

	if req.Row != nil && req.From != nil {
		o.Row = *req.Row
		o.From = *req.From
	} else {
		pos := sess.store.NextPosition(duration)
		o.Row = pos.Row
		o.From = pos.From
	}

	added, err := sess.store.AddOverlay(o)
	if err != nil {
		return nil, err
	}
	return &added, nil
}

// ChangeOverlay applies a partial update to an overlay.
func (s *EditorService) ChangeOverlay(sessionID string, overlayID int64, patch *model.OverlayPatch) (*model.Overlay, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	updated, err := sess.store.ChangeOverlay(overlayID, *patch)
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteOverlay removes an overlay; absent ids are a no-op.
func (s *EditorService) DeleteOverlay(sessionID string, overlayID int64) error {
	sess, err := s.session(sessionID)
	if err != nil {
		return err
	}
	sess.store.DeleteOverlay(overlayID)
	return nil
}

// DuplicateOverlay copies an overlay to the nearest free slot.
func (s *EditorService) DuplicateOverlay(sessionID string, overlayID int64) (*model.Overlay, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	dup, err := sess.store.DuplicateOverlay(overlayID)
	if err != nil {
		return nil, err
	}
	return &dup, nil
}

// SplitOverlay cuts an overlay at a frame.
func (s *EditorService) SplitOverlay(sessionID string, overlayID int64, atFrame int) (first, second *model.Overlay, err error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, nil, err
	}
	f, sec, err := sess.store.SplitOverlay(overlayID, atFrame)
	if err != nil {
		return nil, nil, err
	}
	return &f, &sec, nil
}

// SetSelection sets or clears the selected overlay.
func (s *EditorService) SetSelection(sessionID string, overlayID *int64) error {
	sess, err := s.session(sessionID)
	if err != nil {
		return err
	}
	return sess.store.SetSelectedOverlayID(overlayID)
}

// TogglePlayPause flips the playback state.
func (s *EditorService) TogglePlayPause(sessionID string) (*model.PlaybackResponse, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	isPlaying, frame := sess.playback.TogglePlayPause()
	return &model.PlaybackResponse{
		IsPlaying:    isPlaying,
		CurrentFrame: frame,
		Display:      composition.FormatTime(frame, sess.store.FPS()),
	}, nil
}

// Seek clamps the frame and reports the player seek time.
func (s *EditorService) Seek(sessionID string, frame int) (*model.SeekResponse, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	clamped, seconds := sess.playback.HandleTimelineClick(frame)
	return &model.SeekResponse{
		Frame:       clamped,
		SeekSeconds: seconds,
		Display:     composition.FormatTime(clamped, sess.store.FPS()),
	}, nil
}

// SubmitRender snapshots the composition and hands it to the coordinator.
func (s *EditorService) SubmitRender(ctx context.Context, sessionID string) (*model.RenderSubmitResponse, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}

	jobID, err := sess.coordinator.Submit(ctx, sess.store.Snapshot())
	if err != nil {
		return nil, err
	}
	return &model.RenderSubmitResponse{
		JobID:     jobID,
		State:     sess.coordinator.Status().State,
		CreatedAt: time.Now(),
	}, nil
}

// RenderStatus reports the coordinator's view of the current job.
func (s *EditorService) RenderStatus(sessionID string) (*model.RenderStatusResponse, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.coordinator.Status(), nil
}

// RenderHistory lists terminal outcomes newest first; listing marks the
// history as viewed.
func (s *EditorService) RenderHistory(sessionID string) (*model.RenderHistoryResponse, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return nil, err
	}
	return &model.RenderHistoryResponse{Renders: sess.coordinator.History()}, nil
}

func (s *EditorService) session(sessionID string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[sessionID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return sess, nil
}
