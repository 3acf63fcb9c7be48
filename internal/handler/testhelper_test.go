package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/addojo/api/internal/config"
	"github.com/addojo/api/internal/model"
	"github.com/addojo/api/internal/service"
)

// fakeBackend stands in for the render pipeline so handler tests run without
// Redis. Submissions succeed and every status poll reports the job done.
type fakeBackend struct {
	mu        sync.Mutex
	submitErr error
	submitted int
}

func (f *fakeBackend) Submit(_ context.Context, snapshot *model.Snapshot) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.submitErr != nil {
		return "", f.submitErr
	}
	f.submitted++
	return "job-test-1", nil
}

func (f *fakeBackend) Status(_ context.Context, jobID string) (*model.BackendStatus, error) {
	return &model.BackendStatus{
		Status: model.BackendStatusDone,
		URL:    "https://cdn.addojo.com/renders/" + jobID + ".mp4",
	}, nil
}

// testApp holds the wired Fiber app for handler tests
type testApp struct {
	app     *fiber.App
	backend *fakeBackend
}

// setupApp wires the editor routes the way main.go does, minus auth and
// rate limiting, with the fake backend in place of the asynq pipeline.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	validate := validator.New()
	backend := &fakeBackend{}

	editorCfg := config.EditorConfig{
		FPS:                     30,
		VisibleRows:             5,
		DefaultDurationInFrames: 200,
	}
	editorService := service.NewEditorService(backend, editorCfg, 2*time.Millisecond)

	editorHandler := NewEditorHandler(editorService, validate)
	renderHandler := NewRenderHandler(editorService, validate)

	app := fiber.New()

	sessions := app.Group("/api/editor/sessions")
	sessions.Post("/", editorHandler.CreateSession)
	sessions.Get("/:sessionId", editorHandler.GetState)
	sessions.Delete("/:sessionId", editorHandler.CloseSession)
	sessions.Post("/:sessionId/overlays", editorHandler.AddOverlay)
	sessions.Patch("/:sessionId/overlays/:overlayId", editorHandler.ChangeOverlay)
	sessions.Delete("/:sessionId/overlays/:overlayId", editorHandler.DeleteOverlay)
	sessions.Post("/:sessionId/overlays/:overlayId/duplicate", editorHandler.DuplicateOverlay)
	sessions.Post("/:sessionId/overlays/:overlayId/split", editorHandler.SplitOverlay)
	sessions.Put("/:sessionId/selection", editorHandler.SetSelection)
	sessions.Post("/:sessionId/playback/toggle", editorHandler.TogglePlayback)
	sessions.Post("/:sessionId/playback/seek", editorHandler.Seek)
	sessions.Post("/:sessionId/render", renderHandler.Submit)
	sessions.Get("/:sessionId/render/status", renderHandler.Status)
	sessions.Get("/:sessionId/render/history", renderHandler.History)

	return &testApp{app: app, backend: backend}
}

// doRequest is a helper to perform HTTP requests against the test app.
func doRequest(app *fiber.App, method, path string, body string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != "" {
		bodyReader = strings.NewReader(body)
	}

	req, err := http.NewRequest(method, path, bodyReader)
	if err != nil {
		return nil, err
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	return app.Test(req, -1)
}

func assertStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("expected status %d, got %d", want, resp.StatusCode)
	}
}

func parseJSON(t *testing.T, resp *http.Response) map[string]interface{} {
	t.Helper()
	defer resp.Body.Close()

	var body map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response body: %v", err)
	}
	return body
}

// createSession creates a session and returns its id.
func createSession(t *testing.T, ta *testApp) string {
	t.Helper()

	resp, err := doRequest(ta.app, http.MethodPost, "/api/editor/sessions/", "")
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusCreated)

	body := parseJSON(t, resp)
	id, ok := body["sessionId"].(string)
	if !ok || id == "" {
		t.Fatalf("expected sessionId in response, got %v", body)
	}
	return id
}

// addOverlay adds an overlay and returns the response body.
func addOverlay(t *testing.T, ta *testApp, sessionID, body string) map[string]interface{} {
	t.Helper()

	resp, err := doRequest(ta.app, http.MethodPost, "/api/editor/sessions/"+sessionID+"/overlays", body)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	assertStatus(t, resp, http.StatusCreated)
	return parseJSON(t, resp)
}
