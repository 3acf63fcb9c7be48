package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"

	"github.com/addojo/api/internal/model"
)

const (
	TaskTypeRender = "render:compose"

	jobKeyPrefix = "renderjob:"
	jobTTL       = 24 * time.Hour
)

// ErrJobNotFound is returned when a job id has no record in Redis.
var ErrJobNotFound = errors.New("job not found")

// RenderService is the render backend: it persists job records in Redis and
// queues composition work on Asynq. It satisfies the coordinator's Backend
// interface, so the editor's poll loop reads the same records the worker
// writes.
type RenderService struct {
	redis       *redis.Client
	asynqClient *asynq.Client
}

func NewRenderService(redisClient *redis.Client, asynqClient *asynq.Client) *RenderService {
	return &RenderService{
		redis:       redisClient,
		asynqClient: asynqClient,
	}
}

// renderTaskPayload is the Asynq task body
type renderTaskPayload struct {
	JobID    string          `json:"jobId"`
	Snapshot json.RawMessage `json:"snapshot"`
}

// Submit stores a queued job record and enqueues the composition task.
// The snapshot is serialized here, at submission time; later edits to the
// composition cannot reach the stored payload.
func (s *RenderService) Submit(ctx context.Context, snapshot *model.Snapshot) (string, error) {
	if len(snapshot.Overlays) == 0 {
		return "", fmt.Errorf("no overlays to render")
	}

	snapshotBytes, err := json.Marshal(snapshot)
	if err != nil {
		return "", fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	jobID := uuid.New().String()
	job := &model.Job{
		ID:        jobID,
		Status:    model.JobStatusQueued,
		Payload:   snapshotBytes,
		CreatedAt: time.Now(),
	}
	if err := s.saveJob(ctx, job); err != nil {
		return "", fmt.Errorf("failed to save job: %w", err)
	}

	taskBytes, err := json.Marshal(renderTaskPayload{JobID: jobID, Snapshot: snapshotBytes})
	if err != nil {
		return "", fmt.Errorf("failed to marshal task: %w", err)
	}

	_, err = s.asynqClient.Enqueue(asynq.NewTask(TaskTypeRender, taskBytes),
		asynq.Queue("render"),
		asynq.MaxRetry(3),
		asynq.Retention(jobTTL),
	)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue task: %w", err)
	}

	return jobID, nil
}

// Status maps the stored job record to the backend status-query shape.
func (s *RenderService) Status(ctx context.Context, jobID string) (*model.BackendStatus, error) {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	switch job.Status {
	case model.JobStatusSucceeded:
		return &model.BackendStatus{Status: model.BackendStatusDone, Progress: 1, URL: job.OutputURL}, nil
	case model.JobStatusFailed:
		msg := "render failed"
		if job.Error != nil {
			msg = *job.Error
		}
		return &model.BackendStatus{Status: model.BackendStatusError, Error: msg}, nil
	default:
		return &model.BackendStatus{Status: model.BackendStatusProgress, Progress: job.Progress}, nil
	}
}

// UpdateJobProgress updates job progress (called by worker)
func (s *RenderService) UpdateJobProgress(ctx context.Context, jobID string, progress float64, step string) error {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return err
	}

	job.Progress = progress
	job.CurrentStep = step
	if job.Status == model.JobStatusQueued {
		job.Status = model.JobStatusRunning
		now := time.Now()
		job.StartedAt = &now
	}

	return s.saveJob(ctx, job)
}

// CompleteJob marks the job succeeded with its output URL (called by worker)
func (s *RenderService) CompleteJob(ctx context.Context, jobID, outputURL string) error {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return err
	}

	job.Status = model.JobStatusSucceeded
	job.Progress = 1
	job.OutputURL = outputURL
	now := time.Now()
	job.CompletedAt = &now

	return s.saveJob(ctx, job)
}

// FailJob marks the job failed (called by worker)
func (s *RenderService) FailJob(ctx context.Context, jobID, errMsg string) error {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return err
	}

	job.Status = model.JobStatusFailed
	job.Error = &errMsg
	now := time.Now()
	job.CompletedAt = &now

	return s.saveJob(ctx, job)
}

// GetSnapshot returns the snapshot stored with the job.
func (s *RenderService) GetSnapshot(ctx context.Context, jobID string) (*model.Snapshot, error) {
	job, err := s.getJob(ctx, jobID)
	if err != nil {
		return nil, err
	}

	var snapshot model.Snapshot
	if err := json.Unmarshal(job.Payload, &snapshot); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}

type storedJob struct {
	model.Job
	Payload []byte `json:"payload"`
}

func (s *RenderService) saveJob(ctx context.Context, job *model.Job) error {
	data, err := json.Marshal(storedJob{Job: *job, Payload: job.Payload})
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	return s.redis.Set(ctx, jobKeyPrefix+job.ID, data, jobTTL).Err()
}

func (s *RenderService) getJob(ctx context.Context, jobID string) (*model.Job, error) {
	data, err := s.redis.Get(ctx, jobKeyPrefix+jobID).Bytes()
	if err == redis.Nil {
		return nil, ErrJobNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load job: %w", err)
	}

	var stored storedJob
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("failed to unmarshal job: %w", err)
	}
	job := stored.Job
	job.Payload = stored.Payload
	return &job, nil
}
