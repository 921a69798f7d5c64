package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/seqconvert/core/errors"
	"github.com/FocuswithJustin/seqconvert/core/formats"
)

// JobStatus represents the current state of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// ConvertRequest is the request body of POST /jobs.
type ConvertRequest struct {
	From    string           `json:"from"`
	To      string           `json:"to"`
	Input   string           `json:"input"`
	Options *formats.Options `json:"options,omitempty"`
}

// Job represents an asynchronous conversion job.
type Job struct {
	ID          string         `json:"id"`
	Status      JobStatus      `json:"status"`
	Progress    int            `json:"progress"` // 0-100
	Result      *ConvertResult `json:"result,omitempty"`
	Error       string         `json:"error,omitempty"`
	CreatedAt   string         `json:"created_at"`
	UpdatedAt   string         `json:"updated_at"`
	CompletedAt string         `json:"completed_at,omitempty"`
	From        string         `json:"from"`
	To          string         `json:"to"`

	ctx    context.Context
	cancel context.CancelFunc
}

func (j *Job) finished() bool {
	return j.Status == JobStatusCompleted || j.Status == JobStatusFailed || j.Status == JobStatusCancelled
}

// JobStore manages conversion jobs in memory.
type JobStore struct {
	jobs map[string]*Job
	mu   sync.RWMutex
}

// NewJobStore creates a new job store.
func NewJobStore() *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
	}
}

// Create creates a new pending job.
func (s *JobStore) Create(req ConvertRequest) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now().UTC().Format(time.RFC3339)

	job := &Job{
		ID:        uuid.New().String(),
		Status:    JobStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
		From:      req.From,
		To:        req.To,
		ctx:       ctx,
		cancel:    cancel,
	}
	s.jobs[job.ID] = job
	snapshot := *job
	return &snapshot
}

// Get returns a snapshot of a job.
func (s *JobStore) Get(id string) (*Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, exists := s.jobs[id]
	if !exists {
		return nil, false
	}
	snapshot := *job
	return &snapshot, true
}

// Len returns the number of stored jobs.
func (s *JobStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}

// Update updates a job's status and progress. Finished jobs are left
// unchanged, so a cancellation is never overwritten by a late result.
func (s *JobStore) Update(id string, status JobStatus, progress int, result *ConvertResult, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[id]
	if !exists {
		return errors.Wrapf(errors.ErrNotFound, "job %s", id)
	}
	if job.finished() {
		return fmt.Errorf("job %s already %s", id, job.Status)
	}

	now := time.Now().UTC().Format(time.RFC3339)
	job.Status = status
	job.Progress = progress
	job.UpdatedAt = now
	if result != nil {
		job.Result = result
	}
	if errMsg != "" {
		job.Error = errMsg
	}
	if job.finished() {
		job.CompletedAt = now
		job.cancel()
	}
	return nil
}

// Delete cancels a job if it is still active and removes it.
func (s *JobStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[id]
	if !exists {
		return errors.Wrapf(errors.ErrNotFound, "job %s", id)
	}
	job.cancel()
	delete(s.jobs, id)
	return nil
}

// CancelAll cancels every active job.
func (s *JobStore) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, job := range s.jobs {
		if !job.finished() {
			job.Status = JobStatusCancelled
			job.cancel()
		}
	}
}

// jobContext returns the cancellation context of a job.
func (s *JobStore) jobContext(id string) context.Context {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if job, ok := s.jobs[id]; ok {
		return job.ctx
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	return ctx
}

// runJob executes a conversion job in a goroutine, broadcasting its
// progress on the hub.
func (s *Server) runJob(id string, req ConvertRequest) {
	go func() {
		ctx := s.jobs.jobContext(id)
		opts := formats.DefaultOptions()
		if req.Options != nil {
			opts = *req.Options
		}

		if s.jobs.Update(id, JobStatusRunning, 10, nil, "") != nil {
			return
		}
		s.hub.BroadcastProgress(id, "running", fmt.Sprintf("converting %s to %s", req.From, req.To), 10)

		result, err := s.runConversion(ctx, []byte(req.Input), req.From, req.To, opts)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			s.jobs.Update(id, JobStatusFailed, 100, nil, err.Error())
			s.hub.BroadcastError(id, err.Error())
			return
		}
		if s.jobs.Update(id, JobStatusCompleted, 100, result, "") != nil {
			return
		}
		s.hub.BroadcastComplete(id, "conversion finished", map[string]interface{}{
			"records_written": result.Report.RecordsWritten,
			"warnings":        len(result.Report.Warnings),
		})
	}()
}

// handleJobs handles POST /jobs - Create new conversion job.
func (s *Server) handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return
	}

	var req ConvertRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.maxBody())).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}
	if req.From == "" || req.To == "" {
		respondError(w, http.StatusBadRequest, "MISSING_PARAMS", "from and to are required")
		return
	}

	job := s.jobs.Create(req)
	s.runJob(job.ID, req)
	respond(w, http.StatusCreated, job)
}

// handleJobByID handles GET /jobs/{id} - Get job status and DELETE /jobs/{id} - Remove job.
func (s *Server) handleJobByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/jobs/")
	if id == "" {
		respondError(w, http.StatusBadRequest, "MISSING_ID", "Job ID is required")
		return
	}
	if _, err := uuid.Parse(id); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_ID", "Job ID must be a UUID")
		return
	}

	switch r.Method {
	case http.MethodGet:
		job, exists := s.jobs.Get(id)
		if !exists {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "Job not found")
			return
		}
		respond(w, http.StatusOK, job)
	case http.MethodDelete:
		if err := s.jobs.Delete(id); err != nil {
			respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		s.hub.BroadcastError(id, "job deleted")
		respond(w, http.StatusOK, map[string]string{"message": "Job deleted"})
	default:
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET and DELETE are allowed")
	}
}
