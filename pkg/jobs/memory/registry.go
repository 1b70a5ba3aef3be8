package memory

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/adrianliechti/redactor/pkg/jobs"

	"github.com/google/uuid"
)

var _ jobs.Registry = (*Registry)(nil)

type Registry struct {
	mu   sync.RWMutex
	jobs map[string]*jobs.Job

	now func() time.Time
}

type Option func(*Registry)

// WithClock replaces time.Now for timestamps.
func WithClock(now func() time.Time) Option {
	return func(r *Registry) {
		r.now = now
	}
}

func New(options ...Option) *Registry {
	r := &Registry{
		jobs: make(map[string]*jobs.Job),

		now: time.Now,
	}

	for _, option := range options {
		option(r)
	}

	return r
}

func (r *Registry) Create(filename string) string {
	id := uuid.NewString()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.jobs[id] = &jobs.Job{
		ID:       id,
		Filename: filename,

		Status: jobs.StatusPending,

		CreatedAt: r.now(),
	}

	return id
}

func (r *Registry) UpdateProgress(id string, progress int, message string) error {
	return r.update(id, func(j *jobs.Job) {
		j.Status = jobs.StatusProcessing
		j.Progress = max(j.Progress, min(progress, 100))
		j.Message = message

		j.Logs = append(j.Logs, fmt.Sprintf("[%d%%] %s", j.Progress, message))
	})
}

func (r *Registry) MarkCompleted(id string, result jobs.Result) error {
	return r.update(id, func(j *jobs.Job) {
		now := r.now()

		j.Status = jobs.StatusCompleted
		j.Progress = 100
		j.Message = fmt.Sprintf("Completed with %d redactions", len(result.Detections))
		j.CompletedAt = &now

		j.Result = &result

		j.Logs = append(j.Logs, fmt.Sprintf("[100%%] %s", j.Message))
	})
}

func (r *Registry) MarkFailed(id string, reason string) error {
	return r.update(id, func(j *jobs.Job) {
		now := r.now()

		j.Status = jobs.StatusFailed
		j.Message = "Processing failed"
		j.Error = reason
		j.CompletedAt = &now

		j.Logs = append(j.Logs, fmt.Sprintf("[%d%%] failed: %s", j.Progress, reason))
	})
}

func (r *Registry) Get(id string) (*jobs.Job, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	j, ok := r.jobs[id]

	if !ok {
		return nil, false
	}

	return snapshot(j), true
}

func (r *Registry) List() []jobs.Job {
	r.mu.RLock()
	defer r.mu.RUnlock()

	result := make([]jobs.Job, 0, len(r.jobs))

	for _, j := range r.jobs {
		result = append(result, *snapshot(j))
	}

	slices.SortFunc(result, func(a, b jobs.Job) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}

		return strings.Compare(a.ID, b.ID)
	})

	return result
}

func (r *Registry) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.jobs[id]; !ok {
		return jobs.ErrNotFound
	}

	delete(r.jobs, id)

	return nil
}

func (r *Registry) Cleanup(maxAge time.Duration) []jobs.Job {
	cutoff := r.now().Add(-maxAge)

	r.mu.Lock()
	defer r.mu.Unlock()

	var removed []jobs.Job

	for id, j := range r.jobs {
		// the pipeline still owns files of running jobs
		if !j.Status.Terminal() || !j.CreatedAt.Before(cutoff) {
			continue
		}

		removed = append(removed, *snapshot(j))
		delete(r.jobs, id)
	}

	return removed
}

func (r *Registry) update(id string, fn func(j *jobs.Job)) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	j, ok := r.jobs[id]

	if !ok {
		return jobs.ErrNotFound
	}

	if j.Status.Terminal() {
		return jobs.ErrTerminal
	}

	fn(j)

	return nil
}

func snapshot(j *jobs.Job) *jobs.Job {
	c := *j

	c.Logs = slices.Clone(j.Logs)

	if j.CompletedAt != nil {
		t := *j.CompletedAt
		c.CompletedAt = &t
	}

	if j.Result != nil {
		result := *j.Result
		result.Detections = slices.Clone(j.Result.Detections)

		c.Result = &result
	}

	return &c
}
