package jobs

import (
	"errors"
	"time"

	"github.com/adrianliechti/redactor/pkg/pii"
)

var (
	ErrNotFound = errors.New("job not found")
	ErrTerminal = errors.New("job already finished")
)

// Registry tracks redaction jobs. Reads return snapshots; writes on a job
// are serialized. Completed and failed jobs never change state again.
type Registry interface {
	Create(filename string) string

	UpdateProgress(id string, progress int, message string) error
	MarkCompleted(id string, result Result) error
	MarkFailed(id string, reason string) error

	Get(id string) (*Job, bool)
	Delete(id string) error

	// List returns all jobs, oldest first.
	List() []Job

	// Cleanup removes finished jobs created more than maxAge ago and returns them.
	Cleanup(maxAge time.Duration) []Job
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

type Job struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`

	Status   Status `json:"status"`
	Progress int    `json:"progress"`
	Message  string `json:"message,omitempty"`
	Error    string `json:"error,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`

	Logs []string `json:"logs,omitempty"`

	Result *Result `json:"result,omitempty"`
}

type Result struct {
	Output string `json:"-"`

	Pages int `json:"pages"`

	Detections []pii.Detection `json:"detections"`
	Stats      Stats           `json:"stats"`
}

type Stats struct {
	PatternMatches        int `json:"pattern_matches"`
	CoordinateSearches    int `json:"coordinate_searches"`
	ValidationChecks      int `json:"validation_checks"`
	SuccessfulDetections  int `json:"successful_detections"`
	RejectedDetections    int `json:"rejected_detections"`
	ImageAnalysisAttempts int `json:"image_analysis_attempts"`
	ImageAnalysisSuccess  int `json:"image_analysis_success"`
	RedactionsApplied     int `json:"redactions_applied"`
	RedactionsSkipped     int `json:"redactions_skipped"`
}

func (s *Stats) Add(o Stats) {
	s.PatternMatches += o.PatternMatches
	s.CoordinateSearches += o.CoordinateSearches
	s.ValidationChecks += o.ValidationChecks
	s.SuccessfulDetections += o.SuccessfulDetections
	s.RejectedDetections += o.RejectedDetections
	s.ImageAnalysisAttempts += o.ImageAnalysisAttempts
	s.ImageAnalysisSuccess += o.ImageAnalysisSuccess
	s.RedactionsApplied += o.RedactionsApplied
	s.RedactionsSkipped += o.RedactionsSkipped
}
