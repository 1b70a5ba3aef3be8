package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/adrianliechti/redactor/config"
	"github.com/adrianliechti/redactor/pkg/jobs"
	"github.com/adrianliechti/redactor/pkg/pipeline"

	"github.com/go-chi/chi/v5"
)

// Processor runs a registered job in the background.
type Processor interface {
	Start(ctx context.Context, id, input, output string, options *pipeline.ProcessOptions)
}

type Handler struct {
	*config.Config

	jobs      jobs.Registry
	processor Processor
}

func New(cfg *config.Config, registry jobs.Registry, processor Processor) (*Handler, error) {
	if registry == nil {
		return nil, errors.New("missing job registry")
	}

	if processor == nil {
		return nil, errors.New("missing processor")
	}

	h := &Handler{
		Config: cfg,

		jobs:      registry,
		processor: processor,
	}

	return h, nil
}

func (h *Handler) Attach(r chi.Router) {
	r.Get("/jobs", h.handleJobs)
	r.Post("/jobs", h.handleJobCreate)

	r.Get("/jobs/{id}", h.handleJob)
	r.Get("/jobs/{id}/download", h.handleJobDownload)
	r.Get("/jobs/{id}/preview", h.handleJobPreview)

	r.Delete("/jobs/{id}", h.handleJobDelete)
}

func writeJson(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)

	enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	w.WriteHeader(code)

	text := http.StatusText(code)

	if err != nil {
		text = err.Error()
	}

	w.Write([]byte(text))
}
