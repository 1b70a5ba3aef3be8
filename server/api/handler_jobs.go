package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/adrianliechti/redactor/pkg/auth"
	"github.com/adrianliechti/redactor/pkg/jobs"
	"github.com/adrianliechti/redactor/pkg/pipeline"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) handleJobCreate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	file, err := h.readFile(r)

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	categories, err := valueCategories(r)

	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	id := h.jobs.Create(file.Name)

	if err := h.store(id, file.Content); err != nil {
		h.jobs.MarkFailed(id, err.Error())

		writeError(w, http.StatusInternalServerError, err)
		return
	}

	options := &pipeline.ProcessOptions{
		Categories: categories,
	}

	slog.InfoContext(r.Context(), "job created", "job", id, "file", file.Name, "size", len(file.Content), "user", auth.User(r.Context()))

	h.processor.Start(r.Context(), id, h.inputPath(id), h.outputPath(id), options)

	job, ok := h.jobs.Get(id)

	if !ok {
		writeError(w, http.StatusInternalServerError, jobs.ErrNotFound)
		return
	}

	w.WriteHeader(http.StatusAccepted)
	writeJson(w, job)
}

func (h *Handler) handleJobs(w http.ResponseWriter, r *http.Request) {
	writeJson(w, h.jobs.List())
}

func (h *Handler) handleJob(w http.ResponseWriter, r *http.Request) {
	job, ok := h.jobs.Get(chi.URLParam(r, "id"))

	if !ok {
		writeError(w, http.StatusNotFound, jobs.ErrNotFound)
		return
	}

	writeJson(w, job)
}

func (h *Handler) handleJobDownload(w http.ResponseWriter, r *http.Request) {
	h.serveOutput(w, r, "attachment")
}

func (h *Handler) handleJobPreview(w http.ResponseWriter, r *http.Request) {
	h.serveOutput(w, r, "inline")
}

// serveOutput streams the redacted document of a completed job.
func (h *Handler) serveOutput(w http.ResponseWriter, r *http.Request, disposition string) {
	job, ok := h.jobs.Get(chi.URLParam(r, "id"))

	if !ok {
		writeError(w, http.StatusNotFound, jobs.ErrNotFound)
		return
	}

	if job.Status != jobs.StatusCompleted {
		writeError(w, http.StatusConflict, fmt.Errorf("job is %s", job.Status))
		return
	}

	f, err := os.Open(h.outputPath(job.ID))

	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}

	defer f.Close()

	info, err := f.Stat()

	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("%s; filename=%q", disposition, "redacted_"+job.Filename))

	http.ServeContent(w, r, "", info.ModTime(), f)
}

func (h *Handler) handleJobDelete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if err := h.jobs.Delete(id); err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			writeError(w, http.StatusNotFound, err)
			return
		}

		writeError(w, http.StatusInternalServerError, err)
		return
	}

	if err := os.RemoveAll(h.jobDir(id)); err != nil {
		slog.Warn("failed to remove job files", "job", id, "error", err)
	}

	w.WriteHeader(http.StatusNoContent)
}

// Cleanup drops jobs past the retention period together with their files.
func (h *Handler) Cleanup() int {
	expired := h.jobs.Cleanup(h.Jobs.Retention)

	for _, job := range expired {
		if err := os.RemoveAll(h.jobDir(job.ID)); err != nil {
			slog.Warn("failed to remove job files", "job", job.ID, "error", err)
		}
	}

	if len(expired) > 0 {
		slog.Info("removed expired jobs", "count", len(expired))
	}

	return len(expired)
}

func (h *Handler) store(id string, data []byte) error {
	if err := os.MkdirAll(h.jobDir(id), 0o755); err != nil {
		return err
	}

	return os.WriteFile(h.inputPath(id), data, 0o644)
}
