package client

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/adrianliechti/redactor/pkg/jobs"
	"github.com/adrianliechti/redactor/pkg/pii"

	"github.com/stretchr/testify/require"
)

func TestJobs(t *testing.T) {
	var polls atomic.Int64

	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/jobs", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()

		require.Equal(t, "report.pdf", header.Filename)
		require.Equal(t, "person_names,dates", r.FormValue("categories"))

		w.WriteHeader(http.StatusAccepted)
		json.NewEncoder(w).Encode(jobs.Job{ID: "job-1", Filename: header.Filename, Status: jobs.StatusPending})
	})

	mux.HandleFunc("GET /v1/jobs", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]jobs.Job{{ID: "job-1", Status: jobs.StatusProcessing}})
	})

	mux.HandleFunc("GET /v1/jobs/job-1", func(w http.ResponseWriter, r *http.Request) {
		status := jobs.StatusProcessing

		if polls.Add(1) >= 3 {
			status = jobs.StatusCompleted
		}

		json.NewEncoder(w).Encode(jobs.Job{ID: "job-1", Status: status})
	})

	mux.HandleFunc("GET /v1/jobs/job-1/download", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("%PDF-redacted"))
	})

	mux.HandleFunc("DELETE /v1/jobs/job-1", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	ctx := context.Background()
	c := New(server.URL+"/", WithToken("secret"))

	job, err := c.Jobs.New(ctx, JobRequest{
		Name:    "report.pdf",
		Content: bytes.NewReader([]byte("%PDF-1.7")),

		Categories: []pii.Category{pii.CategoryPersonName, pii.CategoryDate},
	})

	require.NoError(t, err)
	require.Equal(t, "job-1", job.ID)

	list, err := c.Jobs.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Equal(t, "job-1", list[0].ID)

	job, err = c.Jobs.Wait(ctx, job.ID, time.Millisecond)
	require.NoError(t, err)
	require.Equal(t, jobs.StatusCompleted, job.Status)
	require.Equal(t, int64(3), polls.Load())

	var out bytes.Buffer
	require.NoError(t, c.Jobs.Download(ctx, job.ID, &out))
	require.Equal(t, "%PDF-redacted", out.String())

	require.NoError(t, c.Jobs.Delete(ctx, job.ID))
}

func TestJobErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			http.Error(w, "job not found", http.StatusNotFound)
			return
		}

		http.Error(w, "file is not a pdf document", http.StatusBadRequest)
	}))

	defer server.Close()

	ctx := context.Background()
	c := New(server.URL)

	_, err := c.Jobs.Get(ctx, "missing")
	require.ErrorIs(t, err, jobs.ErrNotFound)

	_, err = c.Jobs.New(ctx, JobRequest{Name: "notes.txt", Content: bytes.NewReader([]byte("hello"))})
	require.ErrorContains(t, err, "file is not a pdf document")
}
