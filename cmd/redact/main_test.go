package main

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/adrianliechti/redactor/pkg/jobs"
	"github.com/adrianliechti/redactor/pkg/jobs/memory"
	"github.com/adrianliechti/redactor/pkg/pii"
	"github.com/adrianliechti/redactor/pkg/pipeline"

	"github.com/stretchr/testify/require"
)

type mockProcessor struct {
	calls atomic.Int64

	registry jobs.Registry

	result *jobs.Result
	err    error

	// drop removes the job before returning
	drop bool
}

func (m *mockProcessor) Process(ctx context.Context, id, input, output string, options *pipeline.ProcessOptions) (*jobs.Result, error) {
	m.calls.Add(1)

	if m.err != nil {
		m.registry.MarkFailed(id, m.err.Error())
	} else {
		m.registry.MarkCompleted(id, *m.result)
	}

	if m.drop {
		m.registry.Delete(id)
	}

	return m.result, m.err
}

func TestProcess(t *testing.T) {
	ctx := context.Background()

	t.Run("completed", func(t *testing.T) {
		registry := memory.New()

		p := &mockProcessor{
			registry: registry,
			result:   &jobs.Result{Pages: 2},
		}

		job, err := process(ctx, p, registry, "/tmp/report.pdf", "/tmp/out.pdf", []pii.Category{pii.CategoryDate})

		require.NoError(t, err)
		require.Equal(t, "report.pdf", job.Filename)
		require.Equal(t, jobs.StatusCompleted, job.Status)
		require.Equal(t, 2, job.Result.Pages)
		require.Equal(t, int64(1), p.calls.Load())
	})

	t.Run("failed", func(t *testing.T) {
		registry := memory.New()

		p := &mockProcessor{
			registry: registry,
			err:      errors.New("read document: broken"),
		}

		job, err := process(ctx, p, registry, "report.pdf", "out.pdf", nil)

		require.NoError(t, err)
		require.Equal(t, jobs.StatusFailed, job.Status)
		require.Equal(t, "read document: broken", job.Error)
	})

	t.Run("failed without job", func(t *testing.T) {
		registry := memory.New()

		failure := errors.New("read document: broken")

		p := &mockProcessor{
			registry: registry,
			err:      failure,
			drop:     true,
		}

		_, err := process(ctx, p, registry, "report.pdf", "out.pdf", nil)

		require.ErrorIs(t, err, failure)
	})

	t.Run("missing job", func(t *testing.T) {
		registry := memory.New()

		p := &mockProcessor{
			registry: registry,
			result:   &jobs.Result{},
			drop:     true,
		}

		_, err := process(ctx, p, registry, "report.pdf", "out.pdf", nil)

		require.ErrorIs(t, err, jobs.ErrNotFound)
	})
}
