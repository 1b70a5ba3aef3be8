package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"slices"

	"github.com/adrianliechti/redactor/pkg/detector"
	"github.com/adrianliechti/redactor/pkg/jobs"
	"github.com/adrianliechti/redactor/pkg/layout"
	"github.com/adrianliechti/redactor/pkg/pii"
	"github.com/adrianliechti/redactor/pkg/redactor"
	"github.com/adrianliechti/redactor/pkg/region"
	"github.com/adrianliechti/redactor/pkg/resolver"
	"github.com/adrianliechti/redactor/pkg/semantic"
	"github.com/adrianliechti/redactor/pkg/validator"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/adrianliechti/redactor/pkg/pipeline"

// Redactor writes the redacted copy of a document.
type Redactor interface {
	Redact(ctx context.Context, input, output string, pages map[int][]pii.Detection) (*redactor.Result, error)
}

// Pipeline runs detection, location, validation and redaction for jobs.
type Pipeline struct {
	registry jobs.Registry

	layout   layout.Provider
	redactor Redactor

	detector  *detector.Detector
	resolver  *resolver.Resolver
	validator *validator.Validator
	region    *region.Detector
	decider   *semantic.Decider
}

type Option func(*Pipeline)

func WithDetector(val *detector.Detector) Option {
	return func(p *Pipeline) {
		p.detector = val
	}
}

func WithResolver(val *resolver.Resolver) Option {
	return func(p *Pipeline) {
		p.resolver = val
	}
}

func WithValidator(val *validator.Validator) Option {
	return func(p *Pipeline) {
		p.validator = val
	}
}

func WithRegion(val *region.Detector) Option {
	return func(p *Pipeline) {
		p.region = val
	}
}

func WithDecider(val *semantic.Decider) Option {
	return func(p *Pipeline) {
		p.decider = val
	}
}

func New(registry jobs.Registry, layout layout.Provider, redactor Redactor, options ...Option) (*Pipeline, error) {
	if registry == nil {
		return nil, errors.New("missing job registry")
	}

	if layout == nil {
		return nil, errors.New("missing layout provider")
	}

	if redactor == nil {
		return nil, errors.New("missing redactor")
	}

	p := &Pipeline{
		registry: registry,

		layout:   layout,
		redactor: redactor,

		detector:  detector.New(),
		resolver:  resolver.New(),
		validator: validator.New(validator.DefaultOptions()),
		region:    region.New(),
		decider:   semantic.NewDecider(nil),
	}

	for _, option := range options {
		option(p)
	}

	return p, nil
}

type ProcessOptions struct {
	// Categories limits redaction to these categories. Empty means all.
	Categories []pii.Category
}

func (o *ProcessOptions) allows(c pii.Category) bool {
	if o == nil || len(o.Categories) == 0 {
		return true
	}

	return slices.Contains(o.Categories, c)
}

// Start processes a job in the background. The job outlives the caller's context.
func (p *Pipeline) Start(ctx context.Context, id, input, output string, options *ProcessOptions) {
	ctx = context.WithoutCancel(ctx)

	go func() {
		if _, err := p.Process(ctx, id, input, output, options); err != nil {
			slog.ErrorContext(ctx, "job failed", "job", id, "error", err)
		}
	}()
}

// Process runs a job to completion. Only failures to read the input or write
// the output fail the job; everything else is absorbed into the statistics.
func (p *Pipeline) Process(ctx context.Context, id, input, output string, options *ProcessOptions) (*jobs.Result, error) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "process", trace.WithAttributes(
		attribute.String("job.id", id),
	))
	defer span.End()

	p.progress(id, 10, "Loading document")

	file := layout.File{
		Name: filepath.Base(input),
		Path: input,
	}

	doc, err := p.layout.Extract(ctx, file, nil)

	if err != nil {
		return nil, p.fail(id, fmt.Errorf("read document: %w", err))
	}

	var stats jobs.Stats

	var detections []pii.Detection
	pages := make(map[int][]pii.Detection)

	for i, page := range doc.Pages {
		progress := 20 + int(math.Round(60*float64(i+1)/float64(len(doc.Pages))))
		p.progress(id, progress, fmt.Sprintf("Processing page %d of %d", i+1, len(doc.Pages)))

		found, pageStats := p.processPage(ctx, page, options)

		stats.Add(pageStats)

		if len(found) > 0 {
			pages[page.Page] = append(pages[page.Page], found...)
			detections = append(detections, found...)
		}
	}

	p.progress(id, 85, fmt.Sprintf("Applying %d redactions", len(detections)))

	redacted, err := p.redactor.Redact(ctx, input, output, pages)

	if err != nil {
		return nil, p.fail(id, fmt.Errorf("write document: %w", err))
	}

	stats.RedactionsApplied = redacted.Stats.Filled + redacted.Stats.Blurred
	stats.RedactionsSkipped = redacted.Stats.Skipped

	result := jobs.Result{
		Output: output,

		Pages:      redacted.Pages,
		Detections: detections,
		Stats:      stats,
	}

	if err := p.registry.MarkCompleted(id, result); err != nil {
		slog.WarnContext(ctx, "job state not updated", "job", id, "error", err)
	}

	slog.InfoContext(ctx, "job completed", "job", id, "pages", redacted.Pages, "detections", len(detections))

	return &result, nil
}

func (p *Pipeline) progress(id string, progress int, message string) {
	if err := p.registry.UpdateProgress(id, progress, message); err != nil {
		slog.Warn("job state not updated", "job", id, "error", err)
	}
}

func (p *Pipeline) fail(id string, err error) error {
	if err := p.registry.MarkFailed(id, err.Error()); err != nil {
		slog.Warn("job state not updated", "job", id, "error", err)
	}

	return err
}
