package pipeline

import (
	"context"
	"log/slog"
	"math"

	"github.com/adrianliechti/redactor/pkg/jobs"
	"github.com/adrianliechti/redactor/pkg/layout"
	"github.com/adrianliechti/redactor/pkg/pii"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// processPage returns the validated detections of one page. A box is
// redacted once even when several candidates resolve to it.
func (p *Pipeline) processPage(ctx context.Context, page layout.Page, options *ProcessOptions) ([]pii.Detection, jobs.Stats) {
	ctx, span := otel.Tracer(instrumentationName).Start(ctx, "page", trace.WithAttributes(
		attribute.Int("page.number", page.Page),
		attribute.Int("page.words", len(page.Words)),
	))
	defer span.End()

	var stats jobs.Stats
	var result []pii.Detection

	limits := make(map[pii.ContentType]pii.Limits)

	limitsFor := func(c pii.Category) pii.Limits {
		t := c.ContentType()

		if l, ok := limits[t]; ok {
			return l
		}

		l := p.validator.ComputeLimits(page.Words, c)
		limits[t] = l

		return l
	}

	seen := make(map[[4]int64]bool)

	accept := func(d pii.Detection) bool {
		key := boxKey(d.Box)

		if seen[key] {
			return false
		}

		seen[key] = true
		result = append(result, d)

		return true
	}

	scan := p.detector.Scan(page.Text, page.Page)

	stats.PatternMatches += scan.Matches
	stats.RejectedDetections += len(scan.Rejections)

	for _, c := range scan.Candidates {
		if !options.allows(c.Category) {
			continue
		}

		verdict := p.decider.Decide(ctx, c, page.Text)

		if !verdict.Redact() {
			stats.RejectedDetections++
			continue
		}

		stats.CoordinateSearches++

		box, tier, ok := p.resolver.Locate(c.Text, page.Words, c.Category)

		if !ok {
			slog.DebugContext(ctx, "candidate not located", "page", page.Page, "category", c.Category)
			continue
		}

		stats.ValidationChecks++

		if !p.validator.Validate(box, c.Category, limitsFor(c.Category)) {
			slog.DebugContext(ctx, "candidate outside limits", "page", page.Page, "category", c.Category, "tier", tier, "width", box.Width(), "height", box.Height())

			stats.RejectedDetections++
			continue
		}

		if !accept(pii.Detection{Candidate: c, Box: box, Method: pii.MethodPatternMatch}) {
			continue
		}

		stats.SuccessfulDetections++

		slog.DebugContext(ctx, "candidate accepted", "page", page.Page, "category", c.Category, "tier", tier, "verdict", verdict)
	}

	stats.ImageAnalysisAttempts += len(page.Images)

	for _, d := range p.region.Detect(page.Images, page.Page) {
		if !options.allows(d.Category) {
			continue
		}

		stats.ValidationChecks++

		if !p.validator.Validate(d.Box, d.Category, limitsFor(d.Category)) {
			stats.RejectedDetections++
			continue
		}

		if !accept(d) {
			continue
		}

		stats.ImageAnalysisSuccess++
		stats.SuccessfulDetections++
	}

	return result, stats
}

// boxKey identifies a box at a tenth of a point.
func boxKey(r pii.Rect) [4]int64 {
	r = r.Normalize()

	return [4]int64{
		int64(math.Round(r.X0 * 10)),
		int64(math.Round(r.Y0 * 10)),
		int64(math.Round(r.X1 * 10)),
		int64(math.Round(r.Y1 * 10)),
	}
}
