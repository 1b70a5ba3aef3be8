package redactor

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/adrianliechti/redactor/pkg/pii"
	"github.com/adrianliechti/redactor/pkg/raster"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

var ErrPageCount = errors.New("page count mismatch")

// Redactor rebuilds a PDF, replacing pages that carry detections with a
// redacted bitmap and copying all other pages through.
type Redactor struct {
	engine     *Engine
	rasterizer raster.Rasterizer

	scale float64
	conf  *model.Configuration
}

type Option func(*Redactor)

func WithScale(scale float64) Option {
	return func(r *Redactor) {
		if scale > 0 {
			r.scale = scale
		}
	}
}

func WithEngine(e *Engine) Option {
	return func(r *Redactor) {
		r.engine = e
	}
}

func New(rasterizer raster.Rasterizer, options ...Option) *Redactor {
	r := &Redactor{
		engine:     NewEngine(),
		rasterizer: rasterizer,

		scale: DefaultScale,
		conf:  model.NewDefaultConfiguration(),
	}

	for _, option := range options {
		option(r)
	}

	return r
}

type Result struct {
	Pages    int
	Redacted int

	Stats Stats
}

// Redact writes the redacted document for input to output. Pages are 1-based.
func (r *Redactor) Redact(ctx context.Context, input, output string, pages map[int][]pii.Detection) (*Result, error) {
	count, err := api.PageCountFile(input)

	if err != nil {
		return nil, fmt.Errorf("read page count: %w", err)
	}

	dims, err := api.PageDimsFile(input)

	if err != nil {
		return nil, fmt.Errorf("read page dimensions: %w", err)
	}

	if len(dims) != count {
		return nil, fmt.Errorf("%w: %d pages, %d dimensions", ErrPageCount, count, len(dims))
	}

	dir, err := os.MkdirTemp("", "redact-*")

	if err != nil {
		return nil, err
	}

	defer os.RemoveAll(dir)

	result := &Result{
		Pages: count,
	}

	var parts []string

	for page := 1; page <= count; page++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		part := filepath.Join(dir, fmt.Sprintf("page-%05d.pdf", page))
		detections := pages[page]

		if len(detections) == 0 {
			if err := api.TrimFile(input, part, []string{strconv.Itoa(page)}, r.conf); err != nil {
				return nil, fmt.Errorf("copy page %d: %w", page, err)
			}

			parts = append(parts, part)
			continue
		}

		stats, err := r.redactPage(ctx, input, part, page, dims[page-1], detections)

		if err != nil {
			return nil, fmt.Errorf("redact page %d: %w", page, err)
		}

		result.Redacted++

		result.Stats.Blurred += stats.Blurred
		result.Stats.Filled += stats.Filled
		result.Stats.Fallbacks += stats.Fallbacks
		result.Stats.Skipped += stats.Skipped

		parts = append(parts, part)
	}

	if err := api.MergeCreateFile(parts, output, false, r.conf); err != nil {
		return nil, fmt.Errorf("assemble output: %w", err)
	}

	written, err := api.PageCountFile(output)

	if err != nil {
		return nil, fmt.Errorf("read output page count: %w", err)
	}

	if written != count {
		return nil, fmt.Errorf("%w: input %d, output %d", ErrPageCount, count, written)
	}

	slog.Info("document redacted", "pages", count, "redacted", result.Redacted)

	return result, nil
}

func (r *Redactor) redactPage(ctx context.Context, input, part string, page int, dim types.Dim, detections []pii.Detection) (Stats, error) {
	img, err := r.rasterizer.Render(ctx, input, page, 72*r.scale)

	if err != nil {
		return Stats{}, err
	}

	// renderers round the pixel size, so derive the effective scale from the bitmap
	scale := r.scale

	if dim.Width > 0 {
		scale = float64(img.Bounds().Dx()) / dim.Width
	}

	redacted, stats := r.engine.Apply(img, detections, scale)

	name := part + ".png"

	f, err := os.Create(name)

	if err != nil {
		return stats, err
	}

	if err := png.Encode(f, redacted); err != nil {
		f.Close()
		return stats, err
	}

	if err := f.Close(); err != nil {
		return stats, err
	}

	// the page keeps its original box; the bitmap is fit into it
	imp := pdfcpu.DefaultImportConfig()
	imp.PageDim = &types.Dim{Width: dim.Width, Height: dim.Height}
	imp.UserDim = true
	imp.Pos = types.Center
	imp.Scale = 1

	if err := api.ImportImagesFile([]string{name}, part, imp, r.conf); err != nil {
		return stats, err
	}

	return stats, nil
}
