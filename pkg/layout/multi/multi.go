package multi

import (
	"context"
	"log/slog"

	"github.com/adrianliechti/redactor/pkg/layout"
)

var _ layout.Provider = (*Extractor)(nil)

// Extractor asks providers in order. Pages left without words are handed
// to the next provider, so a scanned page in a native PDF still gets text.
type Extractor struct {
	providers []layout.Provider
}

func New(provider ...layout.Provider) *Extractor {
	return &Extractor{
		providers: provider,
	}
}

func (e *Extractor) Extract(ctx context.Context, file layout.File, options *layout.ExtractOptions) (*layout.Document, error) {
	if options == nil {
		options = new(layout.ExtractOptions)
	}

	var result *layout.Document
	var lastErr error = layout.ErrUnsupported

	for _, p := range e.providers {
		opts := options

		if result != nil {
			missing := emptyPages(result)

			if len(missing) == 0 {
				break
			}

			opts = &layout.ExtractOptions{Pages: missing}
		}

		doc, err := p.Extract(ctx, file, opts)

		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}

			slog.WarnContext(ctx, "layout provider failed", "file", file.Name, "error", err)

			lastErr = err
			continue
		}

		if result == nil {
			result = doc
			continue
		}

		merge(result, doc)
	}

	if result == nil {
		return nil, lastErr
	}

	return result, nil
}

func emptyPages(doc *layout.Document) []int {
	var pages []int

	for _, p := range doc.Pages {
		if len(p.Words) == 0 {
			pages = append(pages, p.Page)
		}
	}

	return pages
}

func merge(dst, src *layout.Document) {
	for _, s := range src.Pages {
		d, ok := dst.Page(s.Page)

		if !ok || len(d.Words) > 0 || len(s.Words) == 0 {
			continue
		}

		d.Words = s.Words
		d.Text = s.Text
		d.Source = s.Source

		if len(d.Images) == 0 {
			d.Images = s.Images
		}

		if d.Width == 0 || d.Height == 0 {
			d.Width = s.Width
			d.Height = s.Height
		}
	}
}
