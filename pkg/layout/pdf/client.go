package pdf

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/adrianliechti/redactor/pkg/layout"

	"github.com/ledongthuc/pdf"
)

var _ layout.Provider = (*Extractor)(nil)

// Extractor reads the native text layer and image placements of a PDF.
type Extractor struct {
	rowTolerance float64
	wordSpacing  float64
}

type Option func(*Extractor)

// WithWordSpacing sets the gap, as a fraction of the font size, that separates words.
func WithWordSpacing(val float64) Option {
	return func(e *Extractor) {
		e.wordSpacing = val
	}
}

func New(options ...Option) (*Extractor, error) {
	e := &Extractor{
		rowTolerance: 0.5,
		wordSpacing:  0.25,
	}

	for _, option := range options {
		option(e)
	}

	return e, nil
}

func (e *Extractor) Extract(ctx context.Context, file layout.File, options *layout.ExtractOptions) (*layout.Document, error) {
	if options == nil {
		options = new(layout.ExtractOptions)
	}

	if !file.IsPDF() {
		return nil, layout.ErrUnsupported
	}

	data, err := file.Data()

	if err != nil {
		return nil, err
	}

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))

	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	result := &layout.Document{}

	for n := 1; n <= r.NumPage(); n++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !options.Includes(n) {
			continue
		}

		result.Pages = append(result.Pages, e.extractPage(r.Page(n), n))
	}

	return result, nil
}

// extractPage never fails; unreadable pages come back without words.
func (e *Extractor) extractPage(p pdf.Page, n int) (page layout.Page) {
	page = layout.Page{
		Page:   n,
		Source: "pdf",
	}

	if p.V.IsNull() {
		return page
	}

	f := pageFrame(p.V)

	page.Width, page.Height = f.size()

	defer func() {
		if r := recover(); r != nil {
			slog.Warn("unreadable page content", "page", n, "error", r)

			page.Text = ""
			page.Words = nil
		}
	}()

	page.Images = placements(p, f)

	page.Words = e.words(p.Content().Text, f)
	page.Text = layout.JoinWords(page.Words)

	return page
}
