package ocr

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image/png"
	"os"
	"strings"

	"github.com/adrianliechti/redactor/pkg/layout"
	"github.com/adrianliechti/redactor/pkg/pii"
	"github.com/adrianliechti/redactor/pkg/raster"

	"github.com/otiai10/gosseract/v2"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

var _ layout.Provider = (*Client)(nil)

const (
	DefaultDPI           = 300
	DefaultMinConfidence = 30
)

// Recognizer returns word boxes in pixel space for a PNG encoded image.
type Recognizer func(image []byte, languages []string) ([]gosseract.BoundingBox, error)

// Client recognizes words on rendered pages for documents without a text layer.
type Client struct {
	rasterizer raster.Rasterizer
	recognize  Recognizer

	dpi           float64
	languages     []string
	minConfidence float64
}

type Option func(*Client)

func WithDPI(val float64) Option {
	return func(c *Client) {
		c.dpi = val
	}
}

func WithLanguages(val ...string) Option {
	return func(c *Client) {
		c.languages = val
	}
}

func WithMinConfidence(val float64) Option {
	return func(c *Client) {
		c.minConfidence = val
	}
}

func WithRecognizer(val Recognizer) Option {
	return func(c *Client) {
		c.recognize = val
	}
}

func New(rasterizer raster.Rasterizer, options ...Option) (*Client, error) {
	if rasterizer == nil {
		return nil, errors.New("missing rasterizer")
	}

	c := &Client{
		rasterizer: rasterizer,
		recognize:  tesseract,

		dpi:           DefaultDPI,
		minConfidence: DefaultMinConfidence,
	}

	for _, option := range options {
		option(c)
	}

	return c, nil
}

func (c *Client) Extract(ctx context.Context, file layout.File, options *layout.ExtractOptions) (*layout.Document, error) {
	if options == nil {
		options = new(layout.ExtractOptions)
	}

	if !file.IsPDF() {
		return nil, layout.ErrUnsupported
	}

	path, cleanup, err := localPath(file)

	if err != nil {
		return nil, err
	}

	defer cleanup()

	dims, err := api.PageDimsFile(path)

	if err != nil {
		return nil, fmt.Errorf("read page dimensions: %w", err)
	}

	result := &layout.Document{}

	for i, dim := range dims {
		n := i + 1

		if !options.Includes(n) {
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, err
		}

		page, err := c.extractPage(ctx, path, n, dim.Width, dim.Height)

		if err != nil {
			return nil, fmt.Errorf("page %d: %w", n, err)
		}

		result.Pages = append(result.Pages, *page)
	}

	return result, nil
}

func (c *Client) extractPage(ctx context.Context, path string, n int, width, height float64) (*layout.Page, error) {
	img, err := c.rasterizer.Render(ctx, path, n, c.dpi)

	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}

	boxes, err := c.recognize(buf.Bytes(), c.languages)

	if err != nil {
		return nil, err
	}

	scale := c.dpi / 72

	if width > 0 && img.Bounds().Dx() > 0 {
		scale = float64(img.Bounds().Dx()) / width
	}

	page := &layout.Page{
		Page: n,

		Width:  width,
		Height: height,

		Source: "ocr",
	}

	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)

		if text == "" || b.Confidence < c.minConfidence {
			continue
		}

		page.Words = append(page.Words, pii.WordToken{
			Text: text,

			Box: pii.Rect{
				X0: float64(b.Box.Min.X) / scale,
				Y0: float64(b.Box.Min.Y) / scale,
				X1: float64(b.Box.Max.X) / scale,
				Y1: float64(b.Box.Max.Y) / scale,
			},
		})
	}

	page.Text = layout.JoinWords(page.Words)

	return page, nil
}

func tesseract(image []byte, languages []string) ([]gosseract.BoundingBox, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if len(languages) > 0 {
		if err := client.SetLanguage(languages...); err != nil {
			return nil, fmt.Errorf("set languages: %w", err)
		}
	}

	if err := client.SetImageFromBytes(image); err != nil {
		return nil, fmt.Errorf("set image: %w", err)
	}

	return client.GetBoundingBoxes(gosseract.RIL_WORD)
}

func localPath(file layout.File) (string, func(), error) {
	if file.Path != "" {
		return file.Path, func() {}, nil
	}

	f, err := os.CreateTemp("", "ocr-*.pdf")

	if err != nil {
		return "", nil, err
	}

	cleanup := func() {
		os.Remove(f.Name())
	}

	if _, err := f.Write(file.Content); err != nil {
		f.Close()
		cleanup()

		return "", nil, err
	}

	if err := f.Close(); err != nil {
		cleanup()
		return "", nil, err
	}

	return f.Name(), cleanup, nil
}
