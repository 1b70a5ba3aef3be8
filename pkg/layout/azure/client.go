package azure

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/adrianliechti/redactor/pkg/layout"
	"github.com/adrianliechti/redactor/pkg/pii"
)

var _ layout.Provider = (*Client)(nil)

// Client extracts word layout using Azure Document Intelligence.
type Client struct {
	client *http.Client

	url   string
	token string

	model    string
	interval time.Duration
}

func New(url string, options ...Option) (*Client, error) {
	if url == "" {
		return nil, errors.New("invalid url")
	}

	c := &Client{
		client: http.DefaultClient,

		url: url,

		model:    "prebuilt-layout",
		interval: 5 * time.Second,
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

	data, err := file.Data()

	if err != nil {
		return nil, err
	}

	u, _ := url.Parse(strings.TrimRight(c.url, "/") + "/documentintelligence/documentModels/" + c.model + ":analyze")

	query := u.Query()
	query.Set("api-version", "2024-11-30")

	if pages := pageRange(options.Pages); pages != "" {
		query.Set("pages", pages)
	}

	u.RawQuery = query.Encode()

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/octet-stream")
	req.Header.Set("Ocp-Apim-Subscription-Key", c.token)

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return nil, convertError(resp)
	}

	operationURL := resp.Header.Get("Operation-Location")

	if operationURL == "" {
		return nil, errors.New("missing operation location")
	}

	for {
		operation, err := c.poll(ctx, operationURL)

		if err != nil {
			return nil, err
		}

		if operation.Status == OperationStatusRunning || operation.Status == OperationStatusNotStarted {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.interval):
			}

			continue
		}

		if operation.Status != OperationStatusSucceeded {
			return nil, errors.New("operation " + string(operation.Status))
		}

		return convertResult(operation.Result, options), nil
	}
}

func (c *Client) poll(ctx context.Context, operationURL string) (*AnalyzeOperation, error) {
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, operationURL, nil)
	req.Header.Set("Ocp-Apim-Subscription-Key", c.token)

	resp, err := c.client.Do(req)

	if err != nil {
		return nil, err
	}

	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, convertError(resp)
	}

	var operation AnalyzeOperation

	if err := json.NewDecoder(resp.Body).Decode(&operation); err != nil {
		return nil, err
	}

	return &operation, nil
}

func convertResult(result AnalyzeResult, options *layout.ExtractOptions) *layout.Document {
	doc := &layout.Document{}

	for _, p := range result.Pages {
		if !options.Includes(p.PageNumber) {
			continue
		}

		scale := unitScale(p.Unit)

		page := layout.Page{
			Page: p.PageNumber,

			Width:  p.Width * scale,
			Height: p.Height * scale,

			Source: "azure",
		}

		for _, w := range p.Words {
			box, ok := convertPolygon(w.Polygon, scale)

			if !ok || strings.TrimSpace(w.Content) == "" {
				continue
			}

			page.Words = append(page.Words, pii.WordToken{
				Text: strings.TrimSpace(w.Content),
				Box:  box,
			})
		}

		for _, f := range result.Figures {
			for _, r := range f.BoundingRegions {
				if r.PageNumber != p.PageNumber {
					continue
				}

				box, ok := convertPolygon(r.Polygon, scale)

				if !ok {
					continue
				}

				page.Images = append(page.Images, pii.Placement{
					Name: "figure-" + f.ID,
					Box:  box,
				})
			}
		}

		page.Text = layout.JoinWords(page.Words)

		doc.Pages = append(doc.Pages, page)
	}

	return doc
}

// unitScale converts the reported unit into points.
func unitScale(unit string) float64 {
	if strings.EqualFold(unit, "inch") {
		return 72
	}

	return 1
}

// convertPolygon returns the bounding box of a flat [x1, y1, x2, y2, ...] polygon.
func convertPolygon(polygon []float64, scale float64) (pii.Rect, bool) {
	if len(polygon) < 4 || len(polygon)%2 != 0 {
		return pii.Rect{}, false
	}

	r := pii.Rect{
		X0: math.Inf(1),
		Y0: math.Inf(1),
		X1: math.Inf(-1),
		Y1: math.Inf(-1),
	}

	for i := 0; i < len(polygon); i += 2 {
		x := polygon[i] * scale
		y := polygon[i+1] * scale

		r.X0 = math.Min(r.X0, x)
		r.Y0 = math.Min(r.Y0, y)
		r.X1 = math.Max(r.X1, x)
		r.Y1 = math.Max(r.Y1, y)
	}

	return r, true
}

func pageRange(pages []int) string {
	var parts []string

	for _, p := range pages {
		parts = append(parts, strconv.Itoa(p))
	}

	return strings.Join(parts, ",")
}

func convertError(resp *http.Response) error {
	data, _ := io.ReadAll(resp.Body)

	if len(data) == 0 {
		return errors.New(http.StatusText(resp.StatusCode))
	}

	return errors.New(string(data))
}
