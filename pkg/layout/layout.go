package layout

import (
	"context"
	"errors"
	"os"
	"path"
	"strings"

	"github.com/adrianliechti/redactor/pkg/pii"
)

// Provider extracts word-level layout from a document.
type Provider interface {
	Extract(ctx context.Context, file File, options *ExtractOptions) (*Document, error)
}

var (
	ErrUnsupported = errors.New("unsupported type")
)

type File struct {
	Name string
	Path string

	Content     []byte
	ContentType string
}

// Data returns the file content, reading it from Path when not loaded.
func (f File) Data() ([]byte, error) {
	if f.Content != nil {
		return f.Content, nil
	}

	if f.Path == "" {
		return nil, errors.New("missing file content")
	}

	return os.ReadFile(f.Path)
}

func (f File) IsPDF() bool {
	if strings.EqualFold(path.Ext(f.Name), ".pdf") || strings.EqualFold(path.Ext(f.Path), ".pdf") {
		return true
	}

	return f.ContentType == "application/pdf"
}

type ExtractOptions struct {
	// Pages restricts extraction to these 1-based page numbers.
	Pages []int
}

func (o *ExtractOptions) Includes(page int) bool {
	if o == nil || len(o.Pages) == 0 {
		return true
	}

	for _, p := range o.Pages {
		if p == page {
			return true
		}
	}

	return false
}

type Document struct {
	Pages []Page
}

// Page holds the layout of one page in points with a top-left origin.
// Pages without extractable text carry empty Words and Text.
type Page struct {
	Page int

	Width  float64
	Height float64

	Text  string
	Words []pii.WordToken

	Images []pii.Placement

	Source string
}

func (d *Document) Page(n int) (*Page, bool) {
	for i := range d.Pages {
		if d.Pages[i].Page == n {
			return &d.Pages[i], true
		}
	}

	return nil, false
}

// JoinWords rebuilds page text from words, one line per row of boxes.
func JoinWords(words []pii.WordToken) string {
	var sb strings.Builder

	var lastY float64

	for i, w := range words {
		if i > 0 {
			h := w.Box.Height()

			if h <= 0 {
				h = 1
			}

			if w.Box.Y0-lastY > h/2 || lastY-w.Box.Y0 > h/2 {
				sb.WriteString("\n")
			} else {
				sb.WriteString(" ")
			}
		}

		sb.WriteString(w.Text)
		lastY = w.Box.Y0
	}

	return sb.String()
}
