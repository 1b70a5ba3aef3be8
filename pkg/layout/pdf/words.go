package pdf

import (
	"sort"
	"strings"
	"unicode"

	"github.com/adrianliechti/redactor/pkg/pii"

	"github.com/ledongthuc/pdf"
)

// words groups positioned glyphs into word tokens. Glyph coordinates are in
// user space and mapped through the page frame.
func (e *Extractor) words(texts []pdf.Text, f frame) []pii.WordToken {
	var result []pii.WordToken

	for _, row := range e.rows(texts) {
		sort.SliceStable(row, func(i, j int) bool {
			return row[i].X < row[j].X
		})

		var current *word

		flush := func() {
			if current != nil && strings.TrimSpace(current.text.String()) != "" {
				result = append(result, current.token(f))
			}

			current = nil
		}

		for _, t := range row {
			if isBlank(t.S) {
				flush()
				continue
			}

			if current != nil {
				gap := t.X - current.x1

				if gap > e.wordSpacing*current.size {
					flush()
				}
			}

			if current == nil {
				current = &word{
					x0:   t.X,
					x1:   t.X + t.W,
					base: t.Y,
					size: t.FontSize,
				}
			}

			current.text.WriteString(t.S)

			current.x1 = max(current.x1, t.X+t.W)
			current.size = max(current.size, t.FontSize)
		}

		flush()
	}

	return result
}

type word struct {
	x0, x1 float64
	base   float64
	size   float64

	text strings.Builder
}

func (w *word) token(f frame) pii.WordToken {
	size := w.size

	if size <= 0 {
		size = 10
	}

	box := pii.Rect{
		X0: w.x0,
		Y0: w.base - size*0.2,
		X1: w.x1,
		Y1: w.base + size*0.8,
	}

	return pii.WordToken{
		Box: f.rect(box),

		Text: strings.TrimSpace(w.text.String()),
	}
}

// rows buckets glyphs by baseline, ordered top to bottom.
func (e *Extractor) rows(texts []pdf.Text) [][]pdf.Text {
	type bucket struct {
		y     float64
		texts []pdf.Text
	}

	var buckets []*bucket

	for _, t := range texts {
		tolerance := e.rowTolerance * t.FontSize

		if tolerance <= 0 {
			tolerance = 2
		}

		var target *bucket

		for _, b := range buckets {
			if abs(b.y-t.Y) <= tolerance {
				target = b
				break
			}
		}

		if target == nil {
			target = &bucket{y: t.Y}
			buckets = append(buckets, target)
		}

		target.texts = append(target.texts, t)
	}

	sort.SliceStable(buckets, func(i, j int) bool {
		return buckets[i].y > buckets[j].y
	})

	result := make([][]pdf.Text, 0, len(buckets))

	for _, b := range buckets {
		result = append(result, b.texts)
	}

	return result
}

func isBlank(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}

	return true
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}

	return v
}
