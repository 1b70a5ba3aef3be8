package pdf

import (
	"context"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/adrianliechti/redactor/pkg/layout"
	"github.com/adrianliechti/redactor/pkg/pii"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/require"
)

func glyphs(x, y, size float64, s string) []pdf.Text {
	var result []pdf.Text

	for _, r := range s {
		result = append(result, pdf.Text{
			FontSize: size,

			X: x,
			Y: y,
			W: size * 0.5,
			S: string(r),
		})

		x += size * 0.5
	}

	return result
}

func TestWords(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	var texts []pdf.Text

	texts = append(texts, glyphs(100, 700, 10, "Name: ASHISH")...)
	texts = append(texts, glyphs(100, 680, 10, "Roll")...)
	texts = append(texts, glyphs(160, 680, 10, "12345678")...)

	words := e.words(texts, frame{width: 612, height: 792})

	var result []string

	for _, w := range words {
		result = append(result, w.Text)
	}

	require.Equal(t, []string{"Name:", "ASHISH", "Roll", "12345678"}, result)

	name := words[1].Box

	require.InDelta(t, 130.0, name.X0, 1e-9)
	require.InDelta(t, 160.0, name.X1, 1e-9)
	require.InDelta(t, 792-708.0, name.Y0, 1e-9)
	require.InDelta(t, 792-700+2.0, name.Y1, 1e-9)

	require.Equal(t, "Name: ASHISH\nRoll 12345678", layout.JoinWords(words))
}

func TestMatrix(t *testing.T) {
	// scale to 50x40 and move to (100, 200)
	m := matrix{50, 0, 0, 40, 100, 200}

	require.Equal(t, pii.Rect{X0: 100, Y0: 200, X1: 150, Y1: 240}, m.unitRect())

	// nested: translate after scale
	outer := matrix{1, 0, 0, 1, 10, 20}
	inner := matrix{2, 0, 0, 2, 0, 0}

	combined := inner.multiply(outer)

	x, y := combined.apply(1, 1)

	require.InDelta(t, 12.0, x, 1e-9)
	require.InDelta(t, 22.0, y, 1e-9)
}

func TestTracerFlipsCoordinates(t *testing.T) {
	tr := &tracer{frame: frame{width: 600, height: 800}}

	tr.add("Im1", pii.Rect{X0: 100, Y0: 200, X1: 150, Y1: 240})
	tr.add("Im2", pii.Rect{X0: 1, Y0: 1, X1: 1, Y1: 5})

	require.Len(t, tr.result, 1)
	require.Equal(t, pii.Rect{X0: 100, Y0: 560, X1: 150, Y1: 600}, tr.result[0].Box)
}

func TestExtractUnsupported(t *testing.T) {
	e, err := New()
	require.NoError(t, err)

	_, err = e.Extract(context.Background(), layout.File{Name: "notes.txt", Content: []byte("hello")}, nil)

	require.ErrorIs(t, err, layout.ErrUnsupported)
}

func TestFrame(t *testing.T) {
	// user space box 20..120 x 20..60 on an A4 page with its origin at (10, 10)
	box := pii.Rect{X0: 30, Y0: 30, X1: 130, Y1: 70}

	tests := []struct {
		rotate int64

		width  float64
		height float64

		want pii.Rect
	}{
		{0, 595, 842, pii.Rect{X0: 20, Y0: 782, X1: 120, Y1: 822}},
		{90, 842, 595, pii.Rect{X0: 20, Y0: 20, X1: 60, Y1: 120}},
		{180, 595, 842, pii.Rect{X0: 475, Y0: 20, X1: 575, Y1: 60}},
		{270, 842, 595, pii.Rect{X0: 782, Y0: 475, X1: 822, Y1: 575}},
		{-90, 842, 595, pii.Rect{X0: 782, Y0: 475, X1: 822, Y1: 575}},
	}

	for _, tt := range tests {
		f := frame{x0: 10, y0: 10, width: 595, height: 842, rotate: normalizeRotation(tt.rotate)}

		width, height := f.size()

		require.Equal(t, tt.width, width, tt.rotate)
		require.Equal(t, tt.height, height, tt.rotate)

		require.Equal(t, tt.want, f.rect(box), tt.rotate)
	}
}

func writeImagePage(t *testing.T, dir string) string {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, 100, 100))

	name := filepath.Join(dir, "photo.png")

	f, err := os.Create(name)
	require.NoError(t, err)

	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	imp := pdfcpu.DefaultImportConfig()
	imp.Pos = types.BottomLeft
	imp.Dx, imp.Dy = 20, 20
	imp.Scale = 1
	imp.ScaleAbs = true

	path := filepath.Join(dir, "input.pdf")
	require.NoError(t, api.ImportImagesFile([]string{name}, path, imp, nil))

	return path
}

func TestExtractRotatedPage(t *testing.T) {
	dir := t.TempDir()

	input := writeImagePage(t, dir)
	rotated := filepath.Join(dir, "rotated.pdf")

	require.NoError(t, api.RotateFile(input, rotated, 90, nil, nil))

	e, err := New()
	require.NoError(t, err)

	doc, err := e.Extract(context.Background(), layout.File{Name: "rotated.pdf", Path: rotated}, nil)
	require.NoError(t, err)
	require.Len(t, doc.Pages, 1)

	dims, err := api.PageDimsFile(rotated)
	require.NoError(t, err)

	page := doc.Pages[0]

	require.Equal(t, dims[0].Width, page.Width)
	require.Equal(t, dims[0].Height, page.Height)

	require.Len(t, page.Images, 1)

	box := page.Images[0].Box

	require.InDelta(t, 20.0, box.X0, 0.01)
	require.InDelta(t, 20.0, box.Y0, 0.01)
	require.InDelta(t, 120.0, box.X1, 0.01)
	require.InDelta(t, 120.0, box.Y1, 0.01)

	require.LessOrEqual(t, box.Y1, page.Height)
}
