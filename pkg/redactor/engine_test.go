package redactor

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/adrianliechti/redactor/pkg/pii"

	"github.com/stretchr/testify/require"
)

func checkerboard(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := range h {
		for x := range w {
			c := color.RGBA{255, 255, 255, 255}

			if (x/4+y/4)%2 == 0 {
				c = color.RGBA{200, 30, 30, 255}
			}

			img.Set(x, y, c)
		}
	}

	return img
}

func detection(category pii.Category, x0, y0, x1, y1 float64) pii.Detection {
	return pii.Detection{
		Candidate: pii.Candidate{
			Text:     "x",
			Category: category,
		},

		Box: pii.Rect{X0: x0, Y0: y0, X1: x1, Y1: y1},
	}
}

func TestApplyNoDetectionsIsNoop(t *testing.T) {
	e := NewEngine()
	src := checkerboard(64, 48)

	out, stats := e.Apply(src, nil, DefaultScale)

	require.Equal(t, src.Pix, out.Pix)
	require.Equal(t, Stats{}, stats)
}

func TestApplyBlackout(t *testing.T) {
	e := NewEngine()
	src := checkerboard(100, 100)

	out, stats := e.Apply(src, []pii.Detection{
		detection(pii.CategoryPersonName, 10, 10, 20, 15),
	}, 2)

	require.Equal(t, 1, stats.Filled)

	for y := 20; y < 30; y++ {
		for x := 20; x < 40; x++ {
			r, g, b, _ := out.At(x, y).RGBA()
			require.Zero(t, r+g+b, "pixel %d,%d", x, y)
		}
	}

	require.Equal(t, src.At(50, 50), out.At(50, 50))
	require.Equal(t, src.At(19, 19), out.At(19, 19))
}

func TestApplyTwiceIsStable(t *testing.T) {
	e := NewEngine()
	src := checkerboard(100, 100)

	detections := []pii.Detection{
		detection(pii.CategoryIDNumber, 5, 5, 30, 12),
	}

	once, _ := e.Apply(src, detections, 2)
	twice, _ := e.Apply(once, detections, 2)

	require.Equal(t, once.Pix, twice.Pix)
}

func TestApplyClampsToBitmap(t *testing.T) {
	e := NewEngine()
	src := checkerboard(40, 40)

	out, stats := e.Apply(src, []pii.Detection{
		detection(pii.CategoryAddress, 15, 15, 500, 500),
		detection(pii.CategoryAddress, 300, 300, 400, 400),
	}, 2)

	require.Equal(t, 1, stats.Filled)
	require.Equal(t, 1, stats.Skipped)

	r, g, b, _ := out.At(39, 39).RGBA()
	require.Zero(t, r+g+b)

	require.Equal(t, src.At(10, 10), out.At(10, 10))
}

func TestApplyBlursImages(t *testing.T) {
	e := NewEngine(WithSigma(4))
	src := checkerboard(100, 100)

	out, stats := e.Apply(src, []pii.Detection{
		detection(pii.CategoryPhoto, 10, 10, 40, 40),
	}, 1)

	require.Equal(t, 1, stats.Blurred)
	require.Zero(t, stats.Filled)

	require.NotEqual(t, src.At(20, 20), out.At(20, 20))

	// a blurred region is not a blackout
	r, g, b, _ := out.At(25, 25).RGBA()
	require.NotZero(t, r+g+b)

	require.Equal(t, src.At(60, 60), out.At(60, 60))
}

func TestApplyBlurFailureFallsBackToBlackout(t *testing.T) {
	failing := func(src image.Image, sigma float64) (image.Image, error) {
		return nil, errors.New("boom")
	}

	e := NewEngine(WithBlur(failing))
	src := checkerboard(50, 50)

	out, stats := e.Apply(src, []pii.Detection{
		detection(pii.CategorySignature, 5, 5, 20, 10),
	}, 1)

	require.Equal(t, 1, stats.Fallbacks)
	require.Equal(t, 1, stats.Filled)

	r, g, b, _ := out.At(10, 7).RGBA()
	require.Zero(t, r+g+b)
}

func TestApplyDegenerateBlurRegion(t *testing.T) {
	e := NewEngine()
	src := checkerboard(50, 50)

	_, stats := e.Apply(src, []pii.Detection{
		detection(pii.CategoryLogo, 5, 5, 5.5, 30),
	}, 1)

	require.Equal(t, 1, stats.Fallbacks)
	require.Equal(t, 1, stats.Filled)
}
