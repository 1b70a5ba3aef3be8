package redactor

import (
	"errors"
	"image"
	"image/color"
	"log/slog"
	"math"

	"github.com/adrianliechti/redactor/pkg/pii"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"
)

const (
	DefaultScale = 2.0
	DefaultSigma = 10.0
)

var ErrDegenerateRegion = errors.New("degenerate region")

// BlurFunc returns a blurred copy of src.
type BlurFunc func(src image.Image, sigma float64) (image.Image, error)

type Engine struct {
	sigma float64
	blur  BlurFunc

	fill color.Color
}

type EngineOption func(*Engine)

func WithSigma(sigma float64) EngineOption {
	return func(e *Engine) {
		e.sigma = sigma
	}
}

func WithBlur(blur BlurFunc) EngineOption {
	return func(e *Engine) {
		e.blur = blur
	}
}

func NewEngine(options ...EngineOption) *Engine {
	e := &Engine{
		sigma: DefaultSigma,
		blur:  gaussian,

		fill: color.Black,
	}

	for _, option := range options {
		option(e)
	}

	return e
}

// Stats counts the outcome of one Apply call.
type Stats struct {
	Blurred   int
	Filled    int
	Fallbacks int
	Skipped   int
}

// Apply redacts detections on a copy of img. Boxes are in page points and
// are multiplied by scale to reach pixel space.
func (e *Engine) Apply(img image.Image, detections []pii.Detection, scale float64) (*image.RGBA, Stats) {
	var stats Stats

	bounds := img.Bounds()

	dst := image.NewRGBA(bounds)
	draw.Draw(dst, bounds, img, bounds.Min, draw.Src)

	for _, d := range detections {
		r := pixelRect(d.Box, scale, bounds)

		if r.Empty() {
			stats.Skipped++
			continue
		}

		if d.Category.Blurred() {
			err := e.blurRegion(dst, r)

			if err == nil {
				stats.Blurred++
				continue
			}

			slog.Warn("blur failed, falling back to blackout", "category", d.Category, "page", d.Page, "error", err)
			stats.Fallbacks++
		}

		draw.Draw(dst, r, image.NewUniform(e.fill), image.Point{}, draw.Src)
		stats.Filled++
	}

	return dst, stats
}

func (e *Engine) blurRegion(dst *image.RGBA, r image.Rectangle) error {
	region := imaging.Crop(dst, r)

	blurred, err := e.blur(region, e.sigma)

	if err != nil {
		return err
	}

	if blurred == nil || blurred.Bounds().Dx() != r.Dx() || blurred.Bounds().Dy() != r.Dy() {
		return ErrDegenerateRegion
	}

	draw.Draw(dst, r, blurred, blurred.Bounds().Min, draw.Src)

	return nil
}

func gaussian(src image.Image, sigma float64) (image.Image, error) {
	b := src.Bounds()

	if b.Dx() < 2 || b.Dy() < 2 {
		return nil, ErrDegenerateRegion
	}

	return imaging.Blur(src, sigma), nil
}

// pixelRect scales a page-space box and clamps it to bounds.
func pixelRect(box pii.Rect, scale float64, bounds image.Rectangle) image.Rectangle {
	s := box.Normalize().Scale(scale)

	r := image.Rect(
		int(math.Floor(s.X0)),
		int(math.Floor(s.Y0)),
		int(math.Ceil(s.X1)),
		int(math.Ceil(s.Y1)),
	)

	return r.Add(bounds.Min).Intersect(bounds)
}
