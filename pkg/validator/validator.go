package validator

import (
	"log/slog"
	"math"

	"github.com/adrianliechti/redactor/pkg/pii"
)

// Options holds the breakpoints that drive the per-page scale factor.
type Options struct {
	WideWidth    float64 `yaml:"wide_width"`
	WideFactor   float64 `yaml:"wide_factor"`
	NarrowWidth  float64 `yaml:"narrow_width"`
	NarrowFactor float64 `yaml:"narrow_factor"`

	DenseDensity  float64 `yaml:"dense_density"`
	DenseFactor   float64 `yaml:"dense_factor"`
	SparseDensity float64 `yaml:"sparse_density"`
	SparseFactor  float64 `yaml:"sparse_factor"`
}

func DefaultOptions() Options {
	return Options{
		WideWidth:    100,
		WideFactor:   1.3,
		NarrowWidth:  20,
		NarrowFactor: 0.7,

		DenseDensity:  0.1,
		DenseFactor:   0.8,
		SparseDensity: 0.05,
		SparseFactor:  1.2,
	}
}

var BaseLimits = map[pii.ContentType]pii.Limits{
	pii.ContentTypeText: {
		MinWidth:  2,
		MaxWidth:  200,
		MinHeight: 2,
		MaxHeight: 50,
		MinArea:   4,
		MaxArea:   8000,
	},

	pii.ContentTypeImage: {
		MinWidth:  10,
		MaxWidth:  400,
		MinHeight: 10,
		MaxHeight: 300,
		MinArea:   100,
		MaxArea:   100000,
	},
}

type Validator struct {
	options Options
}

func New(options Options) *Validator {
	return &Validator{
		options: options,
	}
}

// Stats computes layout statistics over all tokens of a page.
func Stats(tokens []pii.WordToken) pii.LayoutStats {
	var s pii.LayoutStats

	if len(tokens) == 0 {
		return s
	}

	s.Count = len(tokens)
	s.MinWidth = math.Inf(1)

	var sumWidth, sumHeight, sumArea float64

	for _, t := range tokens {
		w := t.Box.Width()
		h := t.Box.Height()
		a := w * h

		sumWidth += w
		sumHeight += h
		sumArea += a

		s.MinWidth = math.Min(s.MinWidth, w)
		s.MaxWidth = math.Max(s.MaxWidth, w)
		s.MaxHeight = math.Max(s.MaxHeight, h)
		s.MaxArea = math.Max(s.MaxArea, a)
	}

	n := float64(len(tokens))

	s.AvgWidth = sumWidth / n
	s.AvgHeight = sumHeight / n
	s.AvgArea = sumArea / n

	s.ContentDensity = n / (s.MaxArea + 1)
	s.TextVariation = (s.MaxWidth - s.MinWidth) / (s.MaxWidth + 1)

	return s
}

// Scale derives the multiplicative scale factor for a page.
func (v *Validator) Scale(s pii.LayoutStats) float64 {
	if s.Count == 0 {
		return 1.0
	}

	o := v.options
	scale := 1.0

	if s.AvgWidth > o.WideWidth {
		scale *= o.WideFactor
	} else if s.AvgWidth < o.NarrowWidth {
		scale *= o.NarrowFactor
	}

	if s.ContentDensity > o.DenseDensity {
		scale *= o.DenseFactor
	} else if s.ContentDensity < o.SparseDensity {
		scale *= o.SparseFactor
	}

	return scale
}

// ScaleLimits applies a scale factor to base limits. Maximum sizes scale
// linearly and maximum area quadratically; minimum sizes use half the factor,
// minimum area the squared factor, all floored at 1.
func ScaleLimits(base pii.Limits, scale float64) pii.Limits {
	return pii.Limits{
		MaxWidth:  base.MaxWidth * scale,
		MaxHeight: base.MaxHeight * scale,
		MaxArea:   base.MaxArea * scale * scale,

		MinWidth:  math.Max(1, base.MinWidth*scale*0.5),
		MinHeight: math.Max(1, base.MinHeight*scale*0.5),
		MinArea:   math.Max(1, base.MinArea*scale*scale),
	}
}

// ComputeLimits returns the size bounds for a category on the page described by tokens.
func (v *Validator) ComputeLimits(tokens []pii.WordToken, category pii.Category) pii.Limits {
	base := BaseLimits[category.ContentType()]

	stats := Stats(tokens)

	if stats.Count == 0 {
		return base
	}

	scale := v.Scale(stats)

	slog.Debug("adapted limits", "category", category, "scale", scale, "density", stats.ContentDensity, "avg_width", stats.AvgWidth)

	return ScaleLimits(base, scale)
}

// Validate reports whether rect fits within limits.
func (v *Validator) Validate(rect pii.Rect, category pii.Category, limits pii.Limits) bool {
	w := rect.Width()
	h := rect.Height()
	a := w * h

	if w < limits.MinWidth || w > limits.MaxWidth {
		return false
	}

	if h < limits.MinHeight || h > limits.MaxHeight {
		return false
	}

	if a < limits.MinArea || a > limits.MaxArea {
		return false
	}

	return true
}
