package validator

import (
	"testing"

	"github.com/adrianliechti/redactor/pkg/pii"

	"github.com/stretchr/testify/require"
)

func tokens(n int, width, height float64) []pii.WordToken {
	var result []pii.WordToken

	for i := range n {
		y := float64(i) * (height + 2)

		result = append(result, pii.WordToken{
			Box:  pii.Rect{X0: 0, Y0: y, X1: width, Y1: y + height},
			Text: "word",
		})
	}

	return result
}

func TestStats(t *testing.T) {
	s := Stats([]pii.WordToken{
		{Box: pii.Rect{X0: 0, Y0: 0, X1: 10, Y1: 10}},
		{Box: pii.Rect{X0: 30, Y0: 20, X1: 0, Y1: 0}},
	})

	require.Equal(t, 2, s.Count)
	require.InDelta(t, 20.0, s.AvgWidth, 1e-9)
	require.InDelta(t, 15.0, s.AvgHeight, 1e-9)
	require.InDelta(t, 350.0, s.AvgArea, 1e-9)
	require.InDelta(t, 30.0, s.MaxWidth, 1e-9)
	require.InDelta(t, 20.0, s.MaxHeight, 1e-9)
	require.InDelta(t, 2.0/601.0, s.ContentDensity, 1e-12)
	require.InDelta(t, 20.0/31.0, s.TextVariation, 1e-12)
}

func TestScale(t *testing.T) {
	v := New(DefaultOptions())

	tests := []struct {
		name  string
		stats pii.LayoutStats
		scale float64
	}{
		{"neutral", pii.LayoutStats{Count: 1, AvgWidth: 50, ContentDensity: 0.07}, 1.0},
		{"wide sparse", pii.LayoutStats{Count: 1, AvgWidth: 150, ContentDensity: 0.01}, 1.3 * 1.2},
		{"narrow dense", pii.LayoutStats{Count: 1, AvgWidth: 10, ContentDensity: 0.5}, 0.7 * 0.8},
		{"empty", pii.LayoutStats{}, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.InDelta(t, tt.scale, v.Scale(tt.stats), 1e-9)
		})
	}
}

func TestScaleConfigurable(t *testing.T) {
	o := DefaultOptions()
	o.WideWidth = 40

	v := New(o)

	require.InDelta(t, 1.3, v.Scale(pii.LayoutStats{Count: 1, AvgWidth: 50, ContentDensity: 0.07}), 1e-9)
}

func TestScaleLimitsMonotonic(t *testing.T) {
	for _, base := range BaseLimits {
		prev := ScaleLimits(base, 0.1)

		for scale := 0.2; scale <= 3.0; scale += 0.1 {
			next := ScaleLimits(base, scale)

			require.GreaterOrEqual(t, next.MaxWidth, prev.MaxWidth)
			require.GreaterOrEqual(t, next.MaxHeight, prev.MaxHeight)
			require.GreaterOrEqual(t, next.MaxArea, prev.MaxArea)

			require.GreaterOrEqual(t, next.MinArea, 1.0)
			require.GreaterOrEqual(t, next.MinWidth, 1.0)
			require.GreaterOrEqual(t, next.MinHeight, 1.0)

			prev = next
		}
	}
}

func TestScaleLimits(t *testing.T) {
	l := ScaleLimits(BaseLimits[pii.ContentTypeText], 2)

	require.InDelta(t, 400.0, l.MaxWidth, 1e-9)
	require.InDelta(t, 100.0, l.MaxHeight, 1e-9)
	require.InDelta(t, 32000.0, l.MaxArea, 1e-9)
	require.InDelta(t, 2.0, l.MinWidth, 1e-9)
	require.InDelta(t, 2.0, l.MinHeight, 1e-9)
	require.InDelta(t, 16.0, l.MinArea, 1e-9)
}

func TestComputeLimitsPerContentType(t *testing.T) {
	v := New(DefaultOptions())

	// twenty 50x10 tokens give density 20/501, which counts as sparse
	page := tokens(20, 50, 10)

	text := v.ComputeLimits(page, pii.CategoryAddress)
	image := v.ComputeLimits(page, pii.CategoryPhoto)

	require.InDelta(t, 200*1.2, text.MaxWidth, 1e-9)
	require.InDelta(t, 400*1.2, image.MaxWidth, 1e-9)

	require.Equal(t, BaseLimits[pii.ContentTypeText], v.ComputeLimits(nil, pii.CategoryPersonName))
}

func TestValidate(t *testing.T) {
	v := New(DefaultOptions())
	limits := BaseLimits[pii.ContentTypeText]

	tests := []struct {
		name  string
		rect  pii.Rect
		valid bool
	}{
		{"word", pii.Rect{X0: 10, Y0: 10, X1: 60, Y1: 20}, true},
		{"inverted", pii.Rect{X0: 60, Y0: 20, X1: 10, Y1: 10}, true},
		{"too wide", pii.Rect{X0: 0, Y0: 0, X1: 250, Y1: 10}, false},
		{"too tall", pii.Rect{X0: 0, Y0: 0, X1: 10, Y1: 60}, false},
		{"too large", pii.Rect{X0: 0, Y0: 0, X1: 190, Y1: 45}, false},
		{"too thin", pii.Rect{X0: 0, Y0: 0, X1: 1, Y1: 10}, false},
		{"empty", pii.Rect{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.valid, v.Validate(tt.rect, pii.CategoryPersonName, limits))
		})
	}
}
