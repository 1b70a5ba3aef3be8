package pii

import (
	"math"
)

// Rect is an axis-aligned box in page space (points, top-left origin).
// Corners may arrive inverted; derived sizes always use absolute values.
type Rect struct {
	X0 float64 `json:"x0"`
	Y0 float64 `json:"y0"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

func (r Rect) Width() float64 {
	return math.Abs(r.X1 - r.X0)
}

func (r Rect) Height() float64 {
	return math.Abs(r.Y1 - r.Y0)
}

func (r Rect) Area() float64 {
	return r.Width() * r.Height()
}

func (r Rect) Empty() bool {
	return r.Width() == 0 || r.Height() == 0
}

// Normalize returns r with x0 <= x1 and y0 <= y1.
func (r Rect) Normalize() Rect {
	return Rect{
		X0: math.Min(r.X0, r.X1),
		Y0: math.Min(r.Y0, r.Y1),
		X1: math.Max(r.X0, r.X1),
		Y1: math.Max(r.Y0, r.Y1),
	}
}

// Union returns the bounding rectangle of r and o.
func (r Rect) Union(o Rect) Rect {
	r = r.Normalize()
	o = o.Normalize()

	return Rect{
		X0: math.Min(r.X0, o.X0),
		Y0: math.Min(r.Y0, o.Y0),
		X1: math.Max(r.X1, o.X1),
		Y1: math.Max(r.Y1, o.Y1),
	}
}

func (r Rect) Scale(f float64) Rect {
	return Rect{
		X0: r.X0 * f,
		Y0: r.Y0 * f,
		X1: r.X1 * f,
		Y1: r.Y1 * f,
	}
}

// Clamp limits r to the box (0, 0, width, height).
func (r Rect) Clamp(width, height float64) Rect {
	r = r.Normalize()

	return Rect{
		X0: math.Max(0, math.Min(r.X0, width)),
		Y0: math.Max(0, math.Min(r.Y0, height)),
		X1: math.Max(0, math.Min(r.X1, width)),
		Y1: math.Max(0, math.Min(r.Y1, height)),
	}
}
