package pdf

import (
	"math"

	"github.com/adrianliechti/redactor/pkg/pii"

	"github.com/ledongthuc/pdf"
)

// frame maps PDF user space (bottom-left origin, unrotated media box) to the
// page as displayed: /Rotate applied clockwise, top-left origin.
type frame struct {
	x0, y0 float64

	width  float64
	height float64

	rotate int
}

// pageFrame reads MediaBox and Rotate, both inheritable from the page tree.
func pageFrame(v pdf.Value) frame {
	f := frame{
		width:  612,
		height: 792,
	}

	box, ok := inherited(v, "MediaBox")

	if ok && box.Kind() == pdf.Array && box.Len() == 4 {
		x0 := box.Index(0).Float64()
		y0 := box.Index(1).Float64()
		x1 := box.Index(2).Float64()
		y1 := box.Index(3).Float64()

		f.x0 = math.Min(x0, x1)
		f.y0 = math.Min(y0, y1)

		f.width = math.Abs(x1 - x0)
		f.height = math.Abs(y1 - y0)
	}

	if rotate, ok := inherited(v, "Rotate"); ok {
		f.rotate = normalizeRotation(rotate.Int64())
	}

	return f
}

func inherited(v pdf.Value, key string) (pdf.Value, bool) {
	for node := v; !node.IsNull(); node = node.Key("Parent") {
		if val := node.Key(key); !val.IsNull() {
			return val, true
		}
	}

	return pdf.Value{}, false
}

// normalizeRotation returns 0, 90, 180 or 270.
func normalizeRotation(val int64) int {
	r := int(val % 360)

	if r < 0 {
		r += 360
	}

	return (r + 45) / 90 * 90 % 360
}

// size returns the displayed page size.
func (f frame) size() (float64, float64) {
	if f.rotate == 90 || f.rotate == 270 {
		return f.height, f.width
	}

	return f.width, f.height
}

func (f frame) point(x, y float64) (float64, float64) {
	u := x - f.x0
	v := y - f.y0

	switch f.rotate {
	case 90:
		return v, u

	case 180:
		return f.width - u, v

	case 270:
		return f.height - v, f.width - u
	}

	return u, f.height - v
}

// rect maps a user space rectangle to a normalized displayed rectangle.
func (f frame) rect(r pii.Rect) pii.Rect {
	ax, ay := f.point(r.X0, r.Y0)
	bx, by := f.point(r.X1, r.Y1)

	return pii.Rect{X0: ax, Y0: ay, X1: bx, Y1: by}.Normalize()
}
