package pdf

import (
	"math"

	"github.com/adrianliechti/redactor/pkg/pii"

	"github.com/ledongthuc/pdf"
)

const maxFormDepth = 4

// matrix is a PDF affine transform [a b c d e f].
type matrix [6]float64

var identity = matrix{1, 0, 0, 1, 0, 0}

// multiply returns m × n in PDF row-vector order.
func (m matrix) multiply(n matrix) matrix {
	return matrix{
		m[0]*n[0] + m[1]*n[2],
		m[0]*n[1] + m[1]*n[3],
		m[2]*n[0] + m[3]*n[2],
		m[2]*n[1] + m[3]*n[3],
		m[4]*n[0] + m[5]*n[2] + n[4],
		m[4]*n[1] + m[5]*n[3] + n[5],
	}
}

func (m matrix) apply(x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}

// unitRect maps the image unit square through m.
func (m matrix) unitRect() pii.Rect {
	xs := make([]float64, 0, 4)
	ys := make([]float64, 0, 4)

	for _, p := range [][2]float64{{0, 0}, {1, 0}, {0, 1}, {1, 1}} {
		x, y := m.apply(p[0], p[1])

		xs = append(xs, x)
		ys = append(ys, y)
	}

	return pii.Rect{
		X0: min(xs[0], xs[1], xs[2], xs[3]),
		Y0: min(ys[0], ys[1], ys[2], ys[3]),
		X1: max(xs[0], xs[1], xs[2], xs[3]),
		Y1: max(ys[0], ys[1], ys[2], ys[3]),
	}
}

func toMatrix(v pdf.Value) (matrix, bool) {
	if v.Kind() != pdf.Array || v.Len() != 6 {
		return identity, false
	}

	var m matrix

	for i := range 6 {
		m[i] = v.Index(i).Float64()
	}

	return m, true
}

type tracer struct {
	frame  frame
	result []pii.Placement
}

// placements traces the page content streams and returns where image
// XObjects are painted, in top-left page coordinates.
func placements(p pdf.Page, f frame) []pii.Placement {
	t := &tracer{
		frame: f,
	}

	t.trace(p.V.Key("Contents"), p.Resources(), identity, 0)

	return t.result
}

func (t *tracer) trace(contents pdf.Value, resources pdf.Value, base matrix, depth int) {
	if depth > maxFormDepth || contents.IsNull() {
		return
	}

	ctm := base
	var stack []matrix

	do := func(stk *pdf.Stack, op string) {
		n := stk.Len()
		args := make([]pdf.Value, n)

		for i := n - 1; i >= 0; i-- {
			args[i] = stk.Pop()
		}

		switch op {
		case "q":
			stack = append(stack, ctm)

		case "Q":
			if len(stack) > 0 {
				ctm = stack[len(stack)-1]
				stack = stack[:len(stack)-1]
			}

		case "cm":
			if len(args) != 6 {
				return
			}

			var m matrix

			for i := range 6 {
				m[i] = args[i].Float64()
			}

			ctm = m.multiply(ctm)

		case "Do":
			if len(args) != 1 {
				return
			}

			name := args[0].Name()
			xobj := resources.Key("XObject").Key(name)

			switch xobj.Key("Subtype").Name() {
			case "Image":
				t.add(name, ctm.unitRect())

			case "Form":
				form := ctm

				if m, ok := toMatrix(xobj.Key("Matrix")); ok {
					form = m.multiply(ctm)
				}

				res := xobj.Key("Resources")

				if res.IsNull() {
					res = resources
				}

				t.trace(xobj, res, form, depth+1)
			}
		}
	}

	if contents.Kind() == pdf.Array {
		for i := 0; i < contents.Len(); i++ {
			pdf.Interpret(contents.Index(i), do)
		}

		return
	}

	pdf.Interpret(contents, do)
}

func (t *tracer) add(name string, r pii.Rect) {
	if r.Empty() || math.IsNaN(r.X0) || math.IsNaN(r.Y0) {
		return
	}

	t.result = append(t.result, pii.Placement{
		Name: name,

		Box: t.frame.rect(r),
	})
}
