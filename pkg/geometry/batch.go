package geometry

import (
	"gonum.org/v1/gonum/mat"
)

// Dense returns the transform as a 2x3 gonum matrix.
func (t AffineTransform) Dense() *mat.Dense {
	return mat.NewDense(2, 3, []float64{
		t.A, t.B, t.TX,
		t.C, t.D, t.TY,
	})
}

// ApplyAll transforms every point with a single matrix product.
func (t AffineTransform) ApplyAll(points []Point2D) []Point2D {
	n := len(points)
	if n == 0 {
		return nil
	}

	// Homogeneous coordinates, one point per column
	h := mat.NewDense(3, n, nil)
	for i, p := range points {
		h.Set(0, i, p.X)
		h.Set(1, i, p.Y)
		h.Set(2, i, 1)
	}

	var out mat.Dense
	out.Mul(t.Dense(), h)

	result := make([]Point2D, n)
	for i := range result {
		result[i] = Point2D{X: out.At(0, i), Y: out.At(1, i)}
	}
	return result
}

// ApplyRects transforms a batch of axis-aligned rectangles. Only scale and
// translation keep the result axis-aligned; that is all the viewport uses.
func (t AffineTransform) ApplyRects(rects []Rect) []Rect {
	if len(rects) == 0 {
		return nil
	}

	corners := make([]Point2D, 0, len(rects)*2)
	for _, r := range rects {
		corners = append(corners, r.TopLeft(), r.BottomRight())
	}
	moved := t.ApplyAll(corners)

	result := make([]Rect, len(rects))
	for i := range rects {
		tl, br := moved[2*i], moved[2*i+1]
		result[i] = Rect{X: tl.X, Y: tl.Y, Width: br.X - tl.X, Height: br.Y - tl.Y}
	}
	return result
}
