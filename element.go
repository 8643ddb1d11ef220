package main

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// QuadPoint is one point of a quadrature rule on the reference tetrahedron.
// The rule weights sum to 1/6 (the reference volume) so that an integral over
// a physical element is sum_q W_q*f(x_q)*|detJ|.
type QuadPoint struct {
	R []float64
	W float64
}

// TetQuadrature returns a quadrature rule on the reference tetrahedron exact
// for polynomials of the requested degree.
func TetQuadrature(degree int) []QuadPoint {
	switch {
	case degree <= 1:
		return []QuadPoint{{R: []float64{0.25, 0.25, 0.25}, W: 1.0 / 6}}
	case degree == 2:
		const (
			a = 0.5854101966249685 // (5+3*sqrt(5))/20
			b = 0.1381966011250105 // (5-sqrt(5))/20
		)
		return []QuadPoint{
			{R: []float64{a, b, b}, W: 1.0 / 24},
			{R: []float64{b, a, b}, W: 1.0 / 24},
			{R: []float64{b, b, a}, W: 1.0 / 24},
			{R: []float64{b, b, b}, W: 1.0 / 24},
		}
	default:
		const (
			a = 0.5
			b = 1.0 / 6
		)
		return []QuadPoint{
			{R: []float64{0.25, 0.25, 0.25}, W: -2.0 / 15},
			{R: []float64{a, b, b}, W: 3.0 / 40},
			{R: []float64{b, a, b}, W: 3.0 / 40},
			{R: []float64{b, b, a}, W: 3.0 / 40},
			{R: []float64{b, b, b}, W: 3.0 / 40},
		}
	}
}

// Element is one tetrahedral finite element: its global node ids, node
// coordinates and shape functions.
type Element struct {
	// Conn holds the global node ids in local order.
	Conn []int
	// X holds the node coordinates, X[i] matching Conn[i].
	X      [][]float64
	shapes []ShapeFunc
	order  int
}

func (e *Element) Order() int { return e.order }

// NumDOF returns the number of displacement unknowns of the element.
func (e *Element) NumDOF() int { return 3 * len(e.Conn) }

// Coords interpolates the physical coordinates at the reference point refx.
func (e *Element) Coords(refx []float64) []float64 {
	x := make([]float64, 3)
	for i, fn := range e.shapes {
		v := fn.Value(refx)
		for d := 0; d < 3; d++ {
			x[d] += v * e.X[i][d]
		}
	}
	return x
}

// gradients computes the physical shape-function gradients at refx along
// with the Jacobian determinant of the reference-to-physical mapping.
func (e *Element) gradients(refx []float64) (grad [][]float64, detJ float64, err error) {
	n := len(e.shapes)
	dS := make([][]float64, n)
	for i, fn := range e.shapes {
		dS[i] = fn.Deriv(refx, nil)
	}

	// J[a][b] = dx_a/dr_b
	jac := mat.NewDense(3, 3, nil)
	for a := 0; a < 3; a++ {
		for b := 0; b < 3; b++ {
			tot := 0.0
			for i := 0; i < n; i++ {
				tot += e.X[i][a] * dS[i][b]
			}
			jac.Set(a, b, tot)
		}
	}
	detJ = mat.Det(jac)
	if detJ == 0 {
		return nil, 0, fmt.Errorf("degenerate element with nodes %v", e.Conn)
	}

	var inv mat.Dense
	if err := inv.Inverse(jac); err != nil {
		return nil, 0, fmt.Errorf("singular element mapping for nodes %v: %v", e.Conn, err)
	}

	// dN_i/dx_a = sum_b dN_i/dr_b * dr_b/dx_a
	grad = make([][]float64, n)
	for i := 0; i < n; i++ {
		grad[i] = make([]float64, 3)
		for a := 0; a < 3; a++ {
			tot := 0.0
			for b := 0; b < 3; b++ {
				tot += dS[i][b] * inv.At(b, a)
			}
			grad[i][a] = tot
		}
	}
	if detJ < 0 {
		detJ = -detJ
	}
	return grad, detJ, nil
}

// Volume integrates 1 over the element.
func (e *Element) Volume() (float64, error) {
	vol := 0.0
	for _, qp := range TetQuadrature(e.order) {
		_, detJ, err := e.gradients(qp.R)
		if err != nil {
			return 0, err
		}
		vol += qp.W * detJ
	}
	return vol, nil
}

// strainMatrix fills the 6 x ndof strain-displacement matrix B (Voigt order
// xx, yy, zz, xy, yz, xz with engineering shear) from the physical gradients.
func strainMatrix(grad [][]float64, b *mat.Dense) {
	for i, g := range grad {
		col := 3 * i
		b.Set(0, col+0, g[0])
		b.Set(1, col+1, g[1])
		b.Set(2, col+2, g[2])
		b.Set(3, col+0, g[1])
		b.Set(3, col+1, g[0])
		b.Set(4, col+1, g[2])
		b.Set(4, col+2, g[1])
		b.Set(5, col+0, g[2])
		b.Set(5, col+2, g[0])
	}
}

// Stiffness integrates the element stiffness matrix transpose(B)*D*B over
// the element for the given material.
func (e *Element) Stiffness(m *Isotropic) (*mat.Dense, error) {
	ndof := e.NumDOF()
	d := m.DMatrix()
	ke := mat.NewDense(ndof, ndof, nil)
	b := mat.NewDense(6, ndof, nil)
	var db, kq mat.Dense

	for _, qp := range TetQuadrature(e.order) {
		grad, detJ, err := e.gradients(qp.R)
		if err != nil {
			return nil, err
		}
		b.Zero()
		strainMatrix(grad, b)
		db.Mul(d, b)
		kq.Mul(b.T(), &db)
		kq.Scale(qp.W*detJ, &kq)
		ke.Add(ke, &kq)
	}

	// the product picks up round-off asymmetry; average it out so the
	// assembled system stays exactly symmetric for CG
	for i := 0; i < ndof; i++ {
		for j := i + 1; j < ndof; j++ {
			v := 0.5 * (ke.At(i, j) + ke.At(j, i))
			ke.Set(i, j, v)
			ke.Set(j, i, v)
		}
	}
	return ke, nil
}
