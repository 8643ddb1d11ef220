package main

// ShapeFunc is a single nodal shape function on the reference tetrahedron
// with natural coordinates refx = (r, s, t), r,s,t >= 0, r+s+t <= 1.
type ShapeFunc interface {
	Value(refx []float64) float64
	// Deriv calculates and returns the partial derivatives at the given
	// reference coordinates for each dimension.  If deriv is not nil, the
	// results are stored in it and deriv is returned - otherwise a new slice
	// is allocated and returned.
	Deriv(refx, deriv []float64) []float64
}

// Tet4Shape is the linear shape function attached to vertex Index of a
// 4-node tetrahedron.
type Tet4Shape struct {
	Index int
}

func (fn Tet4Shape) Value(refx []float64) float64 {
	r, s, t := refx[0], refx[1], refx[2]
	switch fn.Index {
	case 0:
		return 1 - r - s - t
	case 1:
		return r
	case 2:
		return s
	case 3:
		return t
	}
	panic("tet4 node index out of range")
}

func (fn Tet4Shape) Deriv(refx, deriv []float64) []float64 {
	if deriv == nil {
		deriv = make([]float64, 3)
	}
	switch fn.Index {
	case 0:
		deriv[0], deriv[1], deriv[2] = -1, -1, -1
	case 1:
		deriv[0], deriv[1], deriv[2] = 1, 0, 0
	case 2:
		deriv[0], deriv[1], deriv[2] = 0, 1, 0
	case 3:
		deriv[0], deriv[1], deriv[2] = 0, 0, 1
	default:
		panic("tet4 node index out of range")
	}
	return deriv
}

// Tet10Shape is the quadratic shape function attached to node Index of a
// 10-node tetrahedron.  Nodes 0-3 are the vertices; nodes 4-9 sit on the
// middle of edges (0,1), (1,2), (0,2), (0,3), (2,3) and (1,3) - the gmsh
// numbering convention.
type Tet10Shape struct {
	Index int
}

func (fn Tet10Shape) Value(refx []float64) float64 {
	r, s, t := refx[0], refx[1], refx[2]
	u := 1 - r - s - t
	switch fn.Index {
	case 0:
		return u * (2*u - 1)
	case 1:
		return r * (2*r - 1)
	case 2:
		return s * (2*s - 1)
	case 3:
		return t * (2*t - 1)
	case 4:
		return 4 * u * r
	case 5:
		return 4 * r * s
	case 6:
		return 4 * u * s
	case 7:
		return 4 * u * t
	case 8:
		return 4 * s * t
	case 9:
		return 4 * r * t
	}
	panic("tet10 node index out of range")
}

func (fn Tet10Shape) Deriv(refx, deriv []float64) []float64 {
	if deriv == nil {
		deriv = make([]float64, 3)
	}
	r, s, t := refx[0], refx[1], refx[2]
	u := 1 - r - s - t
	switch fn.Index {
	case 0:
		deriv[0], deriv[1], deriv[2] = 1-4*u, 1-4*u, 1-4*u
	case 1:
		deriv[0], deriv[1], deriv[2] = 4*r-1, 0, 0
	case 2:
		deriv[0], deriv[1], deriv[2] = 0, 4*s-1, 0
	case 3:
		deriv[0], deriv[1], deriv[2] = 0, 0, 4*t-1
	case 4:
		deriv[0], deriv[1], deriv[2] = 4*(u-r), -4*r, -4*r
	case 5:
		deriv[0], deriv[1], deriv[2] = 4*s, 4*r, 0
	case 6:
		deriv[0], deriv[1], deriv[2] = -4*s, 4*(u-s), -4*s
	case 7:
		deriv[0], deriv[1], deriv[2] = -4*t, -4*t, 4*(u-t)
	case 8:
		deriv[0], deriv[1], deriv[2] = 0, 4*t, 4*s
	case 9:
		deriv[0], deriv[1], deriv[2] = 4*t, 0, 4*r
	default:
		panic("tet10 node index out of range")
	}
	return deriv
}

// tetShapes returns the shape functions of a tetrahedron of the given
// polynomial order.
func tetShapes(order int) []ShapeFunc {
	switch order {
	case 1:
		fns := make([]ShapeFunc, 4)
		for i := range fns {
			fns[i] = Tet4Shape{Index: i}
		}
		return fns
	case 2:
		fns := make([]ShapeFunc, 10)
		for i := range fns {
			fns[i] = Tet10Shape{Index: i}
		}
		return fns
	}
	panic("unsupported tetrahedron order")
}
