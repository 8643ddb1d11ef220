package main

import "fmt"

// KUBC evaluates kinematic uniform boundary displacements for a macroscopic
// shear load in the (I, J) coordinate plane.  The prescribed displacement at
// a point x is
//
//	u_I = 0.5 * UD * x_J / extent_J
//	u_J = 0.5 * UD * x_I / extent_I
//
// with the remaining component zero.
type KUBC struct {
	Box *Box
	// I and J are the two coordinate axes of the shear plane (0..2, I != J).
	I, J int
	// UD is the displacement magnitude scale.
	UD float64
}

// NewKUBC builds a shear boundary condition for the given box, with UD set
// to the mean box extent.
func NewKUBC(box *Box, dirI, dirJ int) (*KUBC, error) {
	if dirI < 0 || dirI > 2 || dirJ < 0 || dirJ > 2 {
		return nil, fmt.Errorf("shear directions must be in 0..2, got (%v, %v)", dirI, dirJ)
	}
	if dirI == dirJ {
		return nil, fmt.Errorf("shear directions must differ, got (%v, %v)", dirI, dirJ)
	}
	return &KUBC{Box: box, I: dirI, J: dirJ, UD: box.MeanExtent()}, nil
}

// Value returns the prescribed displacement vector at point x.
func (bc *KUBC) Value(x []float64) []float64 {
	u := make([]float64, 3)
	u[bc.I] += 0.5 * bc.UD * x[bc.J] / bc.Box.Extent(bc.J)
	u[bc.J] += 0.5 * bc.UD * x[bc.I] / bc.Box.Extent(bc.I)
	return u
}

// DirichletDOFs collects the constrained degrees of freedom for every node on
// the facets of the given face labels.  All three displacement components of
// a boundary node are prescribed.  Nodes shared by several tagged faces get
// the same value regardless of visit order since the field is a function of
// position only.
func (bc *KUBC) DirichletDOFs(m *Mesh, tags *FacetTags, labels []FaceLabel) map[int]float64 {
	vals := map[int]float64{}
	for _, label := range labels {
		for _, f := range tags.Find(label) {
			for _, n := range f.Nodes {
				u := bc.Value(m.Verts[n])
				for c := 0; c < 3; c++ {
					vals[3*n+c] = u[c]
				}
			}
		}
	}
	return vals
}
