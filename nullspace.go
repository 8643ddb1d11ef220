package main

import (
	"fmt"

	"github.com/kutsjuice/Fibrous-porous-media-homogenization/sparse"
)

const orthoTol = 1e-10

// BuildNullSpace constructs the six orthonormal rigid-body modes of the mesh
// (three translations and three rotations) over the displacement unknowns,
// ordered as dof = 3*node + component.  Algebraic multigrid uses these as
// near-null-space candidates.
func BuildNullSpace(m *Mesh) ([][]float64, error) {
	n := m.NumDOF()
	vecs := make([][]float64, 6)
	for i := range vecs {
		vecs[i] = make([]float64, n)
	}

	for node, x := range m.Verts {
		// translations
		vecs[0][3*node+0] = 1
		vecs[1][3*node+1] = 1
		vecs[2][3*node+2] = 1
		// rotation about z: (-y, x, 0)
		vecs[3][3*node+0] = -x[1]
		vecs[3][3*node+1] = x[0]
		// rotation about y: (z, 0, -x)
		vecs[4][3*node+0] = x[2]
		vecs[4][3*node+2] = -x[0]
		// rotation about x: (0, -z, y)
		vecs[5][3*node+1] = -x[2]
		vecs[5][3*node+2] = x[1]
	}

	if err := sparse.Orthonormalize(vecs); err != nil {
		return nil, fmt.Errorf("rigid-body modes are degenerate: %v", err)
	}
	if !sparse.IsOrthonormal(vecs, orthoTol) {
		return nil, fmt.Errorf("rigid-body modes failed orthonormality check (tol %v)", orthoTol)
	}
	return vecs, nil
}
