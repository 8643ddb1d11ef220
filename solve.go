package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/kutsjuice/Fibrous-porous-media-homogenization/sparse"
)

// Problem holds everything needed to compute the elastic response of a mesh
// under prescribed boundary displacements.
type Problem struct {
	Mesh     *Mesh
	Material *Isotropic
	// Dirichlet maps constrained degrees of freedom to prescribed values.
	Dirichlet map[int]float64
	Solver    sparse.Solver
}

// Result is the computed displacement field.
type Result struct {
	// U holds the nodal displacements, dof = 3*node + component.
	U []float64
	// Status is the solver's convergence report.
	Status string
}

// Assemble builds the global stiffness matrix and the (zero) load vector by
// summing element contributions.  Boundary conditions are not applied here.
func (p *Problem) Assemble() (*sparse.Sparse, []float64, error) {
	n := p.Mesh.NumDOF()
	A := sparse.NewSparse(n)
	b := make([]float64, n)

	for e := 0; e < p.Mesh.NumElems(); e++ {
		elem := p.Mesh.Element(e)
		ke, err := elem.Stiffness(p.Material)
		if err != nil {
			return nil, nil, fmt.Errorf("element %v: %v", e, err)
		}
		for i, na := range elem.Conn {
			for j, nb := range elem.Conn {
				for ca := 0; ca < 3; ca++ {
					for cb := 0; cb < 3; cb++ {
						v := ke.At(3*i+ca, 3*j+cb)
						if v != 0 {
							A.Add(3*na+ca, 3*nb+cb, v)
						}
					}
				}
			}
		}
	}
	return A, b, nil
}

// ApplyDirichlet eliminates the constrained unknowns symmetrically: the load
// vector is lifted by the prescribed values, then the constrained rows and
// columns are zeroed and the diagonal set to one.  This keeps the system
// symmetric positive definite.
func ApplyDirichlet(A *sparse.Sparse, b []float64, vals map[int]float64) {
	for i, v := range vals {
		for _, nz := range A.SweepCol(i) {
			if _, fixed := vals[nz.I]; !fixed {
				b[nz.I] -= nz.Val * v
			}
		}
	}
	for i, v := range vals {
		for _, nz := range A.SweepRow(i) {
			A.Set(i, nz.J, 0)
		}
		for _, nz := range A.SweepCol(i) {
			A.Set(nz.I, i, 0)
		}
		A.Set(i, i, 1)
		b[i] = v
	}
}

// Solve assembles the constrained system and runs the solver.
func (p *Problem) Solve() (*Result, error) {
	A, b, err := p.Assemble()
	if err != nil {
		return nil, err
	}
	ApplyDirichlet(A, b, p.Dirichlet)

	u, err := p.Solver.Solve(A, b)
	if err != nil {
		return nil, err
	}
	return &Result{U: u, Status: p.Solver.Status()}, nil
}

// WriteDisplacements writes the nodal solution as tab-separated columns
// (x, y, z, ux, uy, uz), one node per line.
func (r *Result) WriteDisplacements(m *Mesh, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	for n, x := range m.Verts {
		fmt.Fprintf(w, "%v\t%v\t%v\t%v\t%v\t%v\n", x[0], x[1], x[2], r.U[3*n], r.U[3*n+1], r.U[3*n+2])
	}
	return w.Flush()
}
