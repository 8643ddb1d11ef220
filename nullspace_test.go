package main

import (
	"math"
	"testing"

	"github.com/kutsjuice/Fibrous-porous-media-homogenization/sparse"
)

func TestBuildNullSpace(t *testing.T) {
	m := centeredBoxMesh(t, 2, 1)
	vecs, err := BuildNullSpace(m)
	if err != nil {
		t.Fatalf("BuildNullSpace: %v", err)
	}
	if len(vecs) != 6 {
		t.Fatalf("got %v vectors, want 6", len(vecs))
	}
	for k, v := range vecs {
		if len(v) != m.NumDOF() {
			t.Fatalf("vector %v has length %v, want %v", k, len(v), m.NumDOF())
		}
	}
	if !sparse.IsOrthonormal(vecs, 1e-10) {
		t.Errorf("rigid-body modes are not orthonormal to 1e-10")
	}
}

func TestBuildNullSpaceOffCenter(t *testing.T) {
	// off-center domains couple rotations and translations strongly; the
	// basis must still come out orthonormal
	m, err := NewBoxMesh([]float64{100, 200, 300}, []float64{101, 201, 301}, 2, 2, 2, 1)
	if err != nil {
		t.Fatal(err)
	}
	vecs, err := BuildNullSpace(m)
	if err != nil {
		t.Fatalf("BuildNullSpace: %v", err)
	}
	if !sparse.IsOrthonormal(vecs, 1e-10) {
		t.Errorf("rigid-body modes are not orthonormal to 1e-10")
	}
}

func TestNullSpaceAnnihilatedByStiffness(t *testing.T) {
	// without boundary conditions the stiffness matrix has exactly the
	// rigid-body modes in its null space
	m := centeredBoxMesh(t, 2, 1)
	prob := &Problem{Mesh: m, Material: &Isotropic{E: 2.1e10, Nu: 0.3}}
	K, _, err := prob.Assemble()
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}

	vecs, err := BuildNullSpace(m)
	if err != nil {
		t.Fatal(err)
	}

	// scale by a representative diagonal entry to make the check relative
	scale := K.At(0, 0)
	for k, v := range vecs {
		kv := sparse.Mul(K, v)
		for i, f := range kv {
			if math.Abs(f)/scale > 1e-10 {
				t.Errorf("mode %v: residual force %v at dof %v", k, f, i)
				break
			}
		}
	}
}

func TestNullSpaceSecondOrder(t *testing.T) {
	m := centeredBoxMesh(t, 1, 2)
	vecs, err := BuildNullSpace(m)
	if err != nil {
		t.Fatalf("BuildNullSpace: %v", err)
	}
	if !sparse.IsOrthonormal(vecs, 1e-10) {
		t.Errorf("rigid-body modes are not orthonormal to 1e-10")
	}
	if len(vecs[0]) != 3*27 {
		t.Errorf("vector length %v, want %v", len(vecs[0]), 3*27)
	}
}
