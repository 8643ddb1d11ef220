package main

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Isotropic is a linear-elastic isotropic material parameterized by Young's
// modulus E (Pa) and Poisson ratio Nu.
type Isotropic struct {
	E  float64
	Nu float64
}

// Validate checks the material parameters for physical admissibility.
func (m *Isotropic) Validate() error {
	if m.E <= 0 {
		return fmt.Errorf("young's modulus must be positive, got %v", m.E)
	}
	if m.Nu <= -1 || m.Nu >= 0.5 {
		return fmt.Errorf("poisson ratio must be in (-1, 0.5), got %v", m.Nu)
	}
	return nil
}

// Lame returns the Lame parameters (lambda, mu) for the material.
func (m *Isotropic) Lame() (lambda, mu float64) {
	lambda = m.Nu * m.E / (1 + m.Nu) / (1 - 2*m.Nu)
	mu = m.E / 2 / (1 + m.Nu)
	return lambda, mu
}

// DMatrix returns the 6x6 constitutive matrix relating strain to stress in
// Voigt notation (xx, yy, zz, xy, yz, xz) with engineering shear strains.
func (m *Isotropic) DMatrix() *mat.Dense {
	lambda, mu := m.Lame()
	d := mat.NewDense(6, 6, nil)
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			d.Set(i, j, lambda)
		}
		d.Set(i, i, lambda+2*mu)
		d.Set(i+3, i+3, mu)
	}
	return d
}
