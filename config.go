package main

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// Config collects all run parameters, loaded from an ini file with defaults
// for anything left unset.
type Config struct {
	// mesh
	MeshFile string
	Nx       int
	Ny       int
	Nz       int
	Order    int
	// FaceTol overrides the boundary face matching tolerance when > 0.
	FaceTol float64

	// material
	YoungsModulus float64
	PoissonRatio  float64

	// kubc
	DirI int
	DirJ int

	// solver
	KSPType     string
	Rtol        float64
	MaxIter     int
	PCType      string
	Smoother    string
	SmoothSteps int
	EstEigSteps int

	Output string
}

// DefaultConfig returns the built-in run parameters: a unit box mesh, a stiff
// isotropic material, xy-yz shear, CG with smoothed aggregation multigrid.
func DefaultConfig() *Config {
	return &Config{
		Nx:            8,
		Ny:            8,
		Nz:            8,
		Order:         1,
		YoungsModulus: 2.1e10,
		PoissonRatio:  0.3,
		DirI:          1,
		DirJ:          2,
		KSPType:       "cg",
		Rtol:          1e-5,
		MaxIter:       10000,
		PCType:        "gamg",
		Smoother:      "chebyshev",
		SmoothSteps:   2,
		EstEigSteps:   20,
		Output:        "displacements.tsv",
	}
}

// LoadConfig reads run parameters from an ini file, falling back to defaults
// for missing keys.
func LoadConfig(path string) (*Config, error) {
	c := DefaultConfig()
	f, err := ini.Load(path)
	if err != nil {
		return nil, err
	}

	mesh := f.Section("mesh")
	c.MeshFile = mesh.Key("file").MustString(c.MeshFile)
	c.Nx = mesh.Key("nx").MustInt(c.Nx)
	c.Ny = mesh.Key("ny").MustInt(c.Ny)
	c.Nz = mesh.Key("nz").MustInt(c.Nz)
	c.Order = mesh.Key("order").MustInt(c.Order)
	c.FaceTol = mesh.Key("face_tol").MustFloat64(c.FaceTol)

	mat := f.Section("material")
	c.YoungsModulus = mat.Key("youngs_modulus").MustFloat64(c.YoungsModulus)
	c.PoissonRatio = mat.Key("poisson_ratio").MustFloat64(c.PoissonRatio)

	kubc := f.Section("kubc")
	c.DirI = kubc.Key("dir_i").MustInt(c.DirI)
	c.DirJ = kubc.Key("dir_j").MustInt(c.DirJ)

	solver := f.Section("solver")
	c.KSPType = solver.Key("ksp_type").MustString(c.KSPType)
	c.Rtol = solver.Key("rtol").MustFloat64(c.Rtol)
	c.MaxIter = solver.Key("max_iter").MustInt(c.MaxIter)
	c.PCType = solver.Key("pc_type").MustString(c.PCType)
	c.Smoother = solver.Key("smoother").MustString(c.Smoother)
	c.SmoothSteps = solver.Key("smooth_steps").MustInt(c.SmoothSteps)
	c.EstEigSteps = solver.Key("est_eig_steps").MustInt(c.EstEigSteps)

	c.Output = f.Section("output").Key("file").MustString(c.Output)

	return c, c.Validate()
}

// Validate sanity-checks parameter ranges before any heavy work starts.
func (c *Config) Validate() error {
	if c.Order != 1 && c.Order != 2 {
		return fmt.Errorf("element order must be 1 or 2, got %v", c.Order)
	}
	if c.MeshFile == "" && (c.Nx < 1 || c.Ny < 1 || c.Nz < 1) {
		return fmt.Errorf("box mesh needs positive cell counts, got %v x %v x %v", c.Nx, c.Ny, c.Nz)
	}
	if c.Rtol <= 0 {
		return fmt.Errorf("solver tolerance must be positive, got %v", c.Rtol)
	}
	if c.MaxIter < 1 {
		return fmt.Errorf("solver iteration limit must be positive, got %v", c.MaxIter)
	}
	switch c.KSPType {
	case "cg", "lu":
	default:
		return fmt.Errorf("unknown ksp_type %q", c.KSPType)
	}
	switch c.PCType {
	case "gamg", "icc", "ilu", "jacobi", "none":
	default:
		return fmt.Errorf("unknown pc_type %q", c.PCType)
	}
	return nil
}
