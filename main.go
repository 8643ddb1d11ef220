package main

import (
	"flag"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"github.com/kutsjuice/Fibrous-porous-media-homogenization/sparse"
)

// shearFaces are the outer faces carrying the prescribed displacement.  The
// bottom face is left unconstrained.
var shearFaces = []FaceLabel{Left, Right, Top, Front, Back}

var (
	configFlag = flag.String("config", "", "ini file with run parameters")
	meshFlag   = flag.String("mesh", "", "gmsh 2.2 mesh file (overrides config)")
	outFlag    = flag.String("o", "", "output file for nodal displacements (overrides config)")
	verbose    = flag.Bool("v", false, "log solver iterations")
)

func main() {
	flag.Parse()
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg := DefaultConfig()
	if *configFlag != "" {
		var err error
		cfg, err = LoadConfig(*configFlag)
		if err != nil {
			return fmt.Errorf("loading config: %v", err)
		}
	}
	if *meshFlag != "" {
		cfg.MeshFile = *meshFlag
	}
	if *outFlag != "" {
		cfg.Output = *outFlag
	}

	mesh, err := loadMesh(cfg)
	if err != nil {
		return err
	}
	box := mesh.Bounds()
	log.WithFields(log.Fields{
		"nodes": mesh.NumNodes(),
		"elems": mesh.NumElems(),
		"order": mesh.Order,
		"dofs":  mesh.NumDOF(),
	}).Info("mesh loaded")

	tol := cfg.FaceTol
	if tol == 0 {
		tol = FaceMatchTol(box)
	}
	tags, err := TagBoundaryFacets(mesh, box, tol)
	if err != nil {
		return fmt.Errorf("classifying boundary: %v", err)
	}

	bc, err := NewKUBC(box, cfg.DirI, cfg.DirJ)
	if err != nil {
		return err
	}
	dirichlet := bc.DirichletDOFs(mesh, tags, shearFaces)
	log.WithFields(log.Fields{
		"shear": fmt.Sprintf("(%v, %v)", bc.I, bc.J),
		"ud":    bc.UD,
		"fixed": len(dirichlet),
	}).Info("boundary conditions built")

	mat := &Isotropic{E: cfg.YoungsModulus, Nu: cfg.PoissonRatio}
	if err := mat.Validate(); err != nil {
		return err
	}

	prob := &Problem{Mesh: mesh, Material: mat, Dirichlet: dirichlet}
	A, b, err := prob.Assemble()
	if err != nil {
		return fmt.Errorf("assembling stiffness: %v", err)
	}
	ApplyDirichlet(A, b, dirichlet)
	log.WithFields(log.Fields{"nnz": A.NNZ()}).Info("system assembled")

	solver, err := buildSolver(cfg, mesh, A)
	if err != nil {
		return err
	}

	u, err := solver.Solve(A, b)
	if err != nil {
		return fmt.Errorf("solving: %v", err)
	}
	if s := solver.Status(); s != "" {
		log.Info(s)
	}

	res := &Result{U: u, Status: solver.Status()}
	if err := res.WriteDisplacements(mesh, cfg.Output); err != nil {
		return fmt.Errorf("writing output: %v", err)
	}
	log.WithFields(log.Fields{"file": cfg.Output}).Info("displacements written")
	return nil
}

func loadMesh(cfg *Config) (*Mesh, error) {
	if cfg.MeshFile != "" {
		return ReadGmshFile(cfg.MeshFile)
	}
	lo := []float64{-0.5, -0.5, -0.5}
	hi := []float64{0.5, 0.5, 0.5}
	return NewBoxMesh(lo, hi, cfg.Nx, cfg.Ny, cfg.Nz, cfg.Order)
}

// buildSolver wires the configured Krylov method and preconditioner.  The
// multigrid preconditioner needs the mesh rigid-body modes; a failure to
// build them is fatal rather than silently degrading the solve.
func buildSolver(cfg *Config, mesh *Mesh, A sparse.Matrix) (sparse.Solver, error) {
	if cfg.KSPType == "lu" {
		return sparse.DenseLU{}, nil
	}

	var precond sparse.Preconditioner
	switch cfg.PCType {
	case "gamg":
		nullspace, err := BuildNullSpace(mesh)
		if err != nil {
			return nil, err
		}
		amg, err := sparse.NewAMG(A, nullspace, sparse.AMGOptions{
			BlockSize:   3,
			Smoother:    cfg.Smoother,
			SmoothSteps: cfg.SmoothSteps,
			EstEigSteps: cfg.EstEigSteps,
		})
		if err != nil {
			return nil, fmt.Errorf("building multigrid hierarchy: %v", err)
		}
		log.WithFields(log.Fields{"levels": amg.Levels()}).Info("multigrid hierarchy built")
		precond = amg.Apply
	case "icc":
		precond = sparse.IncompleteCholesky(A)
	case "ilu":
		precond = sparse.IncompleteLU(A)
	case "jacobi":
		precond = sparse.Jacobi(A)
	case "none":
		precond = sparse.Identity()
	}

	cg := &sparse.CG{MaxIter: cfg.MaxIter, Rtol: cfg.Rtol, Preconditioner: precond}
	if *verbose {
		cg.Monitor = func(iter int, rnorm float64) {
			fmt.Fprintf(os.Stdout, "Iteration: %d, rel. residual: %g\n", iter, rnorm)
		}
	}
	return cg, nil
}
