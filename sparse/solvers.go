package sparse

import (
	"bytes"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

type Solver interface {
	Solve(A Matrix, b []float64) (soln []float64, err error)
	Status() string
}

// Preconditioner is a function that takes a (e.g. residual) vector r and
// applies a preconditioning matrix to it and stores the result in z.
type Preconditioner func(z, r []float64)

// Identity returns a no-op preconditioner (z = r).
func Identity() Preconditioner {
	return func(z, r []float64) { copy(z, r) }
}

// Jacobi returns a diagonal-scaling preconditioner (z = r / diag(A)).
func Jacobi(A Matrix) Preconditioner {
	size, _ := A.Dims()
	dinv := make([]float64, size)
	for i := range dinv {
		dinv[i] = 1 / A.At(i, i)
	}
	return func(z, r []float64) {
		for i := range z {
			z[i] = r[i] * dinv[i]
		}
	}
}

// Monitor is called once per solver iteration with the current iteration
// number and relative residual norm.
type Monitor func(iter int, rnorm float64)

// NotConvergedError is returned when an iterative solver exhausts its
// iteration limit before reaching its tolerance.  It carries the final
// iterate diagnostics so callers can report or act on them.
type NotConvergedError struct {
	Iterations int
	Residual   float64
}

func (e *NotConvergedError) Error() string {
	return fmt.Sprintf("solver did not converge: rel. residual %v after %v iterations", e.Residual, e.Iterations)
}

// CG implements a preconditioned linear conjugate gradient solver (see
// http://wikipedia.org/wiki/Conjugate_gradient_method).  Convergence is
// judged on the residual norm relative to the right-hand side norm.
type CG struct {
	MaxIter int
	// Rtol is the relative residual tolerance |r|/|b| at which the iteration
	// stops.
	Rtol float64
	// Preconditioner is applied to the residual each iteration of the CG
	// solver.  If it is nil, an incomplete Cholesky factorization of the
	// operator is used.
	Preconditioner Preconditioner
	// Monitor, if set, is called with every iteration's relative residual.
	Monitor Monitor
	niter   int
	rnorm   float64
	ndof    int
}

func (cg *CG) Status() string {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "CG Solver Stats:\n")
	fmt.Fprintf(&buf, "    %v dof\n", cg.ndof)
	fmt.Fprintf(&buf, "    %v iterations, rel. residual %v", cg.niter, cg.rnorm)
	return buf.String()
}

// Iterations returns the iteration count of the most recent solve.
func (cg *CG) Iterations() int { return cg.niter }

// Residual returns the final relative residual of the most recent solve.
func (cg *CG) Residual() float64 { return cg.rnorm }

func (cg *CG) Solve(A Matrix, b []float64) (x []float64, err error) {
	if cg.Preconditioner == nil {
		cg.Preconditioner = IncompleteCholesky(A)
	}

	size := len(b)
	cg.ndof = size

	x = make([]float64, size)
	r := make([]float64, size)
	z := make([]float64, size)
	p := make([]float64, size)

	bnorm := norm2(b)
	if bnorm == 0 {
		cg.niter, cg.rnorm = 0, 0
		return x, nil
	}

	copy(r, b) // r = b - A*0
	cg.rnorm = 1
	if cg.Monitor != nil {
		cg.Monitor(0, cg.rnorm)
	}

	cg.Preconditioner(z, r)
	copy(p, z)
	rz := dot(r, z)

	for cg.niter = 1; cg.niter <= cg.MaxIter; cg.niter++ {
		ap := Mul(A, p)
		alpha := rz / dot(p, ap)
		axpy(x, alpha, p)   // x = x + alpha*p
		axpy(r, -alpha, ap) // r = r - alpha*A*p

		cg.rnorm = norm2(r) / bnorm
		if cg.Monitor != nil {
			cg.Monitor(cg.niter, cg.rnorm)
		}
		if cg.rnorm < cg.Rtol {
			return x, nil
		}

		cg.Preconditioner(z, r)
		rznext := dot(r, z)
		beta := rznext / rz
		vecAdd(p, z, vecMult(p, beta)) // pnext = z + beta*p
		rz = rznext
	}
	cg.niter = cg.MaxIter
	return x, &NotConvergedError{Iterations: cg.niter, Residual: cg.rnorm}
}

// DenseLU is a direct solver backed by a dense LU factorization.  It is the
// substitutable back end for fixture-size systems and the coarsest multigrid
// level - not for full-resolution meshes.
type DenseLU struct{}

func (DenseLU) Status() string { return "" }

func (DenseLU) Solve(A Matrix, b []float64) ([]float64, error) {
	rows, cols := A.Dims()
	d := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for _, nz := range A.SweepRow(i) {
			d.Set(nz.I, nz.J, nz.Val)
		}
	}

	var lu mat.LU
	lu.Factorize(d)
	var soln mat.VecDense
	if err := lu.SolveVecTo(&soln, false, mat.NewVecDense(len(b), b)); err != nil {
		return nil, err
	}
	x := make([]float64, len(b))
	copy(x, soln.RawVector().Data)
	return x, nil
}
