package sparse

import (
	"math"
	"testing"
)

func TestCholeskyFull(t *testing.T) {
	// dense pattern factorization of a small SPD matrix is exact
	A := laplacian1D(8)
	chol := NewCholesky(nil, A)

	// L*L^T must reproduce A
	size, _ := A.Dims()
	for i := 0; i < size; i++ {
		for j := 0; j < size; j++ {
			v := 0.0
			for k := 0; k <= min(i, j); k++ {
				v += chol.L.At(i, k) * chol.L.At(j, k)
			}
			if math.Abs(v-A.At(i, j)) > 1e-12 {
				t.Errorf("(L*L^T)(%v,%v) = %v, want %v", i, j, v, A.At(i, j))
			}
		}
	}
}

func TestCholeskySolve(t *testing.T) {
	A := laplacian1D(16)
	chol := NewCholesky(nil, A)

	b := make([]float64, 16)
	for i := range b {
		b[i] = float64(i)
	}
	x, err := chol.Solve(b)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}

	r := Mul(A, x)
	vecSub(r, r, b)
	if res := norm2(r) / norm2(b); res > 1e-12 {
		t.Errorf("residual %v, want <= 1e-12", res)
	}
}

func TestIncompleteCholeskyPattern(t *testing.T) {
	// the tridiagonal Laplacian's Cholesky factor is itself bidiagonal, so
	// the incomplete factorization matches the pattern exactly
	A := laplacian1D(10)
	L := RestrictByPattern{Matrix: NewSparse(10), Pattern: A}
	NewCholesky(L, A)

	for i := 0; i < 10; i++ {
		for j := 0; j < 10; j++ {
			if A.At(i, j) == 0 && L.At(i, j) != 0 {
				t.Errorf("fill-in at (%v,%v) outside the operator pattern", i, j)
			}
		}
	}
}

func TestIncompleteCholeskyAccelerates(t *testing.T) {
	// the tridiagonal Laplacian's Cholesky factor fits the operator pattern,
	// so IC(0) is the exact factorization and CG finishes in a handful of
	// iterations where the plain iteration needs O(n)
	n := 100
	A := laplacian1D(n)
	b := make([]float64, n)
	for i := range b {
		b[i] = 1
	}

	plain := &CG{MaxIter: 1000, Rtol: 1e-10, Preconditioner: Identity()}
	if _, err := plain.Solve(A, b); err != nil {
		t.Fatalf("unpreconditioned solve: %v", err)
	}

	icc := &CG{MaxIter: 1000, Rtol: 1e-10, Preconditioner: IncompleteCholesky(A)}
	solveAndCheck(t, icc, A, b, 1e-8)

	t.Logf("iterations: %v unpreconditioned, %v with icc", plain.Iterations(), icc.Iterations())
	if icc.Iterations() > 3 {
		t.Errorf("exact-pattern icc took %v iterations, want <= 3", icc.Iterations())
	}
	if icc.Iterations() >= plain.Iterations() {
		t.Errorf("icc took %v iterations, plain cg %v", icc.Iterations(), plain.Iterations())
	}
}

func TestIncompleteCholesky3D(t *testing.T) {
	// on the 7-point Laplacian the factorization is genuinely incomplete;
	// the preconditioned iteration still has to converge
	n := 5
	A := laplacian3D(n)
	b := make([]float64, n*n*n)
	for i := range b {
		b[i] = 1
	}
	icc := &CG{MaxIter: 1000, Rtol: 1e-10, Preconditioner: IncompleteCholesky(A)}
	solveAndCheck(t, icc, A, b, 1e-8)
	t.Logf("converged in %v iterations", icc.Iterations())
}
