package sparse

import (
	"math"
	"testing"
)

func ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}

func TestEstimateMaxEig(t *testing.T) {
	// inv(D)*A for the tridiagonal Laplacian has eigenvalues in (0, 2)
	A := laplacian1D(50)
	est := estimateMaxEig(A, invDiag(A), 30)
	if est < 1.5 || est > 2.1 {
		t.Errorf("eigenvalue estimate %v outside (1.5, 2.1)", est)
	}
}

func TestSmoothersReduceError(t *testing.T) {
	A := laplacian1D(30)
	dinv := invDiag(A)
	maxEig := estimateMaxEig(A, dinv, 30)

	smoothers := map[string]Smoother{
		"chebyshev": chebyshev{steps: 3, lo: 0.1 * maxEig, hi: 1.1 * maxEig},
		"jacobi":    dampedJacobi{steps: 3, omega: 2.0 / 3.0},
		"ssor":      ssor{steps: 3, omega: 1},
	}

	// solve A*x = b with known solution and measure the error drop
	xexact := make([]float64, 30)
	for i := range xexact {
		xexact[i] = math.Sin(float64(i) / 3)
	}
	b := Mul(A, xexact)

	for name, s := range smoothers {
		x := make([]float64, 30)
		s.Smooth(A, dinv, b, x)

		e0, e1 := norm2(xexact), 0.0
		for i := range x {
			d := x[i] - xexact[i]
			e1 += d * d
		}
		e1 = math.Sqrt(e1)
		if e1 >= e0 {
			t.Errorf("%v: error grew from %v to %v", name, e0, e1)
		}
		t.Logf("%v: error %v -> %v", name, e0, e1)
	}
}

func TestAMGScalarLaplacian(t *testing.T) {
	n := 8
	A := laplacian3D(n)
	size := n * n * n

	amg, err := NewAMG(A, [][]float64{ones(size)}, AMGOptions{CoarseSize: 50})
	if err != nil {
		t.Fatalf("NewAMG: %v", err)
	}
	if amg.Levels() < 2 {
		t.Fatalf("expected a multilevel hierarchy, got %v level(s)", amg.Levels())
	}
	t.Logf("%v levels for %v dofs", amg.Levels(), size)

	b := make([]float64, size)
	for i := range b {
		b[i] = float64(i%7) - 3
	}
	cg := &CG{MaxIter: 200, Rtol: 1e-10, Preconditioner: amg.Apply}
	solveAndCheck(t, cg, A, b, 1e-8)
	t.Logf("converged in %v iterations", cg.Iterations())
}

func TestAMGFasterThanJacobi(t *testing.T) {
	n := 10
	A := laplacian3D(n)
	size := n * n * n
	b := ones(size)

	jac := &CG{MaxIter: 2000, Rtol: 1e-8, Preconditioner: Jacobi(A)}
	if _, err := jac.Solve(A, b); err != nil {
		t.Fatalf("jacobi cg: %v", err)
	}

	amg, err := NewAMG(A, [][]float64{ones(size)}, AMGOptions{CoarseSize: 100})
	if err != nil {
		t.Fatalf("NewAMG: %v", err)
	}
	mg := &CG{MaxIter: 2000, Rtol: 1e-8, Preconditioner: amg.Apply}
	solveAndCheck(t, mg, A, b, 1e-6)

	t.Logf("iterations: %v jacobi, %v multigrid", jac.Iterations(), mg.Iterations())
	if mg.Iterations() >= jac.Iterations() {
		t.Errorf("multigrid took %v iterations, jacobi %v", mg.Iterations(), jac.Iterations())
	}
}

func TestAMGSymmetric(t *testing.T) {
	// a usable CG preconditioner must be symmetric: check <M*u, v> == <u, M*v>
	n := 6
	A := laplacian3D(n)
	size := n * n * n

	amg, err := NewAMG(A, [][]float64{ones(size)}, AMGOptions{CoarseSize: 30})
	if err != nil {
		t.Fatalf("NewAMG: %v", err)
	}

	u := make([]float64, size)
	v := make([]float64, size)
	for i := range u {
		u[i] = math.Cos(float64(i))
		v[i] = float64(i%11) - 5
	}
	mu := make([]float64, size)
	mv := make([]float64, size)
	amg.Apply(mu, u)
	amg.Apply(mv, v)

	a, b := dot(mu, v), dot(u, mv)
	if rel := math.Abs(a-b) / math.Max(math.Abs(a), math.Abs(b)); rel > 1e-10 {
		t.Errorf("preconditioner asymmetry: <Mu,v>=%v, <u,Mv>=%v (rel %v)", a, b, rel)
	}
}

func TestAMGInputValidation(t *testing.T) {
	A := laplacian1D(10)

	if _, err := NewAMG(A, nil, AMGOptions{}); err == nil {
		t.Errorf("expected error for empty null space")
	}
	if _, err := NewAMG(A, [][]float64{ones(7)}, AMGOptions{}); err == nil {
		t.Errorf("expected error for null-space length mismatch")
	}
	if _, err := NewAMG(A, [][]float64{ones(10)}, AMGOptions{BlockSize: 3}); err == nil {
		t.Errorf("expected error when size is not a block multiple")
	}
}
