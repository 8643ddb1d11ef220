package sparse

import (
	"math"
	"testing"
)

func TestLUFactorize(t *testing.T) {
	A := NewSparse(3)
	vals := [3][3]float64{
		{4, -1, 0},
		{-2, 5, 1},
		{0, 3, 6},
	}
	for i := range vals {
		for j, v := range vals[i] {
			A.Set(i, j, v)
		}
	}

	lu := (&LU{}).Factorize(A.Clone())

	// L*U must reproduce A
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v := 0.0
			for k := 0; k < 3; k++ {
				v += lu.L.At(i, k) * lu.U.At(k, j)
			}
			if math.Abs(v-vals[i][j]) > 1e-12 {
				t.Errorf("(L*U)(%v,%v) = %v, want %v", i, j, v, vals[i][j])
			}
		}
	}
}

func TestLUSolve(t *testing.T) {
	A := laplacian1D(20)
	lu := (&LU{}).Factorize(A.Clone())

	b := make([]float64, 20)
	for i := range b {
		b[i] = math.Sin(float64(i))
	}

	x, err := lu.Solve(b, nil)
	if err != nil {
		t.Fatalf("Solve: %v", err)
	}
	r := Mul(A, x)
	vecSub(r, r, b)
	if res := norm2(r) / norm2(b); res > 1e-12 {
		t.Errorf("residual %v, want <= 1e-12", res)
	}
}

func TestLUZeroPivot(t *testing.T) {
	lu := &LU{L: NewSparse(2), U: NewSparse(2)}
	lu.L.Set(0, 0, 1)
	lu.L.Set(1, 1, 1)
	lu.U.Set(0, 1, 1) // row 0 has no diagonal entry
	lu.U.Set(1, 1, 1)

	if _, err := lu.Solve([]float64{1, 1}, nil); err == nil {
		t.Errorf("expected zero pivot error")
	}
}

func TestIncompleteLUPreconditioner(t *testing.T) {
	n := 5
	A := laplacian3D(n)
	b := make([]float64, n*n*n)
	for i := range b {
		b[i] = float64(i % 3)
	}

	cg := &CG{MaxIter: 1000, Rtol: 1e-10, Preconditioner: IncompleteLU(A)}
	solveAndCheck(t, cg, A, b, 1e-8)
	t.Logf("converged in %v iterations", cg.Iterations())
}
