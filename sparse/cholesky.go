package sparse

import (
	"fmt"
	"math"
)

// IncompleteCholesky returns a preconditioner that uses an incomplete
// cholesky factorization (incomplete via maintaining the same sparsity
// pattern as the matrix A).  The factorization is then used to solve for z in
// the system M*z=r - i.e. the preconditioning is M^(-1)*r where M is the
// incomplete cholesky factorization.
func IncompleteCholesky(A Matrix) Preconditioner {
	size, _ := A.Dims()
	chol := NewCholesky(RestrictByPattern{Matrix: NewSparse(size), Pattern: A}, A)

	return func(z, r []float64) {
		zz, err := chol.Solve(r)
		if err != nil {
			panic(err)
		}
		copy(z, zz)
	}
}

type Cholesky struct {
	L Matrix
}

// NewCholesky computes the Cholesky decomposition of A and stores it in L.
// The returned Cholesky object's L is the same as the passed in L.  If L is
// nil, a new Sparse matrix will be created.  Incomplete factorizations can be
// computed by passing in an L that ignores nonzero entries in certain
// locations (e.g. a RestrictByPattern matrix).
func NewCholesky(L, A Matrix) *Cholesky {
	size, _ := A.Dims()
	if L == nil {
		L = NewSparse(size)
	}
	Copy(L, A)

	for k := 0; k < size; k++ {
		// diag
		akk := math.Sqrt(L.At(k, k))
		L.Set(k, k, akk)

		// scale column k below the diagonal
		for _, nz := range L.SweepCol(k) {
			if nz.I > k {
				L.Set(nz.I, k, nz.Val/akk)
			}
		}

		// update the trailing submatrix with the outer product of column k
		col := L.SweepCol(k)
		for _, nzj := range col {
			j := nzj.I
			if j <= k {
				continue
			}
			for _, nzi := range col {
				i := nzi.I
				if i >= j {
					L.Set(i, j, L.At(i, j)-nzi.Val*nzj.Val)
				}
			}
		}
	}

	// drop the (unmodified) upper triangle so L is truly lower triangular
	for i := 0; i < size; i++ {
		for _, nz := range L.SweepRow(i) {
			if nz.J > i {
				L.Set(i, nz.J, 0)
			}
		}
	}
	return &Cholesky{L: L}
}

// Solve solves L*transpose(L)*x = b via forward then backward substitution.
func (c *Cholesky) Solve(b []float64) (x []float64, err error) {
	// Solve L*y = b via forward substitution
	y := make([]float64, len(b))
	for i := 0; i < len(b); i++ {
		tot := 0.0
		div := 0.0
		for _, nz := range c.L.SweepRow(i) {
			if nz.J == i {
				div = nz.Val
			} else {
				tot += y[nz.J] * nz.Val
			}
		}
		if div == 0 {
			return nil, fmt.Errorf("zero pivot in cholesky factor at row %v", i)
		}
		y[i] = (b[i] - tot) / div
	}

	// Solve transpose(L)*x = y via backward substitution.  Sweeping column i
	// of L walks row i of the transpose.
	x = make([]float64, len(b))
	for i := len(b) - 1; i >= 0; i-- {
		tot := 0.0
		div := 0.0
		for _, nz := range c.L.SweepCol(i) {
			if nz.I == i {
				div = nz.Val
			} else {
				tot += x[nz.I] * nz.Val
			}
		}
		if div == 0 {
			return nil, fmt.Errorf("zero pivot in cholesky factor at row %v", i)
		}
		x[i] = (y[i] - tot) / div
	}
	return x, nil
}
