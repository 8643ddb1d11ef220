package sparse

import "fmt"

// IncompleteLU returns a preconditioner backed by an LU factorization
// restricted to the sparsity pattern of A.
func IncompleteLU(A Matrix) Preconditioner {
	size, _ := A.Dims()
	lu := &LU{
		L: RestrictByPattern{Matrix: NewSparse(size), Pattern: A},
		U: RestrictByPattern{Matrix: NewSparse(size), Pattern: A},
	}
	lu.Factorize(A)
	return func(z, r []float64) {
		if _, err := lu.Solve(r, z); err != nil {
			panic(err)
		}
	}
}

// LU holds an LU factorization for a matrix A used for solving A*x=b.  No
// pivot-row reordering is performed; the assembled FEM operators this package
// is used with keep their dominant entries on the diagonal.
type LU struct {
	L, U Matrix
}

func (lu *LU) Factorize(A Matrix) *LU {
	size, _ := A.Dims()
	if lu.L == nil {
		lu.L = NewSparse(size)
	}
	if lu.U == nil {
		lu.U = NewSparse(size)
	}

	Copy(lu.U, A)

	for j := 0; j < size; j++ {
		lu.L.Set(j, j, 1)
		ApplyPivot(lu.U, nil, j, j, -1, lu.L)
	}

	return lu
}

// Solve solves L*U*result = b via forward then backward substitution.  If
// result is nil a new slice is allocated.
func (lu *LU) Solve(b, result []float64) ([]float64, error) {
	if result == nil {
		result = make([]float64, len(b))
	}

	// Solve L*y = b via forward substitution
	y := make([]float64, len(b))
	for i := 0; i < len(b); i++ {
		tot := 0.0
		div := 0.0
		for _, nz := range lu.L.SweepRow(i) {
			if nz.J == i {
				div = nz.Val
			} else {
				tot += y[nz.J] * nz.Val
			}
		}
		if div == 0 {
			return nil, fmt.Errorf("zero pivot in LU factor at row %v", i)
		}
		y[i] = (b[i] - tot) / div
	}

	// Solve U*result = y via backward substitution
	for i := len(b) - 1; i >= 0; i-- {
		tot := 0.0
		div := 0.0
		for _, nz := range lu.U.SweepRow(i) {
			if nz.J == i {
				div = nz.Val
			} else {
				tot += result[nz.J] * nz.Val
			}
		}
		if div == 0 {
			return nil, fmt.Errorf("zero pivot in LU factor at row %v", i)
		}
		result[i] = (y[i] - tot) / div
	}
	return result, nil
}

// ApplyPivot uses the given pivot row to multiply and add to all rows in A
// below (dir < 0) or above (dir > 0) the pivot in order to zero out the given
// column.  If b is not nil the same operations are applied to it to keep the
// system in sync.  If L is not nil, the multiplier used for each row is
// stored in it (building the L factor of an LU factorization).
func ApplyPivot(A Matrix, b []float64, col int, piv int, dir int, L Matrix) {
	pval := A.At(piv, col)
	for _, nz := range A.SweepCol(col) {
		i := nz.I
		cond := (dir < 0 && i > piv) || (dir > 0 && i < piv)
		if !cond {
			continue
		}
		mult := -nz.Val / pval
		if L != nil {
			L.Set(i, col, -mult)
		}
		RowCombination(A, piv, i, mult)
		if b != nil {
			b[i] += b[piv] * mult
		}
	}
}

// RowCombination adds mult times the pivot row to the destination row in m.
func RowCombination(m Matrix, pivrow, dstrow int, mult float64) {
	for _, nz := range m.SweepRow(pivrow) {
		m.Set(dstrow, nz.J, m.At(dstrow, nz.J)+nz.Val*mult)
	}
}
