package sparse

import "sort"

// Nonzero holds one stored entry of a sparse matrix.
type Nonzero struct {
	I, J int
	Val  float64
}

// Matrix is the interface sparse solvers and preconditioners in this package
// are written against.  It is deliberately small - entry access plus sweeps
// over the stored nonzeros of a single row or column.
type Matrix interface {
	Dims() (rows, cols int)
	At(i, j int) float64
	Set(i, j int, v float64)
	// SweepRow returns the stored nonzeros of row i ordered by column index.
	SweepRow(i int) []Nonzero
	// SweepCol returns the stored nonzeros of column j ordered by row index.
	SweepCol(j int) []Nonzero
}

// Sparse is a map-backed sparse matrix.  Setting an entry to zero deletes it.
type Sparse struct {
	// rowData[i] maps column j to the value at (i, j)
	rowData []map[int]float64
	// colData[j] maps row i to the value at (i, j)
	colData []map[int]float64
	rows    int
	cols    int
}

// NewSparse creates a square size x size sparse matrix.
func NewSparse(size int) *Sparse { return NewSparseShape(size, size) }

// NewSparseShape creates a rectangular rows x cols sparse matrix.
// Rectangular matrices are used for the multigrid grid-transfer operators.
func NewSparseShape(rows, cols int) *Sparse {
	return &Sparse{
		rowData: make([]map[int]float64, rows),
		colData: make([]map[int]float64, cols),
		rows:    rows,
		cols:    cols,
	}
}

func (m *Sparse) Clone() *Sparse {
	clone := NewSparseShape(m.rows, m.cols)
	for i, row := range m.rowData {
		for j, v := range row {
			clone.Set(i, j, v)
		}
	}
	return clone
}

func (m *Sparse) Dims() (int, int)    { return m.rows, m.cols }
func (m *Sparse) At(i, j int) float64 { return m.rowData[i][j] }

func (m *Sparse) Set(i, j int, v float64) {
	if v == 0 {
		delete(m.rowData[i], j)
		delete(m.colData[j], i)
		return
	}
	if m.rowData[i] == nil {
		m.rowData[i] = make(map[int]float64)
	}
	if m.colData[j] == nil {
		m.colData[j] = make(map[int]float64)
	}
	m.rowData[i][j] = v
	m.colData[j][i] = v
}

// Add accumulates v into the entry at (i, j).
func (m *Sparse) Add(i, j int, v float64) { m.Set(i, j, m.At(i, j)+v) }

func (m *Sparse) SweepRow(i int) []Nonzero {
	nzs := make([]Nonzero, 0, len(m.rowData[i]))
	for j, v := range m.rowData[i] {
		nzs = append(nzs, Nonzero{I: i, J: j, Val: v})
	}
	sort.Slice(nzs, func(a, b int) bool { return nzs[a].J < nzs[b].J })
	return nzs
}

func (m *Sparse) SweepCol(j int) []Nonzero {
	nzs := make([]Nonzero, 0, len(m.colData[j]))
	for i, v := range m.colData[j] {
		nzs = append(nzs, Nonzero{I: i, J: j, Val: v})
	}
	sort.Slice(nzs, func(a, b int) bool { return nzs[a].I < nzs[b].I })
	return nzs
}

// NNZ returns the number of stored nonzero entries.
func (m *Sparse) NNZ() int {
	n := 0
	for _, row := range m.rowData {
		n += len(row)
	}
	return n
}

// Mul computes A*x.
func Mul(A Matrix, x []float64) []float64 {
	rows, cols := A.Dims()
	if len(x) != cols {
		panic("inconsistent dimensions for sparse matrix-vector multiply")
	}
	result := make([]float64, rows)
	if s, ok := A.(*Sparse); ok {
		for i, row := range s.rowData {
			tot := 0.0
			for j, v := range row {
				tot += v * x[j]
			}
			result[i] = tot
		}
		return result
	}
	for i := 0; i < rows; i++ {
		tot := 0.0
		for _, nz := range A.SweepRow(i) {
			tot += nz.Val * x[nz.J]
		}
		result[i] = tot
	}
	return result
}

// MulT computes transpose(A)*x - used for multigrid restriction so the
// transfer operator only needs to be stored once.
func MulT(A Matrix, x []float64) []float64 {
	rows, cols := A.Dims()
	if len(x) != rows {
		panic("inconsistent dimensions for sparse transpose multiply")
	}
	result := make([]float64, cols)
	if s, ok := A.(*Sparse); ok {
		for j, col := range s.colData {
			tot := 0.0
			for i, v := range col {
				tot += v * x[i]
			}
			result[j] = tot
		}
		return result
	}
	for j := 0; j < cols; j++ {
		tot := 0.0
		for _, nz := range A.SweepCol(j) {
			tot += nz.Val * x[nz.I]
		}
		result[j] = tot
	}
	return result
}

// Copy copies all stored entries of src into dst.  dst is not cleared first.
func Copy(dst, src Matrix) {
	rows, _ := src.Dims()
	for i := 0; i < rows; i++ {
		for _, nz := range src.SweepRow(i) {
			dst.Set(nz.I, nz.J, nz.Val)
		}
	}
}

// RestrictByPattern wraps a Matrix, discarding writes at locations where
// Pattern holds no entry.  This is how the incomplete factorizations keep the
// sparsity pattern of the original operator.
type RestrictByPattern struct {
	Matrix
	Pattern Matrix
}

func (m RestrictByPattern) Set(i, j int, v float64) {
	if m.Pattern.At(i, j) == 0 {
		return
	}
	m.Matrix.Set(i, j, v)
}
