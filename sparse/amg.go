package sparse

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// AMGOptions configures the smoothed-aggregation multigrid hierarchy.  The
// zero value of every field selects a documented default.
type AMGOptions struct {
	// BlockSize is the number of unknowns per mesh node on the finest level
	// (3 for 3-D elasticity).  Aggregation never splits a block.
	BlockSize int
	// Strength is the strength-of-connection threshold: dofs i and j are
	// strongly coupled when |a_ij| >= Strength*sqrt(|a_ii*a_jj|).
	Strength float64
	// MaxLevels caps the hierarchy depth (default 10).
	MaxLevels int
	// CoarseSize is the system size at which coarsening stops and a dense LU
	// factorization takes over (default 400).
	CoarseSize int
	// SmoothSteps is the smoother degree per pre/post sweep (default 2).
	SmoothSteps int
	// EstEigSteps is the number of power iterations used to bound the
	// spectrum of inv(D)*A on each level (default 20).
	EstEigSteps int
	// Smoother selects the level smoother: "chebyshev" (default), "jacobi"
	// or "ssor".
	Smoother string
}

func (o *AMGOptions) setDefaults() {
	if o.BlockSize == 0 {
		o.BlockSize = 1
	}
	if o.Strength == 0 {
		o.Strength = 0.08
	}
	if o.MaxLevels == 0 {
		o.MaxLevels = 10
	}
	if o.CoarseSize == 0 {
		o.CoarseSize = 400
	}
	if o.SmoothSteps == 0 {
		o.SmoothSteps = 2
	}
	if o.EstEigSteps == 0 {
		o.EstEigSteps = 20
	}
	if o.Smoother == "" {
		o.Smoother = "chebyshev"
	}
}

type amgLevel struct {
	A        Matrix
	dinv     []float64
	smoother Smoother
	// P prolongates corrections from the next coarser level to this one;
	// transpose(P) restricts residuals.  nil on the coarsest level.
	P *Sparse
}

// AMG is a smoothed-aggregation algebraic multigrid preconditioner.  The
// hierarchy is built once from the operator and a set of near-null-space
// vectors (the rigid-body modes for elasticity); applying it performs one
// V-cycle.
type AMG struct {
	levels []*amgLevel
	coarse *mat.LU
	opts   AMGOptions
}

// NewAMG builds the multigrid hierarchy for A.  nullspace holds the
// near-null-space vectors spanning the low-energy modes of A; they steer both
// aggregation-based coarse spaces and must all have length equal to the
// system size.
func NewAMG(A Matrix, nullspace [][]float64, opts AMGOptions) (*AMG, error) {
	opts.setDefaults()
	n, cols := A.Dims()
	if n != cols {
		return nil, fmt.Errorf("multigrid operator must be square, got %vx%v", n, cols)
	}
	if len(nullspace) == 0 {
		return nil, fmt.Errorf("multigrid setup requires at least one near-null-space vector")
	}
	for k, v := range nullspace {
		if len(v) != n {
			return nil, fmt.Errorf("near-null-space vector %v has length %v, want %v", k, len(v), n)
		}
	}
	if n%opts.BlockSize != 0 {
		return nil, fmt.Errorf("system size %v is not a multiple of block size %v", n, opts.BlockSize)
	}

	m := &AMG{opts: opts}

	// candidate vectors are consumed level by level; copy so the caller's
	// null space is left untouched
	cand := make([][]float64, len(nullspace))
	for k, v := range nullspace {
		cand[k] = append([]float64{}, v...)
	}

	bs := opts.BlockSize
	for {
		size, _ := A.Dims()
		lvl := &amgLevel{A: A, dinv: invDiag(A)}
		est := estimateMaxEig(A, lvl.dinv, opts.EstEigSteps)
		lvl.smoother = newSmoother(opts, est)
		m.levels = append(m.levels, lvl)

		if size <= opts.CoarseSize || len(m.levels) >= opts.MaxLevels {
			break
		}

		agg, nagg := aggregate(A, bs, opts.Strength, len(cand))
		if nagg*len(cand) >= size {
			break // coarsening stalled; stop here and solve directly
		}
		T, coarseCand, err := tentativeProlongator(agg, nagg, bs, cand, size)
		if err != nil {
			return nil, err
		}
		lvl.P = smoothProlongator(A, lvl.dinv, T, 4/(3*est))
		A = galerkinProduct(lvl.P, A)
		cand = coarseCand
		bs = len(cand)
	}

	// direct factorization of the coarsest operator
	last := m.levels[len(m.levels)-1].A
	size, _ := last.Dims()
	d := mat.NewDense(size, size, nil)
	for i := 0; i < size; i++ {
		for _, nz := range last.SweepRow(i) {
			d.Set(nz.I, nz.J, nz.Val)
		}
	}
	m.coarse = &mat.LU{}
	m.coarse.Factorize(d)
	return m, nil
}

// Levels returns the depth of the multigrid hierarchy.
func (m *AMG) Levels() int { return len(m.levels) }

// Apply runs one V-cycle on the residual r and stores the correction in z,
// satisfying the Preconditioner contract.
func (m *AMG) Apply(z, r []float64) {
	copy(z, m.cycle(0, r))
}

func (m *AMG) cycle(l int, b []float64) []float64 {
	lvl := m.levels[l]
	if lvl.P == nil {
		return m.coarseSolve(b)
	}

	x := make([]float64, len(b))
	lvl.smoother.Smooth(lvl.A, lvl.dinv, b, x)

	r := make([]float64, len(b))
	vecSub(r, b, Mul(lvl.A, x))
	xc := m.cycle(l+1, MulT(lvl.P, r))
	vecAdd(x, x, Mul(lvl.P, xc))

	lvl.smoother.Smooth(lvl.A, lvl.dinv, b, x)
	return x
}

func (m *AMG) coarseSolve(b []float64) []float64 {
	var soln mat.VecDense
	if err := m.coarse.SolveVecTo(&soln, false, mat.NewVecDense(len(b), b)); err != nil {
		panic(fmt.Sprintf("coarse-level solve failed: %v", err))
	}
	x := make([]float64, len(b))
	copy(x, soln.RawVector().Data)
	return x
}

func newSmoother(opts AMGOptions, maxEig float64) Smoother {
	switch opts.Smoother {
	case "jacobi":
		return dampedJacobi{steps: opts.SmoothSteps, omega: 4 / (3 * maxEig)}
	case "ssor":
		return ssor{steps: opts.SmoothSteps, omega: 1}
	default:
		// PETSc-style spectrum bounds: target [0.1, 1.1]*lambda_max
		return chebyshev{steps: opts.SmoothSteps, lo: 0.1 * maxEig, hi: 1.1 * maxEig}
	}
}

func invDiag(A Matrix) []float64 {
	size, _ := A.Dims()
	dinv := make([]float64, size)
	for i := range dinv {
		d := A.At(i, i)
		if d == 0 {
			d = 1
		}
		dinv[i] = 1 / d
	}
	return dinv
}

// aggregate greedily groups the supernodes (blocks of bs consecutive dofs) of
// A into aggregates based on the strength-of-connection graph.  It returns
// the supernode-to-aggregate assignment and the aggregate count.  Aggregates
// are kept large enough that each holds at least ncand dofs, which the
// per-aggregate QR in tentativeProlongator requires.
func aggregate(A Matrix, bs int, theta float64, ncand int) (agg []int, nagg int) {
	size, _ := A.Dims()
	ns := size / bs

	// supernode strength graph
	strong := make([][]int, ns)
	for p := 0; p < ns; p++ {
		seen := map[int]bool{}
		for c := 0; c < bs; c++ {
			i := p*bs + c
			aii := A.At(i, i)
			for _, nz := range A.SweepRow(i) {
				q := nz.J / bs
				if q == p || seen[q] {
					continue
				}
				ajj := A.At(nz.J, nz.J)
				if nz.Val*nz.Val >= theta*theta*abs(aii*ajj) {
					seen[q] = true
					strong[p] = append(strong[p], q)
				}
			}
		}
	}

	agg = make([]int, ns)
	for p := range agg {
		agg[p] = -1
	}

	// pass 1: seed aggregates from supernodes with fully unaggregated
	// strong neighborhoods
	for p := 0; p < ns; p++ {
		if agg[p] != -1 {
			continue
		}
		free := true
		for _, q := range strong[p] {
			if agg[q] != -1 {
				free = false
				break
			}
		}
		if !free {
			continue
		}
		agg[p] = nagg
		for _, q := range strong[p] {
			agg[q] = nagg
		}
		nagg++
	}

	// pass 2: attach stragglers to a neighboring aggregate
	for p := 0; p < ns; p++ {
		if agg[p] != -1 {
			continue
		}
		for _, q := range strong[p] {
			if agg[q] != -1 {
				agg[p] = agg[q]
				break
			}
		}
	}

	// pass 3: isolated supernodes form their own aggregates
	for p := 0; p < ns; p++ {
		if agg[p] == -1 {
			agg[p] = nagg
			nagg++
		}
	}

	// merge aggregates too small to carry all candidate vectors
	minSupers := (ncand + bs - 1) / bs
	counts := make([]int, nagg)
	for _, g := range agg {
		counts[g]++
	}
	remap := make([]int, nagg)
	for g := range remap {
		remap[g] = g
	}
	// isolated supernodes (fully constrained rows have no off-diagonal
	// entries) fall back to the largest aggregate
	big := 0
	for g := 1; g < nagg; g++ {
		if counts[g] > counts[big] {
			big = g
		}
	}
	for p := 0; p < ns; p++ {
		g := find(remap, agg[p])
		if counts[g] >= minSupers {
			continue
		}
		h := -1
		for _, q := range strong[p] {
			if hq := find(remap, agg[q]); hq != g {
				h = hq
				break
			}
		}
		if h == -1 {
			h = find(remap, big)
		}
		if h == g {
			continue
		}
		remap[g] = h
		counts[h] += counts[g]
		counts[g] = 0
	}
	// compact aggregate ids
	next := 0
	compact := make(map[int]int)
	for p := 0; p < ns; p++ {
		g := find(remap, agg[p])
		id, ok := compact[g]
		if !ok {
			id = next
			compact[g] = id
			next++
		}
		agg[p] = id
	}
	return agg, next
}

func find(remap []int, g int) int {
	for remap[g] != g {
		g = remap[g]
	}
	return g
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

// tentativeProlongator builds the unsmoothed transfer operator T by
// orthonormalizing the candidate (near-null-space) vectors over each
// aggregate: the thin-QR Q factor becomes the aggregate's columns of T and
// the R factor becomes the coarse-level candidate values.
func tentativeProlongator(agg []int, nagg, bs int, cand [][]float64, size int) (*Sparse, [][]float64, error) {
	ncand := len(cand)
	nc := nagg * ncand

	// dof rows per aggregate, in ascending order
	rows := make([][]int, nagg)
	for p, g := range agg {
		for c := 0; c < bs; c++ {
			rows[g] = append(rows[g], p*bs+c)
		}
	}

	T := NewSparseShape(size, nc)
	coarseCand := make([][]float64, ncand)
	for k := range coarseCand {
		coarseCand[k] = make([]float64, nc)
	}

	var qr mat.QR
	for g := 0; g < nagg; g++ {
		m := len(rows[g])
		if m < ncand {
			return nil, nil, fmt.Errorf("aggregate %v has %v dofs, need at least %v for the coarse basis", g, m, ncand)
		}
		block := mat.NewDense(m, ncand, nil)
		for r, i := range rows[g] {
			for k := 0; k < ncand; k++ {
				block.Set(r, k, cand[k][i])
			}
		}
		qr.Factorize(block)
		var q, r mat.Dense
		qr.QTo(&q)
		qr.RTo(&r)
		for ri, i := range rows[g] {
			for c := 0; c < ncand; c++ {
				T.Set(i, g*ncand+c, q.At(ri, c))
			}
		}
		for c := 0; c < ncand; c++ {
			for k := 0; k < ncand; k++ {
				coarseCand[k][g*ncand+c] = r.At(c, k)
			}
		}
	}
	return T, coarseCand, nil
}

// smoothProlongator applies one damped-Jacobi smoothing step to the tentative
// operator: P = (I - omega*inv(D)*A) * T.
func smoothProlongator(A Matrix, dinv []float64, T *Sparse, omega float64) *Sparse {
	P := T.Clone()
	rows, _ := T.Dims()
	for j := 0; j < rows; j++ {
		for _, t := range T.SweepRow(j) {
			for _, a := range A.SweepCol(j) {
				P.Add(a.I, t.J, -omega*dinv[a.I]*a.Val*t.Val)
			}
		}
	}
	return P
}

// galerkinProduct forms the coarse operator transpose(P)*A*P.
func galerkinProduct(P *Sparse, A Matrix) *Sparse {
	n, nc := P.Dims()
	Ac := NewSparse(nc)
	for i := 0; i < n; i++ {
		pi := P.SweepRow(i)
		if len(pi) == 0 {
			continue
		}
		for _, a := range A.SweepRow(i) {
			pj := P.SweepRow(a.J)
			for _, l := range pi {
				for _, r := range pj {
					Ac.Add(l.J, r.J, l.Val*a.Val*r.Val)
				}
			}
		}
	}
	return Ac
}
