package sparse

// Smoother damps the high-frequency error of an approximate solution x to
// A*x=b, updating x in place.  Implementations must be symmetric operators
// (pre- and post-smoothing with the same smoother keeps a multigrid cycle
// usable as a CG preconditioner).
type Smoother interface {
	Smooth(A Matrix, dinv, b, x []float64)
}

// chebyshev runs a fixed-degree Chebyshev polynomial iteration on the
// Jacobi-scaled operator inv(D)*A, targeting the eigenvalue interval
// [lo, hi].  This is the classic three-term recurrence (Saad, "Iterative
// Methods for Sparse Linear Systems", alg. 12.1) with diagonal scaling.
type chebyshev struct {
	steps  int
	lo, hi float64
}

func (s chebyshev) Smooth(A Matrix, dinv, b, x []float64) {
	theta := (s.hi + s.lo) / 2
	delta := (s.hi - s.lo) / 2
	sigma := theta / delta
	rho := 1 / sigma

	n := len(b)
	r := make([]float64, n)
	z := make([]float64, n)
	vecSub(r, b, Mul(A, x))
	for i := range z {
		z[i] = dinv[i] * r[i]
	}
	d := vecMult(z, 1/theta)

	for k := 0; k < s.steps; k++ {
		vecAdd(x, x, d)
		if k == s.steps-1 {
			break
		}
		vecSub(r, r, Mul(A, d))
		for i := range z {
			z[i] = dinv[i] * r[i]
		}
		rhoNext := 1 / (2*sigma - rho)
		for i := range d {
			d[i] = rhoNext*rho*d[i] + 2*rhoNext/delta*z[i]
		}
		rho = rhoNext
	}
}

// dampedJacobi runs fixed-point iterations x += omega*inv(D)*(b - A*x).
type dampedJacobi struct {
	steps int
	omega float64
}

func (s dampedJacobi) Smooth(A Matrix, dinv, b, x []float64) {
	n := len(b)
	r := make([]float64, n)
	for k := 0; k < s.steps; k++ {
		vecSub(r, b, Mul(A, x))
		for i := range x {
			x[i] += s.omega * dinv[i] * r[i]
		}
	}
}

// ssor runs symmetric successive over-relaxation sweeps: a forward
// Gauss-Seidel pass followed by a backward pass, optionally over-relaxed.
type ssor struct {
	steps int
	omega float64
}

func (s ssor) Smooth(A Matrix, dinv, b, x []float64) {
	n := len(b)
	for k := 0; k < s.steps; k++ {
		for i := 0; i < n; i++ {
			s.relaxRow(A, dinv, b, x, i)
		}
		for i := n - 1; i >= 0; i-- {
			s.relaxRow(A, dinv, b, x, i)
		}
	}
}

func (s ssor) relaxRow(A Matrix, dinv, b, x []float64, i int) {
	tot := 0.0
	for _, nz := range A.SweepRow(i) {
		if nz.J != i {
			tot += nz.Val * x[nz.J]
		}
	}
	x[i] = (1-s.omega)*x[i] + s.omega*dinv[i]*(b[i]-tot)
}

// estimateMaxEig estimates the largest eigenvalue of inv(D)*A by power
// iteration.  The start vector is a fixed pseudo-random sequence so repeated
// setups of the same operator produce identical hierarchies.
func estimateMaxEig(A Matrix, dinv []float64, steps int) float64 {
	n := len(dinv)
	x := make([]float64, n)
	seed := uint64(1)
	for i := range x {
		seed = seed*6364136223846793005 + 1442695040888963407
		x[i] = 0.5 + float64(seed%1024)/1024
	}

	lambda := 1.0
	for k := 0; k < steps; k++ {
		y := Mul(A, x)
		for i := range y {
			y[i] *= dinv[i]
		}
		lambda = norm2(y)
		if lambda == 0 {
			return 1
		}
		for i := range x {
			x[i] = y[i] / lambda
		}
	}
	return lambda
}
