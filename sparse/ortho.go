package sparse

import (
	"fmt"
	"math"
)

// Orthonormalize transforms vecs in place into an orthonormal basis using
// modified Gram-Schmidt.  Each vector is orthogonalized against the already
// normalized ones twice before its own normalization - the reorthogonalization
// pass keeps the basis orthogonal to round-off even when the input vectors are
// strongly coupled (rigid rotations are nearly parallel to translations on
// small, off-center domains).  An error is returned if a vector turns out to
// be (numerically) linearly dependent on its predecessors.
func Orthonormalize(vecs [][]float64) error {
	for k, v := range vecs {
		norm0 := norm2(v)
		for pass := 0; pass < 2; pass++ {
			for _, prev := range vecs[:k] {
				axpy(v, -dot(prev, v), prev)
			}
		}
		// a vector in the span of its predecessors is reduced to round-off
		// of its original magnitude
		norm := norm2(v)
		if norm <= 1e-12*norm0 || math.IsNaN(norm) {
			return fmt.Errorf("vector %v is linearly dependent on vectors 0..%v", k, k-1)
		}
		for i := range v {
			v[i] /= norm
		}
	}
	return nil
}

// IsOrthonormal reports whether the vectors are pairwise orthogonal and
// unit-norm to within tol.
func IsOrthonormal(vecs [][]float64, tol float64) bool {
	for k, v := range vecs {
		if math.Abs(norm2(v)-1) > tol {
			return false
		}
		for _, prev := range vecs[:k] {
			if math.Abs(dot(prev, v)) > tol {
				return false
			}
		}
	}
	return true
}
