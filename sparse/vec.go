package sparse

import "gonum.org/v1/gonum/floats"

func vecAdd(result, a, b []float64) {
	if len(a) != len(b) {
		panic("inconsistent lengths for vector addition")
	}
	for i := range a {
		result[i] = a[i] + b[i]
	}
}

func vecSub(result, a, b []float64) {
	if len(a) != len(b) {
		panic("inconsistent lengths for vector subtraction")
	}
	for i := range a {
		result[i] = a[i] - b[i]
	}
}

// dot performs a vector*vector dot product.
func dot(a, b []float64) float64 {
	if len(a) != len(b) {
		panic("inconsistent lengths for dot product")
	}
	return floats.Dot(a, b)
}

func norm2(a []float64) float64 { return floats.Norm(a, 2) }

// axpy computes dst += alpha*x.
func axpy(dst []float64, alpha float64, x []float64) {
	if len(dst) != len(x) {
		panic("inconsistent lengths for axpy")
	}
	floats.AddScaled(dst, alpha, x)
}

func vecMult(v []float64, mult float64) []float64 {
	result := make([]float64, len(v))
	for i := range v {
		result[i] = mult * v[i]
	}
	return result
}
