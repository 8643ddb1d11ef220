package main

import "math"

// Box is an axis-aligned bounding box defined by low and up corner
// coordinates in each dimension.
type Box struct {
	Low []float64
	Up  []float64
}

// NewBox computes the bounding box of the given points.
func NewBox(points [][]float64) *Box {
	if len(points) == 0 {
		return nil
	}
	ndim := len(points[0])
	b := &Box{Low: make([]float64, ndim), Up: make([]float64, ndim)}
	for d := 0; d < ndim; d++ {
		b.Low[d] = math.Inf(1)
		b.Up[d] = math.Inf(-1)
	}
	for _, p := range points {
		for d, v := range p {
			if v < b.Low[d] {
				b.Low[d] = v
			}
			if v > b.Up[d] {
				b.Up[d] = v
			}
		}
	}
	return b
}

// Extent returns the box size along dimension d.
func (b *Box) Extent(d int) float64 { return b.Up[d] - b.Low[d] }

// MeanExtent returns the average of the box sizes over all dimensions.  It is
// the default magnitude for the imposed boundary displacement.
func (b *Box) MeanExtent() float64 {
	tot := 0.0
	for d := range b.Low {
		tot += b.Extent(d)
	}
	return tot / float64(len(b.Low))
}

// Contains returns true if x is inside the box (inclusive of the faces).
func (b *Box) Contains(x []float64) bool {
	for d, v := range x {
		if v < b.Low[d] || v > b.Up[d] {
			return false
		}
	}
	return true
}
