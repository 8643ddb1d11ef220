package main

import (
	"fmt"
	"math"
)

// FaceLabel identifies one of the six outer faces of the RVE box.
type FaceLabel int

const (
	Left   FaceLabel = 1 // x low
	Right  FaceLabel = 2 // x high
	Bottom FaceLabel = 3 // z low
	Top    FaceLabel = 4 // z high
	Front  FaceLabel = 5 // y low
	Back   FaceLabel = 6 // y high
)

// faceOrder is the priority order used when a facet matches more than one
// face plane: the first matching label wins.
var faceOrder = []FaceLabel{Left, Right, Bottom, Top, Front, Back}

func (l FaceLabel) String() string {
	switch l {
	case Left:
		return "left"
	case Right:
		return "right"
	case Bottom:
		return "bottom"
	case Top:
		return "top"
	case Front:
		return "front"
	case Back:
		return "back"
	}
	return fmt.Sprintf("face(%d)", int(l))
}

// plane returns the coordinate axis the face is normal to and the plane
// position taken from the box.
func (l FaceLabel) plane(box *Box) (axis int, pos float64) {
	switch l {
	case Left:
		return 0, box.Low[0]
	case Right:
		return 0, box.Up[0]
	case Bottom:
		return 2, box.Low[2]
	case Top:
		return 2, box.Up[2]
	case Front:
		return 1, box.Low[1]
	case Back:
		return 1, box.Up[1]
	}
	panic(fmt.Sprintf("bad face label %v", int(l)))
}

// FaceMatchTol returns the default distance tolerance for matching facet
// nodes against the box face planes.  Note that for meshes far from the
// origin this grows with the box position; pass an explicit tolerance to
// TagBoundaryFacets when that is not acceptable.  For origin-centered boxes
// the formula collapses to zero, which would demand bit-exact coordinates
// from imported meshes, so a small extent-relative floor takes over.
func FaceMatchTol(box *Box) float64 {
	sum := 0.0
	for d := range box.Low {
		v := box.Low[d] + box.Up[d]
		sum += v * v
	}
	if tol := math.Sqrt(sum); tol > 0 {
		return tol
	}
	return 1e-8 * box.MeanExtent()
}

// OnFace reports whether every node of the facet lies within tol of the
// face's plane.
func OnFace(m *Mesh, f Facet, label FaceLabel, box *Box, tol float64) bool {
	axis, pos := label.plane(box)
	for _, n := range f.Nodes {
		if math.Abs(m.Verts[n][axis]-pos) > tol {
			return false
		}
	}
	return true
}

// FacetTags maps each outer face label to the boundary facets lying on it.
// Facets matching no face plane (interior pore surfaces) carry no tag.
type FacetTags struct {
	byLabel map[FaceLabel][]Facet
}

// Find returns the facets tagged with label.
func (t *FacetTags) Find(label FaceLabel) []Facet {
	return t.byLabel[label]
}

// TagBoundaryFacets classifies the mesh boundary facets against the six box
// face planes.  A facet matching several planes (corner and edge facets under
// a loose tolerance) is assigned to the first match in label order.  Every
// face must receive at least one facet; untagged facets are assumed to be
// pore surfaces and are left free.
func TagBoundaryFacets(m *Mesh, box *Box, tol float64) (*FacetTags, error) {
	tags := &FacetTags{byLabel: map[FaceLabel][]Facet{}}
	for _, f := range m.BoundaryFacets() {
		for _, label := range faceOrder {
			if OnFace(m, f, label, box, tol) {
				tags.byLabel[label] = append(tags.byLabel[label], f)
				break
			}
		}
	}
	for _, label := range faceOrder {
		if len(tags.byLabel[label]) == 0 {
			return nil, fmt.Errorf("no boundary facets found on %v face (tol %v)", label, tol)
		}
	}
	return tags, nil
}
