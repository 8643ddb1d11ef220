package main

import (
	"fmt"
	"sort"
)

// tetFaces lists the corner nodes of the four faces of a tetrahedron in
// local numbering.
var tetFaces = [4][3]int{{0, 1, 2}, {0, 1, 3}, {1, 2, 3}, {0, 2, 3}}

// tet10FaceMids lists, per face, the local midside nodes sitting on that
// face's edges (gmsh tet10 numbering).
var tet10FaceMids = [4][3]int{{4, 5, 6}, {4, 9, 7}, {5, 8, 9}, {6, 8, 7}}

// tet10Edges lists the vertex pairs of the six element edges in the order
// the midside nodes 4..9 are numbered.
var tet10Edges = [6][2]int{{0, 1}, {1, 2}, {0, 2}, {0, 3}, {2, 3}, {1, 3}}

// Facet is one triangular boundary face of the mesh.  IDs are assigned in a
// deterministic order (sorted by corner node ids) after extraction.
type Facet struct {
	ID int
	// Nodes holds all mesh nodes on the facet (3 corners, plus 3 midside
	// nodes for second-order meshes), in ascending order.
	Nodes []int
}

// Mesh is a tetrahedral discretization of the RVE volume.  Elements are
// 4-node (Order 1) or 10-node (Order 2) tetrahedra with 3 displacement
// unknowns per node.
type Mesh struct {
	// Verts holds the node coordinates.
	Verts [][]float64
	// Elems holds the element connectivities (4 or 10 node ids each).
	Elems [][]int
	// Order is the element polynomial order (1 or 2).
	Order int

	facets []Facet
	box    *Box
}

func (m *Mesh) NumNodes() int { return len(m.Verts) }
func (m *Mesh) NumElems() int { return len(m.Elems) }

// NumDOF returns the number of scalar displacement unknowns (3 per node).
func (m *Mesh) NumDOF() int { return 3 * len(m.Verts) }

// Element materializes element e for integration.
func (m *Mesh) Element(e int) *Element {
	conn := m.Elems[e]
	x := make([][]float64, len(conn))
	for i, n := range conn {
		x[i] = m.Verts[n]
	}
	return &Element{Conn: conn, X: x, shapes: tetShapes(m.Order), order: m.Order}
}

// Bounds returns the mesh bounding box, computed once from the node
// coordinates.
func (m *Mesh) Bounds() *Box {
	if m.box == nil {
		m.box = NewBox(m.Verts)
	}
	return m.box
}

// Validate checks connectivity consistency against the mesh order.
func (m *Mesh) Validate() error {
	want := 4
	if m.Order == 2 {
		want = 10
	} else if m.Order != 1 {
		return fmt.Errorf("unsupported element order %v", m.Order)
	}
	for e, conn := range m.Elems {
		if len(conn) != want {
			return fmt.Errorf("element %v has %v nodes, want %v for order %v", e, len(conn), want, m.Order)
		}
		for _, n := range conn {
			if n < 0 || n >= len(m.Verts) {
				return fmt.Errorf("element %v references node %v out of range", e, n)
			}
		}
	}
	return nil
}

// BoundaryFacets extracts the triangular faces that belong to exactly one
// element.  The result is computed once and cached; facet ids are stable
// across calls.
func (m *Mesh) BoundaryFacets() []Facet {
	if m.facets != nil {
		return m.facets
	}

	type faceRef struct {
		elem, face int
		count      int
	}
	seen := map[[3]int]*faceRef{}
	for e, conn := range m.Elems {
		for f, corners := range tetFaces {
			var key [3]int
			for i, c := range corners {
				key[i] = conn[c]
			}
			sort.Ints(key[:])
			if ref, ok := seen[key]; ok {
				ref.count++
			} else {
				seen[key] = &faceRef{elem: e, face: f, count: 1}
			}
		}
	}

	keys := make([][3]int, 0, len(seen))
	for key, ref := range seen {
		if ref.count == 1 {
			keys = append(keys, key)
		}
	}
	sort.Slice(keys, func(a, b int) bool {
		for d := 0; d < 3; d++ {
			if keys[a][d] != keys[b][d] {
				return keys[a][d] < keys[b][d]
			}
		}
		return false
	})

	m.facets = make([]Facet, len(keys))
	for id, key := range keys {
		ref := seen[key]
		nodes := []int{key[0], key[1], key[2]}
		if m.Order == 2 {
			conn := m.Elems[ref.elem]
			for _, mid := range tet10FaceMids[ref.face] {
				nodes = append(nodes, conn[mid])
			}
			sort.Ints(nodes)
		}
		m.facets[id] = Facet{ID: id, Nodes: nodes}
	}
	return m.facets
}

// NewBoxMesh generates a structured tetrahedral mesh of the axis-aligned box
// [lo, hi] with nx x ny x nz cells, six tetrahedra per cell.  For order 2,
// midside nodes are inserted on every element edge.
func NewBoxMesh(lo, hi []float64, nx, ny, nz, order int) (*Mesh, error) {
	if nx < 1 || ny < 1 || nz < 1 {
		return nil, fmt.Errorf("box mesh needs at least one cell per direction, got %v x %v x %v", nx, ny, nz)
	}
	if order != 1 && order != 2 {
		return nil, fmt.Errorf("unsupported element order %v", order)
	}
	for d := 0; d < 3; d++ {
		if hi[d] <= lo[d] {
			return nil, fmt.Errorf("degenerate box extent along axis %v", d)
		}
	}

	hx := (hi[0] - lo[0]) / float64(nx)
	hy := (hi[1] - lo[1]) / float64(ny)
	hz := (hi[2] - lo[2]) / float64(nz)

	verts := make([][]float64, 0, (nx+1)*(ny+1)*(nz+1))
	for k := 0; k <= nz; k++ {
		for j := 0; j <= ny; j++ {
			for i := 0; i <= nx; i++ {
				verts = append(verts, []float64{lo[0] + float64(i)*hx, lo[1] + float64(j)*hy, lo[2] + float64(k)*hz})
			}
		}
	}
	vid := func(i, j, k int) int { return i + j*(nx+1) + k*(nx+1)*(ny+1) }

	// six tetrahedra per cell, all sharing the cell's main diagonal
	paths := [6][2]int{{1, 3}, {1, 5}, {2, 3}, {2, 6}, {4, 5}, {4, 6}}
	var elems [][]int
	for k := 0; k < nz; k++ {
		for j := 0; j < ny; j++ {
			for i := 0; i < nx; i++ {
				c := [8]int{
					vid(i, j, k), vid(i+1, j, k), vid(i, j+1, k), vid(i+1, j+1, k),
					vid(i, j, k+1), vid(i+1, j, k+1), vid(i, j+1, k+1), vid(i+1, j+1, k+1),
				}
				for _, p := range paths {
					elems = append(elems, []int{c[0], c[p[0]], c[p[1]], c[7]})
				}
			}
		}
	}

	m := &Mesh{Verts: verts, Elems: elems, Order: 1}
	if order == 2 {
		m.refineToSecondOrder()
	}
	return m, nil
}

// refineToSecondOrder inserts midside nodes on every element edge, turning a
// tet4 mesh into a tet10 mesh in place.
func (m *Mesh) refineToSecondOrder() {
	mids := map[[2]int]int{}
	for e, conn := range m.Elems {
		full := make([]int, 0, 10)
		full = append(full, conn...)
		for _, edge := range tet10Edges {
			a, b := conn[edge[0]], conn[edge[1]]
			key := [2]int{min(a, b), max(a, b)}
			id, ok := mids[key]
			if !ok {
				xa, xb := m.Verts[a], m.Verts[b]
				m.Verts = append(m.Verts, []float64{(xa[0] + xb[0]) / 2, (xa[1] + xb[1]) / 2, (xa[2] + xb[2]) / 2})
				id = len(m.Verts) - 1
				mids[key] = id
			}
			full = append(full, id)
		}
		m.Elems[e] = full
	}
	m.Order = 2
	m.facets = nil
	m.box = nil
}
