package main

import (
	"math"
	"testing"
)

func TestBoxMeshCounts(t *testing.T) {
	tests := []struct {
		nx, ny, nz int
		nodes      int
		elems      int
		facets     int
	}{
		{1, 1, 1, 8, 6, 12},
		{2, 2, 2, 27, 48, 48},
		{2, 1, 1, 12, 12, 20},
	}
	for _, test := range tests {
		m, err := NewBoxMesh([]float64{0, 0, 0}, []float64{1, 1, 1}, test.nx, test.ny, test.nz, 1)
		if err != nil {
			t.Fatalf("NewBoxMesh(%v,%v,%v): %v", test.nx, test.ny, test.nz, err)
		}
		if got := m.NumNodes(); got != test.nodes {
			t.Errorf("%vx%vx%v nodes: got %v, want %v", test.nx, test.ny, test.nz, got, test.nodes)
		}
		if got := m.NumElems(); got != test.elems {
			t.Errorf("%vx%vx%v elems: got %v, want %v", test.nx, test.ny, test.nz, got, test.elems)
		}
		if got := len(m.BoundaryFacets()); got != test.facets {
			t.Errorf("%vx%vx%v boundary facets: got %v, want %v", test.nx, test.ny, test.nz, got, test.facets)
		}
		if err := m.Validate(); err != nil {
			t.Errorf("%vx%vx%v Validate: %v", test.nx, test.ny, test.nz, err)
		}
	}
}

func TestBoxMeshVolume(t *testing.T) {
	lo := []float64{-0.5, -1, 0}
	hi := []float64{0.5, 1, 2}
	for _, order := range []int{1, 2} {
		m, err := NewBoxMesh(lo, hi, 3, 2, 2, order)
		if err != nil {
			t.Fatalf("NewBoxMesh order %v: %v", order, err)
		}
		vol := 0.0
		for e := 0; e < m.NumElems(); e++ {
			v, err := m.Element(e).Volume()
			if err != nil {
				t.Fatalf("order %v element %v: %v", order, e, err)
			}
			vol += v
		}
		if math.Abs(vol-4) > 1e-12 {
			t.Errorf("order %v: total volume %v, want 4", order, vol)
		}
	}
}

func TestBoxMeshBounds(t *testing.T) {
	lo := []float64{-1, 0, 2}
	hi := []float64{1, 3, 5}
	m, err := NewBoxMesh(lo, hi, 2, 2, 2, 1)
	if err != nil {
		t.Fatalf("NewBoxMesh: %v", err)
	}
	box := m.Bounds()
	for d := 0; d < 3; d++ {
		if box.Low[d] != lo[d] || box.Up[d] != hi[d] {
			t.Errorf("bounds axis %v: got [%v, %v], want [%v, %v]", d, box.Low[d], box.Up[d], lo[d], hi[d])
		}
	}
}

func TestBoxMeshSecondOrder(t *testing.T) {
	m, err := NewBoxMesh([]float64{0, 0, 0}, []float64{1, 1, 1}, 1, 1, 1, 2)
	if err != nil {
		t.Fatalf("NewBoxMesh: %v", err)
	}
	if m.Order != 2 {
		t.Fatalf("order: got %v, want 2", m.Order)
	}
	// 8 corners plus one midside node per unique edge (19 edges in the
	// 6-tet cube decomposition)
	if got := m.NumNodes(); got != 27 {
		t.Errorf("nodes: got %v, want 27", got)
	}
	for _, conn := range m.Elems {
		if len(conn) != 10 {
			t.Fatalf("element has %v nodes, want 10", len(conn))
		}
	}

	// midside nodes sit halfway between their edge vertices
	for _, conn := range m.Elems {
		for k, edge := range tet10Edges {
			a, b, mid := m.Verts[conn[edge[0]]], m.Verts[conn[edge[1]]], m.Verts[conn[4+k]]
			for d := 0; d < 3; d++ {
				if math.Abs(mid[d]-(a[d]+b[d])/2) > 1e-14 {
					t.Fatalf("midside node %v not on edge midpoint", conn[4+k])
				}
			}
		}
	}

	// second-order boundary facets carry 6 nodes
	for _, f := range m.BoundaryFacets() {
		if len(f.Nodes) != 6 {
			t.Errorf("facet %v has %v nodes, want 6", f.ID, len(f.Nodes))
		}
	}
}

func TestBoundaryFacetsDeterministic(t *testing.T) {
	m1, _ := NewBoxMesh([]float64{0, 0, 0}, []float64{1, 1, 1}, 2, 2, 2, 1)
	m2, _ := NewBoxMesh([]float64{0, 0, 0}, []float64{1, 1, 1}, 2, 2, 2, 1)

	f1 := m1.BoundaryFacets()
	f2 := m2.BoundaryFacets()
	if len(f1) != len(f2) {
		t.Fatalf("facet counts differ: %v vs %v", len(f1), len(f2))
	}
	for i := range f1 {
		for k := range f1[i].Nodes {
			if f1[i].Nodes[k] != f2[i].Nodes[k] {
				t.Fatalf("facet %v differs between identical meshes", i)
			}
		}
	}
}

func TestBoxMeshBadArgs(t *testing.T) {
	lo := []float64{0, 0, 0}
	hi := []float64{1, 1, 1}
	if _, err := NewBoxMesh(lo, hi, 0, 1, 1, 1); err == nil {
		t.Errorf("expected error for zero cell count")
	}
	if _, err := NewBoxMesh(lo, hi, 1, 1, 1, 3); err == nil {
		t.Errorf("expected error for unsupported order")
	}
	if _, err := NewBoxMesh(hi, lo, 1, 1, 1, 1); err == nil {
		t.Errorf("expected error for inverted box")
	}
}
