package main

import (
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// two tets sharing a face, gmsh 2.2 format with non-contiguous node ids and a
// surface triangle that must be skipped
const twoTetMsh = `$MeshFormat
2.2 0 8
$EndMeshFormat
$Nodes
5
1 0 0 0
2 1 0 0
3 0 1 0
5 0 0 1
7 1 1 1
$EndNodes
$Elements
3
1 2 2 0 1 1 2 3
2 4 2 0 1 1 2 3 5
3 4 2 0 1 2 3 5 7
$EndElements
`

func TestReadGmsh(t *testing.T) {
	m, err := ReadGmsh(strings.NewReader(twoTetMsh))
	if err != nil {
		t.Fatalf("ReadGmsh: %v", err)
	}
	if got := m.NumNodes(); got != 5 {
		t.Errorf("nodes: got %v, want 5", got)
	}
	if got := m.NumElems(); got != 2 {
		t.Errorf("elems: got %v, want 2 (surface triangle must be skipped)", got)
	}
	if m.Order != 1 {
		t.Errorf("order: got %v, want 1", m.Order)
	}

	// node id 7 (the last node line) must remap to local index 4
	want := []float64{1, 1, 1}
	for d := 0; d < 3; d++ {
		if m.Verts[4][d] != want[d] {
			t.Fatalf("node remap broken: Verts[4] = %v, want %v", m.Verts[4], want)
		}
	}

	vol := 0.0
	for e := 0; e < m.NumElems(); e++ {
		v, err := m.Element(e).Volume()
		if err != nil {
			t.Fatalf("element %v: %v", e, err)
		}
		vol += v
	}
	if math.Abs(vol-0.5) > 1e-12 {
		t.Errorf("total volume %v, want 1/2", vol)
	}
}

func TestReadGmshFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "two_tet.msh")
	if err := os.WriteFile(path, []byte(twoTetMsh), 0644); err != nil {
		t.Fatal(err)
	}
	m, err := ReadGmshFile(path)
	if err != nil {
		t.Fatalf("ReadGmshFile: %v", err)
	}
	if got := m.NumElems(); got != 2 {
		t.Errorf("elems: got %v, want 2", got)
	}
}

func TestReadGmshErrors(t *testing.T) {
	tests := []struct {
		name string
		msh  string
	}{
		{"empty", ""},
		{"no tets", "$Nodes\n1\n1 0 0 0\n$EndNodes\n$Elements\n1\n1 2 2 0 1 1 1 1\n$EndElements\n"},
		{"bad format", "$MeshFormat\n4.1 0 8\n$EndMeshFormat\n"},
		{"unknown node", "$Nodes\n1\n1 0 0 0\n$EndNodes\n$Elements\n1\n1 4 2 0 1 1 2 3 4\n$EndElements\n"},
		{"mixed order", twoTetMsh + "$Elements\n1\n4 11 2 0 1 1 2 3 5 1 2 3 5 5 5\n$EndElements\n"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if _, err := ReadGmsh(strings.NewReader(test.msh)); err == nil {
				t.Errorf("expected error")
			}
		})
	}
}
