package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// gmsh element type codes for the elements we accept.
const (
	gmshTet4  = 4
	gmshTet10 = 11
)

// ReadGmsh parses a Gmsh 2.2 ASCII mesh.  Only tetrahedral volume elements
// are kept; lower-dimensional elements (points, lines, surface triangles)
// are skipped.  Mixing tet4 and tet10 elements is an error.
func ReadGmsh(r io.Reader) (*Mesh, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 1024*1024), 1024*1024)

	next := func() (string, bool) {
		for sc.Scan() {
			line := strings.TrimSpace(sc.Text())
			if line != "" {
				return line, true
			}
		}
		return "", false
	}

	var verts [][]float64
	var elems [][]int
	order := 0
	idmap := map[int]int{}

	for {
		line, ok := next()
		if !ok {
			break
		}
		switch line {
		case "$MeshFormat":
			line, ok = next()
			if !ok {
				return nil, fmt.Errorf("truncated $MeshFormat section")
			}
			fields := strings.Fields(line)
			if len(fields) < 1 || !strings.HasPrefix(fields[0], "2.") {
				return nil, fmt.Errorf("unsupported mesh format %q, want 2.x ASCII", fields[0])
			}
		case "$Nodes":
			line, ok = next()
			if !ok {
				return nil, fmt.Errorf("truncated $Nodes section")
			}
			n, err := strconv.Atoi(line)
			if err != nil {
				return nil, fmt.Errorf("bad node count %q: %v", line, err)
			}
			verts = make([][]float64, 0, n)
			for i := 0; i < n; i++ {
				line, ok = next()
				if !ok {
					return nil, fmt.Errorf("truncated $Nodes section")
				}
				fields := strings.Fields(line)
				if len(fields) != 4 {
					return nil, fmt.Errorf("bad node line %q", line)
				}
				id, err := strconv.Atoi(fields[0])
				if err != nil {
					return nil, fmt.Errorf("bad node id %q: %v", fields[0], err)
				}
				x := make([]float64, 3)
				for d := 0; d < 3; d++ {
					x[d], err = strconv.ParseFloat(fields[d+1], 64)
					if err != nil {
						return nil, fmt.Errorf("bad node coordinate %q: %v", fields[d+1], err)
					}
				}
				idmap[id] = len(verts)
				verts = append(verts, x)
			}
		case "$Elements":
			line, ok = next()
			if !ok {
				return nil, fmt.Errorf("truncated $Elements section")
			}
			n, err := strconv.Atoi(line)
			if err != nil {
				return nil, fmt.Errorf("bad element count %q: %v", line, err)
			}
			for i := 0; i < n; i++ {
				line, ok = next()
				if !ok {
					return nil, fmt.Errorf("truncated $Elements section")
				}
				fields := strings.Fields(line)
				if len(fields) < 3 {
					return nil, fmt.Errorf("bad element line %q", line)
				}
				etype, err := strconv.Atoi(fields[1])
				if err != nil {
					return nil, fmt.Errorf("bad element type %q: %v", fields[1], err)
				}
				var nn, eorder int
				switch etype {
				case gmshTet4:
					nn, eorder = 4, 1
				case gmshTet10:
					nn, eorder = 10, 2
				default:
					continue
				}
				if order == 0 {
					order = eorder
				} else if order != eorder {
					return nil, fmt.Errorf("mixed tet4 and tet10 elements are not supported")
				}
				ntags, err := strconv.Atoi(fields[2])
				if err != nil {
					return nil, fmt.Errorf("bad tag count %q: %v", fields[2], err)
				}
				nodes := fields[3+ntags:]
				if len(nodes) != nn {
					return nil, fmt.Errorf("element line %q has %v nodes, want %v", line, len(nodes), nn)
				}
				conn := make([]int, nn)
				for j, f := range nodes {
					id, err := strconv.Atoi(f)
					if err != nil {
						return nil, fmt.Errorf("bad element node %q: %v", f, err)
					}
					local, ok := idmap[id]
					if !ok {
						return nil, fmt.Errorf("element references unknown node %v", id)
					}
					conn[j] = local
				}
				elems = append(elems, conn)
			}
		default:
			// skip unhandled sections and end markers
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(verts) == 0 {
		return nil, fmt.Errorf("mesh has no nodes")
	}
	if len(elems) == 0 {
		return nil, fmt.Errorf("mesh has no tetrahedral elements")
	}

	m := &Mesh{Verts: verts, Elems: elems, Order: order}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return m, nil
}

// ReadGmshFile reads a Gmsh 2.2 ASCII mesh from disk.
func ReadGmshFile(path string) (*Mesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	m, err := ReadGmsh(f)
	if err != nil {
		return nil, fmt.Errorf("%v: %v", path, err)
	}
	return m, nil
}
