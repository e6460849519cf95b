package geom

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strings"

	"gonum.org/v1/gonum/spatial/r3"
)

// A Mesh is an indexed triangle mesh as read from a model file.
type Mesh struct {
	Header string

	Verts [][3]float64
	Tris  [][3]int
}

// ReadSTL reads a binary STL file. Shared vertexes are merged. Facet
// normals in the file are ignored; they are recomputed from the
// winding.
func ReadSTL(r io.Reader) (*Mesh, error) {
	m := new(Mesh)

	var header struct {
		H    [80]byte
		NTri uint32
	}
	if err := binary.Read(r, binary.LittleEndian, &header); err != nil {
		return nil, fmt.Errorf("reading STL header: %w", err)
	}
	m.Header = strings.TrimRight(string(header.H[:]), " \x00")

	vertMap := make(map[[3]float32]int)

	var vert [3]float32
	var tri [3]int
	triBuf := make([]byte, 4*3*4+2)
	for i := 0; i < int(header.NTri); i++ {
		// Read a triangle
		if _, err := io.ReadFull(r, triBuf); err != nil {
			return nil, fmt.Errorf("reading STL triangle %d of %d: %w", i, header.NTri, err)
		}
		// Read the vertexes.
		for v := range tri {
			for c := range vert {
				const start = 3 * 4 // Skip normal
				vert[c] = math.Float32frombits(binary.LittleEndian.Uint32(triBuf[start+12*v+4*c:]))
			}
			vertIndex, ok := vertMap[vert]
			if !ok {
				vertIndex = len(m.Verts)
				m.Verts = append(m.Verts, [3]float64{float64(vert[0]), float64(vert[1]), float64(vert[2])})
				vertMap[vert] = vertIndex
			}
			tri[v] = vertIndex
		}
		m.Tris = append(m.Tris, tri)
	}

	return m, nil
}

// Scale multiplies every vertex by f, for example to convert a model
// in inches to meters.
func (m *Mesh) Scale(f float64) {
	for i := range m.Verts {
		for c := range m.Verts[i] {
			m.Verts[i][c] *= f
		}
	}
}

// Triangles returns the mesh as a triangle list.
func (m *Mesh) Triangles() []r3.Triangle {
	tris := make([]r3.Triangle, len(m.Tris))
	for i, idxs := range m.Tris {
		for j, idx := range idxs {
			v := m.Verts[idx]
			tris[i][j] = r3.Vec{X: v[0], Y: v[1], Z: v[2]}
		}
	}
	return tris
}
