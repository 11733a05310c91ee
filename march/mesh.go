package march

const (
	// VertexStride is the number of floats used by one tetrahedron in a
	// Mesh's vertex buffer.
	VertexStride = 4 * 3
)

// Mesh flattens a tesselation into a vertex buffer for a renderer. Every
// tetrahedron contributes its four corners as consecutive x, y, z triples.
type Mesh struct {
	Base
	tess  *Tesselation
	verts []float32
}

// NewMesh links a new mesh to t and builds it.
func NewMesh(t *Tesselation) (*Mesh, error) {
	m := &Mesh{tess: t}
	if err := Link(m, t); err != nil {
		return nil, err
	}
	return m, nil
}

// Handle rebuilds the vertex buffer, rescanning the tesselation first if
// it or the field is dirty.
func (m *Mesh) Handle() error {
	if m.tess.IsDirty() {
		if err := m.tess.Handle(); err != nil {
			return err
		}
	}

	tetras := m.tess.Tetrahedra()
	verts := make([]float32, 0, len(tetras)*VertexStride)
	for i := range tetras {
		for _, c := range tetras[i].Corners {
			verts = append(verts,
				float32(c.At(0)), float32(c.At(1)), float32(c.At(2)))
		}
	}

	m.mu.Lock()
	m.verts = verts
	m.mu.Unlock()
	m.ClearDirty()

	log.Debugf("Built a mesh of %d vertices.", len(verts)/3)
	return nil
}

// Vertices returns a copy of the vertex buffer.
func (m *Mesh) Vertices() []float32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float32{}, m.verts...)
}

// TetraCount returns the number of tetrahedra in the vertex buffer.
func (m *Mesh) TetraCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.verts) / VertexStride
}
