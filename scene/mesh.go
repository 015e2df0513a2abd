package scene

import (
	"fresnel-scene/core"
)

// Mesh holds CPU-side vertex/index data.
// GPU upload is managed by the renderer backend.
type Mesh struct {
	Name     string
	Vertices []core.Vertex
	Indices  []uint32

	// GPUData is set by the renderer backend (e.g. *opengl.GPUMesh).
	GPUData interface{}
}

func CreateMeshFromData(name string, vertices []core.Vertex, indices []uint32) *Mesh {
	return &Mesh{
		Name:     name,
		Vertices: vertices,
		Indices:  indices,
	}
}

// TriangleCount is the number of indexed triangles, or vertex triples when
// the mesh has no indices.
func (m *Mesh) TriangleCount() int {
	if len(m.Indices) > 0 {
		return len(m.Indices) / 3
	}
	return len(m.Vertices) / 3
}

// Triangle returns the vertex indices of triangle i.
func (m *Mesh) Triangle(i int) (uint32, uint32, uint32) {
	if len(m.Indices) > 0 {
		return m.Indices[3*i], m.Indices[3*i+1], m.Indices[3*i+2]
	}
	b := uint32(3 * i)
	return b, b + 1, b + 2
}
