package scene

import (
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"fresnel-scene/core"
	"fresnel-scene/math"
)

// LoadGLTFMesh opens a .glb or .gltf file and returns the geometry of its
// first triangle primitive, scaled so its bounding sphere has radius r.
// Materials, textures and the node hierarchy are ignored.
func LoadGLTFMesh(path string, radius float32) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("gltf open %q: %w", path, err)
	}

	for mi, gm := range doc.Meshes {
		for pi, prim := range gm.Primitives {
			if prim.Mode != gltf.PrimitiveTriangles {
				continue
			}
			m, hasNormals, err := loadGLTFPrimitive(doc, gm.Name, pi, prim)
			if err != nil {
				return nil, fmt.Errorf("gltf %q mesh %d prim %d: %w", path, mi, pi, err)
			}
			fitRadius(m, radius)
			if !hasNormals {
				radialNormals(m)
			}
			return m, nil
		}
	}
	return nil, fmt.Errorf("gltf %q: no triangle primitives", path)
}

// loadGLTFPrimitive converts one glTF mesh primitive into a scene.Mesh and
// reports whether every vertex carried a normal.
func loadGLTFPrimitive(doc *gltf.Document, meshName string, primIdx int, prim *gltf.Primitive) (*Mesh, bool, error) {
	name := fmt.Sprintf("%s_p%d", meshName, primIdx)
	if meshName == "" {
		name = fmt.Sprintf("prim_%d", primIdx)
	}

	posIdx, ok := prim.Attributes["POSITION"]
	if !ok {
		return nil, false, fmt.Errorf("no POSITION attribute")
	}
	positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
	if err != nil {
		return nil, false, fmt.Errorf("positions: %w", err)
	}

	var normals [][3]float32
	if idx, ok := prim.Attributes["NORMAL"]; ok {
		normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, false, fmt.Errorf("normals: %w", err)
		}
	}
	var uvs [][2]float32
	if idx, ok := prim.Attributes["TEXCOORD_0"]; ok {
		uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
		if err != nil {
			return nil, false, fmt.Errorf("texcoords: %w", err)
		}
	}

	verts := make([]core.Vertex, len(positions))
	for i, p := range positions {
		v := core.Vertex{Position: math.Vec3{X: p[0], Y: p[1], Z: p[2]}}
		if i < len(normals) {
			n := normals[i]
			v.Normal = math.Vec3{X: n[0], Y: n[1], Z: n[2]}
		}
		if i < len(uvs) {
			v.UV = math.Vec2{X: uvs[i][0], Y: uvs[i][1]}
		}
		verts[i] = v
	}

	var indices []uint32
	if prim.Indices != nil {
		indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
		if err != nil {
			return nil, false, fmt.Errorf("indices: %w", err)
		}
	}

	if err := checkTriangles(len(positions), indices); err != nil {
		return nil, false, err
	}
	return CreateMeshFromData(name, verts, indices), len(normals) >= len(positions), nil
}

// checkTriangles rejects index data that would read past the vertices or
// leave a partial triangle.
func checkTriangles(vertexCount int, indices []uint32) error {
	if vertexCount == 0 {
		return fmt.Errorf("no vertices")
	}
	if len(indices) == 0 {
		if vertexCount%3 != 0 {
			return fmt.Errorf("%d vertices do not form whole triangles", vertexCount)
		}
		return nil
	}
	if len(indices)%3 != 0 {
		return fmt.Errorf("%d indices do not form whole triangles", len(indices))
	}
	for i, idx := range indices {
		if int(idx) >= vertexCount {
			return fmt.Errorf("index %d at %d out of range for %d vertices", idx, i, vertexCount)
		}
	}
	return nil
}

// boundsCenter is the centre of m's axis-aligned bounding box.
func boundsCenter(m *Mesh) math.Vec3 {
	lo, hi := m.Vertices[0].Position, m.Vertices[0].Position
	for _, v := range m.Vertices[1:] {
		p := v.Position
		lo = math.Vec3{X: min(lo.X, p.X), Y: min(lo.Y, p.Y), Z: min(lo.Z, p.Z)}
		hi = math.Vec3{X: max(hi.X, p.X), Y: max(hi.Y, p.Y), Z: max(hi.Z, p.Z)}
	}
	return lo.Add(hi).Mul(0.5)
}

// radialNormals points every normal away from the mesh centre, the closest
// guess for a closed reflector exported without normals.
func radialNormals(m *Mesh) {
	if len(m.Vertices) == 0 {
		return
	}
	center := boundsCenter(m)
	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Position.Sub(center).Normalize()
	}
}

// fitRadius recentres m on its bounding box and scales it to radius.
func fitRadius(m *Mesh, radius float32) {
	if len(m.Vertices) == 0 || radius <= 0 {
		return
	}
	center := boundsCenter(m)

	var extent float32
	for _, v := range m.Vertices {
		extent = max(extent, v.Position.Distance(center))
	}
	if extent == 0 {
		return
	}
	scale := radius / extent
	for i := range m.Vertices {
		m.Vertices[i].Position = m.Vertices[i].Position.Sub(center).Mul(scale)
	}
}
