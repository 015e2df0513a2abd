package scene

import (
	"github.com/chewxy/math32"

	"fresnel-scene/core"
	"fresnel-scene/math"
)

// CreateSphere generates a UV sphere wound counter-clockwise when seen from
// outside. segments run around the equator, rings from pole to pole.
func CreateSphere(radius float32, segments, rings int) *Mesh {
	if segments < 3 {
		segments = 3
	}
	if rings < 2 {
		rings = 2
	}

	vertices := make([]core.Vertex, 0, (rings+1)*(segments+1))
	indices := make([]uint32, 0, rings*segments*6)

	for ring := 0; ring <= rings; ring++ {
		phi := float32(ring) * math32.Pi / float32(rings)
		sinPhi, cosPhi := math32.Sincos(phi)

		for seg := 0; seg <= segments; seg++ {
			theta := float32(seg) * 2 * math32.Pi / float32(segments)
			sinTheta, cosTheta := math32.Sincos(theta)

			normal := math.Vec3{X: sinPhi * cosTheta, Y: cosPhi, Z: sinPhi * sinTheta}
			vertices = append(vertices, core.Vertex{
				Position: normal.Mul(radius),
				Normal:   normal,
				UV:       math.Vec2{X: float32(seg) / float32(segments), Y: float32(ring) / float32(rings)},
			})
		}
	}

	for ring := 0; ring < rings; ring++ {
		for seg := 0; seg < segments; seg++ {
			current := uint32(ring*(segments+1) + seg)
			next := current + uint32(segments+1)

			indices = append(indices, current, current+1, next)
			indices = append(indices, current+1, next+1, next)
		}
	}

	return CreateMeshFromData("Sphere", vertices, indices)
}

// CreatePlane generates a plane in XZ facing +Y, split into segments x
// segments quads. UVs span [0, 1] across the plane.
func CreatePlane(width, depth float32, segments int) *Mesh {
	if segments < 1 {
		segments = 1
	}

	vertices := make([]core.Vertex, 0, (segments+1)*(segments+1))
	indices := make([]uint32, 0, segments*segments*6)

	halfW := width / 2
	halfD := depth / 2

	for z := 0; z <= segments; z++ {
		for x := 0; x <= segments; x++ {
			u := float32(x) / float32(segments)
			v := float32(z) / float32(segments)

			vertices = append(vertices, core.Vertex{
				Position: math.Vec3{X: -halfW + u*width, Y: 0, Z: -halfD + v*depth},
				Normal:   math.Vec3Up,
				UV:       math.Vec2{X: u, Y: v},
			})
		}
	}

	for z := 0; z < segments; z++ {
		for x := 0; x < segments; x++ {
			topLeft := uint32(z*(segments+1) + x)
			topRight := topLeft + 1
			bottomLeft := topLeft + uint32(segments+1)
			bottomRight := bottomLeft + 1

			indices = append(indices, topLeft, bottomLeft, topRight)
			indices = append(indices, topRight, bottomLeft, bottomRight)
		}
	}

	return CreateMeshFromData("Plane", vertices, indices)
}

// CreateCube generates an axis-aligned cube centred on the origin with
// outward-facing, counter-clockwise faces.
func CreateCube(size float32) *Mesh {
	s := size / 2

	type face struct {
		normal  math.Vec3
		corners [4]math.Vec3
	}
	faces := [6]face{
		{math.Vec3{X: 1}, [4]math.Vec3{{X: s, Y: -s, Z: -s}, {X: s, Y: s, Z: -s}, {X: s, Y: s, Z: s}, {X: s, Y: -s, Z: s}}},
		{math.Vec3{X: -1}, [4]math.Vec3{{X: -s, Y: -s, Z: s}, {X: -s, Y: s, Z: s}, {X: -s, Y: s, Z: -s}, {X: -s, Y: -s, Z: -s}}},
		{math.Vec3{Y: 1}, [4]math.Vec3{{X: -s, Y: s, Z: -s}, {X: -s, Y: s, Z: s}, {X: s, Y: s, Z: s}, {X: s, Y: s, Z: -s}}},
		{math.Vec3{Y: -1}, [4]math.Vec3{{X: -s, Y: -s, Z: s}, {X: -s, Y: -s, Z: -s}, {X: s, Y: -s, Z: -s}, {X: s, Y: -s, Z: s}}},
		{math.Vec3{Z: 1}, [4]math.Vec3{{X: -s, Y: -s, Z: s}, {X: s, Y: -s, Z: s}, {X: s, Y: s, Z: s}, {X: -s, Y: s, Z: s}}},
		{math.Vec3{Z: -1}, [4]math.Vec3{{X: s, Y: -s, Z: -s}, {X: -s, Y: -s, Z: -s}, {X: -s, Y: s, Z: -s}, {X: s, Y: s, Z: -s}}},
	}
	uvs := [4]math.Vec2{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}, {X: 0, Y: 1}}

	vertices := make([]core.Vertex, 0, 24)
	indices := make([]uint32, 0, 36)
	for _, f := range faces {
		base := uint32(len(vertices))
		for i, p := range f.corners {
			vertices = append(vertices, core.Vertex{Position: p, Normal: f.normal, UV: uvs[i]})
		}
		indices = append(indices, base, base+1, base+2, base+2, base+3, base)
	}

	return CreateMeshFromData("Cube", vertices, indices)
}
