package software

import (
	"github.com/fogleman/fauxgl"

	"fresnel-scene/core"
	"fresnel-scene/math"
	"fresnel-scene/scene"
)

// Vertices reach the shaders already transformed, so every Vertex stage
// passes its input through.

type basicShader struct {
	material *scene.BasicMaterial
}

func (s *basicShader) Vertex(v fauxgl.Vertex) fauxgl.Vertex { return v }

func (s *basicShader) Fragment(v fauxgl.Vertex) fauxgl.Color {
	c := s.material.Color
	if s.material.Map != nil {
		uv := math.Vec2{X: float32(v.Texture.X), Y: float32(v.Texture.Y)}
		c = c.Mul(s.material.Map.Sample(uv))
	}
	return opaque(c)
}

type skyboxShader struct {
	cube   *scene.CubeTexture
	center math.Vec3
}

func (s *skyboxShader) Vertex(v fauxgl.Vertex) fauxgl.Vertex { return v }

func (s *skyboxShader) Fragment(v fauxgl.Vertex) fauxgl.Color {
	return opaque(s.cube.SampleCube(unvec(v.Position).Sub(s.center)))
}

// programShader runs a ShaderProgram's CPU shading function.
type programShader struct {
	material   *scene.ShaderMaterial
	camera     math.Vec3
	pixelAngle float32
}

func (s *programShader) Vertex(v fauxgl.Vertex) fauxgl.Vertex { return v }

func (s *programShader) Fragment(v fauxgl.Vertex) fauxgl.Color {
	f := scene.Fragment{
		WorldPosition:  unvec(v.Position),
		Normal:         unvec(v.Normal),
		UV:             math.Vec2{X: float32(v.Texture.X), Y: float32(v.Texture.Y)},
		CameraPosition: s.camera,
		PixelAngle:     s.pixelAngle,
	}
	return opaque(s.material.Program.Shade(f, s.material.Uniforms))
}

// opaque drops alpha; every material here is opaque and the context
// alpha-blends by default.
func opaque(c core.Color) fauxgl.Color {
	c.A = 1
	return toFaux(c)
}
