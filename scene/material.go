package scene

import (
	"fresnel-scene/core"
	"fresnel-scene/math"
)

// Side selects which triangle faces a material draws.
type Side int

const (
	SideFront Side = iota
	SideBack
	SideDouble
)

// Material describes how a node's surface is shaded. The concrete types
// below are the only implementations.
type Material interface {
	MaterialSide() Side
}

// BasicMaterial is unlit: Color, multiplied by Map when set.
type BasicMaterial struct {
	Name  string
	Color core.Color
	Map   *Texture
	Side  Side
}

func (m *BasicMaterial) MaterialSide() Side { return m.Side }

// SkyboxMaterial samples Cube along the local-space position of each
// fragment, which for a box centred on the origin is the view direction.
type SkyboxMaterial struct {
	Cube *CubeTexture
	Side Side
}

func (m *SkyboxMaterial) MaterialSide() Side { return m.Side }

// Fragment is the interpolated input to a CPU shading function.
type Fragment struct {
	WorldPosition  math.Vec3
	Normal         math.Vec3 // world space, not necessarily unit length
	UV             math.Vec2
	CameraPosition math.Vec3
	// PixelAngle is the angle one screen pixel spans, in radians. Zero
	// when the backend does not know it.
	PixelAngle float32
}

// ShadeFunc is the CPU counterpart of a program's fragment stage.
type ShadeFunc func(f Fragment, u *Uniforms) core.Color

// ShaderProgram pairs GLSL sources with an equivalent CPU shading function
// for backends that cannot compile GLSL.
type ShaderProgram struct {
	Name           string
	VertexSource   string
	FragmentSource string
	Shade          ShadeFunc
}

// ShaderMaterial draws with a custom program and its uniforms.
type ShaderMaterial struct {
	Name     string
	Program  *ShaderProgram
	Uniforms *Uniforms
	Side     Side
}

func (m *ShaderMaterial) MaterialSide() Side { return m.Side }
