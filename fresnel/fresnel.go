// Package fresnel describes the reflect/refract shader used for the mirror
// sphere: GLSL sources, the typed uniform set, and a CPU shading function
// that performs the same math for the software backend.
package fresnel

import (
	"github.com/chewxy/math32"

	"fresnel-scene/core"
	"fresnel-scene/math"
	"fresnel-scene/scene"
)

// Params are the constant inputs of the shader.
type Params struct {
	RefractionRatio float32 `toml:"refraction_ratio"`
	Bias            float32 `toml:"bias"`
	Power           float32 `toml:"power"`
	Scale           float32 `toml:"scale"`
	// Dispersion offsets the green and blue refraction ratios by one and two
	// steps of this fraction. Zero refracts all channels alike.
	Dispersion float32 `toml:"dispersion"`
}

func DefaultParams() Params {
	return Params{
		RefractionRatio: 1.03,
		Bias:            0.1,
		Power:           2.0,
		Scale:           1.0,
		Dispersion:      0.01,
	}
}

// MixFactor is bias + scale * (1 + cosTheta)^power clamped to [0, 1], where
// cosTheta is the cosine between the view direction and the normal. 0 keeps
// only the refracted sample, 1 only the reflected one. NaN inputs yield 0.
func MixFactor(bias, scale, power, cosTheta float32) float32 {
	cosTheta = clampf(cosTheta, -1, 1)
	f := bias + scale*math32.Pow(1+cosTheta, power)
	if math32.IsNaN(f) {
		return 0
	}
	return clampf(f, 0, 1)
}

// Program is the shader program shared by every Fresnel material.
var Program = &scene.ShaderProgram{
	Name:           "fresnel",
	VertexSource:   VertexSource,
	FragmentSource: FragmentSource,
	Shade:          Shade,
}

// Uniforms builds the uniform set for p sampling env.
func Uniforms(p Params, env scene.CubeSampler) *scene.Uniforms {
	return scene.NewUniforms(
		scene.FloatUniform(UniformRefractionRatio, p.RefractionRatio),
		scene.FloatUniform(UniformBias, p.Bias),
		scene.FloatUniform(UniformPower, p.Power),
		scene.FloatUniform(UniformScale, p.Scale),
		scene.FloatUniform(UniformDispersion, p.Dispersion),
		scene.CubeUniform(UniformEnvironment, env),
	)
}

// NewMaterial returns a Fresnel material whose environment is env,
// typically the render target of a cube camera.
func NewMaterial(p Params, env scene.CubeSampler) *scene.ShaderMaterial {
	return &scene.ShaderMaterial{
		Name:     "fresnel",
		Program:  Program,
		Uniforms: Uniforms(p, env),
		Side:     scene.SideFront,
	}
}

// Shade is the CPU version of FragmentSource.
func Shade(f scene.Fragment, u *scene.Uniforms) core.Color {
	env := u.Cube(UniformEnvironment)
	if env == nil {
		return core.ColorBlack
	}
	ratio := u.Float(UniformRefractionRatio)
	dispersion := u.Float(UniformDispersion)

	incident := f.WorldPosition.Sub(f.CameraPosition)
	i := incident.Normalize()
	n := f.Normal.Normalize()

	sample := env.SampleCube
	if ms, ok := env.(scene.MipSampler); ok {
		if level := scene.MipLevel(f.PixelAngle, ms.FaceSize()); level > 0 {
			sample = func(dir math.Vec3) core.Color { return ms.SampleLevel(dir, level) }
		}
	}

	reflected := sample(incident.Reflect(n))

	refracted := core.Color{A: 1}
	refracted.R = sample(i.Refract(n, ratio)).R
	refracted.G = sample(i.Refract(n, ratio*(1-dispersion))).G
	refracted.B = sample(i.Refract(n, ratio*(1-2*dispersion))).B

	mix := MixFactor(u.Float(UniformBias), u.Float(UniformScale), u.Float(UniformPower), i.Dot(n))
	return refracted.Lerp(reflected, mix)
}

func clampf(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
