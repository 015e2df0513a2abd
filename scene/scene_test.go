package scene

import (
	gomath "math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fresnel-scene/core"
	"fresnel-scene/math"
)

func TestGetVisibleNodesSkipsHiddenSubtrees(t *testing.T) {
	s := NewScene()
	mesh := CreateCube(1)

	floor := NewMeshNode("floor", mesh, &BasicMaterial{})
	group := NewNode("group")
	child := NewMeshNode("child", mesh, &BasicMaterial{})
	group.AddChild(child)
	s.AddNode(floor)
	s.AddNode(group)

	assert.Equal(t, []*Node{floor, child}, s.GetVisibleNodes())

	group.Visible = false
	assert.Equal(t, []*Node{floor}, s.GetVisibleNodes())
}

func TestWorldMatrixAppliesParentAfterChild(t *testing.T) {
	parent := NewNode("parent")
	parent.SetPosition(math.NewVec3(0, 10, 0))
	parent.SetScale(math.NewVec3(2, 2, 2))

	child := NewNode("child")
	child.SetPosition(math.NewVec3(1, 0, 0))
	parent.AddChild(child)

	assert.Equal(t, math.NewVec3(2, 10, 0), child.WorldPosition())

	parent.SetPosition(math.NewVec3(0, 0, 0))
	assert.Equal(t, math.NewVec3(2, 0, 0), child.WorldPosition(), "moving the parent dirties the child")
}

func TestFind(t *testing.T) {
	s := NewScene()
	n := NewNode("sphere")
	s.AddNode(n)
	assert.Same(t, n, s.Root.Find("sphere"))
	assert.Nil(t, s.Root.Find("missing"))
}

func TestCameraAspect(t *testing.T) {
	cam := NewCamera(45, 1, 0.1, 100)
	cam.SetAspect(1920, 1080)
	assert.Equal(t, float32(1920)/float32(1080), cam.Aspect)

	cam.SetAspect(10, 0)
	assert.Equal(t, float32(1920)/float32(1080), cam.Aspect, "zero height is ignored")
}

func TestCameraViewLooksAtTarget(t *testing.T) {
	cam := NewCamera(45, 1, 0.1, 1000)
	cam.Position = math.NewVec3(0, 150, 400)
	cam.LookAt(math.Vec3Zero)

	clip := math.Vec3Zero.ToVec4(1).MulMat(cam.ViewProjectionMatrix())
	assert.InDelta(t, 0, clip.X/clip.W, 1e-5)
	assert.InDelta(t, 0, clip.Y/clip.W, 1e-5)
}

func triangleNormal(m *Mesh, i int) math.Vec3 {
	a, b, c := m.Triangle(i)
	pa, pb, pc := m.Vertices[a].Position, m.Vertices[b].Position, m.Vertices[c].Position
	return pb.Sub(pa).Cross(pc.Sub(pa))
}

func TestPrimitivesWindOutward(t *testing.T) {
	sphere := CreateSphere(1, 16, 8)
	for i := 0; i < sphere.TriangleCount(); i++ {
		a, _, _ := sphere.Triangle(i)
		n := triangleNormal(sphere, i)
		if n.LengthSqr() < 1e-12 {
			continue // degenerate pole triangle
		}
		assert.Greater(t, n.Dot(sphere.Vertices[a].Normal), float32(0), "sphere triangle %d", i)
	}

	cube := CreateCube(2)
	require.Equal(t, 12, cube.TriangleCount())
	for i := 0; i < cube.TriangleCount(); i++ {
		a, _, _ := cube.Triangle(i)
		assert.Greater(t, triangleNormal(cube, i).Dot(cube.Vertices[a].Normal), float32(0), "cube triangle %d", i)
	}

	plane := CreatePlane(10, 10, 2)
	require.Equal(t, 8, plane.TriangleCount())
	for i := 0; i < plane.TriangleCount(); i++ {
		assert.Greater(t, triangleNormal(plane, i).Y, float32(0), "plane triangle %d", i)
	}
}

func TestTextureSampleWrapAndRepeat(t *testing.T) {
	tex := TextureFromImage("checker", checker2x2())
	tex.Wrap = WrapRepeat

	white, black := core.ColorWhite, core.ColorBlack
	assert.Equal(t, white, tex.Sample(math.NewVec2(0.25, 0.25)))
	assert.Equal(t, black, tex.Sample(math.NewVec2(0.75, 0.25)))
	assert.Equal(t, white, tex.Sample(math.NewVec2(1.25, -0.75)), "repeat wraps both ways")

	tex.Repeat = math.NewVec2(2, 2)
	assert.Equal(t, white, tex.Sample(math.NewVec2(0.6, 0.1)), "repeat 2x folds 0.6 onto 0.2")

	tex.Repeat = math.Vec2{}
	tex.Wrap = WrapClamp
	assert.Equal(t, black, tex.Sample(math.NewVec2(5, 0)), "clamp holds the edge texel")
}

func TestTextureReplaceBumpsVersion(t *testing.T) {
	tex := NewSolidTexture("placeholder", core.ColorBlack)
	tex.Wrap = WrapRepeat
	tex.Replace(TextureFromImage("real", checker2x2()))

	assert.Equal(t, uint64(1), tex.Version)
	assert.Equal(t, 2, tex.Width)
	assert.Equal(t, WrapRepeat, tex.Wrap, "sampling parameters survive")
}

func TestNewSolidCubeTexture(t *testing.T) {
	gray := core.Color{R: 0.5, G: 0.5, B: 0.5, A: 1}
	cube := NewSolidCubeTexture("sky", gray)

	assert.Equal(t, 1, cube.Size())
	assert.Equal(t, "sky+X", cube.Faces[math.CubeFacePosX].Name)
	for _, f := range math.CubeFaces {
		require.NotNil(t, cube.Faces[f])
		assert.Equal(t, gray.NRGBA(), cube.SampleCube(f.Direction()).NRGBA(), "face %v", f)
	}
	_, err := NewCubeTexture("sky", cube.Faces)
	assert.NoError(t, err)
}

func TestMipLevel(t *testing.T) {
	texel := float32(1.5707964) / 512
	cases := []struct {
		name       string
		pixelAngle float32
		faceSize   int
		want       int
	}{
		{"unknown", 0, 512, 0},
		{"no faces", texel, 0, 0},
		{"one texel", texel, 512, 0},
		{"smaller than a texel", texel / 8, 512, 0},
		{"two texels", texel * 2, 512, 1},
		{"eight texels", texel * 8, 512, 3},
		{"nan", float32(gomath.NaN()), 512, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, MipLevel(tc.pixelAngle, tc.faceSize))
		})
	}
}

func TestCubeRenderTargetSampleLevel(t *testing.T) {
	target := NewCubeRenderTarget("env", 4, true)
	assert.Equal(t, 4, target.FaceSize())
	assert.Equal(t, core.ColorBlack, target.SampleLevel(math.Vec3Up, 1), "never rendered")

	cube := target.CPUTexture()
	for _, f := range cube.Faces {
		for i := range f.Pixels {
			f.Pixels[i] = 255
		}
	}
	cube.GenerateMipmaps()
	assert.Equal(t, core.ColorWhite, target.SampleLevel(math.Vec3Up, 2))
}

func TestCubeTextureSampleAndMipmaps(t *testing.T) {
	var faces [6]*Texture
	colors := [6]core.Color{
		core.ColorHex(0xff0000), core.ColorHex(0x00ff00), core.ColorHex(0x0000ff),
		core.ColorHex(0xffff00), core.ColorHex(0x00ffff), core.ColorHex(0xff00ff),
	}
	for i, c := range colors {
		faces[i] = solidFace(c, 8)
	}
	cube, err := NewCubeTexture("sky", faces)
	require.NoError(t, err)

	for _, f := range math.CubeFaces {
		assert.Equal(t, colors[f], cube.SampleCube(f.Direction()), "face %v", f)
	}

	cube.GenerateMipmaps()
	require.Len(t, cube.Levels, 3, "8 -> 4 -> 2 -> 1")
	assert.Equal(t, 1, cube.Levels[2][0].Width)
	assert.Equal(t, colors[math.CubeFacePosY], cube.SampleLevel(math.Vec3Up, 3))
	assert.Equal(t, colors[math.CubeFacePosY], cube.SampleLevel(math.Vec3Up, 99), "level clamps to chain")
}

func TestNewCubeTextureRejectsMismatchedFaces(t *testing.T) {
	var faces [6]*Texture
	for i := range faces {
		faces[i] = solidFace(core.ColorWhite, 4)
	}
	faces[3] = solidFace(core.ColorWhite, 2)

	_, err := NewCubeTexture("bad", faces)
	assert.ErrorContains(t, err, "-Y")

	faces[3] = nil
	_, err = NewCubeTexture("bad", faces)
	assert.ErrorContains(t, err, "missing")
}

func TestCubeRenderTargetSampling(t *testing.T) {
	target := NewCubeRenderTarget("env", 4, true)
	assert.Equal(t, core.ColorBlack, target.SampleCube(math.Vec3Up), "unrendered target is black")

	cube := target.CPUTexture()
	assert.Same(t, cube, target.CPUTexture())
	assert.Equal(t, 4, cube.Size())
}

func TestUniformValidation(t *testing.T) {
	env := NewCubeRenderTarget("env", 4, false)
	var nilTarget *CubeRenderTarget
	nan := float32(0)
	nan = nan / nan

	cases := []struct {
		name string
		set  *Uniforms
		ok   bool
	}{
		{"valid", NewUniforms(FloatUniform("fresnelBias", 0.1), CubeUniform("tCube", env)), true},
		{"empty name", NewUniforms(FloatUniform("", 1)), false},
		{"nan float", NewUniforms(FloatUniform("fresnelPower", nan)), false},
		{"vec3", NewUniforms(Uniform{Name: "tint", Kind: UniformVec3, Vec3: math.Vec3{X: 1, Y: 0.5}}), true},
		{"nan vec3", NewUniforms(Uniform{Name: "tint", Kind: UniformVec3, Vec3: math.Vec3{Y: nan}}), false},
		{"nil cube", NewUniforms(CubeUniform("tCube", nil)), false},
		{"typed nil cube", NewUniforms(CubeUniform("tCube", nilTarget)), false},
		{"duplicate", NewUniforms(FloatUniform("a", 1), FloatUniform("a", 2)), false},
		{"unknown kind", NewUniforms(Uniform{Name: "x"}), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.set.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidUniform)
			}
		})
	}
}

func TestUniformsAccessors(t *testing.T) {
	env := NewCubeRenderTarget("env", 4, false)
	u := NewUniforms(FloatUniform("fresnelScale", 1), CubeUniform("tCube", env))

	u.Set(FloatUniform("fresnelScale", 2))
	assert.Equal(t, float32(2), u.Float("fresnelScale"))
	assert.Len(t, u.All(), 2, "Set replaces by name")
	assert.Equal(t, CubeSampler(env), u.Cube("tCube"))
	assert.Zero(t, u.Float("tCube"), "wrong kind reads as zero")

	assert.NoError(t, u.Require("tCube", UniformCube))
	assert.ErrorIs(t, u.Require("tCube", UniformFloat), ErrInvalidUniform)
	assert.ErrorIs(t, u.Require("missing", UniformFloat), ErrInvalidUniform)
}

func TestLoadGLTFMeshMissingFile(t *testing.T) {
	_, err := LoadGLTFMesh("testdata/does-not-exist.glb", 100)
	assert.ErrorContains(t, err, "gltf open")
}
