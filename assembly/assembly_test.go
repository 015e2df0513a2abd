package assembly

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fresnel-scene/config"
	"fresnel-scene/core"
	"fresnel-scene/frame"
	"fresnel-scene/fresnel"
	"fresnel-scene/internal/software"
	"fresnel-scene/math"
	"fresnel-scene/renderer"
	"fresnel-scene/scene"
)

// staticTextures serves solid colors and remembers what was asked for.
type staticTextures struct {
	requested []string
}

func (s *staticTextures) Texture(location string) *scene.Texture {
	s.requested = append(s.requested, location)
	return scene.NewSolidTexture(location, core.Color{R: 0.8, G: 0.8, B: 0.8, A: 1})
}

func (s *staticTextures) Cube(name string, locations [6]string) *scene.CubeTexture {
	var faces [6]*scene.Texture
	for i, loc := range locations {
		s.requested = append(s.requested, loc)
		faces[i] = scene.NewSolidTexture(loc, core.Color{B: float32(i+1) / 6, A: 1})
	}
	cube, _ := scene.NewCubeTexture(name, faces)
	return cube
}

func TestBuildAspectFromSurface(t *testing.T) {
	tests := []struct{ w, h int }{{1280, 720}, {640, 480}, {333, 777}, {1, 1}}
	for _, tt := range tests {
		s, err := Build(config.Default(), core.StaticSurface{Width: tt.w, Height: tt.h}, &staticTextures{})
		require.NoError(t, err)
		assert.Equal(t, float32(tt.w)/float32(tt.h), s.Camera.Aspect)
		assert.Equal(t, core.Viewport{Width: tt.w, Height: tt.h}, s.Viewport)
	}
}

func TestBuildWithoutSurface(t *testing.T) {
	surfaces := map[string]core.Surface{
		"nil":   nil,
		"empty": core.StaticSurface{},
	}
	for name, surface := range surfaces {
		t.Run(name, func(t *testing.T) {
			var err error
			assert.NotPanics(t, func() {
				_, err = Build(config.Default(), surface, &staticTextures{})
			})
			assert.ErrorIs(t, err, core.ErrMissingSurface)
		})
	}
}

func TestBuildRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Capture.Resolution = 0
	_, err := Build(cfg, core.StaticSurface{Width: 4, Height: 4}, &staticTextures{})
	assert.ErrorIs(t, err, config.ErrInvalid)
}

func TestBuildGraph(t *testing.T) {
	src := &staticTextures{}
	s, err := Build(config.Default(), core.StaticSurface{Width: 800, Height: 600}, src)
	require.NoError(t, err)

	assert.Equal(t, math.NewVec3(0, 150, 400), s.Camera.Position)
	assert.Equal(t, float32(45), s.Camera.FOV)
	assert.Equal(t, float32(20000), s.Camera.Far)

	require.Len(t, s.Graph.Lights, 1)
	assert.Equal(t, scene.LightTypePoint, s.Light.Type)
	assert.Equal(t, math.NewVec3(0, 250, 0), s.Light.Position)
	assert.Equal(t, core.ColorWhite, s.Light.Color)

	floor := s.Graph.Root.Find(FloorName)
	require.NotNil(t, floor)
	mat := floor.Material.(*scene.BasicMaterial)
	assert.Equal(t, scene.SideDouble, mat.Side)
	assert.Equal(t, scene.WrapRepeat, mat.Map.Wrap)
	assert.Equal(t, math.Vec2{X: 10, Y: 10}, mat.Map.Repeat)
	assert.Equal(t, float32(-50.5), floor.WorldPosition().Y)

	sky := s.Graph.Root.Find(SkyboxName)
	require.NotNil(t, sky)
	assert.Equal(t, scene.SideBack, sky.Material.MaterialSide())

	assert.Equal(t, []string{
		"http://stemkoski.github.io/Three.js/images/checkerboard.jpg",
		"http://stemkoski.github.io/Three.js/images/dawnmountain-xpos.png",
		"http://stemkoski.github.io/Three.js/images/dawnmountain-xneg.png",
		"http://stemkoski.github.io/Three.js/images/dawnmountain-ypos.png",
		"http://stemkoski.github.io/Three.js/images/dawnmountain-yneg.png",
		"http://stemkoski.github.io/Three.js/images/dawnmountain-zpos.png",
		"http://stemkoski.github.io/Three.js/images/dawnmountain-zneg.png",
	}, src.requested)

	assert.True(t, s.Sphere.Visible)
	assert.Equal(t, math.NewVec3(0, 50, 100), s.Sphere.WorldPosition())
	assert.Same(t, fresnel.Program, s.Material.Program)
	require.NoError(t, s.Material.Uniforms.Validate())
	assert.Equal(t, s.CubeCamera.Target, s.Material.Uniforms.Cube(fresnel.UniformEnvironment))
	assert.InDelta(t, 1.03, s.Material.Uniforms.Float(fresnel.UniformRefractionRatio), 1e-6)

	target := s.CubeCamera.Target
	assert.Equal(t, 512, target.Size)
	assert.True(t, target.Mipmaps)
	assert.Equal(t, float32(5000), s.CubeCamera.Far)
	assert.Equal(t, s.Sphere.WorldPosition(), s.CubeCamera.Position)
	assert.Same(t, s.Sphere, s.Capture.Object)
}

type releaser struct{ meshes []*scene.Mesh }

func (r *releaser) ReleaseMesh(m *scene.Mesh) { r.meshes = append(r.meshes, m) }

func TestClose(t *testing.T) {
	s, err := Build(config.Default(), core.StaticSurface{Width: 4, Height: 4}, &staticTextures{})
	require.NoError(t, err)
	r := &releaser{}
	s.Close(r)
	assert.Len(t, r.meshes, 3)
}

func TestHeadlessFrames(t *testing.T) {
	cfg := config.Default()
	cfg.Capture.Resolution = 16
	cfg.Sphere.WidthSegments = 16
	cfg.Sphere.HeightSegments = 8
	cfg.Background = 0x336699

	s, err := Build(cfg, core.StaticSurface{Width: 32, Height: 24}, &staticTextures{})
	require.NoError(t, err)

	backend := software.NewBackend()
	engine := renderer.NewRenderEngine(backend, s.Viewport)
	d := &frame.Driver{
		Scene:    s.Graph,
		Camera:   s.Camera,
		Renderer: engine,
		Controls: s.Controls,
		Capture:  s.Capture,
	}
	require.NoError(t, d.Run(context.Background(), &frame.VirtualClock{Frames: 3}))

	assert.Equal(t, uint64(3), s.CubeCamera.Target.Captures)
	assert.True(t, s.Sphere.Visible)
	img := backend.Image()
	require.NotNil(t, img)
	assert.Equal(t, 32, img.Rect.Dx())

	// The cube sees the skybox on every side, never the background.
	bg := s.Graph.Background
	for _, dir := range []math.Vec3{{X: 1}, {X: -1}, {Y: 1}, {Z: 1}, {Z: -1}} {
		assert.NotEqual(t, bg, s.CubeCamera.Target.SampleCube(dir), "direction %v", dir)
	}
}
