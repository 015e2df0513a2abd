// Package assembly builds the demo scene: camera and orbit controls, a point
// light, the checkerboard floor, the skybox and the Fresnel sphere with the
// cube camera that captures its environment.
package assembly

import (
	"fmt"

	"go.uber.org/zap"

	"fresnel-scene/capture"
	"fresnel-scene/config"
	"fresnel-scene/core"
	"fresnel-scene/fresnel"
	"fresnel-scene/internal/logger"
	"fresnel-scene/math"
	"fresnel-scene/scene"
)

// Node names in the built graph.
const (
	FloorName  = "floor"
	SkyboxName = "skybox"
	SphereName = "sphere"
)

// TextureSource hands out textures by location. The returned textures may
// still be placeholders whose pixels arrive later.
type TextureSource interface {
	Texture(location string) *scene.Texture
	Cube(name string, locations [6]string) *scene.CubeTexture
}

// Scene is everything Build creates. It owns the graph; the frame driver
// borrows it.
type Scene struct {
	Graph    *scene.Scene
	Camera   *scene.Camera
	Controls *scene.OrbitControls
	Light    *scene.Light
	Viewport core.Viewport

	Floor  *scene.Node
	Skybox *scene.Node
	Sphere *scene.Node

	Material   *scene.ShaderMaterial
	CubeCamera *scene.CubeCamera
	Capture    *capture.Capture
}

// Build sizes the camera from surface and assembles the scene described by
// cfg. A nil or empty surface fails with core.ErrMissingSurface.
func Build(cfg config.Config, surface core.Surface, textures TextureSource) (*Scene, error) {
	vp, err := core.SurfaceViewport(surface)
	if err != nil {
		return nil, fmt.Errorf("build scene: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("build scene: %w", err)
	}
	if textures == nil {
		return nil, fmt.Errorf("build scene: no texture source")
	}

	out := &Scene{Graph: scene.NewScene(), Viewport: vp}
	out.Graph.Background = core.ColorHex(cfg.Background)

	cam := scene.NewCamera(cfg.Camera.FOV, vp.Aspect(), cfg.Camera.Near, cfg.Camera.Far)
	cam.Position = cfg.Camera.Position.Vec()
	cam.LookAt(cfg.Camera.Target.Vec())
	out.Camera = cam

	ctl := scene.NewOrbitControls(cam)
	ctl.RotateSpeed = cfg.Controls.RotateSpeed
	ctl.PanSpeed = cfg.Controls.PanSpeed
	ctl.ZoomSpeed = cfg.Controls.ZoomSpeed
	ctl.Damping = cfg.Controls.Damping
	out.Controls = ctl

	out.Light = &scene.Light{
		Type:      scene.LightTypePoint,
		Position:  cfg.Light.Position.Vec(),
		Color:     core.ColorHex(cfg.Light.Color),
		Intensity: cfg.Light.Intensity,
	}
	out.Graph.AddLight(out.Light)

	out.Floor = buildFloor(cfg.Floor, textures)
	out.Graph.AddNode(out.Floor)

	out.Skybox = buildSkybox(cfg.Skybox, textures)
	out.Graph.AddNode(out.Skybox)

	target := scene.NewCubeRenderTarget("environment", cfg.Capture.Resolution, cfg.Capture.Mipmaps)
	out.CubeCamera = scene.NewCubeCamera(cfg.Capture.Near, cfg.Capture.Far, target)

	sphere, err := buildSphere(cfg, target)
	if err != nil {
		return nil, fmt.Errorf("build scene: %w", err)
	}
	out.Sphere = sphere
	out.Material = sphere.Material.(*scene.ShaderMaterial)
	out.Graph.AddNode(sphere)

	out.CubeCamera.Position = sphere.WorldPosition()
	out.Capture = capture.New(sphere, out.CubeCamera, cfg.Capture.Every)

	logger.Log.Info("scene assembled",
		zap.Int("width", vp.Width),
		zap.Int("height", vp.Height),
		zap.Int("capture_resolution", target.Size),
		zap.Int("capture_every", cfg.Capture.Every))
	return out, nil
}

func buildFloor(cfg config.FloorConfig, textures TextureSource) *scene.Node {
	tex := textures.Texture(cfg.Texture)
	tex.Wrap = scene.WrapRepeat
	tex.Repeat = math.Vec2{X: cfg.Repeat, Y: cfg.Repeat}

	n := scene.NewMeshNode(FloorName, scene.CreatePlane(cfg.Size, cfg.Size, cfg.Segments), &scene.BasicMaterial{
		Name:  FloorName,
		Color: core.ColorWhite,
		Map:   tex,
		Side:  scene.SideDouble,
	})
	n.SetPosition(math.Vec3{Y: cfg.Y})
	return n
}

func buildSkybox(cfg config.SkyboxConfig, textures TextureSource) *scene.Node {
	cube := textures.Cube(SkyboxName, cfg.FaceURLs())
	return scene.NewMeshNode(SkyboxName, scene.CreateCube(cfg.Size), &scene.SkyboxMaterial{
		Cube: cube,
		Side: scene.SideBack,
	})
}

func buildSphere(cfg config.Config, env scene.CubeSampler) (*scene.Node, error) {
	var mesh *scene.Mesh
	if cfg.Sphere.Model != "" {
		m, err := scene.LoadGLTFMesh(cfg.Sphere.Model, cfg.Sphere.Radius)
		if err != nil {
			return nil, err
		}
		mesh = m
	} else {
		mesh = scene.CreateSphere(cfg.Sphere.Radius, cfg.Sphere.WidthSegments, cfg.Sphere.HeightSegments)
	}

	n := scene.NewMeshNode(SphereName, mesh, fresnel.NewMaterial(cfg.Fresnel, env))
	n.SetPosition(cfg.Sphere.Position.Vec())
	return n, nil
}

// MeshReleaser frees backend resources held for a mesh.
type MeshReleaser interface {
	ReleaseMesh(mesh *scene.Mesh)
}

// Close releases the meshes of every node in the graph.
func (s *Scene) Close(r MeshReleaser) {
	s.Graph.Root.Traverse(func(n *scene.Node) {
		if n.Mesh != nil {
			r.ReleaseMesh(n.Mesh)
		}
	})
}
