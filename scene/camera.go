package scene

import (
	"fresnel-scene/math"
)

// Camera is a perspective camera looking from Position at Target.
type Camera struct {
	Position math.Vec3
	Target   math.Vec3
	Up       math.Vec3
	FOV      float32 // vertical, degrees
	Aspect   float32
	Near     float32
	Far      float32
}

func NewCamera(fov, aspect, near, far float32) *Camera {
	return &Camera{
		Position: math.Vec3Front,
		Target:   math.Vec3Zero,
		Up:       math.Vec3Up,
		FOV:      fov,
		Aspect:   aspect,
		Near:     near,
		Far:      far,
	}
}

// SetAspect updates the aspect ratio from a viewport size.
func (c *Camera) SetAspect(width, height int) {
	if height > 0 {
		c.Aspect = float32(width) / float32(height)
	}
}

func (c *Camera) LookAt(target math.Vec3) {
	c.Target = target
}

func (c *Camera) ViewMatrix() math.Mat4 {
	return math.Mat4LookAt(c.Position, c.Target, c.Up)
}

func (c *Camera) ProjectionMatrix() math.Mat4 {
	return math.Mat4Perspective(math.Radians(c.FOV), c.Aspect, c.Near, c.Far)
}

func (c *Camera) ViewProjectionMatrix() math.Mat4 {
	return c.ViewMatrix().Mul(c.ProjectionMatrix())
}

// CubeCamera renders the six faces of Target from Position.
type CubeCamera struct {
	Position math.Vec3
	Near     float32
	Far      float32
	Target   *CubeRenderTarget
}

func NewCubeCamera(near, far float32, target *CubeRenderTarget) *CubeCamera {
	return &CubeCamera{Near: near, Far: far, Target: target}
}

// ProjectionMatrix is the shared 90 degree, square projection of every face.
func (c *CubeCamera) ProjectionMatrix() math.Mat4 {
	return math.Mat4Perspective(math.Radians(90), 1, c.Near, c.Far)
}

func (c *CubeCamera) FaceViewMatrix(face math.CubeFace) math.Mat4 {
	return math.Mat4CubeFaceView(c.Position, face)
}
