package scene

import (
	"github.com/chewxy/math32"

	"fresnel-scene/core"
	"fresnel-scene/math"
)

// OrbitControls orbits a camera around Target: left drag rotates, right drag
// pans and the scroll wheel dollies in and out.
type OrbitControls struct {
	Camera *Camera
	Target math.Vec3

	RotateSpeed float32 // radians per pixel
	PanSpeed    float32 // fraction of the distance per pixel
	ZoomSpeed   float32 // distance scale per scroll step
	MinDistance float32
	MaxDistance float32
	// Damping in (0, 1] keeps a fraction of the last rotation going each
	// frame. Zero stops immediately.
	Damping float32

	yaw, pitch, distance float32
	yawVel, pitchVel     float32
}

const maxPitch = math32.Pi/2 - 0.01

// NewOrbitControls derives the orbit from the camera's current position
// relative to its target.
func NewOrbitControls(camera *Camera) *OrbitControls {
	c := &OrbitControls{
		Camera:      camera,
		Target:      camera.Target,
		RotateSpeed: 0.005,
		PanSpeed:    0.001,
		ZoomSpeed:   0.95,
		MinDistance: 1,
		MaxDistance: math32.Inf(1),
	}
	c.Sync()
	return c
}

// Sync reloads the orbit from the camera after an external move.
func (c *OrbitControls) Sync() {
	offset := c.Camera.Position.Sub(c.Target)
	c.distance = offset.Length()
	if c.distance == 0 {
		c.distance = c.MinDistance
		offset = math.Vec3Front.Mul(c.distance)
	}
	c.yaw = math32.Atan2(offset.X, offset.Z)
	c.pitch = math32.Asin(clamp(offset.Y/c.distance, -1, 1))
	c.yawVel, c.pitchVel = 0, 0
}

// Distance is the current distance between camera and target.
func (c *OrbitControls) Distance() float32 {
	return c.distance
}

// Update applies one frame of input and writes the resulting pose to the
// camera. It is the only writer of the camera pose.
func (c *OrbitControls) Update(in core.InputState) {
	if in.IsMouseDown(core.MouseLeft) {
		c.yawVel = -float32(in.MouseDeltaX) * c.RotateSpeed
		c.pitchVel = float32(in.MouseDeltaY) * c.RotateSpeed
	} else if c.Damping > 0 {
		c.yawVel *= c.Damping
		c.pitchVel *= c.Damping
	} else {
		c.yawVel, c.pitchVel = 0, 0
	}
	c.yaw += c.yawVel
	c.pitch = clamp(c.pitch+c.pitchVel, -maxPitch, maxPitch)

	if in.IsMouseDown(core.MouseRight) {
		c.pan(float32(in.MouseDeltaX), float32(in.MouseDeltaY))
	}

	if in.ScrollDelta != 0 {
		c.distance *= math32.Pow(c.ZoomSpeed, float32(in.ScrollDelta))
	}
	c.distance = clamp(c.distance, c.MinDistance, c.MaxDistance)

	c.apply()
}

func (c *OrbitControls) pan(dx, dy float32) {
	forward := c.Target.Sub(c.Camera.Position).Normalize()
	right := forward.Cross(c.Camera.Up).Normalize()
	up := right.Cross(forward)
	scale := c.distance * c.PanSpeed
	c.Target = c.Target.Add(right.Mul(-dx * scale)).Add(up.Mul(dy * scale))
}

func (c *OrbitControls) apply() {
	cosPitch := math32.Cos(c.pitch)
	offset := math.Vec3{
		X: c.distance * cosPitch * math32.Sin(c.yaw),
		Y: c.distance * math32.Sin(c.pitch),
		Z: c.distance * cosPitch * math32.Cos(c.yaw),
	}
	c.Camera.Position = c.Target.Add(offset)
	c.Camera.Target = c.Target
}

func clamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
