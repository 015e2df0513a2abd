package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fresnel-scene/core"
	"fresnel-scene/math"
)

func newTestControls() (*Camera, *OrbitControls) {
	cam := NewCamera(45, 1, 0.1, 1000)
	cam.Position = math.NewVec3(0, 0, 400)
	cam.LookAt(math.Vec3Zero)
	return cam, NewOrbitControls(cam)
}

func TestOrbitControlsIdleKeepsPose(t *testing.T) {
	cam, controls := newTestControls()
	start := cam.Position

	for i := 0; i < 5; i++ {
		controls.Update(core.InputState{})
	}
	assert.InDelta(t, start.X, cam.Position.X, 1e-3)
	assert.InDelta(t, start.Y, cam.Position.Y, 1e-3)
	assert.InDelta(t, start.Z, cam.Position.Z, 1e-3)
}

func TestOrbitControlsRotateKeepsDistance(t *testing.T) {
	cam, controls := newTestControls()

	in := core.InputState{MouseDeltaX: 100, MouseDeltaY: 40}
	in.Buttons[core.MouseLeft] = true
	controls.Update(in)

	assert.NotEqual(t, math.NewVec3(0, 0, 400), cam.Position)
	assert.InDelta(t, 400, cam.Position.Length(), 1e-2)
	assert.Equal(t, math.Vec3Zero, cam.Target)
}

func TestOrbitControlsPitchIsClamped(t *testing.T) {
	cam, controls := newTestControls()

	in := core.InputState{MouseDeltaY: 1e6}
	in.Buttons[core.MouseLeft] = true
	controls.Update(in)

	assert.Less(t, cam.Position.Y, float32(400), "camera never passes over the pole")
	assert.Greater(t, cam.Position.Y, float32(399))
}

func TestOrbitControlsZoom(t *testing.T) {
	cam, controls := newTestControls()
	controls.MinDistance = 50
	controls.MaxDistance = 500

	controls.Update(core.InputState{ScrollDelta: 1})
	assert.InDelta(t, 380, controls.Distance(), 1e-2)
	assert.InDelta(t, 380, cam.Position.Length(), 1e-2)

	controls.Update(core.InputState{ScrollDelta: 1000})
	assert.InDelta(t, 50, controls.Distance(), 1e-3, "clamped to MinDistance")

	controls.Update(core.InputState{ScrollDelta: -1000})
	assert.InDelta(t, 500, controls.Distance(), 1e-3, "clamped to MaxDistance")
}

func TestOrbitControlsPanMovesTarget(t *testing.T) {
	cam, controls := newTestControls()

	in := core.InputState{MouseDeltaX: 10}
	in.Buttons[core.MouseRight] = true
	controls.Update(in)

	assert.Less(t, controls.Target.X, float32(0), "dragging right moves the target left")
	assert.Equal(t, controls.Target, cam.Target)
	assert.InDelta(t, 400, cam.Position.Sub(cam.Target).Length(), 1e-2)
}

func TestOrbitControlsDamping(t *testing.T) {
	cam, controls := newTestControls()
	controls.Damping = 0.5

	in := core.InputState{MouseDeltaX: 100}
	in.Buttons[core.MouseLeft] = true
	controls.Update(in)
	afterDrag := cam.Position

	controls.Update(core.InputState{})
	assert.NotEqual(t, afterDrag, cam.Position, "rotation coasts after release")
}
