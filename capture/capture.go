// Package capture refreshes a reflective object's environment cube by
// rendering the scene around it with the object itself hidden.
package capture

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"fresnel-scene/internal/logger"
	"fresnel-scene/scene"
)

// CubeRenderer renders the six faces of a cube camera's target.
type CubeRenderer interface {
	RenderCube(s *scene.Scene, cc *scene.CubeCamera) error
}

// Capture owns one object and the cube camera that renders its
// surroundings.
type Capture struct {
	Object *scene.Node
	Camera *scene.CubeCamera
	// Every is the cadence in frames; values below 1 mean every frame.
	Every int

	calls uint64
}

func New(object *scene.Node, camera *scene.CubeCamera, every int) *Capture {
	return &Capture{Object: object, Camera: camera, Every: every}
}

// Update runs one capture cycle when the cadence is due and reports whether
// it did. The object is hidden only for the duration of RenderCube and is
// given back its previous visibility even if rendering fails or panics.
// Skipped frames keep the previous cube contents.
func (c *Capture) Update(r CubeRenderer, s *scene.Scene) (bool, error) {
	if c.Object == nil || c.Camera == nil || c.Camera.Target == nil {
		return false, errors.New("capture: object, camera and target are required")
	}
	due := c.due()
	c.calls++
	if !due {
		return false, nil
	}

	c.Camera.Position = c.Object.WorldPosition()
	if err := c.render(r, s); err != nil {
		return false, fmt.Errorf("capture %q: %w", c.Object.Name, err)
	}
	logger.Log.Debug("environment captured",
		zap.String("object", c.Object.Name),
		zap.Uint64("captures", c.Camera.Target.Captures))
	return true, nil
}

func (c *Capture) render(r CubeRenderer, s *scene.Scene) error {
	prev := c.Object.Visible
	c.Object.Visible = false
	defer func() { c.Object.Visible = prev }()

	return r.RenderCube(s, c.Camera)
}

func (c *Capture) due() bool {
	every := uint64(1)
	if c.Every > 1 {
		every = uint64(c.Every)
	}
	return c.calls%every == 0
}
