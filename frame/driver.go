// Package frame runs the per-frame sequence: resolve finished asset loads,
// advance the camera controls, refresh the environment capture, then draw
// the main pass.
package frame

import (
	"context"
	"fmt"
	"time"

	"fresnel-scene/capture"
	"fresnel-scene/core"
	"fresnel-scene/scene"
)

// Renderer draws both the capture faces and the main pass.
type Renderer interface {
	capture.CubeRenderer
	Render(s *scene.Scene, cam *scene.Camera) error
}

type Controls interface {
	Update(in core.InputState)
}

type Input interface {
	Poll() core.InputState
}

// Resolver applies completed background loads.
type Resolver interface {
	Resolve() int
}

// Driver owns the scene for the duration of Run; nothing else may mutate
// it concurrently. Only Scene, Camera and Renderer are required.
type Driver struct {
	Scene    *scene.Scene
	Camera   *scene.Camera
	Renderer Renderer

	Assets   Resolver
	Input    Input
	Controls Controls
	Capture  *capture.Capture

	// AfterFrame is called after each completed frame.
	AfterFrame func(frame uint64, dt time.Duration)

	frames uint64
}

// Run steps frames until the clock stops, returning nil, or ctx is done,
// returning ctx.Err(). A failing frame ends the loop with its error.
func (d *Driver) Run(ctx context.Context, clock Clock) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		dt, ok := clock.Next()
		if !ok {
			return nil
		}
		if err := d.Step(dt); err != nil {
			return err
		}
	}
}

// Step runs exactly one frame.
func (d *Driver) Step(dt time.Duration) error {
	if d.Assets != nil {
		d.Assets.Resolve()
	}
	if d.Controls != nil && d.Input != nil {
		d.Controls.Update(d.Input.Poll())
	}
	if d.Capture != nil {
		if _, err := d.Capture.Update(d.Renderer, d.Scene); err != nil {
			return fmt.Errorf("frame %d: %w", d.frames, err)
		}
	}
	if err := d.Renderer.Render(d.Scene, d.Camera); err != nil {
		return fmt.Errorf("frame %d: render: %w", d.frames, err)
	}
	d.frames++
	if d.AfterFrame != nil {
		d.AfterFrame(d.frames, dt)
	}
	return nil
}

// Frames is the number of completed frames.
func (d *Driver) Frames() uint64 {
	return d.frames
}
