// Package renderer walks a scene graph and submits passes to a Backend. The
// same traversal serves the main camera and each face of a cube capture.
package renderer

import (
	"errors"
	"fmt"

	"fresnel-scene/core"
	"fresnel-scene/math"
	"fresnel-scene/scene"
)

// Pass describes one render into either the default framebuffer or a single
// face of a cube render target.
type Pass struct {
	Name           string
	Cube           *scene.CubeRenderTarget // nil: the default framebuffer
	Face           math.CubeFace
	Viewport       core.Viewport
	Clear          core.Color
	View           math.Mat4
	Proj           math.Mat4
	CameraPosition math.Vec3
}

// DrawCall is one node drawn within a pass.
type DrawCall struct {
	Node     *scene.Node
	Mesh     *scene.Mesh
	Material scene.Material
	Model    math.Mat4
	MVP      math.Mat4
}

// Backend executes passes. Calls arrive strictly as BeginPass, any number
// of Draw, EndPass; FinishCube follows the sixth face of a capture.
type Backend interface {
	BeginPass(p Pass) error
	Draw(d DrawCall) error
	EndPass() error
	// FinishCube runs after all faces of target were rendered, regenerating
	// its mip chain when target.Mipmaps is set.
	FinishCube(target *scene.CubeRenderTarget) error
}

// Stats counts the work of the most recent frame.
type Stats struct {
	Passes    int
	Objects   int
	Triangles int
}

// RenderEngine is the high-level renderer that drives a Backend.
type RenderEngine struct {
	backend  Backend
	Viewport core.Viewport

	stats Stats
}

func NewRenderEngine(backend Backend, viewport core.Viewport) *RenderEngine {
	return &RenderEngine{backend: backend, Viewport: viewport}
}

// Backend returns the backend passes are submitted to.
func (re *RenderEngine) Backend() Backend {
	return re.backend
}

// Render draws every visible node of s from cam into the default framebuffer.
func (re *RenderEngine) Render(s *scene.Scene, cam *scene.Camera) error {
	if s == nil || cam == nil {
		return errors.New("render: no scene or camera")
	}
	return re.drawPass(s, Pass{
		Name:           "main",
		Viewport:       re.Viewport,
		Clear:          s.Background,
		View:           cam.ViewMatrix(),
		Proj:           cam.ProjectionMatrix(),
		CameraPosition: cam.Position,
	})
}

// RenderCube draws s six times from cc.Position, once per face of
// cc.Target, then lets the backend finish the cube.
func (re *RenderEngine) RenderCube(s *scene.Scene, cc *scene.CubeCamera) error {
	if s == nil || cc == nil || cc.Target == nil {
		return errors.New("render cube: no scene, camera or target")
	}
	target := cc.Target
	proj := cc.ProjectionMatrix()
	for _, face := range math.CubeFaces {
		err := re.drawPass(s, Pass{
			Name:           "cube " + face.String(),
			Cube:           target,
			Face:           face,
			Viewport:       core.Viewport{Width: target.Size, Height: target.Size},
			Clear:          s.Background,
			View:           cc.FaceViewMatrix(face),
			Proj:           proj,
			CameraPosition: cc.Position,
		})
		if err != nil {
			return err
		}
	}
	if err := re.backend.FinishCube(target); err != nil {
		return fmt.Errorf("finish cube %q: %w", target.Name, err)
	}
	target.Captures++
	return nil
}

func (re *RenderEngine) drawPass(s *scene.Scene, p Pass) (err error) {
	if err := re.backend.BeginPass(p); err != nil {
		return fmt.Errorf("%s pass: %w", p.Name, err)
	}
	defer func() {
		if endErr := re.backend.EndPass(); endErr != nil && err == nil {
			err = fmt.Errorf("%s pass: %w", p.Name, endErr)
		}
	}()
	re.stats.Passes++

	viewProj := p.View.Mul(p.Proj)
	for _, node := range s.GetVisibleNodes() {
		if node.Material == nil {
			continue
		}
		model := node.GetWorldMatrix()
		d := DrawCall{
			Node:     node,
			Mesh:     node.Mesh,
			Material: node.Material,
			Model:    model,
			MVP:      model.Mul(viewProj),
		}
		if err := re.backend.Draw(d); err != nil {
			return fmt.Errorf("%s pass: draw %q: %w", p.Name, node.Name, err)
		}
		re.stats.Objects++
		re.stats.Triangles += node.Mesh.TriangleCount()
	}
	return nil
}

// Resize updates the main viewport after the framebuffer changed size.
func (re *RenderEngine) Resize(width, height int) {
	re.Viewport.Width = width
	re.Viewport.Height = height
}

// DrawStats returns the counters accumulated since the last ResetStats.
func (re *RenderEngine) DrawStats() Stats {
	return re.stats
}

func (re *RenderEngine) ResetStats() {
	re.stats = Stats{}
}
