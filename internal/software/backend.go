// Package software is a headless renderer.Backend built on the fauxgl
// rasterizer. It shades every material on the CPU, fills the CPU faces of
// cube render targets and keeps the last main pass as an image.
package software

import (
	"errors"
	"fmt"
	"image"

	"github.com/chewxy/math32"
	"github.com/fogleman/fauxgl"
	"go.uber.org/zap"
	"golang.org/x/image/draw"

	"fresnel-scene/core"
	"fresnel-scene/internal/logger"
	"fresnel-scene/math"
	"fresnel-scene/renderer"
	"fresnel-scene/scene"
)

// Backend rasterizes triangles one at a time so output is identical from
// run to run.
type Backend struct {
	contexts  map[[2]int]*fauxgl.Context
	validated map[*scene.ShaderMaterial]bool

	pass   renderer.Pass
	ctx    *fauxgl.Context
	inPass bool

	frame *image.RGBA
}

var _ renderer.Backend = (*Backend)(nil)

func NewBackend() *Backend {
	return &Backend{
		contexts:  make(map[[2]int]*fauxgl.Context),
		validated: make(map[*scene.ShaderMaterial]bool),
	}
}

// context returns a reusable fauxgl context of w×h.
func (b *Backend) context(w, h int) *fauxgl.Context {
	key := [2]int{w, h}
	ctx, ok := b.contexts[key]
	if !ok {
		ctx = fauxgl.NewContext(w, h)
		ctx.Cull = fauxgl.CullNone
		b.contexts[key] = ctx
		logger.Log.Debug("software context created", zap.Int("width", w), zap.Int("height", h))
	}
	return ctx
}

func (b *Backend) BeginPass(p renderer.Pass) error {
	if b.inPass {
		return errors.New("pass already in progress")
	}
	if p.Viewport.Width <= 0 || p.Viewport.Height <= 0 {
		return fmt.Errorf("viewport %dx%d has no area", p.Viewport.Width, p.Viewport.Height)
	}
	ctx := b.context(p.Viewport.Width, p.Viewport.Height)
	ctx.ClearColorBufferWith(toFaux(p.Clear))
	ctx.ClearDepthBuffer()

	b.pass = p
	b.ctx = ctx
	b.inPass = true
	return nil
}

func (b *Backend) Draw(d renderer.DrawCall) error {
	if !b.inPass {
		return errors.New("draw outside of a pass")
	}
	sh, err := b.shaderFor(d)
	if err != nil {
		return err
	}
	b.ctx.Shader = sh

	side := d.Material.MaterialSide()
	eye := b.pass.CameraPosition
	verts := transformVertices(d.Mesh, d.Model, d.MVP)
	for i := 0; i < d.Mesh.TriangleCount(); i++ {
		i0, i1, i2 := d.Mesh.Triangle(i)
		v0, v1, v2 := verts[i0], verts[i1], verts[i2]
		if !facingDrawn(side, v0.world, v1.world, v2.world, eye) {
			continue
		}
		b.ctx.DrawTriangle(&fauxgl.Triangle{V1: v0.faux, V2: v1.faux, V3: v2.faux})
	}
	return nil
}

func (b *Backend) EndPass() error {
	if !b.inPass {
		return errors.New("no pass in progress")
	}
	b.inPass = false
	img := toRGBA(b.ctx.Image())
	if b.pass.Cube == nil {
		b.frame = img
		return nil
	}
	face := b.pass.Cube.CPUTexture().Faces[b.pass.Face]
	face.Replace(&scene.Texture{
		Width:  img.Rect.Dx(),
		Height: img.Rect.Dy(),
		Pixels: flipRows(img),
	})
	return nil
}

func (b *Backend) FinishCube(target *scene.CubeRenderTarget) error {
	cube := target.CPUTexture()
	if target.Mipmaps {
		cube.GenerateMipmaps()
	}
	cube.Version++
	return nil
}

// Image returns the last main pass, top row first. Nil before the first
// main pass.
func (b *Backend) Image() *image.RGBA {
	return b.frame
}

// vertex is a mesh vertex after the model and MVP transforms.
type vertex struct {
	world math.Vec3
	faux  fauxgl.Vertex
}

func transformVertices(mesh *scene.Mesh, model, mvp math.Mat4) []vertex {
	out := make([]vertex, len(mesh.Vertices))
	for i, v := range mesh.Vertices {
		world := model.MulVec3(v.Position)
		normal := model.MulDir(v.Normal)
		clip := v.Position.ToVec4(1).MulMat(mvp)
		out[i] = vertex{
			world: world,
			faux: fauxgl.Vertex{
				Position: vec(world),
				Normal:   vec(normal),
				Texture:  fauxgl.Vector{X: float64(v.UV.X), Y: float64(v.UV.Y)},
				Output: fauxgl.VectorW{
					X: float64(clip.X), Y: float64(clip.Y), Z: float64(clip.Z), W: float64(clip.W),
				},
			},
		}
	}
	return out
}

// facingDrawn culls in world space: a triangle is front facing when its
// counter-clockwise normal points towards the eye.
func facingDrawn(side scene.Side, p0, p1, p2, eye math.Vec3) bool {
	if side == scene.SideDouble {
		return true
	}
	n := p1.Sub(p0).Cross(p2.Sub(p0))
	front := n.Dot(eye.Sub(p0)) > 0
	if side == scene.SideBack {
		return !front
	}
	return front
}

func (b *Backend) shaderFor(d renderer.DrawCall) (fauxgl.Shader, error) {
	switch m := d.Material.(type) {
	case *scene.BasicMaterial:
		return &basicShader{material: m}, nil
	case *scene.SkyboxMaterial:
		if m.Cube == nil {
			return nil, errors.New("skybox material has no cube texture")
		}
		return &skyboxShader{cube: m.Cube, center: d.Model.MulVec3(math.Vec3Zero)}, nil
	case *scene.ShaderMaterial:
		if m.Program == nil || m.Program.Shade == nil {
			return nil, fmt.Errorf("material %q has no CPU shading function", m.Name)
		}
		if !b.validated[m] {
			if err := m.Uniforms.Validate(); err != nil {
				return nil, fmt.Errorf("material %q: %w", m.Name, err)
			}
			b.validated[m] = true
		}
		return &programShader{material: m, camera: b.pass.CameraPosition, pixelAngle: pixelAngle(b.pass)}, nil
	}
	return nil, fmt.Errorf("unsupported material %T", d.Material)
}

// pixelAngle is the vertical angle one pixel of p spans, read back from the
// perspective projection. Zero for other projections.
func pixelAngle(p renderer.Pass) float32 {
	if p.Proj[1][1] <= 0 || p.Viewport.Height <= 0 {
		return 0
	}
	return 2 * math32.Atan(1/p.Proj[1][1]) / float32(p.Viewport.Height)
}

func toRGBA(src image.Image) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, src.Bounds().Dx(), src.Bounds().Dy()))
	draw.Draw(dst, dst.Bounds(), src, src.Bounds().Min, draw.Src)
	return dst
}

// flipRows turns a top-down image into texture rows where row 0 is the
// bottom of the face, matching how GL fills cube faces.
func flipRows(img *image.RGBA) []byte {
	h := img.Rect.Dy()
	out := make([]byte, len(img.Pix))
	for y := 0; y < h; y++ {
		copy(out[y*img.Stride:(y+1)*img.Stride], img.Pix[(h-1-y)*img.Stride:(h-y)*img.Stride])
	}
	return out
}

func vec(v math.Vec3) fauxgl.Vector {
	return fauxgl.Vector{X: float64(v.X), Y: float64(v.Y), Z: float64(v.Z)}
}

func unvec(v fauxgl.Vector) math.Vec3 {
	return math.Vec3{X: float32(v.X), Y: float32(v.Y), Z: float32(v.Z)}
}

func toFaux(c core.Color) fauxgl.Color {
	return fauxgl.Color{R: float64(c.R), G: float64(c.G), B: float64(c.B), A: float64(c.A)}
}
