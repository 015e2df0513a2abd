// Package opengl is the OpenGL 4.1 core implementation of renderer.Backend.
// Every method must run on the goroutine that owns the GL context.
package opengl

import (
	"errors"
	"fmt"
	"unsafe"

	gl "github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"fresnel-scene/internal/logger"
	"fresnel-scene/math"
	"fresnel-scene/renderer"
	"fresnel-scene/scene"
)

// Backend draws scene materials with GLSL programs.
type Backend struct {
	basic *program
	sky   *program

	// Custom programs compiled from scene.ShaderProgram sources.
	programs map[*scene.ShaderProgram]*program
	// Materials whose uniforms already passed validation.
	validated map[*scene.ShaderMaterial]bool

	gpuMeshes   map[*scene.Mesh]*GPUMesh
	textures    map[*scene.Texture]struct{}
	cubes       map[*scene.CubeTexture]struct{}
	cubeTargets []*scene.CubeRenderTarget

	pass   renderer.Pass
	inPass bool
}

var _ renderer.Backend = (*Backend)(nil)

// NewBackend initialises OpenGL and compiles the built-in programs.
// Must be called after the GLFW window context is made current.
func NewBackend() (*Backend, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}

	logger.Log.Info("OpenGL initialised",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))))

	basic, err := newProgram("basic", basicVertSrc, basicFragSrc)
	if err != nil {
		return nil, err
	}
	sky, err := newProgram("skybox", skyVertSrc, skyFragSrc)
	if err != nil {
		basic.destroy()
		return nil, err
	}

	gl.Enable(gl.DEPTH_TEST)
	gl.DepthFunc(gl.LEQUAL)
	gl.FrontFace(gl.CCW)
	gl.Enable(gl.TEXTURE_CUBE_MAP_SEAMLESS)

	return &Backend{
		basic:     basic,
		sky:       sky,
		programs:  make(map[*scene.ShaderProgram]*program),
		validated: make(map[*scene.ShaderMaterial]bool),
		gpuMeshes: make(map[*scene.Mesh]*GPUMesh),
		textures:  make(map[*scene.Texture]struct{}),
		cubes:     make(map[*scene.CubeTexture]struct{}),
	}, nil
}

// Prepare compiles every custom program in s and validates the uniforms of
// its shader materials, so failures surface at startup rather than on the
// first frame.
func (b *Backend) Prepare(s *scene.Scene) error {
	var err error
	s.Root.Traverse(func(n *scene.Node) {
		if err != nil {
			return
		}
		if m, ok := n.Material.(*scene.ShaderMaterial); ok {
			_, err = b.shaderMaterialProgram(m)
		}
	})
	return err
}

func (b *Backend) BeginPass(p renderer.Pass) error {
	if b.inPass {
		return errors.New("pass already in progress")
	}
	if p.Cube != nil {
		cf, err := b.cubeFramebuffer(p.Cube)
		if err != nil {
			return err
		}
		cf.bindFace(p.Face)
	} else {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	}
	gl.Viewport(int32(p.Viewport.X), int32(p.Viewport.Y), int32(p.Viewport.Width), int32(p.Viewport.Height))
	gl.DepthMask(true)
	gl.ClearColor(p.Clear.R, p.Clear.G, p.Clear.B, p.Clear.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	b.pass = p
	b.inPass = true
	return nil
}

func (b *Backend) Draw(d renderer.DrawCall) error {
	if !b.inPass {
		return errors.New("draw outside of a pass")
	}
	gpu := b.ensureUploaded(d.Mesh)
	if gpu == nil {
		return nil
	}
	applySide(d.Material.MaterialSide())

	var err error
	switch m := d.Material.(type) {
	case *scene.BasicMaterial:
		err = b.drawBasic(m, d)
	case *scene.SkyboxMaterial:
		err = b.drawSkybox(m, d)
	case *scene.ShaderMaterial:
		err = b.drawShader(m, d)
	default:
		err = fmt.Errorf("unsupported material %T", m)
	}
	if err != nil {
		return err
	}
	drawMesh(d.Mesh, gpu)
	return nil
}

func (b *Backend) EndPass() error {
	if !b.inPass {
		return errors.New("no pass in progress")
	}
	if b.pass.Cube != nil {
		gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	}
	b.inPass = false
	return nil
}

func (b *Backend) FinishCube(target *scene.CubeRenderTarget) error {
	cf, err := b.cubeFramebuffer(target)
	if err != nil {
		return err
	}
	cf.generateMipmaps()
	return nil
}

func (b *Backend) drawBasic(m *scene.BasicMaterial, d renderer.DrawCall) error {
	p := b.basic
	gl.UseProgram(p.id)
	setMat4(p.loc("mvp"), d.MVP)
	gl.Uniform4f(p.loc("color"), m.Color.R, m.Color.G, m.Color.B, m.Color.A)

	if m.Map == nil {
		gl.Uniform1i(p.loc("hasMap"), 0)
		gl.Uniform2f(p.loc("uvRepeat"), 1, 1)
		return nil
	}
	id, err := uploadTexture(m.Map)
	if err != nil {
		return fmt.Errorf("material %q: %w", m.Name, err)
	}
	b.textures[m.Map] = struct{}{}
	repeat := m.Map.Repeat
	if repeat.IsZero() {
		repeat = math.Vec2{X: 1, Y: 1}
	}
	gl.Uniform1i(p.loc("hasMap"), 1)
	gl.Uniform2f(p.loc("uvRepeat"), repeat.X, repeat.Y)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, id)
	gl.Uniform1i(p.loc("map"), 0)
	return nil
}

func (b *Backend) drawSkybox(m *scene.SkyboxMaterial, d renderer.DrawCall) error {
	if m.Cube == nil {
		return errors.New("skybox material has no cube texture")
	}
	id, err := uploadCubeTexture(m.Cube)
	if err != nil {
		return err
	}
	b.cubes[m.Cube] = struct{}{}

	p := b.sky
	gl.UseProgram(p.id)
	setMat4(p.loc("mvp"), d.MVP)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)
	gl.Uniform1i(p.loc("tCube"), 0)
	return nil
}

func (b *Backend) drawShader(m *scene.ShaderMaterial, d renderer.DrawCall) error {
	p, err := b.shaderMaterialProgram(m)
	if err != nil {
		return err
	}
	gl.UseProgram(p.id)
	setMat4(p.loc("modelMatrix"), d.Model)
	setMat4(p.loc("mvp"), d.MVP)
	cam := b.pass.CameraPosition
	gl.Uniform3f(p.loc("cameraPosition"), cam.X, cam.Y, cam.Z)

	unit := int32(0)
	for _, u := range m.Uniforms.All() {
		loc := p.loc(u.Name)
		switch u.Kind {
		case scene.UniformFloat:
			gl.Uniform1f(loc, u.Float)
		case scene.UniformVec3:
			gl.Uniform3f(loc, u.Vec3.X, u.Vec3.Y, u.Vec3.Z)
		case scene.UniformCube:
			id, err := b.cubeTextureID(u.Cube)
			if err != nil {
				return fmt.Errorf("uniform %q: %w", u.Name, err)
			}
			gl.ActiveTexture(gl.TEXTURE0 + uint32(unit))
			gl.BindTexture(gl.TEXTURE_CUBE_MAP, id)
			gl.Uniform1i(loc, unit)
			unit++
		}
	}
	gl.ActiveTexture(gl.TEXTURE0)
	return nil
}

// shaderMaterialProgram compiles m's program on first use and validates
// m's uniforms once.
func (b *Backend) shaderMaterialProgram(m *scene.ShaderMaterial) (*program, error) {
	if m.Program == nil {
		return nil, fmt.Errorf("material %q has no program", m.Name)
	}
	p, ok := b.programs[m.Program]
	if !ok {
		var err error
		p, err = newProgram(m.Program.Name, m.Program.VertexSource, m.Program.FragmentSource)
		if err != nil {
			return nil, err
		}
		b.programs[m.Program] = p
		logger.Log.Debug("program compiled", zap.String("program", m.Program.Name))
	}
	if !b.validated[m] {
		if err := m.Uniforms.Validate(); err != nil {
			return nil, fmt.Errorf("material %q: %w", m.Name, err)
		}
		b.validated[m] = true
	}
	return p, nil
}

func (b *Backend) cubeTextureID(s scene.CubeSampler) (uint32, error) {
	switch c := s.(type) {
	case *scene.CubeRenderTarget:
		cf, err := b.cubeFramebuffer(c)
		if err != nil {
			return 0, err
		}
		return cf.ColorTex, nil
	case *scene.CubeTexture:
		b.cubes[c] = struct{}{}
		return uploadCubeTexture(c)
	}
	return 0, fmt.Errorf("cube sampler %T has no GPU representation", s)
}

// Destroy releases all GPU resources.
func (b *Backend) Destroy() {
	for mesh := range b.gpuMeshes {
		b.ReleaseMesh(mesh)
	}
	for tex := range b.textures {
		deleteTexture(&tex.GPUData)
	}
	for cube := range b.cubes {
		deleteTexture(&cube.GPUData)
	}
	for _, t := range b.cubeTargets {
		if cf, ok := t.GPUData.(*CubeFramebuffer); ok {
			cf.Destroy()
		}
		t.GPUData = nil
	}
	for _, p := range b.programs {
		p.destroy()
	}
	b.sky.destroy()
	b.basic.destroy()
}

// cullState maps a material side to GL face culling. Front faces are
// counter-clockwise.
func cullState(side scene.Side) (enabled bool, face uint32) {
	switch side {
	case scene.SideBack:
		return true, gl.FRONT
	case scene.SideDouble:
		return false, 0
	}
	return true, gl.BACK
}

func applySide(side scene.Side) {
	enabled, face := cullState(side)
	if !enabled {
		gl.Disable(gl.CULL_FACE)
		return
	}
	gl.Enable(gl.CULL_FACE)
	gl.CullFace(face)
}

// setMat4 uploads a row-vector matrix; GL reads it column-major, which is
// the transpose GLSL's column-vector products expect.
func setMat4(loc int32, m math.Mat4) {
	gl.UniformMatrix4fv(loc, 1, false, (*float32)(unsafe.Pointer(&m[0][0])))
}
