package renderer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fresnel-scene/math"
	"fresnel-scene/scene"
)

type call struct {
	op   string
	pass string
	node string
}

type recordingBackend struct {
	calls   []call
	current string
	failOn  string
}

func (b *recordingBackend) BeginPass(p Pass) error {
	b.current = p.Name
	b.calls = append(b.calls, call{op: "begin", pass: p.Name})
	return nil
}

func (b *recordingBackend) Draw(d DrawCall) error {
	b.calls = append(b.calls, call{op: "draw", pass: b.current, node: d.Node.Name})
	if d.Node.Name == b.failOn {
		return errors.New("boom")
	}
	return nil
}

func (b *recordingBackend) EndPass() error {
	b.calls = append(b.calls, call{op: "end", pass: b.current})
	return nil
}

func (b *recordingBackend) FinishCube(t *scene.CubeRenderTarget) error {
	b.calls = append(b.calls, call{op: "finish", pass: t.Name})
	return nil
}

func testScene() *scene.Scene {
	s := scene.NewScene()
	s.AddNode(scene.NewMeshNode("floor", scene.CreatePlane(10, 10, 1), &scene.BasicMaterial{}))
	s.AddNode(scene.NewMeshNode("sphere", scene.CreateSphere(1, 8, 4), &scene.BasicMaterial{}))
	s.AddNode(scene.NewMeshNode("bare", scene.CreateCube(1), nil))
	return s
}

func TestRenderDrawsVisibleNodesWithMaterials(t *testing.T) {
	b := &recordingBackend{}
	re := NewRenderEngine(b, core0())
	cam := scene.NewCamera(45, 1, 0.1, 100)

	require.NoError(t, re.Render(testScene(), cam))
	assert.Equal(t, []call{
		{op: "begin", pass: "main"},
		{op: "draw", pass: "main", node: "floor"},
		{op: "draw", pass: "main", node: "sphere"},
		{op: "end", pass: "main"},
	}, b.calls)

	st := re.DrawStats()
	assert.Equal(t, 1, st.Passes)
	assert.Equal(t, 2, st.Objects)
}

func TestRenderCubeRendersSixFacesThenFinishes(t *testing.T) {
	b := &recordingBackend{}
	re := NewRenderEngine(b, core0())
	s := testScene()
	s.Root.Find("sphere").Visible = false

	target := scene.NewCubeRenderTarget("env", 16, true)
	cc := scene.NewCubeCamera(0.1, 100, target)
	require.NoError(t, re.RenderCube(s, cc))

	var begins []string
	for _, c := range b.calls {
		if c.op == "begin" {
			begins = append(begins, c.pass)
		}
		assert.NotEqual(t, "sphere", c.node, "hidden node drawn")
	}
	assert.Equal(t, []string{"cube +X", "cube -X", "cube +Y", "cube -Y", "cube +Z", "cube -Z"}, begins)
	assert.Equal(t, call{op: "finish", pass: "env"}, b.calls[len(b.calls)-1])
	assert.Equal(t, uint64(1), target.Captures)
}

func TestRenderEndsPassOnDrawError(t *testing.T) {
	b := &recordingBackend{failOn: "floor"}
	re := NewRenderEngine(b, core0())

	err := re.Render(testScene(), scene.NewCamera(45, 1, 0.1, 100))
	assert.ErrorContains(t, err, `draw "floor"`)
	assert.Equal(t, "end", b.calls[len(b.calls)-1].op)
}

func TestRenderCubeRequiresTarget(t *testing.T) {
	re := NewRenderEngine(&recordingBackend{}, core0())
	assert.Error(t, re.RenderCube(testScene(), scene.NewCubeCamera(0.1, 10, nil)))
}

func TestPassMatricesForCubeFaces(t *testing.T) {
	var passes []Pass
	b := &passRecorder{passes: &passes}
	re := NewRenderEngine(b, core0())

	cc := scene.NewCubeCamera(0.1, 100, scene.NewCubeRenderTarget("env", 8, false))
	cc.Position = math.NewVec3(0, 50, 100)
	require.NoError(t, re.RenderCube(scene.NewScene(), cc))

	require.Len(t, passes, 6)
	for i, p := range passes {
		assert.Equal(t, math.CubeFaces[i], p.Face)
		assert.Equal(t, 8, p.Viewport.Width)
		assert.Equal(t, cc.Position, p.CameraPosition)
	}
}

type passRecorder struct {
	recordingBackend
	passes *[]Pass
}

func (p *passRecorder) BeginPass(pass Pass) error {
	*p.passes = append(*p.passes, pass)
	return nil
}
