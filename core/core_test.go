package core

import (
	"errors"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSurfaceViewport(t *testing.T) {
	vp, err := SurfaceViewport(StaticSurface{Width: 800, Height: 600})
	require.NoError(t, err)
	assert.Equal(t, Viewport{Width: 800, Height: 600}, vp)
	assert.Equal(t, float32(800)/float32(600), vp.Aspect())
}

func TestSurfaceViewportMissing(t *testing.T) {
	cases := map[string]Surface{
		"nil interface": nil,
		"zero size":     StaticSurface{},
		"zero height":   StaticSurface{Width: 10},
	}
	for name, s := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := SurfaceViewport(s)
			assert.True(t, errors.Is(err, ErrMissingSurface), "got %v", err)
		})
	}
}

func TestColorConversions(t *testing.T) {
	c := ColorHex(0xff8000)
	assert.Equal(t, color.NRGBA{255, 128, 0, 255}, c.NRGBA())
	assert.Equal(t, c.NRGBA(), ColorFrom(c.NRGBA()).NRGBA())

	over := Color{2, -1, 0.5, 1}
	assert.Equal(t, color.NRGBA{255, 0, 128, 255}, over.NRGBA())
}

type fakeInput struct {
	x, y    float64
	buttons [3]bool
	scroll  ScrollCallback
}

func (f *fakeInput) GetCursorPos() (float64, float64)    { return f.x, f.y }
func (f *fakeInput) IsMouseButtonPressed(b int) bool     { return f.buttons[b] }
func (f *fakeInput) SetScrollCallback(cb ScrollCallback) { f.scroll = cb }

func TestInputManagerDeltas(t *testing.T) {
	src := &fakeInput{x: 100, y: 50}
	im := NewInputManager(src)

	first := im.Poll()
	assert.Zero(t, first.MouseDeltaX, "first frame has no delta")

	src.x, src.y = 110, 45
	src.buttons[MouseLeft] = true
	src.scroll(0, 1)
	src.scroll(0, 2)

	st := im.Poll()
	assert.Equal(t, 10.0, st.MouseDeltaX)
	assert.Equal(t, -5.0, st.MouseDeltaY)
	assert.Equal(t, 3.0, st.ScrollDelta)
	assert.True(t, st.IsMouseDown(MouseLeft))
	assert.False(t, st.IsMouseDown(7))

	assert.Zero(t, im.Poll().ScrollDelta, "scroll resets every frame")
}
