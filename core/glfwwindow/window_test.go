package glfwwindow

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"fresnel-scene/core"
)

func TestNilWindowIsMissingSurface(t *testing.T) {
	var w *Window
	width, height := w.Size()
	assert.Zero(t, width)
	assert.Zero(t, height)

	_, err := core.SurfaceViewport(w)
	assert.ErrorIs(t, err, core.ErrMissingSurface)

	_, err = core.SurfaceViewport(&Window{})
	assert.ErrorIs(t, err, core.ErrMissingSurface, "destroyed window")
}
