package core

import (
	"errors"
	"fmt"
)

// ErrMissingSurface reports that there is no usable surface to render into.
var ErrMissingSurface = errors.New("missing host surface")

// Surface is the host area the scene renders into. Its size is read once at
// startup to size the viewport and the camera aspect ratio.
type Surface interface {
	Size() (width, height int)
}

// StaticSurface is a fixed-size surface for offscreen rendering.
type StaticSurface struct {
	Width, Height int
}

func (s StaticSurface) Size() (int, int) {
	return s.Width, s.Height
}

// SurfaceViewport returns the full viewport of s, or an error wrapping
// ErrMissingSurface when s is absent or has no area.
func SurfaceViewport(s Surface) (Viewport, error) {
	if s == nil {
		return Viewport{}, fmt.Errorf("surface is nil: %w", ErrMissingSurface)
	}
	w, h := s.Size()
	if w <= 0 || h <= 0 {
		return Viewport{}, fmt.Errorf("surface size %dx%d: %w", w, h, ErrMissingSurface)
	}
	return Viewport{Width: w, Height: h}, nil
}
