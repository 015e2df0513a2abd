package renderer

import "fresnel-scene/core"

func core0() core.Viewport {
	return core.Viewport{Width: 64, Height: 32}
}
