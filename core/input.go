package core

// Mouse buttons as reported by the window.
const (
	MouseLeft   = 0
	MouseRight  = 1
	MouseMiddle = 2
)

// InputSource is polled once per frame by InputManager.
type InputSource interface {
	GetCursorPos() (float64, float64)
	IsMouseButtonPressed(button int) bool
	SetScrollCallback(cb ScrollCallback)
}

// ScrollCallback is the type for scroll event handlers
type ScrollCallback func(xoff, yoff float64)

// InputState is the input accumulated over one frame.
type InputState struct {
	MouseDeltaX, MouseDeltaY float64
	ScrollDelta              float64
	Buttons                  [3]bool
}

func (s InputState) IsMouseDown(button int) bool {
	if button < 0 || button >= len(s.Buttons) {
		return false
	}
	return s.Buttons[button]
}

// InputManager turns polled cursor positions and scroll events into
// per-frame deltas.
type InputManager struct {
	source     InputSource
	state      InputState
	lastX      float64
	lastY      float64
	scroll     float64
	firstFrame bool
}

func NewInputManager(source InputSource) *InputManager {
	im := &InputManager{
		source:     source,
		firstFrame: true,
	}

	source.SetScrollCallback(func(xoff, yoff float64) {
		im.scroll += yoff
	})

	return im
}

// Poll computes this frame's state and resets the scroll accumulator.
func (im *InputManager) Poll() InputState {
	x, y := im.source.GetCursorPos()
	if im.firstFrame {
		im.lastX, im.lastY = x, y
		im.firstFrame = false
	}
	im.state.MouseDeltaX = x - im.lastX
	im.state.MouseDeltaY = y - im.lastY
	im.lastX, im.lastY = x, y

	for b := range im.state.Buttons {
		im.state.Buttons[b] = im.source.IsMouseButtonPressed(b)
	}

	im.state.ScrollDelta = im.scroll
	im.scroll = 0
	return im.state
}
