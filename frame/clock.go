package frame

import "time"

// Clock paces the loop. Next blocks until the next frame is due and
// returns the time since the previous one, or false to stop.
type Clock interface {
	Next() (time.Duration, bool)
}

// Presenter is the part of glfwwindow.Window a WindowClock needs.
type Presenter interface {
	SwapBuffers()
	PollEvents()
	ShouldClose() bool
}

// WindowClock presents the previous frame and polls events before each new
// one. Pacing comes from the window's swap interval.
type WindowClock struct {
	Window Presenter

	now     func() time.Time
	last    time.Time
	started bool
}

func NewWindowClock(w Presenter) *WindowClock {
	return &WindowClock{Window: w, now: time.Now}
}

func (c *WindowClock) Next() (time.Duration, bool) {
	if c.now == nil {
		c.now = time.Now
	}
	if c.started {
		c.Window.SwapBuffers()
	}
	c.Window.PollEvents()
	if c.Window.ShouldClose() {
		return 0, false
	}

	now := c.now()
	var dt time.Duration
	if c.started {
		dt = now.Sub(c.last)
	}
	c.last = now
	c.started = true
	return dt, true
}

// VirtualClock advances by Step per frame without waiting. Frames bounds
// the run; zero runs forever.
type VirtualClock struct {
	Step   time.Duration
	Frames int

	n int
}

func (c *VirtualClock) Next() (time.Duration, bool) {
	if c.Frames > 0 && c.n >= c.Frames {
		return 0, false
	}
	c.n++
	return c.Step, true
}

// Limit stops c after frames frames. Zero or less returns c unchanged.
func Limit(c Clock, frames int) Clock {
	if frames <= 0 {
		return c
	}
	return &limitClock{Clock: c, left: frames}
}

type limitClock struct {
	Clock
	left int
}

func (c *limitClock) Next() (time.Duration, bool) {
	if c.left <= 0 {
		return 0, false
	}
	c.left--
	return c.Clock.Next()
}
