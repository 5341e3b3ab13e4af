package listview

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

const slideEpsilon = 0.01

// SlideGroup smooths the "make room" shift of displaced rows across frames.
// Each row keeps its last rendered y and a velocity, and a critically damped
// spring pulls it toward the target y every frame.
type SlideGroup struct {
	spring harmonica.Spring
	last   map[int]slideState
}

type slideState struct {
	y   float64
	vel float64
}

// NewSlideGroup builds a group stepping at fps frames per second. frequency
// and damping are the spring's angular frequency and damping ratio; zero
// values pick a snappy critically damped default.
func NewSlideGroup(fps int, frequency, damping float64) *SlideGroup {
	if fps <= 0 {
		fps = 60
	}
	if frequency <= 0 {
		frequency = 12
	}
	if damping <= 0 {
		damping = 1
	}
	return &SlideGroup{
		spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping),
		last:   map[int]slideState{},
	}
}

// Reset forgets all remembered positions. Called when a gesture starts.
func (g *SlideGroup) Reset() {
	g.last = map[int]slideState{}
}

// Step returns the y to render row index at this frame. A row seen for the
// first time renders at its target directly.
func (g *SlideGroup) Step(index int, target float64) float64 {
	st, ok := g.last[index]
	if !ok {
		g.last[index] = slideState{y: target}
		return target
	}
	y, vel := g.spring.Update(st.y, st.vel, target)
	if math.Abs(y-target) < slideEpsilon && math.Abs(vel) < slideEpsilon {
		y, vel = target, 0
	}
	g.last[index] = slideState{y: y, vel: vel}
	return y
}

// Settled reports whether every remembered row has reached its target.
func (g *SlideGroup) Settled() bool {
	for _, st := range g.last {
		if st.vel != 0 {
			return false
		}
	}
	return true
}
