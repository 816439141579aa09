package journey

import (
	"math"

	"github.com/charmbracelet/harmonica"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Spring tuning for wheel and key scrolling.
const (
	scrollFrequency = 7.0
	scrollDamping   = 1.0
	scrollSettle    = 0.05
)

// Scroller turns discrete scroll input into a smooth scroll offset. Nudges
// move a target that a critically damped spring follows; ScrollTo runs an
// eased tween instead.
type Scroller struct {
	spring harmonica.Spring
	pos    float64
	vel    float64
	target float64
	max    float64
	tween  *gween.Tween
}

// NewScroller creates a scroller stepped at the given ticks per second.
func NewScroller(tps int) *Scroller {
	if tps <= 0 {
		tps = 60
	}
	return &Scroller{spring: harmonica.NewSpring(harmonica.FPS(tps), scrollFrequency, scrollDamping)}
}

// SetBounds sets the largest scroll offset and clamps the current state.
func (s *Scroller) SetBounds(maxOffset float64) {
	s.max = math.Max(maxOffset, 0)
	s.target = clamp(s.target, 0, s.max)
	s.pos = clamp(s.pos, 0, s.max)
}

// Nudge moves the target by delta and cancels a running ScrollTo.
func (s *Scroller) Nudge(delta float64) {
	s.tween = nil
	s.target = clamp(s.target+delta, 0, s.max)
}

// Jump moves immediately to offset.
func (s *Scroller) Jump(offset float64) {
	s.tween = nil
	s.pos = clamp(offset, 0, s.max)
	s.target = s.pos
	s.vel = 0
}

// ScrollTo animates to offset over duration seconds.
func (s *Scroller) ScrollTo(offset float64, duration float32, fn ease.TweenFunc) {
	if fn == nil {
		fn = ease.InOutQuad
	}
	offset = clamp(offset, 0, s.max)
	s.target = offset
	s.vel = 0
	s.tween = gween.New(float32(s.pos), float32(offset), duration, fn)
}

// Update advances by dt seconds and returns the new offset.
func (s *Scroller) Update(dt float32) float64 {
	if s.tween != nil {
		val, done := s.tween.Update(dt)
		s.pos = clamp(float64(val), 0, s.max)
		if done {
			s.pos = s.target
			s.tween = nil
		}
		return s.pos
	}
	if s.pos == s.target && s.vel == 0 {
		return s.pos
	}
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, s.target)
	if math.Abs(s.pos-s.target) < scrollSettle && math.Abs(s.vel) < scrollSettle {
		s.pos, s.vel = s.target, 0
	}
	s.pos = clamp(s.pos, 0, s.max)
	return s.pos
}

// Position returns the current offset.
func (s *Scroller) Position() float64 { return s.pos }

// Target returns the offset being approached.
func (s *Scroller) Target() float64 { return s.target }

// Animating reports whether the offset is still moving.
func (s *Scroller) Animating() bool {
	return s.tween != nil || s.pos != s.target || s.vel != 0
}
