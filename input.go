package journey

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/tanema/gween/ease"
)

// Scroll input tuning.
const (
	wheelStep        = 80.0 // logical pixels per wheel notch
	arrowStep        = 40.0 // logical pixels per arrow key press
	sectionScrollDur = 0.9  // seconds for a section jump
)

// inputState is one frame of scroll input.
type inputState struct {
	wheel float64 // wheel notches, positive scrolls up
	nudge float64 // pixels from arrow keys
	next  bool
	prev  bool
	home  bool
	end   bool
}

// pollInput reads the keyboard and wheel.
func pollInput() inputState {
	var in inputState
	_, in.wheel = ebiten.Wheel()
	if inpututil.IsKeyJustPressed(ebiten.KeyPageDown) || inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		in.next = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyPageUp) {
		in.prev = true
	}
	in.home = inpututil.IsKeyJustPressed(ebiten.KeyHome)
	in.end = inpututil.IsKeyJustPressed(ebiten.KeyEnd)
	if ebiten.IsKeyPressed(ebiten.KeyArrowDown) {
		in.nudge += arrowStep
	}
	if ebiten.IsKeyPressed(ebiten.KeyArrowUp) {
		in.nudge -= arrowStep
	}
	return in
}

// applyInput turns one frame of input into scroller motion.
func (h *Host) applyInput(in inputState) {
	switch {
	case in.home:
		h.scroller.ScrollTo(0, sectionScrollDur, ease.InOutQuad)
	case in.end:
		h.scroller.ScrollTo(h.page.MaxScroll(), sectionScrollDur, ease.InOutQuad)
	case in.next:
		h.stepSection(1)
	case in.prev:
		h.stepSection(-1)
	}
	if d := in.nudge - in.wheel*wheelStep; d != 0 {
		h.scroller.Nudge(d)
	}
}

// stepSection animates to the top of the section dir positions away from the
// one at the viewport center.
func (h *Host) stepSection(dir int) {
	secs := h.page.Sections()
	if len(secs) == 0 {
		return
	}
	i := h.page.SectionIndexAt(h.page.Scroll()) + dir
	i = max(0, min(i, len(secs)-1))
	h.scroller.ScrollTo(secs[i].Offset(), sectionScrollDur, ease.InOutQuad)
}
