package journey

import "go.uber.org/zap"

// injectKind identifies a synthetic host command.
type injectKind uint8

const (
	injectScrollTo injectKind = iota
	injectScrollBy
	injectSection
	injectResize
)

// syntheticCommand is one injected scroll or resize. Offsets are in logical
// pixels, the same units the page uses.
type syntheticCommand struct {
	kind    injectKind
	offset  float64
	section string
	w, h    float64
}

// InjectScroll queues a jump to the given scroll offset. Injected commands
// are consumed one per Update, in place of real input.
func (h *Host) InjectScroll(offset float64) {
	h.injectQueue = append(h.injectQueue, syntheticCommand{kind: injectScrollTo, offset: offset})
}

// InjectScrollBy queues a spring-smoothed scroll by delta, like a wheel turn.
func (h *Host) InjectScrollBy(delta float64) {
	h.injectQueue = append(h.injectQueue, syntheticCommand{kind: injectScrollBy, offset: delta})
}

// InjectSection queues a jump to the top of the named section.
func (h *Host) InjectSection(id string) {
	h.injectQueue = append(h.injectQueue, syntheticCommand{kind: injectSection, section: id})
}

// InjectResize queues a viewport resize to w×hgt logical pixels at the
// current device scale.
func (h *Host) InjectResize(w, hgt float64) {
	h.injectQueue = append(h.injectQueue, syntheticCommand{kind: injectResize, w: w, h: hgt})
}

// pendingInjections returns the number of queued commands.
func (h *Host) pendingInjections() int {
	return len(h.injectQueue)
}

// processInjected pops one queued command and applies it. Returns true if a
// command was consumed (real input should be skipped).
func (h *Host) processInjected() bool {
	if len(h.injectQueue) == 0 {
		return false
	}
	cmd := h.injectQueue[0]
	copy(h.injectQueue, h.injectQueue[1:])
	h.injectQueue = h.injectQueue[:len(h.injectQueue)-1]

	switch cmd.kind {
	case injectScrollTo:
		h.scroller.Jump(cmd.offset)
	case injectScrollBy:
		h.scroller.Nudge(cmd.offset)
	case injectSection:
		if sec, ok := h.page.SectionByID(cmd.section); ok {
			h.scroller.Jump(sec.Offset())
		} else {
			h.log.Warn("injected scroll to unknown section", zap.String("section", cmd.section))
		}
	case injectResize:
		_, _, scale := h.page.Viewport()
		h.resize(cmd.w, cmd.h, scale)
	}
	return true
}
