package journey

import "sort"

// DefaultVisibilityMargin grows the visibility trigger region past both
// viewport edges so scenes are warmed up just before they scroll into view.
const DefaultVisibilityMargin = 200.0

// BoxSource yields a target's current viewport-relative box.
type BoxSource interface {
	Box() Box
}

// VisibleSet is the working set of scene identifiers currently inside the
// visibility trigger region.
type VisibleSet struct {
	members map[string]struct{}
}

// NewVisibleSet creates an empty set.
func NewVisibleSet() *VisibleSet {
	return &VisibleSet{members: make(map[string]struct{})}
}

// Add inserts id.
func (s *VisibleSet) Add(id string) { s.members[id] = struct{}{} }

// Remove deletes id.
func (s *VisibleSet) Remove(id string) { delete(s.members, id) }

// Has reports whether id is in the set.
func (s *VisibleSet) Has(id string) bool {
	_, ok := s.members[id]
	return ok
}

// Len returns the number of members.
func (s *VisibleSet) Len() int { return len(s.members) }

// IDs returns the members in sorted order.
func (s *VisibleSet) IDs() []string {
	ids := make([]string, 0, len(s.members))
	for id := range s.members {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Clear removes every member.
func (s *VisibleSet) Clear() {
	clear(s.members)
}

// InView reports whether b overlaps the viewport grown by margin on the top
// and bottom. Touching edges count as overlap (zero threshold).
func InView(b Box, viewportHeight, margin float64) bool {
	return b.Top <= viewportHeight+margin && b.Top+b.Height >= -margin
}

type trackedTarget struct {
	id      string
	src     BoxSource
	visible bool
	seen    bool // whether the initial state has been reported
}

// VisibilityTracker watches section boxes and reports when a target enters
// or leaves the trigger region. It maintains membership only and never draws.
type VisibilityTracker struct {
	margin       float64
	targets      []trackedTarget
	onChange     func(id string, visible bool)
	disconnected bool
}

// NewVisibilityTracker creates a tracker with the given margin. onChange is
// called once per transition, and once for each target's initial state on
// the first Check after it is observed.
func NewVisibilityTracker(margin float64, onChange func(id string, visible bool)) *VisibilityTracker {
	return &VisibilityTracker{margin: margin, onChange: onChange}
}

// Observe starts tracking src under id.
func (t *VisibilityTracker) Observe(id string, src BoxSource) {
	if t.disconnected {
		return
	}
	t.targets = append(t.targets, trackedTarget{id: id, src: src})
}

// Check re-evaluates every target against the viewport.
func (t *VisibilityTracker) Check(viewportHeight float64) {
	if t.disconnected {
		return
	}
	for i := range t.targets {
		tg := &t.targets[i]
		vis := InView(tg.src.Box(), viewportHeight, t.margin)
		if tg.seen && vis == tg.visible {
			continue
		}
		tg.seen = true
		tg.visible = vis
		if t.onChange != nil {
			t.onChange(tg.id, vis)
		}
	}
}

// Observed returns the number of tracked targets.
func (t *VisibilityTracker) Observed() int {
	return len(t.targets)
}

// Disconnect stops tracking all targets. Further Observe and Check calls
// are ignored.
func (t *VisibilityTracker) Disconnect() {
	t.targets = nil
	t.disconnected = true
}
