package journey

import (
	"math"
)

// Document is what the scheduler needs from the page at mount: sections to
// measure, canvases to paint, and the viewport.
type Document interface {
	// Section returns the section with the given identifier.
	Section(id string) (BoxSource, bool)
	// Surface returns the canvas surface with the given identifier.
	Surface(id string) (Surface, bool)
	// Viewport returns the viewport size in logical pixels and the device
	// scale factor.
	Viewport() (w, h, deviceScale float64)
}

// SectionSpec describes one section of the page.
type SectionSpec struct {
	ID       string
	CanvasID string
	Title    string
	Subtitle string
	// Screens is the section height in viewport heights. Zero means 1.
	Screens float64
}

// Section is a laid-out page section.
type Section struct {
	SectionSpec
	page   *Page
	offset float64 // document-space top
	height float64
}

// Box returns the section's current viewport-relative box.
func (s *Section) Box() Box {
	return Box{Top: s.offset - s.page.scroll, Height: s.height}
}

// Offset returns the section's document-space top.
func (s *Section) Offset() float64 { return s.offset }

// Height returns the section's height in logical pixels.
func (s *Section) Height() float64 { return s.height }

// CanvasY returns where the section's viewport-sized canvas sits relative to
// the viewport top. The canvas sticks to the viewport while the section
// spans it and scrolls with the section at either end.
func (s *Section) CanvasY() float64 {
	b := s.Box()
	vh := s.page.vh
	switch {
	case b.Top > 0:
		return b.Top
	case b.Top+b.Height < vh:
		return b.Top + b.Height - vh
	default:
		return 0
	}
}

// Page is the scrollable document hosting the narrative sections.
type Page struct {
	sections    []*Section
	byID        map[string]*Section
	surfaces    map[string]Surface
	scroll      float64
	vw, vh      float64
	deviceScale float64
	total       float64
}

// NewPage lays out the given sections for a viewport of w×h logical pixels.
func NewPage(specs []SectionSpec, w, h, deviceScale float64) *Page {
	p := &Page{
		byID:     make(map[string]*Section, len(specs)),
		surfaces: make(map[string]Surface, len(specs)),
	}
	for _, spec := range specs {
		sec := &Section{SectionSpec: spec, page: p}
		p.sections = append(p.sections, sec)
		p.byID[spec.ID] = sec
	}
	p.SetViewport(w, h, deviceScale)
	return p
}

// SetViewport changes the viewport size and re-runs layout. The scroll
// offset is clamped to the new document height.
func (p *Page) SetViewport(w, h, deviceScale float64) {
	if deviceScale <= 0 {
		deviceScale = 1
	}
	p.vw, p.vh, p.deviceScale = w, h, deviceScale
	p.layout()
	p.SetScroll(p.scroll)
}

func (p *Page) layout() {
	y := 0.0
	for _, s := range p.sections {
		screens := s.Screens
		if screens <= 0 {
			screens = 1
		}
		s.offset = y
		s.height = screens * p.vh
		y += s.height
	}
	p.total = y
}

// Viewport returns the viewport size and device scale.
func (p *Page) Viewport() (w, h, deviceScale float64) {
	return p.vw, p.vh, p.deviceScale
}

// Section implements Document.
func (p *Page) Section(id string) (BoxSource, bool) {
	s, ok := p.byID[id]
	if !ok {
		return nil, false
	}
	return s, true
}

// SectionByID returns the concrete section.
func (p *Page) SectionByID(id string) (*Section, bool) {
	s, ok := p.byID[id]
	return s, ok
}

// Sections returns the sections in document order. The returned slice MUST
// NOT be mutated.
func (p *Page) Sections() []*Section {
	return p.sections
}

// AttachSurface binds a canvas surface to an identifier.
func (p *Page) AttachSurface(id string, s Surface) {
	p.surfaces[id] = s
}

// Surface implements Document.
func (p *Page) Surface(id string) (Surface, bool) {
	s, ok := p.surfaces[id]
	return s, ok
}

// Scroll returns the scroll offset.
func (p *Page) Scroll() float64 { return p.scroll }

// MaxScroll returns the largest valid scroll offset.
func (p *Page) MaxScroll() float64 {
	return math.Max(p.total-p.vh, 0)
}

// Height returns the document height.
func (p *Page) Height() float64 { return p.total }

// SetScroll moves the viewport, clamped to the document, and reports
// whether the offset changed.
func (p *Page) SetScroll(offset float64) bool {
	offset = clamp(offset, 0, p.MaxScroll())
	if offset == p.scroll {
		return false
	}
	p.scroll = offset
	return true
}

// SectionIndexAt returns the index of the section at the viewport's center.
func (p *Page) SectionIndexAt(offset float64) int {
	mid := offset + p.vh/2
	for i, s := range p.sections {
		if mid < s.offset+s.height {
			return i
		}
	}
	return len(p.sections) - 1
}
