package journey

import (
	"errors"
	"time"
)

// fakeClock is a manually advanced clock.
type fakeClock struct {
	t time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Unix(1_700_000_000, 0)}
}

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

// newTestPage lays out one viewport-tall section per id on an 800×600
// viewport, each with a recording surface.
func newTestPage(ids ...string) *Page {
	specs := make([]SectionSpec, len(ids))
	for i, id := range ids {
		specs[i] = SectionSpec{ID: id, CanvasID: CanvasID(id), Screens: 1}
	}
	p := NewPage(specs, 800, 600, 1)
	for _, id := range ids {
		p.AttachSurface(CanvasID(id), NewRecordingSurface(800, 600))
	}
	return p
}

func recorder(p *Page, id string) *RecordingCanvas {
	s, _ := p.Surface(CanvasID(id))
	return s.(*RecordingSurface).Recorder()
}

// scrollTo moves the page and emits the scroll event, the way the host does.
func scrollTo(p *Page, ev *Events, offset float64) {
	if p.SetScroll(offset) {
		ev.EmitScroll(p.Scroll())
	}
}

// drawSpy counts draw calls and records their frames.
type drawSpy struct {
	calls  int
	frames []Frame
	log    *[]string
	name   string
}

func (s *drawSpy) draw(c Canvas, f Frame) {
	s.calls++
	s.frames = append(s.frames, f)
	if s.log != nil {
		*s.log = append(*s.log, s.name)
	}
	c.Clear()
	c.FillRect(0, 0, f.Width, f.Height, ColorWhite.WithAlpha(f.Progress))
}

func spyScene(id string, spy *drawSpy) StatelessScene {
	return StatelessScene{ID: id, SectionID: id, CanvasID: CanvasID(id), Draw: spy.draw}
}

// rendererSpy is a Renderer that counts calls.
type rendererSpy struct {
	updates  int
	progress []float64
	disposed bool
	log      *[]string
}

func (r *rendererSpy) Update(progress, now float64) {
	r.updates++
	r.progress = append(r.progress, progress)
	if r.log != nil {
		*r.log = append(*r.log, "renderer")
	}
}

func (r *rendererSpy) Dispose() { r.disposed = true }

// statefulSpy returns a stateful scene whose factory records how often it
// was called and hands out a single rendererSpy.
func statefulSpy(id string, r *rendererSpy, created *int) StatefulScene {
	return StatefulScene{
		ID: id, SectionID: id, CanvasID: CanvasID(id),
		NewRenderer: func(Surface, *Events) (Renderer, error) {
			*created++
			return r, nil
		},
	}
}

// fakeReady is a Readiness switched by the test.
type fakeReady struct {
	ready bool
	err   error
}

func (f *fakeReady) Ready() (bool, error) { return f.ready, f.err }

// fakeLensBackend records what the lens renderer asks of it.
type fakeLensBackend struct {
	resizes  []ResizeEvent
	renders  []LensUniforms
	disposed bool
}

func (b *fakeLensBackend) Resize(w, h, deviceScale float64) {
	b.resizes = append(b.resizes, ResizeEvent{Width: w, Height: h, DeviceScale: deviceScale})
}

func (b *fakeLensBackend) Render(u LensUniforms) { b.renders = append(b.renders, u) }
func (b *fakeLensBackend) Dispose()              { b.disposed = true }

// fakeLensConfig returns a LensConfig that is ready at once and builds
// backends that are appended to *made.
func fakeLensConfig(made *[]*fakeLensBackend) LensConfig {
	return LensConfig{
		NewBackend: func(Surface) (LensBackend, error) {
			b := &fakeLensBackend{}
			if made != nil {
				*made = append(*made, b)
			}
			return b, nil
		},
	}
}

var errBackend = errors.New("backend unavailable")
