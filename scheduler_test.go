package journey

import (
	"errors"
	"math"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

// mountTest builds and mounts a scheduler over page with a fake clock.
func mountTest(t *testing.T, page *Page, scenes []Scene, opts ...Option) (*Scheduler, *Events, *fakeClock) {
	t.Helper()
	ev := NewEvents()
	clk := newFakeClock()
	opts = append([]Option{WithClock(clk.Now), WithSeed(1)}, opts...)
	s := NewScheduler(page, ev, scenes, opts...)
	if err := s.Mount(); err != nil {
		t.Fatalf("Mount: %v", err)
	}
	return s, ev, clk
}

func TestSchedulerFirstTickDrawsVisibleScenes(t *testing.T) {
	page := newTestPage("a", "b", "c")
	var a, b, c drawSpy
	s, _, _ := mountTest(t, page, []Scene{spyScene("a", &a), spyScene("b", &b), spyScene("c", &c)})

	// At scroll 0 on 600px sections: a spans the viewport, b touches the
	// bottom edge, c is past the 200px margin.
	if diff := cmp.Diff([]string{"a", "b"}, s.Visible().IDs()); diff != "" {
		t.Fatalf("visible set (-want +got):\n%s", diff)
	}

	s.Tick()
	if a.calls != 1 || b.calls != 1 {
		t.Errorf("calls a=%d b=%d, want 1 each", a.calls, b.calls)
	}
	if c.calls != 0 {
		t.Errorf("c calls = %d, want 0", c.calls)
	}
	if got := a.frames[0].Progress; got != 0.5 {
		t.Errorf("a progress = %v, want 0.5", got)
	}
	if got := b.frames[0].Progress; got != 0 {
		t.Errorf("b progress = %v, want 0 (first visible frame always draws)", got)
	}
	if w, h := a.frames[0].Width, a.frames[0].Height; w != 800 || h != 600 {
		t.Errorf("frame size = %vx%v, want 800x600", w, h)
	}
}

func TestSchedulerSkipsStatelessPassOnEvenFrames(t *testing.T) {
	page := newTestPage("a", "b")
	var a drawSpy
	s, ev, _ := mountTest(t, page, []Scene{spyScene("a", &a)})

	s.Tick() // frame 1
	scrollTo(page, ev, 120)
	s.Tick() // frame 2: skipped
	if a.calls != 1 {
		t.Fatalf("calls after even frame = %d, want 1", a.calls)
	}
	if s.Stats().Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", s.Stats().Skipped)
	}
	s.Tick() // frame 3
	if a.calls != 2 {
		t.Errorf("calls after odd frame = %d, want 2", a.calls)
	}
}

func TestSchedulerEpsilonThrottling(t *testing.T) {
	page := newTestPage("a", "b")
	var a drawSpy
	s, ev, _ := mountTest(t, page, []Scene{spyScene("a", &a)})

	s.Tick() // draws at 0.5
	scrollTo(page, ev, 6)
	// 606/1200 = 0.505: below epsilon.
	s.Tick()
	s.Tick()
	if a.calls != 1 {
		t.Fatalf("calls after sub-epsilon change = %d, want 1", a.calls)
	}
	if s.Stats().Throttled != 1 {
		t.Errorf("Throttled = %d, want 1", s.Stats().Throttled)
	}

	scrollTo(page, ev, 30) // 0.525
	s.Tick()
	s.Tick()
	if a.calls != 2 {
		t.Errorf("calls after meaningful change = %d, want 2", a.calls)
	}
	if got := a.frames[1].Progress; got != 0.525 {
		t.Errorf("progress = %v, want 0.525", got)
	}
}

func TestSchedulerVisibilityGating(t *testing.T) {
	page := newTestPage("a", "b", "c", "d")
	var a, d drawSpy
	s, ev, _ := mountTest(t, page, []Scene{spyScene("a", &a), spyScene("d", &d)})

	for range 4 {
		s.Tick()
	}
	if d.calls != 0 {
		t.Fatalf("d drawn %d times while off screen", d.calls)
	}

	scrollTo(page, ev, page.MaxScroll())
	before := a.calls
	for range 6 {
		s.Tick()
	}
	if a.calls != before {
		t.Errorf("a drawn %d times after leaving the margin", a.calls-before)
	}
	if d.calls == 0 {
		t.Error("d should draw once visible")
	}
	if s.Visible().Has("a") {
		t.Error("a should not be in the visible set")
	}

	// Re-entering at a new position draws again.
	scrollTo(page, ev, 100)
	s.Tick()
	s.Tick()
	if a.calls == before {
		t.Error("a should draw again after re-entering")
	}
	if got := a.frames[len(a.frames)-1].Progress; math.Abs(got-700.0/1200.0) > 1e-9 {
		t.Errorf("re-entry progress = %v, want %v", got, 700.0/1200.0)
	}
}

func TestSchedulerAutonomousDrawsEveryFrame(t *testing.T) {
	page := newTestPage("a", "b")
	var a drawSpy
	sc := spyScene("a", &a)
	sc.Autonomous = true
	s, _, clk := mountTest(t, page, []Scene{sc})

	for range 5 {
		clk.Advance(16 * time.Millisecond)
		s.Tick()
	}
	if a.calls != 5 {
		t.Errorf("calls = %d, want 5", a.calls)
	}
	if got := a.frames[4].Time; got != 0.08 {
		t.Errorf("Time = %v, want 0.08", got)
	}
	if got := a.frames[4].Delta; got != 0.016 {
		t.Errorf("Delta = %v, want 0.016", got)
	}
}

func TestSchedulerStatefulLifecycle(t *testing.T) {
	page := newTestPage("a", "b", "c")
	var r rendererSpy
	created := 0
	s, ev, _ := mountTest(t, page, []Scene{statefulSpy("c", &r, &created)})

	s.Tick()
	if created != 0 {
		t.Fatal("renderer created before its scene was visible")
	}

	scrollTo(page, ev, 600)
	for range 4 {
		s.Tick()
	}
	if created != 1 {
		t.Errorf("created = %d, want 1", created)
	}
	if r.updates != 4 {
		t.Errorf("updates = %d, want 4 (every frame)", r.updates)
	}
	if s.Renderer("c") != Renderer(&r) {
		t.Error("Renderer should return the created renderer")
	}

	// Leaving and re-entering keeps the same renderer.
	scrollTo(page, ev, 0)
	s.Tick()
	scrollTo(page, ev, 600)
	s.Tick()
	if created != 1 {
		t.Errorf("created = %d after re-entry, want 1", created)
	}
}

func TestSchedulerStatefulRunsBeforeStateless(t *testing.T) {
	page := newTestPage("a", "b")
	var order []string
	spy := drawSpy{log: &order, name: "draw"}
	r := rendererSpy{log: &order}
	created := 0
	s, _, _ := mountTest(t, page, []Scene{spyScene("a", &spy), statefulSpy("b", &r, &created)})

	s.Tick()
	if diff := cmp.Diff([]string{"renderer", "draw"}, order); diff != "" {
		t.Errorf("order (-want +got):\n%s", diff)
	}
}

func TestSchedulerDropsScenesWithMissingHandles(t *testing.T) {
	page := newTestPage("a")
	var a, b, c drawSpy
	noSection := spyScene("ghost", &b)
	noCanvas := spyScene("a2", &c)
	noCanvas.SectionID = "a"

	s, _, _ := mountTest(t, page, []Scene{spyScene("a", &a), noSection, noCanvas})
	if diff := cmp.Diff([]string{"a"}, s.Registered()); diff != "" {
		t.Errorf("registered (-want +got):\n%s", diff)
	}
	s.Tick()
	if b.calls+c.calls != 0 {
		t.Error("dropped scenes must never be drawn")
	}
}

func TestSchedulerNoScenes(t *testing.T) {
	page := newTestPage("a")
	var spy drawSpy
	s := NewScheduler(page, NewEvents(), []Scene{spyScene("missing", &spy)})
	if err := s.Mount(); !errors.Is(err, ErrNoScenes) {
		t.Fatalf("Mount = %v, want ErrNoScenes", err)
	}
	s.Tick() // harmless
}

func TestSchedulerMountTwice(t *testing.T) {
	page := newTestPage("a")
	var spy drawSpy
	s, _, _ := mountTest(t, page, []Scene{spyScene("a", &spy)})
	if err := s.Mount(); !errors.Is(err, ErrMounted) {
		t.Errorf("second Mount = %v, want ErrMounted", err)
	}
	s.Unmount()
	if err := s.Mount(); !errors.Is(err, ErrUnmounted) {
		t.Errorf("Mount after Unmount = %v, want ErrUnmounted", err)
	}
}

func TestSchedulerDisablesAfterConsecutiveFailures(t *testing.T) {
	page := newTestPage("a", "b")
	calls := 0
	bad := StatelessScene{ID: "a", SectionID: "a", CanvasID: CanvasID("a"), Draw: func(Canvas, Frame) {
		calls++
		panic("boom")
	}}
	var good drawSpy
	goodScene := spyScene("b", &good)
	goodScene.Autonomous = true
	s, _, _ := mountTest(t, page, []Scene{bad, goodScene})

	for range 8 {
		s.Tick()
	}
	if calls != DefaultFailureLimit {
		t.Errorf("bad scene called %d times, want %d", calls, DefaultFailureLimit)
	}
	if !s.Disabled("a") {
		t.Error("bad scene should be disabled")
	}
	if good.calls != 8 {
		t.Errorf("good scene called %d times, want 8", good.calls)
	}
}

func TestSchedulerSuccessResetsFailures(t *testing.T) {
	page := newTestPage("a")
	calls := 0
	flaky := StatelessScene{ID: "a", SectionID: "a", CanvasID: CanvasID("a"), Autonomous: true,
		Draw: func(c Canvas, _ Frame) {
			calls++
			if calls%3 != 0 {
				panic("flaky")
			}
			c.Clear()
		}}
	s, _, _ := mountTest(t, page, []Scene{flaky})

	for range 12 {
		s.Tick()
	}
	if s.Disabled("a") {
		t.Error("a scene that keeps recovering should stay enabled")
	}
	if calls != 12 {
		t.Errorf("calls = %d, want 12", calls)
	}
}

func TestSchedulerRendererFactoryError(t *testing.T) {
	page := newTestPage("a")
	created := 0
	sc := StatefulScene{ID: "a", SectionID: "a", CanvasID: CanvasID("a"),
		NewRenderer: func(Surface, *Events) (Renderer, error) {
			created++
			return nil, errBackend
		}}
	s, _, _ := mountTest(t, page, []Scene{sc})
	for range 3 {
		s.Tick()
	}
	if created != 1 {
		t.Errorf("factory called %d times, want 1", created)
	}
	if !s.Disabled("a") {
		t.Error("scene should be disabled after factory error")
	}
}

func TestSchedulerDebouncedResize(t *testing.T) {
	page := newTestPage("a", "b", "c")
	var a drawSpy
	s, ev, clk := mountTest(t, page, []Scene{spyScene("a", &a)})
	s.Tick()

	surf, _ := page.Surface(CanvasID("a"))
	rs := surf.(*RecordingSurface)

	for _, w := range []float64{900, 1000, 1100} {
		page.SetViewport(w, 700, 2)
		ev.EmitResize(ResizeEvent{Width: w, Height: 700, DeviceScale: 2})
		clk.Advance(50 * time.Millisecond)
		s.Tick()
	}
	if rs.Resizes() != 0 {
		t.Fatalf("resized %d times during the burst, want 0", rs.Resizes())
	}

	calls := a.calls
	clk.Advance(DefaultResizeDebounce)
	s.Tick() // frame 5
	if rs.Resizes() != 1 {
		t.Fatalf("resized %d times after the burst, want 1", rs.Resizes())
	}
	if w, h := rs.BackingSize(); w != 2200 || h != 1400 {
		t.Errorf("backing = %dx%d, want 2200x1400", w, h)
	}
	other, _ := page.Surface(CanvasID("c"))
	if other.(*RecordingSurface).Resizes() != 0 {
		t.Error("canvas without a scene should not be resized")
	}
	// Progress is still 0.5, so only the forced repaint can draw.
	if a.calls != calls+1 {
		t.Fatalf("calls = %d, want %d", a.calls, calls+1)
	}
	if got := a.frames[len(a.frames)-1].Width; got != 1100 {
		t.Errorf("repaint width = %v, want 1100", got)
	}
}

func TestSchedulerAuxDataCreatedOnceAndSeeded(t *testing.T) {
	page := newTestPage("a")
	made := 0
	sc := StatelessScene{ID: "a", SectionID: "a", CanvasID: CanvasID("a"),
		Draw: func(c Canvas, _ Frame) { c.Clear() },
		NewData: func(rng *rand.Rand) any {
			made++
			return []uint64{rng.Uint64(), rng.Uint64()}
		}}

	s1, _, _ := mountTest(t, page, []Scene{sc}, WithSeed(42))
	for range 5 {
		s1.Tick()
	}
	if made != 1 {
		t.Errorf("NewData called %d times, want 1", made)
	}

	s2, _, _ := mountTest(t, newTestPage("a"), []Scene{sc}, WithSeed(42))
	if diff := cmp.Diff(s1.Data("a"), s2.Data("a")); diff != "" {
		t.Errorf("same seed should give same data (-s1 +s2):\n%s", diff)
	}
}

func TestSchedulerTeardown(t *testing.T) {
	page := newTestPage("a", "b")
	var a, b drawSpy
	bs := spyScene("b", &b)
	bs.Autonomous = true
	s, ev, clk := mountTest(t, page, []Scene{spyScene("a", &a), bs})
	s.Tick()

	ev.EmitResize(ResizeEvent{Width: 1000, Height: 700, DeviceScale: 1})
	s.Unmount()

	writes := recorder(page, "a").Writes() + recorder(page, "b").Writes()
	callsA, callsB := a.calls, b.calls

	scrollTo(page, ev, 300)
	ev.EmitScroll(300)
	ev.EmitResize(ResizeEvent{Width: 1200, Height: 800, DeviceScale: 2})
	clk.Advance(time.Second)
	s.Tick()
	s.Tick()

	if got := recorder(page, "a").Writes() + recorder(page, "b").Writes(); got != writes {
		t.Errorf("canvas writes after unmount: %d", got-writes)
	}
	if a.calls != callsA || b.calls != callsB {
		t.Error("draw callbacks ran after unmount")
	}
	if ns, nr := ev.Listeners(); ns != 0 || nr != 0 {
		t.Errorf("listeners after unmount = (%d, %d), want (0, 0)", ns, nr)
	}
	if s.Visible().Len() != 0 {
		t.Error("visible set should be empty after unmount")
	}
	if s.Mounted() {
		t.Error("Mounted should be false")
	}
	surf, _ := page.Surface(CanvasID("a"))
	if surf.(*RecordingSurface).Resizes() != 0 {
		t.Error("pending debounced resize should be cancelled")
	}
}

func TestSchedulerUnmountDisposesRenderers(t *testing.T) {
	page := newTestPage("a")
	var r rendererSpy
	created := 0
	s, _, _ := mountTest(t, page, []Scene{statefulSpy("a", &r, &created)})
	s.Tick()
	s.Unmount()
	if !r.disposed {
		t.Error("renderer should be disposed on unmount")
	}
	s.Unmount() // idempotent
}

func TestSchedulerWithLensScene(t *testing.T) {
	page := newTestPage("a", "b")
	var made []*fakeLensBackend
	s, ev, _ := mountTest(t, page, []Scene{LensScene("b", "b", CanvasID("b"), fakeLensConfig(&made))})

	scrollTo(page, ev, 300)
	for range 3 {
		s.Tick()
	}
	if len(made) != 1 {
		t.Fatalf("backends = %d, want 1", len(made))
	}
	if got := len(made[0].renders); got != 3 {
		t.Errorf("renders = %d, want 3", got)
	}
	lr := s.Renderer("b").(*LensRenderer)
	if lr.State() != RendererReady {
		t.Errorf("state = %v, want ready", lr.State())
	}
	s.Unmount()
	if !made[0].disposed {
		t.Error("backend should be disposed on unmount")
	}
}

func TestSchedulerResizeReachesUnbuiltRenderer(t *testing.T) {
	page := newTestPage("a", "b", "c", "d")
	var made []*fakeLensBackend
	s, ev, clk := mountTest(t, page, []Scene{LensScene("d", "d", CanvasID("d"), fakeLensConfig(&made))})
	s.Tick()

	// The window grows while the lensing section is still off screen.
	page.SetViewport(1600, 900, 1)
	ev.EmitResize(ResizeEvent{Width: 1600, Height: 900, DeviceScale: 1})
	clk.Advance(DefaultResizeDebounce)
	s.Tick()
	if s.Renderer("d") != nil {
		t.Fatal("renderer built before its section was visible")
	}

	scrollTo(page, ev, page.MaxScroll())
	s.Tick()
	lr, ok := s.Renderer("d").(*LensRenderer)
	if !ok {
		t.Fatal("lens renderer not built")
	}
	surf, _ := page.Surface(CanvasID("d"))
	if w, h := surf.(*RecordingSurface).BackingSize(); w != 1600 || h != 900 {
		t.Errorf("lens surface backing = %dx%d, want 1600x900", w, h)
	}
	if got := lr.Projection().Aspect; math.Abs(got-1600.0/900.0) > 1e-12 {
		t.Errorf("aspect = %v, want %v", got, 1600.0/900.0)
	}
	if diff := cmp.Diff([]ResizeEvent{{Width: 1600, Height: 900, DeviceScale: 1}}, made[0].resizes); diff != "" {
		t.Errorf("backend sizing (-want +got):\n%s", diff)
	}
}

func TestSchedulerRendererBuiltDuringResizeQuietPeriod(t *testing.T) {
	page := newTestPage("a", "b", "c", "d")
	var made []*fakeLensBackend
	s, ev, clk := mountTest(t, page, []Scene{LensScene("d", "d", CanvasID("d"), fakeLensConfig(&made))})
	s.Tick()

	page.SetViewport(1200, 900, 2)
	ev.EmitResize(ResizeEvent{Width: 1200, Height: 900, DeviceScale: 2})
	scrollTo(page, ev, page.MaxScroll())
	s.Tick()

	surf, _ := page.Surface(CanvasID("d"))
	rs := surf.(*RecordingSurface)
	if w, h := rs.BackingSize(); w != 2400 || h != 1800 {
		t.Errorf("lens surface backing = %dx%d, want 2400x1800", w, h)
	}
	if lr := s.Renderer("d").(*LensRenderer); lr.Uniforms().Resolution != (Vec2{X: 2400, Y: 1800}) {
		t.Errorf("resolution = %v, want 2400x1800", lr.Uniforms().Resolution)
	}

	// Once built, the renderer owns its surface size.
	clk.Advance(DefaultResizeDebounce)
	s.Tick()
	if rs.Resizes() != 1 {
		t.Errorf("surface resized %d times, want 1", rs.Resizes())
	}
	if n := len(made[0].resizes); n != 1 {
		t.Errorf("backend resizes = %d, want 1", n)
	}
}
