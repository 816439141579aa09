package journey

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/hajimehoshi/ebiten/v2"
)

func newTestLens(t *testing.T, cfg LensConfig) (*LensRenderer, *RecordingSurface, *Events) {
	t.Helper()
	surf := NewRecordingSurface(800, 600)
	ev := NewEvents()
	r, err := NewLensRenderer(surf, ev, cfg)
	if err != nil {
		t.Fatalf("NewLensRenderer: %v", err)
	}
	return r, surf, ev
}

func TestLensRendererWaitsForReadiness(t *testing.T) {
	var made []*fakeLensBackend
	ready := &fakeReady{}
	cfg := fakeLensConfig(&made)
	cfg.Ready = ready
	r, _, _ := newTestLens(t, cfg)

	if r.State() != RendererInitializing {
		t.Fatalf("state = %v, want initializing", r.State())
	}
	for range 3 {
		r.Update(0.5, 1)
	}
	if len(made) != 0 || r.Frames() != 0 {
		t.Fatal("nothing may render before the runtime is ready")
	}

	ready.ready = true
	r.Update(0.5, 1)
	if r.State() != RendererReady {
		t.Fatalf("state = %v, want ready", r.State())
	}
	if len(made) != 1 || len(made[0].renders) != 1 {
		t.Fatalf("backends=%d, want one backend with one render", len(made))
	}
	if diff := cmp.Diff([]ResizeEvent{{Width: 800, Height: 600, DeviceScale: 1}}, made[0].resizes); diff != "" {
		t.Errorf("initial backend resize (-want +got):\n%s", diff)
	}
}

func TestLensRendererUniforms(t *testing.T) {
	var made []*fakeLensBackend
	r, _, _ := newTestLens(t, fakeLensConfig(&made))

	const now = 2.0
	for range 3 {
		r.Update(0.5, now)
	}
	u := r.Uniforms()
	approx := cmpopts.EquateApprox(0, 1e-9)
	want := LensUniforms{
		Time:       3 * LensTimeStep,
		Strength:   0.5,
		Radius:     0.15,
		Center:     Vec2{X: math.Sin(now*0.6) * 0.1, Y: math.Cos(now*0.4) * 0.1},
		Aspect:     800.0 / 600.0,
		Resolution: Vec2{X: 800, Y: 600},
	}
	if diff := cmp.Diff(want, u, approx); diff != "" {
		t.Errorf("uniforms (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(u, made[0].renders[2], approx); diff != "" {
		t.Errorf("backend saw different uniforms (-renderer +backend):\n%s", diff)
	}
}

func TestLensRendererRadiusFollowsProgress(t *testing.T) {
	tests := []struct {
		progress float64
		radius   float64
	}{
		{0, 0},
		{0.5, 0.15},
		{1, 0},
		{-3, 0},
		{7, 0},
	}
	for _, tt := range tests {
		r, _, _ := newTestLens(t, fakeLensConfig(nil))
		r.Update(tt.progress, 0)
		if got := r.Uniforms().Radius; math.Abs(got-tt.radius) > 1e-9 {
			t.Errorf("Radius(%v) = %v, want %v", tt.progress, got, tt.radius)
		}
		if s := r.Uniforms().Strength; s < 0 || s > 1 {
			t.Errorf("Strength(%v) = %v, want within [0, 1]", tt.progress, s)
		}
	}
}

func TestLensRendererResize(t *testing.T) {
	var made []*fakeLensBackend
	clk := newFakeClock()
	cfg := fakeLensConfig(&made)
	cfg.Clock = clk.Now
	r, surf, ev := newTestLens(t, cfg)
	r.Update(0.3, 0)

	// A window drag delivers a burst of resizes.
	for _, w := range []float64{1000, 1200, 1400, 1500, 1600} {
		ev.EmitResize(ResizeEvent{Width: w, Height: 900, DeviceScale: 1})
		clk.Advance(20 * time.Millisecond)
		r.Update(0.3, 0)
	}
	if surf.Resizes() != 0 || len(made[0].resizes) != 1 {
		t.Fatalf("surface resizes=%d backend resizes=%d during the burst, want 0 and 1 (init)",
			surf.Resizes(), len(made[0].resizes))
	}
	if !r.ResizePending() {
		t.Fatal("resize should be pending")
	}

	clk.Advance(DefaultResizeDebounce)
	r.Update(0.3, 0)
	if r.ResizePending() {
		t.Error("resize still pending after the quiet period")
	}
	if surf.Resizes() != 1 {
		t.Errorf("surface resizes = %d, want 1", surf.Resizes())
	}
	if w, h := surf.BackingSize(); w != 1600 || h != 900 {
		t.Errorf("backing = %dx%d, want 1600x900", w, h)
	}
	if got := r.Projection().Aspect; math.Abs(got-1600.0/900.0) > 1e-12 {
		t.Errorf("aspect = %v, want %v", got, 1600.0/900.0)
	}
	if p := r.Projection(); p.Top != 1 || p.Bottom != -1 || p.Right != p.Aspect || p.Left != -p.Aspect {
		t.Errorf("projection = %+v", p)
	}

	ev.EmitResize(ResizeEvent{Width: 1600, Height: 900, DeviceScale: 2})
	clk.Advance(DefaultResizeDebounce)
	r.Update(0.3, 0)
	if w, h := surf.BackingSize(); w != 3200 || h != 1800 {
		t.Errorf("backing at 2x = %dx%d, want 3200x1800", w, h)
	}
	if got := r.Uniforms().Resolution; got != (Vec2{X: 3200, Y: 1800}) {
		t.Errorf("resolution = %v, want 3200x1800", got)
	}
	want := []ResizeEvent{
		{Width: 800, Height: 600, DeviceScale: 1},
		{Width: 1600, Height: 900, DeviceScale: 1},
		{Width: 1600, Height: 900, DeviceScale: 2},
	}
	if diff := cmp.Diff(want, made[0].resizes); diff != "" {
		t.Errorf("backend resizes (-want +got):\n%s", diff)
	}
}

func TestLensRendererResizeWaitsForUpdate(t *testing.T) {
	clk := newFakeClock()
	cfg := fakeLensConfig(nil)
	cfg.Clock = clk.Now
	cfg.ResizeDebounce = 50 * time.Millisecond
	r, surf, ev := newTestLens(t, cfg)

	ev.EmitResize(ResizeEvent{Width: 400, Height: 300, DeviceScale: 1})
	clk.Advance(time.Second)
	if surf.Resizes() != 0 {
		t.Fatal("resize applied outside Update")
	}
	r.Update(0, 0)
	if w, h := surf.Size(); w != 400 || h != 300 {
		t.Errorf("size = %vx%v, want 400x300", w, h)
	}
}

func TestLensRendererInitFailureStaysInert(t *testing.T) {
	built := false
	tests := []struct {
		name string
		cfg  LensConfig
	}{
		{"readiness error", LensConfig{
			Ready: &fakeReady{ready: true, err: errBackend},
			NewBackend: func(Surface) (LensBackend, error) {
				built = true
				return &fakeLensBackend{}, nil
			},
		}},
		{"backend error", LensConfig{
			NewBackend: func(Surface) (LensBackend, error) { return nil, errBackend },
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, ev := newTestLens(t, tt.cfg)
			for range 3 {
				r.Update(0.5, 0)
			}
			if r.State() != RendererFailed {
				t.Errorf("state = %v, want failed", r.State())
			}
			if r.Frames() != 0 {
				t.Errorf("frames = %d, want 0", r.Frames())
			}
			ev.EmitResize(ResizeEvent{Width: 100, Height: 100, DeviceScale: 1})
			r.Dispose()
		})
	}
	if built {
		t.Error("backend built despite a readiness error")
	}
}

func TestLensRendererDispose(t *testing.T) {
	var made []*fakeLensBackend
	clk := newFakeClock()
	cfg := fakeLensConfig(&made)
	cfg.Clock = clk.Now
	r, surf, ev := newTestLens(t, cfg)
	r.Update(0.5, 0)
	ev.EmitResize(ResizeEvent{Width: 30, Height: 30, DeviceScale: 1})
	r.Dispose()
	clk.Advance(DefaultResizeDebounce)

	if !made[0].disposed {
		t.Error("backend not disposed")
	}
	if _, nr := ev.Listeners(); nr != 0 {
		t.Errorf("resize listeners = %d, want 0", nr)
	}
	if r.State() != RendererDisposed {
		t.Errorf("state = %v, want disposed", r.State())
	}
	ev.EmitResize(ResizeEvent{Width: 10, Height: 10, DeviceScale: 1})
	r.Update(0.5, 0)
	r.Resize(20, 20, 1)
	if surf.Resizes() != 0 {
		t.Error("disposed renderer resized its surface")
	}
	r.Dispose()
}

func TestNewLensRendererValidates(t *testing.T) {
	if _, err := NewLensRenderer(nil, nil, fakeLensConfig(nil)); err == nil {
		t.Error("nil surface should fail")
	}
	if _, err := NewLensRenderer(NewRecordingSurface(1, 1), nil, LensConfig{}); err == nil {
		t.Error("missing backend constructor should fail")
	}
}

func TestRendererStateString(t *testing.T) {
	if got := RendererReady.String(); got != "ready" {
		t.Errorf("String = %q", got)
	}
	if got := RendererState(42).String(); got != "RendererState(42)" {
		t.Errorf("String = %q", got)
	}
}

func TestNewProjection(t *testing.T) {
	tests := []struct {
		w, h, aspect float64
	}{
		{800, 600, 800.0 / 600.0},
		{600, 800, 0.75},
		{0, 600, 1},
		{800, 0, 1},
	}
	for _, tt := range tests {
		p := NewProjection(tt.w, tt.h)
		want := Projection{Left: -tt.aspect, Right: tt.aspect, Bottom: -1, Top: 1, Aspect: tt.aspect}
		if p != want {
			t.Errorf("NewProjection(%v, %v) = %+v, want %+v", tt.w, tt.h, p, want)
		}
	}
}

func waitReady[T any](t *testing.T, f *Future[T]) error {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ok, err := f.Ready(); ok {
			return err
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("future never resolved")
	return nil
}

func TestFuture(t *testing.T) {
	release := make(chan struct{})
	f := Go(func() (int, error) {
		<-release
		return 7, nil
	})
	if ok, _ := f.Ready(); ok {
		t.Fatal("future ready before its work finished")
	}
	if f.Value() != 0 {
		t.Error("Value before ready should be zero")
	}
	close(release)
	if err := waitReady(t, f); err != nil {
		t.Fatalf("err = %v", err)
	}
	if f.Value() != 7 {
		t.Errorf("Value = %d, want 7", f.Value())
	}
}

func TestFuturePanicBecomesError(t *testing.T) {
	f := Go(func() (int, error) { panic("no gpu") })
	if err := waitReady(t, f); err == nil {
		t.Error("panic should surface as an error")
	}
}

func TestResolvedFuture(t *testing.T) {
	f := Resolved("x", errBackend)
	ok, err := f.Ready()
	if !ok || !errors.Is(err, errBackend) {
		t.Errorf("Ready = (%v, %v)", ok, err)
	}
}

func TestEbitenLensConfigUsesGivenShader(t *testing.T) {
	tests := []struct {
		name   string
		shader *Future[*ebiten.Shader]
	}{
		{"compile error", Resolved[*ebiten.Shader](nil, errBackend)},
		{"no shader", Resolved[*ebiten.Shader](nil, nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := EbitenLensConfig(tt.shader, 1, nil)
			if cfg.Ready != Readiness(tt.shader) {
				t.Fatal("config should wait on the given shader")
			}
			r, _, _ := newTestLens(t, cfg)
			r.Update(0.5, 0)
			if r.State() != RendererFailed {
				t.Errorf("state = %v, want failed", r.State())
			}
		})
	}
}
