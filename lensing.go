package journey

import (
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

// LensTimeStep is how far the lens shader clock advances per Update.
const LensTimeStep = 0.016

// RendererState is the lifecycle state of a persistent renderer.
type RendererState uint8

const (
	RendererUninitialized RendererState = iota
	RendererInitializing                // waiting on the shader runtime
	RendererReady
	RendererFailed   // init failed; the renderer stays inert
	RendererDisposed // Dispose was called
)

func (s RendererState) String() string {
	switch s {
	case RendererUninitialized:
		return "uninitialized"
	case RendererInitializing:
		return "initializing"
	case RendererReady:
		return "ready"
	case RendererFailed:
		return "failed"
	case RendererDisposed:
		return "disposed"
	}
	return fmt.Sprintf("RendererState(%d)", uint8(s))
}

// --- Future ---

// Future is the result of work running on another goroutine. It is polled
// from the game loop, never awaited.
type Future[T any] struct {
	done chan struct{}
	val  T
	err  error
}

// Go runs fn on a new goroutine and returns its future.
func Go[T any](fn func() (T, error)) *Future[T] {
	f := &Future[T]{done: make(chan struct{})}
	go func() {
		defer close(f.done)
		defer func() {
			if r := recover(); r != nil {
				f.err = fmt.Errorf("journey: async init panicked: %v", r)
			}
		}()
		f.val, f.err = fn()
	}()
	return f
}

// Resolved returns an already completed future.
func Resolved[T any](v T, err error) *Future[T] {
	f := &Future[T]{done: make(chan struct{}), val: v, err: err}
	close(f.done)
	return f
}

// Ready reports whether the work has finished, and its error if so.
func (f *Future[T]) Ready() (bool, error) {
	select {
	case <-f.done:
		return true, f.err
	default:
		return false, nil
	}
}

// Value returns the result. It is the zero value until Ready reports true.
func (f *Future[T]) Value() T {
	if ok, _ := f.Ready(); !ok {
		var zero T
		return zero
	}
	return f.val
}

// Readiness is polled by a renderer until its runtime dependencies exist.
type Readiness interface {
	Ready() (bool, error)
}

// --- Projection ---

// Projection is an orthographic camera whose vertical extent is [-1, 1] and
// whose horizontal extent preserves the viewport aspect ratio.
type Projection struct {
	Left, Right float64
	Bottom, Top float64
	Aspect      float64
}

// NewProjection returns the projection for a w×h viewport. Degenerate sizes
// yield an aspect of 1.
func NewProjection(w, h float64) Projection {
	aspect := 1.0
	if w > 0 && h > 0 {
		aspect = w / h
	}
	return Projection{Left: -aspect, Right: aspect, Bottom: -1, Top: 1, Aspect: aspect}
}

// --- Lens renderer ---

// LensUniforms is the per-frame input of the lensing shader. Center is in
// projection space; Resolution is in device pixels.
type LensUniforms struct {
	Time       float64
	Strength   float64
	Radius     float64
	Center     Vec2
	Aspect     float64
	Resolution Vec2
}

// LensBackend owns the GPU side of the lensing effect.
type LensBackend interface {
	// Resize reallocates render targets for the given logical size.
	Resize(w, h, deviceScale float64)
	// Render submits one frame.
	Render(u LensUniforms)
	Dispose()
}

// LensConfig wires a LensRenderer to its runtime.
type LensConfig struct {
	// Ready gates initialization. Nil means ready immediately.
	Ready Readiness
	// NewBackend builds the backend once Ready resolves.
	NewBackend func(s Surface) (LensBackend, error)
	Logger     *zap.Logger
	// Clock times the resize debounce. Defaults to time.Now.
	Clock func() time.Time
	// ResizeDebounce is the quiet period before a resize reaches the
	// backing store. Zero means DefaultResizeDebounce.
	ResizeDebounce time.Duration
}

// LensRenderer is the persistent gravitational lensing renderer. It keeps a
// backend, a projection and a uniform block alive across frames and resizes
// itself from the event bus. Resize bursts are collapsed and applied at the
// start of the next Update.
type LensRenderer struct {
	cfg      LensConfig
	log      *zap.Logger
	surface  Surface
	state    RendererState
	backend  LensBackend
	proj     Projection
	uniforms LensUniforms
	unsub    func()
	frames   int

	clock         func() time.Time
	debounce      *Debouncer
	pendingResize ResizeEvent
}

// NewLensRenderer creates the renderer in the Initializing state and
// subscribes it to resize events.
func NewLensRenderer(surface Surface, events *Events, cfg LensConfig) (*LensRenderer, error) {
	if surface == nil {
		return nil, errors.New("journey: lens renderer needs a surface")
	}
	if cfg.NewBackend == nil {
		return nil, errors.New("journey: lens renderer needs a backend constructor")
	}
	r := &LensRenderer{cfg: cfg, log: cfg.Logger, surface: surface, state: RendererInitializing, clock: cfg.Clock}
	if r.log == nil {
		r.log = zap.NewNop()
	}
	if r.clock == nil {
		r.clock = time.Now
	}
	delay := cfg.ResizeDebounce
	if delay <= 0 {
		delay = DefaultResizeDebounce
	}
	r.debounce = NewDebouncer(delay)
	w, h := surface.Size()
	r.applySize(w, h, surfaceScale(surface))
	if events != nil {
		r.unsub = events.OnResize(r.queueResize)
	}
	return r, nil
}

// LensScene returns the stateful scene descriptor for the lensing beat.
func LensScene(id, sectionID, canvasID string, cfg LensConfig) StatefulScene {
	return StatefulScene{
		ID:        id,
		SectionID: sectionID,
		CanvasID:  canvasID,
		NewRenderer: func(s Surface, ev *Events) (Renderer, error) {
			return NewLensRenderer(s, ev, cfg)
		},
	}
}

// State returns the lifecycle state.
func (r *LensRenderer) State() RendererState { return r.state }

// Uniforms returns the uniforms of the latest frame.
func (r *LensRenderer) Uniforms() LensUniforms { return r.uniforms }

// Projection returns the current camera projection.
func (r *LensRenderer) Projection() Projection { return r.proj }

// Frames returns the number of frames submitted to the backend.
func (r *LensRenderer) Frames() int { return r.frames }

// Update applies a settled resize, advances the shader clock and renders
// one frame. Before the runtime is ready it only polls readiness.
func (r *LensRenderer) Update(progress, now float64) {
	r.flushResize()
	if r.state == RendererInitializing && !r.init() {
		return
	}
	if r.state != RendererReady {
		return
	}
	p := clamp01(progress)
	u := &r.uniforms
	u.Time += LensTimeStep
	u.Strength = p
	u.Radius = math.Sin(p*math.Pi) * 0.15
	u.Center = Vec2{
		X: math.Sin(now*0.6) * 0.2 * p,
		Y: math.Cos(now*0.4) * 0.2 * p,
	}
	r.backend.Render(*u)
	r.frames++
}

// init polls readiness and builds the backend. It reports whether the
// renderer became ready.
func (r *LensRenderer) init() bool {
	if r.cfg.Ready != nil {
		ok, err := r.cfg.Ready.Ready()
		if !ok {
			return false
		}
		if err != nil {
			r.fail(err)
			return false
		}
	}
	b, err := r.cfg.NewBackend(r.surface)
	if err != nil {
		r.fail(err)
		return false
	}
	r.backend = b
	w, h := r.surface.Size()
	b.Resize(w, h, surfaceScale(r.surface))
	r.state = RendererReady
	r.log.Debug("lens renderer ready", zap.Stringer("state", r.state))
	return true
}

func (r *LensRenderer) fail(err error) {
	r.state = RendererFailed
	r.log.Error("lens renderer init failed", zap.Stringer("state", r.state), zap.Error(err))
}

// ResizePending reports whether a resize is waiting for its quiet period.
func (r *LensRenderer) ResizePending() bool { return r.debounce.Pending() }

func (r *LensRenderer) queueResize(ev ResizeEvent) {
	r.pendingResize = ev
	r.debounce.Trigger(r.clock())
}

func (r *LensRenderer) flushResize() {
	if r.debounce.Poll(r.clock()) {
		ev := r.pendingResize
		r.Resize(ev.Width, ev.Height, ev.DeviceScale)
	}
}

// Resize recomputes the projection and resizes the surface and backend
// immediately.
func (r *LensRenderer) Resize(w, h, deviceScale float64) {
	if r.state == RendererDisposed {
		return
	}
	if deviceScale <= 0 {
		deviceScale = 1
	}
	r.surface.Resize(w, h, deviceScale)
	r.applySize(w, h, deviceScale)
	if r.backend != nil {
		r.backend.Resize(w, h, deviceScale)
	}
}

func (r *LensRenderer) applySize(w, h, deviceScale float64) {
	r.proj = NewProjection(w, h)
	r.uniforms.Aspect = r.proj.Aspect
	r.uniforms.Resolution = Vec2{
		X: float64(deviceSize(w, deviceScale)),
		Y: float64(deviceSize(h, deviceScale)),
	}
}

// Dispose releases the backend and detaches the resize listener.
func (r *LensRenderer) Dispose() {
	if r.state == RendererDisposed {
		return
	}
	if r.unsub != nil {
		r.unsub()
		r.unsub = nil
	}
	r.debounce.Cancel()
	if r.backend != nil {
		r.backend.Dispose()
		r.backend = nil
	}
	r.state = RendererDisposed
}
