package journey

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
)

const (
	// DefaultEpsilon is the smallest progress change that repaints a
	// stateless scene.
	DefaultEpsilon = 0.01
	// DefaultFailureLimit is the number of consecutive panics after which a
	// scene is disabled for the rest of the mount.
	DefaultFailureLimit = 3
)

var (
	// ErrMounted is returned by Mount on an already mounted scheduler.
	ErrMounted = errors.New("journey: scheduler already mounted")
	// ErrUnmounted is returned by Mount after Unmount. Schedulers are single-use.
	ErrUnmounted = errors.New("journey: scheduler was unmounted")
	// ErrNoScenes is returned by Mount when no scene could be bound to the
	// document. The scheduler still mounts and ticks harmlessly.
	ErrNoScenes = errors.New("journey: no scene resolved against the document")
)

// sceneState is the runtime record of one mounted scene. Auxiliary data and
// the renderer are owned here and touched only by that scene's own calls.
type sceneState struct {
	scene      Scene
	stateless  StatelessScene
	stateful   StatefulScene
	isStateful bool

	section BoxSource
	surface Surface

	lastProgress float64
	renderer     Renderer
	data         any

	failures int
	disabled bool
}

// FrameStats counts the work done by the latest Tick.
type FrameStats struct {
	Frame           uint64
	Visible         int
	Draws           int
	RendererUpdates int
	Throttled       int // stateless scenes whose progress moved less than epsilon
	Skipped         int // stateless scenes skipped by the alternate-frame throttle
	Failures        int
	Elapsed         time.Duration
}

// Option configures a Scheduler.
type Option func(s *Scheduler)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock replaces time.Now, e.g. with a fake clock in tests.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

// WithMargin sets the visibility margin in logical pixels.
func WithMargin(margin float64) Option {
	return func(s *Scheduler) {
		s.margin = margin
	}
}

// WithEpsilon sets the progress change below which stateless scenes are not
// repainted.
func WithEpsilon(eps float64) Option {
	return func(s *Scheduler) {
		s.epsilon = eps
	}
}

// WithDebounce sets the quiet period before surfaces are resized.
func WithDebounce(d time.Duration) Option {
	return func(s *Scheduler) {
		s.debounce = NewDebouncer(d)
	}
}

// WithFailureLimit sets how many consecutive panics disable a scene.
// Values below 1 are treated as 1.
func WithFailureLimit(n int) Option {
	return func(s *Scheduler) {
		s.failureLimit = max(n, 1)
	}
}

// WithSeed fixes the seed used to generate auxiliary data.
func WithSeed(seed uint64) Option {
	return func(s *Scheduler) {
		s.seed = seed
	}
}

// WithDebug enables per-frame stats logging at debug level.
func WithDebug(enabled bool) Option {
	return func(s *Scheduler) {
		s.debug = enabled
	}
}

// Scheduler maps scroll position to per-scene progress and drives the
// visible scenes once per frame. It is single-threaded: Mount, Tick,
// Unmount and event emission must all happen on the same goroutine.
type Scheduler struct {
	doc    Document
	events *Events
	scenes []Scene

	states  []*sceneState
	byID    map[string]*sceneState
	visible *VisibleSet
	tracker *VisibilityTracker

	debounce      *Debouncer
	pendingResize ResizeEvent
	unsubs        []func()

	frame     uint64
	mounted   bool
	unmounted bool
	start     time.Time
	lastTick  time.Time

	now          func() time.Time
	log          *zap.Logger
	margin       float64
	epsilon      float64
	failureLimit int
	seed         uint64
	debug        bool
	stats        FrameStats
}

// NewScheduler creates an unmounted scheduler for the given scenes. Scenes
// are evaluated in the order given.
func NewScheduler(doc Document, events *Events, scenes []Scene, opts ...Option) *Scheduler {
	s := &Scheduler{
		doc:          doc,
		events:       events,
		scenes:       scenes,
		byID:         make(map[string]*sceneState, len(scenes)),
		visible:      NewVisibleSet(),
		debounce:     NewDebouncer(DefaultResizeDebounce),
		now:          time.Now,
		log:          zap.NewNop(),
		margin:       DefaultVisibilityMargin,
		epsilon:      DefaultEpsilon,
		failureLimit: DefaultFailureLimit,
		seed:         uint64(time.Now().UnixNano()),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Mount resolves every scene against the document, builds runtime state and
// auxiliary data, starts visibility tracking and subscribes to scroll and
// resize events. Scenes whose section or canvas is missing are dropped.
func (s *Scheduler) Mount() error {
	if s.unmounted {
		return ErrUnmounted
	}
	if s.mounted {
		return ErrMounted
	}

	rng := rand.New(rand.NewPCG(s.seed, s.seed^0x9e3779b97f4a7c15))
	s.tracker = NewVisibilityTracker(s.margin, s.onVisibility)

	for _, sc := range s.scenes {
		if _, dup := s.byID[sc.Key()]; dup {
			panic(fmt.Sprintf("journey: duplicate scene id %q", sc.Key()))
		}
		section, ok := s.doc.Section(sc.Section())
		if !ok {
			continue
		}
		surface, ok := s.doc.Surface(sc.CanvasKey())
		if !ok {
			continue
		}
		st := &sceneState{scene: sc, section: section, surface: surface, lastProgress: -1}
		switch v := sc.(type) {
		case StatelessScene:
			st.stateless = v
			if v.NewData != nil {
				st.data = v.NewData(rng)
			}
		case StatefulScene:
			st.stateful = v
			st.isStateful = true
		}
		s.states = append(s.states, st)
		s.byID[sc.Key()] = st
		s.tracker.Observe(sc.Key(), section)
	}

	s.unsubs = append(s.unsubs,
		s.events.OnScroll(s.onScroll),
		s.events.OnResize(s.onResize),
	)

	s.mounted = true
	s.start = s.now()
	s.lastTick = s.start

	_, vh, _ := s.doc.Viewport()
	s.tracker.Check(vh)

	s.log.Debug("scheduler mounted",
		zap.Int("registered", len(s.scenes)),
		zap.Int("resolved", len(s.states)),
		zap.Uint64("seed", s.seed))

	if len(s.states) == 0 {
		return ErrNoScenes
	}
	return nil
}

func (s *Scheduler) onVisibility(id string, visible bool) {
	if visible {
		s.visible.Add(id)
	} else {
		s.visible.Remove(id)
	}
}

func (s *Scheduler) onScroll(float64) {
	_, vh, _ := s.doc.Viewport()
	s.tracker.Check(vh)
}

func (s *Scheduler) onResize(ev ResizeEvent) {
	s.pendingResize = ev
	s.debounce.Trigger(s.now())
	s.tracker.Check(ev.Height)
}

// Tick runs one frame. Stateful scenes are updated first, then stateless
// scenes are repainted subject to throttling. A no-op unless mounted.
func (s *Scheduler) Tick() {
	if !s.mounted {
		return
	}
	now := s.now()
	if s.debounce.Poll(now) {
		s.resizeSurfaces(s.pendingResize)
	}

	elapsed := now.Sub(s.start).Seconds()
	dt := now.Sub(s.lastTick).Seconds()
	s.lastTick = now

	_, vh, _ := s.doc.Viewport()
	s.frame++
	s.stats = FrameStats{Frame: s.frame, Visible: s.visible.Len()}

	var t0 time.Time
	if s.debug {
		t0 = time.Now()
	}

	for _, st := range s.states {
		if !st.isStateful || st.disabled || !s.visible.Has(st.scene.Key()) {
			continue
		}
		p := Progress(st.section.Box(), vh)
		if s.updateRenderer(st, p, elapsed) {
			s.stats.RendererUpdates++
		}
		st.lastProgress = p
	}

	skip := s.frame%2 == 0
	for _, st := range s.states {
		if st.isStateful || st.disabled || !s.visible.Has(st.scene.Key()) {
			continue
		}
		auto := st.stateless.Autonomous
		if skip && !auto {
			s.stats.Skipped++
			continue
		}
		p := Progress(st.section.Box(), vh)
		if !auto && math.Abs(p-st.lastProgress) <= s.epsilon {
			s.stats.Throttled++
			continue
		}
		// A failed draw leaves lastProgress alone so the next frame retries.
		if s.draw(st, p, elapsed, dt) {
			s.stats.Draws++
			st.lastProgress = p
		}
	}

	if s.debug {
		s.stats.Elapsed = time.Since(t0)
		s.debugLog(s.stats)
		s.debugCheckDraws(s.stats)
	}
}

// updateRenderer lazily creates the scene's renderer and advances it.
func (s *Scheduler) updateRenderer(st *sceneState, progress, elapsed float64) (ok bool) {
	defer s.recoverScene(st, &ok)
	if st.renderer == nil {
		s.syncSurface(st)
		r, err := st.stateful.NewRenderer(st.surface, s.events)
		if err != nil {
			st.disabled = true
			s.log.Error("renderer construction failed; scene disabled",
				zap.String("scene", st.scene.Key()), zap.Error(err))
			return false
		}
		st.renderer = r
	}
	st.renderer.Update(progress, elapsed)
	st.failures = 0
	return true
}

// draw repaints a stateless scene.
func (s *Scheduler) draw(st *sceneState, progress, elapsed, dt float64) (ok bool) {
	defer s.recoverScene(st, &ok)
	w, h := st.surface.Size()
	st.stateless.Draw(st.surface.Canvas(), Frame{
		Width:    w,
		Height:   h,
		Progress: progress,
		Time:     elapsed,
		Delta:    dt,
		Data:     st.data,
	})
	st.failures = 0
	return true
}

// recoverScene turns a panicking scene call into a counted failure. The
// scene is disabled once it fails failureLimit times in a row; the rest of
// the frame proceeds either way.
func (s *Scheduler) recoverScene(st *sceneState, ok *bool) {
	r := recover()
	if r == nil {
		return
	}
	*ok = false
	st.failures++
	s.stats.Failures++
	s.log.Warn("scene panicked",
		zap.String("scene", st.scene.Key()),
		zap.Uint64("frame", s.frame),
		zap.Int("failures", st.failures),
		zap.Any("panic", r))
	if st.failures >= s.failureLimit {
		st.disabled = true
		s.log.Error("scene disabled after repeated failures",
			zap.String("scene", st.scene.Key()),
			zap.Int("failures", st.failures))
	}
}

// resizeSurfaces reallocates every stateless scene's backing store and
// forces a repaint on its next evaluation. Stateful surfaces are resized
// only until their renderer exists; from then on it listens for resizes
// itself.
func (s *Scheduler) resizeSurfaces(ev ResizeEvent) {
	for _, st := range s.states {
		if st.isStateful && st.renderer != nil {
			continue
		}
		st.surface.Resize(ev.Width, ev.Height, ev.DeviceScale)
		st.lastProgress = -1
	}
	s.log.Debug("surfaces resized",
		zap.Float64("width", ev.Width),
		zap.Float64("height", ev.Height),
		zap.Float64("scale", ev.DeviceScale))
}

// syncSurface brings a surface to the current viewport before a renderer is
// built on it, so a resize still inside its quiet period is not lost.
func (s *Scheduler) syncSurface(st *sceneState) {
	w, h, scale := s.doc.Viewport()
	if scale <= 0 {
		scale = 1
	}
	sw, sh := st.surface.Size()
	if sw == w && sh == h && surfaceScale(st.surface) == scale {
		return
	}
	st.surface.Resize(w, h, scale)
}

// Unmount stops the frame loop, disconnects visibility tracking, removes
// event listeners, cancels a pending resize and disposes renderers. The
// scheduler cannot be mounted again.
func (s *Scheduler) Unmount() {
	if !s.mounted {
		return
	}
	s.mounted = false
	s.unmounted = true
	for _, unsub := range s.unsubs {
		unsub()
	}
	s.unsubs = nil
	s.tracker.Disconnect()
	s.debounce.Cancel()
	s.visible.Clear()
	for _, st := range s.states {
		if st.renderer != nil {
			st.renderer.Dispose()
			st.renderer = nil
		}
	}
	s.log.Debug("scheduler unmounted", zap.Uint64("frames", s.frame))
}

// Mounted reports whether the scheduler is mounted.
func (s *Scheduler) Mounted() bool { return s.mounted }

// Visible returns the visible set. It MUST NOT be mutated by the caller.
func (s *Scheduler) Visible() *VisibleSet { return s.visible }

// Frame returns the number of ticks run.
func (s *Scheduler) Frame() uint64 { return s.frame }

// Stats returns the counters of the latest tick.
func (s *Scheduler) Stats() FrameStats { return s.stats }

// Registered returns the identifiers of the mounted scenes in order.
func (s *Scheduler) Registered() []string {
	ids := make([]string, len(s.states))
	for i, st := range s.states {
		ids[i] = st.scene.Key()
	}
	return ids
}

// LastProgress returns the progress a scene was last evaluated at. Scenes
// not yet drawn report -1.
func (s *Scheduler) LastProgress(id string) (float64, bool) {
	st, ok := s.byID[id]
	if !ok {
		return 0, false
	}
	return st.lastProgress, true
}

// Disabled reports whether a scene has been disabled after failures.
func (s *Scheduler) Disabled(id string) bool {
	st, ok := s.byID[id]
	return ok && st.disabled
}

// Data returns a scene's auxiliary data.
func (s *Scheduler) Data(id string) any {
	if st, ok := s.byID[id]; ok {
		return st.data
	}
	return nil
}

// Renderer returns a stateful scene's renderer, or nil before it is created.
func (s *Scheduler) Renderer(id string) Renderer {
	if st, ok := s.byID[id]; ok {
		return st.renderer
	}
	return nil
}
