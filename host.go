package journey

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// HostConfig configures NewHost. Zero values select the defaults noted.
type HostConfig struct {
	// Content is the narrative. Defaults to DefaultContent().
	Content *Content
	// Width and Height are the initial viewport in logical pixels.
	// Default 1280×720.
	Width, Height float64
	// DeviceScale is the initial device pixel ratio. Default 1.
	DeviceScale float64
	// Seed fixes auxiliary data. Zero falls back to Content.Seed, then to
	// the current time.
	Seed   uint64
	Logger *zap.Logger
	Debug  bool
	// ShowFPS draws the FPS/TPS widget.
	ShowFPS bool
	// ScreenshotDir defaults to DefaultScreenshotDir.
	ScreenshotDir string
	// NewSurface creates a section canvas. Defaults to an *ImageSurface.
	NewSurface func(w, h, deviceScale float64) Surface
	// Lens overrides the lensing renderer wiring. Defaults to
	// EbitenLensConfig over a shader compiled by the host.
	Lens *LensConfig
	// Clock overrides the scheduler and lens renderer clocks.
	Clock func() time.Time
	// ExitOnScriptDone ends the game once an attached test script finishes.
	ExitOnScriptDone bool
}

// Host is the ebiten.Game that owns the page, its event bus and the
// scheduler, and turns input into scroll.
type Host struct {
	content  *Content
	page     *Page
	events   *Events
	sched    *Scheduler
	scroller *Scroller
	log      *zap.Logger

	// ScreenshotDir is the directory where screenshots are saved.
	ScreenshotDir string

	runner           *TestRunner
	exitOnScriptDone bool
	injectQueue      []syntheticCommand
	screenshotQueue  []string

	lensShader *Future[*ebiten.Shader]

	debug   bool
	fps     *fpsWidget
	overlay *ImageCanvas
	closed  bool
}

// NewHost lays out the page, mounts the scheduler and returns a host ready
// to be passed to Run.
func NewHost(cfg HostConfig) (*Host, error) {
	if cfg.Content == nil {
		cfg.Content = DefaultContent()
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = 1280, 720
	}
	if cfg.DeviceScale <= 0 {
		cfg.DeviceScale = 1
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.ScreenshotDir == "" {
		cfg.ScreenshotDir = DefaultScreenshotDir
	}
	if cfg.NewSurface == nil {
		cfg.NewSurface = func(w, h, s float64) Surface { return NewImageSurface(w, h, s) }
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = cfg.Content.Seed
	}
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	var (
		shader *Future[*ebiten.Shader]
		lens   LensConfig
	)
	if cfg.Lens != nil {
		lens = *cfg.Lens
	} else {
		shader = CompileLensShader()
		lens = EbitenLensConfig(shader, seed, cfg.Logger.Named("lensing"))
	}
	if lens.Clock == nil {
		lens.Clock = cfg.Clock
	}

	h := &Host{
		content:          cfg.Content,
		page:             cfg.Content.Page(cfg.Width, cfg.Height, cfg.DeviceScale, cfg.NewSurface),
		events:           NewEvents(),
		scroller:         NewScroller(ebiten.DefaultTPS),
		log:              cfg.Logger,
		ScreenshotDir:    cfg.ScreenshotDir,
		exitOnScriptDone: cfg.ExitOnScriptDone,
		lensShader:       shader,
		debug:            cfg.Debug,
	}
	h.scroller.SetBounds(h.page.MaxScroll())
	if cfg.ShowFPS {
		h.fps = newFPSWidget()
	}

	opts := []Option{
		WithLogger(cfg.Logger.Named("scheduler")),
		WithSeed(seed),
		WithDebug(cfg.Debug),
	}
	if cfg.Clock != nil {
		opts = append(opts, WithClock(cfg.Clock))
	}
	h.sched = NewScheduler(h.page, h.events, Scenes(lens), opts...)
	if err := h.sched.Mount(); err != nil {
		if !errors.Is(err, ErrNoScenes) {
			return nil, fmt.Errorf("journey: mounting scheduler: %w", err)
		}
		h.log.Warn("no scene matched the content; the page will be blank")
	}
	h.log.Info("host ready",
		zap.Int("sections", len(h.page.Sections())),
		zap.Strings("scenes", h.sched.Registered()),
		zap.Uint64("seed", seed))
	return h, nil
}

// Content returns the narrative the page was laid out from.
func (h *Host) Content() *Content { return h.content }

// Page returns the document.
func (h *Host) Page() *Page { return h.page }

// Scheduler returns the frame scheduler.
func (h *Host) Scheduler() *Scheduler { return h.sched }

// Scroller returns the scroll animator.
func (h *Host) Scroller() *Scroller { return h.scroller }

// Events returns the page event bus.
func (h *Host) Events() *Events { return h.events }

// SetTestRunner attaches a TestRunner. Its step method is called from
// Update before input is processed each frame.
func (h *Host) SetTestRunner(runner *TestRunner) {
	h.runner = runner
}

// ScrollToSection animates to the top of the named section and reports
// whether it exists.
func (h *Host) ScrollToSection(id string) bool {
	sec, ok := h.page.SectionByID(id)
	if !ok {
		return false
	}
	h.scroller.ScrollTo(sec.Offset(), sectionScrollDur, nil)
	return true
}

// Update implements ebiten.Game.
func (h *Host) Update() error {
	if h.closed {
		return ebiten.Termination
	}
	dt := float32(1.0 / float64(ebiten.TPS()))
	if err := h.step(dt, pollInput); err != nil {
		return err
	}
	if h.fps != nil {
		h.fps.update(float64(dt))
	}
	return nil
}

// step runs one frame: scripted steps, input, scroll, then the scheduler.
// poll is only called when no injected command was consumed.
func (h *Host) step(dt float32, poll func() inputState) error {
	if h.runner != nil {
		h.runner.step(h)
		if h.exitOnScriptDone && h.runner.Done() {
			return ebiten.Termination
		}
	}
	if !h.processInjected() && poll != nil {
		h.applyInput(poll())
	}
	if h.page.SetScroll(h.scroller.Update(dt)) {
		h.events.EmitScroll(h.page.Scroll())
	}
	h.sched.Tick()
	return nil
}

// resize re-lays the page for a new viewport and notifies listeners.
func (h *Host) resize(w, hgt, deviceScale float64) {
	h.page.SetViewport(w, hgt, deviceScale)
	h.scroller.SetBounds(h.page.MaxScroll())
	h.events.EmitResize(ResizeEvent{Width: w, Height: hgt, DeviceScale: deviceScale})
	h.events.EmitScroll(h.page.Scroll())
}

// Layout implements ebiten.Game. The screen is sized in device pixels.
func (h *Host) Layout(outsideWidth, outsideHeight int) (int, int) {
	scale := ebiten.Monitor().DeviceScaleFactor()
	if scale <= 0 {
		scale = 1
	}
	w, hgt := float64(outsideWidth), float64(outsideHeight)
	if vw, vh, s := h.page.Viewport(); w != vw || hgt != vh || scale != s {
		h.resize(w, hgt, scale)
	}
	return int(math.Ceil(w * scale)), int(math.Ceil(hgt * scale))
}

// Draw implements ebiten.Game. Section canvases are composited where their
// sections sit, then the narrative overlay on top.
func (h *Host) Draw(screen *ebiten.Image) {
	screen.Fill(colorSpace.RGBA())
	_, vh, scale := h.page.Viewport()
	for _, sec := range h.page.Sections() {
		b := sec.Box()
		if b.Top >= vh || b.Top+b.Height <= 0 {
			continue
		}
		surf, ok := h.page.Surface(sec.CanvasID)
		if !ok {
			continue
		}
		if img, ok := surf.(*ImageSurface); ok {
			img.Composite(screen, 0, sec.CanvasY()*scale, 1)
		}
	}

	if h.overlay == nil || h.overlay.Image() != screen || h.overlay.scale != scale {
		h.overlay = NewImageCanvas(screen, scale)
	}
	h.drawOverlay(h.overlay)

	if h.fps != nil {
		h.fps.draw(screen, scale)
	}
	if h.debug {
		h.drawDebug(screen)
	}
	h.flushScreenshots(screen)
}

// drawOverlay paints the current section's title and subtitle and a scroll
// rail along the right edge.
func (h *Host) drawOverlay(c Canvas) {
	vw, vh, _ := h.page.Viewport()
	secs := h.page.Sections()
	if len(secs) == 0 {
		return
	}
	sec := secs[h.page.SectionIndexAt(h.page.Scroll())]
	p := Progress(sec.Box(), vh)
	alpha := clamp01(1.2 - math.Abs(p-0.5)*2.4)
	if alpha > 0 {
		c.FillText(sec.Title, vw/2, vh*0.14, FontSizeFor(40, vw), TextAlignCenter, ColorWhite.WithAlpha(alpha))
		c.FillText(sec.Subtitle, vw/2, vh*0.14+FontSizeFor(40, vw), FontSizeFor(20, vw), TextAlignCenter,
			colorStarlight.WithAlpha(alpha*0.8))
	}
	if maxScroll := h.page.MaxScroll(); maxScroll > 0 {
		c.FillRect(vw-6, 0, 3, vh, ColorWhite.WithAlpha(0.08))
		c.FillRect(vw-6, 0, 3, vh*h.page.Scroll()/maxScroll, colorGold.WithAlpha(0.7))
	}
}

// Close unmounts the scheduler, drops listeners and releases canvases.
func (h *Host) Close() {
	if h.closed {
		return
	}
	h.closed = true
	h.sched.Unmount()
	h.events.Close()
	for _, sec := range h.page.Sections() {
		if s, ok := h.page.Surface(sec.CanvasID); ok {
			s.Dispose()
		}
	}
	if h.fps != nil {
		h.fps.dispose()
	}
	if h.lensShader != nil {
		if sh := h.lensShader.Value(); sh != nil {
			sh.Deallocate()
		}
	}
	_ = h.log.Sync()
}

// RunConfig holds optional parameters for Run.
type RunConfig struct {
	Title         string
	Width, Height int
	// Resizable allows the window to be resized. Resizes are debounced
	// before section canvases are reallocated.
	Resizable bool
	// TPS overrides ebiten's ticks per second when positive.
	TPS int
}

// Run opens a window and runs the host until the window closes or an
// attached script finishes with ExitOnScriptDone.
func Run(h *Host, cfg RunConfig) error {
	if cfg.Title != "" {
		ebiten.SetWindowTitle(cfg.Title)
	}
	if cfg.Width > 0 && cfg.Height > 0 {
		ebiten.SetWindowSize(cfg.Width, cfg.Height)
	}
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}
	defer h.Close()
	if err := ebiten.RunGame(h); err != nil {
		return fmt.Errorf("journey: run: %w", err)
	}
	return nil
}
