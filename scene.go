package journey

import (
	"math/rand/v2"
)

// Frame carries the inputs of one draw call.
type Frame struct {
	// Width and Height are the canvas size in logical pixels.
	Width, Height float64
	// Progress is the scene's scroll progress in [0, 1].
	Progress float64
	// Time is seconds since mount. Only decorative motion may read it; a
	// draw call with identical Frame values must paint identical output.
	Time float64
	// Delta is seconds since the previous tick. Used by scenes that advance
	// their own particle buffers.
	Delta float64
	// Data is the scene's auxiliary data, or nil.
	Data any
}

// DrawFunc paints one full frame of a vignette. It must clear its canvas
// first and never return an error; bad inputs render nothing.
type DrawFunc func(c Canvas, f Frame)

// DataFunc creates a scene's auxiliary data once at mount.
type DataFunc func(rng *rand.Rand) any

// Scene is a registered narrative beat. It is either a StatelessScene or a
// StatefulScene; the set is closed.
type Scene interface {
	// Key returns the scene identifier.
	Key() string
	// Section returns the identifier of the page section that drives progress.
	Section() string
	// CanvasKey returns the identifier of the canvas the scene paints.
	CanvasKey() string

	sceneKind()
}

// StatelessScene repaints its canvas with a pure draw callback whenever its
// progress changes meaningfully.
type StatelessScene struct {
	ID        string
	SectionID string
	CanvasID  string
	Draw      DrawFunc
	// NewData builds auxiliary data at mount. Nil means no data.
	NewData DataFunc
	// Autonomous scenes animate on their own and are redrawn every frame,
	// bypassing progress and frame-skip throttling.
	Autonomous bool
}

func (s StatelessScene) Key() string       { return s.ID }
func (s StatelessScene) Section() string   { return s.SectionID }
func (s StatelessScene) CanvasKey() string { return s.CanvasID }
func (StatelessScene) sceneKind()          {}

// RendererFactory builds a persistent renderer bound to a surface and the
// event bus it listens to for resizes.
type RendererFactory func(surface Surface, events *Events) (Renderer, error)

// StatefulScene owns a persistent renderer that is created the first time
// the scene becomes visible and updated every frame after that.
type StatefulScene struct {
	ID          string
	SectionID   string
	CanvasID    string
	NewRenderer RendererFactory
}

func (s StatefulScene) Key() string       { return s.ID }
func (s StatefulScene) Section() string   { return s.SectionID }
func (s StatefulScene) CanvasKey() string { return s.CanvasID }
func (StatefulScene) sceneKind()          {}

// Renderer is a retained-mode scene implementation.
type Renderer interface {
	// Update advances the renderer for the given progress and seconds since
	// mount. It is called every frame while the scene is visible.
	Update(progress, now float64)
	// Dispose releases GPU resources and detaches listeners.
	Dispose()
}
