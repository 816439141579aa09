package journey

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
)

// Surface is the canvas backing store owned by exactly one scene. Sizes are
// logical pixels; the backing store is allocated in device pixels.
type Surface interface {
	// Canvas returns the drawing context for the current backing store. The
	// returned value may change after Resize.
	Canvas() Canvas
	// Size returns the logical width and height.
	Size() (w, h float64)
	// Resize reallocates the backing store for the given logical size and
	// device scale factor.
	Resize(w, h, deviceScale float64)
	// Dispose releases the backing store. The surface must not be used after.
	Dispose()
}

// deviceSize converts a logical extent to a device pixel count (at least 1).
func deviceSize(logical, scale float64) int {
	if scale <= 0 {
		scale = 1
	}
	return max(int(math.Ceil(logical*scale)), 1)
}

// --- ImageSurface ---

// ImageSurface is a persistent offscreen canvas backed by an *ebiten.Image.
// It is owned by its scene and is NOT recycled between frames.
type ImageSurface struct {
	image  *ebiten.Image
	canvas *ImageCanvas
	w, h   float64
	scale  float64
	imgOp  ebiten.DrawImageOptions
}

// NewImageSurface creates a surface of the given logical size.
func NewImageSurface(w, h, deviceScale float64) *ImageSurface {
	s := &ImageSurface{}
	s.Resize(w, h, deviceScale)
	return s
}

// Image returns the underlying *ebiten.Image for direct manipulation.
func (s *ImageSurface) Image() *ebiten.Image {
	return s.image
}

// Canvas returns the drawing context for the current backing store.
func (s *ImageSurface) Canvas() Canvas {
	return s.canvas
}

// Size returns the logical size.
func (s *ImageSurface) Size() (w, h float64) {
	return s.w, s.h
}

// Scale returns the device pixels per logical pixel.
func (s *ImageSurface) Scale() float64 {
	return s.scale
}

// Resize deallocates the old image and creates a new one at the device
// dimensions for (w, h). A resize to the current dimensions keeps the image.
func (s *ImageSurface) Resize(w, h, deviceScale float64) {
	if deviceScale <= 0 {
		deviceScale = 1
	}
	dw, dh := deviceSize(w, deviceScale), deviceSize(h, deviceScale)
	if s.image != nil {
		b := s.image.Bounds()
		if b.Dx() == dw && b.Dy() == dh && s.scale == deviceScale {
			s.w, s.h = w, h
			return
		}
		s.image.Deallocate()
	}
	s.image = ebiten.NewImage(dw, dh)
	s.canvas = NewImageCanvas(s.image, deviceScale)
	s.w, s.h, s.scale = w, h, deviceScale
}

// Composite draws the surface onto dst at the device-pixel position (x, y)
// with the given opacity.
func (s *ImageSurface) Composite(dst *ebiten.Image, x, y, alpha float64) {
	if s.image == nil {
		return
	}
	op := &s.imgOp
	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleAlpha(float32(clamp01(alpha)))
	dst.DrawImage(s.image, op)
}

// Dispose deallocates the underlying image.
func (s *ImageSurface) Dispose() {
	if s.image != nil {
		s.image.Deallocate()
		s.image = nil
	}
}

// --- RecordingSurface ---

// RecordingSurface is a Surface over a RecordingCanvas. It allocates no GPU
// resources, which makes it the surface of choice for tests and headless runs.
type RecordingSurface struct {
	canvas   *RecordingCanvas
	w, h     float64
	scale    float64
	resizes  int
	disposed bool
}

// NewRecordingSurface creates a recording surface of the given logical size.
func NewRecordingSurface(w, h float64) *RecordingSurface {
	return &RecordingSurface{canvas: NewRecordingCanvas(), w: w, h: h, scale: 1}
}

func (s *RecordingSurface) Canvas() Canvas { return s.canvas }

// Recorder returns the concrete recording canvas.
func (s *RecordingSurface) Recorder() *RecordingCanvas { return s.canvas }

func (s *RecordingSurface) Size() (w, h float64) { return s.w, s.h }

func (s *RecordingSurface) Resize(w, h, deviceScale float64) {
	if deviceScale <= 0 {
		deviceScale = 1
	}
	s.w, s.h, s.scale = w, h, deviceScale
	s.resizes++
}

// BackingSize returns the device pixel dimensions a real backing store
// would have.
func (s *RecordingSurface) BackingSize() (w, h int) {
	return deviceSize(s.w, s.scale), deviceSize(s.h, s.scale)
}

// Resizes returns how many times Resize was called.
func (s *RecordingSurface) Resizes() int { return s.resizes }

func (s *RecordingSurface) Dispose() { s.disposed = true }

// Disposed reports whether Dispose was called.
func (s *RecordingSurface) Disposed() bool { return s.disposed }

// Scale returns the device scale of the last Resize, 1 before any.
func (s *RecordingSurface) Scale() float64 { return s.scale }

// surfaceScale returns the device scale of surfaces that expose one.
func surfaceScale(s Surface) float64 {
	if sc, ok := s.(interface{ Scale() float64 }); ok && sc.Scale() > 0 {
		return sc.Scale()
	}
	return 1
}
