package journey

import (
	"errors"
	"math/rand/v2"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// lensShaderSrc bends the backdrop around a moving point mass and adds an
// Einstein ring at Radius. Coordinates are mapped into projection space
// ([-Aspect, Aspect]×[-1, 1]) before lensing.
const lensShaderSrc = `//kage:unit pixels
package main

var Time float
var Strength float
var Radius float
var Center vec2
var Aspect float
var Resolution vec2

func Fragment(dst vec4, src vec2, color vec4) vec4 {
	origin := imageSrc0Origin()
	uv := (src - origin) / Resolution
	p := vec2((uv.x*2-1)*Aspect, 1-uv.y*2)
	d := p - Center
	r := max(length(d), 0.0001)
	bend := Strength * Radius * Radius / r
	q := p - (d/r)*bend
	suv := vec2((q.x/Aspect+1)*0.5, (1-q.y)*0.5)
	suv = clamp(suv, vec2(0), vec2(1))
	c := imageSrc0At(origin + suv*Resolution)
	// Einstein ring.
	k := (r - Radius) * 40
	ring := exp(-k*k) * Strength
	shimmer := 0.5 + 0.5*sin(Time*3+r*30)
	c.rgb += vec3(0.55, 0.7, 1.0) * ring * (0.7 + 0.3*shimmer)
	// Event horizon.
	hole := smoothstep(0, Radius*0.5+0.0001, r)
	c.rgb *= mix(1, hole, Strength)
	return vec4(c.rgb, 1)
}
`

// CompileLensShader starts compiling the lensing shader on a background
// goroutine. The owner polls the future and deallocates the shader when done.
func CompileLensShader() *Future[*ebiten.Shader] {
	return Go(func() (*ebiten.Shader, error) {
		return ebiten.NewShader([]byte(lensShaderSrc))
	})
}

// EbitenLensConfig returns the LensConfig that renders with the compiled
// lensing shader into an *ImageSurface. Rendering waits on shader.
func EbitenLensConfig(shader *Future[*ebiten.Shader], seed uint64, log *zap.Logger) LensConfig {
	return LensConfig{
		Ready: shader,
		NewBackend: func(s Surface) (LensBackend, error) {
			img, ok := s.(*ImageSurface)
			if !ok {
				return nil, errors.New("journey: lens backend requires an *ImageSurface")
			}
			sh := shader.Value()
			if sh == nil {
				return nil, errors.New("journey: lens shader unavailable")
			}
			return newEbitenLensBackend(img, sh, seed), nil
		},
		Logger: log,
	}
}

const lensStarCount = 420

type lensStar struct {
	x, y, r, a float64
}

// ebitenLensBackend draws a starfield backdrop once per size and runs the
// lens shader over it every frame.
type ebitenLensBackend struct {
	surface  *ImageSurface
	shader   *ebiten.Shader
	backdrop *ebiten.Image
	stars    []lensStar

	uniforms map[string]any
	center   [2]float32
	res      [2]float32
	shaderOp ebiten.DrawRectShaderOptions
}

func newEbitenLensBackend(s *ImageSurface, shader *ebiten.Shader, seed uint64) *ebitenLensBackend {
	rng := rand.New(rand.NewPCG(seed, seed+1))
	stars := make([]lensStar, lensStarCount)
	for i := range stars {
		stars[i] = lensStar{
			x: rng.Float64(),
			y: rng.Float64(),
			r: 0.4 + rng.Float64()*1.4,
			a: 0.3 + rng.Float64()*0.7,
		}
	}
	return &ebitenLensBackend{
		surface:  s,
		shader:   shader,
		stars:    stars,
		uniforms: make(map[string]any, 6),
	}
}

// Resize reallocates the backdrop at the surface's device size. The surface
// itself is resized by the renderer.
func (b *ebitenLensBackend) Resize(w, h, deviceScale float64) {
	if b.backdrop != nil {
		b.backdrop.Deallocate()
	}
	dw, dh := deviceSize(w, deviceScale), deviceSize(h, deviceScale)
	b.backdrop = ebiten.NewImage(dw, dh)
	c := NewImageCanvas(b.backdrop, deviceScale)
	paintStarfield(c, w, h, b.stars)
}

// paintStarfield draws the lens backdrop: deep space, a faint galactic band
// and the star list in normalized coordinates.
func paintStarfield(c Canvas, w, h float64, stars []lensStar) {
	c.Clear()
	c.FillRect(0, 0, w, h, RGB(4, 6, 18))
	c.FillGlow(w*0.7, h*0.35, max(w, h)*0.45, RGB(40, 30, 90).WithAlpha(0.35), RGB(40, 30, 90).WithAlpha(0))
	c.FillGlow(w*0.25, h*0.7, max(w, h)*0.3, RGB(20, 60, 90).WithAlpha(0.25), RGB(20, 60, 90).WithAlpha(0))
	for _, s := range stars {
		c.FillCircle(s.x*w, s.y*h, s.r, ColorWhite.WithAlpha(s.a))
	}
}

func (b *ebitenLensBackend) Render(u LensUniforms) {
	dst := b.surface.Image()
	if dst == nil || b.backdrop == nil {
		return
	}
	bd := b.backdrop.Bounds()
	if dst.Bounds().Dx() != bd.Dx() || dst.Bounds().Dy() != bd.Dy() {
		// Surface and backdrop disagree until the next Resize.
		return
	}
	b.center = [2]float32{float32(u.Center.X), float32(u.Center.Y)}
	b.res = [2]float32{float32(u.Resolution.X), float32(u.Resolution.Y)}
	b.uniforms["Time"] = float32(u.Time)
	b.uniforms["Strength"] = float32(u.Strength)
	b.uniforms["Radius"] = float32(u.Radius)
	b.uniforms["Center"] = b.center[:]
	b.uniforms["Aspect"] = float32(u.Aspect)
	b.uniforms["Resolution"] = b.res[:]

	op := &b.shaderOp
	op.Uniforms = b.uniforms
	op.Images[0] = b.backdrop
	dst.Clear()
	dst.DrawRectShader(bd.Dx(), bd.Dy(), b.shader, op)
}

func (b *ebitenLensBackend) Dispose() {
	if b.backdrop != nil {
		b.backdrop.Deallocate()
		b.backdrop = nil
	}
}
