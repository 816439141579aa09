package journey

import (
	"math"
	"math/rand/v2"
)

// Palette shared by the vignettes.
var (
	colorSpace     = RGB(5, 8, 22)
	colorDusk      = RGB(18, 22, 52)
	colorStarlight = RGB(220, 230, 255)
	colorGold      = RGB(255, 196, 92)
	colorIce       = RGB(120, 200, 255)
	colorEmber     = RGB(255, 120, 60)
	colorViolet    = RGB(150, 100, 255)
	colorTeal      = RGB(60, 220, 190)
	colorRock      = RGB(70, 64, 82)
)

// star is a background star in normalized canvas coordinates.
type star struct {
	X, Y  float64
	R     float64 // radius in base units
	A     float64 // peak alpha
	Phase float64 // twinkle phase offset in radians
}

// starfieldData is the auxiliary data of scenes that only need a backdrop.
type starfieldData struct {
	stars []star
}

func newStars(rng *rand.Rand, n int) []star {
	stars := make([]star, n)
	for i := range stars {
		stars[i] = star{
			X:     rng.Float64(),
			Y:     rng.Float64(),
			R:     0.5 + rng.Float64()*1.5,
			A:     0.3 + rng.Float64()*0.7,
			Phase: rng.Float64() * 2 * math.Pi,
		}
	}
	return stars
}

func starfieldGenerator(n int) DataFunc {
	return func(rng *rand.Rand) any {
		return &starfieldData{stars: newStars(rng, n)}
	}
}

// drawStars paints stars at alpha. A non-zero twinkle modulates each star
// by a sinusoid of t.
func drawStars(c Canvas, w, h float64, stars []star, alpha, t, twinkle float64) {
	if alpha <= 0 {
		return
	}
	s := ScaleFor(1, w, h)
	for _, st := range stars {
		a := st.A * alpha
		if twinkle > 0 {
			a *= 1 - twinkle*(0.5+0.5*math.Sin(t*2+st.Phase))
		}
		c.FillCircle(st.X*w, st.Y*h, st.R*s, colorStarlight.WithAlpha(a))
	}
}

// background fills the canvas with a solid color.
func background(c Canvas, w, h float64, col Color) {
	c.FillRect(0, 0, w, h, col)
}

// rotate returns v rotated by a radians around the origin.
func rotate(v Vec2, a float64) Vec2 {
	sin, cos := math.Sincos(a)
	return Vec2{v.X*cos - v.Y*sin, v.X*sin + v.Y*cos}
}

// shape returns a closed polygon of pts rotated by rot, scaled by k and
// translated to (cx, cy).
func shape(cx, cy, rot, k float64, pts ...Vec2) *Path {
	out := make([]Vec2, len(pts))
	for i, p := range pts {
		out[i] = rotate(p.Scale(k), rot).Add(Vec2{cx, cy})
	}
	return Polygon(out...)
}

// polyline returns an open path through pts.
func polyline(pts []Vec2) *Path {
	p := &Path{}
	for i, pt := range pts {
		if i == 0 {
			p.MoveTo(pt.X, pt.Y)
		} else {
			p.LineTo(pt.X, pt.Y)
		}
	}
	return p
}

// keyframe is a progress-keyed value for piecewise linear tracks.
type keyframe struct {
	at, v float64
}

// track interpolates linearly between keyframes sorted by at. Progress
// outside the track holds the end values.
func track(keys []keyframe, p float64) float64 {
	if len(keys) == 0 {
		return 0
	}
	if p <= keys[0].at {
		return keys[0].v
	}
	for i := 1; i < len(keys); i++ {
		if p <= keys[i].at {
			a, b := keys[i-1], keys[i]
			return lerp(a.v, b.v, Phase(p, a.at, b.at-a.at))
		}
	}
	return keys[len(keys)-1].v
}

// cubicAt evaluates a cubic Bézier at t.
func cubicAt(p0, p1, p2, p3 Vec2, t float64) Vec2 {
	u := 1 - t
	return p0.Scale(u * u * u).
		Add(p1.Scale(3 * u * u * t)).
		Add(p2.Scale(3 * u * t * t)).
		Add(p3.Scale(t * t * t))
}

// fract returns the fractional part of v in [0, 1).
func fract(v float64) float64 {
	return v - math.Floor(v)
}
