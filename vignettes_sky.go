package journey

import (
	"math"
	"math/rand/v2"
)

// --- origin ---

// drawOrigin fades in a starfield, traces a ring around the center and
// blooms a point of light inside it. Star twinkle reads Frame.Time.
func drawOrigin(c Canvas, f Frame) {
	c.Clear()
	w, h, p := f.Width, f.Height, f.Progress
	background(c, w, h, colorSpace)
	s := ScaleFor(1, w, h)

	fade := Phase(p, 0, 0.3)
	ring := Phase(p, 0.3, 0.4)
	bloom := Phase(p, 0.7, 0.3)

	if d, _ := f.Data.(*starfieldData); d != nil {
		drawStars(c, w, h, d.stars, fade, f.Time, 0.4)
	}

	cx, cy := w/2, h/2
	r := 90 * s
	if ring > 0 {
		c.StrokeArc(cx, cy, r, -math.Pi/2, -math.Pi/2+2*math.Pi*ring, 2*s, colorStarlight.WithAlpha(0.8))
		const glyphs = 12
		for i := range glyphs {
			at := float64(i) / glyphs
			if ring < at {
				break
			}
			a := -math.Pi/2 + 2*math.Pi*at
			c.FillCircle(cx+math.Cos(a)*r, cy+math.Sin(a)*r, 3*s, colorGold.WithAlpha(Phase(ring, at, 0.1)))
		}
	}
	if bloom > 0 {
		c.FillGlow(cx, cy, lerp(r*0.2, r*1.6, bloom), colorGold.WithAlpha(0.6*bloom), colorGold.WithAlpha(0))
		c.FillCircle(cx, cy, lerp(1, 8, bloom)*s, ColorWhite.WithAlpha(bloom))
	}
}

// --- comet ---

// cometParticle is a dust grain in normalized coordinates.
type cometParticle struct {
	X, Y float64
	Size float64
	Tint float64 // 0 = ice, 1 = gold
}

type cometData struct {
	particles []cometParticle
}

func newCometData(rng *rand.Rand) any {
	ps := make([]cometParticle, 60)
	for i := range ps {
		ps[i] = cometParticle{
			X:    rng.Float64(),
			Y:    rng.Float64(),
			Size: 1 + rng.Float64()*2.5,
			Tint: rng.Float64(),
		}
	}
	return &cometData{particles: ps}
}

// cometNucleusRadius returns the nucleus radius in base units. It grows over
// the accretion phase and holds at 30 afterwards.
func cometNucleusRadius(p float64) float64 {
	return 30 * Phase(p, 0, 0.4)
}

// drawComet accretes scattered particles into a nucleus (0-0.4), grows a
// coma (0.4-0.7) and unfurls an ion and a dust tail (0.7-1).
func drawComet(c Canvas, f Frame) {
	c.Clear()
	w, h, p := f.Width, f.Height, f.Progress
	background(c, w, h, colorSpace)

	accrete := Phase(p, 0, 0.4)
	coma := Phase(p, 0.4, 0.3)
	tail := Phase(p, 0.7, 0.3)
	nucleus := Vec2{w * 0.4, h * 0.55}

	if d, _ := f.Data.(*cometData); d != nil && accrete < 1 {
		s := ScaleFor(1, w, h)
		for _, pt := range d.particles {
			pos := LerpVec(Vec2{pt.X * w, pt.Y * h}, nucleus, accrete)
			col := colorIce.Mix(colorGold, pt.Tint).WithAlpha(1 - accrete)
			c.FillCircle(pos.X, pos.Y, pt.Size*s, col)
		}
	}

	if tail > 0 {
		length := lerp(0, w*0.5, tail)
		spread := ScaleFor(28, w, h) * tail
		// Ion tail: straight and narrow, pointing away from the sun.
		ion := &Path{}
		ion.MoveTo(nucleus.X, nucleus.Y-spread*0.3)
		ion.LineTo(nucleus.X+length, nucleus.Y-length*0.35-spread*0.2)
		ion.LineTo(nucleus.X+length, nucleus.Y-length*0.35+spread*0.2)
		ion.LineTo(nucleus.X, nucleus.Y+spread*0.3)
		ion.Close()
		c.FillPath(ion, colorIce.WithAlpha(0.45*tail))
		// Dust tail: broad and curved.
		dust := &Path{}
		dust.MoveTo(nucleus.X, nucleus.Y-spread*0.4)
		dust.QuadTo(nucleus.X+length*0.6, nucleus.Y-spread*0.2, nucleus.X+length*0.9, nucleus.Y+length*0.2-spread)
		dust.LineTo(nucleus.X+length*0.9, nucleus.Y+length*0.2+spread)
		dust.QuadTo(nucleus.X+length*0.5, nucleus.Y+spread*0.9, nucleus.X, nucleus.Y+spread*0.4)
		dust.Close()
		c.FillPath(dust, colorGold.WithAlpha(0.35*tail))
	}

	r := ScaleFor(cometNucleusRadius(p), w, h)
	if coma > 0 {
		c.FillGlow(nucleus.X, nucleus.Y, lerp(r, r*4, coma), colorIce.WithAlpha(0.5*coma), colorIce.WithAlpha(0))
	}
	if r > 0 {
		c.FillCircle(nucleus.X, nucleus.Y, r, colorStarlight.Mix(colorIce, 0.3))
	}
}

// --- shatter ---

type shard struct {
	X, Y     float64 // offset from the impact point in base units per unit time
	VX, VY   float64
	Spin     float64
	Size     float64
	Life     float64 // fraction of the debris phase the shard stays visible
	Consumed bool
}

// shatterData holds the debris buffer. It is filled on first need after the
// break and emptied when progress returns before it, regenerating from the
// same seed so the scene stays a function of progress.
type shatterData struct {
	seed   uint64
	shards []shard
}

const shatterBreak = 0.5

func newShatterData(rng *rand.Rand) any {
	return &shatterData{seed: rng.Uint64(), shards: make([]shard, 0, 32)}
}

func (d *shatterData) populate() {
	rng := rand.New(rand.NewPCG(d.seed, 0x5eed))
	for range 28 {
		a := rng.Float64() * 2 * math.Pi
		speed := 120 + rng.Float64()*260
		d.shards = append(d.shards, shard{
			VX:   math.Cos(a) * speed,
			VY:   math.Sin(a)*speed - 60,
			Spin: (rng.Float64()*2 - 1) * 6,
			Size: 3 + rng.Float64()*7,
			Life: 0.5 + rng.Float64()*0.5,
		})
	}
}

// drawShatter streaks a comet to the center (0-0.5), breaks it apart with a
// flash, and scatters debris shards that fade out (0.5-1).
func drawShatter(c Canvas, f Frame) {
	c.Clear()
	w, h, p := f.Width, f.Height, f.Progress
	background(c, w, h, colorSpace)
	s := ScaleFor(1, w, h)
	impact := Vec2{w * 0.55, h * 0.5}

	approach := Phase(p, 0, shatterBreak)
	debris := Phase(p, shatterBreak, 1-shatterBreak)

	d, _ := f.Data.(*shatterData)
	if p < shatterBreak {
		if d != nil {
			d.shards = d.shards[:0]
		}
		pos := LerpVec(Vec2{-w * 0.1, h * 0.1}, impact, approach)
		trail := pos.Sub(Vec2{w * 0.25, h * 0.15}.Scale(approach))
		c.StrokeLine(trail.X, trail.Y, pos.X, pos.Y, 4*s, colorIce.WithAlpha(0.5*approach))
		c.FillGlow(pos.X, pos.Y, 24*s, colorIce.WithAlpha(0.6), colorIce.WithAlpha(0))
		c.FillCircle(pos.X, pos.Y, 8*s, colorStarlight)
		return
	}

	if flash := 1 - Phase(p, shatterBreak, 0.1); flash > 0 {
		c.FillGlow(impact.X, impact.Y, lerp(20, 160, 1-flash)*s, ColorWhite.WithAlpha(flash), ColorWhite.WithAlpha(0))
	}
	if d == nil {
		return
	}
	if len(d.shards) == 0 {
		d.populate()
	}
	t := debris
	for i := range d.shards {
		sh := &d.shards[i]
		alpha := 1 - t/sh.Life
		if sh.Consumed = alpha <= 0; sh.Consumed {
			continue
		}
		pos := impact.Add(Vec2{sh.VX*t + sh.X, sh.VY*t + sh.Y + 90*t*t}.Scale(s))
		c.FillPath(shape(pos.X, pos.Y, sh.Spin*t, sh.Size*s,
			Vec2{0, -1}, Vec2{0.8, 0.6}, Vec2{-0.7, 0.5}), colorIce.Mix(colorEmber, t).WithAlpha(alpha))
	}
}

// --- constellation ---

type constellationData struct {
	field []star
	stars []Vec2 // normalized, in drawing order
}

func newConstellationData(rng *rand.Rand) any {
	base := []Vec2{{0.2, 0.62}, {0.32, 0.48}, {0.45, 0.52}, {0.55, 0.36}, {0.68, 0.4}, {0.78, 0.28}, {0.7, 0.6}}
	stars := make([]Vec2, len(base))
	for i, b := range base {
		stars[i] = Vec2{b.X + (rng.Float64()-0.5)*0.04, b.Y + (rng.Float64()-0.5)*0.04}
	}
	return &constellationData{field: newStars(rng, 90), stars: stars}
}

// drawConstellation lights the stars (0-0.2), joins them one segment at a
// time (0.2-0.8) and fades in the figure's name (0.8-1).
func drawConstellation(c Canvas, f Frame) {
	c.Clear()
	w, h, p := f.Width, f.Height, f.Progress
	background(c, w, h, colorSpace)
	d, _ := f.Data.(*constellationData)
	if d == nil {
		return
	}
	s := ScaleFor(1, w, h)
	appear := Phase(p, 0, 0.2)
	lines := Phase(p, 0.2, 0.6)
	label := Phase(p, 0.8, 0.2)

	drawStars(c, w, h, d.field, 0.6, 0, 0)
	n := len(d.stars)
	for i := 0; i+1 < n; i++ {
		seg := clamp01(lines*float64(n-1) - float64(i))
		if seg <= 0 {
			break
		}
		a := Vec2{d.stars[i].X * w, d.stars[i].Y * h}
		b := Vec2{d.stars[i+1].X * w, d.stars[i+1].Y * h}
		e := LerpVec(a, b, seg)
		c.StrokeLine(a.X, a.Y, e.X, e.Y, 1.5*s, colorIce.WithAlpha(0.7))
	}
	for _, st := range d.stars {
		x, y := st.X*w, st.Y*h
		c.FillGlow(x, y, 14*s, colorStarlight.WithAlpha(0.5*appear), colorStarlight.WithAlpha(0))
		c.FillCircle(x, y, lerp(0, 3.5, appear)*s, colorStarlight.WithAlpha(appear))
	}
	if label > 0 {
		c.FillText("The Navigator", w/2, h*0.82, FontSizeFor(28, w), TextAlignCenter, colorGold.WithAlpha(label))
	}
}

// --- nebula ---

type cloud struct {
	X, Y, R float64
	Tint    float64
}

type nebulaData struct {
	clouds []cloud
}

func newNebulaData(rng *rand.Rand) any {
	cs := make([]cloud, 9)
	for i := range cs {
		a := rng.Float64() * 2 * math.Pi
		dist := rng.Float64() * 0.18
		cs[i] = cloud{
			X:    0.5 + math.Cos(a)*dist,
			Y:    0.5 + math.Sin(a)*dist,
			R:    60 + rng.Float64()*90,
			Tint: rng.Float64(),
		}
	}
	return &nebulaData{clouds: cs}
}

// drawNebula blooms gas clouds (0-0.5), sends a shock ring outward
// (0.5-0.8) and ignites a newborn star (0.8-1).
func drawNebula(c Canvas, f Frame) {
	c.Clear()
	w, h, p := f.Width, f.Height, f.Progress
	background(c, w, h, colorSpace)
	s := ScaleFor(1, w, h)
	bloom := Phase(p, 0, 0.5)
	shock := Phase(p, 0.5, 0.3)
	ignite := Phase(p, 0.8, 0.2)

	if d, _ := f.Data.(*nebulaData); d != nil && bloom > 0 {
		for _, cl := range d.clouds {
			col := colorViolet.Mix(colorTeal, cl.Tint)
			c.FillGlow(cl.X*w, cl.Y*h, cl.R*s*bloom, col.WithAlpha(0.35*bloom), col.WithAlpha(0))
		}
	}
	cx, cy := w/2, h/2
	if shock > 0 && shock < 1 {
		c.StrokeCircle(cx, cy, lerp(10, 260, shock)*s, lerp(6, 1, shock)*s, colorStarlight.WithAlpha(1-shock))
	}
	if ignite > 0 {
		c.FillGlow(cx, cy, 60*s*ignite, colorGold.WithAlpha(0.8*ignite), colorGold.WithAlpha(0))
		c.FillCircle(cx, cy, 6*s*ignite, ColorWhite.WithAlpha(ignite))
	}
}

// --- eclipse ---

// drawEclipse moves a moon across the sun (0-0.45), holds totality with a
// flaring corona (0.45-0.55) and lets the moon slide off (0.55-1).
func drawEclipse(c Canvas, f Frame) {
	c.Clear()
	w, h, p := f.Width, f.Height, f.Progress
	s := ScaleFor(1, w, h)
	r := 80 * s
	cx, cy := w/2, h/2

	enter := Phase(p, 0, 0.45)
	exit := Phase(p, 0.55, 0.45)
	mx := cx
	switch {
	case p < 0.45:
		mx = lerp(cx-r*3, cx, enter)
	case p > 0.55:
		mx = lerp(cx, cx+r*3, exit)
	}
	coverage := clamp01(1 - math.Abs(mx-cx)/(2*r))
	corona := clamp01(1 - math.Abs(p-0.5)/0.05)

	background(c, w, h, colorDusk.Mix(colorSpace, coverage))
	c.FillGlow(cx, cy, r*1.8, colorGold.WithAlpha(0.4*(1-coverage)), colorGold.WithAlpha(0))
	c.FillCircle(cx, cy, r, colorGold)
	if corona > 0 {
		c.FillGlow(cx, cy, r*lerp(1.2, 2.6, corona), colorStarlight.WithAlpha(0.7*corona), colorStarlight.WithAlpha(0))
		const flares = 8
		for i := range flares {
			a := float64(i) * 2 * math.Pi / flares
			in := Vec2{math.Cos(a), math.Sin(a)}.Scale(r)
			out := Vec2{math.Cos(a), math.Sin(a)}.Scale(r * lerp(1, 1.6, corona))
			c.StrokeLine(cx+in.X, cy+in.Y, cx+out.X, cy+out.Y, 2*s, colorStarlight.WithAlpha(corona))
		}
	}
	c.FillCircle(mx, cy, r, RGB(10, 10, 16))
}

// --- pulsar ---

// drawPulsar collapses a star (0-0.3), spins up beacon beams whose count
// grows with progress (0.3-0.8) and emits pulse rings (0.8-1).
func drawPulsar(c Canvas, f Frame) {
	c.Clear()
	w, h, p := f.Width, f.Height, f.Progress
	background(c, w, h, colorSpace)
	s := ScaleFor(1, w, h)
	cx, cy := w/2, h/2

	collapse := Phase(p, 0, 0.3)
	spin := Phase(p, 0.3, 0.5)
	pulse := Phase(p, 0.8, 0.2)

	if d, _ := f.Data.(*starfieldData); d != nil {
		drawStars(c, w, h, d.stars, 0.5, 0, 0)
	}
	if spin > 0 {
		beams := 1 + int(spin*3.999)
		rot := p * 4 * math.Pi
		reach := math.Hypot(w, h)
		for i := range beams {
			a := rot + float64(i)*math.Pi/float64(beams)
			for _, dir := range [2]float64{0, math.Pi} {
				b := a + dir
				wedge := &Path{}
				wedge.MoveTo(cx, cy)
				wedge.LineTo(cx+math.Cos(b-0.06)*reach, cy+math.Sin(b-0.06)*reach)
				wedge.LineTo(cx+math.Cos(b+0.06)*reach, cy+math.Sin(b+0.06)*reach)
				wedge.Close()
				c.FillPath(wedge, colorIce.WithAlpha(0.25*spin))
			}
		}
	}
	if pulse > 0 {
		for k := range 3 {
			t := fract(pulse*1.5 + float64(k)/3)
			c.StrokeCircle(cx, cy, lerp(12, 220, t)*s, 2*s, colorIce.WithAlpha((1-t)*pulse))
		}
	}
	r := lerp(50, 9, collapse) * s
	c.FillGlow(cx, cy, r*3, colorIce.WithAlpha(0.5), colorIce.WithAlpha(0))
	c.FillCircle(cx, cy, r, colorStarlight.Mix(colorIce, collapse))
}

// --- wormhole ---

// drawWormhole opens a tunnel (0-0.3), streams rings toward the viewer
// (0.3-0.9) and whites out on exit (0.9-1). The tunnel's twist reads
// Frame.Time.
func drawWormhole(c Canvas, f Frame) {
	c.Clear()
	w, h, p := f.Width, f.Height, f.Progress
	background(c, w, h, colorSpace)
	s := ScaleFor(1, w, h)
	cx, cy := w/2, h/2

	open := Phase(p, 0, 0.3)
	stream := Phase(p, 0.3, 0.6)
	exit := Phase(p, 0.9, 0.1)

	const rings = 14
	maxR := math.Hypot(w, h) / 2
	twist := f.Time * 0.5
	for i := range rings {
		depth := fract(float64(i)/rings + stream*2)
		r := lerp(4*s, maxR, depth*depth)
		ox := math.Cos(twist+depth*3) * 20 * s * (1 - depth)
		oy := math.Sin(twist+depth*3) * 20 * s * (1 - depth)
		col := colorViolet.Mix(colorIce, depth).WithAlpha(open * depth * 0.8)
		c.StrokeCircle(cx+ox, cy+oy, r, lerp(1, 6, depth)*s, col)
	}
	c.FillGlow(cx, cy, 40*s*open, colorStarlight.WithAlpha(0.6*open), colorStarlight.WithAlpha(0))
	if exit > 0 {
		background(c, w, h, ColorWhite.WithAlpha(exit))
	}
}

// --- horizon ---

// drawHorizon raises a planet's limb (0-0.5), brightens a sunrise along it
// (0.4-0.8) and lowers a landing capsule under its chute (0.7-1).
func drawHorizon(c Canvas, f Frame) {
	c.Clear()
	w, h, p := f.Width, f.Height, f.Progress
	s := ScaleFor(1, w, h)

	rise := Phase(p, 0, 0.5)
	dawn := Phase(p, 0.4, 0.4)
	land := Phase(p, 0.7, 0.3)

	background(c, w, h, colorSpace.Mix(colorDusk, dawn))
	if d, _ := f.Data.(*starfieldData); d != nil {
		drawStars(c, w, h, d.stars, 1-dawn, 0, 0)
	}
	top := lerp(h*1.1, h*0.62, rise)
	planetR := w * 1.2
	if dawn > 0 {
		c.FillGlow(w*0.5, top, w*0.5*dawn, colorGold.WithAlpha(0.8*dawn), colorEmber.WithAlpha(0))
	}
	c.FillCircle(w*0.5, top+planetR, planetR, RGB(24, 46, 70))
	c.StrokeArc(w*0.5, top+planetR, planetR, math.Pi*1.2, math.Pi*1.8, 3*s, colorIce.WithAlpha(0.5+0.5*dawn))

	if land > 0 {
		ground := top - 14*s
		y := lerp(-40*s, ground, land)
		x := w * 0.58
		chute := &Path{}
		chute.Arc(x, y-46*s, 26*s, math.Pi, 2*math.Pi)
		chute.Close()
		c.FillPath(chute, colorEmber.WithAlpha(1-Phase(land, 0.9, 0.1)))
		c.StrokeLine(x-26*s, y-46*s, x, y-8*s, 1*s, colorStarlight)
		c.StrokeLine(x+26*s, y-46*s, x, y-8*s, 1*s, colorStarlight)
		c.FillPath(shape(x, y, 0, 10*s, Vec2{-1, -1}, Vec2{1, -1}, Vec2{1.3, 1}, Vec2{-1.3, 1}), colorRock.Mix(ColorWhite, 0.4))
	}
}
