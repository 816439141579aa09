package journey

import (
	"math"
	"math/rand/v2"
)

// --- lens ---

// drawLensFocus converges blurred concentric rings onto a focal point
// (0-0.5), brightens the point (0.5-0.8) and fires a focus beam (0.8-1).
func drawLensFocus(c Canvas, f Frame) {
	c.Clear()
	w, h, p := f.Width, f.Height, f.Progress
	background(c, w, h, colorDusk)
	s := ScaleFor(1, w, h)
	cx, cy := w*0.5, h*0.5

	converge := Phase(p, 0, 0.5)
	focus := Phase(p, 0.5, 0.3)
	beam := Phase(p, 0.8, 0.2)

	// Glass.
	lens := &Path{}
	lens.MoveTo(cx-14*s, cy-110*s)
	lens.QuadTo(cx+26*s, cy, cx-14*s, cy+110*s)
	lens.LineTo(cx+14*s, cy+110*s)
	lens.QuadTo(cx-26*s, cy, cx+14*s, cy-110*s)
	lens.Close()
	c.FillPath(lens, colorIce.WithAlpha(0.25))

	const rings = 6
	fx := cx + 140*s
	for i := range rings {
		k := float64(i+1) / rings
		spread := lerp(90*k, 4, converge) * s
		blur := lerp(8, 1, converge) * s
		c.StrokeCircle(lerp(cx-180*s, fx, converge), cy, spread, blur, colorIce.WithAlpha(lerp(0.15, 0.6, converge)))
	}
	if focus > 0 {
		c.FillGlow(fx, cy, 50*s*focus, colorGold.WithAlpha(0.9*focus), colorGold.WithAlpha(0))
	}
	if beam > 0 {
		c.StrokeLine(fx, cy, lerp(fx, w, beam), cy, 3*s, colorGold.WithAlpha(beam))
	}
}

// --- network ---

type networkData struct {
	nodes []Vec2 // normalized
	edges [][2]int
}

func newNetworkData(rng *rand.Rand) any {
	const n = 12
	nodes := make([]Vec2, n)
	for i := range nodes {
		a := float64(i)/n*2*math.Pi + rng.Float64()*0.3
		r := 0.15 + rng.Float64()*0.25
		nodes[i] = Vec2{0.5 + math.Cos(a)*r*0.9, 0.5 + math.Sin(a)*r}
	}
	// Each node links to its nearest earlier node, forming a tree, plus a
	// few chords.
	var edges [][2]int
	for i := 1; i < n; i++ {
		best, bestD := 0, math.Inf(1)
		for j := range i {
			if d := nodes[i].Sub(nodes[j]).Len(); d < bestD {
				best, bestD = j, d
			}
		}
		edges = append(edges, [2]int{best, i})
	}
	for range 4 {
		a, b := rng.IntN(n), rng.IntN(n)
		if a != b {
			edges = append(edges, [2]int{a, b})
		}
	}
	return &networkData{nodes: nodes, edges: edges}
}

// drawNetwork pops nodes in (0-0.3), draws edges (0.3-0.7) and sends pulses
// along them (0.7-1).
func drawNetwork(c Canvas, f Frame) {
	c.Clear()
	w, h, p := f.Width, f.Height, f.Progress
	background(c, w, h, colorSpace)
	d, _ := f.Data.(*networkData)
	if d == nil || len(d.nodes) == 0 {
		return
	}
	s := ScaleFor(1, w, h)
	pop := Phase(p, 0, 0.3)
	link := Phase(p, 0.3, 0.4)
	pulse := Phase(p, 0.7, 0.3)

	at := func(i int) Vec2 { return Vec2{d.nodes[i].X * w, d.nodes[i].Y * h} }
	ne := float64(len(d.edges))
	for i, e := range d.edges {
		seg := clamp01(link*ne - float64(i))
		if seg <= 0 {
			continue
		}
		a, b := at(e[0]), at(e[1])
		end := LerpVec(a, b, seg)
		c.StrokeLine(a.X, a.Y, end.X, end.Y, 1.5*s, colorTeal.WithAlpha(0.6))
		if pulse > 0 {
			q := LerpVec(a, b, fract(pulse*2+float64(i)*0.13))
			c.FillCircle(q.X, q.Y, 3*s, colorStarlight.WithAlpha(pulse))
		}
	}
	nn := float64(len(d.nodes))
	for i := range d.nodes {
		k := clamp01(pop*nn - float64(i))
		if k <= 0 {
			continue
		}
		q := at(i)
		c.FillCircle(q.X, q.Y, lerp(0, 7, k)*s, colorTeal.Mix(ColorWhite, 0.3).WithAlpha(k))
	}
}

// --- compass ---

// compassSwing is the needle heading in radians: a damped swing settling on
// north, as linear segments.
var compassSwing = []keyframe{
	{0, -2.1}, {0.25, 1.4}, {0.45, -0.8}, {0.6, 0.45}, {0.75, -0.18}, {0.9, 0},
}

// drawCompass fades in the dial (0-0.2) and swings the needle, settling by
// 0.9; the heading label appears once settled (0.9-1).
func drawCompass(c Canvas, f Frame) {
	c.Clear()
	w, h, p := f.Width, f.Height, f.Progress
	background(c, w, h, colorDusk)
	s := ScaleFor(1, w, h)
	cx, cy := w/2, h/2
	r := 110 * s

	dial := Phase(p, 0, 0.2)
	label := Phase(p, 0.9, 0.1)

	c.FillCircle(cx, cy, r, colorSpace.WithAlpha(dial))
	c.StrokeCircle(cx, cy, r, 3*s, colorGold.WithAlpha(dial))
	for i := range 36 {
		a := float64(i) * math.Pi / 18
		in := r * 0.9
		if i%9 == 0 {
			in = r * 0.8
		}
		c.StrokeLine(cx+math.Cos(a)*in, cy+math.Sin(a)*in, cx+math.Cos(a)*r, cy+math.Sin(a)*r, 1*s, colorGold.WithAlpha(0.7*dial))
	}
	fs := FontSizeFor(20, w)
	c.FillText("N", cx, cy-r*0.62, fs, TextAlignCenter, colorStarlight.WithAlpha(dial))

	heading := track(compassSwing, p)
	needle := []Vec2{{0, -0.85}, {0.09, 0}, {0, 0.85}, {-0.09, 0}}
	c.FillPath(shape(cx, cy, heading, r, needle[0], needle[1], needle[3]), colorEmber)
	c.FillPath(shape(cx, cy, heading, r, needle[2], needle[1], needle[3]), colorStarlight)
	c.FillCircle(cx, cy, 6*s, colorGold)
	if label > 0 {
		c.FillText("True North", cx, cy+r+fs*2, fs, TextAlignCenter, colorGold.WithAlpha(label))
	}
}

// --- slingshot ---

// slingshotPos returns the probe position at progress p for a planet at
// (cx, cy) of orbit radius r: a straight approach (0-0.4), a half orbit
// (0.4-0.7) and a faster departure (0.7-1).
func slingshotPos(p, cx, cy, r, w, h float64) Vec2 {
	peri := Vec2{cx, cy - r}
	switch {
	case p < 0.4:
		return LerpVec(Vec2{-0.05 * w, cy - r}, peri, Phase(p, 0, 0.4))
	case p < 0.7:
		a := -math.Pi/2 + math.Pi*Phase(p, 0.4, 0.3)
		return Vec2{cx + math.Cos(a)*r, cy + math.Sin(a)*r}
	default:
		start := Vec2{cx, cy + r}
		return LerpVec(start, Vec2{-0.1 * w, h * 1.1}, Phase(p, 0.7, 0.3))
	}
}

// drawSlingshot flies a probe around a planet and traces its path so far.
func drawSlingshot(c Canvas, f Frame) {
	c.Clear()
	w, h, p := f.Width, f.Height, f.Progress
	background(c, w, h, colorSpace)
	if d, _ := f.Data.(*starfieldData); d != nil {
		drawStars(c, w, h, d.stars, 0.6, 0, 0)
	}
	s := ScaleFor(1, w, h)
	cx, cy := w*0.55, h*0.5
	pr := 60 * s
	orbit := 110 * s

	c.FillGlow(cx, cy, pr*1.6, colorTeal.WithAlpha(0.3), colorTeal.WithAlpha(0))
	c.FillCircle(cx, cy, pr, RGB(40, 110, 140))

	const samples = 48
	pts := make([]Vec2, 0, samples+1)
	for i := 0; i <= samples; i++ {
		pts = append(pts, slingshotPos(p*float64(i)/samples, cx, cy, orbit, w, h))
	}
	if p > 0 {
		c.StrokePath(polyline(pts), 1.5*s, colorGold.WithAlpha(0.5))
	}
	pos := pts[len(pts)-1]
	c.FillGlow(pos.X, pos.Y, 12*s, colorGold.WithAlpha(0.7), colorGold.WithAlpha(0))
	c.FillCircle(pos.X, pos.Y, 4*s, ColorWhite)
}

// --- airplane ---

// drawAirplane unfolds a paper airplane (0-0.1), flies it along a curve with
// a dashed trail (0.1-0.9) and fades it out past the frame (0.9-1).
func drawAirplane(c Canvas, f Frame) {
	c.Clear()
	w, h, p := f.Width, f.Height, f.Progress
	background(c, w, h, RGB(16, 30, 60))
	s := ScaleFor(1, w, h)

	unfold := Phase(p, 0, 0.1)
	fly := Phase(p, 0.1, 0.8)
	fade := 1 - Phase(p, 0.9, 0.1)

	p0 := Vec2{w * 0.1, h * 0.75}
	p1 := Vec2{w * 0.35, h * 0.1}
	p2 := Vec2{w * 0.6, h * 0.95}
	p3 := Vec2{w * 0.92, h * 0.3}

	const dashes = 40
	for i := range dashes {
		t0 := float64(i) / dashes
		if t0 >= fly {
			break
		}
		if i%2 == 1 {
			continue
		}
		t1 := math.Min(float64(i+1)/dashes, fly)
		a, b := cubicAt(p0, p1, p2, p3, t0), cubicAt(p0, p1, p2, p3, t1)
		c.StrokeLine(a.X, a.Y, b.X, b.Y, 2*s, colorStarlight.WithAlpha(0.5*fade))
	}

	pos := cubicAt(p0, p1, p2, p3, fly)
	ahead := cubicAt(p0, p1, p2, p3, math.Min(fly+0.01, 1))
	heading := math.Atan2(ahead.Y-pos.Y, ahead.X-pos.X)
	if fly >= 1 {
		behind := cubicAt(p0, p1, p2, p3, 0.99)
		heading = math.Atan2(pos.Y-behind.Y, pos.X-behind.X)
	}
	k := 22 * s * lerp(0.3, 1, unfold)
	wing := lerp(0.1, 0.7, unfold)
	c.FillPath(shape(pos.X, pos.Y, heading, k, Vec2{1, 0}, Vec2{-1, -wing}, Vec2{-0.6, 0}), ColorWhite.WithAlpha(fade))
	c.FillPath(shape(pos.X, pos.Y, heading, k, Vec2{1, 0}, Vec2{-0.6, 0}, Vec2{-1, wing}), RGB(200, 210, 230).WithAlpha(fade))
}

// --- workbench ---

var workbenchSymbols = []string{"λ", "Σ", "π", "∂", "{", "}", "<", ">", "∫", "Δ", "ƒ", "#"}

type glyph struct {
	X, Y     float64 // normalized
	Speed    float64
	Symbol   string
	Absorbed bool
}

// workbenchData is the glyph buffer, owned and mutated by the workbench
// scene only. It is filled when empty and emptied once every glyph has been
// absorbed.
type workbenchData struct {
	rng      *rand.Rand
	glyphs   []glyph
	absorbed int
	cycles   int
}

const workbenchGlyphs = 24

func newWorkbenchData(rng *rand.Rand) any {
	return &workbenchData{
		rng:    rand.New(rand.NewPCG(rng.Uint64(), rng.Uint64())),
		glyphs: make([]glyph, 0, workbenchGlyphs),
	}
}

var workbenchCore = Vec2{0.5, 0.55}

func (d *workbenchData) spawn() {
	for range workbenchGlyphs {
		a := d.rng.Float64() * 2 * math.Pi
		d.glyphs = append(d.glyphs, glyph{
			X:      workbenchCore.X + math.Cos(a)*(0.35+d.rng.Float64()*0.15),
			Y:      workbenchCore.Y + math.Sin(a)*(0.3+d.rng.Float64()*0.15),
			Speed:  0.6 + d.rng.Float64()*0.8,
			Symbol: workbenchSymbols[d.rng.IntN(len(workbenchSymbols))],
		})
	}
	d.absorbed = 0
}

// step drifts glyphs toward the core. Progress raises the pull.
func (d *workbenchData) step(dt, progress float64) {
	dt = clamp(dt, 0, 0.1)
	pull := (0.05 + 0.2*progress) * dt
	for i := range d.glyphs {
		g := &d.glyphs[i]
		if g.Absorbed {
			continue
		}
		to := workbenchCore.Sub(Vec2{g.X, g.Y})
		dist := to.Len()
		if dist < 0.02 {
			g.Absorbed = true
			d.absorbed++
			continue
		}
		move := math.Min(pull*g.Speed, dist)
		g.X += to.X / dist * move
		g.Y += to.Y / dist * move
	}
	if d.absorbed == len(d.glyphs) && len(d.glyphs) > 0 {
		d.glyphs = d.glyphs[:0]
		d.cycles++
	}
}

// drawWorkbench animates on its own: glyphs drift into a pulsing core and
// are absorbed. The core pulse reads Frame.Time; glyph motion integrates
// Frame.Delta.
func drawWorkbench(c Canvas, f Frame) {
	c.Clear()
	w, h, p := f.Width, f.Height, f.Progress
	background(c, w, h, colorDusk)
	s := ScaleFor(1, w, h)

	bench := Phase(p, 0, 0.2)
	c.FillRect(w*0.15, h*0.8, w*0.7, 10*s, colorRock.WithAlpha(bench))

	core := Vec2{workbenchCore.X * w, workbenchCore.Y * h}
	pulse := 0.75 + 0.25*math.Sin(f.Time*3)
	c.FillGlow(core.X, core.Y, 70*s*pulse, colorViolet.WithAlpha(0.6), colorViolet.WithAlpha(0))
	c.FillCircle(core.X, core.Y, 10*s, colorStarlight)

	d, _ := f.Data.(*workbenchData)
	if d == nil {
		return
	}
	if len(d.glyphs) == 0 {
		d.spawn()
	}
	d.step(f.Delta, p)
	fs := FontSizeFor(22, w)
	for _, g := range d.glyphs {
		if g.Absorbed {
			continue
		}
		dist := workbenchCore.Sub(Vec2{g.X, g.Y}).Len()
		alpha := clamp01(dist / 0.15)
		c.FillText(g.Symbol, g.X*w, g.Y*h, fs, TextAlignCenter, colorTeal.Mix(colorStarlight, 1-alpha).WithAlpha(alpha))
	}
}

// --- signal ---

// drawSignal raises a dish (0-0.3), radiates waves (0.3-0.9) and lights the
// receiver (0.9-1).
func drawSignal(c Canvas, f Frame) {
	c.Clear()
	w, h, p := f.Width, f.Height, f.Progress
	background(c, w, h, colorSpace)
	s := ScaleFor(1, w, h)

	raise := Phase(p, 0, 0.3)
	waves := Phase(p, 0.3, 0.6)
	recv := Phase(p, 0.9, 0.1)

	base := Vec2{w * 0.2, h * 0.8}
	tilt := lerp(0, -math.Pi/4, raise)
	c.StrokeLine(base.X, base.Y, base.X, base.Y-40*s, 4*s, colorRock.Mix(ColorWhite, 0.5))
	dishC := Vec2{base.X, base.Y - 40*s}
	c.StrokeArc(dishC.X, dishC.Y, 36*s, tilt+math.Pi*0.25, tilt+math.Pi*0.75, 5*s, colorStarlight)
	emit := dishC.Add(rotate(Vec2{0, -1}, tilt).Scale(36 * s))

	target := Vec2{w * 0.85, h * 0.25}
	dir := math.Atan2(target.Y-emit.Y, target.X-emit.X)
	span := target.Sub(emit).Len()
	if waves > 0 {
		const n = 5
		for k := range n {
			t := fract(waves*2 + float64(k)/n)
			r := t * span
			if r <= 0 {
				continue
			}
			c.StrokeArc(emit.X, emit.Y, r, dir-0.35, dir+0.35, 2*s, colorTeal.WithAlpha((1-t)*waves))
		}
	}
	c.FillCircle(target.X, target.Y, 6*s, colorRock.Mix(colorGold, recv))
	if recv > 0 {
		c.FillGlow(target.X, target.Y, 40*s*recv, colorGold.WithAlpha(0.8*recv), colorGold.WithAlpha(0))
	}
}

// --- launch ---

// drawLaunch counts down with a ring of lights (0-0.2), lifts a rocket on an
// exhaust plume (0.2-0.8) and darkens the sky into stars (0.8-1).
func drawLaunch(c Canvas, f Frame) {
	c.Clear()
	w, h, p := f.Width, f.Height, f.Progress
	s := ScaleFor(1, w, h)

	count := Phase(p, 0, 0.2)
	ascent := Phase(p, 0.2, 0.6)
	space := Phase(p, 0.8, 0.2)

	background(c, w, h, RGB(40, 70, 120).Mix(colorSpace, math.Max(ascent*0.6, space)))
	if d, _ := f.Data.(*starfieldData); d != nil {
		drawStars(c, w, h, d.stars, space, 0, 0)
	}
	c.FillRect(0, h*0.88, w, h*0.12, colorRock.WithAlpha(1-ascent))

	x := w * 0.5
	y := lerp(h*0.8, -h*0.25, ascent*ascent)
	if count < 1 {
		const lights = 10
		for i := range lights {
			a := -math.Pi/2 + float64(i)*2*math.Pi/lights
			on := count*lights > float64(i)
			col := colorRock.Mix(ColorWhite, 0.3)
			if on {
				col = colorEmber
			}
			c.FillCircle(x+math.Cos(a)*60*s, h*0.8+math.Sin(a)*60*s, 4*s, col)
		}
	}
	if ascent > 0 {
		plume := &Path{}
		length := lerp(20, 140, math.Min(ascent*4, 1)) * s
		plume.MoveTo(x-9*s, y+30*s)
		plume.QuadTo(x, y+30*s+length*1.2, x+9*s, y+30*s)
		plume.Close()
		c.FillGlow(x, y+30*s+length*0.4, length*0.7, colorGold.WithAlpha(0.7), colorEmber.WithAlpha(0))
		c.FillPath(plume, colorGold)
	}
	c.FillPath(shape(x, y, 0, s,
		Vec2{0, -40}, Vec2{10, -22}, Vec2{10, 22}, Vec2{18, 32}, Vec2{-18, 32}, Vec2{-10, 22}, Vec2{-10, -22}),
		colorStarlight)
	c.FillCircle(x, y-12*s, 4*s, colorIce)
}

// --- bridge ---

// drawBridge raises two cliffs (0-0.2), assembles an arch stone by stone
// (0.2-0.8) then lays the deck and sends a traveler across (0.8-1).
func drawBridge(c Canvas, f Frame) {
	c.Clear()
	w, h, p := f.Width, f.Height, f.Progress
	background(c, w, h, colorDusk)
	s := ScaleFor(1, w, h)

	rise := Phase(p, 0, 0.2)
	build := Phase(p, 0.2, 0.6)
	cross := Phase(p, 0.8, 0.2)

	ground := lerp(h*1.05, h*0.6, rise)
	left := w * 0.3
	right := w * 0.7
	c.FillPath(Polygon(Vec2{0, h}, Vec2{0, ground}, Vec2{left, ground}, Vec2{left - 30*s, h}), colorRock)
	c.FillPath(Polygon(Vec2{w, h}, Vec2{w, ground}, Vec2{right, ground}, Vec2{right + 30*s, h}), colorRock)

	const stones = 12
	cx := (left + right) / 2
	r := (right - left) / 2
	for i := range stones {
		k := clamp01(build*stones - float64(i))
		if k <= 0 {
			break
		}
		// Stones alternate from each end toward the keystone.
		idx := i / 2
		if i%2 == 1 {
			idx = stones - 1 - i/2
		}
		a0 := math.Pi + math.Pi*float64(idx)/stones
		a1 := math.Pi + math.Pi*float64(idx+1)/stones
		drop := (1 - k) * 80 * s
		c.StrokeArc(cx, ground+drop, r, a0+0.01, a1-0.01, 12*s, colorGold.Mix(colorRock, 0.3).WithAlpha(k))
	}
	if cross > 0 {
		deck := Phase(cross, 0, 0.3)
		c.FillRect(left, ground-r-8*s, (right-left)*deck, 6*s, colorRock.Mix(ColorWhite, 0.3))
		walk := Phase(cross, 0.3, 0.7)
		if walk > 0 {
			x := lerp(left, right, walk)
			c.FillCircle(x, ground-r-16*s, 6*s, colorTeal)
		}
	}
}
