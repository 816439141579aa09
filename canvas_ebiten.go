package journey

import (
	"bytes"
	"image"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"
)

// glowSegments is the number of triangles in a FillGlow fan.
const glowSegments = 48

// --- Lazy shared resources (no sync.Once — drawing happens on the game loop) ---

var (
	whiteSubImage *ebiten.Image
	faceSource    *text.GoTextFaceSource
)

func ensureWhiteSubImage() *ebiten.Image {
	if whiteSubImage == nil {
		img := ebiten.NewImage(3, 3)
		img.Fill(color.White)
		whiteSubImage = img.SubImage(image.Rect(1, 1, 2, 2)).(*ebiten.Image)
	}
	return whiteSubImage
}

func ensureFaceSource() *text.GoTextFaceSource {
	if faceSource == nil {
		s, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
		if err != nil {
			panic("journey: failed to parse Go Regular font: " + err.Error())
		}
		faceSource = s
	}
	return faceSource
}

// ImageCanvas rasterizes Canvas calls into an *ebiten.Image. Logical
// coordinates are multiplied by the canvas scale to reach device pixels.
type ImageCanvas struct {
	dst   *ebiten.Image
	scale float64

	// Reused per call to keep the hot path allocation-free.
	path     vector.Path
	vs       []ebiten.Vertex
	is       []uint16
	triOp    ebiten.DrawTrianglesOptions
	textOp   text.DrawOptions
	textFace text.GoTextFace
}

// NewImageCanvas wraps dst. scale is the device pixels per logical pixel;
// zero defaults to 1.
func NewImageCanvas(dst *ebiten.Image, scale float64) *ImageCanvas {
	if scale <= 0 {
		scale = 1
	}
	c := &ImageCanvas{dst: dst, scale: scale}
	c.triOp.AntiAlias = true
	return c
}

// Image returns the target image.
func (c *ImageCanvas) Image() *ebiten.Image {
	return c.dst
}

func (c *ImageCanvas) f(v float64) float32 {
	return float32(v * c.scale)
}

func (c *ImageCanvas) Clear() {
	c.dst.Clear()
}

func (c *ImageCanvas) FillRect(x, y, w, h float64, col Color) {
	vector.DrawFilledRect(c.dst, c.f(x), c.f(y), c.f(w), c.f(h), col.RGBA(), true)
}

func (c *ImageCanvas) FillCircle(cx, cy, r float64, col Color) {
	if r <= 0 {
		return
	}
	vector.DrawFilledCircle(c.dst, c.f(cx), c.f(cy), c.f(r), col.RGBA(), true)
}

func (c *ImageCanvas) StrokeCircle(cx, cy, r, width float64, col Color) {
	if r <= 0 || width <= 0 {
		return
	}
	vector.StrokeCircle(c.dst, c.f(cx), c.f(cy), c.f(r), c.f(width), col.RGBA(), true)
}

func (c *ImageCanvas) StrokeArc(cx, cy, r, start, end, width float64, col Color) {
	if r <= 0 || width <= 0 {
		return
	}
	c.path = vector.Path{}
	c.path.Arc(c.f(cx), c.f(cy), c.f(r), float32(start), float32(end), vector.Clockwise)
	c.strokeVectorPath(width, col)
}

func (c *ImageCanvas) StrokeLine(x0, y0, x1, y1, width float64, col Color) {
	if width <= 0 {
		return
	}
	vector.StrokeLine(c.dst, c.f(x0), c.f(y0), c.f(x1), c.f(y1), c.f(width), col.RGBA(), true)
}

func (c *ImageCanvas) FillPath(p *Path, col Color) {
	if p.Empty() {
		return
	}
	c.buildPath(p)
	c.vs, c.is = c.path.AppendVerticesAndIndicesForFilling(c.vs[:0], c.is[:0])
	c.triOp.FillRule = ebiten.FillRuleNonZero
	c.drawTriangles(col)
}

func (c *ImageCanvas) StrokePath(p *Path, width float64, col Color) {
	if p.Empty() || width <= 0 {
		return
	}
	c.buildPath(p)
	c.strokeVectorPath(width, col)
}

// FillGlow draws a triangle fan whose center vertex carries inner and whose
// rim vertices carry outer; vertex color interpolation yields the gradient.
func (c *ImageCanvas) FillGlow(cx, cy, r float64, inner, outer Color) {
	if r <= 0 {
		return
	}
	c.vs = c.vs[:0]
	c.is = c.is[:0]
	c.vs = append(c.vs, c.vertex(cx, cy, inner))
	for i := 0; i <= glowSegments; i++ {
		a := 2 * math.Pi * float64(i) / glowSegments
		c.vs = append(c.vs, c.vertex(cx+math.Cos(a)*r, cy+math.Sin(a)*r, outer))
	}
	for i := 1; i <= glowSegments; i++ {
		c.is = append(c.is, 0, uint16(i), uint16(i+1))
	}
	c.triOp.FillRule = ebiten.FillRuleFillAll
	c.dst.DrawTriangles(c.vs, c.is, ensureWhiteSubImage(), &c.triOp)
}

func (c *ImageCanvas) FillText(s string, x, y, size float64, align TextAlign, col Color) {
	if s == "" || size <= 0 {
		return
	}
	c.textFace.Source = ensureFaceSource()
	c.textFace.Size = size * c.scale
	m := c.textFace.Metrics()

	op := &c.textOp
	op.GeoM.Reset()
	op.ColorScale.Reset()
	op.GeoM.Translate(x*c.scale, y*c.scale-m.HAscent)
	op.ColorScale.ScaleWithColor(col.RGBA())
	switch align {
	case TextAlignCenter:
		op.PrimaryAlign = text.AlignCenter
	case TextAlignRight:
		op.PrimaryAlign = text.AlignEnd
	default:
		op.PrimaryAlign = text.AlignStart
	}
	text.Draw(c.dst, s, &c.textFace, op)
}

// buildPath converts a Path into the reusable vector.Path in device pixels.
func (c *ImageCanvas) buildPath(p *Path) {
	c.path = vector.Path{}
	for _, s := range p.Segments {
		switch s.Kind {
		case SegmentMove:
			c.path.MoveTo(c.f(s.Pts[0].X), c.f(s.Pts[0].Y))
		case SegmentLine:
			c.path.LineTo(c.f(s.Pts[0].X), c.f(s.Pts[0].Y))
		case SegmentQuad:
			c.path.QuadTo(c.f(s.Pts[0].X), c.f(s.Pts[0].Y), c.f(s.Pts[1].X), c.f(s.Pts[1].Y))
		case SegmentCubic:
			c.path.CubicTo(c.f(s.Pts[0].X), c.f(s.Pts[0].Y), c.f(s.Pts[1].X), c.f(s.Pts[1].Y),
				c.f(s.Pts[2].X), c.f(s.Pts[2].Y))
		case SegmentArc:
			c.path.Arc(c.f(s.Pts[0].X), c.f(s.Pts[0].Y), c.f(s.Radius), float32(s.Start), float32(s.End), vector.Clockwise)
		case SegmentClose:
			c.path.Close()
		}
	}
}

func (c *ImageCanvas) strokeVectorPath(width float64, col Color) {
	c.vs, c.is = c.path.AppendVerticesAndIndicesForStroke(c.vs[:0], c.is[:0], &vector.StrokeOptions{
		Width:    c.f(width),
		LineJoin: vector.LineJoinRound,
		LineCap:  vector.LineCapRound,
	})
	c.triOp.FillRule = ebiten.FillRuleFillAll
	c.drawTriangles(col)
}

// drawTriangles tints the current vertex buffer with col and submits it.
func (c *ImageCanvas) drawTriangles(col Color) {
	if len(c.is) == 0 {
		return
	}
	a := float32(clamp01(col.A))
	r, g, b := float32(clamp01(col.R))*a, float32(clamp01(col.G))*a, float32(clamp01(col.B))*a
	for i := range c.vs {
		c.vs[i].SrcX = 1
		c.vs[i].SrcY = 1
		c.vs[i].ColorR = r
		c.vs[i].ColorG = g
		c.vs[i].ColorB = b
		c.vs[i].ColorA = a
	}
	c.dst.DrawTriangles(c.vs, c.is, ensureWhiteSubImage(), &c.triOp)
}

func (c *ImageCanvas) vertex(x, y float64, col Color) ebiten.Vertex {
	a := float32(clamp01(col.A))
	return ebiten.Vertex{
		DstX:   c.f(x),
		DstY:   c.f(y),
		SrcX:   1,
		SrcY:   1,
		ColorR: float32(clamp01(col.R)) * a,
		ColorG: float32(clamp01(col.G)) * a,
		ColorB: float32(clamp01(col.B)) * a,
		ColorA: a,
	}
}
