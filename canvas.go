package journey

import "math"

// Canvas is the 2D drawing context a scene paints into. Coordinates are in
// logical pixels with the origin at the top-left.
type Canvas interface {
	// Clear resets every pixel of the canvas to transparent.
	Clear()
	FillRect(x, y, w, h float64, c Color)
	FillCircle(cx, cy, r float64, c Color)
	StrokeCircle(cx, cy, r, width float64, c Color)
	// StrokeArc strokes the arc from start to end radians, clockwise.
	StrokeArc(cx, cy, r, start, end, width float64, c Color)
	StrokeLine(x0, y0, x1, y1, width float64, c Color)
	FillPath(p *Path, c Color)
	StrokePath(p *Path, width float64, c Color)
	// FillGlow fills a radial gradient from inner at the center to outer at
	// radius r.
	FillGlow(cx, cy, r float64, inner, outer Color)
	// FillText draws s with its baseline at y, anchored horizontally at x.
	FillText(s string, x, y, size float64, align TextAlign, c Color)
}

// SegmentKind identifies a Path segment.
type SegmentKind uint8

const (
	SegmentMove SegmentKind = iota
	SegmentLine
	SegmentQuad
	SegmentCubic
	SegmentArc
	SegmentClose
)

// Segment is one recorded path command. Pts holds the points used by the
// kind: one for move/line, two for quad, three for cubic. Arcs use Pts[0] as
// the center with Radius, Start and End.
type Segment struct {
	Kind       SegmentKind
	Pts        [3]Vec2
	Radius     float64
	Start, End float64
}

// Path is a backend-neutral vector path. The zero value is an empty path.
type Path struct {
	Segments []Segment
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float64) {
	p.Segments = append(p.Segments, Segment{Kind: SegmentMove, Pts: [3]Vec2{{x, y}}})
}

// LineTo adds a straight segment to (x, y).
func (p *Path) LineTo(x, y float64) {
	p.Segments = append(p.Segments, Segment{Kind: SegmentLine, Pts: [3]Vec2{{x, y}}})
}

// QuadTo adds a quadratic Bézier segment.
func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.Segments = append(p.Segments, Segment{Kind: SegmentQuad, Pts: [3]Vec2{{cx, cy}, {x, y}}})
}

// CubicTo adds a cubic Bézier segment.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.Segments = append(p.Segments, Segment{Kind: SegmentCubic, Pts: [3]Vec2{{c1x, c1y}, {c2x, c2y}, {x, y}}})
}

// Arc adds a clockwise circular arc around (cx, cy).
func (p *Path) Arc(cx, cy, r, start, end float64) {
	p.Segments = append(p.Segments, Segment{Kind: SegmentArc, Pts: [3]Vec2{{cx, cy}}, Radius: r, Start: start, End: end})
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.Segments = append(p.Segments, Segment{Kind: SegmentClose})
}

// Empty reports whether the path has no segments.
func (p *Path) Empty() bool {
	return p == nil || len(p.Segments) == 0
}

// Polygon returns a closed path through pts. Fewer than two points yield an
// empty path.
func Polygon(pts ...Vec2) *Path {
	p := &Path{}
	if len(pts) < 2 {
		return p
	}
	p.MoveTo(pts[0].X, pts[0].Y)
	for _, pt := range pts[1:] {
		p.LineTo(pt.X, pt.Y)
	}
	p.Close()
	return p
}

// Star returns a closed star path with the given number of points.
func Star(cx, cy, outer, inner float64, points int, rotation float64) *Path {
	p := &Path{}
	if points < 2 {
		return p
	}
	for i := 0; i < points*2; i++ {
		r := outer
		if i%2 == 1 {
			r = inner
		}
		a := rotation + float64(i)*math.Pi/float64(points) - math.Pi/2
		x, y := cx+math.Cos(a)*r, cy+math.Sin(a)*r
		if i == 0 {
			p.MoveTo(x, y)
		} else {
			p.LineTo(x, y)
		}
	}
	p.Close()
	return p
}
