package journey

import (
	"math"
	"slices"
)

// OpKind identifies a recorded canvas call.
type OpKind uint8

const (
	OpClear OpKind = iota
	OpFillRect
	OpFillCircle
	OpStrokeCircle
	OpStrokeArc
	OpStrokeLine
	OpFillPath
	OpStrokePath
	OpFillGlow
	OpFillText
)

var opNames = [...]string{
	OpClear:        "Clear",
	OpFillRect:     "FillRect",
	OpFillCircle:   "FillCircle",
	OpStrokeCircle: "StrokeCircle",
	OpStrokeArc:    "StrokeArc",
	OpStrokeLine:   "StrokeLine",
	OpFillPath:     "FillPath",
	OpStrokePath:   "StrokePath",
	OpFillGlow:     "FillGlow",
	OpFillText:     "FillText",
}

func (k OpKind) String() string {
	if int(k) < len(opNames) {
		return opNames[k]
	}
	return "Unknown"
}

// Op is one recorded canvas call.
type Op struct {
	Kind     OpKind
	Args     []float64
	Color    Color
	Color2   Color // outer color for FillGlow
	Text     string
	Align    TextAlign
	Segments []Segment
}

// RecordingCanvas is a Canvas that records calls instead of rasterizing them.
// It backs headless surfaces and serves as the spy in tests.
type RecordingCanvas struct {
	ops    []Op
	writes int
}

// NewRecordingCanvas returns an empty recording canvas.
func NewRecordingCanvas() *RecordingCanvas {
	return &RecordingCanvas{}
}

// Ops returns the calls recorded since the last Clear. The returned slice
// MUST NOT be mutated.
func (r *RecordingCanvas) Ops() []Op {
	return r.ops
}

// Writes returns the total number of calls ever made, Clear included. Unlike
// Ops it is not reset by Clear.
func (r *RecordingCanvas) Writes() int {
	return r.writes
}

// Count returns how many recorded ops have the given kind.
func (r *RecordingCanvas) Count(kind OpKind) int {
	n := 0
	for i := range r.ops {
		if r.ops[i].Kind == kind {
			n++
		}
	}
	return n
}

// Reset drops recorded ops and the write counter.
func (r *RecordingCanvas) Reset() {
	r.ops = r.ops[:0]
	r.writes = 0
}

// Invalid returns the first op that carries a NaN or infinite argument or a
// negative alpha, and whether one was found.
func (r *RecordingCanvas) Invalid() (Op, bool) {
	for _, op := range r.ops {
		for _, a := range op.Args {
			if math.IsNaN(a) || math.IsInf(a, 0) {
				return op, true
			}
		}
		for _, s := range op.Segments {
			for _, p := range s.Pts {
				if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
					return op, true
				}
			}
			if math.IsNaN(s.Radius) || math.IsNaN(s.Start) || math.IsNaN(s.End) {
				return op, true
			}
		}
		if op.Color.A < 0 || op.Color2.A < 0 || math.IsNaN(op.Color.A) || math.IsNaN(op.Color2.A) {
			return op, true
		}
	}
	return Op{}, false
}

func (r *RecordingCanvas) record(op Op) {
	r.writes++
	r.ops = append(r.ops, op)
}

func (r *RecordingCanvas) Clear() {
	r.writes++
	r.ops = r.ops[:0]
	r.ops = append(r.ops, Op{Kind: OpClear})
}

func (r *RecordingCanvas) FillRect(x, y, w, h float64, c Color) {
	r.record(Op{Kind: OpFillRect, Args: []float64{x, y, w, h}, Color: c})
}

func (r *RecordingCanvas) FillCircle(cx, cy, rad float64, c Color) {
	r.record(Op{Kind: OpFillCircle, Args: []float64{cx, cy, rad}, Color: c})
}

func (r *RecordingCanvas) StrokeCircle(cx, cy, rad, width float64, c Color) {
	r.record(Op{Kind: OpStrokeCircle, Args: []float64{cx, cy, rad, width}, Color: c})
}

func (r *RecordingCanvas) StrokeArc(cx, cy, rad, start, end, width float64, c Color) {
	r.record(Op{Kind: OpStrokeArc, Args: []float64{cx, cy, rad, start, end, width}, Color: c})
}

func (r *RecordingCanvas) StrokeLine(x0, y0, x1, y1, width float64, c Color) {
	r.record(Op{Kind: OpStrokeLine, Args: []float64{x0, y0, x1, y1, width}, Color: c})
}

func (r *RecordingCanvas) FillPath(p *Path, c Color) {
	r.record(Op{Kind: OpFillPath, Color: c, Segments: clonePath(p)})
}

func (r *RecordingCanvas) StrokePath(p *Path, width float64, c Color) {
	r.record(Op{Kind: OpStrokePath, Args: []float64{width}, Color: c, Segments: clonePath(p)})
}

func (r *RecordingCanvas) FillGlow(cx, cy, rad float64, inner, outer Color) {
	r.record(Op{Kind: OpFillGlow, Args: []float64{cx, cy, rad}, Color: inner, Color2: outer})
}

func (r *RecordingCanvas) FillText(s string, x, y, size float64, align TextAlign, c Color) {
	r.record(Op{Kind: OpFillText, Args: []float64{x, y, size}, Color: c, Text: s, Align: align})
}

func clonePath(p *Path) []Segment {
	if p == nil {
		return nil
	}
	return slices.Clone(p.Segments)
}
