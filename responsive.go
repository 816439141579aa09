package journey

import "math"

// Width breakpoints in logical pixels.
const (
	BreakpointSmall  = 480
	BreakpointNarrow = 768
	BreakpointMedium = 1024
)

// scaleTier holds the reference dimension and multiplier for one width tier.
type scaleTier struct {
	reference  float64
	multiplier float64
}

var (
	narrowTier = scaleTier{reference: 400, multiplier: 0.8}
	mediumTier = scaleTier{reference: 600, multiplier: 0.9}
	wideTier   = scaleTier{reference: 800, multiplier: 1.0}
)

// ScaleFor converts a logical size into a viewport-aware size. The viewport
// width selects a tier; the smaller of width and height is normalized to the
// tier's reference dimension and the tier's multiplier applied.
func ScaleFor(base, width, height float64) float64 {
	tier := wideTier
	switch {
	case width < BreakpointNarrow:
		tier = narrowTier
	case width < BreakpointMedium:
		tier = mediumTier
	}
	return base * (math.Min(width, height) / tier.reference) * tier.multiplier
}

// FontSizeFor returns base scaled down for narrower viewports.
func FontSizeFor(base, width float64) float64 {
	switch {
	case width < BreakpointSmall:
		return base * 0.7
	case width < BreakpointNarrow:
		return base * 0.8
	case width < BreakpointMedium:
		return base * 0.9
	default:
		return base
	}
}
