package journey

// Box is a section's bounding box relative to the top of the viewport, in
// logical pixels. Top is negative once the section has scrolled above the
// viewport's top edge.
type Box struct {
	Top, Height float64
}

// Progress converts a section box into a normalized scroll progress in [0, 1].
//
// Progress is 0 while the section's top is at or below the viewport's bottom
// edge and reaches 1 once the section has fully scrolled past the viewport's
// top edge, so it sweeps the whole time the section is on screen rather than
// only its rest height.
func Progress(b Box, viewportHeight float64) float64 {
	span := viewportHeight + b.Height
	if span <= 0 {
		return 0
	}
	return clamp01((viewportHeight - b.Top) / span)
}

// Phase remaps progress into a phase-local value in [0, 1] for the phase
// starting at start and lasting duration. A non-positive duration turns the
// phase into a step at start.
func Phase(progress, start, duration float64) float64 {
	if duration <= 0 {
		if progress >= start {
			return 1
		}
		return 0
	}
	return clamp01((progress - start) / duration)
}
