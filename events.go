package journey

import "slices"

// ResizeEvent describes a viewport size change.
type ResizeEvent struct {
	Width, Height float64 // logical pixels
	DeviceScale   float64 // device pixels per logical pixel
}

type scrollListener struct {
	id uint64
	fn func(offset float64)
}

type resizeListener struct {
	id uint64
	fn func(ResizeEvent)
}

// Events is the page's scroll and resize event bus. Listeners run
// synchronously, in subscription order, on the caller's goroutine.
type Events struct {
	nextID uint64
	scroll []scrollListener
	resize []resizeListener
	closed bool
}

// NewEvents creates an empty event bus.
func NewEvents() *Events {
	return &Events{}
}

// OnScroll registers fn for scroll events and returns a function that
// removes it. Subscribing to a closed bus returns a no-op remover.
func (e *Events) OnScroll(fn func(offset float64)) (unsubscribe func()) {
	if e.closed {
		return func() {}
	}
	e.nextID++
	id := e.nextID
	e.scroll = append(e.scroll, scrollListener{id: id, fn: fn})
	return func() {
		for i, l := range e.scroll {
			if l.id == id {
				e.scroll = append(e.scroll[:i], e.scroll[i+1:]...)
				return
			}
		}
	}
}

// OnResize registers fn for resize events and returns a function that
// removes it.
func (e *Events) OnResize(fn func(ResizeEvent)) (unsubscribe func()) {
	if e.closed {
		return func() {}
	}
	e.nextID++
	id := e.nextID
	e.resize = append(e.resize, resizeListener{id: id, fn: fn})
	return func() {
		for i, l := range e.resize {
			if l.id == id {
				e.resize = append(e.resize[:i], e.resize[i+1:]...)
				return
			}
		}
	}
}

// EmitScroll notifies scroll listeners of the new scroll offset. Listeners
// added or removed during the call take effect from the next emit.
func (e *Events) EmitScroll(offset float64) {
	for _, l := range slices.Clone(e.scroll) {
		l.fn(offset)
	}
}

// EmitResize notifies resize listeners.
func (e *Events) EmitResize(ev ResizeEvent) {
	for _, l := range slices.Clone(e.resize) {
		l.fn(ev)
	}
}

// Listeners returns the number of registered scroll and resize listeners.
func (e *Events) Listeners() (scroll, resize int) {
	return len(e.scroll), len(e.resize)
}

// Close drops every listener. Later subscriptions are ignored.
func (e *Events) Close() {
	e.scroll = nil
	e.resize = nil
	e.closed = true
}
