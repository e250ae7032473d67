package window

// PointerTracker turns periodic cursor position samples into movement events.
type PointerTracker struct {
	x, y int32
	seen bool
}

// Moved records the sampled position and reports whether it differs from the
// previous sample. The first sample never counts as movement.
func (p *PointerTracker) Moved(x, y int32) bool {
	moved := p.seen && (x != p.x || y != p.y)
	p.x, p.y, p.seen = x, y, true
	return moved
}
