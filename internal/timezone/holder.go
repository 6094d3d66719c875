package timezone

import "sync/atomic"

// Holder publishes the current engine to concurrent readers. A reload
// stores a new engine; readers that loaded the old one keep using it.
type Holder struct {
	p atomic.Pointer[Engine]
}

// NewHolder returns a holder publishing e.
func NewHolder(e *Engine) *Holder {
	h := &Holder{}
	h.Store(e)
	return h
}

// Engine returns the current engine.
func (h *Holder) Engine() *Engine {
	return h.p.Load()
}

// Store replaces the current engine.
func (h *Holder) Store(e *Engine) {
	h.p.Store(e)
}
