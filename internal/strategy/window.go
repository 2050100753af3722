// Package strategy contains the pivot signal generation pipeline: rolling
// price windows, trend scoring, and pivot proximity evaluation.
package strategy

// Window is a fixed-capacity FIFO of the most recent 30-second closes for
// one symbol. It is owned by the event loop and never shared across
// goroutines, so it carries no locking.
type Window struct {
	capacity int
	closes   []float64
}

// NewWindow builds an empty window holding up to capacity closes.
func NewWindow(capacity int) *Window {
	if capacity < 2 {
		capacity = 2
	}
	return &Window{capacity: capacity, closes: make([]float64, 0, capacity)}
}

// Seed replaces the window contents with historical closes, keeping only the
// most recent capacity entries.
func (w *Window) Seed(closes []float64) {
	if len(closes) > w.capacity {
		closes = closes[len(closes)-w.capacity:]
	}
	w.closes = w.closes[:0]
	w.closes = append(w.closes, closes...)
}

// Update evicts the oldest close once the window is full, appends the new
// close, and returns a snapshot copy ordered oldest first.
func (w *Window) Update(close float64) []float64 {
	if len(w.closes) == w.capacity {
		copy(w.closes, w.closes[1:])
		w.closes = w.closes[:len(w.closes)-1]
	}
	w.closes = append(w.closes, close)

	snap := make([]float64, len(w.closes))
	copy(snap, w.closes)
	return snap
}

// Full reports whether the window holds exactly its capacity. Signals are
// only evaluated on full windows.
func (w *Window) Full() bool { return len(w.closes) == w.capacity }

// Len returns the number of closes currently held.
func (w *Window) Len() int { return len(w.closes) }
