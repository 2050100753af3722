package strategy

import "testing"

func TestWindowKeepsFixedLength(t *testing.T) {
	w := NewWindow(4)
	if w.Full() {
		t.Fatalf("empty window reported full")
	}

	for i := 1; i <= 5; i++ {
		w.Update(float64(i))
	}
	if !w.Full() {
		t.Fatalf("expected full window after 5 updates")
	}
	if w.Len() != 4 {
		t.Fatalf("expected length 4, got %d", w.Len())
	}

	snap := w.Update(6)
	want := []float64{3, 4, 5, 6}
	if len(snap) != len(want) {
		t.Fatalf("expected snapshot length %d, got %d", len(want), len(snap))
	}
	for i := range want {
		if snap[i] != want[i] {
			t.Fatalf("snapshot[%d] = %g, want %g", i, snap[i], want[i])
		}
	}
}

func TestWindowSeedTruncatesToCapacity(t *testing.T) {
	w := NewWindow(3)
	w.Seed([]float64{1, 2, 3, 4, 5})
	if !w.Full() {
		t.Fatalf("expected full window after seeding")
	}
	snap := w.Update(6)
	want := []float64{4, 5, 6}
	for i := range want {
		if snap[i] != want[i] {
			t.Fatalf("snapshot[%d] = %g, want %g", i, snap[i], want[i])
		}
	}
}

func TestWindowSnapshotIsCopy(t *testing.T) {
	w := NewWindow(2)
	snap := w.Update(1)
	snap[0] = 99
	next := w.Update(2)
	if next[0] != 1 {
		t.Fatalf("mutating a snapshot leaked into the window: %+v", next)
	}
}
