package broker

import (
	"context"
	"testing"
	"time"

	"pivotbot-go/internal/signal"
)

func TestPaperHistoricalCloses(t *testing.T) {
	p := NewPaper(map[string]float64{"AAPL": 190})
	closes, err := p.HistoricalCloses(context.Background(), "AAPL", time.Hour, 30*time.Second)
	if err != nil {
		t.Fatalf("HistoricalCloses returned error: %v", err)
	}
	if len(closes) != 120 {
		t.Fatalf("expected 120 closes, got %d", len(closes))
	}
	for i, c := range closes {
		if c <= 0 {
			t.Fatalf("close %d is non-positive: %g", i, c)
		}
	}
}

func TestPaperQualifyUnknownSymbol(t *testing.T) {
	p := NewPaper(map[string]float64{"AAPL": 190})
	if _, err := p.Qualify(context.Background(), []string{"MSFT"}); err == nil {
		t.Fatalf("expected error for unknown symbol")
	}
}

func TestPaperPlaceBracketRecordsFill(t *testing.T) {
	p := NewPaper(map[string]float64{"AAPL": 190})
	order, err := p.PlaceBracket(context.Background(), BracketSpec{
		ClientID:   "abc",
		Symbol:     "AAPL",
		Action:     signal.Buy,
		Quantity:   10,
		LimitPrice: 189.5,
	})
	if err != nil {
		t.Fatalf("PlaceBracket returned error: %v", err)
	}
	if order.ID != "abc" {
		t.Fatalf("expected client id to carry through, got %s", order.ID)
	}

	fills, err := p.RecentFills(context.Background(), "AAPL", signal.Buy, 189.5, time.Minute)
	if err != nil {
		t.Fatalf("RecentFills returned error: %v", err)
	}
	if len(fills) != 1 {
		t.Fatalf("expected the entry to fill instantly, got %d fills", len(fills))
	}
	if got := p.Orders(); len(got) != 1 {
		t.Fatalf("expected 1 recorded order, got %d", len(got))
	}
}

func TestPaperRecentFillsWindow(t *testing.T) {
	p := NewPaper(map[string]float64{"AAPL": 190})
	p.RecordFill(Fill{Symbol: "AAPL", Action: signal.Buy, Price: 100, Qty: 5, Time: time.Now().Add(-200 * time.Second)})
	p.RecordFill(Fill{Symbol: "AAPL", Action: signal.Buy, Price: 100, Qty: 5, Time: time.Now().Add(-60 * time.Second)})
	p.RecordFill(Fill{Symbol: "AAPL", Action: signal.Sell, Price: 100, Qty: 5, Time: time.Now().Add(-10 * time.Second)})

	fills, err := p.RecentFills(context.Background(), "AAPL", signal.Buy, 100, 120*time.Second)
	if err != nil {
		t.Fatalf("RecentFills returned error: %v", err)
	}
	if len(fills) != 1 {
		t.Fatalf("expected only the 60s-old BUY fill, got %d", len(fills))
	}
}

func TestPaperStreamBars(t *testing.T) {
	p := NewPaper(map[string]float64{"AAPL": 190})
	p.Interval = 10 * time.Millisecond

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	bars := make(chan signal.Bar, 8)
	go func() { _ = p.StreamBars(ctx, []string{"AAPL"}, bars) }()

	select {
	case bar := <-bars:
		if bar.Symbol != "AAPL" || bar.Close <= 0 {
			t.Fatalf("unexpected bar: %+v", bar)
		}
	case <-ctx.Done():
		t.Fatalf("timed out waiting for a synthetic bar")
	}
}
