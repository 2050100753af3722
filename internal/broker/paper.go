package broker

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"

	"pivotbot-go/internal/signal"
)

// Paper is an in-memory broker simulator: it synthesizes a bar stream as a
// random walk around seeded base prices, fills entry legs instantly at their
// limit price, and keeps the fill history the cooldown check scans.
type Paper struct {
	Interval time.Duration // bar cadence, 5s when zero

	mu     sync.Mutex
	prices map[string]float64
	orders []Order
	fills  []Fill
	rng    *rand.Rand
}

// NewPaper builds a simulator seeded with per-symbol base prices.
func NewPaper(basePrices map[string]float64) *Paper {
	prices := make(map[string]float64, len(basePrices))
	for sym, px := range basePrices {
		prices[sym] = px
	}
	return &Paper{
		prices: prices,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Qualify accepts every known symbol as a SMART/USD contract.
func (p *Paper) Qualify(_ context.Context, symbols []string) ([]Contract, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Contract, 0, len(symbols))
	for _, sym := range symbols {
		if _, ok := p.prices[sym]; !ok {
			return nil, fmt.Errorf("unknown symbol %s", sym)
		}
		out = append(out, Contract{Symbol: sym, Exchange: "SMART", Currency: "USD"})
	}
	return out, nil
}

// HistoricalCloses synthesizes a walk ending at the symbol's current price.
func (p *Paper) HistoricalCloses(_ context.Context, symbol string, lookback, barSize time.Duration) ([]float64, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	base, ok := p.prices[symbol]
	if !ok {
		return nil, fmt.Errorf("unknown symbol %s", symbol)
	}
	n := int(lookback / barSize)
	closes := make([]float64, n)
	px := base
	for i := n - 1; i >= 0; i-- {
		closes[i] = px
		px *= 1 - (p.rng.Float64()-0.5)*0.001
	}
	return closes, nil
}

// StreamBars emits one bar per symbol each interval until ctx is canceled.
func (p *Paper) StreamBars(ctx context.Context, symbols []string, out chan<- signal.Bar) error {
	interval := p.Interval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ts := <-ticker.C:
			for _, sym := range symbols {
				bar := signal.Bar{Symbol: sym, Close: p.step(sym), Ts: ts}
				select {
				case out <- bar:
				case <-ctx.Done():
					return ctx.Err()
				}
			}
		}
	}
}

func (p *Paper) step(symbol string) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	px := p.prices[symbol]
	px *= 1 + (p.rng.Float64()-0.5)*0.002
	p.prices[symbol] = px
	return px
}

// RecentFills scans the simulated trade history for matching fresh fills.
func (p *Paper) RecentFills(_ context.Context, symbol string, action signal.Action, price float64, within time.Duration) ([]Fill, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cutoff := time.Now().Add(-within)
	var out []Fill
	for _, f := range p.fills {
		if f.Symbol == symbol && f.Action == action && f.Price == price && f.Time.After(cutoff) {
			out = append(out, f)
		}
	}
	return out, nil
}

// PlaceBracket records the entry leg and fills it immediately at the limit
// price, so cooldown suppression is exercised the same way as against a real
// backend.
func (p *Paper) PlaceBracket(_ context.Context, spec BracketSpec) (*Order, error) {
	if spec.Quantity <= 0 {
		return nil, fmt.Errorf("non-positive quantity %d", spec.Quantity)
	}
	id := spec.ClientID
	if id == "" {
		id = uuid.New().String()
	}
	now := time.Now()
	order := Order{
		ID:          id,
		Symbol:      spec.Symbol,
		Action:      spec.Action,
		Quantity:    spec.Quantity,
		LimitPrice:  spec.LimitPrice,
		SubmittedAt: now,
	}

	p.mu.Lock()
	p.orders = append(p.orders, order)
	p.fills = append(p.fills, Fill{
		Symbol: spec.Symbol,
		Action: spec.Action,
		Price:  spec.LimitPrice,
		Qty:    spec.Quantity,
		Time:   now,
	})
	p.mu.Unlock()
	return &order, nil
}

// RecordFill injects a fill into the history. Tests use it to back-date
// executions when exercising the cooldown.
func (p *Paper) RecordFill(f Fill) {
	p.mu.Lock()
	p.fills = append(p.fills, f)
	p.mu.Unlock()
}

// Orders returns a copy of every submitted entry leg.
func (p *Paper) Orders() []Order {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Order, len(p.orders))
	copy(out, p.orders)
	return out
}

// Close is a no-op for the simulator.
func (p *Paper) Close() error { return nil }
