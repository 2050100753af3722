// Package broker hosts connectors to the market data and order service the
// bot trades through. The event loop owns a single Client handle; nothing in
// this package is reached through globals.
package broker

import (
	"context"
	"time"

	"pivotbot-go/internal/signal"
)

// Contract is a qualified tradable instrument.
type Contract struct {
	Symbol   string
	Exchange string
	Currency string
}

// Fill is one execution of a previously submitted order.
type Fill struct {
	Symbol string
	Action signal.Action
	Price  float64
	Qty    int
	Time   time.Time
}

// BracketSpec describes the linked entry, take-profit, and stop-loss legs of
// a bracket order. The entry leg expires at GoodTillDate if unfilled.
type BracketSpec struct {
	ClientID     string
	Symbol       string
	Action       signal.Action
	Quantity     int
	LimitPrice   float64
	TakeProfit   float64
	StopLoss     float64
	GoodTillDate time.Time
}

// Order is the normalized view of a submitted entry leg, returned as the
// confirmation handle.
type Order struct {
	ID          string
	Symbol      string
	Action      signal.Action
	Quantity    int
	LimitPrice  float64
	SubmittedAt time.Time
}

// Client is the full surface the bot needs from a brokerage backend.
type Client interface {
	// Qualify resolves plain symbols into tradable contracts.
	Qualify(ctx context.Context, symbols []string) ([]Contract, error)
	// HistoricalCloses returns the closes of the last lookback period at
	// barSize granularity, oldest first.
	HistoricalCloses(ctx context.Context, symbol string, lookback, barSize time.Duration) ([]float64, error)
	// StreamBars pushes live bars onto out until the context is canceled.
	StreamBars(ctx context.Context, symbols []string, out chan<- signal.Bar) error
	// RecentFills returns fills matching (symbol, action, limit price) whose
	// most recent execution happened within the given duration.
	RecentFills(ctx context.Context, symbol string, action signal.Action, price float64, within time.Duration) ([]Fill, error)
	// PlaceBracket submits the three linked legs and returns the entry leg.
	PlaceBracket(ctx context.Context, spec BracketSpec) (*Order, error)
	// Close disconnects from the backend.
	Close() error
}
