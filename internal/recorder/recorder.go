// Package recorder persists signal and order history for later analysis.
package recorder

import (
	"pivotbot-go/internal/broker"
	"pivotbot-go/internal/signal"
)

// Recorder journals detected signals and submitted orders.
type Recorder interface {
	RecordSignal(intent signal.Intent) error
	RecordOrder(order broker.Order, takeProfit, stopLoss float64) error
	Close() error
}

// Noop is used when no journal is configured.
type Noop struct{}

func NewNoop() *Noop { return &Noop{} }

func (n *Noop) RecordSignal(_ signal.Intent) error             { return nil }
func (n *Noop) RecordOrder(_ broker.Order, _, _ float64) error { return nil }
func (n *Noop) Close() error                                   { return nil }
