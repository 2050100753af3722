// Package execution handles order gating and bracket submission.
package execution

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pivotbot-go/internal/broker"
	"pivotbot-go/internal/metrics"
	"pivotbot-go/internal/notifier"
	"pivotbot-go/internal/recorder"
	"pivotbot-go/internal/signal"
)

// Params groups bracket construction and dedup settings.
type Params struct {
	Profit      float64       // take-profit offset fraction
	Risk        float64       // stop-loss offset fraction
	WaitForFill time.Duration // entry leg expiration
	Cooldown    time.Duration // suppress re-entry after a matching fill
}

// Executor suppresses duplicate setups and submits bracket orders through
// the broker client.
type Executor struct {
	client  broker.Client
	params  Params
	log     zerolog.Logger
	journal recorder.Recorder
	notify  notifier.Notifier
}

// NewExecutor wires the broker client with journaling and notification sinks.
func NewExecutor(client broker.Client, params Params, log zerolog.Logger, journal recorder.Recorder, notify notifier.Notifier) *Executor {
	if journal == nil {
		journal = recorder.NewNoop()
	}
	if notify == nil {
		notify = notifier.Noop{}
	}
	return &Executor{client: client, params: params, log: log, journal: journal, notify: notify}
}

// Submit places a bracket for the intent unless an identical setup filled
// within the cooldown. A nil order with nil error means the submission was
// suppressed.
func (e *Executor) Submit(ctx context.Context, intent signal.Intent, quantity int) (*broker.Order, error) {
	fills, err := e.client.RecentFills(ctx, intent.Symbol, intent.Action, intent.Price, e.params.Cooldown)
	if err != nil {
		return nil, err
	}
	if len(fills) > 0 {
		metrics.OrdersSuppressedTotal.WithLabelValues(intent.Symbol).Inc()
		e.log.Info().
			Str("sym", intent.Symbol).
			Str("action", string(intent.Action)).
			Float64("px", intent.Price).
			Time("last_fill", fills[len(fills)-1].Time).
			Msg("duplicate setup suppressed")
		return nil, nil
	}

	takeProfit, stopLoss := Bracket(intent.Action, intent.Price, e.params.Profit, e.params.Risk)
	spec := broker.BracketSpec{
		ClientID:     uuid.New().String(),
		Symbol:       intent.Symbol,
		Action:       intent.Action,
		Quantity:     quantity,
		LimitPrice:   intent.Price,
		TakeProfit:   takeProfit,
		StopLoss:     stopLoss,
		GoodTillDate: time.Now().Add(e.params.WaitForFill),
	}

	order, err := e.client.PlaceBracket(ctx, spec)
	if err != nil {
		return nil, err
	}

	metrics.OrdersTotal.WithLabelValues(order.Symbol, string(order.Action)).Inc()
	e.log.Info().
		Str("sym", order.Symbol).
		Str("action", string(order.Action)).
		Int("qty", order.Quantity).
		Float64("px", order.LimitPrice).
		Float64("tp", takeProfit).
		Float64("sl", stopLoss).
		Msg("bracket order placed")

	if err := e.journal.RecordOrder(*order, takeProfit, stopLoss); err != nil {
		e.log.Warn().Err(err).Msg("journal order failed")
	}
	if err := e.notify.Send(notifier.FormatOrder(*order, takeProfit, stopLoss)); err != nil {
		e.log.Warn().Err(err).Msg("notify order failed")
	}
	return order, nil
}

// Bracket computes the take-profit and stop-loss legs for an entry, rounded
// to cents.
func Bracket(action signal.Action, price, profit, risk float64) (takeProfit, stopLoss float64) {
	if action == signal.Buy {
		return round2(price * (1 + profit)), round2(price * (1 - risk))
	}
	return round2(price * (1 - profit)), round2(price * (1 + risk))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
