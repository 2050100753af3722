// Package engine drives the signal pipeline: it seeds the rolling windows
// from history, then consumes the live bar stream one event at a time and
// runs trend scoring, pivot evaluation, sizing, and submission per boundary
// bar.
package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"pivotbot-go/internal/broker"
	"pivotbot-go/internal/execution"
	"pivotbot-go/internal/metrics"
	"pivotbot-go/internal/notifier"
	"pivotbot-go/internal/pivots"
	"pivotbot-go/internal/recorder"
	"pivotbot-go/internal/risk"
	"pivotbot-go/internal/signal"
	"pivotbot-go/internal/strategy"
)

const barSize = 30 * time.Second

// Engine owns all mutable pipeline state. A single goroutine calls Warmup
// then Run; windows and tables are never shared, so there is no locking.
type Engine struct {
	client   broker.Client
	eval     strategy.PivotEvaluator
	sizer    risk.Sizer
	exec     *execution.Executor
	books    map[string]pivots.Book
	settings map[string]pivots.Settings
	windows  map[string]*strategy.Window
	symbols  []string
	size     int
	log      zerolog.Logger
	journal  recorder.Recorder
}

// New assembles an engine over the enabled symbols. Pivot and settings
// tables are treated as immutable for the lifetime of the run.
func New(client broker.Client, eval strategy.PivotEvaluator, sizer risk.Sizer, exec *execution.Executor,
	books map[string]pivots.Book, settings map[string]pivots.Settings, windowSize int,
	log zerolog.Logger, journal recorder.Recorder) *Engine {
	if journal == nil {
		journal = recorder.NewNoop()
	}
	symbols := pivots.EnabledSymbols(settings)
	windows := make(map[string]*strategy.Window, len(symbols))
	for _, sym := range symbols {
		windows[sym] = strategy.NewWindow(windowSize)
	}
	return &Engine{
		client:   client,
		eval:     eval,
		sizer:    sizer,
		exec:     exec,
		books:    books,
		settings: settings,
		windows:  windows,
		symbols:  symbols,
		size:     windowSize,
		log:      log,
		journal:  journal,
	}
}

// Symbols returns the enabled instruments the engine trades.
func (e *Engine) Symbols() []string { return e.symbols }

// Warmup qualifies the instruments and seeds every window from history.
// Any failure here is fatal: no instrument can trade without a full window.
func (e *Engine) Warmup(ctx context.Context) error {
	if len(e.symbols) == 0 {
		return fmt.Errorf("no enabled symbols")
	}

	contracts, err := e.client.Qualify(ctx, e.symbols)
	if err != nil {
		return fmt.Errorf("qualify contracts: %w", err)
	}
	e.log.Info().Int("contracts", len(contracts)).Strs("symbols", e.symbols).Msg("starting to scan")

	lookback := time.Duration(e.size) * barSize
	for _, sym := range e.symbols {
		closes, err := e.client.HistoricalCloses(ctx, sym, lookback, barSize)
		if err != nil {
			return fmt.Errorf("seed history for %s: %w", sym, err)
		}
		if len(closes) < e.size {
			return fmt.Errorf("seed history for %s: got %d closes, want %d", sym, len(closes), e.size)
		}
		e.windows[sym].Seed(closes)
	}
	return nil
}

// Run consumes bars until the context is canceled or the channel closes.
// Events are processed strictly sequentially in arrival order.
func (e *Engine) Run(ctx context.Context, bars <-chan signal.Bar) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case bar, ok := <-bars:
			if !ok {
				return nil
			}
			e.onBar(ctx, bar)
		}
	}
}

func (e *Engine) onBar(ctx context.Context, bar signal.Bar) {
	window, ok := e.windows[bar.Symbol]
	if !ok {
		e.log.Debug().Str("sym", bar.Symbol).Msg("bar for untracked symbol skipped")
		return
	}
	if bar.Close <= 0 {
		e.log.Warn().Str("sym", bar.Symbol).Float64("close", bar.Close).Msg("malformed bar skipped")
		return
	}

	metrics.BarsTotal.WithLabelValues(bar.Symbol).Inc()
	e.log.Debug().Str("sym", bar.Symbol).Float64("close", bar.Close).Time("ts", bar.Ts).Msg("bar")

	if !bar.Boundary() {
		return
	}

	snapshot := window.Update(bar.Close)
	if !window.Full() {
		return
	}

	r := strategy.Pearson(snapshot)
	intents := e.eval.Evaluate(bar.Symbol, bar.Close, r, e.books[bar.Symbol], e.settings[bar.Symbol], bar.Ts)
	for _, intent := range intents {
		e.handleIntent(ctx, intent)
	}
}

func (e *Engine) handleIntent(ctx context.Context, intent signal.Intent) {
	metrics.SignalsTotal.WithLabelValues(intent.Symbol, string(intent.Action)).Inc()
	e.log.Info().
		Str("sym", intent.Symbol).
		Str("action", string(intent.Action)).
		Float64("level", intent.Price).
		Float64("r", intent.R).
		Float64("p", intent.Probability).
		Msg(notifier.FormatSignal(intent))
	if err := e.journal.RecordSignal(intent); err != nil {
		e.log.Warn().Err(err).Msg("journal signal failed")
	}

	quantity, err := e.sizer.Quantity(intent.Price, intent.Probability)
	if err != nil {
		e.log.Warn().Err(err).Str("sym", intent.Symbol).Msg("sizing rejected signal")
		return
	}

	if _, err := e.exec.Submit(ctx, intent, quantity); err != nil {
		e.log.Error().Err(err).Str("sym", intent.Symbol).Msg("order submission failed")
	}
}
