package strategy

import (
	"time"

	"pivotbot-go/internal/pivots"
	"pivotbot-go/internal/signal"
)

// PivotEvaluator matches the current price against a symbol's pivot levels
// and the window trend score to produce candidate trade intents.
type PivotEvaluator struct {
	Alpha          float64 // fractional proximity tolerance around a level
	MinCorrelation float64 // minimum |r| required to call a trend
}

// Evaluate checks every pivot of the symbol and returns one intent per pivot
// whose setup and probability gate both pass. Deduplication across pivots is
// the submitter's job, not handled here.
func (e PivotEvaluator) Evaluate(symbol string, price, r float64, book pivots.Book, settings pivots.Settings, ts time.Time) []signal.Intent {
	var intents []signal.Intent
	for _, pivot := range book {
		lower := pivot.Level * (1 - e.Alpha)
		upper := pivot.Level * (1 + e.Alpha)
		if price < lower || price > upper {
			continue
		}

		// Price falling into the level from above: buy the support.
		if price > lower && r < -e.MinCorrelation && pivot.SupportProb > settings.MinProbability {
			intents = append(intents, signal.Intent{
				Symbol:      symbol,
				Action:      signal.Buy,
				Price:       pivot.Level,
				Probability: pivot.SupportProb,
				R:           r,
				Ts:          ts,
			})
		}

		// Price rising into the level from below: sell the resistance.
		if price < upper && r > e.MinCorrelation && pivot.ResistanceProb > settings.MinProbability {
			intents = append(intents, signal.Intent{
				Symbol:      symbol,
				Action:      signal.Sell,
				Price:       pivot.Level,
				Probability: pivot.ResistanceProb,
				R:           r,
				Ts:          ts,
			})
		}
	}
	return intents
}
