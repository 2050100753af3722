// Package signal standardizes payloads shared between market data ingestion and strategy layers.
package signal

import "time"

// Action is the direction of a candidate trade.
type Action string

const (
	// Buy enters long at a support level.
	Buy Action = "BUY"
	// Sell enters short at a resistance level.
	Sell Action = "SELL"
)

// Bar is a single real-time price bar as delivered by the market data stream.
type Bar struct {
	Symbol string
	Close  float64
	Ts     time.Time
}

// Boundary reports whether the bar closes a 30-second candle.
func (b Bar) Boundary() bool {
	return b.Ts.Second()%30 == 0
}

// Intent is a candidate trade produced by pivot evaluation, consumed
// immediately by sizing and submission.
type Intent struct {
	Symbol      string
	Action      Action
	Price       float64 // the pivot level, used as the limit price
	Probability float64 // historical success probability of the setup
	R           float64 // trend correlation that triggered the setup
	Ts          time.Time
}
