package notifier

import (
	"fmt"

	"pivotbot-go/internal/broker"
	"pivotbot-go/internal/signal"
)

// FormatOrder renders a placed bracket for the notification channel.
func FormatOrder(order broker.Order, takeProfit, stopLoss float64) string {
	direction := "LONG"
	if order.Action == signal.Sell {
		direction = "SHORT"
	}
	return fmt.Sprintf(
		"Placed %s for %d shares of %s at $%.2f\nTP $%.2f / SL $%.2f",
		direction, order.Quantity, order.Symbol, order.LimitPrice, takeProfit, stopLoss,
	)
}

// FormatSignal renders a detected pivot setup.
func FormatSignal(intent signal.Intent) string {
	trend := "Going up"
	if intent.Action == signal.Buy {
		trend = "Going down"
	}
	return fmt.Sprintf(
		"%s - %s - %.2f - r=%.2f (p=%.0f%%)",
		trend, intent.Symbol, intent.Price, intent.R, intent.Probability*100,
	)
}
