package notifier

import (
	"strings"
	"testing"

	"pivotbot-go/internal/broker"
	"pivotbot-go/internal/signal"
)

func TestFormatOrder(t *testing.T) {
	msg := FormatOrder(broker.Order{
		Symbol:     "AAPL",
		Action:     signal.Buy,
		Quantity:   160,
		LimitPrice: 189.5,
	}, 193.29, 187.61)

	if !strings.Contains(msg, "LONG") || !strings.Contains(msg, "160") || !strings.Contains(msg, "AAPL") {
		t.Fatalf("unexpected order message: %s", msg)
	}

	msg = FormatOrder(broker.Order{Symbol: "TSLA", Action: signal.Sell, Quantity: 10, LimitPrice: 244.1}, 239.22, 246.54)
	if !strings.Contains(msg, "SHORT") {
		t.Fatalf("expected SHORT for sell order: %s", msg)
	}
}

func TestFormatSignal(t *testing.T) {
	msg := FormatSignal(signal.Intent{Symbol: "AAPL", Action: signal.Buy, Price: 189.5, Probability: 0.62, R: -0.91})
	if !strings.Contains(msg, "Going down") || !strings.Contains(msg, "AAPL") {
		t.Fatalf("unexpected signal message: %s", msg)
	}
	msg = FormatSignal(signal.Intent{Symbol: "TSLA", Action: signal.Sell, Price: 244.1, Probability: 0.53, R: 0.88})
	if !strings.Contains(msg, "Going up") {
		t.Fatalf("unexpected signal message: %s", msg)
	}
}
