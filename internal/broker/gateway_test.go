package broker

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"pivotbot-go/internal/signal"
)

func newTestGateway(t *testing.T, handler http.Handler) (*Gateway, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	g := NewGateway(srv.URL, "ws://unused", "SMART", "USD", zerolog.Nop())
	return g, srv
}

func TestGatewayQualify(t *testing.T) {
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/contracts/qualify" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Symbols  []string `json:"symbols"`
			Exchange string   `json:"exchange"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body.Exchange != "SMART" {
			t.Errorf("unexpected exchange %s", body.Exchange)
		}
		out := make([]map[string]string, len(body.Symbols))
		for i, sym := range body.Symbols {
			out[i] = map[string]string{"symbol": sym, "exchange": "SMART", "currency": "USD"}
		}
		_ = json.NewEncoder(w).Encode(out)
	}))

	contracts, err := g.Qualify(context.Background(), []string{"AAPL", "TSLA"})
	if err != nil {
		t.Fatalf("Qualify returned error: %v", err)
	}
	if len(contracts) != 2 || contracts[0].Symbol != "AAPL" {
		t.Fatalf("unexpected contracts: %+v", contracts)
	}
}

func TestGatewayHistoricalCloses(t *testing.T) {
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/history" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("symbol") != "AAPL" || r.URL.Query().Get("bar_secs") != "30" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode(map[string][]float64{"closes": {1, 2, 3}})
	}))

	closes, err := g.HistoricalCloses(context.Background(), "AAPL", time.Hour, 30*time.Second)
	if err != nil {
		t.Fatalf("HistoricalCloses returned error: %v", err)
	}
	if len(closes) != 3 || closes[2] != 3 {
		t.Fatalf("unexpected closes: %+v", closes)
	}
}

func TestGatewayRecentFills(t *testing.T) {
	now := time.Now()
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/fills" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.URL.Query().Get("action") != "BUY" || r.URL.Query().Get("within_secs") != "120" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		_ = json.NewEncoder(w).Encode([]map[string]interface{}{
			{"symbol": "AAPL", "action": "BUY", "price": 100.0, "qty": 10, "time_ms": now.UnixMilli()},
		})
	}))

	fills, err := g.RecentFills(context.Background(), "AAPL", signal.Buy, 100, 120*time.Second)
	if err != nil {
		t.Fatalf("RecentFills returned error: %v", err)
	}
	if len(fills) != 1 || fills[0].Action != signal.Buy || fills[0].Qty != 10 {
		t.Fatalf("unexpected fills: %+v", fills)
	}
}

func TestGatewayPlaceBracket(t *testing.T) {
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/orders/bracket" || r.Method != http.MethodPost {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body map[string]interface{}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if body["limit_price"] != 100.0 || body["take_profit"] != 102.0 || body["stop_loss"] != 99.0 {
			t.Errorf("unexpected bracket legs: %+v", body)
		}
		if body["good_till_date"] == "" {
			t.Errorf("expected a good_till_date")
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"order_id": "42"})
	}))

	order, err := g.PlaceBracket(context.Background(), BracketSpec{
		ClientID:     "cid",
		Symbol:       "AAPL",
		Action:       signal.Buy,
		Quantity:     10,
		LimitPrice:   100,
		TakeProfit:   102,
		StopLoss:     99,
		GoodTillDate: time.Now().Add(90 * time.Second),
	})
	if err != nil {
		t.Fatalf("PlaceBracket returned error: %v", err)
	}
	if order.ID != "42" {
		t.Fatalf("unexpected order id %s", order.ID)
	}
}

func TestGatewaySurfacesHTTPErrors(t *testing.T) {
	g, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rejected", http.StatusBadGateway)
	}))

	if _, err := g.Qualify(context.Background(), []string{"AAPL"}); err == nil {
		t.Fatalf("expected error from 502 response")
	}
}
