package broker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"pivotbot-go/internal/signal"
)

// Gateway talks to a local brokerage gateway sidecar that fronts the actual
// trading session: REST for qualification, history, fills, and order
// submission, and a websocket endpoint for the live bar stream.
type Gateway struct {
	base      string
	streamURL string
	exchange  string
	currency  string
	hc        *http.Client
	log       zerolog.Logger
}

// NewGateway builds a client for the sidecar at base (REST) and streamURL
// (websocket bars).
func NewGateway(base, streamURL, exchange, currency string, log zerolog.Logger) *Gateway {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = "http://127.0.0.1:8787"
	}
	if streamURL == "" {
		streamURL = "ws://127.0.0.1:8787/bars"
	}
	return &Gateway{
		base:      base,
		streamURL: streamURL,
		exchange:  exchange,
		currency:  currency,
		hc:        &http.Client{Timeout: 15 * time.Second},
		log:       log,
	}
}

type gatewayContract struct {
	Symbol   string `json:"symbol"`
	Exchange string `json:"exchange"`
	Currency string `json:"currency"`
}

// Qualify resolves symbols into tradable contracts via the sidecar.
func (g *Gateway) Qualify(ctx context.Context, symbols []string) ([]Contract, error) {
	body := map[string]interface{}{
		"symbols":  symbols,
		"exchange": g.exchange,
		"currency": g.currency,
	}
	var out []gatewayContract
	if err := g.post(ctx, "/contracts/qualify", body, &out); err != nil {
		return nil, fmt.Errorf("qualify: %w", err)
	}
	contracts := make([]Contract, len(out))
	for i, c := range out {
		contracts[i] = Contract{Symbol: c.Symbol, Exchange: c.Exchange, Currency: c.Currency}
	}
	return contracts, nil
}

// HistoricalCloses fetches the seed window for one symbol.
func (g *Gateway) HistoricalCloses(ctx context.Context, symbol string, lookback, barSize time.Duration) ([]float64, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("lookback_secs", fmt.Sprintf("%d", int(lookback.Seconds())))
	q.Set("bar_secs", fmt.Sprintf("%d", int(barSize.Seconds())))
	var out struct {
		Closes []float64 `json:"closes"`
	}
	if err := g.get(ctx, "/history?"+q.Encode(), &out); err != nil {
		return nil, fmt.Errorf("history %s: %w", symbol, err)
	}
	return out.Closes, nil
}

type gatewayFill struct {
	Symbol string  `json:"symbol"`
	Action string  `json:"action"`
	Price  float64 `json:"price"`
	Qty    int     `json:"qty"`
	TimeMs int64   `json:"time_ms"`
}

// RecentFills queries the sidecar's trade history for fresh matching fills.
func (g *Gateway) RecentFills(ctx context.Context, symbol string, action signal.Action, price float64, within time.Duration) ([]Fill, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("action", string(action))
	q.Set("price", fmt.Sprintf("%.2f", price))
	q.Set("within_secs", fmt.Sprintf("%d", int(within.Seconds())))
	var out []gatewayFill
	if err := g.get(ctx, "/fills?"+q.Encode(), &out); err != nil {
		return nil, fmt.Errorf("fills %s: %w", symbol, err)
	}
	fills := make([]Fill, len(out))
	for i, f := range out {
		fills[i] = Fill{
			Symbol: f.Symbol,
			Action: signal.Action(f.Action),
			Price:  f.Price,
			Qty:    f.Qty,
			Time:   time.UnixMilli(f.TimeMs),
		}
	}
	return fills, nil
}

// PlaceBracket submits the three linked legs through the sidecar.
func (g *Gateway) PlaceBracket(ctx context.Context, spec BracketSpec) (*Order, error) {
	body := map[string]interface{}{
		"client_order_id": spec.ClientID,
		"symbol":          spec.Symbol,
		"action":          string(spec.Action),
		"quantity":        spec.Quantity,
		"limit_price":     spec.LimitPrice,
		"take_profit":     spec.TakeProfit,
		"stop_loss":       spec.StopLoss,
		"good_till_date":  spec.GoodTillDate.UTC().Format("20060102 15:04:05"),
	}
	var out struct {
		OrderID string `json:"order_id"`
	}
	if err := g.post(ctx, "/orders/bracket", body, &out); err != nil {
		return nil, fmt.Errorf("place bracket %s: %w", spec.Symbol, err)
	}
	return &Order{
		ID:          out.OrderID,
		Symbol:      spec.Symbol,
		Action:      spec.Action,
		Quantity:    spec.Quantity,
		LimitPrice:  spec.LimitPrice,
		SubmittedAt: time.Now(),
	}, nil
}

type gatewayBar struct {
	Symbol string  `json:"symbol"`
	Close  float64 `json:"close"`
	TimeMs int64   `json:"time_ms"`
}

// StreamBars consumes the sidecar's websocket bar stream, reconnecting with
// backoff until the context is canceled.
func (g *Gateway) StreamBars(ctx context.Context, symbols []string, out chan<- signal.Bar) error {
	if len(symbols) == 0 {
		return fmt.Errorf("bar stream requires at least one symbol")
	}

	q := url.Values{}
	q.Set("symbols", strings.Join(symbols, ","))
	streamURL := g.streamURL + "?" + q.Encode()

	backoff := time.Second
	const maxBackoff = 30 * time.Second

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := g.consumeStream(ctx, streamURL, out); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			g.log.Warn().Err(err).Msg("bar stream disconnected, retrying")
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff = time.Duration(math.Min(float64(maxBackoff), float64(backoff)*1.8))
			continue
		}
		return nil
	}
}

func (g *Gateway) consumeStream(ctx context.Context, streamURL string, out chan<- signal.Bar) error {
	dialer := websocket.Dialer{HandshakeTimeout: 10 * time.Second}
	conn, _, err := dialer.DialContext(ctx, streamURL, nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	g.log.Info().Str("url", g.streamURL).Msg("connected bar stream")

	conn.SetReadLimit(1 << 20)
	conn.SetReadDeadline(time.Now().Add(30 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		return nil
	})

	pingCtx, pingCancel := context.WithCancel(ctx)
	defer pingCancel()
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					g.log.Warn().Err(err).Msg("bar stream ping failed")
					return
				}
			case <-pingCtx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		_, message, err := conn.ReadMessage()
		if err != nil {
			return err
		}

		var raw gatewayBar
		if err := json.Unmarshal(message, &raw); err != nil {
			g.log.Warn().Err(err).Msg("failed to decode bar message")
			continue
		}
		if raw.Symbol == "" || raw.Close <= 0 {
			g.log.Warn().Str("msg", string(message)).Msg("malformed bar skipped")
			continue
		}

		bar := signal.Bar{Symbol: raw.Symbol, Close: raw.Close, Ts: time.UnixMilli(raw.TimeMs)}
		select {
		case out <- bar:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Close asks the sidecar to tear the session down and drops idle connections.
func (g *Gateway) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := g.post(ctx, "/session/disconnect", map[string]interface{}{}, nil)
	g.hc.CloseIdleConnections()
	return err
}

func (g *Gateway) get(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.base+path, nil)
	if err != nil {
		return err
	}
	return g.do(req, out)
}

func (g *Gateway) post(ctx context.Context, path string, body, out interface{}) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.base+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return g.do(req, out)
}

func (g *Gateway) do(req *http.Request, out interface{}) error {
	res, err := g.hc.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode >= 300 {
		b, _ := io.ReadAll(res.Body)
		return fmt.Errorf("gateway %d: %s", res.StatusCode, string(b))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(res.Body).Decode(out)
}
