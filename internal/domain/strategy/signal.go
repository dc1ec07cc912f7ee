package strategy

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// Action trade direction
type Action string

const (
	ActionBuy  Action = "buy"
	ActionSell Action = "sell"
)

// IsValid reports whether the action is buy or sell
func (a Action) IsValid() bool {
	return a == ActionBuy || a == ActionSell
}

// Sign returns +1 for buy and -1 for sell
func (a Action) Sign() float64 {
	if a == ActionSell {
		return -1
	}
	return 1
}

// TradeSignal immutable trade intent produced by a strategy or by the risk check.
// price is the requested price before slippage.
type TradeSignal struct {
	action    Action
	symbol    string
	quantity  float64
	price     float64
	timestamp time.Time
}

// NewTradeSignal creates a signal (factory method)
func NewTradeSignal(action Action, symbol string, quantity, price float64, timestamp time.Time) TradeSignal {
	return TradeSignal{
		action:    action,
		symbol:    symbol,
		quantity:  quantity,
		price:     price,
		timestamp: timestamp,
	}
}

// Getters
func (s TradeSignal) Action() Action       { return s.action }
func (s TradeSignal) Symbol() string       { return s.symbol }
func (s TradeSignal) Quantity() float64    { return s.quantity }
func (s TradeSignal) Price() float64       { return s.price }
func (s TradeSignal) Timestamp() time.Time { return s.timestamp }

// Validate checks the shape of the signal, not whether it may be executed
func (s TradeSignal) Validate() error {
	if !s.action.IsValid() {
		return fmt.Errorf("%w: action %q", ErrInvalidSignal, s.action)
	}
	if s.symbol == "" {
		return fmt.Errorf("%w: empty symbol", ErrInvalidSignal)
	}
	if !positive(s.quantity) {
		return fmt.Errorf("%w: quantity must be positive, got %v", ErrInvalidSignal, s.quantity)
	}
	if !positive(s.price) {
		return fmt.Errorf("%w: price must be positive, got %v", ErrInvalidSignal, s.price)
	}
	return nil
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// String human readable form used in logs
func (s TradeSignal) String() string {
	return fmt.Sprintf("%s %v %s @ %v", s.action, s.quantity, s.symbol, s.price)
}

// MarshalJSON custom serialization
func (s TradeSignal) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{
		"action":    string(s.action),
		"symbol":    s.symbol,
		"quantity":  s.quantity,
		"price":     s.price,
		"timestamp": s.timestamp.Format(time.RFC3339Nano),
	})
}
