package strategy

import "time"

// ExecutedTrade record of a signal that passed validation and was committed to state
type ExecutedTrade struct {
	ID             string    `json:"id"`
	Action         Action    `json:"action"`
	Symbol         string    `json:"symbol"`
	Quantity       float64   `json:"quantity"`
	RequestedPrice float64   `json:"requestedPrice"` // signal price before slippage
	Spread         float64   `json:"spread"`
	Price          float64   `json:"price"`    // execution price after slippage
	PnL            float64   `json:"pnl"`      // contribution to cumulative PnL
	Position       float64   `json:"position"` // net position after the trade
	Timestamp      time.Time `json:"timestamp"`
}

// Notional execution price times quantity
func (t ExecutedTrade) Notional() float64 {
	return t.Price * t.Quantity
}
