package strategy

import "time"

// PriceObservation one historical or live price of a symbol
type PriceObservation struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	Timestamp time.Time `json:"timestamp"`
}
