package strategy

import (
	"errors"
	"fmt"
)

var (
	// ErrMarketClosed execution attempted outside trading hours
	ErrMarketClosed = errors.New("market is closed")
	// ErrPositionLimitExceeded the trade would breach the configured max position
	ErrPositionLimitExceeded = errors.New("position size limit exceeded")
	// ErrUnknownSymbol the symbol is not part of the strategy config
	ErrUnknownSymbol = errors.New("symbol not configured")
	// ErrInvalidSignal malformed signal (action, quantity, price)
	ErrInvalidSignal = errors.New("invalid trade signal")
	// ErrNonPositiveFill the spread would push the execution price to zero or below
	ErrNonPositiveFill = errors.New("execution price not positive after spread")
	// ErrInvalidPnL the pnl calculator returned NaN or Inf
	ErrInvalidPnL = errors.New("pnl not finite")
	// ErrInvalidObservation malformed training observation
	ErrInvalidObservation = errors.New("invalid observation")
	// ErrInvalidConfig strategy configuration failed validation
	ErrInvalidConfig = errors.New("invalid strategy config")
)

// TradeError rejection of a signal by the execution pipeline.
// All rejections are recoverable: the signal is dropped and state is unchanged.
type TradeError struct {
	Signal TradeSignal
	Err    error // one of the sentinel errors above
	Detail string
}

func newTradeError(signal TradeSignal, err error, detail string) *TradeError {
	return &TradeError{Signal: signal, Err: err, Detail: detail}
}

func (e *TradeError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("%s: %v", e.Signal, e.Err)
	}
	return fmt.Sprintf("%s: %v (%s)", e.Signal, e.Err, e.Detail)
}

func (e *TradeError) Unwrap() error {
	return e.Err
}
