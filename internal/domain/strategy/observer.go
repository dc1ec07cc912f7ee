package strategy

import "dizzycode.xyz/strategy-runtime/pkg/logger"

// Observer receives best-effort notifications from the execution pipeline.
// It never influences control flow: a rejected trade is rejected whether or
// not anyone listens.
type Observer interface {
	OnTrade(trade ExecutedTrade)
	OnError(err error)
}

// NopObserver discards every notification
type NopObserver struct{}

func (NopObserver) OnTrade(ExecutedTrade) {}
func (NopObserver) OnError(error) {}

// LogObserver reports notifications to the diagnostic log
type LogObserver struct {
	logger logger.Logger
}

// NewLogObserver creates the default observer
func NewLogObserver(log logger.Logger) *LogObserver {
	return &LogObserver{logger: log}
}

func (o *LogObserver) OnTrade(trade ExecutedTrade) {
	o.logger.Info("Trade executed", map[string]any{
		"id":             trade.ID,
		"action":         trade.Action,
		"symbol":         trade.Symbol,
		"quantity":       trade.Quantity,
		"requestedPrice": trade.RequestedPrice,
		"price":          trade.Price,
		"pnl":            trade.PnL,
		"position":       trade.Position,
	})
}

func (o *LogObserver) OnError(err error) {
	o.logger.Warn("Strategy error", map[string]any{"error": err})
}

// ObserverFuncs adapts plain functions to Observer; nil fields are skipped
type ObserverFuncs struct {
	Trade func(ExecutedTrade)
	Error func(error)
}

func (f ObserverFuncs) OnTrade(trade ExecutedTrade) {
	if f.Trade != nil {
		f.Trade(trade)
	}
}

func (f ObserverFuncs) OnError(err error) {
	if f.Error != nil {
		f.Error(err)
	}
}
