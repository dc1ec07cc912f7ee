package strategy

import "time"

// Strategy lifecycle contract implemented by every concrete strategy.
// T is the strategy-specific shape of historical training data.
//
// Calls on one instance must be serialized by the caller: Initialize once,
// then any interleaving of Train and Predict.
type Strategy[T any] interface {
	// Name strategy identifier used in logs and the status API
	Name() string

	// Initialize primes internal state; calling it again resets that state
	Initialize() error

	// Predict returns the ordered signals for the evaluation instant.
	// An empty result means nothing to do.
	Predict(timestamp time.Time) ([]TradeSignal, error)

	// Train ingests a batch of historical observations
	Train(historicalData T) error
}
