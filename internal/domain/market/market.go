package market

import (
	"fmt"
	"time"
	_ "time/tzdata" // calendars must not depend on host zoneinfo
)

// Market identifies the venue family a strategy trades on
type Market string

const (
	Stocks Market = "stocks"
	Crypto Market = "crypto"
	Forex  Market = "forex"
)

// ParseMarket converts a config string to Market
func ParseMarket(s string) (Market, error) {
	switch m := Market(s); m {
	case Stocks, Crypto, Forex:
		return m, nil
	default:
		return "", fmt.Errorf("unknown market %q", s)
	}
}

// Calendar answers whether a symbol's market is open at an instant.
// Implementations must be pure and non-blocking.
type Calendar interface {
	IsOpen(symbol string, at time.Time) bool
}

// ForMarket returns the default calendar for a market
func ForMarket(m Market) (Calendar, error) {
	switch m {
	case Stocks:
		return NewStocksCalendar(), nil
	case Crypto:
		return CryptoCalendar{}, nil
	case Forex:
		return NewForexCalendar(), nil
	default:
		return nil, fmt.Errorf("no calendar for market %q", m)
	}
}

func newYork() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		// unreachable with embedded tzdata
		panic(err)
	}
	return loc
}
