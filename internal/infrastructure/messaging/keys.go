package messaging

import "fmt"

// Redis key and channel layout shared with the market-data server

// LatestPriceKey string key holding the latest quote: price.latest.{symbol}
func LatestPriceKey(symbol string) string {
	return fmt.Sprintf("price.latest.%s", symbol)
}

// PriceHistoryKey list of quotes, oldest first: price.history.{symbol}
func PriceHistoryKey(symbol string) string {
	return fmt.Sprintf("price.history.%s", symbol)
}

// PriceChannel Pub/Sub channel of live quotes: market.price.{symbol}
func PriceChannel(symbol string) string {
	return fmt.Sprintf("market.price.%s", symbol)
}

// TradeChannel Pub/Sub channel of executed trades: strategy.trades.{symbol}
func TradeChannel(symbol string) string {
	return fmt.Sprintf("strategy.trades.%s", symbol)
}
