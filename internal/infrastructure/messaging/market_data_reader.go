package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"dizzycode.xyz/strategy-runtime/internal/domain/strategy"
	"dizzycode.xyz/strategy-runtime/pkg/logger"
)

// ErrNoPrice no quote stored for the symbol yet
var ErrNoPrice = errors.New("no price available")

// PriceData quote payload, prices as strings like the exchange feeds
type PriceData struct {
	Last string `json:"last"`
	Ts   string `json:"ts,omitempty"` // Timestamp in milliseconds
}

// MarketDataReader 從 Redis 讀取市場數據
type MarketDataReader struct {
	client  *RedisClient
	logger  logger.Logger
	clock   func() time.Time
	mu      sync.Mutex
	untimed map[string]strategy.PriceObservation // last ts-less quote per symbol
}

// NewMarketDataReader 創建 MarketDataReader
func NewMarketDataReader(client *RedisClient, log logger.Logger) *MarketDataReader {
	return &MarketDataReader{
		client:  client,
		logger:  log,
		clock:   time.Now,
		untimed: make(map[string]strategy.PriceObservation),
	}
}

// GetLatestPrice reads price.latest.{symbol}.
// A quote without ts is stamped with the time it was first read; it keeps that
// stamp until the price changes, so polling it again does not yield a new observation.
func (r *MarketDataReader) GetLatestPrice(ctx context.Context, symbol string) (strategy.PriceObservation, error) {
	key := LatestPriceKey(symbol)

	val, err := r.client.Client().Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return strategy.PriceObservation{}, fmt.Errorf("%w (key: %s)", ErrNoPrice, key)
	}
	if err != nil {
		return strategy.PriceObservation{}, fmt.Errorf("failed to get price from Redis (key: %s): %w", key, err)
	}

	obs, err := ParsePrice(symbol, []byte(val), time.Time{})
	if err != nil {
		return strategy.PriceObservation{}, fmt.Errorf("failed to parse price (key: %s): %w", key, err)
	}
	if obs.Timestamp.IsZero() {
		obs = r.stampUntimed(obs)
	}

	return obs, nil
}

func (r *MarketDataReader) stampUntimed(obs strategy.PriceObservation) strategy.PriceObservation {
	r.mu.Lock()
	defer r.mu.Unlock()

	if prev, ok := r.untimed[obs.Symbol]; ok && prev.Price == obs.Price {
		return prev
	}
	obs.Timestamp = r.clock()
	r.untimed[obs.Symbol] = obs
	return obs
}

// GetPriceHistory reads the last limit entries of price.history.{symbol}, oldest first.
// History entries must carry ts.
func (r *MarketDataReader) GetPriceHistory(ctx context.Context, symbol string, limit int) ([]strategy.PriceObservation, error) {
	if limit <= 0 {
		return nil, nil
	}
	key := PriceHistoryKey(symbol)

	vals, err := r.client.Client().LRange(ctx, key, int64(-limit), -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get price history from Redis (key: %s): %w", key, err)
	}

	// 预分配长度，因为使用索引赋值
	history := make([]strategy.PriceObservation, len(vals))
	for i, val := range vals {
		obs, err := ParsePrice(symbol, []byte(val), time.Time{})
		if err != nil {
			return nil, fmt.Errorf("failed to parse price at index %d (key: %s): %w", i, key, err)
		}
		if obs.Timestamp.IsZero() {
			return nil, fmt.Errorf("price at index %d (key: %s) has no timestamp", i, key)
		}
		history[i] = obs
	}

	r.logger.Debug("Retrieved price history from Redis", map[string]any{
		"key":    key,
		"prices": len(history),
	})

	return history, nil
}

// ParsePrice decodes a PriceData payload. fallback stamps quotes without ts.
func ParsePrice(symbol string, payload []byte, fallback time.Time) (strategy.PriceObservation, error) {
	var data PriceData
	if err := json.Unmarshal(payload, &data); err != nil {
		return strategy.PriceObservation{}, fmt.Errorf("failed to parse price JSON: %w", err)
	}

	price, err := strconv.ParseFloat(data.Last, 64)
	if err != nil {
		return strategy.PriceObservation{}, fmt.Errorf("invalid price value %q: %w", data.Last, err)
	}
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return strategy.PriceObservation{}, fmt.Errorf("invalid price value %q: must be positive and finite", data.Last)
	}

	timestamp := fallback
	if data.Ts != "" {
		tsMs, err := strconv.ParseInt(data.Ts, 10, 64)
		if err != nil {
			return strategy.PriceObservation{}, fmt.Errorf("invalid timestamp %q: %w", data.Ts, err)
		}
		timestamp = time.UnixMilli(tsMs)
	}

	return strategy.PriceObservation{Symbol: symbol, Price: price, Timestamp: timestamp}, nil
}
