package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"dizzycode.xyz/strategy-runtime/internal/domain/strategy"
	"dizzycode.xyz/strategy-runtime/pkg/logger"
)

// RedisTradePublisher implements the TradePublisher port from application layer
type RedisTradePublisher struct {
	client *RedisClient
	logger logger.Logger
}

// NewRedisTradePublisher creates a new RedisTradePublisher
func NewRedisTradePublisher(client *RedisClient, log logger.Logger) *RedisTradePublisher {
	return &RedisTradePublisher{
		client: client,
		logger: log,
	}
}

// Publish implements application.TradePublisher interface
// Publishes the trade to Redis Pub/Sub channel: strategy.trades.{symbol}
func (p *RedisTradePublisher) Publish(ctx context.Context, trade strategy.ExecutedTrade) error {
	channel := TradeChannel(trade.Symbol)

	data, err := json.Marshal(trade)
	if err != nil {
		return fmt.Errorf("failed to marshal trade: %w", err)
	}

	if err := p.client.Client().Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("failed to publish trade to channel %s: %w", channel, err)
	}

	p.logger.Info("Trade published", map[string]any{
		"channel": channel,
		"tradeId": trade.ID,
		"action":  trade.Action,
		"price":   trade.Price,
	})

	return nil
}
