package rabbitmq

import (
	"errors"
	"fmt"
	"net/url"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"

	"dizzycode.xyz/strategy-runtime/pkg/logger"
)

// Connection manages RabbitMQ connection and channel
type Connection struct {
	config   Config
	logger   logger.Logger
	conn     *amqp.Connection
	channel  *amqp.Channel
	declared map[string]bool // queues already declared on this channel
	mu       sync.RWMutex
	closed   bool // closed by Close
	dropped  bool // closed by the broker, Connect may be retried
}

// NewConnection creates a new RabbitMQ connection instance
func NewConnection(config Config, log logger.Logger) *Connection {
	return &Connection{
		config:   config,
		logger:   log,
		declared: make(map[string]bool),
	}
}

// Connect establishes connection to RabbitMQ and creates a channel
func (c *Connection) Connect() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.conn != nil && c.channel != nil {
		return nil
	}

	c.logger.Info("Connecting to RabbitMQ", map[string]any{
		"url": maskURL(c.config.URL),
	})

	conn, err := amqp.Dial(c.config.URL)
	if err != nil {
		return fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return fmt.Errorf("failed to create channel: %w", err)
	}

	c.conn = conn
	c.channel = channel
	c.closed = false
	c.dropped = false
	c.declared = make(map[string]bool)

	c.watchClose(conn.NotifyClose(make(chan *amqp.Error, 1)), "connection", channel)
	c.watchClose(channel.NotifyClose(make(chan *amqp.Error, 1)), "channel", channel)

	c.logger.Info("RabbitMQ connected successfully", nil)
	return nil
}

// watchClose releases the handles opened with channel once the broker closes
// the connection or channel, so channelFor fails and Connect can dial again.
func (c *Connection) watchClose(notify chan *amqp.Error, what string, channel *amqp.Channel) {
	go func() {
		closeErr, ok := <-notify

		c.mu.Lock()
		defer c.mu.Unlock()

		// Closed by us, or a newer Connect already replaced the handles
		if c.closed || c.channel != channel {
			return
		}

		fields := map[string]any{"what": what}
		if ok && closeErr != nil {
			fields["error"] = closeErr.Error()
		}
		c.logger.Error("RabbitMQ closed by broker", fields)

		if stale := c.conn; stale != nil && !stale.IsClosed() {
			go stale.Close()
		}
		c.conn = nil
		c.channel = nil
		c.dropped = true
		c.declared = make(map[string]bool)
	}()
}

// Dropped reports whether the broker closed a previously open connection
func (c *Connection) Dropped() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dropped
}

// channelFor returns the active channel, declaring queue once
func (c *Connection) channelFor(queue string, opts QueueOptions) (*amqp.Channel, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil, errors.New("connection closed")
	}
	if c.dropped {
		return nil, errors.New("connection dropped by broker, call Connect() again")
	}
	if c.channel == nil {
		return nil, errors.New("channel not initialized, call Connect() first")
	}

	if !c.declared[queue] {
		if _, err := c.channel.QueueDeclare(
			queue,
			opts.Durable,
			opts.AutoDelete,
			opts.Exclusive,
			opts.NoWait,
			opts.Args,
		); err != nil {
			return nil, fmt.Errorf("failed to declare queue %s: %w", queue, err)
		}
		c.declared[queue] = true
	}

	return c.channel, nil
}

// IsConnected checks if the connection and channel are active
func (c *Connection) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.conn != nil && c.channel != nil && !c.closed && !c.conn.IsClosed()
}

// Close closes the channel and connection
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	var errs []error

	if c.channel != nil {
		if err := c.channel.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close channel: %w", err))
		}
		c.channel = nil
	}

	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close connection: %w", err))
		}
		c.conn = nil
	}

	c.closed = true
	c.logger.Info("RabbitMQ connection closed", nil)

	return errors.Join(errs...)
}

// maskURL masks the password in the URL for logging
func maskURL(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "invalid-url"
	}

	if parsed.User != nil {
		if _, hasPassword := parsed.User.Password(); hasPassword {
			parsed.User = url.UserPassword(parsed.User.Username(), "***")
		}
	}

	return parsed.String()
}
