// Package redis is the gateway's Redis access layer. Route documents can be
// stored under a key and reloads announced on a pub/sub channel.
package redis

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"service-gateway/internal/common/errors"
)

// ErrKeyNotFound is returned by Get for a missing key
var ErrKeyNotFound = stderrors.New("redis key not found")

// Config holds connection settings
type Config struct {
	Address     string        `json:"address"`
	Password    string        `json:"password"`
	DB          int           `json:"db"`
	PoolSize    int           `json:"pool_size"`
	DialTimeout time.Duration `json:"dial_timeout"`
}

// Client wraps a go-redis client
type Client struct {
	rdb    *redis.Client
	config Config
}

// NewClient connects and pings the server
func NewClient(ctx context.Context, config Config) (*Client, error) {
	if config.Address == "" {
		config.Address = "localhost:6379"
	}
	if config.PoolSize <= 0 {
		config.PoolSize = 10
	}
	if config.DialTimeout <= 0 {
		config.DialTimeout = 5 * time.Second
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:        config.Address,
		Password:    config.Password,
		DB:          config.DB,
		PoolSize:    config.PoolSize,
		DialTimeout: config.DialTimeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, config.DialTimeout)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, errors.ConnectionError(fmt.Sprintf("failed to connect to Redis at %s", config.Address), err)
	}

	return &Client{rdb: rdb, config: config}, nil
}

// Config returns the effective connection settings
func (c *Client) Config() Config {
	return c.config
}

// Close closes the connection pool
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Health pings the server
func (c *Client) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Get returns the raw value stored at key
func (c *Client) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if stderrors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	if err != nil {
		return nil, errors.ConnectionError("redis GET failed", err).WithContext("key", key)
	}
	return data, nil
}

// Set stores value at key without expiry
func (c *Client) Set(ctx context.Context, key string, value []byte) error {
	if err := c.rdb.Set(ctx, key, value, 0).Err(); err != nil {
		return errors.ConnectionError("redis SET failed", err).WithContext("key", key)
	}
	return nil
}

// Publish sends message on channel
func (c *Client) Publish(ctx context.Context, channel, message string) error {
	if err := c.rdb.Publish(ctx, channel, message).Err(); err != nil {
		return errors.ConnectionError("redis PUBLISH failed", err).WithContext("channel", channel)
	}
	return nil
}

// Subscribe listens on channel and returns the subscription once the server
// has confirmed it. The caller must close it.
func (c *Client) Subscribe(ctx context.Context, channel string) (*redis.PubSub, error) {
	sub := c.rdb.Subscribe(ctx, channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, errors.ConnectionError("redis SUBSCRIBE failed", err).WithContext("channel", channel)
	}
	return sub, nil
}
