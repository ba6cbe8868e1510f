package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// sessionKey holds the single process-wide username. Set by login,
// cleared by logout, read by order history.
const sessionKey = "session:username"

// ErrNoSession is returned when no username has been set.
var ErrNoSession = errors.New("no session username set")

// Store is the injectable session-context object: one current
// username, get/set/clear. Views read it instead of threading the
// identity through every call.
type Store interface {
	Username(ctx context.Context) (string, error)
	SetUsername(ctx context.Context, username string) error
	Clear(ctx context.Context) error
}

// Client is the redis-backed Store, plus the per-IP rate limiter used
// on the signup route.
type Client struct {
	rdb *redis.Client
}

func NewClient(addr string) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}

	return &Client{rdb: rdb}, nil
}

func (c *Client) Username(ctx context.Context) (string, error) {
	val, err := c.rdb.Get(ctx, sessionKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNoSession
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (c *Client) SetUsername(ctx context.Context, username string) error {
	return c.rdb.Set(ctx, sessionKey, username, 0).Err()
}

func (c *Client) Clear(ctx context.Context) error {
	return c.rdb.Del(ctx, sessionKey).Err()
}

// IsRateLimited counts requests per client IP in a rolling window.
// Errors fail open: a broken limiter must not take signup down.
func (c *Client) IsRateLimited(ctx context.Context, ip string) bool {
	key := fmt.Sprintf("ratelimit:%s", ip)
	limitWindow := 60 * time.Second
	maxRequests := 10

	pipe := c.rdb.Pipeline()
	incr := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, limitWindow)
	_, err := pipe.Exec(ctx)

	if err != nil {
		return false
	}

	return incr.Val() > int64(maxRequests)
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
