// Package redisfeed announces committed changes over Redis pub/sub so other
// devices poll the change feed at once instead of waiting for the next tick.
// Messages carry only the highest change ID; losing one is harmless because
// polling continues.
package redisfeed

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"
)

// DefaultChannel is the pub/sub channel change IDs are published on.
const DefaultChannel = "tablesync:changes"

// Connect parses redisURL and checks the server answers.
func Connect(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	rdb := redis.NewClient(opt)
	if err = rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return rdb, nil
}

type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

// Publisher sends change IDs after a remote store commit.
type Publisher struct {
	rdb     publisher
	channel string
	timeout time.Duration
	logger  *slog.Logger
}

func NewPublisher(rdb publisher, channel string, timeout time.Duration, logger *slog.Logger) *Publisher {
	return &Publisher{
		rdb:     rdb,
		channel: channel,
		timeout: timeout,
		logger:  logger.With("component", "redis_publisher"),
	}
}

// Notify publishes lastChangeID. Its signature matches the remote store's
// after-commit hook; failures are logged and dropped.
func (p *Publisher) Notify(ctx context.Context, lastChangeID int64) {
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	if err := p.rdb.Publish(ctx, p.channel, strconv.FormatInt(lastChangeID, 10)).Err(); err != nil {
		p.logger.WarnContext(ctx, "Failed to publish change wake-up", "change_id", lastChangeID, "error", err)
	}
}

// Listener triggers a feed poll for every wake-up it receives.
type Listener struct {
	rdb     *redis.Client
	channel string
	wake    func(ctx context.Context, changeID int64)
	logger  *slog.Logger
}

func NewListener(rdb *redis.Client, channel string, wake func(ctx context.Context, changeID int64), logger *slog.Logger) *Listener {
	return &Listener{
		rdb:     rdb,
		channel: channel,
		wake:    wake,
		logger:  logger.With("component", "redis_listener"),
	}
}

// Run subscribes and blocks until ctx is cancelled or the subscription closes.
func (l *Listener) Run(ctx context.Context) error {
	sub := l.rdb.Subscribe(ctx, l.channel)
	defer func() { _ = sub.Close() }()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", l.channel, err)
	}
	l.logger.InfoContext(ctx, "Listening for change wake-ups", "channel", l.channel)

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			id, err := ParseChangeID(msg.Payload)
			if err != nil {
				l.logger.WarnContext(ctx, "Ignoring malformed wake-up", "payload", msg.Payload, "error", err)
				continue
			}
			l.wake(ctx, id)
		}
	}
}

func ParseChangeID(payload string) (int64, error) {
	id, err := strconv.ParseInt(payload, 10, 64)
	if err != nil {
		return 0, err
	}
	if id < 0 {
		return 0, fmt.Errorf("negative change id %d", id)
	}
	return id, nil
}
