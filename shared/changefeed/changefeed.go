// Package changefeed tells connected dashboards that a table changed.
// Messages carry no row data; subscribers refetch what they display.
package changefeed

//go:generate go run go.uber.org/mock/mockgen -source=./changefeed.go -destination=./mocks/changefeed_mock.go -package=mocks

import (
	"concierge/config"
	"concierge/infras/otel"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	otelScopeName        = "changefeed"
	defaultChannelPrefix = "changes"

	// EventChanged is the only signal the feed emits.
	EventChanged = "changed"
)

var ErrNoTables = errors.New("at least one table is required")

type Feed interface {
	Publish(ctx context.Context, table string) error
	Subscribe(ctx context.Context, tables ...string) (Subscription, error)
}

// Subscription delivers the names of changed tables until closed.
type Subscription interface {
	Changes() <-chan string
	Close() error
}

type redisFeed struct {
	client *redis.Client
	otel   otel.Otel
	prefix string
}

func New(client *redis.Client, cfg *config.Config, otl otel.Otel) Feed {
	prefix := cfg.ChangeFeed.ChannelPrefix
	if prefix == "" {
		prefix = defaultChannelPrefix
	}

	return &redisFeed{
		client: client,
		otel:   otl,
		prefix: prefix,
	}
}

func (f *redisFeed) channel(table string) string {
	return f.prefix + ":" + table
}

func (f *redisFeed) Publish(ctx context.Context, table string) error {
	ctx, scope := f.otel.NewScope(ctx, otelScopeName, otelScopeName+".Publish")
	defer scope.End()

	scope.SetAttribute("changefeed.table", table)

	if err := f.client.Publish(ctx, f.channel(table), EventChanged).Err(); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("table", table).Msg("failed to publish change")

		return fmt.Errorf("failed to publish change for %s: %w", table, err)
	}

	return nil
}

func (f *redisFeed) Subscribe(ctx context.Context, tables ...string) (Subscription, error) {
	ctx, scope := f.otel.NewScope(ctx, otelScopeName, otelScopeName+".Subscribe")
	defer scope.End()

	if len(tables) == 0 {
		return nil, ErrNoTables
	}

	scope.SetAttribute("changefeed.tables", tables)

	channels := make([]string, len(tables))
	for i, table := range tables {
		channels[i] = f.channel(table)
	}

	pubsub := f.client.Subscribe(ctx, channels...)

	// Redis confirms each channel separately; wait for all of them so no
	// publish after return is missed.
	for range channels {
		if _, err := pubsub.Receive(ctx); err != nil {
			_ = pubsub.Close()
			scope.TraceError(err)

			return nil, fmt.Errorf("failed to subscribe to changes: %w", err)
		}
	}

	sub := &subscription{
		pubsub:  pubsub,
		changes: make(chan string),
		done:    make(chan struct{}),
	}

	go sub.forward(f.prefix + ":")

	return sub, nil
}

type subscription struct {
	pubsub  *redis.PubSub
	changes chan string
	done    chan struct{}
	once    sync.Once
}

func (s *subscription) forward(prefix string) {
	defer close(s.changes)

	for msg := range s.pubsub.Channel() {
		table := strings.TrimPrefix(msg.Channel, prefix)

		select {
		case s.changes <- table:
		case <-s.done:
			return
		}
	}
}

func (s *subscription) Changes() <-chan string {
	return s.changes
}

func (s *subscription) Close() error {
	var err error

	s.once.Do(func() {
		close(s.done)
		err = s.pubsub.Close()
	})

	if err != nil {
		return fmt.Errorf("failed to close subscription: %w", err)
	}

	return nil
}
