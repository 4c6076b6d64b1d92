package changefeed_test

import (
	"concierge/config"
	"concierge/infras/otel/mocks"
	"concierge/shared/changefeed"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFeed(t *testing.T) changefeed.Feed {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{}
	cfg.ChangeFeed.ChannelPrefix = "changes"

	return changefeed.New(client, cfg, mocks.NewOtel())
}

func receive(t *testing.T, sub changefeed.Subscription) string {
	t.Helper()

	select {
	case table, ok := <-sub.Changes():
		require.True(t, ok, "subscription closed unexpectedly")
		return table
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change")
		return ""
	}
}

func TestPublishReachesSubscribedTablesOnly(t *testing.T) {
	feed := newFeed(t)
	ctx := context.Background()

	sub, err := feed.Subscribe(ctx, "requests", "bookings")
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, feed.Publish(ctx, "staff_users"))
	require.NoError(t, feed.Publish(ctx, "requests"))
	require.NoError(t, feed.Publish(ctx, "bookings"))

	assert.Equal(t, "requests", receive(t, sub))
	assert.Equal(t, "bookings", receive(t, sub))
}

func TestSubscribeConfirmsEveryTable(t *testing.T) {
	feed := newFeed(t)
	ctx := context.Background()

	sub, err := feed.Subscribe(ctx, "requests", "bookings", "staff_users")
	require.NoError(t, err)
	defer sub.Close()

	// the last channel must already be live when Subscribe returns
	require.NoError(t, feed.Publish(ctx, "staff_users"))

	assert.Equal(t, "staff_users", receive(t, sub))
}

func TestSubscribeRequiresTables(t *testing.T) {
	_, err := newFeed(t).Subscribe(context.Background())
	assert.ErrorIs(t, err, changefeed.ErrNoTables)
}

func TestCloseEndsChanges(t *testing.T) {
	feed := newFeed(t)

	sub, err := feed.Subscribe(context.Background(), "requests")
	require.NoError(t, err)

	require.NoError(t, sub.Close())
	require.NoError(t, sub.Close())

	select {
	case _, ok := <-sub.Changes():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("changes channel was not closed")
	}
}
