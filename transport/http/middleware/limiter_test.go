package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"concierge/config"
	otelMocks "concierge/infras/otel/mocks"
	cacheMocks "concierge/shared/cache/mocks"
	"concierge/shared/metrics"
	"concierge/transport/http/middleware"
)

func limited(t *testing.T, cache *cacheMocks.MockRedisCache) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.RateLimiter.Enable = true
	cfg.App.RateLimiter.MaxRequests = 2
	cfg.App.RateLimiter.WindowSeconds = 60

	app := middleware.NewAppMiddleware(otelMocks.NewOtel(), cfg, cache, metrics.New())

	return app.RateLimit()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
}

func TestRateLimit(t *testing.T) {
	tests := []struct {
		name      string
		count     int64
		code      int
		remaining string
	}{
		{name: "first request", count: 1, code: http.StatusNoContent, remaining: "1"},
		{name: "last allowed request", count: 2, code: http.StatusNoContent, remaining: "0"},
		{name: "over the limit", count: 3, code: http.StatusTooManyRequests, remaining: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			cache := cacheMocks.NewMockRedisCache(ctrl)

			cache.EXPECT().Increment(gomock.Any(), gomock.Any(), 60).Return(tt.count, nil)

			rec := httptest.NewRecorder()
			limited(t, cache).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/requests", nil))

			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
			assert.Equal(t, tt.remaining, rec.Header().Get("X-RateLimit-Remaining"))
		})
	}
}

func TestRateLimitKeysByClient(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := cacheMocks.NewMockRedisCache(ctrl)

	var keys []string

	cache.EXPECT().Increment(gomock.Any(), gomock.Any(), 60).DoAndReturn(func(_ any, key string, _ int) (int64, error) {
		keys = append(keys, key)

		return 1, nil
	}).Times(3)

	handler := limited(t, cache)

	first := httptest.NewRequest(http.MethodGet, "/v1/requests", nil)
	first.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")

	second := httptest.NewRequest(http.MethodGet, "/v1/requests", nil)
	second.Header.Set("X-Forwarded-For", "203.0.113.8")

	voice := httptest.NewRequest(http.MethodPost, "/v1/requests", nil)
	voice.Header.Set("X-API-Key", "voice-key")

	for _, req := range []*http.Request{first, second, voice} {
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Contains(t, keys[0], "203.0.113.7")
	assert.NotEqual(t, keys[0], keys[1])
	assert.NotContains(t, keys[2], "voice-key")
}

func TestRateLimitFailsOpen(t *testing.T) {
	ctrl := gomock.NewController(t)
	cache := cacheMocks.NewMockRedisCache(ctrl)

	cache.EXPECT().Increment(gomock.Any(), gomock.Any(), gomock.Any()).Return(int64(0), errors.New("redis down"))

	rec := httptest.NewRecorder()
	limited(t, cache).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/requests", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}
