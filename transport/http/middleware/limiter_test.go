package middleware_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"salon/config"
	"salon/infras/otel/mocks"
	"salon/shared/cache"
	cacheMocks "salon/shared/cache/mocks"
	"salon/shared/constant"
	"salon/transport/http/middleware"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func limited(t *testing.T, enable bool, maxRequests int) (http.Handler, *cacheMocks.MockRedisCache) {
	t.Helper()

	store := cacheMocks.NewMockRedisCache(gomock.NewController(t))

	cfg := &config.Config{}
	cfg.App.RateLimiter = config.RateLimiter{Enable: enable, MaxRequests: maxRequests, WindowSeconds: 60}

	ok := http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
		writer.WriteHeader(http.StatusOK)
	})

	return middleware.NewAppMiddleware(mocks.NewOtel(), cfg, store).RateLimit()(ok), store
}

func hit(handler http.Handler) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodGet, "/v1/services", nil)
	request.Header.Set(constant.RequestHeaderForwardedFor, "203.0.113.7, 10.0.0.1")
	request.Header.Set("User-Agent", "curl/8")

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)

	return recorder
}

func TestRateLimitCountsInRedis(t *testing.T) {
	handler, store := limited(t, true, 2)
	key := "limiter:ip:203.0.113.7:curl/8"

	store.EXPECT().Get(gomock.Any(), key, gomock.Any()).Return(cache.Nil)
	store.EXPECT().Save(gomock.Any(), key, 1, 60).Return(nil)

	first := hit(handler)
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get(constant.RequestHeaderRateLimitRemaining))

	store.EXPECT().Get(gomock.Any(), key, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, value any) error {
			*value.(*int) = 2

			return nil
		})

	blocked := hit(handler)
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "60", blocked.Header().Get(constant.RequestHeaderRetryAfter))
	assert.Equal(t, "0", blocked.Header().Get(constant.RequestHeaderRateLimitRemaining))
}

func TestRateLimitFallsBackToLocalBuckets(t *testing.T) {
	handler, store := limited(t, true, 2)

	store.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("connection refused")).Times(3)

	assert.Equal(t, http.StatusOK, hit(handler).Code)
	assert.Equal(t, http.StatusOK, hit(handler).Code)

	blocked := hit(handler)
	assert.Equal(t, http.StatusTooManyRequests, blocked.Code)
	assert.Equal(t, "60", blocked.Header().Get(constant.RequestHeaderRetryAfter))
}

func TestRateLimitDisabled(t *testing.T) {
	handler, _ := limited(t, false, 1)

	for range 3 {
		assert.Equal(t, http.StatusOK, hit(handler).Code)
	}
}
