package middleware

import (
	"net/http"
	"salon/config"
	"salon/shared"
	"salon/shared/cache"
	"salon/shared/constant"
	"salon/transport/http/response"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	cacheKeyRateLimit = "limiter"
	unknownAgent      = "unknown"
	maxLocalClients   = 10_000
)

// localLimiters is the per-process token bucket used while Redis is unreachable.
// Buckets refill at MaxRequests per window with a burst of MaxRequests.
type localLimiters struct {
	mu      sync.Mutex
	every   rate.Limit
	burst   int
	buckets map[string]*rate.Limiter
}

func newLocalLimiters(settings config.RateLimiter) *localLimiters {
	burst := max(settings.MaxRequests, 1)
	window := time.Duration(max(settings.WindowSeconds, 1)) * time.Second

	return &localLimiters{
		every:   rate.Every(window / time.Duration(burst)),
		burst:   burst,
		buckets: map[string]*rate.Limiter{},
	}
}

func (l *localLimiters) allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	bucket, ok := l.buckets[key]
	if !ok {
		if len(l.buckets) >= maxLocalClients {
			clear(l.buckets)
		}

		bucket = rate.NewLimiter(l.every, l.burst)
		l.buckets[key] = bucket
	}

	return bucket.Allow()
}

// RateLimit counts requests per client in fixed windows stored in Redis. While Redis is
// unavailable each instance limits on its own with a token bucket.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	limiter := a.config.App.RateLimiter

	return func(next http.Handler) http.Handler {
		if !limiter.Enable {
			return next
		}

		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			ctx := request.Context()
			cacheKey := shared.BuildCacheKey(cacheKeyRateLimit, principalOrIP(a, request), a.getUA(request))

			var count int

			switch err := a.cache.Get(ctx, cacheKey, &count); {
			case cache.IsMiss(err):
				count = 1
			case err != nil:
				log.Warn().Err(err).Msg("shared rate limiter unavailable, limiting locally")

				if !a.fallback.allow(cacheKey) {
					writer.Header().Set(constant.RequestHeaderRetryAfter, strconv.Itoa(limiter.WindowSeconds))
					response.WithRequestLimitExceeded(writer)

					return
				}

				next.ServeHTTP(writer, request)

				return
			default:
				count++
			}

			header := writer.Header()
			header.Set(constant.RequestHeaderRateLimit, strconv.Itoa(limiter.MaxRequests))
			header.Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(max(0, limiter.MaxRequests-count)))
			header.Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limiter.WindowSeconds))

			if count > limiter.MaxRequests {
				header.Set(constant.RequestHeaderRetryAfter, strconv.Itoa(limiter.WindowSeconds))
				response.WithRequestLimitExceeded(writer)

				return
			}

			if err := a.cache.Save(ctx, cacheKey, count, limiter.WindowSeconds); err != nil {
				log.Warn().Err(err).Msg("failed to record request count")
			}

			next.ServeHTTP(writer, request)
		})
	}
}

func (a *appMiddleware) getUA(request *http.Request) string {
	if ua := request.UserAgent(); ua != "" {
		return ua
	}

	return unknownAgent
}

// getClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the socket address.
func (a *appMiddleware) getClientIP(request *http.Request) string {
	if xff := request.Header.Get(constant.RequestHeaderForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")

		return strings.TrimSpace(first)
	}

	if xri := request.Header.Get(constant.RequestHeaderRealIP); xri != "" {
		return strings.TrimSpace(xri)
	}

	return request.RemoteAddr
}
