package middleware

import (
	"net"
	"net/http"
	"spacebook/shared"
	"spacebook/shared/constant"
	"spacebook/transport/http/response"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	cacheKeyRateLimit = "limiter"

	bucketRead  = "read"
	bucketWrite = "write"

	unknownAgent = "unknown"
)

// RateLimit counts requests per client address and user agent in a fixed redis window. Reads and
// writes are counted apart so a burst of availability polling never eats into the budget for
// reservations. A failing cache never blocks traffic.
func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	limits := a.config.App.RateLimiter
	window := time.Duration(limits.WindowSeconds) * time.Second

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limits.Enable {
				next.ServeHTTP(w, r)

				return
			}

			bucket, budget := bucketRead, limits.MaxRequests
			if isWrite(r.Method) {
				bucket = bucketWrite
				if limits.MaxWrites > 0 {
					budget = limits.MaxWrites
				}
			}

			key := shared.BuildCacheKey(cacheKeyRateLimit, bucket, clientIP(r), userAgent(r))

			count, err := a.cache.Incr(r.Context(), key, window)
			if err != nil {
				log.Warn().Err(err).Str("key", key).Msg("rate limiter unavailable")
				next.ServeHTTP(w, r)

				return
			}

			if count > int64(budget) {
				response.WithRequestLimitExceeded(w, window)

				return
			}

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(budget))
			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.FormatInt(max(0, int64(budget)-count), 10))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(limits.WindowSeconds))

			next.ServeHTTP(w, r)
		})
	}
}

func isWrite(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions:
		return false
	default:
		return true
	}
}

func userAgent(r *http.Request) string {
	if ua := r.Header.Get(constant.RequestHeaderUserAgent); ua != "" {
		return ua
	}

	return unknownAgent
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then the socket peer.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get(constant.RequestHeaderForwardedFor); xff != "" {
		first, _, _ := strings.Cut(xff, ",")

		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get(constant.RequestHeaderRealIP); xri != "" {
		return strings.TrimSpace(xri)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}

	return r.RemoteAddr
}
