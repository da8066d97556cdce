package middleware

import (
	"net/http"
	"stylebook/shared"
	"stylebook/shared/constant"
	"stylebook/shared/failure"
	"stylebook/transport/http/response"
	"strconv"
	"strings"
)

const (
	cacheKeyRateLimit   = "limiter"
	cacheKeyBookingRate = "limiter:booking"

	minuteWindowSeconds = 60
	hourWindowSeconds   = 3600
)

func (a *appMiddleware) RateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !a.config.App.RateLimiter.Enable {
				next.ServeHTTP(w, r)

				return
			}

			maxReqs := a.config.App.RateLimiter.MaxRequests
			windowSecs := a.config.App.RateLimiter.WindowSeconds

			userAgent := a.getUA(r)
			clientIP := a.getClientIP(r)
			cacheKey := shared.BuildCacheKey(cacheKeyRateLimit, clientIP, userAgent)

			count, allowed := a.countRequest(r, cacheKey, windowSecs)
			if !allowed {
				next.ServeHTTP(w, r)

				return
			}

			if count > maxReqs {
				response.WithRequestLimitExceeded(w)

				return
			}

			w.Header().Set(constant.RequestHeaderRateLimit, strconv.Itoa(maxReqs))
			w.Header().Set(constant.RequestHeaderRateLimitRemaining, strconv.Itoa(max(0, maxReqs-count)))
			w.Header().Set(constant.RequestHeaderRateLimitWindow, strconv.Itoa(windowSecs))

			next.ServeHTTP(w, r)
		})
	}
}

// BookingRateLimit caps booking attempts per client IP over two windows, a
// short one against bursts and an hourly one against slow drips. Intended
// for the public create-appointment endpoint only, the availability polling
// endpoints stay unthrottled.
func (a *appMiddleware) BookingRateLimit() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := a.getClientIP(r)

			minuteKey := shared.BuildCacheKey(cacheKeyBookingRate, "minute", clientIP)
			hourKey := shared.BuildCacheKey(cacheKeyBookingRate, "hour", clientIP)

			minuteCount, ok := a.countRequest(r, minuteKey, minuteWindowSeconds)
			if ok && minuteCount > a.config.Booking.MaxPerMinute {
				response.WithError(w, failure.TooManyRequests("too many booking attempts, please wait a minute and try again"))

				return
			}

			hourCount, ok := a.countRequest(r, hourKey, hourWindowSeconds)
			if ok && hourCount > a.config.Booking.MaxPerHour {
				response.WithError(w, failure.TooManyRequests("booking limit reached for now, please try again later"))

				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// countRequest bumps the counter under key and reports the new total. The
// window is fixed: the expiry is set when the counter is created and never
// refreshed, so steady attempts cannot keep a window alive forever. A false
// second return means the cache is unavailable and the request should pass
// unthrottled.
func (a *appMiddleware) countRequest(r *http.Request, key string, windowSecs int) (int, bool) {
	count, err := a.cache.Increment(r.Context(), key, windowSecs)
	if err != nil {
		return 0, false
	}

	return int(count), true
}

func (a *appMiddleware) getUA(r *http.Request) string {
	ua := r.Header.Get(constant.RequestHeaderUserAgent)
	if ua == "" {
		ua = "unknown"
	}

	return ua
}

func (a *appMiddleware) getClientIP(r *http.Request) string {
	if xff := r.Header.Get(constant.RequestHeaderForwardedFor); xff != "" {
		if commaIdx := strings.Index(xff, ","); commaIdx > 0 {
			return strings.TrimSpace(xff[:commaIdx])
		}

		return strings.TrimSpace(xff)
	}

	if xri := r.Header.Get(constant.RequestHeaderRealIP); xri != "" {
		return strings.TrimSpace(xri)
	}

	return r.RemoteAddr
}
