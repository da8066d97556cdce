package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"stylebook/config"
	"stylebook/infras/otel/mocks"
	cacheMocks "stylebook/shared/cache/mocks"
	"stylebook/transport/http/middleware"
)

const (
	minuteWindow = 60
	hourWindow   = 3600
)

func newBookingLimiter(t *testing.T) (*cacheMocks.MockRedisCache, http.Handler, *bool) {
	t.Helper()

	ctrl := gomock.NewController(t)
	cache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Booking.MaxPerMinute = 2
	cfg.Booking.MaxPerHour = 5

	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusCreated)
	})

	appMiddleware := middleware.NewAppMiddleware(mocks.NewOtel(), cfg, cache)

	return cache, appMiddleware.BookingRateLimit()(next), &reached
}

func bookingRequest() (*httptest.ResponseRecorder, *http.Request) {
	return httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/v1/public/appointments", nil)
}

func TestBookingRateLimitAllowsUnderLimit(t *testing.T) {
	cache, handler, reached := newBookingLimiter(t)

	// One atomic increment per window, never a TTL-refreshing write.
	cache.EXPECT().Increment(gomock.Any(), gomock.Any(), minuteWindow).Return(int64(1), nil)
	cache.EXPECT().Increment(gomock.Any(), gomock.Any(), hourWindow).Return(int64(1), nil)

	recorder, request := bookingRequest()
	handler.ServeHTTP(recorder, request)

	assert.True(t, *reached)
	assert.Equal(t, http.StatusCreated, recorder.Code)
}

func TestBookingRateLimitBlocksMinuteBurst(t *testing.T) {
	cache, handler, reached := newBookingLimiter(t)

	cache.EXPECT().Increment(gomock.Any(), gomock.Any(), minuteWindow).Return(int64(3), nil)

	recorder, request := bookingRequest()
	handler.ServeHTTP(recorder, request)

	assert.False(t, *reached)
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "wait a minute")
}

func TestBookingRateLimitBlocksHourlyDrip(t *testing.T) {
	cache, handler, reached := newBookingLimiter(t)

	cache.EXPECT().Increment(gomock.Any(), gomock.Any(), minuteWindow).Return(int64(1), nil)
	cache.EXPECT().Increment(gomock.Any(), gomock.Any(), hourWindow).Return(int64(6), nil)

	recorder, request := bookingRequest()
	handler.ServeHTTP(recorder, request)

	assert.False(t, *reached)
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "try again later")
}

func TestBookingRateLimitFailsOpenWhenCacheDown(t *testing.T) {
	cache, handler, reached := newBookingLimiter(t)

	cacheErr := errors.New("connection refused")
	cache.EXPECT().Increment(gomock.Any(), gomock.Any(), minuteWindow).Return(int64(0), cacheErr)
	cache.EXPECT().Increment(gomock.Any(), gomock.Any(), hourWindow).Return(int64(0), cacheErr)

	recorder, request := bookingRequest()
	handler.ServeHTTP(recorder, request)

	assert.True(t, *reached)
	assert.Equal(t, http.StatusCreated, recorder.Code)
}
