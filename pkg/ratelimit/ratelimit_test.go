package ratelimit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"umrahcore/internal/shared/config"

	"github.com/gin-gonic/gin"
)

func TestRouteClassification(t *testing.T) {
	cases := map[string]RateLimitType{
		"/health":                             RateLimitTypeHealth,
		"/api/v1/admin/departures":            RateLimitTypeAdmin,
		"/api/v1/payments/:id/verify":         RateLimitTypeAdmin,
		"/api/v1/bookings/:id/reconciliation": RateLimitTypeAdmin,
		"/api/v1/bookings/:id/payments":       RateLimitTypePayment,
		"/api/v1/plans/:id/payments":          RateLimitTypePayment,
		"/api/v1/bookings":                    RateLimitTypeBooking,
		"/api/v1/departures/:id":              RateLimitTypePublic,
		"/swagger/*any":                       RateLimitTypeDefault,
	}
	for path, want := range cases {
		if got := getRateLimitType(path); got != want {
			t.Errorf("%s: got %s want %s", path, got, want)
		}
	}
}

func TestDisabledLimiterAdmitsWithoutRedis(t *testing.T) {
	limiter := NewRateLimiter(nil, config.RateLimitConfig{
		Enabled:         false,
		WindowDuration:  time.Minute,
		BookingRequests: 20,
	})

	result, err := limiter.IsAllowed(context.Background(), "10.0.0.1", RateLimitTypeBooking)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Allowed || result.Limit != 20 || result.Remaining != 20 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestMiddlewareSetsHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter := NewRateLimiter(nil, config.RateLimitConfig{
		Enabled:        true,
		WindowDuration: time.Minute,
		PublicRequests: 120,
		WhitelistedIPs: []string{"192.0.2.10"},
	})

	r := gin.New()
	r.Use(Middleware(limiter))
	r.GET("/api/v1/departures", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/api/v1/departures", nil)
	req.Header.Set("X-Forwarded-For", "192.0.2.10, 10.0.0.1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Limit") != "120" {
		t.Fatalf("limit header = %q", rec.Header().Get("X-RateLimit-Limit"))
	}
}
