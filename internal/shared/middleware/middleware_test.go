package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"umrahcore/internal/shared/config"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, role, tokenType string) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "staff-42",
		"email":   "staff@umrah.test",
		"role":    role,
		"type":    tokenType,
		"exp":     time.Now().Add(time.Hour).Unix(),
	}).SignedString([]byte(testSecret))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return token
}

func newEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWT: config.JWTConfig{Secret: testSecret}}

	r := gin.New()
	r.Use(RequestID())
	r.GET("/admin", JWTAuthWithConfig(cfg), RequireStaff(), func(c *gin.Context) {
		c.String(http.StatusOK, ActorID(c))
	})
	return r
}

func TestJWTAuthAndRoles(t *testing.T) {
	r := newEngine()

	cases := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Token abc", http.StatusUnauthorized},
		{"refresh token", "Bearer " + signToken(t, RoleStaff, "refresh"), http.StatusUnauthorized},
		{"agent", "Bearer " + signToken(t, RoleAgent, "access"), http.StatusForbidden},
		{"staff", "Bearer " + signToken(t, RoleStaff, "access"), http.StatusOK},
		{"admin", "Bearer " + signToken(t, RoleAdmin, "access"), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
			if tc.want == http.StatusOK && rec.Body.String() != "staff-42" {
				t.Fatalf("actor = %q", rec.Body.String())
			}
		})
	}
}

func TestRequestIDEchoed(t *testing.T) {
	r := newEngine()
	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("X-Request-ID", "req-1")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	if got := rec.Header().Get("X-Request-ID"); got != "req-1" {
		t.Fatalf("X-Request-ID = %q", got)
	}
}
