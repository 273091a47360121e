package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/use-agent/minhash/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.Use(mw...)
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(IdentityKey))
	})
	return r
}

func do(r http.Handler, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuth(t *testing.T) {
	r := newEngine(Auth([]string{"alpha", "", "beta"}))

	tests := []struct {
		name    string
		headers map[string]string
		want    int
	}{
		{"missing", nil, http.StatusUnauthorized},
		{"wrong key", map[string]string{"X-API-Key": "gamma"}, http.StatusUnauthorized},
		{"x-api-key", map[string]string{"X-API-Key": "alpha"}, http.StatusOK},
		{"bearer", map[string]string{"Authorization": "Bearer beta"}, http.StatusOK},
		{"basic ignored", map[string]string{"Authorization": "Basic beta"}, http.StatusUnauthorized},
		{"prefix of key", map[string]string{"X-API-Key": "alph"}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(r, tt.headers)
			assert.Equal(t, tt.want, w.Code)
			if tt.want == http.StatusUnauthorized {
				assert.Contains(t, w.Body.String(), `"UNAUTHORIZED"`)
			}
		})
	}
}

func TestAuth_IdentityIsNotTheKey(t *testing.T) {
	r := newEngine(Auth([]string{"alpha"}))
	w := do(r, map[string]string{"X-API-Key": "alpha"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Regexp(t, `^key:[0-9a-f]{12}$`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "alpha")
}

func TestAuth_NoKeysIsOpen(t *testing.T) {
	r := newEngine(Auth(nil))
	assert.Equal(t, http.StatusOK, do(r, nil).Code)
}

func TestRateLimit(t *testing.T) {
	r := newEngine(Auth([]string{"a", "b"}), RateLimit(config.RateLimitConfig{RequestsPerSecond: 0.001, Burst: 2}))

	keyA := map[string]string{"X-API-Key": "a"}
	assert.Equal(t, http.StatusOK, do(r, keyA).Code)
	assert.Equal(t, http.StatusOK, do(r, keyA).Code)

	w := do(r, keyA)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), `"RATE_LIMITED"`)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// Buckets are per identity.
	assert.Equal(t, http.StatusOK, do(r, map[string]string{"X-API-Key": "b"}).Code)
}

func TestRateLimit_Disabled(t *testing.T) {
	r := newEngine(RateLimit(config.RateLimitConfig{RequestsPerSecond: 0, Burst: 0}))
	for range 5 {
		assert.Equal(t, http.StatusOK, do(r, nil).Code)
	}
}
