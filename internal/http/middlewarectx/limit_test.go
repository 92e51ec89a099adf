package middlewarectx_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/magabrotheeeer/newsroom/internal/http/middlewarectx"
)

func TestRateLimitMiddleware(t *testing.T) {
	okHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	send := func(h http.Handler, remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, "/articles/1/views", nil)
		req.RemoteAddr = remoteAddr
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	t.Run("allows requests within burst", func(t *testing.T) {
		h := middlewarectx.RateLimitMiddleware(newNoopLogger(), 10, 10)(okHandler)
		for range 10 {
			assert.Equal(t, http.StatusOK, send(h, "10.0.0.1:1").Code)
		}
	})

	t.Run("blocks client over its limit", func(t *testing.T) {
		h := middlewarectx.RateLimitMiddleware(newNoopLogger(), 0.0001, 1)(okHandler)

		assert.Equal(t, http.StatusOK, send(h, "10.0.0.1:1").Code)
		w := send(h, "10.0.0.1:2")
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "1", w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), `"kind":"rate_limited"`)
	})

	t.Run("other clients keep their own budget", func(t *testing.T) {
		h := middlewarectx.RateLimitMiddleware(newNoopLogger(), 0.0001, 1)(okHandler)

		assert.Equal(t, http.StatusOK, send(h, "10.0.0.1:1").Code)
		assert.Equal(t, http.StatusTooManyRequests, send(h, "10.0.0.1:1").Code)
		assert.Equal(t, http.StatusOK, send(h, "10.0.0.2:1").Code)
	})

	t.Run("address without port after RealIP", func(t *testing.T) {
		h := middlewarectx.RateLimitMiddleware(newNoopLogger(), 0.0001, 1)(okHandler)

		assert.Equal(t, http.StatusOK, send(h, "203.0.113.7").Code)
		assert.Equal(t, http.StatusTooManyRequests, send(h, "203.0.113.7").Code)
	})
}
