package chi

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	mw := RateLimitMiddleware(0, 0)
	handler := mw(okHandler())

	for i := 0; i < 20; i++ {
		req := httptest.NewRequest("POST", "/chat", http.NoBody)
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("disabled limiter rejected a request: %d", rr.Code)
		}
	}
}

func TestRateLimitMiddleware_BurstExhaustion(t *testing.T) {
	mw := RateLimitMiddleware(1, 2)
	handler := mw(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest("POST", "/chat", http.NoBody)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("burst requests should pass, got %v", codes)
	}
	if codes[2] != http.StatusTooManyRequests {
		t.Errorf("third request should be limited, got %d", codes[2])
	}
}

func TestRateLimitMiddleware_PerClientBuckets(t *testing.T) {
	mw := RateLimitMiddleware(1, 1)
	handler := mw(okHandler())

	for _, addr := range []string{"10.0.0.1:1234", "10.0.0.2:1234"} {
		req := httptest.NewRequest("POST", "/chat", http.NoBody)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("first request from %s should pass, got %d", addr, rr.Code)
		}
	}
}

func TestRateLimitMiddleware_ExemptPaths(t *testing.T) {
	mw := RateLimitMiddleware(1, 1)
	handler := mw(okHandler())

	for i := 0; i < 5; i++ {
		req := httptest.NewRequest("GET", "/health", http.NoBody)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("health must never be rate limited, got %d", rr.Code)
		}
	}
}
