package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	pkgerrors "github.com/angelmondragon/webtheme-backend/pkg/errors"
	"github.com/angelmondragon/webtheme-backend/pkg/types"
)

type fakeRateStore struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{counts: make(map[string]int64)}
}

func (s *fakeRateStore) FixedWindowAllow(_ context.Context, scope string, limit int64, _ time.Duration) (bool, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, 0, s.err
	}
	s.counts[scope]++
	count := s.counts[scope]
	return count <= limit, count, nil
}

func brandRequest(brandID string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/theme/save", nil)
	req.RemoteAddr = "1.2.3.4:5678"
	return req.WithContext(WithBrandID(req.Context(), brandID))
}

func TestRateLimitBlocksPerBrand(t *testing.T) {
	store := newFakeRateStore()
	handler := RateLimit(NewRateLimitPolicy("save", time.Minute, 2), store, nil)(okHandler())

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, brandRequest("brand-1"))
		switch {
		case i < 2 && rec.Code != http.StatusOK:
			t.Fatalf("expected success before limit, got %d", rec.Code)
		case i == 2:
			if rec.Code != http.StatusTooManyRequests {
				t.Fatalf("expected 429 after limit, got %d", rec.Code)
			}
			if rec.Header().Get("Retry-After") != "60" {
				t.Fatalf("expected Retry-After 60, got %q", rec.Header().Get("Retry-After"))
			}
			var body types.ErrorEnvelope
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Error.Code != string(pkgerrors.CodeRateLimit) {
				t.Fatalf("unexpected code %s", body.Error.Code)
			}
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, brandRequest("brand-2"))
	if rec.Code != http.StatusOK {
		t.Fatalf("other brands keep their own budget, got %d", rec.Code)
	}
	if _, ok := store.counts["save:brand:brand-1"]; !ok {
		t.Fatalf("expected brand scoped key, got %v", store.counts)
	}
}

func TestRateLimitFallsBackToClientIP(t *testing.T) {
	store := newFakeRateStore()
	handler := RateLimit(NewRateLimitPolicy("save", time.Minute, 5), store, nil)(okHandler())

	req := httptest.NewRequest(http.MethodPost, "/", nil)
	req.Header.Set("X-Forwarded-For", "9.9.9.9, 10.0.0.1")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	if _, ok := store.counts["save:ip:9.9.9.9"]; !ok {
		t.Fatalf("expected ip scoped key, got %v", store.counts)
	}
}

func TestRateLimitStoreFailure(t *testing.T) {
	store := newFakeRateStore()
	store.err = errors.New("redis down")
	handler := RateLimit(NewRateLimitPolicy("save", time.Minute, 5), store, nil)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, brandRequest("brand-1"))
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}

func TestRateLimitDisabledPolicyPassesThrough(t *testing.T) {
	store := newFakeRateStore()
	handler := RateLimit(NewRateLimitPolicy("save", 0, 0), store, nil)(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, brandRequest("brand-1"))
	if rec.Code != http.StatusOK || len(store.counts) != 0 {
		t.Fatalf("disabled policy should not count, got %d %v", rec.Code, store.counts)
	}
}
