package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testSecret = "test-secret"

func identityEcho(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFromContext(r.Context())
		if !ok {
			t.Errorf("Expected identity in context")
		}
		w.Header().Set("X-Supplier", id.SupplierID)
		w.Header().Set("X-User", id.UserID)
		w.WriteHeader(http.StatusNoContent)
	})
}

func TestSupplierAuth(t *testing.T) {
	valid, err := SignToken(testSecret, Identity{UserID: "user-1", SupplierID: "sup-1", Name: "Ana"}, time.Hour)
	if err != nil {
		t.Fatalf("Failed to sign token: %v", err)
	}
	noSupplier, _ := SignToken(testSecret, Identity{UserID: "user-2"}, time.Hour)
	otherSecret, _ := SignToken("other", Identity{UserID: "user-1", SupplierID: "sup-1"}, time.Hour)
	expired, _ := SignToken(testSecret, Identity{UserID: "user-1", SupplierID: "sup-1"}, -time.Minute)

	testCases := []struct {
		name     string
		header   string
		wantCode int
	}{
		{"valid token", "Bearer " + valid, http.StatusNoContent},
		{"missing header", "", http.StatusUnauthorized},
		{"wrong scheme", "Basic " + valid, http.StatusUnauthorized},
		{"wrong secret", "Bearer " + otherSecret, http.StatusUnauthorized},
		{"expired", "Bearer " + expired, http.StatusUnauthorized},
		{"garbage", "Bearer not-a-token", http.StatusUnauthorized},
		{"no supplier", "Bearer " + noSupplier, http.StatusForbidden},
	}

	handler := SupplierAuth(testSecret, identityEcho(t))
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/capacity", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tc.wantCode {
				t.Fatalf("Expected status %d, got %d", tc.wantCode, rec.Code)
			}
			if tc.wantCode == http.StatusNoContent && (rec.Header().Get("X-Supplier") != "sup-1" || rec.Header().Get("X-User") != "user-1") {
				t.Errorf("Expected identity sup-1/user-1, got %s/%s", rec.Header().Get("X-Supplier"), rec.Header().Get("X-User"))
			}
		})
	}
}

func TestRequestIDAndLogger(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	handler := RequestID(Logger(zap.New(core), http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if RequestIDFromContext(r.Context()) == "" {
			t.Errorf("Expected request id in context")
		}
		w.WriteHeader(http.StatusNotFound)
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/orders/x/history", nil))
	generated := rec.Header().Get(RequestIDHeader)
	if generated == "" {
		t.Fatalf("Expected a generated request id")
	}

	req := httptest.NewRequest(http.MethodGet, "/api/ping", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Header().Get(RequestIDHeader) != "abc-123" {
		t.Errorf("Expected request id to be reused, got %s", rec.Header().Get(RequestIDHeader))
	}

	entries := logs.FilterMessage("client error").All()
	if len(entries) != 2 {
		t.Fatalf("Expected 2 client error entries, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["request_id"]; got != generated {
		t.Errorf("Expected logged request id %s, got %v", generated, got)
	}
	if got := entries[1].ContextMap()["status"]; got != int64(http.StatusNotFound) {
		t.Errorf("Expected logged status 404, got %v", got)
	}
}
