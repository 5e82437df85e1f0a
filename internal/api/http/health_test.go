package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) error { return s.err }

func serveHealth(t *testing.T, store Pinger, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	router := gin.New()
	router.HandleMethodNotAllowed = true

	handler := NewHealthHandler("test-service", "1.0.0", store)
	handler.RegisterRoutes(router)

	req, err := http.NewRequest(method, path, nil)
	if err != nil {
		t.Fatal(err)
	}

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestHealthCheck(t *testing.T) {
	for _, path := range []string{"/health", "/healthz"} {
		rr := serveHealth(t, nil, http.MethodGet, path)

		if status := rr.Code; status != http.StatusOK {
			t.Errorf("%s returned wrong status code: got %v want %v", path, status, http.StatusOK)
		}

		var response HealthResponse
		if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
			t.Errorf("failed to unmarshal response: %v", err)
		}

		if response.Status != "healthy" {
			t.Errorf("expected status 'healthy', got %s", response.Status)
		}
		if response.Service != "test-service" {
			t.Errorf("expected service 'test-service', got %s", response.Service)
		}
		if response.Version != "1.0.0" {
			t.Errorf("expected version '1.0.0', got %s", response.Version)
		}
		if response.Store != "disabled" {
			t.Errorf("expected store 'disabled', got %s", response.Store)
		}
	}
}

func TestHealthCheckStoreStatus(t *testing.T) {
	tests := []struct {
		name  string
		store Pinger
		want  string
	}{
		{"up", stubPinger{}, "up"},
		{"down", stubPinger{err: errors.New("refused")}, "down"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serveHealth(t, tt.store, http.MethodGet, "/health")

			var response HealthResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &response); err != nil {
				t.Fatalf("failed to unmarshal response: %v", err)
			}
			if response.Store != tt.want {
				t.Errorf("expected store %q, got %q", tt.want, response.Store)
			}
		})
	}
}

func TestHealthCheckMethodNotAllowed(t *testing.T) {
	rr := serveHealth(t, nil, http.MethodPost, "/health")

	if status := rr.Code; status != http.StatusMethodNotAllowed {
		t.Errorf("handler returned wrong status code: got %v want %v",
			status, http.StatusMethodNotAllowed)
	}
}
