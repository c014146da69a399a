package chi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func serveAuth(keys []string, method, path, authHeader string) *httptest.ResponseRecorder {
	handler := BearerAuthMiddleware(keys)(okHandler())
	req := httptest.NewRequest(method, path, http.NoBody)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr
}

func TestAuthMiddleware(t *testing.T) {
	tests := []struct {
		name   string
		keys   []string
		method string
		path   string
		header string
		want   int
	}{
		{"no keys pass through", nil, "GET", "/api/v1/views", "", http.StatusOK},
		{"empty string keys pass through", []string{"", ""}, "GET", "/api/v1/views", "", http.StatusOK},
		{"missing header", []string{"secret"}, "GET", "/api/v1/views", "", http.StatusUnauthorized},
		{"basic scheme", []string{"secret"}, "GET", "/api/v1/views", "Basic dXNlcjpwYXNz", http.StatusUnauthorized},
		{"wrong token", []string{"secret"}, "GET", "/api/v1/views", "Bearer nope", http.StatusUnauthorized},
		{"valid token", []string{"secret"}, "GET", "/api/v1/views", "Bearer secret", http.StatusOK},
		{"second of several keys", []string{"one", "two"}, "GET", "/api/v1/views", "Bearer two", http.StatusOK},
		{"health is exempt", []string{"secret"}, "GET", "/health", "", http.StatusOK},
		{"metrics is exempt", []string{"secret"}, "GET", "/metrics", "", http.StatusOK},
		{"preflight passes", []string{"secret"}, "OPTIONS", "/api/v1/views", "", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serveAuth(tt.keys, tt.method, tt.path, tt.header)
			if rr.Code != tt.want {
				t.Errorf("got %d, want %d", rr.Code, tt.want)
			}
		})
	}
}

func TestAuthMiddleware_ErrorBody(t *testing.T) {
	rr := serveAuth([]string{"secret"}, "GET", "/api/v1/views", "Bearer nope")

	var errResp ErrorResponse
	if err := json.NewDecoder(rr.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Code != CodeUnauthorized {
		t.Errorf("expected code %q, got %q", CodeUnauthorized, errResp.Code)
	}
}
