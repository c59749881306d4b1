package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMaintenance(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	tests := []struct {
		name    string
		enabled bool
		method  string
		path    string
		want    int
	}{
		{name: "disabled", enabled: false, method: http.MethodGet, path: "/api/v1/entries", want: http.StatusOK},
		{name: "blocks api", enabled: true, method: http.MethodPost, path: "/api/v1/entries", want: http.StatusServiceUnavailable},
		{name: "allows health", enabled: true, method: http.MethodGet, path: "/health", want: http.StatusOK},
		{name: "allows ready", enabled: true, method: http.MethodGet, path: "/ready", want: http.StatusOK},
		{name: "allows metrics", enabled: true, method: http.MethodGet, path: "/metrics", want: http.StatusOK},
		{name: "allows preflight", enabled: true, method: http.MethodOptions, path: "/api/v1/entries", want: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			Maintenance(tt.enabled, "back soon")(ok).ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			if rr.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, rr.Code)
			}
		})
	}
}

func TestMaintenanceBody(t *testing.T) {
	rr := httptest.NewRecorder()
	Maintenance(true, "back soon")(http.NotFoundHandler()).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/v1/entries", nil))

	var body map[string]any
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if body["message"] != "back soon" || body["maintenance_mode"] != true || body["error"] == "" {
		t.Fatalf("unexpected body: %v", body)
	}
}
