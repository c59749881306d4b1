package middleware

import (
	"encoding/json"
	"net/http"
)

var maintenanceExempt = map[string]bool{
	"/health":  true,
	"/ready":   true,
	"/metrics": true,
}

type maintenanceBody struct {
	Error           string `json:"error"`
	Message         string `json:"message"`
	MaintenanceMode bool   `json:"maintenance_mode"`
}

// Maintenance rejects requests with 503 while enabled. Probes, metrics and
// CORS preflights pass through.
func Maintenance(enabled bool, message string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || maintenanceExempt[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(maintenanceBody{
				Error:           "Service Unavailable",
				Message:         message,
				MaintenanceMode: true,
			})
		})
	}
}
