package driver

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// AdminHandler returns the driver's observability endpoint:
//
//	GET /healthz   liveness plus connection state
//	GET /metrics   Prometheus metrics
//	GET /peers     connected peers (tcp_server transport only)
//
// The endpoint is optional; nothing in the driver depends on it being
// served.
func (d *Driver) AdminHandler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"status":    "ok",
			"connected": d.Connected(),
		})
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/peers", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if s := d.Server(); s != nil {
			json.NewEncoder(w).Encode(s.Peers())
			return
		}
		w.Write([]byte("[]\n"))
	})

	return r
}
