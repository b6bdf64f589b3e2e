package httpapi

import (
	"database/sql"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"

	"sensorapi/internal/metrics"
)

// NewMux returns a mux with the unauthenticated operational routes. Feature
// modules register their own routes on it.
func NewMux(db *sql.DB, gatherer prometheus.Gatherer) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, db)
	mux.Handle("GET /metrics", metrics.Handler(gatherer))
	return mux
}
