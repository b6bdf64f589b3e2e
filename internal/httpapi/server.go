package httpapi

import (
	"net/http"
	"time"

	"sensorapi/internal/config"
	"sensorapi/internal/metrics"
)

func NewServer(config config.Config, mux *http.ServeMux, m *metrics.Metrics) *http.Server {
	return &http.Server{
		Addr:              config.HTTPAddr,
		Handler:           Wrap(mux, m),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
