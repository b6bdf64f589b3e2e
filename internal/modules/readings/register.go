package readings

import (
	"database/sql"
	"net/http"

	"sensorapi/internal/metrics"
	authservice "sensorapi/internal/modules/auth/service"
	"sensorapi/internal/modules/readings/controller"
	"sensorapi/internal/modules/readings/repository"
	"sensorapi/internal/modules/readings/service"
)

func RegisterFeature(mux *http.ServeMux, db *sql.DB, gate *authservice.Gate, m *metrics.Metrics, maxLimit int) {
	readingRepository := repository.NewRepository(db, m)
	normalizer := service.NewNormalizer(m)
	readingsController := controller.NewReadingsController(readingRepository, normalizer, gate, maxLimit)
	readingsController.RegisterRoutes(mux)
}
