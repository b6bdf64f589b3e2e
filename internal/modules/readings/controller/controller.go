package controller

import (
	"net/http"

	authservice "sensorapi/internal/modules/auth/service"
	"sensorapi/internal/modules/readings/repository"
	"sensorapi/internal/modules/readings/service"
)

type ReadingsController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type readingsControllerImpl struct {
	repository repository.ReadingRepository
	normalizer *service.Normalizer
	gate       *authservice.Gate
	maxLimit   int
}

func NewReadingsController(repository repository.ReadingRepository, normalizer *service.Normalizer, gate *authservice.Gate, maxLimit int) ReadingsController {
	return &readingsControllerImpl{
		repository: repository,
		normalizer: normalizer,
		gate:       gate,
		maxLimit:   maxLimit,
	}
}

func (c *readingsControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("GET /latest", c.gate.Require(http.HandlerFunc(c.handleLatest)))
	mux.Handle("GET /past-readings", c.gate.Require(http.HandlerFunc(c.handlePastReadings)))
}
