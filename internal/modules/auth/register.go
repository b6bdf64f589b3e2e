package auth

import (
	"net/http"

	"sensorapi/internal/modules/auth/controller"
	"sensorapi/internal/modules/auth/service"
)

func RegisterFeature(mux *http.ServeMux, gate *service.Gate) {
	authController := controller.NewAuthController(gate)
	authController.RegisterRoutes(mux)
}
