package controller

import (
	"net/http"

	"sensorapi/internal/modules/auth/service"
)

type AuthController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type authControllerImpl struct {
	gate *service.Gate
}

func NewAuthController(gate *service.Gate) AuthController {
	return &authControllerImpl{gate: gate}
}

func (c *authControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.Handle("POST /login", c.gate.Require(http.HandlerFunc(c.handleLogin)))
	mux.Handle("GET /users/me", c.gate.Require(http.HandlerFunc(c.handleMe)))
}
