package controller

import (
	"net/http"

	"sensorapi/internal/modules/auth/service"
	"sensorapi/internal/utils"
)

func (c *authControllerImpl) handleLogin(w http.ResponseWriter, r *http.Request) {
	utils.WriteMessage(w, http.StatusOK, "Login successful")
}

func (c *authControllerImpl) handleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := service.IdentityFromContext(r.Context())
	if !ok {
		utils.WriteError(w, http.StatusUnauthorized, "Not authenticated")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"username": id.Username})
}
