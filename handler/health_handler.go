package handler

import (
	"net/http"

	"github.com/Lawrence9908/ecommerce-backend-api/common"
)

// HealthCheck godoc
// @Summary      Liveness probe
// @Description  Reports that the process is up. It does not check the database or cache.
// @Tags         health
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	common.WriteJSON(w, http.StatusOK, map[string]string{"status": "API is healthy and running"})
}
