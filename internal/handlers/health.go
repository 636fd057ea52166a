package handlers

import "net/http"

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status string `json:"status"`
}

// Healthz reports liveness.
func Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}
