package handlers

import "net/http"

// HealthHandler responds to health check requests.
type HealthHandler struct {
	Base
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
