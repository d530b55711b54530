package handler

import "net/http"

type healthResponse struct {
	Status string `json:"status"`
}

// health handles GET /api/healthchecker. It reports process liveness only;
// database reachability is checked at startup, not per request.
func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}
