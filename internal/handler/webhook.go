package handler

import "net/http"

// webhookAck acknowledges webhook management calls without acting on them.
// Delivery infrastructure is not wired up yet; accepting the requests keeps
// integrating clients from erroring while the feature lands.
// TODO: persist webhook registrations once the delivery worker exists.
func (s *Server) webhookAck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusAccepted, struct{}{})
}
