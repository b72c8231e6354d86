package handler

import "net/http"

// Health handles GET /healthz. No auth, no dependencies — a 200 means the
// process is up and serving.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	respond(w, http.StatusOK, map[string]string{"status": "ok"})
}
