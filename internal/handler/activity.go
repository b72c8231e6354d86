package handler

import (
	"net/http"
	"strconv"

	"github.com/tripcrew/tripcrew-api/internal/auth"
	"github.com/tripcrew/tripcrew-api/internal/domain"
)

// ListActivities handles GET /trips/{tripID}/activities.
// Supports ?page= and ?limit= query parameters (defaults: page=1, limit=20,
// max=100).
func (s *Server) ListActivities(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	params := domain.NewPaginationParams(queryInt(r, "page"), queryInt(r, "limit"))

	activities, total, err := s.activities.ListByTrip(r.Context(), tripID, auth.UserID(r.Context()), params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{
		"data": activities,
		"pagination": map[string]any{
			"page":  params.Page,
			"limit": params.Limit,
			"total": total,
		},
	})
}

// queryInt parses an optional integer query parameter. Invalid values are
// treated as absent.
func queryInt(r *http.Request, name string) *int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &n
}
