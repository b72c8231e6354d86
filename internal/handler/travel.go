package handler

import (
	"net/http"

	"github.com/tripcrew/tripcrew-api/internal/auth"
)

// ConfirmTravel handles PUT /trips/{tripID}/travel.
func (s *Server) ConfirmTravel(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	var req struct {
		IsBooked bool   `json:"is_booked"`
		Notes    string `json:"notes"`
	}
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	confirmation, err := s.travel.Confirm(r.Context(), tripID, req.IsBooked, req.Notes, auth.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, confirmation)
}

// ListTravelStatus handles GET /trips/{tripID}/travel.
func (s *Server) ListTravelStatus(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	confirmations, err := s.travel.ListStatus(r.Context(), tripID, auth.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"data": confirmations})
}
