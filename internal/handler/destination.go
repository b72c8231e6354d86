package handler

import (
	"net/http"

	"github.com/tripcrew/tripcrew-api/internal/auth"
)

// CreateDestinationPitch handles POST /trips/{tripID}/destination-pitches.
func (s *Server) CreateDestinationPitch(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	var req struct {
		Location    string `json:"location"`
		Description string `json:"description"`
	}
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	pitch, err := s.destinations.CreatePitch(r.Context(), tripID, req.Location, req.Description, auth.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, pitch)
}

// ListDestinationPitches handles GET /trips/{tripID}/destination-pitches.
// The response includes the instant-runoff standing computed from the current
// ballots: the winner (if any) and the per-round counts.
func (s *Server) ListDestinationPitches(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	results, irv, err := s.destinations.ListPitches(r.Context(), tripID, auth.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"data": results, "result": irv})
}

// CastDestinationVote handles POST /destination-pitches/{pitchID}/votes.
func (s *Server) CastDestinationVote(w http.ResponseWriter, r *http.Request) {
	pitchID, ok := pathUUID(w, r, "pitchID")
	if !ok {
		return
	}
	var req struct {
		Ranking int `json:"ranking"`
	}
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	vote, err := s.destinations.CastVote(r.Context(), pitchID, req.Ranking, auth.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, vote)
}
