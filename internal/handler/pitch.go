package handler

import (
	"net/http"
	"time"

	"github.com/tripcrew/tripcrew-api/internal/auth"
	"github.com/tripcrew/tripcrew-api/internal/domain"
)

// CreateDatePitch handles POST /trips/{tripID}/date-pitches.
// Dates arrive as "YYYY-MM-DD" strings.
func (s *Server) CreateDatePitch(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	var req struct {
		StartDate   string `json:"start_date"`
		EndDate     string `json:"end_date"`
		Description string `json:"description"`
	}
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	start, err := time.Parse(time.DateOnly, req.StartDate)
	if err != nil {
		badRequest(w, "start_date must be a YYYY-MM-DD date")
		return
	}
	end, err := time.Parse(time.DateOnly, req.EndDate)
	if err != nil {
		badRequest(w, "end_date must be a YYYY-MM-DD date")
		return
	}

	pitch, err := s.pitches.CreateDatePitch(r.Context(), tripID, start, end, req.Description, auth.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, pitch)
}

// ListDatePitches handles GET /trips/{tripID}/date-pitches.
// Each pitch comes back with its votes and the computed best range.
func (s *Server) ListDatePitches(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	results, err := s.pitches.ListDatePitches(r.Context(), tripID, auth.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"data": results})
}

// CastDateVote handles POST /date-pitches/{pitchID}/votes.
// selected_dates is only read for PARTIAL votes.
func (s *Server) CastDateVote(w http.ResponseWriter, r *http.Request) {
	pitchID, ok := pathUUID(w, r, "pitchID")
	if !ok {
		return
	}
	var req struct {
		VoteType      string   `json:"vote_type"`
		SelectedDates []string `json:"selected_dates"`
	}
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	dates := make([]time.Time, 0, len(req.SelectedDates))
	for _, raw := range req.SelectedDates {
		d, err := time.Parse(time.DateOnly, raw)
		if err != nil {
			badRequest(w, "selected_dates entries must be YYYY-MM-DD dates")
			return
		}
		dates = append(dates, d)
	}

	vote, err := s.votes.CastDateVote(r.Context(), pitchID, domain.DateVoteType(req.VoteType), dates, auth.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, vote)
}
