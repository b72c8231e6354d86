package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripcrew/tripcrew-api/internal/auth"
	"github.com/tripcrew/tripcrew-api/internal/domain"
)

// CreateTrip handles POST /trips.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Title       string `json:"title"`
		Description string `json:"description"`
	}
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	trip, err := s.trips.Create(r.Context(), req.Title, req.Description, auth.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusCreated, trip)
}

// ListTrips handles GET /trips. Returns every trip the caller participates in.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.trips.ListForUser(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, map[string]any{"data": trips})
}

// GetTrip handles GET /trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	trip, err := s.trips.GetByID(r.Context(), tripID, auth.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, trip)
}

// JoinTrip handles POST /trips/join. The caller supplies the shareable join
// token, not a trip ID.
func (s *Server) JoinTrip(w http.ResponseWriter, r *http.Request) {
	var req struct {
		JoinToken  string `json:"join_token"`
		RSVPStatus string `json:"rsvp_status"`
	}
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.RSVPStatus == "" {
		req.RSVPStatus = string(domain.RSVPGoing)
	}

	participant, err := s.trips.Join(r.Context(), req.JoinToken, domain.RSVPStatus(req.RSVPStatus), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, participant)
}

// UpdateRSVP handles PUT /trips/{tripID}/rsvp.
func (s *Server) UpdateRSVP(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	var req struct {
		RSVPStatus string `json:"rsvp_status"`
	}
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}

	participant, err := s.trips.UpdateRSVP(r.Context(), tripID, domain.RSVPStatus(req.RSVPStatus), auth.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, participant)
}

// AdvancePhase handles POST /trips/{tripID}/advance.
func (s *Server) AdvancePhase(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	trip, err := s.trips.AdvancePhase(r.Context(), tripID, auth.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, trip)
}

// SetDateDeadline handles PUT /trips/{tripID}/date-deadline.
func (s *Server) SetDateDeadline(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	var req struct {
		DatePitchDeadline  time.Time `json:"date_pitch_deadline"`
		VotingDurationDays int       `json:"voting_duration_days"`
	}
	if err := decode(r, &req); err != nil {
		badRequest(w, err.Error())
		return
	}
	if req.VotingDurationDays == 0 {
		req.VotingDurationDays = 7
	}

	trip, err := s.trips.SetDatePitchDeadline(r.Context(), tripID, req.DatePitchDeadline, req.VotingDurationDays, auth.UserID(r.Context()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	respond(w, http.StatusOK, trip)
}

// pathUUID parses a UUID path parameter, writing a 422 on failure.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		badRequest(w, name+" must be a valid UUID")
		return uuid.Nil, false
	}
	return id, true
}
