// Package handler implements the HTTP handlers for the TripCrew API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (trip.go, pitch.go, etc.) but all share the same Server struct so
// they can access its dependencies.
package handler

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/tripcrew/tripcrew-api/internal/domain"
)

// TripServicer defines the trip lifecycle operations the handler depends on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type TripServicer interface {
	Create(ctx context.Context, title, description string, actor uuid.UUID) (domain.Trip, error)
	GetByID(ctx context.Context, tripID, actor uuid.UUID) (domain.Trip, error)
	ListForUser(ctx context.Context, actor uuid.UUID) ([]domain.Trip, error)
	Join(ctx context.Context, token string, rsvp domain.RSVPStatus, actor uuid.UUID) (domain.Participant, error)
	UpdateRSVP(ctx context.Context, tripID uuid.UUID, rsvp domain.RSVPStatus, actor uuid.UUID) (domain.Participant, error)
	AdvancePhase(ctx context.Context, tripID, actor uuid.UUID) (domain.Trip, error)
	SetDatePitchDeadline(ctx context.Context, tripID uuid.UUID, deadline time.Time, durationDays int, actor uuid.UUID) (domain.Trip, error)
}

// PitchServicer defines the date-pitch operations the handler depends on.
type PitchServicer interface {
	CreateDatePitch(ctx context.Context, tripID uuid.UUID, startDate, endDate time.Time, description string, actor uuid.UUID) (domain.DatePitch, error)
	ListDatePitches(ctx context.Context, tripID, actor uuid.UUID) ([]domain.DatePitchResult, error)
}

// VoteServicer defines the date-voting operations the handler depends on.
type VoteServicer interface {
	CastDateVote(ctx context.Context, pitchID uuid.UUID, voteType domain.DateVoteType, selectedDates []time.Time, actor uuid.UUID) (domain.DateVote, error)
}

// DestinationServicer defines the destination pitch and ranked-vote
// operations the handler depends on.
type DestinationServicer interface {
	CreatePitch(ctx context.Context, tripID uuid.UUID, location, description string, actor uuid.UUID) (domain.DestinationPitch, error)
	CastVote(ctx context.Context, pitchID uuid.UUID, ranking int, actor uuid.UUID) (domain.DestinationVote, error)
	ListPitches(ctx context.Context, tripID, actor uuid.UUID) ([]domain.DestinationPitchResult, domain.IRVResult, error)
}

// TravelServicer defines the travel confirmation operations the handler
// depends on.
type TravelServicer interface {
	Confirm(ctx context.Context, tripID uuid.UUID, isBooked bool, notes string, actor uuid.UUID) (domain.TravelConfirmation, error)
	ListStatus(ctx context.Context, tripID, actor uuid.UUID) ([]domain.TravelConfirmation, error)
}

// ActivityServicer defines the feed operations the handler depends on.
type ActivityServicer interface {
	ListByTrip(ctx context.Context, tripID, actor uuid.UUID, p domain.PaginationParams) ([]domain.Activity, int64, error)
}

// Server holds the handlers' service dependencies.
type Server struct {
	trips        TripServicer
	pitches      PitchServicer
	votes        VoteServicer
	destinations DestinationServicer
	travel       TravelServicer
	activities   ActivityServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, pitches PitchServicer, votes VoteServicer, destinations DestinationServicer, travel TravelServicer, activities ActivityServicer) *Server {
	return &Server{
		trips:        trips,
		pitches:      pitches,
		votes:        votes,
		destinations: destinations,
		travel:       travel,
		activities:   activities,
	}
}

// RegisterRoutes mounts the authenticated API surface on the router.
// The caller is expected to have wrapped the router in the auth middleware.
func (s *Server) RegisterRoutes(r chi.Router) {
	r.Route("/trips", func(r chi.Router) {
		r.Post("/", s.CreateTrip)
		r.Get("/", s.ListTrips)
		r.Post("/join", s.JoinTrip)
		r.Route("/{tripID}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/rsvp", s.UpdateRSVP)
			r.Post("/advance", s.AdvancePhase)
			r.Put("/date-deadline", s.SetDateDeadline)
			r.Post("/date-pitches", s.CreateDatePitch)
			r.Get("/date-pitches", s.ListDatePitches)
			r.Post("/destination-pitches", s.CreateDestinationPitch)
			r.Get("/destination-pitches", s.ListDestinationPitches)
			r.Put("/travel", s.ConfirmTravel)
			r.Get("/travel", s.ListTravelStatus)
			r.Get("/activities", s.ListActivities)
		})
	})
	r.Post("/date-pitches/{pitchID}/votes", s.CastDateVote)
	r.Post("/destination-pitches/{pitchID}/votes", s.CastDestinationVote)
}
