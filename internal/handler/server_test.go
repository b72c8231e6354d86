package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/tripcrew/tripcrew-api/internal/auth"
	"github.com/tripcrew/tripcrew-api/internal/domain"
	"github.com/tripcrew/tripcrew-api/internal/handler"
)

// actorID is the authenticated user injected into every test request's
// context, standing in for the auth middleware.
var actorID = uuid.MustParse("7f0f3b9a-0000-4000-8000-000000000001")

// Test doubles for the handler's service interfaces. Set only the method
// fields your test needs; an unset field panics, which surfaces an
// unexpected call immediately.

type mockTripServicer struct {
	create       func(ctx context.Context, title, description string, actor uuid.UUID) (domain.Trip, error)
	getByID      func(ctx context.Context, tripID, actor uuid.UUID) (domain.Trip, error)
	listForUser  func(ctx context.Context, actor uuid.UUID) ([]domain.Trip, error)
	join         func(ctx context.Context, token string, rsvp domain.RSVPStatus, actor uuid.UUID) (domain.Participant, error)
	updateRSVP   func(ctx context.Context, tripID uuid.UUID, rsvp domain.RSVPStatus, actor uuid.UUID) (domain.Participant, error)
	advancePhase func(ctx context.Context, tripID, actor uuid.UUID) (domain.Trip, error)
	setDeadline  func(ctx context.Context, tripID uuid.UUID, deadline time.Time, durationDays int, actor uuid.UUID) (domain.Trip, error)
}

func (m *mockTripServicer) Create(ctx context.Context, title, description string, actor uuid.UUID) (domain.Trip, error) {
	return m.create(ctx, title, description, actor)
}
func (m *mockTripServicer) GetByID(ctx context.Context, tripID, actor uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, tripID, actor)
}
func (m *mockTripServicer) ListForUser(ctx context.Context, actor uuid.UUID) ([]domain.Trip, error) {
	return m.listForUser(ctx, actor)
}
func (m *mockTripServicer) Join(ctx context.Context, token string, rsvp domain.RSVPStatus, actor uuid.UUID) (domain.Participant, error) {
	return m.join(ctx, token, rsvp, actor)
}
func (m *mockTripServicer) UpdateRSVP(ctx context.Context, tripID uuid.UUID, rsvp domain.RSVPStatus, actor uuid.UUID) (domain.Participant, error) {
	return m.updateRSVP(ctx, tripID, rsvp, actor)
}
func (m *mockTripServicer) AdvancePhase(ctx context.Context, tripID, actor uuid.UUID) (domain.Trip, error) {
	return m.advancePhase(ctx, tripID, actor)
}
func (m *mockTripServicer) SetDatePitchDeadline(ctx context.Context, tripID uuid.UUID, deadline time.Time, durationDays int, actor uuid.UUID) (domain.Trip, error) {
	return m.setDeadline(ctx, tripID, deadline, durationDays, actor)
}

var _ handler.TripServicer = (*mockTripServicer)(nil)

type mockPitchServicer struct {
	createDatePitch func(ctx context.Context, tripID uuid.UUID, startDate, endDate time.Time, description string, actor uuid.UUID) (domain.DatePitch, error)
	listDatePitches func(ctx context.Context, tripID, actor uuid.UUID) ([]domain.DatePitchResult, error)
}

func (m *mockPitchServicer) CreateDatePitch(ctx context.Context, tripID uuid.UUID, startDate, endDate time.Time, description string, actor uuid.UUID) (domain.DatePitch, error) {
	return m.createDatePitch(ctx, tripID, startDate, endDate, description, actor)
}
func (m *mockPitchServicer) ListDatePitches(ctx context.Context, tripID, actor uuid.UUID) ([]domain.DatePitchResult, error) {
	return m.listDatePitches(ctx, tripID, actor)
}

var _ handler.PitchServicer = (*mockPitchServicer)(nil)

type mockVoteServicer struct {
	castDateVote func(ctx context.Context, pitchID uuid.UUID, voteType domain.DateVoteType, selectedDates []time.Time, actor uuid.UUID) (domain.DateVote, error)
}

func (m *mockVoteServicer) CastDateVote(ctx context.Context, pitchID uuid.UUID, voteType domain.DateVoteType, selectedDates []time.Time, actor uuid.UUID) (domain.DateVote, error) {
	return m.castDateVote(ctx, pitchID, voteType, selectedDates, actor)
}

var _ handler.VoteServicer = (*mockVoteServicer)(nil)

type mockDestinationServicer struct {
	createPitch func(ctx context.Context, tripID uuid.UUID, location, description string, actor uuid.UUID) (domain.DestinationPitch, error)
	castVote    func(ctx context.Context, pitchID uuid.UUID, ranking int, actor uuid.UUID) (domain.DestinationVote, error)
	listPitches func(ctx context.Context, tripID, actor uuid.UUID) ([]domain.DestinationPitchResult, domain.IRVResult, error)
}

func (m *mockDestinationServicer) CreatePitch(ctx context.Context, tripID uuid.UUID, location, description string, actor uuid.UUID) (domain.DestinationPitch, error) {
	return m.createPitch(ctx, tripID, location, description, actor)
}
func (m *mockDestinationServicer) CastVote(ctx context.Context, pitchID uuid.UUID, ranking int, actor uuid.UUID) (domain.DestinationVote, error) {
	return m.castVote(ctx, pitchID, ranking, actor)
}
func (m *mockDestinationServicer) ListPitches(ctx context.Context, tripID, actor uuid.UUID) ([]domain.DestinationPitchResult, domain.IRVResult, error) {
	return m.listPitches(ctx, tripID, actor)
}

var _ handler.DestinationServicer = (*mockDestinationServicer)(nil)

type mockTravelServicer struct {
	confirm    func(ctx context.Context, tripID uuid.UUID, isBooked bool, notes string, actor uuid.UUID) (domain.TravelConfirmation, error)
	listStatus func(ctx context.Context, tripID, actor uuid.UUID) ([]domain.TravelConfirmation, error)
}

func (m *mockTravelServicer) Confirm(ctx context.Context, tripID uuid.UUID, isBooked bool, notes string, actor uuid.UUID) (domain.TravelConfirmation, error) {
	return m.confirm(ctx, tripID, isBooked, notes, actor)
}
func (m *mockTravelServicer) ListStatus(ctx context.Context, tripID, actor uuid.UUID) ([]domain.TravelConfirmation, error) {
	return m.listStatus(ctx, tripID, actor)
}

var _ handler.TravelServicer = (*mockTravelServicer)(nil)

type mockActivityServicer struct {
	listByTrip func(ctx context.Context, tripID, actor uuid.UUID, p domain.PaginationParams) ([]domain.Activity, int64, error)
}

func (m *mockActivityServicer) ListByTrip(ctx context.Context, tripID, actor uuid.UUID, p domain.PaginationParams) ([]domain.Activity, int64, error) {
	return m.listByTrip(ctx, tripID, actor, p)
}

var _ handler.ActivityServicer = (*mockActivityServicer)(nil)

// serverMocks bundles one mock per service interface. The zero value serves
// any route; only routes a test actually exercises need fields set.
type serverMocks struct {
	trips        mockTripServicer
	pitches      mockPitchServicer
	votes        mockVoteServicer
	destinations mockDestinationServicer
	travel       mockTravelServicer
	activities   mockActivityServicer
}

// httpHandler wires the mocks into the real chi routing table, with a stub
// middleware that plants actorID in the context the way auth.Middleware
// would. This mirrors how main.go mounts the server in production.
func (m *serverMocks) httpHandler() http.Handler {
	srv := handler.NewServer(&m.trips, &m.pitches, &m.votes, &m.destinations, &m.travel, &m.activities)
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithUserID(req.Context(), actorID)))
		})
	})
	srv.RegisterRoutes(r)
	return r
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// decodeError parses the standard error envelope and returns its code.
func decodeError(t *testing.T, body *bytes.Buffer) handler.ErrorDetail {
	t.Helper()
	var resp handler.ErrorResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp.Error
}
