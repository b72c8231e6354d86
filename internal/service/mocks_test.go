package service_test

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tripcrew/tripcrew-api/internal/domain"
	"github.com/tripcrew/tripcrew-api/internal/repo"
)

// Hand-written function-field test doubles for the repo interfaces.
// Unset fields fall back to a sensible default (echo the input, or an empty
// result) so each test only wires the calls it actually cares about.

// ---- TxRunner ---------------------------------------------------------------

// mockTxRunner runs the function against the same mock repos the service
// reads from, without any real transaction.
type mockTxRunner struct {
	repos repo.Repos
}

func (m *mockTxRunner) RunInTx(_ context.Context, fn func(r repo.Repos) error) error {
	return fn(m.repos)
}

var _ repo.TxRunner = (*mockTxRunner)(nil)

// ---- TripRepo ---------------------------------------------------------------

type mockTripRepo struct {
	create              func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID             func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	getByJoinToken      func(ctx context.Context, token string) (domain.Trip, error)
	listForUser         func(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)
	setDatePitchDeadline func(ctx context.Context, tripID uuid.UUID, deadline time.Time, durationDays int) (domain.Trip, error)
	setPhase            func(ctx context.Context, tripID uuid.UUID, phase domain.Phase) (domain.Trip, error)
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if m.create != nil {
		return m.create(ctx, trip)
	}
	trip.ID = uuid.New()
	return trip, nil
}

func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	if m.getByID != nil {
		return m.getByID(ctx, id)
	}
	return domain.Trip{}, domain.ErrNotFound
}

func (m *mockTripRepo) GetByJoinToken(ctx context.Context, token string) (domain.Trip, error) {
	if m.getByJoinToken != nil {
		return m.getByJoinToken(ctx, token)
	}
	return domain.Trip{}, domain.ErrNotFound
}

func (m *mockTripRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	if m.listForUser != nil {
		return m.listForUser(ctx, userID)
	}
	return nil, nil
}

func (m *mockTripRepo) SetDatePitchDeadline(ctx context.Context, tripID uuid.UUID, deadline time.Time, durationDays int) (domain.Trip, error) {
	if m.setDatePitchDeadline != nil {
		return m.setDatePitchDeadline(ctx, tripID, deadline, durationDays)
	}
	return domain.Trip{ID: tripID, DatePitchDeadline: &deadline, VotingDurationDays: durationDays}, nil
}

func (m *mockTripRepo) SetPhase(ctx context.Context, tripID uuid.UUID, phase domain.Phase) (domain.Trip, error) {
	if m.setPhase != nil {
		return m.setPhase(ctx, tripID, phase)
	}
	return domain.Trip{ID: tripID, Phase: phase}, nil
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

// ---- ParticipantRepo --------------------------------------------------------

type mockParticipantRepo struct {
	upsert     func(ctx context.Context, p domain.Participant) (domain.Participant, error)
	get        func(ctx context.Context, tripID, userID uuid.UUID) (domain.Participant, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error)
}

func (m *mockParticipantRepo) Upsert(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	if m.upsert != nil {
		return m.upsert(ctx, p)
	}
	return p, nil
}

func (m *mockParticipantRepo) Get(ctx context.Context, tripID, userID uuid.UUID) (domain.Participant, error) {
	if m.get != nil {
		return m.get(ctx, tripID, userID)
	}
	return domain.Participant{}, domain.ErrNotFound
}

func (m *mockParticipantRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error) {
	if m.listByTrip != nil {
		return m.listByTrip(ctx, tripID)
	}
	return nil, nil
}

var _ repo.ParticipantRepo = (*mockParticipantRepo)(nil)

// ---- DatePitchRepo ----------------------------------------------------------

type mockDatePitchRepo struct {
	create            func(ctx context.Context, pitch domain.DatePitch) (domain.DatePitch, error)
	getByID           func(ctx context.Context, id uuid.UUID) (domain.DatePitch, error)
	listResultsByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.DatePitchResult, error)
}

func (m *mockDatePitchRepo) Create(ctx context.Context, pitch domain.DatePitch) (domain.DatePitch, error) {
	if m.create != nil {
		return m.create(ctx, pitch)
	}
	pitch.ID = uuid.New()
	return pitch, nil
}

func (m *mockDatePitchRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.DatePitch, error) {
	if m.getByID != nil {
		return m.getByID(ctx, id)
	}
	return domain.DatePitch{}, domain.ErrNotFound
}

func (m *mockDatePitchRepo) ListResultsByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DatePitchResult, error) {
	if m.listResultsByTrip != nil {
		return m.listResultsByTrip(ctx, tripID)
	}
	return nil, nil
}

var _ repo.DatePitchRepo = (*mockDatePitchRepo)(nil)

// ---- DateVoteRepo -----------------------------------------------------------

type mockDateVoteRepo struct {
	upsert      func(ctx context.Context, vote domain.DateVote) (domain.DateVote, error)
	listByPitch func(ctx context.Context, pitchID uuid.UUID) ([]domain.DateVote, error)
}

func (m *mockDateVoteRepo) Upsert(ctx context.Context, vote domain.DateVote) (domain.DateVote, error) {
	if m.upsert != nil {
		return m.upsert(ctx, vote)
	}
	return vote, nil
}

func (m *mockDateVoteRepo) ListByPitch(ctx context.Context, pitchID uuid.UUID) ([]domain.DateVote, error) {
	if m.listByPitch != nil {
		return m.listByPitch(ctx, pitchID)
	}
	return nil, nil
}

var _ repo.DateVoteRepo = (*mockDateVoteRepo)(nil)

// ---- DestinationPitchRepo ---------------------------------------------------

type mockDestPitchRepo struct {
	create            func(ctx context.Context, pitch domain.DestinationPitch) (domain.DestinationPitch, error)
	getByID           func(ctx context.Context, id uuid.UUID) (domain.DestinationPitch, error)
	listResultsByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.DestinationPitchResult, error)
}

func (m *mockDestPitchRepo) Create(ctx context.Context, pitch domain.DestinationPitch) (domain.DestinationPitch, error) {
	if m.create != nil {
		return m.create(ctx, pitch)
	}
	pitch.ID = uuid.New()
	return pitch, nil
}

func (m *mockDestPitchRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.DestinationPitch, error) {
	if m.getByID != nil {
		return m.getByID(ctx, id)
	}
	return domain.DestinationPitch{}, domain.ErrNotFound
}

func (m *mockDestPitchRepo) ListResultsByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DestinationPitchResult, error) {
	if m.listResultsByTrip != nil {
		return m.listResultsByTrip(ctx, tripID)
	}
	return nil, nil
}

var _ repo.DestinationPitchRepo = (*mockDestPitchRepo)(nil)

// ---- DestinationVoteRepo ----------------------------------------------------

type mockDestVoteRepo struct {
	upsert     func(ctx context.Context, vote domain.DestinationVote) (domain.DestinationVote, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.DestinationVote, error)
}

func (m *mockDestVoteRepo) Upsert(ctx context.Context, vote domain.DestinationVote) (domain.DestinationVote, error) {
	if m.upsert != nil {
		return m.upsert(ctx, vote)
	}
	return vote, nil
}

func (m *mockDestVoteRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DestinationVote, error) {
	if m.listByTrip != nil {
		return m.listByTrip(ctx, tripID)
	}
	return nil, nil
}

var _ repo.DestinationVoteRepo = (*mockDestVoteRepo)(nil)

// ---- TravelRepo -------------------------------------------------------------

type mockTravelRepo struct {
	upsert     func(ctx context.Context, tc domain.TravelConfirmation) (domain.TravelConfirmation, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID) ([]domain.TravelConfirmation, error)
}

func (m *mockTravelRepo) Upsert(ctx context.Context, tc domain.TravelConfirmation) (domain.TravelConfirmation, error) {
	if m.upsert != nil {
		return m.upsert(ctx, tc)
	}
	return tc, nil
}

func (m *mockTravelRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TravelConfirmation, error) {
	if m.listByTrip != nil {
		return m.listByTrip(ctx, tripID)
	}
	return nil, nil
}

var _ repo.TravelRepo = (*mockTravelRepo)(nil)

// ---- ActivityRepo -----------------------------------------------------------

type mockActivityRepo struct {
	create     func(ctx context.Context, a domain.Activity) (domain.Activity, error)
	listByTrip func(ctx context.Context, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Activity, int64, error)
}

func (m *mockActivityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	if m.create != nil {
		return m.create(ctx, a)
	}
	a.ID = uuid.New()
	return a, nil
}

func (m *mockActivityRepo) ListByTrip(ctx context.Context, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Activity, int64, error) {
	if m.listByTrip != nil {
		return m.listByTrip(ctx, tripID, p)
	}
	return nil, 0, nil
}

var _ repo.ActivityRepo = (*mockActivityRepo)(nil)

// ---- UserRepo ---------------------------------------------------------------

type mockUserRepo struct {
	create     func(ctx context.Context, user domain.User) (domain.User, error)
	getByID    func(ctx context.Context, id uuid.UUID) (domain.User, error)
	getByEmail func(ctx context.Context, email string) (domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, user domain.User) (domain.User, error) {
	if m.create != nil {
		return m.create(ctx, user)
	}
	user.ID = uuid.New()
	return user, nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	if m.getByID != nil {
		return m.getByID(ctx, id)
	}
	return domain.User{}, domain.ErrNotFound
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	if m.getByEmail != nil {
		return m.getByEmail(ctx, email)
	}
	return domain.User{}, domain.ErrNotFound
}

var _ repo.UserRepo = (*mockUserRepo)(nil)

// ---- bundle helpers ---------------------------------------------------------

// testRepos is the mutable mock bundle a test wires before building services.
type testRepos struct {
	users        *mockUserRepo
	trips        *mockTripRepo
	participants *mockParticipantRepo
	datePitches  *mockDatePitchRepo
	dateVotes    *mockDateVoteRepo
	destPitches  *mockDestPitchRepo
	destVotes    *mockDestVoteRepo
	travel       *mockTravelRepo
	activities   *mockActivityRepo
}

func newTestRepos() *testRepos {
	return &testRepos{
		users:        &mockUserRepo{},
		trips:        &mockTripRepo{},
		participants: &mockParticipantRepo{},
		datePitches:  &mockDatePitchRepo{},
		dateVotes:    &mockDateVoteRepo{},
		destPitches:  &mockDestPitchRepo{},
		destVotes:    &mockDestVoteRepo{},
		travel:       &mockTravelRepo{},
		activities:   &mockActivityRepo{},
	}
}

// bundle assembles the repo.Repos the services consume.
func (tr *testRepos) bundle() repo.Repos {
	return repo.Repos{
		Users:        tr.users,
		Trips:        tr.trips,
		Participants: tr.participants,
		DatePitches:  tr.datePitches,
		DateVotes:    tr.dateVotes,
		DestPitches:  tr.destPitches,
		DestVotes:    tr.destVotes,
		Travel:       tr.travel,
		Activities:   tr.activities,
	}
}

// tx returns a TxRunner that executes against the same mock bundle.
func (tr *testRepos) tx() repo.TxRunner {
	return &mockTxRunner{repos: tr.bundle()}
}

// going wires the participant lookup to report the given user as a GOING
// participant of any trip.
func (tr *testRepos) going(userID uuid.UUID) {
	tr.participants.get = func(_ context.Context, tripID, uid uuid.UUID) (domain.Participant, error) {
		if uid != userID {
			return domain.Participant{}, domain.ErrNotFound
		}
		return domain.Participant{TripID: tripID, UserID: uid, RSVPStatus: domain.RSVPGoing, Role: domain.RoleParticipant}, nil
	}
}

// tripInPhase wires the trip lookup to return a trip in the given phase.
func (tr *testRepos) tripInPhase(trip domain.Trip) {
	tr.trips.getByID = func(_ context.Context, id uuid.UUID) (domain.Trip, error) {
		if id != trip.ID {
			return domain.Trip{}, domain.ErrNotFound
		}
		return trip, nil
	}
}
