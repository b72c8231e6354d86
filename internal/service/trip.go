// Package service contains the business logic for the TripCrew API.
// Services enforce the guard chains (authentication → existence → phase →
// RSVP → input validation → temporal window) and orchestrate repo calls.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tripcrew/tripcrew-api/internal/domain"
	"github.com/tripcrew/tripcrew-api/internal/repo"
)

// joinTokenLen is the length of the shareable join token.
const joinTokenLen = 16

const joinTokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// TripService implements trip lifecycle operations: creation, joining via
// token, RSVP changes, phase advancement, and the organizer's deadline
// settings.
type TripService struct {
	repos repo.Repos
	tx    repo.TxRunner
	clock domain.Clock
}

// NewTripService constructs a TripService. The clock is injected so tests can
// pin "now" exactly at deadline boundaries.
func NewTripService(repos repo.Repos, tx repo.TxRunner, clock domain.Clock) *TripService {
	return &TripService{repos: repos, tx: tx, clock: clock}
}

// Create persists a new trip in the DATES phase with a unique join token,
// the actor as its GOING organizer, and a TRIP_CREATED feed entry — all in
// one transaction.
func (s *TripService) Create(ctx context.Context, title, description string, actor uuid.UUID) (domain.Trip, error) {
	if actor == uuid.Nil {
		return domain.Trip{}, domain.ErrUnauthenticated
	}
	if strings.TrimSpace(title) == "" {
		return domain.Trip{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}

	token, err := s.uniqueJoinToken(ctx)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}

	var created domain.Trip
	err = s.tx.RunInTx(ctx, func(r repo.Repos) error {
		created, err = r.Trips.Create(ctx, domain.Trip{
			Title:              strings.TrimSpace(title),
			Description:        description,
			OrganizerID:        actor,
			Phase:              domain.PhaseDates,
			VotingDurationDays: 7,
			JoinToken:          token,
		})
		if err != nil {
			return err
		}
		_, err = r.Participants.Upsert(ctx, domain.Participant{
			TripID:     created.ID,
			UserID:     actor,
			RSVPStatus: domain.RSVPGoing,
			Role:       domain.RoleOrganizer,
		})
		if err != nil {
			return err
		}
		_, err = r.Activities.Create(ctx, domain.Activity{
			TripID:   created.ID,
			UserID:   actor,
			Type:     domain.ActivityTripCreated,
			Metadata: map[string]any{"trip_title": created.Title},
		})
		return err
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Create: %w", err)
	}
	return created, nil
}

// GetByID returns a trip the actor participates in.
func (s *TripService) GetByID(ctx context.Context, tripID, actor uuid.UUID) (domain.Trip, error) {
	if actor == uuid.Nil {
		return domain.Trip{}, domain.ErrUnauthenticated
	}
	trip, err := s.repos.Trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", err)
	}
	if _, err := s.repos.Participants.Get(ctx, tripID, actor); err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.GetByID: %w", domain.ErrForbidden)
	}
	return trip, nil
}

// ListForUser returns all trips the actor participates in, newest first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TripService) ListForUser(ctx context.Context, actor uuid.UUID) ([]domain.Trip, error) {
	if actor == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	trips, err := s.repos.Trips.ListForUser(ctx, actor)
	if err != nil {
		return nil, fmt.Errorf("service.TripService.ListForUser: %w", err)
	}
	if trips == nil {
		trips = []domain.Trip{}
	}
	return trips, nil
}

// Join adds the actor to the trip identified by its join token, or updates
// their RSVP if they already participate. The organizer's role is never
// downgraded by joining their own trip again.
func (s *TripService) Join(ctx context.Context, token string, rsvp domain.RSVPStatus, actor uuid.UUID) (domain.Participant, error) {
	if actor == uuid.Nil {
		return domain.Participant{}, domain.ErrUnauthenticated
	}
	if !rsvp.Valid() {
		return domain.Participant{}, fmt.Errorf("%w: unknown rsvp status %q", domain.ErrValidation, rsvp)
	}

	trip, err := s.repos.Trips.GetByJoinToken(ctx, token)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.TripService.Join: %w", err)
	}

	var joined domain.Participant
	err = s.tx.RunInTx(ctx, func(r repo.Repos) error {
		joined, err = r.Participants.Upsert(ctx, domain.Participant{
			TripID:     trip.ID,
			UserID:     actor,
			RSVPStatus: rsvp,
			Role:       domain.RoleParticipant,
		})
		if err != nil {
			return err
		}
		_, err = r.Activities.Create(ctx, domain.Activity{
			TripID:   trip.ID,
			UserID:   actor,
			Type:     domain.ActivityUserJoined,
			Metadata: map[string]any{"rsvp_status": string(rsvp)},
		})
		return err
	})
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.TripService.Join: %w", err)
	}
	return joined, nil
}

// UpdateRSVP changes the actor's own RSVP status on a trip they already
// participate in. Allowed at any time in any phase.
func (s *TripService) UpdateRSVP(ctx context.Context, tripID uuid.UUID, rsvp domain.RSVPStatus, actor uuid.UUID) (domain.Participant, error) {
	if actor == uuid.Nil {
		return domain.Participant{}, domain.ErrUnauthenticated
	}
	if !rsvp.Valid() {
		return domain.Participant{}, fmt.Errorf("%w: unknown rsvp status %q", domain.ErrValidation, rsvp)
	}

	existing, err := s.repos.Participants.Get(ctx, tripID, actor)
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.TripService.UpdateRSVP: %w", err)
	}

	var updated domain.Participant
	err = s.tx.RunInTx(ctx, func(r repo.Repos) error {
		existing.RSVPStatus = rsvp
		updated, err = r.Participants.Upsert(ctx, existing)
		if err != nil {
			return err
		}
		_, err = r.Activities.Create(ctx, domain.Activity{
			TripID:   tripID,
			UserID:   actor,
			Type:     domain.ActivityRSVPChanged,
			Metadata: map[string]any{"rsvp_status": string(rsvp)},
		})
		return err
	})
	if err != nil {
		return domain.Participant{}, fmt.Errorf("service.TripService.UpdateRSVP: %w", err)
	}
	return updated, nil
}

// AdvancePhase moves the trip to the next planning phase. Organizer only;
// the sequence is monotonic and stops at COMPLETED.
func (s *TripService) AdvancePhase(ctx context.Context, tripID, actor uuid.UUID) (domain.Trip, error) {
	if actor == uuid.Nil {
		return domain.Trip{}, domain.ErrUnauthenticated
	}
	trip, err := s.repos.Trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.AdvancePhase: %w", err)
	}
	if trip.OrganizerID != actor {
		return domain.Trip{}, fmt.Errorf("service.TripService.AdvancePhase: %w", domain.ErrForbidden)
	}
	next, ok := trip.Phase.Next()
	if !ok {
		return domain.Trip{}, fmt.Errorf("%w: trip is already completed", domain.ErrInvalidPhase)
	}

	var updated domain.Trip
	err = s.tx.RunInTx(ctx, func(r repo.Repos) error {
		updated, err = r.Trips.SetPhase(ctx, tripID, next)
		if err != nil {
			return err
		}
		_, err = r.Activities.Create(ctx, domain.Activity{
			TripID:   tripID,
			UserID:   actor,
			Type:     domain.ActivityPhaseChanged,
			Metadata: map[string]any{"phase": string(next)},
		})
		return err
	})
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.AdvancePhase: %w", err)
	}
	return updated, nil
}

// SetDatePitchDeadline sets or moves the trip's proposal deadline and voting
// duration. Organizer only, DATES phase only. The deadline must be strictly
// in the future and the duration at least one day; violations leave the trip
// untouched. Setting a fresh deadline after voting closed deliberately
// re-opens the poll.
func (s *TripService) SetDatePitchDeadline(ctx context.Context, tripID uuid.UUID, deadline time.Time, durationDays int, actor uuid.UUID) (domain.Trip, error) {
	if actor == uuid.Nil {
		return domain.Trip{}, domain.ErrUnauthenticated
	}
	trip, err := s.repos.Trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.SetDatePitchDeadline: %w", err)
	}
	if trip.OrganizerID != actor {
		return domain.Trip{}, fmt.Errorf("service.TripService.SetDatePitchDeadline: %w", domain.ErrForbidden)
	}
	if trip.Phase != domain.PhaseDates {
		return domain.Trip{}, fmt.Errorf("%w: deadline can only be set in the DATES phase", domain.ErrInvalidPhase)
	}
	if !deadline.After(s.clock.Now()) {
		return domain.Trip{}, fmt.Errorf("%w: deadline must be in the future", domain.ErrValidation)
	}
	if durationDays < 1 {
		return domain.Trip{}, fmt.Errorf("%w: voting duration must be at least 1 day", domain.ErrValidation)
	}

	updated, err := s.repos.Trips.SetDatePitchDeadline(ctx, tripID, deadline, durationDays)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.SetDatePitchDeadline: %w", err)
	}
	return updated, nil
}

// uniqueJoinToken generates a random token and retries on the unlikely
// collision with an existing trip.
func (s *TripService) uniqueJoinToken(ctx context.Context) (string, error) {
	for attempt := 0; attempt < 10; attempt++ {
		token, err := randomToken(joinTokenLen)
		if err != nil {
			return "", err
		}
		_, err = s.repos.Trips.GetByJoinToken(ctx, token)
		if err != nil {
			if errorsIsNotFound(err) {
				return token, nil
			}
			return "", err
		}
	}
	return "", fmt.Errorf("could not generate a unique join token")
}

func randomToken(length int) (string, error) {
	var b strings.Builder
	max := big.NewInt(int64(len(joinTokenAlphabet)))
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(joinTokenAlphabet[n.Int64()])
	}
	return b.String(), nil
}
