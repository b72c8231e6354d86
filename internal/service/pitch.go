package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tripcrew/tripcrew-api/internal/domain"
	"github.com/tripcrew/tripcrew-api/internal/repo"
)

// PitchService implements date-pitch creation and listing.
type PitchService struct {
	repos repo.Repos
	tx    repo.TxRunner
	clock domain.Clock
}

// NewPitchService constructs a PitchService.
func NewPitchService(repos repo.Repos, tx repo.TxRunner, clock domain.Clock) *PitchService {
	return &PitchService{repos: repos, tx: tx, clock: clock}
}

// CreateDatePitch proposes a date range for the trip.
//
// Guards run in order: authentication, trip existence, DATES phase, GOING
// participant, end after start, deadline set, deadline not passed. A pitch
// arriving exactly at the deadline instant is rejected — the boundary belongs
// to the voting window. On success the trip's current deadlines are
// snapshotted onto the pitch and a DATE_PITCH_CREATED entry lands in the
// feed, atomically with the pitch itself.
func (s *PitchService) CreateDatePitch(ctx context.Context, tripID uuid.UUID, startDate, endDate time.Time, description string, actor uuid.UUID) (domain.DatePitch, error) {
	if actor == uuid.Nil {
		return domain.DatePitch{}, domain.ErrUnauthenticated
	}
	trip, err := s.repos.Trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.DatePitch{}, fmt.Errorf("service.PitchService.CreateDatePitch: %w", err)
	}
	if trip.Phase != domain.PhaseDates {
		return domain.DatePitch{}, fmt.Errorf("%w: date pitches are only accepted in the DATES phase", domain.ErrInvalidPhase)
	}
	if _, err := requireGoing(ctx, s.repos.Participants, tripID, actor); err != nil {
		return domain.DatePitch{}, fmt.Errorf("service.PitchService.CreateDatePitch: %w", err)
	}

	start := domain.ToDate(startDate)
	end := domain.ToDate(endDate)
	if !end.After(start) {
		return domain.DatePitch{}, fmt.Errorf("%w: end date must be after start date", domain.ErrValidation)
	}
	if trip.DatePitchDeadline == nil {
		return domain.DatePitch{}, fmt.Errorf("service.PitchService.CreateDatePitch: %w", domain.ErrDeadlineMissing)
	}
	window := trip.Window()
	if window.State(s.clock.Now()) != domain.ProposalsOpen {
		return domain.DatePitch{}, fmt.Errorf("service.PitchService.CreateDatePitch: %w", domain.ErrDeadlinePassed)
	}

	var created domain.DatePitch
	err = s.tx.RunInTx(ctx, func(r repo.Repos) error {
		created, err = r.DatePitches.Create(ctx, domain.DatePitch{
			TripID:         tripID,
			StartDate:      start,
			EndDate:        end,
			Description:    description,
			PitchedByID:    actor,
			PitchDeadline:  *window.PitchDeadline,
			VotingDeadline: *window.VotingDeadline,
		})
		if err != nil {
			return err
		}
		_, err = r.Activities.Create(ctx, domain.Activity{
			TripID: tripID,
			UserID: actor,
			Type:   domain.ActivityDatePitchCreated,
			Metadata: map[string]any{
				"start_date": start.Format(time.DateOnly),
				"end_date":   end.Format(time.DateOnly),
			},
		})
		return err
	})
	if err != nil {
		return domain.DatePitch{}, fmt.Errorf("service.PitchService.CreateDatePitch: %w", err)
	}
	return created, nil
}

// ListDatePitches returns the trip's pitches newest-first, votes and voter
// names attached, each with its best range computed fresh from the current
// vote set. Readable by the organizer and participants of any RSVP status.
// Always returns a non-nil slice so callers can safely range over it.
func (s *PitchService) ListDatePitches(ctx context.Context, tripID, actor uuid.UUID) ([]domain.DatePitchResult, error) {
	if actor == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	if _, err := s.repos.Trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.PitchService.ListDatePitches: %w", err)
	}
	if _, err := requireParticipant(ctx, s.repos.Participants, tripID, actor); err != nil {
		return nil, fmt.Errorf("service.PitchService.ListDatePitches: %w", err)
	}

	results, err := s.repos.DatePitches.ListResultsByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.PitchService.ListDatePitches: %w", err)
	}
	for i := range results {
		results[i].BestRange = domain.ComputeBestDateRange(results[i].DatePitch, results[i].Votes)
	}
	if results == nil {
		results = []domain.DatePitchResult{}
	}
	return results, nil
}
