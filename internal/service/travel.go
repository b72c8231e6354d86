package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tripcrew/tripcrew-api/internal/domain"
	"github.com/tripcrew/tripcrew-api/internal/repo"
)

// TravelService implements the travel confirmation step of the
// TRAVEL_CONFIRMATION phase.
type TravelService struct {
	repos repo.Repos
	tx    repo.TxRunner
}

// NewTravelService constructs a TravelService.
func NewTravelService(repos repo.Repos, tx repo.TxRunner) *TravelService {
	return &TravelService{repos: repos, tx: tx}
}

// Confirm records whether the actor has booked their travel. One row per
// (trip, user), upserted; the confirmation and its TRAVEL_CONFIRMED feed
// entry commit atomically.
func (s *TravelService) Confirm(ctx context.Context, tripID uuid.UUID, isBooked bool, notes string, actor uuid.UUID) (domain.TravelConfirmation, error) {
	if actor == uuid.Nil {
		return domain.TravelConfirmation{}, domain.ErrUnauthenticated
	}
	trip, err := s.repos.Trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.TravelConfirmation{}, fmt.Errorf("service.TravelService.Confirm: %w", err)
	}
	if trip.Phase != domain.PhaseTravelConfirmation {
		return domain.TravelConfirmation{}, fmt.Errorf("%w: travel can only be confirmed in the TRAVEL_CONFIRMATION phase", domain.ErrInvalidPhase)
	}
	if _, err := requireGoing(ctx, s.repos.Participants, tripID, actor); err != nil {
		return domain.TravelConfirmation{}, fmt.Errorf("service.TravelService.Confirm: %w", err)
	}

	var confirmed domain.TravelConfirmation
	err = s.tx.RunInTx(ctx, func(r repo.Repos) error {
		confirmed, err = r.Travel.Upsert(ctx, domain.TravelConfirmation{
			TripID:   tripID,
			UserID:   actor,
			IsBooked: isBooked,
			Notes:    notes,
		})
		if err != nil {
			return err
		}
		_, err = r.Activities.Create(ctx, domain.Activity{
			TripID:   tripID,
			UserID:   actor,
			Type:     domain.ActivityTravelConfirmed,
			Metadata: map[string]any{"is_booked": isBooked},
		})
		return err
	})
	if err != nil {
		return domain.TravelConfirmation{}, fmt.Errorf("service.TravelService.Confirm: %w", err)
	}
	return confirmed, nil
}

// ListStatus returns everyone's travel confirmation for the trip.
// Readable by the organizer and participants of any RSVP status.
// Always returns a non-nil slice so callers can safely range over it.
func (s *TravelService) ListStatus(ctx context.Context, tripID, actor uuid.UUID) ([]domain.TravelConfirmation, error) {
	if actor == uuid.Nil {
		return nil, domain.ErrUnauthenticated
	}
	if _, err := s.repos.Trips.GetByID(ctx, tripID); err != nil {
		return nil, fmt.Errorf("service.TravelService.ListStatus: %w", err)
	}
	if _, err := requireParticipant(ctx, s.repos.Participants, tripID, actor); err != nil {
		return nil, fmt.Errorf("service.TravelService.ListStatus: %w", err)
	}

	confirmations, err := s.repos.Travel.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.TravelService.ListStatus: %w", err)
	}
	if confirmations == nil {
		confirmations = []domain.TravelConfirmation{}
	}
	return confirmations, nil
}
