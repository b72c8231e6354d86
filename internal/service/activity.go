package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/tripcrew/tripcrew-api/internal/domain"
	"github.com/tripcrew/tripcrew-api/internal/repo"
)

// ActivityService reads the append-only trip feed. Writes happen inside the
// mutating services' transactions, never here.
type ActivityService struct {
	repos repo.Repos
}

// NewActivityService constructs an ActivityService.
func NewActivityService(repos repo.Repos) *ActivityService {
	return &ActivityService{repos: repos}
}

// ListByTrip returns a page of the trip's feed newest-first.
// Readable by the organizer and participants of any RSVP status.
func (s *ActivityService) ListByTrip(ctx context.Context, tripID, actor uuid.UUID, p domain.PaginationParams) ([]domain.Activity, int64, error) {
	if actor == uuid.Nil {
		return nil, 0, domain.ErrUnauthenticated
	}
	if _, err := s.repos.Trips.GetByID(ctx, tripID); err != nil {
		return nil, 0, fmt.Errorf("service.ActivityService.ListByTrip: %w", err)
	}
	if _, err := requireParticipant(ctx, s.repos.Participants, tripID, actor); err != nil {
		return nil, 0, fmt.Errorf("service.ActivityService.ListByTrip: %w", err)
	}

	activities, total, err := s.repos.Activities.ListByTrip(ctx, tripID, p)
	if err != nil {
		return nil, 0, fmt.Errorf("service.ActivityService.ListByTrip: %w", err)
	}
	if activities == nil {
		activities = []domain.Activity{}
	}
	return activities, total, nil
}
