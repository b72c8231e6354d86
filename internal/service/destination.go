package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/tripcrew/tripcrew-api/internal/domain"
	"github.com/tripcrew/tripcrew-api/internal/repo"
)

// DestinationService implements destination pitching and ranked-choice voting.
type DestinationService struct {
	repos repo.Repos
	tx    repo.TxRunner
}

// NewDestinationService constructs a DestinationService.
func NewDestinationService(repos repo.Repos, tx repo.TxRunner) *DestinationService {
	return &DestinationService{repos: repos, tx: tx}
}

// CreatePitch proposes a destination. DESTINATION phase, GOING participants
// only. The pitch and its feed entry commit atomically.
func (s *DestinationService) CreatePitch(ctx context.Context, tripID uuid.UUID, location, description string, actor uuid.UUID) (domain.DestinationPitch, error) {
	if actor == uuid.Nil {
		return domain.DestinationPitch{}, domain.ErrUnauthenticated
	}
	trip, err := s.repos.Trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.DestinationPitch{}, fmt.Errorf("service.DestinationService.CreatePitch: %w", err)
	}
	if trip.Phase != domain.PhaseDestination {
		return domain.DestinationPitch{}, fmt.Errorf("%w: destination pitches are only accepted in the DESTINATION phase", domain.ErrInvalidPhase)
	}
	if _, err := requireGoing(ctx, s.repos.Participants, tripID, actor); err != nil {
		return domain.DestinationPitch{}, fmt.Errorf("service.DestinationService.CreatePitch: %w", err)
	}
	if strings.TrimSpace(location) == "" {
		return domain.DestinationPitch{}, fmt.Errorf("%w: location is required", domain.ErrValidation)
	}

	var created domain.DestinationPitch
	err = s.tx.RunInTx(ctx, func(r repo.Repos) error {
		created, err = r.DestPitches.Create(ctx, domain.DestinationPitch{
			TripID:      tripID,
			Location:    strings.TrimSpace(location),
			Description: description,
			PitchedByID: actor,
		})
		if err != nil {
			return err
		}
		_, err = r.Activities.Create(ctx, domain.Activity{
			TripID:   tripID,
			UserID:   actor,
			Type:     domain.ActivityDestinationPitchCreated,
			Metadata: map[string]any{"location": created.Location},
		})
		return err
	})
	if err != nil {
		return domain.DestinationPitch{}, fmt.Errorf("service.DestinationService.CreatePitch: %w", err)
	}
	return created, nil
}

// CastVote records the actor's 1-based ranking of a destination pitch.
// The ranking must be distinct from the actor's rankings of the trip's other
// pitches; re-ranking the same pitch replaces the old row.
func (s *DestinationService) CastVote(ctx context.Context, pitchID uuid.UUID, ranking int, actor uuid.UUID) (domain.DestinationVote, error) {
	if actor == uuid.Nil {
		return domain.DestinationVote{}, domain.ErrUnauthenticated
	}
	pitch, err := s.repos.DestPitches.GetByID(ctx, pitchID)
	if err != nil {
		return domain.DestinationVote{}, fmt.Errorf("service.DestinationService.CastVote: %w", err)
	}
	trip, err := s.repos.Trips.GetByID(ctx, pitch.TripID)
	if err != nil {
		return domain.DestinationVote{}, fmt.Errorf("service.DestinationService.CastVote: %w", err)
	}
	if trip.Phase != domain.PhaseDestination {
		return domain.DestinationVote{}, fmt.Errorf("%w: destination votes are only accepted in the DESTINATION phase", domain.ErrInvalidPhase)
	}
	if _, err := requireGoing(ctx, s.repos.Participants, trip.ID, actor); err != nil {
		return domain.DestinationVote{}, fmt.Errorf("service.DestinationService.CastVote: %w", err)
	}
	if ranking < 1 {
		return domain.DestinationVote{}, fmt.Errorf("%w: ranking must be 1 or greater", domain.ErrValidation)
	}

	// Distinctness check: the same rank may not point at two pitches.
	existing, err := s.repos.DestVotes.ListByTrip(ctx, trip.ID)
	if err != nil {
		return domain.DestinationVote{}, fmt.Errorf("service.DestinationService.CastVote: %w", err)
	}
	for _, v := range existing {
		if v.UserID == actor && v.Ranking == ranking && v.PitchID != pitchID {
			return domain.DestinationVote{}, fmt.Errorf("%w: rank %d is already assigned to another pitch", domain.ErrValidation, ranking)
		}
	}

	var cast domain.DestinationVote
	err = s.tx.RunInTx(ctx, func(r repo.Repos) error {
		cast, err = r.DestVotes.Upsert(ctx, domain.DestinationVote{
			PitchID: pitchID,
			UserID:  actor,
			Ranking: ranking,
		})
		if err != nil {
			return err
		}
		_, err = r.Activities.Create(ctx, domain.Activity{
			TripID:   trip.ID,
			UserID:   actor,
			Type:     domain.ActivityDestinationVoteCast,
			Metadata: map[string]any{"ranking": ranking},
		})
		return err
	})
	if err != nil {
		return domain.DestinationVote{}, fmt.Errorf("service.DestinationService.CastVote: %w", err)
	}
	return cast, nil
}

// ListPitches returns the trip's destination pitches in creation order with
// votes attached, plus the current instant-runoff result. Readable by the
// organizer and participants of any RSVP status.
func (s *DestinationService) ListPitches(ctx context.Context, tripID, actor uuid.UUID) ([]domain.DestinationPitchResult, domain.IRVResult, error) {
	if actor == uuid.Nil {
		return nil, domain.IRVResult{}, domain.ErrUnauthenticated
	}
	if _, err := s.repos.Trips.GetByID(ctx, tripID); err != nil {
		return nil, domain.IRVResult{}, fmt.Errorf("service.DestinationService.ListPitches: %w", err)
	}
	if _, err := requireParticipant(ctx, s.repos.Participants, tripID, actor); err != nil {
		return nil, domain.IRVResult{}, fmt.Errorf("service.DestinationService.ListPitches: %w", err)
	}

	results, err := s.repos.DestPitches.ListResultsByTrip(ctx, tripID)
	if err != nil {
		return nil, domain.IRVResult{}, fmt.Errorf("service.DestinationService.ListPitches: %w", err)
	}
	if results == nil {
		results = []domain.DestinationPitchResult{}
	}

	pitchOrder := make([]uuid.UUID, len(results))
	for i, p := range results {
		pitchOrder[i] = p.ID
	}

	votes, err := s.repos.DestVotes.ListByTrip(ctx, tripID)
	if err != nil {
		return nil, domain.IRVResult{}, fmt.Errorf("service.DestinationService.ListPitches: %w", err)
	}

	return results, domain.InstantRunoff(pitchOrder, buildBallots(votes)), nil
}

// buildBallots groups a trip's votes into one ranked ballot per voter.
// The repo returns votes ordered by user then ranking, so each voter's
// preference order is already contiguous and sorted.
func buildBallots(votes []domain.DestinationVote) []domain.RankedBallot {
	var ballots []domain.RankedBallot
	for _, v := range votes {
		if n := len(ballots); n > 0 && ballots[n-1].Voter == v.UserID {
			ballots[n-1].Ranking = append(ballots[n-1].Ranking, v.PitchID)
			continue
		}
		ballots = append(ballots, domain.RankedBallot{Voter: v.UserID, Ranking: []uuid.UUID{v.PitchID}})
	}
	return ballots
}
