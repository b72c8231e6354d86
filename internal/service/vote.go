package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tripcrew/tripcrew-api/internal/domain"
	"github.com/tripcrew/tripcrew-api/internal/repo"
)

// VoteService implements date availability voting.
type VoteService struct {
	repos repo.Repos
	tx    repo.TxRunner
	clock domain.Clock
}

// NewVoteService constructs a VoteService.
func NewVoteService(repos repo.Repos, tx repo.TxRunner, clock domain.Clock) *VoteService {
	return &VoteService{repos: repos, tx: tx, clock: clock}
}

// CastDateVote records the actor's availability for a date pitch.
//
// Guards run in order: authentication, pitch existence, DATES phase, voting
// window (ErrVotingNotOpen before the pitch deadline, ErrVotingClosed from
// the voting deadline on), GOING participant, vote type, and for PARTIAL a
// non-empty selection with every date inside the pitch range inclusive.
//
// A re-vote replaces the actor's previous row entirely; selections are never
// merged. The vote and its DATE_VOTE_CAST feed entry commit atomically.
func (s *VoteService) CastDateVote(ctx context.Context, pitchID uuid.UUID, voteType domain.DateVoteType, selectedDates []time.Time, actor uuid.UUID) (domain.DateVote, error) {
	if actor == uuid.Nil {
		return domain.DateVote{}, domain.ErrUnauthenticated
	}
	pitch, err := s.repos.DatePitches.GetByID(ctx, pitchID)
	if err != nil {
		return domain.DateVote{}, fmt.Errorf("service.VoteService.CastDateVote: %w", err)
	}
	trip, err := s.repos.Trips.GetByID(ctx, pitch.TripID)
	if err != nil {
		return domain.DateVote{}, fmt.Errorf("service.VoteService.CastDateVote: %w", err)
	}
	if trip.Phase != domain.PhaseDates {
		return domain.DateVote{}, fmt.Errorf("%w: date votes are only accepted in the DATES phase", domain.ErrInvalidPhase)
	}

	switch votingWindow(trip, pitch).State(s.clock.Now()) {
	case domain.ProposalsOpen:
		return domain.DateVote{}, fmt.Errorf("service.VoteService.CastDateVote: %w", domain.ErrVotingNotOpen)
	case domain.VotingClosed:
		return domain.DateVote{}, fmt.Errorf("service.VoteService.CastDateVote: %w", domain.ErrVotingClosed)
	}

	if _, err := requireGoing(ctx, s.repos.Participants, trip.ID, actor); err != nil {
		return domain.DateVote{}, fmt.Errorf("service.VoteService.CastDateVote: %w", err)
	}
	if !voteType.Valid() {
		return domain.DateVote{}, fmt.Errorf("%w: unknown vote type %q", domain.ErrValidation, voteType)
	}

	var selection []time.Time
	if voteType == domain.VotePartial {
		selection, err = validateSelectedDates(pitch, selectedDates)
		if err != nil {
			return domain.DateVote{}, err
		}
	}

	var cast domain.DateVote
	err = s.tx.RunInTx(ctx, func(r repo.Repos) error {
		cast, err = r.DateVotes.Upsert(ctx, domain.DateVote{
			PitchID:       pitchID,
			UserID:        actor,
			VoteType:      voteType,
			SelectedDates: selection,
		})
		if err != nil {
			return err
		}
		_, err = r.Activities.Create(ctx, domain.Activity{
			TripID:   trip.ID,
			UserID:   actor,
			Type:     domain.ActivityDateVoteCast,
			Metadata: map[string]any{"vote_type": string(voteType)},
		})
		return err
	})
	if err != nil {
		return domain.DateVote{}, fmt.Errorf("service.VoteService.CastDateVote: %w", err)
	}
	return cast, nil
}

// validateSelectedDates normalizes a PARTIAL selection to calendar dates and
// rejects empty selections or dates outside [pitch.StartDate, pitch.EndDate].
func validateSelectedDates(pitch domain.DatePitch, dates []time.Time) ([]time.Time, error) {
	if len(dates) == 0 {
		return nil, fmt.Errorf("%w: a PARTIAL vote needs at least one selected date", domain.ErrValidation)
	}
	out := make([]time.Time, len(dates))
	for i, d := range dates {
		day := domain.ToDate(d)
		if day.Before(pitch.StartDate) || day.After(pitch.EndDate) {
			return nil, fmt.Errorf("%w: selected date %s is outside the pitched range", domain.ErrValidation, day.Format(time.DateOnly))
		}
		out[i] = day
	}
	return out, nil
}
