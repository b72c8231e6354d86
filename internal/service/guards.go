package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/tripcrew/tripcrew-api/internal/domain"
	"github.com/tripcrew/tripcrew-api/internal/repo"
)

func errorsIsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}

// requireParticipant resolves the actor's participant row for the trip.
// A missing row becomes ErrForbidden: the trip exists, the actor just is not
// on it.
func requireParticipant(ctx context.Context, participants repo.ParticipantRepo, tripID, actor uuid.UUID) (domain.Participant, error) {
	p, err := participants.Get(ctx, tripID, actor)
	if err != nil {
		if errorsIsNotFound(err) {
			return domain.Participant{}, fmt.Errorf("%w: not a participant of this trip", domain.ErrForbidden)
		}
		return domain.Participant{}, err
	}
	return p, nil
}

// requireGoing is requireParticipant plus the RSVP gate: only GOING
// participants may pitch or vote.
func requireGoing(ctx context.Context, participants repo.ParticipantRepo, tripID, actor uuid.UUID) (domain.Participant, error) {
	p, err := requireParticipant(ctx, participants, tripID, actor)
	if err != nil {
		return domain.Participant{}, err
	}
	if !p.CanVote() {
		return domain.Participant{}, fmt.Errorf("%w: only GOING participants may do this", domain.ErrForbidden)
	}
	return p, nil
}

// votingWindow resolves the window that gates a pitch's votes: the trip's
// live settings when the organizer has a deadline set, otherwise the
// snapshot frozen onto the pitch at creation time.
func votingWindow(trip domain.Trip, pitch domain.DatePitch) domain.VotingWindow {
	if trip.DatePitchDeadline != nil {
		return trip.Window()
	}
	return pitch.SnapshotWindow()
}
