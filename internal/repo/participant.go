package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripcrew/tripcrew-api/internal/domain"
)

// ParticipantRepo defines the persistence operations for trip participants.
type ParticipantRepo interface {
	// Upsert inserts the participant or, if a row for (trip, user) already
	// exists, updates its rsvp_status. The role of an existing row is never
	// changed by an upsert — the organizer stays the organizer.
	Upsert(ctx context.Context, p domain.Participant) (domain.Participant, error)

	// Get retrieves the participant row for (tripID, userID).
	// Returns domain.ErrNotFound if the user is not on the trip.
	Get(ctx context.Context, tripID, userID uuid.UUID) (domain.Participant, error)

	// ListByTrip returns all participants of a trip, organizer first, then by
	// join time.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error)
}

type pgParticipantRepo struct {
	db db
}

// NewParticipantRepo constructs a ParticipantRepo backed by the provided db connection.
func NewParticipantRepo(db db) ParticipantRepo {
	return &pgParticipantRepo{db: db}
}

func (r *pgParticipantRepo) Upsert(ctx context.Context, p domain.Participant) (domain.Participant, error) {
	const q = `
		INSERT INTO trip_participants (trip_id, user_id, rsvp_status, role)
		VALUES (@trip_id, @user_id, @rsvp_status, @role)
		ON CONFLICT (trip_id, user_id) DO UPDATE
		SET rsvp_status = EXCLUDED.rsvp_status,
		    updated_at  = now()
		RETURNING trip_id, user_id, rsvp_status, role, created_at, updated_at`

	args := pgx.NamedArgs{
		"trip_id":     p.TripID,
		"user_id":     p.UserID,
		"rsvp_status": p.RSVPStatus,
		"role":        p.Role,
	}

	result, err := scanParticipant(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Participant{}, fmt.Errorf("repo.ParticipantRepo.Upsert: %w", err)
	}
	return result, nil
}

func (r *pgParticipantRepo) Get(ctx context.Context, tripID, userID uuid.UUID) (domain.Participant, error) {
	const q = `
		SELECT trip_id, user_id, rsvp_status, role, created_at, updated_at
		FROM trip_participants
		WHERE trip_id = @trip_id AND user_id = @user_id`

	args := pgx.NamedArgs{"trip_id": tripID, "user_id": userID}
	result, err := scanParticipant(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Participant{}, fmt.Errorf("repo.ParticipantRepo.Get: %w", err)
	}
	return result, nil
}

func (r *pgParticipantRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.Participant, error) {
	const q = `
		SELECT trip_id, user_id, rsvp_status, role, created_at, updated_at
		FROM trip_participants
		WHERE trip_id = @trip_id
		ORDER BY (role = 'ORGANIZER') DESC, created_at ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ParticipantRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	var participants []domain.Participant
	for rows.Next() {
		p, err := scanParticipant(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ParticipantRepo.ListByTrip: scan: %w", err)
		}
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ParticipantRepo.ListByTrip: rows: %w", err)
	}

	return participants, nil
}

func scanParticipant(s scanner) (domain.Participant, error) {
	var (
		p      domain.Participant
		tripID pgtype.UUID
		userID pgtype.UUID
	)
	err := s.Scan(&tripID, &userID, &p.RSVPStatus, &p.Role, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Participant{}, domain.ErrNotFound
		}
		return domain.Participant{}, err
	}
	p.TripID = uuid.UUID(tripID.Bytes)
	p.UserID = uuid.UUID(userID.Bytes)
	return p, nil
}
