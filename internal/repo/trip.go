package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripcrew/tripcrew-api/internal/domain"
)

// TripRepo defines the persistence operations for Trips.
// The service layer depends on this interface, not the concrete Postgres
// implementation, which allows the service to be unit-tested with a mock.
type TripRepo interface {
	// Create inserts a new trip and returns the persisted record (with
	// DB-generated id, created_at, and updated_at populated).
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a single trip by its UUID primary key.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// GetByJoinToken retrieves a trip by its opaque join token.
	// Returns domain.ErrNotFound if the token matches no trip.
	GetByJoinToken(ctx context.Context, token string) (domain.Trip, error)

	// ListForUser returns all trips the user participates in, newest first.
	ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error)

	// SetDatePitchDeadline updates the trip's pitch deadline and voting
	// duration together. Returns domain.ErrNotFound if the trip is absent.
	SetDatePitchDeadline(ctx context.Context, tripID uuid.UUID, deadline time.Time, durationDays int) (domain.Trip, error)

	// SetPhase moves the trip to the given phase.
	// Returns domain.ErrNotFound if the trip is absent.
	SetPhase(ctx context.Context, tripID uuid.UUID, phase domain.Phase) (domain.Trip, error)
}

type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

const tripColumns = `id, title, description, organizer_id, phase,
		date_pitch_deadline, voting_duration_days, join_token, created_at, updated_at`

func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	const q = `
		INSERT INTO trips (title, description, organizer_id, phase, voting_duration_days, join_token)
		VALUES (@title, @description, @organizer_id, @phase, @voting_duration_days, @join_token)
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"title":                trip.Title,
		"description":          trip.Description,
		"organizer_id":         trip.OrganizerID,
		"phase":                trip.Phase,
		"voting_duration_days": trip.VotingDurationDays,
		"join_token":           trip.JoinToken,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE id = @id`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) GetByJoinToken(ctx context.Context, token string) (domain.Trip, error) {
	const q = `SELECT ` + tripColumns + ` FROM trips WHERE join_token = @token`

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"token": token}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByJoinToken: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) ListForUser(ctx context.Context, userID uuid.UUID) ([]domain.Trip, error) {
	const q = `
		SELECT t.id, t.title, t.description, t.organizer_id, t.phase,
		       t.date_pitch_deadline, t.voting_duration_days, t.join_token,
		       t.created_at, t.updated_at
		FROM trips t
		JOIN trip_participants p ON p.trip_id = t.id
		WHERE p.user_id = @user_id
		ORDER BY t.created_at DESC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"user_id": userID})
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListForUser: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.ListForUser: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.ListForUser: rows: %w", err)
	}

	return trips, nil
}

func (r *pgTripRepo) SetDatePitchDeadline(ctx context.Context, tripID uuid.UUID, deadline time.Time, durationDays int) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET date_pitch_deadline  = @deadline,
		    voting_duration_days = @duration_days,
		    updated_at           = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	args := pgx.NamedArgs{
		"id":            tripID,
		"deadline":      deadline,
		"duration_days": durationDays,
	}

	result, err := scanTrip(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.SetDatePitchDeadline: %w", err)
	}
	return result, nil
}

func (r *pgTripRepo) SetPhase(ctx context.Context, tripID uuid.UUID, phase domain.Phase) (domain.Trip, error) {
	const q = `
		UPDATE trips
		SET phase = @phase, updated_at = now()
		WHERE id = @id
		RETURNING ` + tripColumns

	result, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": tripID, "phase": phase}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.SetPhase: %w", err)
	}
	return result, nil
}

// scanTrip maps a single database row into a domain.Trip.
// It handles the UUID and nullable deadline conversions.
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t        domain.Trip
		id       pgtype.UUID
		orgID    pgtype.UUID
		deadline pgtype.Timestamptz
	)

	err := s.Scan(&id, &t.Title, &t.Description, &orgID, &t.Phase,
		&deadline, &t.VotingDurationDays, &t.JoinToken, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.OrganizerID = uuid.UUID(orgID.Bytes)
	if deadline.Valid {
		d := deadline.Time
		t.DatePitchDeadline = &d
	}

	return t, nil
}
