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

// TravelRepo defines the persistence operations for travel confirmations.
type TravelRepo interface {
	// Upsert inserts the confirmation or replaces the existing row for
	// (trip, user).
	Upsert(ctx context.Context, tc domain.TravelConfirmation) (domain.TravelConfirmation, error)

	// ListByTrip returns all confirmations for a trip with usernames attached,
	// oldest first.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TravelConfirmation, error)
}

type pgTravelRepo struct {
	db db
}

// NewTravelRepo constructs a TravelRepo backed by the provided db connection.
func NewTravelRepo(db db) TravelRepo {
	return &pgTravelRepo{db: db}
}

func (r *pgTravelRepo) Upsert(ctx context.Context, tc domain.TravelConfirmation) (domain.TravelConfirmation, error) {
	const q = `
		INSERT INTO travel_confirmations (trip_id, user_id, is_booked, notes)
		VALUES (@trip_id, @user_id, @is_booked, @notes)
		ON CONFLICT (trip_id, user_id) DO UPDATE
		SET is_booked  = EXCLUDED.is_booked,
		    notes      = EXCLUDED.notes,
		    updated_at = now()
		RETURNING trip_id, user_id, is_booked, notes, created_at, updated_at`

	args := pgx.NamedArgs{
		"trip_id":   tc.TripID,
		"user_id":   tc.UserID,
		"is_booked": tc.IsBooked,
		"notes":     tc.Notes,
	}

	var (
		out    domain.TravelConfirmation
		tripID pgtype.UUID
		userID pgtype.UUID
	)
	err := r.db.QueryRow(ctx, q, args).Scan(&tripID, &userID, &out.IsBooked, &out.Notes, &out.CreatedAt, &out.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TravelConfirmation{}, domain.ErrNotFound
		}
		return domain.TravelConfirmation{}, fmt.Errorf("repo.TravelRepo.Upsert: %w", err)
	}
	out.TripID = uuid.UUID(tripID.Bytes)
	out.UserID = uuid.UUID(userID.Bytes)
	return out, nil
}

func (r *pgTravelRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TravelConfirmation, error) {
	const q = `
		SELECT tc.trip_id, tc.user_id, tc.is_booked, tc.notes,
		       tc.created_at, tc.updated_at, u.username
		FROM travel_confirmations tc
		JOIN users u ON u.id = tc.user_id
		WHERE tc.trip_id = @trip_id
		ORDER BY tc.created_at ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.TravelRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	var confirmations []domain.TravelConfirmation
	for rows.Next() {
		var (
			tc  domain.TravelConfirmation
			tID pgtype.UUID
			uID pgtype.UUID
		)
		err := rows.Scan(&tID, &uID, &tc.IsBooked, &tc.Notes, &tc.CreatedAt, &tc.UpdatedAt, &tc.Username)
		if err != nil {
			return nil, fmt.Errorf("repo.TravelRepo.ListByTrip: scan: %w", err)
		}
		tc.TripID = uuid.UUID(tID.Bytes)
		tc.UserID = uuid.UUID(uID.Bytes)
		confirmations = append(confirmations, tc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TravelRepo.ListByTrip: rows: %w", err)
	}

	return confirmations, nil
}
