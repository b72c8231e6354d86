package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripcrew/tripcrew-api/internal/domain"
)

// ActivityRepo defines the persistence operations for the append-only
// activity feed. There are no update or delete operations on purpose.
type ActivityRepo interface {
	// Create appends an activity entry. Callers run it in the same
	// transaction as the mutation the entry describes.
	Create(ctx context.Context, a domain.Activity) (domain.Activity, error)

	// ListByTrip returns a page of the trip's feed newest-first, with voter
	// usernames attached, plus the total entry count for pagination.
	ListByTrip(ctx context.Context, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Activity, int64, error)
}

type pgActivityRepo struct {
	db db
}

// NewActivityRepo constructs an ActivityRepo backed by the provided db connection.
func NewActivityRepo(db db) ActivityRepo {
	return &pgActivityRepo{db: db}
}

func (r *pgActivityRepo) Create(ctx context.Context, a domain.Activity) (domain.Activity, error) {
	metadata := a.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Create: encode metadata: %w", err)
	}

	const q = `
		INSERT INTO activities (trip_id, user_id, type, metadata)
		VALUES (@trip_id, @user_id, @type, @metadata)
		RETURNING id, trip_id, user_id, type, metadata, created_at`

	args := pgx.NamedArgs{
		"trip_id":  a.TripID,
		"user_id":  a.UserID,
		"type":     a.Type,
		"metadata": raw,
	}

	result, err := scanActivity(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Activity{}, fmt.Errorf("repo.ActivityRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgActivityRepo) ListByTrip(ctx context.Context, tripID uuid.UUID, p domain.PaginationParams) ([]domain.Activity, int64, error) {
	const countQ = `SELECT count(*) FROM activities WHERE trip_id = @trip_id`

	var total int64
	if err := r.db.QueryRow(ctx, countQ, pgx.NamedArgs{"trip_id": tripID}).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("repo.ActivityRepo.ListByTrip: count: %w", err)
	}

	const q = `
		SELECT a.id, a.trip_id, a.user_id, a.type, a.metadata, a.created_at, u.username
		FROM activities a
		JOIN users u ON u.id = a.user_id
		WHERE a.trip_id = @trip_id
		ORDER BY a.created_at DESC
		LIMIT @limit OFFSET @offset`

	args := pgx.NamedArgs{
		"trip_id": tripID,
		"limit":   p.Limit,
		"offset":  p.Offset(),
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, 0, fmt.Errorf("repo.ActivityRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	var activities []domain.Activity
	for rows.Next() {
		var (
			a      domain.Activity
			id     pgtype.UUID
			tripID pgtype.UUID
			userID pgtype.UUID
			raw    []byte
		)
		err := rows.Scan(&id, &tripID, &userID, &a.Type, &raw, &a.CreatedAt, &a.Username)
		if err != nil {
			return nil, 0, fmt.Errorf("repo.ActivityRepo.ListByTrip: scan: %w", err)
		}
		a.ID = uuid.UUID(id.Bytes)
		a.TripID = uuid.UUID(tripID.Bytes)
		a.UserID = uuid.UUID(userID.Bytes)
		if len(raw) > 0 {
			_ = json.Unmarshal(raw, &a.Metadata)
		}
		activities = append(activities, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("repo.ActivityRepo.ListByTrip: rows: %w", err)
	}

	return activities, total, nil
}

func scanActivity(s scanner) (domain.Activity, error) {
	var (
		a      domain.Activity
		id     pgtype.UUID
		tripID pgtype.UUID
		userID pgtype.UUID
		raw    []byte
	)
	err := s.Scan(&id, &tripID, &userID, &a.Type, &raw, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Activity{}, domain.ErrNotFound
		}
		return domain.Activity{}, err
	}
	a.ID = uuid.UUID(id.Bytes)
	a.TripID = uuid.UUID(tripID.Bytes)
	a.UserID = uuid.UUID(userID.Bytes)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &a.Metadata)
	}
	return a, nil
}
