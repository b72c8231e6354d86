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

// DestinationPitchRepo defines the persistence operations for destination pitches.
type DestinationPitchRepo interface {
	// Create inserts a new destination pitch and returns the persisted record.
	Create(ctx context.Context, pitch domain.DestinationPitch) (domain.DestinationPitch, error)

	// GetByID retrieves a single pitch by primary key.
	// Returns domain.ErrNotFound if no pitch with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.DestinationPitch, error)

	// ListResultsByTrip returns all destination pitches for a trip in creation
	// order (the order that defines the instant-runoff tie-break), each with
	// its votes and voter usernames attached via a single joined query.
	ListResultsByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DestinationPitchResult, error)
}

type pgDestinationPitchRepo struct {
	db db
}

// NewDestinationPitchRepo constructs a DestinationPitchRepo backed by the provided db connection.
func NewDestinationPitchRepo(db db) DestinationPitchRepo {
	return &pgDestinationPitchRepo{db: db}
}

func (r *pgDestinationPitchRepo) Create(ctx context.Context, pitch domain.DestinationPitch) (domain.DestinationPitch, error) {
	const q = `
		INSERT INTO destination_pitches (trip_id, location, description, pitched_by_id)
		VALUES (@trip_id, @location, @description, @pitched_by_id)
		RETURNING id, trip_id, location, description, pitched_by_id, created_at`

	args := pgx.NamedArgs{
		"trip_id":       pitch.TripID,
		"location":      pitch.Location,
		"description":   pitch.Description,
		"pitched_by_id": pitch.PitchedByID,
	}

	result, err := scanDestinationPitch(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.DestinationPitch{}, fmt.Errorf("repo.DestinationPitchRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgDestinationPitchRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.DestinationPitch, error) {
	const q = `
		SELECT id, trip_id, location, description, pitched_by_id, created_at
		FROM destination_pitches
		WHERE id = @id`

	result, err := scanDestinationPitch(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.DestinationPitch{}, fmt.Errorf("repo.DestinationPitchRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgDestinationPitchRepo) ListResultsByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DestinationPitchResult, error) {
	const pitchesQ = `
		SELECT p.id, p.trip_id, p.location, p.description, p.pitched_by_id,
		       p.created_at, u.username
		FROM destination_pitches p
		JOIN users u ON u.id = p.pitched_by_id
		WHERE p.trip_id = @trip_id
		ORDER BY p.created_at ASC`

	rows, err := r.db.Query(ctx, pitchesQ, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.DestinationPitchRepo.ListResultsByTrip: %w", err)
	}
	defer rows.Close()

	var results []domain.DestinationPitchResult
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			res  domain.DestinationPitchResult
			id   pgtype.UUID
			tID  pgtype.UUID
			byID pgtype.UUID
		)
		err := rows.Scan(&id, &tID, &res.Location, &res.Description, &byID,
			&res.CreatedAt, &res.PitchedBy)
		if err != nil {
			return nil, fmt.Errorf("repo.DestinationPitchRepo.ListResultsByTrip: scan: %w", err)
		}
		res.ID = uuid.UUID(id.Bytes)
		res.TripID = uuid.UUID(tID.Bytes)
		res.PitchedByID = uuid.UUID(byID.Bytes)
		res.Votes = []domain.DestinationVote{}
		index[res.ID] = len(results)
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DestinationPitchRepo.ListResultsByTrip: rows: %w", err)
	}
	if len(results) == 0 {
		return results, nil
	}

	votes, err := NewDestinationVoteRepo(r.db).ListByTrip(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("repo.DestinationPitchRepo.ListResultsByTrip: %w", err)
	}
	for _, v := range votes {
		if i, ok := index[v.PitchID]; ok {
			results[i].Votes = append(results[i].Votes, v)
		}
	}

	return results, nil
}

func scanDestinationPitch(s scanner) (domain.DestinationPitch, error) {
	var (
		p      domain.DestinationPitch
		id     pgtype.UUID
		tripID pgtype.UUID
		byID   pgtype.UUID
	)
	err := s.Scan(&id, &tripID, &p.Location, &p.Description, &byID, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DestinationPitch{}, domain.ErrNotFound
		}
		return domain.DestinationPitch{}, err
	}
	p.ID = uuid.UUID(id.Bytes)
	p.TripID = uuid.UUID(tripID.Bytes)
	p.PitchedByID = uuid.UUID(byID.Bytes)
	return p, nil
}

// DestinationVoteRepo defines the persistence operations for ranked destination votes.
type DestinationVoteRepo interface {
	// Upsert inserts the vote or replaces the existing ranking for (pitch, user).
	Upsert(ctx context.Context, vote domain.DestinationVote) (domain.DestinationVote, error)

	// ListByTrip returns every destination vote across all pitches of the
	// trip with voter usernames attached, ordered by user then ranking —
	// the shape the instant-runoff ballot builder wants.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DestinationVote, error)
}

type pgDestinationVoteRepo struct {
	db db
}

// NewDestinationVoteRepo constructs a DestinationVoteRepo backed by the provided db connection.
func NewDestinationVoteRepo(db db) DestinationVoteRepo {
	return &pgDestinationVoteRepo{db: db}
}

func (r *pgDestinationVoteRepo) Upsert(ctx context.Context, vote domain.DestinationVote) (domain.DestinationVote, error) {
	const q = `
		INSERT INTO destination_votes (pitch_id, user_id, ranking)
		VALUES (@pitch_id, @user_id, @ranking)
		ON CONFLICT (pitch_id, user_id) DO UPDATE
		SET ranking    = EXCLUDED.ranking,
		    updated_at = now()
		RETURNING pitch_id, user_id, ranking, created_at, updated_at`

	args := pgx.NamedArgs{
		"pitch_id": vote.PitchID,
		"user_id":  vote.UserID,
		"ranking":  vote.Ranking,
	}

	var (
		v       domain.DestinationVote
		pitchID pgtype.UUID
		userID  pgtype.UUID
	)
	err := r.db.QueryRow(ctx, q, args).Scan(&pitchID, &userID, &v.Ranking, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		return domain.DestinationVote{}, fmt.Errorf("repo.DestinationVoteRepo.Upsert: %w", err)
	}
	v.PitchID = uuid.UUID(pitchID.Bytes)
	v.UserID = uuid.UUID(userID.Bytes)
	return v, nil
}

func (r *pgDestinationVoteRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DestinationVote, error) {
	const q = `
		SELECT v.pitch_id, v.user_id, v.ranking, v.created_at, v.updated_at, u.username
		FROM destination_votes v
		JOIN destination_pitches p ON p.id = v.pitch_id
		JOIN users u ON u.id = v.user_id
		WHERE p.trip_id = @trip_id
		ORDER BY v.user_id ASC, v.ranking ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.DestinationVoteRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	var votes []domain.DestinationVote
	for rows.Next() {
		var (
			v       domain.DestinationVote
			pitchID pgtype.UUID
			userID  pgtype.UUID
		)
		err := rows.Scan(&pitchID, &userID, &v.Ranking, &v.CreatedAt, &v.UpdatedAt, &v.Voter)
		if err != nil {
			return nil, fmt.Errorf("repo.DestinationVoteRepo.ListByTrip: scan: %w", err)
		}
		v.PitchID = uuid.UUID(pitchID.Bytes)
		v.UserID = uuid.UUID(userID.Bytes)
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DestinationVoteRepo.ListByTrip: rows: %w", err)
	}

	return votes, nil
}
