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

// DatePitchRepo defines the persistence operations for date pitches.
type DatePitchRepo interface {
	// Create inserts a new pitch (deadlines snapshotted by the caller) and
	// returns the persisted record.
	Create(ctx context.Context, pitch domain.DatePitch) (domain.DatePitch, error)

	// GetByID retrieves a single pitch by primary key.
	// Returns domain.ErrNotFound if no pitch with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.DatePitch, error)

	// ListResultsByTrip returns all pitches for a trip newest-first, each with
	// its full vote set and voter usernames attached. The vote sets are loaded
	// with one joined query across the whole trip, not one query per pitch.
	// BestRange is left nil — tallying is the service's job.
	ListResultsByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DatePitchResult, error)
}

type pgDatePitchRepo struct {
	db db
}

// NewDatePitchRepo constructs a DatePitchRepo backed by the provided db connection.
func NewDatePitchRepo(db db) DatePitchRepo {
	return &pgDatePitchRepo{db: db}
}

func (r *pgDatePitchRepo) Create(ctx context.Context, pitch domain.DatePitch) (domain.DatePitch, error) {
	const q = `
		INSERT INTO date_pitches (trip_id, start_date, end_date, description,
		                          pitched_by_id, pitch_deadline, voting_deadline)
		VALUES (@trip_id, @start_date, @end_date, @description,
		        @pitched_by_id, @pitch_deadline, @voting_deadline)
		RETURNING id, trip_id, start_date, end_date, description,
		          pitched_by_id, pitch_deadline, voting_deadline, created_at`

	args := pgx.NamedArgs{
		"trip_id":         pitch.TripID,
		"start_date":      pitch.StartDate,
		"end_date":        pitch.EndDate,
		"description":     pitch.Description,
		"pitched_by_id":   pitch.PitchedByID,
		"pitch_deadline":  pitch.PitchDeadline,
		"voting_deadline": pitch.VotingDeadline,
	}

	result, err := scanDatePitch(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.DatePitch{}, fmt.Errorf("repo.DatePitchRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgDatePitchRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.DatePitch, error) {
	const q = `
		SELECT id, trip_id, start_date, end_date, description,
		       pitched_by_id, pitch_deadline, voting_deadline, created_at
		FROM date_pitches
		WHERE id = @id`

	result, err := scanDatePitch(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.DatePitch{}, fmt.Errorf("repo.DatePitchRepo.GetByID: %w", err)
	}
	return result, nil
}

func (r *pgDatePitchRepo) ListResultsByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.DatePitchResult, error) {
	const pitchesQ = `
		SELECT p.id, p.trip_id, p.start_date, p.end_date, p.description,
		       p.pitched_by_id, p.pitch_deadline, p.voting_deadline, p.created_at,
		       u.username
		FROM date_pitches p
		JOIN users u ON u.id = p.pitched_by_id
		WHERE p.trip_id = @trip_id
		ORDER BY p.created_at DESC`

	rows, err := r.db.Query(ctx, pitchesQ, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.DatePitchRepo.ListResultsByTrip: %w", err)
	}
	defer rows.Close()

	var results []domain.DatePitchResult
	index := make(map[uuid.UUID]int)
	for rows.Next() {
		var (
			res     domain.DatePitchResult
			id      pgtype.UUID
			tID     pgtype.UUID
			byID    pgtype.UUID
			sd, ed  pgtype.Date
		)
		err := rows.Scan(&id, &tID, &sd, &ed, &res.Description,
			&byID, &res.PitchDeadline, &res.VotingDeadline, &res.CreatedAt,
			&res.PitchedBy)
		if err != nil {
			return nil, fmt.Errorf("repo.DatePitchRepo.ListResultsByTrip: scan: %w", err)
		}
		res.ID = uuid.UUID(id.Bytes)
		res.TripID = uuid.UUID(tID.Bytes)
		res.PitchedByID = uuid.UUID(byID.Bytes)
		res.StartDate = domain.ToDate(sd.Time)
		res.EndDate = domain.ToDate(ed.Time)
		res.Votes = []domain.DateVote{}
		index[res.ID] = len(results)
		results = append(results, res)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DatePitchRepo.ListResultsByTrip: rows: %w", err)
	}
	if len(results) == 0 {
		return results, nil
	}

	const votesQ = `
		SELECT v.pitch_id, v.user_id, v.vote_type, v.selected_dates,
		       v.created_at, v.updated_at, u.username
		FROM date_votes v
		JOIN date_pitches p ON p.id = v.pitch_id
		JOIN users u ON u.id = v.user_id
		WHERE p.trip_id = @trip_id
		ORDER BY v.created_at ASC`

	voteRows, err := r.db.Query(ctx, votesQ, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.DatePitchRepo.ListResultsByTrip: votes: %w", err)
	}
	defer voteRows.Close()

	for voteRows.Next() {
		v, err := scanDateVote(voteRows)
		if err != nil {
			return nil, fmt.Errorf("repo.DatePitchRepo.ListResultsByTrip: vote scan: %w", err)
		}
		if i, ok := index[v.PitchID]; ok {
			results[i].Votes = append(results[i].Votes, v)
		}
	}
	if err := voteRows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DatePitchRepo.ListResultsByTrip: vote rows: %w", err)
	}

	return results, nil
}

func scanDatePitch(s scanner) (domain.DatePitch, error) {
	var (
		p      domain.DatePitch
		id     pgtype.UUID
		tripID pgtype.UUID
		byID   pgtype.UUID
		sd, ed pgtype.Date
	)
	err := s.Scan(&id, &tripID, &sd, &ed, &p.Description,
		&byID, &p.PitchDeadline, &p.VotingDeadline, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DatePitch{}, domain.ErrNotFound
		}
		return domain.DatePitch{}, err
	}
	p.ID = uuid.UUID(id.Bytes)
	p.TripID = uuid.UUID(tripID.Bytes)
	p.PitchedByID = uuid.UUID(byID.Bytes)
	p.StartDate = domain.ToDate(sd.Time)
	p.EndDate = domain.ToDate(ed.Time)
	return p, nil
}
