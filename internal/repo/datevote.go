package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/tripcrew/tripcrew-api/internal/domain"
)

// DateVoteRepo defines the persistence operations for date availability votes.
type DateVoteRepo interface {
	// Upsert inserts the vote or replaces the existing row for (pitch, user).
	// A re-vote overwrites both vote_type and selected_dates — selections are
	// never merged. The (pitch_id, user_id) primary key makes the replace
	// atomic at the storage layer.
	Upsert(ctx context.Context, vote domain.DateVote) (domain.DateVote, error)

	// ListByPitch returns all votes for a pitch with voter usernames attached,
	// in the order they were first cast.
	ListByPitch(ctx context.Context, pitchID uuid.UUID) ([]domain.DateVote, error)
}

type pgDateVoteRepo struct {
	db db
}

// NewDateVoteRepo constructs a DateVoteRepo backed by the provided db connection.
func NewDateVoteRepo(db db) DateVoteRepo {
	return &pgDateVoteRepo{db: db}
}

func (r *pgDateVoteRepo) Upsert(ctx context.Context, vote domain.DateVote) (domain.DateVote, error) {
	selected, err := encodeSelectedDates(vote.SelectedDates)
	if err != nil {
		return domain.DateVote{}, fmt.Errorf("repo.DateVoteRepo.Upsert: encode: %w", err)
	}

	const q = `
		INSERT INTO date_votes (pitch_id, user_id, vote_type, selected_dates)
		VALUES (@pitch_id, @user_id, @vote_type, @selected_dates)
		ON CONFLICT (pitch_id, user_id) DO UPDATE
		SET vote_type      = EXCLUDED.vote_type,
		    selected_dates = EXCLUDED.selected_dates,
		    updated_at     = now()
		RETURNING pitch_id, user_id, vote_type, selected_dates, created_at, updated_at`

	args := pgx.NamedArgs{
		"pitch_id":       vote.PitchID,
		"user_id":        vote.UserID,
		"vote_type":      vote.VoteType,
		"selected_dates": selected,
	}

	result, err := scanDateVoteNoUser(r.db.QueryRow(ctx, q, args))
	if err != nil {
		return domain.DateVote{}, fmt.Errorf("repo.DateVoteRepo.Upsert: %w", err)
	}
	return result, nil
}

func (r *pgDateVoteRepo) ListByPitch(ctx context.Context, pitchID uuid.UUID) ([]domain.DateVote, error) {
	const q = `
		SELECT v.pitch_id, v.user_id, v.vote_type, v.selected_dates,
		       v.created_at, v.updated_at, u.username
		FROM date_votes v
		JOIN users u ON u.id = v.user_id
		WHERE v.pitch_id = @pitch_id
		ORDER BY v.created_at ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"pitch_id": pitchID})
	if err != nil {
		return nil, fmt.Errorf("repo.DateVoteRepo.ListByPitch: %w", err)
	}
	defer rows.Close()

	var votes []domain.DateVote
	for rows.Next() {
		v, err := scanDateVote(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DateVoteRepo.ListByPitch: scan: %w", err)
		}
		votes = append(votes, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DateVoteRepo.ListByPitch: rows: %w", err)
	}

	return votes, nil
}

// encodeSelectedDates serializes calendar dates as a JSON array of
// "2006-01-02" strings, or NULL when there are none.
func encodeSelectedDates(dates []time.Time) (any, error) {
	if len(dates) == 0 {
		return nil, nil
	}
	strs := make([]string, len(dates))
	for i, d := range dates {
		strs[i] = domain.ToDate(d).Format(time.DateOnly)
	}
	return json.Marshal(strs)
}

// decodeSelectedDates parses the stored JSON back into dates. Undecodable
// JSON or malformed entries yield nil rather than an error: the domain treats
// a PARTIAL vote with no decodable dates as unavailable everywhere, so a
// corrupt row degrades to that instead of breaking the whole tally.
func decodeSelectedDates(raw []byte) []time.Time {
	if len(raw) == 0 {
		return nil
	}
	var strs []string
	if err := json.Unmarshal(raw, &strs); err != nil {
		return nil
	}
	dates := make([]time.Time, 0, len(strs))
	for _, s := range strs {
		d, err := time.Parse(time.DateOnly, s)
		if err != nil {
			return nil
		}
		dates = append(dates, domain.ToDate(d))
	}
	return dates
}

// scanDateVote maps a row that includes the joined voter username.
func scanDateVote(s scanner) (domain.DateVote, error) {
	var (
		v       domain.DateVote
		pitchID pgtype.UUID
		userID  pgtype.UUID
		raw     []byte
	)
	err := s.Scan(&pitchID, &userID, &v.VoteType, &raw, &v.CreatedAt, &v.UpdatedAt, &v.Voter)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DateVote{}, domain.ErrNotFound
		}
		return domain.DateVote{}, err
	}
	v.PitchID = uuid.UUID(pitchID.Bytes)
	v.UserID = uuid.UUID(userID.Bytes)
	v.SelectedDates = decodeSelectedDates(raw)
	return v, nil
}

// scanDateVoteNoUser maps a row without the username join (RETURNING clauses).
func scanDateVoteNoUser(s scanner) (domain.DateVote, error) {
	var (
		v       domain.DateVote
		pitchID pgtype.UUID
		userID  pgtype.UUID
		raw     []byte
	)
	err := s.Scan(&pitchID, &userID, &v.VoteType, &raw, &v.CreatedAt, &v.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.DateVote{}, domain.ErrNotFound
		}
		return domain.DateVote{}, err
	}
	v.PitchID = uuid.UUID(pitchID.Bytes)
	v.UserID = uuid.UUID(userID.Bytes)
	v.SelectedDates = decodeSelectedDates(raw)
	return v, nil
}
