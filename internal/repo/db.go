// Package repo contains all database access logic for the TripCrew API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing the per-entity
// scan helpers to be reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// Repos bundles one repository per entity, all bound to the same db handle.
// Bound to a pool it serves plain reads; bound to a pgx.Tx (via TxRunner) the
// writes across repos commit or roll back together.
type Repos struct {
	Users        UserRepo
	Trips        TripRepo
	Participants ParticipantRepo
	DatePitches  DatePitchRepo
	DateVotes    DateVoteRepo
	DestPitches  DestinationPitchRepo
	DestVotes    DestinationVoteRepo
	Travel       TravelRepo
	Activities   ActivityRepo
}

// NewRepos constructs every repository against the provided db handle.
func NewRepos(db db) Repos {
	return Repos{
		Users:        NewUserRepo(db),
		Trips:        NewTripRepo(db),
		Participants: NewParticipantRepo(db),
		DatePitches:  NewDatePitchRepo(db),
		DateVotes:    NewDateVoteRepo(db),
		DestPitches:  NewDestinationPitchRepo(db),
		DestVotes:    NewDestinationVoteRepo(db),
		Travel:       NewTravelRepo(db),
		Activities:   NewActivityRepo(db),
	}
}

// beginner is satisfied by *pgxpool.Pool and pgx.Tx (nested transactions
// become savepoints, which keeps integration tests inside one rollback).
type beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxRunner runs a function against a transaction-bound Repos. Services use it
// for mutations that must write several rows atomically — in particular every
// primary write plus its activity-feed entry.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(r Repos) error) error
}

type pgTxRunner struct {
	db beginner
}

// NewTxRunner constructs a TxRunner on top of a pool (or an outer transaction
// in tests).
func NewTxRunner(db beginner) TxRunner {
	return &pgTxRunner{db: db}
}

// RunInTx begins a transaction, calls fn with Repos bound to it, and commits.
// Any error from fn rolls the whole transaction back, so no partial state —
// and no orphaned activity entry — is ever visible.
func (t *pgTxRunner) RunInTx(ctx context.Context, fn func(r Repos) error) error {
	tx, err := t.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.TxRunner: begin: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // rollback after commit is a no-op

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.TxRunner: commit: %w", err)
	}
	return nil
}
