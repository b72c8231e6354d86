package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/require"

	"github.com/tripcrew/tripcrew-api/internal/domain"
	"github.com/tripcrew/tripcrew-api/internal/repo"
	"github.com/tripcrew/tripcrew-api/testutil"
)

// newTxRepos opens a transaction against the test database and returns the
// full repo bundle backed by it. The transaction is automatically rolled back
// when the test finishes, giving free per-test isolation.
//
// Requires TEST_DATABASE_URL to be set; migrations are applied by TestMain.
func newTxRepos(t *testing.T) repo.Repos {
	t.Helper()
	r, _ := newTxReposWithTx(t)
	return r
}

// newTxReposWithTx additionally exposes the transaction for tests that need
// raw SQL (e.g. planting a corrupt row).
func newTxReposWithTx(t *testing.T) (repo.Repos, pgx.Tx) {
	t.Helper()
	pool := testutil.NewPool(t)

	tx, err := pool.Begin(context.Background())
	require.NoError(t, err, "begin transaction")

	t.Cleanup(func() {
		// Rollback discards all changes made during the test — no cleanup SQL needed.
		_ = tx.Rollback(context.Background())
	})

	return repo.NewRepos(tx), tx
}

var userSeq int

// seedUser inserts a user with unique username/email and returns it.
func seedUser(t *testing.T, r repo.Repos) domain.User {
	t.Helper()
	userSeq++
	u, err := r.Users.Create(context.Background(), domain.User{
		Username:     uniqueName("user", userSeq),
		Email:        uniqueName("user", userSeq) + "@example.com",
		PasswordHash: "x",
	})
	require.NoError(t, err, "seed user")
	return u
}

func uniqueName(prefix string, n int) string {
	return prefix + "-" + uuid.NewString()[:8] + "-" + time.Now().Format("150405") + "-" + string(rune('a'+n%26))
}

// seedTrip inserts a trip organized by the given user and returns it.
func seedTrip(t *testing.T, r repo.Repos, organizer domain.User) domain.Trip {
	t.Helper()
	trip, err := r.Trips.Create(context.Background(), domain.Trip{
		Title:              "Lisbon 2027",
		Description:        "spring trip",
		OrganizerID:        organizer.ID,
		Phase:              domain.PhaseDates,
		VotingDurationDays: 7,
		JoinToken:          uuid.NewString(),
	})
	require.NoError(t, err, "seed trip")
	return trip
}

// seedDatePitch inserts a date pitch on the trip with a week-long range and
// deadlines around now.
func seedDatePitch(t *testing.T, r repo.Repos, trip domain.Trip, pitchedBy domain.User) domain.DatePitch {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Second)
	pitch, err := r.DatePitches.Create(context.Background(), domain.DatePitch{
		TripID:         trip.ID,
		StartDate:      time.Date(2027, 4, 1, 0, 0, 0, 0, time.UTC),
		EndDate:        time.Date(2027, 4, 8, 0, 0, 0, 0, time.UTC),
		Description:    "first week of April",
		PitchedByID:    pitchedBy.ID,
		PitchDeadline:  now.Add(24 * time.Hour),
		VotingDeadline: now.Add(8 * 24 * time.Hour),
	})
	require.NoError(t, err, "seed date pitch")
	return pitch
}
