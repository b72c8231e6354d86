package service_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripcrew/tripcrew-api/internal/domain"
	"github.com/tripcrew/tripcrew-api/internal/service"
)

func TestActivityService_ListByTrip_OK(t *testing.T) {
	tr := newTestRepos()
	trip := domain.Trip{ID: uuid.New(), Phase: domain.PhaseDates}
	actor := uuid.New()
	tr.tripInPhase(trip)
	tr.going(actor)

	var gotParams domain.PaginationParams
	tr.activities.listByTrip = func(_ context.Context, _ uuid.UUID, p domain.PaginationParams) ([]domain.Activity, int64, error) {
		gotParams = p
		return []domain.Activity{{TripID: trip.ID, Type: domain.ActivityTripCreated}}, 1, nil
	}

	activities, total, err := service.NewActivityService(tr.bundle()).ListByTrip(
		context.Background(), trip.ID, actor, domain.PaginationParams{Page: 2, Limit: 10})

	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, activities, 1)
	assert.Equal(t, domain.PaginationParams{Page: 2, Limit: 10}, gotParams)
}

func TestActivityService_ListByTrip_NonParticipantForbidden(t *testing.T) {
	tr := newTestRepos()
	trip := domain.Trip{ID: uuid.New(), Phase: domain.PhaseDates}
	tr.tripInPhase(trip)

	_, _, err := service.NewActivityService(tr.bundle()).ListByTrip(
		context.Background(), trip.ID, uuid.New(), domain.PaginationParams{Page: 1, Limit: 20})

	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestActivityService_ListByTrip_EmptyIsNotNil(t *testing.T) {
	tr := newTestRepos()
	trip := domain.Trip{ID: uuid.New(), Phase: domain.PhaseDates}
	actor := uuid.New()
	tr.tripInPhase(trip)
	tr.going(actor)

	activities, total, err := service.NewActivityService(tr.bundle()).ListByTrip(
		context.Background(), trip.ID, actor, domain.PaginationParams{Page: 1, Limit: 20})

	require.NoError(t, err)
	assert.Zero(t, total)
	assert.NotNil(t, activities)
	assert.Empty(t, activities)
}
