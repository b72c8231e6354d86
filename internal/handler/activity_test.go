package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripcrew/tripcrew-api/internal/domain"
)

func TestListActivities_200_PassesPagination(t *testing.T) {
	tripID := uuid.New()
	mocks := &serverMocks{activities: mockActivityServicer{
		listByTrip: func(_ context.Context, gotTrip, _ uuid.UUID, p domain.PaginationParams) ([]domain.Activity, int64, error) {
			assert.Equal(t, tripID, gotTrip)
			assert.Equal(t, 2, p.Page)
			assert.Equal(t, 5, p.Limit)
			return []domain.Activity{{ID: uuid.New(), TripID: gotTrip, Type: domain.ActivityTripCreated}}, 11, nil
		},
	}}

	req := httptest.NewRequest(http.MethodGet, "/trips/"+tripID.String()+"/activities?page=2&limit=5", nil)
	rec := httptest.NewRecorder()

	mocks.httpHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data       []domain.Activity `json:"data"`
		Pagination struct {
			Page  int   `json:"page"`
			Limit int   `json:"limit"`
			Total int64 `json:"total"`
		} `json:"pagination"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Data, 1)
	assert.Equal(t, 2, resp.Pagination.Page)
	assert.Equal(t, 5, resp.Pagination.Limit)
	assert.EqualValues(t, 11, resp.Pagination.Total)
}

func TestListActivities_200_InvalidQueryFallsBackToDefaults(t *testing.T) {
	mocks := &serverMocks{activities: mockActivityServicer{
		listByTrip: func(_ context.Context, _, _ uuid.UUID, p domain.PaginationParams) ([]domain.Activity, int64, error) {
			assert.Equal(t, 1, p.Page)
			assert.Equal(t, 20, p.Limit)
			return []domain.Activity{}, 0, nil
		},
	}}

	req := httptest.NewRequest(http.MethodGet, "/trips/"+uuid.NewString()+"/activities?page=abc&limit=", nil)
	rec := httptest.NewRecorder()

	mocks.httpHandler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}
