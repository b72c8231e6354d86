package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tripcrew/tripcrew-api/internal/auth"
)

func TestMiddleware_ValidToken(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	userID := uuid.New()
	signed, err := tokens.Issue(userID)
	require.NoError(t, err)

	var gotUserID uuid.UUID
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = auth.UserID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/trips", nil)
	req.Header.Set("Authorization", "Bearer "+signed)
	rec := httptest.NewRecorder()

	auth.Middleware(tokens)(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, userID, gotUserID, "user ID must be planted in the request context")
}

func TestMiddleware_401(t *testing.T) {
	tokens := auth.NewTokenService("test-secret", time.Hour)
	expired, err := auth.NewTokenService("test-secret", -time.Minute).Issue(uuid.New())
	require.NoError(t, err)

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer scheme", "Basic dXNlcjpwYXNz"},
		{"empty bearer token", "Bearer "},
		{"garbage token", "Bearer not.a.token"},
		{"expired token", "Bearer " + expired},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				t.Fatal("next handler must not be reached")
			})

			req := httptest.NewRequest(http.MethodGet, "/trips", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			auth.Middleware(tokens)(next).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), `"unauthenticated"`)
		})
	}
}

func TestUserID_MissingFromContext(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	assert.Equal(t, uuid.Nil, auth.UserID(req.Context()))
}
