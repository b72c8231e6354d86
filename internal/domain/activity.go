package domain

import (
	"time"

	"github.com/google/uuid"
)

// ActivityType identifies what kind of event an activity row records.
type ActivityType string

const (
	ActivityTripCreated             ActivityType = "TRIP_CREATED"
	ActivityUserJoined              ActivityType = "USER_JOINED"
	ActivityRSVPChanged             ActivityType = "RSVP_CHANGED"
	ActivityDatePitchCreated        ActivityType = "DATE_PITCH_CREATED"
	ActivityDateVoteCast            ActivityType = "DATE_VOTE_CAST"
	ActivityDestinationPitchCreated ActivityType = "DESTINATION_PITCH_CREATED"
	ActivityDestinationVoteCast     ActivityType = "DESTINATION_VOTE_CAST"
	ActivityPhaseChanged            ActivityType = "PHASE_CHANGED"
	ActivityTravelConfirmed         ActivityType = "TRAVEL_CONFIRMED"
)

// Activity is one append-only entry in a trip's feed. Rows are written in the
// same transaction as the mutation they describe and are never updated or
// deleted afterwards.
//
// Metadata is a small free-form JSON object (e.g. the pitch's date range for
// DATE_PITCH_CREATED). Username is joined in on reads for presentation.
type Activity struct {
	ID        uuid.UUID      `json:"id"`
	TripID    uuid.UUID      `json:"trip_id"`
	UserID    uuid.UUID      `json:"user_id"`
	Type      ActivityType   `json:"type"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	Username  string         `json:"username,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}
