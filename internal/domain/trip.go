// Package domain contains the core data types for the TripCrew API.
// This package has zero external dependencies beyond uuid and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Phase is the planning stage a trip is in. Trips move forward through the
// fixed sequence DATES → DESTINATION → TRAVEL_CONFIRMATION → COMPLETED and
// never regress.
type Phase string

const (
	PhaseDates              Phase = "DATES"
	PhaseDestination        Phase = "DESTINATION"
	PhaseTravelConfirmation Phase = "TRAVEL_CONFIRMATION"
	PhaseCompleted          Phase = "COMPLETED"
)

// Next returns the phase that follows p in the planning sequence.
// The second return value is false when p is COMPLETED (or unknown).
func (p Phase) Next() (Phase, bool) {
	switch p {
	case PhaseDates:
		return PhaseDestination, true
	case PhaseDestination:
		return PhaseTravelConfirmation, true
	case PhaseTravelConfirmation:
		return PhaseCompleted, true
	default:
		return "", false
	}
}

// Trip is the top-level aggregate. Participants, pitches, votes, and the
// activity feed all hang off a trip.
//
// DatePitchDeadline is nil until the organizer sets it; while nil, date
// proposals stay open indefinitely and voting never starts.
// VotingDurationDays is the number of days voting stays open after the pitch
// deadline passes (always ≥ 1, default 7).
type Trip struct {
	ID                 uuid.UUID  `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description,omitempty"`
	OrganizerID        uuid.UUID  `json:"organizer_id"`
	Phase              Phase      `json:"phase"`
	DatePitchDeadline  *time.Time `json:"date_pitch_deadline,omitempty"`
	VotingDurationDays int        `json:"voting_duration_days"`
	JoinToken          string     `json:"join_token"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}

// RSVPStatus is a participant's declared intent for the trip.
// Only GOING participants may pitch or vote; the others are read-only.
type RSVPStatus string

const (
	RSVPGoing      RSVPStatus = "GOING"
	RSVPInterested RSVPStatus = "INTERESTED"
	RSVPNotGoing   RSVPStatus = "NOT_GOING"
)

// Valid reports whether s is one of the three known RSVP statuses.
func (s RSVPStatus) Valid() bool {
	switch s {
	case RSVPGoing, RSVPInterested, RSVPNotGoing:
		return true
	}
	return false
}

// ParticipantRole distinguishes the single organizer from everyone else.
type ParticipantRole string

const (
	RoleOrganizer   ParticipantRole = "ORGANIZER"
	RoleParticipant ParticipantRole = "PARTICIPANT"
)

// Participant links a user to a trip. The composite key is (TripID, UserID).
// Exactly one ORGANIZER row exists per trip, created atomically with the trip.
type Participant struct {
	TripID     uuid.UUID       `json:"trip_id"`
	UserID     uuid.UUID       `json:"user_id"`
	RSVPStatus RSVPStatus      `json:"rsvp_status"`
	Role       ParticipantRole `json:"role"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

// CanVote reports whether the participant may pitch or cast votes.
func (p Participant) CanVote() bool {
	return p.RSVPStatus == RSVPGoing
}

// TravelConfirmation records whether a participant has booked their travel.
// One row per (TripID, UserID), upserted.
type TravelConfirmation struct {
	TripID    uuid.UUID `json:"trip_id"`
	UserID    uuid.UUID `json:"user_id"`
	IsBooked  bool      `json:"is_booked"`
	Notes     string    `json:"notes,omitempty"`
	Username  string    `json:"username,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
