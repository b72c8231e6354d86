package domain

import (
	"time"

	"github.com/google/uuid"
)

// DateVoteType is the shape of a date availability vote.
type DateVoteType string

const (
	// VoteAllWork: the voter is available on every date in the pitch range.
	VoteAllWork DateVoteType = "ALL_WORK"
	// VotePartial: the voter is available only on their SelectedDates.
	VotePartial DateVoteType = "PARTIAL"
	// VoteNoneWork: the voter is unavailable on every date in the range.
	VoteNoneWork DateVoteType = "NONE_WORK"
)

// Valid reports whether t is one of the three known vote types.
func (t DateVoteType) Valid() bool {
	switch t {
	case VoteAllWork, VotePartial, VoteNoneWork:
		return true
	}
	return false
}

// DatePitch is a proposed date range for a trip.
//
// StartDate and EndDate are calendar dates stored at UTC midnight; EndDate is
// strictly after StartDate. PitchDeadline and VotingDeadline are snapshots of
// the trip settings at creation time — the live trip settings take precedence
// when present, the snapshot is a fallback for trips whose settings were
// cleared later.
type DatePitch struct {
	ID             uuid.UUID `json:"id"`
	TripID         uuid.UUID `json:"trip_id"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	Description    string    `json:"description,omitempty"`
	PitchedByID    uuid.UUID `json:"pitched_by_id"`
	PitchDeadline  time.Time `json:"pitch_deadline"`
	VotingDeadline time.Time `json:"voting_deadline"`
	CreatedAt      time.Time `json:"created_at"`
}

// DateVote is one voter's availability for a date pitch.
// At most one row exists per (PitchID, UserID); re-voting replaces the row.
//
// SelectedDates is only meaningful for PARTIAL votes: the calendar dates
// (UTC midnight) the voter is available. A PARTIAL vote with no decodable
// dates counts the voter unavailable on every date — the repo leaves
// SelectedDates nil when the stored JSON fails to decode rather than
// dropping the row.
type DateVote struct {
	PitchID       uuid.UUID    `json:"pitch_id"`
	UserID        uuid.UUID    `json:"user_id"`
	VoteType      DateVoteType `json:"vote_type"`
	SelectedDates []time.Time  `json:"selected_dates,omitempty"`
	Voter         string       `json:"voter,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

// DatePitchResult is a pitch with its votes, the pitcher's username, and the
// computed best range (nil until anyone has voted).
type DatePitchResult struct {
	DatePitch
	PitchedBy string         `json:"pitched_by"`
	Votes     []DateVote     `json:"votes"`
	BestRange *BestDateRange `json:"best_range,omitempty"`
}

// DestinationPitch is a proposed destination for a trip.
type DestinationPitch struct {
	ID          uuid.UUID `json:"id"`
	TripID      uuid.UUID `json:"trip_id"`
	Location    string    `json:"location"`
	Description string    `json:"description,omitempty"`
	PitchedByID uuid.UUID `json:"pitched_by_id"`
	CreatedAt   time.Time `json:"created_at"`
}

// DestinationVote is one voter's ranking of a destination pitch.
// Ranking is 1-based (1 = first choice) and distinct per user across all
// pitches of the trip they have ranked.
type DestinationVote struct {
	PitchID   uuid.UUID `json:"pitch_id"`
	UserID    uuid.UUID `json:"user_id"`
	Ranking   int       `json:"ranking"`
	Voter     string    `json:"voter,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DestinationPitchResult is a destination pitch with its votes attached.
type DestinationPitchResult struct {
	DestinationPitch
	PitchedBy string            `json:"pitched_by"`
	Votes     []DestinationVote `json:"votes"`
}
