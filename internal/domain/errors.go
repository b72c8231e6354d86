package domain

import "errors"

// Sentinel errors returned by repo and service functions. Each layer wraps
// them with fmt.Errorf("...: %w", err) so errors.Is still matches at the
// handler, which maps them to HTTP statuses.

// ErrUnauthenticated is returned when an operation requires an actor and none
// was supplied. Handlers map this to HTTP 401.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrForbidden is returned when the actor lacks the role or RSVP status the
// operation requires (e.g. a non-GOING participant casting a vote).
// Handlers map this to HTTP 403.
var ErrForbidden = errors.New("forbidden")

// ErrNotFound is returned when the referenced trip, pitch, or participant
// does not exist. Handlers map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned when input fails business rule validation
// (e.g. end date not after start date, unknown vote type, a selected date
// outside the pitch range). Handlers map this to HTTP 422.
var ErrValidation = errors.New("validation error")

// ErrInvalidPhase is returned when the trip is not in the phase the operation
// requires (e.g. pitching dates after the trip moved to DESTINATION).
// Handlers map this to HTTP 409.
var ErrInvalidPhase = errors.New("invalid phase")

// Temporal guard violations. All map to HTTP 409: the request was well-formed
// but arrived outside its window.
var (
	// ErrDeadlineMissing: date pitches require the organizer to set a pitch
	// deadline first.
	ErrDeadlineMissing = errors.New("pitch deadline not set")

	// ErrDeadlinePassed: the pitch deadline has been reached, proposals closed.
	ErrDeadlinePassed = errors.New("pitch deadline passed")

	// ErrVotingNotOpen: voting starts only once the pitch deadline passes.
	ErrVotingNotOpen = errors.New("voting not open yet")

	// ErrVotingClosed: the voting window has ended.
	ErrVotingClosed = errors.New("voting closed")
)
