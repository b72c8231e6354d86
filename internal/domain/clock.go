package domain

import "time"

// Clock abstracts wall-clock time so deadline arithmetic can be tested with a
// fixed instant. Production code uses SystemClock; tests supply their own.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now.
type SystemClock struct{}

// Now returns the current wall-clock time.
func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock is a Clock that always returns the same instant.
// Intended for tests that need now pinned exactly at a deadline boundary.
type FixedClock struct{ T time.Time }

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return c.T }

// WindowState is the deadline-derived state of a trip's date poll.
type WindowState int

const (
	// ProposalsOpen: no pitch deadline is set, or it has not passed yet.
	// New date pitches are accepted; voting has not started.
	ProposalsOpen WindowState = iota

	// VotingOpen: the pitch deadline has passed and the voting deadline has
	// not. Votes are accepted; new pitches are not.
	VotingOpen

	// VotingClosed: the voting deadline has passed. The poll is read-only
	// until the organizer sets a new pitch deadline.
	VotingClosed
)

// String returns the state name for logs and test failure messages.
func (s WindowState) String() string {
	switch s {
	case ProposalsOpen:
		return "proposals_open"
	case VotingOpen:
		return "voting_open"
	case VotingClosed:
		return "voting_closed"
	default:
		return "unknown"
	}
}

// VotingWindow holds the two instants that gate a trip's date poll.
// Both are nil when the organizer has not set a pitch deadline, in which case
// the poll stays in ProposalsOpen forever.
type VotingWindow struct {
	PitchDeadline  *time.Time
	VotingDeadline *time.Time
}

// Window derives the voting window from the trip's live settings.
// The voting deadline is the pitch deadline plus VotingDurationDays whole days.
func (t Trip) Window() VotingWindow {
	if t.DatePitchDeadline == nil {
		return VotingWindow{}
	}
	pd := *t.DatePitchDeadline
	vd := pd.AddDate(0, 0, t.VotingDurationDays)
	return VotingWindow{PitchDeadline: &pd, VotingDeadline: &vd}
}

// SnapshotWindow returns the window frozen onto a date pitch at creation time.
// Used as a fallback for pitches on trips whose live settings were cleared.
func (p DatePitch) SnapshotWindow() VotingWindow {
	w := VotingWindow{}
	if !p.PitchDeadline.IsZero() {
		pd := p.PitchDeadline
		w.PitchDeadline = &pd
	}
	if !p.VotingDeadline.IsZero() {
		vd := p.VotingDeadline
		w.VotingDeadline = &vd
	}
	return w
}

// State classifies now against the window.
// Boundaries are inclusive on the closing side: now == PitchDeadline means
// proposals are closed and voting is open; now == VotingDeadline means voting
// is closed.
func (w VotingWindow) State(now time.Time) WindowState {
	if w.PitchDeadline == nil {
		return ProposalsOpen
	}
	if now.Before(*w.PitchDeadline) {
		return ProposalsOpen
	}
	if w.VotingDeadline != nil && !now.Before(*w.VotingDeadline) {
		return VotingClosed
	}
	return VotingOpen
}
