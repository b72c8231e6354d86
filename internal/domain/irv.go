package domain

import "github.com/google/uuid"

// RankedBallot is one voter's full preference order over the destination
// pitches they ranked, best first. Pitches the voter did not rank are simply
// absent from the ballot.
type RankedBallot struct {
	Voter   uuid.UUID
	Ranking []uuid.UUID
}

// IRVRound is one elimination round, kept so callers can show how the winner
// emerged.
type IRVRound struct {
	// FirstChoiceCounts maps each standing pitch to its first-choice tally.
	FirstChoiceCounts map[uuid.UUID]int `json:"first_choice_counts"`
	// Eliminated lists the pitches removed at the end of the round,
	// empty on the final (winning) round.
	Eliminated []uuid.UUID `json:"eliminated"`
}

// IRVResult is the outcome of an instant-runoff tally.
// Winner is nil when no ballots were cast.
type IRVResult struct {
	Winner *uuid.UUID `json:"winner,omitempty"`
	Rounds []IRVRound `json:"rounds"`
}

// InstantRunoff tallies ranked-choice destination votes.
//
// pitchOrder lists the pitch IDs in creation order; it defines the
// deterministic elimination tie-break. Each round counts first choices among
// standing pitches over the ballots that still rank at least one standing
// pitch. A pitch with a strict majority of those ballots wins. Otherwise all
// pitches tied for the fewest first-choice votes are eliminated together —
// unless that would eliminate every standing pitch, in which case only the
// earliest-created of them goes, keeping the elimination order deterministic.
// The tally ends when a majority is reached or one pitch remains.
//
// Zero ballots yield no winner regardless of how many pitches exist.
func InstantRunoff(pitchOrder []uuid.UUID, ballots []RankedBallot) IRVResult {
	result := IRVResult{Rounds: []IRVRound{}}
	if len(ballots) == 0 || len(pitchOrder) == 0 {
		return result
	}

	standing := make(map[uuid.UUID]bool, len(pitchOrder))
	for _, id := range pitchOrder {
		standing[id] = true
	}

	for {
		counts := make(map[uuid.UUID]int, len(standing))
		for id := range standing {
			counts[id] = 0
		}

		// Each ballot counts toward the voter's highest-ranked standing pitch.
		// Ballots whose every choice has been eliminated are exhausted and no
		// longer contribute to the active total.
		active := 0
		for _, b := range ballots {
			for _, choice := range b.Ranking {
				if standing[choice] {
					counts[choice]++
					active++
					break
				}
			}
		}
		if active == 0 {
			return result
		}

		round := IRVRound{FirstChoiceCounts: counts, Eliminated: []uuid.UUID{}}

		// Strict majority of non-exhausted ballots wins.
		for _, id := range pitchOrder {
			if standing[id] && counts[id]*2 > active {
				result.Rounds = append(result.Rounds, round)
				winner := id
				result.Winner = &winner
				return result
			}
		}

		// Last pitch standing wins without a majority check.
		if standingCount(standing) == 1 {
			result.Rounds = append(result.Rounds, round)
			for _, id := range pitchOrder {
				if standing[id] {
					winner := id
					result.Winner = &winner
					return result
				}
			}
		}

		fewest := -1
		for _, id := range pitchOrder {
			if standing[id] && (fewest == -1 || counts[id] < fewest) {
				fewest = counts[id]
			}
		}

		var toEliminate []uuid.UUID
		for _, id := range pitchOrder {
			if standing[id] && counts[id] == fewest {
				toEliminate = append(toEliminate, id)
			}
		}
		if len(toEliminate) == standingCount(standing) {
			// Everyone is tied. Eliminate only the earliest-created pitch so
			// the field never empties and the outcome stays deterministic.
			toEliminate = toEliminate[:1]
		}
		for _, id := range toEliminate {
			standing[id] = false
		}
		round.Eliminated = toEliminate
		result.Rounds = append(result.Rounds, round)
	}
}

func standingCount(standing map[uuid.UUID]bool) int {
	n := 0
	for _, up := range standing {
		if up {
			n++
		}
	}
	return n
}
