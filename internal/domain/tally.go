package domain

import "time"

// DayAvailability lists, for one calendar date of the winning range, which
// voters are available and which are not. Used for presentation only.
type DayAvailability struct {
	Date             time.Time `json:"date"`
	AvailableUsers   []string  `json:"available_users"`
	UnavailableUsers []string  `json:"unavailable_users"`
}

// BestDateRange is the contiguous sub-range of a date pitch that maximizes
// full-availability headcount, with range length as the tie-breaker.
//
// FullyAvailable voters can make every date of the range, PartlyAvailable
// voters at least one date but not all, Unavailable voters none.
type BestDateRange struct {
	StartDate       time.Time         `json:"start_date"`
	EndDate         time.Time         `json:"end_date"`
	FullyAvailable  []string          `json:"fully_available"`
	PartlyAvailable []string          `json:"partly_available"`
	Unavailable     []string          `json:"unavailable"`
	Days            []DayAvailability `json:"days"`
}

// ToDate truncates t to its calendar date at UTC midnight. Both pitch-range
// enumeration and PARTIAL vote selections go through this, so day comparisons
// never depend on time-of-day or zone.
func ToDate(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// EnumerateDates returns every calendar date from start through end inclusive.
func EnumerateDates(start, end time.Time) []time.Time {
	var dates []time.Time
	for d := ToDate(start); !d.After(ToDate(end)); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d)
	}
	return dates
}

// ComputeBestDateRange derives the best contiguous sub-range of the pitch's
// date range from the votes cast so far. Returns nil when there are no votes:
// absence of a result is distinct from a zero-availability full range.
//
// Every contiguous sub-range [i,j] of the pitch's dates is scored as
//
//	score = 1000*full + length
//
// where full is the number of voters available on every date of the sub-range.
// The 1000 factor makes headcount strictly dominate length; length only breaks
// ties between ranges with equal headcount. Ranges are scanned with i
// ascending then j ascending and only a strictly greater score replaces the
// current best, so ties resolve to the earliest range and the result is
// deterministic for a given vote set.
//
// Availability per voter: ALL_WORK on every date, NONE_WORK on none, PARTIAL
// exactly on the vote's SelectedDates (dates of the range not selected count
// as unavailable, as does an empty or undecodable selection).
//
// The scan is O(n²·V) for n dates and V voters. Trip ranges are weeks and
// voter counts tens, so brute force is fine.
func ComputeBestDateRange(pitch DatePitch, votes []DateVote) *BestDateRange {
	if len(votes) == 0 {
		return nil
	}

	dates := EnumerateDates(pitch.StartDate, pitch.EndDate)
	n := len(dates)
	if n == 0 {
		return nil
	}

	// available[v][i]: voter v can make dates[i].
	available := make([][]bool, len(votes))
	for v, vote := range votes {
		row := make([]bool, n)
		switch vote.VoteType {
		case VoteAllWork:
			for i := range row {
				row[i] = true
			}
		case VotePartial:
			selected := make(map[time.Time]bool, len(vote.SelectedDates))
			for _, d := range vote.SelectedDates {
				selected[ToDate(d)] = true
			}
			for i, d := range dates {
				row[i] = selected[d]
			}
		}
		// VoteNoneWork (and anything unknown) leaves the row all false.
		available[v] = row
	}

	bestScore := 0
	bestI, bestJ := 0, 0
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			full := 0
			for v := range votes {
				if availableForRange(available[v], i, j) {
					full++
				}
			}
			score := full*1000 + (j - i + 1)
			if score > bestScore {
				bestScore = score
				bestI, bestJ = i, j
			}
		}
	}

	return buildResult(dates, votes, available, bestI, bestJ)
}

// availableForRange reports whether the voter's availability row is true on
// every index in [i, j].
func availableForRange(row []bool, i, j int) bool {
	for k := i; k <= j; k++ {
		if !row[k] {
			return false
		}
	}
	return true
}

// buildResult partitions all voters against the winning range [i,j] and
// assembles the per-day availability breakdown.
func buildResult(dates []time.Time, votes []DateVote, available [][]bool, i, j int) *BestDateRange {
	result := &BestDateRange{
		StartDate:       dates[i],
		EndDate:         dates[j],
		FullyAvailable:  []string{},
		PartlyAvailable: []string{},
		Unavailable:     []string{},
	}

	for v, vote := range votes {
		all, any := true, false
		for k := i; k <= j; k++ {
			if available[v][k] {
				any = true
			} else {
				all = false
			}
		}
		switch {
		case all:
			result.FullyAvailable = append(result.FullyAvailable, vote.Voter)
		case any:
			result.PartlyAvailable = append(result.PartlyAvailable, vote.Voter)
		default:
			result.Unavailable = append(result.Unavailable, vote.Voter)
		}
	}

	for k := i; k <= j; k++ {
		day := DayAvailability{
			Date:             dates[k],
			AvailableUsers:   []string{},
			UnavailableUsers: []string{},
		}
		for v, vote := range votes {
			if available[v][k] {
				day.AvailableUsers = append(day.AvailableUsers, vote.Voter)
			} else {
				day.UnavailableUsers = append(day.UnavailableUsers, vote.Voter)
			}
		}
		result.Days = append(result.Days, day)
	}

	return result
}
