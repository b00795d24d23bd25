package stats

import (
	"fmt"
	"sort"
	"time"

	"covid-dashboard-backend/internal/models"
	"covid-dashboard-backend/internal/utils"
)

// RankStates pivots the state×date confirmed series, ranks states by their
// value at the latest date, and returns the first n in long form. Direction
// top ranks descending, bottom ascending. Ties keep first-seen input order;
// (state, date) pairs with no record count as zero.
func RankStates(records []models.DailyStateRecord, direction RankDirection, n int) (*Ranking, error) {
	if direction != RankTop && direction != RankBottom {
		return nil, utils.NewAppError(utils.ErrorTypeValidation, "INVALID_RANK_DIRECTION",
			fmt.Sprintf("direction must be %q or %q, got %q", RankTop, RankBottom, direction), "stats")
	}
	if n < MinRankSize || n > MaxRankSize {
		return nil, utils.NewAppError(utils.ErrorTypeValidation, "INVALID_RANK_SIZE",
			fmt.Sprintf("n must be between %d and %d, got %d", MinRankSize, MaxRankSize, n), "stats")
	}

	// Pivot to state×date. A later duplicate of the same pair overwrites the
	// earlier one, matching the latest-row-wins rule used elsewhere.
	pivot := make(map[string]map[time.Time]int64)
	var stateOrder []string
	var dates []time.Time
	seenDate := make(map[time.Time]bool)
	for _, r := range records {
		byDate, ok := pivot[r.State]
		if !ok {
			byDate = make(map[time.Time]int64)
			pivot[r.State] = byDate
			stateOrder = append(stateOrder, r.State)
		}
		byDate[r.Date] = r.Confirmed
		if !seenDate[r.Date] {
			seenDate[r.Date] = true
			dates = append(dates, r.Date)
		}
	}
	if len(dates) == 0 {
		return &Ranking{Direction: direction, States: []string{}, Points: []RankedPoint{}}, nil
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })
	latest := dates[len(dates)-1]

	selected := make([]string, len(stateOrder))
	copy(selected, stateOrder)
	sort.SliceStable(selected, func(i, j int) bool {
		vi, vj := pivot[selected[i]][latest], pivot[selected[j]][latest]
		if direction == RankTop {
			return vi > vj
		}
		return vi < vj
	})
	if len(selected) > n {
		selected = selected[:n]
	}

	points := make([]RankedPoint, 0, len(dates)*len(selected))
	for _, date := range dates {
		for _, state := range selected {
			points = append(points, RankedPoint{
				Date:      date,
				State:     state,
				Confirmed: pivot[state][date],
			})
		}
	}
	return &Ranking{Direction: direction, States: selected, Points: points}, nil
}
