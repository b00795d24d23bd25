package stats

import (
	"sort"
	"time"

	"covid-dashboard-backend/internal/models"
)

// FilterStates returns the records belonging to the given states. A nil or
// empty list selects every record.
func FilterStates(records []models.DailyStateRecord, states []string) []models.DailyStateRecord {
	if len(states) == 0 {
		return records
	}
	want := make(map[string]bool, len(states))
	for _, s := range states {
		want[s] = true
	}
	filtered := make([]models.DailyStateRecord, 0, len(records))
	for _, r := range records {
		if want[r.State] {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// DailyTotals groups records by date and sums the three case columns for
// each date present. Dates with no records are absent from the output; no
// zero filling, no gap interpolation. Output ascends by date.
func DailyTotals(records []models.DailyStateRecord) []DailyTotal {
	groups := groupBy(records, func(r models.DailyStateRecord) time.Time { return r.Date })

	totals := make([]DailyTotal, 0, len(groups))
	for _, g := range groups {
		total := DailyTotal{Date: g.Key}
		for _, r := range g.Items {
			total.Confirmed += r.Confirmed
			total.Recovered += r.Recovered
			total.Deceased += r.Deceased
		}
		totals = append(totals, total)
	}

	sort.Slice(totals, func(i, j int) bool {
		return totals[i].Date.Before(totals[j].Date)
	})
	return totals
}
