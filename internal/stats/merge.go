package stats

import (
	"sort"

	"covid-dashboard-backend/internal/models"
)

// LatestByState reduces the daily series to each state's most recent record.
// A later input row wins when two rows share the same maximum date. Output
// is ordered by state name ascending.
func LatestByState(records []models.DailyStateRecord) []models.DailyStateRecord {
	latest := make(map[string]models.DailyStateRecord, 64)
	for _, r := range records {
		cur, ok := latest[r.State]
		if !ok || !r.Date.Before(cur.Date) {
			latest[r.State] = r
		}
	}

	out := make([]models.DailyStateRecord, 0, len(latest))
	for _, r := range latest {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].State < out[j].State })
	return out
}

// MergeWithPopulation inner-joins each state's latest record with its census
// row on exact state name equality. Rows without a partner on the other side
// are dropped silently; no name normalization is attempted, so spelling
// differences between the two sources lose the state.
func MergeWithPopulation(latest []models.DailyStateRecord, population []models.PopulationRecord) []StateDemographics {
	census := make(map[string]models.PopulationRecord, len(population))
	for _, p := range population {
		census[p.State] = p
	}

	merged := make([]StateDemographics, 0, len(latest))
	for _, r := range latest {
		p, ok := census[r.State]
		if !ok {
			continue
		}
		merged = append(merged, StateDemographics{
			State:      r.State,
			Date:       r.Date,
			Confirmed:  r.Confirmed,
			Recovered:  r.Recovered,
			Deceased:   r.Deceased,
			Population: p.Population,
			Density:    p.Density,
		})
	}
	return merged
}
