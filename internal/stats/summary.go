package stats

import (
	"sort"
	"time"

	"github.com/axiomhq/hyperloglog"

	"covid-dashboard-backend/internal/models"
)

// BuildSummary profiles a loaded dataset for the dashboard header: row and
// drop counts, the covered date range of the state series, and estimated
// distinct cardinalities. Cardinalities come from HyperLogLog sketches, so
// they are estimates with sub-percent error, cheap even on the million-row
// person table.
func BuildSummary(ds *models.Dataset) DatasetSummary {
	states := hyperloglog.New16()
	districts := hyperloglog.New16()
	genders := hyperloglog.New16()
	statuses := hyperloglog.New16()
	dates := hyperloglog.New16()

	summary := DatasetSummary{
		Version:        ds.Version,
		LoadedAt:       ds.LoadedAt,
		StateRows:      len(ds.StateTotals),
		PopulationRows: len(ds.Population),
		DistrictRows:   len(ds.Districts),
		CentroidRows:   len(ds.Centroids),
		PersonRows:     len(ds.Persons),
		DroppedRows:    ds.Dropped.Total(),
	}

	for _, r := range ds.StateTotals {
		states.Insert([]byte(r.State))
		dates.Insert([]byte(r.Date.Format(time.DateOnly)))
		if summary.FirstDate.IsZero() || r.Date.Before(summary.FirstDate) {
			summary.FirstDate = r.Date
		}
		if r.Date.After(summary.LastDate) {
			summary.LastDate = r.Date
		}
	}
	for _, r := range ds.Districts {
		districts.Insert([]byte(r.District))
	}
	for _, p := range ds.Persons {
		genders.Insert([]byte(p.Gender))
		statuses.Insert([]byte(p.Status))
	}

	summary.UniqueStates = int(states.Estimate())
	summary.UniqueDistricts = int(districts.Estimate())
	summary.UniqueGenders = int(genders.Estimate())
	summary.UniqueStatuses = int(statuses.Estimate())
	summary.UniqueDates = int(dates.Estimate())
	return summary
}

// StateNames returns the sorted distinct state names in the daily series,
// exact (not estimated) because the filter widget needs the actual values.
func StateNames(records []models.DailyStateRecord) []string {
	seen := make(map[string]bool, 64)
	names := make([]string, 0, 64)
	for _, r := range records {
		if !seen[r.State] {
			seen[r.State] = true
			names = append(names, r.State)
		}
	}
	sort.Strings(names)
	return names
}
