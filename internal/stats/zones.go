package stats

import (
	"fmt"
	"sort"

	"covid-dashboard-backend/internal/models"
	"covid-dashboard-backend/internal/utils"
)

// classifyConfirmed maps a confirmed-case peak to its zone label. Red is
// tested first; both thresholds are inclusive lower bounds, so exactly 20000
// is Red and exactly 5000 is Orange.
func classifyConfirmed(confirmed int64) string {
	switch {
	case confirmed >= redThreshold:
		return ZoneRed
	case confirmed >= orangeThreshold:
		return ZoneOrange
	default:
		return ZoneGreen
	}
}

// ClassifyDistricts computes containment zones for one calendar month. It
// filters district rows to the target month, takes each district's
// per-column maxima as the month peak (counts are cumulative, so the maximum
// stands in for the month-end value), joins with the centroid table and
// classifies by confirmed count. Districts without a centroid are dropped
// silently. Output orders by Confirmed descending, then District ascending.
func ClassifyDistricts(records []models.DistrictRecord, centroids []models.Centroid, year, month int) ([]DistrictZone, error) {
	if month < 1 || month > 12 {
		return nil, utils.NewAppError(utils.ErrorTypeValidation, "INVALID_MONTH",
			fmt.Sprintf("month must be between 1 and 12, got %d", month), "stats")
	}
	if year < 1 {
		return nil, utils.NewAppError(utils.ErrorTypeValidation, "INVALID_YEAR",
			fmt.Sprintf("year must be positive, got %d", year), "stats")
	}

	peaks := make(map[string]*DistrictZone)
	var order []string
	for _, r := range records {
		if r.Date.Year() != year || int(r.Date.Month()) != month {
			continue
		}
		peak, ok := peaks[r.District]
		if !ok {
			peak = &DistrictZone{District: r.District}
			peaks[r.District] = peak
			order = append(order, r.District)
		}
		if r.Confirmed > peak.Confirmed {
			peak.Confirmed = r.Confirmed
		}
		if r.Recovered > peak.Recovered {
			peak.Recovered = r.Recovered
		}
		if r.Deceased > peak.Deceased {
			peak.Deceased = r.Deceased
		}
	}

	centroidByName := make(map[string]models.Centroid, len(centroids))
	for _, c := range centroids {
		centroidByName[c.District] = c
	}

	zones := make([]DistrictZone, 0, len(order))
	for _, name := range order {
		c, ok := centroidByName[name]
		if !ok {
			continue
		}
		zone := *peaks[name]
		zone.Latitude = c.Latitude
		zone.Longitude = c.Longitude
		zone.Classification = classifyConfirmed(zone.Confirmed)
		zones = append(zones, zone)
	}

	sort.Slice(zones, func(i, j int) bool {
		if zones[i].Confirmed != zones[j].Confirmed {
			return zones[i].Confirmed > zones[j].Confirmed
		}
		return zones[i].District < zones[j].District
	})
	return zones, nil
}
