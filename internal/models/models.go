package models

import "time"

// DailyStateRecord is one row of the statewise daily totals table.
// Counts are cumulative per state. Confirmed >= Recovered + Deceased is a
// data-quality expectation of the source, not a guarantee; consumers must
// tolerate violations.
type DailyStateRecord struct {
	State     string    `json:"State"`
	Date      time.Time `json:"Date"`
	Confirmed int64     `json:"Confirmed"`
	Recovered int64     `json:"Recovered"`
	Deceased  int64     `json:"Deceased"`
}

// PopulationRecord is one row of the census population table. Density is
// extracted from mixed strings like "1102/km²" at load time.
type PopulationRecord struct {
	State      string  `json:"State"`
	Population int64   `json:"Population"`
	Density    float64 `json:"Density"`
}

// DistrictRecord is one row of the district daily totals table; counts are
// cumulative per district.
type DistrictRecord struct {
	District  string    `json:"District"`
	Date      time.Time `json:"Date"`
	Confirmed int64     `json:"Confirmed"`
	Recovered int64     `json:"Recovered"`
	Deceased  int64     `json:"Deceased"`
}

// Centroid is the representative coordinate of a district.
type Centroid struct {
	District  string  `json:"District"`
	Latitude  float64 `json:"Latitude"`
	Longitude float64 `json:"Longitude"`
}

// PersonRecord is one case from the per-person line list. The loader drops
// rows with a missing gender or status or an unparsable age, so a PersonRecord
// in a Dataset is always complete.
type PersonRecord struct {
	Age    float64 `json:"age"`
	Gender string  `json:"gender"`
	Status string  `json:"current_status"`
}

// DropCounts tracks how many malformed rows each loader silently discarded.
// Dropping is a documented data-quality trade-off; counts are logged once per
// load and surfaced in the dataset summary, never per row.
type DropCounts struct {
	StateTotals int `json:"stateTotals"`
	Population  int `json:"population"`
	Districts   int `json:"districts"`
	Centroids   int `json:"centroids"`
	Persons     int `json:"persons"`
}

// Total returns the number of rows dropped across all tables
func (d DropCounts) Total() int {
	return d.StateTotals + d.Population + d.Districts + d.Centroids + d.Persons
}

// Dataset bundles the five source tables loaded from disk. A Dataset is
// immutable once built; reloads build a fresh one and swap the pointer.
type Dataset struct {
	StateTotals []DailyStateRecord
	Population  []PopulationRecord
	Districts   []DistrictRecord
	Centroids   []Centroid
	Persons     []PersonRecord

	Dropped DropCounts

	// Version is the combined content fingerprint of the source files; it
	// changes when and only when file content changes.
	Version  string
	LoadedAt time.Time
}
