package stats

import (
	"time"
)

// View field names follow the source table column names because the frontend
// binds chart series by column key.

// DailyTotal represents nationwide totals for a single date
type DailyTotal struct {
	Date      time.Time `json:"Date"`
	Confirmed int64     `json:"Confirmed"`
	Recovered int64     `json:"Recovered"`
	Deceased  int64     `json:"Deceased"`
}

// RankDirection selects which end of the ranking to keep
type RankDirection string

const (
	RankTop    RankDirection = "top"
	RankBottom RankDirection = "bottom"
)

// Ranking bounds accepted by RankStates
const (
	MinRankSize = 3
	MaxRankSize = 20
)

// RankedPoint represents one (date, state) observation in a ranked series
type RankedPoint struct {
	Date      time.Time `json:"Date"`
	State     string    `json:"State"`
	Confirmed int64     `json:"Confirmed"`
}

// Ranking represents a Top-N/Bottom-N selection in long form. States holds
// the selected states in rank order; Points carries one row per (date,
// selected state), ordered by date then rank order.
type Ranking struct {
	Direction RankDirection `json:"direction"`
	States    []string      `json:"states"`
	Points    []RankedPoint `json:"points"`
}

// StateDemographics represents a state's latest totals joined with census data
type StateDemographics struct {
	State      string    `json:"State"`
	Date       time.Time `json:"Date"`
	Confirmed  int64     `json:"Confirmed"`
	Recovered  int64     `json:"Recovered"`
	Deceased   int64     `json:"Deceased"`
	Population int64     `json:"Population"`
	Density    float64   `json:"Density"`
}

// Zone classification labels and the confirmed-count thresholds that
// separate them. Red is checked first; both bounds are inclusive.
const (
	ZoneRed    = "Red"
	ZoneOrange = "Orange"
	ZoneGreen  = "Green"

	redThreshold    = 20000
	orangeThreshold = 5000
)

// DistrictZone represents a district's month peak joined with its centroid
type DistrictZone struct {
	District       string  `json:"District"`
	Confirmed      int64   `json:"Confirmed"`
	Recovered      int64   `json:"Recovered"`
	Deceased       int64   `json:"Deceased"`
	Latitude       float64 `json:"Latitude"`
	Longitude      float64 `json:"Longitude"`
	Classification string  `json:"Classification"`
}

// RollupNode represents one node of the age/gender/status hierarchy in the
// flat parent-pointer form sunburst renderers consume.
type RollupNode struct {
	Name   string `json:"name"`
	Parent string `json:"parent"`
	Value  int64  `json:"value"`
}

// DatasetSummary represents the dashboard header profile of the loaded data
type DatasetSummary struct {
	Version        string    `json:"version"`
	LoadedAt       time.Time `json:"loadedAt"`
	StateRows      int       `json:"stateRows"`
	PopulationRows int       `json:"populationRows"`
	DistrictRows   int       `json:"districtRows"`
	CentroidRows   int       `json:"centroidRows"`
	PersonRows     int       `json:"personRows"`
	DroppedRows    int       `json:"droppedRows"`

	FirstDate time.Time `json:"firstDate"`
	LastDate  time.Time `json:"lastDate"`

	// Distinct cardinalities are HyperLogLog estimates, not exact counts
	UniqueStates    int `json:"uniqueStates"`
	UniqueDistricts int `json:"uniqueDistricts"`
	UniqueGenders   int `json:"uniqueGenders"`
	UniqueStatuses  int `json:"uniqueStatuses"`
	UniqueDates     int `json:"uniqueDates"`
}
