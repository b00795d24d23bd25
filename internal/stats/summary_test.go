package stats

import (
	"testing"
	"time"

	"covid-dashboard-backend/internal/models"
)

// TestBuildSummary profiles a small dataset where the HyperLogLog estimates
// are exact.
func TestBuildSummary(t *testing.T) {
	ds := &models.Dataset{
		StateTotals: []models.DailyStateRecord{
			stateRecord("Kerala", day(2020, time.March, 14), 19, 3, 0),
			stateRecord("Delhi", day(2020, time.March, 14), 7, 1, 1),
			stateRecord("Kerala", day(2020, time.March, 15), 22, 3, 0),
			stateRecord("Kerala", day(2020, time.March, 16), 24, 4, 0),
		},
		Population: []models.PopulationRecord{
			{State: "Kerala", Population: 33406061, Density: 860},
		},
		Districts: []models.DistrictRecord{
			districtRecord("Pune", day(2021, time.May, 1), 100, 90, 1),
			districtRecord("Nagpur", day(2021, time.May, 1), 50, 40, 0),
		},
		Centroids: []models.Centroid{
			{District: "Pune", Latitude: 18.52, Longitude: 73.86},
		},
		Persons: []models.PersonRecord{
			person(25, "F", "Recovered"),
			person(61, "M", "Deceased"),
		},
		Dropped:  models.DropCounts{StateTotals: 2, Persons: 1},
		Version:  "abc123",
		LoadedAt: day(2021, time.June, 1),
	}

	summary := BuildSummary(ds)

	if summary.Version != "abc123" {
		t.Fatalf("expected version abc123, got %s", summary.Version)
	}
	if summary.StateRows != 4 || summary.PopulationRows != 1 || summary.DistrictRows != 2 ||
		summary.CentroidRows != 1 || summary.PersonRows != 2 {
		t.Fatalf("unexpected row counts: %+v", summary)
	}
	if summary.DroppedRows != 3 {
		t.Fatalf("expected 3 dropped rows, got %d", summary.DroppedRows)
	}
	if !summary.FirstDate.Equal(day(2020, time.March, 14)) {
		t.Fatalf("expected first date 2020-03-14, got %v", summary.FirstDate)
	}
	if !summary.LastDate.Equal(day(2020, time.March, 16)) {
		t.Fatalf("expected last date 2020-03-16, got %v", summary.LastDate)
	}
	if summary.UniqueStates != 2 {
		t.Fatalf("expected 2 unique states, got %d", summary.UniqueStates)
	}
	if summary.UniqueDistricts != 2 {
		t.Fatalf("expected 2 unique districts, got %d", summary.UniqueDistricts)
	}
	if summary.UniqueGenders != 2 || summary.UniqueStatuses != 2 {
		t.Fatalf("expected 2 genders and 2 statuses, got %d and %d", summary.UniqueGenders, summary.UniqueStatuses)
	}
	if summary.UniqueDates != 3 {
		t.Fatalf("expected 3 unique dates, got %d", summary.UniqueDates)
	}
}

// TestStateNames ensures sorted distinct names.
func TestStateNames(t *testing.T) {
	records := []models.DailyStateRecord{
		stateRecord("Kerala", day(2020, time.March, 14), 19, 3, 0),
		stateRecord("Delhi", day(2020, time.March, 14), 7, 1, 1),
		stateRecord("Kerala", day(2020, time.March, 15), 22, 3, 0),
		stateRecord("Assam", day(2020, time.March, 15), 1, 0, 0),
	}

	names := StateNames(records)
	want := []string{"Assam", "Delhi", "Kerala"}
	if len(names) != len(want) {
		t.Fatalf("expected %d names, got %d", len(want), len(names))
	}
	for i, name := range want {
		if names[i] != name {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

// TestStateNamesEmpty ensures an empty series yields an empty, non-nil list.
func TestStateNamesEmpty(t *testing.T) {
	names := StateNames(nil)
	if names == nil || len(names) != 0 {
		t.Fatalf("expected empty non-nil slice, got %v", names)
	}
}
