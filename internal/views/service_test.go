package views

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"covid-dashboard-backend/internal/cache"
	"covid-dashboard-backend/internal/dataset"
	"covid-dashboard-backend/internal/stats"
	"covid-dashboard-backend/internal/utils"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
}

// newFixtureService builds a views service over a five-file dataset in a
// temp directory and performs the initial load.
func newFixtureService(t *testing.T) (*Service, *dataset.Service, dataset.Config) {
	t.Helper()
	cfg := dataset.DefaultConfig()
	cfg.Dir = t.TempDir()
	cfg.RefreshInterval = time.Hour

	writeFile(t, cfg.Dir, cfg.StateTotalsFile,
		"Date,State,Confirmed,Recovered,Deceased\n"+
			"01-06-2021,Kerala,100,90,1\n"+
			"01-06-2021,Delhi,200,150,5\n"+
			"02-06-2021,Kerala,120,95,2\n"+
			"02-06-2021,Delhi,250,180,6\n"+
			"02-06-2021,Goa,30,20,0\n")
	writeFile(t, cfg.Dir, cfg.PopulationFile,
		"State,Population,Density\n"+
			"Kerala,33406061,860/km²\n"+
			"Delhi,16787941,11297/km²\n")
	writeFile(t, cfg.Dir, cfg.DistrictsFile,
		"Date,District,Confirmed,Recovered,Deceased\n"+
			"2021-05-01,Pune,21000,15000,200\n"+
			"2021-05-02,Nagpur,6000,5000,50\n"+
			"2021-05-03,Satara,1000,900,5\n")
	writeFile(t, cfg.Dir, cfg.CentroidsFile,
		"District,Latitude,Longitude\n"+
			"Pune,18.52,73.86\n"+
			"Nagpur,21.15,79.09\n"+
			"Satara,17.69,74.0\n")
	writeFile(t, cfg.Dir, cfg.PersonsFile,
		"age,gender,current_status\n"+
			"25,F,Recovered\n"+
			"45,F,Recovered\n"+
			"65,F,Hospitalized\n"+
			"40,M,Recovered\n"+
			"61,M,Deceased\n")

	data := dataset.NewService(cfg)
	svc := NewService(DefaultConfig(), data, cache.NewMemoizer())
	if err := data.Load(); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	return svc, data, cfg
}

// TestViewsDailyTotals ensures the facade aggregates over the loaded dataset.
func TestViewsDailyTotals(t *testing.T) {
	svc, _, _ := newFixtureService(t)

	totals, err := svc.DailyTotals(nil)
	if err != nil {
		t.Fatalf("DailyTotals returned error: %v", err)
	}
	if len(totals) != 2 {
		t.Fatalf("expected 2 dates, got %d", len(totals))
	}
	if totals[0].Confirmed != 300 || totals[1].Confirmed != 400 {
		t.Fatalf("expected confirmed sums 300 and 400, got %d and %d", totals[0].Confirmed, totals[1].Confirmed)
	}
}

// TestViewsStates ensures the filter widget source is sorted and distinct.
func TestViewsStates(t *testing.T) {
	svc, _, _ := newFixtureService(t)

	states, err := svc.States()
	if err != nil {
		t.Fatalf("States returned error: %v", err)
	}
	want := []string{"Delhi", "Goa", "Kerala"}
	if len(states) != len(want) {
		t.Fatalf("expected %v, got %v", want, states)
	}
	for i := range want {
		if states[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, states)
		}
	}
}

// TestViewsStateDemographics ensures the join drops census-less states.
func TestViewsStateDemographics(t *testing.T) {
	svc, _, _ := newFixtureService(t)

	rows, err := svc.StateDemographics()
	if err != nil {
		t.Fatalf("StateDemographics returned error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows (Goa has no census entry), got %d", len(rows))
	}
	if rows[0].State != "Delhi" || rows[1].State != "Kerala" {
		t.Fatalf("expected Delhi then Kerala, got %s then %s", rows[0].State, rows[1].State)
	}
	if rows[1].Confirmed != 120 || rows[1].Population != 33406061 {
		t.Fatalf("unexpected Kerala row: %+v", rows[1])
	}
}

// TestViewsDistrictZones ensures classification runs over the district table.
func TestViewsDistrictZones(t *testing.T) {
	svc, _, _ := newFixtureService(t)

	zones, err := svc.DistrictZones(2021, 5)
	if err != nil {
		t.Fatalf("DistrictZones returned error: %v", err)
	}
	if len(zones) != 3 {
		t.Fatalf("expected 3 zones, got %d", len(zones))
	}
	if zones[0].District != "Pune" || zones[0].Classification != stats.ZoneRed {
		t.Fatalf("expected Pune Red first, got %+v", zones[0])
	}
}

// TestViewsRollup ensures the hierarchy is internally consistent.
func TestViewsRollup(t *testing.T) {
	svc, _, _ := newFixtureService(t)

	nodes, err := svc.AgeGenderRollup()
	if err != nil {
		t.Fatalf("AgeGenderRollup returned error: %v", err)
	}
	if nodes[0].Name != "Total" || nodes[0].Value != 5 {
		t.Fatalf("expected root Total=5, got %+v", nodes[0])
	}
	if err := stats.ValidateRollup(nodes); err != nil {
		t.Fatalf("rollup inconsistent: %v", err)
	}
}

// TestViewsMemoization ensures results are cached per arguments and flushed
// on dataset version change.
func TestViewsMemoization(t *testing.T) {
	svc, data, cfg := newFixtureService(t)

	if svc.CachedViews() != 0 {
		t.Fatalf("expected empty cache, got %d entries", svc.CachedViews())
	}
	if _, err := svc.DailyTotals(nil); err != nil {
		t.Fatalf("DailyTotals returned error: %v", err)
	}
	if svc.CachedViews() != 1 {
		t.Fatalf("expected 1 cached view, got %d", svc.CachedViews())
	}
	if _, err := svc.DailyTotals(nil); err != nil {
		t.Fatalf("DailyTotals returned error: %v", err)
	}
	if svc.CachedViews() != 1 {
		t.Fatalf("expected repeat call to hit cache, got %d entries", svc.CachedViews())
	}
	if _, err := svc.DailyTotals([]string{"Kerala"}); err != nil {
		t.Fatalf("DailyTotals returned error: %v", err)
	}
	if svc.CachedViews() != 2 {
		t.Fatalf("expected distinct entry per filter, got %d entries", svc.CachedViews())
	}

	// Content change: reload must flush every memoized result
	writeFile(t, cfg.Dir, cfg.StateTotalsFile,
		"Date,State,Confirmed,Recovered,Deceased\n"+
			"03-06-2021,Kerala,500,400,3\n")
	if err := data.Load(); err != nil {
		t.Fatalf("reload returned error: %v", err)
	}
	if svc.CachedViews() != 0 {
		t.Fatalf("expected cache flush on version change, got %d entries", svc.CachedViews())
	}

	totals, err := svc.DailyTotals(nil)
	if err != nil {
		t.Fatalf("DailyTotals returned error: %v", err)
	}
	if len(totals) != 1 || totals[0].Confirmed != 500 {
		t.Fatalf("expected recomputed totals from new content, got %+v", totals)
	}
}

// TestViewsReloadMidComputation ensures a result computed from a pre-reload
// snapshot is never served after the reload replaces the dataset. The
// interleaving is the one a request hits when a reload lands between its
// snapshot capture and its memoization.
func TestViewsReloadMidComputation(t *testing.T) {
	svc, data, cfg := newFixtureService(t)

	// A request captures the current snapshot...
	ds, err := svc.current()
	if err != nil {
		t.Fatalf("current returned error: %v", err)
	}

	// ...a reload with changed content lands before it memoizes...
	writeFile(t, cfg.Dir, cfg.StateTotalsFile,
		"Date,State,Confirmed,Recovered,Deceased\n"+
			"03-06-2021,Kerala,500,400,3\n")
	if err := data.Load(); err != nil {
		t.Fatalf("reload returned error: %v", err)
	}

	// ...and finishes computing from the snapshot it captured.
	stale, err := cache.Memoized(svc.memo, "daily-totals", ds.Version, func() ([]stats.DailyTotal, error) {
		return stats.DailyTotals(stats.FilterStates(ds.StateTotals, nil)), nil
	}, []string(nil))
	if err != nil {
		t.Fatalf("Memoized returned error: %v", err)
	}
	if len(stale) != 2 || stale[1].Confirmed != 400 {
		t.Fatalf("expected the captured snapshot's totals for the in-flight request, got %+v", stale)
	}

	// Requests arriving after the reload must see only the new content.
	totals, err := svc.DailyTotals(nil)
	if err != nil {
		t.Fatalf("DailyTotals returned error: %v", err)
	}
	if len(totals) != 1 || totals[0].Confirmed != 500 {
		t.Fatalf("expected totals from the reloaded dataset, got %+v", totals)
	}
}

// TestViewsValidationPropagates ensures stats validation errors reach the caller.
func TestViewsValidationPropagates(t *testing.T) {
	svc, _, _ := newFixtureService(t)

	if _, err := svc.Ranking(stats.RankTop, 2); err == nil {
		t.Fatal("expected validation error for n=2, got nil")
	} else if !utils.IsValidationError(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

// TestViewsSnapshot ensures the websocket payload assembles every view.
func TestViewsSnapshot(t *testing.T) {
	svc, _, _ := newFixtureService(t)

	snapshot, err := svc.DashboardSnapshot()
	if err != nil {
		t.Fatalf("DashboardSnapshot returned error: %v", err)
	}
	if snapshot.Summary.StateRows != 5 {
		t.Fatalf("expected summary over 5 state rows, got %d", snapshot.Summary.StateRows)
	}
	if len(snapshot.States) != 3 {
		t.Fatalf("expected 3 states, got %d", len(snapshot.States))
	}
	if len(snapshot.DailyTotals) != 2 {
		t.Fatalf("expected 2 daily totals, got %d", len(snapshot.DailyTotals))
	}
	if snapshot.Ranking == nil || len(snapshot.Ranking.States) != 3 {
		t.Fatalf("expected ranking over 3 states, got %+v", snapshot.Ranking)
	}
	if len(snapshot.DistrictZones) != 3 {
		t.Fatalf("expected 3 district zones, got %d", len(snapshot.DistrictZones))
	}
	if err := stats.ValidateRollup(snapshot.AgeGenderRollup); err != nil {
		t.Fatalf("snapshot rollup inconsistent: %v", err)
	}
}
