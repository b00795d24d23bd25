package dataset

import (
	"testing"
	"time"

	"covid-dashboard-backend/internal/models"
)

// fixtureConfig writes a coherent five-file dataset into a temp directory
// and returns a config pointing at it.
func fixtureConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Dir = t.TempDir()
	cfg.RefreshInterval = time.Hour

	writeFixture(t, cfg.Dir, cfg.StateTotalsFile,
		"Date,State,Confirmed,Recovered,Deceased\n"+
			"01-06-2021,Kerala,100,90,1\n"+
			"01-06-2021,Delhi,200,150,5\n"+
			"02-06-2021,Kerala,120,95,2\n"+
			"02-06-2021,Delhi,250,180,6\n"+
			"02-06-2021,Goa,30,20,0\n")
	writeFixture(t, cfg.Dir, cfg.PopulationFile,
		"State,Population,Density\n"+
			"Kerala,33406061,860/km²\n"+
			"Delhi,16787941,11297/km²\n")
	writeFixture(t, cfg.Dir, cfg.DistrictsFile,
		"Date,District,Confirmed,Recovered,Deceased\n"+
			"2021-05-01,Pune,21000,15000,200\n"+
			"2021-05-02,Nagpur,6000,5000,50\n"+
			"2021-05-03,Satara,1000,900,5\n")
	writeFixture(t, cfg.Dir, cfg.CentroidsFile,
		"District,Latitude,Longitude\n"+
			"Pune,18.52,73.86\n"+
			"Nagpur,21.15,79.09\n"+
			"Satara,17.69,74.0\n")
	writeFixture(t, cfg.Dir, cfg.PersonsFile,
		"age,gender,current_status\n"+
			"25,F,Recovered\n"+
			"61,M,Deceased\n"+
			"bad-age,F,Recovered\n")
	return cfg
}

// TestServiceLoad ensures the initial load builds a complete versioned dataset.
func TestServiceLoad(t *testing.T) {
	s := NewService(fixtureConfig(t))

	if s.Dataset() != nil || s.Version() != "" {
		t.Fatal("expected empty service before Load")
	}
	if err := s.Load(); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	ds := s.Dataset()
	if ds == nil {
		t.Fatal("expected dataset after Load")
	}
	if len(ds.StateTotals) != 5 || len(ds.Population) != 2 || len(ds.Districts) != 3 ||
		len(ds.Centroids) != 3 || len(ds.Persons) != 2 {
		t.Fatalf("unexpected table sizes: %d %d %d %d %d",
			len(ds.StateTotals), len(ds.Population), len(ds.Districts), len(ds.Centroids), len(ds.Persons))
	}
	if ds.Dropped.Persons != 1 || ds.Dropped.Total() != 1 {
		t.Fatalf("expected exactly the bad-age row dropped, got %+v", ds.Dropped)
	}
	if len(ds.Version) != 64 {
		t.Fatalf("expected 64-char fingerprint, got %q", ds.Version)
	}
	if ds.LoadedAt.IsZero() {
		t.Fatal("expected LoadedAt to be set")
	}
}

// TestServiceVersionStable ensures reloading identical content keeps the version.
func TestServiceVersionStable(t *testing.T) {
	cfg := fixtureConfig(t)
	s := NewService(cfg)
	if err := s.Load(); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	first := s.Version()

	if err := s.Load(); err != nil {
		t.Fatalf("second Load returned error: %v", err)
	}
	if s.Version() != first {
		t.Fatalf("version changed without content change: %s vs %s", first, s.Version())
	}
}

// TestServiceVersionTracksContent ensures editing a source file changes the version.
func TestServiceVersionTracksContent(t *testing.T) {
	cfg := fixtureConfig(t)
	s := NewService(cfg)
	if err := s.Load(); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	first := s.Version()

	writeFixture(t, cfg.Dir, cfg.StateTotalsFile,
		"Date,State,Confirmed,Recovered,Deceased\n"+
			"03-06-2021,Kerala,140,100,2\n")
	if err := s.Load(); err != nil {
		t.Fatalf("reload returned error: %v", err)
	}
	if s.Version() == first {
		t.Fatal("expected version to change with file content")
	}
	if len(s.Dataset().StateTotals) != 1 {
		t.Fatalf("expected reloaded table, got %d rows", len(s.Dataset().StateTotals))
	}
}

// TestServiceOnReload ensures subscribers see every successful load.
func TestServiceOnReload(t *testing.T) {
	s := NewService(fixtureConfig(t))

	var got *models.Dataset
	s.OnReload(func(ds *models.Dataset) { got = ds })

	if err := s.Load(); err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if got == nil {
		t.Fatal("expected reload callback to fire on initial load")
	}
	if got != s.Dataset() {
		t.Fatal("callback must receive the dataset that was swapped in")
	}
}

// TestServiceLoadMissingFile ensures a missing source file fails the whole load.
func TestServiceLoadMissingFile(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Dir = t.TempDir() // empty directory

	s := NewService(cfg)
	if err := s.Load(); err == nil {
		t.Fatal("expected error for missing source files, got nil")
	}
	if s.Dataset() != nil {
		t.Fatal("no partial dataset may be exposed after a failed load")
	}
}
