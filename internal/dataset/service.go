package dataset

import (
	"context"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/crypto/blake2b"

	"covid-dashboard-backend/internal/models"
	"covid-dashboard-backend/internal/utils"
)

// Config holds dataset service configuration
type Config struct {
	Dir             string        `env:"DATASET_DIR"`              // Directory containing the source CSV files
	StateTotalsFile string        `env:"DATASET_STATE_TOTALS"`     // Statewise daily totals CSV
	PopulationFile  string        `env:"DATASET_POPULATION"`       // Census population CSV
	DistrictsFile   string        `env:"DATASET_DISTRICTS"`        // District daily totals CSV
	CentroidsFile   string        `env:"DATASET_CENTROIDS"`        // District centroid CSV
	PersonsFile     string        `env:"DATASET_PERSONS"`          // Person-level line list CSV
	RefreshInterval time.Duration `env:"DATASET_REFRESH_INTERVAL"` // How often to check files for changes
}

// DefaultConfig returns default dataset service configuration
func DefaultConfig() Config {
	return Config{
		Dir:             "dataset/Impacts_in_India",
		StateTotalsFile: "statewise_daily_totals.csv",
		PopulationFile:  "population_india_census2011.csv",
		DistrictsFile:   "cleaned_data.csv",
		CentroidsFile:   "district wise centroids.csv",
		PersonsFile:     "agegender_cleaneddata.csv",
		RefreshInterval: 30 * time.Second,
	}
}

// Service owns the in-memory dataset and keeps it in sync with the source
// files. The dataset is immutable once built; readers get the current
// snapshot pointer and never see a partial reload.
type Service struct {
	config   Config
	mu       sync.RWMutex
	dataset  *models.Dataset
	onReload []func(*models.Dataset)
}

// NewService creates a new dataset service
func NewService(config Config) *Service {
	return &Service{
		config: config,
	}
}

// OnReload registers a callback invoked with each freshly loaded dataset.
// Callbacks must be registered before Start.
func (s *Service) OnReload(fn func(*models.Dataset)) {
	s.onReload = append(s.onReload, fn)
}

// Load performs the initial dataset load. An error here means a source file
// is missing or unreadable and the process should not come up.
func (s *Service) Load() error {
	version, err := s.fingerprint()
	if err != nil {
		return err
	}
	return s.reload(version)
}

// Start begins periodic change detection. Refresh failures keep the previous
// dataset; only startup failures are fatal (handled by the caller of Load).
func (s *Service) Start(ctx context.Context) {
	utils.DatasetLogger.Info("Starting dataset service, dir=%s refresh=%s", s.config.Dir, s.config.RefreshInterval)

	ticker := time.NewTicker(s.config.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			utils.DatasetLogger.Info("Shutting down")
			return
		case <-ticker.C:
			version, err := s.fingerprint()
			if err != nil {
				utils.DatasetLogger.Warn("Change check failed, keeping current dataset: %v", err)
				continue
			}
			if version == s.Version() {
				continue
			}
			if err := s.reload(version); err != nil {
				utils.DatasetLogger.Warn("Reload failed, keeping current dataset: %v", err)
			}
		}
	}
}

// Dataset returns the current snapshot. Nil only before Load has succeeded.
func (s *Service) Dataset() *models.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// Version returns the content fingerprint of the current snapshot, or ""
// before the first load.
func (s *Service) Version() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.dataset == nil {
		return ""
	}
	return s.dataset.Version
}

// paths returns the five source file paths in a fixed order.
func (s *Service) paths() []string {
	return []string{
		filepath.Join(s.config.Dir, s.config.StateTotalsFile),
		filepath.Join(s.config.Dir, s.config.PopulationFile),
		filepath.Join(s.config.Dir, s.config.DistrictsFile),
		filepath.Join(s.config.Dir, s.config.CentroidsFile),
		filepath.Join(s.config.Dir, s.config.PersonsFile),
	}
}

// fingerprint hashes the content of all source files into one version
// string. Identical content always produces an identical version, so a
// rewrite without changes triggers no reload.
func (s *Service) fingerprint() (string, error) {
	h, err := blake2b.New256(nil)
	if err != nil {
		return "", utils.WrapError(err, utils.ErrorTypeInternal, "HASH_INIT_FAILED",
			"cannot initialize fingerprint hash", "dataset")
	}
	for _, path := range s.paths() {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", utils.WrapError(err, utils.ErrorTypeLoad, "FINGERPRINT_FAILED",
				fmt.Sprintf("cannot read source file %s", path), "dataset")
		}
		h.Write(data)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// reload builds a fresh dataset from the source files and swaps it in
// atomically, then notifies subscribers.
func (s *Service) reload(version string) error {
	start := time.Now()

	stateTotals, droppedStates, err := LoadStateTotals(filepath.Join(s.config.Dir, s.config.StateTotalsFile))
	if err != nil {
		return err
	}
	population, droppedPop, err := LoadPopulation(filepath.Join(s.config.Dir, s.config.PopulationFile))
	if err != nil {
		return err
	}
	districts, droppedDistricts, err := LoadDistricts(filepath.Join(s.config.Dir, s.config.DistrictsFile))
	if err != nil {
		return err
	}
	centroids, droppedCentroids, err := LoadCentroids(filepath.Join(s.config.Dir, s.config.CentroidsFile))
	if err != nil {
		return err
	}
	persons, droppedPersons, err := LoadPersons(filepath.Join(s.config.Dir, s.config.PersonsFile))
	if err != nil {
		return err
	}

	dataset := &models.Dataset{
		StateTotals: stateTotals,
		Population:  population,
		Districts:   districts,
		Centroids:   centroids,
		Persons:     persons,
		Dropped: models.DropCounts{
			StateTotals: droppedStates,
			Population:  droppedPop,
			Districts:   droppedDistricts,
			Centroids:   droppedCentroids,
			Persons:     droppedPersons,
		},
		Version:  version,
		LoadedAt: time.Now(),
	}

	s.mu.Lock()
	s.dataset = dataset
	s.mu.Unlock()

	utils.DatasetLogger.Info("Loaded dataset version=%.12s in %v: %d state rows, %d population rows, %d district rows, %d centroids, %d persons",
		version, time.Since(start).Round(time.Millisecond),
		len(stateTotals), len(population), len(districts), len(centroids), len(persons))
	if total := dataset.Dropped.Total(); total > 0 {
		utils.DatasetLogger.Info("Dropped %d malformed rows (states=%d population=%d districts=%d centroids=%d persons=%d)",
			total, droppedStates, droppedPop, droppedDistricts, droppedCentroids, droppedPersons)
	}

	for _, fn := range s.onReload {
		fn(dataset)
	}
	return nil
}
