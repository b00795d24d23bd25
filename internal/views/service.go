package views

import (
	"covid-dashboard-backend/internal/cache"
	"covid-dashboard-backend/internal/dataset"
	"covid-dashboard-backend/internal/models"
	"covid-dashboard-backend/internal/stats"
	"covid-dashboard-backend/internal/utils"
)

// Config holds views service configuration. The defaults mirror the
// dashboard's initial widget state.
type Config struct {
	DefaultRankSize  int `env:"VIEWS_DEFAULT_RANK_SIZE"`  // Ranking size when the request does not specify one
	DefaultZoneYear  int `env:"VIEWS_DEFAULT_ZONE_YEAR"`  // District zone year when unspecified
	DefaultZoneMonth int `env:"VIEWS_DEFAULT_ZONE_MONTH"` // District zone month when unspecified
}

// DefaultConfig returns default views service configuration
func DefaultConfig() Config {
	return Config{
		DefaultRankSize:  10,
		DefaultZoneYear:  2021,
		DefaultZoneMonth: 5,
	}
}

// DashboardSnapshot bundles every derived view the dashboard renders at
// once. The websocket pushes it on connect and after each dataset reload.
type DashboardSnapshot struct {
	Summary           stats.DatasetSummary      `json:"summary"`
	States            []string                  `json:"states"`
	DailyTotals       []stats.DailyTotal        `json:"dailyTotals"`
	Ranking           *stats.Ranking            `json:"ranking"`
	StateDemographics []stats.StateDemographics `json:"stateDemographics"`
	DistrictZones     []stats.DistrictZone      `json:"districtZones"`
	AgeGenderRollup   []stats.RollupNode        `json:"ageGenderRollup"`
}

// Service computes derived views over the current dataset, memoizing each
// result per dataset version. Construct it before the initial dataset load
// so the memoizer version hook sees every load.
type Service struct {
	config Config
	data   *dataset.Service
	memo   *cache.Memoizer
}

// NewService creates a views service bound to a dataset service and a
// memoizer. It registers a reload hook that invalidates the memoizer
// whenever the dataset version changes.
func NewService(config Config, data *dataset.Service, memo *cache.Memoizer) *Service {
	s := &Service{
		config: config,
		data:   data,
		memo:   memo,
	}
	data.OnReload(func(ds *models.Dataset) {
		memo.SetVersion(ds.Version)
	})
	return s
}

// Config returns the configured widget defaults
func (s *Service) Config() Config {
	return s.config
}

// CachedViews returns the number of memoized results currently held
func (s *Service) CachedViews() int {
	return s.memo.Len()
}

// current returns the loaded dataset or an internal error before first load
func (s *Service) current() (*models.Dataset, error) {
	ds := s.data.Dataset()
	if ds == nil {
		return nil, utils.NewAppError(utils.ErrorTypeInternal, "DATASET_NOT_LOADED",
			"dataset has not been loaded yet", "views")
	}
	return ds, nil
}

// Summary returns the dataset profile for the dashboard header
func (s *Service) Summary() (stats.DatasetSummary, error) {
	ds, err := s.current()
	if err != nil {
		return stats.DatasetSummary{}, err
	}
	return cache.Memoized(s.memo, "summary", ds.Version, func() (stats.DatasetSummary, error) {
		return stats.BuildSummary(ds), nil
	})
}

// States returns the sorted distinct state names of the daily series
func (s *Service) States() ([]string, error) {
	ds, err := s.current()
	if err != nil {
		return nil, err
	}
	return cache.Memoized(s.memo, "states", ds.Version, func() ([]string, error) {
		return stats.StateNames(ds.StateTotals), nil
	})
}

// DailyTotals returns nationwide daily totals, optionally restricted to a
// state subset. An empty subset selects every state.
func (s *Service) DailyTotals(states []string) ([]stats.DailyTotal, error) {
	ds, err := s.current()
	if err != nil {
		return nil, err
	}
	return cache.Memoized(s.memo, "daily-totals", ds.Version, func() ([]stats.DailyTotal, error) {
		return stats.DailyTotals(stats.FilterStates(ds.StateTotals, states)), nil
	}, states)
}

// StateSeries returns the raw per-state daily records for a state subset,
// the frame behind the per-state bubble chart. An empty subset selects
// every state.
func (s *Service) StateSeries(states []string) ([]models.DailyStateRecord, error) {
	ds, err := s.current()
	if err != nil {
		return nil, err
	}
	return cache.Memoized(s.memo, "state-series", ds.Version, func() ([]models.DailyStateRecord, error) {
		return stats.FilterStates(ds.StateTotals, states), nil
	}, states)
}

// Ranking returns the Top-N or Bottom-N states by latest confirmed count in
// long form
func (s *Service) Ranking(direction stats.RankDirection, n int) (*stats.Ranking, error) {
	ds, err := s.current()
	if err != nil {
		return nil, err
	}
	return cache.Memoized(s.memo, "ranking", ds.Version, func() (*stats.Ranking, error) {
		return stats.RankStates(ds.StateTotals, direction, n)
	}, direction, n)
}

// StateDemographics returns each state's latest totals joined with census
// population and density
func (s *Service) StateDemographics() ([]stats.StateDemographics, error) {
	ds, err := s.current()
	if err != nil {
		return nil, err
	}
	return cache.Memoized(s.memo, "state-demographics", ds.Version, func() ([]stats.StateDemographics, error) {
		return stats.MergeWithPopulation(stats.LatestByState(ds.StateTotals), ds.Population), nil
	})
}

// DistrictZones returns classified district zones for one calendar month
func (s *Service) DistrictZones(year, month int) ([]stats.DistrictZone, error) {
	ds, err := s.current()
	if err != nil {
		return nil, err
	}
	return cache.Memoized(s.memo, "district-zones", ds.Version, func() ([]stats.DistrictZone, error) {
		return stats.ClassifyDistricts(ds.Districts, ds.Centroids, year, month)
	}, year, month)
}

// AgeGenderRollup returns the age/gender/status hierarchy in flat
// parent-pointer form
func (s *Service) AgeGenderRollup() ([]stats.RollupNode, error) {
	ds, err := s.current()
	if err != nil {
		return nil, err
	}
	return cache.Memoized(s.memo, "age-gender-rollup", ds.Version, func() ([]stats.RollupNode, error) {
		return stats.AgeGenderRollup(ds.Persons), nil
	})
}

// DashboardSnapshot assembles every view with the configured widget
// defaults, for the websocket push
func (s *Service) DashboardSnapshot() (*DashboardSnapshot, error) {
	ds, err := s.current()
	if err != nil {
		return nil, err
	}
	return cache.Memoized(s.memo, "snapshot", ds.Version, func() (*DashboardSnapshot, error) {
		summary, err := s.Summary()
		if err != nil {
			return nil, err
		}
		states, err := s.States()
		if err != nil {
			return nil, err
		}
		totals, err := s.DailyTotals(nil)
		if err != nil {
			return nil, err
		}
		ranking, err := s.Ranking(stats.RankTop, s.config.DefaultRankSize)
		if err != nil {
			return nil, err
		}
		demographics, err := s.StateDemographics()
		if err != nil {
			return nil, err
		}
		zones, err := s.DistrictZones(s.config.DefaultZoneYear, s.config.DefaultZoneMonth)
		if err != nil {
			return nil, err
		}
		rollup, err := s.AgeGenderRollup()
		if err != nil {
			return nil, err
		}
		return &DashboardSnapshot{
			Summary:           summary,
			States:            states,
			DailyTotals:       totals,
			Ranking:           ranking,
			StateDemographics: demographics,
			DistrictZones:     zones,
			AgeGenderRollup:   rollup,
		}, nil
	})
}
