// Command report computes one dashboard view from a data directory and
// writes it to stdout as JSON. It runs the same loaders and aggregations as
// the server, so its output matches what the API would serve.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"covid-dashboard-backend/internal/cache"
	"covid-dashboard-backend/internal/dataset"
	"covid-dashboard-backend/internal/stats"
	"covid-dashboard-backend/internal/views"
)

func main() {
	var (
		dir       = flag.String("dir", dataset.DefaultConfig().Dir, "directory containing the source CSV files")
		view      = flag.String("view", "summary", "view to compute: summary, states, daily-totals, state-series, ranking, state-demographics, district-zones, age-gender-rollup, snapshot")
		statesArg = flag.String("states", "", "comma-separated state filter for daily-totals and state-series")
		direction = flag.String("direction", "top", "ranking direction: top or bottom")
		n         = flag.Int("n", 10, "ranking size")
		year      = flag.Int("year", 2021, "district zone year")
		month     = flag.Int("month", 5, "district zone month")
		pretty    = flag.Bool("pretty", false, "indent JSON output")
	)
	flag.Parse()

	cfg := dataset.DefaultConfig()
	cfg.Dir = *dir

	data := dataset.NewService(cfg)
	v := views.NewService(views.DefaultConfig(), data, cache.NewMemoizer())

	if err := data.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "report: %v\n", err)
		os.Exit(1)
	}

	var (
		result interface{}
		err    error
	)
	switch *view {
	case "summary":
		result, err = v.Summary()
	case "states":
		result, err = v.States()
	case "daily-totals":
		result, err = v.DailyTotals(splitStates(*statesArg))
	case "state-series":
		result, err = v.StateSeries(splitStates(*statesArg))
	case "ranking":
		result, err = v.Ranking(stats.RankDirection(*direction), *n)
	case "state-demographics":
		result, err = v.StateDemographics()
	case "district-zones":
		result, err = v.DistrictZones(*year, *month)
	case "age-gender-rollup":
		result, err = v.AgeGenderRollup()
	case "snapshot":
		result, err = v.DashboardSnapshot()
	default:
		fmt.Fprintf(os.Stderr, "report: unknown view %q\n", *view)
		os.Exit(2)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "report: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(os.Stderr, "report: %v\n", err)
		os.Exit(1)
	}
}

func splitStates(raw string) []string {
	if raw == "" {
		return nil
	}
	var states []string
	for _, s := range strings.Split(raw, ",") {
		if s = strings.TrimSpace(s); s != "" {
			states = append(states, s)
		}
	}
	return states
}
