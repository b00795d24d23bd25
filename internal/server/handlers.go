package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"covid-dashboard-backend/internal/stats"
	"covid-dashboard-backend/internal/utils"
)

// writeJSON writes a JSON response with the given status
func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		utils.ServerLogger.Error("Response encoding failed: %v", err)
	}
}

// writeError maps an error onto its HTTP status: validation errors are the
// caller's fault, everything else is a server fault.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if utils.IsValidationError(err) {
		status = http.StatusBadRequest
	} else {
		utils.ServerLogger.Error("Request failed: %v", err)
	}
	s.writeJSON(w, status, map[string]interface{}{
		"error": err.Error(),
		"code":  utils.GetErrorCode(err),
	})
}

// queryStates parses the optional comma-separated states filter
func queryStates(r *http.Request) []string {
	raw := r.URL.Query().Get("states")
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

// queryInt parses an optional integer parameter, falling back to def
func queryInt(r *http.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, utils.NewAppError(utils.ErrorTypeValidation, "INVALID_PARAMETER",
			fmt.Sprintf("parameter %q must be an integer, got %q", name, raw), "server")
	}
	return n, nil
}

// handleWebSocket hands the connection to the broadcaster
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	s.broadcaster.UpgradeConnection(w, r)
}

// handleHealth returns process health plus dataset and client state
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"status":         "ok",
		"clients":        s.broadcaster.GetClientCount(),
		"datasetVersion": s.data.Version(),
		"cachedViews":    s.views.CachedViews(),
	}
	if ds := s.data.Dataset(); ds != nil {
		response["loadedAt"] = ds.LoadedAt
	}
	s.writeJSON(w, http.StatusOK, response)
}

// handleSummary returns the dataset profile
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.views.Summary()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, summary)
}

// handleStates returns the distinct state names for the filter widget
func (s *Server) handleStates(w http.ResponseWriter, r *http.Request) {
	states, err := s.views.States()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"states": states,
		"count":  len(states),
	})
}

// handleDailyTotals returns nationwide daily totals for an optional state
// subset
func (s *Server) handleDailyTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := s.views.DailyTotals(queryStates(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, totals)
}

// handleStateSeries returns the raw per-state series for an optional state
// subset
func (s *Server) handleStateSeries(w http.ResponseWriter, r *http.Request) {
	series, err := s.views.StateSeries(queryStates(r))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, series)
}

// handleRanking returns the Top-N/Bottom-N ranked series
func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	direction := stats.RankDirection(r.URL.Query().Get("direction"))
	if direction == "" {
		direction = stats.RankTop
	}
	n, err := queryInt(r, "n", s.views.Config().DefaultRankSize)
	if err != nil {
		s.writeError(w, err)
		return
	}

	ranking, err := s.views.Ranking(direction, n)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, ranking)
}

// handleStateDemographics returns latest state totals joined with census data
func (s *Server) handleStateDemographics(w http.ResponseWriter, r *http.Request) {
	demographics, err := s.views.StateDemographics()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, demographics)
}

// handleDistrictZones returns classified district zones for one month
func (s *Server) handleDistrictZones(w http.ResponseWriter, r *http.Request) {
	year, err := queryInt(r, "year", s.views.Config().DefaultZoneYear)
	if err != nil {
		s.writeError(w, err)
		return
	}
	month, err := queryInt(r, "month", s.views.Config().DefaultZoneMonth)
	if err != nil {
		s.writeError(w, err)
		return
	}

	zones, err := s.views.DistrictZones(year, month)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, zones)
}

// handleAgeGenderRollup returns the demographic hierarchy
func (s *Server) handleAgeGenderRollup(w http.ResponseWriter, r *http.Request) {
	rollup, err := s.views.AgeGenderRollup()
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rollup)
}
