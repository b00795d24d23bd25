package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"covid-dashboard-backend/internal/models"
	"covid-dashboard-backend/internal/utils"
)

// Source table column names, exactly as they appear in the CSV headers.
// The renderer and the loaders both bind by these names.
var (
	stateTotalsColumns = []string{"Date", "State", "Confirmed", "Recovered", "Deceased"}
	populationColumns  = []string{"State", "Population", "Density"}
	districtColumns    = []string{"Date", "District", "Confirmed", "Recovered", "Deceased"}
	centroidColumns    = []string{"District", "Latitude", "Longitude"}
	personColumns      = []string{"age", "gender", "current_status"}
)

// table wraps a parsed CSV file with header-indexed column access. Column
// order in the file is free; extra columns are ignored.
type table struct {
	path string
	cols map[string]int
	rows [][]string
}

// readTable loads a CSV file and verifies the required columns exist. A
// missing or unreadable file aborts the load; no partial table is returned.
func readTable(path string, required []string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeLoad, "OPEN_FAILED",
			fmt.Sprintf("cannot open source file %s", path), "dataset")
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return nil, utils.WrapError(err, utils.ErrorTypeLoad, "HEADER_READ_FAILED",
			fmt.Sprintf("cannot read header of %s", path), "dataset")
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			// Strip a UTF-8 BOM if the file carries one
			name = strings.TrimPrefix(name, "\ufeff")
		}
		cols[strings.TrimSpace(name)] = i
	}
	for _, name := range required {
		if _, ok := cols[name]; !ok {
			return nil, utils.NewAppError(utils.ErrorTypeLoad, "MISSING_COLUMN",
				fmt.Sprintf("%s: required column %q not found", path, name), "dataset")
		}
	}

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, utils.WrapError(err, utils.ErrorTypeLoad, "ROW_READ_FAILED",
				fmt.Sprintf("cannot read rows of %s", path), "dataset")
		}
		rows = append(rows, rec)
	}
	return &table{path: path, cols: cols, rows: rows}, nil
}

// field returns the raw cell for a column, or "" when the row is too short.
func (t *table) field(row []string, name string) string {
	i := t.cols[name]
	if i >= len(row) {
		return ""
	}
	return row[i]
}

// LoadStateTotals reads the statewise daily totals table. Rows with an
// unparsable date or count are dropped silently; the second return is the
// drop count.
func LoadStateTotals(path string) ([]models.DailyStateRecord, int, error) {
	t, err := readTable(path, stateTotalsColumns)
	if err != nil {
		return nil, 0, err
	}

	records := make([]models.DailyStateRecord, 0, len(t.rows))
	dropped := 0
	for _, row := range t.rows {
		date, err := parseDayFirstDate(t.field(row, "Date"))
		if err != nil {
			dropped++
			continue
		}
		state := strings.TrimSpace(t.field(row, "State"))
		if state == "" {
			dropped++
			continue
		}
		confirmed, okC := parseCount(t.field(row, "Confirmed"))
		recovered, okR := parseCount(t.field(row, "Recovered"))
		deceased, okD := parseCount(t.field(row, "Deceased"))
		if !okC || !okR || !okD {
			dropped++
			continue
		}
		records = append(records, models.DailyStateRecord{
			State:     state,
			Date:      date,
			Confirmed: confirmed,
			Recovered: recovered,
			Deceased:  deceased,
		})
	}
	return records, dropped, nil
}

// LoadPopulation reads the census population table. Density is extracted
// from its mixed string form; rows without an extractable density are
// dropped rather than carried as NaN.
func LoadPopulation(path string) ([]models.PopulationRecord, int, error) {
	t, err := readTable(path, populationColumns)
	if err != nil {
		return nil, 0, err
	}

	records := make([]models.PopulationRecord, 0, len(t.rows))
	dropped := 0
	for _, row := range t.rows {
		state := strings.TrimSpace(t.field(row, "State"))
		if state == "" {
			dropped++
			continue
		}
		population, ok := parseCount(t.field(row, "Population"))
		if !ok {
			dropped++
			continue
		}
		density, ok := extractDensity(t.field(row, "Density"))
		if !ok {
			dropped++
			continue
		}
		records = append(records, models.PopulationRecord{
			State:      state,
			Population: population,
			Density:    density,
		})
	}
	return records, dropped, nil
}

// LoadDistricts reads the district daily totals table.
func LoadDistricts(path string) ([]models.DistrictRecord, int, error) {
	t, err := readTable(path, districtColumns)
	if err != nil {
		return nil, 0, err
	}

	records := make([]models.DistrictRecord, 0, len(t.rows))
	dropped := 0
	for _, row := range t.rows {
		date, err := parseISODate(t.field(row, "Date"))
		if err != nil {
			dropped++
			continue
		}
		district := strings.TrimSpace(t.field(row, "District"))
		if district == "" {
			dropped++
			continue
		}
		confirmed, okC := parseCount(t.field(row, "Confirmed"))
		recovered, okR := parseCount(t.field(row, "Recovered"))
		deceased, okD := parseCount(t.field(row, "Deceased"))
		if !okC || !okR || !okD {
			dropped++
			continue
		}
		records = append(records, models.DistrictRecord{
			District:  district,
			Date:      date,
			Confirmed: confirmed,
			Recovered: recovered,
			Deceased:  deceased,
		})
	}
	return records, dropped, nil
}

// LoadCentroids reads the district centroid table.
func LoadCentroids(path string) ([]models.Centroid, int, error) {
	t, err := readTable(path, centroidColumns)
	if err != nil {
		return nil, 0, err
	}

	records := make([]models.Centroid, 0, len(t.rows))
	dropped := 0
	for _, row := range t.rows {
		district := strings.TrimSpace(t.field(row, "District"))
		if district == "" {
			dropped++
			continue
		}
		lat, okLat := parseCoordinate(t.field(row, "Latitude"))
		lon, okLon := parseCoordinate(t.field(row, "Longitude"))
		if !okLat || !okLon {
			dropped++
			continue
		}
		records = append(records, models.Centroid{
			District:  district,
			Latitude:  lat,
			Longitude: lon,
		})
	}
	return records, dropped, nil
}

// LoadPersons reads the per-person line list. Rows with a missing gender or
// status, or an age that does not coerce to a number, are excluded before
// any aggregation sees them.
func LoadPersons(path string) ([]models.PersonRecord, int, error) {
	t, err := readTable(path, personColumns)
	if err != nil {
		return nil, 0, err
	}

	records := make([]models.PersonRecord, 0, len(t.rows))
	dropped := 0
	for _, row := range t.rows {
		age, ok := parseAge(t.field(row, "age"))
		if !ok {
			dropped++
			continue
		}
		gender := strings.TrimSpace(t.field(row, "gender"))
		status := strings.TrimSpace(t.field(row, "current_status"))
		if gender == "" || status == "" {
			dropped++
			continue
		}
		records = append(records, models.PersonRecord{
			Age:    age,
			Gender: gender,
			Status: status,
		})
	}
	return records, dropped, nil
}
