package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gflcollect/boxes-backend-go/internal/models"
)

// requiredColumns are the catalog columns every source file must carry, in
// addition to at least one weekly fill column.
var requiredColumns = []string{"n_boite", "adresse", "commune", "cp", "conteneur", "volume_moyen"}

const weekColumnPrefix = "semaine_"

// missing-value markers accepted in weekly fill cells.
func isMissingCell(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "na", "n/a", "nan", "null":
		return true
	}
	return false
}

// LoadFile loads and validates the box catalog from a CSV file.
func LoadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Load reads the box catalog from CSV data. The header row is validated
// against the required schema; every row is converted into a strongly
// typed Box or rejected with a ValidationError. Rejection happens here,
// at the boundary, never downstream.
func Load(r io.Reader) (*Catalog, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(name)] = i
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, models.NewValidationError("schema", "missing required columns: %s", strings.Join(missing, ", "))
	}

	// Map week number -> column index. Column order in the file is not
	// guaranteed to follow week order.
	weekCols := make(map[int]int)
	for name, idx := range cols {
		if !strings.HasPrefix(name, weekColumnPrefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(name, weekColumnPrefix))
		if err != nil || n < 1 || n > models.MaxWeeks {
			return nil, models.NewValidationError("schema", "invalid week column %q", name)
		}
		weekCols[n] = idx
	}
	if len(weekCols) == 0 {
		return nil, models.NewValidationError("schema", "no weekly fill columns found")
	}

	var boxes []*models.Box
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read catalog row %d: %w", line+1, err)
		}
		line++

		box, err := parseRow(record, cols, weekCols, line)
		if err != nil {
			return nil, err
		}
		boxes = append(boxes, box)
	}

	return New(boxes), nil
}

func parseRow(record []string, cols map[string]int, weekCols map[int]int, line int) (*models.Box, error) {
	id, err := parseBoxID(record[cols["n_boite"]])
	if err != nil {
		return nil, models.NewValidationError("n_boite", "row %d: %v", line, err)
	}

	avgFill := 0.0
	if raw := strings.TrimSpace(record[cols["volume_moyen"]]); !isMissingCell(raw) {
		avgFill, err = strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, models.NewValidationError("volume_moyen", "row %d: not numeric: %q", line, raw)
		}
		if avgFill < 0 || avgFill > 10 {
			return nil, models.NewValidationError("volume_moyen", "row %d: must be within [0,10], got %.2f", line, avgFill)
		}
	}

	weeks := make([]*float64, models.MaxWeeks)
	for n, idx := range weekCols {
		raw := record[idx]
		if isMissingCell(raw) {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, models.NewValidationError(fmt.Sprintf("semaine_%d", n), "row %d: not numeric: %q", line, raw)
		}
		if v < 0 || v > 10 {
			return nil, models.NewValidationError(fmt.Sprintf("semaine_%d", n), "row %d: must be within [0,10], got %.2f", line, v)
		}
		weeks[n-1] = &v
	}

	return &models.Box{
		ID:            id,
		Address:       strings.TrimSpace(record[cols["adresse"]]),
		Commune:       strings.TrimSpace(record[cols["commune"]]),
		PostalCode:    normalizePostalCode(record[cols["cp"]]),
		ContainerType: strings.TrimSpace(record[cols["conteneur"]]),
		AverageFill:   avgFill,
		Weeks:         weeks,
	}, nil
}

// parseBoxID normalizes the box identifier to an integer. Source files have
// been seen carrying ids as plain ints and as floats ("42.0").
func parseBoxID(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if id, err := strconv.Atoi(raw); err == nil {
		return id, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("not an integer: %q", raw)
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("not an integer: %q", raw)
	}
	return int(f), nil
}

// normalizePostalCode strips a trailing ".0" left behind by float-typed
// postal code columns.
func normalizePostalCode(raw string) string {
	return strings.TrimSuffix(strings.TrimSpace(raw), ".0")
}
