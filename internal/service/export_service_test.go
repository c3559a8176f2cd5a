package service

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gflcollect/boxes-backend-go/internal/models"
	"github.com/gflcollect/boxes-backend-go/internal/timeutil"
)

func TestParseAddress(t *testing.T) {
	cases := []struct {
		name    string
		address string
		street  string
		number  string
	}{
		{"number first", "12 Rue de la Paix", "Rue de la Paix", "12"},
		{"number last", "Rue de la Paix 12", "Rue de la Paix", "12"},
		{"comma separated", "Rue de la Paix, 12", "Rue de la Paix", "12"},
		{"letter suffix", "Avenue de la Praille 47b", "Avenue de la Praille", "47b"},
		{"multiple addresses", "Rue du Stand 3 / Quai du Rhône 8", "Rue du Stand", "3"},
		{"no number", "Place du Molard", "Place du Molard", ""},
		{"surrounding spaces", "  Chemin des Ouches 1  ", "Chemin des Ouches", "1"},
		{"empty", "", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			street, number := ParseAddress(tc.address)
			require.Equal(t, tc.street, street)
			require.Equal(t, tc.number, number)
		})
	}
}

func TestWriteCSV(t *testing.T) {
	svc := NewExportService(timeutil.NewFixedClock(testNow))

	recs := []models.Recommendation{
		{
			BoxID:         1,
			Address:       "Rue de la Paix 12",
			Commune:       "Genève",
			PostalCode:    "1201",
			ContainerType: "Textile",
			ExpectedFill:  8.0,
		},
		{
			BoxID:         3,
			Address:       "Chemin des Ouches 1",
			Commune:       "Vernier",
			PostalCode:    "1219",
			ContainerType: "Textile",
			ExpectedFill:  7.9,
		},
	}

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(&buf, recs))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	require.Equal(t, exportHeader, rows[0])

	require.Equal(t, "GFL-C1", rows[1][0])
	require.Equal(t, "Boite_genève_textile_1", rows[1][1])
	require.Equal(t, "rue de la paix 12", rows[1][2])
	require.Equal(t, "1201", rows[1][3])
	require.Equal(t, "Genève", rows[1][4])
	require.Equal(t, "10000", rows[1][5])
	require.Equal(t, "15/06/2025", rows[1][6])
	require.Equal(t, "80.0", rows[1][7])
	// 180kg * 80% * 0.20 EUR/kg
	require.Equal(t, "28.80", rows[1][8])

	// Order numbers increment per row.
	require.Equal(t, "10001", rows[2][5])
	require.Equal(t, "79.0", rows[2][7])
}

func TestWriteCSVEmpty(t *testing.T) {
	svc := NewExportService(timeutil.NewFixedClock(testNow))

	var buf bytes.Buffer
	require.NoError(t, svc.WriteCSV(&buf, nil))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestExportFilename(t *testing.T) {
	svc := NewExportService(timeutil.NewFixedClock(testNow))
	require.Equal(t, "recommandations_20250615_120000.csv", svc.Filename())
}
