package service

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/gflcollect/boxes-backend-go/internal/models"
	"github.com/gflcollect/boxes-backend-go/internal/timeutil"
)

// Export pricing assumptions: a full 180kg container sold at 0.20 EUR/kg.
const (
	containerCapacityKg = 180.0
	revenuePerKg        = 0.2
	baseOrderNumber     = 10000
)

var exportHeader = []string{
	"Numéro de client",
	"Nom du client",
	"Rue et num",
	"Code postal",
	"Ville",
	"Numéro de commande",
	"Date de livraison",
	"Remplissage attendu (%)",
	"Revenu (EUR)",
}

// ExportService renders ranked recommendations as the pickup-order CSV
// consumed by the dispatch tooling.
type ExportService struct {
	clock *timeutil.Clock
}

// NewExportService creates a new export service
func NewExportService(clock *timeutil.Clock) *ExportService {
	return &ExportService{clock: clock}
}

// WriteCSV writes one order row per recommendation.
func (s *ExportService) WriteCSV(w io.Writer, recs []models.Recommendation) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return fmt.Errorf("failed to write export header: %w", err)
	}

	deliveryDate := s.clock.Now().Format("02/01/2006")
	for i, rec := range recs {
		street, number := ParseAddress(rec.Address)
		line := street
		if number != "" {
			line = street + " " + number
		}

		row := []string{
			fmt.Sprintf("GFL-C%d", rec.BoxID),
			clientName(rec.BoxID, rec.Commune, rec.ContainerType),
			strings.ToLower(line),
			rec.PostalCode,
			rec.Commune,
			strconv.Itoa(baseOrderNumber + i),
			deliveryDate,
			strconv.FormatFloat(rec.ExpectedFill*10, 'f', 1, 64),
			strconv.FormatFloat(containerCapacityKg*(rec.ExpectedFill/10)*revenuePerKg, 'f', 2, 64),
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("failed to write export row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// Filename returns a timestamped name for a recommendations export.
func (s *ExportService) Filename() string {
	return "recommandations_" + s.clock.Now().Format("20060102_150405") + ".csv"
}

var (
	numberFirstPattern = regexp.MustCompile(`^(\d+[a-zA-Z]?)\s+(.+)$`)
	numberLastPattern  = regexp.MustCompile(`^(.+?)\s+(\d+[a-zA-Z]?)$`)
	numberCommaPattern = regexp.MustCompile(`^(.+?),\s*(\d+[a-zA-Z]?)$`)
)

// ParseAddress splits an address into street and number, handling the
// number-first, number-last and comma-separated forms seen in the catalog.
// When a cell carries several addresses separated by "/", the first wins.
func ParseAddress(address string) (street, number string) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", ""
	}

	if idx := strings.Index(address, "/"); idx >= 0 {
		address = strings.TrimSpace(address[:idx])
	}

	if m := numberFirstPattern.FindStringSubmatch(address); m != nil {
		return strings.TrimSpace(m[2]), strings.TrimSpace(m[1])
	}
	if m := numberCommaPattern.FindStringSubmatch(address); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}
	if m := numberLastPattern.FindStringSubmatch(address); m != nil {
		return strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	}

	return address, ""
}

// clientName derives a stable, descriptive client name for a box.
func clientName(boxID int, commune, containerType string) string {
	communeClean := strings.ToLower(strings.NewReplacer(" ", "", "-", "").Replace(commune))
	return fmt.Sprintf("Boite_%s_%s_%d", communeClean, strings.ToLower(containerType), boxID)
}
