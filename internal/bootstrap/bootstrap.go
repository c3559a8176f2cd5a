package bootstrap

import (
	"fmt"
	"log"

	"github.com/gflcollect/boxes-backend-go/internal/catalog"
	"github.com/gflcollect/boxes-backend-go/internal/config"
	"github.com/gflcollect/boxes-backend-go/internal/database"
	"github.com/gflcollect/boxes-backend-go/internal/models"
	"github.com/gflcollect/boxes-backend-go/internal/repository"
	"github.com/gflcollect/boxes-backend-go/internal/scoring"
	"github.com/gflcollect/boxes-backend-go/internal/service"
	"github.com/gflcollect/boxes-backend-go/internal/timeutil"
)

// App bundles the wired core components shared by the HTTP server and the
// CLI.
type App struct {
	Catalog   *catalog.Catalog
	Optimizer *service.OptimizerService
	Export    *service.ExportService
	Clock     *timeutil.Clock
}

// New loads the catalog, opens the state database, restores durable visit
// state and precomputes all scores.
func New(cfg *config.Config) (*App, error) {
	clock, err := timeutil.NewClock(cfg.Timezone)
	if err != nil {
		return nil, err
	}

	cat, err := catalog.LoadFile(cfg.CatalogPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load catalog: %w", err)
	}

	if err := database.Init(database.Config{Path: cfg.DBPath}); err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	visitRepo := repository.NewVisitRepository(database.GetDB(), clock)
	engine := scoring.NewEngine(cat, clock)
	cache := scoring.NewCache(engine)
	optimizer := service.NewOptimizerService(cat, engine, cache, visitRepo, clock)

	if err := optimizer.Bootstrap(); err != nil {
		// Bootstrap only surfaces persistence warnings; the engine
		// keeps operating in memory.
		if !models.IsPersistenceWarning(err) {
			return nil, err
		}
		log.Printf("WARNING: durability is compromised: %v", err)
	}

	return &App{
		Catalog:   cat,
		Optimizer: optimizer,
		Export:    service.NewExportService(clock),
		Clock:     clock,
	}, nil
}
