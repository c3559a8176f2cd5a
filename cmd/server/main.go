package main

import (
	"flag"
	"log"

	"github.com/gflcollect/boxes-backend-go/internal/api"
	"github.com/gflcollect/boxes-backend-go/internal/bootstrap"
	"github.com/gflcollect/boxes-backend-go/internal/config"
	"github.com/gflcollect/boxes-backend-go/internal/database"
)

func main() {
	cfgFile := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	app, err := bootstrap.New(cfg)
	if err != nil {
		log.Fatal("Failed to initialize optimizer:", err)
	}
	defer database.Close()

	router := api.SetupRouter(cfg, app.Optimizer, app.Export)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := router.Run(cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
