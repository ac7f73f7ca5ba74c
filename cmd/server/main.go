package main

import (
	"fmt"
	"log"

	"ems-web/internal/api/routes"
	"ems-web/internal/config"
	"ems-web/internal/models"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	// The local database only backs the activity history. The panel still
	// works against the remote API without it.
	if err := models.InitDB(cfg); err != nil {
		log.Printf("WARNING: history database unavailable: %v", err)
	}

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()
	routes.SetupRoutes(r, cfg)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Printf("EMS web panel listening on %s (upstream %s)", addr, cfg.API.BaseURL)
	if err := r.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
