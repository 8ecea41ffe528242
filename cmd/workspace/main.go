package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/nethmavilhandesilva/trading-workspace/internal/application/service"
	"github.com/nethmavilhandesilva/trading-workspace/internal/config"
	"github.com/nethmavilhandesilva/trading-workspace/internal/infrastructure/backend"
	"github.com/nethmavilhandesilva/trading-workspace/internal/presentation/http/handler"
	"github.com/nethmavilhandesilva/trading-workspace/internal/presentation/http/routes"
	"github.com/nethmavilhandesilva/trading-workspace/pkg/printer"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Backend API client
	gateway := backend.NewClient(&cfg.Backend)

	// Receipt printer
	device, err := printer.FromConfig(cfg.Printer.Type, cfg.Printer.USBPath, cfg.Printer.Address)
	if err != nil {
		log.Printf("Warning: failed to initialize printer: %v", err)
		device = printer.NewNullPrinter()
	}
	sink := service.NewThermalSink(device, cfg.Printer.Width)

	// Workspace core
	ledger := service.NewLedger()
	refdata := service.NewRefDataService(gateway)
	workspace := service.NewWorkspaceService(gateway, ledger, refdata, sink)
	defer workspace.Close()

	if err := workspace.Start(context.Background()); err != nil {
		log.Fatalf("Failed to load the sales ledger: %v", err)
	}

	// Initialize handlers
	handlers := &routes.Handlers{
		Workspace: handler.NewWorkspaceHandler(workspace),
	}

	// Setup routes
	router := routes.Setup(handlers, &routes.Deps{Cfg: cfg})

	port := cfg.App.Port
	if port == "" {
		port = "8090"
	}

	log.Printf("Starting %s on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)
	log.Printf("Backend: %s", cfg.Backend.BaseURL)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
