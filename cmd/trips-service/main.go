package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/nurpe/freightops-trips/internal/auth"
	"github.com/nurpe/freightops-trips/internal/bootstrap"
	"github.com/nurpe/freightops-trips/internal/config"
	"github.com/nurpe/freightops-trips/internal/controller"
	"github.com/nurpe/freightops-trips/internal/db"
	"github.com/nurpe/freightops-trips/internal/excel"
	"github.com/nurpe/freightops-trips/internal/fiscal"
	httphandler "github.com/nurpe/freightops-trips/internal/http"
	"github.com/nurpe/freightops-trips/internal/http/middleware"
	"github.com/nurpe/freightops-trips/internal/logger"
	"github.com/nurpe/freightops-trips/internal/pdf"
	"github.com/nurpe/freightops-trips/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	// Bootstrap is a single attempt: a reachable database seeds the session,
	// anything else falls back to the static fixture.
	var loader bootstrap.Loader
	if database, err := db.New(cfg, log); err != nil {
		log.Warn().Err(err).Msg("bootstrap database unavailable")
	} else {
		loader = bootstrap.NewPostgresLoader(database)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	dataset := bootstrap.LoadOrFixture(ctx, loader, log)
	cancel()

	issuer := fiscal.NewIssuer(cfg.Freight.RatePerKg, cfg.Freight.FlatFallback)
	store := controller.NewStore(controller.State{
		Trips:              dataset.Trips,
		Loads:              dataset.Loads,
		Vehicles:           dataset.Vehicles,
		AvailableDocuments: dataset.AvailableDocuments,
		Clients:            dataset.Clients,
		Cities:             dataset.Cities,
	}, issuer, log)

	pdfGenerator, err := pdf.NewGenerator()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init pdf generator")
	}
	trips := service.NewTripService(store, excel.NewGenerator(), pdfGenerator, log)

	tokenParser := auth.NewParser(cfg.Auth.AccessSecret)
	handler := httphandler.NewHandler(trips, log)
	authMiddleware := middleware.Auth(tokenParser)
	router := httphandler.NewRouter(handler, authMiddleware, cfg.Environment)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	log.Info().Str("addr", addr).Msg("starting trips service")

	if err := router.Run(addr); err != nil {
		log.Error().Err(err).Msg("server stopped")
		os.Exit(1)
	}
}
