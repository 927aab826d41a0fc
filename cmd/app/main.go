//go:generate swag init --dir ../../ --generalInfo cmd/app/main.go --output ../../docs

package main

import (
	"salon/config"
	"salon/di"
	"salon/helper"
	"salon/shared/logger"

	"github.com/rs/zerolog/log"
)

// @title Salon Booking API
// @version 1.0
// @description Appointment scheduling for a salon: customers, services, staff and bookings.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	logger.InitLogger()

	cfg := config.Get()

	logger.Configure(cfg)

	if cfg.DB.Postgres.AutoMigrate {
		if err := helper.Up(cfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to migrate database")
		}
	}

	http := di.InitializeService()
	http.Serve()
}
