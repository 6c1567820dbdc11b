package main

import (
	"context"
	"fmt"

	"washride/config"
	"washride/pkg/logger"
	"washride/storage/postgres"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.ServiceName, cfg.LoggerLevel)
	pg, err := postgres.New(context.Background(), cfg, log)
	if err != nil {
		panic(err)
	}
	defer pg.Close()

	// CASCADE cleans up profiles, vehicles, trips and bookings that
	// reference users.
	_, err = pg.GetPool().Exec(context.Background(), "TRUNCATE TABLE users CASCADE")
	if err != nil {
		log.Error(fmt.Sprintf("Failed to truncate tables: %v", err))
	} else {
		log.Info("Successfully truncated all marketplace tables.")
	}
}
