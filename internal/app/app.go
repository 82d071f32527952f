package app

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/josephjohncox/driftline/internal/config"
	"github.com/josephjohncox/driftline/internal/registry"
	"github.com/josephjohncox/driftline/internal/scanner"
)

// Run wires up the registry and the catalog scanner and blocks until the
// context is canceled.
func Run(ctx context.Context, cfg *config.Config) error {
	if !cfg.Scanner.Enabled {
		<-ctx.Done()
		return nil
	}
	if cfg.Postgres.DSN == "" {
		return errors.New("scanner requires DRIFTLINE_POSTGRES_DSN")
	}

	pool, err := pgxpool.New(ctx, cfg.Postgres.DSN)
	if err != nil {
		return err
	}
	defer pool.Close()

	store, err := registry.NewPostgresStore(ctx, pool)
	if err != nil {
		return err
	}

	catalogScanner := &scanner.CatalogScanner{
		Pool:     pool,
		Registry: store,
		Schemas:  cfg.Scanner.Schemas,
		Service:  cfg.Telemetry.ServiceName,
	}

	interval := cfg.Scanner.Interval
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := catalogScanner.RunOnce(ctx); err != nil {
		log.Printf("catalog scan: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if err := catalogScanner.RunOnce(ctx); err != nil {
				log.Printf("catalog scan: %v", err)
			}
		}
	}
}
