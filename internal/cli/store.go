package cli

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"Chococu/internal/catalog"
	"Chococu/internal/config"
	"Chococu/internal/db"
)

// openStore builds the configured store. The returned close func is never nil.
func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (catalog.Store, func(), error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		conn, err := db.Connect(ctx, cfg.Store.DatabaseURL)
		if err != nil {
			return nil, func() {}, err
		}
		closeDB := func() { _ = conn.Close() }

		st, err := preparePostgres(ctx, conn, cfg.Store.Seed)
		if err != nil {
			closeDB()
			return nil, func() {}, err
		}
		log.Info("using postgres store")
		return st, closeDB, nil

	default:
		if cfg.Store.Seed {
			log.Info("using seeded in-memory store")
			return catalog.NewStore(), func() {}, nil
		}
		log.Info("using empty in-memory store")
		return catalog.NewMemStore(), func() {}, nil
	}
}

func preparePostgres(ctx context.Context, conn *sql.DB, seed bool) (*catalog.PostgresStore, error) {
	st := catalog.NewPostgresStore(conn)
	if err := st.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if seed {
		if err := catalog.Seed(ctx, st, catalog.DefaultFixtures()); err != nil {
			return nil, fmt.Errorf("seed: %w", err)
		}
	}
	return st, nil
}
