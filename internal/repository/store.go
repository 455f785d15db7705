package repository

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"telegraph_dispatch/internal/config"
	"telegraph_dispatch/internal/infrastructure"
	"telegraph_dispatch/internal/interfaces"
)

// OpenBotStore connects the configured backend and brings its schema up to
// date. The returned func releases the connection.
func OpenBotStore(ctx context.Context, cfg config.DBConfig, logger *zerolog.Logger) (interfaces.BotStore, func(), error) {
	switch cfg.Driver {
	case "postgres":
		pg, err := infrastructure.NewPostgresClient(ctx, cfg.DSN, logger)
		if err != nil {
			return nil, nil, err
		}
		return NewBotRepository(pg.Pool), pg.Close, nil
	case "sqlite":
		db, err := infrastructure.NewSQLiteDB(cfg.DSN, logger)
		if err != nil {
			return nil, nil, err
		}
		return NewSQLiteBotRepository(db), func() {
			if err := db.Close(); err != nil {
				logger.Error().Err(err).Msg("closing sqlite")
			}
		}, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
