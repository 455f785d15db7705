package infrastructure

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

type PostgresClient struct {
	Pool *pgxpool.Pool
	log  *zerolog.Logger
}

func NewPostgresClient(ctx context.Context, connString string, logger *zerolog.Logger) (*PostgresClient, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse connection string: %w", err)
	}

	// Pool configuration
	config.MaxConns = 10
	config.MinConns = 2
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	client := &PostgresClient{Pool: pool, log: logger}

	if err := client.Migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return client, nil
}

// Migrate creates the bot and chat tables when they are missing.
func (p *PostgresClient) Migrate(ctx context.Context) error {
	_, err := p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS telegraph_bots (
			id BIGSERIAL PRIMARY KEY,
			token VARCHAR(255) UNIQUE NOT NULL,
			name VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
	`)
	if err != nil {
		return fmt.Errorf("create telegraph_bots table: %w", err)
	}

	_, err = p.Pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS telegraph_chats (
			id BIGSERIAL PRIMARY KEY,
			bot_id BIGINT NOT NULL REFERENCES telegraph_bots(id) ON DELETE CASCADE,
			chat_id VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			UNIQUE (bot_id, chat_id)
		);
	`)
	if err != nil {
		return fmt.Errorf("create telegraph_chats table: %w", err)
	}

	if _, err := p.Pool.Exec(ctx, "CREATE INDEX IF NOT EXISTS idx_telegraph_chats_bot_id ON telegraph_chats(bot_id);"); err != nil {
		return fmt.Errorf("create telegraph_chats index: %w", err)
	}

	var bots int
	if err := p.Pool.QueryRow(ctx, "SELECT COUNT(*) FROM telegraph_bots").Scan(&bots); err != nil {
		return err
	}
	if bots == 0 {
		p.log.Warn().Msg("no telegraph bots registered yet; /send-message will fail until one is added with botctl")
	}

	return nil
}

func (p *PostgresClient) Close() {
	p.Pool.Close()
}
