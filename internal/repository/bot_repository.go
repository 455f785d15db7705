package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"telegraph_dispatch/internal/entities"
	"telegraph_dispatch/internal/interfaces"
)

var _ interfaces.BotStore = (*BotRepository)(nil)

// BotRepository stores bots and chats in Postgres.
type BotRepository struct {
	db *pgxpool.Pool
}

func NewBotRepository(db *pgxpool.Pool) *BotRepository {
	return &BotRepository{db: db}
}

// FirstBot returns the bot with the lowest id
func (r *BotRepository) FirstBot(ctx context.Context) (*entities.Bot, error) {
	var b entities.Bot
	err := r.db.QueryRow(ctx, "SELECT id, token, name, created_at FROM telegraph_bots ORDER BY id ASC LIMIT 1").
		Scan(&b.ID, &b.Token, &b.Name, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, entities.ErrBotNotFound
		}
		return nil, fmt.Errorf("query first bot: %w", err)
	}
	return &b, nil
}

func (r *BotRepository) GetBot(ctx context.Context, id int64) (*entities.Bot, error) {
	var b entities.Bot
	err := r.db.QueryRow(ctx, "SELECT id, token, name, created_at FROM telegraph_bots WHERE id=$1", id).
		Scan(&b.ID, &b.Token, &b.Name, &b.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("bot %d: %w", id, entities.ErrBotNotFound)
		}
		return nil, fmt.Errorf("query bot %d: %w", id, err)
	}
	return &b, nil
}

// DefaultChat returns the lowest-id chat of a bot
func (r *BotRepository) DefaultChat(ctx context.Context, botID int64) (*entities.Chat, error) {
	var c entities.Chat
	err := r.db.QueryRow(ctx, `
		SELECT id, bot_id, chat_id, name, created_at FROM telegraph_chats
		WHERE bot_id=$1 ORDER BY id ASC LIMIT 1
	`, botID).Scan(&c.ID, &c.BotID, &c.ChatID, &c.Name, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("bot %d: %w", botID, entities.ErrChatNotFound)
		}
		return nil, fmt.Errorf("query default chat of bot %d: %w", botID, err)
	}
	return &c, nil
}

func (r *BotRepository) ListBots(ctx context.Context) ([]entities.Bot, error) {
	rows, err := r.db.Query(ctx, "SELECT id, token, name, created_at FROM telegraph_bots ORDER BY id ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bots := []entities.Bot{}
	for rows.Next() {
		var b entities.Bot
		if err := rows.Scan(&b.ID, &b.Token, &b.Name, &b.CreatedAt); err != nil {
			return nil, err
		}
		bots = append(bots, b)
	}
	return bots, rows.Err()
}

func (r *BotRepository) ListChats(ctx context.Context, botID int64) ([]entities.Chat, error) {
	rows, err := r.db.Query(ctx, "SELECT id, bot_id, chat_id, name, created_at FROM telegraph_chats WHERE bot_id=$1 ORDER BY id ASC", botID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	chats := []entities.Chat{}
	for rows.Next() {
		var c entities.Chat
		if err := rows.Scan(&c.ID, &c.BotID, &c.ChatID, &c.Name, &c.CreatedAt); err != nil {
			return nil, err
		}
		chats = append(chats, c)
	}
	return chats, rows.Err()
}

func (r *BotRepository) CreateBot(ctx context.Context, b *entities.Bot) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO telegraph_bots (token, name, created_at)
		VALUES ($1, $2, NOW())
		RETURNING id, created_at
	`, b.Token, b.Name).Scan(&b.ID, &b.CreatedAt)
}

func (r *BotRepository) CreateChat(ctx context.Context, c *entities.Chat) error {
	return r.db.QueryRow(ctx, `
		INSERT INTO telegraph_chats (bot_id, chat_id, name, created_at)
		VALUES ($1, $2, $3, NOW())
		RETURNING id, created_at
	`, c.BotID, c.ChatID, c.Name).Scan(&c.ID, &c.CreatedAt)
}

func (r *BotRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}
