package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"telegraph_dispatch/internal/entities"
	"telegraph_dispatch/internal/interfaces"
)

var _ interfaces.BotStore = (*SQLiteBotRepository)(nil)

// SQLiteBotRepository stores bots and chats in SQLite.
type SQLiteBotRepository struct {
	db *sqlx.DB
}

func NewSQLiteBotRepository(db *sqlx.DB) *SQLiteBotRepository {
	return &SQLiteBotRepository{db: db}
}

func (r *SQLiteBotRepository) FirstBot(ctx context.Context) (*entities.Bot, error) {
	var b entities.Bot
	err := r.db.GetContext(ctx, &b, "SELECT id, token, name, created_at FROM telegraph_bots ORDER BY id ASC LIMIT 1")
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, entities.ErrBotNotFound
		}
		return nil, fmt.Errorf("query first bot: %w", err)
	}
	return &b, nil
}

func (r *SQLiteBotRepository) GetBot(ctx context.Context, id int64) (*entities.Bot, error) {
	var b entities.Bot
	err := r.db.GetContext(ctx, &b, "SELECT id, token, name, created_at FROM telegraph_bots WHERE id = ?", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("bot %d: %w", id, entities.ErrBotNotFound)
		}
		return nil, fmt.Errorf("query bot %d: %w", id, err)
	}
	return &b, nil
}

func (r *SQLiteBotRepository) DefaultChat(ctx context.Context, botID int64) (*entities.Chat, error) {
	var c entities.Chat
	err := r.db.GetContext(ctx, &c, `
		SELECT id, bot_id, chat_id, name, created_at FROM telegraph_chats
		WHERE bot_id = ? ORDER BY id ASC LIMIT 1`, botID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("bot %d: %w", botID, entities.ErrChatNotFound)
		}
		return nil, fmt.Errorf("query default chat of bot %d: %w", botID, err)
	}
	return &c, nil
}

func (r *SQLiteBotRepository) ListBots(ctx context.Context) ([]entities.Bot, error) {
	bots := []entities.Bot{}
	if err := r.db.SelectContext(ctx, &bots, "SELECT id, token, name, created_at FROM telegraph_bots ORDER BY id ASC"); err != nil {
		return nil, fmt.Errorf("list bots: %w", err)
	}
	return bots, nil
}

func (r *SQLiteBotRepository) ListChats(ctx context.Context, botID int64) ([]entities.Chat, error) {
	chats := []entities.Chat{}
	err := r.db.SelectContext(ctx, &chats,
		"SELECT id, bot_id, chat_id, name, created_at FROM telegraph_chats WHERE bot_id = ? ORDER BY id ASC", botID)
	if err != nil {
		return nil, fmt.Errorf("list chats of bot %d: %w", botID, err)
	}
	return chats, nil
}

func (r *SQLiteBotRepository) CreateBot(ctx context.Context, b *entities.Bot) error {
	b.CreatedAt = time.Now().UTC()
	res, err := r.db.NamedExecContext(ctx,
		"INSERT INTO telegraph_bots (token, name, created_at) VALUES (:token, :name, :created_at)", b)
	if err != nil {
		return fmt.Errorf("insert bot: %w", err)
	}
	b.ID, err = res.LastInsertId()
	return err
}

func (r *SQLiteBotRepository) CreateChat(ctx context.Context, c *entities.Chat) error {
	c.CreatedAt = time.Now().UTC()
	res, err := r.db.NamedExecContext(ctx,
		"INSERT INTO telegraph_chats (bot_id, chat_id, name, created_at) VALUES (:bot_id, :chat_id, :name, :created_at)", c)
	if err != nil {
		return fmt.Errorf("insert chat: %w", err)
	}
	c.ID, err = res.LastInsertId()
	return err
}

func (r *SQLiteBotRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
