package infrastructure

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegraph_dispatch/internal/entities"
)

// TelegramBotManager keeps one Bot API client per registered bot.
type TelegramBotManager struct {
	mu       sync.RWMutex
	bots     map[int64]*telegramBot
	endpoint string
	client   *http.Client
	log      *zerolog.Logger
}

type telegramBot struct {
	api   *tgbotapi.BotAPI
	token string
}

// NewTelegramBotManager creates a manager talking to endpoint, a
// tgbotapi.APIEndpoint style format string ("https://host/bot%s/%s").
func NewTelegramBotManager(endpoint string, timeout time.Duration, logger *zerolog.Logger) *TelegramBotManager {
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	return &TelegramBotManager{
		bots:     make(map[int64]*telegramBot),
		endpoint: endpoint,
		client:   &http.Client{Timeout: timeout},
		log:      logger,
	}
}

// GetBot returns the cached client for bot, creating it on first use or
// when the stored token changed. Creating a client calls getMe.
func (m *TelegramBotManager) GetBot(ctx context.Context, bot entities.Bot) (*tgbotapi.BotAPI, error) {
	m.mu.RLock()
	existing, ok := m.bots[bot.ID]
	m.mu.RUnlock()
	if ok && existing.token == bot.Token {
		return existing.api, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.bots[bot.ID]; ok && existing.token == bot.Token {
		return existing.api, nil
	}

	api, err := m.connect(ctx, bot.Token)
	if err != nil {
		return nil, err
	}
	m.bots[bot.ID] = &telegramBot{api: api, token: bot.Token}
	m.log.Info().Int64("bot_id", bot.ID).Str("username", api.Self.UserName).Msg("telegram bot connected")
	return api, nil
}

// ValidateToken checks a token with getMe and returns the bot username.
func (m *TelegramBotManager) ValidateToken(ctx context.Context, token string) (string, error) {
	api, err := m.connect(ctx, token)
	if err != nil {
		return "", fmt.Errorf("invalid token: %w", err)
	}
	return api.Self.UserName, nil
}

// connect honours ctx only up front; the client timeout bounds the call.
func (m *TelegramBotManager) connect(ctx context.Context, token string) (*tgbotapi.BotAPI, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	api, err := tgbotapi.NewBotAPIWithClient(token, m.endpoint, m.client)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}
	return api, nil
}

// GetStatus reports whether a client for botID is cached and its username.
func (m *TelegramBotManager) GetStatus(botID int64) (connected bool, botName string) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if b, ok := m.bots[botID]; ok {
		return true, b.api.Self.UserName
	}
	return false, ""
}

// Forget drops the cached client of botID.
func (m *TelegramBotManager) Forget(botID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.bots, botID)
}

// DisconnectAll drops every cached client (for graceful shutdown).
func (m *TelegramBotManager) DisconnectAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.bots = make(map[int64]*telegramBot)
}
