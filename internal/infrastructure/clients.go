package infrastructure

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"telegraph_dispatch/internal/entities"
	"telegraph_dispatch/internal/interfaces"
)

var (
	_ interfaces.Messenger      = (*TelegramMessenger)(nil)
	_ interfaces.TokenValidator = (*TelegramBotManager)(nil)
)

// TelegramMessenger sends outbound messages through the Telegram Bot API.
type TelegramMessenger struct {
	manager *TelegramBotManager
	limiter *MessageRateLimiter[int64]
	log     *zerolog.Logger
}

func NewTelegramMessenger(manager *TelegramBotManager, limiter *MessageRateLimiter[int64], logger *zerolog.Logger) *TelegramMessenger {
	return &TelegramMessenger{
		manager: manager,
		limiter: limiter,
		log:     logger,
	}
}

// Send delivers msg with bot. It waits for the bot's send slot, makes one
// attempt and reports failures as *entities.ProviderError.
func (t *TelegramMessenger) Send(ctx context.Context, bot entities.Bot, msg entities.OutboundMessage) (*entities.Delivery, error) {
	cfg, err := newMessageConfig(msg)
	if err != nil {
		return nil, err
	}

	if t.limiter != nil {
		if err := t.limiter.Wait(ctx, bot.ID); err != nil {
			return nil, fmt.Errorf("wait for send slot of bot %d: %w", bot.ID, err)
		}
	}

	api, err := t.manager.GetBot(ctx, bot)
	if err != nil {
		return nil, newProviderError(bot.ID, err)
	}

	start := time.Now()
	sent, err := api.Send(cfg)
	ObserveProviderCall(time.Since(start), err == nil)
	if err != nil {
		pErr := newProviderError(bot.ID, err)
		if pErr.Code == http.StatusUnauthorized {
			// revoked token: reconnect on the next send
			t.manager.Forget(bot.ID)
		}
		return nil, pErr
	}

	t.log.Debug().
		Int64("bot_id", bot.ID).
		Str("chat_id", msg.ChatID).
		Int("message_id", sent.MessageID).
		Msg("telegram message sent")

	return &entities.Delivery{
		BotID:     bot.ID,
		ChatID:    msg.ChatID,
		MessageID: sent.MessageID,
	}, nil
}

// newMessageConfig addresses numeric chat ids directly and "@name" chat ids
// as channel usernames.
func newMessageConfig(msg entities.OutboundMessage) (tgbotapi.MessageConfig, error) {
	var cfg tgbotapi.MessageConfig
	chatID := strings.TrimSpace(msg.ChatID)
	switch {
	case strings.HasPrefix(chatID, "@") && len(chatID) > 1:
		cfg = tgbotapi.NewMessageToChannel(chatID, msg.Text)
	default:
		id, err := strconv.ParseInt(chatID, 10, 64)
		if err != nil {
			return cfg, fmt.Errorf("%w: chat id %q", entities.ErrInvalidArgument, msg.ChatID)
		}
		cfg = tgbotapi.NewMessage(id, msg.Text)
	}
	cfg.ParseMode = msg.ParseMode
	return cfg, nil
}

func newProviderError(botID int64, err error) *entities.ProviderError {
	pErr := &entities.ProviderError{BotID: botID, Err: err}

	var apiErr *tgbotapi.Error
	if errors.As(err, &apiErr) {
		pErr.Code = apiErr.Code
	}
	return pErr
}
