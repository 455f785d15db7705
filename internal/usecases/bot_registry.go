package usecases

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"telegraph_dispatch/internal/entities"
	"telegraph_dispatch/internal/interfaces"
)

// BotWithChats is a bot together with its registered chats.
type BotWithChats struct {
	entities.Bot
	Chats []entities.Chat
}

// BotRegistry registers bots and chats out of band of the dispatcher.
type BotRegistry struct {
	store     interfaces.BotStore
	validator interfaces.TokenValidator
	log       *zerolog.Logger
}

func NewBotRegistry(store interfaces.BotStore, validator interfaces.TokenValidator, logger *zerolog.Logger) *BotRegistry {
	return &BotRegistry{store: store, validator: validator, log: logger}
}

// Register checks token against Telegram and stores the bot. An empty name
// defaults to the bot's username.
func (r *BotRegistry) Register(ctx context.Context, token, name string) (*entities.Bot, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, fmt.Errorf("%w: token is required", entities.ErrInvalidArgument)
	}

	username, err := r.validator.ValidateToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", entities.ErrInvalidArgument, err)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = username
	}

	bot := &entities.Bot{Token: token, Name: name}
	if err := r.store.CreateBot(ctx, bot); err != nil {
		return nil, fmt.Errorf("store bot: %w", err)
	}
	r.log.Info().Int64("bot_id", bot.ID).Str("name", bot.Name).Msg("bot registered")
	return bot, nil
}

// AddChat registers chatID (numeric id or "@channel") for an existing bot.
func (r *BotRegistry) AddChat(ctx context.Context, botID int64, chatID, name string) (*entities.Chat, error) {
	chatID = strings.TrimSpace(chatID)
	if !ValidChatID(chatID) {
		return nil, fmt.Errorf("%w: chat id %q", entities.ErrInvalidArgument, chatID)
	}
	if _, err := r.store.GetBot(ctx, botID); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = chatID
	}

	chat := &entities.Chat{BotID: botID, ChatID: chatID, Name: name}
	if err := r.store.CreateChat(ctx, chat); err != nil {
		return nil, fmt.Errorf("store chat: %w", err)
	}
	r.log.Info().Int64("bot_id", botID).Str("chat_id", chatID).Msg("chat registered")
	return chat, nil
}

func (r *BotRegistry) List(ctx context.Context) ([]BotWithChats, error) {
	bots, err := r.store.ListBots(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]BotWithChats, 0, len(bots))
	for _, b := range bots {
		chats, err := r.store.ListChats(ctx, b.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, BotWithChats{Bot: b, Chats: chats})
	}
	return out, nil
}

// ValidChatID accepts signed integers and "@username" channel names.
func ValidChatID(s string) bool {
	if strings.HasPrefix(s, "@") {
		name := s[1:]
		if len(name) < 4 || len(name) > 32 {
			return false
		}
		for _, r := range name {
			if !(r == '_' || r >= '0' && r <= '9' || r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z') {
				return false
			}
		}
		return true
	}
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}
