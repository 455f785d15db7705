package interfaces

import (
	"context"

	"telegraph_dispatch/internal/entities"
)

// BotReader is the read-only view of the credential store used by the
// dispatcher.
type BotReader interface {
	// FirstBot returns the bot with the lowest id or entities.ErrBotNotFound.
	FirstBot(ctx context.Context) (*entities.Bot, error)
	// DefaultChat returns the lowest-id chat of a bot or entities.ErrChatNotFound.
	DefaultChat(ctx context.Context, botID int64) (*entities.Chat, error)
}

type BotStore interface {
	BotReader
	GetBot(ctx context.Context, id int64) (*entities.Bot, error)
	ListBots(ctx context.Context) ([]entities.Bot, error)
	ListChats(ctx context.Context, botID int64) ([]entities.Chat, error)
	CreateBot(ctx context.Context, bot *entities.Bot) error
	CreateChat(ctx context.Context, chat *entities.Chat) error
	Ping(ctx context.Context) error
}

type Messenger interface {
	Send(ctx context.Context, bot entities.Bot, msg entities.OutboundMessage) (*entities.Delivery, error)
}

// TokenValidator resolves a bot token to the bot's username.
type TokenValidator interface {
	ValidateToken(ctx context.Context, token string) (string, error)
}
