package usecases

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"telegraph_dispatch/internal/entities"
	"telegraph_dispatch/internal/infrastructure"
	"telegraph_dispatch/internal/interfaces"
)

// SuccessMessage is the response body of a successful dispatch.
const SuccessMessage = "Message Sent Successfully!"

// MessageDispatcher sends one fixed message to the default chat of the
// first registered bot. It never writes to the store.
type MessageDispatcher struct {
	bots      interfaces.BotReader
	messenger interfaces.Messenger
	text      string
	log       *zerolog.Logger
}

func NewMessageDispatcher(bots interfaces.BotReader, messenger interfaces.Messenger, text string, logger *zerolog.Logger) *MessageDispatcher {
	return &MessageDispatcher{
		bots:      bots,
		messenger: messenger,
		text:      text,
		log:       logger,
	}
}

// Dispatch performs a single send attempt. Missing bot or chat yields an
// error matching entities.ErrConfigurationMissing; provider failures match
// entities.ErrProviderFailure.
func (d *MessageDispatcher) Dispatch(ctx context.Context) (*entities.Delivery, error) {
	delivery, err := d.dispatch(ctx)
	infrastructure.ObserveDispatch(outcomeOf(err))
	return delivery, err
}

func (d *MessageDispatcher) dispatch(ctx context.Context) (*entities.Delivery, error) {
	bot, err := d.bots.FirstBot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load bot: %w", err)
	}

	chat, err := d.bots.DefaultChat(ctx, bot.ID)
	if err != nil {
		return nil, fmt.Errorf("load default chat: %w", err)
	}

	msg := entities.OutboundMessage{
		BotID:     bot.ID,
		ChatID:    chat.ChatID,
		Text:      d.text,
		ParseMode: entities.ParseModeHTML,
	}

	delivery, err := d.messenger.Send(ctx, *bot, msg)
	if err != nil {
		d.log.Error().Err(err).Int64("bot_id", bot.ID).Str("chat_id", chat.ChatID).Msg("dispatch failed")
		return nil, fmt.Errorf("send message: %w", err)
	}

	d.log.Info().
		Int64("bot_id", bot.ID).
		Str("chat_id", chat.ChatID).
		Int("message_id", delivery.MessageID).
		Msg("message dispatched")
	return delivery, nil
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return infrastructure.OutcomeSent
	case errors.Is(err, entities.ErrConfigurationMissing):
		return infrastructure.OutcomeConfigMissing
	case errors.Is(err, entities.ErrProviderFailure):
		return infrastructure.OutcomeProviderError
	default:
		return infrastructure.OutcomeError
	}
}
