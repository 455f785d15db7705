package usecases

import (
	"context"
	"sync"

	"telegraph_dispatch/internal/entities"
	"telegraph_dispatch/internal/interfaces"
)

// memoryStore is an in-memory BotStore that counts writes.
type memoryStore struct {
	mu     sync.Mutex
	bots   []entities.Bot
	chats  []entities.Chat
	writes int
}

var _ interfaces.BotStore = (*memoryStore)(nil)

func (s *memoryStore) FirstBot(ctx context.Context) (*entities.Bot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.bots) == 0 {
		return nil, entities.ErrBotNotFound
	}
	b := s.bots[0]
	for _, candidate := range s.bots[1:] {
		if candidate.ID < b.ID {
			b = candidate
		}
	}
	return &b, nil
}

func (s *memoryStore) DefaultChat(ctx context.Context, botID int64) (*entities.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var found *entities.Chat
	for i := range s.chats {
		c := s.chats[i]
		if c.BotID == botID && (found == nil || c.ID < found.ID) {
			found = &c
		}
	}
	if found == nil {
		return nil, entities.ErrChatNotFound
	}
	return found, nil
}

func (s *memoryStore) GetBot(ctx context.Context, id int64) (*entities.Bot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, b := range s.bots {
		if b.ID == id {
			return &b, nil
		}
	}
	return nil, entities.ErrBotNotFound
}

func (s *memoryStore) ListBots(ctx context.Context) ([]entities.Bot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.Bot(nil), s.bots...), nil
}

func (s *memoryStore) ListChats(ctx context.Context, botID int64) ([]entities.Chat, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []entities.Chat
	for _, c := range s.chats {
		if c.BotID == botID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *memoryStore) CreateBot(ctx context.Context, b *entities.Bot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	b.ID = int64(len(s.bots) + 1)
	s.bots = append(s.bots, *b)
	return nil
}

func (s *memoryStore) CreateChat(ctx context.Context, c *entities.Chat) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes++
	c.ID = int64(len(s.chats) + 1)
	s.chats = append(s.chats, *c)
	return nil
}

func (s *memoryStore) Ping(ctx context.Context) error { return nil }

type sendCall struct {
	Bot entities.Bot
	Msg entities.OutboundMessage
}

// recordingMessenger records every send and fails when err is set.
type recordingMessenger struct {
	mu    sync.Mutex
	calls []sendCall
	err   error
}

func (m *recordingMessenger) Send(ctx context.Context, bot entities.Bot, msg entities.OutboundMessage) (*entities.Delivery, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, sendCall{Bot: bot, Msg: msg})
	if m.err != nil {
		return nil, m.err
	}
	return &entities.Delivery{BotID: bot.ID, ChatID: msg.ChatID, MessageID: len(m.calls)}, nil
}

type stubValidator struct {
	username string
	err      error
}

func (v stubValidator) ValidateToken(ctx context.Context, token string) (string, error) {
	return v.username, v.err
}
