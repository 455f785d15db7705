package repository

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"

	"telegraph_dispatch/internal/entities"
	"telegraph_dispatch/internal/infrastructure"
	"telegraph_dispatch/internal/interfaces"
)

type mockRedisClient struct {
	infrastructure.RedisClient
	data    map[string]string
	getErr  error
	deleted []string
}

func newMockRedis() *mockRedisClient {
	return &mockRedisClient{data: map[string]string{}}
}

func (m *mockRedisClient) Get(ctx context.Context, key string) (string, error) {
	if m.getErr != nil {
		return "", m.getErr
	}
	v, ok := m.data[key]
	if !ok {
		return "", redis.Nil
	}
	return v, nil
}

func (m *mockRedisClient) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	switch v := value.(type) {
	case []byte:
		m.data[key] = string(v)
	case string:
		m.data[key] = v
	}
	return nil
}

func (m *mockRedisClient) Del(ctx context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
	}
	m.deleted = append(m.deleted, keys...)
	return nil
}

// countingStore counts calls that reach the underlying store.
type countingStore struct {
	interfaces.BotStore
	bot          *entities.Bot
	chat         *entities.Chat
	firstCalls   int
	defaultCalls int
}

func (s *countingStore) FirstBot(ctx context.Context) (*entities.Bot, error) {
	s.firstCalls++
	if s.bot == nil {
		return nil, entities.ErrBotNotFound
	}
	b := *s.bot
	return &b, nil
}

func (s *countingStore) DefaultChat(ctx context.Context, botID int64) (*entities.Chat, error) {
	s.defaultCalls++
	if s.chat == nil || s.chat.BotID != botID {
		return nil, entities.ErrChatNotFound
	}
	c := *s.chat
	return &c, nil
}

func (s *countingStore) CreateBot(ctx context.Context, b *entities.Bot) error {
	b.ID = 2
	return nil
}

func (s *countingStore) CreateChat(ctx context.Context, c *entities.Chat) error {
	c.ID = 2
	return nil
}

func TestBotCacheDecoratorFirstBot(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{bot: &entities.Bot{ID: 1, Token: "1:aaa", Name: "bot"}}
	cache := newMockRedis()
	store := NewBotCacheDecorator(inner, cache, time.Minute, infrastructure.NopLogger())

	t.Run("miss loads from the store and fills the cache", func(t *testing.T) {
		b, err := store.FirstBot(ctx)
		if err != nil || b.ID != 1 {
			t.Fatalf("expected bot 1, got %+v, %v", b, err)
		}
		if inner.firstCalls != 1 {
			t.Errorf("expected one store call, got %d", inner.firstCalls)
		}
		var cached entities.Bot
		if err := json.Unmarshal([]byte(cache.data[firstBotKey]), &cached); err != nil || cached.Token != "1:aaa" {
			t.Errorf("expected cached bot, got %q", cache.data[firstBotKey])
		}
	})

	t.Run("hit skips the store", func(t *testing.T) {
		b, err := store.FirstBot(ctx)
		if err != nil || b.ID != 1 || b.Token != "1:aaa" {
			t.Fatalf("expected cached bot 1, got %+v, %v", b, err)
		}
		if inner.firstCalls != 1 {
			t.Errorf("store should not be called on a hit, got %d calls", inner.firstCalls)
		}
	})

	t.Run("create bot invalidates", func(t *testing.T) {
		if err := store.CreateBot(ctx, &entities.Bot{Token: "2:bbb"}); err != nil {
			t.Fatal(err)
		}
		if _, ok := cache.data[firstBotKey]; ok {
			t.Error("expected first bot entry to be deleted")
		}
	})
}

func TestBotCacheDecoratorDoesNotCacheMissingRecords(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{}
	cache := newMockRedis()
	store := NewBotCacheDecorator(inner, cache, time.Minute, infrastructure.NopLogger())

	for i := 0; i < 2; i++ {
		if _, err := store.FirstBot(ctx); !errors.Is(err, entities.ErrBotNotFound) {
			t.Fatalf("expected ErrBotNotFound, got %v", err)
		}
	}
	if inner.firstCalls != 2 {
		t.Errorf("expected every lookup to reach the store, got %d", inner.firstCalls)
	}
	if len(cache.data) != 0 {
		t.Errorf("expected empty cache, got %v", cache.data)
	}
}

func TestBotCacheDecoratorDefaultChat(t *testing.T) {
	ctx := context.Background()
	inner := &countingStore{chat: &entities.Chat{ID: 1, BotID: 1, ChatID: "100"}}
	cache := newMockRedis()
	store := NewBotCacheDecorator(inner, cache, time.Minute, infrastructure.NopLogger())

	for i := 0; i < 3; i++ {
		c, err := store.DefaultChat(ctx, 1)
		if err != nil || c.ChatID != "100" {
			t.Fatalf("expected chat 100, got %+v, %v", c, err)
		}
	}
	if inner.defaultCalls != 1 {
		t.Errorf("expected one store call, got %d", inner.defaultCalls)
	}

	if err := store.CreateChat(ctx, &entities.Chat{BotID: 1, ChatID: "200"}); err != nil {
		t.Fatal(err)
	}
	if len(cache.deleted) != 1 || cache.deleted[0] != defaultChatKey(1) {
		t.Errorf("expected %s to be invalidated, got %v", defaultChatKey(1), cache.deleted)
	}
}

func TestBotCacheDecoratorFallsBackOnRedisError(t *testing.T) {
	inner := &countingStore{bot: &entities.Bot{ID: 1, Token: "1:aaa"}}
	cache := newMockRedis()
	cache.getErr = errors.New("connection refused")
	store := NewBotCacheDecorator(inner, cache, time.Minute, infrastructure.NopLogger())

	b, err := store.FirstBot(context.Background())
	if err != nil || b.ID != 1 {
		t.Fatalf("expected store fallback, got %+v, %v", b, err)
	}
}
