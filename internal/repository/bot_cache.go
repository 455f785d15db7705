package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"telegraph_dispatch/internal/entities"
	"telegraph_dispatch/internal/infrastructure"
	"telegraph_dispatch/internal/interfaces"
)

const firstBotKey = "telegraph:bot:first"

var _ interfaces.BotStore = (*botCacheDecorator)(nil)

// botCacheDecorator serves the dispatcher's two lookups from redis.
// Absent records are never cached.
type botCacheDecorator struct {
	interfaces.BotStore
	cache infrastructure.RedisClient
	ttl   time.Duration
	log   *zerolog.Logger
}

func NewBotCacheDecorator(inner interfaces.BotStore, cache infrastructure.RedisClient, ttl time.Duration, logger *zerolog.Logger) interfaces.BotStore {
	return &botCacheDecorator{
		BotStore: inner,
		cache:    cache,
		ttl:      ttl,
		log:      logger,
	}
}

func defaultChatKey(botID int64) string {
	return fmt.Sprintf("telegraph:chat:default:%d", botID)
}

func (d *botCacheDecorator) FirstBot(ctx context.Context) (*entities.Bot, error) {
	var bot entities.Bot
	if d.lookup(ctx, "bot", firstBotKey, &bot) {
		return &bot, nil
	}
	b, err := d.BotStore.FirstBot(ctx)
	if err != nil {
		return nil, err
	}
	d.store(ctx, firstBotKey, b)
	return b, nil
}

func (d *botCacheDecorator) DefaultChat(ctx context.Context, botID int64) (*entities.Chat, error) {
	key := defaultChatKey(botID)
	var chat entities.Chat
	if d.lookup(ctx, "chat", key, &chat) {
		return &chat, nil
	}
	c, err := d.BotStore.DefaultChat(ctx, botID)
	if err != nil {
		return nil, err
	}
	d.store(ctx, key, c)
	return c, nil
}

// CreateBot drops the first-bot entry.
func (d *botCacheDecorator) CreateBot(ctx context.Context, b *entities.Bot) error {
	if err := d.BotStore.CreateBot(ctx, b); err != nil {
		return err
	}
	d.invalidate(ctx, firstBotKey)
	return nil
}

func (d *botCacheDecorator) CreateChat(ctx context.Context, c *entities.Chat) error {
	if err := d.BotStore.CreateChat(ctx, c); err != nil {
		return err
	}
	d.invalidate(ctx, defaultChatKey(c.BotID))
	return nil
}

func (d *botCacheDecorator) lookup(ctx context.Context, kind, key string, dst any) bool {
	val, err := d.cache.Get(ctx, key)
	if err != nil {
		if !infrastructure.IsCacheMiss(err) {
			d.log.Warn().Err(err).Str("key", key).Msg("redis get failed")
		}
		infrastructure.IncCacheRequest(kind, "miss")
		return false
	}
	if err := json.Unmarshal([]byte(val), dst); err != nil {
		d.log.Warn().Err(err).Str("key", key).Msg("dropping undecodable cache entry")
		infrastructure.IncCacheRequest(kind, "miss")
		return false
	}
	infrastructure.IncCacheRequest(kind, "hit")
	return true
}

func (d *botCacheDecorator) store(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := d.cache.Set(ctx, key, data, d.ttl); err != nil {
		d.log.Warn().Err(err).Str("key", key).Msg("redis set failed")
	}
}

func (d *botCacheDecorator) invalidate(ctx context.Context, keys ...string) {
	if err := d.cache.Del(ctx, keys...); err != nil {
		d.log.Warn().Err(err).Strs("keys", keys).Msg("redis del failed")
	}
}
