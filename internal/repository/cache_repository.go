package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tweet-web-server/config"
	"tweet-web-server/internal/model"
	"tweet-web-server/internal/util"

	"github.com/redis/go-redis/v9"
)

const feedKeyPrefix = "feed:"

type CacheRepository struct {
	client *config.RedisClient
	ttl    time.Duration
}

func NewCacheRepository(rdb *config.RedisClient, ttl time.Duration) *CacheRepository {
	return &CacheRepository{rdb, ttl}
}

// SetFeedPage : кладёт страницу ленты в Redis с TTL
func (r *CacheRepository) SetFeedPage(ctx context.Context, page, limit int, tweets []model.Tweet) error {
	data, err := json.Marshal(tweets)
	if err != nil {
		return util.LogError("ошибка сериализации страницы ленты", err)
	}

	if err := r.client.Client.Set(ctx, r.key(page, limit), data, r.ttl).Err(); err != nil {
		return util.LogError("ошибка сохранения в Redis", err)
	}

	return nil
}

// GetFeedPage : (nil, nil) при промахе кэша
func (r *CacheRepository) GetFeedPage(ctx context.Context, page, limit int) ([]model.Tweet, error) {
	val, err := r.client.Client.Get(ctx, r.key(page, limit)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil // нет в кэше
	} else if err != nil {
		return nil, util.LogError("ошибка получения ленты из Redis", err)
	}

	var tweets []model.Tweet
	if err := json.Unmarshal([]byte(val), &tweets); err != nil {
		return nil, util.LogError("ошибка десериализации ленты из кэша", err)
	}
	return tweets, nil
}

// InvalidateFeed : сбрасывает все закэшированные страницы после нового твита
func (r *CacheRepository) InvalidateFeed(ctx context.Context) error {
	iter := r.client.Client.Scan(ctx, 0, feedKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Client.Del(ctx, iter.Val()).Err(); err != nil {
			return util.LogError("ошибка удаления страницы ленты из Redis", err)
		}
	}
	if err := iter.Err(); err != nil {
		return util.LogError("ошибка обхода ключей ленты в Redis", err)
	}
	return nil
}

func (r *CacheRepository) key(page, limit int) string {
	return fmt.Sprintf("%s%d:%d", feedKeyPrefix, page, limit)
}
