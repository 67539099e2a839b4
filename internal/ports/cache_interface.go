package ports

import (
	"context"

	"tweet-web-server/internal/model"
)

// FeedCache : Redis слой поверх ленты твитов
type FeedCache interface {
	SetFeedPage(ctx context.Context, page, limit int, tweets []model.Tweet) error
	GetFeedPage(ctx context.Context, page, limit int) ([]model.Tweet, error)
	InvalidateFeed(ctx context.Context) error
}
