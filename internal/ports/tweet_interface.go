package ports

import (
	"context"

	"tweet-web-server/internal/model"
)

type TweetRepository interface {
	Create(ctx context.Context, tweet *model.Tweet) (*model.Tweet, error)
	ListTweets(ctx context.Context, page, limit int) ([]model.Tweet, error)
}

type TweetService interface {
	NewTweet(ctx context.Context, creator *model.User, message string) (*model.Tweet, error)
	GetTweets(ctx context.Context, page, limit int) ([]model.Tweet, error)
}
