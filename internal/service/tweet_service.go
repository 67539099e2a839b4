package service

import (
	"context"
	"fmt"
	"strings"

	"tweet-web-server/internal/apperr"
	"tweet-web-server/internal/model"
	"tweet-web-server/internal/ports"
	"tweet-web-server/internal/util"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type TweetService struct {
	tweetRepository ports.TweetRepository
	feedCache       ports.FeedCache
}

func NewTweetService(tweetRepository ports.TweetRepository, feedCache ports.FeedCache) *TweetService {
	return &TweetService{
		tweetRepository: tweetRepository,
		feedCache:       feedCache,
	}
}

// GetTweets отдаёт страницу ленты: сперва Redis, при промахе — БД.
// Проблемы кэша лента переживает, падая обратно на БД.
func (s *TweetService) GetTweets(ctx context.Context, page, limit int) ([]model.Tweet, error) {
	tweets, err := s.feedCache.GetFeedPage(ctx, page, limit)
	if err != nil {
		logrus.WithError(err).Warn("[TweetService] ошибка чтения кэша ленты")
	}
	if tweets != nil {
		return tweets, nil
	}

	tweets, err = s.tweetRepository.ListTweets(ctx, page, limit)
	if err != nil {
		return nil, util.LogError("[TweetService] не удалось получить ленту", err)
	}

	if err := s.feedCache.SetFeedPage(ctx, page, limit, tweets); err != nil {
		logrus.WithError(err).Warn("[TweetService] ошибка записи кэша ленты")
	}

	return tweets, nil
}

// NewTweet публикует твит от имени автора и сбрасывает кэш ленты
func (s *TweetService) NewTweet(ctx context.Context, creator *model.User, message string) (*model.Tweet, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: пустое сообщение", apperr.ErrInvalidRequest)
	}

	tweet, err := s.tweetRepository.Create(ctx, &model.Tweet{
		UUID:          uuid.New().String(),
		Message:       message,
		CreatedByUUID: creator.UUID,
		CreatedBy:     creator,
	})
	if err != nil {
		return nil, util.LogError("[TweetService] не удалось сохранить твит", err)
	}

	if err := s.feedCache.InvalidateFeed(ctx); err != nil {
		logrus.WithError(err).Warn("[TweetService] ошибка сброса кэша ленты")
	}

	return tweet, nil
}
