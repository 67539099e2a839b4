package repository

import (
	"context"

	"tweet-web-server/config"
	"tweet-web-server/internal/model"
	"tweet-web-server/internal/util"
)

type TweetRepository struct {
	*config.Database
}

func NewTweetRepository(database *config.Database) *TweetRepository {
	return &TweetRepository{database}
}

// Create : сохраняет новый твит
func (r *TweetRepository) Create(ctx context.Context, tweet *model.Tweet) (*model.Tweet, error) {
	query := `
	INSERT INTO tweets (uuid, message, created_by_uuid)
	VALUES ($1, $2, $3)
	RETURNING uuid, message, created_by_uuid, created_at, is_deleted
	`

	created := &model.Tweet{}
	err := r.DB.QueryRowxContext(ctx, query, tweet.UUID, tweet.Message, tweet.CreatedByUUID).
		StructScan(created)
	if err != nil {
		return nil, util.LogError("[TweetRepo] ошибка вставки твита в БД", err)
	}

	created.CreatedBy = tweet.CreatedBy
	return created, nil
}

// ListTweets : лента твитов с автором, новые сверху, без удалённых
func (r *TweetRepository) ListTweets(ctx context.Context, page, limit int) ([]model.Tweet, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	query := `
	SELECT t.uuid, t.message, t.created_by_uuid, t.created_at,
	       u.uuid AS author_uuid, u.first_name, u.last_name, u.email,
	       u.roles, u.photo_url, u.is_verified
	FROM tweets t
	JOIN users u ON u.uuid = t.created_by_uuid
	WHERE t.is_deleted = FALSE
	ORDER BY t.created_at DESC
	LIMIT $1 OFFSET $2
	`

	rows, err := r.DB.QueryContext(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, util.LogError("[TweetRepo] не удалось получить ленту", err)
	}
	defer rows.Close()

	tweets := make([]model.Tweet, 0, limit)
	for rows.Next() {
		var tweet model.Tweet
		author := &model.User{}
		err := rows.Scan(
			&tweet.UUID,
			&tweet.Message,
			&tweet.CreatedByUUID,
			&tweet.CreatedAt,
			&author.UUID,
			&author.FirstName,
			&author.LastName,
			&author.Email,
			&author.Roles,
			&author.PhotoURL,
			&author.IsVerified,
		)
		if err != nil {
			return nil, util.LogError("[TweetRepo] ошибка чтения строки ленты", err)
		}
		tweet.CreatedBy = author
		tweets = append(tweets, tweet)
	}
	if err := rows.Err(); err != nil {
		return nil, util.LogError("[TweetRepo] ошибка обхода ленты", err)
	}

	return tweets, nil
}
