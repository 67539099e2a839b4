package requestresponse

import (
	"time"

	"tweet-web-server/internal/model"
)

// CreateTweetRequest : тело запроса публикации твита
type CreateTweetRequest struct {
	Message string `json:"message" example:"hello world"`
}

// TweetResponse : твит с автором для JSON-ответа
type TweetResponse struct {
	UUID      string   `json:"uuid" example:"123e4567-e89b-12d3-a456-426614174000"`
	Message   string   `json:"message" example:"hello world"`
	CreatedBy UserRead `json:"created_by"`
	CreatedAt string   `json:"created_at" example:"2025-08-23T12:34:56Z"`
}

// TweetResponseFromModel : конвертирует model.Tweet в TweetResponse
func TweetResponseFromModel(tweet *model.Tweet) TweetResponse {
	resp := TweetResponse{
		UUID:      tweet.UUID,
		Message:   tweet.Message,
		CreatedAt: tweet.CreatedAt.Format(time.RFC3339),
	}
	if tweet.CreatedBy != nil {
		resp.CreatedBy = UserReadFromModel(tweet.CreatedBy)
	}
	return resp
}

// ListTweetsResponse : страница ленты
type ListTweetsResponse struct {
	Data struct {
		Tweets []TweetResponse `json:"tweets"`
	} `json:"data"`
	Count int `json:"count" example:"10"`
}
