package handler

import (
	"net/http"

	"tweet-web-server/internal/model/requestresponse"
	"tweet-web-server/internal/ports"
	"tweet-web-server/internal/security"
)

type TweetHandler struct {
	ports.TweetService
}

func NewTweetHandler(tweetService ports.TweetService) *TweetHandler {
	return &TweetHandler{tweetService}
}

// ListTweets godoc
// @Summary Лента твитов
// @Description Возвращает страницу ленты, новые твиты первыми. Страницы кэшируются в Redis.
// @Tags Tweets
// @Produce json
// @Param page query int false "Номер страницы" default(1)
// @Param limit query int false "Размер страницы" default(20)
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ListTweetsResponse
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/tweets [get]
func (h *TweetHandler) ListTweets(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)

	tweets, err := h.TweetService.GetTweets(r.Context(), page, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var resp requestresponse.ListTweetsResponse
	resp.Data.Tweets = make([]requestresponse.TweetResponse, 0, len(tweets))
	for i := range tweets {
		resp.Data.Tweets = append(resp.Data.Tweets, requestresponse.TweetResponseFromModel(&tweets[i]))
	}
	resp.Count = len(resp.Data.Tweets)

	sendJSON(w, http.StatusOK, resp)
}

// NewTweet godoc
// @Summary Публикация твита
// @Description Создаёт твит от имени текущего пользователя и сбрасывает кэш ленты
// @Tags Tweets
// @Accept json
// @Produce json
// @Param body body requestresponse.CreateTweetRequest true "Текст твита"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 201 {object} requestresponse.TweetResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Пустое сообщение"
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/tweets/new [post]
func (h *TweetHandler) NewTweet(w http.ResponseWriter, r *http.Request) {
	user, err := security.GetUserFromContext(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var req requestresponse.CreateTweetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	tweet, err := h.TweetService.NewTweet(r.Context(), user, req.Message)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusCreated, requestresponse.TweetResponseFromModel(tweet))
}
