package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"tweet-web-server/config"
	"tweet-web-server/internal/apperr"
	"tweet-web-server/internal/model/requestresponse"
	"tweet-web-server/internal/security"

	"github.com/sirupsen/logrus"
)

func decodeJSON(w http.ResponseWriter, r *http.Request, target interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(target); err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return err
	}
	return nil
}

// sendErrorResponse отправляет ответ об ошибке JSON с указанным кодом статуса и сообщением
func sendErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(requestresponse.ErrorResponse{
		Error: requestresponse.ErrorDetail{
			Code: statusCode,
			Text: message,
		},
	})
}

// handleServiceError сопоставляет классификацию ошибок ядра с HTTP-статусами.
// Это единственное место, где ошибки сервисов превращаются в коды ответов.
func handleServiceError(w http.ResponseWriter, err error) {
	logrus.WithError(err).Warn("ошибка обработки запроса")

	switch {
	case errors.Is(err, apperr.ErrInvalidCredentials):
		sendErrorResponse(w, http.StatusBadRequest, "неверный email или пароль")
	case errors.Is(err, apperr.ErrNotVerified):
		sendErrorResponse(w, http.StatusBadRequest, "сначала подтвердите email")
	case errors.Is(err, apperr.ErrInvalidRequest):
		sendErrorResponse(w, http.StatusBadRequest, "некорректный запрос")
	case errors.Is(err, apperr.ErrMalformed):
		sendErrorResponse(w, http.StatusBadRequest, "невалидный токен или подпись")
	case errors.Is(err, apperr.ErrUnauthenticated),
		errors.Is(err, apperr.ErrExpired),
		errors.Is(err, apperr.ErrMissingSubject):
		sendErrorResponse(w, http.StatusUnauthorized, "не авторизован")
	case errors.Is(err, apperr.ErrForbidden):
		sendErrorResponse(w, http.StatusForbidden, "доступ запрещён")
	case errors.Is(err, apperr.ErrNotFound):
		sendErrorResponse(w, http.StatusNotFound, "не найдено")
	case errors.Is(err, apperr.ErrConflict):
		sendErrorResponse(w, http.StatusConflict, "конфликт уникального значения")
	default:
		sendErrorResponse(w, http.StatusInternalServerError, "внутренняя ошибка сервера")
	}
}

func sendJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.WithError(err).Error("ошибка кодирования ответа")
	}
}

// setRefreshCookie кладёт refresh-токен в http-only сессионную cookie.
// Max-Age не задаётся: срок жизни ограничивает сам токен.
func setRefreshCookie(w http.ResponseWriter, cfg *config.CookieConfig, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     security.RefreshCookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: parseSameSite(cfg.SameSite),
	})
}

func clearRefreshCookie(w http.ResponseWriter, cfg *config.CookieConfig) {
	http.SetCookie(w, &http.Cookie{
		Name:     security.RefreshCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: parseSameSite(cfg.SameSite),
	})
}

func parseSameSite(policy string) http.SameSite {
	switch policy {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
