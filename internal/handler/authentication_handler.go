package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"tweet-web-server/config"
	"tweet-web-server/internal/model/requestresponse"
	"tweet-web-server/internal/ports"
	"tweet-web-server/internal/security"
)

type AuthenticationHandler struct {
	ports.AuthenticationService
	cfg *config.AppConfig
}

func NewAuthenticationHandler(authenticationService ports.AuthenticationService, cfg *config.AppConfig) *AuthenticationHandler {
	return &AuthenticationHandler{authenticationService, cfg}
}

// LoginEmail godoc
// @Summary Вход по email и паролю
// @Description Проверяет учётные данные и выдаёт пару токенов. Access-токен возвращается
// в теле ответа, refresh-токен кладётся в http-only cookie login_token.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.LoginRequest true "Email и пароль"
// @Success 200 {object} requestresponse.TokenResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Неверный email или пароль, либо email не подтверждён"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/login/email [post]
func (h *AuthenticationHandler) LoginEmail(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.LoginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if req.Email == "" || req.Password == "" {
		sendErrorResponse(w, http.StatusBadRequest, "email и пароль обязательны")
		return
	}

	tokens, err := h.AuthenticationService.LoginWithEmail(r.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	setRefreshCookie(w, &h.cfg.Cookie, tokens.RefreshToken)
	sendJSON(w, http.StatusOK, requestresponse.TokenResponse{
		AccessToken: tokens.AccessToken,
		TokenType:   "Bearer",
	})
}

// LoginTelegram godoc
// @Summary Вход через Telegram Login Widget
// @Description Принимает полезную нагрузку виджета, проверяет подпись HMAC-SHA256
// и выдаёт пару токенов. Новый пользователь создаётся автоматически.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body object true "Данные Telegram Login Widget вместе с полем hash"
// @Success 200 {object} requestresponse.TokenResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Отсутствует hash или id"
// @Failure 401 {object} requestresponse.ErrorResponse "Подпись не прошла проверку"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/login/tg [post]
func (h *AuthenticationHandler) LoginTelegram(w http.ResponseWriter, r *http.Request) {
	// UseNumber, чтобы id не превратился в float64 и не уехал в экспоненциальную запись
	decoder := json.NewDecoder(r.Body)
	decoder.UseNumber()

	var payload map[string]interface{}
	if err := decoder.Decode(&payload); err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "invalid request body")
		return
	}

	tokens, err := h.AuthenticationService.LoginWithTelegram(r.Context(), payload)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	setRefreshCookie(w, &h.cfg.Cookie, tokens.RefreshToken)
	sendJSON(w, http.StatusOK, requestresponse.TokenResponse{
		AccessToken: tokens.AccessToken,
		TokenType:   "Bearer",
	})
}

// RefreshAccessToken godoc
// @Summary Обновление access-токена
// @Description Читает refresh-токен из cookie login_token и выдаёт новую пару токенов
// @Tags Authentication
// @Produce json
// @Success 200 {object} requestresponse.TokenResponse
// @Failure 401 {object} requestresponse.ErrorResponse "Refresh-токен отсутствует, истёк или невалиден"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/access_token [post]
func (h *AuthenticationHandler) RefreshAccessToken(w http.ResponseWriter, r *http.Request) {
	var refreshToken string
	if cookie, err := r.Cookie(security.RefreshCookieName); err == nil {
		refreshToken = cookie.Value
	}

	tokens, err := h.AuthenticationService.RefreshTokens(r.Context(), refreshToken)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	setRefreshCookie(w, &h.cfg.Cookie, tokens.RefreshToken)
	sendJSON(w, http.StatusOK, requestresponse.TokenResponse{
		AccessToken: tokens.AccessToken,
		TokenType:   "Bearer",
	})
}

// Logout godoc
// @Summary Выход
// @Description Сбрасывает cookie с refresh-токеном. Ранее выданные access-токены
// продолжают действовать до истечения срока.
// @Tags Authentication
// @Produce json
// @Success 200 {object} map[string]bool
// @Router /api/auth/logout [post]
func (h *AuthenticationHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearRefreshCookie(w, &h.cfg.Cookie)
	sendJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// Register godoc
// @Summary Регистрация нового пользователя
// @Description Создаёт неподтверждённого пользователя с ролью Reader и отправляет
// на указанный email письмо со ссылкой подтверждения.
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.RegisterRequest true "Email, пароль и имя"
// @Success 201 {object} requestresponse.RegisterResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Неполное тело запроса"
// @Failure 409 {object} requestresponse.ErrorResponse "Email уже занят"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/register [post]
func (h *AuthenticationHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.RegisterRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if req.Email == "" || req.Password == "" || strings.TrimSpace(req.FirstName) == "" {
		sendErrorResponse(w, http.StatusBadRequest, "email, пароль и имя обязательны")
		return
	}

	userUUID, err := h.AuthenticationService.Register(r.Context(), req.Email, req.Password, req.FirstName)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusCreated, requestresponse.RegisterResponse{
		Response: requestresponse.RegisterData{UserUUID: userUUID},
	})
}

// Verify godoc
// @Summary Подтверждение email
// @Description Помечает пользователя как подтверждённого по UUID из письма
// @Tags Authentication
// @Accept json
// @Produce json
// @Param body body requestresponse.VerifyRequest true "UUID пользователя"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} requestresponse.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/verify [post]
func (h *AuthenticationHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.VerifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if req.UserUUID == "" {
		sendErrorResponse(w, http.StatusBadRequest, "user_uuid обязателен")
		return
	}

	if err := h.AuthenticationService.VerifyUser(r.Context(), req.UserUUID); err != nil {
		handleServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, map[string]bool{"verified": true})
}

// CheckEmail godoc
// @Summary Проверка занятости email
// @Description Возвращает, существует ли пользователь с таким email
// @Tags Authentication
// @Produce json
// @Param email query string true "Email для проверки"
// @Success 200 {object} requestresponse.CheckEmailResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Параметр email не передан"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/auth/check/email [get]
func (h *AuthenticationHandler) CheckEmail(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		sendErrorResponse(w, http.StatusBadRequest, "параметр email обязателен")
		return
	}

	exists, err := h.AuthenticationService.IsEmailTaken(r.Context(), email)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, requestresponse.CheckEmailResponse{Exists: exists})
}
