package handler

import (
	"net/http"
	"strconv"

	"tweet-web-server/internal/model/requestresponse"
	"tweet-web-server/internal/ports"
)

type SuperuserHandler struct {
	ports.SuperuserService
}

func NewSuperuserHandler(superuserService ports.SuperuserService) *SuperuserHandler {
	return &SuperuserHandler{superuserService}
}

// ListUsers godoc
// @Summary Список пользователей
// @Description Возвращает страницу пользователей с полнотекстовым поиском по имени и email.
// Доступно только администраторам.
// @Tags Superuser
// @Produce json
// @Param search query string false "Поисковый запрос"
// @Param page query int false "Номер страницы" default(1)
// @Param limit query int false "Размер страницы" default(20)
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.ListUsersResponse
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} requestresponse.ErrorResponse "Недостаточно прав"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/superuser/users [get]
func (h *SuperuserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	search := r.URL.Query().Get("search")
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 20)

	users, err := h.SuperuserService.ListUsers(r.Context(), search, page, limit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var resp requestresponse.ListUsersResponse
	resp.Data.Users = make([]requestresponse.UserRead, 0, len(users))
	for i := range users {
		resp.Data.Users = append(resp.Data.Users, requestresponse.UserReadFromModel(users[i]))
	}

	sendJSON(w, http.StatusOK, resp)
}

// UpdateUserRoles godoc
// @Summary Обновление ролей пользователя
// @Description Заменяет набор ролей пользователя целиком. Доступно только администраторам.
// @Tags Superuser
// @Accept json
// @Produce json
// @Param body body requestresponse.SuperuserUpdateRequest true "UUID пользователя и новый набор ролей"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} map[string]bool
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} requestresponse.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} requestresponse.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/superuser/users/update [post]
func (h *SuperuserHandler) UpdateUserRoles(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.SuperuserUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if req.UserUUID == "" {
		sendErrorResponse(w, http.StatusBadRequest, "user_uuid обязателен")
		return
	}

	if err := h.SuperuserService.UpdateRoles(r.Context(), req.UserUUID, req.Roles); err != nil {
		handleServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, map[string]bool{"updated": true})
}

// DeleteUser godoc
// @Summary Удаление пользователя
// @Description Удаляет пользователя по UUID. Доступно только администраторам.
// @Tags Superuser
// @Accept json
// @Produce json
// @Param body body requestresponse.DeleteUserRequest true "UUID пользователя"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} map[string]bool
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Failure 403 {object} requestresponse.ErrorResponse "Недостаточно прав"
// @Failure 404 {object} requestresponse.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/superuser/users/delete [post]
func (h *SuperuserHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.DeleteUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if req.UserUUID == "" {
		sendErrorResponse(w, http.StatusBadRequest, "user_uuid обязателен")
		return
	}

	if err := h.SuperuserService.DeleteUser(r.Context(), req.UserUUID); err != nil {
		handleServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil || parsed < 1 {
		return fallback
	}
	return parsed
}
