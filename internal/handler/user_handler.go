package handler

import (
	"net/http"

	"tweet-web-server/internal/model/requestresponse"
	"tweet-web-server/internal/ports"
	"tweet-web-server/internal/security"
)

const maxPhotoSize = 10 << 20

type UserHandler struct {
	ports.UserService
	ports.AuthenticationService
}

func NewUserHandler(userService ports.UserService, authenticationService ports.AuthenticationService) *UserHandler {
	return &UserHandler{userService, authenticationService}
}

// Info godoc
// @Summary Информация о текущем пользователе
// @Description Возвращает профиль пользователя из access-токена
// @Tags Users
// @Produce json
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.UserRead
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Router /api/user/info [get]
func (h *UserHandler) Info(w http.ResponseWriter, r *http.Request) {
	user, err := security.GetUserFromContext(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, requestresponse.UserReadFromModel(user))
}

// Update godoc
// @Summary Обновление профиля
// @Description Обновляет email, имя и фамилию текущего пользователя.
// Поля, отсутствующие в теле запроса, не изменяются.
// @Tags Users
// @Accept json
// @Produce json
// @Param body body requestresponse.UpdateUserRequest true "Изменяемые поля"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.UserRead
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Failure 409 {object} requestresponse.ErrorResponse "Email уже занят"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/user/update [post]
func (h *UserHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := security.GetUserFromContext(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var req requestresponse.UpdateUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	updated, err := h.UserService.UpdateProfile(r.Context(), user.UUID, req.Email, req.FirstName, req.LastName)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, requestresponse.UserReadFromModel(updated))
}

// ForgotPassword godoc
// @Summary Запрос восстановления пароля
// @Description Отправляет на email ссылку с recovery-токеном
// @Tags Users
// @Accept json
// @Produce json
// @Param body body requestresponse.ForgotPasswordRequest true "Email пользователя"
// @Success 200 {object} map[string]bool
// @Failure 404 {object} requestresponse.ErrorResponse "Пользователь с таким email не найден"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/user/forgot_password [post]
func (h *UserHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.ForgotPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if req.Email == "" {
		sendErrorResponse(w, http.StatusBadRequest, "email обязателен")
		return
	}

	if err := h.AuthenticationService.ForgotPassword(r.Context(), req.Email); err != nil {
		handleServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, map[string]bool{"sent": true})
}

// RecoverPassword godoc
// @Summary Смена пароля по recovery-токену
// @Description Устанавливает новый пароль по токену из письма восстановления
// @Tags Users
// @Accept json
// @Produce json
// @Param body body requestresponse.RecoverPasswordRequest true "Recovery-токен и новый пароль"
// @Success 200 {object} map[string]bool
// @Failure 401 {object} requestresponse.ErrorResponse "Токен истёк или невалиден"
// @Failure 404 {object} requestresponse.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/user/forgot_password/verify [post]
func (h *UserHandler) RecoverPassword(w http.ResponseWriter, r *http.Request) {
	var req requestresponse.RecoverPasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if req.Token == "" || req.NewPassword == "" {
		sendErrorResponse(w, http.StatusBadRequest, "токен и новый пароль обязательны")
		return
	}

	if err := h.AuthenticationService.RecoverPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		handleServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, map[string]bool{"recovered": true})
}

// ChangePassword godoc
// @Summary Смена пароля
// @Description Меняет пароль текущего пользователя после проверки старого
// @Tags Users
// @Accept json
// @Produce json
// @Param body body requestresponse.ChangePasswordRequest true "Старый и новый пароли"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} map[string]bool
// @Failure 400 {object} requestresponse.ErrorResponse "Старый пароль не подошёл"
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/user/change_password [post]
func (h *UserHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user, err := security.GetUserFromContext(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	var req requestresponse.ChangePasswordRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return
	}

	if req.OldPassword == "" || req.NewPassword == "" {
		sendErrorResponse(w, http.StatusBadRequest, "старый и новый пароли обязательны")
		return
	}

	if err := h.AuthenticationService.ChangePassword(r.Context(), user, req.OldPassword, req.NewPassword); err != nil {
		handleServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, map[string]bool{"changed": true})
}

// UploadPhoto godoc
// @Summary Загрузка фото профиля
// @Description Загружает фото в S3 и обновляет ссылку в профиле. Старое фото удаляется.
// @Tags Users
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Файл изображения"
// @Param Authorization header string true "Bearer токен" default(Bearer <access_token>)
// @Success 200 {object} requestresponse.UploadPhotoResponse
// @Failure 400 {object} requestresponse.ErrorResponse "Файл отсутствует в запросе"
// @Failure 401 {object} requestresponse.ErrorResponse "Пользователь не авторизован"
// @Failure 500 {object} requestresponse.ErrorResponse "Внутренняя ошибка сервера"
// @Router /api/user/upload_photo [post]
func (h *UserHandler) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	user, err := security.GetUserFromContext(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "неверный формат запроса")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		sendErrorResponse(w, http.StatusBadRequest, "файл не найден в запросе")
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	photoURL, err := h.UserService.UploadPhoto(r.Context(), user, file, header.Size, contentType)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	sendJSON(w, http.StatusOK, requestresponse.UploadPhotoResponse{PhotoURL: photoURL})
}
