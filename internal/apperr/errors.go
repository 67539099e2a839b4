package apperr

import "errors"

// Классификация ошибок ядра. Сервисы оборачивают их через fmt.Errorf("...: %w"),
// хендлеры сопоставляют с HTTP-статусами через errors.Is.
var (
	ErrInvalidCredentials = errors.New("неверный email или пароль")
	ErrNotVerified        = errors.New("email пользователя не подтверждён")
	ErrUnauthenticated    = errors.New("пользователь не авторизован")
	ErrForbidden          = errors.New("доступ запрещён")
	ErrConflict           = errors.New("конфликт уникального значения")
	ErrNotFound           = errors.New("не найдено")
	ErrInvalidRequest     = errors.New("некорректный запрос")
	ErrMalformed          = errors.New("невалидный токен или подпись")
	ErrExpired            = errors.New("срок действия токена истёк")
	ErrMissingSubject     = errors.New("в токене отсутствует subject")
)
