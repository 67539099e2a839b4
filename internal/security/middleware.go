package security

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"tweet-web-server/config"
	"tweet-web-server/internal/apperr"
	"tweet-web-server/internal/model"
	"tweet-web-server/internal/util"
)

type contextKey string

const (
	UserContextKey contextKey = "user"

	// RefreshCookieName : http-only cookie с refresh-токеном
	RefreshCookieName = "login_token"

	devEmailHeader = "X-Fake-Email"
	devRolesHeader = "X-Fake-Roles"
)

// UserResolver : минимальный доступ к хранилищу пользователей,
// который нужен guard'у для резолва identity
type UserResolver interface {
	FindByUUID(ctx context.Context, uuid string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
}

// JWTMiddleware резолвит пользователя из bearer access-токена:
// разбор токена -> subject -> поиск в хранилище. Любой сбой цепочки даёт 401.
func JWTMiddleware(jwtService *JWTService, users UserResolver, cfg *config.AppConfig) func(handler http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(handleAuthentication(jwtService, users, cfg, next))
	}
}

func handleAuthentication(jwtService *JWTService, users UserResolver, cfg *config.AppConfig, next http.Handler) func(writer http.ResponseWriter, request *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		// dev-обход с подменой identity; в production выключен на старте процесса
		if cfg.EnableDevAuth && !cfg.IsProduction {
			if user, handled := resolveDevIdentity(writer, request, users); handled {
				if user == nil {
					return
				}
				req := request.WithContext(context.WithValue(request.Context(), UserContextKey, user))
				next.ServeHTTP(writer, req)
				return
			}
		}

		authorizationHeader := request.Header.Get("Authorization")
		if !strings.HasPrefix(authorizationHeader, "Bearer ") {
			util.HandleError(writer, "не авторизован", http.StatusUnauthorized)
			return
		}

		token := strings.TrimPrefix(authorizationHeader, "Bearer ")

		claims, err := jwtService.ParseToken(token, TokenKindAccess)
		if err != nil {
			util.LogError("невалидный access токен", err)
			util.HandleError(writer, "не авторизован", http.StatusUnauthorized)
			return
		}

		user, err := users.FindByUUID(request.Context(), claims.Subject)
		if err != nil || user == nil {
			util.LogError("пользователь из токена не найден", err)
			util.HandleError(writer, "не авторизован", http.StatusUnauthorized)
			return
		}

		req := request.WithContext(context.WithValue(request.Context(), UserContextKey, user))
		next.ServeHTTP(writer, req)
	}
}

// resolveDevIdentity возвращает (user, true), если запрос содержит dev-заголовки.
// user == nil означает, что ответ уже записан.
func resolveDevIdentity(writer http.ResponseWriter, request *http.Request, users UserResolver) (*model.User, bool) {
	fakeEmail := request.Header.Get(devEmailHeader)
	fakeRoles := request.Header.Get(devRolesHeader)
	if fakeEmail == "" || fakeRoles == "" {
		return nil, false
	}

	user, err := users.FindByEmail(request.Context(), fakeEmail)
	if err != nil || user == nil {
		util.HandleError(writer, fmt.Sprintf("пользователь %s не найден", fakeEmail), http.StatusNotFound)
		return nil, true
	}
	user.Roles = strings.Split(fakeRoles, ",")
	return user, true
}

// SuperuserMiddleware дополнительно требует роль Admin у уже
// аутентифицированного пользователя
func SuperuserMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		user, err := GetUserFromContext(request.Context())
		if err != nil {
			util.HandleError(writer, "не авторизован", http.StatusUnauthorized)
			return
		}
		if err := RequireRole(user, model.RoleAdmin); err != nil {
			util.HandleError(writer, "доступ запрещён", http.StatusForbidden)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

func GetUserFromContext(ctx context.Context) (*model.User, error) {
	user, ok := ctx.Value(UserContextKey).(*model.User)
	if !ok || user == nil {
		return nil, apperr.ErrUnauthenticated
	}
	return user, nil
}

// RequireRole : проверка членства роли, ErrForbidden при отсутствии
func RequireRole(user *model.User, role model.Role) error {
	if !user.HasRole(role) {
		return fmt.Errorf("%w: требуется роль %s", apperr.ErrForbidden, role)
	}
	return nil
}
