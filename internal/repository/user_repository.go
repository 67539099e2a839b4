package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"tweet-web-server/config"
	"tweet-web-server/internal/apperr"
	"tweet-web-server/internal/model"
	"tweet-web-server/internal/util"

	"github.com/lib/pq"
)

const pqUniqueViolation = "23505"

const userColumns = `uuid, first_name, last_name, tg_id, tg_username, email, password_hash, is_verified, is_active, roles, photo_url, created_at`

type UserRepository struct {
	*config.Database
}

func NewUserRepository(database *config.Database) *UserRepository {
	return &UserRepository{database}
}

// CreateUser : сохраняет нового пользователя; дубликат email или tg_id
// превращается в apperr.ErrConflict
func (r *UserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	query := `
	INSERT INTO users (uuid, first_name, last_name, tg_id, tg_username, email, password_hash, is_verified, is_active, roles, photo_url)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	RETURNING ` + userColumns

	createdUser := &model.User{}
	err := r.DB.QueryRowxContext(ctx, query,
		user.UUID,
		user.FirstName,
		user.LastName,
		user.TgID,
		user.TgUsername,
		user.Email,
		user.PasswordHash,
		user.IsVerified,
		user.IsActive,
		pq.Array(user.Roles),
		user.PhotoURL,
	).StructScan(createdUser)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, fmt.Errorf("%w: %v", apperr.ErrConflict, err)
		}
		return nil, util.LogError("[UserRepo] ошибка вставки данных в БД", err)
	}

	return createdUser, nil
}

// FindByUUID : ищет пользователя по UUID; (nil, nil) если не найден
func (r *UserRepository) FindByUUID(ctx context.Context, uuid string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE uuid = $1`, uuid)
}

// FindByEmail : ищет пользователя по email; (nil, nil) если не найден
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

// FindByTelegramID : ищет пользователя по telegram id; (nil, nil) если не найден
func (r *UserRepository) FindByTelegramID(ctx context.Context, tgID string) (*model.User, error) {
	return r.findOne(ctx, `SELECT `+userColumns+` FROM users WHERE tg_id = $1`, tgID)
}

func (r *UserRepository) findOne(ctx context.Context, query string, arg interface{}) (*model.User, error) {
	var user model.User
	err := r.DB.GetContext(ctx, &user, query, arg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, util.LogError("[UserRepo] не удалось найти пользователя в БД", err)
	}
	return &user, nil
}

// UpdateUser : обновляет профильные поля (email, имя, фамилия)
func (r *UserRepository) UpdateUser(ctx context.Context, user *model.User) error {
	query := `
		UPDATE users
		SET email = $2, first_name = $3, last_name = $4
		WHERE uuid = $1
	`
	_, err := r.DB.ExecContext(ctx, query, user.UUID, user.Email, user.FirstName, user.LastName)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return fmt.Errorf("%w: %v", apperr.ErrConflict, err)
		}
		return util.LogError("[UserRepo] не удалось обновить пользователя", err)
	}
	return nil
}

// UpdatePassword : меняет хэш пароля пользователя
func (r *UserRepository) UpdatePassword(ctx context.Context, uuid, newPasswordHash string) error {
	query := `UPDATE users SET password_hash = $2 WHERE uuid = $1`
	_, err := r.DB.ExecContext(ctx, query, uuid, newPasswordHash)
	if err != nil {
		return util.LogError("[UserRepo] не удалось обновить пароль", err)
	}
	return nil
}

// UpdateRoles : заменяет набор ролей пользователя
func (r *UserRepository) UpdateRoles(ctx context.Context, uuid string, roles []string) error {
	query := `UPDATE users SET roles = $2 WHERE uuid = $1`
	result, err := r.DB.ExecContext(ctx, query, uuid, pq.Array(roles))
	if err != nil {
		return util.LogError("[UserRepo] не удалось обновить роли", err)
	}
	return r.requireRowsAffected(result, "обновления ролей")
}

// UpdatePhotoURL : сохраняет ссылку на фото профиля
func (r *UserRepository) UpdatePhotoURL(ctx context.Context, uuid, photoURL string) error {
	query := `UPDATE users SET photo_url = $2 WHERE uuid = $1`
	_, err := r.DB.ExecContext(ctx, query, uuid, photoURL)
	if err != nil {
		return util.LogError("[UserRepo] не удалось сохранить фото", err)
	}
	return nil
}

// MarkVerified : переводит пользователя в состояние verified; обратного пути нет
func (r *UserRepository) MarkVerified(ctx context.Context, uuid string) error {
	query := `UPDATE users SET is_verified = TRUE WHERE uuid = $1`
	result, err := r.DB.ExecContext(ctx, query, uuid)
	if err != nil {
		return util.LogError("[UserRepo] не удалось подтвердить пользователя", err)
	}
	return r.requireRowsAffected(result, "подтверждения")
}

// DeleteUser : удаляет пользователя по его UUID
func (r *UserRepository) DeleteUser(ctx context.Context, uuid string) error {
	query := `DELETE FROM users WHERE uuid = $1`
	result, err := r.DB.ExecContext(ctx, query, uuid)
	if err != nil {
		return util.LogError("[UserRepo] не удалось удалить пользователя", err)
	}
	return r.requireRowsAffected(result, "удаления")
}

func (r *UserRepository) requireRowsAffected(result sql.Result, operation string) error {
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return util.LogError("[UserRepo] не удалось проверить результат "+operation, err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("%w: пользователь для %s не найден", apperr.ErrNotFound, operation)
	}
	return nil
}

// ListUsers : постраничный список пользователей, новые сверху;
// search ищет полнотекстово по имени, фамилии и email
func (r *UserRepository) ListUsers(ctx context.Context, search string, page, limit int) ([]*model.User, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}

	query := `SELECT ` + userColumns + ` FROM users`
	args := []interface{}{limit, (page - 1) * limit}

	if search != "" {
		query += `
		WHERE to_tsvector(coalesce(first_name, '') || ' ' || coalesce(last_name, '') || ' ' || coalesce(email, ''))
			@@ to_tsquery($3)`
		args = append(args, makeSearchQuery(search))
	}

	query += `
	ORDER BY created_at DESC
	LIMIT $1 OFFSET $2`

	var users []*model.User
	if err := r.DB.SelectContext(ctx, &users, query, args...); err != nil {
		return nil, util.LogError("[UserRepo] не удалось получить список пользователей", err)
	}
	return users, nil
}

var nonWordPattern = regexp.MustCompile(`[\W_]+`)

// makeSearchQuery превращает пользовательский ввод в префиксный
// to_tsquery вида "ivan:* | petrov:*"
func makeSearchQuery(search string) string {
	search = nonWordPattern.ReplaceAllString(search, " ")
	terms := strings.Split(strings.ToLower(strings.TrimSpace(search)), " ")
	return strings.Join(terms, ":* | ") + ":*"
}
