package ports

import (
	"context"
	"io"

	"tweet-web-server/internal/model"
)

// UserRepository : SQL слой; уникальность email и tg_id
// обеспечивается ограничениями в БД
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	FindByUUID(ctx context.Context, uuid string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByTelegramID(ctx context.Context, tgID string) (*model.User, error)
	UpdateUser(ctx context.Context, user *model.User) error
	UpdatePassword(ctx context.Context, uuid, newPasswordHash string) error
	UpdateRoles(ctx context.Context, uuid string, roles []string) error
	UpdatePhotoURL(ctx context.Context, uuid, photoURL string) error
	MarkVerified(ctx context.Context, uuid string) error
	DeleteUser(ctx context.Context, uuid string) error
	ListUsers(ctx context.Context, search string, page, limit int) ([]*model.User, error)
}

type UserService interface {
	UpdateProfile(ctx context.Context, userUUID string, email, firstName, lastName *string) (*model.User, error)
	UploadPhoto(ctx context.Context, user *model.User, file io.Reader, size int64, contentType string) (string, error)
}

type SuperuserService interface {
	ListUsers(ctx context.Context, search string, page, limit int) ([]*model.User, error)
	UpdateRoles(ctx context.Context, userUUID string, roles []string) error
	DeleteUser(ctx context.Context, userUUID string) error
}
