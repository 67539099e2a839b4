package ports

import (
	"context"

	"tweet-web-server/internal/model"
)

type AuthenticationService interface {
	LoginWithEmail(ctx context.Context, email, password string) (*model.TokensPair, error)
	LoginWithTelegram(ctx context.Context, payload map[string]interface{}) (*model.TokensPair, error)
	RefreshTokens(ctx context.Context, refreshToken string) (*model.TokensPair, error)
	Register(ctx context.Context, email, password, firstName string) (string, error)
	VerifyUser(ctx context.Context, userUUID string) error
	ForgotPassword(ctx context.Context, email string) error
	RecoverPassword(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, user *model.User, oldPassword, newPassword string) error
	IsEmailTaken(ctx context.Context, email string) (bool, error)
}
