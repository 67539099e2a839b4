package ports

import (
	"tweet-web-server/internal/model"
	"tweet-web-server/internal/security"
)

type JWTServiceInterface interface {
	GenerateTokensPair(user *model.User) (*model.TokensPair, error)
	NewRecoveryToken(userUUID string) (string, error)
	ParseToken(tokenString string, kind security.TokenKind) (*security.Claims, error)
}
