package security

import (
	"errors"
	"fmt"
	"time"

	"tweet-web-server/config"
	"tweet-web-server/internal/apperr"
	"tweet-web-server/internal/model"
	"tweet-web-server/internal/util"

	"github.com/golang-jwt/jwt/v5"
)

// TokenKind : назначение токена; проверяется при разборе,
// чтобы access-токен нельзя было подсунуть вместо refresh
type TokenKind string

const (
	TokenKindAccess   TokenKind = "access"
	TokenKindRefresh  TokenKind = "refresh"
	TokenKindRecovery TokenKind = "recovery"
)

const tokenIssuer = "tweet-web-server"

type Claims struct {
	FirstName *string  `json:"first_name,omitempty"`
	LastName  *string  `json:"last_name,omitempty"`
	Email     *string  `json:"email,omitempty"`
	Roles     []string `json:"roles,omitempty"`
	PhotoURL  *string  `json:"photo_url,omitempty"`
	TokenUse  string   `json:"token_use"`
	jwt.RegisteredClaims
}

// Clock : источник времени, подменяется в тестах
type Clock interface {
	Now() time.Time
}

type RealClock struct{}

func (RealClock) Now() time.Time { return time.Now() }

type JWTService struct {
	cfg    *config.JWTConfig
	method jwt.SigningMethod
	clock  Clock
}

func NewJWTService(cfg *config.JWTConfig, clock Clock) *JWTService {
	alg := cfg.Algorithm
	if alg == "" {
		alg = jwt.SigningMethodHS512.Alg()
	}
	method := jwt.GetSigningMethod(alg)
	if method == nil {
		method = jwt.SigningMethodHS512
	}
	if clock == nil {
		clock = RealClock{}
	}
	return &JWTService{cfg: cfg, method: method, clock: clock}
}

// GenerateTokensPair выпускает access и refresh токены для пользователя.
// Access несёт профильные claims, refresh — только subject.
func (service *JWTService) GenerateTokensPair(user *model.User) (*model.TokensPair, error) {
	accessToken, err := service.newToken(&Claims{
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Roles:     user.Roles,
		PhotoURL:  user.PhotoURL,
		TokenUse:  string(TokenKindAccess),
	}, user.UUID, service.cfg.AccessTokenTTL, 15*time.Minute)
	if err != nil {
		return nil, util.LogError("ошибка подписи access токена", err)
	}

	refreshToken, err := service.newToken(&Claims{
		TokenUse: string(TokenKindRefresh),
	}, user.UUID, service.cfg.RefreshTokenTTL, 7*24*time.Hour)
	if err != nil {
		return nil, util.LogError("ошибка подписи refresh токена", err)
	}

	return &model.TokensPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// NewRecoveryToken выпускает одноразовый по смыслу токен восстановления пароля.
// Токен нигде не хранится, его валидность ограничена только сроком действия.
func (service *JWTService) NewRecoveryToken(userUUID string) (string, error) {
	token, err := service.newToken(&Claims{
		TokenUse: string(TokenKindRecovery),
	}, userUUID, service.cfg.RecoveryTokenTTL, 24*time.Hour)
	if err != nil {
		return "", util.LogError("ошибка подписи recovery токена", err)
	}
	return token, nil
}

func (service *JWTService) newToken(claims *Claims, subject, ttlStr string, defaultTTL time.Duration) (string, error) {
	ttl := defaultTTL
	if ttlStr != "" {
		parsed, err := time.ParseDuration(ttlStr)
		if err != nil {
			return "", fmt.Errorf("ошибка парсинга ttl: %w", err)
		}
		ttl = parsed
	}

	now := service.clock.Now()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   subject,
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    tokenIssuer,
	}

	return jwt.NewWithClaims(service.method, claims).SignedString([]byte(service.cfg.SecretKey))
}

// ParseToken разбирает и проверяет токен нужного назначения.
// Возвращает apperr.ErrExpired, apperr.ErrMalformed или apperr.ErrMissingSubject.
func (service *JWTService) ParseToken(jwtTokenStr string, kind TokenKind) (*Claims, error) {
	var claims = &Claims{}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{service.method.Alg()}),
		jwt.WithTimeFunc(service.clock.Now),
	)

	jwtToken, err := parser.ParseWithClaims(jwtTokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(service.cfg.SecretKey), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", apperr.ErrExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", apperr.ErrMalformed, err)
	}
	if !jwtToken.Valid {
		return nil, apperr.ErrMalformed
	}

	if claims.TokenUse != string(kind) {
		return nil, fmt.Errorf("%w: токен выпущен не для %s", apperr.ErrMalformed, kind)
	}
	if claims.Subject == "" {
		return nil, apperr.ErrMissingSubject
	}

	return claims, nil
}
