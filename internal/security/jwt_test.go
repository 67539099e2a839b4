package security_test

import (
	"testing"
	"time"

	"tweet-web-server/config"
	"tweet-web-server/internal/apperr"
	"tweet-web-server/internal/model"
	"tweet-web-server/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock : управляемое время для проверки истечения токенов
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestJWTService(clock security.Clock) *security.JWTService {
	return security.NewJWTService(&config.JWTConfig{
		SecretKey:        "test-secret",
		Algorithm:        "HS512",
		AccessTokenTTL:   "15m",
		RefreshTokenTTL:  "168h",
		RecoveryTokenTTL: "24h",
	}, clock)
}

func strPtr(s string) *string { return &s }

func testUser() *model.User {
	return &model.User{
		UUID:      "11111111-2222-3333-4444-555555555555",
		Email:     strPtr("user@example.com"),
		FirstName: strPtr("Ivan"),
		LastName:  strPtr("Petrov"),
		PhotoURL:  strPtr("https://cdn.example.com/public/photos/u1/p1"),
		Roles:     []string{"Reader"},
	}
}

// 1. Access-токен несёт профильные claims и разбирается обратно
func TestGenerateTokensPair_AccessRoundtrip(t *testing.T) {
	svc := newTestJWTService(nil)
	user := testUser()

	tokens, err := svc.GenerateTokensPair(user)
	require.NoError(t, err)
	require.NotEmpty(t, tokens.AccessToken)
	require.NotEmpty(t, tokens.RefreshToken)

	claims, err := svc.ParseToken(tokens.AccessToken, security.TokenKindAccess)
	require.NoError(t, err)

	assert.Equal(t, user.UUID, claims.Subject)
	assert.Equal(t, *user.Email, *claims.Email)
	assert.Equal(t, *user.FirstName, *claims.FirstName)
	assert.Equal(t, *user.LastName, *claims.LastName)
	assert.Equal(t, *user.PhotoURL, *claims.PhotoURL)
	assert.Equal(t, []string{"Reader"}, claims.Roles)
	assert.Equal(t, "access", claims.TokenUse)
}

// 2. Refresh-токен содержит только subject
func TestGenerateTokensPair_RefreshIsMinimal(t *testing.T) {
	svc := newTestJWTService(nil)

	tokens, err := svc.GenerateTokensPair(testUser())
	require.NoError(t, err)

	claims, err := svc.ParseToken(tokens.RefreshToken, security.TokenKindRefresh)
	require.NoError(t, err)

	assert.Equal(t, "11111111-2222-3333-4444-555555555555", claims.Subject)
	assert.Nil(t, claims.Email)
	assert.Nil(t, claims.FirstName)
	assert.Empty(t, claims.Roles)
}

// 3. Access-токен нельзя использовать как refresh и наоборот
func TestParseToken_WrongKind(t *testing.T) {
	svc := newTestJWTService(nil)

	tokens, err := svc.GenerateTokensPair(testUser())
	require.NoError(t, err)

	_, err = svc.ParseToken(tokens.AccessToken, security.TokenKindRefresh)
	assert.ErrorIs(t, err, apperr.ErrMalformed)

	_, err = svc.ParseToken(tokens.RefreshToken, security.TokenKindAccess)
	assert.ErrorIs(t, err, apperr.ErrMalformed)
}

// 4. Истёкший токен даёт ErrExpired
func TestParseToken_Expired(t *testing.T) {
	clock := &fakeClock{now: time.Now()}
	svc := newTestJWTService(clock)

	tokens, err := svc.GenerateTokensPair(testUser())
	require.NoError(t, err)

	clock.Advance(16 * time.Minute)

	_, err = svc.ParseToken(tokens.AccessToken, security.TokenKindAccess)
	assert.ErrorIs(t, err, apperr.ErrExpired)

	// refresh живёт неделю и ещё действителен
	_, err = svc.ParseToken(tokens.RefreshToken, security.TokenKindRefresh)
	assert.NoError(t, err)
}

// 5. Токен с чужим секретом отбрасывается
func TestParseToken_WrongSecret(t *testing.T) {
	svc := newTestJWTService(nil)
	other := security.NewJWTService(&config.JWTConfig{SecretKey: "other-secret"}, nil)

	tokens, err := other.GenerateTokensPair(testUser())
	require.NoError(t, err)

	_, err = svc.ParseToken(tokens.AccessToken, security.TokenKindAccess)
	assert.ErrorIs(t, err, apperr.ErrMalformed)
}

// 6. Токен без subject невалиден
func TestParseToken_MissingSubject(t *testing.T) {
	svc := newTestJWTService(nil)

	tokens, err := svc.GenerateTokensPair(&model.User{UUID: ""})
	require.NoError(t, err)

	_, err = svc.ParseToken(tokens.AccessToken, security.TokenKindAccess)
	assert.ErrorIs(t, err, apperr.ErrMissingSubject)
}

// 7. Recovery-токен проходит только как recovery
func TestNewRecoveryToken(t *testing.T) {
	svc := newTestJWTService(nil)

	token, err := svc.NewRecoveryToken("u1")
	require.NoError(t, err)

	claims, err := svc.ParseToken(token, security.TokenKindRecovery)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.Subject)

	_, err = svc.ParseToken(token, security.TokenKindAccess)
	assert.ErrorIs(t, err, apperr.ErrMalformed)
}

// 8. Мусорная строка не является токеном
func TestParseToken_Garbage(t *testing.T) {
	svc := newTestJWTService(nil)

	_, err := svc.ParseToken("not-a-jwt", security.TokenKindAccess)
	assert.ErrorIs(t, err, apperr.ErrMalformed)
}
