package service_test

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"testing"
	"time"

	"tweet-web-server/config"
	"tweet-web-server/internal/apperr"
	"tweet-web-server/internal/model"
	"tweet-web-server/internal/security"
	"tweet-web-server/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ===== MOCKS =====

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	args := m.Called(ctx, user)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByUUID(ctx context.Context, uuid string) (*model.User, error) {
	args := m.Called(ctx, uuid)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) FindByTelegramID(ctx context.Context, tgID string) (*model.User, error) {
	args := m.Called(ctx, tgID)
	if u, ok := args.Get(0).(*model.User); ok {
		return u, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockUserRepository) UpdateUser(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePassword(ctx context.Context, uuid, newPasswordHash string) error {
	args := m.Called(ctx, uuid, newPasswordHash)
	return args.Error(0)
}

func (m *MockUserRepository) UpdateRoles(ctx context.Context, uuid string, roles []string) error {
	args := m.Called(ctx, uuid, roles)
	return args.Error(0)
}

func (m *MockUserRepository) UpdatePhotoURL(ctx context.Context, uuid, photoURL string) error {
	args := m.Called(ctx, uuid, photoURL)
	return args.Error(0)
}

func (m *MockUserRepository) MarkVerified(ctx context.Context, uuid string) error {
	args := m.Called(ctx, uuid)
	return args.Error(0)
}

func (m *MockUserRepository) DeleteUser(ctx context.Context, uuid string) error {
	args := m.Called(ctx, uuid)
	return args.Error(0)
}

func (m *MockUserRepository) ListUsers(ctx context.Context, search string, page, limit int) ([]*model.User, error) {
	args := m.Called(ctx, search, page, limit)
	if users, ok := args.Get(0).([]*model.User); ok {
		return users, args.Error(1)
	}
	return nil, args.Error(1)
}

type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateTokensPair(user *model.User) (*model.TokensPair, error) {
	args := m.Called(user)
	if tokens, ok := args.Get(0).(*model.TokensPair); ok {
		return tokens, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockJWTService) NewRecoveryToken(userUUID string) (string, error) {
	args := m.Called(userUUID)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) ParseToken(tokenString string, kind security.TokenKind) (*security.Claims, error) {
	args := m.Called(tokenString, kind)
	if claims, ok := args.Get(0).(*security.Claims); ok {
		return claims, args.Error(1)
	}
	return nil, args.Error(1)
}

// fakeEmailSender собирает отправленные письма в канал,
// чтобы дождаться асинхронной отправки из горутины
type sentEmail struct {
	To      string
	Subject string
	Body    string
}

type fakeEmailSender struct {
	sent chan sentEmail
}

func newFakeEmailSender() *fakeEmailSender {
	return &fakeEmailSender{sent: make(chan sentEmail, 4)}
}

func (f *fakeEmailSender) Send(to, subject, messageText string) error {
	f.sent <- sentEmail{to, subject, messageText}
	return nil
}

func (f *fakeEmailSender) SendWithRetries(to, subject, messageText string, retries int) {
	f.sent <- sentEmail{to, subject, messageText}
}

func (f *fakeEmailSender) waitForEmail(t *testing.T) sentEmail {
	t.Helper()
	select {
	case email := <-f.sent:
		return email
	case <-time.After(2 * time.Second):
		t.Fatal("письмо не было отправлено")
		return sentEmail{}
	}
}

// ===== HELPERS =====

const testBotToken = "123456:ABC-DEF1234ghIkl"

func strPtr(s string) *string { return &s }

func newTestAuthService() (*service.AuthenticationService, *MockUserRepository, *MockJWTService, *fakeEmailSender) {
	mockUserRepo := new(MockUserRepository)
	mockJWTService := new(MockJWTService)
	emailSender := newFakeEmailSender()

	svc := service.NewAuthenticationService(
		mockUserRepo,
		mockJWTService,
		emailSender,
		&config.AppConfig{
			FrontendURL: "http://localhost:3000",
			Telegram:    config.TelegramConfig{BotToken: testBotToken},
			Email:       config.EmailConfig{Retries: 3},
		},
	)

	return svc, mockUserRepo, mockJWTService, emailSender
}

func verifiedUser(password string) *model.User {
	hash, _ := security.HashPassword(password)
	return &model.User{
		UUID:         "u1",
		Email:        strPtr("user@example.com"),
		PasswordHash: &hash,
		IsVerified:   true,
		Roles:        []string{"Reader"},
	}
}

// signedTelegramPayload подписывает payload ключом SHA256(bot_token),
// как это делает Telegram Login Widget
func signedTelegramPayload(fields map[string]string) map[string]interface{} {
	keys := []string{"auth_date", "first_name", "id", "username"}
	canonical := ""
	for _, key := range keys {
		if value, ok := fields[key]; ok {
			if canonical != "" {
				canonical += "\n"
			}
			canonical += key + "=" + value
		}
	}

	secret := sha256.Sum256([]byte(testBotToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(canonical))

	payload := make(map[string]interface{}, len(fields)+1)
	for key, value := range fields {
		if key == "id" || key == "auth_date" {
			payload[key] = json.Number(value)
		} else {
			payload[key] = value
		}
	}
	payload["hash"] = hex.EncodeToString(mac.Sum(nil))
	return payload
}

// ===== LOGIN =====

// 1. Неизвестный email и неверный пароль дают одну и ту же ошибку
func TestLoginWithEmail_UnknownEmailAndWrongPasswordIndistinguishable(t *testing.T) {
	svc, mockUserRepo, _, _ := newTestAuthService()
	ctx := context.Background()

	mockUserRepo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, nil)
	mockUserRepo.On("FindByEmail", ctx, "user@example.com").Return(verifiedUser("goodpass"), nil)

	_, errUnknown := svc.LoginWithEmail(ctx, "ghost@example.com", "whatever")
	_, errWrongPass := svc.LoginWithEmail(ctx, "user@example.com", "badpass")

	assert.ErrorIs(t, errUnknown, apperr.ErrInvalidCredentials)
	assert.ErrorIs(t, errWrongPass, apperr.ErrInvalidCredentials)
	assert.Equal(t, errUnknown.Error(), errWrongPass.Error())
}

// 2. Пользователь без пароля (telegram-only) не входит по email
func TestLoginWithEmail_TelegramOnlyUser(t *testing.T) {
	svc, mockUserRepo, _, _ := newTestAuthService()
	ctx := context.Background()

	user := &model.User{UUID: "u1", TgID: strPtr("42"), IsVerified: true}
	mockUserRepo.On("FindByEmail", ctx, "user@example.com").Return(user, nil)

	_, err := svc.LoginWithEmail(ctx, "user@example.com", "anypass")

	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

// 3. Неподтверждённый email блокирует вход
func TestLoginWithEmail_NotVerified(t *testing.T) {
	svc, mockUserRepo, _, _ := newTestAuthService()
	ctx := context.Background()

	user := verifiedUser("goodpass")
	user.IsVerified = false
	mockUserRepo.On("FindByEmail", ctx, "user@example.com").Return(user, nil)

	_, err := svc.LoginWithEmail(ctx, "user@example.com", "goodpass")

	assert.ErrorIs(t, err, apperr.ErrNotVerified)
}

// 4. Успешный вход возвращает пару токенов
func TestLoginWithEmail_Success(t *testing.T) {
	svc, mockUserRepo, mockJWTService, _ := newTestAuthService()
	ctx := context.Background()

	user := verifiedUser("goodpass")
	tokens := &model.TokensPair{AccessToken: "acc", RefreshToken: "ref"}

	mockUserRepo.On("FindByEmail", ctx, "user@example.com").Return(user, nil)
	mockJWTService.On("GenerateTokensPair", user).Return(tokens, nil)

	result, err := svc.LoginWithEmail(ctx, "user@example.com", "goodpass")

	require.NoError(t, err)
	assert.Equal(t, tokens, result)
	mockUserRepo.AssertExpectations(t)
	mockJWTService.AssertExpectations(t)
}

// ===== REFRESH =====

// 5. Пустой refresh-токен — не авторизован
func TestRefreshTokens_Empty(t *testing.T) {
	svc, _, _, _ := newTestAuthService()

	_, err := svc.RefreshTokens(context.Background(), "")

	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

// 6. Невалидный или истёкший refresh-токен — не авторизован
func TestRefreshTokens_ParseError(t *testing.T) {
	svc, _, mockJWTService, _ := newTestAuthService()

	mockJWTService.On("ParseToken", "badtoken", security.TokenKindRefresh).
		Return(nil, apperr.ErrExpired)

	_, err := svc.RefreshTokens(context.Background(), "badtoken")

	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
	mockJWTService.AssertExpectations(t)
}

// 7. Пользователь из токена удалён — не авторизован
func TestRefreshTokens_UserGone(t *testing.T) {
	svc, mockUserRepo, mockJWTService, _ := newTestAuthService()
	ctx := context.Background()

	claims := &security.Claims{TokenUse: "refresh"}
	claims.Subject = "u1"

	mockJWTService.On("ParseToken", "token", security.TokenKindRefresh).Return(claims, nil)
	mockUserRepo.On("FindByUUID", ctx, "u1").Return(nil, nil)

	_, err := svc.RefreshTokens(ctx, "token")

	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

// 8. Успешное обновление перевыпускает пару целиком
func TestRefreshTokens_Success(t *testing.T) {
	svc, mockUserRepo, mockJWTService, _ := newTestAuthService()
	ctx := context.Background()

	user := verifiedUser("goodpass")
	claims := &security.Claims{TokenUse: "refresh"}
	claims.Subject = "u1"
	tokens := &model.TokensPair{AccessToken: "acc2", RefreshToken: "ref2"}

	mockJWTService.On("ParseToken", "token", security.TokenKindRefresh).Return(claims, nil)
	mockUserRepo.On("FindByUUID", ctx, "u1").Return(user, nil)
	mockJWTService.On("GenerateTokensPair", user).Return(tokens, nil)

	result, err := svc.RefreshTokens(ctx, "token")

	require.NoError(t, err)
	assert.Equal(t, tokens, result)
}

// ===== TELEGRAM =====

// 9. Подпись не сходится — не авторизован
func TestLoginWithTelegram_InvalidSignature(t *testing.T) {
	svc, _, _, _ := newTestAuthService()

	payload := signedTelegramPayload(map[string]string{
		"id":         "424242",
		"first_name": "Ivan",
		"auth_date":  "1724800000",
	})
	payload["first_name"] = "Mallory" // подмена после подписи

	_, err := svc.LoginWithTelegram(context.Background(), payload)

	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

// 10. Payload без hash отбрасывается как малформированный
func TestLoginWithTelegram_MissingHash(t *testing.T) {
	svc, _, _, _ := newTestAuthService()

	payload := map[string]interface{}{"id": json.Number("424242")}

	_, err := svc.LoginWithTelegram(context.Background(), payload)

	assert.ErrorIs(t, err, apperr.ErrMalformed)
}

// 11. Первый вход создаёт подтверждённого Reader'а
func TestLoginWithTelegram_CreatesUserOnFirstLogin(t *testing.T) {
	svc, mockUserRepo, mockJWTService, _ := newTestAuthService()
	ctx := context.Background()

	payload := signedTelegramPayload(map[string]string{
		"id":         "424242",
		"first_name": "Ivan",
		"username":   "ivan_petrov",
		"auth_date":  "1724800000",
	})

	var created *model.User
	mockUserRepo.On("FindByTelegramID", ctx, "424242").Return(nil, nil)
	mockUserRepo.On("CreateUser", ctx, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.User)
		}).
		Return(&model.User{UUID: "new-uuid"}, nil)
	mockJWTService.On("GenerateTokensPair", mock.Anything).
		Return(&model.TokensPair{AccessToken: "acc", RefreshToken: "ref"}, nil)

	_, err := svc.LoginWithTelegram(ctx, payload)

	require.NoError(t, err)
	require.NotNil(t, created)
	assert.Equal(t, "424242", *created.TgID)
	assert.Equal(t, "Ivan", *created.FirstName)
	assert.Equal(t, "ivan_petrov", *created.TgUsername)
	assert.True(t, created.IsVerified)
	assert.Equal(t, []string{"Reader"}, []string(created.Roles))
	mockUserRepo.AssertExpectations(t)
}

// 12. Повторный вход не создаёт дубликата
func TestLoginWithTelegram_ExistingUser(t *testing.T) {
	svc, mockUserRepo, mockJWTService, _ := newTestAuthService()
	ctx := context.Background()

	payload := signedTelegramPayload(map[string]string{
		"id":        "424242",
		"auth_date": "1724800000",
	})

	user := &model.User{UUID: "u1", TgID: strPtr("424242"), IsVerified: true}
	tokens := &model.TokensPair{AccessToken: "acc", RefreshToken: "ref"}

	mockUserRepo.On("FindByTelegramID", ctx, "424242").Return(user, nil)
	mockJWTService.On("GenerateTokensPair", user).Return(tokens, nil)

	result, err := svc.LoginWithTelegram(ctx, payload)

	require.NoError(t, err)
	assert.Equal(t, tokens, result)
	mockUserRepo.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything)
}

// ===== REGISTER / VERIFY =====

// 13. Повторная регистрация на занятый email — конфликт
func TestRegister_EmailTaken(t *testing.T) {
	svc, mockUserRepo, _, _ := newTestAuthService()
	ctx := context.Background()

	mockUserRepo.On("FindByEmail", ctx, "user@example.com").Return(verifiedUser("x"), nil)

	_, err := svc.Register(ctx, "user@example.com", "pass", "Ivan")

	assert.ErrorIs(t, err, apperr.ErrConflict)
}

// 14. Регистрация создаёт неподтверждённого Reader'а и шлёт письмо
func TestRegister_Success(t *testing.T) {
	svc, mockUserRepo, _, emailSender := newTestAuthService()
	ctx := context.Background()

	var created *model.User
	mockUserRepo.On("FindByEmail", ctx, "new@example.com").Return(nil, nil)
	mockUserRepo.On("CreateUser", ctx, mock.AnythingOfType("*model.User")).
		Run(func(args mock.Arguments) {
			created = args.Get(1).(*model.User)
		}).
		Return(&model.User{UUID: "new-uuid"}, nil)

	userUUID, err := svc.Register(ctx, "new@example.com", "goodpass", "Ivan")

	require.NoError(t, err)
	assert.Equal(t, "new-uuid", userUUID)

	require.NotNil(t, created)
	assert.False(t, created.IsVerified)
	assert.Equal(t, []string{"Reader"}, []string(created.Roles))
	// пароль хранится только в виде bcrypt-хэша
	require.NotNil(t, created.PasswordHash)
	assert.NotEqual(t, "goodpass", *created.PasswordHash)
	assert.True(t, security.CheckPassword("goodpass", *created.PasswordHash))

	email := emailSender.waitForEmail(t)
	assert.Equal(t, "new@example.com", email.To)
	assert.Equal(t, "Account Created", email.Subject)
	assert.Contains(t, email.Body, "http://localhost:3000/verify/new-uuid")
}

func TestVerifyUser(t *testing.T) {
	svc, mockUserRepo, _, _ := newTestAuthService()
	ctx := context.Background()

	mockUserRepo.On("MarkVerified", ctx, "u1").Return(nil)

	assert.NoError(t, svc.VerifyUser(ctx, "u1"))
	mockUserRepo.AssertExpectations(t)
}

// ===== PASSWORD RECOVERY =====

// 15. Восстановление по неизвестному email — 404
func TestForgotPassword_UnknownEmail(t *testing.T) {
	svc, mockUserRepo, _, _ := newTestAuthService()
	ctx := context.Background()

	mockUserRepo.On("FindByEmail", ctx, "ghost@example.com").Return(nil, nil)

	err := svc.ForgotPassword(ctx, "ghost@example.com")

	assert.ErrorIs(t, err, apperr.ErrNotFound)
}

// 16. Успешный запрос шлёт письмо со ссылкой восстановления
func TestForgotPassword_Success(t *testing.T) {
	svc, mockUserRepo, mockJWTService, emailSender := newTestAuthService()
	ctx := context.Background()

	user := verifiedUser("goodpass")
	mockUserRepo.On("FindByEmail", ctx, "user@example.com").Return(user, nil)
	mockJWTService.On("NewRecoveryToken", "u1").Return("recovery-token", nil)

	err := svc.ForgotPassword(ctx, "user@example.com")

	require.NoError(t, err)
	email := emailSender.waitForEmail(t)
	assert.Equal(t, "Password Recovery", email.Subject)
	assert.Contains(t, email.Body, "http://localhost:3000/recover_password/recovery-token")
}

// 17. Невалидный recovery-токен — не авторизован
func TestRecoverPassword_BadToken(t *testing.T) {
	svc, _, mockJWTService, _ := newTestAuthService()

	mockJWTService.On("ParseToken", "badtoken", security.TokenKindRecovery).
		Return(nil, apperr.ErrMalformed)

	err := svc.RecoverPassword(context.Background(), "badtoken", "newpass")

	assert.ErrorIs(t, err, apperr.ErrUnauthenticated)
}

// 18. Успешное восстановление сохраняет bcrypt-хэш нового пароля
func TestRecoverPassword_Success(t *testing.T) {
	svc, mockUserRepo, mockJWTService, _ := newTestAuthService()
	ctx := context.Background()

	user := verifiedUser("oldpass")
	claims := &security.Claims{TokenUse: "recovery"}
	claims.Subject = "u1"

	var storedHash string
	mockJWTService.On("ParseToken", "token", security.TokenKindRecovery).Return(claims, nil)
	mockUserRepo.On("FindByUUID", ctx, "u1").Return(user, nil)
	mockUserRepo.On("UpdatePassword", ctx, "u1", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			storedHash = args.String(2)
		}).
		Return(nil)

	err := svc.RecoverPassword(ctx, "token", "newpass")

	require.NoError(t, err)
	assert.NotEqual(t, "newpass", storedHash)
	assert.True(t, security.CheckPassword("newpass", storedHash))
}

// 19. Смена пароля с неверным старым отклоняется
func TestChangePassword_WrongOldPassword(t *testing.T) {
	svc, _, _, _ := newTestAuthService()

	err := svc.ChangePassword(context.Background(), verifiedUser("goodpass"), "badpass", "newpass")

	assert.ErrorIs(t, err, apperr.ErrInvalidCredentials)
}

// 20. Успешная смена пароля сохраняет хэш
func TestChangePassword_Success(t *testing.T) {
	svc, mockUserRepo, _, _ := newTestAuthService()
	ctx := context.Background()

	var storedHash string
	mockUserRepo.On("UpdatePassword", ctx, "u1", mock.AnythingOfType("string")).
		Run(func(args mock.Arguments) {
			storedHash = args.String(2)
		}).
		Return(nil)

	err := svc.ChangePassword(ctx, verifiedUser("goodpass"), "goodpass", "newpass")

	require.NoError(t, err)
	assert.True(t, security.CheckPassword("newpass", storedHash))
}

// ===== MISC =====

func TestIsEmailTaken(t *testing.T) {
	svc, mockUserRepo, _, _ := newTestAuthService()
	ctx := context.Background()

	mockUserRepo.On("FindByEmail", ctx, "user@example.com").Return(verifiedUser("x"), nil)
	mockUserRepo.On("FindByEmail", ctx, "free@example.com").Return(nil, nil)

	taken, err := svc.IsEmailTaken(ctx, "user@example.com")
	require.NoError(t, err)
	assert.True(t, taken)

	free, err := svc.IsEmailTaken(ctx, "free@example.com")
	require.NoError(t, err)
	assert.False(t, free)
}
