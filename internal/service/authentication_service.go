package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"tweet-web-server/config"
	"tweet-web-server/internal/apperr"
	"tweet-web-server/internal/model"
	"tweet-web-server/internal/ports"
	"tweet-web-server/internal/security"
	"tweet-web-server/internal/util"

	"github.com/google/uuid"
)

type AuthenticationService struct {
	userRepository ports.UserRepository
	jwtService     ports.JWTServiceInterface
	emailSender    ports.EmailSender
	*config.AppConfig
}

func NewAuthenticationService(
	userRepository ports.UserRepository,
	jwtService ports.JWTServiceInterface,
	emailSender ports.EmailSender,
	cfg *config.AppConfig,
) *AuthenticationService {
	return &AuthenticationService{
		userRepository,
		jwtService,
		emailSender,
		cfg,
	}
}

// LoginWithEmail аутентифицирует пользователя по email и паролю.
// Неизвестный email и неверный пароль дают одну и ту же ошибку,
// чтобы по ответу нельзя было перебирать зарегистрированные адреса.
func (s *AuthenticationService) LoginWithEmail(ctx context.Context, email, password string) (*model.TokensPair, error) {
	user, err := s.userRepository.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска пользователя: %w", err)
	}

	if user == nil || user.IsTelegramOnly() || !security.CheckPassword(password, *user.PasswordHash) {
		return nil, apperr.ErrInvalidCredentials
	}

	if !user.IsVerified {
		return nil, fmt.Errorf("%w: подтвердите email перед входом", apperr.ErrNotVerified)
	}

	tokens, err := s.jwtService.GenerateTokensPair(user)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации токенов: %w", err)
	}

	return tokens, nil
}

// RefreshTokens обновляет пару токенов по refresh-токену из cookie.
// Токены нигде не хранятся: валидность определяется только подписью и сроком,
// при каждом вызове пара перевыпускается целиком.
func (s *AuthenticationService) RefreshTokens(ctx context.Context, refreshToken string) (*model.TokensPair, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: refresh токен отсутствует", apperr.ErrUnauthenticated)
	}

	claims, err := s.jwtService.ParseToken(refreshToken, security.TokenKindRefresh)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperr.ErrUnauthenticated, err)
	}

	user, err := s.userRepository.FindByUUID(ctx, claims.Subject)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска пользователя: %w", err)
	}
	if user == nil {
		return nil, fmt.Errorf("%w: пользователь из токена не найден", apperr.ErrUnauthenticated)
	}

	tokens, err := s.jwtService.GenerateTokensPair(user)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации токенов: %w", err)
	}

	return tokens, nil
}

// LoginWithTelegram проверяет подпись payload'а Telegram Login Widget
// и логинит пользователя, создавая его при первом входе.
// Такой пользователь сразу verified: подтверждение личности делегировано Telegram.
func (s *AuthenticationService) LoginWithTelegram(ctx context.Context, payload map[string]interface{}) (*model.TokensPair, error) {
	data := stringifyPayload(payload)

	valid, err := security.IsTelegramHashValid(data, s.Telegram.BotToken)
	if err != nil {
		return nil, err
	}
	if !valid {
		return nil, fmt.Errorf("%w: подпись telegram не прошла проверку", apperr.ErrUnauthenticated)
	}

	tgID, ok := data["id"]
	if !ok || tgID == "" {
		return nil, fmt.Errorf("%w: telegram id не указан", apperr.ErrInvalidRequest)
	}

	user, err := s.userRepository.FindByTelegramID(ctx, tgID)
	if err != nil {
		return nil, fmt.Errorf("ошибка поиска пользователя: %w", err)
	}

	if user == nil {
		newUser := &model.User{
			UUID:       uuid.New().String(),
			FirstName:  optionalString(data, "first_name"),
			LastName:   optionalString(data, "last_name"),
			TgID:       &tgID,
			TgUsername: optionalString(data, "username"),
			PhotoURL:   optionalString(data, "photo_url"),
			IsVerified: true,
			IsActive:   true,
			Roles:      []string{string(model.RoleReader)},
		}
		user, err = s.userRepository.CreateUser(ctx, newUser)
		if err != nil {
			return nil, fmt.Errorf("ошибка создания пользователя: %w", err)
		}
	}

	tokens, err := s.jwtService.GenerateTokensPair(user)
	if err != nil {
		return nil, fmt.Errorf("ошибка генерации токенов: %w", err)
	}

	return tokens, nil
}

// Register создаёт нового непотверждённого пользователя с ролью Reader
// и отправляет письмо со ссылкой подтверждения. Сбой почты регистрацию не ломает.
func (s *AuthenticationService) Register(ctx context.Context, email, password, firstName string) (string, error) {
	existing, err := s.userRepository.FindByEmail(ctx, email)
	if err != nil {
		return "", fmt.Errorf("ошибка поиска пользователя: %w", err)
	}
	if existing != nil {
		return "", fmt.Errorf("%w: пользователь с таким email уже существует", apperr.ErrConflict)
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return "", err
	}

	user, err := s.userRepository.CreateUser(ctx, &model.User{
		UUID:         uuid.New().String(),
		Email:        &email,
		FirstName:    &firstName,
		PasswordHash: &hash,
		IsVerified:   false,
		IsActive:     true,
		Roles:        []string{string(model.RoleReader)},
	})
	if err != nil {
		return "", fmt.Errorf("ошибка создания пользователя: %w", err)
	}

	verificationLink := fmt.Sprintf("%s/verify/%s", s.FrontendURL, user.UUID)
	message := strings.ReplaceAll(registrationTemplate, "{{verification_link}}", verificationLink)
	go s.emailSender.SendWithRetries(email, "Account Created", message, s.Email.Retries)

	return user.UUID, nil
}

// VerifyUser подтверждает email пользователя. Состояние терминальное,
// пути назад в unverified нет.
func (s *AuthenticationService) VerifyUser(ctx context.Context, userUUID string) error {
	return s.userRepository.MarkVerified(ctx, userUUID)
}

// ForgotPassword выпускает recovery-токен и шлёт ссылку восстановления.
// Неизвестный email возвращает ErrNotFound, а сбой доставки письма
// молча проглатывается после повторов.
func (s *AuthenticationService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.userRepository.FindByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("ошибка поиска пользователя: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: пользователь с таким email не найден", apperr.ErrNotFound)
	}

	token, err := s.jwtService.NewRecoveryToken(user.UUID)
	if err != nil {
		return fmt.Errorf("ошибка выпуска recovery токена: %w", err)
	}

	recoveryLink := fmt.Sprintf("%s/recover_password/%s", s.FrontendURL, token)
	message := strings.ReplaceAll(recoveryTemplate, "{{recovery_link}}", recoveryLink)
	go s.emailSender.SendWithRetries(email, "Password Recovery", message, s.Email.Retries)

	return nil
}

// RecoverPassword меняет пароль по recovery-токену из письма
func (s *AuthenticationService) RecoverPassword(ctx context.Context, token, newPassword string) error {
	claims, err := s.jwtService.ParseToken(token, security.TokenKindRecovery)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrUnauthenticated, err)
	}

	user, err := s.userRepository.FindByUUID(ctx, claims.Subject)
	if err != nil {
		return fmt.Errorf("ошибка поиска пользователя: %w", err)
	}
	if user == nil {
		return fmt.Errorf("%w: пользователь из токена не найден", apperr.ErrNotFound)
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepository.UpdatePassword(ctx, user.UUID, hash); err != nil {
		return util.LogError("не удалось сохранить новый пароль", err)
	}
	return nil
}

// ChangePassword меняет пароль аутентифицированного пользователя
// после проверки старого
func (s *AuthenticationService) ChangePassword(ctx context.Context, user *model.User, oldPassword, newPassword string) error {
	if user.IsTelegramOnly() || !security.CheckPassword(oldPassword, *user.PasswordHash) {
		return apperr.ErrInvalidCredentials
	}

	hash, err := security.HashPassword(newPassword)
	if err != nil {
		return err
	}

	if err := s.userRepository.UpdatePassword(ctx, user.UUID, hash); err != nil {
		return util.LogError("не удалось сохранить новый пароль", err)
	}
	return nil
}

// IsEmailTaken : занят ли email (для фронтовой проверки при регистрации)
func (s *AuthenticationService) IsEmailTaken(ctx context.Context, email string) (bool, error) {
	user, err := s.userRepository.FindByEmail(ctx, email)
	if err != nil {
		return false, fmt.Errorf("ошибка поиска пользователя: %w", err)
	}
	return user != nil, nil
}

// stringifyPayload приводит значения JSON-payload'а к строкам в том виде,
// в котором их подписывает Telegram (числа без экспоненты и лишних нулей)
func stringifyPayload(payload map[string]interface{}) map[string]string {
	data := make(map[string]string, len(payload))
	for key, value := range payload {
		switch v := value.(type) {
		case string:
			data[key] = v
		case json.Number:
			data[key] = v.String()
		case float64:
			data[key] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			data[key] = strconv.FormatBool(v)
		case nil:
			// пропускаем
		default:
			data[key] = fmt.Sprintf("%v", v)
		}
	}
	return data
}

func optionalString(data map[string]string, key string) *string {
	if value, ok := data[key]; ok && value != "" {
		return &value
	}
	return nil
}
