package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"tweet-web-server/internal/model"
	"tweet-web-server/internal/ports"
	"tweet-web-server/internal/util"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type UserService struct {
	userRepository ports.UserRepository
	storage        ports.S3Storage
}

func NewUserService(userRepository ports.UserRepository, storage ports.S3Storage) *UserService {
	return &UserService{
		userRepository: userRepository,
		storage:        storage,
	}
}

// UpdateProfile обновляет email и имя пользователя и возвращает свежий профиль.
// Пустой email трактуется как его удаление (переход на Telegram-only вход).
func (s *UserService) UpdateProfile(ctx context.Context, userUUID string, email, firstName, lastName *string) (*model.User, error) {
	if email != nil && *email == "" {
		email = nil
	}

	if err := s.userRepository.UpdateUser(ctx, &model.User{
		UUID:      userUUID,
		Email:     email,
		FirstName: firstName,
		LastName:  lastName,
	}); err != nil {
		return nil, util.LogError("[UserService] не удалось обновить профиль", err)
	}

	return s.userRepository.FindByUUID(ctx, userUUID)
}

// UploadPhoto кладёт фото профиля в объектное хранилище и сохраняет
// публичную ссылку; прежнее фото удаляется по возможности
func (s *UserService) UploadPhoto(ctx context.Context, user *model.User, file io.Reader, size int64, contentType string) (string, error) {
	key := fmt.Sprintf("public/photos/%s/%s", user.UUID, uuid.New().String())

	if err := s.storage.UploadObject(ctx, key, file, size, contentType); err != nil {
		return "", util.LogError("[UserService] не удалось загрузить фото", err)
	}

	photoURL := s.storage.ObjectURL(key)
	if err := s.userRepository.UpdatePhotoURL(ctx, user.UUID, photoURL); err != nil {
		return "", util.LogError("[UserService] не удалось сохранить ссылку на фото", err)
	}

	if user.PhotoURL != nil {
		if oldKey := photoKeyFromURL(*user.PhotoURL); oldKey != "" {
			if err := s.storage.DeleteObject(ctx, oldKey); err != nil {
				logrus.WithError(err).Warn("[UserService] не удалось удалить старое фото")
			}
		}
	}

	return photoURL, nil
}

// photoKeyFromURL достаёт ключ объекта из сохранённой публичной ссылки
func photoKeyFromURL(photoURL string) string {
	idx := strings.Index(photoURL, "public/photos/")
	if idx < 0 {
		return ""
	}
	return photoURL[idx:]
}
