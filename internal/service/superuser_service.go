package service

import (
	"context"
	"fmt"

	"tweet-web-server/internal/model"
	"tweet-web-server/internal/ports"
)

// SuperuserService : административные операции; доступ гейтится
// middleware'ом по роли Admin, сервис ролей повторно не проверяет
type SuperuserService struct {
	userRepository ports.UserRepository
}

func NewSuperuserService(userRepository ports.UserRepository) *SuperuserService {
	return &SuperuserService{userRepository: userRepository}
}

func (s *SuperuserService) ListUsers(ctx context.Context, search string, page, limit int) ([]*model.User, error) {
	users, err := s.userRepository.ListUsers(ctx, search, page, limit)
	if err != nil {
		return nil, fmt.Errorf("[SuperuserService] не удалось получить список пользователей: %w", err)
	}
	return users, nil
}

func (s *SuperuserService) UpdateRoles(ctx context.Context, userUUID string, roles []string) error {
	if err := s.userRepository.UpdateRoles(ctx, userUUID, roles); err != nil {
		return fmt.Errorf("[SuperuserService] не удалось обновить роли: %w", err)
	}
	return nil
}

func (s *SuperuserService) DeleteUser(ctx context.Context, userUUID string) error {
	if err := s.userRepository.DeleteUser(ctx, userUUID); err != nil {
		return fmt.Errorf("[SuperuserService] не удалось удалить пользователя: %w", err)
	}
	return nil
}
