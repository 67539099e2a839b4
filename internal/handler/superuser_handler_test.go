package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tweet-web-server/internal/apperr"
	"tweet-web-server/internal/handler"
	"tweet-web-server/internal/model"
	"tweet-web-server/internal/model/requestresponse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// ===== MOCKS =====

type MockSuperuserService struct {
	mock.Mock
}

func (m *MockSuperuserService) ListUsers(ctx context.Context, search string, page, limit int) ([]*model.User, error) {
	args := m.Called(ctx, search, page, limit)
	if users, ok := args.Get(0).([]*model.User); ok {
		return users, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockSuperuserService) UpdateRoles(ctx context.Context, userUUID string, roles []string) error {
	args := m.Called(ctx, userUUID, roles)
	return args.Error(0)
}

func (m *MockSuperuserService) DeleteUser(ctx context.Context, userUUID string) error {
	args := m.Called(ctx, userUUID)
	return args.Error(0)
}

// ===== TESTS =====

// 1. Список пользователей отдаётся страницей в обёртке data.users
func TestSuperuserListUsers_RendersPage(t *testing.T) {
	mockSuperuser := new(MockSuperuserService)
	h := handler.NewSuperuserHandler(mockSuperuser)

	email := "ivan@example.com"
	firstName := "Ivan"
	mockSuperuser.On("ListUsers", mock.Anything, "ivan", 2, 10).
		Return([]*model.User{
			{
				UUID:       "u1",
				Email:      &email,
				FirstName:  &firstName,
				IsVerified: true,
				Roles:      []string{"Reader"},
			},
			{UUID: "u2", Roles: []string{"Reader", "Admin"}},
		}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/superuser/users?search=ivan&page=2&limit=10", nil)
	rec := httptest.NewRecorder()

	h.ListUsers(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp requestresponse.ListUsersResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Users, 2)
	assert.Equal(t, "u1", resp.Data.Users[0].UUID)
	require.NotNil(t, resp.Data.Users[0].Email)
	assert.Equal(t, "ivan@example.com", *resp.Data.Users[0].Email)
	assert.True(t, resp.Data.Users[0].IsVerified)
	assert.Equal(t, []string{"Reader", "Admin"}, resp.Data.Users[1].Roles)
}

// 2. Некорректные параметры страницы заменяются значениями по умолчанию
func TestSuperuserListUsers_DefaultPaging(t *testing.T) {
	mockSuperuser := new(MockSuperuserService)
	h := handler.NewSuperuserHandler(mockSuperuser)

	mockSuperuser.On("ListUsers", mock.Anything, "", 1, 20).
		Return([]*model.User{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/superuser/users?page=0&limit=abc", nil)
	rec := httptest.NewRecorder()

	h.ListUsers(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	mockSuperuser.AssertExpectations(t)
}

// 3. Обновление ролей несуществующего пользователя — 404
func TestSuperuserUpdateUserRoles_NotFound(t *testing.T) {
	mockSuperuser := new(MockSuperuserService)
	h := handler.NewSuperuserHandler(mockSuperuser)

	mockSuperuser.On("UpdateRoles", mock.Anything, "ghost", []string{"Admin"}).
		Return(apperr.ErrNotFound)

	body := `{"user_uuid":"ghost","roles":["Admin"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/superuser/users/update", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.UpdateUserRoles(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// 4. Удаление пользователя отвечает {"deleted":true}
func TestSuperuserDeleteUser_Success(t *testing.T) {
	mockSuperuser := new(MockSuperuserService)
	h := handler.NewSuperuserHandler(mockSuperuser)

	mockSuperuser.On("DeleteUser", mock.Anything, "u1").Return(nil)

	body := `{"user_uuid":"u1"}`
	req := httptest.NewRequest(http.MethodPost, "/api/superuser/users/delete", strings.NewReader(body))
	rec := httptest.NewRecorder()

	h.DeleteUser(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"deleted":true`)
}
