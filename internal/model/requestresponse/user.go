package requestresponse

import "tweet-web-server/internal/model"

// UserRead : публичное представление пользователя
type UserRead struct {
	UUID       string   `json:"uuid" example:"123e4567-e89b-12d3-a456-426614174000"`
	Email      *string  `json:"email"`
	Roles      []string `json:"roles" example:"Reader"`
	PhotoURL   *string  `json:"photo_url"`
	FirstName  *string  `json:"first_name"`
	LastName   *string  `json:"last_name"`
	IsVerified bool     `json:"is_verified" example:"true"`
}

// UserReadFromModel : конвертирует model.User в UserRead
func UserReadFromModel(user *model.User) UserRead {
	return UserRead{
		UUID:       user.UUID,
		Email:      user.Email,
		Roles:      user.Roles,
		PhotoURL:   user.PhotoURL,
		FirstName:  user.FirstName,
		LastName:   user.LastName,
		IsVerified: user.IsVerified,
	}
}

// UpdateUserRequest : тело запроса на обновление профиля
type UpdateUserRequest struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// ForgotPasswordRequest : запрос ссылки восстановления пароля
type ForgotPasswordRequest struct {
	Email string `json:"email" example:"user@example.com"`
}

// RecoverPasswordRequest : смена пароля по recovery-токену из письма
type RecoverPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password" example:"NewP@ssw0rd"`
}

// ChangePasswordRequest : смена пароля авторизованным пользователем
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// UploadPhotoResponse : ссылка на загруженное фото профиля
type UploadPhotoResponse struct {
	PhotoURL string `json:"photo_url" example:"https://s3.example.com/bucket/public/photos/..."`
}

// SuperuserUpdateRequest : замена набора ролей пользователя
type SuperuserUpdateRequest struct {
	UserUUID string   `json:"user_uuid" example:"123e4567-e89b-12d3-a456-426614174000"`
	Roles    []string `json:"roles" example:"Reader,Admin"`
}

// DeleteUserRequest : удаление пользователя администратором
type DeleteUserRequest struct {
	UserUUID string `json:"user_uuid" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// ListUsersResponse : список пользователей для администратора
type ListUsersResponse struct {
	Data struct {
		Users []UserRead `json:"users"`
	} `json:"data"`
}
