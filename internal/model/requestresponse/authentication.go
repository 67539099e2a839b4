package requestresponse

// LoginRequest : тело запроса на аутентификацию по email
type LoginRequest struct {
	Email    string `json:"email" example:"user@example.com"`
	Password string `json:"password" example:"P@ssw0rd123"`
}

// TokenResponse : ответ с access-токеном; refresh уезжает в http-only cookie
type TokenResponse struct {
	AccessToken string `json:"access_token" example:"eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9..."`
	TokenType   string `json:"token_type" example:"Bearer"`
}

// RegisterRequest : тело запроса регистрации
type RegisterRequest struct {
	Email     string `json:"email" example:"user@example.com"`
	Password  string `json:"password" example:"P@ssw0rd!"`
	FirstName string `json:"first_name" example:"Ivan"`
}

// RegisterResponse : успешный ответ регистрации
type RegisterResponse struct {
	Response RegisterData `json:"response"`
}

type RegisterData struct {
	UserUUID string `json:"user_uuid" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// VerifyRequest : тело запроса подтверждения email
type VerifyRequest struct {
	UserUUID string `json:"user_uuid" example:"123e4567-e89b-12d3-a456-426614174000"`
}

// CheckEmailResponse : занят ли email
type CheckEmailResponse struct {
	Exists bool `json:"exists" example:"false"`
}

// ErrorDetail : детальная информация об ошибке
type ErrorDetail struct {
	Code int    `json:"code" example:"400"`
	Text string `json:"text" example:"for example: invalid email or password"`
}

// ErrorResponse : стандартная структура ошибки
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}
