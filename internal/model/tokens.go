package model

// TokensPair содержит пару access и refresh токенов.
// Refresh-токен уезжает клиенту только в http-only cookie,
// access-токен — в теле ответа.
// swagger:model
type TokensPair struct {
	// Access токен (JWT)
	// example: eyJhbGciOiJIUzUxMiIsInR5cCI6IkpXVCJ9...
	AccessToken string `json:"access_token"`

	// Refresh токен (JWT, живёт дольше access)
	RefreshToken string `json:"-"`
}
