package model

import (
	"time"

	"github.com/lib/pq"
)

// Role : закрытый набор ролей; в БД и токенах роли лежат строками
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleReader Role = "Reader"
)

type User struct {
	UUID         string         `db:"uuid" json:"uuid"`
	FirstName    *string        `db:"first_name" json:"first_name"`
	LastName     *string        `db:"last_name" json:"last_name"`
	TgID         *string        `db:"tg_id" json:"-"`
	TgUsername   *string        `db:"tg_username" json:"-"`
	Email        *string        `db:"email" json:"email"`
	PasswordHash *string        `db:"password_hash" json:"-"`
	IsVerified   bool           `db:"is_verified" json:"is_verified"`
	IsActive     bool           `db:"is_active" json:"is_active"`
	Roles        pq.StringArray `db:"roles" json:"roles"`
	PhotoURL     *string        `db:"photo_url" json:"photo_url"`
	CreatedAt    time.Time      `db:"created_at" json:"created_at"`
}

// HasRole : проверка членства роли в наборе ролей пользователя
func (u *User) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == string(role) {
			return true
		}
	}
	return false
}

// IsTelegramOnly : у пользователя нет пароля, вход только через Telegram
func (u *User) IsTelegramOnly() bool {
	return u.PasswordHash == nil
}
