package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword : bcrypt со случайной солью, один и тот же пароль
// даёт разные хэши между вызовами
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("не удалось создать хэш пароля: %w", err)
	}
	return string(hash), nil
}

// CheckPassword : сравнение за постоянное время внутри bcrypt;
// для битого хэша возвращает false, а не панику
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
