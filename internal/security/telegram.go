package security

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"tweet-web-server/internal/apperr"
)

// telegramDataString собирает канонический вид payload'а Telegram Login Widget:
// пары key=value без поля hash, отсортированные по ключу и склеенные через \n
func telegramDataString(data map[string]string) string {
	keys := make([]string, 0, len(data))
	for key := range data {
		if key == "hash" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("%s=%s", key, data[key]))
	}
	return strings.Join(lines, "\n")
}

// IsTelegramHashValid проверяет HMAC-подпись payload'а от Telegram.
// Ключ подписи — SHA-256 от токена бота, сравнение hex-дайджестов константное по времени.
func IsTelegramHashValid(data map[string]string, botToken string) (bool, error) {
	dataHash, ok := data["hash"]
	if !ok || dataHash == "" {
		return false, fmt.Errorf("%w: в payload отсутствует поле hash", apperr.ErrMalformed)
	}

	secret := sha256.Sum256([]byte(botToken))

	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(telegramDataString(data)))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(dataHash)), nil
}
