package security_test

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"tweet-web-server/internal/apperr"
	"tweet-web-server/internal/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testBotToken = "123456:ABC-DEF1234ghIkl"

// signTelegramData подписывает payload так, как это делает Telegram:
// ключи без hash сортируются, склеиваются через \n, ключ подписи — SHA256(bot_token)
func signTelegramData(data map[string]string, botToken string) string {
	canonical := "auth_date=" + data["auth_date"] +
		"\nfirst_name=" + data["first_name"] +
		"\nid=" + data["id"] +
		"\nusername=" + data["username"]

	secret := sha256.Sum256([]byte(botToken))
	mac := hmac.New(sha256.New, secret[:])
	mac.Write([]byte(canonical))
	return hex.EncodeToString(mac.Sum(nil))
}

func telegramPayload() map[string]string {
	data := map[string]string{
		"id":         "424242",
		"first_name": "Ivan",
		"username":   "ivan_petrov",
		"auth_date":  "1724800000",
	}
	data["hash"] = signTelegramData(data, testBotToken)
	return data
}

func TestIsTelegramHashValid_Valid(t *testing.T) {
	valid, err := security.IsTelegramHashValid(telegramPayload(), testBotToken)
	require.NoError(t, err)
	assert.True(t, valid)
}

func TestIsTelegramHashValid_TamperedField(t *testing.T) {
	data := telegramPayload()
	data["id"] = "999999"

	valid, err := security.IsTelegramHashValid(data, testBotToken)
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestIsTelegramHashValid_WrongBotToken(t *testing.T) {
	valid, err := security.IsTelegramHashValid(telegramPayload(), "another:token")
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestIsTelegramHashValid_MissingHash(t *testing.T) {
	data := telegramPayload()
	delete(data, "hash")

	_, err := security.IsTelegramHashValid(data, testBotToken)
	assert.ErrorIs(t, err, apperr.ErrMalformed)
}
