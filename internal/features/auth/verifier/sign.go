package verifier

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/url"
	"strings"
)

// webAppDataKey separates Mini App signatures from other bot token uses.
const webAppDataKey = "WebAppData"

func secretKey(botToken string) []byte {
	mac := hmac.New(sha256.New, []byte(webAppDataKey))
	mac.Write([]byte(botToken))
	return mac.Sum(nil)
}

func computeHash(checkString, botToken string) string {
	mac := hmac.New(sha256.New, secretKey(botToken))
	mac.Write([]byte(checkString))
	return hex.EncodeToString(mac.Sum(nil))
}

// Sign returns an init data string for fields signed with botToken, the way
// Telegram clients receive it. A hash entry in fields is ignored.
func Sign(fields map[string]string, botToken string) string {
	signed := make(map[string]string, len(fields))
	for k, v := range fields {
		if k != hashKey {
			signed[k] = v
		}
	}

	var b strings.Builder
	for _, k := range sortedKeys(signed) {
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(signed[k]))
		b.WriteByte('&')
	}
	b.WriteString(hashKey)
	b.WriteByte('=')
	b.WriteString(computeHash(CheckString(signed), botToken))
	return b.String()
}
