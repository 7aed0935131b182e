package dingtalk

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/url"
	"strconv"
	"strings"
)

// Sign computes the robot signature for timestampMillis: the URL-escaped Base64 HMAC-SHA256 of
// "timestamp\nsecret", keyed by secret.
func Sign(secret []byte, timestampMillis int64) string {
	message := strconv.FormatInt(timestampMillis, 10) + "\n" + string(secret)
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(message))
	return url.QueryEscape(base64.StdEncoding.EncodeToString(mac.Sum(nil)))
}

// SignedURL appends timestamp and sign to the webhook URL, keeping any existing query string.
func SignedURL(webhook string, secret []byte, timestampMillis int64) string {
	separator := "?"
	if strings.Contains(webhook, "?") {
		separator = "&"
	}
	return webhook + separator +
		"timestamp=" + strconv.FormatInt(timestampMillis, 10) +
		"&sign=" + Sign(secret, timestampMillis)
}
