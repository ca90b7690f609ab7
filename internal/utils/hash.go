package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// HashPassword computes the keyed HMAC-SHA256 digest of password used
// as the stored credential for device authentication.
func HashPassword(password, key string) string {
	mac := hmac.New(sha256.New, []byte(key))
	mac.Write([]byte(password))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyPassword reports whether password hashes to expected under key,
// in constant time.
func VerifyPassword(password, key, expected string) bool {
	return hmac.Equal([]byte(HashPassword(password, key)), []byte(expected))
}
