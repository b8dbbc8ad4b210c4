package utils

import (
	"crypto/rand"
	"encoding/hex"
	"strconv"
)

// GenerateResetToken returns a 64-character opaque random token
func GenerateResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func uintToString(v uint) string {
	return strconv.FormatUint(uint64(v), 10)
}
