package sessions

import (
	"crypto/rand"
	"encoding/hex"
)

// returns a new random session ID (256 bits of entropy)
func GenerateSessionID() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}

	return hex.EncodeToString(bytes), nil
}
