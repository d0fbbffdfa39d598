package utils // package utils provides helper functions for secrets and codes

import (
	"crypto/rand" // secure random number generation
	"encoding/hex"
	"math/big"
)

// joinCodeAlphabet holds the characters used in workspace join codes.
// Codes are always stored and compared in lower case.
const joinCodeAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewSessionHash returns a cryptographically random opaque value used as the
// rotating secret of a session.  The value is never derived from
// user-controlled input; only this exact string verifies during a refresh.
func NewSessionHash() (string, error) {
	return randomHex(32) // 32 bytes -> 64 hex chars
}

// NewJoinCode generates a 6-character lowercase workspace join code.
func NewJoinCode() (string, error) {
	buf := make([]byte, 6)
	max := big.NewInt(int64(len(joinCodeAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = joinCodeAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// randomHex returns a hex-encoded string generated from n bytes of
// cryptographically secure random data.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
