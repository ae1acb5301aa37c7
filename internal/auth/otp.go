package auth

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// otpMax bounds the 6-digit passcode range [100000, 999999].
const otpMax = 900000

// GenerateOTP returns a random 6-digit one-time passcode.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(otpMax))
	if err != nil {
		return "", fmt.Errorf("failed to generate passcode: %w", err)
	}
	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
