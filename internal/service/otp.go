package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"
)

// otpRange covers the 6-digit codes 100000..999999.
var otpRange = big.NewInt(900000)

// GenerateOTP returns a uniformly random 6-digit decimal code.
func GenerateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, otpRange)
	if err != nil {
		return "", fmt.Errorf("failed to generate verification code: %w", err)
	}
	return strconv.FormatInt(n.Int64()+100000, 10), nil
}
