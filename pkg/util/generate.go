// Package util holds small helpers shared across the application
package util

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strconv"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	alnumCharset = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	txnCharset   = "abcdefghijklmnopqrstuvwxyz"

	// Wallet numbers share a fixed bank-style prefix, the remaining
	// digits are a random draw within the configured OTP bounds.
	walletNumberPrefix = "2267"
)

// RandStr returns a random alphanumeric string of length n.
func RandStr(n int) string {
	s, _ := gonanoid.Generate(alnumCharset, n)
	return s
}

// GenerateOTP draws a random one-time code in [min, max].
func GenerateOTP(min, max int) (int, error) {
	if max <= min {
		return 0, fmt.Errorf("invalid otp bounds [%d, %d]", min, max)
	}

	n, err := rand.Int(rand.Reader, big.NewInt(int64(max-min+1)))
	if err != nil {
		return 0, err
	}

	return min + int(n.Int64()), nil
}

// GenerateTxnID returns a transaction ID of the form txn-<16 lowercase letters>.
func GenerateTxnID() (string, error) {
	s, err := gonanoid.Generate(txnCharset, 16)
	if err != nil {
		return "", err
	}

	return "txn-" + s, nil
}

// GenerateWalletNumber builds a candidate wallet number. Draws are
// not unique by construction, callers must check against existing
// wallets and redraw on collision.
func GenerateWalletNumber(min, max int) (int64, error) {
	draw, err := GenerateOTP(min, max)
	if err != nil {
		return 0, err
	}

	return strconv.ParseInt(walletNumberPrefix+strconv.Itoa(draw), 10, 64)
}
