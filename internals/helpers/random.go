package helper

import (
	"crypto/rand"
	"math/big"
)

const (
	digits       = "0123456789"
	upperAlnum   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	passwordPool = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz23456789@#$%"
)

func randomFrom(pool string, n int) string {
	out := make([]byte, n)
	max := big.NewInt(int64(len(pool)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic(err)
		}
		out[i] = pool[idx.Int64()]
	}
	return string(out)
}

// RandomDigits: OTP codes.
func RandomDigits(n int) string { return randomFrom(digits, n) }

// RandomUpperAlnum: receipt and order suffixes.
func RandomUpperAlnum(n int) string { return randomFrom(upperAlnum, n) }

// RandomPassword: initial credentials for admin-created accounts.
func RandomPassword(n int) string { return randomFrom(passwordPool, n) }
