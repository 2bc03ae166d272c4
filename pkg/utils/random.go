package utils

import (
	"crypto/rand"
	"math/big"
)

const referralCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateReferralCode generates a random code of length n from an
// unambiguous uppercase alphabet (no 0/O, 1/I).
func GenerateReferralCode(n int) string {
	b := make([]byte, n)
	for i := range b {
		num, err := rand.Int(rand.Reader, big.NewInt(int64(len(referralCharset))))
		if err != nil {
			return ""
		}
		b[i] = referralCharset[num.Int64()]
	}
	return string(b)
}
