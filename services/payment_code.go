package services

import (
	"crypto/rand"
	"math/big"
	"strconv"
)

const (
	paymentCodeMin      = 10000
	paymentCodeSpan     = 90000
	maxPaymentCodeTries = 10
)

// RandomPaymentCode returns a uniformly random 5-digit numeric code.
func RandomPaymentCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(paymentCodeSpan))
	if err != nil {
		return "", err
	}
	return strconv.FormatInt(paymentCodeMin+n.Int64(), 10), nil
}
