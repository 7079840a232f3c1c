// Package id generates the human-facing identifiers printed on bills and
// payment receipts.
package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"
)

const (
	// Base62 alphabet: 0-9, A-Z, a-z
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	DefaultLength = 10
)

const (
	PrefixBill    = "BILL"
	PrefixPayment = "PAY"
)

// Generate creates a cryptographically random Base62 string.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	result := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(alphabet)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = alphabet[num.Int64()]
	}

	return string(result), nil
}

// NewDocumentNumber builds "<PREFIX>-<YYYYMM>-<RANDOM>", e.g. BILL-202501-7fK2mQ9xLp.
// The month part is taken from period so numbers sort by billing period.
func NewDocumentNumber(prefix string, period time.Time) (string, error) {
	suffix, err := Generate(DefaultLength)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s-%s-%s", prefix, period.Format("200601"), suffix), nil
}

// ParseDocumentNumber splits a document number into its prefix, period and suffix.
func ParseDocumentNumber(number string) (prefix, period, suffix string, err error) {
	parts := strings.SplitN(number, "-", 3)
	if len(parts) != 3 || parts[0] == "" || len(parts[1]) != 6 || parts[2] == "" {
		return "", "", "", fmt.Errorf("invalid document number: %s", number)
	}
	return parts[0], parts[1], parts[2], nil
}
