package orders

import (
	"crypto/rand"
	"fmt"
	"time"
)

// Ambiguous characters (0/O, 1/I/L) are excluded so numbers survive being
// read over the phone.
const orderNumberAlphabet = "ABCDEFGHJKMNPQRSTUVWXYZ23456789"

const orderNumberSuffixLen = 6

// generateOrderNumber returns a human-readable order number of the form
// BK-YYYYMMDD-XXXXXX. The suffix is random, so uniqueness is enforced by the
// database index and callers retry on collision.
func generateOrderNumber(now time.Time) (string, error) {
	buf := make([]byte, orderNumberSuffixLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("reading random suffix: %w", err)
	}
	for i := range buf {
		buf[i] = orderNumberAlphabet[int(buf[i])%len(orderNumberAlphabet)]
	}
	return fmt.Sprintf("BK-%s-%s", now.UTC().Format("20060102"), string(buf)), nil
}
