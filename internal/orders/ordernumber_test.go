package orders

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateOrderNumberFormat(t *testing.T) {
	now := time.Date(2026, time.March, 14, 9, 26, 53, 0, time.UTC)

	number, err := generateOrderNumber(now)
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^BK-20260314-[A-Z2-9]{6}$`), number)
	for _, forbidden := range []string{"0", "1", "O", "I", "L"} {
		assert.NotContains(t, strings.SplitN(number, "-", 3)[2], forbidden)
	}
}

func TestGenerateOrderNumberVaries(t *testing.T) {
	now := time.Now()
	seen := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		number, err := generateOrderNumber(now)
		require.NoError(t, err)
		seen[number] = struct{}{}
	}
	assert.Greater(t, len(seen), 45)
}
