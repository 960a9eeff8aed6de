package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParseFlexibleDate(t *testing.T) {
	cases := []struct {
		in   string
		want string
		ok   bool
	}{
		{"25/12/2025", "2025-12-25", true},
		{"2025-12-25", "2025-12-25", true},
		{"2025-12-25T10:30:00Z", "2025-12-25", true},
		{"2025-12-25 10:30:00", "2025-12-25", true},
		{"", "", false},
		{"amanhã", "", false},
		{"31/02", "", false},
	}

	for _, c := range cases {
		got, ok := ParseFlexibleDate(c.in)
		assert.Equal(t, c.ok, ok, "input: %q", c.in)
		if ok {
			assert.Equal(t, c.want, got.Format("2006-01-02"), "input: %q", c.in)
		}
	}
}

func TestNormalizeDateKeepsUnparseableRaw(t *testing.T) {
	assert.Equal(t, "2025-12-25", NormalizeDate("25/12/2025"))
	assert.Equal(t, "sem data", NormalizeDate("sem data"))
}

func TestDaysOverdue(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 10, DaysOverdue(now.AddDate(0, 0, -10), now))
	assert.Equal(t, 0, DaysOverdue(now.AddDate(0, 0, 5), now)) // 未到期不算拖延
	assert.Equal(t, 0, DaysOverdue(now, now))
}

func TestSanitizeSearchTerm(t *testing.T) {
	assert.Equal(t, "PED-123", SanitizeSearchTerm(`PED-123'"`))
	assert.Equal(t, "DROP TABLE orders --", SanitizeSearchTerm(`'; DROP TABLE orders; --`))
	assert.Equal(t, "abc", SanitizeSearchTerm("  abc  "))
}
