package priority

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCalculateFromDelay(t *testing.T) {
	cases := []struct {
		days int
		want Priority
	}{
		{0, Low},
		{3, Low},
		{4, Medium},
		{7, Medium},
		{8, High},
		{15, High},
		{16, Critical},
		{90, Critical},
	}

	for _, c := range cases {
		assert.Equal(t, c.want, CalculateFromDelay(c.days), "days=%d", c.days)
	}
}

func TestNormalizeAbsentDelegatesToDelay(t *testing.T) {
	assert.Equal(t, High, Normalize(Absent(), 10))
	assert.Equal(t, CalculateFromDelay(10), Normalize(Absent(), 10))
	assert.Equal(t, Medium, Normalize(FromIntPtr(nil), 5))
}

func TestNormalizeOperatorScaleOverridesDelay(t *testing.T) {
	// 操作员档覆盖推算档：延迟 1 天也能被拉到 critical
	assert.Equal(t, Critical, Normalize(FromInt(4), 1))
	assert.Equal(t, Critical, Normalize(FromInt(5), 1))
	assert.Equal(t, Low, Normalize(FromInt(1), 30))
	assert.Equal(t, Medium, Normalize(FromInt(2), 30))
	assert.Equal(t, High, Normalize(FromInt(3), 0))
}

func TestNormalizeLabelPassThrough(t *testing.T) {
	assert.Equal(t, High, Normalize(FromLabel("high"), 1))
	assert.Equal(t, Critical, Normalize(FromLabel("CRITICAL"), 1))
	assert.Equal(t, Low, Normalize(FromLabel(" low "), 30))
}

func TestNormalizeGarbageFallsBackToDelay(t *testing.T) {
	assert.Equal(t, Critical, Normalize(FromLabel("bogus"), 20))
	assert.Equal(t, Critical, Normalize(FromLabel(""), 20))
	assert.Equal(t, Critical, Normalize(FromInt(0), 20))
	assert.Equal(t, Critical, Normalize(FromInt(-3), 20))
}

func TestRankOrdering(t *testing.T) {
	assert.Greater(t, Critical.Rank(), High.Rank())
	assert.Greater(t, High.Rank(), Medium.Rank())
	assert.Greater(t, Medium.Rank(), Low.Rank())
	assert.Equal(t, 0, Priority("bogus").Rank())
}

func TestParse(t *testing.T) {
	p, ok := Parse("Medium")
	assert.True(t, ok)
	assert.Equal(t, Medium, p)

	_, ok = Parse("urgentissimo")
	assert.False(t, ok)
}
