package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeriveKeyStripsEmptyValues(t *testing.T) {
	a := DeriveKey(map[string]string{"status": "pending"})
	b := DeriveKey(map[string]string{"status": "pending", "carrier": ""})

	assert.Equal(t, a, b)
}

func TestDeriveKeyOrderIndependent(t *testing.T) {
	a := DeriveKey(map[string]string{"search": "PED-1", "carrier": "jadlog"})
	b := DeriveKey(map[string]string{"carrier": "jadlog", "search": "PED-1"})

	assert.Equal(t, a, b)
}

func TestDeriveKeyDistinctFiltersDistinctKeys(t *testing.T) {
	a := DeriveKey(map[string]string{"status": "pending"})
	b := DeriveKey(map[string]string{"status": "ongoing"})
	c := DeriveKey(map[string]string{})

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, b, c)
}

func TestDeriveKeyValueEscaping(t *testing.T) {
	// 值里的分隔符不会串键
	a := DeriveKey(map[string]string{"a": "1&b=2"})
	b := DeriveKey(map[string]string{"a": "1", "b": "2"})

	assert.NotEqual(t, a, b)
}

func TestDeriveKeyDeterministic(t *testing.T) {
	params := map[string]string{"status": "pending", "priority": "high", "date_from": "2026-01-01"}

	assert.Equal(t, DeriveKey(params), DeriveKey(params))
	assert.Len(t, DeriveKey(params), 32) // 128-bit hex
}
