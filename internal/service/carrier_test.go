package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DelayWatch/internal/cache"
)

func TestListCarriersDedupesAndSorts(t *testing.T) {
	wh := &fakeWarehouse{payloads: []string{
		`{"formaEnvio":{"nome":"Correios Sedex 10"}}`,
		`{"formaEnvio":{"nome":"Correios PAC"}}`,
		`{"nome":"Jadlog"}`,
		`not json at all`,
		`{}`,
	}}
	c := newFakeCache()
	s := NewCarrierService(wh, c, 30*time.Minute)

	names, err := s.ListCarriers(context.Background())
	require.NoError(t, err)

	// 时效限定词剥掉后两条 Correios 合并，畸形 payload 不进目录
	assert.Equal(t, []string{"Correios", "Jadlog"}, names)
	assert.Contains(t, c.entries, cache.CarrierDirectoryKey)
}

func TestListCarriersServesFromCache(t *testing.T) {
	wh := &fakeWarehouse{payloads: []string{`{"nome":"Jadlog"}`}}
	c := newFakeCache()
	s := NewCarrierService(wh, c, 30*time.Minute)

	_, err := s.ListCarriers(context.Background())
	require.NoError(t, err)
	require.Equal(t, 1, wh.queryCalls)

	names, err := s.ListCarriers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, wh.queryCalls)
	assert.Equal(t, []string{"Jadlog"}, names)
}

func TestListCarriersDegradesToEmptyDirectory(t *testing.T) {
	wh := &fakeWarehouse{err: assert.AnError}
	s := NewCarrierService(wh, newFakeCache(), 30*time.Minute)

	names, err := s.ListCarriers(context.Background())
	require.NoError(t, err)
	assert.Empty(t, names)
}
