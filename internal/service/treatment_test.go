package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"DelayWatch/internal/cache"
	"DelayWatch/internal/model"
	"DelayWatch/internal/model/dto"
	"DelayWatch/pkg/errors"
)

func newTestTreatmentService(tr *fakeTreatments, c *fakeCache) *TreatmentService {
	s := NewTreatmentService(tr, c)
	var seq int64
	s.nextID = func() (int64, error) {
		seq++
		return seq, nil
	}
	return s
}

func TestCreateTreatmentRequiresOrderIdentifier(t *testing.T) {
	s := newTestTreatmentService(&fakeTreatments{}, newFakeCache())

	_, err := s.Create(context.Background(), dto.CreateTreatmentRequest{CreatedBy: "ana"})
	assert.ErrorIs(t, err, errors.TreatmentOrderRequired)
}

func TestCreateTreatmentRejectsDuplicate(t *testing.T) {
	tr := &fakeTreatments{overlays: []model.TreatmentOverlay{
		{TreatmentID: 1, OrderID: "1", TreatmentStatus: model.TreatmentStatusOngoing},
	}}
	s := newTestTreatmentService(tr, newFakeCache())

	_, err := s.Create(context.Background(), dto.CreateTreatmentRequest{OrderID: "1", CreatedBy: "ana"})
	assert.ErrorIs(t, err, errors.TreatmentAlreadyExists)
}

func TestCreateTreatmentWritesFirstHistoryAndInvalidates(t *testing.T) {
	tr := &fakeTreatments{}
	c := newFakeCache()
	s := newTestTreatmentService(tr, c)

	detail, err := s.Create(context.Background(), dto.CreateTreatmentRequest{
		OrderID:       "1",
		OrderNumber:   "PED-1",
		Observations:  "Cliente reclamou do atraso",
		PriorityLevel: intPtr(3),
		CreatedBy:     "ana",
	})
	require.NoError(t, err)

	require.Len(t, tr.created, 1)
	require.Len(t, tr.histories, 1)
	assert.Equal(t, model.TreatmentStatusPending, tr.histories[0].TreatmentStatus)
	assert.Equal(t, "ana", tr.histories[0].CreatedBy)
	assert.Equal(t, tr.created[0].ID, tr.histories[0].TreatmentID)

	assert.Equal(t, "pending", detail.TreatmentStatus)
	assert.Equal(t, "PED-1", detail.OrderNumber)

	// 写路径结束后告警缓存命名空间整体失效
	assert.Equal(t, []string{cache.AlertNamespace}, c.invalidated)
}

func TestUpdateTreatmentValidatesStatusAndDeadline(t *testing.T) {
	tr := &fakeTreatments{stored: &model.Treatment{ID: 5, OrderID: "1"}}
	s := newTestTreatmentService(tr, newFakeCache())

	_, err := s.Update(context.Background(), 5, dto.UpdateTreatmentRequest{
		TreatmentStatus: "feito",
		CreatedBy:       "ana",
	})
	assert.ErrorIs(t, err, errors.TreatmentStatusInvalid)

	_, err = s.Update(context.Background(), 5, dto.UpdateTreatmentRequest{
		TreatmentStatus:     "rerouting",
		NewDeliveryDeadline: "amanhã",
		CreatedBy:           "ana",
	})
	assert.ErrorIs(t, err, errors.InvalidDateRange)
}

func TestUpdateTreatmentAppendsHistory(t *testing.T) {
	tr := &fakeTreatments{stored: &model.Treatment{ID: 5, OrderID: "1", CreatedAt: time.Now()}}
	c := newFakeCache()
	s := newTestTreatmentService(tr, c)

	detail, err := s.Update(context.Background(), 5, dto.UpdateTreatmentRequest{
		TreatmentStatus:     "rerouting",
		DeliveryStatus:      model.DeliveryStatusInTransit,
		NewDeliveryDeadline: "15/09/2026",
		Observations:        "Novo prazo combinado",
		CreatedBy:           "ana",
	})
	require.NoError(t, err)

	require.Len(t, tr.histories, 1)
	assert.Equal(t, model.TreatmentStatusRerouting, tr.histories[0].TreatmentStatus)
	require.NotNil(t, tr.histories[0].NewDeliveryDeadline)

	assert.Equal(t, "rerouting", detail.TreatmentStatus)
	assert.Equal(t, "2026-09-15", detail.NewDeliveryDeadline)
	assert.Equal(t, []string{cache.AlertNamespace}, c.invalidated)
}

func TestUpdateTreatmentNotFound(t *testing.T) {
	s := newTestTreatmentService(&fakeTreatments{}, newFakeCache())

	_, err := s.Update(context.Background(), 404, dto.UpdateTreatmentRequest{
		TreatmentStatus: "ongoing",
		CreatedBy:       "ana",
	})
	assert.ErrorIs(t, err, errors.TreatmentNotFound)
}

func TestAutoOpenIsIdempotent(t *testing.T) {
	tr := &fakeTreatments{overlays: []model.TreatmentOverlay{
		{TreatmentID: 1, OrderID: "1", TreatmentStatus: model.TreatmentStatusOngoing},
	}}
	c := newFakeCache()
	s := newTestTreatmentService(tr, c)

	err := s.AutoOpen(context.Background(), "1", "PED-1", 12)
	require.NoError(t, err)

	// 已有生效工单时静默跳过，不建单也不动缓存
	assert.Empty(t, tr.created)
	assert.Empty(t, c.invalidated)
}

func TestAutoOpenCreatesSystemTreatment(t *testing.T) {
	tr := &fakeTreatments{}
	c := newFakeCache()
	s := newTestTreatmentService(tr, c)

	err := s.AutoOpen(context.Background(), "1", "PED-1", 12)
	require.NoError(t, err)

	require.Len(t, tr.created, 1)
	require.Len(t, tr.histories, 1)
	assert.Equal(t, model.SystemAuthor, tr.histories[0].CreatedBy)
	assert.Equal(t, model.AutoOpenObservation, tr.histories[0].Observations)
	assert.Equal(t, []string{cache.AlertNamespace}, c.invalidated)
}
