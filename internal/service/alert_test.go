package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"DelayWatch/internal/model"
	"DelayWatch/internal/model/dto"
	"DelayWatch/internal/repository"
	"DelayWatch/pkg/errors"
)

type fakeWarehouse struct {
	orders     []model.DelayedOrder
	payloads   []string
	err        error
	queryCalls int
}

func (f *fakeWarehouse) QueryDelayedOrders(ctx context.Context, _ repository.DelayedOrderFilters) ([]model.DelayedOrder, error) {
	f.queryCalls++
	return f.orders, f.err
}

func (f *fakeWarehouse) QueryDistinctCarrierPayloads(ctx context.Context) ([]string, error) {
	f.queryCalls++
	return f.payloads, f.err
}

type fakeTreatments struct {
	overlays   []model.TreatmentOverlay
	err        error
	queryCalls int

	created   []*model.Treatment
	histories []*model.TreatmentHistory
	stored    *model.Treatment
	latest    *model.TreatmentHistory
}

func (f *fakeTreatments) QueryActiveOverlaysFor(ctx context.Context, orderIDs, orderNumbers []string) ([]model.TreatmentOverlay, error) {
	f.queryCalls++
	return f.overlays, f.err
}

func (f *fakeTreatments) CreateTreatment(ctx context.Context, t *model.Treatment, first *model.TreatmentHistory) error {
	first.TreatmentID = t.ID
	f.created = append(f.created, t)
	f.histories = append(f.histories, first)
	return nil
}

func (f *fakeTreatments) AppendHistory(ctx context.Context, h *model.TreatmentHistory) error {
	f.histories = append(f.histories, h)
	return nil
}

func (f *fakeTreatments) GetTreatment(ctx context.Context, id int64) (*model.Treatment, *model.TreatmentHistory, error) {
	if f.stored == nil || f.stored.ID != id {
		return nil, nil, gorm.ErrRecordNotFound
	}
	return f.stored, f.latest, nil
}

func (f *fakeTreatments) FindByOrder(ctx context.Context, orderID, orderNumber string) (*model.Treatment, error) {
	return f.stored, nil
}

type fakeCache struct {
	entries     map[string]string
	sets        int
	invalidated []string
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: make(map[string]string)}
}

func (f *fakeCache) Get(ctx context.Context, key string) (string, bool) {
	v, ok := f.entries[key]
	return v, ok
}

func (f *fakeCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	f.entries[key] = value
	f.sets++
}

func (f *fakeCache) Invalidate(ctx context.Context, prefix string) {
	f.invalidated = append(f.invalidated, prefix)
	for k := range f.entries {
		if strings.HasPrefix(k, prefix+":") {
			delete(f.entries, k)
		}
	}
}

type fakePublisher struct {
	published []string
}

func (f *fakePublisher) PublishTreatmentAutoOpen(orderID, orderNumber string, daysDelayed int) error {
	f.published = append(f.published, orderID)
	return nil
}

func intPtr(n int) *int {
	return &n
}

func strPtr(s string) *string {
	return &s
}

func newTestAlertService(wh *fakeWarehouse, tr *fakeTreatments, c *fakeCache, pub *fakePublisher) *AlertService {
	s := NewAlertService(wh, tr, c, pub, 100, 5*time.Minute)
	s.now = func() time.Time {
		return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	}
	return s
}

func TestListAlertsMergesOverlayAndSorts(t *testing.T) {
	wh := &fakeWarehouse{orders: []model.DelayedOrder{
		{
			OrderID:              "1",
			OrderNumber:          "PED-1",
			ExpectedDeliveryDate: "2026-08-25",
			DaysDelayed:          5,
			TotalAmount:          decimal.NewFromFloat(150.50),
			CarrierStatusPayload: strPtr(`{"formaEnvio":{"nome":"Correios Sedex 10"}}`),
		},
		{
			OrderID:     "2",
			OrderNumber: "PED-2",
			DaysDelayed: 20,
			TotalAmount: decimal.NewFromFloat(99),
		},
	}}
	tr := &fakeTreatments{overlays: []model.TreatmentOverlay{
		{
			TreatmentID:     99,
			OrderID:         "2",
			TreatmentStatus: model.TreatmentStatusOngoing,
			DeliveryStatus:  model.DeliveryStatusInTransit,
			PriorityLevel:   intPtr(1),
			CarrierProtocol: "PROTO-9",
			Observations:    "Cliente avisado",
			HumanTouched:    true,
		},
	}}
	pub := &fakePublisher{}
	s := newTestAlertService(wh, tr, newFakeCache(), pub)

	items, err := s.ListAlerts(context.Background(), dto.AlertFilters{})
	require.NoError(t, err)
	require.Len(t, items, 2)

	// 无工单的订单 1 按天数推算 medium，排在操作员降为 low 的订单 2 前面
	assert.Equal(t, "1", items[0].OrderID)
	assert.Equal(t, "medium", items[0].Priority)
	assert.Equal(t, "pending", items[0].TreatmentStatus)
	assert.Equal(t, "Correios", items[0].Carrier.Name)
	assert.Equal(t, "150.50", items[0].TotalAmount)
	assert.Empty(t, items[0].TreatmentID)

	assert.Equal(t, "2", items[1].OrderID)
	assert.Equal(t, "low", items[1].Priority)
	assert.Equal(t, "ongoing", items[1].TreatmentStatus)
	assert.Equal(t, "in_transit", items[1].DeliveryStatus)
	assert.Equal(t, "99", items[1].TreatmentID)
	assert.Equal(t, "PROTO-9", items[1].Carrier.Protocol)
	assert.Equal(t, "Cliente avisado", items[1].Treatment.Observations)

	// 首次曝光事件只发给无工单的订单
	assert.Equal(t, []string{"1"}, pub.published)
}

func TestListAlertsCacheHitSkipsCollaborators(t *testing.T) {
	wh := &fakeWarehouse{orders: []model.DelayedOrder{
		{OrderID: "1", DaysDelayed: 10},
	}}
	tr := &fakeTreatments{}
	c := newFakeCache()
	s := newTestAlertService(wh, tr, c, &fakePublisher{})

	first, err := s.ListAlerts(context.Background(), dto.AlertFilters{Status: "pending"})
	require.NoError(t, err)
	require.Equal(t, 1, wh.queryCalls)
	require.Equal(t, 1, c.sets)

	second, err := s.ListAlerts(context.Background(), dto.AlertFilters{Status: "pending"})
	require.NoError(t, err)

	// 命中后原样返回，协作方一次都不再碰
	assert.Equal(t, 1, wh.queryCalls)
	assert.Equal(t, 1, tr.queryCalls)
	assert.Equal(t, first, second)
}

func TestListAlertsWarehouseFailureDegradesToEmpty(t *testing.T) {
	wh := &fakeWarehouse{err: assert.AnError}
	s := newTestAlertService(wh, &fakeTreatments{}, newFakeCache(), &fakePublisher{})

	items, err := s.ListAlerts(context.Background(), dto.AlertFilters{})
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestListAlertsDegradedResultIsNotCached(t *testing.T) {
	wh := &fakeWarehouse{err: assert.AnError}
	c := newFakeCache()
	s := newTestAlertService(wh, &fakeTreatments{}, c, &fakePublisher{})

	items, err := s.ListAlerts(context.Background(), dto.AlertFilters{})
	require.NoError(t, err)
	require.Empty(t, items)

	// 降级的空列表不落缓存，否则数仓恢复后还要空上一整个 TTL
	assert.Zero(t, c.sets)

	wh.err = nil
	wh.orders = []model.DelayedOrder{{OrderID: "1", DaysDelayed: 5}}

	items, err = s.ListAlerts(context.Background(), dto.AlertFilters{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, wh.queryCalls)
	assert.Equal(t, 1, c.sets)
}

func TestListAlertsOverlayFailureMergesWithout(t *testing.T) {
	wh := &fakeWarehouse{orders: []model.DelayedOrder{
		{OrderID: "1", DaysDelayed: 20},
	}}
	tr := &fakeTreatments{err: assert.AnError}
	c := newFakeCache()
	pub := &fakePublisher{}
	s := newTestAlertService(wh, tr, c, pub)

	items, err := s.ListAlerts(context.Background(), dto.AlertFilters{})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "critical", items[0].Priority)
	assert.Equal(t, "pending", items[0].TreatmentStatus)

	// 无叠加合并同样是降级结果：不落缓存，也不给可能已有工单的订单自动开单
	assert.Zero(t, c.sets)
	assert.Empty(t, pub.published)
}

func TestListAlertsRecomputesDelayFromNewDeadline(t *testing.T) {
	deadline := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	wh := &fakeWarehouse{orders: []model.DelayedOrder{
		{OrderID: "1", ExpectedDeliveryDate: "01/07/2026", DaysDelayed: 30},
	}}
	tr := &fakeTreatments{overlays: []model.TreatmentOverlay{
		{
			TreatmentID:         7,
			OrderID:             "1",
			TreatmentStatus:     model.TreatmentStatusRerouting,
			NewDeliveryDeadline: &deadline,
		},
	}}
	s := newTestAlertService(wh, tr, newFakeCache(), &fakePublisher{})

	items, err := s.ListAlerts(context.Background(), dto.AlertFilters{})
	require.NoError(t, err)
	require.Len(t, items, 1)

	// 改期后按新截止日期重算：数仓的 30 天作废，10 天对应 high
	assert.Equal(t, 10, items[0].DaysDelayed)
	assert.Equal(t, "high", items[0].Priority)
	assert.Equal(t, "2026-08-20", items[0].ExpectedDeliveryDate)
}

func TestListAlertsPostMergeFilters(t *testing.T) {
	wh := &fakeWarehouse{orders: []model.DelayedOrder{
		{OrderID: "1", DaysDelayed: 5},
		{OrderID: "2", DaysDelayed: 20},
	}}
	tr := &fakeTreatments{overlays: []model.TreatmentOverlay{
		{TreatmentID: 9, OrderID: "2", TreatmentStatus: model.TreatmentStatusOngoing, HumanTouched: true},
	}}
	s := newTestAlertService(wh, tr, newFakeCache(), &fakePublisher{})

	items, err := s.ListAlerts(context.Background(), dto.AlertFilters{Status: "ongoing"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "2", items[0].OrderID)

	items, err = s.ListAlerts(context.Background(), dto.AlertFilters{Priority: "medium"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].OrderID)
}

func TestListAlertsRejectsInvalidFilters(t *testing.T) {
	s := newTestAlertService(&fakeWarehouse{}, &fakeTreatments{}, newFakeCache(), &fakePublisher{})

	_, err := s.ListAlerts(context.Background(), dto.AlertFilters{Priority: "urgentissimo"})
	assert.ErrorIs(t, err, errors.InvalidPriorityValue)

	_, err = s.ListAlerts(context.Background(), dto.AlertFilters{DateFrom: "2026-09-01", DateTo: "2026-08-01"})
	assert.ErrorIs(t, err, errors.InvalidDateRange)

	_, err = s.ListAlerts(context.Background(), dto.AlertFilters{DateFrom: "not a date"})
	assert.ErrorIs(t, err, errors.InvalidDateRange)
}
