package service

import (
	"context"
	"encoding/json"
	"sort"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"DelayWatch/config"
	"DelayWatch/internal/cache"
	"DelayWatch/internal/carrier"
	"DelayWatch/internal/model"
	"DelayWatch/internal/model/dto"
	"DelayWatch/internal/priority"
	"DelayWatch/internal/repository"
	"DelayWatch/pkg/errors"
	"DelayWatch/pkg/logger"
	"DelayWatch/pkg/metrics"
	"DelayWatch/storage/database"
	"DelayWatch/utils"
)

// 告警合并服务。把数仓延迟订单和工单叠加按请求临时合并，
// 结果整体进缓存；命中时原样返回，不重过滤不重排序。
// 数仓挂了返回空列表，工单库挂了按无叠加合并，读路径永不 500。

type AlertService struct {
	warehouse  WarehouseReader
	treatments TreatmentStore
	cache      CacheStore
	events     EventPublisher

	resultCap int
	alertTTL  time.Duration

	now func() time.Time
}

var (
	alertService *AlertService
	alertOnce    sync.Once
)

// Alert 返回告警合并服务单例
func Alert() *AlertService {
	alertOnce.Do(func() {
		alertService = NewAlertService(
			repository.NewWarehouseRepo(database.Warehouse()),
			repository.NewTreatmentRepo(database.Treatment()),
			cache.NewRedisStore(),
			defaultEventPublisher(),
			config.Cfg.AlertResultCap,
			time.Duration(config.Cfg.AlertCacheTTLSeconds)*time.Second,
		)
	})
	return alertService
}

func NewAlertService(
	warehouse WarehouseReader,
	treatments TreatmentStore,
	cacheStore CacheStore,
	events EventPublisher,
	resultCap int,
	alertTTL time.Duration,
) *AlertService {
	return &AlertService{
		warehouse:  warehouse,
		treatments: treatments,
		cache:      cacheStore,
		events:     events,
		resultCap:  resultCap,
		alertTTL:   alertTTL,
		now:        time.Now,
	}
}

// 归一化后的过滤参数，既是缓存键的输入也是查询的输入
type normalizedFilters struct {
	search   string
	carrier  string
	status   string
	priority string
	dateFrom *time.Time
	dateTo   *time.Time
}

func (f *normalizedFilters) cacheParams() map[string]string {
	params := map[string]string{
		"search":   f.search,
		"carrier":  f.carrier,
		"status":   f.status,
		"priority": f.priority,
	}
	if f.dateFrom != nil {
		params["date_from"] = f.dateFrom.Format("2006-01-02")
	}
	if f.dateTo != nil {
		params["date_to"] = f.dateTo.Format("2006-01-02")
	}
	return params
}

// normalizeFilters 校验并归一化过滤参数。
// priority 只认四级枚举，日期串解析不动或区间倒置直接拒绝。
func normalizeFilters(in dto.AlertFilters) (*normalizedFilters, error) {
	f := &normalizedFilters{
		search:  utils.SanitizeSearchTerm(in.Search),
		carrier: utils.SanitizeSearchTerm(in.Carrier),
		status:  utils.SanitizeSearchTerm(in.Status),
	}

	if in.Priority != "" {
		p, ok := priority.Parse(in.Priority)
		if !ok {
			return nil, errors.InvalidPriorityValue
		}
		f.priority = string(p)
	}

	if in.DateFrom != "" {
		t, ok := utils.ParseFlexibleDate(in.DateFrom)
		if !ok {
			return nil, errors.InvalidDateRange
		}
		f.dateFrom = &t
	}
	if in.DateTo != "" {
		t, ok := utils.ParseFlexibleDate(in.DateTo)
		if !ok {
			return nil, errors.InvalidDateRange
		}
		f.dateTo = &t
	}
	if f.dateFrom != nil && f.dateTo != nil && f.dateFrom.After(*f.dateTo) {
		return nil, errors.InvalidDateRange
	}

	return f, nil
}

// ListAlerts 返回合并后的告警列表。
// 协作方故障降级为空列表或无叠加合并，不向调用方返回基础设施错误。
func (s *AlertService) ListAlerts(ctx context.Context, in dto.AlertFilters) ([]dto.AlertItem, error) {
	filters, err := normalizeFilters(in)
	if err != nil {
		return nil, err
	}

	key := cache.AlertKey(filters.cacheParams())

	if raw, ok := s.cache.Get(ctx, key); ok {
		var items []dto.AlertItem
		if err := json.Unmarshal([]byte(raw), &items); err == nil {
			metrics.RecordCacheHit(ctx, cache.AlertNamespace)
			return items, nil
		}
		logger.Logger.Warn("Cached alert payload is corrupt, rebuilding",
			zap.String("key", key),
		)
	}
	metrics.RecordCacheMiss(ctx, cache.AlertNamespace)

	started := s.now()
	items, unmanaged, degraded := s.reconcile(ctx, filters)
	metrics.RecordReconcileDuration(ctx, s.now().Sub(started).Seconds(), len(items))

	// 降级结果不进缓存也不触发自动开单，数据源恢复后的
	// 下一次请求要重新走完整合并
	if !degraded {
		if data, err := json.Marshal(items); err == nil {
			s.cache.Set(ctx, key, string(data), s.alertTTL)
		}

		s.publishAutoOpen(unmanaged)
	}

	return items, nil
}

// reconcile 走完整合并流水线，返回告警列表、其中无工单叠加的订单，
// 以及本次结果是否来自协作方降级
func (s *AlertService) reconcile(ctx context.Context, filters *normalizedFilters) ([]dto.AlertItem, []model.DelayedOrder, bool) {
	orders, err := s.warehouse.QueryDelayedOrders(ctx, repository.DelayedOrderFilters{
		Search:   filters.search,
		Carrier:  filters.carrier,
		DateFrom: filters.dateFrom,
		DateTo:   filters.dateTo,
		Limit:    s.resultCap,
	})
	if err != nil {
		logger.Logger.Error("Warehouse query failed, degrading to empty alert list",
			zap.Error(err),
		)
		metrics.RecordDegradedFetch(ctx, "warehouse")
		return []dto.AlertItem{}, nil, true
	}

	idx, overlaysOK := s.loadOverlays(ctx, orders)

	items := make([]dto.AlertItem, 0, len(orders))
	var unmanaged []model.DelayedOrder
	for i := range orders {
		order := &orders[i]
		overlay := idx.find(order.OrderID, order.OrderNumber)
		if overlay == nil {
			unmanaged = append(unmanaged, *order)
		}

		item := s.merge(order, overlay)

		if filters.status != "" && item.TreatmentStatus != filters.status {
			continue
		}
		if filters.priority != "" && item.Priority != filters.priority {
			continue
		}

		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		ri := priority.Priority(items[i].Priority).Rank()
		rj := priority.Priority(items[j].Priority).Rank()
		if ri != rj {
			return ri > rj
		}
		return items[i].DaysDelayed > items[j].DaysDelayed
	})

	return items, unmanaged, !overlaysOK
}

// loadOverlays 批量取生效叠加并建索引，工单库故障降级为空索引
func (s *AlertService) loadOverlays(ctx context.Context, orders []model.DelayedOrder) (*overlayIndex, bool) {
	if len(orders) == 0 {
		return buildOverlayIndex(nil), true
	}

	orderIDs := make([]string, 0, len(orders))
	orderNumbers := make([]string, 0, len(orders))
	for i := range orders {
		if orders[i].OrderID != "" {
			orderIDs = append(orderIDs, orders[i].OrderID)
		}
		if orders[i].OrderNumber != "" {
			orderNumbers = append(orderNumbers, orders[i].OrderNumber)
		}
	}

	overlays, err := s.treatments.QueryActiveOverlaysFor(ctx, orderIDs, orderNumbers)
	if err != nil {
		logger.Logger.Error("Treatment overlay query failed, merging without overlays",
			zap.Error(err),
		)
		metrics.RecordDegradedFetch(ctx, "treatment")
		return buildOverlayIndex(nil), false
	}

	return buildOverlayIndex(overlays), true
}

// merge 合并一行数仓订单和可能存在的工单叠加
func (s *AlertService) merge(order *model.DelayedOrder, overlay *model.TreatmentOverlay) dto.AlertItem {
	item := dto.AlertItem{
		OrderID:              order.OrderID,
		OrderNumber:          order.OrderNumber,
		OrderDate:            utils.NormalizeDate(order.OrderDate),
		ExpectedDeliveryDate: utils.NormalizeDate(order.ExpectedDeliveryDate),
		DaysDelayed:          order.DaysDelayed,
		TreatmentStatus:      string(model.TreatmentStatusPending),
		DeliveryStatus:       model.DeliveryStatusPending,
		TotalAmount:          order.TotalAmount.StringFixed(2),
	}

	// 无叠加时配送状态沿用数仓承运状态
	if order.CarrierStatus != nil && *order.CarrierStatus != "" {
		item.DeliveryStatus = *order.CarrierStatus
	}

	info := carrier.Extract(order.CarrierStatusPayload)
	item.Carrier = dto.CarrierInfo{
		Name:           info.Name,
		ShippingMethod: info.ShippingMethod,
	}
	if order.TrackingURL != nil {
		item.Carrier.TrackingURL = *order.TrackingURL
	}
	if order.CarrierStatus != nil {
		item.Carrier.LastUpdate = *order.CarrierStatus
	}

	rawPriority := priority.Absent()
	if overlay != nil {
		item.TreatmentID = strconv.FormatInt(overlay.TreatmentID, 10)
		item.TreatmentStatus = string(overlay.TreatmentStatus)
		if overlay.DeliveryStatus != "" {
			item.DeliveryStatus = overlay.DeliveryStatus
		}
		item.Carrier.Protocol = overlay.CarrierProtocol
		item.Treatment = dto.TreatmentInfo{
			Observations:    overlay.Observations,
			InternalNotes:   overlay.InternalNotes,
			CustomerContact: overlay.CustomerContact,
		}

		// 工单改期后数仓的 days_delayed 会滞后，以新截止日期重算
		if overlay.NewDeliveryDeadline != nil {
			item.ExpectedDeliveryDate = overlay.NewDeliveryDeadline.Format("2006-01-02")
			item.DaysDelayed = utils.DaysOverdue(*overlay.NewDeliveryDeadline, s.now())
		}

		rawPriority = priority.FromIntPtr(overlay.PriorityLevel)
	}

	item.Priority = string(priority.Normalize(rawPriority, item.DaysDelayed))

	return item
}

// publishAutoOpen 为无叠加的告警发首次曝光事件，消费端负责幂等开单
func (s *AlertService) publishAutoOpen(unmanaged []model.DelayedOrder) {
	if s.events == nil || !config.Cfg.AutoOpenEnabled {
		return
	}

	for i := range unmanaged {
		o := &unmanaged[i]
		if err := s.events.PublishTreatmentAutoOpen(o.OrderID, o.OrderNumber, o.DaysDelayed); err != nil {
			logger.Logger.Warn("Auto-open event publish failed",
				zap.String("order_id", o.OrderID),
				zap.Error(err),
			)
		}
	}
}
