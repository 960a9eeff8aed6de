package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"DelayWatch/internal/cache"
	"DelayWatch/internal/model"
	"DelayWatch/internal/model/dto"
	"DelayWatch/internal/repository"
	"DelayWatch/pkg/errors"
	"DelayWatch/pkg/logger"
	"DelayWatch/pkg/snowflake"
	"DelayWatch/storage/database"
	"DelayWatch/utils"
)

// 处理工单服务。所有写路径结束后把告警缓存命名空间整体失效，
// 操作员不用等 TTL 到期就能在列表里看到变更。

type TreatmentService struct {
	treatments TreatmentStore
	cache      CacheStore
	nextID     func() (int64, error)
}

var (
	treatmentService *TreatmentService
	treatmentOnce    sync.Once
)

// Treatment 返回处理工单服务单例
func Treatment() *TreatmentService {
	treatmentOnce.Do(func() {
		treatmentService = NewTreatmentService(
			repository.NewTreatmentRepo(database.Treatment()),
			cache.NewRedisStore(),
		)
	})
	return treatmentService
}

func NewTreatmentService(treatments TreatmentStore, cacheStore CacheStore) *TreatmentService {
	return &TreatmentService{
		treatments: treatments,
		cache:      cacheStore,
		nextID:     snowflake.NextID,
	}
}

// Create 操作员手工开单。同一订单已有生效工单时拒绝。
func (s *TreatmentService) Create(ctx context.Context, req dto.CreateTreatmentRequest) (*dto.TreatmentDetail, error) {
	if req.OrderID == "" && req.OrderNumber == "" {
		return nil, errors.TreatmentOrderRequired
	}

	active, err := s.hasActiveTreatment(ctx, req.OrderID, req.OrderNumber)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, errors.TreatmentAlreadyExists
	}

	treatmentID, err := s.nextID()
	if err != nil {
		return nil, err
	}
	historyID, err := s.nextID()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	t := &model.Treatment{
		ID:              treatmentID,
		OrderID:         req.OrderID,
		OrderNumber:     req.OrderNumber,
		CarrierProtocol: req.CarrierProtocol,
		CustomerContact: req.CustomerContact,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	first := &model.TreatmentHistory{
		ID:              historyID,
		TreatmentStatus: model.TreatmentStatusPending,
		DeliveryStatus:  model.DeliveryStatusDelayed,
		PriorityLevel:   req.PriorityLevel,
		Observations:    req.Observations,
		CustomerContact: req.CustomerContact,
		CreatedBy:       req.CreatedBy,
		CreatedAt:       now,
	}

	if err := s.treatments.CreateTreatment(ctx, t, first); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.AlertNamespace)

	logger.Logger.Info("Treatment created",
		zap.Int64("treatment_id", treatmentID),
		zap.String("order_id", req.OrderID),
		zap.String("order_number", req.OrderNumber),
		zap.String("created_by", req.CreatedBy),
	)

	return buildDetail(t, first), nil
}

// Update 追加一条工单历史，最新一条即工单当前状态
func (s *TreatmentService) Update(ctx context.Context, id int64, req dto.UpdateTreatmentRequest) (*dto.TreatmentDetail, error) {
	if !model.ValidTreatmentStatus(req.TreatmentStatus) {
		return nil, errors.TreatmentStatusInvalid
	}

	t, _, err := s.treatments.GetTreatment(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.TreatmentNotFound
		}
		return nil, err
	}

	var deadline *time.Time
	if req.NewDeliveryDeadline != "" {
		parsed, ok := utils.ParseFlexibleDate(req.NewDeliveryDeadline)
		if !ok {
			return nil, errors.InvalidDateRange
		}
		deadline = &parsed
	}

	historyID, err := s.nextID()
	if err != nil {
		return nil, err
	}

	h := &model.TreatmentHistory{
		ID:                  historyID,
		TreatmentID:         t.ID,
		TreatmentStatus:     model.TreatmentStatus(req.TreatmentStatus),
		DeliveryStatus:      req.DeliveryStatus,
		PriorityLevel:       req.PriorityLevel,
		NewDeliveryDeadline: deadline,
		Observations:        req.Observations,
		InternalNotes:       req.InternalNotes,
		CustomerContact:     req.CustomerContact,
		CreatedBy:           req.CreatedBy,
		CreatedAt:           time.Now(),
	}

	if err := s.treatments.AppendHistory(ctx, h); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, cache.AlertNamespace)

	logger.Logger.Info("Treatment updated",
		zap.Int64("treatment_id", t.ID),
		zap.String("treatment_status", req.TreatmentStatus),
		zap.String("created_by", req.CreatedBy),
	)

	return buildDetail(t, h), nil
}

// Get 返回工单当前状态
func (s *TreatmentService) Get(ctx context.Context, id int64) (*dto.TreatmentDetail, error) {
	t, h, err := s.treatments.GetTreatment(ctx, id)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.TreatmentNotFound
		}
		return nil, err
	}

	return buildDetail(t, h), nil
}

// AutoOpen 系统自动开单，消息可能重投，按订单幂等。
// 已有生效工单时静默跳过。
func (s *TreatmentService) AutoOpen(ctx context.Context, orderID, orderNumber string, daysDelayed int) error {
	if orderID == "" && orderNumber == "" {
		return errors.TreatmentOrderRequired
	}

	active, err := s.hasActiveTreatment(ctx, orderID, orderNumber)
	if err != nil {
		return err
	}
	if active {
		logger.Logger.Debug("Auto-open skipped, order already has an active treatment",
			zap.String("order_id", orderID),
			zap.String("order_number", orderNumber),
		)
		return nil
	}

	treatmentID, err := s.nextID()
	if err != nil {
		return err
	}
	historyID, err := s.nextID()
	if err != nil {
		return err
	}

	now := time.Now()
	t := &model.Treatment{
		ID:          treatmentID,
		OrderID:     orderID,
		OrderNumber: orderNumber,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	first := &model.TreatmentHistory{
		ID:              historyID,
		TreatmentStatus: model.TreatmentStatusPending,
		DeliveryStatus:  model.DeliveryStatusDelayed,
		Observations:    model.AutoOpenObservation,
		CreatedBy:       model.SystemAuthor,
		CreatedAt:       now,
	}

	if err := s.treatments.CreateTreatment(ctx, t, first); err != nil {
		return err
	}

	s.cache.Invalidate(ctx, cache.AlertNamespace)

	logger.Logger.Info("Treatment auto-opened",
		zap.Int64("treatment_id", treatmentID),
		zap.String("order_id", orderID),
		zap.String("order_number", orderNumber),
		zap.Int("days_delayed", daysDelayed),
	)

	return nil
}

// hasActiveTreatment 复用叠加生效判断，开单幂等和重复校验共用
func (s *TreatmentService) hasActiveTreatment(ctx context.Context, orderID, orderNumber string) (bool, error) {
	var orderIDs, orderNumbers []string
	if orderID != "" {
		orderIDs = append(orderIDs, orderID)
	}
	if orderNumber != "" {
		orderNumbers = append(orderNumbers, orderNumber)
	}

	overlays, err := s.treatments.QueryActiveOverlaysFor(ctx, orderIDs, orderNumbers)
	if err != nil {
		return false, err
	}

	return len(overlays) > 0, nil
}

func buildDetail(t *model.Treatment, h *model.TreatmentHistory) *dto.TreatmentDetail {
	detail := &dto.TreatmentDetail{
		TreatmentID:     strconv.FormatInt(t.ID, 10),
		OrderID:         t.OrderID,
		OrderNumber:     t.OrderNumber,
		TreatmentStatus: string(model.TreatmentStatusPending),
		CarrierProtocol: t.CarrierProtocol,
		CustomerContact: t.CustomerContact,
		CreatedAt:       t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       t.UpdatedAt.Format(time.RFC3339),
	}

	if h != nil {
		detail.TreatmentStatus = string(h.TreatmentStatus)
		detail.DeliveryStatus = h.DeliveryStatus
		detail.PriorityLevel = h.PriorityLevel
		detail.Observations = h.Observations
		detail.InternalNotes = h.InternalNotes
		if h.CustomerContact != "" {
			detail.CustomerContact = h.CustomerContact
		}
		if h.NewDeliveryDeadline != nil {
			detail.NewDeliveryDeadline = h.NewDeliveryDeadline.Format("2006-01-02")
		}
		detail.UpdatedAt = h.CreatedAt.Format(time.RFC3339)
	}

	return detail
}
