package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"DelayWatch/internal/model"
)

// 处理工单事务库访问。工单状态永远以 treatment_histories 里
// created_at 最新的一行为准，这里负责把 treatments + 最新历史
// 拍平成 TreatmentOverlay。

type TreatmentRepo struct {
	db *gorm.DB
}

func NewTreatmentRepo(db *gorm.DB) *TreatmentRepo {
	return &TreatmentRepo{db: db}
}

// QueryActiveOverlaysFor 按候选标识符批量拉取生效工单叠加。
// orderIDs 和 orderNumbers 是同一批订单的两个标识符空间，
// 上游对填充哪个并不一致，两个都查。
// 返回行按工单创建时间降序；已关闭（resolved 且被人工动过）的叠加不返回。
func (r *TreatmentRepo) QueryActiveOverlaysFor(ctx context.Context, orderIDs, orderNumbers []string) ([]model.TreatmentOverlay, error) {
	if len(orderIDs) == 0 && len(orderNumbers) == 0 {
		return nil, nil
	}

	var treatments []model.Treatment
	err := r.db.WithContext(ctx).
		Where("order_id IN ? OR order_number IN ?", orderIDs, orderNumbers).
		Order("created_at DESC").
		Find(&treatments).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query treatments: %w", err)
	}

	if len(treatments) == 0 {
		return nil, nil
	}

	treatmentIDs := make([]int64, 0, len(treatments))
	for _, t := range treatments {
		treatmentIDs = append(treatmentIDs, t.ID)
	}

	var histories []model.TreatmentHistory
	err = r.db.WithContext(ctx).
		Where("treatment_id IN ?", treatmentIDs).
		Order("created_at DESC, id DESC").
		Find(&histories).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query treatment histories: %w", err)
	}

	latest := make(map[int64]*model.TreatmentHistory, len(treatments))
	humanTouched := make(map[int64]bool, len(treatments))
	for i := range histories {
		h := &histories[i]
		if _, ok := latest[h.TreatmentID]; !ok {
			latest[h.TreatmentID] = h
		}
		if h.CreatedBy != model.SystemAuthor {
			humanTouched[h.TreatmentID] = true
		}
	}

	overlays := make([]model.TreatmentOverlay, 0, len(treatments))
	for _, t := range treatments {
		h, ok := latest[t.ID]
		if !ok {
			continue // 无历史的工单不构成叠加
		}

		overlay := model.TreatmentOverlay{
			TreatmentID:         t.ID,
			OrderID:             t.OrderID,
			OrderNumber:         t.OrderNumber,
			TreatmentStatus:     h.TreatmentStatus,
			DeliveryStatus:      h.DeliveryStatus,
			PriorityLevel:       h.PriorityLevel,
			NewDeliveryDeadline: h.NewDeliveryDeadline,
			CarrierProtocol:     t.CarrierProtocol,
			Observations:        h.Observations,
			InternalNotes:       h.InternalNotes,
			CustomerContact:     h.CustomerContact,
			HumanTouched:        humanTouched[t.ID],
			UpdatedAt:           h.CreatedAt,
		}

		if !overlay.Active() {
			continue
		}

		overlays = append(overlays, overlay)
	}

	return overlays, nil
}

// CreateTreatment 建单并写入首条历史，同一事务
func (r *TreatmentRepo) CreateTreatment(ctx context.Context, t *model.Treatment, first *model.TreatmentHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(t).Error; err != nil {
			return fmt.Errorf("failed to create treatment: %w", err)
		}

		first.TreatmentID = t.ID
		if err := tx.Create(first).Error; err != nil {
			return fmt.Errorf("failed to create treatment history: %w", err)
		}

		return nil
	})
}

// AppendHistory 追加一条工单历史
func (r *TreatmentRepo) AppendHistory(ctx context.Context, h *model.TreatmentHistory) error {
	if err := r.db.WithContext(ctx).Create(h).Error; err != nil {
		return fmt.Errorf("failed to append treatment history: %w", err)
	}
	return nil
}

// GetTreatment 取工单及其最新历史
func (r *TreatmentRepo) GetTreatment(ctx context.Context, id int64) (*model.Treatment, *model.TreatmentHistory, error) {
	var t model.Treatment
	if err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("failed to get treatment: %w", err)
	}

	var h model.TreatmentHistory
	err := r.db.WithContext(ctx).
		Where("treatment_id = ?", id).
		Order("created_at DESC, id DESC").
		First(&h).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, nil, fmt.Errorf("failed to get latest treatment history: %w", err)
	}
	if err == gorm.ErrRecordNotFound {
		return &t, nil, nil
	}

	return &t, &h, nil
}

// FindByOrder 按任一业务标识符找工单，自动开单幂等判断用
func (r *TreatmentRepo) FindByOrder(ctx context.Context, orderID, orderNumber string) (*model.Treatment, error) {
	q := r.db.WithContext(ctx)

	switch {
	case orderID != "" && orderNumber != "":
		q = q.Where("order_id = ? OR order_number = ?", orderID, orderNumber)
	case orderID != "":
		q = q.Where("order_id = ?", orderID)
	case orderNumber != "":
		q = q.Where("order_number = ?", orderNumber)
	default:
		return nil, nil
	}

	var t model.Treatment
	err := q.Order("created_at DESC").First(&t).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find treatment by order: %w", err)
	}

	return &t, nil
}
