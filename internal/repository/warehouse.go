package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"DelayWatch/internal/model"
)

// 数仓只读访问。delayed_orders 是上游 ETL 的宽表，
// 所有过滤都走绑定参数。

// 数仓侧可下推的硬过滤
type DelayedOrderFilters struct {
	Search   string // 订单号 / PO / 发票号模糊搜，调用方已做字符剥离
	Carrier  string // 承运商名称子串（直接在 payload 文本上匹配）
	DateFrom *time.Time
	DateTo   *time.Time
	Limit    int
}

// 订单级终态：已送达 / 已取消不算延迟告警
var terminalOrderStatuses = []string{
	"Entregue",
	"Cancelado",
}

// 承运级终态。order_status 经常比 carrier_status 滞后，
// 两个字段都过滤才能补上来源系统不同步的窗口。
var terminalCarrierStatuses = []string{
	"Entregue",
	"Devolvido ao remetente",
	"Devolução concluída",
}

// 内部自提不是真实的配送延迟
var internalPickupMarkers = []string{
	"%retirada%",
	"%funcionario%",
	"%funcionário%",
}

// expected_delivery_date 是混杂格式文本，比较日期前先按
// ISO 或 DD/MM/YYYY 前缀转换，转不出来的行在启用日期过滤时排除
const expectedDeliveryDateExpr = `COALESCE(` +
	`to_date(substring(expected_delivery_date from '^\d{4}-\d{2}-\d{2}'), 'YYYY-MM-DD'),` +
	`to_date(substring(expected_delivery_date from '^\d{2}/\d{2}/\d{4}'), 'DD/MM/YYYY'))`

type WarehouseRepo struct {
	db *gorm.DB
}

func NewWarehouseRepo(db *gorm.DB) *WarehouseRepo {
	return &WarehouseRepo{db: db}
}

// QueryDelayedOrders 拉取延迟订单行，按拖延天数降序，封顶 Limit 条
func (r *WarehouseRepo) QueryDelayedOrders(ctx context.Context, f DelayedOrderFilters) ([]model.DelayedOrder, error) {
	q := r.db.WithContext(ctx).
		Model(&model.DelayedOrder{}).
		Where("order_status NOT IN ?", terminalOrderStatuses).
		Where("(carrier_status IS NULL OR carrier_status NOT IN ?)", terminalCarrierStatuses)

	for _, marker := range internalPickupMarkers {
		q = q.Where("(carrier_status_payload IS NULL OR carrier_status_payload NOT ILIKE ?)", marker)
	}

	if f.Search != "" {
		term := "%" + f.Search + "%"
		q = q.Where(
			"(order_id ILIKE ? OR order_number ILIKE ? OR purchase_order_number ILIKE ? OR invoice_id ILIKE ?)",
			term, term, term, term,
		)
	}

	if f.Carrier != "" {
		q = q.Where("carrier_status_payload ILIKE ?", "%"+f.Carrier+"%")
	}

	if f.DateFrom != nil {
		q = q.Where(expectedDeliveryDateExpr+" >= ?", f.DateFrom.Format("2006-01-02"))
	}
	if f.DateTo != nil {
		q = q.Where(expectedDeliveryDateExpr+" <= ?", f.DateTo.Format("2006-01-02"))
	}

	var orders []model.DelayedOrder
	err := q.Order("days_delayed DESC").
		Limit(f.Limit).
		Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query delayed orders: %w", err)
	}

	return orders, nil
}

// QueryDistinctCarrierPayloads 拉取去重后的承运 payload，
// 名称提取和清洗在服务层复用 carrier.Extract 完成
func (r *WarehouseRepo) QueryDistinctCarrierPayloads(ctx context.Context) ([]string, error) {
	var payloads []string
	err := r.db.WithContext(ctx).
		Model(&model.DelayedOrder{}).
		Distinct("carrier_status_payload").
		Where("carrier_status_payload IS NOT NULL").
		Pluck("carrier_status_payload", &payloads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct carrier payloads: %w", err)
	}

	return payloads, nil
}
