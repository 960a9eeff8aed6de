package dto

// AlertFilters 告警列表过滤参数，全部可选。
// 组装缓存键前会做空值剥离，见 internal/cache。
type AlertFilters struct {
	Search   string `query:"search" json:"search,omitempty"`     // 按订单号 / PO / 发票号模糊搜
	Carrier  string `query:"carrier" json:"carrier,omitempty"`   // 承运商名称子串
	Status   string `query:"status" json:"status,omitempty"`     // 工单处理状态（合并后字段，内存过滤）
	Priority string `query:"priority" json:"priority,omitempty"` // low/medium/high/critical（合并后字段，内存过滤）
	DateFrom string `query:"date_from" json:"date_from,omitempty"`
	DateTo   string `query:"date_to" json:"date_to,omitempty"`
}

// CarrierInfo 合并后的承运信息。name/shipping_method 始终来自数仓
// 承运 payload，工单只补充 protocol。
type CarrierInfo struct {
	Name           string `json:"name"`
	Protocol       string `json:"protocol,omitempty"`
	TrackingURL    string `json:"tracking_url,omitempty"`
	ShippingMethod string `json:"shipping_method"`
	LastUpdate     string `json:"last_update,omitempty"`
}

// TreatmentInfo 合并后的工单备注信息
type TreatmentInfo struct {
	Observations    string `json:"observations,omitempty"`
	InternalNotes   string `json:"internal_notes,omitempty"`
	CustomerContact string `json:"customer_contact,omitempty"`
}

// AlertItem 合并产物：数仓延迟订单 + 可能存在的生效工单叠加。
// 按请求 / 缓存填充临时计算，从不落库。
type AlertItem struct {
	OrderID              string        `json:"order_id"`
	OrderNumber          string        `json:"order_number"`
	OrderDate            string        `json:"order_date"`
	ExpectedDeliveryDate string        `json:"expected_delivery_date"`
	DaysDelayed          int           `json:"days_delayed"`
	Priority             string        `json:"priority"`
	TreatmentID          string        `json:"treatment_id,omitempty"`
	TreatmentStatus      string        `json:"treatment_status"`
	DeliveryStatus       string        `json:"delivery_status"`
	TotalAmount          string        `json:"total_amount"`
	Carrier              CarrierInfo   `json:"carrier"`
	Treatment            TreatmentInfo `json:"treatment"`
}
