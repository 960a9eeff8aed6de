package model

import "github.com/shopspring/decimal"

// DelayedOrder 数仓延迟订单宽表的一行。
// 上游 ETL 负责写入和更新，对本服务完全只读；
// days_delayed 由数仓计算，存在工单改期时可能滞后。
type DelayedOrder struct {
	OrderID              string          `gorm:"column:order_id;primaryKey" json:"order_id"`
	OrderNumber          string          `gorm:"column:order_number" json:"order_number"`
	PurchaseOrderNumber  string          `gorm:"column:purchase_order_number" json:"purchase_order_number"`
	InvoiceID            string          `gorm:"column:invoice_id" json:"invoice_id"`
	OrderDate            string          `gorm:"column:order_date" json:"order_date"`                         // 自由格式日期串，格式混杂
	ExpectedDeliveryDate string          `gorm:"column:expected_delivery_date" json:"expected_delivery_date"` // 同上
	DaysDelayed          int             `gorm:"column:days_delayed" json:"days_delayed"`
	OrderStatus          string          `gorm:"column:order_status" json:"order_status"`
	CarrierStatus        *string         `gorm:"column:carrier_status" json:"carrier_status,omitempty"`
	CarrierStatusPayload *string         `gorm:"column:carrier_status_payload" json:"carrier_status_payload,omitempty"` // JSON 文本，可能为空或畸形
	TrackingURL          *string         `gorm:"column:tracking_url" json:"tracking_url,omitempty"`
	TrackingCode         *string         `gorm:"column:tracking_code" json:"tracking_code,omitempty"`
	CustomerPayload      *string         `gorm:"column:customer_payload" json:"customer_payload,omitempty"`
	TotalAmount          decimal.Decimal `gorm:"column:total_amount;type:numeric" json:"total_amount"`
}

// TableName 指定表名
func (DelayedOrder) TableName() string {
	return "delayed_orders"
}
