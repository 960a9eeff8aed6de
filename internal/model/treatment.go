package model

import "time"

// TreatmentStatus 工单处理状态枚举
type TreatmentStatus string

const (
	TreatmentStatusPending         TreatmentStatus = "pending"          // 待处理
	TreatmentStatusOngoing         TreatmentStatus = "ongoing"          // 处理中
	TreatmentStatusWaitingCustomer TreatmentStatus = "waiting_customer" // 等客户回复
	TreatmentStatusWaitingCarrier  TreatmentStatus = "waiting_carrier"  // 等承运商回复
	TreatmentStatusWaitingStock    TreatmentStatus = "waiting_stock"    // 等补货
	TreatmentStatusRerouting       TreatmentStatus = "rerouting"        // 改线重发
	TreatmentStatusResolved        TreatmentStatus = "resolved"         // 已解决
	TreatmentStatusCancelled       TreatmentStatus = "cancelled"        // 已取消
)

// ValidTreatmentStatus 校验操作员提交的状态值
func ValidTreatmentStatus(s string) bool {
	switch TreatmentStatus(s) {
	case TreatmentStatusPending, TreatmentStatusOngoing,
		TreatmentStatusWaitingCustomer, TreatmentStatusWaitingCarrier,
		TreatmentStatusWaitingStock, TreatmentStatusRerouting,
		TreatmentStatusResolved, TreatmentStatusCancelled:
		return true
	}
	return false
}

// DeliveryStatus 配送状态词表，与数仓 carrier_status 相互独立
const (
	DeliveryStatusPending   = "pending"
	DeliveryStatusInTransit = "in_transit"
	DeliveryStatusDelayed   = "delayed"
	DeliveryStatusLost      = "lost"
	DeliveryStatusReturned  = "returned"
	DeliveryStatusDelivered = "delivered"
)

const (
	// SystemAuthor 系统自动开单使用的保留作者标识
	SystemAuthor = "sistema"
	// AutoOpenObservation 系统自动开单写入的备注哨兵值
	AutoOpenObservation = "Tratamento automático iniciado"
)

// Treatment 处理工单。order_id / order_number 至少一个有值，
// 上游两套系统对标识符的填充并不一致，匹配订单时两个都要试。
type Treatment struct {
	ID              int64              `gorm:"primaryKey" json:"id"` // snowflake
	OrderID         string             `gorm:"type:varchar(64);index:idx_treatments_order_id" json:"order_id"`
	OrderNumber     string             `gorm:"type:varchar(64);index:idx_treatments_order_number" json:"order_number"`
	CarrierProtocol string             `gorm:"type:varchar(128)" json:"carrier_protocol"`
	CustomerContact string             `gorm:"type:varchar(255)" json:"customer_contact"`
	CreatedAt       time.Time          `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt       time.Time          `gorm:"not null;default:now()" json:"updated_at"`
	Histories       []TreatmentHistory `gorm:"foreignKey:TreatmentID" json:"histories,omitempty"`
}

// TableName 指定表名
func (Treatment) TableName() string {
	return "treatments"
}

// TreatmentHistory 工单历史。每次变更追加一行，
// created_at 最新的一行即工单当前状态。
type TreatmentHistory struct {
	ID                  int64           `gorm:"primaryKey" json:"id"` // snowflake
	TreatmentID         int64           `gorm:"not null;index:idx_treatment_histories_treatment_created,priority:1" json:"treatment_id"`
	TreatmentStatus     TreatmentStatus `gorm:"type:varchar(32);not null;default:'pending'" json:"treatment_status"`
	DeliveryStatus      string          `gorm:"type:varchar(32)" json:"delivery_status"`
	PriorityLevel       *int            `gorm:"type:smallint" json:"priority_level,omitempty"` // 操作员 1~5，可缺省
	NewDeliveryDeadline *time.Time      `gorm:"type:date" json:"new_delivery_deadline,omitempty"`
	Observations        string          `gorm:"type:text" json:"observations"`
	InternalNotes       string          `gorm:"type:text" json:"internal_notes"`
	CustomerContact     string          `gorm:"type:varchar(255)" json:"customer_contact"`
	CreatedBy           string          `gorm:"type:varchar(64);not null" json:"created_by"`
	CreatedAt           time.Time       `gorm:"not null;default:now();index:idx_treatment_histories_treatment_created,priority:2,sort:desc" json:"created_at"`
}

// TableName 指定表名
func (TreatmentHistory) TableName() string {
	return "treatment_histories"
}
