package model

import "time"

// TreatmentOverlay 工单叠加行：treatments 和最新一条 treatment_histories
// 拍平后的查询结果，告警合并时覆盖数仓字段用。
type TreatmentOverlay struct {
	TreatmentID         int64           `json:"treatment_id"`
	OrderID             string          `json:"order_id"`
	OrderNumber         string          `json:"order_number"`
	TreatmentStatus     TreatmentStatus `json:"treatment_status"`
	DeliveryStatus      string          `json:"delivery_status"`
	PriorityLevel       *int            `json:"priority_level,omitempty"`
	NewDeliveryDeadline *time.Time      `json:"new_delivery_deadline,omitempty"`
	CarrierProtocol     string          `json:"carrier_protocol"`
	Observations        string          `json:"observations"`
	InternalNotes       string          `json:"internal_notes"`
	CustomerContact     string          `json:"customer_contact"`
	HumanTouched        bool            `json:"human_touched"` // 是否存在非系统作者的历史记录
	UpdatedAt           time.Time       `json:"updated_at"`    // 最新历史行的 created_at
}

// Active 判断叠加是否生效。
// resolved 之外的状态一律生效；已 resolved 但属于系统自动开单
// 且从未被人工动过的工单，按仍待处理对待（保留自线上观察到的行为，
// 改动前需要产品确认，见 DESIGN.md）。
func (o *TreatmentOverlay) Active() bool {
	if o.TreatmentStatus != TreatmentStatusResolved {
		return true
	}

	return o.Observations == AutoOpenObservation && !o.HumanTouched
}
