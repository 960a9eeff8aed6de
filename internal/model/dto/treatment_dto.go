package dto

// CreateTreatmentRequest 开单请求，order_id / order_number 至少填一个
type CreateTreatmentRequest struct {
	OrderID         string `json:"order_id"`
	OrderNumber     string `json:"order_number"`
	CarrierProtocol string `json:"carrier_protocol"`
	CustomerContact string `json:"customer_contact"`
	Observations    string `json:"observations"`
	PriorityLevel   *int   `json:"priority_level,omitempty"`
	CreatedBy       string `json:"created_by"`
}

// UpdateTreatmentRequest 追加一条工单历史
type UpdateTreatmentRequest struct {
	TreatmentStatus     string `json:"treatment_status"`
	DeliveryStatus      string `json:"delivery_status"`
	PriorityLevel       *int   `json:"priority_level,omitempty"`
	NewDeliveryDeadline string `json:"new_delivery_deadline"` // DD/MM/YYYY 或 ISO
	Observations        string `json:"observations"`
	InternalNotes       string `json:"internal_notes"`
	CustomerContact     string `json:"customer_contact"`
	CreatedBy           string `json:"created_by"`
}

// TreatmentDetail 工单当前状态（最新历史行）
type TreatmentDetail struct {
	TreatmentID         string `json:"treatment_id"`
	OrderID             string `json:"order_id"`
	OrderNumber         string `json:"order_number"`
	TreatmentStatus     string `json:"treatment_status"`
	DeliveryStatus      string `json:"delivery_status"`
	PriorityLevel       *int   `json:"priority_level,omitempty"`
	NewDeliveryDeadline string `json:"new_delivery_deadline,omitempty"`
	CarrierProtocol     string `json:"carrier_protocol,omitempty"`
	Observations        string `json:"observations,omitempty"`
	InternalNotes       string `json:"internal_notes,omitempty"`
	CustomerContact     string `json:"customer_contact,omitempty"`
	CreatedAt           string `json:"created_at"`
	UpdatedAt           string `json:"updated_at"`
}
