package errors

func (d Definition) Error() string {
	return d.Message
}

// Definition 表示业务错误码及默认信息。
type Definition struct {
	Code    string
	Message string
}

// 告警查询相关错误。
var (
	InvalidAlertFilter   = Definition{Code: "INVALID_ALERT_FILTER", Message: "Invalid alert filter"}
	InvalidPriorityValue = Definition{Code: "INVALID_PRIORITY_VALUE", Message: "Invalid priority value"}
	InvalidDateRange     = Definition{Code: "INVALID_DATE_RANGE", Message: "Invalid date range"}
)

// 处理工单模块错误。
var (
	TreatmentNotFound      = Definition{Code: "TREATMENT_NOT_FOUND", Message: "Treatment not found"}
	TreatmentAlreadyExists = Definition{Code: "TREATMENT_ALREADY_EXISTS", Message: "Treatment already exists for order"}
	TreatmentStatusInvalid = Definition{Code: "TREATMENT_STATUS_INVALID", Message: "Invalid treatment status"}
	TreatmentOrderRequired = Definition{Code: "TREATMENT_ORDER_REQUIRED", Message: "Order id or order number is required"}
)

// 通用错误。
var (
	TooManyRequests = Definition{Code: "TOO_MANY_REQUESTS", Message: "Too many requests"}
)

// Lookup 提供错误码查询能力。
var Lookup = map[string]Definition{
	InvalidAlertFilter.Code:     InvalidAlertFilter,
	InvalidPriorityValue.Code:   InvalidPriorityValue,
	InvalidDateRange.Code:       InvalidDateRange,
	TreatmentNotFound.Code:      TreatmentNotFound,
	TreatmentAlreadyExists.Code: TreatmentAlreadyExists,
	TreatmentStatusInvalid.Code: TreatmentStatusInvalid,
	TreatmentOrderRequired.Code: TreatmentOrderRequired,
	TooManyRequests.Code:        TooManyRequests,
}

// Get 根据错误码返回 Definition，若不存在则返回空 Definition。
func Get(code string) Definition {
	if def, ok := Lookup[code]; ok {
		return def
	}
	return Definition{Code: code, Message: "Unexpected error"}
}
