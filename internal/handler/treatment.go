package handler

import (
	"context"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"

	"DelayWatch/internal/model/dto"
	"DelayWatch/internal/service"
	"DelayWatch/pkg/errors"
	"DelayWatch/pkg/response"
)

// CreateTreatment 操作员手工开单
// POST /v1/treatments
func CreateTreatment(ctx context.Context, c *app.RequestContext) {
	var req dto.CreateTreatmentRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	detail, err := service.Treatment().Create(ctx, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, detail)
}

// UpdateTreatment 追加一条工单历史
// PATCH /v1/treatments/:treatment_id
func UpdateTreatment(ctx context.Context, c *app.RequestContext) {
	id, ok := treatmentID(c)
	if !ok {
		response.Error(ctx, c, errors.TreatmentNotFound)
		return
	}

	var req dto.UpdateTreatmentRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	detail, err := service.Treatment().Update(ctx, id, req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, detail)
}

// GetTreatment 工单当前状态
// GET /v1/treatments/:treatment_id
func GetTreatment(ctx context.Context, c *app.RequestContext) {
	id, ok := treatmentID(c)
	if !ok {
		response.Error(ctx, c, errors.TreatmentNotFound)
		return
	}

	detail, err := service.Treatment().Get(ctx, id)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, detail)
}

func treatmentID(c *app.RequestContext) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("treatment_id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
