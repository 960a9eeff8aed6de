package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"DelayWatch/internal/model/dto"
	"DelayWatch/internal/service"
	"DelayWatch/pkg/response"
)

// ListAlerts 延迟订单告警列表
// GET /v1/alerts
func ListAlerts(ctx context.Context, c *app.RequestContext) {
	var filters dto.AlertFilters
	if err := c.Bind(&filters); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	items, err := service.Alert().ListAlerts(ctx, filters)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.SuccessWithMeta(ctx, c, items, map[string]interface{}{
		"count": len(items),
	})
}
