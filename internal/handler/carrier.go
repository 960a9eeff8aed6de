package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"

	"DelayWatch/internal/service"
	"DelayWatch/pkg/response"
)

// ListCarriers 承运商目录，前端过滤下拉用
// GET /v1/carriers
func ListCarriers(ctx context.Context, c *app.RequestContext) {
	names, err := service.Carrier().ListCarriers(ctx)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, names)
}
