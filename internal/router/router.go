package router

import (
	"github.com/cloudwego/hertz/pkg/app/server"

	"DelayWatch/internal/handler"
	"DelayWatch/internal/middleware"
)

func Register(h *server.Hertz) {

	h.Use(middleware.RecoverMiddleware())
	h.Use(middleware.CORSMiddleware())
	h.Use(middleware.OpenTelemetryMiddleware())

	v1 := h.Group("/v1")
	v1.Use(middleware.GeneralRateLimitMiddleware())

	// 告警列表与承运商目录，只读
	{
		v1.GET("/alerts", handler.ListAlerts)
		v1.GET("/carriers", handler.ListCarriers)
	}

	// 处理工单路由，写接口单独限流
	treatments := v1.Group("/treatments")
	{
		treatments.POST("", middleware.TreatmentWriteRateLimitMiddleware(), handler.CreateTreatment)
		treatments.GET("/:treatment_id", handler.GetTreatment)
		treatments.PATCH("/:treatment_id", middleware.TreatmentWriteRateLimitMiddleware(), handler.UpdateTreatment)
	}
}
