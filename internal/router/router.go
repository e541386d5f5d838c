package router

import (
	"github.com/gin-gonic/gin"
	"github.com/habittracker/internal/handler"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// SetupRouter 配置 Gin 引擎和路由
func SetupRouter(api *handler.API, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(logger.Named("access")), Metrics(), api.LocaleMiddleware())

	r.GET("/ping", api.Ping)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/report", api.ShowReport)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/habits", api.ListHabits)
		apiGroup.POST("/habits", api.CreateHabit)
		apiGroup.GET("/habits/:name", api.GetHabit)
		apiGroup.DELETE("/habits/:name", api.DeleteHabit)

		apiGroup.GET("/habits/:name/checkoffs", api.ListCheckOffs)
		apiGroup.POST("/habits/:name/checkoffs", api.RecordCheckOff)
		apiGroup.GET("/habits/:name/periods", api.GetHabitPeriods)
		apiGroup.GET("/habits/:name/summary", api.GetHabitSummary)

		apiGroup.GET("/stats/longest-streak", api.GetLongestStreak)
		apiGroup.GET("/stats/resets", api.GetResets)
	}

	return r
}
