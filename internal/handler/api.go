package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/habittracker/internal/analysis"
	"github.com/habittracker/internal/locale"
	"github.com/habittracker/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// API bundles shared dependencies for HTTP handlers.
type API struct {
	db        *gorm.DB
	habits    *service.HabitService
	checkOffs *service.CheckOffService
	analyzer  *analysis.Analyzer
	logger    *zap.Logger
	language  string
}

// NewAPI constructs a handler set with shared services.
// clock may be nil, language is the fallback when a request carries no preference.
func NewAPI(gdb *gorm.DB, logger *zap.Logger, clock service.Clock, language string) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = service.SystemClock
	}

	habits := service.NewHabitService(gdb, logger, clock)
	checkOffs := service.NewCheckOffService(gdb, logger, clock)

	return &API{
		db:        gdb,
		habits:    habits,
		checkOffs: checkOffs,
		analyzer:  analysis.NewAnalyzer(habits, checkOffs, clock, logger),
		logger:    logger.Named("http"),
		language:  locale.Resolve(language),
	}
}

// Ping 健康检查，顺带确认数据库连接可用
func (a *API) Ping(c *gin.Context) {
	sqlDB, err := a.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		a.logger.Error("Database ping failed", zap.Error(err))
		respondError(c, http.StatusServiceUnavailable, a.text(c, "database unavailable", "数据库不可用"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "pong"})
}
