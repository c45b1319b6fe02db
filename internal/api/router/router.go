package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/giodelapiedra/AEGIRA-V4-sub001/config"
	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/api/handler"
	"github.com/giodelapiedra/AEGIRA-V4-sub001/internal/api/middleware"
	"github.com/giodelapiedra/AEGIRA-V4-sub001/pkg/jwt"
	"github.com/giodelapiedra/AEGIRA-V4-sub001/pkg/redis"
	"github.com/giodelapiedra/AEGIRA-V4-sub001/pkg/response"
)

const codeRouteNotFound = 10006

// RoleAdmin is the token role allowed to manage holidays.
const RoleAdmin = "ADMIN"

// Setup builds the Gin engine. rdb may be nil.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	if err := handler.RegisterValidators(); err != nil {
		return nil, err
	}

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes))

	// ── health ──
	r.GET("/health", healthHandler(db, rdb))

	// a nil *redis.Client must not become a non-nil interface
	var limiter middleware.RateLimiter
	if rdb != nil {
		limiter = rdb
	}

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	v1.Use(middleware.JWTAuth(jwtMgr))
	{
		checkIns := v1.Group("/check-ins")
		{
			checkIns.POST("",
				middleware.RateLimit(limiter, cfg.CheckIn.SubmitRateLimit, cfg.CheckIn.SubmitRateWindow),
				h.CheckIn.Submit)
			checkIns.GET("/status", h.CheckIn.GetStatus)
			checkIns.GET("/today", h.CheckIn.GetToday)
			checkIns.GET("/history", h.CheckIn.ListHistory)
		}

		holidays := v1.Group("/holidays")
		{
			holidays.GET("", h.Holiday.ListHolidays)
			holidays.POST("", middleware.RoleAuth(RoleAdmin), h.Holiday.CreateHoliday)
			holidays.DELETE("/:id", middleware.RoleAuth(RoleAdmin), h.Holiday.DeleteHoliday)
			holidays.POST("/import", middleware.RoleAuth(RoleAdmin), h.Holiday.ImportHolidays)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, codeRouteNotFound, "route not found")
	})

	return r, nil
}

func healthHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"status": "ok", "database": "ok", "redis": "disabled"}
		code := http.StatusOK

		if db != nil {
			sqlDB, err := db.DB()
			if err == nil {
				err = sqlDB.PingContext(ctx)
			}
			if err != nil {
				status["status"] = "degraded"
				status["database"] = "down"
				code = http.StatusServiceUnavailable
			}
		}
		if rdb != nil {
			status["redis"] = "ok"
			if err := rdb.Ping(ctx); err != nil {
				status["redis"] = "down"
			}
		}

		c.JSON(code, status)
	}
}
