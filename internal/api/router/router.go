package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sgms/backend/config"
	"sgms/backend/internal/api/handler"
	"sgms/backend/internal/api/middleware"
	"sgms/backend/pkg/jwt"
	"sgms/backend/pkg/redis"
)

// 登录/刷新接口的限流窗口，防止撞库
const (
	loginRateLimit  = 10
	loginRateWindow = time.Minute
	maxBodyBytes    = 1 << 20 // 1MB
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		auth.Use(middleware.RateLimit(rdb, loginRateLimit, loginRateWindow))
		{
			auth.POST("/login", h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb))
		{
			// 认证模块（需要认证）
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			// 用户模块
			users := authorized.Group("/users")
			{
				users.GET("", middleware.RoleAuth("manager", "owner"), h.User.ListUsers)
				users.GET("/:id", middleware.RoleAuth("manager", "owner"), h.User.GetUser)
				users.POST("", middleware.RoleAuth("owner"), h.User.CreateUser)
				users.PUT("/:id", middleware.RoleAuth("manager", "owner"), h.User.UpdateUser)
				users.DELETE("/:id", middleware.RoleAuth("owner"), h.User.DeactivateUser)
			}

			// 门店模块
			branches := authorized.Group("/branches")
			{
				branches.GET("", h.Branch.ListBranches)
				branches.GET("/:id", h.Branch.GetBranch)
				branches.POST("", middleware.RoleAuth("owner"), h.Branch.CreateBranch)
				branches.PUT("/:id", middleware.RoleAuth("owner"), h.Branch.UpdateBranch)
				branches.DELETE("/:id", middleware.RoleAuth("owner"), h.Branch.DeleteBranch)
			}

			// 班次模块
			shifts := authorized.Group("/shifts")
			{
				shifts.GET("", h.Shift.ListShifts)
				shifts.GET("/my", h.Shift.ListMyShifts)
				shifts.GET("/:id", h.Shift.GetShift)
				shifts.POST("", middleware.RoleAuth("manager", "owner"), h.Shift.CreateShift)
				shifts.PUT("/:id", middleware.RoleAuth("manager", "owner"), h.Shift.UpdateShift)
				shifts.POST("/:id/cancel", middleware.RoleAuth("manager", "owner"), h.Shift.CancelShift)
			}

			// 团课模块
			classSessions := authorized.Group("/class-sessions")
			{
				classSessions.GET("", h.ClassSession.ListClassSessions)
				classSessions.GET("/:id", h.ClassSession.GetClassSession)
				classSessions.POST("", middleware.RoleAuth("manager", "owner"), h.ClassSession.CreateClassSession)
				classSessions.PUT("/:id", middleware.RoleAuth("manager", "owner"), h.ClassSession.UpdateClassSession)
				classSessions.DELETE("/:id", middleware.RoleAuth("manager", "owner"), h.ClassSession.DeleteClassSession)
			}

			// 换班模块
			reschedules := authorized.Group("/reschedule-requests")
			{
				reschedules.POST("", h.Reschedule.CreateRequest)
				reschedules.GET("", middleware.RoleAuth("manager", "owner"), h.Reschedule.ListRequests)
				reschedules.GET("/open", h.Reschedule.ListOpenRequests)
				reschedules.GET("/my", h.Reschedule.ListMyRequests)
				reschedules.GET("/:id", h.Reschedule.GetRequest)
				reschedules.PUT("/:id", h.Reschedule.UpdateRequest)
				reschedules.POST("/:id/accept", h.Reschedule.AcceptRequest)
				reschedules.POST("/:id/approve", middleware.RoleAuth("manager", "owner"), h.Reschedule.ApproveRequest)
				reschedules.POST("/:id/reject", middleware.RoleAuth("manager", "owner"), h.Reschedule.RejectRequest)
				reschedules.POST("/:id/cancel", h.Reschedule.CancelRequest)
				reschedules.POST("/sweep-expired", middleware.RoleAuth("owner"), h.Reschedule.SweepExpired)
			}

			// 通知模块
			notifications := authorized.Group("/notifications")
			{
				notifications.GET("", h.Notification.ListMyNotifications)
				notifications.PUT("/:id/read", h.Notification.MarkNotificationRead)
				notifications.PUT("/read-all", h.Notification.MarkAllNotificationsRead)
			}

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/roster", middleware.RoleAuth("manager", "owner"), h.Export.ExportRoster)
				export.GET("/my-calendar", h.Export.ExportMyCalendar)
			}
		}
	}

	return r
}
