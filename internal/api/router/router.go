package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"fieldops/backend/config"
	"fieldops/backend/internal/api/handler"
	"fieldops/backend/internal/api/middleware"
	"fieldops/backend/internal/model"
	"fieldops/backend/pkg/jwt"
	"fieldops/backend/pkg/redis"
)

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(middleware.DefaultBodyLimit))

	// ── 健康检查 ──
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	adminOnly := middleware.RoleAuth(model.RoleSuperAdmin, model.RoleAdmin)
	adminOrHead := middleware.RoleAuth(model.RoleSuperAdmin, model.RoleAdmin, model.RoleDepartmentHead)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证，登录接口限流）
		auth := v1.Group("/auth")
		{
			auth.POST("/login", middleware.RateLimit(rdb, 10, time.Minute), h.Auth.Login)
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
			users := authorized.Group("/users", adminOnly)
			{
				users.GET("", h.User.ListUsers)
				users.GET("/:id", h.User.GetUser)
				users.POST("", h.User.CreateUser)
				users.PUT("/:id", h.User.UpdateUser)
				users.DELETE("/:id", h.User.DeleteUser)
				users.PUT("/:id/role", h.User.AssignRole)
			}

			// 部门与班组模块
			departments := authorized.Group("/departments")
			{
				departments.GET("", h.Department.ListDepartments)
				departments.GET("/:id", h.Department.GetDepartment)
				departments.POST("", adminOnly, h.Department.CreateDepartment)
				departments.PUT("/:id", adminOnly, h.Department.UpdateDepartment)
				departments.DELETE("/:id", adminOnly, h.Department.DeleteDepartment)
				departments.GET("/:id/teams", h.Department.ListTeams)
			}
			teams := authorized.Group("/teams")
			{
				teams.GET("/:id", h.Department.GetTeam)
				teams.POST("", adminOrHead, h.Department.CreateTeam)
				teams.PUT("/:id", adminOrHead, h.Department.UpdateTeam)
				teams.DELETE("/:id", adminOrHead, h.Department.DeleteTeam)
			}

			// 围栏区域模块
			zones := authorized.Group("/zones")
			{
				zones.GET("", h.Zone.ListZones)
				zones.GET("/:id", h.Zone.GetZone)
				zones.POST("", adminOrHead, h.Zone.CreateZone)
				zones.PUT("/:id", adminOrHead, h.Zone.UpdateZone)
				zones.DELETE("/:id", adminOrHead, h.Zone.DeleteZone)
			}

			// 题库模块
			pools := authorized.Group("/question-pools", adminOrHead)
			{
				pools.GET("", h.Question.ListPools)
				pools.GET("/:id", h.Question.GetPool)
				pools.POST("", h.Question.CreatePool)
				pools.PUT("/:id", h.Question.UpdatePool)
				pools.DELETE("/:id", h.Question.DeletePool)
				pools.POST("/:id/questions", h.Question.AddQuestion)
			}
			questions := authorized.Group("/questions", adminOrHead)
			{
				questions.PUT("/:id", h.Question.UpdateQuestion)
				questions.DELETE("/:id", h.Question.DeleteQuestion)
			}

			// 检查单模板模块
			templates := authorized.Group("/checklist-templates", adminOrHead)
			{
				templates.GET("", h.Template.ListTemplates)
				templates.GET("/:id", h.Template.GetTemplate)
				templates.POST("", h.Template.CreateTemplate)
				templates.PUT("/:id", h.Template.UpdateTemplate)
				templates.DELETE("/:id", h.Template.DeleteTemplate)
			}

			// 任务分配模块（管理侧）
			assignments := authorized.Group("/assignments", adminOrHead)
			{
				assignments.GET("", h.Checklist.ListAssignments)
				assignments.POST("", h.Checklist.CreateAssignment)
				assignments.DELETE("/:id", h.Checklist.DeleteAssignment)
				assignments.GET("/:id/submission", h.Checklist.GetAssignmentSubmission)
			}
			submissions := authorized.Group("/submissions", adminOrHead)
			{
				submissions.GET("/:id", h.Checklist.GetSubmission)
			}

			// 我的任务模块（执行侧）
			my := authorized.Group("/my/assignments")
			{
				my.GET("", h.Checklist.ListMyAssignments)
				my.GET("/:id", h.Checklist.GetMyAssignment)
				my.POST("/:id/start", h.Checklist.StartAssignment)
				my.POST("/:id/submit", h.Checklist.SubmitChecklist)
			}

			// 审计日志模块
			authorized.GET("/audit-logs", adminOnly, h.Audit.ListAuditLogs)

			// 导出模块
			export := authorized.Group("/export")
			{
				export.GET("/submissions", adminOrHead, h.Export.ExportSubmissions)
				export.GET("/calendar", h.Export.AssignmentCalendar)
			}
		}
	}

	return r
}
