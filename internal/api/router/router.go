package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"prefect-crm/config"
	"prefect-crm/internal/api/handler"
	"prefect-crm/internal/api/middleware"
	"prefect-crm/pkg/jwt"
	"prefect-crm/pkg/redis"
)

// 业务角色名，与 roles 表中的名称一致
const (
	RoleAdmin   = "admin"
	RoleSales   = "sales"
	RoleTeacher = "teacher"
)

// DBPinger 数据库连通性检查，由 repository.Repository 实现
type DBPinger interface {
	Ping(ctx context.Context) error
}

// Setup 初始化并返回 Gin 路由引擎
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db DBPinger, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	middleware.SetupValidator()

	r := gin.New()

	// ── 全局中间件 ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes, cfg.Server.UploadMaxBytes))

	// ── 健康检查 ──
	r.GET("/health", healthCheck(db, rdb))

	adminOnly := middleware.RoleAuth(RoleAdmin)
	salesWrite := middleware.RoleAuth(RoleAdmin, RoleSales)
	teachWrite := middleware.RoleAuth(RoleAdmin, RoleTeacher)

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		// 认证模块（无需认证）
		auth := v1.Group("/auth")
		{
			auth.POST("/login",
				middleware.RateLimit(rdb, cfg.Auth.LoginRateLimit, cfg.Auth.LoginRateWindow, logger),
				h.Auth.Login)
			auth.POST("/refresh", h.Auth.RefreshToken)
		}

		// 需要认证的路由
		authorized := v1.Group("")
		authorized.Use(middleware.JWTAuth(jwtMgr, rdb, logger))
		{
			authorized.POST("/auth/logout", h.Auth.Logout)
			authorized.GET("/auth/me", h.Auth.GetCurrentUser)
			authorized.GET("/auth/menus", h.Auth.GetMenus)
			authorized.PUT("/auth/password", h.Auth.ChangePassword)

			authorized.GET("/meta/choices", h.Meta.GetChoices)

			// 账号模块
			profiles := authorized.Group("/profiles", adminOnly)
			{
				profiles.GET("", h.Profile.ListProfiles)
				profiles.POST("", h.Profile.CreateProfile)
				profiles.GET("/:id", h.Profile.GetProfile)
				profiles.PUT("/:id", h.Profile.UpdateProfile)
				profiles.PUT("/:id/roles", h.Profile.AssignRoles)
				profiles.DELETE("/:id", h.Profile.DeleteProfile)
			}

			// 角色与菜单
			roles := authorized.Group("/roles", adminOnly)
			{
				roles.GET("", h.Role.ListRoles)
				roles.POST("", h.Role.CreateRole)
				roles.GET("/:id", h.Role.GetRole)
				roles.PUT("/:id", h.Role.UpdateRole)
				roles.PUT("/:id/menus", h.Role.SetMenus)
				roles.DELETE("/:id", h.Role.DeleteRole)
			}
			menus := authorized.Group("/menus", adminOnly)
			{
				menus.GET("", h.Role.ListMenus)
				menus.POST("", h.Role.CreateMenu)
				menus.PUT("/:id", h.Role.UpdateMenu)
				menus.DELETE("/:id", h.Role.DeleteMenu)
			}

			// 标签
			tags := authorized.Group("/tags")
			{
				tags.GET("", h.Tag.ListTags)
				tags.POST("", salesWrite, h.Tag.CreateTag)
				tags.DELETE("/:id", salesWrite, h.Tag.DeleteTag)
			}

			// 客户模块（销售）
			customers := authorized.Group("/customers", salesWrite)
			{
				customers.GET("", h.Customer.ListCustomers)
				customers.POST("", h.Customer.CreateCustomer)
				customers.POST("/import", h.Customer.ImportCustomers)
				customers.GET("/export", h.Customer.ExportCustomers)
				customers.GET("/:id", h.Customer.GetCustomer)
				customers.PUT("/:id", h.Customer.UpdateCustomer)
				customers.PUT("/:id/tags", h.Customer.SetTags)
				customers.DELETE("/:id", h.Customer.DeleteCustomer)
				customers.GET("/:id/follow-ups", h.Customer.ListFollowUps)
				customers.POST("/:id/follow-ups", h.Customer.AddFollowUp)
			}

			// 课程与校区
			courses := authorized.Group("/courses")
			{
				courses.GET("", h.Catalog.ListCourses)
				courses.GET("/:id", h.Catalog.GetCourse)
				courses.POST("", adminOnly, h.Catalog.CreateCourse)
				courses.PUT("/:id", adminOnly, h.Catalog.UpdateCourse)
				courses.DELETE("/:id", adminOnly, h.Catalog.DeleteCourse)
			}
			branches := authorized.Group("/branches")
			{
				branches.GET("", h.Catalog.ListBranches)
				branches.GET("/:id", h.Catalog.GetBranch)
				branches.POST("", adminOnly, h.Catalog.CreateBranch)
				branches.PUT("/:id", adminOnly, h.Catalog.UpdateBranch)
				branches.DELETE("/:id", adminOnly, h.Catalog.DeleteBranch)
			}

			// 班级模块
			classes := authorized.Group("/classes")
			{
				classes.GET("", h.Class.ListClasses)
				classes.GET("/:id", h.Class.GetClass)
				classes.GET("/:id/course-records", h.Class.ListCourseRecords)
				classes.GET("/:id/calendar.ics", h.Class.ExportCalendar)
				classes.GET("/:id/score-sheet", teachWrite, h.StudyRecord.ExportScoreSheet)
				classes.POST("", adminOnly, h.Class.CreateClass)
				classes.PUT("/:id", adminOnly, h.Class.UpdateClass)
				classes.PUT("/:id/teachers", adminOnly, h.Class.SetTeachers)
				classes.DELETE("/:id", adminOnly, h.Class.DeleteClass)
			}

			// 上课记录（讲师）
			records := authorized.Group("/course-records")
			{
				records.GET("/:id", h.Class.GetCourseRecord)
				records.POST("", teachWrite, h.Class.CreateCourseRecord)
				records.PUT("/:id", teachWrite, h.Class.UpdateCourseRecord)
				records.DELETE("/:id", teachWrite, h.Class.DeleteCourseRecord)
				records.POST("/:id/init-study-records", teachWrite, h.Class.InitStudyRecords)
			}

			// 报名（销售）
			enrollments := authorized.Group("/enrollments")
			{
				enrollments.GET("", salesWrite, h.Enrollment.ListEnrollments)
				enrollments.GET("/:id", salesWrite, h.Enrollment.GetEnrollment)
				enrollments.GET("/:id/summary", middleware.RoleAuth(RoleAdmin, RoleSales, RoleTeacher), h.StudyRecord.GetSummary)
				enrollments.POST("", salesWrite, h.Enrollment.CreateEnrollment)
				enrollments.POST("/:id/agree", salesWrite, h.Enrollment.AgreeContract)
				enrollments.POST("/:id/approve", adminOnly, h.Enrollment.ApproveContract)
				enrollments.DELETE("/:id", salesWrite, h.Enrollment.DeleteEnrollment)
			}

			// 学习记录（讲师）
			studyRecords := authorized.Group("/study-records", teachWrite)
			{
				studyRecords.GET("", h.StudyRecord.ListStudyRecords)
				studyRecords.POST("", h.StudyRecord.CreateStudyRecord)
				studyRecords.PUT("/:id", h.StudyRecord.UpdateStudyRecord)
				studyRecords.DELETE("/:id", h.StudyRecord.DeleteStudyRecord)
			}

			// 缴费记录（销售）
			payments := authorized.Group("/payments", salesWrite)
			{
				payments.GET("", h.Payment.ListPayments)
				payments.POST("", h.Payment.CreatePayment)
				payments.GET("/:id", h.Payment.GetPayment)
				payments.DELETE("/:id", h.Payment.DeletePayment)
			}
		}
	}

	return r
}

// healthCheck 数据库不可用时返回 503；Redis 为可选依赖，仅报告状态
func healthCheck(db DBPinger, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := gin.H{"status": "ok", "database": "ok", "redis": "disabled"}
		code := http.StatusOK

		if err := db.Ping(ctx); err != nil {
			status["status"] = "unavailable"
			status["database"] = "down"
			code = http.StatusServiceUnavailable
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
