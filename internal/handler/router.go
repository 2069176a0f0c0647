package handler

import (
	"github.com/6045054-web/CHENGHUI/internal/middleware"
	"github.com/6045054-web/CHENGHUI/internal/model"
	"github.com/6045054-web/CHENGHUI/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Deps struct {
	Tokens *middleware.Auth
	WS     *service.Workspace
	Auth   *service.AuthService
	Field  *service.FieldService
	Admin  *service.AdminService
}

func NewRouter(d Deps) *gin.Engine {
	authH := NewAuthHandler(d.Auth, d.Tokens, d.WS)
	fieldH := NewFieldHandler(d.Field, d.WS)
	adminH := NewAdminHandler(d.Admin)

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestID())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.HeaderRequestID},
		ExposeHeaders:    []string{"X-New-Token", middleware.HeaderRequestID, "Content-Disposition"},
		AllowCredentials: true,
	}))

	r.POST("/api/login", authH.Login)

	api := r.Group("/api", d.Tokens.JWTAuth(d.WS))
	api.GET("/me", authH.Me)
	api.PUT("/me/password", authH.ChangePassword)

	api.GET("/dashboard", fieldH.Dashboard)
	api.GET("/schemas", fieldH.Schemas)
	api.GET("/announcements", adminH.Announcements)
	api.POST("/reports/preview", fieldH.Preview)
	api.POST("/reports/assist", fieldH.Assist)
	api.POST("/reports", fieldH.Submit)
	api.GET("/reports", fieldH.List)
	api.GET("/reports/:id", fieldH.Get)
	api.GET("/reports/:id/print", fieldH.Print)
	api.POST("/uploads", fieldH.Upload)
	api.POST("/attendance", fieldH.Clock)

	review := api.Group("/review", middleware.RequireRole(model.RoleChief, model.RoleLeader))
	review.GET("", fieldH.ReviewQueue)
	review.POST("/:id/approve", fieldH.Approve)
	review.POST("/:id/reject", fieldH.Reject)

	admin := api.Group("/admin", middleware.RequireRole(model.RoleLeader))
	admin.GET("/projects", adminH.Projects)
	admin.POST("/projects", adminH.SaveProject)
	admin.PUT("/projects/:id", adminH.SaveProject)
	admin.DELETE("/projects/:id", adminH.DeleteProject)
	admin.GET("/users", adminH.Users)
	admin.POST("/users", adminH.SaveUser)
	admin.PUT("/users/:id", adminH.SaveUser)
	admin.DELETE("/users/:id", adminH.DeleteUser)
	admin.POST("/announcements", adminH.PublishAnnouncement)
	admin.DELETE("/announcements/:id", adminH.DeleteAnnouncement)
	admin.GET("/attendance", adminH.Attendance)
	admin.GET("/attendance/:id", adminH.AttendanceDetail)
	admin.GET("/risks", adminH.RiskReports)
	admin.POST("/briefing", adminH.Briefing)
	admin.GET("/briefing", adminH.LastBriefing)
	admin.GET("/export", adminH.Export)
	admin.POST("/refresh", adminH.Refresh)

	return r
}
