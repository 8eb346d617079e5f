package app

import (
	"net/http"

	_ "gokon/docs"
	"gokon/internal/service/group"
	"gokon/internal/service/matching"
	"gokon/internal/service/notification"
	"gokon/internal/service/registration"
	"gokon/internal/service/user"
	"gokon/pkg/lineauth"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Routes struct {
	r    *gin.Engine
	auth gin.HandlerFunc
}

func NewRoutes(r *gin.Engine, auth gin.HandlerFunc) *Routes {
	return &Routes{
		r:    r,
		auth: auth,
	}
}

func (o *Routes) setupInfraRoutes(healthz gin.HandlerFunc) {
	o.r.GET("/healthz", healthz)
	o.r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	o.r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	o.r.GET("/docs", docsHandler)
}

func docsHandler(c *gin.Context) {
	c.Redirect(http.StatusFound, "/swagger/index.html")
}

func (o *Routes) setupAuthRoutes(login *lineauth.LoginHandlers) {
	auth := o.r.Group("/auth/line")
	{
		auth.GET("/login", login.Login)
		auth.GET("/callback", login.Callback)
	}
}

// setupUserRoutes registers profile endpoints
func (o *Routes) setupUserRoutes(uv *user.Service) {
	userHandler := user.NewHandler(uv)

	authorized := o.r.Group("/", o.auth)
	{
		authorized.GET("/profile", userHandler.GetProfile)
		authorized.PUT("/profile", userHandler.UpdateProfile)
	}
}

func (o *Routes) setupNotificationRoutes(nv *notification.Service) {
	h := notification.NewHandler(nv)

	authorized := o.r.Group("/notifications", o.auth)
	{
		authorized.GET("/settings", h.GetSettings)
		authorized.PUT("/settings", h.UpdateSettings)
	}
}

// setupJobRoutes registers the endpoints an external scheduler calls
func (o *Routes) setupJobRoutes(h *notification.JobHandler) {
	jobs := o.r.Group("/jobs", h.RequireCronSecret())
	{
		jobs.POST("/match-notifications", h.MatchNotifications)
		jobs.POST("/reminders", h.Reminders)
	}
}

func (o *Routes) setupWebhookRoutes(h *notification.WebhookHandler) {
	o.r.POST("/webhooks/line", h.Receive)
}

func (o *Routes) setupRegistrationRoutes(rv *registration.Service) {
	h := registration.NewHandler(rv)

	authorized := o.r.Group("/registrations", o.auth)
	{
		authorized.POST("", h.Create)
		authorized.GET("", h.List)
		authorized.DELETE("/:id", h.Cancel)
	}
}

func (o *Routes) setupMatchingRoutes(h *matching.Handler) {
	o.r.POST("/admin/matching/execute", h.RequireAdmin(), h.Execute)
	o.r.GET("/matching/status", o.auth, h.Status)
}

// setupGroupRoutes registers group-related endpoints
func (o *Routes) setupGroupRoutes(admin gin.HandlerFunc, gv *group.Service) {
	groupHandler := group.NewHandler(gv)

	authorized := o.r.Group("/groups", o.auth)
	{
		authorized.GET("", groupHandler.GetMyGroups)
		authorized.GET("/:id", groupHandler.GetGroup)
	}

	o.r.PATCH("/admin/groups/:id/status", admin, groupHandler.UpdateStatus)
}
