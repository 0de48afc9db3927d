package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vesselworks/dashboard/internal/config"
	"github.com/vesselworks/dashboard/internal/middleware"
	"github.com/vesselworks/dashboard/internal/modules/handler"
	"github.com/vesselworks/dashboard/internal/modules/serializer"
)

type RouterDeps struct {
	Config         *config.Config
	Log            *zap.Logger
	ProjectHandler *handler.ProjectHandler
	LetterHandler  *handler.LetterHandler
	ReportHandler  *handler.ReportHandler
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Add OpenTelemetry middleware if enabled (using configuration system)
	if d.Config.Telemetry.Enabled && d.Config.Telemetry.OtlpEndpoint != "" {
		r.Use(middleware.OtelTracing(d.Config.App.Name))
		// Add trace ID to response header
		r.Use(middleware.TraceID())
	}

	r.Use(middleware.ZapLogger(d.Log))
	r.Use(cors.New(corsConfig(d.Config)))

	// health
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, serializer.Response{Msg: "ok"}) })

	v1 := r.Group("/api/v1")
	{
		v1.Use(middleware.Session())

		project := v1.Group("/project")
		{
			project.GET("", d.ProjectHandler.ListProjects)
			project.POST("", d.ProjectHandler.CreateProject)
			project.GET("/filters", d.ProjectHandler.GetFilterOptions)
			project.POST("/refresh", d.ProjectHandler.RefreshProjects)

			project.GET("/:project_id", d.ProjectHandler.GetProject)
			project.PATCH("/:project_id", d.ProjectHandler.UpdateProject)
			project.DELETE("/:project_id", d.ProjectHandler.DeleteProject)
			project.POST("/:project_id/complete", d.ProjectHandler.CompleteProject)

			letter := project.Group("/:project_id/recommendation_letter")
			{
				letter.POST("/request", d.LetterHandler.RequestLetter)
				letter.POST("/reminder", d.LetterHandler.SendReminder)
				letter.POST("/upload", d.LetterHandler.UploadLetter)
				letter.GET("/view", d.LetterHandler.ViewLetter)
			}
		}

		report := v1.Group("/report")
		{
			report.GET("/summary", d.ReportHandler.GetSummary)
			report.GET("/certificates", d.ReportHandler.GetCertificates)
		}
	}
	return r
}

func corsConfig(cfg *config.Config) cors.Config {
	c := cors.DefaultConfig()
	if len(cfg.CORS.AllowOrigins) == 0 || (len(cfg.CORS.AllowOrigins) == 1 && cfg.CORS.AllowOrigins[0] == "*") {
		c.AllowAllOrigins = true
	} else {
		c.AllowOrigins = cfg.CORS.AllowOrigins
	}
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	c.AddAllowHeaders(middleware.HeaderFirmID, middleware.HeaderUserID, middleware.HeaderUserRole, "Authorization")
	c.ExposeHeaders = []string{"X-Trace-Id"}
	c.MaxAge = 12 * time.Hour
	return c
}
