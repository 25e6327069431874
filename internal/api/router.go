package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/BerylCAtieno/gtm-studio/internal/a2a"
	"github.com/BerylCAtieno/gtm-studio/internal/logger"
	"github.com/BerylCAtieno/gtm-studio/internal/middleware"
)

type RouterConfig struct {
	ServiceName    string
	CORSOrigins    []string
	Log            *logger.Logger
	SessionHandler *SessionHandler
	A2AHandler     *a2a.A2AHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware(cfg.ServiceName))
	r.Use(middleware.Metrics())
	r.Use(middleware.RequestLogger(cfg.Log))
	if len(cfg.CORSOrigins) > 0 {
		r.Use(middleware.CORS(cfg.CORSOrigins))
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// A2A
	if cfg.A2AHandler != nil {
		r.GET("/.well-known/agent.json", cfg.A2AHandler.ServeAgentCard)
		r.POST("/a2a/profiler", cfg.A2AHandler.HandleProfiler)
	}

	api := r.Group("/api")
	{
		api.GET("/dashboard", Dashboard)
		api.GET("/leads", Leads)
	}

	if h := cfg.SessionHandler; h != nil {
		sessions := api.Group("/sessions")
		sessions.POST("", h.Create)
		sessions.GET("/:id", h.Get)
		sessions.PUT("/:id/view", h.Navigate)

		// Prism
		sessions.POST("/:id/icp/generate", h.Generate)
		sessions.POST("/:id/icp/select", h.Select)

		// Echo
		sessions.PUT("/:id/creative", h.UpdateCreative)
		sessions.PATCH("/:id/creative/profile", h.UpdateProfile)
		sessions.POST("/:id/creative/profile/:field", h.AddItem)
		sessions.DELETE("/:id/creative/profile/:field/:index", h.RemoveItem)
		sessions.POST("/:id/creative/profile/:field/reorder", h.ReorderItem)
		sessions.POST("/:id/creative/analyze", h.Analyze)
		sessions.POST("/:id/creative/revision", h.ApplyRevision)
	}

	return r
}
