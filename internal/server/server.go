package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/afajardodelgado/solar-equipment-explorer-v2/internal/api"
	"github.com/afajardodelgado/solar-equipment-explorer-v2/internal/config"
	"github.com/afajardodelgado/solar-equipment-explorer-v2/internal/ingest"
	"github.com/afajardodelgado/solar-equipment-explorer-v2/internal/observability"
)

// Server is the catalog browse HTTP server.
type Server struct {
	router  *gin.Engine
	handler *api.Handler
}

// NewServer wires the fetch client, runner and API handler from config.
func NewServer(cfg *config.AppConfig) (*Server, error) {
	if !cfg.Server.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}

	dataDir, err := config.EnsureDataDir(cfg)
	if err != nil {
		return nil, err
	}

	client := ingest.NewClient(cfg.Ingest.BaseURL, time.Duration(cfg.Ingest.TimeoutSeconds)*time.Second)
	runner := ingest.NewRunner(client, dataDir, nil)
	handler := api.NewHandler(dataDir, runner)

	observability.Register()

	s := &Server{
		router:  gin.Default(),
		handler: handler,
	}
	s.setupRoutes()
	return s, nil
}

// setupRoutes installs middleware and routes.
func (s *Server) setupRoutes() {
	// CORS
	s.router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	apiGroup := s.router.Group("/api")
	{
		s.handler.RegisterRoutes(apiGroup)
	}

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "solar-equipment-explorer",
			"api":     "/api",
			"metrics": "/metrics",
		})
	})
}

// Run starts the server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}

// Close releases the handler's database connections.
func (s *Server) Close() {
	s.handler.Close()
}
