// Package server exposes the FreeFlow HTTP API: intake parsing, contract
// generation, invoicing, dashboard reads, and webhook acknowledgments.
package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/adalundhe/freeflow/core/config"
	"github.com/adalundhe/freeflow/core/pdf"
	"github.com/adalundhe/freeflow/core/pipeline"
	"github.com/adalundhe/freeflow/core/store"
	"github.com/dgraph-io/ristretto"
	"github.com/gin-gonic/gin"
)

// Server wires the pipeline, store, and renderer behind the gin router.
type Server struct {
	cfg      *config.Config
	store    *store.Store
	pipeline *pipeline.Pipeline
	renderer *pdf.Renderer
	cache    *ristretto.Cache
	logger   *slog.Logger
}

// New creates a server. The ristretto cache backs dashboard stats reads.
func New(cfg *config.Config, st *store.Store, pipe *pipeline.Pipeline, renderer *pdf.Renderer, logger *slog.Logger) (*Server, error) {
	if logger == nil {
		logger = slog.Default()
	}

	cache, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e4,
		MaxCost:     1 << 20,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create cache: %w", err)
	}

	return &Server{
		cfg:      cfg,
		store:    st,
		pipeline: pipe,
		renderer: renderer,
		cache:    cache,
		logger:   logger.With("component", "server"),
	}, nil
}

// Router builds the /api route tree.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.corsMiddleware())

	api := router.Group("/api")
	{
		api.GET("/", s.handleHealth)

		api.POST("/auth/register", s.handleRegister)
		api.POST("/auth/login", s.handleLogin)

		api.GET("/clients", s.handleListClients)
		api.POST("/clients", s.handleCreateClient)
		api.GET("/clients/:id", s.handleGetClient)

		api.GET("/projects", s.handleListProjects)
		api.POST("/projects", s.handleCreateProject)
		api.GET("/projects/:id", s.handleGetProject)

		api.POST("/intake/parse-email", s.handleParseEmail)
		api.POST("/intake/create-manual", s.handleCreateManual)

		api.POST("/contracts/generate", s.handleGenerateContract)
		api.POST("/contracts/send", s.handleSendContract)
		api.GET("/contracts/status/:id", s.handleContractStatus)
		api.GET("/contracts/:id/pdf", s.handleContractPDF)

		api.POST("/invoices/create", s.handleCreateInvoice)
		api.GET("/invoices/:id", s.handleGetInvoice)
		api.GET("/invoices/:id/pdf", s.handleInvoicePDF)
		api.POST("/invoices/remind/:id", s.handleRemindInvoice)

		api.GET("/dashboard/stats", s.handleDashboardStats)
		api.GET("/dashboard/work-queue", s.handleWorkQueue)
		api.GET("/dashboard/agent-activity", s.handleAgentActivity)

		api.POST("/webhooks/stripe", s.handleStripeWebhook)
		api.POST("/webhooks/signature", s.handleSignatureWebhook)
	}

	return router
}

// Run serves the API until the listener fails.
func (s *Server) Run() error {
	router := s.Router()
	s.logger.Info("serving", "addr", s.cfg.Server.Addr)
	return router.Run(s.cfg.Server.Addr)
}

// Close releases the stats cache.
func (s *Server) Close() {
	s.cache.Close()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"message": "FreeFlow API is running", "status": "healthy"})
}

func (s *Server) corsMiddleware() gin.HandlerFunc {
	origins := make(map[string]bool, len(s.cfg.Server.CORSOrigins))
	allowAll := false
	for _, origin := range s.cfg.Server.CORSOrigins {
		if origin == "*" {
			allowAll = true
		}
		origins[origin] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if allowAll {
			c.Header("Access-Control-Allow-Origin", "*")
		} else if origins[origin] {
			c.Header("Access-Control-Allow-Origin", origin)
		}
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, X-User-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// notFound mirrors the API's error body shape: {"detail": "..."}.
func notFound(c *gin.Context, detail string) {
	c.JSON(http.StatusNotFound, gin.H{"detail": detail})
}

func badRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": detail})
}

func internalError(c *gin.Context, detail string) {
	c.JSON(http.StatusInternalServerError, gin.H{"detail": detail})
}
