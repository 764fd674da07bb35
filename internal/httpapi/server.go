package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jsundin/esett-proxy/internal/config"
	"github.com/jsundin/esett-proxy/internal/dataset"
	"github.com/jsundin/esett-proxy/internal/engine"
)

// Engine is the cache-through core the HTTP layer delegates to.
type Engine interface {
	Query(ctx context.Context, ds dataset.Descriptor, q engine.Query) (engine.Result, error)
}

// Server bundles router and dependencies for the REST API.
type Server struct {
	cfg    config.Config
	engine Engine
	router *gin.Engine
}

// New constructs a server with routes and middleware.
func New(cfg config.Config, eng Engine) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(corsMiddleware())

	server := &Server{cfg: cfg, engine: eng, router: router}
	server.registerRoutes()
	return server
}

// Router exposes the underlying gin engine (for tests).
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Run starts the HTTP server and blocks until shutdown.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:    s.cfg.ListenAddr(),
		Handler: s.router,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	s.router.GET("/", func(c *gin.Context) {
		c.Redirect(http.StatusTemporaryRedirect, "/static/index.html")
	})
	s.router.Static("/static", s.cfg.StaticDir)

	api := s.router.Group("/api")
	if s.cfg.BearerToken != "" {
		api.Use(bearerAuthMiddleware(s.cfg.BearerToken))
	}
	api.GET("/load-profile", s.handleDataset(dataset.LoadProfile))
	api.GET("/production", s.handleDataset(dataset.Production))
	api.GET("/consumption", s.handleDataset(dataset.Consumption))
	api.GET("/prices", s.handleDataset(dataset.ImbalancePrice))
}

func bearerAuthMiddleware(expected string) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		if token != expected {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
