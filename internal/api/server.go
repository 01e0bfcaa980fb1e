package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nithin01010/AI-Teacher/internal/handlers"
)

// Options configures the HTTP server wiring.
type Options struct {
	APIToken  string
	StaticDir string
}

// Server wraps the Gin engine and associated configuration.
type Server struct {
	engine *gin.Engine
}

// NewServer constructs a Server with all HTTP routes configured.
func NewServer(handler *handlers.Handler, opts Options) *Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery(), requestIDMiddleware(), metricsMiddleware(), requestLogger())

	// Health + meta
	engine.GET("/healthz", handler.Health)
	engine.GET("/system/info", handler.SystemInfo)
	engine.GET("/events", handler.StreamEvents)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Canvas API
	engine.POST("/api/generate", handler.Generate)
	engine.GET("/api/session", handler.Session)
	engine.POST("/api/clear", handler.Clear)
	engine.GET("/api/narration", handler.Narration)
	engine.POST("/api/typeset", handler.Typeset)
	engine.POST("/api/export/pdf", handler.ExportPDF)

	protected := engine.Group("/")
	protected.Use(authMiddleware(opts.APIToken))
	protected.GET("/api/history", handler.ListHistory)
	protected.DELETE("/api/history", handler.ClearHistory)

	// Canvas front end
	if opts.StaticDir != "" {
		engine.Static("/static", opts.StaticDir)
		engine.StaticFile("/", opts.StaticDir+"/index.html")
	}

	return &Server{engine: engine}
}

// Engine exposes the underlying Gin engine for advanced use (testing, etc.).
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Start launches the HTTP server on the provided address. Write timeouts are
// left unset so SSE streams are not cut off mid-generation.
func (s *Server) Start(addr string) *http.Server {
	srv := &http.Server{
		Addr:        addr,
		Handler:     s.engine,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			panic(err)
		}
	}()
	return srv
}
