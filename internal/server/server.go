package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"netvisor/internal/config"
	"netvisor/internal/metrics"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const maxMultipartMemory = 32 << 20

// Server is the HTTP front end that accepts log and capture uploads.
type Server struct {
	cfg      config.ServerCfg
	location *time.Location
	logger   *log.Logger
	metrics  *metrics.Metrics
	pool     *workerPool
	engine   *gin.Engine
	http     *http.Server
}

// New builds the server and its routes.
func New(cfg *config.Config, logger *log.Logger, m *metrics.Metrics) (*Server, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:      cfg.Server,
		location: loc,
		logger:   logger,
		metrics:  m,
		pool:     newWorkerPool(cfg.Server.Workers),
	}

	engine := gin.New()
	engine.MaxMultipartMemory = maxMultipartMemory
	engine.Use(gin.Recovery(), requestLogger(logger), cors(cfg.Server.CORSOrigins), securityHeaders())
	s.registerRoutes(engine)
	s.engine = engine

	s.http = &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s, nil
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/", s.handleRoot)
	r.POST("/upload/", s.handleZeekUpload)
	r.POST("/upload_pcap/", s.handleCaptureUpload)
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves until Shutdown is called.
func (s *Server) Run() error {
	s.logger.WithField("addr", s.cfg.Addr).Info("Starting NetVisor API")
	err := s.http.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown stops accepting requests, waits for in-flight ones, and stops
// the decode workers.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.http.Shutdown(ctx)
	s.pool.Close()
	return err
}
