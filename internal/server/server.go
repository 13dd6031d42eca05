package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spigell/schememitra/internal/ai"
	"github.com/spigell/schememitra/internal/schemes"
	"go.uber.org/zap"
)

const shutdownTimeout = 5 * time.Second

// Analyzer extracts entities from free text. Failures are reported in the returned JSON.
type Analyzer interface {
	Analyze(ctx context.Context, text string) json.RawMessage
}

// Server exposes the catalog, filters and explanations over HTTP.
type Server struct {
	catalog   *schemes.Catalog
	explainer *ai.Explainer
	analyzer  Analyzer
	logger    *zap.Logger
	engine    *gin.Engine
}

func New(catalog *schemes.Catalog, explainer *ai.Explainer, analyzer Analyzer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if catalog == nil {
		catalog = schemes.Empty(errors.New("catalog is not loaded"))
	}
	if explainer == nil {
		explainer = ai.NewExplainer(nil, 0, logger)
	}

	s := &Server{
		catalog:   catalog,
		explainer: explainer,
		analyzer:  analyzer,
		logger:    logger,
	}
	s.engine = s.routes()

	return s
}

// SetMode switches gin between release and debug mode and returns the mode set.
func SetMode(debug bool) string {
	mode := gin.ReleaseMode
	if debug {
		mode = gin.DebugMode
	}
	gin.SetMode(mode)
	return mode
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), requestLog(s.logger))

	engine.GET("/healthz", s.health)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api/v1")
	api.GET("/schemes", s.listSchemes)
	api.GET("/schemes/:id", s.getScheme)
	api.POST("/schemes/:id/explain", s.explainScheme)
	api.GET("/filters", s.filters)
	api.POST("/analyze", s.analyze)

	return engine
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve %s: %w", addr, err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	return nil
}
