// Package server exposes the evaluation pipeline over HTTP
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/user/regnav/pkg/engine"
	"github.com/user/regnav/pkg/pipeline"
)

// ErrorResponse is the body of every non-2xx answer
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
	RunID string `json:"run_id,omitempty"`
	Stage string `json:"stage,omitempty"`
}

// EvaluationRequest carries the per-page text of each document
type EvaluationRequest struct {
	Documents map[engine.Document][]string `json:"documents" binding:"required"`
}

type catalogueEntry struct {
	engine.Requirement
	Weight int `json:"weight"`
}

type Server struct {
	pipeline *pipeline.Pipeline
	metrics  *pipeline.Metrics
	logger   hclog.Logger
	router   *gin.Engine
}

// New builds the router. metrics may be nil, in which case /metrics is not served.
func New(p *pipeline.Pipeline, metrics *pipeline.Metrics, logger hclog.Logger) *Server {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	s := &Server{pipeline: p, metrics: metrics, logger: logger}

	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/healthz", s.handleHealth)
	router.GET("/v1/catalogue", s.handleCatalogue)
	router.POST("/v1/evaluations", s.handleEvaluate)
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry(), promhttp.HandlerOpts{})))
	}
	s.router = router
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
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

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleCatalogue(c *gin.Context) {
	cat := s.pipeline.Catalogue()
	weights := cat.Weights()

	entries := make([]catalogueEntry, 0, len(cat.IDs()))
	for _, r := range cat.Requirements() {
		entries = append(entries, catalogueEntry{Requirement: r, Weight: weights.Weight(r.ID)})
	}
	c.JSON(http.StatusOK, gin.H{"requirements": entries})
}

// handleEvaluate handles POST /v1/evaluations.
//
// Response:
//
//	200 OK: pipeline.Run
//	400 Bad Request: malformed body
//	422 Unprocessable Entity: no extractable text
//	502 Bad Gateway: findings provider failed
//	500 Internal Server Error: anything else
func (s *Server) handleEvaluate(c *gin.Context) {
	var req EvaluationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.Warn("invalid request body", "error", err)
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body", Code: "INVALID_REQUEST"})
		return
	}
	for doc := range req.Documents {
		if !doc.Valid() {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown document " + string(doc), Code: "INVALID_DOCUMENT"})
			return
		}
	}

	run, err := s.pipeline.Run(c.Request.Context(), engine.Submission{Pages: req.Documents})
	if err != nil {
		statusCode := http.StatusInternalServerError
		errCode := "EVALUATION_FAILED"
		if errors.Is(err, engine.ErrIngestion) {
			statusCode = http.StatusUnprocessableEntity
			errCode = "NO_TEXT"
		} else if errors.Is(err, engine.ErrProvider) {
			statusCode = http.StatusBadGateway
			errCode = "PROVIDER_FAILED"
		}

		resp := ErrorResponse{Error: err.Error(), Code: errCode}
		if run != nil {
			resp.RunID = run.ID
			resp.Stage = string(run.Stage)
		}
		c.JSON(statusCode, resp)
		return
	}
	c.JSON(http.StatusOK, run)
}
