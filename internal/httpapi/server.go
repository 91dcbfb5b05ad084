// Package httpapi exposes the HTTP surface (health probes, metrics,
// and a JSON convenience route mirroring the gRPC GenerateData RPC),
// grounded on the gin usage in codeready-toolchain-tarsy/pkg/api.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/specmint/syndata/internal/logger"
	"github.com/specmint/syndata/pkg/model"
	"github.com/specmint/syndata/pkg/orchestrator"
	"github.com/specmint/syndata/pkg/schema"
)

// Server wraps the gin engine and its dependencies.
type Server struct {
	engine *gin.Engine
	orch   *orchestrator.Orchestrator
	reg    *schema.Registry
	log    zerolog.Logger
	ready  func() bool
}

// New builds the HTTP server with routes registered.
func New(orch *orchestrator.Orchestrator, reg *schema.Registry, log zerolog.Logger, ready func() bool) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{engine: engine, orch: orch, reg: reg, log: logger.Component(log, "httpapi"), ready: ready}
	s.routes()
	return s
}

// Handler returns the http.Handler to pass to an http.Server.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes() {
	s.engine.GET("/health", s.handleHealth)
	s.engine.GET("/health/live", s.handleLive)
	s.engine.GET("/health/ready", s.handleReady)
	s.engine.GET("/metrics", gin.WrapH(promhttp.Handler()))
	s.engine.POST("/generate", s.handleGenerate)
	s.engine.GET("/schemas", s.handleListSchemas)
	s.engine.GET("/schemas/:name", s.handleGetSchema)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleLive(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (s *Server) handleReady(c *gin.Context) {
	if s.ready != nil && !s.ready() {
		c.String(http.StatusServiceUnavailable, "not ready")
		return
	}
	c.String(http.StatusOK, "ready")
}

// generateRequestBody mirrors the gRPC GenerateData request shape for
// HTTP callers.
type generateRequestBody struct {
	Domain           string                          `json:"domain" binding:"required"`
	Entity           string                          `json:"entity" binding:"required"`
	Count            int                             `json:"count" binding:"required"`
	Context          string                           `json:"context"`
	Hints            []string                         `json:"hints"`
	Scenarios        []model.Scenario                 `json:"scenarios"`
	Constraints      map[string]model.ConstraintSpec   `json:"constraints"`
	SchemaRef        json.RawMessage                  `json:"schema_ref"`
	SchemaRefName    string                            `json:"schema_ref_name"`
	Flags            model.Flags                       `json:"flags"`
	GenerationMethod model.GenerationMethod             `json:"generation_method"`
}

func (s *Server) handleGenerate(c *gin.Context) {
	var body generateRequestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req := &model.GenerateRequest{
		RequestID:        uuid.NewString(),
		Domain:           body.Domain,
		Entity:           body.Entity,
		Count:            body.Count,
		Context:          body.Context,
		Hints:            model.NewHintSet(body.Hints...),
		Scenarios:        body.Scenarios,
		Constraints:      body.Constraints,
		SchemaRef:        body.SchemaRef,
		SchemaRefName:    body.SchemaRefName,
		Flags:            body.Flags,
		GenerationMethod: body.GenerationMethod,
	}

	reqLog := logger.CorrelationID(s.log, req.RequestID)

	resp, err := s.orch.Generate(c.Request.Context(), req)
	if err != nil {
		reqLog.Warn().Err(err).Msg("generate request failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "request_id": req.RequestID})
		return
	}
	reqLog.Info().Int("record_count", resp.RecordCount).Msg("generate request completed")
	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleListSchemas(c *gin.Context) {
	domain := c.Query("domain")
	c.JSON(http.StatusOK, gin.H{"schemas": s.reg.List(domain)})
}

func (s *Server) handleGetSchema(c *gin.Context) {
	name := c.Param("name")
	info, ok := s.reg.Info(name)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "schema not found"})
		return
	}
	c.JSON(http.StatusOK, info)
}
