package rpcapi

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/specmint/syndata/internal/logger"
	"github.com/specmint/syndata/pkg/orchestrator"
	"github.com/specmint/syndata/pkg/schema"
)

// Server implements DataServiceServer over an Orchestrator and Schema
// Registry.
type Server struct {
	orch *orchestrator.Orchestrator
	reg  *schema.Registry
	log  zerolog.Logger
}

// New builds the gRPC service implementation.
func New(orch *orchestrator.Orchestrator, reg *schema.Registry, log zerolog.Logger) *Server {
	return &Server{orch: orch, reg: reg, log: logger.Component(log, "rpcapi")}
}

// GenerateData implements the unary RPC.
func (s *Server) GenerateData(ctx context.Context, req *GenerateDataRequest) (*GenerateDataResponse, error) {
	modelReq := req.toModel(uuid.NewString())
	reqLog := logger.CorrelationID(s.log, modelReq.RequestID)

	resp, err := s.orch.Generate(ctx, modelReq)
	if err != nil {
		reqLog.Warn().Err(err).Msg("generate RPC failed")
		return &GenerateDataResponse{RequestID: modelReq.RequestID, Success: false, Error: err.Error()}, nil
	}
	reqLog.Info().Int("record_count", resp.RecordCount).Msg("generate RPC completed")
	return resp, nil
}

// GenerateDataStream implements the server-streaming RPC.
func (s *Server) GenerateDataStream(req *GenerateDataRequest, stream DataService_GenerateDataStreamServer) error {
	modelReq := req.toModel(uuid.NewString())
	reqLog := logger.CorrelationID(s.log, modelReq.RequestID)

	err := s.orch.GenerateStream(stream.Context(), modelReq, func(chunk DataChunkMessage) error {
		return stream.Send(&chunk)
	})
	if err != nil {
		reqLog.Warn().Err(err).Msg("generate stream RPC failed")
	}
	return err
}

// GetSchemas implements the schema listing RPC.
func (s *Server) GetSchemas(ctx context.Context, req *GetSchemasRequest) (*GetSchemasResponse, error) {
	schemas := s.reg.List(req.Domain)
	out := make([]*SchemaInfo, 0, len(schemas))
	for _, sch := range schemas {
		info := sch.ToInfo()
		wire := &SchemaInfo{Name: info.Name, Domain: info.Domain, Description: info.Description}
		for _, f := range info.Fields {
			wire.Fields = append(wire.Fields, SchemaFieldInfo{
				Name:        f.Name,
				Type:        f.Type,
				Required:    f.Required,
				Description: f.Description,
				Example:     f.Example,
			})
		}
		out = append(out, wire)
	}
	return &GetSchemasResponse{Schemas: out}, nil
}

// HealthCheck implements the liveness RPC.
func (s *Server) HealthCheck(ctx context.Context, req *HealthCheckRequest) (*HealthCheckResponse, error) {
	return &HealthCheckResponse{Status: "ok"}, nil
}
