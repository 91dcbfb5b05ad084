package rpcapi

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/specmint/syndata/pkg/generator"
	"github.com/specmint/syndata/pkg/model"
	"github.com/specmint/syndata/pkg/orchestrator"
	"github.com/specmint/syndata/pkg/schema"
)

type stubGen struct{}

func (stubGen) Name() string { return "stub" }
func (stubGen) Generate(ctx context.Context, req *model.GenerateRequest, sch *schema.Schema) (*generator.Result, error) {
	data := make([]model.Record, req.Count)
	for i := range data {
		data[i] = model.Record{"_index": i}
	}
	return &generator.Result{Data: data, Metadata: map[string]interface{}{"generation_path": "SYNTHETIC"}}, nil
}

func newTestServer() *Server {
	reg := schema.NewRegistry()
	gen := stubGen{}
	orch := orchestrator.New(orchestrator.Config{
		Registry: reg, Synthetic: gen, LLM: gen, Retrieval: gen, Hybrid: gen, Log: zerolog.Nop(),
	})
	return New(orch, reg, zerolog.Nop())
}

func TestJSONCodec_RoundTrips(t *testing.T) {
	c := jsonCodec{}
	req := &GenerateDataRequest{Domain: "retail", Entity: "cart", Count: 2}
	data, err := c.Marshal(req)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var out GenerateDataRequest
	if err := c.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if out.Entity != "cart" || out.Count != 2 {
		t.Fatalf("unexpected round-trip result: %+v", out)
	}
}

func TestServer_GenerateData(t *testing.T) {
	s := newTestServer()
	resp, err := s.GenerateData(context.Background(), &GenerateDataRequest{Domain: "retail", Entity: "cart", Count: 3})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !resp.Success || resp.RecordCount != 3 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestServer_HealthCheck(t *testing.T) {
	s := newTestServer()
	resp, err := s.HealthCheck(context.Background(), &HealthCheckRequest{})
	if err != nil || resp.Status != "ok" {
		t.Fatalf("unexpected health check result: %+v, err=%v", resp, err)
	}
}

func TestServer_GetSchemas_FiltersByDomain(t *testing.T) {
	s := newTestServer()
	resp, err := s.GetSchemas(context.Background(), &GetSchemasRequest{Domain: "nonexistent-domain"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(resp.Schemas) != 0 {
		t.Fatalf("expected no schemas for unknown domain, got %d", len(resp.Schemas))
	}
}
