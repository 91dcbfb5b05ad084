package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/specmint/syndata/pkg/generator"
	"github.com/specmint/syndata/pkg/model"
	"github.com/specmint/syndata/pkg/orchestrator"
	"github.com/specmint/syndata/pkg/schema"
)

type stubGen struct{ name string }

func (g *stubGen) Name() string { return g.name }
func (g *stubGen) Generate(ctx context.Context, req *model.GenerateRequest, sch *schema.Schema) (*generator.Result, error) {
	return &generator.Result{
		Data:     []model.Record{{"_index": 0, "_scenario": "default"}},
		Metadata: map[string]interface{}{"generation_path": "SYNTHETIC"},
	}, nil
}

func newTestServer() *Server {
	reg := schema.NewRegistry()
	gen := &stubGen{name: "synthetic"}
	orch := orchestrator.New(orchestrator.Config{
		Registry:  reg,
		Synthetic: gen,
		LLM:       gen,
		Retrieval: gen,
		Hybrid:    gen,
		Log:       zerolog.Nop(),
	})
	return New(orch, reg, zerolog.Nop(), func() bool { return true })
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer()

	for _, path := range []string{"/health", "/health/live", "/health/ready"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rec.Code)
		}
	}
}

func TestGenerateEndpoint_ReturnsRecords(t *testing.T) {
	s := newTestServer()

	body := `{"domain":"retail","entity":"cart","count":1,"generation_method":"SYNTHETIC"}`
	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"record_count":1`) {
		t.Errorf("expected record_count=1 in response, got %s", rec.Body.String())
	}
}

func TestGenerateEndpoint_RejectsMissingFields(t *testing.T) {
	s := newTestServer()

	req := httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
