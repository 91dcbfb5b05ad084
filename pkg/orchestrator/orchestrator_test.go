package orchestrator

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/specmint/syndata/pkg/generator"
	"github.com/specmint/syndata/pkg/model"
	"github.com/specmint/syndata/pkg/schema"
	"github.com/specmint/syndata/pkg/synerr"
)

type stubGenerator struct {
	name   string
	result *generator.Result
	err    error
	calls  int
}

func (g *stubGenerator) Name() string { return g.name }
func (g *stubGenerator) Generate(ctx context.Context, req *model.GenerateRequest, sch *schema.Schema) (*generator.Result, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

func records(n int) []model.Record {
	out := make([]model.Record, n)
	for i := range out {
		out[i] = model.Record{"_index": i}
	}
	return out
}

func newTestOrchestrator(synthetic, llm, retrieval, hybrid *stubGenerator) *Orchestrator {
	return New(Config{
		Registry:         schema.NewRegistry(),
		Synthetic:        synthetic,
		LLM:              llm,
		Retrieval:        retrieval,
		Hybrid:           hybrid,
		Log:              zerolog.Nop(),
		MaxSyncRecords:   100,
		DefaultBatchSize: 2,
	})
}

func TestOrchestrator_RejectsCountAboveMaxSync(t *testing.T) {
	o := newTestOrchestrator(&stubGenerator{name: "synthetic"}, nil, nil, nil)
	req := &model.GenerateRequest{RequestID: "r1", Entity: "cart", Count: 1000, GenerationMethod: model.SYNTHETIC}

	_, err := o.Generate(context.Background(), req)
	if !synerr.Is(err, synerr.LimitExceeded) {
		t.Fatalf("expected LimitExceeded, got %v", err)
	}
}

func TestOrchestrator_RetrievalFallsBackToSyntheticOnZeroRecords(t *testing.T) {
	retrievalGen := &stubGenerator{name: "retrieval", result: &generator.Result{Data: nil, Metadata: map[string]interface{}{}}}
	syntheticGen := &stubGenerator{name: "synthetic", result: &generator.Result{Data: records(3), Metadata: map[string]interface{}{}}}
	o := newTestOrchestrator(syntheticGen, nil, retrievalGen, nil)

	req := &model.GenerateRequest{RequestID: "r2", Entity: "cart", Count: 3, GenerationMethod: model.RETRIEVAL}
	resp, err := o.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.RecordCount != 3 {
		t.Fatalf("expected fallback result with 3 records, got %d", resp.RecordCount)
	}
	if syntheticGen.calls != 1 {
		t.Fatalf("expected synthetic fallback to be invoked once, got %d", syntheticGen.calls)
	}
}

func TestOrchestrator_HybridFallsBackToLLMOnError(t *testing.T) {
	hybridGen := &stubGenerator{name: "hybrid", err: synerr.New(synerr.RetrievalUnavailable, "store down")}
	llmGen := &stubGenerator{name: "llm", result: &generator.Result{Data: records(2), Metadata: map[string]interface{}{}}}
	o := newTestOrchestrator(nil, llmGen, nil, hybridGen)

	req := &model.GenerateRequest{RequestID: "r3", Entity: "order", Count: 2, GenerationMethod: model.HYBRID}
	resp, err := o.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.RecordCount != 2 {
		t.Fatalf("expected 2 records from llm fallback, got %d", resp.RecordCount)
	}
	if llmGen.calls != 1 {
		t.Fatalf("expected llm fallback invoked once, got %d", llmGen.calls)
	}
}

func TestOrchestrator_StreamEmitsBatchesAndTerminalChunk(t *testing.T) {
	syntheticGen := &stubGenerator{name: "synthetic", result: &generator.Result{Data: records(5), Metadata: map[string]interface{}{}}}
	o := newTestOrchestrator(syntheticGen, nil, nil, nil)

	req := &model.GenerateRequest{RequestID: "r4", Entity: "cart", Count: 5, GenerationMethod: model.SYNTHETIC}

	var chunks []model.DataChunk
	err := o.GenerateStream(context.Background(), req, func(c model.DataChunk) error {
		chunks = append(chunks, c)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// batch size 2, 5 records -> 3 data chunks + 1 terminal chunk
	if len(chunks) != 4 {
		t.Fatalf("expected 4 chunks, got %d", len(chunks))
	}
	for i, c := range chunks[:3] {
		if c.ChunkIndex != i || c.IsFinal {
			t.Errorf("chunk %d: unexpected index/final %d/%v", i, c.ChunkIndex, c.IsFinal)
		}
	}
	last := chunks[len(chunks)-1]
	if !last.IsFinal || len(last.Data) != 0 {
		t.Fatalf("expected empty-payload terminal chunk, got %+v", last)
	}
}

func TestOrchestrator_FlagsEcommerceBusinessRuleViolations(t *testing.T) {
	bad := model.Record{"sku": "not-a-sku", "base_price": 10.0, "sale_price": 20.0}
	syntheticGen := &stubGenerator{name: "synthetic", result: &generator.Result{Data: []model.Record{bad}, Metadata: map[string]interface{}{}}}
	o := newTestOrchestrator(syntheticGen, nil, nil, nil)

	req := &model.GenerateRequest{RequestID: "r6", Domain: "ecommerce", Entity: "product", Count: 1, GenerationMethod: model.SYNTHETIC}
	resp, err := o.Generate(context.Background(), req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	warnings, ok := resp.Metadata["business_rule_warnings"].([]string)
	if !ok || len(warnings) != 2 {
		t.Fatalf("expected 2 business rule warnings, got %+v", resp.Metadata["business_rule_warnings"])
	}
}

func TestOrchestrator_StreamEmitsErrorChunkOnFailure(t *testing.T) {
	syntheticGen := &stubGenerator{name: "synthetic", err: synerr.New(synerr.Internal, "boom")}
	o := newTestOrchestrator(syntheticGen, nil, nil, nil)

	req := &model.GenerateRequest{RequestID: "r5", Entity: "cart", Count: 5, GenerationMethod: model.SYNTHETIC}

	var chunks []model.DataChunk
	err := o.GenerateStream(context.Background(), req, func(c model.DataChunk) error {
		chunks = append(chunks, c)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(chunks) != 1 || !chunks[0].IsFinal {
		t.Fatalf("expected single terminal error chunk, got %+v", chunks)
	}
}
