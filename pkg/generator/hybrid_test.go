package generator

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/specmint/syndata/pkg/model"
	"github.com/specmint/syndata/pkg/retrieval"
)

type fakeLLMClient struct {
	response string
}

func (f *fakeLLMClient) Generate(ctx context.Context, system, user string, seed int64) (string, int, error) {
	return f.response, 42, nil
}
func (f *fakeLLMClient) Name() string   { return "fake" }
func (f *fakeLLMClient) Close() error   { return nil }

func TestHybridGenerator_DegradesToLLMAloneOnEmptyRetrieval(t *testing.T) {
	store := &fakeStore{}
	retrievalGen := NewRetrievalGenerator(store, 5, zerolog.Nop())
	llmGen := NewLLMGenerator(&fakeLLMClient{response: `[{"a":1},{"a":2}]`}, nil, 2, zerolog.Nop())
	hybrid := NewHybridGenerator(retrievalGen, llmGen, zerolog.Nop())

	req := &model.GenerateRequest{RequestID: "r1", Entity: "order", Count: 2}
	result, err := hybrid.Generate(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Metadata["retrieval_examples_used"] != 0 {
		t.Fatalf("expected 0 retrieval examples used, got %v", result.Metadata["retrieval_examples_used"])
	}
	if result.Metadata["generation_path"] != "HYBRID" {
		t.Fatalf("expected HYBRID path, got %v", result.Metadata["generation_path"])
	}
	if len(result.Data) != 2 {
		t.Fatalf("expected 2 records, got %d", len(result.Data))
	}
}

func TestHybridGenerator_ReportsRetrievalExamplesUsed(t *testing.T) {
	store := &fakeStore{
		examples: map[retrieval.Collection][]retrieval.Example{
			retrieval.Patterns: {
				{ID: "p1", Data: `{"data":{"note":"a"}}`},
				{ID: "p2", Data: `{"data":{"note":"b"}}`},
			},
		},
	}
	retrievalGen := NewRetrievalGenerator(store, 5, zerolog.Nop())
	llmGen := NewLLMGenerator(&fakeLLMClient{response: `[{"a":1}]`}, nil, 2, zerolog.Nop())
	hybrid := NewHybridGenerator(retrievalGen, llmGen, zerolog.Nop())

	req := &model.GenerateRequest{RequestID: "r2", Entity: "order", Count: 1}
	result, err := hybrid.Generate(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Metadata["retrieval_examples_used"] != 2 {
		t.Fatalf("expected 2 retrieval examples used, got %v", result.Metadata["retrieval_examples_used"])
	}
	if result.Metadata["retrieval_collection"] != string(retrieval.Patterns) {
		t.Fatalf("expected retrieval_collection=PATTERNS, got %v", result.Metadata["retrieval_collection"])
	}
}
