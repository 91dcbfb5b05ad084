package generator

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/specmint/syndata/pkg/model"
	"github.com/specmint/syndata/pkg/retrieval"
)

type fakeStore struct {
	examples map[retrieval.Collection][]retrieval.Example
	connects int
}

func (f *fakeStore) Connect(ctx context.Context) error    { f.connects++; return nil }
func (f *fakeStore) Disconnect(ctx context.Context) error { f.connects--; return nil }
func (f *fakeStore) Search(ctx context.Context, collection retrieval.Collection, query string, topK int) ([]retrieval.Example, error) {
	examples := f.examples[collection]
	if len(examples) > topK {
		examples = examples[:topK]
	}
	return examples, nil
}
func (f *fakeStore) Insert(ctx context.Context, collection retrieval.Collection, id, data string) error {
	return nil
}
func (f *fakeStore) BatchInsert(ctx context.Context, collection retrieval.Collection, items map[string]string) error {
	return nil
}
func (f *fakeStore) Count(ctx context.Context, collection retrieval.Collection) (int64, error) {
	return int64(len(f.examples[collection])), nil
}
func (f *fakeStore) Exists(ctx context.Context, collection retrieval.Collection, id string) (bool, error) {
	return false, nil
}
func (f *fakeStore) DeleteCollection(ctx context.Context, collection retrieval.Collection) error {
	return nil
}

func TestRetrievalGenerator_EmptyCorpusFallsBackWithZeroPatterns(t *testing.T) {
	store := &fakeStore{}
	gen := NewRetrievalGenerator(store, 5, zerolog.Nop())

	req := &model.GenerateRequest{Entity: "cart", Count: 3}
	result, err := gen.Generate(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Data) != 0 {
		t.Fatalf("expected no data, got %d records", len(result.Data))
	}
	if result.Metadata["rag_patterns_found"] != 0 {
		t.Fatalf("expected rag_patterns_found=0, got %v", result.Metadata["rag_patterns_found"])
	}
	if store.connects != 0 {
		t.Fatalf("expected store connection released, got refcount %d", store.connects)
	}
}

func TestRetrievalGenerator_AllocatesProportionallyAndTruncates(t *testing.T) {
	store := &fakeStore{
		examples: map[retrieval.Collection][]retrieval.Example{
			retrieval.Patterns: {
				{ID: "CRT-2024-0000001", Data: `{"data":{"id":"CRT-2024-0000001","total":10}}`},
				{ID: "CRT-2024-0000002", Data: `{"data":{"id":"CRT-2024-0000002","total":20}}`},
			},
		},
	}
	gen := NewRetrievalGenerator(store, 5, zerolog.Nop())

	req := &model.GenerateRequest{Entity: "cart", Count: 5}
	result, err := gen.Generate(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Data) != 5 {
		t.Fatalf("expected 5 records, got %d", len(result.Data))
	}
	for i, rec := range result.Data {
		if rec["_index"] != i {
			t.Errorf("record %d has wrong _index %v", i, rec["_index"])
		}
	}
}

func TestMutatePattern_RegeneratesTrailingDigitsDeterministically(t *testing.T) {
	payload := map[string]interface{}{"id": "CRT-2024-0000001", "created_at": "2020-01-01T00:00:00Z"}

	a := mutatePattern(payload, "CRT-2024-0000001", 0)
	b := mutatePattern(payload, "CRT-2024-0000001", 0)
	if a["id"] != b["id"] {
		t.Fatalf("expected deterministic mutation, got %v vs %v", a["id"], b["id"])
	}

	c := mutatePattern(payload, "CRT-2024-0000001", 1)
	if a["id"] == c["id"] {
		t.Fatalf("expected different variations to mutate differently, both got %v", a["id"])
	}

	if createdAt, ok := a["created_at"].(string); !ok || createdAt == "2020-01-01T00:00:00Z" {
		t.Fatalf("expected created_at to be restamped to current time, got %v", a["created_at"])
	}
	if _, err := time.Parse(time.RFC3339, a["created_at"].(string)); err != nil {
		t.Fatalf("expected RFC3339 timestamp, got %v", a["created_at"])
	}
}
