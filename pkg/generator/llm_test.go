package generator

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/specmint/syndata/pkg/model"
)

type scriptedLLMClient struct {
	responses []string
	errs      []error
	calls     int
}

func (c *scriptedLLMClient) Generate(ctx context.Context, system, user string, seed int64) (string, int, error) {
	i := c.calls
	c.calls++
	if i < len(c.errs) && c.errs[i] != nil {
		return "", 0, c.errs[i]
	}
	if i >= len(c.responses) {
		return "", 0, errors.New("no more scripted responses")
	}
	return c.responses[i], 10, nil
}
func (c *scriptedLLMClient) Name() string { return "scripted" }
func (c *scriptedLLMClient) Close() error { return nil }

func TestParseRecords_StripsFenceAndWrapsLoneObject(t *testing.T) {
	records, err := parseRecords("```json\n{\"a\":1}\n```")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(records) != 1 || records[0]["a"].(float64) != 1 {
		t.Fatalf("unexpected records: %+v", records)
	}
}

func TestParseRecords_RejectsNonObjectElements(t *testing.T) {
	_, err := parseRecords(`[1, 2, 3]`)
	if err == nil {
		t.Fatal("expected an error for non-object array elements")
	}
}

func TestParseRecords_RejectsScalarTopLevel(t *testing.T) {
	_, err := parseRecords(`"just a string"`)
	if err == nil {
		t.Fatal("expected an error for scalar top-level JSON")
	}
}

func TestLLMGenerator_RetriesWithStricterPromptOnParseFailure(t *testing.T) {
	client := &scriptedLLMClient{responses: []string{"not json at all", `[{"a":1}]`}}
	gen := NewLLMGenerator(client, nil, 2, zerolog.Nop())

	req := &model.GenerateRequest{RequestID: "r1", Entity: "review", Count: 1}
	result, err := gen.Generate(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if client.calls != 2 {
		t.Fatalf("expected 2 calls (1 retry), got %d", client.calls)
	}
	if len(result.Data) != 1 || result.Data[0]["_index"] != 0 {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestLLMGenerator_FallsBackToSecondaryOnExhaustion(t *testing.T) {
	primary := &scriptedLLMClient{responses: []string{"bad", "bad", "bad"}}
	secondary := &scriptedLLMClient{responses: []string{`[{"a":1},{"a":2}]`}}
	gen := NewLLMGenerator(primary, secondary, 2, zerolog.Nop())

	req := &model.GenerateRequest{RequestID: "r2", Entity: "review", Count: 2}
	result, err := gen.Generate(context.Background(), req, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Metadata["llm_provider"] != "scripted" {
		t.Fatalf("unexpected provider: %v", result.Metadata["llm_provider"])
	}
	if len(result.Data) != 2 {
		t.Fatalf("expected 2 records from secondary, got %d", len(result.Data))
	}
}
