package generator

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/specmint/syndata/pkg/model"
	"github.com/specmint/syndata/pkg/prompt"
	"github.com/specmint/syndata/pkg/retrieval"
	"github.com/specmint/syndata/pkg/schema"
)

// HybridGenerator composes Retrieval and LLM (spec.md 4.8): retrieve
// examples, inject them into the LLM prompt, tag the result with how many
// were used.
type HybridGenerator struct {
	retrieval *RetrievalGenerator
	llm       *LLMGenerator
	log       zerolog.Logger
}

func NewHybridGenerator(retrievalGen *RetrievalGenerator, llmGen *LLMGenerator, log zerolog.Logger) *HybridGenerator {
	return &HybridGenerator{retrieval: retrievalGen, llm: llmGen, log: log.With().Str("component", "hybrid_generator").Logger()}
}

func (g *HybridGenerator) Name() string { return "hybrid" }

func (g *HybridGenerator) Generate(ctx context.Context, req *model.GenerateRequest, sch *schema.Schema) (*Result, error) {
	examples, err := g.retrieval.search(ctx, req)
	if err != nil {
		return nil, err
	}

	promptExamples := make([]prompt.RetrievalExample, 0, len(examples))
	for _, ex := range examples {
		promptExamples = append(promptExamples, prompt.RetrievalExample{ID: ex.ID, Data: ex.Data})
	}

	if len(examples) == 0 {
		g.log.Warn().Str("request_id", req.RequestID).Msg("no retrieval examples found, degrading to LLM alone")
	}

	result, err := g.llm.GenerateWithExamples(ctx, req, sch, promptExamples)
	if err != nil {
		return nil, err
	}

	result.Metadata["generation_path"] = "HYBRID"
	result.Metadata["retrieval_examples_used"] = len(examples)
	if len(examples) > 0 {
		result.Metadata["retrieval_collection"] = string(retrieval.CollectionFor(req.Flags.DefectTriggering, req.Flags.ProductionLike))
	}
	return result, nil
}
