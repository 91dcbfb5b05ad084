// Package orchestrator implements the Request Orchestrator (spec.md 4.10):
// the outer contract-bearing component driving unary and streaming RPCs
// end to end, with schema resolution, routing, fallback, coherence
// scoring, and metrics.
package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/specmint/syndata/pkg/coherence"
	"github.com/specmint/syndata/pkg/generator"
	"github.com/specmint/syndata/pkg/model"
	"github.com/specmint/syndata/pkg/router"
	"github.com/specmint/syndata/pkg/schema"
	"github.com/specmint/syndata/pkg/synerr"
)

// Metrics is the subset of the telemetry collaborator the Orchestrator
// drives directly (spec.md 5: "metrics counters are process-wide and
// concurrency-safe").
type Metrics interface {
	ObserveRequest(path string, success bool)
	ObserveRecords(path string, count int)
	ObserveDuration(path string, d time.Duration)
}

type noopMetrics struct{}

func (noopMetrics) ObserveRequest(string, bool)       {}
func (noopMetrics) ObserveRecords(string, int)        {}
func (noopMetrics) ObserveDuration(string, time.Duration) {}

// Orchestrator wires the Registry, Router, and Generators together.
type Orchestrator struct {
	registry        *schema.Registry
	synthetic       generator.Generator
	llm             generator.Generator
	retrievalGen    generator.Generator
	hybrid          generator.Generator
	metrics         Metrics
	log             zerolog.Logger
	maxSyncRecords  int
	defaultBatchSize int
}

// Config bundles the Orchestrator's construction-time dependencies.
type Config struct {
	Registry         *schema.Registry
	Synthetic        generator.Generator
	LLM              generator.Generator
	Retrieval        generator.Generator
	Hybrid           generator.Generator
	Metrics          Metrics
	Log              zerolog.Logger
	MaxSyncRecords   int
	DefaultBatchSize int
}

func New(cfg Config) *Orchestrator {
	if cfg.Metrics == nil {
		cfg.Metrics = noopMetrics{}
	}
	if cfg.MaxSyncRecords <= 0 {
		cfg.MaxSyncRecords = 1000
	}
	if cfg.DefaultBatchSize <= 0 {
		cfg.DefaultBatchSize = 50
	}
	return &Orchestrator{
		registry:         cfg.Registry,
		synthetic:        cfg.Synthetic,
		llm:              cfg.LLM,
		retrievalGen:     cfg.Retrieval,
		hybrid:           cfg.Hybrid,
		metrics:          cfg.Metrics,
		log:              cfg.Log.With().Str("component", "orchestrator").Logger(),
		maxSyncRecords:   cfg.MaxSyncRecords,
		defaultBatchSize: cfg.DefaultBatchSize,
	}
}

// Generate drives the unary path of spec.md 4.10.
func (o *Orchestrator) Generate(ctx context.Context, req *model.GenerateRequest) (*model.GenerateResponse, error) {
	start := time.Now()
	log := o.log.With().Str("request_id", req.RequestID).Logger()

	if req.Count > o.maxSyncRecords {
		return nil, synerr.Newf(synerr.LimitExceeded,
			"requested count %d exceeds max_sync_records %d; use the streaming RPC instead", req.Count, o.maxSyncRecords)
	}

	decision := o.route(req, log)
	sch := o.resolveSchema(req, log)

	result, genErr := o.invoke(ctx, decision.Path, req, sch, log)
	if genErr != nil {
		o.metrics.ObserveRequest(string(decision.Path), false)
		return nil, genErr
	}

	result.Metadata["coherence_score"] = meanCoherence(req.Entity, result.Data)
	if warnings := businessRuleWarnings(req.Domain, result.Data); len(warnings) > 0 {
		result.Metadata["business_rule_warnings"] = warnings
	}

	payload, err := json.Marshal(result.Data)
	if err != nil {
		return nil, synerr.Wrap(synerr.Internal, err, "failed to serialise response data")
	}

	o.metrics.ObserveRequest(string(decision.Path), true)
	o.metrics.ObserveRecords(string(decision.Path), len(result.Data))
	o.metrics.ObserveDuration(string(decision.Path), time.Since(start))

	return &model.GenerateResponse{
		RequestID:   req.RequestID,
		Success:     true,
		Data:        payload,
		RecordCount: len(result.Data),
		Metadata:    result.Metadata,
	}, nil
}

// GenerateStream drives the streaming path of spec.md 4.10, emitting
// chunks onto send. chunk_index increases monotonically; the terminal
// chunk carries is_final=true and, on success, an empty payload.
func (o *Orchestrator) GenerateStream(ctx context.Context, req *model.GenerateRequest, send func(model.DataChunk) error) error {
	log := o.log.With().Str("request_id", req.RequestID).Logger()

	decision := o.route(req, log)
	sch := o.resolveSchema(req, log)

	result, err := o.invoke(ctx, decision.Path, req, sch, log)
	if err != nil {
		errPayload, _ := json.Marshal(map[string]string{"error": err.Error()})
		return send(model.DataChunk{RequestID: req.RequestID, Data: errPayload, ChunkIndex: 0, IsFinal: true})
	}

	batchSize := o.defaultBatchSize
	chunkIndex := 0
	for i := 0; i < len(result.Data); i += batchSize {
		end := i + batchSize
		if end > len(result.Data) {
			end = len(result.Data)
		}
		batch := result.Data[i:end]
		payload, marshalErr := json.Marshal(batch)
		if marshalErr != nil {
			errPayload, _ := json.Marshal(map[string]string{"error": marshalErr.Error()})
			return send(model.DataChunk{RequestID: req.RequestID, Data: errPayload, ChunkIndex: chunkIndex, IsFinal: true})
		}
		if sendErr := send(model.DataChunk{RequestID: req.RequestID, Data: payload, ChunkIndex: chunkIndex, IsFinal: false}); sendErr != nil {
			return sendErr
		}
		chunkIndex++

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
	}

	return send(model.DataChunk{RequestID: req.RequestID, ChunkIndex: chunkIndex, IsFinal: true})
}

func (o *Orchestrator) route(req *model.GenerateRequest, log zerolog.Logger) model.RoutingDecision {
	decision := router.Decide(req)
	log.Info().Str("path", string(decision.Path)).Str("reason", decision.Reason).Float64("confidence", decision.Confidence).Msg("routing decision")
	return decision
}

// resolveSchema implements spec.md 4.10 step 4: inline > registry-by-name
// > entity-name lookup; a miss yields a nil schema (generators fall back
// to a minimal schema), never a failure.
func (o *Orchestrator) resolveSchema(req *model.GenerateRequest, log zerolog.Logger) *schema.Schema {
	if len(req.SchemaRef) > 0 {
		sch, err := schema.ParseInline(req.SchemaRef)
		if err != nil {
			log.Warn().Err(err).Msg("inline schema failed to parse, falling back to registry/entity lookup")
		} else {
			if sch.Name != "" {
				if regErr := o.registry.Register(sch); regErr != nil && !synerr.Is(regErr, synerr.AlreadyExists) {
					log.Warn().Err(regErr).Msg("failed to register inline schema")
				}
			}
			return sch
		}
	}

	name := req.SchemaRefName
	if name == "" {
		name = req.Entity
	}
	if sch, ok := o.registry.Get(name); ok {
		return sch
	}
	if sch, ok := o.registry.Get(req.Entity); ok {
		return sch
	}
	log.Debug().Str("entity", req.Entity).Msg("no schema resolved, generators will use a minimal fallback")
	return nil
}

// invoke runs the chosen path with the fallback chains of spec.md 4.10
// step 5: RETRIEVAL falls back to SYNTHETIC on error or zero records;
// HYBRID falls back to LLM on error.
func (o *Orchestrator) invoke(ctx context.Context, path model.GenerationMethod, req *model.GenerateRequest, sch *schema.Schema, log zerolog.Logger) (*generator.Result, error) {
	switch path {
	case model.SYNTHETIC:
		return o.synthetic.Generate(ctx, req, sch)

	case model.LLM:
		return o.llm.Generate(ctx, req, sch)

	case model.RETRIEVAL:
		result, err := o.retrievalGen.Generate(ctx, req, sch)
		if err != nil || len(result.Data) == 0 {
			if err != nil {
				log.Warn().Err(err).Msg("retrieval failed, falling back to synthetic")
			} else {
				log.Info().Msg("retrieval returned zero records, falling back to synthetic")
			}
			return o.synthetic.Generate(ctx, req, sch)
		}
		return result, nil

	case model.HYBRID:
		result, err := o.hybrid.Generate(ctx, req, sch)
		if err != nil {
			log.Warn().Err(err).Msg("hybrid failed, falling back to LLM")
			return o.llm.Generate(ctx, req, sch)
		}
		return result, nil

	default:
		return o.synthetic.Generate(ctx, req, sch)
	}
}

// meanCoherence implements spec.md 4.10 step 6: score every returned
// record and average. An empty result set scores zero rather than NaN.
func meanCoherence(entity string, data []model.Record) float64 {
	if len(data) == 0 {
		return 0
	}
	sum := 0.0
	for _, rec := range data {
		sum += coherence.Score(entity, rec)
	}
	return sum / float64(len(data))
}

// businessRuleWarnings runs domain-specific coherence checks (currently
// ecommerce only, spec.md section 2's worked domain) across every
// returned record, per-record findings flattened into one slice.
func businessRuleWarnings(domain string, data []model.Record) []string {
	var warnings []string
	for i, rec := range data {
		for _, w := range coherence.BusinessRules(domain, rec) {
			warnings = append(warnings, fmt.Sprintf("record %d: %s", i, w))
		}
	}
	return warnings
}
