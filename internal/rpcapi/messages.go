package rpcapi

import (
	"encoding/json"

	"github.com/specmint/syndata/pkg/model"
)

// GenerateDataRequest is the wire message for the unary and streaming
// generation RPCs. It mirrors model.GenerateRequest field-for-field; kept
// separate so the wire contract can evolve independently of the internal
// pipeline type, the way a generated protobuf message would.
type GenerateDataRequest struct {
	Domain           string                          `json:"domain"`
	Entity           string                          `json:"entity"`
	Count            int                             `json:"count"`
	Context          string                          `json:"context,omitempty"`
	Hints            []string                        `json:"hints,omitempty"`
	Scenarios        []model.Scenario                `json:"scenarios,omitempty"`
	Constraints      map[string]model.ConstraintSpec  `json:"constraints,omitempty"`
	SchemaRef        json.RawMessage                  `json:"schema_ref,omitempty"`
	SchemaRefName    string                           `json:"schema_ref_name,omitempty"`
	Flags            model.Flags                      `json:"flags,omitempty"`
	GenerationMethod model.GenerationMethod           `json:"generation_method,omitempty"`
}

func (m *GenerateDataRequest) toModel(requestID string) *model.GenerateRequest {
	return &model.GenerateRequest{
		RequestID:        requestID,
		Domain:           m.Domain,
		Entity:           m.Entity,
		Count:            m.Count,
		Context:          m.Context,
		Hints:            model.NewHintSet(m.Hints...),
		Scenarios:        m.Scenarios,
		Constraints:      m.Constraints,
		SchemaRef:        m.SchemaRef,
		SchemaRefName:    m.SchemaRefName,
		Flags:            m.Flags,
		GenerationMethod: m.GenerationMethod,
	}
}

// GenerateDataResponse is the unary RPC's wire response, a thin alias of
// model.GenerateResponse (already JSON-tagged for the HTTP surface too).
type GenerateDataResponse = model.GenerateResponse

// DataChunkMessage is the streaming RPC's wire response, a thin alias of
// model.DataChunk.
type DataChunkMessage = model.DataChunk

// GetSchemasRequest optionally filters the registry listing by domain.
type GetSchemasRequest struct {
	Domain string `json:"domain,omitempty"`
}

// GetSchemasResponse carries the flattened schema listing.
type GetSchemasResponse struct {
	Schemas []*SchemaInfo `json:"schemas"`
}

// SchemaInfo mirrors schema.Info for the wire (kept local so this package
// doesn't need to import pkg/schema's field-ordering internals directly
// in its message types).
type SchemaInfo struct {
	Name        string           `json:"name"`
	Domain      string           `json:"domain"`
	Description string           `json:"description"`
	Fields      []SchemaFieldInfo `json:"fields"`
}

// SchemaFieldInfo mirrors schema.FieldInfo for the wire.
type SchemaFieldInfo struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Required    bool        `json:"required"`
	Description string      `json:"description,omitempty"`
	Example     interface{} `json:"example,omitempty"`
}

// HealthCheckRequest is empty; present for symmetry with the other RPCs
// and to leave room for a future "service" filter field.
type HealthCheckRequest struct{}

// HealthCheckResponse reports liveness.
type HealthCheckResponse struct {
	Status string `json:"status"`
}
