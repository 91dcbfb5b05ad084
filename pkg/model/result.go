package model

import "encoding/json"

// Record is a plain key->value map. Go maps keep no insertion order, and
// encoding/json writes a Record's keys sorted by name, not in the
// originating Schema's field order.
type Record map[string]interface{}

// GenerationResult is the internal result of any Generator invocation
// (spec.md section 3).
type GenerationResult struct {
	Data     []Record
	Metadata map[string]interface{}
}

// RoutingDecision is the Router's pure-function output (spec.md section 3).
type RoutingDecision struct {
	Path       GenerationMethod
	Reason     string
	Confidence float64
}

// DataChunk is one unit of the streaming RPC contract (spec.md section 6).
type DataChunk struct {
	RequestID  string          `json:"request_id"`
	Data       json.RawMessage `json:"data,omitempty"`
	ChunkIndex int             `json:"chunk_index"`
	IsFinal    bool            `json:"is_final"`
}

// GenerateResponse is the unary RPC contract (spec.md section 6).
type GenerateResponse struct {
	RequestID   string                 `json:"request_id"`
	Success     bool                   `json:"success"`
	Data        json.RawMessage        `json:"data,omitempty"`
	RecordCount int                    `json:"record_count"`
	Error       string                 `json:"error,omitempty"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}
