package rpcapi

import (
	"encoding/json"
	"fmt"

	"google.golang.org/grpc/encoding"
)

// jsonCodec is a grpc-go wire codec that marshals messages as JSON
// instead of protobuf. This lets the service define its gRPC contract
// (GenerateData/GenerateDataStream/GetSchemas/HealthCheck) as a hand-built
// grpc.ServiceDesc over plain Go structs, without a protoc/.proto
// toolchain step. grpc-go's encoding.Codec interface is transport-level
// only — it has no opinion on the wire format, so this is a supported
// extension point, not a hack around the framework.
type jsonCodec struct{}

const codecName = "json"

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("rpcapi: failed to marshal %T: %w", v, err)
	}
	return b, nil
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("rpcapi: failed to unmarshal into %T: %w", v, err)
	}
	return nil
}

func (jsonCodec) Name() string { return codecName }

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
