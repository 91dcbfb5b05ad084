package rpcapi

import (
	"context"

	"google.golang.org/grpc"
)

// DataServiceServer is the hand-written equivalent of a protoc-generated
// server interface for the syndata.v1.DataService contract (spec.md
// section 6): GenerateData (unary), GenerateDataStream (server
// streaming), GetSchemas, and HealthCheck.
type DataServiceServer interface {
	GenerateData(context.Context, *GenerateDataRequest) (*GenerateDataResponse, error)
	GenerateDataStream(*GenerateDataRequest, DataService_GenerateDataStreamServer) error
	GetSchemas(context.Context, *GetSchemasRequest) (*GetSchemasResponse, error)
	HealthCheck(context.Context, *HealthCheckRequest) (*HealthCheckResponse, error)
}

// DataService_GenerateDataStreamServer is the server-side handle for the
// streaming RPC, mirroring the Send-only stream interface protoc would
// generate for a server-streaming method.
type DataService_GenerateDataStreamServer interface {
	Send(*DataChunkMessage) error
	grpc.ServerStream
}

type generateDataStreamServer struct {
	grpc.ServerStream
}

func (s *generateDataStreamServer) Send(chunk *DataChunkMessage) error {
	return s.ServerStream.SendMsg(chunk)
}

func _DataService_GenerateData_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GenerateDataRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DataServiceServer).GenerateData(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/syndata.v1.DataService/GenerateData"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DataServiceServer).GenerateData(ctx, req.(*GenerateDataRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _DataService_GenerateDataStream_Handler(srv interface{}, stream grpc.ServerStream) error {
	in := new(GenerateDataRequest)
	if err := stream.RecvMsg(in); err != nil {
		return err
	}
	return srv.(DataServiceServer).GenerateDataStream(in, &generateDataStreamServer{stream})
}

func _DataService_GetSchemas_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetSchemasRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DataServiceServer).GetSchemas(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/syndata.v1.DataService/GetSchemas"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DataServiceServer).GetSchemas(ctx, req.(*GetSchemasRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _DataService_HealthCheck_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(HealthCheckRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(DataServiceServer).HealthCheck(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/syndata.v1.DataService/HealthCheck"}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(DataServiceServer).HealthCheck(ctx, req.(*HealthCheckRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// dataServiceDesc is the hand-built grpc.ServiceDesc a protoc-gen-go-grpc
// plugin would otherwise generate from a .proto file. Hand-building it
// lets this service expose a conventional four-method gRPC contract
// without a protoc build step, using the JSON wire codec registered in
// codec.go.
var dataServiceDesc = grpc.ServiceDesc{
	ServiceName: "syndata.v1.DataService",
	HandlerType: (*DataServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GenerateData", Handler: _DataService_GenerateData_Handler},
		{MethodName: "GetSchemas", Handler: _DataService_GetSchemas_Handler},
		{MethodName: "HealthCheck", Handler: _DataService_HealthCheck_Handler},
	},
	Streams: []grpc.StreamDesc{
		{StreamName: "GenerateDataStream", Handler: _DataService_GenerateDataStream_Handler, ServerStreams: true},
	},
	Metadata: "internal/rpcapi/service.go",
}

// RegisterDataServiceServer wires srv into s, analogous to a generated
// RegisterDataServiceServer function.
func RegisterDataServiceServer(s *grpc.Server, srv DataServiceServer) {
	s.RegisterService(&dataServiceDesc, srv)
}
