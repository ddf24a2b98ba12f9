package transport

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// #region service-desc
// Messages are google.protobuf.Struct values, so the service is described by
// hand instead of through generated stubs.
const (
	serviceName       = "fuzzy.v1.Inference"
	inferMethod       = "/" + serviceName + "/Infer"
	listSystemsMethod = "/" + serviceName + "/ListSystems"
)

// InferenceServer is implemented by Server.
type InferenceServer interface {
	Infer(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListSystems(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*InferenceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Infer", Handler: inferHandler},
		{MethodName: "ListSystems", Handler: listSystemsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fuzzy/v1/inference.proto",
}

func inferHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InferenceServer).Infer(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: inferMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(InferenceServer).Infer(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func listSystemsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(InferenceServer).ListSystems(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: listSystemsMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(InferenceServer).ListSystems(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// #endregion service-desc
