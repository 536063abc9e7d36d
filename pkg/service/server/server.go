// Package server describes the eco.v1.FootprintService gRPC service. Messages
// travel as JSON using the codec registered by this package.
package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "eco.v1.FootprintService"

// ServiceServer is the server API for FootprintService.
type ServiceServer interface {
	SubmitScore(context.Context, *SubmitScoreRequest) (*SubmitScoreResponse, error)
	SubmitQuiz(context.Context, *SubmitQuizRequest) (*SubmitQuizResponse, error)
	GetUserResults(context.Context, *GetUserResultsRequest) (*GetUserResultsResponse, error)
	GetLeaderboard(context.Context, *GetLeaderboardRequest) (*GetLeaderboardResponse, error)
	GetUserRank(context.Context, *GetUserRankRequest) (*GetUserRankResponse, error)
	mustEmbedUnimplementedServiceServer()
}

// UnimplementedServiceServer must be embedded to have forward compatible implementations.
type UnimplementedServiceServer struct{}

func (UnimplementedServiceServer) SubmitScore(context.Context, *SubmitScoreRequest) (*SubmitScoreResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SubmitScore not implemented")
}

func (UnimplementedServiceServer) SubmitQuiz(context.Context, *SubmitQuizRequest) (*SubmitQuizResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method SubmitQuiz not implemented")
}

func (UnimplementedServiceServer) GetUserResults(context.Context, *GetUserResultsRequest) (*GetUserResultsResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetUserResults not implemented")
}

func (UnimplementedServiceServer) GetLeaderboard(context.Context, *GetLeaderboardRequest) (*GetLeaderboardResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetLeaderboard not implemented")
}

func (UnimplementedServiceServer) GetUserRank(context.Context, *GetUserRankRequest) (*GetUserRankResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method GetUserRank not implemented")
}

func (UnimplementedServiceServer) mustEmbedUnimplementedServiceServer() {}

func RegisterServiceServer(s grpc.ServiceRegistrar, srv ServiceServer) {
	s.RegisterService(&Service_ServiceDesc, srv)
}

func unaryHandler[Req any, Resp any](method string, call func(ServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{
				Server:     srv,
				FullMethod: "/" + ServiceName + "/" + method,
			}
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				return call(srv.(ServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// Service_ServiceDesc is the grpc.ServiceDesc for FootprintService.
var Service_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unaryHandler("SubmitScore", ServiceServer.SubmitScore),
		unaryHandler("SubmitQuiz", ServiceServer.SubmitQuiz),
		unaryHandler("GetUserResults", ServiceServer.GetUserResults),
		unaryHandler("GetLeaderboard", ServiceServer.GetLeaderboard),
		unaryHandler("GetUserRank", ServiceServer.GetUserRank),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "eco/v1/footprint.proto",
}
