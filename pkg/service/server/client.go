package server

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceClient is the client API for FootprintService.
type ServiceClient interface {
	SubmitScore(ctx context.Context, in *SubmitScoreRequest, opts ...grpc.CallOption) (*SubmitScoreResponse, error)
	SubmitQuiz(ctx context.Context, in *SubmitQuizRequest, opts ...grpc.CallOption) (*SubmitQuizResponse, error)
	GetUserResults(ctx context.Context, in *GetUserResultsRequest, opts ...grpc.CallOption) (*GetUserResultsResponse, error)
	GetLeaderboard(ctx context.Context, in *GetLeaderboardRequest, opts ...grpc.CallOption) (*GetLeaderboardResponse, error)
	GetUserRank(ctx context.Context, in *GetUserRankRequest, opts ...grpc.CallOption) (*GetUserRankResponse, error)
}

type serviceClient struct {
	cc grpc.ClientConnInterface
}

func NewServiceClient(cc grpc.ClientConnInterface) ServiceClient {
	return &serviceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in interface{}, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *serviceClient) SubmitScore(ctx context.Context, in *SubmitScoreRequest, opts ...grpc.CallOption) (*SubmitScoreResponse, error) {
	return invoke[SubmitScoreResponse](ctx, c.cc, "SubmitScore", in, opts)
}

func (c *serviceClient) SubmitQuiz(ctx context.Context, in *SubmitQuizRequest, opts ...grpc.CallOption) (*SubmitQuizResponse, error) {
	return invoke[SubmitQuizResponse](ctx, c.cc, "SubmitQuiz", in, opts)
}

func (c *serviceClient) GetUserResults(ctx context.Context, in *GetUserResultsRequest, opts ...grpc.CallOption) (*GetUserResultsResponse, error) {
	return invoke[GetUserResultsResponse](ctx, c.cc, "GetUserResults", in, opts)
}

func (c *serviceClient) GetLeaderboard(ctx context.Context, in *GetLeaderboardRequest, opts ...grpc.CallOption) (*GetLeaderboardResponse, error) {
	return invoke[GetLeaderboardResponse](ctx, c.cc, "GetLeaderboard", in, opts)
}

func (c *serviceClient) GetUserRank(ctx context.Context, in *GetUserRankRequest, opts ...grpc.CallOption) (*GetUserRankResponse, error) {
	return invoke[GetUserRankResponse](ctx, c.cc, "GetUserRank", in, opts)
}
