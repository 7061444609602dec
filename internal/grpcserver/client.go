package grpcserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"pricecompare/internal/pricechart"
)

type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) Synthesize(ctx context.Context, price string, opts ...grpc.CallOption) ([]pricechart.PricePoint, error) {
	out := new(structpb.ListValue)
	if err := c.cc.Invoke(ctx, SynthesizeMethod, wrapperspb.String(price), out, opts...); err != nil {
		return nil, err
	}
	return pointsFromProto(out), nil
}
