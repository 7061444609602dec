// Package grpcserver exposes the price chart synthesizer over gRPC. Messages
// are the well-known wrapper and struct types, so no generated code is needed.
package grpcserver

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"pricecompare/internal/pricechart"
)

const (
	ServiceName      = "pricecompare.PriceChart"
	SynthesizeMethod = "/" + ServiceName + "/Synthesize"
)

// PriceChartServer takes the displayed price text and answers with a list of
// {label, value} structs, oldest first.
type PriceChartServer interface {
	Synthesize(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error)
}

var PriceChartServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PriceChartServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Synthesize", Handler: synthesizeHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "pricecompare/pricechart.proto",
}

func RegisterPriceChartServer(s grpc.ServiceRegistrar, srv PriceChartServer) {
	s.RegisterService(&PriceChartServiceDesc, srv)
}

func synthesizeHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PriceChartServer).Synthesize(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: SynthesizeMethod}
	handler := func(ctx context.Context, req any) (any, error) {
		return srv.(PriceChartServer).Synthesize(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

type Server struct {
	Synth *pricechart.Synthesizer
}

func NewServer(synth *pricechart.Synthesizer) *Server {
	if synth == nil {
		synth = pricechart.NewSynthesizer()
	}
	return &Server{Synth: synth}
}

func (s *Server) Synthesize(ctx context.Context, req *wrapperspb.StringValue) (*structpb.ListValue, error) {
	text := strings.TrimSpace(req.GetValue())
	if text == "" {
		return nil, status.Error(codes.InvalidArgument, "price required")
	}

	p, err := pricechart.ParsePrice(text)
	if errors.Is(err, pricechart.ErrInvalidPrice) {
		return nil, status.Error(codes.InvalidArgument, "price must be numeric")
	}
	if err != nil {
		return nil, status.Error(codes.Internal, "parse failed")
	}

	return pointsToProto(s.Synth.Synthesize(p)), nil
}

func pointsToProto(points []pricechart.PricePoint) *structpb.ListValue {
	out := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(points))}
	for _, p := range points {
		out.Values = append(out.Values, structpb.NewStructValue(&structpb.Struct{
			Fields: map[string]*structpb.Value{
				"label": structpb.NewStringValue(p.Label),
				"value": structpb.NewNumberValue(float64(p.Value)),
			},
		}))
	}
	return out
}

func pointsFromProto(list *structpb.ListValue) []pricechart.PricePoint {
	out := make([]pricechart.PricePoint, 0, len(list.GetValues()))
	for _, v := range list.GetValues() {
		fields := v.GetStructValue().GetFields()
		out = append(out, pricechart.PricePoint{
			Label: fields["label"].GetStringValue(),
			Value: int64(fields["value"].GetNumberValue()),
		})
	}
	return out
}
