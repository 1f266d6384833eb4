package handler

import (
	"context"

	"google.golang.org/grpc"
)

const (
	marketServiceName    = "market.v1.MarketService"
	sellMethod           = "/" + marketServiceName + "/Sell"
	getInventoryMethod   = "/" + marketServiceName + "/GetInventory"
	getOverstockedMethod = "/" + marketServiceName + "/GetOverstocked"
)

type SellRequest struct {
	RequestID string `json:"request_id"`
	ItemID    string `json:"item_id"`
	Quantity  int32  `json:"quantity"`
}

type SellResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Sale    *SaleResponse `json:"sale,omitempty"`
}

type InventoryRequest struct{}

type InventoryResponse struct {
	Market  string                   `json:"market"`
	Date    string                   `json:"date"`
	Entries []InventoryEntryResponse `json:"entries"`
}

type OverstockedResponse struct {
	Items []ItemResponse `json:"items"`
}

type MarketServiceServer interface {
	Sell(context.Context, *SellRequest) (*SellResponse, error)
	GetInventory(context.Context, *InventoryRequest) (*InventoryResponse, error)
	GetOverstocked(context.Context, *InventoryRequest) (*OverstockedResponse, error)
}

var marketServiceDesc = grpc.ServiceDesc{
	ServiceName: marketServiceName,
	HandlerType: (*MarketServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Sell", Handler: sellHandler},
		{MethodName: "GetInventory", Handler: getInventoryHandler},
		{MethodName: "GetOverstocked", Handler: getOverstockedHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "market/v1/market",
}

func RegisterMarketServiceServer(s grpc.ServiceRegistrar, srv MarketServiceServer) {
	s.RegisterService(&marketServiceDesc, srv)
}

func sellHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(SellRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketServiceServer).Sell(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: sellMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(MarketServiceServer).Sell(ctx, req.(*SellRequest))
	})
}

func getInventoryHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(InventoryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketServiceServer).GetInventory(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getInventoryMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(MarketServiceServer).GetInventory(ctx, req.(*InventoryRequest))
	})
}

func getOverstockedHandler(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	in := new(InventoryRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(MarketServiceServer).GetOverstocked(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: getOverstockedMethod}
	return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
		return srv.(MarketServiceServer).GetOverstocked(ctx, req.(*InventoryRequest))
	})
}

// MarketServiceClient calls the market service over a connection that can
// negotiate the JSON codec.
type MarketServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewMarketServiceClient(cc grpc.ClientConnInterface) *MarketServiceClient {
	return &MarketServiceClient{cc: cc}
}

func (c *MarketServiceClient) Sell(ctx context.Context, in *SellRequest, opts ...grpc.CallOption) (*SellResponse, error) {
	out := new(SellResponse)
	if err := c.cc.Invoke(ctx, sellMethod, in, out, c.callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MarketServiceClient) GetInventory(ctx context.Context, in *InventoryRequest, opts ...grpc.CallOption) (*InventoryResponse, error) {
	out := new(InventoryResponse)
	if err := c.cc.Invoke(ctx, getInventoryMethod, in, out, c.callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MarketServiceClient) GetOverstocked(ctx context.Context, in *InventoryRequest, opts ...grpc.CallOption) (*OverstockedResponse, error) {
	out := new(OverstockedResponse)
	if err := c.cc.Invoke(ctx, getOverstockedMethod, in, out, c.callOptions(opts)...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *MarketServiceClient) callOptions(opts []grpc.CallOption) []grpc.CallOption {
	return append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
}
