package handler

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/rl1809/farmers-market/internal/core/service"
)

type GRPCHandler struct {
	marketService *service.MarketService
	logger        *zap.Logger
}

func NewGRPCHandler(marketService *service.MarketService, logger *zap.Logger) *GRPCHandler {
	return &GRPCHandler{marketService: marketService, logger: logger.Named("grpc")}
}

func (h *GRPCHandler) Sell(ctx context.Context, req *SellRequest) (*SellResponse, error) {
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid item_id %q", req.ItemID)
	}
	if req.RequestID == "" || req.Quantity <= 0 {
		return nil, status.Error(codes.InvalidArgument, "request_id and a positive quantity are required")
	}

	sale, err := h.marketService.Sell(ctx, req.RequestID, itemID, int(req.Quantity))
	if err != nil {
		if errors.Is(err, service.ErrDuplicateRequest) {
			return &SellResponse{
				Success: false,
				Message: "duplicate request",
			}, nil
		}
		if errors.Is(err, service.ErrInsufficientStock) {
			return &SellResponse{
				Success: false,
				Message: "sold out",
			}, nil
		}
		if errors.Is(err, service.ErrItemNotFound) {
			return nil, status.Error(codes.NotFound, "item not found")
		}
		if errors.Is(err, service.ErrServiceClosed) {
			return nil, status.Error(codes.Unavailable, "market closed")
		}
		h.logger.Error("sell failed", zap.String("request_id", req.RequestID), zap.Error(err))
		return &SellResponse{
			Success: false,
			Message: "internal error",
		}, nil
	}

	resp := toSaleResponse(*sale)
	return &SellResponse{
		Success: true,
		Message: "sale completed successfully",
		Sale:    &resp,
	}, nil
}

func (h *GRPCHandler) GetInventory(ctx context.Context, _ *InventoryRequest) (*InventoryResponse, error) {
	lines := h.marketService.TotalInventory()

	resp := &InventoryResponse{
		Market:  h.marketService.MarketName(),
		Date:    h.marketService.MarketDate(),
		Entries: make([]InventoryEntryResponse, 0, len(lines)),
	}
	for _, l := range lines {
		resp.Entries = append(resp.Entries, InventoryEntryResponse{
			Item:     toItemResponse(l.Item),
			Quantity: l.Quantity,
			Vendors:  toVendorResponses(l.Vendors),
		})
	}

	return resp, nil
}

func (h *GRPCHandler) GetOverstocked(ctx context.Context, _ *InventoryRequest) (*OverstockedResponse, error) {
	return &OverstockedResponse{Items: toItemResponses(h.marketService.OverstockedItems())}, nil
}
