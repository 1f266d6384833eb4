package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rl1809/farmers-market/internal/core/domain"
	"github.com/rl1809/farmers-market/internal/core/service"
)

type HTTPHandler struct {
	marketService *service.MarketService
	logger        *zap.Logger
}

type CreateItemRequest struct {
	Name  string `json:"name"`
	Price string `json:"price"`
}

type RegisterVendorRequest struct {
	Name string `json:"name"`
}

type StockRequest struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type SellHTTPRequest struct {
	RequestID string `json:"request_id"`
	ItemID    string `json:"item_id"`
	Quantity  int    `json:"quantity"`
}

type SellHTTPResponse struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Sale    *SaleResponse `json:"sale,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type MarketResponse struct {
	Name    string   `json:"name"`
	Date    string   `json:"date"`
	Vendors []string `json:"vendors"`
}

type ItemResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

type VendorResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type StockLineResponse struct {
	Item     ItemResponse `json:"item"`
	Quantity int          `json:"quantity"`
}

type InventoryEntryResponse struct {
	Item     ItemResponse     `json:"item"`
	Quantity int              `json:"quantity"`
	Vendors  []VendorResponse `json:"vendors"`
}

type AllocationResponse struct {
	VendorID   string `json:"vendor_id"`
	VendorName string `json:"vendor_name"`
	Quantity   int    `json:"quantity"`
}

type SaleResponse struct {
	ID          string               `json:"id"`
	RequestID   string               `json:"request_id,omitempty"`
	ItemID      string               `json:"item_id"`
	ItemName    string               `json:"item_name"`
	UnitPrice   string               `json:"unit_price"`
	Quantity    int                  `json:"quantity"`
	Total       string               `json:"total"`
	Allocations []AllocationResponse `json:"allocations"`
	CreatedAt   time.Time            `json:"created_at"`
}

func NewHTTPHandler(marketService *service.MarketService, logger *zap.Logger) *HTTPHandler {
	return &HTTPHandler{marketService: marketService, logger: logger.Named("http")}
}

// Routes builds the chi router for the market API.
func (h *HTTPHandler) Routes(requestTimeout time.Duration) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))
	r.Use(h.logRequests)

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Get("/market", h.GetMarket)

		r.Get("/items", h.ListItems)
		r.Post("/items", h.CreateItem)
		r.Get("/items/sorted", h.SortedItemList)
		r.Get("/items/{itemID}/vendors", h.VendorsThatSell)
		r.Get("/items/{itemID}/total", h.TotalItemCount)
		r.Get("/items/{itemID}/sales", h.ListItemSales)

		r.Get("/vendors", h.ListVendors)
		r.Post("/vendors", h.RegisterVendor)
		r.Get("/vendors/{vendorID}/inventory", h.VendorInventory)
		r.Post("/vendors/{vendorID}/stock", h.StockVendor)

		r.Get("/inventory", h.TotalInventory)
		r.Get("/inventory/overstocked", h.OverstockedItems)

		r.Post("/sell", h.Sell)
		r.Get("/sales/{saleID}", h.GetSale)
	})

	return r
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *HTTPHandler) GetMarket(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MarketResponse{
		Name:    h.marketService.MarketName(),
		Date:    h.marketService.MarketDate(),
		Vendors: h.marketService.VendorNames(),
	})
}

func (h *HTTPHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toItemResponses(h.marketService.Items()))
}

func (h *HTTPHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req CreateItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	item, err := h.marketService.CreateItem(req.Name, req.Price)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toItemResponse(item))
}

func (h *HTTPHandler) SortedItemList(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.marketService.SortedItemList())
}

func (h *HTTPHandler) VendorsThatSell(w http.ResponseWriter, r *http.Request) {
	itemID, ok := urlUUID(w, r, "itemID")
	if !ok {
		return
	}

	vendors, err := h.marketService.VendorsThatSell(itemID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toVendorResponses(vendors))
}

func (h *HTTPHandler) TotalItemCount(w http.ResponseWriter, r *http.Request) {
	itemID, ok := urlUUID(w, r, "itemID")
	if !ok {
		return
	}

	total, err := h.marketService.TotalItemCount(itemID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"item_id": itemID.String(), "quantity": total})
}

func (h *HTTPHandler) ListItemSales(w http.ResponseWriter, r *http.Request) {
	itemID, ok := urlUUID(w, r, "itemID")
	if !ok {
		return
	}

	sales, err := h.marketService.SalesByItem(r.Context(), itemID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]SaleResponse, 0, len(sales))
	for _, s := range sales {
		out = append(out, toSaleResponse(s))
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) ListVendors(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toVendorResponses(h.marketService.Vendors()))
}

func (h *HTTPHandler) RegisterVendor(w http.ResponseWriter, r *http.Request) {
	var req RegisterVendorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	v, err := h.marketService.RegisterVendor(req.Name)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, VendorResponse{ID: v.ID.String(), Name: v.Name})
}

func (h *HTTPHandler) VendorInventory(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := urlUUID(w, r, "vendorID")
	if !ok {
		return
	}

	lines, err := h.marketService.VendorInventory(vendorID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]StockLineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, StockLineResponse{Item: toItemResponse(l.Item), Quantity: l.Quantity})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) StockVendor(w http.ResponseWriter, r *http.Request) {
	vendorID, ok := urlUUID(w, r, "vendorID")
	if !ok {
		return
	}

	var req StockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	itemID, err := uuid.Parse(req.ItemID)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid item_id"})
		return
	}

	level, err := h.marketService.StockVendor(r.Context(), vendorID, itemID, req.Quantity)
	if err != nil {
		h.writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"vendor_id": vendorID.String(),
		"item_id":   itemID.String(),
		"quantity":  level,
	})
}

func (h *HTTPHandler) TotalInventory(w http.ResponseWriter, r *http.Request) {
	lines := h.marketService.TotalInventory()

	out := make([]InventoryEntryResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, InventoryEntryResponse{
			Item:     toItemResponse(l.Item),
			Quantity: l.Quantity,
			Vendors:  toVendorResponses(l.Vendors),
		})
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *HTTPHandler) OverstockedItems(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toItemResponses(h.marketService.OverstockedItems()))
}

func (h *HTTPHandler) Sell(w http.ResponseWriter, r *http.Request) {
	var req SellHTTPRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, SellHTTPResponse{
			Success: false,
			Message: "invalid request body",
		})
		return
	}

	itemID, err := uuid.Parse(req.ItemID)
	if req.RequestID == "" || err != nil || req.Quantity <= 0 {
		writeJSON(w, http.StatusBadRequest, SellHTTPResponse{
			Success: false,
			Message: "missing required fields",
		})
		return
	}

	sale, err := h.marketService.Sell(r.Context(), req.RequestID, itemID, req.Quantity)
	if err != nil {
		status, message := sellFailure(err)
		if status == http.StatusInternalServerError {
			h.logger.Error("sell failed", zap.String("request_id", req.RequestID), zap.Error(err))
		}
		writeJSON(w, status, SellHTTPResponse{
			Success: false,
			Message: message,
		})
		return
	}

	resp := toSaleResponse(*sale)
	writeJSON(w, http.StatusOK, SellHTTPResponse{
		Success: true,
		Message: "sale completed successfully",
		Sale:    &resp,
	})
}

func (h *HTTPHandler) GetSale(w http.ResponseWriter, r *http.Request) {
	saleID, ok := urlUUID(w, r, "saleID")
	if !ok {
		return
	}

	sale, err := h.marketService.Sale(r.Context(), saleID)
	if err != nil {
		h.writeError(w, err)
		return
	}
	if sale == nil {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "sale not found"})
		return
	}

	writeJSON(w, http.StatusOK, toSaleResponse(*sale))
}

func (h *HTTPHandler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		h.logger.Debug("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", middleware.GetReqID(r.Context())))
	})
}

// sellFailure maps a Sell error to an HTTP status and message.
func sellFailure(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrDuplicateRequest):
		return http.StatusConflict, "duplicate request"
	case errors.Is(err, service.ErrInsufficientStock):
		return http.StatusGone, "sold out"
	case errors.Is(err, service.ErrItemNotFound):
		return http.StatusNotFound, "item not found"
	case errors.Is(err, domain.ErrInvalidQuantity):
		return http.StatusBadRequest, "invalid quantity"
	case errors.Is(err, service.ErrServiceClosed):
		return http.StatusServiceUnavailable, "market closed"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func (h *HTTPHandler) writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrItemNotFound), errors.Is(err, service.ErrVendorNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidName),
		errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidQuantity):
		status = http.StatusBadRequest
	default:
		h.logger.Error("request failed", zap.Error(err))
		writeJSON(w, status, ErrorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, status, ErrorResponse{Error: err.Error()})
}

func urlUUID(w http.ResponseWriter, r *http.Request, param string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, param))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid " + param})
		return uuid.Nil, false
	}
	return id, true
}

func toItemResponse(item *domain.Item) ItemResponse {
	return ItemResponse{ID: item.ID.String(), Name: item.Name, Price: item.PriceString()}
}

func toItemResponses(items []*domain.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, toItemResponse(item))
	}
	return out
}

func toVendorResponses(vendors []service.VendorRef) []VendorResponse {
	out := make([]VendorResponse, 0, len(vendors))
	for _, v := range vendors {
		out = append(out, VendorResponse{ID: v.ID.String(), Name: v.Name})
	}
	return out
}

func toSaleResponse(s domain.Sale) SaleResponse {
	allocations := make([]AllocationResponse, 0, len(s.Allocations))
	for _, a := range s.Allocations {
		allocations = append(allocations, AllocationResponse{
			VendorID:   a.VendorID.String(),
			VendorName: a.VendorName,
			Quantity:   a.Quantity,
		})
	}

	return SaleResponse{
		ID:          s.ID.String(),
		RequestID:   s.RequestID,
		ItemID:      s.ItemID.String(),
		ItemName:    s.ItemName,
		UnitPrice:   s.UnitPrice.StringFixed(2),
		Quantity:    s.Quantity,
		Total:       s.Total().StringFixed(2),
		Allocations: allocations,
		CreatedAt:   s.CreatedAt,
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
