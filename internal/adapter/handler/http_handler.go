package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/rl1809/shop-cart/internal/adapter/catalog"
	"github.com/rl1809/shop-cart/internal/core/domain"
	"github.com/rl1809/shop-cart/internal/core/service"
	"github.com/rl1809/shop-cart/internal/port"
)

type HTTPHandler struct {
	cart    *service.CartService
	orders  *service.OrderService
	catalog port.CatalogClient
	log     logrus.FieldLogger
}

func NewHTTPHandler(cart *service.CartService, orders *service.OrderService, cat port.CatalogClient, log logrus.FieldLogger) *HTTPHandler {
	return &HTTPHandler{
		cart:    cart,
		orders:  orders,
		catalog: cat,
		log:     log,
	}
}

type AddItemRequest struct {
	ID    int64           `json:"id"`
	Title string          `json:"title"`
	Price decimal.Decimal `json:"price"`
	Image string          `json:"image"`
}

type ChangeQuantityRequest struct {
	ID    int64 `json:"id"`
	Delta int   `json:"delta"`
}

type RemoveItemRequest struct {
	ID int64 `json:"id"`
}

type CartResponse struct {
	Items []domain.CartItem `json:"items"`
	Count int               `json:"count"`
	Total decimal.Decimal   `json:"total"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func (h *HTTPHandler) Products(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	products, err := h.catalog.FetchProducts(r.Context())
	if err != nil {
		h.log.WithError(err).Warn("catalog fetch failed")
		status := http.StatusInternalServerError
		if errors.Is(err, catalog.ErrUnavailable) {
			status = http.StatusBadGateway
		}
		writeJSON(w, status, ErrorResponse{Error: "failed to load products"})
		return
	}

	writeJSON(w, http.StatusOK, products)
}

func (h *HTTPHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, CartResponse{
		Items: h.cart.Items(),
		Count: h.cart.ItemCount(),
		Total: h.cart.Total(),
	})
}

func (h *HTTPHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	log, ok := h.mutation(w, r)
	if !ok {
		return
	}

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	product := domain.Product{ID: req.ID, Title: req.Title, Price: req.Price, Image: req.Image}
	if err := product.Validate(); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	if err := h.cart.AddItem(r.Context(), product); err != nil {
		log.WithError(err).Error("add item failed")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	log.WithField("product_id", req.ID).Info("item added")
	h.writeCart(w)
}

func (h *HTTPHandler) ChangeQuantity(w http.ResponseWriter, r *http.Request) {
	log, ok := h.mutation(w, r)
	if !ok {
		return
	}

	var req ChangeQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.ID <= 0 || req.Delta == 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing required fields"})
		return
	}

	if err := h.cart.ChangeQuantity(r.Context(), req.ID, req.Delta); err != nil {
		log.WithError(err).Error("change quantity failed")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	h.writeCart(w)
}

func (h *HTTPHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	log, ok := h.mutation(w, r)
	if !ok {
		return
	}

	var req RemoveItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if req.ID <= 0 {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "missing required fields"})
		return
	}

	if err := h.cart.RemoveItem(r.Context(), req.ID); err != nil {
		log.WithError(err).Error("remove item failed")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	h.writeCart(w)
}

func (h *HTTPHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	log, ok := h.mutation(w, r)
	if !ok {
		return
	}

	if err := h.cart.Clear(r.Context()); err != nil {
		log.WithError(err).Error("clear cart failed")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	h.writeCart(w)
}

func (h *HTTPHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	log, ok := h.mutation(w, r)
	if !ok {
		return
	}

	order, err := h.orders.Checkout(r.Context())
	if err != nil {
		if errors.Is(err, service.ErrEmptyCart) {
			writeJSON(w, http.StatusConflict, ErrorResponse{Error: "cart is empty"})
			return
		}
		if errors.Is(err, service.ErrCartNotCleared) {
			// The order is durable; tell the caller which step failed.
			log.WithError(err).Error("checkout partially completed")
			writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
			return
		}
		log.WithError(err).Error("checkout failed")
		writeJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, h.orders.Orders())
}

func (h *HTTPHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeCart writes the current cart state; mutation endpoints respond with
// it so the caller never needs a follow-up read.
func (h *HTTPHandler) writeCart(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, CartResponse{
		Items: h.cart.Items(),
		Count: h.cart.ItemCount(),
		Total: h.cart.Total(),
	})
}

// mutation guards write endpoints: POST only, and a per-request ID on the log
// entry so persisted-state changes can be traced.
func (h *HTTPHandler) mutation(w http.ResponseWriter, r *http.Request) (logrus.FieldLogger, bool) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}

	return h.log.WithField("request_id", uuid.NewString()), true
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}
