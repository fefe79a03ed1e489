package http

import (
	"net/http"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/service"
)

type OrderHandler struct {
	orderService service.OrderService
}

func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// Create snapshots the caller's cart into a pending order.
func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())

	order, err := h.orderService.CreateOrderFromCart(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 20)

	orders, total, err := h.orderService.ListOrders(r.Context(), claims.UserID, page, pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"orders": orders,
		"total":  total,
		"page":   page,
	})
}

func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	orderID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	order, err := h.orderService.GetOrder(r.Context(), claims.UserID, orderID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

// Keys lists the license keys delivered for a paid order.
func (h *OrderHandler) Keys(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	orderID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}

	keys, err := h.orderService.GetOrderKeys(r.Context(), claims.UserID, orderID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"keys": keys})
}
