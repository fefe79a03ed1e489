package http

import (
	"net/http"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/service"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())

	cart, items, total, err := h.cartService.GetCart(r.Context(), claims.UserID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"cart":  cart,
		"items": items,
		"total": total,
	})
}

type addCartItemRequest struct {
	ProductID int64 `json:"product_id"`
	Quantity  int64 `json:"quantity"`
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	var req addCartItemRequest
	if !decodeBody(w, r, &req) {
		return
	}

	item, err := h.cartService.AddItem(r.Context(), claims.UserID, req.ProductID, req.Quantity)
	if err != nil {
		if err == service.ErrNotFound {
			writeServiceError(w, err)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

type updateQuantityRequest struct {
	Quantity int64 `json:"quantity"`
}

func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	itemID, ok := pathID(r, "itemId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}
	var req updateQuantityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.cartService.UpdateItemQuantity(r.Context(), claims.UserID, itemID, req.Quantity); err != nil {
		if err == service.ErrNotFound {
			writeServiceError(w, err)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	itemID, ok := pathID(r, "itemId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid item id")
		return
	}

	if err := h.cartService.RemoveItem(r.Context(), claims.UserID, itemID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())

	if err := h.cartService.ClearCart(r.Context(), claims.UserID); err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
