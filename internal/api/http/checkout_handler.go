package http

import (
	"net/http"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/service"
)

type CheckoutHandler struct {
	checkoutService service.CheckoutService
}

func NewCheckoutHandler(checkoutService service.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

type checkoutRequest struct {
	OrderID int64 `json:"orderId"`
}

// Start creates a payment gateway session for the order and returns the
// URL the buyer should be redirected to.
func (h *CheckoutHandler) Start(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	var req checkoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	redirectURL, err := h.checkoutService.StartGatewayCheckout(r.Context(), claims.UserID, req.OrderID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"redirect_url": redirectURL})
}

// PayWithPoints settles the order entirely from the loyalty balance.
func (h *CheckoutHandler) PayWithPoints(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	var req checkoutRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if err := h.checkoutService.PayWithPoints(r.Context(), claims.UserID, req.OrderID); err != nil {
		writePointsCheckoutFailure(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"orderId": req.OrderID,
		"message": "order paid with points",
	})
}

type declarePointsRequest struct {
	Points int64 `json:"points"`
}

// DeclarePointsUse records the points the buyer wants applied to a
// gateway checkout before the payment happens.
func (h *CheckoutHandler) DeclarePointsUse(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	orderID, ok := pathID(r, "orderId")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid order id")
		return
	}
	var req declarePointsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if req.Points <= 0 {
		writeError(w, http.StatusBadRequest, "points must be positive")
		return
	}

	op, err := h.checkoutService.DeclarePointsUse(r.Context(), claims.UserID, orderID, req.Points)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, op)
}
