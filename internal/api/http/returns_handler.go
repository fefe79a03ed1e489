package http

import (
	"net/http"

	"github.com/Jalbyte/Mercador-Backend-sub000/internal/domain"
	"github.com/Jalbyte/Mercador-Backend-sub000/internal/service"
)

type ReturnsHandler struct {
	returnService service.ReturnService
}

func NewReturnsHandler(returnService service.ReturnService) *ReturnsHandler {
	return &ReturnsHandler{returnService: returnService}
}

type returnItemRequest struct {
	OrderItemID int64 `json:"order_item_id"`
	Quantity    int64 `json:"quantity"`
}

type requestReturnRequest struct {
	OrderID      int64               `json:"order_id"`
	Reason       string              `json:"reason"`
	RefundMethod domain.RefundMethod `json:"refund_method"`
	Items        []returnItemRequest `json:"items"`
}

func (h *ReturnsHandler) Request(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	var req requestReturnRequest
	if !decodeBody(w, r, &req) {
		return
	}

	items := make([]domain.ReturnItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, domain.ReturnItem{OrderItemID: it.OrderItemID, Quantity: it.Quantity})
	}

	ret, err := h.returnService.RequestReturn(r.Context(), claims.UserID, req.OrderID, req.Reason, req.RefundMethod, items)
	if err != nil {
		if err == service.ErrNotFound {
			writeServiceError(w, err)
			return
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, ret)
}

func (h *ReturnsHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 20)

	returns, total, err := h.returnService.ListUserReturns(r.Context(), claims.UserID, page, pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"returns": returns,
		"total":   total,
		"page":    page,
	})
}

// Admin endpoints.

func (h *ReturnsHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	pageSize := queryInt(r, "page_size", 20)

	returns, total, err := h.returnService.ListPendingReturns(r.Context(), page, pageSize)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"returns": returns,
		"total":   total,
		"page":    page,
	})
}

func (h *ReturnsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	returnID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid return id")
		return
	}

	ret, split, err := h.returnService.ApproveReturn(r.Context(), claims.UserID, returnID)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"return":        ret,
		"money_refund":  split.MoneyRefund,
		"points_refund": split.PointsRefund,
	})
}

type rejectReturnRequest struct {
	Note string `json:"note"`
}

func (h *ReturnsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	claims, _ := claimsFrom(r.Context())
	returnID, ok := pathID(r, "id")
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid return id")
		return
	}
	var req rejectReturnRequest
	if !decodeBody(w, r, &req) {
		return
	}

	ret, err := h.returnService.RejectReturn(r.Context(), claims.UserID, returnID, req.Note)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ret)
}
